package model

import "time"

type ProjectionType struct {
	DTO
	Name string `gorm:"uniqueIndex;not null;size:50" json:"name"` // 2D, 3D, IMAX...
}

type Screening struct {
	DTO
	MovieId          uint      `gorm:"not null;index" json:"movieId"`
	AuditoriumId     uint      `gorm:"not null;uniqueIndex:uniq_auditorium_start_time,priority:1" json:"auditoriumId"`
	ProjectionTypeId *uint     `json:"projectionTypeId"`
	StartTime        time.Time `gorm:"not null;uniqueIndex:uniq_auditorium_start_time,priority:2" json:"start_time"`
	PublishedAt      time.Time `gorm:"not null" json:"published_at"`

	Movie          Movie           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignKey:MovieId" json:"movie"`
	Auditorium     Auditorium      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignKey:AuditoriumId" json:"auditorium"`
	ProjectionType *ProjectionType `gorm:"foreignKey:ProjectionTypeId" json:"projectionType"`
}

type CreateScreeningInput struct {
	MovieId          uint       `json:"movie_id" validate:"required,gt=0"`
	AuditoriumId     uint       `json:"auditorium_id" validate:"required,gt=0"`
	ProjectionTypeId *uint      `json:"projection_type_id" validate:"omitempty,gt=0"`
	StartTime        time.Time  `json:"start_time" validate:"required"`
	PublishedAt      *time.Time `json:"published_at"`
}

type UpdateScreeningInput struct {
	MovieId          *uint      `json:"movie_id" validate:"omitempty,gt=0"`
	AuditoriumId     *uint      `json:"auditorium_id" validate:"omitempty,gt=0"`
	ProjectionTypeId *uint      `json:"projection_type_id" validate:"omitempty,gt=0"`
	StartTime        *time.Time `json:"start_time"`
	PublishedAt      *time.Time `json:"published_at"`
}

type FilterScreeningInput struct {
	Pagination
	MovieId      uint   `query:"movieId" validate:"omitempty,gt=0"`
	AuditoriumId uint   `query:"auditoriumId" validate:"omitempty,gt=0"`
	StartAfter   string `query:"startAfter"`
	StartBefore  string `query:"startBefore"`
}
