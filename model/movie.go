package model

import "cinema_booking/utils"

type Genre struct {
	DTO
	Name string `gorm:"uniqueIndex;not null" validate:"required" json:"name"`
}

type Movie struct {
	DTO
	Title             string           `gorm:"not null;index" validate:"required" json:"title"`
	OriginalTitle     string           `json:"originalTitle"`
	Description       string           `gorm:"type:text" json:"description"`
	ReleaseDate       utils.CustomDate `gorm:"type:date;not null" validate:"required" json:"releaseDate"`
	CinemaReleaseDate utils.CustomDate `gorm:"type:date;not null" json:"cinemaReleaseDate"`
	DurationMinutes   int              `gorm:"not null" validate:"required,gt=0" json:"durationMinutes"`
	Directors         string           `json:"directors"`
	PosterPath        string           `json:"posterPath"`
	Slug              string           `gorm:"uniqueIndex" json:"slug"`
	Genres            []Genre          `gorm:"many2many:movie_genres;" json:"genres"`
}

type Movies []Movie

type CreateMovieInput struct {
	Title             string            `json:"title" validate:"required,min=1,max=255"`
	OriginalTitle     string            `json:"originalTitle" validate:"omitempty,max=255"`
	Description       string            `json:"description" validate:"omitempty,max=500"`
	ReleaseDate       utils.CustomDate  `json:"releaseDate" validate:"required"`
	CinemaReleaseDate *utils.CustomDate `json:"cinemaReleaseDate"`
	DurationMinutes   int               `json:"durationMinutes" validate:"required,gt=0"`
	Directors         string            `json:"directors" validate:"omitempty,max=255"`
	PosterPath        string            `json:"posterPath"`
	GenreIds          []uint            `json:"genreIds" validate:"omitempty,dive,gt=0"`
}

type EditMovieInput struct {
	Title             *string           `json:"title"`
	OriginalTitle     *string           `json:"originalTitle"`
	Description       *string           `json:"description"`
	ReleaseDate       *utils.CustomDate `json:"releaseDate"`
	CinemaReleaseDate *utils.CustomDate `json:"cinemaReleaseDate"`
	DurationMinutes   *int              `json:"durationMinutes" validate:"omitempty,gt=0"`
	Directors         *string           `json:"directors"`
	PosterPath        *string           `json:"posterPath"`
	GenreIds          *[]uint           `json:"genreIds"`
}

type FilterMovieInput struct {
	Pagination
	Title    string `query:"title"`
	Genre    string `query:"genre"`
	Category string `query:"category" validate:"omitempty,oneof=NOW_PLAYING COMING_SOON SPECIAL_EVENT"`
}
