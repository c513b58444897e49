package model

type Auditorium struct {
	DTO
	Name  string `gorm:"uniqueIndex;not null" validate:"required" json:"name"`
	Seats []Seat `gorm:"foreignKey:AuditoriumId;constraint:OnDelete:CASCADE" json:"seats"`
}

// Seat is immutable once created: tickets and reservations reference it by id,
// so renumbering a hall requires recreating the auditorium.
type Seat struct {
	DTO
	AuditoriumId uint `gorm:"not null;uniqueIndex:uniq_seat_per_auditorium,priority:1" json:"auditoriumId"`
	RowNumber    int  `gorm:"not null;uniqueIndex:uniq_seat_per_auditorium,priority:2" json:"row_number"`
	SeatNumber   int  `gorm:"not null;uniqueIndex:uniq_seat_per_auditorium,priority:3" json:"seat_number"`
}

type CreateAuditoriumInput struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Rows        int    `json:"rows" validate:"required,min=1,max=50"`
	SeatsPerRow int    `json:"seatsPerRow" validate:"required,min=1,max=60"`
}

// SeatCoordinate addresses a seat by its position within an auditorium
type SeatCoordinate struct {
	RowNumber  int `json:"row_number" validate:"required,min=1"`
	SeatNumber int `json:"seat_number" validate:"required,min=1"`
}
