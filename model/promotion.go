package model

import "time"

// PromotionRule is a conditional discount. Every optional criterion left nil
// is treated as "matches anything"; a rule applies only when all present
// criteria hold for the purchase.
type PromotionRule struct {
	DTO
	Name            string     `gorm:"not null" validate:"required" json:"name"`
	DiscountPercent float64    `gorm:"not null" validate:"required,gt=0,lte=100" json:"discountPercent"`
	ValidFrom       time.Time  `gorm:"not null" json:"validFrom"`
	ValidTo         time.Time  `gorm:"not null" json:"validTo"`
	Weekday         *int       `json:"weekday" validate:"omitempty,min=0,max=6"` // time.Weekday: 0=Sunday
	TimeFrom        *string    `gorm:"size:5" json:"timeFrom" validate:"omitempty,len=5"` // "HH:MM"
	TimeTo          *string    `gorm:"size:5" json:"timeTo" validate:"omitempty,len=5"`
	MinTickets      *int       `json:"minTickets" validate:"omitempty,gt=0"`
	TicketTypeId    *uint      `json:"ticketTypeId" validate:"omitempty,gt=0"`
	ScreeningId     *uint      `json:"screeningId" validate:"omitempty,gt=0"`
}

func (p PromotionRule) IsActive(now time.Time) bool {
	return !now.Before(p.ValidFrom) && !now.After(p.ValidTo)
}

type CreatePromotionInput struct {
	Name            string    `json:"name" validate:"required,min=1,max=255"`
	DiscountPercent float64   `json:"discountPercent" validate:"required,gt=0,lte=100"`
	ValidFrom       time.Time `json:"validFrom" validate:"required"`
	ValidTo         time.Time `json:"validTo" validate:"required,gtfield=ValidFrom"`
	Weekday         *int      `json:"weekday" validate:"omitempty,min=0,max=6"`
	TimeFrom        *string   `json:"timeFrom" validate:"omitempty,len=5"`
	TimeTo          *string   `json:"timeTo" validate:"omitempty,len=5"`
	MinTickets      *int      `json:"minTickets" validate:"omitempty,gt=0"`
	TicketTypeId    *uint     `json:"ticketTypeId" validate:"omitempty,gt=0"`
	ScreeningId     *uint     `json:"screeningId" validate:"omitempty,gt=0"`
}

type CheckPromotionInput struct {
	ScreeningId  uint             `json:"screening_id" validate:"required,gt=0"`
	TicketTypeId uint             `json:"ticket_type_id" validate:"required,gt=0"`
	SeatIds      []SeatCoordinate `json:"seat_ids" validate:"required,min=1,dive"`
}
