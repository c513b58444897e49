package model

import "time"

type TicketType struct {
	DTO
	Name  string  `gorm:"uniqueIndex;not null" validate:"required" json:"name"`
	Price float64 `gorm:"not null" validate:"required,gt=0" json:"price"`
}

// Ticket is immutable after purchase: seats are never reassigned, a refund
// voids the ticket through payment_status only.
type Ticket struct {
	DTO
	ScreeningId   uint      `gorm:"not null;index" json:"screeningId"`
	TicketTypeId  uint      `gorm:"not null" json:"ticketTypeId"`
	TotalPrice    float64   `gorm:"not null" json:"total_price"`
	OrderNumber   string    `gorm:"size:32;index;not null" json:"order_number"`
	PaymentStatus string    `gorm:"not null;default:'PAID'" json:"payment_status"`
	PurchasedAt   time.Time `gorm:"not null" json:"purchased_at"`
	FirstName     string    `gorm:"not null" json:"first_name"`
	LastName      string    `gorm:"not null" json:"last_name"`
	Email         string    `gorm:"not null" json:"email"`
	PhoneNumber   string    `json:"phone_number"`
	AccountId     *uint     `gorm:"default:null" json:"accountId"`

	Screening  Screening  `gorm:"foreignKey:ScreeningId" json:"-"`
	TicketType TicketType `gorm:"foreignKey:TicketTypeId" json:"ticketType"`
	Seats      []Seat     `gorm:"many2many:ticket_seats;" json:"seats"`
}

// TicketSeat is the join row behind Ticket.Seats. Carrying ScreeningId here
// lets the database enforce one ticket per seat per screening even if a
// concurrent purchase slips past the application-level check.
type TicketSeat struct {
	TicketId    uint `gorm:"primaryKey" json:"ticketId"`
	SeatId      uint `gorm:"primaryKey;uniqueIndex:uniq_screening_seat,priority:2" json:"seatId"`
	ScreeningId uint `gorm:"not null;uniqueIndex:uniq_screening_seat,priority:1" json:"screeningId"`
}

// Reservation holds seats for a short window before checkout. Expiry is
// decided lazily by comparing ExpiresAt with the clock, never by a sweeper.
type Reservation struct {
	DTO
	ScreeningId uint      `gorm:"not null;index" json:"screeningId"`
	ReservedAt  time.Time `gorm:"not null" json:"reserved_at"`
	ExpiresAt   time.Time `gorm:"not null" json:"expires_at"`
	IsFinalized bool      `gorm:"default:false" json:"is_finalized"`
	AccountId   *uint     `gorm:"default:null" json:"accountId"`

	Screening Screening `gorm:"foreignKey:ScreeningId" json:"-"`
	Seats     []Seat    `gorm:"many2many:reservation_seats;" json:"seats"`
}

func (r Reservation) IsExpired(now time.Time) bool {
	return !r.IsFinalized && r.ExpiresAt.Before(now)
}

type TicketGroupInput struct {
	TicketTypeId uint             `json:"ticket_type_id" validate:"required,gt=0"`
	Seats        []SeatCoordinate `json:"seats" validate:"required,min=1,dive"`
	FirstName    string           `json:"first_name" validate:"required,max=100"`
	LastName     string           `json:"last_name" validate:"required,max=100"`
	Email        string           `json:"email" validate:"required,email"`
	PhoneNumber  string           `json:"phone_number" validate:"omitempty,max=20"`
}

type PurchaseInput struct {
	ScreeningId uint               `json:"screening_id" validate:"required,gt=0"`
	Tickets     []TicketGroupInput `json:"tickets" validate:"required,min=1,dive"`
}

type CreateReservationInput struct {
	ScreeningId uint             `json:"screening_id" validate:"required,gt=0"`
	Seats       []SeatCoordinate `json:"seats" validate:"required,min=1,dive"`
}

type FinalizeReservationInput struct {
	TicketTypeId uint   `json:"ticket_type_id" validate:"required,gt=0"`
	FirstName    string `json:"first_name" validate:"required,max=100"`
	LastName     string `json:"last_name" validate:"required,max=100"`
	Email        string `json:"email" validate:"required,email"`
	PhoneNumber  string `json:"phone_number" validate:"omitempty,max=20"`
}

type PurchaseCustomer struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

// PurchaseReceipt is the response body of a completed checkout: one envelope
// for the whole batch, whatever the number of ticket groups.
type PurchaseReceipt struct {
	OrderNumber  string           `json:"order_number"`
	PurchaseTime time.Time        `json:"purchase_time"`
	Customer     PurchaseCustomer `json:"customer_info"`
	Tickets      []Ticket         `json:"tickets"`
	TotalPrice   float64          `json:"total_price"`
}

type FilterTicketInput struct {
	Pagination
	ScreeningId     uint   `query:"screeningId" validate:"omitempty,gt=0"`
	PaymentStatus   string `query:"paymentStatus" validate:"omitempty,oneof=PAID PENDING REFUNDED"`
	PurchasedAfter  string `query:"purchasedAfter"`
	PurchasedBefore string `query:"purchasedBefore"`
}
