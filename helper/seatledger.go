package helper

import (
	"cinema_booking/constants"
	"cinema_booking/model"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerViolation is a seat-level business rejection. Field names the seat
// coordinate ("seats[2]") or "non_field_errors" for whole-batch conflicts.
type LedgerViolation struct {
	Field   string
	Message string
}

func (v *LedgerViolation) Error() string { return v.Message }

// NewOrderNumber groups every ticket of one checkout: a timestamp prefix for
// operators plus a random suffix for uniqueness.
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("%s-%s", now.Format("20060102150405"), suffix)
}

// StatusFor decides a single seat's state. A seat is SOLD as soon as any
// ticket for the screening includes it, RESERVED while a live hold covers it,
// FREE otherwise. Hold expiry happens here, by clock comparison only.
func StatusFor(seatId uint, sold map[uint]bool, held map[uint]time.Time, now time.Time) string {
	if sold[seatId] {
		return constants.SEAT_SOLD
	}
	if expiresAt, ok := held[seatId]; ok && now.Before(expiresAt) {
		return constants.SEAT_RESERVED
	}
	return constants.SEAT_FREE
}

// LoadSeatLedger reads the current sold and held seat sets for a screening.
// held maps seat id to the hold's expiry; callers decide liveness via
// StatusFor so repeated queries without writes stay idempotent.
func LoadSeatLedger(db *gorm.DB, screeningId uint) (map[uint]bool, map[uint]time.Time, error) {
	sold := map[uint]bool{}
	var ticketSeats []model.TicketSeat
	if err := db.Where("screening_id = ?", screeningId).Find(&ticketSeats).Error; err != nil {
		return nil, nil, err
	}
	for _, ts := range ticketSeats {
		sold[ts.SeatId] = true
	}

	held := map[uint]time.Time{}
	var reservations []model.Reservation
	if err := db.Preload("Seats").
		Where("screening_id = ? AND is_finalized = ?", screeningId, false).
		Find(&reservations).Error; err != nil {
		return nil, nil, err
	}
	for _, r := range reservations {
		for _, s := range r.Seats {
			if current, ok := held[s.ID]; !ok || r.ExpiresAt.After(current) {
				held[s.ID] = r.ExpiresAt
			}
		}
	}

	return sold, held, nil
}

// SeatStatusEntry is one seat in the ledger view.
type SeatStatusEntry struct {
	Id         uint `json:"id"`
	RowNumber  int  `json:"row_number"`
	SeatNumber int  `json:"seat_number"`
	Reserved   bool `json:"reserved"`
}

// GroupSeatsByRow shapes the ledger view: seats grouped by row number, each
// flagged taken when sold or covered by a live hold.
func GroupSeatsByRow(seats []model.Seat, sold map[uint]bool, held map[uint]time.Time, now time.Time) map[int][]SeatStatusEntry {
	result := make(map[int][]SeatStatusEntry)
	for _, seat := range seats {
		status := StatusFor(seat.ID, sold, held, now)
		result[seat.RowNumber] = append(result[seat.RowNumber], SeatStatusEntry{
			Id:         seat.ID,
			RowNumber:  seat.RowNumber,
			SeatNumber: seat.SeatNumber,
			Reserved:   status != constants.SEAT_FREE,
		})
	}
	return result
}

func lockedSeatLookup(tx *gorm.DB, auditoriumId uint, coord model.SeatCoordinate, dest *model.Seat) *gorm.DB {
	return tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("auditorium_id = ? AND row_number = ? AND seat_number = ?",
			auditoriumId, coord.RowNumber, coord.SeatNumber).
		First(dest)
}

// ResolveSeats maps coordinates to seat rows of the auditorium, locking each
// row FOR UPDATE so concurrent purchases of the same seats serialize on the
// database. Unknown coordinates produce a per-seat violation.
func ResolveSeats(tx *gorm.DB, auditoriumId uint, coords []model.SeatCoordinate, field string) ([]model.Seat, *LedgerViolation, error) {
	seats := make([]model.Seat, 0, len(coords))
	for i, coord := range coords {
		var seat model.Seat
		err := lockedSeatLookup(tx, auditoriumId, coord, &seat).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, &LedgerViolation{
					Field:   fmt.Sprintf("%s[%d]", field, i),
					Message: fmt.Sprintf("Seat R%dS%d does not exist in this auditorium", coord.RowNumber, coord.SeatNumber),
				}, nil
			}
			return nil, nil, err
		}
		seats = append(seats, seat)
	}
	return seats, nil, nil
}

// BuildPurchaseReceipt wraps the tickets of one checkout into the response
// envelope: shared order number, summed price, the buyer from the first group.
func BuildPurchaseReceipt(tickets []model.Ticket) model.PurchaseReceipt {
	receipt := model.PurchaseReceipt{Tickets: tickets}
	if len(tickets) == 0 {
		return receipt
	}

	first := tickets[0]
	receipt.OrderNumber = first.OrderNumber
	receipt.PurchaseTime = first.PurchasedAt
	receipt.Customer = model.PurchaseCustomer{
		FirstName:   first.FirstName,
		LastName:    first.LastName,
		Email:       first.Email,
		PhoneNumber: first.PhoneNumber,
	}

	total := 0.0
	for _, t := range tickets {
		total += t.TotalPrice
	}
	receipt.TotalPrice = Round2(total)
	return receipt
}

// PurchaseTickets commits an instant purchase: every requested seat must be
// FREE at commit time or the whole batch is rejected and nothing persists.
// Runs inside the caller's transaction; seat rows are already locked by
// ResolveSeats, and the unique (screening_id, seat_id) index on ticket_seats
// is the last-resort backstop against a racing writer.
func PurchaseTickets(tx *gorm.DB, screening model.Screening, input model.PurchaseInput, accountId *uint, now time.Time) ([]model.Ticket, *LedgerViolation, error) {
	// seat locks come first: reading the ledger before the locks would let
	// the loser of a race proceed on stale state and fail only at the
	// constraint backstop instead of with the seat-level message
	groupSeats := make([][]model.Seat, len(input.Tickets))
	for g, group := range input.Tickets {
		field := fmt.Sprintf("tickets[%d].seats", g)
		seats, violation, err := ResolveSeats(tx, screening.AuditoriumId, group.Seats, field)
		if err != nil || violation != nil {
			return nil, violation, err
		}
		groupSeats[g] = seats
	}

	sold, held, err := LoadSeatLedger(tx, screening.ID)
	if err != nil {
		return nil, nil, err
	}

	var rules []model.PromotionRule
	if err := tx.Find(&rules).Error; err != nil {
		return nil, nil, err
	}

	orderNumber := NewOrderNumber(now)
	requested := map[uint]bool{}

	var tickets []model.Ticket
	for g, group := range input.Tickets {
		seats := groupSeats[g]

		for _, seat := range seats {
			if StatusFor(seat.ID, sold, held, now) != constants.SEAT_FREE {
				return nil, &LedgerViolation{
					Field:   "non_field_errors",
					Message: fmt.Sprintf("Seat R%dS%d is already taken for this screening", seat.RowNumber, seat.SeatNumber),
				}, nil
			}
			if requested[seat.ID] {
				return nil, &LedgerViolation{
					Field:   "non_field_errors",
					Message: fmt.Sprintf("Seat R%dS%d is requested twice in this order", seat.RowNumber, seat.SeatNumber),
				}, nil
			}
			requested[seat.ID] = true
		}

		var ticketType model.TicketType
		if err := tx.First(&ticketType, group.TicketTypeId).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, &LedgerViolation{
					Field:   fmt.Sprintf("tickets[%d].ticket_type_id", g),
					Message: "Ticket type does not exist",
				}, nil
			}
			return nil, nil, err
		}

		quote := CalculatePrice(len(seats), ticketType, screening, rules, now)

		ticket := model.Ticket{
			ScreeningId:   screening.ID,
			TicketTypeId:  ticketType.ID,
			TotalPrice:    quote.FinalPrice,
			OrderNumber:   orderNumber,
			PaymentStatus: constants.PAYMENT_PAID,
			PurchasedAt:   now,
			FirstName:     group.FirstName,
			LastName:      group.LastName,
			Email:         group.Email,
			PhoneNumber:   group.PhoneNumber,
			AccountId:     accountId,
		}
		if err := tx.Create(&ticket).Error; err != nil {
			return nil, nil, err
		}

		// join rows are written by hand so screening_id lands in the
		// unique (screening_id, seat_id) backstop index
		for _, seat := range seats {
			ts := model.TicketSeat{TicketId: ticket.ID, SeatId: seat.ID, ScreeningId: screening.ID}
			if err := tx.Create(&ts).Error; err != nil {
				return nil, nil, err
			}
		}
		ticket.Seats = seats
		ticket.TicketType = ticketType
		tickets = append(tickets, ticket)
	}

	return tickets, nil, nil
}
