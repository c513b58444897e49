package helper

import (
	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/model"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// CreateReservation holds seats for the checkout window. Same locking
// discipline as a purchase: seat rows FOR UPDATE, then a ledger check, then
// the hold row, all inside the caller's transaction.
func CreateReservation(tx *gorm.DB, screening model.Screening, coords []model.SeatCoordinate, accountId *uint, now time.Time) (*model.Reservation, *LedgerViolation, error) {
	seats, violation, err := ResolveSeats(tx, screening.AuditoriumId, coords, "seats")
	if err != nil || violation != nil {
		return nil, violation, err
	}

	sold, held, err := LoadSeatLedger(tx, screening.ID)
	if err != nil {
		return nil, nil, err
	}
	for _, seat := range seats {
		if StatusFor(seat.ID, sold, held, now) != constants.SEAT_FREE {
			return nil, &LedgerViolation{
				Field:   "non_field_errors",
				Message: fmt.Sprintf("Seat R%dS%d is already taken for this screening", seat.RowNumber, seat.SeatNumber),
			}, nil
		}
	}

	reservation := model.Reservation{
		ScreeningId: screening.ID,
		ReservedAt:  now,
		ExpiresAt:   now.Add(time.Duration(constants.RESERVATION_HOLD_MINUTES) * time.Minute),
		AccountId:   accountId,
	}
	if err := tx.Create(&reservation).Error; err != nil {
		return nil, nil, err
	}
	if err := tx.Model(&reservation).Association("Seats").Append(&seats); err != nil {
		return nil, nil, err
	}
	reservation.Seats = seats
	return &reservation, nil, nil
}

// FinalizeReservation converts a live hold into a purchased ticket. The hold
// must still be within its window; expiry is checked lazily right here.
func FinalizeReservation(tx *gorm.DB, reservation *model.Reservation, screening model.Screening, input model.FinalizeReservationInput, now time.Time) (*model.Ticket, *LedgerViolation, error) {
	if reservation.IsFinalized {
		return nil, &LedgerViolation{Field: "non_field_errors", Message: "Reservation is already finalized"}, nil
	}
	if reservation.IsExpired(now) {
		return nil, &LedgerViolation{Field: "non_field_errors", Message: "Reservation has expired"}, nil
	}

	var ticketType model.TicketType
	if err := tx.First(&ticketType, input.TicketTypeId).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &LedgerViolation{Field: "ticket_type_id", Message: "Ticket type does not exist"}, nil
		}
		return nil, nil, err
	}

	var rules []model.PromotionRule
	if err := tx.Find(&rules).Error; err != nil {
		return nil, nil, err
	}
	quote := CalculatePrice(len(reservation.Seats), ticketType, screening, rules, now)

	ticket := model.Ticket{
		ScreeningId:   screening.ID,
		TicketTypeId:  ticketType.ID,
		TotalPrice:    quote.FinalPrice,
		OrderNumber:   NewOrderNumber(now),
		PaymentStatus: constants.PAYMENT_PAID,
		PurchasedAt:   now,
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Email:         input.Email,
		PhoneNumber:   input.PhoneNumber,
		AccountId:     reservation.AccountId,
	}
	if err := tx.Create(&ticket).Error; err != nil {
		return nil, nil, err
	}
	for _, seat := range reservation.Seats {
		ts := model.TicketSeat{TicketId: ticket.ID, SeatId: seat.ID, ScreeningId: screening.ID}
		if err := tx.Create(&ts).Error; err != nil {
			return nil, nil, err
		}
	}

	if err := tx.Model(reservation).Update("is_finalized", true).Error; err != nil {
		return nil, nil, err
	}

	ticket.Seats = reservation.Seats
	ticket.TicketType = ticketType
	return &ticket, nil, nil
}

var reservationScheduler gocron.Scheduler

// CleanupExpiredReservations deletes holds that lapsed more than a day ago.
// Pure housekeeping: correctness never depends on it, the ledger treats an
// expired hold as FREE the moment its window closes.
func CleanupExpiredReservations() {
	db := database.DB
	cutoff := time.Now().Add(-24 * time.Hour)

	var stale []model.Reservation
	if err := db.Where("is_finalized = ? AND expires_at < ?", false, cutoff).Find(&stale).Error; err != nil {
		log.Printf("reservation cleanup query error: %v", err)
		return
	}
	if len(stale) == 0 {
		return
	}

	for _, r := range stale {
		if err := db.Model(&r).Association("Seats").Clear(); err != nil {
			log.Printf("reservation %d seat detach error: %v", r.ID, err)
			continue
		}
		if err := db.Delete(&r).Error; err != nil {
			log.Printf("reservation %d delete error: %v", r.ID, err)
		}
	}
	log.Printf("purged %d stale reservations", len(stale))
}

func StartReservationCleanupScheduler() {
	s, err := gocron.NewScheduler()
	if err != nil {
		log.Fatal(err)
	}

	reservationScheduler = s

	_, err = s.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(
				gocron.NewAtTime(3, 30, 0),
			),
		),
		gocron.NewTask(CleanupExpiredReservations),
	)
	if err != nil {
		log.Fatal(err)
	}

	s.Start()
	log.Println("Reservation cleanup scheduler started (03:30 daily)")
}

func StopReservationCleanupScheduler() {
	if reservationScheduler != nil {
		if err := reservationScheduler.Shutdown(); err != nil {
			log.Printf("reservation scheduler shutdown error: %v", err)
		}
	}
}
