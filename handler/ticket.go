package handler

import (
	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/helper"
	"cinema_booking/model"
	"cinema_booking/utils"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm/clause"
)

func seatLabels(seats []model.Seat) string {
	labels := make([]string, 0, len(seats))
	for _, s := range seats {
		labels = append(labels, fmt.Sprintf("R%dS%d", s.RowNumber, s.SeatNumber))
	}
	return strings.Join(labels, ", ")
}

func sendTicketConfirmation(ticket model.Ticket, screening model.Screening) {
	utils.SendOrderConfirmationEmail(ticket.Email, utils.OrderConfirmationData{
		OrderNumber:   ticket.OrderNumber,
		MovieTitle:    screening.Movie.Title,
		ScreeningTime: screening.StartTime.Format("2006-01-02 15:04"),
		Auditorium:    screening.Auditorium.Name,
		Seats:         seatLabels(ticket.Seats),
		CustomerName:  fmt.Sprintf("%s %s", ticket.FirstName, ticket.LastName),
		TotalPrice:    ticket.TotalPrice,
	})
}

// PurchaseTickets is the instant-purchase path: all requested seats must be
// free at commit time or the whole order is rejected with nothing persisted.
func PurchaseTickets(c *fiber.Ctx) error {
	input := c.Locals("input").(model.PurchaseInput)
	now := time.Now()
	db := database.DB

	var accountId *uint
	if tokenClaim, _ := helper.GetInfoAccountFromToken(c); tokenClaim.AccountId > 0 {
		accountId = &tokenClaim.AccountId
	}

	var screening model.Screening
	if err := db.Preload("Movie").Preload("Auditorium").First(&screening, input.ScreeningId).Error; err != nil {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Screening does not exist", err, "screening_id")
	}
	if screening.StartTime.Before(now) {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Screening has already started", nil, "screening_id")
	}

	tx := db.Begin()
	tickets, violation, err := helper.PurchaseTickets(tx, screening, input, accountId, now)
	if err != nil {
		tx.Rollback()
		if isUniqueViolation(err) {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest,
				"A seat in this order was just taken by another purchase", err, "non_field_errors")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not complete purchase", err)
	}
	if violation != nil {
		tx.Rollback()
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, violation.Message, nil, violation.Field)
	}
	if err := tx.Commit().Error; err != nil {
		if isUniqueViolation(err) {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest,
				"A seat in this order was just taken by another purchase", err, "non_field_errors")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not commit", err)
	}

	for _, ticket := range tickets {
		sendTicketConfirmation(ticket, screening)
	}
	PublishSeatUpdate(screening.ID)

	return utils.SuccessResponse(c, fiber.StatusCreated, helper.BuildPurchaseReceipt(tickets))
}

// CreateReservation opens a short hold on the requested seats so the
// customer can finish checkout without racing other buyers.
func CreateReservation(c *fiber.Ctx) error {
	input := c.Locals("input").(model.CreateReservationInput)
	now := time.Now()
	db := database.DB

	var accountId *uint
	if tokenClaim, _ := helper.GetInfoAccountFromToken(c); tokenClaim.AccountId > 0 {
		accountId = &tokenClaim.AccountId
	}

	var screening model.Screening
	if err := db.First(&screening, input.ScreeningId).Error; err != nil {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Screening does not exist", err, "screening_id")
	}
	if screening.StartTime.Before(now) {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Screening has already started", nil, "screening_id")
	}

	tx := db.Begin()
	reservation, violation, err := helper.CreateReservation(tx, screening, input.Seats, accountId, now)
	if err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not create reservation", err)
	}
	if violation != nil {
		tx.Rollback()
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, violation.Message, nil, violation.Field)
	}
	if err := tx.Commit().Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not commit", err)
	}

	PublishSeatUpdate(screening.ID)
	return utils.SuccessResponse(c, fiber.StatusCreated, reservation)
}

// FinalizeReservation converts a live hold into a paid ticket.
func FinalizeReservation(c *fiber.Ctx) error {
	input := c.Locals("input").(model.FinalizeReservationInput)
	reservationId := c.Locals("reservationId").(uint)
	now := time.Now()
	db := database.DB

	tx := db.Begin()

	// the hold row is read FOR UPDATE inside the transaction so a racing
	// double-finalize serializes here and the loser sees is_finalized=true
	var reservation model.Reservation
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Seats").
		First(&reservation, reservationId).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.NOT_FOUND, err)
	}

	var screening model.Screening
	if err := tx.Preload("Movie").Preload("Auditorium").First(&screening, reservation.ScreeningId).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not load screening", err)
	}

	ticket, violation, err := helper.FinalizeReservation(tx, &reservation, screening, input, now)
	if err != nil {
		tx.Rollback()
		if isUniqueViolation(err) {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest,
				"A reserved seat was taken before the hold was finalized", err, "non_field_errors")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not finalize reservation", err)
	}
	if violation != nil {
		tx.Rollback()
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, violation.Message, nil, violation.Field)
	}
	if err := tx.Commit().Error; err != nil {
		if isUniqueViolation(err) {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest,
				"A reserved seat was taken before the hold was finalized", err, "non_field_errors")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not commit", err)
	}

	sendTicketConfirmation(*ticket, screening)
	PublishSeatUpdate(screening.ID)

	return utils.SuccessResponse(c, fiber.StatusCreated, helper.BuildPurchaseReceipt([]model.Ticket{*ticket}))
}

// GetTickets is the admin listing with sales filters.
func GetTickets(c *fiber.Ctx) error {
	filterInput := new(model.FilterTicketInput)
	if err := c.QueryParser(filterInput); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}
	db := database.DB

	condition := db.Model(&model.Ticket{})
	if filterInput.ScreeningId > 0 {
		condition = condition.Where("screening_id = ?", filterInput.ScreeningId)
	}
	if filterInput.PaymentStatus != "" {
		condition = condition.Where("payment_status = ?", filterInput.PaymentStatus)
	}
	if filterInput.PurchasedAfter != "" {
		after, err := time.Parse(time.RFC3339, filterInput.PurchasedAfter)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid purchasedAfter format (use RFC3339)", err)
		}
		condition = condition.Where("purchased_at >= ?", after)
	}
	if filterInput.PurchasedBefore != "" {
		before, err := time.Parse(time.RFC3339, filterInput.PurchasedBefore)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid purchasedBefore format (use RFC3339)", err)
		}
		condition = condition.Where("purchased_at <= ?", before)
	}

	var total int64
	if err := condition.Count(&total).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not count tickets", err)
	}

	condition = utils.ApplyPagination(condition, filterInput.Limit, filterInput.Page)

	var tickets []model.Ticket
	if err := condition.
		Preload("TicketType").
		Preload("Seats").
		Order("purchased_at DESC").
		Find(&tickets).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not load tickets", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, model.ResponseCustom{
		Rows:       tickets,
		Limit:      filterInput.Limit,
		Page:       filterInput.Page,
		TotalCount: total,
	})
}

// GetOrder returns every ticket of one checkout by order number.
func GetOrder(c *fiber.Ctx) error {
	orderNumber := c.Params("orderNumber")

	var tickets []model.Ticket
	if err := database.DB.
		Preload("TicketType").
		Preload("Seats").
		Where("order_number = ?", orderNumber).
		Find(&tickets).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not load order", err)
	}
	if len(tickets) == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.NOT_FOUND, nil)
	}

	tokenClaim, isAdmin := helper.GetInfoAccountFromToken(c)
	if !isAdmin {
		owner := tickets[0].AccountId
		if owner == nil || *owner != tokenClaim.AccountId {
			return utils.ErrorResponse(c, fiber.StatusForbidden, "Order belongs to another account", nil)
		}
	}

	return utils.SuccessResponse(c, fiber.StatusOK, tickets)
}

// GetMyTickets lists the purchases of the logged-in customer.
func GetMyTickets(c *fiber.Ctx) error {
	tokenClaim, _ := helper.GetInfoAccountFromToken(c)

	var tickets []model.Ticket
	if err := database.DB.
		Preload("TicketType").
		Preload("Seats").
		Preload("Screening").
		Preload("Screening.Movie").
		Where("account_id = ?", tokenClaim.AccountId).
		Order("purchased_at DESC").
		Find(&tickets).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not load tickets", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, tickets)
}

// RefundTicket voids a ticket. The seat frees up through the ledger read
// path: refunded tickets drop out of the sold set.
func RefundTicket(c *fiber.Ctx) error {
	ticketId := c.Locals("inputId").(uint)
	db := database.DB

	var ticket model.Ticket
	if err := db.Preload("Screening").First(&ticket, ticketId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.NOT_FOUND, err)
	}
	if ticket.PaymentStatus == constants.PAYMENT_REFUNDED {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Ticket is already refunded", nil, "ticketId")
	}
	if ticket.Screening.StartTime.Before(time.Now()) {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Cannot refund after the screening started", nil, "ticketId")
	}

	tx := db.Begin()
	if err := tx.Model(&ticket).Update("payment_status", constants.PAYMENT_REFUNDED).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not refund ticket", err)
	}
	// the join rows go away so the backstop index stops blocking a resale
	if err := tx.Where("ticket_id = ?", ticket.ID).Delete(&model.TicketSeat{}).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not release seats", err)
	}
	if err := tx.Commit().Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not commit", err)
	}

	PublishSeatUpdate(ticket.ScreeningId)
	return utils.SuccessResponse(c, fiber.StatusOK, ticket)
}
