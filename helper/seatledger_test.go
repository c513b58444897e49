package helper

import (
	"regexp"
	"testing"
	"time"

	"cinema_booking/constants"
	"cinema_booking/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

func TestStatusFor(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	sold := map[uint]bool{1: true}
	held := map[uint]time.Time{
		2: now.Add(5 * time.Minute),  // live hold
		3: now.Add(-2 * time.Minute), // lapsed hold
	}

	assert.Equal(t, constants.SEAT_SOLD, StatusFor(1, sold, held, now))
	assert.Equal(t, constants.SEAT_RESERVED, StatusFor(2, sold, held, now))
	assert.Equal(t, constants.SEAT_FREE, StatusFor(3, sold, held, now), "expired hold frees the seat")
	assert.Equal(t, constants.SEAT_FREE, StatusFor(4, sold, held, now))
}

func TestStatusFor_SoldBeatsHold(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	sold := map[uint]bool{1: true}
	held := map[uint]time.Time{1: now.Add(5 * time.Minute)}

	assert.Equal(t, constants.SEAT_SOLD, StatusFor(1, sold, held, now))
}

func TestStatusFor_ExpiryIsLazy(t *testing.T) {
	start := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	held := map[uint]time.Time{1: start.Add(10 * time.Minute)}

	// same data, different clocks: the second read sees the hold lapse
	assert.Equal(t, constants.SEAT_RESERVED, StatusFor(1, nil, held, start.Add(9*time.Minute)))
	assert.Equal(t, constants.SEAT_FREE, StatusFor(1, nil, held, start.Add(11*time.Minute)))
}

func TestGroupSeatsByRow(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	seats := []model.Seat{
		{DTO: model.DTO{ID: 1}, RowNumber: 1, SeatNumber: 1},
		{DTO: model.DTO{ID: 2}, RowNumber: 1, SeatNumber: 2},
		{DTO: model.DTO{ID: 3}, RowNumber: 2, SeatNumber: 1},
	}
	sold := map[uint]bool{2: true}
	held := map[uint]time.Time{3: now.Add(5 * time.Minute)}

	view := GroupSeatsByRow(seats, sold, held, now)

	require.Len(t, view, 2)
	require.Len(t, view[1], 2)
	require.Len(t, view[2], 1)

	assert.False(t, view[1][0].Reserved)
	assert.True(t, view[1][1].Reserved)
	assert.True(t, view[2][0].Reserved)
	assert.Equal(t, 2, view[2][0].RowNumber)
	assert.Equal(t, uint(3), view[2][0].Id)
}

func TestLockedSeatLookupQuery(t *testing.T) {
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{})
	require.NoError(t, err)

	// seat rows are locked before the ledger is read, so a racing purchase
	// of the same seats blocks here and then sees the winner's writes
	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var seat model.Seat
		return lockedSeatLookup(tx, 7, model.SeatCoordinate{RowNumber: 2, SeatNumber: 5}, &seat)
	})
	assert.Contains(t, sql, "auditorium_id")
	assert.Contains(t, sql, "FOR UPDATE")
}

func TestBuildPurchaseReceipt(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 34, 56, 0, time.UTC)
	tickets := []model.Ticket{
		{
			OrderNumber: "20260601123456-DEADBEEF",
			PurchasedAt: now,
			TotalPrice:  25.50,
			FirstName:   "Ada",
			LastName:    "Lovelace",
			Email:       "ada@example.com",
			PhoneNumber: "0700123456",
		},
		{
			OrderNumber: "20260601123456-DEADBEEF",
			PurchasedAt: now,
			TotalPrice:  12.75,
		},
	}

	receipt := BuildPurchaseReceipt(tickets)

	assert.Equal(t, "20260601123456-DEADBEEF", receipt.OrderNumber)
	assert.Equal(t, now, receipt.PurchaseTime)
	assert.Equal(t, "Ada", receipt.Customer.FirstName)
	assert.Equal(t, "ada@example.com", receipt.Customer.Email)
	assert.Len(t, receipt.Tickets, 2)
	assert.Equal(t, 38.25, receipt.TotalPrice, "receipt total sums every ticket in the order")
}

func TestBuildPurchaseReceipt_Empty(t *testing.T) {
	receipt := BuildPurchaseReceipt(nil)

	assert.Empty(t, receipt.OrderNumber)
	assert.Zero(t, receipt.TotalPrice)
}

func TestNewOrderNumber(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 34, 56, 0, time.UTC)

	orderNumber := NewOrderNumber(now)
	assert.Regexp(t, regexp.MustCompile(`^20260601123456-[0-9A-F]{8}$`), orderNumber)

	// the random suffix keeps concurrent checkouts apart
	assert.NotEqual(t, orderNumber, NewOrderNumber(now))
}
