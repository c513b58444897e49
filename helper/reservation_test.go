package helper

import (
	"testing"
	"time"

	"cinema_booking/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinalizeReservation_AlreadyFinalized(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	reservation := model.Reservation{
		IsFinalized: true,
		ExpiresAt:   now.Add(5 * time.Minute),
	}

	// a second finalize of the same hold must come back as a ledger
	// violation, never an error that surfaces as a 500
	ticket, violation, err := FinalizeReservation(nil, &reservation, model.Screening{}, model.FinalizeReservationInput{}, now)

	require.NoError(t, err)
	require.Nil(t, ticket)
	require.NotNil(t, violation)
	assert.Equal(t, "non_field_errors", violation.Field)
	assert.Equal(t, "Reservation is already finalized", violation.Message)
}

func TestFinalizeReservation_Expired(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	reservation := model.Reservation{
		ExpiresAt: now.Add(-1 * time.Minute),
	}

	ticket, violation, err := FinalizeReservation(nil, &reservation, model.Screening{}, model.FinalizeReservationInput{}, now)

	require.NoError(t, err)
	require.Nil(t, ticket)
	require.NotNil(t, violation)
	assert.Equal(t, "non_field_errors", violation.Field)
	assert.Equal(t, "Reservation has expired", violation.Message)
}

func TestReservationIsExpired(t *testing.T) {
	expiry := time.Date(2026, 6, 1, 12, 10, 0, 0, time.UTC)
	hold := model.Reservation{ExpiresAt: expiry}

	assert.False(t, hold.IsExpired(expiry.Add(-1*time.Minute)))
	assert.True(t, hold.IsExpired(expiry.Add(1*time.Minute)))

	// a finalized hold never expires, the ticket owns the seats now
	hold.IsFinalized = true
	assert.False(t, hold.IsExpired(expiry.Add(1*time.Minute)))
}
