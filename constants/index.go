package constants

const (
	ROLE_ADMIN    = "ADMIN"
	ROLE_CUSTOMER = "CUSTOMER"
)

const (
	SEAT_FREE     = "FREE"
	SEAT_RESERVED = "RESERVED"
	SEAT_SOLD     = "SOLD"
)

const (
	PAYMENT_PAID     = "PAID"
	PAYMENT_PENDING  = "PENDING"
	PAYMENT_REFUNDED = "REFUNDED"
)

const (
	ERROR_INPUT              = "Invalid input"
	DATA_INPUT_IS_NOT_NUMBER = "Parameter must be a number"
	NOT_ADMIN                = "Admin permission required"
	NOT_FOUND                = "Resource not found"
)

// 30 minutes of cleaning time between screenings in one auditorium
const SCREENING_BUFFER_MINUTES = 30

// how long a reservation holds its seats before lapsing
const RESERVATION_HOLD_MINUTES = 10
