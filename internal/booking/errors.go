package booking

import "errors"

var (
	// ErrNotFound is returned when an operation references a booking id
	// that does not exist in the store.
	ErrNotFound = errors.New("booking not found")

	// ErrDateUnavailable is returned when a vendor already has a
	// non-cancelled booking on the requested date.
	ErrDateUnavailable = errors.New("date is not available for this vendor")

	// ErrInvalidTransition is returned when a status update does not
	// follow the booking lifecycle.
	ErrInvalidTransition = errors.New("invalid booking status transition")

	ErrInvalidStatus        = errors.New("unknown booking status")
	ErrInvalidPaymentStatus = errors.New("invalid payment status update")
	ErrInvalidPaymentMethod = errors.New("unknown payment method")
	ErrInvalidAmount        = errors.New("payment amount must be positive")
	ErrPaymentExceedsTotal  = errors.New("payment exceeds booking total")
	ErrInvalidDate          = errors.New("date must be in YYYY-MM-DD format")
)
