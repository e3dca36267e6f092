package models

import "time"

// PaymentRecord is one settled payment against a booking. Stored in the
// payments ledger, one row per processed payment.
type PaymentRecord struct {
	ID        string        `json:"id"`
	BookingID string        `json:"bookingId"`
	Amount    float64       `json:"amount"`
	Method    PaymentMethod `json:"method"`
	CreatedAt time.Time     `json:"createdAt"`
}
