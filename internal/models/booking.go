package models

import (
	"time"

	"github.com/uptrace/bun"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentUnpaid, PaymentPartial, PaymentPaid:
		return true
	}
	return false
}

// PaymentStatusFor classifies how much of a booking's amount has been
// collected. The stored payment status is always recomputed through this
// function so it cannot drift from the amounts.
func PaymentStatusFor(amountPaid, amount float64) PaymentStatus {
	switch {
	case amountPaid >= amount && amount > 0:
		return PaymentPaid
	case amountPaid > 0:
		return PaymentPartial
	default:
		return PaymentUnpaid
	}
}

type PaymentMethod string

const (
	MethodGCash PaymentMethod = "gcash"
	MethodMaya  PaymentMethod = "maya"
	MethodBank  PaymentMethod = "bank"
	MethodCash  PaymentMethod = "cash"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodGCash, MethodMaya, MethodBank, MethodCash:
		return true
	}
	return false
}

type Booking struct {
	bun.BaseModel `bun:"table:bookings"`

	ID                 string        `bun:"id,pk" json:"id"`
	UserID             string        `bun:"user_id,notnull" json:"userId"`
	VendorID           string        `bun:"vendor_id,notnull" json:"vendorId"`
	VendorName         string        `bun:"vendor_name" json:"vendorName"`
	ServiceID          string        `bun:"service_id" json:"serviceId"`
	ServiceName        string        `bun:"service_name" json:"serviceName"`
	ServiceDescription string        `bun:"service_description" json:"serviceDescription"`
	Date               string        `bun:"date,notnull" json:"date"`
	Time               string        `bun:"time" json:"time"`
	Status             BookingStatus `bun:"status,notnull" json:"status"`
	Amount             float64       `bun:"amount,notnull" json:"amount"`
	AmountPaid         float64       `bun:"amount_paid" json:"amountPaid"`
	PaymentStatus      PaymentStatus `bun:"payment_status,notnull" json:"paymentStatus"`
	PaymentMethod      PaymentMethod `bun:"payment_method,nullzero" json:"paymentMethod,omitempty"`
	PaymentDate        time.Time     `bun:"payment_date,nullzero" json:"paymentDate,omitempty"`
	Notes              string        `bun:"notes" json:"notes"`
	CreatedAt          time.Time     `bun:"created_at,notnull" json:"createdAt"`

	// Legacy columns the admin dashboard template still reads. They mirror
	// serviceName/date/amount and carry no independent meaning.
	Name         string  `bun:"name" json:"name"`
	Email        string  `bun:"email" json:"email"`
	RoomType     string  `bun:"room_type" json:"roomType"`
	CheckInDate  string  `bun:"check_in_date" json:"checkInDate"`
	CheckOutDate string  `bun:"check_out_date" json:"checkOutDate"`
	TotalPrice   float64 `bun:"total_price" json:"totalPrice"`
}

// BookingRequest is the payload accepted when a customer submits the
// booking form.
type BookingRequest struct {
	UserID             string  `json:"userId"`
	VendorID           string  `json:"vendorId"`
	VendorName         string  `json:"vendorName"`
	ServiceID          string  `json:"serviceId"`
	ServiceName        string  `json:"serviceName"`
	ServiceDescription string  `json:"serviceDescription"`
	Date               string  `json:"date"`
	Time               string  `json:"time"`
	Amount             float64 `json:"amount"`
	Notes              string  `json:"notes"`
	Name               string  `json:"name"`
	Email              string  `json:"email"`
}

type PaymentRequest struct {
	Amount float64       `json:"amount"`
	Method PaymentMethod `json:"method"`
}

type StatusUpdateRequest struct {
	Status BookingStatus `json:"status"`
}

type PaymentStatusUpdateRequest struct {
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	Method        PaymentMethod `json:"method,omitempty"`
}
