package notification

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"ms-bookings/internal/models"
)

// Fan-out: every booking mutation produces one notification for the
// customer and one for the vendor. Message texts are the ones the
// storefront renders. Failures surface to the booking service, which logs and
// moves on; fan-out never fails a booking operation.

func (s *Service) BookingCreated(ctx context.Context, b models.Booking) error {
	userErr := s.Add(ctx, b.UserID, models.AudienceUser, b.ID,
		"Booking Received",
		fmt.Sprintf("Your booking with %s for %s has been received and is pending confirmation.", b.VendorName, b.ServiceName),
		models.NotifBooking)
	vendorErr := s.Add(ctx, b.VendorID, models.AudienceVendor, b.ID,
		"New Booking Request",
		fmt.Sprintf("You have received a new booking request for %s on %s at %s.", b.ServiceName, b.Date, b.Time),
		models.NotifBooking)
	return firstError(userErr, vendorErr)
}

func (s *Service) BookingStatusChanged(ctx context.Context, b models.Booking) error {
	title := "Booking " + capitalize(string(b.Status))
	userErr := s.Add(ctx, b.UserID, models.AudienceUser, b.ID,
		title,
		fmt.Sprintf("Your booking for %s with %s has been %s.", b.ServiceName, b.VendorName, b.Status),
		models.NotifBooking)
	vendorErr := s.Add(ctx, b.VendorID, models.AudienceVendor, b.ID,
		title,
		fmt.Sprintf("You have updated the booking status to %s for %s on %s.", b.Status, b.ServiceName, b.Date),
		models.NotifStatus)
	return firstError(userErr, vendorErr)
}

func (s *Service) PaymentProcessed(ctx context.Context, b models.Booking, amount float64) error {
	userErr := s.Add(ctx, b.UserID, models.AudienceUser, b.ID,
		"Payment Successful",
		fmt.Sprintf("Your payment of %s for %s with %s has been processed via %s.", pesos(amount), b.ServiceName, b.VendorName, b.PaymentMethod),
		models.NotifPayment)
	vendorErr := s.Add(ctx, b.VendorID, models.AudienceVendor, b.ID,
		"Payment Received",
		fmt.Sprintf("Payment of %s received for booking %s... - %s via %s.", pesos(amount), shortID(b.ID), b.ServiceName, b.PaymentMethod),
		models.NotifPayment)
	return firstError(userErr, vendorErr)
}

func (s *Service) PaymentStatusUpdated(ctx context.Context, b models.Booking) error {
	userErr := s.Add(ctx, b.UserID, models.AudienceUser, b.ID,
		"Payment Status Updated",
		fmt.Sprintf("Payment status for your booking with %s has been updated to %s.", b.VendorName, b.PaymentStatus),
		models.NotifPayment)
	vendorErr := s.Add(ctx, b.VendorID, models.AudienceVendor, b.ID,
		"Payment Status Updated",
		fmt.Sprintf("Payment status has been updated to %s for booking %s... - %s.", b.PaymentStatus, shortID(b.ID), b.ServiceName),
		models.NotifPayment)
	return firstError(userErr, vendorErr)
}

func (s *Service) BookingCancelled(ctx context.Context, b models.Booking) error {
	userErr := s.Add(ctx, b.UserID, models.AudienceUser, b.ID,
		"Booking Cancelled",
		fmt.Sprintf("Your booking for %s with %s has been cancelled.", b.ServiceName, b.VendorName),
		models.NotifBooking)
	vendorErr := s.Add(ctx, b.VendorID, models.AudienceVendor, b.ID,
		"Booking Cancelled",
		fmt.Sprintf("A booking for %s on %s has been cancelled.", b.ServiceName, b.Date),
		models.NotifBooking)
	return firstError(userErr, vendorErr)
}

// AdminBookingEvent folds an audit-stream event into the admin inbox.
// Driven by the Kafka consumer, not by the booking service directly.
func (s *Service) AdminBookingEvent(topic string, b models.Booking) error {
	title := map[string]string{
		"booking-created":   "New Booking",
		"booking-status":    "Booking Status Changed",
		"booking-payment":   "Payment Activity",
		"booking-cancelled": "Booking Cancelled",
	}[topic]
	if title == "" {
		title = "Booking Event"
	}
	msg := fmt.Sprintf("Booking %s... - %s with %s on %s (status %s, payment %s).",
		shortID(b.ID), b.ServiceName, b.VendorName, b.Date, b.Status, b.PaymentStatus)
	return s.Add(context.Background(), "admin", models.AudienceAdmin, b.ID, title, msg, models.NotifSystem)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func shortID(id string) string {
	if len(id) <= 6 {
		return id
	}
	return id[:6]
}

// pesos renders an amount the way the storefront shows it:
// thousands-separated with a peso sign.
func pesos(amount float64) string {
	whole := int64(amount)
	frac := amount - float64(whole)

	digits := strconv.FormatInt(whole, 10)
	var sb strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(d)
	}
	if frac > 0.004 {
		sb.WriteString(strconv.FormatFloat(frac, 'f', 2, 64)[1:])
	}
	return "₱" + sb.String()
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
