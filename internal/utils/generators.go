package utils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Identifier prefixes match the records the storefront reads:
// booking-*, notif-*, svc-* and a pay_* ledger id.

func NewBookingID() string {
	return "booking-" + uuid.NewString()
}

func NewNotificationID() string {
	return "notif-" + uuid.NewString()
}

func NewServiceID() string {
	return "svc-" + uuid.NewString()
}

func NewPaymentID() string {
	return fmt.Sprintf("pay_%d_%s", time.Now().Unix(), uuid.NewString()[:8])
}
