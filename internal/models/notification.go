package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Audience string

const (
	AudienceUser   Audience = "user"
	AudienceVendor Audience = "vendor"
	AudienceAdmin  Audience = "admin"
)

type NotificationType string

const (
	NotifBooking NotificationType = "booking"
	NotifPayment NotificationType = "payment"
	NotifStatus  NotificationType = "status"
	NotifSystem  NotificationType = "system"
)

type Notification struct {
	bun.BaseModel `bun:"table:notifications"`

	ID          string           `bun:"id,pk" json:"id"`
	RecipientID string           `bun:"recipient_id,notnull" json:"recipientId"`
	Audience    Audience         `bun:"audience,notnull" json:"audience"`
	BookingID   string           `bun:"booking_id,nullzero" json:"bookingId,omitempty"`
	Title       string           `bun:"title,notnull" json:"title"`
	Message     string           `bun:"message,notnull" json:"message"`
	Type        NotificationType `bun:"type,notnull" json:"type"`
	Read        bool             `bun:"read,notnull" json:"read"`
	CreatedAt   time.Time        `bun:"created_at,notnull" json:"createdAt"`
}
