package notification

import (
	"context"
	"time"

	"ms-bookings/internal/models"
	"ms-bookings/internal/utils"
)

type DBLayer interface {
	CreateNotification(ctx context.Context, n models.Notification) error
	ByRecipient(ctx context.Context, recipientID string, audience models.Audience, limit int) ([]models.Notification, error)
	UnreadCount(ctx context.Context, recipientID string, audience models.Audience) (int, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, recipientID string, audience models.Audience) error
	DeleteNotification(ctx context.Context, id string) error
}

// Service is the append-only inbox trail. Records are created as a side
// effect of booking mutations and consumed only for display.
type Service struct {
	DB DBLayer
}

func NewService(db DBLayer) *Service {
	return &Service{DB: db}
}

// Add stamps identity, unread state and creation time, then appends.
func (s *Service) Add(ctx context.Context, recipientID string, audience models.Audience, bookingID, title, message string, typ models.NotificationType) error {
	n := models.Notification{
		ID:          utils.NewNotificationID(),
		RecipientID: recipientID,
		Audience:    audience,
		BookingID:   bookingID,
		Title:       title,
		Message:     message,
		Type:        typ,
		Read:        false,
		CreatedAt:   time.Now().UTC(),
	}
	return s.DB.CreateNotification(ctx, n)
}

func (s *Service) ForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	return s.DB.ByRecipient(ctx, userID, models.AudienceUser, 0)
}

func (s *Service) ForVendor(ctx context.Context, vendorID string) ([]models.Notification, error) {
	return s.DB.ByRecipient(ctx, vendorID, models.AudienceVendor, 0)
}

// Recent returns the latest five notifications, the size of the navbar
// dropdown.
func (s *Service) Recent(ctx context.Context, recipientID string, audience models.Audience) ([]models.Notification, error) {
	return s.DB.ByRecipient(ctx, recipientID, audience, 5)
}

func (s *Service) UnreadCount(ctx context.Context, recipientID string, audience models.Audience) (int, error) {
	return s.DB.UnreadCount(ctx, recipientID, audience)
}

func (s *Service) MarkAsRead(ctx context.Context, id string) error {
	return s.DB.MarkRead(ctx, id)
}

func (s *Service) MarkAllAsRead(ctx context.Context, recipientID string, audience models.Audience) error {
	return s.DB.MarkAllRead(ctx, recipientID, audience)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.DB.DeleteNotification(ctx, id)
}
