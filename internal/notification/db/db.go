package db

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"ms-bookings/internal/models"
	"ms-bookings/internal/notification"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateNotification(ctx context.Context, n models.Notification) error {
	_, err := d.Bun.NewInsert().Model(&n).Exec(ctx)
	return err
}

// ByRecipient → one inbox, newest first. limit <= 0 means no limit.
func (d *DB) ByRecipient(ctx context.Context, recipientID string, audience models.Audience, limit int) ([]models.Notification, error) {
	notifications := []models.Notification{}
	q := d.Bun.NewSelect().
		Model(&notifications).
		Where("recipient_id = ?", recipientID).
		Where("audience = ?", audience).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (d *DB) UnreadCount(ctx context.Context, recipientID string, audience models.Audience) (int, error) {
	return d.Bun.NewSelect().
		Model((*models.Notification)(nil)).
		Where("recipient_id = ?", recipientID).
		Where("audience = ?", audience).
		Where("read = ?", false).
		Count(ctx)
}

func (d *DB) MarkRead(ctx context.Context, id string) error {
	res, err := d.Bun.NewUpdate().
		Model((*models.Notification)(nil)).
		Set("read = ?", true).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", notification.ErrNotFound, id)
	}
	return nil
}

func (d *DB) MarkAllRead(ctx context.Context, recipientID string, audience models.Audience) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Notification)(nil)).
		Set("read = ?", true).
		Where("recipient_id = ?", recipientID).
		Where("audience = ?", audience).
		Exec(ctx)
	return err
}

func (d *DB) DeleteNotification(ctx context.Context, id string) error {
	res, err := d.Bun.NewDelete().
		Model((*models.Notification)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", notification.ErrNotFound, id)
	}
	return nil
}
