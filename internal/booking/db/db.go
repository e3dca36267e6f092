package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"ms-bookings/internal/booking"
	"ms-bookings/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// CreateBooking → insert new booking
func (d *DB) CreateBooking(ctx context.Context, b models.Booking) error {
	_, err := d.Bun.NewInsert().Model(&b).Exec(ctx)
	return err
}

// GetBookingByID → fetch one booking by its ID
func (d *DB) GetBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	err := d.Bun.NewSelect().
		Model(&b).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", booking.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateBooking → overwrite the mutable columns
func (d *DB) UpdateBooking(ctx context.Context, b models.Booking) error {
	res, err := d.Bun.NewUpdate().
		Model(&b).
		Column("status", "payment_status", "payment_method", "amount_paid", "payment_date", "notes").
		Where("id = ?", b.ID).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", booking.ErrNotFound, b.ID)
	}
	return nil
}

// GetBookingsByUser → all bookings of a customer, newest first
func (d *DB) GetBookingsByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	bookings := []models.Booking{}
	err := d.Bun.NewSelect().
		Model(&bookings).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// GetBookingsByVendor → all bookings against a vendor, newest first
func (d *DB) GetBookingsByVendor(ctx context.Context, vendorID string) ([]models.Booking, error) {
	bookings := []models.Booking{}
	err := d.Bun.NewSelect().
		Model(&bookings).
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// GetBookingsByDate → every booking on a calendar date, cancelled included
func (d *DB) GetBookingsByDate(ctx context.Context, date string) ([]models.Booking, error) {
	bookings := []models.Booking{}
	err := d.Bun.NewSelect().
		Model(&bookings).
		Where("date = ?", date).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// CountActiveOnDate → number of non-cancelled bookings on a date, scoped
// to one vendor when vendorID is non-empty
func (d *DB) CountActiveOnDate(ctx context.Context, date, vendorID string) (int, error) {
	q := d.Bun.NewSelect().
		Model((*models.Booking)(nil)).
		Where("date = ?", date).
		Where("status != ?", models.StatusCancelled)
	if vendorID != "" {
		q = q.Where("vendor_id = ?", vendorID)
	}
	return q.Count(ctx)
}

// ActiveDates → distinct dates that still hold a non-cancelled booking
func (d *DB) ActiveDates(ctx context.Context) ([]string, error) {
	var dates []string
	err := d.Bun.NewSelect().
		Model((*models.Booking)(nil)).
		ColumnExpr("DISTINCT date").
		Where("status != ?", models.StatusCancelled).
		Scan(ctx, &dates)
	if err != nil {
		return nil, err
	}
	return dates, nil
}
