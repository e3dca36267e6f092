package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"ms-bookings/internal/catalog"
	"ms-bookings/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateService(ctx context.Context, svc models.VendorService) error {
	_, err := d.Bun.NewInsert().Model(&svc).Exec(ctx)
	return err
}

func (d *DB) GetServiceByID(ctx context.Context, id string) (*models.VendorService, error) {
	var svc models.VendorService
	err := d.Bun.NewSelect().
		Model(&svc).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", catalog.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

func (d *DB) ServicesByVendor(ctx context.Context, vendorID string) ([]models.VendorService, error) {
	services := []models.VendorService{}
	err := d.Bun.NewSelect().
		Model(&services).
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return services, nil
}

func (d *DB) UpdateService(ctx context.Context, svc models.VendorService) error {
	res, err := d.Bun.NewUpdate().
		Model(&svc).
		Column("name", "description", "category", "price").
		Where("id = ?", svc.ID).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", catalog.ErrNotFound, svc.ID)
	}
	return nil
}

func (d *DB) DeleteService(ctx context.Context, id string) error {
	res, err := d.Bun.NewDelete().
		Model((*models.VendorService)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", catalog.ErrNotFound, id)
	}
	return nil
}
