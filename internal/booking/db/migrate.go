package db

import (
	"context"

	"github.com/uptrace/bun"

	"ms-bookings/internal/models"
)

// ResetTables drops and recreates the bun-managed tables. Used by tests
// and dev bootstrapping; production schemas come from the SQL migrations.
func ResetTables(ctx context.Context, bunDB *bun.DB) error {
	return bunDB.ResetModel(ctx,
		(*models.Booking)(nil),
		(*models.Notification)(nil),
		(*models.VendorService)(nil),
	)
}
