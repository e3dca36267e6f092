package notification_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	bookingdb "ms-bookings/internal/booking/db"
	"ms-bookings/internal/models"
	"ms-bookings/internal/notification"
	notifdb "ms-bookings/internal/notification/db"
)

func setupService(t *testing.T) *notification.Service {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	require.NoError(t, bookingdb.ResetTables(context.Background(), bunDB))
	t.Cleanup(func() { bunDB.Close() })

	return notification.NewService(&notifdb.DB{Bun: bunDB})
}

func sampleBooking() models.Booking {
	return models.Booking{
		ID:            "booking-5f2c1a-full",
		UserID:        "user-1",
		VendorID:      "V1",
		VendorName:    "Luna Catering",
		ServiceName:   "Full Catering Package",
		Date:          "2025-06-01",
		Time:          "2:00 PM",
		Status:        models.StatusPending,
		Amount:        45000,
		PaymentStatus: models.PaymentUnpaid,
	}
}

func TestBookingCreated_FanOut(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	require.NoError(t, svc.BookingCreated(ctx, sampleBooking()))

	userNotifs, err := svc.ForUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, userNotifs, 1)
	assert.Equal(t, "Booking Received", userNotifs[0].Title)
	assert.Equal(t, "Your booking with Luna Catering for Full Catering Package has been received and is pending confirmation.", userNotifs[0].Message)
	assert.Equal(t, models.NotifBooking, userNotifs[0].Type)
	assert.False(t, userNotifs[0].Read)
	assert.Contains(t, userNotifs[0].ID, "notif-")

	vendorNotifs, err := svc.ForVendor(ctx, "V1")
	require.NoError(t, err)
	require.Len(t, vendorNotifs, 1)
	assert.Equal(t, "New Booking Request", vendorNotifs[0].Title)
	assert.Equal(t, "You have received a new booking request for Full Catering Package on 2025-06-01 at 2:00 PM.", vendorNotifs[0].Message)
}

func TestPaymentProcessed_Messages(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	b := sampleBooking()
	b.PaymentMethod = models.MethodGCash
	require.NoError(t, svc.PaymentProcessed(ctx, b, 12500))

	userNotifs, err := svc.ForUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, userNotifs, 1)
	assert.Equal(t, "Payment Successful", userNotifs[0].Title)
	assert.Equal(t, "Your payment of ₱12,500 for Full Catering Package with Luna Catering has been processed via gcash.", userNotifs[0].Message)

	vendorNotifs, err := svc.ForVendor(ctx, "V1")
	require.NoError(t, err)
	require.Len(t, vendorNotifs, 1)
	// Vendor copy abbreviates the booking id to its first six characters.
	assert.Equal(t, "Payment of ₱12,500 received for booking bookin... - Full Catering Package via gcash.", vendorNotifs[0].Message)
}

func TestBookingStatusChanged_TitleCase(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	b := sampleBooking()
	b.Status = models.StatusConfirmed
	require.NoError(t, svc.BookingStatusChanged(ctx, b))

	userNotifs, err := svc.ForUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, userNotifs, 1)
	assert.Equal(t, "Booking Confirmed", userNotifs[0].Title)
	assert.Equal(t, "Your booking for Full Catering Package with Luna Catering has been confirmed.", userNotifs[0].Message)
}

func TestAdminBookingEvent(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	require.NoError(t, svc.AdminBookingEvent("booking-cancelled", sampleBooking()))

	notifs, err := svc.Recent(ctx, "admin", models.AudienceAdmin)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, "Booking Cancelled", notifs[0].Title)
	assert.Equal(t, models.NotifSystem, notifs[0].Type)
}

func TestRecent_LimitsToFive(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		b := sampleBooking()
		require.NoError(t, svc.BookingCancelled(ctx, b))
		time.Sleep(2 * time.Millisecond)
	}

	notifs, err := svc.Recent(ctx, "user-1", models.AudienceUser)
	require.NoError(t, err)
	assert.Len(t, notifs, 5)

	all, err := svc.ForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, all, 8)
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	require.NoError(t, svc.BookingCreated(ctx, sampleBooking()))
	require.NoError(t, svc.BookingCancelled(ctx, sampleBooking()))

	n, err := svc.UnreadCount(ctx, "user-1", models.AudienceUser)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	notifs, err := svc.ForUser(ctx, "user-1")
	require.NoError(t, err)
	require.NoError(t, svc.MarkAsRead(ctx, notifs[0].ID))

	n, err = svc.UnreadCount(ctx, "user-1", models.AudienceUser)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, svc.MarkAllAsRead(ctx, "user-1", models.AudienceUser))
	n, err = svc.UnreadCount(ctx, "user-1", models.AudienceUser)
	require.NoError(t, err)
	assert.Zero(t, n)

	// Vendor inbox is untouched by the user's read state.
	n, err = svc.UnreadCount(ctx, "V1", models.AudienceVendor)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMarkReadAndDelete_NotFound(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.MarkAsRead(ctx, "notif-ghost"), notification.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "notif-ghost"), notification.ErrNotFound)
}

func TestDelete(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	require.NoError(t, svc.BookingCreated(ctx, sampleBooking()))
	notifs, err := svc.ForUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, notifs, 1)

	require.NoError(t, svc.Delete(ctx, notifs[0].ID))

	notifs, err = svc.ForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, notifs)
}
