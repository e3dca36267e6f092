package api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"ms-bookings/internal/booking"
	"ms-bookings/internal/booking/api"
	bookingdb "ms-bookings/internal/booking/db"
	bookingredis "ms-bookings/internal/booking/redis"
	"ms-bookings/internal/booking/voucher"
	"ms-bookings/internal/logger"
	"ms-bookings/internal/models"
	"ms-bookings/internal/notification"
	notifdb "ms-bookings/internal/notification/db"
)

type nopPublisher struct{}

func (nopPublisher) PublishBookingCreated(models.Booking) error   { return nil }
func (nopPublisher) PublishBookingStatus(models.Booking) error    { return nil }
func (nopPublisher) PublishBookingPayment(models.Booking) error   { return nil }
func (nopPublisher) PublishBookingCancelled(models.Booking) error { return nil }

func setupServer(t *testing.T) (*httptest.Server, *notification.Service) {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	require.NoError(t, bookingdb.ResetTables(context.Background(), bunDB))
	t.Cleanup(func() { bunDB.Close() })

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := logger.Discard()
	notifSvc := notification.NewService(&notifdb.DB{Bun: bunDB})
	svc := booking.NewBookingService(
		&bookingdb.DB{Bun: bunDB},
		bookingredis.NewRedis(client, log),
		nopPublisher{},
		notifSvc,
		nil,
		log,
	)

	r := chi.NewRouter()
	api.NewHandler(svc, voucher.NewGenerator("voucher-secret"), nil, log).Register(r)

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts, notifSvc
}

func doJSON(t *testing.T, method, url string, body interface{}) (*http.Response, map[string]json.RawMessage) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var envelope map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func bookingFrom(t *testing.T, envelope map[string]json.RawMessage) models.Booking {
	t.Helper()
	var b models.Booking
	require.NoError(t, json.Unmarshal(envelope["data"], &b))
	return b
}

func bookingRequest() models.BookingRequest {
	return models.BookingRequest{
		UserID:      "user-1",
		VendorID:    "V1",
		VendorName:  "Luna Catering",
		ServiceID:   "svc-1",
		ServiceName: "Full Catering Package",
		Date:        "2025-06-01",
		Time:        "2:00 PM",
		Amount:      1000,
		Name:        "Maria Cruz",
		Email:       "maria@example.com",
	}
}

func TestBookingLifecycle(t *testing.T) {
	ts, _ := setupServer(t)

	// The date starts out free.
	resp, body := doJSON(t, http.MethodGet, ts.URL+"/availability?date=2025-06-01&vendorId=V1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "true", string(body["available"]))

	resp, envelope := doJSON(t, http.MethodPost, ts.URL+"/bookings", bookingRequest())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	b := bookingFrom(t, envelope)
	assert.Equal(t, models.StatusPending, b.Status)
	assert.Equal(t, models.PaymentUnpaid, b.PaymentStatus)

	// Same vendor and date again: taken.
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/bookings", bookingRequest())
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/availability?date=2025-06-01&vendorId=V1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "false", string(body["available"]))

	// Confirm, then pay in two installments.
	resp, envelope = doJSON(t, http.MethodPatch, ts.URL+"/bookings/"+b.ID+"/status",
		models.StatusUpdateRequest{Status: models.StatusConfirmed})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.StatusConfirmed, bookingFrom(t, envelope).Status)

	resp, envelope = doJSON(t, http.MethodPost, ts.URL+"/bookings/"+b.ID+"/payments",
		models.PaymentRequest{Amount: 400, Method: models.MethodGCash})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.PaymentPartial, bookingFrom(t, envelope).PaymentStatus)

	resp, envelope = doJSON(t, http.MethodPost, ts.URL+"/bookings/"+b.ID+"/payments",
		models.PaymentRequest{Amount: 600, Method: models.MethodGCash})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	paid := bookingFrom(t, envelope)
	assert.Equal(t, models.PaymentPaid, paid.PaymentStatus)
	assert.Equal(t, 1000.0, paid.AmountPaid)

	// Overpaying is rejected.
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/bookings/"+b.ID+"/payments",
		models.PaymentRequest{Amount: 1, Method: models.MethodCash})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Cancel frees the date.
	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/bookings/"+b.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/availability?date=2025-06-01&vendorId=V1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "true", string(body["available"]))
}

func TestIllegalStatusTransition(t *testing.T) {
	ts, _ := setupServer(t)

	resp, envelope := doJSON(t, http.MethodPost, ts.URL+"/bookings", bookingRequest())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	b := bookingFrom(t, envelope)

	// pending cannot jump straight to completed.
	resp, _ = doJSON(t, http.MethodPatch, ts.URL+"/bookings/"+b.ID+"/status",
		models.StatusUpdateRequest{Status: models.StatusCompleted})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestVoucher(t *testing.T) {
	ts, _ := setupServer(t)

	resp, envelope := doJSON(t, http.MethodPost, ts.URL+"/bookings", bookingRequest())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	b := bookingFrom(t, envelope)

	// Pending bookings have no voucher yet.
	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/bookings/"+b.ID+"/voucher", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPatch, ts.URL+"/bookings/"+b.ID+"/status",
		models.StatusUpdateRequest{Status: models.StatusConfirmed})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	vresp, err := http.Get(ts.URL + "/bookings/" + b.ID + "/voucher")
	require.NoError(t, err)
	defer vresp.Body.Close()
	assert.Equal(t, http.StatusOK, vresp.StatusCode)
	assert.Equal(t, "image/png", vresp.Header.Get("Content-Type"))
}

func TestGetBooking_NotFound(t *testing.T) {
	ts, _ := setupServer(t)

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/bookings/booking-ghost", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListBookings_RequiresFilter(t *testing.T) {
	ts, _ := setupServer(t)

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/bookings", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateBooking_FansOutNotifications(t *testing.T) {
	ts, notifSvc := setupServer(t)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/bookings", bookingRequest())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	userNotifs, err := notifSvc.ForUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, userNotifs, 1)
	assert.Equal(t, "Booking Received", userNotifs[0].Title)

	vendorNotifs, err := notifSvc.ForVendor(context.Background(), "V1")
	require.NoError(t, err)
	require.Len(t, vendorNotifs, 1)
	assert.Equal(t, "New Booking Request", vendorNotifs[0].Title)
}
