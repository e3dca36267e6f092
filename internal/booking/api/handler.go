package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-bookings/internal/booking"
	"ms-bookings/internal/booking/voucher"
	"ms-bookings/internal/logger"
	"ms-bookings/internal/models"
	"ms-bookings/internal/utils"
)

// LedgerReader exposes the payment history for a booking.
type LedgerReader interface {
	PaymentsByBooking(ctx context.Context, bookingID string) ([]models.PaymentRecord, error)
}

type Handler struct {
	Bookings *booking.BookingService
	Voucher  *voucher.Generator
	Ledger   LedgerReader
	Log      *logger.Logger
}

func NewHandler(svc *booking.BookingService, v *voucher.Generator, ledger LedgerReader, log *logger.Logger) *Handler {
	return &Handler{Bookings: svc, Voucher: v, Ledger: ledger, Log: log}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/bookings", h.CreateBooking)
	r.Get("/bookings", h.ListBookings)
	r.Get("/bookings/{bookingId}", h.GetBooking)
	r.Delete("/bookings/{bookingId}", h.CancelBooking)
	r.Patch("/bookings/{bookingId}/status", h.UpdateStatus)
	r.Patch("/bookings/{bookingId}/payment-status", h.UpdatePaymentStatus)
	r.Post("/bookings/{bookingId}/payments", h.ProcessPayment)
	r.Get("/bookings/{bookingId}/payments", h.ListPayments)
	r.Get("/bookings/{bookingId}/voucher", h.GetVoucher)
	r.Get("/availability", h.CheckAvailability)
	r.Get("/booked-dates", h.BookedDates)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, booking.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, booking.ErrDateUnavailable):
		return http.StatusConflict
	case errors.Is(err, booking.ErrInvalidTransition),
		errors.Is(err, booking.ErrInvalidStatus),
		errors.Is(err, booking.ErrInvalidPaymentStatus),
		errors.Is(err, booking.ErrInvalidPaymentMethod),
		errors.Is(err, booking.ErrInvalidAmount),
		errors.Is(err, booking.ErrPaymentExceedsTotal),
		errors.Is(err, booking.ErrInvalidDate):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.Log.Error("API", "encode response: "+err.Error())
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, err error) {
	h.writeJSON(w, statusFor(err), utils.ErrorResponse(message, err.Error()))
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req models.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("invalid request body", err.Error()))
		return
	}

	b, err := h.Bookings.CreateBooking(r.Context(), req)
	if err != nil {
		h.Log.Error("API", fmt.Sprintf("CreateBooking: %v", err))
		h.writeError(w, "could not create booking", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, utils.SuccessResponse("booking created", b))
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")

	b, err := h.Bookings.GetBooking(r.Context(), bookingID)
	if err != nil {
		h.writeError(w, "booking not found", err)
		return
	}
	h.writeJSON(w, http.StatusOK, b)
}

// ListBookings supports exactly one of userId, vendorId or date.
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	var (
		bookings []models.Booking
		err      error
	)
	switch {
	case r.URL.Query().Get("userId") != "":
		bookings, err = h.Bookings.GetUserBookings(r.Context(), r.URL.Query().Get("userId"))
	case r.URL.Query().Get("vendorId") != "":
		bookings, err = h.Bookings.GetVendorBookings(r.Context(), r.URL.Query().Get("vendorId"))
	case r.URL.Query().Get("date") != "":
		bookings, err = h.Bookings.GetBookingsByDate(r.Context(), r.URL.Query().Get("date"))
	default:
		h.writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("missing filter", "one of userId, vendorId or date is required"))
		return
	}
	if err != nil {
		h.writeError(w, "could not list bookings", err)
		return
	}
	h.writeJSON(w, http.StatusOK, bookings)
}

func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")

	b, err := h.Bookings.CancelBooking(r.Context(), bookingID)
	if err != nil {
		h.Log.Error("API", fmt.Sprintf("CancelBooking: %v", err))
		h.writeError(w, "could not cancel booking", err)
		return
	}
	h.writeJSON(w, http.StatusOK, utils.SuccessResponse("booking cancelled", b))
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")

	var req models.StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("invalid request body", err.Error()))
		return
	}

	b, err := h.Bookings.UpdateBookingStatus(r.Context(), bookingID, req.Status)
	if err != nil {
		h.Log.Error("API", fmt.Sprintf("UpdateStatus: %v", err))
		h.writeError(w, "could not update booking status", err)
		return
	}
	h.writeJSON(w, http.StatusOK, utils.SuccessResponse("booking status updated", b))
}

func (h *Handler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")

	var req models.PaymentStatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("invalid request body", err.Error()))
		return
	}

	b, err := h.Bookings.UpdatePaymentStatus(r.Context(), bookingID, req.PaymentStatus, req.Method)
	if err != nil {
		h.Log.Error("API", fmt.Sprintf("UpdatePaymentStatus: %v", err))
		h.writeError(w, "could not update payment status", err)
		return
	}
	h.writeJSON(w, http.StatusOK, utils.SuccessResponse("payment status updated", b))
}

func (h *Handler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")

	var req models.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("invalid request body", err.Error()))
		return
	}

	b, err := h.Bookings.ProcessPayment(r.Context(), bookingID, req.Amount, req.Method)
	if err != nil {
		h.Log.Error("API", fmt.Sprintf("ProcessPayment: %v", err))
		h.writeError(w, "payment failed", err)
		return
	}
	h.writeJSON(w, http.StatusOK, utils.SuccessResponse("payment processed", b))
}

func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")

	if h.Ledger == nil {
		h.writeJSON(w, http.StatusOK, []models.PaymentRecord{})
		return
	}
	records, err := h.Ledger.PaymentsByBooking(r.Context(), bookingID)
	if err != nil {
		h.writeError(w, "could not load payments", err)
		return
	}
	h.writeJSON(w, http.StatusOK, records)
}

func (h *Handler) GetVoucher(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")

	b, err := h.Bookings.GetBooking(r.Context(), bookingID)
	if err != nil {
		h.writeError(w, "booking not found", err)
		return
	}

	png, err := h.Voucher.GenerateVoucher(*b)
	if errors.Is(err, voucher.ErrNotConfirmed) {
		h.writeJSON(w, http.StatusConflict, utils.ErrorResponse("voucher unavailable", err.Error()))
		return
	}
	if err != nil {
		h.writeError(w, "could not generate voucher", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (h *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	vendorID := r.URL.Query().Get("vendorId")

	available, err := h.Bookings.IsDateAvailable(r.Context(), date, vendorID)
	if err != nil {
		h.writeError(w, "availability check failed", err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"date":      date,
		"vendorId":  vendorID,
		"available": available,
	})
}

func (h *Handler) BookedDates(w http.ResponseWriter, r *http.Request) {
	dates, err := h.Bookings.GetBookedDates(r.Context())
	if err != nil {
		h.writeError(w, "could not load booked dates", err)
		return
	}
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = utils.FormatDate(d)
	}
	h.writeJSON(w, http.StatusOK, out)
}
