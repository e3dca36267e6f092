package booking

import (
	"context"
	"fmt"
	"time"

	"ms-bookings/internal/logger"
	"ms-bookings/internal/models"
	"ms-bookings/internal/utils"
)

type DBLayer interface {
	CreateBooking(ctx context.Context, b models.Booking) error
	GetBookingByID(ctx context.Context, id string) (*models.Booking, error)
	UpdateBooking(ctx context.Context, b models.Booking) error
	GetBookingsByUser(ctx context.Context, userID string) ([]models.Booking, error)
	GetBookingsByVendor(ctx context.Context, vendorID string) ([]models.Booking, error)
	GetBookingsByDate(ctx context.Context, date string) ([]models.Booking, error)
	CountActiveOnDate(ctx context.Context, date, vendorID string) (int, error)
	ActiveDates(ctx context.Context) ([]string, error)
}

type DateLock interface {
	LockDate(ctx context.Context, vendorID, date, bookingID string) (bool, error)
	UnlockDate(ctx context.Context, vendorID, date, bookingID string) error
}

type Publisher interface {
	PublishBookingCreated(b models.Booking) error
	PublishBookingStatus(b models.Booking) error
	PublishBookingPayment(b models.Booking) error
	PublishBookingCancelled(b models.Booking) error
}

// Notifier fans a booking mutation out to the customer and vendor
// inboxes. Fan-out is fire-and-forget: errors are logged by the caller and
// never fail the booking operation.
type Notifier interface {
	BookingCreated(ctx context.Context, b models.Booking) error
	BookingStatusChanged(ctx context.Context, b models.Booking) error
	PaymentProcessed(ctx context.Context, b models.Booking, amount float64) error
	PaymentStatusUpdated(ctx context.Context, b models.Booking) error
	BookingCancelled(ctx context.Context, b models.Booking) error
}

// Ledger records settled payments for the admin payment history.
type Ledger interface {
	RecordPayment(ctx context.Context, p models.PaymentRecord) error
}

// The intended lifecycle: pending bookings are confirmed or cancelled,
// confirmed bookings are completed or cancelled. CancelBooking is exempt
// and may cancel from any state (administrator override).
var transitions = map[models.BookingStatus][]models.BookingStatus{
	models.StatusPending:   {models.StatusConfirmed, models.StatusCancelled},
	models.StatusConfirmed: {models.StatusCompleted, models.StatusCancelled},
}

func transitionAllowed(from, to models.BookingStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type BookingService struct {
	DB       DBLayer
	Lock     DateLock
	Kafka    Publisher
	Notifier Notifier
	Ledger   Ledger
	Log      *logger.Logger
}

func NewBookingService(db DBLayer, lock DateLock, kafka Publisher, notifier Notifier, ledger Ledger, log *logger.Logger) *BookingService {
	return &BookingService{DB: db, Lock: lock, Kafka: kafka, Notifier: notifier, Ledger: ledger, Log: log}
}

// IsDateAvailable reports whether the date has no non-cancelled booking.
// With a vendor id the check is scoped to that vendor; without one any
// booking on the date makes it unavailable.
func (s *BookingService) IsDateAvailable(ctx context.Context, date, vendorID string) (bool, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return false, ErrInvalidDate
	}
	n, err := s.DB.CountActiveOnDate(ctx, date, vendorID)
	if err != nil {
		return false, fmt.Errorf("availability check for %s: %w", date, err)
	}
	return n == 0, nil
}

func (s *BookingService) CreateBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return nil, ErrInvalidDate
	}
	if req.Amount < 0 {
		return nil, ErrInvalidAmount
	}

	id := utils.NewBookingID()

	// The availability check and the insert are not atomic on their own;
	// the vendor-date lock closes the double-booking race between
	// concurrent callers.
	ok, err := s.Lock.LockDate(ctx, req.VendorID, req.Date, id)
	if err != nil {
		return nil, fmt.Errorf("date lock error: %w", err)
	}
	if !ok {
		return nil, ErrDateUnavailable
	}
	defer func() {
		if err := s.Lock.UnlockDate(ctx, req.VendorID, req.Date, id); err != nil {
			s.Log.Error("REDIS", fmt.Sprintf("failed to unlock date %s for vendor %s: %v", req.Date, req.VendorID, err))
		}
	}()

	available, err := s.IsDateAvailable(ctx, req.Date, req.VendorID)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, ErrDateUnavailable
	}

	b := models.Booking{
		ID:                 id,
		UserID:             req.UserID,
		VendorID:           req.VendorID,
		VendorName:         req.VendorName,
		ServiceID:          req.ServiceID,
		ServiceName:        req.ServiceName,
		ServiceDescription: req.ServiceDescription,
		Date:               req.Date,
		Time:               req.Time,
		Status:             models.StatusPending,
		Amount:             req.Amount,
		PaymentStatus:      models.PaymentUnpaid,
		Notes:              req.Notes,
		CreatedAt:          time.Now().UTC(),

		Name:         req.Name,
		Email:        req.Email,
		RoomType:     req.ServiceName,
		CheckInDate:  req.Date,
		CheckOutDate: req.Date,
		TotalPrice:   req.Amount,
	}

	if err := s.DB.CreateBooking(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	s.Log.LogBooking("CREATE", b.ID, fmt.Sprintf("vendor=%s date=%s", b.VendorID, b.Date))

	if err := s.Kafka.PublishBookingCreated(b); err != nil {
		s.Log.Error("KAFKA", fmt.Sprintf("publish booking created: %v", err))
	}
	if err := s.Notifier.BookingCreated(ctx, b); err != nil {
		s.Log.Error("NOTIFY", fmt.Sprintf("fan-out for booking %s: %v", b.ID, err))
	}

	return &b, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	return s.DB.GetBookingByID(ctx, id)
}

func (s *BookingService) GetUserBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	return s.DB.GetBookingsByUser(ctx, userID)
}

func (s *BookingService) GetVendorBookings(ctx context.Context, vendorID string) ([]models.Booking, error) {
	return s.DB.GetBookingsByVendor(ctx, vendorID)
}

func (s *BookingService) GetBookingsByDate(ctx context.Context, date string) ([]models.Booking, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, ErrInvalidDate
	}
	return s.DB.GetBookingsByDate(ctx, date)
}

// GetBookedDates returns the distinct dates that have at least one
// non-cancelled booking. Rows whose date does not parse are logged and
// skipped.
func (s *BookingService) GetBookedDates(ctx context.Context) ([]time.Time, error) {
	dates, err := s.DB.ActiveDates(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		t, err := time.Parse("2006-01-02", d)
		if err != nil {
			s.Log.Warn("BOOKING", fmt.Sprintf("skipping unparsable booking date %q", d))
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *BookingService) UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	b, err := s.DB.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !transitionAllowed(b.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, status)
	}

	b.Status = status
	if err := s.DB.UpdateBooking(ctx, *b); err != nil {
		return nil, fmt.Errorf("failed to update booking %s: %w", id, err)
	}
	s.Log.LogBooking("STATUS", b.ID, string(status))

	if err := s.Kafka.PublishBookingStatus(*b); err != nil {
		s.Log.Error("KAFKA", fmt.Sprintf("publish booking status: %v", err))
	}
	if err := s.Notifier.BookingStatusChanged(ctx, *b); err != nil {
		s.Log.Error("NOTIFY", fmt.Sprintf("fan-out for booking %s: %v", b.ID, err))
	}
	return b, nil
}

// UpdatePaymentStatus lets an administrator or vendor mark a booking paid
// or unpaid without going through ProcessPayment. Marking paid settles the
// full amount, marking unpaid resets it; the stored payment status is
// recomputed from the amounts so the two cannot disagree.
func (s *BookingService) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus, method models.PaymentMethod) (*models.Booking, error) {
	if !status.Valid() {
		return nil, ErrInvalidPaymentStatus
	}
	if method != "" && !method.Valid() {
		return nil, ErrInvalidPaymentMethod
	}
	b, err := s.DB.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch status {
	case models.PaymentPaid:
		b.AmountPaid = b.Amount
		b.PaymentDate = time.Now().UTC()
	case models.PaymentUnpaid:
		b.AmountPaid = 0
	case models.PaymentPartial:
		// Partial carries no amount of its own; it is only valid when the
		// recorded amounts already classify as partial.
		if models.PaymentStatusFor(b.AmountPaid, b.Amount) != models.PaymentPartial {
			return nil, ErrInvalidPaymentStatus
		}
	}
	if method != "" {
		b.PaymentMethod = method
	}
	b.PaymentStatus = models.PaymentStatusFor(b.AmountPaid, b.Amount)

	if err := s.DB.UpdateBooking(ctx, *b); err != nil {
		return nil, fmt.Errorf("failed to update payment status for %s: %w", id, err)
	}
	s.Log.LogBooking("PAYMENT_STATUS", b.ID, string(b.PaymentStatus))

	if err := s.Kafka.PublishBookingPayment(*b); err != nil {
		s.Log.Error("KAFKA", fmt.Sprintf("publish payment status: %v", err))
	}
	if err := s.Notifier.PaymentStatusUpdated(ctx, *b); err != nil {
		s.Log.Error("NOTIFY", fmt.Sprintf("fan-out for booking %s: %v", b.ID, err))
	}
	return b, nil
}

// ProcessPayment settles part or all of a booking's amount. A payment may
// never push the collected total past the booking amount.
func (s *BookingService) ProcessPayment(ctx context.Context, id string, amount float64, method models.PaymentMethod) (*models.Booking, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !method.Valid() {
		return nil, ErrInvalidPaymentMethod
	}
	b, err := s.DB.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.AmountPaid+amount > b.Amount {
		return nil, ErrPaymentExceedsTotal
	}

	b.AmountPaid += amount
	b.PaymentStatus = models.PaymentStatusFor(b.AmountPaid, b.Amount)
	b.PaymentMethod = method
	b.PaymentDate = time.Now().UTC()

	if err := s.DB.UpdateBooking(ctx, *b); err != nil {
		return nil, fmt.Errorf("failed to record payment for %s: %w", id, err)
	}
	s.Log.LogBooking("PAYMENT", b.ID, fmt.Sprintf("amount=%.2f method=%s status=%s", amount, method, b.PaymentStatus))

	if s.Ledger != nil {
		rec := models.PaymentRecord{
			ID:        utils.NewPaymentID(),
			BookingID: b.ID,
			Amount:    amount,
			Method:    method,
			CreatedAt: b.PaymentDate,
		}
		if err := s.Ledger.RecordPayment(ctx, rec); err != nil {
			s.Log.Error("DATABASE", fmt.Sprintf("payment ledger write for %s: %v", b.ID, err))
		}
	}

	if err := s.Kafka.PublishBookingPayment(*b); err != nil {
		s.Log.Error("KAFKA", fmt.Sprintf("publish payment: %v", err))
	}
	if err := s.Notifier.PaymentProcessed(ctx, *b, amount); err != nil {
		s.Log.Error("NOTIFY", fmt.Sprintf("fan-out for booking %s: %v", b.ID, err))
	}
	return b, nil
}

// CancelBooking is a soft cancel: the booking stays in the store but stops
// counting against availability. Unlike UpdateBookingStatus it is allowed
// from any state, including completed.
func (s *BookingService) CancelBooking(ctx context.Context, id string) (*models.Booking, error) {
	b, err := s.DB.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}

	b.Status = models.StatusCancelled
	if err := s.DB.UpdateBooking(ctx, *b); err != nil {
		return nil, fmt.Errorf("failed to cancel booking %s: %w", id, err)
	}
	s.Log.LogBooking("CANCEL", b.ID, fmt.Sprintf("vendor=%s date=%s", b.VendorID, b.Date))

	if err := s.Kafka.PublishBookingCancelled(*b); err != nil {
		s.Log.Error("KAFKA", fmt.Sprintf("publish booking cancelled: %v", err))
	}
	if err := s.Notifier.BookingCancelled(ctx, *b); err != nil {
		s.Log.Error("NOTIFY", fmt.Sprintf("fan-out for booking %s: %v", b.ID, err))
	}
	return b, nil
}
