package voucher

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/skip2/go-qrcode"

	"ms-bookings/internal/models"
)

// ErrNotConfirmed is returned when a voucher is requested for a booking
// that has not been confirmed.
var ErrNotConfirmed = errors.New("voucher available only for confirmed bookings")

// Generator renders a confirmed booking as a QR voucher the vendor scans
// on the event day. The payload is signed so a vendor can verify it was
// issued by the marketplace.
type Generator struct {
	secret []byte
}

func NewGenerator(secret string) *Generator {
	hashed := sha256.Sum256([]byte(secret))
	return &Generator{secret: hashed[:]}
}

type payload struct {
	BookingID string `json:"bookingId"`
	VendorID  string `json:"vendorId"`
	ServiceID string `json:"serviceId"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Signature string `json:"sig"`
}

// Payload returns the signed JSON document embedded in the QR code.
func (g *Generator) Payload(b models.Booking) ([]byte, error) {
	if b.Status != models.StatusConfirmed {
		return nil, ErrNotConfirmed
	}

	p := payload{
		BookingID: b.ID,
		VendorID:  b.VendorID,
		ServiceID: b.ServiceID,
		Date:      b.Date,
		Time:      b.Time,
	}
	p.Signature = g.sign(p)
	return json.Marshal(p)
}

// GenerateVoucher returns a PNG-encoded QR code for a confirmed booking.
func (g *Generator) GenerateVoucher(b models.Booking) ([]byte, error) {
	data, err := g.Payload(b)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(string(data), qrcode.Medium, 256)
}

// Verify checks a scanned voucher payload against its signature.
func (g *Generator) Verify(raw []byte) (string, error) {
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return "", fmt.Errorf("malformed voucher: %w", err)
	}
	sig := p.Signature
	p.Signature = ""
	if !hmac.Equal([]byte(sig), []byte(g.sign(p))) {
		return "", errors.New("voucher signature mismatch")
	}
	return p.BookingID, nil
}

func (g *Generator) sign(p payload) string {
	mac := hmac.New(sha256.New, g.secret)
	fmt.Fprintf(mac, "%s|%s|%s|%s|%s", p.BookingID, p.VendorID, p.ServiceID, p.Date, p.Time)
	return base64.URLEncoding.EncodeToString(mac.Sum(nil))
}
