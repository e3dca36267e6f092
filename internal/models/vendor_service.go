package models

import (
	"time"

	"github.com/uptrace/bun"
)

// VendorService is one entry in a vendor's service catalog. Bookings
// reference these by ServiceID.
type VendorService struct {
	bun.BaseModel `bun:"table:vendor_services"`

	ID          string    `bun:"id,pk" json:"id"`
	VendorID    string    `bun:"vendor_id,notnull" json:"vendorId"`
	Name        string    `bun:"name,notnull" json:"name"`
	Description string    `bun:"description" json:"description"`
	Category    string    `bun:"category" json:"category"`
	Price       float64   `bun:"price,notnull" json:"price"`
	CreatedAt   time.Time `bun:"created_at,notnull" json:"createdAt"`
}
