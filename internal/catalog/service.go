package catalog

import (
	"context"
	"errors"
	"time"

	"ms-bookings/internal/models"
	"ms-bookings/internal/utils"
)

var (
	ErrNotFound     = errors.New("vendor service not found")
	ErrInvalidPrice = errors.New("service price must not be negative")
)

type DBLayer interface {
	CreateService(ctx context.Context, svc models.VendorService) error
	GetServiceByID(ctx context.Context, id string) (*models.VendorService, error)
	ServicesByVendor(ctx context.Context, vendorID string) ([]models.VendorService, error)
	UpdateService(ctx context.Context, svc models.VendorService) error
	DeleteService(ctx context.Context, id string) error
}

// Service manages the vendor service catalog bookings are made against.
type Service struct {
	DB DBLayer
}

func NewService(db DBLayer) *Service {
	return &Service{DB: db}
}

func (s *Service) Create(ctx context.Context, vendorID, name, description, category string, price float64) (*models.VendorService, error) {
	if price < 0 {
		return nil, ErrInvalidPrice
	}
	svc := models.VendorService{
		ID:          utils.NewServiceID(),
		VendorID:    vendorID,
		Name:        name,
		Description: description,
		Category:    category,
		Price:       price,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.DB.CreateService(ctx, svc); err != nil {
		return nil, err
	}
	return &svc, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.VendorService, error) {
	return s.DB.GetServiceByID(ctx, id)
}

func (s *Service) ListByVendor(ctx context.Context, vendorID string) ([]models.VendorService, error) {
	return s.DB.ServicesByVendor(ctx, vendorID)
}

func (s *Service) Update(ctx context.Context, svc models.VendorService) error {
	if svc.Price < 0 {
		return ErrInvalidPrice
	}
	return s.DB.UpdateService(ctx, svc)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.DB.DeleteService(ctx, id)
}
