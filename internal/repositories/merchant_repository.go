package repositories

import (
	"context"

	"fidelite/internal/models"
)

type MerchantFilter struct {
	City     string
	Category string
}

// MerchantRepository defines the storefront records.
type MerchantRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Merchant, error)
	Update(ctx context.Context, merchant *models.Merchant) error
	List(ctx context.Context, filter MerchantFilter, limit, offset int) ([]models.Merchant, int64, error)
}

// RatingRepository defines the customer-merchant rating links.
type RatingRepository interface {
	// Upsert creates the (customer, merchant) rating or replaces its value.
	Upsert(ctx context.Context, rating *models.Rating) error
	Average(ctx context.Context, merchantID uint) (RatingStats, error)
}

type RatingStats struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}
