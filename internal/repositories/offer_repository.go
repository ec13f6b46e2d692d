package repositories

import (
	"context"
	"time"

	"fidelite/internal/models"
)

// OfferRepository defines merchant offers.
type OfferRepository interface {
	Create(ctx context.Context, offer *models.Offer) error
	GetByID(ctx context.Context, id uint) (*models.Offer, error)
	Update(ctx context.Context, offer *models.Offer) error
	Delete(ctx context.Context, id uint) error

	// ListActive returns unexpired offers, boosted first, then newest.
	ListActive(ctx context.Context, now time.Time, limit, offset int) ([]models.Offer, int64, error)
	ListByMerchant(ctx context.Context, merchantID uint, activeAt *time.Time) ([]models.Offer, error)
}
