package repositories

import (
	"context"
	"time"

	domainErrors "fidelite/internal/errors"
	"fidelite/internal/models"

	"gorm.io/gorm"
)

type offerRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) OfferRepository {
	return &offerRepository{db: db}
}

func (r *offerRepository) Create(ctx context.Context, offer *models.Offer) error {
	if err := r.db.WithContext(ctx).Create(offer).Error; err != nil {
		return domainErrors.Provider(err)
	}
	return nil
}

func (r *offerRepository) GetByID(ctx context.Context, id uint) (*models.Offer, error) {
	var offer models.Offer
	if err := r.db.WithContext(ctx).First(&offer, id).Error; err != nil {
		return nil, notFoundOr(err, ErrOfferNotFound)
	}
	return &offer, nil
}

func (r *offerRepository) Update(ctx context.Context, offer *models.Offer) error {
	if err := r.db.WithContext(ctx).Save(offer).Error; err != nil {
		return domainErrors.Provider(err)
	}
	return nil
}

func (r *offerRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM customer_offers WHERE offer_id = ?", id).Error; err != nil {
			return domainErrors.Provider(err)
		}
		result := tx.Delete(&models.Offer{}, id)
		if result.Error != nil {
			return domainErrors.Provider(result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrOfferNotFound
		}
		return nil
	})
}

func (r *offerRepository) ListActive(ctx context.Context, now time.Time, limit, offset int) ([]models.Offer, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Offer{}).Where("expires_at > ?", now)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, domainErrors.Provider(err)
	}

	var offers []models.Offer
	err := query.Order("is_boosted DESC, created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&offers).Error
	if err != nil {
		return nil, 0, domainErrors.Provider(err)
	}
	return offers, total, nil
}

func (r *offerRepository) ListByMerchant(ctx context.Context, merchantID uint, activeAt *time.Time) ([]models.Offer, error) {
	query := r.db.WithContext(ctx).Where("merchant_id = ?", merchantID)
	if activeAt != nil {
		query = query.Where("expires_at > ?", *activeAt)
	}

	var offers []models.Offer
	if err := query.Order("is_boosted DESC, created_at DESC, id DESC").Find(&offers).Error; err != nil {
		return nil, domainErrors.Provider(err)
	}
	return offers, nil
}
