package repositories

import (
	"context"

	domainErrors "fidelite/internal/errors"
	"fidelite/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type merchantRepository struct {
	db *gorm.DB
}

func NewMerchantRepository(db *gorm.DB) MerchantRepository {
	return &merchantRepository{db: db}
}

func (r *merchantRepository) GetByID(ctx context.Context, id uint) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := r.db.WithContext(ctx).First(&merchant, id).Error; err != nil {
		return nil, notFoundOr(err, ErrMerchantNotFound)
	}
	return &merchant, nil
}

func (r *merchantRepository) Update(ctx context.Context, merchant *models.Merchant) error {
	result := r.db.WithContext(ctx).Model(merchant).
		Select("name", "address", "city", "category", "description", "logo_url", "cover_url").
		Updates(merchant)
	if result.Error != nil {
		return domainErrors.Provider(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrMerchantNotFound
	}
	return nil
}

func (r *merchantRepository) List(ctx context.Context, filter MerchantFilter, limit, offset int) ([]models.Merchant, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Merchant{})
	if filter.City != "" {
		query = query.Where("LOWER(city) = LOWER(?)", filter.City)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, domainErrors.Provider(err)
	}

	var merchants []models.Merchant
	if err := query.Order("name ASC, id ASC").Limit(limit).Offset(offset).Find(&merchants).Error; err != nil {
		return nil, 0, domainErrors.Provider(err)
	}
	return merchants, total, nil
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Upsert(ctx context.Context, rating *models.Rating) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "customer_id"}, {Name: "merchant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
	}).Create(rating).Error
	if err != nil {
		return domainErrors.Provider(err)
	}
	return nil
}

func (r *ratingRepository) Average(ctx context.Context, merchantID uint) (RatingStats, error) {
	var stats RatingStats
	err := r.db.WithContext(ctx).Model(&models.Rating{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("merchant_id = ?", merchantID).
		Scan(&stats).Error
	if err != nil {
		return RatingStats{}, domainErrors.Provider(err)
	}
	return stats, nil
}
