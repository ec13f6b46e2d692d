package merchant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fidelite/internal/logger"
	"fidelite/internal/models"
	"fidelite/internal/repositories"
	cacheKeys "fidelite/internal/utils/cache"
	"fidelite/internal/validation"

	"go.uber.org/zap"
)

type Service interface {
	GetProfile(ctx context.Context, merchantID uint) (*models.Merchant, error)
	UpdateProfile(ctx context.Context, merchantID uint, req UpdateProfileRequest) (*models.Merchant, error)
	List(ctx context.Context, filter repositories.MerchantFilter, limit, offset int) (*Page, error)
	GetStorefront(ctx context.Context, merchantID uint) (*Storefront, error)
}

type service struct {
	merchants repositories.MerchantRepository
	offers    repositories.OfferRepository
	ratings   repositories.RatingRepository
	cache     repositories.CacheRepository
	metrics   CacheMetrics
	now       func() time.Time
}

func NewService(
	merchants repositories.MerchantRepository,
	offers repositories.OfferRepository,
	ratings repositories.RatingRepository,
	cache repositories.CacheRepository,
	metrics CacheMetrics,
) Service {
	if merchants == nil || offers == nil || ratings == nil {
		panic("merchant, offer and rating repositories are required")
	}
	if cache == nil {
		panic("cache is required")
	}
	if metrics == nil {
		metrics = noopCacheMetrics{}
	}
	return &service{
		merchants: merchants,
		offers:    offers,
		ratings:   ratings,
		cache:     cache,
		metrics:   metrics,
		now:       time.Now,
	}
}

func (s *service) GetProfile(ctx context.Context, merchantID uint) (*models.Merchant, error) {
	return s.merchants.GetByID(ctx, merchantID)
}

func (s *service) UpdateProfile(ctx context.Context, merchantID uint, req UpdateProfileRequest) (*models.Merchant, error) {
	merchant, err := s.merchants.GetByID(ctx, merchantID)
	if err != nil {
		return nil, err
	}

	merchant.Name = strings.TrimSpace(req.Name)
	merchant.Address = strings.TrimSpace(req.Address)
	merchant.City = strings.TrimSpace(req.City)
	merchant.Category = strings.TrimSpace(req.Category)
	merchant.Description = req.Description
	merchant.LogoURL = strings.TrimSpace(req.LogoURL)
	merchant.CoverURL = strings.TrimSpace(req.CoverURL)

	v := validation.New()
	v.MerchantProfile(merchant)
	if err := v.Err(); err != nil {
		return nil, err
	}

	if err := s.merchants.Update(ctx, merchant); err != nil {
		return nil, err
	}

	s.invalidate(ctx, merchantID)
	return merchant, nil
}

func (s *service) List(ctx context.Context, filter repositories.MerchantFilter, limit, offset int) (*Page, error) {
	key := cacheKeys.GenerateKey(cacheKeys.EntityMerchant, cacheKeys.KeyPage,
		fmt.Sprintf("%s|%s|%d|%d", strings.ToLower(filter.City), filter.Category, limit, offset))

	var page Page
	if s.lookup(ctx, key, &page, string(cacheKeys.EntityMerchant)) {
		return &page, nil
	}

	merchants, total, err := s.merchants.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	page = Page{Merchants: merchants, Total: total}
	s.store(ctx, key, page)
	return &page, nil
}

func (s *service) GetStorefront(ctx context.Context, merchantID uint) (*Storefront, error) {
	key := cacheKeys.GenerateKey(cacheKeys.EntityStorefront, cacheKeys.KeyID, merchantID)

	var front Storefront
	if s.lookup(ctx, key, &front, string(cacheKeys.EntityStorefront)) {
		front.Offers = models.FilterActive(front.Offers, s.now())
		return &front, nil
	}

	merchant, err := s.merchants.GetByID(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	rating, err := s.ratings.Average(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	offers, err := s.offers.ListByMerchant(ctx, merchantID, &now)
	if err != nil {
		return nil, err
	}

	front = Storefront{Merchant: merchant, Rating: rating, Offers: offers}
	s.store(ctx, key, front)
	return &front, nil
}

// lookup reads key into dest. Cache failures are logged and treated as misses.
func (s *service) lookup(ctx context.Context, key string, dest interface{}, entity string) bool {
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		logger.FromContext(ctx).Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}
	if found && err == nil {
		s.metrics.RecordCacheHit(entity)
		return true
	}
	s.metrics.RecordCacheMiss(entity)
	return false
}

func (s *service) store(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value); err != nil {
		logger.FromContext(ctx).Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *service) invalidate(ctx context.Context, merchantID uint) {
	log := logger.FromContext(ctx)
	key := cacheKeys.GenerateKey(cacheKeys.EntityStorefront, cacheKeys.KeyID, merchantID)
	if err := s.cache.Delete(ctx, key); err != nil {
		log.Warn("cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
	if err := s.cache.DeletePattern(ctx, cacheKeys.Pattern(cacheKeys.EntityMerchant)); err != nil {
		log.Warn("cache invalidation failed", zap.String("pattern", "merchant:*"), zap.Error(err))
	}
}
