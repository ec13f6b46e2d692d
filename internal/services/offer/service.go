package offer

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

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Request carries the editable fields of an offer.
type Request struct {
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Discount       *decimal.Decimal `json:"discount"`
	IsBoosted      bool             `json:"is_boosted"`
	DurationMonths int              `json:"duration_months"`
}

type Page struct {
	Offers []models.Offer `json:"offers"`
	Total  int64          `json:"total"`
}

type Service interface {
	Create(ctx context.Context, merchantID uint, req Request) (*models.Offer, error)
	Update(ctx context.Context, merchantID, offerID uint, req Request) (*models.Offer, error)
	Delete(ctx context.Context, merchantID, offerID uint) error

	// ListActive returns the unexpired offers of every merchant, boosted first.
	ListActive(ctx context.Context, limit, offset int) (*Page, error)
	ListByMerchant(ctx context.Context, merchantID uint, activeOnly bool) ([]models.Offer, error)
}

type service struct {
	offers repositories.OfferRepository
	cache  repositories.CacheRepository
	now    func() time.Time
}

func NewService(offers repositories.OfferRepository, cache repositories.CacheRepository, now func() time.Time) Service {
	if offers == nil {
		panic("offer repository is required")
	}
	if cache == nil {
		panic("cache is required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{offers: offers, cache: cache, now: now}
}

func (s *service) Create(ctx context.Context, merchantID uint, req Request) (*models.Offer, error) {
	offer := &models.Offer{MerchantID: merchantID, CreatedAt: s.now()}
	apply(offer, req)

	if err := check(offer); err != nil {
		return nil, err
	}
	if err := s.offers.Create(ctx, offer); err != nil {
		return nil, err
	}

	s.invalidate(ctx, merchantID, false)
	logger.FromContext(ctx).Info("offer created",
		zap.Uint("merchant_id", merchantID),
		zap.Uint("offer_id", offer.ID),
	)
	return offer, nil
}

func (s *service) Update(ctx context.Context, merchantID, offerID uint, req Request) (*models.Offer, error) {
	offer, err := s.owned(ctx, merchantID, offerID)
	if err != nil {
		return nil, err
	}

	apply(offer, req)
	if err := check(offer); err != nil {
		return nil, err
	}
	if err := s.offers.Update(ctx, offer); err != nil {
		return nil, err
	}

	s.invalidate(ctx, merchantID, true)
	return offer, nil
}

func (s *service) Delete(ctx context.Context, merchantID, offerID uint) error {
	if _, err := s.owned(ctx, merchantID, offerID); err != nil {
		return err
	}
	if err := s.offers.Delete(ctx, offerID); err != nil {
		return err
	}

	s.invalidate(ctx, merchantID, true)
	logger.FromContext(ctx).Info("offer deleted",
		zap.Uint("merchant_id", merchantID),
		zap.Uint("offer_id", offerID),
	)
	return nil
}

func (s *service) ListActive(ctx context.Context, limit, offset int) (*Page, error) {
	key := cacheKeys.GenerateKey(cacheKeys.EntityOffers, cacheKeys.KeyPage, fmt.Sprintf("%d|%d", limit, offset))

	var page Page
	if found, err := s.cache.Get(ctx, key, &page); err == nil && found {
		// Offers may have expired since the page was cached.
		cached := len(page.Offers)
		page.Offers = models.FilterActive(page.Offers, s.now())
		page.Total -= int64(cached - len(page.Offers))
		return &page, nil
	}

	offers, total, err := s.offers.ListActive(ctx, s.now(), limit, offset)
	if err != nil {
		return nil, err
	}
	page = Page{Offers: offers, Total: total}
	if err := s.cache.Set(ctx, key, page); err != nil {
		logger.FromContext(ctx).Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return &page, nil
}

func (s *service) ListByMerchant(ctx context.Context, merchantID uint, activeOnly bool) ([]models.Offer, error) {
	var at *time.Time
	if activeOnly {
		now := s.now()
		at = &now
	}
	return s.offers.ListByMerchant(ctx, merchantID, at)
}

func (s *service) owned(ctx context.Context, merchantID, offerID uint) (*models.Offer, error) {
	offer, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer.MerchantID != merchantID {
		return nil, ErrNotOwner
	}
	return offer, nil
}

// invalidate drops the merchant's storefront and every cached offer page.
// Customer profiles embed the offers they hold, so they go too when an
// existing offer changes.
func (s *service) invalidate(ctx context.Context, merchantID uint, profiles bool) {
	log := logger.FromContext(ctx)
	key := cacheKeys.GenerateKey(cacheKeys.EntityStorefront, cacheKeys.KeyID, merchantID)
	if err := s.cache.Delete(ctx, key); err != nil {
		log.Warn("cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
	if err := s.cache.DeletePattern(ctx, cacheKeys.Pattern(cacheKeys.EntityOffers)); err != nil {
		log.Warn("cache invalidation failed", zap.String("pattern", "offers:*"), zap.Error(err))
	}
	if !profiles {
		return
	}
	if err := s.cache.DeletePattern(ctx, cacheKeys.Pattern(cacheKeys.EntityCustomer)); err != nil {
		log.Warn("cache invalidation failed", zap.String("pattern", "customer:*"), zap.Error(err))
	}
}

func apply(offer *models.Offer, req Request) {
	offer.Name = strings.TrimSpace(req.Name)
	offer.Description = req.Description
	offer.Discount = req.Discount
	offer.IsBoosted = req.IsBoosted
	offer.DurationMonths = req.DurationMonths
	if !offer.CreatedAt.IsZero() {
		offer.ExpiresAt = offer.CreatedAt.AddDate(0, offer.DurationMonths, 0)
	}
}

func check(offer *models.Offer) error {
	v := validation.New()
	v.Offer(offer)
	return v.Err()
}
