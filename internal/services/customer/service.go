package customer

import (
	"context"
	"errors"
	"strings"
	"time"

	"fidelite/internal/logger"
	"fidelite/internal/models"
	"fidelite/internal/repositories"
	"fidelite/internal/services/discount"
	"fidelite/internal/utils"
	cacheKeys "fidelite/internal/utils/cache"
	"fidelite/internal/validation"

	"go.uber.org/zap"
)

const lookupCodeAttempts = 5

// Profile is what a customer sees of their own account.
type Profile struct {
	Customer     models.Customer `json:"customer"`
	MaxCoupons   int             `json:"max_coupons"`
	ActiveOffers []models.Offer  `json:"active_offers"`
}

type UpdateProfileRequest struct {
	Name string `json:"name"`
	Age  *int   `json:"age"`
	City string `json:"city"`
}

type Service interface {
	GetProfile(ctx context.Context, customerID uint) (*Profile, error)
	UpdateProfile(ctx context.Context, customerID uint, req UpdateProfileRequest) (*Profile, error)

	// RotateLookupCode replaces the code merchants use to find the customer.
	RotateLookupCode(ctx context.Context, customerID uint) (string, error)

	AddOffer(ctx context.Context, customerID, offerID uint) error
	RemoveOffer(ctx context.Context, customerID, offerID uint) error

	// Rate records or replaces the customer's rating of a merchant.
	Rate(ctx context.Context, customerID, merchantID uint, value int) error

	// DeleteAccount removes the customer and their account. Ledger history stays.
	DeleteAccount(ctx context.Context, customerID uint) error
}

type Config struct {
	Now           func() time.Time
	NewLookupCode func() (string, error)
}

type service struct {
	customers repositories.CustomerRepository
	merchants repositories.MerchantRepository
	offers    repositories.OfferRepository
	ratings   repositories.RatingRepository
	cache     repositories.CacheRepository
	config    Config
}

func NewService(
	customers repositories.CustomerRepository,
	merchants repositories.MerchantRepository,
	offers repositories.OfferRepository,
	ratings repositories.RatingRepository,
	cache repositories.CacheRepository,
	config Config,
) Service {
	if customers == nil || merchants == nil || offers == nil || ratings == nil {
		panic("customer, merchant, offer and rating repositories are required")
	}
	if cache == nil {
		panic("cache is required")
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.NewLookupCode == nil {
		config.NewLookupCode = utils.GenerateLookupCode
	}
	return &service{
		customers: customers,
		merchants: merchants,
		offers:    offers,
		ratings:   ratings,
		cache:     cache,
		config:    config,
	}
}

func (s *service) GetProfile(ctx context.Context, customerID uint) (*Profile, error) {
	key := profileKey(customerID)

	var profile Profile
	found, err := s.cache.Get(ctx, key, &profile)
	if err != nil {
		logger.FromContext(ctx).Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}
	if found && err == nil {
		return &profile, nil
	}

	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	offers, err := s.customers.ActiveOffers(ctx, customerID)
	if err != nil {
		return nil, err
	}

	customer.ActiveOffers = nil
	profile = Profile{
		Customer:     *customer,
		MaxCoupons:   discount.MaxCoupons(customer.Points),
		ActiveOffers: offers,
	}
	if err := s.cache.Set(ctx, key, profile); err != nil {
		logger.FromContext(ctx).Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return &profile, nil
}

func (s *service) UpdateProfile(ctx context.Context, customerID uint, req UpdateProfileRequest) (*Profile, error) {
	name := strings.TrimSpace(req.Name)
	city := strings.TrimSpace(req.City)

	v := validation.New()
	v.CustomerProfile(name, req.Age, city)
	if err := v.Err(); err != nil {
		return nil, err
	}

	if err := s.customers.UpdateProfile(ctx, customerID, name, req.Age, city); err != nil {
		return nil, err
	}
	s.invalidate(ctx, profileKey(customerID))
	return s.GetProfile(ctx, customerID)
}

func (s *service) RotateLookupCode(ctx context.Context, customerID uint) (string, error) {
	for attempt := 0; attempt < lookupCodeAttempts; attempt++ {
		code, err := s.config.NewLookupCode()
		if err != nil {
			return "", err
		}

		err = s.customers.UpdateLookupCode(ctx, customerID, code)
		if errors.Is(err, repositories.ErrLookupCodeTaken) {
			continue
		}
		if err != nil {
			return "", err
		}

		s.invalidate(ctx, profileKey(customerID))
		logger.FromContext(ctx).Info("lookup code rotated", zap.Uint("customer_id", customerID))
		return code, nil
	}
	return "", ErrLookupCodeFailed
}

func (s *service) AddOffer(ctx context.Context, customerID, offerID uint) error {
	offer, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		return err
	}
	if !offer.ActiveAt(s.config.Now()) {
		return ErrOfferExpired
	}
	if err := s.customers.AddActiveOffer(ctx, customerID, offerID); err != nil {
		return err
	}
	s.invalidate(ctx, profileKey(customerID))
	return nil
}

func (s *service) RemoveOffer(ctx context.Context, customerID, offerID uint) error {
	if err := s.customers.RemoveActiveOffer(ctx, customerID, offerID); err != nil {
		return err
	}
	s.invalidate(ctx, profileKey(customerID))
	return nil
}

func (s *service) Rate(ctx context.Context, customerID, merchantID uint, value int) error {
	v := validation.New()
	v.Rating(value)
	if err := v.Err(); err != nil {
		return err
	}

	if _, err := s.merchants.GetByID(ctx, merchantID); err != nil {
		return err
	}
	rating := &models.Rating{CustomerID: customerID, MerchantID: merchantID, Rating: value}
	if err := s.ratings.Upsert(ctx, rating); err != nil {
		return err
	}

	s.invalidate(ctx, cacheKeys.GenerateKey(cacheKeys.EntityStorefront, cacheKeys.KeyID, merchantID))
	return nil
}

func (s *service) DeleteAccount(ctx context.Context, customerID uint) error {
	if err := s.customers.DeleteCascade(ctx, customerID); err != nil {
		return err
	}
	s.invalidate(ctx, profileKey(customerID))
	logger.FromContext(ctx).Info("customer account deleted", zap.Uint("customer_id", customerID))
	return nil
}

func (s *service) invalidate(ctx context.Context, key string) {
	if err := s.cache.Delete(ctx, key); err != nil {
		logger.FromContext(ctx).Warn("cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}

func profileKey(customerID uint) string {
	return cacheKeys.GenerateKey(cacheKeys.EntityCustomer, cacheKeys.KeyID, customerID)
}
