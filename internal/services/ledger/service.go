package ledger

import (
	"context"
	"errors"
	"strings"
	"time"

	domainErrors "fidelite/internal/errors"
	"fidelite/internal/logger"
	"fidelite/internal/models"
	"fidelite/internal/repositories"
	cacheKeys "fidelite/internal/utils/cache"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service is the merchant-facing ledger.
type Service interface {
	// Preview prices a purchase for the customer behind the lookup code
	// without writing anything. offerID is optional.
	Preview(ctx context.Context, merchantID uint, req AwardRequest, offerID *uint) (*Preview, error)

	// AwardPoints records a plain purchase, optionally redeeming coupons.
	AwardPoints(ctx context.Context, merchantID uint, req AwardRequest) (*AwardResult, error)

	// RedeemOffer records a purchase made under one of the merchant's offers.
	// Coupons may be combined with the offer; the offer applies first.
	RedeemOffer(ctx context.Context, merchantID, offerID uint, req AwardRequest) (*AwardResult, error)

	ListTransactions(ctx context.Context, filter repositories.TransactionFilter, limit, offset int) ([]models.Transaction, int64, error)
	Summary(ctx context.Context, filter repositories.TransactionFilter) (Summary, error)
}

type service struct {
	repo    repositories.LedgerRepository
	cache   repositories.CacheRepository
	config  Config
	metrics MetricsCollector
}

// NewService creates a new ledger service
func NewService(
	repo repositories.LedgerRepository,
	cache repositories.CacheRepository,
	config Config,
	metrics MetricsCollector,
) Service {
	if repo == nil {
		panic("repo is required")
	}
	if cache == nil {
		panic("cache is required")
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		repo:    repo,
		cache:   cache,
		config:  config,
		metrics: metrics,
	}
}

func (s *service) Preview(ctx context.Context, merchantID uint, req AwardRequest, offerID *uint) (*Preview, error) {
	defer s.observe("preview", time.Now())

	customer, offer, err := s.resolve(ctx, merchantID, req, offerID)
	if err != nil {
		return nil, s.reject(err)
	}

	result, err := Compute(s.input(req, customer.Points, offer))
	if err != nil {
		return nil, s.reject(err)
	}

	return &Preview{
		Customer: snapshot(customer),
		Offer:    offer,
		Result:   result,
	}, nil
}

func (s *service) AwardPoints(ctx context.Context, merchantID uint, req AwardRequest) (*AwardResult, error) {
	defer s.observe("award", time.Now())
	return s.award(ctx, merchantID, req, nil)
}

func (s *service) RedeemOffer(ctx context.Context, merchantID, offerID uint, req AwardRequest) (*AwardResult, error) {
	defer s.observe("redeem_offer", time.Now())
	return s.award(ctx, merchantID, req, &offerID)
}

func (s *service) award(ctx context.Context, merchantID uint, req AwardRequest, offerID *uint) (*AwardResult, error) {
	log := logger.FromContext(ctx).With(zap.Uint("merchant_id", merchantID))
	key := strings.TrimSpace(req.IdempotencyKey)

	if key != "" {
		if replay, err := s.replay(ctx, merchantID, key, req, offerID); err != nil || replay != nil {
			return replay, err
		}
	}

	customer, offer, err := s.resolve(ctx, merchantID, req, offerID)
	if err != nil {
		return nil, s.reject(err)
	}

	// Fail fast on the unlocked read; the locked read below is authoritative.
	if _, err := Compute(s.input(req, customer.Points, offer)); err != nil {
		return nil, s.reject(err)
	}

	var (
		txn        *models.Transaction
		result     Result
		newBalance int64
	)
	err = s.repo.ExecuteInTransaction(ctx, func(tx repositories.LedgerRepository) error {
		locked, err := tx.LockCustomer(ctx, customer.ID)
		if err != nil {
			return err
		}

		result, err = Compute(s.input(req, locked.Points, offer))
		if err != nil {
			return err
		}

		txn = newTransaction(merchantID, locked.ID, req, offer, result, key)
		if err := tx.AppendTransaction(ctx, txn); err != nil {
			return err
		}
		if err := tx.IncrementPoints(ctx, locked.ID, result.NetPointsChange); err != nil {
			return err
		}
		newBalance = locked.Points + result.NetPointsChange
		return nil
	})
	if err != nil {
		if key != "" && errors.Is(err, repositories.ErrDuplicateIdempotent) {
			// A concurrent request with the same key committed first.
			return s.replay(ctx, merchantID, key, req, offerID)
		}
		return nil, s.reject(err)
	}

	s.invalidate(ctx, customer.ID)
	s.metrics.RecordTransaction(txn.Kind, txn.PointsAdded, txn.PointsDeducted)
	log.Info("points awarded",
		zap.String("reference", txn.Reference),
		zap.Uint("customer_id", customer.ID),
		zap.String("policy", result.Policy),
		zap.Int64("net_points", txn.NetPoints),
	)

	return &AwardResult{
		Transaction: txn,
		Result:      &result,
		NewBalance:  newBalance,
	}, nil
}

// replay returns the award stored under key, or (nil, nil) if there is none.
// A key reused for a different request is a conflict.
func (s *service) replay(ctx context.Context, merchantID uint, key string, req AwardRequest, offerID *uint) (*AwardResult, error) {
	existing, err := s.repo.FindByIdempotencyKey(ctx, merchantID, key)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, nil
		}
		return nil, err
	}

	customer, err := s.repo.GetCustomer(ctx, existing.CustomerID)
	if err != nil {
		return nil, err
	}

	if !sameRequest(existing, customer, req, offerID) {
		logger.FromContext(ctx).Warn("idempotency key reused for a different request",
			zap.String("reference", existing.Reference),
			zap.String("idempotency_key", key),
		)
		return nil, s.reject(ErrIdempotencyKeyReused)
	}

	logger.FromContext(ctx).Info("idempotent award replayed",
		zap.String("reference", existing.Reference),
		zap.String("idempotency_key", key),
	)
	return &AwardResult{
		Transaction: existing,
		NewBalance:  customer.Points,
		Replayed:    true,
	}, nil
}

func sameRequest(existing *models.Transaction, customer *models.Customer, req AwardRequest, offerID *uint) bool {
	if customer.LookupCode != strings.ToUpper(strings.TrimSpace(req.LookupCode)) {
		return false
	}
	if !existing.PurchaseAmount.Equal(req.Amount.Round(2)) || existing.UsedBons != req.Coupons {
		return false
	}
	switch {
	case existing.OfferID == nil && offerID == nil:
		return true
	case existing.OfferID == nil || offerID == nil:
		return false
	default:
		return *existing.OfferID == *offerID
	}
}

// resolve loads the merchant, the customer behind the lookup code and, when
// requested, an offer the merchant owns that has not expired.
func (s *service) resolve(ctx context.Context, merchantID uint, req AwardRequest, offerID *uint) (*models.Customer, *models.Offer, error) {
	if strings.TrimSpace(req.LookupCode) == "" {
		return nil, nil, ErrMissingLookupCode
	}
	if !req.Amount.IsPositive() {
		return nil, nil, ErrInvalidAmount
	}

	if _, err := s.repo.GetMerchant(ctx, merchantID); err != nil {
		return nil, nil, err
	}

	customer, err := s.repo.FindCustomerByLookupCode(ctx, req.LookupCode)
	if err != nil {
		return nil, nil, err
	}

	if offerID == nil {
		return customer, nil, nil
	}

	offer, err := s.repo.GetOffer(ctx, *offerID)
	if err != nil {
		return nil, nil, err
	}
	if offer.MerchantID != merchantID {
		return nil, nil, ErrOfferNotOwned
	}
	if !offer.ActiveAt(s.config.Now()) {
		return nil, nil, ErrOfferExpired
	}
	return customer, offer, nil
}

func (s *service) input(req AwardRequest, balance int64, offer *models.Offer) Input {
	in := Input{
		Amount:  req.Amount,
		Coupons: req.Coupons,
		Balance: balance,
	}
	if offer != nil {
		pct := decimal.Zero
		if offer.Discount != nil {
			pct = *offer.Discount
		}
		in.OfferDiscount = &pct
	}
	return in
}

func newTransaction(merchantID, customerID uint, req AwardRequest, offer *models.Offer, result Result, key string) *models.Transaction {
	txn := &models.Transaction{
		Kind:           models.TransactionKindPurchase,
		MerchantID:     merchantID,
		CustomerID:     customerID,
		PointsAdded:    result.PointsToAdd,
		PointsDeducted: result.PointsToDeduct,
		NetPoints:      result.NetPointsChange,
		PurchaseAmount: req.Amount.Round(2),
		TotalRevenue:   result.AmountAfterDiscount,
		DiscountPct:    result.DiscountPercentage.Round(2),
		UsedBons:       result.CouponCount,
	}
	if offer != nil {
		txn.Kind = models.TransactionKindOfferRedemption
		id := offer.ID
		txn.OfferID = &id
	}
	if key != "" {
		txn.IdempotencyKey = &key
	}
	return txn
}

func (s *service) ListTransactions(ctx context.Context, filter repositories.TransactionFilter, limit, offset int) ([]models.Transaction, int64, error) {
	txns, total, err := s.repo.ListTransactions(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

func (s *service) Summary(ctx context.Context, filter repositories.TransactionFilter) (Summary, error) {
	defer s.observe("summary", time.Now())

	txns, err := s.repo.AllTransactions(ctx, filter)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(txns), nil
}

// invalidate drops the cached customer profile after commit so the next read
// shows the new balance.
func (s *service) invalidate(ctx context.Context, customerID uint) {
	key := cacheKeys.GenerateKey(cacheKeys.EntityCustomer, cacheKeys.KeyID, customerID)
	if err := s.cache.Delete(ctx, key); err != nil {
		logger.FromContext(ctx).Warn("cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *service) reject(err error) error {
	if domainErrors.KindOf(err) != domainErrors.KindProvider {
		s.metrics.RecordRejection(domainErrors.CodeOf(err))
	}
	return err
}

func (s *service) observe(operation string, start time.Time) {
	s.metrics.RecordOperationDuration(operation, time.Since(start))
}

func snapshot(c *models.Customer) CustomerSnapshot {
	return CustomerSnapshot{
		ID:         c.ID,
		Name:       c.Name,
		LookupCode: c.LookupCode,
		Points:     c.Points,
	}
}
