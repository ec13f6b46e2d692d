package ledger

import (
	"time"

	"fidelite/internal/models"

	"github.com/shopspring/decimal"
)

// Input is one purchase to price.
type Input struct {
	Amount  decimal.Decimal
	Coupons int
	// Balance is the customer's current points, bounding Coupons.
	Balance int64
	// OfferDiscount is the attached offer's percentage, if any.
	OfferDiscount *decimal.Decimal
}

// Result is the priced purchase.
type Result struct {
	MaxCoupons          int              `json:"max_coupons"`
	CouponCount         int              `json:"coupon_count"`
	CouponPercentage    decimal.Decimal  `json:"coupon_percentage"`
	OfferPercentage     *decimal.Decimal `json:"offer_percentage,omitempty"`
	DiscountPercentage  decimal.Decimal  `json:"discount_percentage"`
	Policy              string           `json:"policy"`
	AmountAfterDiscount decimal.Decimal  `json:"amount_after_discount"`
	PointsToAdd         int64            `json:"points_to_add"`
	PointsToDeduct      int64            `json:"points_to_deduct"`
	NetPointsChange     int64            `json:"net_points_change"`
}

// AwardRequest is what a merchant submits at the till.
type AwardRequest struct {
	LookupCode string
	Amount     decimal.Decimal
	Coupons    int
	// IdempotencyKey makes retries safe: a key already used by this merchant
	// returns the original transaction without writing.
	IdempotencyKey string
}

type CustomerSnapshot struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	LookupCode string `json:"lookup_code"`
	Points     int64  `json:"points"`
}

// Preview is the priced purchase before the merchant confirms it.
type Preview struct {
	Customer CustomerSnapshot `json:"customer"`
	Offer    *models.Offer    `json:"offer,omitempty"`
	Result   Result           `json:"result"`
}

type AwardResult struct {
	Transaction *models.Transaction `json:"transaction"`
	Result      *Result             `json:"result,omitempty"`
	NewBalance  int64               `json:"new_balance"`
	// Replayed is set when the idempotency key matched an earlier award.
	Replayed bool `json:"replayed"`
}

// Summary is the running total over a set of transactions.
type Summary struct {
	TransactionCount  int64           `json:"transaction_count"`
	PointsAdded       int64           `json:"points_added"`
	PointsDeducted    int64           `json:"points_deducted"`
	NetPoints         int64           `json:"net_points"`
	Revenue           decimal.Decimal `json:"revenue"`
	CouponsUsed       int64           `json:"coupons_used"`
	AverageBasket     decimal.Decimal `json:"average_basket"`
	DistinctCustomers int             `json:"distinct_customers"`
	DistinctMerchants int             `json:"distinct_merchants"`
}

// Config tunes the service.
type Config struct {
	// Now is the clock used for offer expiry; defaults to time.Now.
	Now func() time.Time
}

// MetricsCollector defines the interface for collecting ledger metrics
type MetricsCollector interface {
	RecordTransaction(kind string, pointsAdded, pointsDeducted int64)
	RecordRejection(code string)
	RecordOperationDuration(operation string, duration time.Duration)
}
