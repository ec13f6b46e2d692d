// Package discount turns coupons ("bons") and offer percentages into a reduced
// purchase amount. Both mechanisms sit behind one Policy so the ledger never
// has to know which of them, or which combination, applies.
package discount

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// PointsPerCoupon is the balance consumed by one coupon.
	PointsPerCoupon = 100
	// PercentPerCoupon is the discount granted by one coupon.
	PercentPerCoupon = 10
)

var hundred = decimal.NewFromInt(100)

// Policy reduces a purchase amount.
type Policy interface {
	// Apply returns the amount left to pay. It is never negative.
	Apply(amount decimal.Decimal) decimal.Decimal
	// Percentage is the effective discount over the original amount.
	Percentage() decimal.Decimal
	Name() string
}

// MaxCoupons is the number of coupons a balance can pay for.
func MaxCoupons(points int64) int {
	if points <= 0 {
		return 0
	}
	return int(points / PointsPerCoupon)
}

// None applies no discount.
type None struct{}

func (None) Apply(amount decimal.Decimal) decimal.Decimal { return amount }
func (None) Percentage() decimal.Decimal                  { return decimal.Zero }
func (None) Name() string                                 { return "none" }

// Coupon applies a flat PercentPerCoupon per redeemed coupon.
type Coupon struct {
	Count int
}

func (c Coupon) Percentage() decimal.Decimal {
	return decimal.NewFromInt(int64(c.Count * PercentPerCoupon))
}

func (c Coupon) Apply(amount decimal.Decimal) decimal.Decimal {
	return reduce(amount, c.Percentage())
}

func (c Coupon) Name() string { return fmt.Sprintf("coupon(%d)", c.Count) }

// PointsCost is the balance the coupons consume.
func (c Coupon) PointsCost() int64 {
	return int64(c.Count) * PointsPerCoupon
}

// Offer applies a merchant offer's percentage.
type Offer struct {
	Percent decimal.Decimal
}

func (o Offer) Percentage() decimal.Decimal { return o.Percent }

func (o Offer) Apply(amount decimal.Decimal) decimal.Decimal {
	return reduce(amount, o.Percent)
}

func (o Offer) Name() string { return fmt.Sprintf("offer(%s%%)", o.Percent.String()) }

// Combined applies the offer to the purchase amount first, then the coupons
// to what remains. The discounts multiply; they are never added.
type Combined struct {
	Offer  Offer
	Coupon Coupon
}

func (c Combined) Apply(amount decimal.Decimal) decimal.Decimal {
	return c.Coupon.Apply(c.Offer.Apply(amount))
}

func (c Combined) Percentage() decimal.Decimal {
	remaining := hundred.Sub(c.Offer.Percent).Mul(hundred.Sub(c.Coupon.Percentage())).Div(hundred)
	pct := hundred.Sub(remaining)
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}

func (c Combined) Name() string { return c.Offer.Name() + "+" + c.Coupon.Name() }

// For picks the policy for a coupon count and an optional offer percentage.
func For(coupons int, offerPercent *decimal.Decimal) Policy {
	switch {
	case offerPercent != nil && coupons > 0:
		return Combined{Offer: Offer{Percent: *offerPercent}, Coupon: Coupon{Count: coupons}}
	case offerPercent != nil:
		return Offer{Percent: *offerPercent}
	case coupons > 0:
		return Coupon{Count: coupons}
	default:
		return None{}
	}
}

// ValidPercent reports whether p is within [0, 100].
func ValidPercent(p decimal.Decimal) bool {
	return !p.IsNegative() && p.LessThanOrEqual(hundred)
}

// ToPoints truncates a currency amount to whole points.
func ToPoints(amount decimal.Decimal) int64 {
	if !amount.IsPositive() {
		return 0
	}
	return amount.Floor().IntPart()
}

func reduce(amount, pct decimal.Decimal) decimal.Decimal {
	out := amount.Mul(hundred.Sub(pct)).Div(hundred)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}
