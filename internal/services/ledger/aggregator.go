package ledger

import "fidelite/internal/services/discount"

// Compute prices a purchase. It rejects non-positive amounts, negative or
// unaffordable coupon counts, offer percentages outside [0, 100] and any
// purchase that would earn no points.
func Compute(in Input) (Result, error) {
	if !in.Amount.IsPositive() {
		return Result{}, ErrInvalidAmount
	}
	if in.Coupons < 0 {
		return Result{}, ErrInvalidCoupons
	}

	maxCoupons := discount.MaxCoupons(in.Balance)
	if in.Coupons > maxCoupons {
		return Result{}, ErrTooManyCoupons.WithMessage(
			"coupon count %d exceeds the %d available", in.Coupons, maxCoupons)
	}
	if in.OfferDiscount != nil && !discount.ValidPercent(*in.OfferDiscount) {
		return Result{}, ErrInvalidDiscount
	}

	coupon := discount.Coupon{Count: in.Coupons}
	policy := discount.For(in.Coupons, in.OfferDiscount)
	after := policy.Apply(in.Amount)

	res := Result{
		MaxCoupons:          maxCoupons,
		CouponCount:         in.Coupons,
		CouponPercentage:    coupon.Percentage(),
		OfferPercentage:     in.OfferDiscount,
		DiscountPercentage:  policy.Percentage(),
		Policy:              policy.Name(),
		AmountAfterDiscount: after.Round(2),
		PointsToAdd:         discount.ToPoints(after),
		PointsToDeduct:      coupon.PointsCost(),
	}
	res.NetPointsChange = res.PointsToAdd - res.PointsToDeduct

	if res.PointsToAdd <= 0 {
		return Result{}, ErrNonPositivePoints
	}
	return res, nil
}
