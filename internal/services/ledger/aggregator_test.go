package ledger

import (
	"testing"

	domainErrors "fidelite/internal/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCompute_CouponRedemption(t *testing.T) {
	res, err := Compute(Input{Amount: d("100"), Coupons: 1, Balance: 250})
	require.NoError(t, err)

	assert.Equal(t, 2, res.MaxCoupons)
	assert.True(t, res.DiscountPercentage.Equal(d("10")))
	assert.Equal(t, "90.00", res.AmountAfterDiscount.StringFixed(2))
	assert.Equal(t, int64(90), res.PointsToAdd)
	assert.Equal(t, int64(100), res.PointsToDeduct)
	assert.Equal(t, int64(-10), res.NetPointsChange)
}

func TestCompute_NoCouponsEmptyBalance(t *testing.T) {
	res, err := Compute(Input{Amount: d("55"), Coupons: 0, Balance: 0})
	require.NoError(t, err)

	assert.Equal(t, 0, res.MaxCoupons)
	assert.Equal(t, int64(55), res.PointsToAdd)
	assert.Equal(t, int64(0), res.PointsToDeduct)
	assert.Equal(t, int64(55), res.NetPointsChange)
	assert.Equal(t, "none", res.Policy)
}

func TestCompute_OfferDiscount(t *testing.T) {
	pct := d("20")
	res, err := Compute(Input{Amount: d("50"), OfferDiscount: &pct})
	require.NoError(t, err)

	assert.Equal(t, "40.00", res.AmountAfterDiscount.StringFixed(2))
	assert.Equal(t, int64(40), res.PointsToAdd)
	assert.Equal(t, int64(40), res.NetPointsChange)
}

func TestCompute_OfferAndCouponsCombine(t *testing.T) {
	pct := d("20")
	res, err := Compute(Input{Amount: d("50"), Coupons: 1, Balance: 100, OfferDiscount: &pct})
	require.NoError(t, err)

	assert.Equal(t, int64(36), res.PointsToAdd)
	assert.Equal(t, int64(100), res.PointsToDeduct)
	assert.Equal(t, int64(-64), res.NetPointsChange)
	assert.True(t, res.DiscountPercentage.Equal(d("28")))
}

func TestCompute_TruncatesFractionalPoints(t *testing.T) {
	res, err := Compute(Input{Amount: d("19.99")})
	require.NoError(t, err)
	assert.Equal(t, int64(19), res.PointsToAdd)
}

func TestCompute_Boundaries(t *testing.T) {
	hundredTen := d("110")
	negative := d("-5")

	tests := []struct {
		name string
		in   Input
		want error
	}{
		{"zero amount", Input{Amount: d("0")}, ErrInvalidAmount},
		{"negative amount", Input{Amount: d("-3")}, ErrInvalidAmount},
		{"negative coupons", Input{Amount: d("10"), Coupons: -1, Balance: 500}, ErrInvalidCoupons},
		{"coupons over balance", Input{Amount: d("100"), Coupons: 3, Balance: 250}, ErrTooManyCoupons},
		{"coupon on 99 points", Input{Amount: d("100"), Coupons: 1, Balance: 99}, ErrTooManyCoupons},
		{"offer above 100", Input{Amount: d("10"), OfferDiscount: &hundredTen}, ErrInvalidDiscount},
		{"negative offer", Input{Amount: d("10"), OfferDiscount: &negative}, ErrInvalidDiscount},
		{"amount below one point", Input{Amount: d("0.50")}, ErrNonPositivePoints},
		{"ten coupons wipe the amount", Input{Amount: d("100"), Coupons: 10, Balance: 1000}, ErrNonPositivePoints},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.in)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, domainErrors.KindValidation, domainErrors.KindOf(err))
		})
	}
}

func TestCompute_ExactlyMaxCoupons(t *testing.T) {
	res, err := Compute(Input{Amount: d("100"), Coupons: 2, Balance: 250})
	require.NoError(t, err)
	assert.Equal(t, int64(80), res.PointsToAdd)
	assert.Equal(t, int64(200), res.PointsToDeduct)
}
