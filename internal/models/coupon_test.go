package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newTestCoupon() Coupon {
	now := time.Now()
	return Coupon{
		Code:       "CAKE10",
		Type:       CouponTypePercentage,
		Value:      decimal.NewFromInt(10),
		ValidFrom:  now.Add(-time.Hour),
		ValidUntil: now.Add(time.Hour),
		IsActive:   true,
	}
}

func TestCouponValidate(t *testing.T) {
	now := time.Now()
	limit := 5

	testCases := []struct {
		name       string
		mutate     func(c *Coupon)
		amount     decimal.Decimal
		wantOK     bool
		wantReason string
	}{
		{
			name:   "valid",
			mutate: func(c *Coupon) {},
			amount: decimal.NewFromInt(100),
			wantOK: true,
		},
		{
			name:       "inactive",
			mutate:     func(c *Coupon) { c.IsActive = false },
			amount:     decimal.NewFromInt(100),
			wantReason: "coupon is not active",
		},
		{
			name:       "not yet valid",
			mutate:     func(c *Coupon) { c.ValidFrom = now.Add(time.Hour) },
			amount:     decimal.NewFromInt(100),
			wantReason: "coupon is not yet valid",
		},
		{
			name:       "expired",
			mutate:     func(c *Coupon) { c.ValidUntil = now.Add(-time.Minute) },
			amount:     decimal.NewFromInt(100),
			wantReason: "coupon has expired",
		},
		{
			name: "expiry boundary is exclusive",
			mutate: func(c *Coupon) {
				c.ValidUntil = now
			},
			amount:     decimal.NewFromInt(100),
			wantReason: "coupon has expired",
		},
		{
			name: "usage limit exceeded",
			mutate: func(c *Coupon) {
				c.UsageLimit = &limit
				c.UsedCount = 5
			},
			amount:     decimal.NewFromInt(100),
			wantReason: "coupon usage limit exceeded",
		},
		{
			name: "below minimum order amount",
			mutate: func(c *Coupon) {
				c.MinOrderAmount = decimal.NewFromInt(500)
			},
			amount:     decimal.NewFromInt(100),
			wantReason: "minimum order amount is 500.00",
		},
		{
			name: "inactive wins over expired",
			mutate: func(c *Coupon) {
				c.IsActive = false
				c.ValidUntil = now.Add(-time.Minute)
			},
			amount:     decimal.NewFromInt(100),
			wantReason: "coupon is not active",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			coupon := newTestCoupon()
			tc.mutate(&coupon)

			ok, reason := coupon.Validate(tc.amount, now)
			assert.Equal(t, tc.wantOK, ok)
			if !tc.wantOK {
				assert.Equal(t, tc.wantReason, reason)
			}
		})
	}
}

func TestCouponCalculateDiscount(t *testing.T) {
	testCases := []struct {
		name   string
		coupon Coupon
		amount string
		want   string
	}{
		{
			name: "percentage",
			coupon: Coupon{
				Type:  CouponTypePercentage,
				Value: decimal.NewFromInt(10),
			},
			amount: "200",
			want:   "20.00",
		},
		{
			name: "percentage rounds to two places",
			coupon: Coupon{
				Type:  CouponTypePercentage,
				Value: decimal.NewFromInt(10),
			},
			amount: "55.55",
			want:   "5.56",
		},
		{
			name: "percentage capped at max discount",
			coupon: Coupon{
				Type:        CouponTypePercentage,
				Value:       decimal.NewFromInt(10),
				MaxDiscount: decimal.NewNullDecimal(decimal.NewFromInt(50)),
			},
			amount: "1000",
			want:   "50.00",
		},
		{
			name: "fixed",
			coupon: Coupon{
				Type:  CouponTypeFixed,
				Value: decimal.NewFromInt(30),
			},
			amount: "200",
			want:   "30.00",
		},
		{
			name: "fixed never exceeds order amount",
			coupon: Coupon{
				Type:  CouponTypeFixed,
				Value: decimal.NewFromInt(80),
			},
			amount: "50",
			want:   "50.00",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.coupon.CalculateDiscount(decimal.RequireFromString(tc.amount))
			assert.Equal(t, tc.want, got.StringFixed(2))
		})
	}
}

func TestNormalizeCouponCode(t *testing.T) {
	assert.Equal(t, "CAKE10", NormalizeCouponCode("cake10"))
	assert.Equal(t, "CAKE10", NormalizeCouponCode("  Cake10 "))
	assert.Equal(t, "CAKE10", NormalizeCouponCode("CAKE10"))
	assert.Equal(t, "", NormalizeCouponCode("   "))
}
