package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/cakeshop/internal/models"
)

func TestCouponRedeem(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCouponService(db)

	limit := 2
	coupon := models.Coupon{
		Code:       "TWICE",
		Type:       models.CouponTypeFixed,
		Value:      decimal.NewFromInt(10),
		ValidFrom:  time.Now().Add(-time.Hour),
		ValidUntil: time.Now().Add(time.Hour),
		UsageLimit: &limit,
		IsActive:   true,
	}
	require.NoError(t, db.Create(&coupon).Error)

	require.NoError(t, svc.Redeem(db, coupon.ID))
	require.NoError(t, svc.Redeem(db, coupon.ID))

	// The counter never passes the limit.
	err := svc.Redeem(db, coupon.ID)
	var couponErr *CouponInvalidError
	require.ErrorAs(t, err, &couponErr)
	assert.Equal(t, "coupon usage limit exceeded", couponErr.Reason)

	var stored models.Coupon
	require.NoError(t, db.First(&stored, "id = ?", coupon.ID).Error)
	assert.Equal(t, 2, stored.UsedCount)
}

func TestCouponRedeemUnlimited(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCouponService(db)

	coupon := models.Coupon{
		Code:       "FOREVER",
		Type:       models.CouponTypeFixed,
		Value:      decimal.NewFromInt(10),
		ValidFrom:  time.Now().Add(-time.Hour),
		ValidUntil: time.Now().Add(time.Hour),
		IsActive:   true,
	}
	require.NoError(t, db.Create(&coupon).Error)

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Redeem(db, coupon.ID))
	}

	var stored models.Coupon
	require.NoError(t, db.First(&stored, "id = ?", coupon.ID).Error)
	assert.Equal(t, 3, stored.UsedCount)
}

func TestCouponFindByCode(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCouponService(db)
	ctx := context.Background()

	coupon := models.Coupon{
		Code:       "CAKE10",
		Type:       models.CouponTypePercentage,
		Value:      decimal.NewFromInt(10),
		ValidFrom:  time.Now().Add(-time.Hour),
		ValidUntil: time.Now().Add(time.Hour),
		IsActive:   true,
	}
	require.NoError(t, db.Create(&coupon).Error)

	for _, code := range []string{"CAKE10", "cake10", "Cake10"} {
		found, err := svc.FindByCode(ctx, code)
		require.NoError(t, err, code)
		assert.Equal(t, coupon.ID, found.ID)
	}

	_, err := svc.FindByCode(ctx, "NOPE")
	assert.ErrorIs(t, err, ErrCouponNotFound)
}
