package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/cakeshop/internal/models"
)

// CouponService looks up and redeems discount coupons.
type CouponService struct {
	db *gorm.DB
}

func NewCouponService(db *gorm.DB) *CouponService {
	return &CouponService{db: db}
}

// FindByCode resolves a coupon code case-insensitively by matching its
// normalized form.
func (s *CouponService) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := s.db.WithContext(ctx).
		Where("code = ?", models.NormalizeCouponCode(code)).
		First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

// Redeem increments the coupon's usage counter inside the caller's
// transaction. The conditional update keeps used_count at or below the usage
// limit even when concurrent checkouts redeem the same code; a zero row count
// means this request lost the race and the checkout must roll back.
func (s *CouponService) Redeem(tx *gorm.DB, couponID uuid.UUID) error {
	res := tx.Model(&models.Coupon{}).
		Where("id = ? AND (usage_limit IS NULL OR used_count < usage_limit)", couponID).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &CouponInvalidError{Reason: "coupon usage limit exceeded"}
	}
	return nil
}
