package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Coupon discount types.
const (
	CouponTypePercentage = "percentage"
	CouponTypeFixed      = "fixed"
)

// NormalizeCouponCode maps a user-supplied code to its canonical stored form.
// Codes are persisted normalized, so the unique index on Code enforces
// case-insensitive uniqueness even under concurrent creates.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Coupon is a discount code with a validity window [ValidFrom, ValidUntil)
// and an optional usage limit. Code is always in normalized form. UsedCount
// only ever moves forward, by exactly one per successful checkout that
// applied the code.
type Coupon struct {
	BaseModel
	Code           string              `gorm:"uniqueIndex" json:"code"`
	Type           string              `json:"type"`
	Value          decimal.Decimal     `gorm:"type:numeric(8,2)" json:"value"`
	MinOrderAmount decimal.Decimal     `gorm:"type:numeric(8,2)" json:"min_order_amount"`
	MaxDiscount    decimal.NullDecimal `gorm:"type:numeric(8,2)" json:"max_discount"`
	ValidFrom      time.Time           `json:"valid_from"`
	ValidUntil     time.Time           `json:"valid_until"`
	UsageLimit     *int                `json:"usage_limit"`
	UsedCount      int                 `json:"used_count"`
	IsActive       bool                `json:"is_active"`
	SellerID       *uuid.UUID          `gorm:"type:uuid" json:"seller_id"`
}

// Validate checks whether the coupon can be applied to an order of the given
// amount at time now. The first failing check wins and its reason is returned.
func (c *Coupon) Validate(orderAmount decimal.Decimal, now time.Time) (bool, string) {
	if !c.IsActive {
		return false, "coupon is not active"
	}
	if now.Before(c.ValidFrom) {
		return false, "coupon is not yet valid"
	}
	if !now.Before(c.ValidUntil) {
		return false, "coupon has expired"
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return false, "coupon usage limit exceeded"
	}
	if orderAmount.LessThan(c.MinOrderAmount) {
		return false, fmt.Sprintf("minimum order amount is %s", c.MinOrderAmount.StringFixed(2))
	}
	return true, "valid"
}

// CalculateDiscount computes the discount for an order amount, rounded to two
// places so every monetary snapshot built from it stays an exact two-place
// decimal. The result is never negative and never exceeds the order amount.
func (c *Coupon) CalculateDiscount(orderAmount decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch c.Type {
	case CouponTypePercentage:
		discount = orderAmount.Mul(c.Value).Div(decimal.NewFromInt(100)).Round(2)
		if c.MaxDiscount.Valid && discount.GreaterThan(c.MaxDiscount.Decimal) {
			discount = c.MaxDiscount.Decimal
		}
	default: // fixed
		discount = c.Value
	}
	if discount.GreaterThan(orderAmount) {
		discount = orderAmount
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	return discount
}
