package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/example/cakeshop/internal/middleware"
	"github.com/example/cakeshop/internal/models"
	"github.com/example/cakeshop/internal/utils"
)

// CouponHandler manages coupon creation and listing for sellers and admins.
type CouponHandler struct {
	db *gorm.DB
}

func NewCouponHandler(db *gorm.DB) *CouponHandler {
	return &CouponHandler{db: db}
}

type createCouponRequest struct {
	Code           string    `json:"code"`
	Type           string    `json:"type"`
	Value          string    `json:"value"`
	MinOrderAmount string    `json:"min_order_amount"`
	MaxDiscount    string    `json:"max_discount"`
	ValidFrom      time.Time `json:"valid_from"`
	ValidUntil     time.Time `json:"valid_until"`
	UsageLimit     *int      `json:"usage_limit"`
}

// CreateCoupon registers a new discount code.
func (h *CouponHandler) CreateCoupon(c *fiber.Ctx) error {
	sellerID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	req.Code = models.NormalizeCouponCode(req.Code)
	if req.Code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "code is required")
	}
	if req.Type != models.CouponTypePercentage && req.Type != models.CouponTypeFixed {
		return fiber.NewError(fiber.StatusBadRequest, "type must be percentage or fixed")
	}
	if !req.ValidUntil.After(req.ValidFrom) {
		return fiber.NewError(fiber.StatusBadRequest, "valid_until must be after valid_from")
	}

	value, err := decimal.NewFromString(req.Value)
	if err != nil || value.IsNegative() {
		return fiber.NewError(fiber.StatusBadRequest, "value must be a non-negative decimal")
	}

	minAmount := decimal.Zero
	if req.MinOrderAmount != "" {
		minAmount, err = decimal.NewFromString(req.MinOrderAmount)
		if err != nil || minAmount.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "min_order_amount must be a non-negative decimal")
		}
	}

	var maxDiscount decimal.NullDecimal
	if req.MaxDiscount != "" {
		parsed, err := decimal.NewFromString(req.MaxDiscount)
		if err != nil || parsed.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "max_discount must be a non-negative decimal")
		}
		maxDiscount = decimal.NewNullDecimal(parsed)
	}

	var count int64
	if err := h.db.Model(&models.Coupon{}).
		Where("code = ?", req.Code).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fiber.NewError(fiber.StatusConflict, "coupon code already exists")
	}

	coupon := models.Coupon{
		Code:           req.Code,
		Type:           req.Type,
		Value:          value,
		MinOrderAmount: minAmount,
		MaxDiscount:    maxDiscount,
		ValidFrom:      req.ValidFrom,
		ValidUntil:     req.ValidUntil,
		UsageLimit:     req.UsageLimit,
		IsActive:       true,
		SellerID:       &sellerID,
	}
	if err := h.db.Create(&coupon).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": coupon})
}

// ListCoupons returns existing coupons, newest first.
func (h *CouponHandler) ListCoupons(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	var total int64
	if err := h.db.Model(&models.Coupon{}).Count(&total).Error; err != nil {
		return err
	}

	var coupons []models.Coupon
	if err := h.db.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&coupons).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    coupons,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}
