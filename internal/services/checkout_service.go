package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/example/cakeshop/internal/models"
)

// CheckoutService converts a mutable cart into an immutable priced order.
type CheckoutService struct {
	db             *gorm.DB
	coupons        *CouponService
	inventory      *InventoryService
	telegram       *TelegramService
	deliveryCharge decimal.Decimal
	orderPrefix    string
}

func NewCheckoutService(db *gorm.DB, coupons *CouponService, inventory *InventoryService, telegram *TelegramService, deliveryCharge decimal.Decimal, orderPrefix string) *CheckoutService {
	return &CheckoutService{
		db:             db,
		coupons:        coupons,
		inventory:      inventory,
		telegram:       telegram,
		deliveryCharge: deliveryCharge,
		orderPrefix:    orderPrefix,
	}
}

// CheckoutInput carries the buyer's checkout choices.
type CheckoutInput struct {
	AddressID     uuid.UUID
	PaymentMethod string
	CouponCode    string
}

// Checkout snapshots the user's cart into an order. The whole operation is
// one transaction: either the order and its lines exist, the coupon usage is
// incremented and the cart is cleared, or none of those side effects occur.
// Cash-on-delivery orders are confirmed immediately and reserve stock;
// gateway orders stay placed until the payment callback confirms them.
func (s *CheckoutService) Checkout(ctx context.Context, userID uuid.UUID, in CheckoutInput) (*models.Order, error) {
	if in.PaymentMethod != models.PaymentMethodGateway && in.PaymentMethod != models.PaymentMethodCOD {
		return nil, ErrInvalidPaymentMethod
	}

	var order *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmptyCart
			}
			return err
		}
		if err := tx.Preload("Variant").
			Where("cart_id = ?", cart.ID).
			Order("created_at asc").
			Find(&cart.Items).Error; err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return ErrEmptyCart
		}

		var address models.Address
		if err := tx.First(&address, "id = ? AND user_id = ?", in.AddressID, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAddressNotFound
			}
			return err
		}

		subtotal := cart.TotalPrice()
		discount := decimal.Zero

		var coupon *models.Coupon
		if in.CouponCode != "" {
			found, err := s.coupons.FindByCode(ctx, in.CouponCode)
			if err != nil {
				return err
			}
			if ok, reason := found.Validate(subtotal, tx.NowFunc()); !ok {
				return &CouponInvalidError{Reason: reason}
			}
			discount = found.CalculateDiscount(subtotal)
			coupon = found
		}

		total := subtotal.Add(s.deliveryCharge).Sub(discount)

		newOrder := models.Order{
			UserID:            userID,
			OrderNumber:       s.generateOrderNumber(),
			ShippingAddressID: address.ID,
			Subtotal:          subtotal,
			DeliveryCharge:    s.deliveryCharge,
			CouponDiscount:    discount,
			TotalAmount:       total,
			PaymentMethod:     in.PaymentMethod,
			Status:            models.StatusPlaced,
		}
		if coupon != nil {
			newOrder.AppliedCouponID = &coupon.ID
		}
		for _, item := range cart.Items {
			newOrder.Items = append(newOrder.Items, models.OrderItem{
				VariantID: item.VariantID,
				Quantity:  item.Quantity,
				Price:     item.Variant.Price,
			})
		}

		if err := tx.Create(&newOrder).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.OrderStatusEvent{
			OrderID: newOrder.ID,
			Status:  models.StatusPlaced,
			ActorID: &userID,
		}).Error; err != nil {
			return err
		}

		if coupon != nil {
			if err := s.coupons.Redeem(tx, coupon.ID); err != nil {
				return err
			}
		}

		// A concurrent checkout that already consumed these lines shows up as
		// a short delete count; roll back so only one order exists per cart.
		res := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(cart.Items)) {
			return ErrEmptyCart
		}

		if in.PaymentMethod == models.PaymentMethodCOD {
			if err := tx.Model(&models.Order{}).
				Where("id = ?", newOrder.ID).
				Update("status", models.StatusConfirmed).Error; err != nil {
				return err
			}
			newOrder.Status = models.StatusConfirmed
			if err := tx.Create(&models.OrderStatusEvent{
				OrderID: newOrder.ID,
				Status:  models.StatusConfirmed,
				ActorID: &userID,
				Note:    "cash on delivery",
			}).Error; err != nil {
				return err
			}
			if err := s.inventory.ReserveOnConfirm(tx, &newOrder); err != nil {
				return err
			}
		}

		order = &newOrder
		return nil
	})
	if err != nil {
		return nil, err
	}

	if order.PaymentMethod == models.PaymentMethodCOD && s.telegram != nil {
		go func(o models.Order) {
			if err := s.telegram.NotifyOrderConfirmed(&o); err != nil {
				log.Printf("[Checkout] order confirmation notification failed for %s: %v", o.OrderNumber, err)
			}
		}(*order)
	}

	return order, nil
}

func (s *CheckoutService) generateOrderNumber() string {
	token := uuid.New()
	return fmt.Sprintf("%s%X", s.orderPrefix, token[:4])
}
