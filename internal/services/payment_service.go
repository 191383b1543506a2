package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/cakeshop/internal/models"
)

// PaymentService drives payment-intent creation and reconciles the gateway's
// asynchronous confirmation callback exactly once per order.
type PaymentService struct {
	db        *gorm.DB
	gateway   PaymentGateway
	inventory *InventoryService
	telegram  *TelegramService
	invoices  *InvoiceService
	currency  string
}

func NewPaymentService(db *gorm.DB, gateway PaymentGateway, inventory *InventoryService, telegram *TelegramService, invoices *InvoiceService, currency string) *PaymentService {
	return &PaymentService{
		db:        db,
		gateway:   gateway,
		inventory: inventory,
		telegram:  telegram,
		invoices:  invoices,
		currency:  currency,
	}
}

// AmountMinorUnits converts the order total to an integer count of the
// smallest currency unit. Totals are exact two-place decimals, so the shift
// is lossless.
func AmountMinorUnits(order *models.Order) int64 {
	return order.TotalAmount.Shift(2).IntPart()
}

// CreateIntent registers a payment intent with the gateway for the order's
// total and stores the returned reference. Gateway failures surface as a
// retryable condition; nothing is persisted in that case.
func (s *PaymentService) CreateIntent(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, "id = ? AND user_id = ?", orderID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.IsPaid {
		return nil, ErrAlreadyPaid
	}
	if order.PaymentMethod != models.PaymentMethodGateway {
		return nil, ErrInvalidPaymentMethod
	}

	ref, err := s.gateway.CreateOrder(ctx, AmountMinorUnits(&order), s.currency)
	if err != nil {
		log.Printf("[Payment] gateway intent creation failed for order %s: %v", order.OrderNumber, err)
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	if err := s.db.WithContext(ctx).Model(&order).Update("gateway_order_id", ref).Error; err != nil {
		return nil, err
	}
	order.GatewayOrderID = ref

	return &order, nil
}

// Confirm handles the gateway's payment callback. The callback channel is
// unauthenticated and offers no delivery guarantee, so the handler verifies
// the signature before anything else and treats repeated deliveries of an
// already-paid order as successes without repeating side effects. An order
// cancelled while the payment was in flight keeps its terminal status: the
// capture is recorded for the refund path but stock stays untouched.
func (s *PaymentService) Confirm(ctx context.Context, gatewayOrderRef, gatewayPaymentRef, signature string) (*models.Order, error) {
	if !s.gateway.VerifySignature(gatewayOrderRef, gatewayPaymentRef, signature) {
		log.Printf("[Payment] signature verification failed for gateway order %s", gatewayOrderRef)
		return nil, ErrSignatureInvalid
	}

	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		First(&order, "gateway_order_id = ?", gatewayOrderRef).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	duplicate := false
	voided := false
	finalStatus := models.StatusConfirmed
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Test-and-set on is_paid and status: losing this race means the
		// callback was already reconciled, or the order left placed before
		// the payment landed.
		res := tx.Model(&models.Order{}).
			Where("id = ? AND is_paid = ? AND status = ?", order.ID, false, models.StatusPlaced).
			Updates(map[string]any{
				"gateway_payment_id": gatewayPaymentRef,
				"gateway_signature":  signature,
				"is_paid":            true,
				"status":             models.StatusConfirmed,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var current models.Order
			if err := tx.First(&current, "id = ?", order.ID).Error; err != nil {
				return err
			}
			finalStatus = current.Status
			if current.IsPaid {
				duplicate = true
				return nil
			}

			// The order was cancelled while the payment was in flight.
			// Record the capture for the refund path; a terminal status is
			// never resurrected and stock is not decremented.
			voided = true
			return tx.Model(&models.Order{}).
				Where("id = ? AND is_paid = ?", order.ID, false).
				Updates(map[string]any{
					"gateway_payment_id": gatewayPaymentRef,
					"gateway_signature":  signature,
					"is_paid":            true,
				}).Error
		}

		if err := tx.Create(&models.OrderStatusEvent{
			OrderID: order.ID,
			Status:  models.StatusConfirmed,
			Note:    "payment captured",
		}).Error; err != nil {
			return err
		}

		return s.inventory.ReserveOnConfirm(tx, &order)
	})
	if err != nil {
		return nil, err
	}

	order.GatewayPaymentID = gatewayPaymentRef
	order.GatewaySignature = signature
	order.IsPaid = true
	order.Status = finalStatus

	if voided {
		log.Printf("[Payment] payment captured for %s order %s, refund required", order.Status, order.OrderNumber)
	}
	if !duplicate && !voided {
		// Downstream notification and invoice generation are best effort:
		// a failure here is logged and never unwinds the payment.
		go s.dispatchPostConfirmation(order)
	}

	return &order, nil
}

func (s *PaymentService) dispatchPostConfirmation(order models.Order) {
	if s.telegram != nil {
		if err := s.telegram.NotifyOrderConfirmed(&order); err != nil {
			log.Printf("[Payment] confirmation notification failed for order %s: %v", order.OrderNumber, err)
		}
	}

	if s.invoices != nil {
		var full models.Order
		err := s.db.Preload("Items.Variant.Cake").Preload("ShippingAddress").
			First(&full, "id = ?", order.ID).Error
		if err != nil {
			log.Printf("[Payment] invoice lookup failed for order %s: %v", order.OrderNumber, err)
			return
		}
		if _, err := s.invoices.Generate(&full); err != nil {
			log.Printf("[Payment] invoice generation failed for order %s: %v", order.OrderNumber, err)
		}
	}
}
