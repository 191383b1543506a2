package services

import (
	"gorm.io/gorm"

	"github.com/example/cakeshop/internal/models"
)

// InventoryService decrements variant stock when an order's payment is
// confirmed. Stock is checked optimistically at add-to-cart and checkout but
// not re-validated here, so a decrement past zero is floored rather than
// rejected; overselling under high concurrency is a known limitation.
type InventoryService struct{}

func NewInventoryService() *InventoryService {
	return &InventoryService{}
}

// ReserveOnConfirm decrements stock for every order line inside the caller's
// transaction. Callers must invoke it exactly once per order; the payment
// engine's paid test-and-set and the checkout transaction provide that
// guarantee.
func (s *InventoryService) ReserveOnConfirm(tx *gorm.DB, order *models.Order) error {
	for _, item := range order.Items {
		res := tx.Model(&models.CakeVariant{}).
			Where("id = ? AND stock >= ?", item.VariantID, item.Quantity).
			UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Clamp at zero instead of going negative.
			if err := tx.Model(&models.CakeVariant{}).
				Where("id = ? AND stock < ?", item.VariantID, item.Quantity).
				UpdateColumn("stock", 0).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
