package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart holds the single active cart of a buyer. Lines are mutable until
// checkout, which snapshots them into an order and clears them.
type Cart struct {
	BaseModel
	UserID uuid.UUID  `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	Items  []CartItem `json:"items,omitempty"`
}

// TotalPrice sums line totals using each variant's live price. Items must be
// loaded with their variants; prices are re-resolved at checkout, not cached.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.TotalPrice())
	}
	return total
}

// TotalItems returns the summed quantity across all lines.
func (c *Cart) TotalItems() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// CartItem is one cart line. At most one line exists per (cart, variant).
type CartItem struct {
	BaseModel
	CartID    uuid.UUID    `gorm:"type:uuid;index;uniqueIndex:idx_cart_variant" json:"cart_id"`
	VariantID uuid.UUID    `gorm:"type:uuid;uniqueIndex:idx_cart_variant" json:"variant_id"`
	Variant   *CakeVariant `json:"variant,omitempty"`
	Quantity  int          `json:"quantity"`
}

func (i *CartItem) TotalPrice() decimal.Decimal {
	if i.Variant == nil {
		return decimal.Zero
	}
	return i.Variant.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
