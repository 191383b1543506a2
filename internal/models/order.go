package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses. Orders move strictly forward through the first five;
// cancelled is reachable from placed, confirmed and packed only. Delivered
// and cancelled are terminal.
const (
	StatusPlaced    = "placed"
	StatusConfirmed = "confirmed"
	StatusPacked    = "packed"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// Payment methods.
const (
	PaymentMethodGateway = "gateway"
	PaymentMethodCOD     = "cod"
)

var statusRank = map[string]int{
	StatusPlaced:    0,
	StatusConfirmed: 1,
	StatusPacked:    2,
	StatusShipped:   3,
	StatusDelivered: 4,
}

// NextStatus returns the single legal forward step from the given status.
func NextStatus(status string) (string, bool) {
	switch status {
	case StatusPlaced:
		return StatusConfirmed, true
	case StatusConfirmed:
		return StatusPacked, true
	case StatusPacked:
		return StatusShipped, true
	case StatusShipped:
		return StatusDelivered, true
	default:
		return "", false
	}
}

// CanTransition reports whether from -> to is a legal status transition.
func CanTransition(from, to string) bool {
	if to == StatusCancelled {
		return from == StatusPlaced || from == StatusConfirmed || from == StatusPacked
	}
	next, ok := NextStatus(from)
	return ok && next == to
}

// Order is an immutable priced snapshot of a checked-out cart. Monetary
// fields are fixed at creation and never recomputed; catalog price changes
// after checkout do not affect them.
type Order struct {
	BaseModel
	UserID            uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User              *User     `json:"user,omitempty"`
	OrderNumber       string    `gorm:"uniqueIndex" json:"order_number"`
	ShippingAddressID uuid.UUID `gorm:"type:uuid" json:"shipping_address_id"`
	ShippingAddress   *Address  `json:"shipping_address,omitempty"`

	Subtotal       decimal.Decimal `gorm:"type:numeric(10,2)" json:"subtotal"`
	DeliveryCharge decimal.Decimal `gorm:"type:numeric(6,2)" json:"delivery_charge"`
	CouponDiscount decimal.Decimal `gorm:"type:numeric(8,2)" json:"coupon_discount"`
	TotalAmount    decimal.Decimal `gorm:"type:numeric(10,2)" json:"total_amount"`

	PaymentMethod    string `json:"payment_method"`
	GatewayOrderID   string `gorm:"index" json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	GatewaySignature string `json:"-"`
	IsPaid           bool   `json:"is_paid"`

	Status          string     `json:"status"`
	AppliedCouponID *uuid.UUID `gorm:"type:uuid" json:"applied_coupon_id"`
	AppliedCoupon   *Coupon    `json:"applied_coupon,omitempty"`

	Items        []OrderItem        `json:"items,omitempty"`
	StatusEvents []OrderStatusEvent `json:"status_events,omitempty"`
}

// CanBeCancelled reports cancellation eligibility: orders already shipped,
// delivered or cancelled cannot be cancelled.
func (o *Order) CanBeCancelled() bool {
	return o.Status == StatusPlaced || o.Status == StatusConfirmed || o.Status == StatusPacked
}

// OrderItem is one order line with the unit price captured at order time.
// Immutable after creation.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID       `gorm:"type:uuid;index" json:"order_id"`
	VariantID uuid.UUID       `gorm:"type:uuid" json:"variant_id"`
	Variant   *CakeVariant    `json:"variant,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(8,2)" json:"price"`
}

func (i *OrderItem) TotalPrice() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderStatusEvent is an append-only audit entry. Rows are never mutated or
// deleted.
type OrderStatusEvent struct {
	BaseModel
	OrderID uuid.UUID  `gorm:"type:uuid;index" json:"order_id"`
	Status  string     `json:"status"`
	Note    string     `json:"note"`
	ActorID *uuid.UUID `gorm:"type:uuid" json:"actor_id"`
}
