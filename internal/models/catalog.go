package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Dietary classifications for cakes.
const (
	DietaryVeg     = "veg"
	DietaryNonVeg  = "non_veg"
	DietaryVegan   = "vegan"
	DietaryEggless = "eggless"
)

type Category struct {
	BaseModel
	Name        string     `json:"name"`
	ParentID    *uuid.UUID `gorm:"type:uuid" json:"parent_id"`
	Description string     `json:"description"`
	IsActive    bool       `json:"is_active"`
}

// Cake is a seller-owned catalog item. Purchasable units are its variants.
type Cake struct {
	BaseModel
	SellerID        uuid.UUID     `gorm:"type:uuid;index" json:"seller_id"`
	Seller          *User         `json:"seller,omitempty"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	CategoryID      *uuid.UUID    `gorm:"type:uuid" json:"category_id"`
	Category        *Category     `json:"category,omitempty"`
	Tags            string        `json:"tags"`
	Flavor          string        `json:"flavor"`
	Dietary         string        `json:"dietary"`
	IsTodaysSpecial bool          `json:"is_todays_special"`
	IsActive        bool          `json:"is_active"`
	Variants        []CakeVariant `json:"variants,omitempty"`
}

// CakeVariant is a purchasable unit (a specific weight) with its own price
// and stock counter. Stock is decremented by the inventory reconciler at
// payment confirmation, never below zero.
type CakeVariant struct {
	BaseModel
	CakeID uuid.UUID       `gorm:"type:uuid;index;uniqueIndex:idx_cake_weight" json:"cake_id"`
	Cake   *Cake           `json:"cake,omitempty"`
	Weight string          `gorm:"uniqueIndex:idx_cake_weight" json:"weight"`
	Price  decimal.Decimal `gorm:"type:numeric(8,2)" json:"price"`
	Stock  int             `json:"stock"`
}
