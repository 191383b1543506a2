package models

import (
	"github.com/google/uuid"
)

// User roles.
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// User represents a registered account: buyer, seller or admin.
type User struct {
	BaseModel
	Email        string    `gorm:"uniqueIndex" json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsApproved   bool      `json:"is_approved"`
	Addresses    []Address `json:"addresses,omitempty"`
	Orders       []Order   `json:"orders,omitempty"`
}

// NewUser builds a user with role invariants established at creation time.
// Buyers are approved immediately; sellers wait for admin approval.
func NewUser(email, firstName, lastName, passwordHash, role string) User {
	if role == "" {
		role = RoleBuyer
	}
	return User{
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: passwordHash,
		Role:         role,
		IsApproved:   role == RoleBuyer,
	}
}

// Address is a saved shipping address belonging to a user.
type Address struct {
	BaseModel
	UserID       uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	AddressLine1 string    `json:"address_line_1"`
	AddressLine2 string    `json:"address_line_2"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Pincode      string    `json:"pincode"`
	IsDefault    bool      `json:"is_default"`
}
