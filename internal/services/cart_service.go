package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/cakeshop/internal/models"
)

// CartService manages the single active cart of each buyer.
type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// Get returns the user's cart with lines and variants loaded, creating the
// cart record on first use.
func (s *CartService) Get(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart := models.Cart{UserID: userID}
	if err := s.db.WithContext(ctx).
		Where(models.Cart{UserID: userID}).
		FirstOrCreate(&cart).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).
		Preload("Variant").
		Where("cart_id = ?", cart.ID).
		Order("created_at asc").
		Find(&cart.Items).Error; err != nil {
		return nil, err
	}

	return &cart, nil
}

// AddItem adds a variant to the cart or increments an existing line. The
// resulting quantity may not exceed the variant's current stock.
func (s *CartService) AddItem(ctx context.Context, userID, variantID uuid.UUID, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	var variant models.CakeVariant
	if err := s.db.WithContext(ctx).First(&variant, "id = ?", variantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}

	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.CartItem
		err := tx.Where("cart_id = ? AND variant_id = ?", cart.ID, variantID).First(&item).Error
		switch {
		case err == nil:
			newQuantity := item.Quantity + quantity
			if newQuantity > variant.Stock {
				return ErrInsufficientStock
			}
			return tx.Model(&item).Update("quantity", newQuantity).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			if quantity > variant.Stock {
				return ErrInsufficientStock
			}
			return tx.Create(&models.CartItem{
				CartID:    cart.ID,
				VariantID: variantID,
				Quantity:  quantity,
			}).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, userID)
}

// SetQuantity updates a cart line. A quantity of zero or less removes the line.
func (s *CartService) SetQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*models.Cart, error) {
	var item models.CartItem
	err := s.db.WithContext(ctx).
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ?", itemID, userID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}

	if quantity <= 0 {
		if err := s.db.WithContext(ctx).Delete(&models.CartItem{}, "id = ?", item.ID).Error; err != nil {
			return nil, err
		}
		return s.Get(ctx, userID)
	}

	var variant models.CakeVariant
	if err := s.db.WithContext(ctx).First(&variant, "id = ?", item.VariantID).Error; err != nil {
		return nil, err
	}
	if quantity > variant.Stock {
		return nil, ErrInsufficientStock
	}

	if err := s.db.WithContext(ctx).Model(&item).Update("quantity", quantity).Error; err != nil {
		return nil, err
	}

	return s.Get(ctx, userID)
}

// RemoveItem deletes a cart line owned by the user.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*models.Cart, error) {
	return s.SetQuantity(ctx, userID, itemID, 0)
}
