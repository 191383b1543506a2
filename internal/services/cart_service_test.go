package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAddItem(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db)
	ctx := context.Background()

	buyer := createTestBuyer(t, db)
	variant := createTestVariant(t, db, "500.00", 10)

	cart, err := svc.AddItem(ctx, buyer.ID, variant.ID, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, "1000.00", cart.TotalPrice().StringFixed(2))

	// Adding the same variant again increments the existing line.
	cart, err = svc.AddItem(ctx, buyer.ID, variant.ID, 3)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 5, cart.TotalItems())
}

func TestCartAddItemValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db)
	ctx := context.Background()

	buyer := createTestBuyer(t, db)
	variant := createTestVariant(t, db, "500.00", 3)

	_, err := svc.AddItem(ctx, buyer.ID, variant.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.AddItem(ctx, buyer.ID, uuid.New(), 1)
	assert.ErrorIs(t, err, ErrVariantNotFound)

	_, err = svc.AddItem(ctx, buyer.ID, variant.ID, 4)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Line quantity plus increment past stock is rejected too.
	_, err = svc.AddItem(ctx, buyer.ID, variant.ID, 2)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, buyer.ID, variant.ID, 2)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCartSetQuantity(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db)
	ctx := context.Background()

	buyer := createTestBuyer(t, db)
	variant := createTestVariant(t, db, "250.00", 10)

	cart, err := svc.AddItem(ctx, buyer.ID, variant.ID, 1)
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	cart, err = svc.SetQuantity(ctx, buyer.ID, itemID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, cart.Items[0].Quantity)

	_, err = svc.SetQuantity(ctx, buyer.ID, itemID, 11)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Zero removes the line.
	cart, err = svc.SetQuantity(ctx, buyer.ID, itemID, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	_, err = svc.SetQuantity(ctx, buyer.ID, itemID, 1)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartItemOwnership(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(db)
	ctx := context.Background()

	owner := createTestBuyer(t, db)
	intruder := createTestBuyer(t, db)
	variant := createTestVariant(t, db, "250.00", 10)

	cart, err := svc.AddItem(ctx, owner.ID, variant.ID, 1)
	require.NoError(t, err)

	_, err = svc.SetQuantity(ctx, intruder.ID, cart.Items[0].ID, 2)
	assert.ErrorIs(t, err, ErrCartItemNotFound)

	_, err = svc.RemoveItem(ctx, intruder.ID, cart.Items[0].ID)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}
