package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/cakeshop/internal/models"
)

func createTestOrder(t *testing.T, db *gorm.DB, userID uuid.UUID, status string) *models.Order {
	t.Helper()

	address := createTestAddress(t, db, userID)
	order := models.Order{
		UserID:            userID,
		OrderNumber:       "CO" + uuid.NewString()[:8],
		ShippingAddressID: address.ID,
		PaymentMethod:     models.PaymentMethodCOD,
		Status:            status,
	}
	require.NoError(t, db.Create(&order).Error)
	return &order
}

func TestOrderListAndGet(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	ctx := context.Background()

	buyer := createTestBuyer(t, db)
	placed := createTestOrder(t, db, buyer.ID, models.StatusPlaced)
	createTestOrder(t, db, buyer.ID, models.StatusDelivered)

	other := createTestBuyer(t, db)
	createTestOrder(t, db, other.ID, models.StatusPlaced)

	orders, total, err := svc.List(ctx, buyer.ID, "", 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, orders, 2)

	orders, total, err = svc.List(ctx, buyer.ID, models.StatusPlaced, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, placed.ID, orders[0].ID)

	got, err := svc.Get(ctx, buyer.ID, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, placed.OrderNumber, got.OrderNumber)

	// Orders are scoped to their owner.
	_, err = svc.Get(ctx, other.ID, placed.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderCancel(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	ctx := context.Background()

	buyer := createTestBuyer(t, db)
	order := createTestOrder(t, db, buyer.ID, models.StatusConfirmed)

	got, err := svc.Cancel(ctx, buyer.ID, order.ID, "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)

	var events []models.OrderStatusEvent
	require.NoError(t, db.Where("order_id = ?", order.ID).Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, models.StatusCancelled, events[0].Status)
	assert.Equal(t, "changed my mind", events[0].Note)
	require.NotNil(t, events[0].ActorID)
	assert.Equal(t, buyer.ID, *events[0].ActorID)
}

func TestOrderCancelRejections(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	ctx := context.Background()

	buyer := createTestBuyer(t, db)

	order := createTestOrder(t, db, buyer.ID, models.StatusPlaced)
	_, err := svc.Cancel(ctx, buyer.ID, order.ID, "   ")
	assert.ErrorIs(t, err, ErrCancelReasonRequired)

	shipped := createTestOrder(t, db, buyer.ID, models.StatusShipped)
	_, err = svc.Cancel(ctx, buyer.ID, shipped.ID, "too late")
	assert.ErrorIs(t, err, ErrNotCancellable)

	cancelled := createTestOrder(t, db, buyer.ID, models.StatusCancelled)
	_, err = svc.Cancel(ctx, buyer.ID, cancelled.ID, "again")
	assert.ErrorIs(t, err, ErrNotCancellable)

	_, err = svc.Cancel(ctx, buyer.ID, uuid.New(), "ghost")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderCancelRunsHooks(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	ctx := context.Background()

	var hookOrder *models.Order
	svc.RegisterCancelHook(func(_ context.Context, _ *gorm.DB, order *models.Order) error {
		hookOrder = order
		return nil
	})

	buyer := createTestBuyer(t, db)
	order := createTestOrder(t, db, buyer.ID, models.StatusPlaced)

	_, err := svc.Cancel(ctx, buyer.ID, order.ID, "changed my mind")
	require.NoError(t, err)
	require.NotNil(t, hookOrder)
	assert.Equal(t, order.ID, hookOrder.ID)
	assert.Equal(t, models.StatusCancelled, hookOrder.Status)
}

func TestAdvanceStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	ctx := context.Background()

	buyer := createTestBuyer(t, db)
	actor := uuid.New()
	order := createTestOrder(t, db, buyer.ID, models.StatusConfirmed)

	got, err := svc.AdvanceStatus(ctx, actor, order.ID, models.StatusPacked, "packed and labelled")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPacked, got.Status)

	got, err = svc.AdvanceStatus(ctx, actor, order.ID, models.StatusShipped, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, got.Status)

	got, err = svc.AdvanceStatus(ctx, actor, order.ID, models.StatusDelivered, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, got.Status)

	var events []models.OrderStatusEvent
	require.NoError(t, db.Where("order_id = ?", order.ID).Order("created_at asc").Find(&events).Error)
	assert.Len(t, events, 3)
}

func TestAdvanceStatusRejections(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	ctx := context.Background()

	buyer := createTestBuyer(t, db)
	actor := uuid.New()
	order := createTestOrder(t, db, buyer.ID, models.StatusConfirmed)

	// Skipping a step is illegal.
	_, err := svc.AdvanceStatus(ctx, actor, order.ID, models.StatusShipped, "")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	// Cancellation goes through Cancel, not AdvanceStatus.
	_, err = svc.AdvanceStatus(ctx, actor, order.ID, models.StatusCancelled, "")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	delivered := createTestOrder(t, db, buyer.ID, models.StatusDelivered)
	_, err = svc.AdvanceStatus(ctx, actor, delivered.ID, models.StatusDelivered, "")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.AdvanceStatus(ctx, actor, uuid.New(), models.StatusPacked, "")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
