package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/cakeshop/internal/models"
)

// CancelHook runs inside the cancellation transaction; registered hooks are
// the extension point for future compensations (restocking, gateway refunds).
// None are registered by default.
type CancelHook func(ctx context.Context, tx *gorm.DB, order *models.Order) error

// OrderService reads orders and enforces the status state machine.
type OrderService struct {
	db          *gorm.DB
	cancelHooks []CancelHook
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// RegisterCancelHook adds a compensation to run when an order is cancelled.
func (s *OrderService) RegisterCancelHook(hook CancelHook) {
	s.cancelHooks = append(s.cancelHooks, hook)
}

// List returns the user's orders newest first, optionally filtered by status.
func (s *OrderService) List(ctx context.Context, userID uuid.UUID, status string, limit, offset int) ([]models.Order, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// Get returns one order owned by the user, with lines and history loaded.
func (s *OrderService) Get(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items.Variant").
		Preload("StatusEvents", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		First(&order, "id = ? AND user_id = ?", orderID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// Cancel moves an eligible order to cancelled and appends a status event with
// the buyer's reason. Orders in shipped or delivered cannot be cancelled.
func (s *OrderService) Cancel(ctx context.Context, userID, orderID uuid.UUID, reason string) (*models.Order, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrCancelReasonRequired
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, "id = ? AND user_id = ?", orderID, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if !order.CanBeCancelled() {
			return ErrNotCancellable
		}

		// Re-checked in the update so a racing status advance cannot slip an
		// already-shipped order into cancelled.
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status IN ?", order.ID,
				[]string{models.StatusPlaced, models.StatusConfirmed, models.StatusPacked}).
			Update("status", models.StatusCancelled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotCancellable
		}
		order.Status = models.StatusCancelled

		if err := tx.Create(&models.OrderStatusEvent{
			OrderID: order.ID,
			Status:  models.StatusCancelled,
			Note:    reason,
			ActorID: &userID,
		}).Error; err != nil {
			return err
		}

		for _, hook := range s.cancelHooks {
			if err := hook(ctx, tx, &order); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// AdvanceStatus moves an order one legal step forward (confirmed -> packed ->
// shipped -> delivered) on behalf of a seller or admin actor.
func (s *OrderService) AdvanceStatus(ctx context.Context, actorID, orderID uuid.UUID, next string, note string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if !models.CanTransition(order.Status, next) || next == models.StatusCancelled {
			return ErrInvalidStatus
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, order.Status).
			Update("status", next)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidStatus
		}
		order.Status = next

		return tx.Create(&models.OrderStatusEvent{
			OrderID: order.ID,
			Status:  next,
			Note:    note,
			ActorID: &actorID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}
