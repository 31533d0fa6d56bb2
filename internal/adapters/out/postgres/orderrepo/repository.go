package orderrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"truckbot/internal/adapters/out/postgres/dberr"
	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add inserts a new order and assigns the generated number to the aggregate.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return dberr.Wrap(err, "order")
	}

	return aggregate.AssignID(order.ID(dto.ID))
}

// Update writes the aggregate if the stored status is still expected.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order, expected order.Status) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status = ?", dto.ID, expected.String()).
		Updates(dto.mutableColumns())
	if result.Error != nil {
		return dberr.Wrap(result.Error, "order")
	}

	if result.RowsAffected == 0 {
		return errs.NewVersionIsInvalidErrorWithCause(
			"order",
			fmt.Errorf("order %d is no longer %s", dto.ID, expected),
		)
	}

	return nil
}

// UpdateBroadcastRef writes the broadcast reference without touching the status.
func (r *GormOrderRepository) UpdateBroadcastRef(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if dto.BroadcastChatID == nil || dto.BroadcastMessageID == nil {
		return errs.NewValueIsRequiredError("broadcast ref")
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"broadcast_chat_id":    *dto.BroadcastChatID,
			"broadcast_message_id": *dto.BroadcastMessageID,
			"updated_at":           dto.UpdatedAt,
		})
	if result.Error != nil {
		return dberr.Wrap(result.Error, "order")
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID())
	}
	return nil
}

// Get retrieves an order by number.
func (r *GormOrderRepository) Get(ctx context.Context, id order.ID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", int64(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id)
		}
		return nil, dberr.Wrap(err, "order")
	}

	return toDomain(dto)
}

// ListExpiredReservations retrieves Reserved orders past their deadline.
func (r *GormOrderRepository) ListExpiredReservations(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]*order.Order, error) {
	if limit <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND reserved_until < ?", order.Reserved.String(), now).
		Order("reserved_until, id").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, dberr.Wrap(err, "order")
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}
