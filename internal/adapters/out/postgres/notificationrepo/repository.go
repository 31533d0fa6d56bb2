package notificationrepo

import (
	"context"
	"fmt"
	"time"

	"truckbot/internal/adapters/out/postgres/dberr"
	"truckbot/internal/core/domain/model/notification"
	"truckbot/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormNotificationRepository implements ports.NotificationRepository using GORM.
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GORM notification repository.
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Add queues a notification.
func (r *GormNotificationRepository) Add(ctx context.Context, aggregate *notification.Notification) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return dberr.Wrap(err, "notification")
	}
	return nil
}

// Update stores the attempt bookkeeping of a notification.
func (r *GormNotificationRepository) Update(ctx context.Context, aggregate *notification.Notification) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&NotificationDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"attempts":        dto.Attempts,
			"last_error":      dto.LastError,
			"next_attempt_at": dto.NextAttemptAt,
			"delivered_at":    dto.DeliveredAt,
		})
	if result.Error != nil {
		return dberr.Wrap(result.Error, "notification")
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundErrorWithCause("notification", aggregate.ID().String(),
			fmt.Errorf("update matched no rows"))
	}
	return nil
}

// ListDue returns pending notifications whose next attempt is due.
func (r *GormNotificationRepository) ListDue(
	ctx context.Context,
	now time.Time,
	maxAttempts, limit int,
) ([]*notification.Notification, error) {
	var dtos []NotificationDTO
	err := r.db.WithContext(ctx).
		Where("delivered_at IS NULL AND attempts < ? AND next_attempt_at <= ?", maxAttempts, now).
		Order("created_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, dberr.Wrap(err, "notification")
	}

	result := make([]*notification.Notification, 0, len(dtos))
	for _, dto := range dtos {
		n, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, nil
}
