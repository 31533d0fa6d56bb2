// Package notificationrepo persists queued notifications (the outbox) with GORM.
package notificationrepo

import (
	"time"

	"truckbot/internal/core/domain/model/kernel"
	"truckbot/internal/core/domain/model/notification"
	"truckbot/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// NotificationDTO represents a queued notification row.
type NotificationDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind          string    `gorm:"type:varchar(32);not null"`
	OrderID       *int64    `gorm:"index"`
	RecipientID   *int64
	Text          string    `gorm:"not null;default:''"`
	Attempts      int       `gorm:"not null;default:0"`
	LastError     string    `gorm:"not null;default:''"`
	NextAttemptAt time.Time `gorm:"not null;index"`
	DeliveredAt   *time.Time
	CreatedAt     time.Time `gorm:"not null;autoCreateTime:false"`
}

// TableName specifies the database table name for queued notifications.
func (NotificationDTO) TableName() string {
	return "notification_outbox"
}

func fromDomain(n *notification.Notification) NotificationDTO {
	dto := NotificationDTO{
		ID:            n.ID().Bytes(),
		Kind:          n.Kind().String(),
		Text:          n.Text(),
		Attempts:      n.Attempts(),
		LastError:     n.LastError(),
		NextAttemptAt: n.NextAttemptAt(),
		DeliveredAt:   n.DeliveredAt(),
		CreatedAt:     n.CreatedAt(),
	}
	if id := n.OrderID(); id != 0 {
		raw := int64(id)
		dto.OrderID = &raw
	}
	if r := n.RecipientID(); r != 0 {
		dto.RecipientID = &r
	}
	return dto
}

func toDomain(dto NotificationDTO) (*notification.Notification, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	kind, err := notification.ParseKind(dto.Kind)
	if err != nil {
		return nil, err
	}

	s := notification.Snapshot{
		ID:            id,
		Kind:          kind,
		Text:          dto.Text,
		Attempts:      dto.Attempts,
		LastError:     dto.LastError,
		NextAttemptAt: dto.NextAttemptAt.UTC(),
		CreatedAt:     dto.CreatedAt.UTC(),
	}
	if dto.OrderID != nil {
		s.OrderID = order.ID(*dto.OrderID)
	}
	if dto.RecipientID != nil {
		s.RecipientID = *dto.RecipientID
	}
	if dto.DeliveredAt != nil {
		at := dto.DeliveredAt.UTC()
		s.DeliveredAt = &at
	}

	return notification.RestoreNotification(s)
}
