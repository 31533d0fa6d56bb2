package ports

import (
	"context"
	"time"

	"truckbot/internal/core/domain/model/notification"
)

// NotificationRepository stores notifications waiting for redelivery.
type NotificationRepository interface {
	Add(ctx context.Context, aggregate *notification.Notification) error
	Update(ctx context.Context, aggregate *notification.Notification) error

	// ListDue returns undelivered notifications with fewer than maxAttempts
	// attempts whose next attempt is due at now, oldest first.
	ListDue(ctx context.Context, now time.Time, maxAttempts, limit int) ([]*notification.Notification, error)
}
