package commands

import (
	"context"
	"time"

	"truckbot/internal/core/domain/model/notification"
)

// QueueNotificationCommandHandler writes failed deliveries to the outbox.
// The first retry is scheduled one backoff after now.
type QueueNotificationCommandHandler struct {
	uowFactory NotificationUoWFactory
	backoff    time.Duration
	clock      Clock
}

// NewQueueNotificationCommandHandler creates an outbox writer. A nil clock means UTCNow.
func NewQueueNotificationCommandHandler(
	uowFactory NotificationUoWFactory,
	backoff time.Duration,
	clock Clock,
) QueueNotificationCommandHandler {
	return QueueNotificationCommandHandler{
		uowFactory: uowFactory,
		backoff:    backoff,
		clock:      clockOrDefault(clock),
	}
}

// Handle stores the notification and returns it.
func (h QueueNotificationCommandHandler) Handle(
	ctx context.Context,
	cmd QueueNotificationCommand,
) (*notification.Notification, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := h.clock()
	var n *notification.Notification
	var err error
	switch cmd.Kind() {
	case notification.BroadcastSync:
		n, err = notification.NewBroadcastSync(cmd.OrderID(), now)
	case notification.DirectMessage:
		n, err = notification.NewDirectMessage(cmd.RecipientID(), cmd.Text(), cmd.OrderID(), now)
	default:
		err = ErrQueueNotificationCommandIsNotConstructed
	}
	if err != nil {
		return nil, err
	}
	// the failed delivery that caused queueing is not counted as an attempt
	n.Postpone(cmd.Cause(), now.Add(h.backoff))

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.NotificationRepository().Add(ctx, n); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return n, nil
}
