package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"truckbot/internal/core/domain/model/notification"
)

// Deliverer performs one delivery attempt of a queued notification.
type Deliverer interface {
	Deliver(ctx context.Context, n *notification.Notification) error
}

// DeliveryReport counts the outcome of one retry pass.
type DeliveryReport struct {
	Delivered int
	Failed    int
}

// DeliverNotificationsCommandHandler drains the outbox.
//
// Delivery happens outside any transaction; each outcome is then recorded in
// its own short unit of work. A failed attempt is rescheduled after
// backoff multiplied by the number of attempts.
type DeliverNotificationsCommandHandler struct {
	uowFactory NotificationUoWFactory
	deliverer  Deliverer
	backoff    time.Duration
}

// NewDeliverNotificationsCommandHandler creates the outbox drainer. backoff is
// the base delay between attempts of one notification.
func NewDeliverNotificationsCommandHandler(
	uowFactory NotificationUoWFactory,
	deliverer Deliverer,
	backoff time.Duration,
) DeliverNotificationsCommandHandler {
	return DeliverNotificationsCommandHandler{
		uowFactory: uowFactory,
		deliverer:  deliverer,
		backoff:    backoff,
	}
}

// Handle attempts every due notification once. Failed deliveries are counted,
// not returned; the error reports store failures only.
func (h DeliverNotificationsCommandHandler) Handle(
	ctx context.Context,
	cmd DeliverNotificationsCommand,
) (DeliveryReport, error) {
	if err := cmd.Validate(); err != nil {
		return DeliveryReport{}, err
	}

	due, err := h.uowFactory.Create().NotificationRepository().ListDue(ctx, cmd.Now(), cmd.MaxAttempts(), cmd.BatchSize())
	if err != nil {
		return DeliveryReport{}, err
	}

	var report DeliveryReport
	var failures []error
	for _, n := range due {
		if deliverErr := h.deliverer.Deliver(ctx, n); deliverErr != nil {
			n.MarkFailed(deliverErr, cmd.Now(), h.backoff)
			report.Failed++
		} else {
			n.MarkDelivered(cmd.Now())
			report.Delivered++
		}

		if err = h.record(ctx, n); err != nil {
			failures = append(failures, fmt.Errorf("record notification %s: %w", n.ID(), err))
		}
	}

	return report, errors.Join(failures...)
}

func (h DeliverNotificationsCommandHandler) record(ctx context.Context, n *notification.Notification) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.NotificationRepository().Update(ctx, n); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
