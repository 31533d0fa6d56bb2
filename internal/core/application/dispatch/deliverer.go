package dispatch

import (
	"context"
	"fmt"

	"truckbot/internal/core/domain/model/notification"
	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/core/domain/model/user"
	"truckbot/internal/pkg/errs"

	"go.uber.org/zap"
)

// Deliver makes one more attempt at a queued notification. Broadcasts are
// rendered from the order as it is now, so a late retry never shows stale
// state. An order whose first post failed is posted and attached here.
func (f *Facade) Deliver(ctx context.Context, n *notification.Notification) error {
	switch n.Kind() {
	case notification.DirectMessage:
		return f.notifier.DirectMessage(ctx, n.RecipientID(), n.Text(), nil)
	case notification.BroadcastSync:
		return f.redeliverBroadcast(ctx, n.OrderID())
	default:
		return errs.NewValueIsInvalidError("notification kind")
	}
}

func (f *Facade) redeliverBroadcast(ctx context.Context, orderID order.ID) error {
	o, driver, err := f.loadOrder(ctx, orderID)
	if err != nil {
		return err
	}

	text, actions := RenderBroadcast(o, driver)
	if ref := o.BroadcastRef(); !ref.IsZero() {
		return f.notifier.Edit(ctx, ref, text, actions)
	}

	ref, err := f.notifier.Post(ctx, f.cfg.ChannelID, text, actions)
	if err != nil {
		return err
	}
	f.log.Info("queued broadcast posted", zap.Stringer("order_id", orderID), zap.Int("message_id", ref.MessageID()))

	_, err = f.attach(ctx, orderID, ref)
	return err
}

func (f *Facade) loadOrder(ctx context.Context, orderID order.ID) (*order.Order, *user.User, error) {
	uow := f.uows.Create()

	o, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("load order %s: %w", orderID, err)
	}

	driverID := o.Driver()
	if driverID == nil {
		return o, nil, nil
	}

	driver, err := uow.UserRepository().Get(ctx, *driverID)
	if err != nil {
		return nil, nil, fmt.Errorf("load driver %d: %w", *driverID, err)
	}
	return o, driver, nil
}
