package dispatch

import (
	"context"
	"time"

	"truckbot/internal/core/application/usecases/commands"
	"truckbot/internal/core/domain/model/kernel"
	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/core/domain/model/user"
	"truckbot/internal/core/ports"

	"go.uber.org/zap"
)

// Config holds the dispatch settings.
type Config struct {
	// ChannelID is the shared channel where orders are broadcast.
	ChannelID int64
	// ReservationTTL is how long a claim holds an order.
	ReservationTTL time.Duration
	// SweepBatchSize bounds the reservations released per sweep.
	SweepBatchSize int
}

// Handlers are the ledger operations the Facade drives.
type Handlers struct {
	Post    commands.PostOrderCommandHandler
	Claim   commands.ClaimOrderCommandHandler
	Confirm commands.ConfirmOrderCommandHandler
	Release commands.ReleaseOrderCommandHandler
	Cancel  commands.CancelOrderCommandHandler
	Expire  commands.ExpireReservationsCommandHandler
	Attach  commands.AttachBroadcastCommandHandler
	Queue   commands.QueueNotificationCommandHandler
}

// OrderFields is what a customer fills in for a new order.
type OrderFields struct {
	Cargo    string
	FromAddr string
	ToAddr   string
	Phone    string
}

// Facade maps chat events to the ledger. It holds no state of its own and
// is safe for concurrent use.
type Facade struct {
	cfg      Config
	handlers Handlers
	uows     ports.UnitOfWorkFactory
	notifier ports.Notifier
	clock    commands.Clock
	log      *zap.Logger
}

// NewFacade wires a Facade. uows is only read from when a queued broadcast
// is delivered again. A nil clock means commands.UTCNow.
func NewFacade(
	cfg Config,
	handlers Handlers,
	uows ports.UnitOfWorkFactory,
	notifier ports.Notifier,
	clock commands.Clock,
	log *zap.Logger,
) *Facade {
	if clock == nil {
		clock = commands.UTCNow
	}
	return &Facade{
		cfg:      cfg,
		handlers: handlers,
		uows:     uows,
		notifier: notifier,
		clock:    clock,
		log:      log.With(zap.String("component", "dispatch")),
	}
}

// SubmitOrder posts a new order and broadcasts it.
func (f *Facade) SubmitOrder(ctx context.Context, customerID int64, fields OrderFields) Result {
	cmd, err := commands.NewPostOrderCommand(customerID, fields.Cargo, fields.FromAddr, fields.ToAddr, fields.Phone)
	if err != nil {
		return f.reject(ctx, submitEvent, customerID, 0, err)
	}

	o, err := f.handlers.Post.Handle(ctx, cmd)
	if err != nil {
		return f.reject(ctx, submitEvent, customerID, 0, err)
	}

	f.log.Info("order posted", zap.Stringer("order_id", o.ID()), zap.Int64("customer_id", customerID))

	f.publish(ctx, o)
	f.directMessage(ctx, customerID, o.ID(), publishedText(o.ID()), customerActions(o.ID())...)

	return Result{Outcome: OK, OrderID: o.ID(), Order: o, Reply: publishedText(o.ID())}
}

// RequestClaim reserves an open order for the driver.
func (f *Facade) RequestClaim(ctx context.Context, driverID int64, orderID order.ID) Result {
	cmd, err := commands.NewClaimOrderCommand(orderID, driverID, f.cfg.ReservationTTL)
	if err != nil {
		return f.reject(ctx, claimEvent, driverID, orderID, err)
	}

	res, err := f.handlers.Claim.Handle(ctx, cmd)
	if err != nil {
		return f.reject(ctx, claimEvent, driverID, orderID, err)
	}

	until := *res.Order.ReservedUntil()
	f.log.Info("order claimed",
		zap.Stringer("order_id", orderID),
		zap.Int64("driver_id", driverID),
		zap.Time("reserved_until", until),
	)

	reply := reservedText(orderID, until)
	f.syncBroadcast(ctx, res.Order, res.Driver)
	f.directMessage(ctx, driverID, orderID, reply)

	return Result{Outcome: OK, OrderID: orderID, Order: res.Order, Reply: reply}
}

// RequestConfirm completes the order held by the driver.
func (f *Facade) RequestConfirm(ctx context.Context, driverID int64, orderID order.ID) Result {
	cmd, err := commands.NewConfirmOrderCommand(orderID, driverID)
	if err != nil {
		return f.reject(ctx, confirmEvent, driverID, orderID, err)
	}

	res, err := f.handlers.Confirm.Handle(ctx, cmd)
	if err != nil {
		return f.reject(ctx, confirmEvent, driverID, orderID, err)
	}

	f.log.Info("order confirmed", zap.Stringer("order_id", orderID), zap.Int64("driver_id", driverID))

	f.syncBroadcast(ctx, res.Order, res.Driver)
	f.directMessage(ctx, res.Order.CustomerID(), orderID, confirmedCustomerText(orderID, res.Driver))

	return Result{Outcome: OK, OrderID: orderID, Order: res.Order, Reply: confirmedDriverText(orderID)}
}

// RequestRelease gives a held order back to the pool on the driver's request.
func (f *Facade) RequestRelease(ctx context.Context, driverID int64, orderID order.ID) Result {
	cmd, err := commands.NewReleaseOrderCommand(orderID, driverID, order.DriverCancelled)
	if err != nil {
		return f.reject(ctx, releaseEvent, driverID, orderID, err)
	}

	res, err := f.handlers.Release.Handle(ctx, cmd)
	if err != nil {
		return f.reject(ctx, releaseEvent, driverID, orderID, err)
	}

	f.log.Info("order released",
		zap.Stringer("order_id", orderID),
		zap.Int64("driver_id", driverID),
		zap.Stringer("reason", res.Reason),
	)

	f.syncBroadcast(ctx, res.Order, nil)
	f.directMessage(ctx, res.Order.CustomerID(), orderID, releasedCustomerText(orderID))

	return Result{Outcome: OK, OrderID: orderID, Order: res.Order, Reply: releasedDriverText(orderID)}
}

// WithdrawOrder cancels an open order on behalf of its customer.
func (f *Facade) WithdrawOrder(ctx context.Context, customerID int64, orderID order.ID) Result {
	cmd, err := commands.NewCancelOrderCommand(orderID, customerID)
	if err != nil {
		return f.reject(ctx, withdrawEvent, customerID, orderID, err)
	}

	o, err := f.handlers.Cancel.Handle(ctx, cmd)
	if err != nil {
		return f.reject(ctx, withdrawEvent, customerID, orderID, err)
	}

	f.log.Info("order withdrawn", zap.Stringer("order_id", orderID), zap.Int64("customer_id", customerID))

	f.syncBroadcast(ctx, o, nil)

	return Result{Outcome: OK, OrderID: orderID, Order: o, Reply: withdrawnText(orderID)}
}

// ExpireReservations releases overdue reservations and notifies both sides
// of each. It returns how many orders were released. A non-nil error still
// comes with the orders released before it.
func (f *Facade) ExpireReservations(ctx context.Context) (int, error) {
	cmd, err := commands.NewExpireReservationsCommand(f.clock(), f.cfg.SweepBatchSize)
	if err != nil {
		return 0, err
	}

	res, err := f.handlers.Expire.Handle(ctx, cmd)
	for _, released := range res.Released {
		id := released.Order.ID()
		f.log.Info("reservation expired",
			zap.Stringer("order_id", id),
			zap.Int64("driver_id", released.Driver.ID()),
			zap.Stringer("reason", released.Reason),
		)

		f.syncBroadcast(ctx, released.Order, nil)
		f.directMessage(ctx, released.Driver.ID(), id, expiredDriverText(id))
		f.directMessage(ctx, released.Order.CustomerID(), id, expiredCustomerText(id))
	}
	if res.Skipped > 0 {
		f.log.Debug("expired reservations resolved concurrently", zap.Int("skipped", res.Skipped))
	}

	return len(res.Released), err
}

func (f *Facade) reject(ctx context.Context, ev event, actorID int64, orderID order.ID, err error) Result {
	outcome := OutcomeOf(err)
	reply := failureText(ev, err)

	fields := []zap.Field{
		zap.String("event", string(ev)),
		zap.Stringer("outcome", outcome),
		zap.Int64("actor_id", actorID),
		zap.Stringer("order_id", orderID),
		zap.Error(err),
	}
	if outcome == StoreUnavailable {
		f.log.Error("request failed", fields...)
	} else {
		f.log.Info("request rejected", fields...)
	}

	f.directMessage(ctx, actorID, orderID, reply)

	return Result{Outcome: outcome, OrderID: orderID, Reply: reply, Err: err}
}

// publish posts the first broadcast of o and stores where it landed.
func (f *Facade) publish(ctx context.Context, o *order.Order) {
	text, actions := RenderBroadcast(o, nil)
	ref, err := f.notifier.Post(ctx, f.cfg.ChannelID, text, actions)
	if err != nil {
		f.log.Warn("broadcast post failed", zap.Stringer("order_id", o.ID()), zap.Error(err))
		f.queueBroadcast(ctx, o.ID(), err)
		return
	}

	attached, err := f.attach(ctx, o.ID(), ref)
	if err != nil {
		f.log.Error("broadcast reference not stored",
			zap.Stringer("order_id", o.ID()),
			zap.Int64("chat_id", ref.ChatID()),
			zap.Int("message_id", ref.MessageID()),
			zap.Error(err),
		)
		return
	}

	// a transition committed while the post was in flight
	if attached.Status() != o.Status() {
		f.log.Info("order moved before broadcast was attached",
			zap.Stringer("order_id", o.ID()),
			zap.Stringer("status", attached.Status()),
		)
		if err = f.redeliverBroadcast(ctx, o.ID()); err != nil {
			f.log.Warn("broadcast edit failed", zap.Stringer("order_id", o.ID()), zap.Error(err))
			f.queueBroadcast(ctx, o.ID(), err)
		}
	}
}

// syncBroadcast re-renders the broadcast of o. When the broadcast is not
// attached yet a sync is queued; the retry renders whatever state is current.
func (f *Facade) syncBroadcast(ctx context.Context, o *order.Order, driver *user.User) {
	ref := o.BroadcastRef()
	if ref.IsZero() {
		f.log.Info("broadcast not attached yet, sync queued", zap.Stringer("order_id", o.ID()))
		f.queueBroadcast(ctx, o.ID(), nil)
		return
	}

	text, actions := RenderBroadcast(o, driver)
	if err := f.notifier.Edit(ctx, ref, text, actions); err != nil {
		f.log.Warn("broadcast edit failed", zap.Stringer("order_id", o.ID()), zap.Error(err))
		f.queueBroadcast(ctx, o.ID(), err)
	}
}

// directMessage sends text to userID. A failed message is queued without its
// actions; the retry delivers the text only.
func (f *Facade) directMessage(ctx context.Context, userID int64, orderID order.ID, text string, actions ...ports.Action) {
	err := f.notifier.DirectMessage(ctx, userID, text, actions)
	if err == nil {
		return
	}

	f.log.Warn("direct message failed", zap.Int64("user_id", userID), zap.Stringer("order_id", orderID), zap.Error(err))

	cmd, cmdErr := commands.NewQueueDirectMessageCommand(userID, text, orderID, err)
	if cmdErr == nil {
		_, cmdErr = f.handlers.Queue.Handle(ctx, cmd)
	}
	if cmdErr != nil {
		f.log.Error("direct message dropped", zap.Int64("user_id", userID), zap.Error(cmdErr))
	}
}

func (f *Facade) queueBroadcast(ctx context.Context, orderID order.ID, cause error) {
	cmd, err := commands.NewQueueBroadcastSyncCommand(orderID, cause)
	if err == nil {
		_, err = f.handlers.Queue.Handle(ctx, cmd)
	}
	if err != nil {
		f.log.Error("broadcast sync dropped", zap.Stringer("order_id", orderID), zap.Error(err))
	}
}

func (f *Facade) attach(ctx context.Context, orderID order.ID, ref kernel.BroadcastRef) (*order.Order, error) {
	cmd, err := commands.NewAttachBroadcastCommand(orderID, ref)
	if err != nil {
		return nil, err
	}
	return f.handlers.Attach.Handle(ctx, cmd)
}
