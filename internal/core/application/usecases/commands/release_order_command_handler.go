package commands

import (
	"context"
	"time"

	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/core/domain/model/user"
	"truckbot/internal/core/domain/services"
)

// ReleaseResult is the state committed by a release. Driver is the former holder.
type ReleaseResult struct {
	Order  *order.Order
	Driver *user.User
	Reason order.ReleaseReason
}

// ReleaseOrderCommandHandler hands reserved orders back to WaitingDriver.
// The same transaction serves driver cancellations and expiry.
type ReleaseOrderCommandHandler struct {
	uowFactory LedgerUoWFactory
	claimer    services.OrderClaimer
	clock      Clock
}

// NewReleaseOrderCommandHandler creates a release handler. A nil clock means UTCNow.
func NewReleaseOrderCommandHandler(uowFactory LedgerUoWFactory, clock Clock) ReleaseOrderCommandHandler {
	return ReleaseOrderCommandHandler{
		uowFactory: uowFactory,
		claimer:    services.NewOrderClaimer(),
		clock:      clockOrDefault(clock),
	}
}

// Handle reopens the order and frees the driver.
//
// Errors:
//   - errs.ErrObjectNotFound for an unknown order
//   - services.ErrNotHolder when the driver does not hold the order
func (h ReleaseOrderCommandHandler) Handle(ctx context.Context, cmd ReleaseOrderCommand) (ReleaseResult, error) {
	if err := cmd.Validate(); err != nil {
		return ReleaseResult{}, err
	}

	return h.release(ctx, cmd.OrderID(), cmd.DriverID(), cmd.Reason(), h.clock())
}

func (h ReleaseOrderCommandHandler) release(
	ctx context.Context,
	orderID order.ID,
	driverID int64,
	reason order.ReleaseReason,
	now time.Time,
) (ReleaseResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ReleaseResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, driver, err := loadHolder(ctx, uow, orderID, driverID)
	if err != nil {
		return ReleaseResult{}, err
	}

	// a sweep must not release a reservation that was renewed since it was listed
	if reason == order.Expired && !o.IsReservationExpired(now) {
		return ReleaseResult{}, services.ErrNotHolder
	}

	if err = h.claimer.Release(o, driver, now); err != nil {
		return ReleaseResult{}, err
	}

	if err = writeHolder(ctx, uow, o, driver); err != nil {
		return ReleaseResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ReleaseResult{}, err
	}

	return ReleaseResult{Order: o, Driver: driver, Reason: reason}, nil
}
