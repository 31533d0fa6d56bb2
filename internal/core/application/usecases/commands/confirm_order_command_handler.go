package commands

import (
	"context"
	"errors"

	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/core/domain/model/user"
	"truckbot/internal/core/domain/services"
	"truckbot/internal/pkg/errs"
)

// ConfirmResult is the state committed by a successful confirmation.
type ConfirmResult struct {
	Order  *order.Order
	Driver *user.User
}

// ConfirmOrderCommandHandler completes reserved orders.
//
// A confirmation racing with a release or an expiry of the same order loses
// with services.ErrNotHolder when the other transaction commits first.
type ConfirmOrderCommandHandler struct {
	uowFactory LedgerUoWFactory
	claimer    services.OrderClaimer
	clock      Clock
}

// NewConfirmOrderCommandHandler creates a confirm handler. A nil clock means UTCNow.
func NewConfirmOrderCommandHandler(uowFactory LedgerUoWFactory, clock Clock) ConfirmOrderCommandHandler {
	return ConfirmOrderCommandHandler{
		uowFactory: uowFactory,
		claimer:    services.NewOrderClaimer(),
		clock:      clockOrDefault(clock),
	}
}

// Handle completes the order and frees the driver.
//
// Errors:
//   - errs.ErrObjectNotFound for an unknown order
//   - services.ErrNotHolder when the driver does not hold the order, including
//     already completed or released orders and unregistered drivers
func (h ConfirmOrderCommandHandler) Handle(ctx context.Context, cmd ConfirmOrderCommand) (ConfirmResult, error) {
	if err := cmd.Validate(); err != nil {
		return ConfirmResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ConfirmResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, driver, err := loadHolder(ctx, uow, cmd.OrderID(), cmd.DriverID())
	if err != nil {
		return ConfirmResult{}, err
	}

	if err = h.claimer.Confirm(o, driver, h.clock()); err != nil {
		return ConfirmResult{}, err
	}

	if err = writeHolder(ctx, uow, o, driver); err != nil {
		return ConfirmResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ConfirmResult{}, err
	}

	return ConfirmResult{Order: o, Driver: driver}, nil
}

// loadHolder reads the order and the acting driver. An unregistered driver
// cannot hold anything and is reported as services.ErrNotHolder.
func loadHolder(ctx context.Context, uow LedgerUoW, orderID order.ID, driverID int64) (*order.Order, *user.User, error) {
	o, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	driver, err := uow.UserRepository().Get(ctx, driverID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil, services.ErrNotHolder
	}
	if err != nil {
		return nil, nil, err
	}

	return o, driver, nil
}

// writeHolder persists an order that left Reserved together with the driver
// that held it. Both writes expect the reservation to be untouched.
func writeHolder(ctx context.Context, uow LedgerUoW, o *order.Order, driver *user.User) error {
	held := o.ID()

	if err := uow.OrderRepository().Update(ctx, o, order.Reserved); err != nil {
		return lostRace(err, services.ErrNotHolder)
	}
	if err := uow.UserRepository().Update(ctx, driver, &held); err != nil {
		return lostRace(err, services.ErrNotHolder)
	}
	return nil
}
