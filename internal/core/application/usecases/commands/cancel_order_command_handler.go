package commands

import (
	"context"

	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/core/domain/services"
)

// CancelOrderCommandHandler withdraws open orders. Reserved orders cannot be
// withdrawn; the driver has to release them or let them expire first.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	claimer    services.OrderClaimer
	clock      Clock
}

// NewCancelOrderCommandHandler creates a cancel handler. A nil clock means UTCNow.
func NewCancelOrderCommandHandler(uowFactory OrderUoWFactory, clock Clock) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		claimer:    services.NewOrderClaimer(),
		clock:      clockOrDefault(clock),
	}
}

// Handle moves the order to Cancelled.
//
// Errors:
//   - errs.ErrObjectNotFound for an unknown order
//   - services.ErrNotOwner when the order belongs to someone else
//   - services.ErrAlreadyClaimed when the order is not open, including a
//     claim that committed first
func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = h.claimer.Withdraw(o, cmd.CustomerID(), h.clock()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o, order.WaitingDriver); err != nil {
		return nil, lostRace(err, services.ErrAlreadyClaimed)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
