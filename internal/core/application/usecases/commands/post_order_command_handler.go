package commands

import (
	"context"

	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/core/domain/services"
)

// PostOrderCommandHandler creates an order and opens it for claims in one
// transaction, so no reader ever sees it in Created.
//
// Example:
//
//	handler := NewPostOrderCommandHandler(uowFactory, nil)
//	o, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return err
//	}
//	// broadcast o, then attach the broadcast reference
type PostOrderCommandHandler struct {
	uowFactory LedgerUoWFactory
	clock      Clock
}

// NewPostOrderCommandHandler creates a handler for order posting. A nil clock means UTCNow.
func NewPostOrderCommandHandler(uowFactory LedgerUoWFactory, clock Clock) PostOrderCommandHandler {
	return PostOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clockOrDefault(clock),
	}
}

// Handle stores the order and returns it with its assigned number.
//
// Errors:
//   - ErrUnknownUser when the customer never registered
//   - services.ErrNotCustomer when the poster is a driver
func (h PostOrderCommandHandler) Handle(ctx context.Context, cmd PostOrderCommand) (*order.Order, error) {
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

	customer, err := uow.UserRepository().Get(ctx, cmd.CustomerID())
	if err != nil {
		return nil, unknownUser(err)
	}
	if !customer.IsCustomer() {
		return nil, services.ErrNotCustomer
	}

	now := h.clock()
	o, err := order.NewOrder(cmd.CustomerID(), cmd.Cargo(), cmd.FromAddr(), cmd.ToAddr(), cmd.Phone(), now)
	if err != nil {
		return nil, err
	}
	if err = o.Publish(now); err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
