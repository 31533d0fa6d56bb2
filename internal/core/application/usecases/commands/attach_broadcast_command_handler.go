package commands

import (
	"context"

	"truckbot/internal/core/domain/model/order"
)

// AttachBroadcastCommandHandler stores the broadcast reference of an order.
// Only the reference is written, so it never conflicts with a claim or
// release committing at the same time.
type AttachBroadcastCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      Clock
}

// NewAttachBroadcastCommandHandler creates an attach handler. A nil clock means UTCNow.
func NewAttachBroadcastCommandHandler(uowFactory OrderUoWFactory, clock Clock) AttachBroadcastCommandHandler {
	return AttachBroadcastCommandHandler{
		uowFactory: uowFactory,
		clock:      clockOrDefault(clock),
	}
}

// Handle attaches the reference and returns the order as stored. The status
// may already differ from the one that was posted.
func (h AttachBroadcastCommandHandler) Handle(ctx context.Context, cmd AttachBroadcastCommand) (*order.Order, error) {
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

	if err = o.AttachBroadcast(cmd.Ref(), h.clock()); err != nil {
		return nil, err
	}

	if err = orderRepo.UpdateBroadcastRef(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
