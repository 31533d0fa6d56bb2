package commands

import (
	"errors"

	"truckbot/internal/core/domain/model/kernel"
	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/pkg/errs"
	"truckbot/internal/pkg/guard"
)

var ErrAttachBroadcastCommandIsNotConstructed = errors.New(
	"AttachBroadcastCommand must be created via NewAttachBroadcastCommand constructor",
)

// AttachBroadcastCommand records where an order was announced.
type AttachBroadcastCommand struct { //nolint:recvcheck //using for validation
	orderID order.ID
	ref     kernel.BroadcastRef

	guard guard.ConstructorGuard
}

func NewAttachBroadcastCommand(orderID order.ID, ref kernel.BroadcastRef) (AttachBroadcastCommand, error) {
	command := AttachBroadcastCommand{
		guard: guard.NewConstructorGuard(),
	}

	var refErr error
	if ref.IsZero() {
		refErr = errs.NewValueIsRequiredError("broadcast ref")
	}
	if err := errors.Join(orderID.Validate(), refErr); err != nil {
		return AttachBroadcastCommand{}, err
	}

	command.orderID = orderID
	command.ref = ref
	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c AttachBroadcastCommand) Validate() error {
	return c.guard.Validate(ErrAttachBroadcastCommandIsNotConstructed)
}

func (c AttachBroadcastCommand) OrderID() order.ID        { return c.orderID }
func (c AttachBroadcastCommand) Ref() kernel.BroadcastRef { return c.ref }
