package commands

import (
	"errors"

	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/pkg/errs"
	"truckbot/internal/pkg/guard"
)

var ErrConfirmOrderCommandIsNotConstructed = errors.New(
	"ConfirmOrderCommand must be created via NewConfirmOrderCommand constructor",
)

// ConfirmOrderCommand asks to complete an order on behalf of its holder.
type ConfirmOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  order.ID
	driverID int64

	guard guard.ConstructorGuard
}

func NewConfirmOrderCommand(orderID order.ID, driverID int64) (ConfirmOrderCommand, error) {
	command := ConfirmOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	var driverErr error
	if driverID == 0 {
		driverErr = errs.NewValueIsRequiredError("driver id")
	}
	if err := errors.Join(orderID.Validate(), driverErr); err != nil {
		return ConfirmOrderCommand{}, err
	}

	command.orderID = orderID
	command.driverID = driverID
	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmOrderCommand) Validate() error {
	return c.guard.Validate(ErrConfirmOrderCommandIsNotConstructed)
}

func (c ConfirmOrderCommand) OrderID() order.ID { return c.orderID }
func (c ConfirmOrderCommand) DriverID() int64   { return c.driverID }
