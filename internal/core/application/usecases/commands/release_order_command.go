package commands

import (
	"errors"

	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/pkg/errs"
	"truckbot/internal/pkg/guard"
)

var ErrReleaseOrderCommandIsNotConstructed = errors.New(
	"ReleaseOrderCommand must be created via NewReleaseOrderCommand constructor",
)

// ReleaseOrderCommand asks to hand a reserved order back to the pool.
// The reason travels to logs and notifications; the resulting state is the same.
type ReleaseOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  order.ID
	driverID int64
	reason   order.ReleaseReason

	guard guard.ConstructorGuard
}

func NewReleaseOrderCommand(orderID order.ID, driverID int64, reason order.ReleaseReason) (ReleaseOrderCommand, error) {
	command := ReleaseOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	var driverErr error
	if driverID == 0 {
		driverErr = errs.NewValueIsRequiredError("driver id")
	}
	if err := errors.Join(orderID.Validate(), driverErr, reason.Validate()); err != nil {
		return ReleaseOrderCommand{}, err
	}

	command.orderID = orderID
	command.driverID = driverID
	command.reason = reason
	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c ReleaseOrderCommand) Validate() error {
	return c.guard.Validate(ErrReleaseOrderCommandIsNotConstructed)
}

func (c ReleaseOrderCommand) OrderID() order.ID           { return c.orderID }
func (c ReleaseOrderCommand) DriverID() int64             { return c.driverID }
func (c ReleaseOrderCommand) Reason() order.ReleaseReason { return c.reason }
