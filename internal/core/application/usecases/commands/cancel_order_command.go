package commands

import (
	"errors"

	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/pkg/errs"
	"truckbot/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand asks to withdraw an open order on behalf of its customer.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    order.ID
	customerID int64

	guard guard.ConstructorGuard
}

func NewCancelOrderCommand(orderID order.ID, customerID int64) (CancelOrderCommand, error) {
	command := CancelOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	var customerErr error
	if customerID == 0 {
		customerErr = errs.NewValueIsRequiredError("customer id")
	}
	if err := errors.Join(orderID.Validate(), customerErr); err != nil {
		return CancelOrderCommand{}, err
	}

	command.orderID = orderID
	command.customerID = customerID
	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) OrderID() order.ID  { return c.orderID }
func (c CancelOrderCommand) CustomerID() int64 { return c.customerID }
