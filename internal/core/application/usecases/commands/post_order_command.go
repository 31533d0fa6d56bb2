package commands

import (
	"errors"
	"strings"

	"truckbot/internal/pkg/errs"
	"truckbot/internal/pkg/guard"
)

var ErrPostOrderCommandIsNotConstructed = errors.New(
	"PostOrderCommand must be created via NewPostOrderCommand constructor",
)

// PostOrderCommand represents a customer's request to publish a freight order.
//
// Example:
//
//	cmd, err := NewPostOrderCommand(customerID, "10 bags of cement", "Chilanzar 9", "Yunusabad 4", "+998901234567")
//	if err != nil {
//	    return err // every missing field is reported at once
//	}
//	o, err := handler.Handle(ctx, cmd)
type PostOrderCommand struct { //nolint:recvcheck //using for validation
	customerID int64
	cargo      string
	fromAddr   string
	toAddr     string
	phone      string

	guard guard.ConstructorGuard
}

// NewPostOrderCommand validates the order details. All missing fields are
// joined into one error of kind errs.ErrValueIsRequired.
func NewPostOrderCommand(customerID int64, cargo, fromAddr, toAddr, phone string) (PostOrderCommand, error) {
	command := PostOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setCustomerID(customerID),
		setRequired(&command.cargo, cargo, "cargo"),
		setRequired(&command.fromAddr, fromAddr, "from address"),
		setRequired(&command.toAddr, toAddr, "to address"),
		setRequired(&command.phone, phone, "phone"),
	); err != nil {
		return PostOrderCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c PostOrderCommand) Validate() error {
	return c.guard.Validate(ErrPostOrderCommandIsNotConstructed)
}

func (c PostOrderCommand) CustomerID() int64 { return c.customerID }
func (c PostOrderCommand) Cargo() string     { return c.cargo }
func (c PostOrderCommand) FromAddr() string  { return c.fromAddr }
func (c PostOrderCommand) ToAddr() string    { return c.toAddr }
func (c PostOrderCommand) Phone() string     { return c.phone }

func (c *PostOrderCommand) setCustomerID(customerID int64) error {
	if customerID == 0 {
		return errs.NewValueIsRequiredError("customer id")
	}

	c.customerID = customerID
	return nil
}

func setRequired(dst *string, value, param string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return errs.NewValueIsRequiredError(param)
	}

	*dst = value
	return nil
}
