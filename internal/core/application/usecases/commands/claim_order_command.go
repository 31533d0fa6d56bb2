package commands

import (
	"errors"
	"time"

	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/pkg/errs"
	"truckbot/internal/pkg/guard"
)

var ErrClaimOrderCommandIsNotConstructed = errors.New(
	"ClaimOrderCommand must be created via NewClaimOrderCommand constructor",
)

// ClaimOrderCommand asks to reserve an open order for a driver for ttl.
type ClaimOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  order.ID
	driverID int64
	ttl      time.Duration

	guard guard.ConstructorGuard
}

// NewClaimOrderCommand validates the claim. A non-positive ttl is out of range.
func NewClaimOrderCommand(orderID order.ID, driverID int64, ttl time.Duration) (ClaimOrderCommand, error) {
	command := ClaimOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setDriverID(driverID),
		command.setTTL(ttl),
	); err != nil {
		return ClaimOrderCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c ClaimOrderCommand) Validate() error {
	return c.guard.Validate(ErrClaimOrderCommandIsNotConstructed)
}

func (c ClaimOrderCommand) OrderID() order.ID  { return c.orderID }
func (c ClaimOrderCommand) DriverID() int64    { return c.driverID }
func (c ClaimOrderCommand) TTL() time.Duration { return c.ttl }

func (c *ClaimOrderCommand) setOrderID(orderID order.ID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ClaimOrderCommand) setDriverID(driverID int64) error {
	if driverID == 0 {
		return errs.NewValueIsRequiredError("driver id")
	}

	c.driverID = driverID
	return nil
}

func (c *ClaimOrderCommand) setTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return errs.NewValueIsOutOfRangeError("reservation ttl", ttl, time.Nanosecond, "unbounded")
	}

	c.ttl = ttl
	return nil
}
