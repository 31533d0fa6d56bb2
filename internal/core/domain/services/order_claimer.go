package services

import (
	"errors"
	"time"

	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/core/domain/model/user"
)

var (
	// ErrAlreadyClaimed is returned when the order is no longer open for claims.
	ErrAlreadyClaimed = errors.New("order is already claimed")

	// ErrDriverBusy is returned when the driver already holds an order.
	ErrDriverBusy = errors.New("driver already has an active order")

	// ErrNotHolder is returned when a confirm or release comes from a driver
	// that does not hold the reservation, or comes too late.
	ErrNotHolder = errors.New("driver does not hold the order")

	// ErrNotDriver is returned when a user without the driver role tries to claim.
	ErrNotDriver = errors.New("user is not a driver")

	// ErrNotCustomer is returned when a user without the customer role posts an order.
	ErrNotCustomer = errors.New("user is not a customer")

	// ErrNotOwner is returned when a customer touches another customer's order.
	ErrNotOwner = errors.New("order belongs to another customer")
)

// OrderClaimer is a domain service that moves an order and its driver
// together, so the order's driver and the driver's active order always
// point at each other while the order is Reserved.
//
// Business rules:
//   - only drivers claim; a driver holds at most one order
//   - only open (WaitingDriver) orders can be claimed
//   - confirm and release require the current holder
//
// The service mutates the aggregates in memory only. Callers persist both
// within one unit of work, using compare-and-set writes.
//
// Example usage:
//
//	claimer := services.NewOrderClaimer()
//	if err := claimer.Claim(o, driver, now, 15*time.Minute); err != nil {
//	    if errors.Is(err, services.ErrAlreadyClaimed) {
//	        // someone was faster
//	    }
//	    return err
//	}
type OrderClaimer struct{}

// NewOrderClaimer creates a new OrderClaimer instance.
func NewOrderClaimer() OrderClaimer {
	return OrderClaimer{}
}

// Claim reserves o for driver until now+ttl.
//
// Checks, in order:
//   - ErrNotDriver if driver does not have the driver role
//   - ErrDriverBusy if driver already holds any order
//   - ErrAlreadyClaimed if o is not WaitingDriver
func (c OrderClaimer) Claim(o *order.Order, driver *user.User, now time.Time, ttl time.Duration) error {
	if err := errors.Join(o.Validate(), driver.Validate()); err != nil {
		return err
	}

	if !driver.IsDriver() {
		return ErrNotDriver
	}
	if driver.IsBusy() {
		return ErrDriverBusy
	}
	if o.Status() != order.WaitingDriver {
		return ErrAlreadyClaimed
	}

	if err := o.Reserve(driver.ID(), now, ttl); err != nil {
		return err
	}
	return driver.TakeOrder(o.ID(), now)
}

// Confirm completes a reservation held by driver.
func (c OrderClaimer) Confirm(o *order.Order, driver *user.User, now time.Time) error {
	if err := c.validateHolder(o, driver); err != nil {
		return err
	}

	if err := o.Complete(now); err != nil {
		return err
	}
	return driver.ReleaseOrder(o.ID(), now)
}

// Release reopens a reservation held by driver. The reason does not affect
// the resulting state.
func (c OrderClaimer) Release(o *order.Order, driver *user.User, now time.Time) error {
	if err := c.validateHolder(o, driver); err != nil {
		return err
	}

	if err := o.Release(now); err != nil {
		return err
	}
	return driver.ReleaseOrder(o.ID(), now)
}

// Withdraw cancels an open order on behalf of its customer.
//
// Returns ErrNotOwner for someone else's order and ErrAlreadyClaimed when the
// order is no longer open.
func (c OrderClaimer) Withdraw(o *order.Order, customerID int64, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.CustomerID() != customerID {
		return ErrNotOwner
	}
	if o.Status() != order.WaitingDriver {
		return ErrAlreadyClaimed
	}
	return o.Cancel(now)
}

func (c OrderClaimer) validateHolder(o *order.Order, driver *user.User) error {
	if err := errors.Join(o.Validate(), driver.Validate()); err != nil {
		return err
	}
	if !o.IsHeldBy(driver.ID()) {
		return ErrNotHolder
	}
	active := driver.ActiveOrder()
	if active == nil || *active != o.ID() {
		return ErrNotHolder
	}
	return nil
}
