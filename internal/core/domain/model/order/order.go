package order

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"truckbot/internal/core/domain/model/kernel"
	"truckbot/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrIDIsAlreadyAssigned is returned when the store tries to number an order twice.
	ErrIDIsAlreadyAssigned = errors.New("order id is already assigned")
)

// ID is the order number handed out by the store. Numbers grow monotonically
// and are never reused; zero means "not stored yet".
type ID int64

// ParseID parses a decimal order number as found in action tokens and URLs.
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause("order id", err)
	}
	id := ID(n)
	if err = id.Validate(); err != nil {
		return 0, err
	}
	return id, nil
}

// Validate rejects non-positive numbers.
func (id ID) Validate() error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("order id", fmt.Errorf("%d is not a positive order id", id))
	}
	return nil
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Order is the aggregate root of the ledger. It moves through the Status state
// machine and keeps the driver assignment and reservation deadline consistent
// with the status.
//
// Order follows these invariants:
//   - cargo, addresses and phone are non-empty and never change
//   - a driver is set exactly when status is Reserved or Completed
//   - a reservation deadline is set exactly when status is Reserved
//   - every mutation refreshes updatedAt
type Order struct {
	id         ID
	customerID int64

	cargo    string
	fromAddr string
	toAddr   string
	phone    string

	status        Status
	driverID      *int64
	reservedUntil *time.Time
	broadcastRef  kernel.BroadcastRef

	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewOrder builds an unnumbered order in Created status.
// Every text field is trimmed and required; all missing fields are reported together.
//
// Example:
//
//	o, err := order.NewOrder(customerID, "2t of bricks", "Chilonzor 5", "Sergeli 12", "+998901234567", now)
//	if err != nil {
//	    return err
//	}
//	if err = o.Publish(now); err != nil {
//	    return err
//	}
func NewOrder(customerID int64, cargo, fromAddr, toAddr, phone string, now time.Time) (*Order, error) {
	o := &Order{
		status:        Created,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	var customerErr error
	if customerID == 0 {
		customerErr = errs.NewValueIsRequiredError("customer id")
	} else {
		o.customerID = customerID
	}

	if err := errors.Join(
		customerErr,
		setText(&o.cargo, cargo, "cargo"),
		setText(&o.fromAddr, fromAddr, "from address"),
		setText(&o.toAddr, toAddr, "to address"),
		setText(&o.phone, phone, "phone"),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Snapshot carries the persisted state of an order into RestoreOrder.
type Snapshot struct {
	ID            ID
	CustomerID    int64
	Cargo         string
	FromAddr      string
	ToAddr        string
	Phone         string
	Status        Status
	DriverID      *int64
	ReservedUntil *time.Time
	BroadcastRef  kernel.BroadcastRef
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RestoreOrder rebuilds an order loaded from storage and rejects rows that
// break the aggregate's invariants.
func RestoreOrder(s Snapshot) (*Order, error) {
	if err := errors.Join(
		s.ID.Validate(),
		s.Status.Validate(),
		s.Status.ValidateCanHaveDriver(s.DriverID != nil),
		s.Status.ValidateCanHaveDeadline(s.ReservedUntil != nil),
	); err != nil {
		return nil, err
	}

	o, err := NewOrder(s.CustomerID, s.Cargo, s.FromAddr, s.ToAddr, s.Phone, s.CreatedAt)
	if err != nil {
		return nil, err
	}

	o.id = s.ID
	o.status = s.Status
	o.driverID = copyInt64(s.DriverID)
	o.reservedUntil = copyTime(s.ReservedUntil)
	o.broadcastRef = s.BroadcastRef
	o.updatedAt = s.UpdatedAt
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by number.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id != 0 && o.id == other.id
}

func (o *Order) ID() ID                            { return o.id }
func (o *Order) CustomerID() int64                 { return o.customerID }
func (o *Order) Cargo() string                     { return o.cargo }
func (o *Order) FromAddr() string                  { return o.fromAddr }
func (o *Order) ToAddr() string                    { return o.toAddr }
func (o *Order) Phone() string                     { return o.phone }
func (o *Order) Status() Status                    { return o.status }
func (o *Order) BroadcastRef() kernel.BroadcastRef { return o.broadcastRef }
func (o *Order) CreatedAt() time.Time              { return o.createdAt }
func (o *Order) UpdatedAt() time.Time              { return o.updatedAt }

// Driver returns the holding or completing driver, nil while the order is open.
func (o *Order) Driver() *int64 {
	return copyInt64(o.driverID)
}

// ReservedUntil returns the reservation deadline, nil unless Reserved.
func (o *Order) ReservedUntil() *time.Time {
	return copyTime(o.reservedUntil)
}

// IsHeldBy reports whether driverID currently holds the reservation.
func (o *Order) IsHeldBy(driverID int64) bool {
	return o.status == Reserved && o.driverID != nil && *o.driverID == driverID
}

// IsReservationExpired reports whether the order is Reserved with a deadline before now.
func (o *Order) IsReservationExpired(now time.Time) bool {
	return o.status == Reserved && o.reservedUntil != nil && o.reservedUntil.Before(now)
}

// AssignID numbers a freshly stored order. It may be called once.
func (o *Order) AssignID(id ID) error {
	if o.id != 0 {
		return ErrIDIsAlreadyAssigned
	}
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

// Publish opens a Created order for claims.
func (o *Order) Publish(now time.Time) error {
	status, err := o.status.Publish()
	if err != nil {
		return err
	}

	o.status = status
	o.touch(now)
	return nil
}

// Reserve hands the order to driverID until now+ttl.
//
// Returns:
//   - nil on success; status becomes Reserved
//   - ValueIsOutOfRangeError if ttl is not positive
//   - ValueIsInvalidError if the order is not WaitingDriver
func (o *Order) Reserve(driverID int64, now time.Time, ttl time.Duration) error {
	if driverID == 0 {
		return errs.NewValueIsRequiredError("driver id")
	}
	if ttl <= 0 {
		return errs.NewValueIsOutOfRangeError("reservation ttl", ttl, time.Nanosecond, "unbounded")
	}

	status, err := o.status.Reserve()
	if err != nil {
		return err
	}

	deadline := now.Add(ttl)
	o.status = status
	o.driverID = &driverID
	o.reservedUntil = &deadline
	o.touch(now)
	return nil
}

// Complete finishes a Reserved order. The driver stays recorded, the deadline is cleared.
func (o *Order) Complete(now time.Time) error {
	status, err := o.status.Complete()
	if err != nil {
		return err
	}

	o.status = status
	o.reservedUntil = nil
	o.touch(now)
	return nil
}

// Release reopens a Reserved order and forgets its driver and deadline.
func (o *Order) Release(now time.Time) error {
	status, err := o.status.Reopen()
	if err != nil {
		return err
	}

	o.status = status
	o.driverID = nil
	o.reservedUntil = nil
	o.touch(now)
	return nil
}

// Cancel withdraws an open order.
func (o *Order) Cancel(now time.Time) error {
	status, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = status
	o.touch(now)
	return nil
}

// AttachBroadcast records where the order was announced. Status is unchanged.
func (o *Order) AttachBroadcast(ref kernel.BroadcastRef, now time.Time) error {
	if ref.IsZero() {
		return errs.NewValueIsRequiredError("broadcast ref")
	}

	o.broadcastRef = ref
	o.touch(now)
	return nil
}

func (o *Order) touch(now time.Time) {
	o.updatedAt = now
}

func setText(dst *string, value, param string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return errs.NewValueIsRequiredError(param)
	}
	*dst = value
	return nil
}

func copyInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
