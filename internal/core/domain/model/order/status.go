package order

import (
	"fmt"

	"truckbot/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Created ──> WaitingDriver ──> Reserved ──> Completed
//	               │   ^             │
//	               │   └─────────────┘
//	               │  (driver cancel or expiry)
//	               v
//	           Cancelled
//
// The canonical names returned by String are also the persisted values;
// ParseStatus is the only way back.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Created is the transient status of a freshly built order. It is
	// published to WaitingDriver in the same transaction that stores it.
	Created

	// WaitingDriver marks an order that is open for claims.
	WaitingDriver

	// Reserved marks an order held by exactly one driver until its deadline.
	Reserved

	// Completed is final: the holding driver confirmed the order.
	Completed

	// Cancelled is final: the customer withdrew an open order.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:       "UNKNOWN",
		Created:       "CREATED",
		WaitingDriver: "WAITING_DRIVER",
		Reserved:      "RESERVED",
		Completed:     "COMPLETED",
		Cancelled:     "CANCELLED",
	}
}

// ParseStatus converts a persisted status name back to a Status.
//
// Returns:
//   - the matching Status for any valid name
//   - (Unknown, error) for anything else, including "UNKNOWN"
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks that the value is one of the defined statuses other than Unknown.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the canonical name of the status.
// It is safe to call on any Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsFinal reports whether no transition leaves the status.
func (s Status) IsFinal() bool {
	return s == Completed || s == Cancelled
}

// ValidateCanHaveDriver checks consistency between status and driver assignment:
// Reserved and Completed orders must have a driver, all other statuses must not.
func (s Status) ValidateCanHaveDriver(driver bool) error {
	needsDriver := s == Reserved || s == Completed
	if driver && !needsDriver {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a driver", s),
		)
	}
	if !driver && needsDriver {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no driver", s),
		)
	}
	return nil
}

// ValidateCanHaveDeadline checks that only Reserved orders carry a reservation deadline.
func (s Status) ValidateCanHaveDeadline(deadline bool) error {
	if deadline != (s == Reserved) {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is inconsistent with reservation deadline presence %t", s, deadline),
		)
	}
	return nil
}

// Publish transitions Created -> WaitingDriver.
func (s Status) Publish() (Status, error) {
	return s.transition(Created, WaitingDriver, "publish")
}

// Reserve transitions WaitingDriver -> Reserved.
func (s Status) Reserve() (Status, error) {
	return s.transition(WaitingDriver, Reserved, "reserve")
}

// Complete transitions Reserved -> Completed.
func (s Status) Complete() (Status, error) {
	return s.transition(Reserved, Completed, "complete")
}

// Reopen transitions Reserved -> WaitingDriver after a driver cancel or an expiry.
func (s Status) Reopen() (Status, error) {
	return s.transition(Reserved, WaitingDriver, "reopen")
}

// Cancel transitions WaitingDriver -> Cancelled.
func (s Status) Cancel() (Status, error) {
	return s.transition(WaitingDriver, Cancelled, "cancel")
}

func (s Status) transition(from, to Status, action string) (Status, error) {
	if s != from {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to %s", s, action),
		)
	}
	return to, nil
}
