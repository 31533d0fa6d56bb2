package user

import (
	"fmt"

	"truckbot/internal/pkg/errs"
)

// Role is the side of the marketplace a user acts on.
type Role int

const (
	UnknownRole Role = iota
	Customer
	Driver
)

func (r Role) String() string {
	switch r {
	case Customer:
		return "CUSTOMER"
	case Driver:
		return "DRIVER"
	default:
		return "UNKNOWN"
	}
}

// Validate rejects UnknownRole and out-of-range values.
func (r Role) Validate() error {
	if r != Customer && r != Driver {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// ParseRole converts a persisted or user-supplied role name.
func ParseRole(s string) (Role, error) {
	switch s {
	case "CUSTOMER":
		return Customer, nil
	case "DRIVER":
		return Driver, nil
	default:
		return UnknownRole, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a valid role", s))
	}
}
