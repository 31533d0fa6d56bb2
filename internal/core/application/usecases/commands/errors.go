package commands

import (
	"errors"
	"fmt"

	"truckbot/internal/pkg/errs"
)

// ErrUnknownUser is returned when an operation names a user that never registered.
var ErrUnknownUser = errors.New("user is not registered")

// lostRace translates a compare-and-set miss into the business error the caller
// reports. The store error stays in the chain.
func lostRace(err, sentinel error) error {
	if errors.Is(err, errs.ErrVersionIsInvalid) {
		return fmt.Errorf("%w: %w", sentinel, err)
	}
	return err
}

// unknownUser keeps order lookups as ObjectNotFound and reports missing users
// separately, so "no such order" and "who are you" do not collapse.
func unknownUser(err error) error {
	if errors.Is(err, errs.ErrObjectNotFound) {
		return fmt.Errorf("%w: %w", ErrUnknownUser, err)
	}
	return err
}
