package commands

import (
	"errors"
	"time"

	"truckbot/internal/pkg/errs"
	"truckbot/internal/pkg/guard"
)

var ErrExpireReservationsCommandIsNotConstructed = errors.New(
	"ExpireReservationsCommand must be created via NewExpireReservationsCommand constructor",
)

// ExpireReservationsCommand releases up to batchSize reservations whose
// deadline is before now.
//
// Example:
//
//	cmd, _ := NewExpireReservationsCommand(time.Now().UTC(), 100)
//	res, err := handler.Handle(ctx, cmd)
//	for _, released := range res.Released {
//	    // notify driver and customer
//	}
type ExpireReservationsCommand struct { //nolint:recvcheck //using for validation
	now       time.Time
	batchSize int

	guard guard.ConstructorGuard
}

func NewExpireReservationsCommand(now time.Time, batchSize int) (ExpireReservationsCommand, error) {
	command := ExpireReservationsCommand{
		guard: guard.NewConstructorGuard(),
	}

	var nowErr, batchErr error
	if now.IsZero() {
		nowErr = errs.NewValueIsRequiredError("now")
	}
	if batchSize <= 0 {
		batchErr = errs.NewValueIsOutOfRangeError("batch size", batchSize, 1, "unbounded")
	}
	if err := errors.Join(nowErr, batchErr); err != nil {
		return ExpireReservationsCommand{}, err
	}

	command.now = now
	command.batchSize = batchSize
	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c ExpireReservationsCommand) Validate() error {
	return c.guard.Validate(ErrExpireReservationsCommandIsNotConstructed)
}

func (c ExpireReservationsCommand) Now() time.Time { return c.now }
func (c ExpireReservationsCommand) BatchSize() int { return c.batchSize }
