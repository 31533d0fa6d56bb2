package commands

import (
	"errors"
	"time"

	"truckbot/internal/pkg/errs"
	"truckbot/internal/pkg/guard"
)

var ErrDeliverNotificationsCommandIsNotConstructed = errors.New(
	"DeliverNotificationsCommand must be created via NewDeliverNotificationsCommand constructor",
)

// DeliverNotificationsCommand retries up to batchSize queued notifications
// that are due at now and have fewer than maxAttempts attempts.
type DeliverNotificationsCommand struct { //nolint:recvcheck //using for validation
	now         time.Time
	batchSize   int
	maxAttempts int

	guard guard.ConstructorGuard
}

func NewDeliverNotificationsCommand(now time.Time, batchSize, maxAttempts int) (DeliverNotificationsCommand, error) {
	command := DeliverNotificationsCommand{
		guard: guard.NewConstructorGuard(),
	}

	var nowErr, batchErr, attemptsErr error
	if now.IsZero() {
		nowErr = errs.NewValueIsRequiredError("now")
	}
	if batchSize <= 0 {
		batchErr = errs.NewValueIsOutOfRangeError("batch size", batchSize, 1, "unbounded")
	}
	if maxAttempts <= 0 {
		attemptsErr = errs.NewValueIsOutOfRangeError("max attempts", maxAttempts, 1, "unbounded")
	}
	if err := errors.Join(nowErr, batchErr, attemptsErr); err != nil {
		return DeliverNotificationsCommand{}, err
	}

	command.now = now
	command.batchSize = batchSize
	command.maxAttempts = maxAttempts
	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c DeliverNotificationsCommand) Validate() error {
	return c.guard.Validate(ErrDeliverNotificationsCommandIsNotConstructed)
}

func (c DeliverNotificationsCommand) Now() time.Time   { return c.now }
func (c DeliverNotificationsCommand) BatchSize() int   { return c.batchSize }
func (c DeliverNotificationsCommand) MaxAttempts() int { return c.maxAttempts }
