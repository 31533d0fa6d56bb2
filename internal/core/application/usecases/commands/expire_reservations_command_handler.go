package commands

import (
	"context"
	"errors"
	"fmt"

	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/core/domain/services"
	"truckbot/internal/pkg/errs"
)

// ExpireResult lists what one sweep released. Skipped counts reservations
// that were confirmed, released or renewed between listing and releasing.
type ExpireResult struct {
	Released []ReleaseResult
	Skipped  int
}

// ExpireReservationsCommandHandler forces overdue reservations back to WaitingDriver.
//
// Each order is released in its own transaction with the listed driver as the
// expected holder, using the same compare-and-set as a driver's release. A
// sweep that loses to the driver skips the order silently, so running sweeps
// concurrently or twice is harmless.
type ExpireReservationsCommandHandler struct {
	uowFactory LedgerUoWFactory
	releaser   ReleaseOrderCommandHandler
}

// NewExpireReservationsCommandHandler creates the sweep handler.
func NewExpireReservationsCommandHandler(uowFactory LedgerUoWFactory) ExpireReservationsCommandHandler {
	return ExpireReservationsCommandHandler{
		uowFactory: uowFactory,
		releaser:   NewReleaseOrderCommandHandler(uowFactory, nil),
	}
}

// Handle releases every listed reservation it still can. Failures other than
// lost races do not stop the sweep; they are joined and returned with the
// partial result.
func (h ExpireReservationsCommandHandler) Handle(ctx context.Context, cmd ExpireReservationsCommand) (ExpireResult, error) {
	if err := cmd.Validate(); err != nil {
		return ExpireResult{}, err
	}

	expired, err := h.uowFactory.Create().OrderRepository().ListExpiredReservations(ctx, cmd.Now(), cmd.BatchSize())
	if err != nil {
		return ExpireResult{}, err
	}

	var result ExpireResult
	var failures []error
	for _, o := range expired {
		driverID := o.Driver()
		if driverID == nil {
			continue
		}

		released, err := h.releaser.release(ctx, o.ID(), *driverID, order.Expired, cmd.Now())
		switch {
		case err == nil:
			result.Released = append(result.Released, released)
		case isLostRace(err):
			result.Skipped++
		default:
			failures = append(failures, fmt.Errorf("expire order %s: %w", o.ID(), err))
		}
	}

	return result, errors.Join(failures...)
}

func isLostRace(err error) bool {
	return errors.Is(err, services.ErrNotHolder) ||
		errors.Is(err, errs.ErrVersionIsInvalid) ||
		errors.Is(err, errs.ErrObjectNotFound)
}
