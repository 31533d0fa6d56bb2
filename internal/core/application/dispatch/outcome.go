package dispatch

import (
	"errors"

	"truckbot/internal/core/application/usecases/commands"
	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/core/domain/services"
	"truckbot/internal/pkg/errs"
)

// Outcome tags the result of a request.
type Outcome int

const (
	// OK means the ledger accepted the request.
	OK Outcome = iota
	// ValidationFailed means the input was malformed or out of range.
	ValidationFailed
	// AlreadyClaimed means the order is no longer open.
	AlreadyClaimed
	// DriverBusy means the driver already holds another order.
	DriverBusy
	// NotHolder means the actor does not hold the reserved order.
	NotHolder
	// NotFound means the order does not exist.
	NotFound
	// Forbidden means the actor is unknown or has the wrong role.
	Forbidden
	// StoreUnavailable means the ledger could not be read or written.
	// The request is safe to retry.
	StoreUnavailable
)

func (o Outcome) String() string {
	switch o {
	case OK:
		return "OK"
	case ValidationFailed:
		return "VALIDATION_FAILED"
	case AlreadyClaimed:
		return "ALREADY_CLAIMED"
	case DriverBusy:
		return "DRIVER_BUSY"
	case NotHolder:
		return "NOT_HOLDER"
	case NotFound:
		return "NOT_FOUND"
	case Forbidden:
		return "FORBIDDEN"
	case StoreUnavailable:
		return "STORE_UNAVAILABLE"
	default:
		return "UNKNOWN"
	}
}

// OutcomeOf classifies a ledger error. Anything the ledger does not
// recognise is reported as StoreUnavailable; the request is safe to retry.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OK
	case errors.Is(err, services.ErrAlreadyClaimed):
		return AlreadyClaimed
	case errors.Is(err, services.ErrDriverBusy):
		return DriverBusy
	case errors.Is(err, services.ErrNotHolder):
		return NotHolder
	case errors.Is(err, commands.ErrUnknownUser),
		errors.Is(err, services.ErrNotDriver),
		errors.Is(err, services.ErrNotCustomer),
		errors.Is(err, services.ErrNotOwner):
		return Forbidden
	case errors.Is(err, errs.ErrObjectNotFound):
		return NotFound
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return ValidationFailed
	default:
		return StoreUnavailable
	}
}

// Result is what every Facade request returns. Order is set on OK; Reply is
// the text meant for the actor; Err keeps the ledger error for logs and
// transports.
type Result struct {
	Outcome Outcome
	OrderID order.ID
	Order   *order.Order
	Reply   string
	Err     error
}

// IsOK reports whether the ledger accepted the request.
func (r Result) IsOK() bool {
	return r.Outcome == OK
}
