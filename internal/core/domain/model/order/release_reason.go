package order

import "truckbot/internal/pkg/errs"

// ReleaseReason tells why a reservation went back to WaitingDriver.
// It never influences the resulting state; notifications and logs use it.
type ReleaseReason int

const (
	// DriverCancelled means the holding driver gave the order up.
	DriverCancelled ReleaseReason = iota + 1

	// Expired means the reservation deadline passed without a confirmation.
	Expired
)

func (r ReleaseReason) String() string {
	switch r {
	case DriverCancelled:
		return "DRIVER_CANCELLED"
	case Expired:
		return "EXPIRED"
	default:
		return "UNKNOWN"
	}
}

// Validate rejects the zero value and unknown reasons.
func (r ReleaseReason) Validate() error {
	if r != DriverCancelled && r != Expired {
		return errs.NewValueIsInvalidError("release reason")
	}
	return nil
}
