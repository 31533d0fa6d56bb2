package queries

import (
	"errors"
	"time"

	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/core/domain/model/user"
	"truckbot/internal/pkg/errs"
	"truckbot/internal/pkg/guard"
)

var ErrGetDriverStatusQueryIsNotConstructed = errors.New(
	"GetDriverStatusQuery must be created via NewGetDriverStatusQuery constructor",
)

// GetDriverStatusQuery reads a driver's profile and the order they hold, if any.
type GetDriverStatusQuery struct {
	driverID int64

	guard guard.ConstructorGuard
}

func NewGetDriverStatusQuery(driverID int64) (GetDriverStatusQuery, error) {
	if driverID == 0 {
		return GetDriverStatusQuery{}, errs.NewValueIsRequiredError("driver id")
	}

	return GetDriverStatusQuery{
		driverID: driverID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q GetDriverStatusQuery) DriverID() int64 {
	return q.driverID
}

func (q GetDriverStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetDriverStatusQueryIsNotConstructed)
}

// DriverStatusView describes a user and the order they hold. ActiveOrder and
// ReservedUntil are nil when the user is free.
type DriverStatusView struct {
	UserID        int64
	Username      string
	Role          user.Role
	CarModel      user.CarModel
	ActiveOrder   *order.ID
	ReservedUntil *time.Time
}

// IsBusy reports whether the user holds an order.
func (v DriverStatusView) IsBusy() bool {
	return v.ActiveOrder != nil
}
