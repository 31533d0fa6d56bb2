package user

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/pkg/errs"
)

var (
	// ErrUserIsNotConstructed is returned when a User was not created through NewUser or RestoreUser.
	ErrUserIsNotConstructed = errors.New("User must be created via NewUser constructor")

	// ErrHasActiveOrder is returned when a driver holding an order tries to take
	// another one or to stop being a driver.
	ErrHasActiveOrder = errors.New("user has an active order")

	// ErrIsNotDriver is returned when a non-driver tries to take an order.
	ErrIsNotDriver = errors.New("user is not a driver")

	// ErrActiveOrderMismatch is returned when releasing an order the user does not hold.
	ErrActiveOrderMismatch = errors.New("active order does not match")
)

// User is a chat account acting as a customer or a driver. The id is the
// account id of the chat platform, so it is known before the first write.
//
// A driver holds at most one order at a time through activeOrder; the order
// side of that relation is Order.driverID while the order is Reserved.
type User struct {
	id       int64
	username string
	role     Role
	phone    string
	carModel CarModel

	activeOrder *order.ID

	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewUser registers an account with the selected role.
//
// Example:
//
//	u, err := user.NewUser(tgID, "@alisher", user.Driver, now)
//	if err != nil {
//	    return err
//	}
//	_ = u.UpdateProfile("+998901234567", user.Porter, now)
func NewUser(id int64, username string, role Role, now time.Time) (*User, error) {
	var idErr error
	if id == 0 {
		idErr = errs.NewValueIsRequiredError("user id")
	}
	if err := errors.Join(idErr, role.Validate()); err != nil {
		return nil, err
	}

	return &User{
		id:            id,
		username:      strings.TrimSpace(username),
		role:          role,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}, nil
}

// Snapshot carries the persisted state of a user into RestoreUser.
type Snapshot struct {
	ID          int64
	Username    string
	Role        Role
	Phone       string
	CarModel    CarModel
	ActiveOrder *order.ID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RestoreUser rebuilds a user loaded from storage.
func RestoreUser(s Snapshot) (*User, error) {
	u, err := NewUser(s.ID, s.Username, s.Role, s.CreatedAt)
	if err != nil {
		return nil, err
	}

	if _, err = ParseCarModel(string(s.CarModel)); err != nil {
		return nil, err
	}
	if s.ActiveOrder != nil && s.Role != Driver {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"active order",
			fmt.Errorf("%s cannot hold order %s", s.Role, s.ActiveOrder),
		)
	}

	u.phone = s.Phone
	u.carModel = s.CarModel
	if s.ActiveOrder != nil {
		id := *s.ActiveOrder
		u.activeOrder = &id
	}
	u.updatedAt = s.UpdatedAt
	return u, nil
}

// Validate ensures the User instance was properly constructed.
func (u *User) Validate() error {
	if u == nil || !u.isConstructed {
		return ErrUserIsNotConstructed
	}
	return nil
}

func (u *User) ID() int64            { return u.id }
func (u *User) Username() string     { return u.username }
func (u *User) Role() Role           { return u.role }
func (u *User) Phone() string        { return u.phone }
func (u *User) CarModel() CarModel   { return u.carModel }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }
func (u *User) IsDriver() bool       { return u.role == Driver }
func (u *User) IsCustomer() bool     { return u.role == Customer }

// ActiveOrder returns the order the driver holds, nil when free.
func (u *User) ActiveOrder() *order.ID {
	if u.activeOrder == nil {
		return nil
	}
	id := *u.activeOrder
	return &id
}

// IsBusy reports whether the user holds an order.
func (u *User) IsBusy() bool {
	return u.activeOrder != nil
}

// ChangeRole switches the marketplace side. A driver holding an order
// cannot switch until the order is confirmed, cancelled or expired.
func (u *User) ChangeRole(role Role, now time.Time) error {
	if err := role.Validate(); err != nil {
		return err
	}
	if role == u.role {
		return nil
	}
	if u.IsBusy() {
		return ErrHasActiveOrder
	}

	u.role = role
	u.updatedAt = now
	return nil
}

// UpdateProfile sets contact phone and car model. Empty phone keeps the current one.
func (u *User) UpdateProfile(phone string, carModel CarModel, now time.Time) error {
	if _, err := ParseCarModel(string(carModel)); err != nil {
		return err
	}
	if carModel != "" && !u.IsDriver() {
		return errs.NewValueIsInvalidErrorWithCause("car model", errors.New("only drivers have a car"))
	}

	if phone = strings.TrimSpace(phone); phone != "" {
		u.phone = phone
	}
	u.carModel = carModel
	u.updatedAt = now
	return nil
}

// Rename updates the cached chat username.
func (u *User) Rename(username string, now time.Time) {
	username = strings.TrimSpace(username)
	if username == u.username {
		return
	}
	u.username = username
	u.updatedAt = now
}

// TakeOrder points the driver at the order they reserved.
func (u *User) TakeOrder(id order.ID, now time.Time) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if !u.IsDriver() {
		return ErrIsNotDriver
	}
	if u.IsBusy() {
		return ErrHasActiveOrder
	}

	u.activeOrder = &id
	u.updatedAt = now
	return nil
}

// ReleaseOrder clears the active order; it must be the one given.
func (u *User) ReleaseOrder(id order.ID, now time.Time) error {
	if u.activeOrder == nil || *u.activeOrder != id {
		return ErrActiveOrderMismatch
	}

	u.activeOrder = nil
	u.updatedAt = now
	return nil
}
