package commands

import (
	"errors"
	"strings"

	"truckbot/internal/core/domain/model/user"
	"truckbot/internal/pkg/errs"
	"truckbot/internal/pkg/guard"
)

var ErrRegisterUserCommandIsNotConstructed = errors.New(
	"RegisterUserCommand must be created via NewRegisterUserCommand constructor",
)

// RegisterUserCommand creates a user or updates role and profile of an existing one.
type RegisterUserCommand struct { //nolint:recvcheck //using for validation
	userID   int64
	username string
	role     user.Role
	phone    string
	carModel user.CarModel

	guard guard.ConstructorGuard
}

// NewRegisterUserCommand validates the registration. Car model is only
// accepted for drivers; an empty phone keeps the stored one.
func NewRegisterUserCommand(
	userID int64,
	username string,
	role user.Role,
	phone string,
	carModel user.CarModel,
) (RegisterUserCommand, error) {
	command := RegisterUserCommand{
		guard: guard.NewConstructorGuard(),
	}

	var idErr, carErr error
	if userID == 0 {
		idErr = errs.NewValueIsRequiredError("user id")
	}
	if _, err := user.ParseCarModel(string(carModel)); err != nil {
		carErr = err
	} else if carModel != "" && role != user.Driver {
		carErr = errs.NewValueIsInvalidErrorWithCause("car model", errors.New("only drivers have a car"))
	}
	if err := errors.Join(idErr, role.Validate(), carErr); err != nil {
		return RegisterUserCommand{}, err
	}

	command.userID = userID
	command.username = strings.TrimSpace(username)
	command.role = role
	command.phone = strings.TrimSpace(phone)
	command.carModel = carModel
	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterUserCommand) Validate() error {
	return c.guard.Validate(ErrRegisterUserCommandIsNotConstructed)
}

func (c RegisterUserCommand) UserID() int64           { return c.userID }
func (c RegisterUserCommand) Username() string        { return c.username }
func (c RegisterUserCommand) Role() user.Role         { return c.role }
func (c RegisterUserCommand) Phone() string           { return c.phone }
func (c RegisterUserCommand) CarModel() user.CarModel { return c.carModel }
