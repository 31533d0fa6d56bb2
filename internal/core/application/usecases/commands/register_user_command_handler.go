package commands

import (
	"context"
	"errors"

	"truckbot/internal/core/domain/model/user"
	"truckbot/internal/pkg/errs"
)

// RegisterUserCommandHandler is the write side of role selection and profile
// editing. Re-registering with another role is how a user switches sides; a
// driver holding an order gets user.ErrHasActiveOrder.
type RegisterUserCommandHandler struct {
	uowFactory UserUoWFactory
	clock      Clock
}

// NewRegisterUserCommandHandler creates a registration handler. A nil clock means UTCNow.
func NewRegisterUserCommandHandler(uowFactory UserUoWFactory, clock Clock) RegisterUserCommandHandler {
	return RegisterUserCommandHandler{
		uowFactory: uowFactory,
		clock:      clockOrDefault(clock),
	}
}

// Handle creates or updates the user and returns the stored state.
func (h RegisterUserCommandHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*user.User, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	userRepo := uow.UserRepository()
	now := h.clock()

	u, err := userRepo.Get(ctx, cmd.UserID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		if u, err = user.NewUser(cmd.UserID(), cmd.Username(), cmd.Role(), now); err != nil {
			return nil, err
		}
		if err = u.UpdateProfile(cmd.Phone(), cmd.CarModel(), now); err != nil {
			return nil, err
		}
		if err = userRepo.Add(ctx, u); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		held := u.ActiveOrder()
		if err = u.ChangeRole(cmd.Role(), now); err != nil {
			return nil, err
		}
		u.Rename(cmd.Username(), now)
		if err = u.UpdateProfile(cmd.Phone(), cmd.CarModel(), now); err != nil {
			return nil, err
		}
		if err = userRepo.Update(ctx, u, held); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return u, nil
}
