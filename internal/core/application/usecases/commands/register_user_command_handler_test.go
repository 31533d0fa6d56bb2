package commands_test

import (
	"testing"

	"truckbot/internal/core/application/usecases/commands"
	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/core/domain/model/user"
	"truckbot/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewRegisterUserCommand(t *testing.T) {
	cmd, err := commands.NewRegisterUserCommand(2002, " @driver ", user.Driver, "+998901112233", user.Porter)
	require.NoError(t, err)
	assert.Equal(t, "@driver", cmd.Username())
	assert.Equal(t, user.Porter, cmd.CarModel())

	_, err = commands.NewRegisterUserCommand(1001, "", user.Customer, "", user.Labo)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = commands.NewRegisterUserCommand(0, "", user.UnknownRole, "", "")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func userUoW(users *MockUserRepository) (*MockUoW, *MockUserUoWFactory) {
	uow := new(MockUoW)
	uow.On("Begin", mock.Anything).Return(nil).Once()
	uow.On("UserRepository").Return(users).Once()
	uow.On("Rollback", mock.Anything).Return(nil).Once()

	factory := new(MockUserUoWFactory)
	factory.On("Create").Return(uow).Once()
	return uow, factory
}

func TestRegisterUserCommandHandler_Handle_NewUser(t *testing.T) {
	ctx := t.Context()
	users := new(MockUserRepository)
	uow, factory := userUoW(users)
	users.On("Get", ctx, int64(2002)).Return(nil, errs.NewObjectNotFoundError("user", int64(2002))).Once()
	users.On("Add", ctx, mock.MatchedBy(func(u *user.User) bool {
		return u.IsDriver() && u.CarModel() == user.Gazel && u.Phone() == "+998901112233"
	})).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()

	cmd, err := commands.NewRegisterUserCommand(2002, "@driver", user.Driver, "+998901112233", user.Gazel)
	require.NoError(t, err)
	u, err := commands.NewRegisterUserCommandHandler(factory, fixedClock).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, now, u.CreatedAt())
	users.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestRegisterUserCommandHandler_Handle_SwitchRole(t *testing.T) {
	ctx := t.Context()
	users := new(MockUserRepository)
	uow, factory := userUoW(users)
	users.On("Get", ctx, int64(1001)).Return(newUser(t, 1001, user.Customer), nil).Once()
	users.On("Update", ctx, mock.MatchedBy(func(u *user.User) bool {
		return u.IsDriver() && u.Username() == "@alisher"
	}), (*order.ID)(nil)).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()

	cmd, err := commands.NewRegisterUserCommand(1001, "@alisher", user.Driver, "", user.Labo)
	require.NoError(t, err)
	_, err = commands.NewRegisterUserCommandHandler(factory, fixedClock).Handle(ctx, cmd)

	require.NoError(t, err)
	users.AssertExpectations(t)
}

func TestRegisterUserCommandHandler_Handle_BusyDriverKeepsRole(t *testing.T) {
	ctx := t.Context()
	driver := newUser(t, 2002, user.Driver)
	require.NoError(t, driver.TakeOrder(7, now))

	users := new(MockUserRepository)
	uow, factory := userUoW(users)
	users.On("Get", ctx, int64(2002)).Return(driver, nil).Once()

	cmd, err := commands.NewRegisterUserCommand(2002, "", user.Customer, "", "")
	require.NoError(t, err)
	_, err = commands.NewRegisterUserCommandHandler(factory, fixedClock).Handle(ctx, cmd)

	require.ErrorIs(t, err, user.ErrHasActiveOrder)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
