package postgres_test

import (
	"testing"
	"time"

	"truckbot/internal/adapters/out/postgres"
	"truckbot/internal/adapters/out/postgres/testdb"
	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/core/domain/model/user"
	"truckbot/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestGormUnitOfWork_Lifecycle(t *testing.T) {
	ctx := t.Context()
	uow := postgres.NewGormUnitOfWorkFactory(testdb.New(t)).Create()

	require.ErrorIs(t, uow.Commit(ctx), gorm.ErrInvalidTransaction)
	require.ErrorIs(t, uow.Rollback(ctx), gorm.ErrInvalidTransaction)

	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.Begin(ctx), "Begin is idempotent")
	require.NoError(t, uow.Commit(ctx))
	require.ErrorIs(t, uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func TestGormUnitOfWork_CommitPersistsAllRepositories(t *testing.T) {
	ctx := t.Context()
	factory := postgres.NewGormUnitOfWorkFactory(testdb.New(t))

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	driver, err := user.NewUser(2002, "@driver", user.Driver, now)
	require.NoError(t, err)
	require.NoError(t, uow.UserRepository().Add(ctx, driver))

	o, err := order.NewOrder(1001, "bricks", "A", "B", "+1", now)
	require.NoError(t, err)
	require.NoError(t, o.Publish(now))
	require.NoError(t, uow.OrderRepository().Add(ctx, o))

	require.NoError(t, o.Reserve(driver.ID(), now, time.Minute))
	require.NoError(t, driver.TakeOrder(o.ID(), now))
	require.NoError(t, uow.OrderRepository().Update(ctx, o, order.WaitingDriver))
	require.NoError(t, uow.UserRepository().Update(ctx, driver, nil))
	require.NoError(t, uow.Commit(ctx))

	reader := factory.Create()
	got, err := reader.OrderRepository().Get(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, order.Reserved, got.Status())

	gotDriver, err := reader.UserRepository().Get(ctx, 2002)
	require.NoError(t, err)
	require.NotNil(t, gotDriver.ActiveOrder())
	assert.Equal(t, o.ID(), *gotDriver.ActiveOrder())
}

func TestGormUnitOfWork_RollbackDiscardsWrites(t *testing.T) {
	ctx := t.Context()
	factory := postgres.NewGormUnitOfWorkFactory(testdb.New(t))

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	u, err := user.NewUser(1001, "", user.Customer, now)
	require.NoError(t, err)
	require.NoError(t, uow.UserRepository().Add(ctx, u))
	require.NoError(t, uow.Rollback(ctx))

	_, err = factory.Create().UserRepository().Get(ctx, 1001)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}
