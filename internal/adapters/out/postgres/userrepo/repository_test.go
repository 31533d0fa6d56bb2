package userrepo_test

import (
	"testing"
	"time"

	"truckbot/internal/adapters/out/postgres/testdb"
	"truckbot/internal/adapters/out/postgres/userrepo"
	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/core/domain/model/user"
	"truckbot/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newRepository(t *testing.T) *userrepo.GormUserRepository {
	t.Helper()
	return userrepo.NewGormUserRepository(testdb.New(t))
}

func addDriver(t *testing.T, repo *userrepo.GormUserRepository, id int64) *user.User {
	t.Helper()

	u, err := user.NewUser(id, "@driver", user.Driver, now)
	require.NoError(t, err)
	require.NoError(t, u.UpdateProfile("+998935554433", user.Damas, now))
	require.NoError(t, repo.Add(t.Context(), u))
	return u
}

func TestGormUserRepository_AddAndGet(t *testing.T) {
	repo := newRepository(t)
	addDriver(t, repo, 2002)

	got, err := repo.Get(t.Context(), 2002)

	require.NoError(t, err)
	assert.Equal(t, int64(2002), got.ID())
	assert.Equal(t, user.Driver, got.Role())
	assert.Equal(t, "+998935554433", got.Phone())
	assert.Equal(t, user.Damas, got.CarModel())
	assert.Nil(t, got.ActiveOrder())
}

func TestGormUserRepository_AddTwice(t *testing.T) {
	repo := newRepository(t)
	addDriver(t, repo, 2002)

	u, err := user.NewUser(2002, "", user.Customer, now)
	require.NoError(t, err)

	require.ErrorIs(t, repo.Add(t.Context(), u), errs.ErrVersionIsInvalid)
}

func TestGormUserRepository_GetUnknown(t *testing.T) {
	_, err := newRepository(t).Get(t.Context(), 1)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestGormUserRepository_UpdateCompareAndSet(t *testing.T) {
	ctx := t.Context()
	repo := newRepository(t)
	driver := addDriver(t, repo, 2002)
	held := order.ID(7)

	require.NoError(t, driver.TakeOrder(held, now))
	require.NoError(t, repo.Update(ctx, driver, nil))

	t.Run("second claim against a free driver loses", func(t *testing.T) {
		stale, err := repo.Get(ctx, 2002)
		require.NoError(t, err)
		require.NoError(t, stale.ReleaseOrder(held, now))
		require.NoError(t, stale.TakeOrder(8, now))

		require.ErrorIs(t, repo.Update(ctx, stale, nil), errs.ErrVersionIsInvalid)
	})

	t.Run("release with the held order wins", func(t *testing.T) {
		require.NoError(t, driver.ReleaseOrder(held, now))
		require.NoError(t, repo.Update(ctx, driver, &held))

		got, err := repo.Get(ctx, 2002)
		require.NoError(t, err)
		assert.Nil(t, got.ActiveOrder())
	})

	t.Run("release with a different order loses", func(t *testing.T) {
		other := order.ID(9)
		require.ErrorIs(t, repo.Update(ctx, driver, &other), errs.ErrVersionIsInvalid)
	})
}

func TestGormUserRepository_ActiveOrderIsUnique(t *testing.T) {
	ctx := t.Context()
	repo := newRepository(t)
	first := addDriver(t, repo, 2002)
	second := addDriver(t, repo, 2003)

	require.NoError(t, first.TakeOrder(7, now))
	require.NoError(t, repo.Update(ctx, first, nil))

	require.NoError(t, second.TakeOrder(7, now))
	require.ErrorIs(t, repo.Update(ctx, second, nil), errs.ErrVersionIsInvalid)
}
