package guard_test

import (
	"errors"
	"testing"

	"truckbot/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	errNotConstructed := errors.New("command must be created via its constructor")

	t.Run("constructed_guard_returns_nil", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errNotConstructed))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_guard_returns_given_error", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(errNotConstructed)

		assert.Equal(t, errNotConstructed, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
		assert.Equal(t, "object must be created via its constructor", err.Error())
	})
}

func TestConstructorGuard_EmbeddedInValue(t *testing.T) {
	type command struct {
		orderID int64
		guard   guard.ConstructorGuard
	}
	errCommandNotConstructed := errors.New("command must be created via newCommand")

	newCommand := func(orderID int64) (command, error) {
		if orderID <= 0 {
			return command{}, errors.New("order id must be positive")
		}
		return command{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
	}

	t.Run("constructed_value_is_valid", func(t *testing.T) {
		cmd, err := newCommand(7)

		require.NoError(t, err)
		require.NoError(t, cmd.guard.Validate(errCommandNotConstructed))
		assert.Equal(t, int64(7), cmd.orderID)
	})

	t.Run("copied_value_stays_valid", func(t *testing.T) {
		cmd, err := newCommand(7)
		require.NoError(t, err)

		copied := cmd

		require.NoError(t, copied.guard.Validate(errCommandNotConstructed))
	})

	t.Run("zero_value_is_rejected", func(t *testing.T) {
		var cmd command

		assert.Equal(t, errCommandNotConstructed, cmd.guard.Validate(errCommandNotConstructed))
	})
}
