package commands_test

import (
	"testing"

	"truckbot/internal/core/application/usecases/commands"
	"truckbot/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPostOrderCommand_ValidInput(t *testing.T) {
	cmd, err := commands.NewPostOrderCommand(1001, " cement ", "Chilanzar 9", "Yunusabad 4", "+998901234567")

	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, int64(1001), cmd.CustomerID())
	assert.Equal(t, "cement", cmd.Cargo())
	assert.Equal(t, "Chilanzar 9", cmd.FromAddr())
	assert.Equal(t, "Yunusabad 4", cmd.ToAddr())
	assert.Equal(t, "+998901234567", cmd.Phone())
}

func TestNewPostOrderCommand_ReportsEveryMissingField(t *testing.T) {
	_, err := commands.NewPostOrderCommand(0, "", " ", "", "")

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	for _, field := range []string{"customer id", "cargo", "from address", "to address", "phone"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestPostOrderCommand_NotConstructed(t *testing.T) {
	require.ErrorIs(t, commands.PostOrderCommand{}.Validate(), commands.ErrPostOrderCommandIsNotConstructed)
}
