package telegram_test

import (
	"context"
	"testing"

	"truckbot/internal/adapters/out/telegram"
	"truckbot/internal/adapters/out/telegram/telegramtest"
	"truckbot/internal/core/domain/model/kernel"
	"truckbot/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const channelID = int64(-1001234567890)

func TestNotifier_Post(t *testing.T) {
	api, bot := telegramtest.New(t)
	notifier := telegram.NewNotifier(bot, zap.NewNop())

	ref, err := notifier.Post(t.Context(), channelID, "<b>Новый заказ #7</b>", []ports.Action{
		{Label: "Взять заказ", Token: "order_take_7"},
	})

	require.NoError(t, err)
	assert.Equal(t, channelID, ref.ChatID())
	assert.Positive(t, ref.MessageID())

	calls := api.Calls("sendMessage")
	require.Len(t, calls, 1)
	assert.Equal(t, "-1001234567890", calls[0].Param("chat_id"))
	assert.Equal(t, "HTML", calls[0].Param("parse_mode"))
	assert.Contains(t, calls[0].Param("reply_markup"), `"callback_data":"order_take_7"`)
}

func TestNotifier_Edit(t *testing.T) {
	api, bot := telegramtest.New(t)
	notifier := telegram.NewNotifier(bot, zap.NewNop())
	ref, err := kernel.NewBroadcastRef(channelID, 42)
	require.NoError(t, err)

	t.Run("without actions drops the keyboard", func(t *testing.T) {
		require.NoError(t, notifier.Edit(t.Context(), ref, "✅ done", nil))

		calls := api.Calls("editMessageText")
		require.NotEmpty(t, calls)
		last := calls[len(calls)-1]
		assert.Equal(t, "42", last.Param("message_id"))
		assert.Empty(t, last.Param("reply_markup"))
	})

	t.Run("unchanged content is not an error", func(t *testing.T) {
		api.FailWith("Bad Request: message is not modified: specified new message content and reply markup are exactly the same as a current content and reply markup of the message")
		defer api.FailWith("")

		require.NoError(t, notifier.Edit(t.Context(), ref, "✅ done", nil))
	})

	t.Run("other failures are reported", func(t *testing.T) {
		api.FailWith("Bad Request: message to edit not found")
		defer api.FailWith("")

		require.Error(t, notifier.Edit(t.Context(), ref, "✅ done", nil))
	})
}

func TestNotifier_DirectMessage(t *testing.T) {
	api, bot := telegramtest.New(t)
	notifier := telegram.NewNotifier(bot, zap.NewNop())

	require.NoError(t, notifier.DirectMessage(t.Context(), 2002, "Вы взяли заказ #7!", nil))
	calls := api.Calls("sendMessage")
	require.Len(t, calls, 1)
	assert.Equal(t, "2002", calls[0].Param("chat_id"))
	assert.Equal(t, "Вы взяли заказ #7!", calls[0].Param("text"))
	assert.Empty(t, calls[0].Param("reply_markup"))

	require.NoError(t, notifier.DirectMessage(t.Context(), 1001, "Заказ #7 опубликован", []ports.Action{
		{Label: "Статус", Token: "order_status_7"},
	}))
	calls = api.Calls("sendMessage")
	require.Len(t, calls, 2)
	assert.Contains(t, calls[1].Param("reply_markup"), `"callback_data":"order_status_7"`)

	api.FailWith("Forbidden: bot was blocked by the user")
	require.Error(t, notifier.DirectMessage(t.Context(), 2002, "hi", nil))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	api.FailWith("")
	require.ErrorIs(t, notifier.DirectMessage(ctx, 2002, "hi", nil), context.Canceled)
	assert.Len(t, api.Calls("sendMessage"), 3)
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := telegram.NewLogNotifier(zap.New(core))
	ctx := t.Context()

	first, err := n.Post(ctx, -100, "new order", []ports.Action{{Label: "Take", Token: "order_take_1"}})
	require.NoError(t, err)
	second, err := n.Post(ctx, -100, "another", nil)
	require.NoError(t, err)

	assert.Equal(t, 1, first.MessageID())
	assert.Equal(t, 2, second.MessageID())
	require.NoError(t, n.Edit(ctx, first, "taken", nil))
	require.NoError(t, n.DirectMessage(ctx, 2002, "hi", nil))

	assert.Equal(t, 2, logs.FilterMessage("post").Len())
	assert.Equal(t, 1, logs.FilterMessage("edit").Len())
	assert.Equal(t, 1, logs.FilterMessage("direct message").Len())
}
