package telegram

import (
	"context"
	"sync/atomic"

	"truckbot/internal/core/domain/model/kernel"
	"truckbot/internal/core/ports"

	"go.uber.org/zap"
)

// LogNotifier writes notifications to the log instead of Telegram. It backs
// the HTTP API when the bot is disabled.
type LogNotifier struct {
	lastID atomic.Int64
	log    *zap.Logger
}

var _ ports.Notifier = (*LogNotifier)(nil)

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log.With(zap.String("component", "log_notifier"))}
}

func (n *LogNotifier) Post(_ context.Context, channelID int64, text string, actions []ports.Action) (kernel.BroadcastRef, error) {
	id := int(n.lastID.Add(1))
	n.log.Info("post", zap.Int64("chat_id", channelID), zap.Int("message_id", id),
		zap.String("text", text), zap.Strings("actions", tokens(actions)))
	return kernel.NewBroadcastRef(channelID, id)
}

func (n *LogNotifier) Edit(_ context.Context, ref kernel.BroadcastRef, text string, actions []ports.Action) error {
	n.log.Info("edit", zap.Int64("chat_id", ref.ChatID()), zap.Int("message_id", ref.MessageID()),
		zap.String("text", text), zap.Strings("actions", tokens(actions)))
	return nil
}

func (n *LogNotifier) DirectMessage(_ context.Context, userID int64, text string, actions []ports.Action) error {
	n.log.Info("direct message", zap.Int64("user_id", userID),
		zap.String("text", text), zap.Strings("actions", tokens(actions)))
	return nil
}

func tokens(actions []ports.Action) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = a.Token
	}
	return out
}
