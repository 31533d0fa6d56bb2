// Package telegram delivers ledger notifications through the Telegram Bot API.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"truckbot/internal/core/domain/model/kernel"
	"truckbot/internal/core/ports"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Notifier implements ports.Notifier on top of a telebot bot.
// Messages are sent as HTML; callers escape user input.
type Notifier struct {
	bot *tele.Bot
	log *zap.Logger
}

var _ ports.Notifier = (*Notifier)(nil)

func NewNotifier(bot *tele.Bot, log *zap.Logger) *Notifier {
	return &Notifier{
		bot: bot,
		log: log.With(zap.String("component", "telegram_notifier")),
	}
}

// Post sends a message with inline buttons to a channel.
func (n *Notifier) Post(ctx context.Context, channelID int64, text string, actions []ports.Action) (kernel.BroadcastRef, error) {
	if err := ctx.Err(); err != nil {
		return kernel.BroadcastRef{}, err
	}

	msg, err := n.bot.Send(tele.ChatID(channelID), text, sendOptions(actions)...)
	if err != nil {
		return kernel.BroadcastRef{}, fmt.Errorf("post to chat %d: %w", channelID, err)
	}

	chatID := channelID
	if msg.Chat != nil {
		chatID = msg.Chat.ID
	}
	return kernel.NewBroadcastRef(chatID, msg.ID)
}

// Edit replaces the text and buttons of a posted message. Telegram drops the
// keyboard when an edit carries none. Editing to identical content is not
// an error.
func (n *Notifier) Edit(ctx context.Context, ref kernel.BroadcastRef, text string, actions []ports.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stored := tele.StoredMessage{
		MessageID: strconv.Itoa(ref.MessageID()),
		ChatID:    ref.ChatID(),
	}
	_, err := n.bot.Edit(stored, text, sendOptions(actions)...)
	if errors.Is(err, tele.ErrSameMessageContent) || errors.Is(err, tele.ErrMessageNotModified) {
		n.log.Debug("broadcast already up to date", zap.Int("message_id", ref.MessageID()))
		return nil
	}
	if err != nil {
		return fmt.Errorf("edit message %d in chat %d: %w", ref.MessageID(), ref.ChatID(), err)
	}
	return nil
}

// DirectMessage sends a private message. It fails when the user never
// started the bot or blocked it.
func (n *Notifier) DirectMessage(ctx context.Context, userID int64, text string, actions []ports.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := n.bot.Send(&tele.User{ID: userID}, text, sendOptions(actions)...); err != nil {
		return fmt.Errorf("message user %d: %w", userID, err)
	}
	return nil
}

func sendOptions(actions []ports.Action) []interface{} {
	opts := []interface{}{tele.ModeHTML}
	if len(actions) == 0 {
		return opts
	}

	row := make([]tele.InlineButton, 0, len(actions))
	for _, a := range actions {
		row = append(row, tele.InlineButton{Text: a.Label, Data: a.Token})
	}
	return append(opts, &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{row}})
}
