package ports

import (
	"context"

	"truckbot/internal/core/domain/model/kernel"
)

// Action is an inline button attached to a message. Token is the opaque
// callback payload, e.g. "order_take_42".
type Action struct {
	Label string
	Token string
}

// Notifier delivers plain-text messages to the chat transport.
//
// It is called only after a ledger transaction committed. Failures are
// reported to the caller, which logs and queues them; they never undo
// ledger state.
type Notifier interface {
	// Post publishes a message with optional actions to a channel and
	// returns where it landed.
	Post(ctx context.Context, channelID int64, text string, actions []Action) (kernel.BroadcastRef, error)

	// Edit replaces text and actions of a posted message. Empty actions remove the buttons.
	Edit(ctx context.Context, ref kernel.BroadcastRef, text string, actions []Action) error

	// DirectMessage sends a private message with optional actions to a user.
	DirectMessage(ctx context.Context, userID int64, text string, actions []Action) error
}
