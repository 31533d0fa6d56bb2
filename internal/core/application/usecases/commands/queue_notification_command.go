package commands

import (
	"errors"
	"strings"

	"truckbot/internal/core/domain/model/notification"
	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/pkg/errs"
	"truckbot/internal/pkg/guard"
)

// ErrQueueNotificationCommandIsNotConstructed is returned by Validate for a zero command.
var ErrQueueNotificationCommandIsNotConstructed = errors.New(
	"QueueNotificationCommand must be created via NewQueueBroadcastSyncCommand or NewQueueDirectMessageCommand",
)

// QueueNotificationCommand stores a failed delivery for a later attempt.
type QueueNotificationCommand struct { //nolint:recvcheck //using for validation
	kind        notification.Kind
	orderID     order.ID
	recipientID int64
	text        string
	cause       string

	guard guard.ConstructorGuard
}

// NewQueueBroadcastSyncCommand queues a refresh of the order's broadcast.
// The content is rendered again from the order when the retry runs.
func NewQueueBroadcastSyncCommand(orderID order.ID, cause error) (QueueNotificationCommand, error) {
	if err := orderID.Validate(); err != nil {
		return QueueNotificationCommand{}, err
	}

	return QueueNotificationCommand{
		kind:    notification.BroadcastSync,
		orderID: orderID,
		cause:   causeText(cause),
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// NewQueueDirectMessageCommand queues a private message. orderID may be zero.
func NewQueueDirectMessageCommand(recipientID int64, text string, orderID order.ID, cause error) (QueueNotificationCommand, error) {
	var recipientErr, textErr error
	if recipientID == 0 {
		recipientErr = errs.NewValueIsRequiredError("recipient id")
	}
	if strings.TrimSpace(text) == "" {
		textErr = errs.NewValueIsRequiredError("text")
	}
	if err := errors.Join(recipientErr, textErr); err != nil {
		return QueueNotificationCommand{}, err
	}

	return QueueNotificationCommand{
		kind:        notification.DirectMessage,
		orderID:     orderID,
		recipientID: recipientID,
		text:        text,
		cause:       causeText(cause),
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through a constructor.
func (c QueueNotificationCommand) Validate() error {
	return c.guard.Validate(ErrQueueNotificationCommandIsNotConstructed)
}

func (c QueueNotificationCommand) Kind() notification.Kind { return c.kind }
func (c QueueNotificationCommand) OrderID() order.ID       { return c.orderID }
func (c QueueNotificationCommand) RecipientID() int64      { return c.recipientID }
func (c QueueNotificationCommand) Text() string            { return c.text }
func (c QueueNotificationCommand) Cause() string           { return c.cause }

func causeText(cause error) string {
	if cause == nil {
		return ""
	}
	return cause.Error()
}
