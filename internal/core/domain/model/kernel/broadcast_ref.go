package kernel

import (
	"errors"
	"fmt"

	"truckbot/internal/pkg/errs"
)

// BroadcastRef identifies the message announcing an order in the shared
// broadcast channel, so later state changes can edit it in place.
//
// The zero value means "not posted yet" and is reported by IsZero.
//
// Example:
//
//	ref, err := kernel.NewBroadcastRef(-1001234567890, 42)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(ref) // -1001234567890/42
type BroadcastRef struct {
	chatID    int64
	messageID int
}

// NewBroadcastRef validates both halves of the reference.
// The chat id may be negative (channels and supergroups are), but never zero;
// the message id must be positive.
func NewBroadcastRef(chatID int64, messageID int) (BroadcastRef, error) {
	var chatErr, messageErr error
	if chatID == 0 {
		chatErr = errs.NewValueIsRequiredError("chat id")
	}
	if messageID <= 0 {
		messageErr = errs.NewValueIsInvalidErrorWithCause(
			"message id",
			fmt.Errorf("%d is not a positive message id", messageID),
		)
	}
	if err := errors.Join(chatErr, messageErr); err != nil {
		return BroadcastRef{}, err
	}

	return BroadcastRef{chatID: chatID, messageID: messageID}, nil
}

// ChatID returns the channel the message lives in.
func (r BroadcastRef) ChatID() int64 {
	return r.chatID
}

// MessageID returns the message identifier inside the channel.
func (r BroadcastRef) MessageID() int {
	return r.messageID
}

// IsZero reports whether the reference is unset.
func (r BroadcastRef) IsZero() bool {
	return r.chatID == 0 && r.messageID == 0
}

// IsEqual compares two references by value.
func (r BroadcastRef) IsEqual(other BroadcastRef) bool {
	return r == other
}

func (r BroadcastRef) String() string {
	return fmt.Sprintf("%d/%d", r.chatID, r.messageID)
}
