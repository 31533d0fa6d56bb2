package notification

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"truckbot/internal/core/domain/model/kernel"
	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/pkg/errs"
)

// ErrNotificationIsNotConstructed is returned when a Notification was not created through its constructors.
var ErrNotificationIsNotConstructed = errors.New("Notification must be created via NewBroadcastSync or NewDirectMessage")

// Kind selects how a queued notification is redelivered.
type Kind int

const (
	UnknownKind Kind = iota
	// BroadcastSync re-renders the order's broadcast from its current state.
	BroadcastSync
	// DirectMessage resends a stored text to one user.
	DirectMessage
)

func (k Kind) String() string {
	switch k {
	case BroadcastSync:
		return "BROADCAST_SYNC"
	case DirectMessage:
		return "DIRECT_MESSAGE"
	default:
		return "UNKNOWN"
	}
}

// ParseKind converts a persisted kind name.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "BROADCAST_SYNC":
		return BroadcastSync, nil
	case "DIRECT_MESSAGE":
		return DirectMessage, nil
	default:
		return UnknownKind, errs.NewValueIsInvalidErrorWithCause("notification kind", fmt.Errorf("%q is not a valid kind", s))
	}
}

// Notification is a delivery that failed after a ledger commit and waits for
// another attempt. Ledger state is never rolled back because of it.
type Notification struct {
	id          kernel.UUID
	kind        Kind
	orderID     order.ID
	recipientID int64
	text        string

	attempts      int
	lastError     string
	nextAttemptAt time.Time
	deliveredAt   *time.Time
	createdAt     time.Time

	isConstructed bool
}

// NewBroadcastSync queues a refresh of the order's public message.
func NewBroadcastSync(orderID order.ID, now time.Time) (*Notification, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	return &Notification{
		id:            kernel.NewUUID(),
		kind:          BroadcastSync,
		orderID:       orderID,
		nextAttemptAt: now,
		createdAt:     now,
		isConstructed: true,
	}, nil
}

// NewDirectMessage queues a private message. orderID is optional context and may be zero.
func NewDirectMessage(recipientID int64, text string, orderID order.ID, now time.Time) (*Notification, error) {
	var recipientErr, textErr error
	if recipientID == 0 {
		recipientErr = errs.NewValueIsRequiredError("recipient id")
	}
	if strings.TrimSpace(text) == "" {
		textErr = errs.NewValueIsRequiredError("text")
	}
	if err := errors.Join(recipientErr, textErr); err != nil {
		return nil, err
	}

	return &Notification{
		id:            kernel.NewUUID(),
		kind:          DirectMessage,
		orderID:       orderID,
		recipientID:   recipientID,
		text:          text,
		nextAttemptAt: now,
		createdAt:     now,
		isConstructed: true,
	}, nil
}

// Snapshot carries persisted state into RestoreNotification.
type Snapshot struct {
	ID            kernel.UUID
	Kind          Kind
	OrderID       order.ID
	RecipientID   int64
	Text          string
	Attempts      int
	LastError     string
	NextAttemptAt time.Time
	DeliveredAt   *time.Time
	CreatedAt     time.Time
}

// RestoreNotification rebuilds a queued notification from storage.
func RestoreNotification(s Snapshot) (*Notification, error) {
	var n *Notification
	var err error

	switch s.Kind {
	case BroadcastSync:
		n, err = NewBroadcastSync(s.OrderID, s.CreatedAt)
	case DirectMessage:
		n, err = NewDirectMessage(s.RecipientID, s.Text, s.OrderID, s.CreatedAt)
	default:
		err = errs.NewValueIsInvalidError("notification kind")
	}
	if err != nil {
		return nil, err
	}
	if err = s.ID.Validate(); err != nil {
		return nil, err
	}

	n.id = s.ID
	n.attempts = s.Attempts
	n.lastError = s.LastError
	n.nextAttemptAt = s.NextAttemptAt
	if s.DeliveredAt != nil {
		at := *s.DeliveredAt
		n.deliveredAt = &at
	}
	return n, nil
}

// Validate ensures the Notification was properly constructed.
func (n *Notification) Validate() error {
	if n == nil || !n.isConstructed {
		return ErrNotificationIsNotConstructed
	}
	return nil
}

func (n *Notification) ID() kernel.UUID          { return n.id }
func (n *Notification) Kind() Kind               { return n.kind }
func (n *Notification) OrderID() order.ID        { return n.orderID }
func (n *Notification) RecipientID() int64       { return n.recipientID }
func (n *Notification) Text() string             { return n.text }
func (n *Notification) Attempts() int            { return n.attempts }
func (n *Notification) LastError() string        { return n.lastError }
func (n *Notification) NextAttemptAt() time.Time { return n.nextAttemptAt }
func (n *Notification) CreatedAt() time.Time     { return n.createdAt }

// DeliveredAt returns when the retry succeeded, nil while pending.
func (n *Notification) DeliveredAt() *time.Time {
	if n.deliveredAt == nil {
		return nil
	}
	at := *n.deliveredAt
	return &at
}

// IsDelivered reports whether a retry succeeded.
func (n *Notification) IsDelivered() bool {
	return n.deliveredAt != nil
}

// MarkDelivered closes the notification.
func (n *Notification) MarkDelivered(now time.Time) {
	n.attempts++
	n.deliveredAt = &now
	n.lastError = ""
}

// Postpone moves the next attempt to at without counting an attempt.
func (n *Notification) Postpone(reason string, at time.Time) {
	if reason != "" {
		n.lastError = reason
	}
	n.nextAttemptAt = at
}

// MarkFailed records a failed attempt and schedules the next one after
// backoff multiplied by the number of attempts so far.
func (n *Notification) MarkFailed(cause error, now time.Time, backoff time.Duration) {
	n.attempts++
	if cause != nil {
		n.lastError = cause.Error()
	}
	n.nextAttemptAt = now.Add(backoff * time.Duration(n.attempts))
}
