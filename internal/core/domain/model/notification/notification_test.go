package notification_test

import (
	"errors"
	"testing"
	"time"

	"truckbot/internal/core/domain/model/notification"
	"truckbot/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestNewBroadcastSync(t *testing.T) {
	n, err := notification.NewBroadcastSync(7, now)

	require.NoError(t, err)
	require.NoError(t, n.Validate())
	assert.Equal(t, notification.BroadcastSync, n.Kind())
	require.NoError(t, n.ID().Validate())
	assert.Equal(t, now, n.NextAttemptAt())
	assert.False(t, n.IsDelivered())

	_, err = notification.NewBroadcastSync(0, now)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestNewDirectMessage(t *testing.T) {
	n, err := notification.NewDirectMessage(1001, "order #7 is open again", 7, now)
	require.NoError(t, err)
	assert.Equal(t, notification.DirectMessage, n.Kind())
	assert.Equal(t, int64(1001), n.RecipientID())
	assert.Equal(t, "order #7 is open again", n.Text())

	_, err = notification.NewDirectMessage(0, " ", 0, now)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.Contains(t, err.Error(), "recipient id")
	assert.Contains(t, err.Error(), "text")
}

func TestNotification_MarkFailed(t *testing.T) {
	n, err := notification.NewDirectMessage(1001, "hi", 0, now)
	require.NoError(t, err)

	n.MarkFailed(errors.New("chat not found"), now, time.Minute)
	assert.Equal(t, 1, n.Attempts())
	assert.Equal(t, "chat not found", n.LastError())
	assert.Equal(t, now.Add(time.Minute), n.NextAttemptAt())

	n.MarkFailed(errors.New("timeout"), now, time.Minute)
	assert.Equal(t, 2, n.Attempts())
	assert.Equal(t, now.Add(2*time.Minute), n.NextAttemptAt())

	n.MarkDelivered(now.Add(3 * time.Minute))
	assert.True(t, n.IsDelivered())
	assert.Equal(t, 3, n.Attempts())
	assert.Empty(t, n.LastError())
}

func TestNotification_Postpone(t *testing.T) {
	n, err := notification.NewBroadcastSync(7, now)
	require.NoError(t, err)

	n.Postpone("telegram: Bad Gateway", now.Add(30*time.Second))

	assert.Equal(t, 0, n.Attempts())
	assert.Equal(t, "telegram: Bad Gateway", n.LastError())
	assert.Equal(t, now.Add(30*time.Second), n.NextAttemptAt())
}

func TestRestoreNotification(t *testing.T) {
	original, err := notification.NewBroadcastSync(7, now)
	require.NoError(t, err)
	delivered := now.Add(time.Hour)

	restored, err := notification.RestoreNotification(notification.Snapshot{
		ID:            original.ID(),
		Kind:          notification.BroadcastSync,
		OrderID:       7,
		Attempts:      2,
		NextAttemptAt: now,
		DeliveredAt:   &delivered,
		CreatedAt:     now,
	})

	require.NoError(t, err)
	assert.True(t, original.ID().IsEqual(restored.ID()))
	assert.Equal(t, 2, restored.Attempts())
	assert.Equal(t, delivered, *restored.DeliveredAt())

	_, err = notification.RestoreNotification(notification.Snapshot{Kind: notification.UnknownKind})
	require.Error(t, err)
}

func TestParseKind(t *testing.T) {
	for _, k := range []notification.Kind{notification.BroadcastSync, notification.DirectMessage} {
		parsed, err := notification.ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	_, err := notification.ParseKind("SMS")
	require.Error(t, err)
}
