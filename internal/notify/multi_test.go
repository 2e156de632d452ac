package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/sharkusmanch/ntfy-publisher/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestMultiNotifier_Notify(t *testing.T) {
	first := &MockNotifier{}
	second := &MockNotifier{}
	multi := NewMultiNotifier(first, second)

	n := domain.InfoNotification("title", "body")
	err := multi.Notify(context.Background(), n)

	assert.NoError(t, err)
	assert.Equal(t, []*domain.Notification{n}, first.Notifications)
	assert.Equal(t, []*domain.Notification{n}, second.Notifications)
}

func TestMultiNotifier_Notify_ContinuesAfterFailure(t *testing.T) {
	failing := &MockNotifier{
		NotifyFunc: func(context.Context, *domain.Notification) error {
			return errors.New("topic a failed")
		},
	}
	ok := &MockNotifier{}
	multi := NewMultiNotifier(failing, ok)

	err := multi.Notify(context.Background(), domain.ErrorNotification("t", "b"))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "topic a failed")
	assert.Len(t, ok.Notifications, 1)
}

func TestMultiNotifier_Validate(t *testing.T) {
	healthy := &MockNotifier{}
	broken := &MockNotifier{
		ValidateFunc: func(context.Context) error { return errors.New("unreachable") },
	}

	assert.NoError(t, NewMultiNotifier(healthy).Validate(context.Background()))

	err := NewMultiNotifier(healthy, broken).Validate(context.Background())
	assert.ErrorContains(t, err, "notifier 1: unreachable")
	assert.Equal(t, 2, healthy.Validations)
}

func TestMultiNotifier_Notify_StopsOnCancelledContext(t *testing.T) {
	first := &MockNotifier{}
	multi := NewMultiNotifier(first)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := multi.Notify(ctx, domain.InfoNotification("t", "b"))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, first.Notifications)
}
