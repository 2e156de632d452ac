package notify

import (
	"context"

	"github.com/sharkusmanch/ntfy-publisher/internal/domain"
)

// MockNotifier records notifications instead of delivering them.
type MockNotifier struct {
	NotifyFunc   func(ctx context.Context, notification *domain.Notification) error
	ValidateFunc func(ctx context.Context) error

	Notifications []*domain.Notification
	Validations   int
}

// Notify records notification and calls NotifyFunc if set.
func (m *MockNotifier) Notify(ctx context.Context, notification *domain.Notification) error {
	m.Notifications = append(m.Notifications, notification)
	if m.NotifyFunc != nil {
		return m.NotifyFunc(ctx, notification)
	}
	return nil
}

// Validate counts the call and calls ValidateFunc if set.
func (m *MockNotifier) Validate(ctx context.Context) error {
	m.Validations++
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx)
	}
	return nil
}

var _ domain.Notifier = (*MockNotifier)(nil)
