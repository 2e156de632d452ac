package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sharkusmanch/ntfy-publisher/internal/domain"
)

// MultiNotifier fans a notification out to several notifiers in order.
type MultiNotifier struct {
	notifiers []domain.Notifier
	logger    *slog.Logger
}

// NewMultiNotifier creates a new MultiNotifier.
func NewMultiNotifier(notifiers ...domain.Notifier) *MultiNotifier {
	return &MultiNotifier{
		notifiers: notifiers,
		logger:    slog.Default(),
	}
}

// WithMultiLogger sets the logger and returns m.
func (m *MultiNotifier) WithMultiLogger(logger *slog.Logger) *MultiNotifier {
	m.logger = logger
	return m
}

// Notify sends notification to every notifier. A failing notifier does not
// stop the rest; a cancelled context does.
func (m *MultiNotifier) Notify(ctx context.Context, notification *domain.Notification) error {
	var errs []error

	for i, notifier := range m.notifiers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := notifier.Notify(ctx, notification); err != nil {
			m.logger.Warn("notifier failed", "index", i, "error", err)
			errs = append(errs, fmt.Errorf("notifier %d: %w", i, err))
		}
	}

	return errors.Join(errs...)
}

// Validate validates all configured notifiers.
func (m *MultiNotifier) Validate(ctx context.Context) error {
	var errs []error

	for i, notifier := range m.notifiers {
		if err := notifier.Validate(ctx); err != nil {
			errs = append(errs, fmt.Errorf("notifier %d: %w", i, err))
		}
	}

	return errors.Join(errs...)
}

// Ensure MultiNotifier implements domain.Notifier.
var _ domain.Notifier = (*MultiNotifier)(nil)
