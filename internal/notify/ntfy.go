// Package notify provides implementations for sending notifications.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/sharkusmanch/ntfy-publisher/internal/domain"
	"github.com/sharkusmanch/ntfy-publisher/pkg/ntfy"
)

// ntfy servers reject longer messages by default.
const maxBodyLength = 4096

// HealthChecker reports whether an ntfy server is up.
type HealthChecker interface {
	CheckHealth(ctx context.Context, server string) error
}

// NtfyNotifier delivers level-tagged alerts as ntfy notifications.
type NtfyNotifier struct {
	publisher domain.Publisher
	base      ntfy.Notification
	health    HealthChecker
	logger    *slog.Logger
}

// NtfyOption configures an NtfyNotifier.
type NtfyOption func(*NtfyNotifier)

// WithHealthChecker sets the checker used by Validate.
func WithHealthChecker(h HealthChecker) NtfyOption {
	return func(n *NtfyNotifier) {
		n.health = h
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) NtfyOption {
	return func(n *NtfyNotifier) {
		n.logger = logger
	}
}

// NewNtfyNotifier creates a notifier that publishes through publisher.
// base carries the server, topic and credentials every alert is sent with.
func NewNtfyNotifier(publisher domain.Publisher, base ntfy.Notification, opts ...NtfyOption) *NtfyNotifier {
	n := &NtfyNotifier{
		publisher: publisher,
		base:      base,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// Notify publishes notification to the configured topic.
func (n *NtfyNotifier) Notify(ctx context.Context, notification *domain.Notification) error {
	msg := n.Build(notification)

	n.logger.Debug("sending ntfy notification",
		"topic", msg.Topic(),
		"level", notification.Level,
	)

	result, err := n.publisher.Publish(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to send notification to %s: %w", msg.Topic(), err)
	}

	n.logger.Debug("notification sent", "topic", msg.Topic(), "id", result.MessageID)
	return nil
}

// Build converts notification into the ntfy notification Notify sends.
func (n *NtfyNotifier) Build(notification *domain.Notification) ntfy.Notification {
	body := truncate(notification.Body, maxBodyLength)

	priority, tag := mapLevel(notification.Level)
	tags := append([]string{tag}, notification.Tags...)

	msg := n.base.
		WithText(body).
		WithPriority(priority).
		WithTags(tags...)
	if notification.Title != "" {
		msg = msg.WithTitle(notification.Title)
	}
	if notification.Click != "" {
		msg = msg.WithClick(notification.Click)
	}
	return msg
}

// Validate checks that the server is healthy.
func (n *NtfyNotifier) Validate(ctx context.Context) error {
	if n.health == nil {
		return nil
	}
	if err := n.health.CheckHealth(ctx, n.base.Server()); err != nil {
		return fmt.Errorf("ntfy server not healthy: %w", err)
	}
	return nil
}

// truncate shortens s to at most limit bytes without splitting a rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// mapLevel returns the priority and emoji tag used for level.
func mapLevel(level domain.NotificationLevel) (ntfy.Priority, string) {
	switch level {
	case domain.NotificationLevelWarning:
		return ntfy.PriorityHigh, "warning"
	case domain.NotificationLevelError:
		return ntfy.PriorityVeryHigh, "rotating_light"
	default:
		return ntfy.PriorityNormal, "information_source"
	}
}

// Ensure NtfyNotifier implements domain.Notifier.
var _ domain.Notifier = (*NtfyNotifier)(nil)
