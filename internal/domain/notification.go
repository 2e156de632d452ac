package domain

import "context"

// NotificationLevel represents the severity of a notification.
type NotificationLevel string

const (
	// NotificationLevelInfo is for informational messages.
	NotificationLevelInfo NotificationLevel = "info"
	// NotificationLevelWarning is for warning messages.
	NotificationLevelWarning NotificationLevel = "warning"
	// NotificationLevelError is for error messages.
	NotificationLevelError NotificationLevel = "error"
)

// IsValid reports whether l is one of the known levels.
func (l NotificationLevel) IsValid() bool {
	switch l {
	case NotificationLevelInfo, NotificationLevelWarning, NotificationLevelError:
		return true
	default:
		return false
	}
}

// Notification is a level-tagged alert, independent of how it is delivered.
type Notification struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Level NotificationLevel `json:"level"`

	// Tags are added to whatever tags the notifier applies for Level.
	Tags []string `json:"tags,omitempty"`

	// Click is an optional URL opened when the notification is tapped.
	Click string `json:"click,omitempty"`
}

// NewNotification creates a new notification.
func NewNotification(title, body string, level NotificationLevel) *Notification {
	return &Notification{
		Title: title,
		Body:  body,
		Level: level,
	}
}

// InfoNotification creates an info-level notification.
func InfoNotification(title, body string) *Notification {
	return NewNotification(title, body, NotificationLevelInfo)
}

// WarningNotification creates a warning-level notification.
func WarningNotification(title, body string) *Notification {
	return NewNotification(title, body, NotificationLevelWarning)
}

// ErrorNotification creates an error-level notification.
func ErrorNotification(title, body string) *Notification {
	return NewNotification(title, body, NotificationLevelError)
}

// Notifier defines the interface for sending notifications.
type Notifier interface {
	// Notify sends a notification.
	Notify(ctx context.Context, notification *Notification) error

	// Validate checks if the notifier is properly configured.
	Validate(ctx context.Context) error
}
