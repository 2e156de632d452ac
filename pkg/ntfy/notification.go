// Package ntfy builds publish requests for an ntfy server and decodes its responses.
//
// A Notification is an immutable value: every With method returns a modified
// copy. Compile turns a Notification into a transport-agnostic Request, and
// Send hands that Request to a caller-supplied Transport.
package ntfy

import (
	"strconv"
	"time"
)

// DefaultServer is the public ntfy instance.
const DefaultServer = "https://ntfy.sh"

// Notification holds the attributes of a single notification.
// The zero value is usable but has no server; use New for the defaults.
type Notification struct {
	server   string
	topic    string
	login    Login
	message  Message
	title    string
	priority Priority
	tags     []string
	delay    string
	call     string
	email    string
	click    string
	icon     string
	actions  []Action

	// tagsSet and actionsSet distinguish an explicitly empty list from an unset one.
	tagsSet    bool
	actionsSet bool

	withoutCache    bool
	withoutFirebase bool
}

// New creates a Notification targeting DefaultServer with no topic.
func New() Notification {
	return Notification{
		server: DefaultServer,
	}
}

// Server returns the configured server URL.
func (n Notification) Server() string {
	return n.server
}

// Topic returns the configured topic.
func (n Notification) Topic() string {
	return n.topic
}

// WithServer sets the base URL of the ntfy server.
func (n Notification) WithServer(server string) Notification {
	n.server = server
	return n
}

// WithTopic sets the destination topic.
func (n Notification) WithTopic(topic string) Notification {
	n.topic = topic
	return n
}

// WithLogin sets the credentials. A nil Login removes them.
func (n Notification) WithLogin(login Login) Notification {
	n.login = login
	return n
}

// WithBasicAuth is shorthand for WithLogin(BasicAuth{...}).
func (n Notification) WithBasicAuth(username, password string) Notification {
	return n.WithLogin(BasicAuth{Username: username, Password: password})
}

// WithToken is shorthand for WithLogin(TokenAuth{...}).
func (n Notification) WithToken(token string) Notification {
	return n.WithLogin(TokenAuth{Token: token})
}

// WithMessage sets the message body. A nil Message removes it.
func (n Notification) WithMessage(message Message) Notification {
	n.message = message
	return n
}

// WithText sets a plain text message.
func (n Notification) WithText(text string) Notification {
	return n.WithMessage(TextMessage(text))
}

// WithMarkdown sets a message rendered as Markdown by clients.
func (n Notification) WithMarkdown(text string) Notification {
	return n.WithMessage(MarkdownMessage(text))
}

// WithFile sets an attachment, fetched by ntfy from url, in place of a text message.
func (n Notification) WithFile(filename, url string) Notification {
	return n.WithMessage(FileMessage{Filename: filename, URL: url})
}

// WithTitle sets the notification title.
func (n Notification) WithTitle(title string) Notification {
	n.title = title
	return n
}

// WithPriority sets the priority.
func (n Notification) WithPriority(priority Priority) Notification {
	n.priority = priority
	return n
}

// WithTags replaces the tag list. Calling it with no tags sends an empty list.
func (n Notification) WithTags(tags ...string) Notification {
	n.tags = append(make([]string, 0, len(tags)), tags...)
	n.tagsSet = true
	return n
}

// WithDelay schedules delivery d after the server receives the message.
// Durations are truncated to whole seconds.
func (n Notification) WithDelay(d time.Duration) Notification {
	n.delay = strconv.FormatInt(int64(d/time.Second), 10) + "s"
	return n
}

// WithDelayUntil schedules delivery at t.
func (n Notification) WithDelayUntil(t time.Time) Notification {
	n.delay = strconv.FormatInt(t.Unix(), 10)
	return n
}

// WithCall sets a phone number to call with the message.
func (n Notification) WithCall(number string) Notification {
	n.call = number
	return n
}

// WithEmail sets an address the server forwards the message to.
func (n Notification) WithEmail(email string) Notification {
	n.email = email
	return n
}

// WithClick sets the URL opened when the notification is tapped.
func (n Notification) WithClick(url string) Notification {
	n.click = url
	return n
}

// WithIcon sets the notification icon URL.
func (n Notification) WithIcon(url string) Notification {
	n.icon = url
	return n
}

// WithActions replaces the action buttons. Calling it with no actions sends an empty list.
func (n Notification) WithActions(actions ...Action) Notification {
	n.actions = append(make([]Action, 0, len(actions)), actions...)
	n.actionsSet = true
	return n
}

// WithoutCache asks the server not to cache the message.
func (n Notification) WithoutCache(v bool) Notification {
	n.withoutCache = v
	return n
}

// WithoutFirebase asks the server not to forward the message to Firebase.
func (n Notification) WithoutFirebase(v bool) Notification {
	n.withoutFirebase = v
	return n
}
