package ntfy

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"
)

// Request is a compiled publish request, ready for a Transport.
type Request struct {
	Method  string
	URL     string
	Headers []Header
	Body    string
}

// Header returns the value of the first header named name, compared case-insensitively.
func (r Request) Header(name string) (string, bool) {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

// publishBody is the JSON document ntfy accepts on its root path.
type publishBody struct {
	Topic    string    `json:"topic"`
	Message  *string   `json:"message,omitempty"`
	Markdown bool      `json:"markdown,omitempty"`
	Title    string    `json:"title,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
	Priority int       `json:"priority,omitempty"`
	Actions  *[]any    `json:"actions,omitempty"`
	Click    string    `json:"click,omitempty"`
	Attach   *string   `json:"attach,omitempty"`
	Filename *string   `json:"filename,omitempty"`
	Icon     string    `json:"icon,omitempty"`
	Delay    string    `json:"delay,omitempty"`
	Email    string    `json:"email,omitempty"`
	Call     string    `json:"call,omitempty"`
}

// Compile validates n and builds the request that publishes it.
// The server URL is checked before the topic.
func Compile(n Notification) (Request, error) {
	target, err := publishURL(n.server)
	if err != nil {
		return Request{}, err
	}
	if n.topic == "" {
		return Request{}, &InvalidTopicError{Topic: n.topic}
	}

	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(buildBody(n)); err != nil {
		// Unreachable: every field is a string, bool, int or string map.
		panic("ntfy: encoding publish body: " + err.Error())
	}

	return Request{
		Method:  "POST",
		URL:     target,
		Headers: buildHeaders(n),
		Body:    strings.TrimSuffix(body.String(), "\n"),
	}, nil
}

// publishURL parses server and points it at the JSON publish endpoint.
func publishURL(server string) (string, error) {
	u, err := url.ParseRequestURI(server)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", &InvalidServerURLError{URL: server}
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/"
	u.RawPath = ""
	return u.String(), nil
}

func buildBody(n Notification) publishBody {
	b := publishBody{
		Topic: n.topic,
		Title: n.title,
		Click: n.click,
		Icon:  n.icon,
		Delay: n.delay,
		Email: n.email,
		Call:  n.call,
	}
	if n.message != nil {
		n.message.encodeMessage(&b)
	}
	if n.priority != 0 {
		b.Priority = n.priority.code()
	}
	if n.tagsSet {
		tags := append(make([]string, 0, len(n.tags)), n.tags...)
		b.Tags = &tags
	}
	if n.actionsSet {
		actions := make([]any, 0, len(n.actions))
		for _, a := range n.actions {
			if a == nil {
				continue
			}
			actions = append(actions, a.encodeAction())
		}
		b.Actions = &actions
	}
	return b
}

func buildHeaders(n Notification) []Header {
	var headers []Header
	if n.login != nil {
		headers = append(headers, Header{Name: "authorization", Value: n.login.authorization()})
	}
	if n.withoutCache {
		headers = append(headers, Header{Name: "cache", Value: "no"})
	}
	if n.withoutFirebase {
		headers = append(headers, Header{Name: "firebase", Value: "no"})
	}
	return headers
}
