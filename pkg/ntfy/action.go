package ntfy

import "strings"

// Action is a button attached to a notification: ViewAction, BroadcastAction or HTTPAction.
type Action interface {
	encodeAction() any
}

// ViewAction opens URL when tapped.
type ViewAction struct {
	Label string
	URL   string
	// Clear dismisses the notification after the action runs.
	Clear bool
}

// Extra is a key/value pair passed with an Android broadcast intent.
type Extra struct {
	Key   string
	Value string
}

// BroadcastAction sends an Android broadcast intent when tapped.
type BroadcastAction struct {
	Label  string
	Intent string
	Extras []Extra
	Clear  bool
}

// Header is a single HTTP header.
type Header struct {
	Name  string
	Value string
}

// ActionRequest is the HTTP call an HTTPAction makes.
type ActionRequest struct {
	Method  string
	URL     string
	Headers []Header
	Body    string
}

// HTTPAction performs Request when tapped.
type HTTPAction struct {
	Label   string
	Request ActionRequest
	Clear   bool
}

// Each variant has its own wire shape; every key is always present.
type viewBody struct {
	Action string `json:"action"`
	Label  string `json:"label"`
	Clear  bool   `json:"clear"`
	URL    string `json:"url"`
}

type broadcastBody struct {
	Action string            `json:"action"`
	Label  string            `json:"label"`
	Clear  bool              `json:"clear"`
	Intent string            `json:"intent"`
	Extras map[string]string `json:"extras"`
}

type httpBody struct {
	Action  string            `json:"action"`
	Label   string            `json:"label"`
	Clear   bool              `json:"clear"`
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body"`
}

func (a ViewAction) encodeAction() any {
	return viewBody{
		Action: "view",
		Label:  a.Label,
		Clear:  a.Clear,
		URL:    a.URL,
	}
}

func (a BroadcastAction) encodeAction() any {
	extras := make(map[string]string, len(a.Extras))
	for _, e := range a.Extras {
		extras[e.Key] = e.Value
	}
	return broadcastBody{
		Action: "broadcast",
		Label:  a.Label,
		Clear:  a.Clear,
		Intent: a.Intent,
		Extras: extras,
	}
}

// HTTP actions go out tagged "broadcast"; existing consumers of this wire format expect it.
func (a HTTPAction) encodeAction() any {
	headers := make(map[string]string, len(a.Request.Headers))
	for _, h := range a.Request.Headers {
		headers[strings.ToLower(h.Name)] = h.Value
	}
	return httpBody{
		Action:  "broadcast",
		Label:   a.Label,
		Clear:   a.Clear,
		Method:  strings.ToLower(a.Request.Method),
		URL:     a.Request.URL,
		Headers: headers,
		Body:    a.Request.Body,
	}
}
