// Package draft reads notifications written as YAML files.
package draft

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sharkusmanch/ntfy-publisher/pkg/ntfy"
	"gopkg.in/yaml.v3"
)

// Draft is a notification as written in a YAML file. Unset fields leave the
// notification they are applied to unchanged.
type Draft struct {
	Topic      string    `yaml:"topic"`
	Title      string    `yaml:"title"`
	Message    *string   `yaml:"message"`
	Markdown   *bool     `yaml:"markdown"`
	Attach     *Attach   `yaml:"attach"`
	Priority   string    `yaml:"priority"`
	Tags       *[]string `yaml:"tags"`
	Click      string    `yaml:"click"`
	Icon       string    `yaml:"icon"`
	Delay      string    `yaml:"delay"`
	Email      string    `yaml:"email"`
	Call       string    `yaml:"call"`
	NoCache    *bool     `yaml:"no_cache"`
	NoFirebase *bool     `yaml:"no_firebase"`
	Actions    []Action  `yaml:"actions"`
}

// Attach references a file hosted elsewhere.
type Attach struct {
	URL      string `yaml:"url"`
	Filename string `yaml:"filename"`
}

// Action holds exactly one of its fields.
type Action struct {
	View      *ViewAction      `yaml:"view"`
	Broadcast *BroadcastAction `yaml:"broadcast"`
	HTTP      *HTTPAction      `yaml:"http"`
}

// ViewAction opens a URL.
type ViewAction struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
	Clear bool   `yaml:"clear"`
}

// BroadcastAction sends an Android broadcast intent.
type BroadcastAction struct {
	Label  string `yaml:"label"`
	Intent string `yaml:"intent"`
	Extras []struct {
		Key   string `yaml:"key"`
		Value string `yaml:"value"`
	} `yaml:"extras"`
	Clear bool `yaml:"clear"`
}

// HTTPAction sends an HTTP request.
type HTTPAction struct {
	Label   string `yaml:"label"`
	Method  string `yaml:"method"`
	URL     string `yaml:"url"`
	Headers []struct {
		Name  string `yaml:"name"`
		Value string `yaml:"value"`
	} `yaml:"headers"`
	Body  string `yaml:"body"`
	Clear bool   `yaml:"clear"`
}

// Load reads a draft from path.
func Load(path string) (*Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read draft: %w", err)
	}

	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Parse decodes a draft, rejecting unknown fields.
func Parse(data []byte) (*Draft, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var d Draft
	if err := dec.Decode(&d); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse draft: %w", err)
	}
	return &d, nil
}

// Apply returns n with every field set in d applied on top.
func (d *Draft) Apply(n ntfy.Notification) (ntfy.Notification, error) {
	if d.Topic != "" {
		n = n.WithTopic(d.Topic)
	}
	if d.Title != "" {
		n = n.WithTitle(d.Title)
	}

	switch {
	case d.Attach != nil && d.Message != nil:
		return n, fmt.Errorf("message and attach are mutually exclusive")
	case d.Attach != nil:
		if d.Attach.URL == "" {
			return n, fmt.Errorf("attach.url is required")
		}
		n = n.WithFile(d.Attach.Filename, d.Attach.URL)
	case d.Message != nil && d.Markdown != nil && *d.Markdown:
		n = n.WithMarkdown(*d.Message)
	case d.Message != nil:
		n = n.WithText(*d.Message)
	}

	if d.Priority != "" {
		p, err := ntfy.ParsePriority(d.Priority)
		if err != nil {
			return n, err
		}
		n = n.WithPriority(p)
	}
	if d.Tags != nil {
		n = n.WithTags(*d.Tags...)
	}
	if d.Click != "" {
		n = n.WithClick(d.Click)
	}
	if d.Icon != "" {
		n = n.WithIcon(d.Icon)
	}
	if d.Delay != "" {
		var err error
		if n, err = ApplyDelay(n, d.Delay); err != nil {
			return n, err
		}
	}
	if d.Email != "" {
		n = n.WithEmail(d.Email)
	}
	if d.Call != "" {
		n = n.WithCall(d.Call)
	}
	if d.NoCache != nil {
		n = n.WithoutCache(*d.NoCache)
	}
	if d.NoFirebase != nil {
		n = n.WithoutFirebase(*d.NoFirebase)
	}

	if d.Actions != nil {
		actions := make([]ntfy.Action, 0, len(d.Actions))
		for i, a := range d.Actions {
			action, err := a.build()
			if err != nil {
				return n, fmt.Errorf("actions[%d]: %w", i, err)
			}
			actions = append(actions, action)
		}
		n = n.WithActions(actions...)
	}

	return n, nil
}

// ApplyDelay sets the delivery delay from a duration ("30m") or an RFC 3339
// timestamp.
func ApplyDelay(n ntfy.Notification, delay string) (ntfy.Notification, error) {
	if d, err := time.ParseDuration(delay); err == nil {
		if d < 0 {
			return n, fmt.Errorf("delay cannot be negative: %s", delay)
		}
		return n.WithDelay(d), nil
	}
	if t, err := time.Parse(time.RFC3339, delay); err == nil {
		return n.WithDelayUntil(t), nil
	}
	return n, fmt.Errorf("delay must be a duration or an RFC 3339 time, got %q", delay)
}

func (a Action) build() (ntfy.Action, error) {
	set := 0
	for _, ok := range []bool{a.View != nil, a.Broadcast != nil, a.HTTP != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("exactly one of view, broadcast or http must be set")
	}

	switch {
	case a.View != nil:
		return ntfy.ViewAction{Label: a.View.Label, URL: a.View.URL, Clear: a.View.Clear}, nil
	case a.Broadcast != nil:
		b := ntfy.BroadcastAction{Label: a.Broadcast.Label, Intent: a.Broadcast.Intent, Clear: a.Broadcast.Clear}
		for _, e := range a.Broadcast.Extras {
			b.Extras = append(b.Extras, ntfy.Extra{Key: e.Key, Value: e.Value})
		}
		return b, nil
	default:
		req := ntfy.ActionRequest{Method: a.HTTP.Method, URL: a.HTTP.URL, Body: a.HTTP.Body}
		if req.Method == "" {
			req.Method = "POST"
		}
		for _, h := range a.HTTP.Headers {
			req.Headers = append(req.Headers, ntfy.Header{Name: h.Name, Value: h.Value})
		}
		return ntfy.HTTPAction{Label: a.HTTP.Label, Request: req, Clear: a.HTTP.Clear}, nil
	}
}
