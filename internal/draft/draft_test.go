package draft

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sharkusmanch/ntfy-publisher/pkg/ntfy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullDraft = `
topic: alerts
title: Disk almost full
markdown: true
message: "**/dev/sda1** is at 95%"
priority: high
tags: [warning, disk]
click: https://grafana.example.com
icon: https://example.com/icon.png
delay: 30m
email: ops@example.com
call: "+15551234567"
no_cache: true
no_firebase: false
actions:
  - view: {label: Open, url: https://example.com, clear: true}
  - broadcast: {label: Take photo, intent: io.heckel.ntfy.USER_ACTION, extras: [{key: cmd, value: pic}]}
  - http: {label: Close door, method: PUT, url: https://api.example.com/door, headers: [{name: Authorization, value: x}], body: '{"open":false}'}
`

func compile(t *testing.T, n ntfy.Notification) ntfy.Request {
	t.Helper()
	req, err := ntfy.Compile(n)
	require.NoError(t, err)
	return req
}

func TestParse_FullDraft(t *testing.T) {
	d, err := Parse([]byte(fullDraft))
	require.NoError(t, err)

	n, err := d.Apply(ntfy.New())
	require.NoError(t, err)

	req := compile(t, n)
	assert.JSONEq(t, `{
		"topic": "alerts",
		"message": "**/dev/sda1** is at 95%",
		"markdown": true,
		"title": "Disk almost full",
		"tags": ["warning", "disk"],
		"priority": 4,
		"actions": [
			{"action": "view", "label": "Open", "clear": true, "url": "https://example.com"},
			{"action": "broadcast", "label": "Take photo", "clear": false, "intent": "io.heckel.ntfy.USER_ACTION", "extras": {"cmd": "pic"}},
			{"action": "broadcast", "label": "Close door", "clear": false, "url": "https://api.example.com/door", "method": "put", "headers": {"authorization": "x"}, "body": "{\"open\":false}"}
		],
		"click": "https://grafana.example.com",
		"icon": "https://example.com/icon.png",
		"delay": "1800s",
		"email": "ops@example.com",
		"call": "+15551234567"
	}`, req.Body)

	v, ok := req.Header("cache")
	assert.True(t, ok)
	assert.Equal(t, "no", v)
	_, ok = req.Header("firebase")
	assert.False(t, ok)
}

func TestApply_KeepsUnsetFields(t *testing.T) {
	base := ntfy.New().
		WithTopic("from-config").
		WithPriority(ntfy.PriorityLow).
		WithTags("cfg").
		WithoutFirebase(true)

	d, err := Parse([]byte("title: only a title\n"))
	require.NoError(t, err)

	n, err := d.Apply(base)
	require.NoError(t, err)

	req := compile(t, n)
	assert.Equal(t, `{"topic":"from-config","title":"only a title","tags":["cfg"],"priority":2}`, req.Body)
	v, _ := req.Header("firebase")
	assert.Equal(t, "no", v)
}

func TestApply_EmptyTagsClearDefaults(t *testing.T) {
	d, err := Parse([]byte("tags: []\n"))
	require.NoError(t, err)

	n, err := d.Apply(ntfy.New().WithTopic("t").WithTags("cfg"))
	require.NoError(t, err)

	assert.Equal(t, `{"topic":"t","tags":[]}`, compile(t, n).Body)
}

func TestApply_Attach(t *testing.T) {
	d, err := Parse([]byte("topic: t\nattach: {url: 'https://example.com/r.pdf', filename: report.pdf}\n"))
	require.NoError(t, err)

	n, err := d.Apply(ntfy.New())
	require.NoError(t, err)

	assert.Equal(t, `{"topic":"t","attach":"https://example.com/r.pdf","filename":"report.pdf"}`, compile(t, n).Body)
}

func TestApply_Errors(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		error string
	}{
		{"message and attach", "message: hi\nattach: {url: 'https://x'}\n", "mutually exclusive"},
		{"attach without url", "attach: {filename: a.txt}\n", "attach.url"},
		{"bad priority", "priority: loud\n", "unknown priority"},
		{"bad delay", "delay: tomorrow\n", "delay must be"},
		{"negative delay", "delay: -5m\n", "negative"},
		{"empty action", "actions:\n  - {}\n", "actions[0]"},
		{"two kinds", "actions:\n  - view: {label: a, url: 'https://a'}\n    http: {label: b, url: 'https://b'}\n", "exactly one"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)

			_, err = d.Apply(ntfy.New().WithTopic("t"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.error)
		})
	}
}

func TestApply_HTTPActionDefaultsToPost(t *testing.T) {
	d, err := Parse([]byte("actions:\n  - http: {label: Ping, url: 'https://a'}\n"))
	require.NoError(t, err)

	n, err := d.Apply(ntfy.New().WithTopic("t"))
	require.NoError(t, err)

	assert.Contains(t, compile(t, n).Body, `"method":"post"`)
}

func TestApplyDelay(t *testing.T) {
	at := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

	n, err := ApplyDelay(ntfy.New().WithTopic("t"), at.Format(time.RFC3339))
	require.NoError(t, err)
	assert.Contains(t, compile(t, n).Body, `"delay":"1893553445"`)

	n, err = ApplyDelay(ntfy.New().WithTopic("t"), "90s")
	require.NoError(t, err)
	assert.Contains(t, compile(t, n).Body, `"delay":"90s"`)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("topik: typo\n"))
	assert.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	d, err := Parse(nil)
	require.NoError(t, err)

	n, err := d.Apply(ntfy.New().WithTopic("t"))
	require.NoError(t, err)
	assert.Equal(t, `{"topic":"t"}`, compile(t, n).Body)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fullDraft), 0600))

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "alerts", d.Topic)
	assert.Len(t, d.Actions, 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
