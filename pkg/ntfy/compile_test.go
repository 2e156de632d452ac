package ntfy

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileBody(t *testing.T, n Notification) map[string]any {
	t.Helper()
	req, err := Compile(n)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(req.Body), &body))
	return body
}

func TestCompile_TopicOnly(t *testing.T) {
	req, err := Compile(New().WithTopic("t"))

	require.NoError(t, err)
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "https://ntfy.sh/", req.URL)
	assert.Equal(t, `{"topic":"t"}`, req.Body)
	assert.Empty(t, req.Headers)
}

func TestCompile_Deterministic(t *testing.T) {
	n := New().
		WithTopic("t").
		WithBasicAuth("u", "p").
		WithActions(
			BroadcastAction{Label: "b", Extras: []Extra{{"z", "1"}, {"a", "2"}, {"m", "3"}}},
			HTTPAction{Label: "h", Request: ActionRequest{Method: "POST", Headers: []Header{{"B", "1"}, {"A", "2"}}}},
		)

	first, err := Compile(n)
	require.NoError(t, err)
	second, err := Compile(n)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCompile_InvalidTopic(t *testing.T) {
	n := New().
		WithTitle("title").
		WithToken("token").
		WithTags("a").
		WithPriority(PriorityHigh)

	_, err := Compile(n)

	var topicErr *InvalidTopicError
	require.True(t, errors.As(err, &topicErr))
	assert.Equal(t, "", topicErr.Topic)
}

func TestCompile_InvalidServerURL(t *testing.T) {
	for _, server := range []string{"", "not a url", "ntfy.sh", "mailto:someone", "http://"} {
		t.Run(server, func(t *testing.T) {
			// Topic left empty: the URL check runs first.
			_, err := Compile(New().WithServer(server))

			var urlErr *InvalidServerURLError
			require.True(t, errors.As(err, &urlErr), "got %v", err)
			assert.Equal(t, server, urlErr.URL)
		})
	}
}

func TestCompile_ServerPath(t *testing.T) {
	tests := []struct {
		server string
		want   string
	}{
		{"https://ntfy.sh", "https://ntfy.sh/"},
		{"https://ntfy.sh/", "https://ntfy.sh/"},
		{"http://localhost:8080", "http://localhost:8080/"},
		{"https://example.com/ntfy", "https://example.com/ntfy/"},
	}

	for _, tt := range tests {
		t.Run(tt.server, func(t *testing.T) {
			req, err := Compile(New().WithServer(tt.server).WithTopic("t"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.URL)
		})
	}
}

func TestCompile_Messages(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		req, err := Compile(New().WithTopic("t").WithText("hello"))
		require.NoError(t, err)
		assert.Equal(t, `{"topic":"t","message":"hello"}`, req.Body)
	})

	t.Run("markdown", func(t *testing.T) {
		req, err := Compile(New().WithTopic("t").WithMarkdown("**hello**"))
		require.NoError(t, err)
		assert.Equal(t, `{"topic":"t","message":"**hello**","markdown":true}`, req.Body)
	})

	t.Run("file", func(t *testing.T) {
		body := compileBody(t, New().WithTopic("t").WithFile("report.pdf", "https://example.com/r.pdf"))
		assert.Equal(t, "https://example.com/r.pdf", body["attach"])
		assert.Equal(t, "report.pdf", body["filename"])
		assert.NotContains(t, body, "message")
		assert.NotContains(t, body, "markdown")
	})

	t.Run("empty text is still sent", func(t *testing.T) {
		req, err := Compile(New().WithTopic("t").WithText(""))
		require.NoError(t, err)
		assert.Equal(t, `{"topic":"t","message":""}`, req.Body)
	})

	t.Run("empty markdown is still sent", func(t *testing.T) {
		req, err := Compile(New().WithTopic("t").WithMarkdown(""))
		require.NoError(t, err)
		assert.Equal(t, `{"topic":"t","message":"","markdown":true}`, req.Body)
	})

	t.Run("file without filename", func(t *testing.T) {
		req, err := Compile(New().WithTopic("t").WithFile("", "https://a"))
		require.NoError(t, err)
		assert.Equal(t, `{"topic":"t","attach":"https://a","filename":""}`, req.Body)
	})

	t.Run("file replaces text", func(t *testing.T) {
		body := compileBody(t, New().WithTopic("t").WithText("hello").WithFile("a", "https://a"))
		assert.NotContains(t, body, "message")
		assert.Contains(t, body, "attach")
	})
}

func TestCompile_NoHTMLEscaping(t *testing.T) {
	req, err := Compile(New().WithTopic("t").WithClick("https://x/?a=1&b=<2>").WithText("a > b & c"))

	require.NoError(t, err)
	assert.Equal(t, `{"topic":"t","message":"a > b & c","click":"https://x/?a=1&b=<2>"}`, req.Body)
	assert.False(t, strings.HasSuffix(req.Body, "\n"))
}

func TestCompile_Priority(t *testing.T) {
	for _, p := range []Priority{PriorityVeryLow, PriorityLow, PriorityNormal, PriorityHigh, PriorityVeryHigh} {
		t.Run(p.String(), func(t *testing.T) {
			body := compileBody(t, New().WithTopic("t").WithPriority(p))
			assert.Equal(t, float64(p.code()), body["priority"])
		})
	}
}

func TestCompile_Tags(t *testing.T) {
	t.Run("unset", func(t *testing.T) {
		body := compileBody(t, New().WithTopic("t"))
		assert.NotContains(t, body, "tags")
	})

	t.Run("empty", func(t *testing.T) {
		req, err := Compile(New().WithTopic("t").WithTags())
		require.NoError(t, err)
		assert.Equal(t, `{"topic":"t","tags":[]}`, req.Body)
	})

	t.Run("ordered", func(t *testing.T) {
		req, err := Compile(New().WithTopic("t").WithTags("b", "a", "c"))
		require.NoError(t, err)
		assert.Equal(t, `{"topic":"t","tags":["b","a","c"]}`, req.Body)
	})
}

func TestCompile_ScalarFields(t *testing.T) {
	n := New().
		WithTopic("t").
		WithTitle("title").
		WithClick("https://click").
		WithIcon("https://icon").
		WithDelay(30 * time.Minute).
		WithEmail("me@example.com").
		WithCall("+15551234").
		WithToken("secret")

	req, err := Compile(n)

	require.NoError(t, err)
	assert.Equal(t,
		`{"topic":"t","title":"title","click":"https://click","icon":"https://icon","delay":"1800s","email":"me@example.com","call":"+15551234"}`,
		req.Body,
	)
	assert.NotContains(t, req.Body, "secret")
}

func TestCompile_Actions(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		req, err := Compile(New().WithTopic("t").WithActions())
		require.NoError(t, err)
		assert.Equal(t, `{"topic":"t","actions":[]}`, req.Body)
	})

	t.Run("view", func(t *testing.T) {
		req, err := Compile(New().WithTopic("t").WithActions(
			ViewAction{Label: "Open", URL: "https://example.com", Clear: true},
		))
		require.NoError(t, err)
		assert.JSONEq(t,
			`{"topic":"t","actions":[{"action":"view","label":"Open","clear":true,"url":"https://example.com"}]}`,
			req.Body,
		)
	})

	t.Run("broadcast", func(t *testing.T) {
		req, err := Compile(New().WithTopic("t").WithActions(
			BroadcastAction{
				Label:  "Photo",
				Intent: "io.heckel.ntfy.USER_ACTION",
				Extras: []Extra{{Key: "cmd", Value: "pic"}, {Key: "camera", Value: "front"}},
			},
		))
		require.NoError(t, err)
		assert.JSONEq(t,
			`{"topic":"t","actions":[{"action":"broadcast","label":"Photo","clear":false,"intent":"io.heckel.ntfy.USER_ACTION","extras":{"cmd":"pic","camera":"front"}}]}`,
			req.Body,
		)
	})

	t.Run("http", func(t *testing.T) {
		req, err := Compile(New().WithTopic("t").WithActions(
			HTTPAction{
				Label: "label",
				Request: ActionRequest{
					Method:  "PUT",
					URL:     "https://example.com",
					Headers: []Header{{Name: "X-Test", Value: "test header"}},
					Body:    "test body",
				},
				Clear: false,
			},
		))
		require.NoError(t, err)
		assert.Equal(t,
			`{"topic":"t","actions":[{"action":"broadcast","label":"label","clear":false,"method":"put","url":"https://example.com","headers":{"x-test":"test header"},"body":"test body"}]}`,
			req.Body,
		)
	})

	t.Run("http duplicate headers", func(t *testing.T) {
		body := compileBody(t, New().WithTopic("t").WithActions(
			HTTPAction{Request: ActionRequest{
				Method:  "GET",
				Headers: []Header{{"X-A", "first"}, {"x-a", "second"}},
			}},
		))
		actions := body["actions"].([]any)
		headers := actions[0].(map[string]any)["headers"]
		assert.Equal(t, map[string]any{"x-a": "second"}, headers)
	})

	t.Run("broadcast without extras", func(t *testing.T) {
		req, err := Compile(New().WithTopic("t").WithActions(BroadcastAction{Label: "b"}))
		require.NoError(t, err)
		assert.Equal(t,
			`{"topic":"t","actions":[{"action":"broadcast","label":"b","clear":false,"intent":"","extras":{}}]}`,
			req.Body,
		)
	})

	t.Run("http without headers or body", func(t *testing.T) {
		req, err := Compile(New().WithTopic("t").WithActions(
			HTTPAction{Label: "h", Request: ActionRequest{Method: "GET", URL: "https://x"}},
		))
		require.NoError(t, err)
		assert.Equal(t,
			`{"topic":"t","actions":[{"action":"broadcast","label":"h","clear":false,"method":"get","url":"https://x","headers":{},"body":""}]}`,
			req.Body,
		)
	})

	t.Run("view without url", func(t *testing.T) {
		req, err := Compile(New().WithTopic("t").WithActions(ViewAction{Label: "v"}))
		require.NoError(t, err)
		assert.Equal(t, `{"topic":"t","actions":[{"action":"view","label":"v","clear":false,"url":""}]}`, req.Body)
	})

	t.Run("order preserved", func(t *testing.T) {
		body := compileBody(t, New().WithTopic("t").WithActions(
			ViewAction{Label: "1"},
			BroadcastAction{Label: "2"},
			HTTPAction{Label: "3"},
		))
		actions := body["actions"].([]any)
		require.Len(t, actions, 3)
		for i, label := range []string{"1", "2", "3"} {
			assert.Equal(t, label, actions[i].(map[string]any)["label"])
		}
	})
}

func TestCompile_Headers(t *testing.T) {
	t.Run("basic auth", func(t *testing.T) {
		req, err := Compile(New().WithTopic("t").WithBasicAuth("username", "password"))
		require.NoError(t, err)
		assert.Equal(t, []Header{{Name: "authorization", Value: "Basic dXNlcm5hbWU6cGFzc3dvcmQ"}}, req.Headers)
	})

	t.Run("token", func(t *testing.T) {
		req, err := Compile(New().WithTopic("t").WithToken("token"))
		require.NoError(t, err)
		assert.Equal(t, []Header{{Name: "authorization", Value: "Bearer token"}}, req.Headers)
	})

	t.Run("flags", func(t *testing.T) {
		req, err := Compile(New().WithTopic("t").WithoutFirebase(true).WithoutCache(true))
		require.NoError(t, err)
		assert.Equal(t, []Header{{"cache", "no"}, {"firebase", "no"}}, req.Headers)
	})

	t.Run("canonical order", func(t *testing.T) {
		req, err := Compile(New().WithoutFirebase(true).WithoutCache(true).WithToken("tk").WithTopic("t"))
		require.NoError(t, err)
		assert.Equal(t, []Header{
			{"authorization", "Bearer tk"},
			{"cache", "no"},
			{"firebase", "no"},
		}, req.Headers)

		v, ok := req.Header("Authorization")
		assert.True(t, ok)
		assert.Equal(t, "Bearer tk", v)
	})

	t.Run("flags off", func(t *testing.T) {
		req, err := Compile(New().WithTopic("t").WithoutCache(true).WithoutCache(false))
		require.NoError(t, err)
		assert.Empty(t, req.Headers)
	})
}
