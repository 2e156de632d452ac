// Package domain defines core business types and interfaces.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/sharkusmanch/ntfy-publisher/pkg/ntfy"
)

// Outcome classifies how a publish attempt ended.
type Outcome string

const (
	// OutcomeSuccess means the server accepted the message.
	OutcomeSuccess Outcome = "success"
	// OutcomeInvalidRequest means the notification failed validation and was never sent.
	OutcomeInvalidRequest Outcome = "invalid_request"
	// OutcomeClientError means the transport failed.
	OutcomeClientError Outcome = "client_error"
	// OutcomeServerError means the server answered with an error document.
	OutcomeServerError Outcome = "server_error"
	// OutcomeInvalidResponse means the server answer could not be decoded.
	OutcomeInvalidResponse Outcome = "invalid_response"
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	return string(o)
}

// ClassifyError maps an error returned by ntfy.Send to an Outcome.
func ClassifyError(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}

	var (
		urlErr      *ntfy.InvalidServerURLError
		topicErr    *ntfy.InvalidTopicError
		serverErr   *ntfy.ServerError
		responseErr *ntfy.InvalidServerResponseError
	)
	switch {
	case errors.As(err, &urlErr), errors.As(err, &topicErr):
		return OutcomeInvalidRequest
	case errors.As(err, &serverErr):
		return OutcomeServerError
	case errors.As(err, &responseErr):
		return OutcomeInvalidResponse
	default:
		// *ntfy.ClientError and anything a Publisher adds around it.
		return OutcomeClientError
	}
}

// PublishResult describes one publish attempt.
type PublishResult struct {
	Server    string        `json:"server"`
	Topic     string        `json:"topic"`
	MessageID string        `json:"message_id,omitempty"`
	Outcome   Outcome       `json:"outcome"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`

	// ServerCode is ntfy's error code when Outcome is OutcomeServerError.
	ServerCode int `json:"server_code,omitempty"`
}

// NewPublishResult starts a result for n.
func NewPublishResult(n ntfy.Notification) *PublishResult {
	return &PublishResult{
		Server:    n.Server(),
		Topic:     n.Topic(),
		StartTime: time.Now(),
	}
}

// Complete records the id or error returned by ntfy.Send.
func (r *PublishResult) Complete(id string, err error) {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
	r.MessageID = id
	r.Outcome = ClassifyError(err)
	if err != nil {
		r.Error = err.Error()
	}

	var serverErr *ntfy.ServerError
	if errors.As(err, &serverErr) {
		r.ServerCode = serverErr.Code
	}
}

// Success reports whether the server accepted the message.
func (r *PublishResult) Success() bool {
	return r.Outcome == OutcomeSuccess
}

// Publisher sends a fully built notification.
type Publisher interface {
	// Publish sends n. The result is returned even when err is non-nil.
	Publish(ctx context.Context, n ntfy.Notification) (*PublishResult, error)
}
