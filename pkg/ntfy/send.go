package ntfy

import (
	"context"
	"encoding/json"
)

// Response is what a Transport got back from the server.
type Response struct {
	StatusCode int
	Headers    []Header
	Body       string
}

// Transport delivers a compiled Request. Retries, timeouts and connection
// handling are the Transport's business.
type Transport interface {
	Publish(ctx context.Context, req Request) (Response, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req Request) (Response, error)

// Publish calls f.
func (f TransportFunc) Publish(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}

// Send compiles n, publishes it through t and returns the message id assigned
// by the server. ctx is passed to t untouched.
func Send(ctx context.Context, n Notification, t Transport) (string, error) {
	req, err := Compile(n)
	if err != nil {
		return "", err
	}

	resp, err := t.Publish(ctx, req)
	if err != nil {
		return "", &ClientError{Err: err}
	}

	return decodeResponse(resp)
}

type successBody struct {
	ID *string `json:"id"`
}

type errorBody struct {
	Code  *int    `json:"code"`
	HTTP  *int    `json:"http"`
	Error *string `json:"error"`
}

func decodeResponse(resp Response) (string, error) {
	if resp.StatusCode == 200 {
		var ok successBody
		if err := json.Unmarshal([]byte(resp.Body), &ok); err != nil || ok.ID == nil {
			return "", &InvalidServerResponseError{Body: resp.Body}
		}
		return *ok.ID, nil
	}

	var fail errorBody
	if err := json.Unmarshal([]byte(resp.Body), &fail); err != nil ||
		fail.Code == nil || fail.HTTP == nil || fail.Error == nil {
		return "", &InvalidServerResponseError{Body: resp.Body}
	}
	return "", &ServerError{
		Code:       *fail.Code,
		HTTPStatus: *fail.HTTP,
		Message:    *fail.Error,
	}
}

// Publisher sends notifications through a fixed Transport.
type Publisher struct {
	transport Transport
}

// NewPublisher creates a Publisher using t.
func NewPublisher(t Transport) *Publisher {
	return &Publisher{transport: t}
}

// Send is Send(ctx, n, p's transport).
func (p *Publisher) Send(ctx context.Context, n Notification) (string, error) {
	return Send(ctx, n, p.transport)
}
