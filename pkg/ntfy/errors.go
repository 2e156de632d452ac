package ntfy

import "fmt"

// InvalidServerURLError reports a server setting that is not an absolute URL.
type InvalidServerURLError struct {
	URL string
}

func (e *InvalidServerURLError) Error() string {
	return fmt.Sprintf("ntfy: invalid server url %q", e.URL)
}

// InvalidTopicError reports an empty topic.
type InvalidTopicError struct {
	Topic string
}

func (e *InvalidTopicError) Error() string {
	return fmt.Sprintf("ntfy: invalid topic %q", e.Topic)
}

// ClientError wraps a failure returned by the Transport.
type ClientError struct {
	Err error
}

func (e *ClientError) Error() string {
	return "ntfy: transport failed: " + e.Err.Error()
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// InvalidServerResponseError reports a response body that matches neither
// the success nor the error document.
type InvalidServerResponseError struct {
	Body string
}

func (e *InvalidServerResponseError) Error() string {
	return fmt.Sprintf("ntfy: invalid server response: %q", e.Body)
}

// ServerError is an error document returned by the server.
type ServerError struct {
	// Code is ntfy's own error code, e.g. 40003.
	Code       int
	HTTPStatus int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("ntfy: server error %d (http %d): %s", e.Code, e.HTTPStatus, e.Message)
}
