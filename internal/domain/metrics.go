package domain

import "context"

// MetricsPusher records publish results and exports them to a remote endpoint.
type MetricsPusher interface {
	// Push records result and sends the accumulated metrics.
	Push(ctx context.Context, result *PublishResult) error

	// Validate checks if the pusher is properly configured.
	Validate(ctx context.Context) error
}
