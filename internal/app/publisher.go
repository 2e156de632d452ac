// Package app provides the core application logic.
package app

import (
	"context"
	"log/slog"

	"github.com/sharkusmanch/ntfy-publisher/internal/domain"
	"github.com/sharkusmanch/ntfy-publisher/pkg/ntfy"
)

// Publisher sends notifications over a transport and records the outcome.
type Publisher struct {
	transport     ntfy.Transport
	metricsPusher domain.MetricsPusher
	logger        *slog.Logger
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithMetricsPusher sets the metrics pusher.
func WithMetricsPusher(m domain.MetricsPusher) PublisherOption {
	return func(p *Publisher) {
		p.metricsPusher = m
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = l
	}
}

// NewPublisher creates a Publisher sending through transport.
func NewPublisher(transport ntfy.Transport, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		transport: transport,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Publish sends n. A failed metrics push is logged and does not fail the publish.
func (p *Publisher) Publish(ctx context.Context, n ntfy.Notification) (*domain.PublishResult, error) {
	result := domain.NewPublishResult(n)

	p.logger.Debug("publishing notification", "server", result.Server, "topic", result.Topic)

	id, err := ntfy.Send(ctx, n, p.transport)
	result.Complete(id, err)

	if err != nil {
		p.logger.Error("publish failed",
			"topic", result.Topic,
			"outcome", result.Outcome,
			"error", err,
		)
	} else {
		p.logger.Info("notification published",
			"topic", result.Topic,
			"id", id,
			"duration", result.Duration,
		)
	}

	if p.metricsPusher != nil {
		if pushErr := p.metricsPusher.Push(ctx, result); pushErr != nil {
			p.logger.Warn("failed to push metrics", "error", pushErr)
		}
	}

	return result, err
}

// Ensure Publisher implements domain.Publisher.
var _ domain.Publisher = (*Publisher)(nil)
