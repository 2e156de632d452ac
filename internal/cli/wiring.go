package cli

import (
	"log/slog"

	"github.com/sharkusmanch/ntfy-publisher/internal/app"
	"github.com/sharkusmanch/ntfy-publisher/internal/config"
	"github.com/sharkusmanch/ntfy-publisher/internal/http"
	"github.com/sharkusmanch/ntfy-publisher/internal/metrics"
	"github.com/sharkusmanch/ntfy-publisher/pkg/ntfy"
)

func newHTTPClient(cfg *config.Config, logger *slog.Logger) *http.Client {
	return http.NewClient(
		http.WithRetryConfig(http.RetryConfig{
			MaxAttempts:  cfg.Retry.MaxAttempts,
			InitialDelay: cfg.Retry.InitialDelay,
			MaxDelay:     cfg.Retry.MaxDelay,
		}),
		http.WithTimeout(cfg.Retry.Timeout),
		http.WithLogger(logger),
	)
}

func newMetricsPusher(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) *metrics.PushgatewayClient {
	return metrics.NewPushgatewayClient(
		cfg.Metrics.PushgatewayURL,
		metrics.WithJob(cfg.Metrics.Job),
		metrics.WithHTTPClient(httpClient),
		metrics.WithLogger(logger),
	)
}

// newPublisher assembles the transport and metrics for cfg.
func newPublisher(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) *app.Publisher {
	var transport ntfy.Transport = httpClient
	opts := []app.PublisherOption{app.WithLogger(logger)}

	if cfg.Metrics.Enabled {
		pusher := newMetricsPusher(cfg, httpClient, logger)
		transport = pusher.Transport(transport)
		opts = append(opts, app.WithMetricsPusher(pusher))
	}

	return app.NewPublisher(transport, opts...)
}
