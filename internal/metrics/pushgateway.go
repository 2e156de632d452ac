// Package metrics records publish results as Prometheus metrics and pushes
// them to a Pushgateway.
package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/sharkusmanch/ntfy-publisher/internal/domain"
	"github.com/sharkusmanch/ntfy-publisher/internal/http"
	"github.com/sharkusmanch/ntfy-publisher/pkg/ntfy"
	"github.com/sharkusmanch/ntfy-publisher/pkg/version"
)

const namespace = "ntfy_publisher"

// PushgatewayClient keeps publish metrics in its own registry and pushes
// them to a Prometheus Pushgateway.
type PushgatewayClient struct {
	url        string
	job        string
	instance   string
	httpClient *http.Client
	doer       push.HTTPDoer
	logger     *slog.Logger

	registry    *prometheus.Registry
	published   *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	lastSuccess *prometheus.GaugeVec
	responses   *prometheus.CounterVec
}

// PushgatewayOption configures a PushgatewayClient.
type PushgatewayOption func(*PushgatewayClient)

// WithHTTPClient sets the client used for connectivity checks.
func WithHTTPClient(client *http.Client) PushgatewayOption {
	return func(p *PushgatewayClient) {
		p.httpClient = client
	}
}

// WithDoer sets the client used to push metrics.
func WithDoer(doer push.HTTPDoer) PushgatewayOption {
	return func(p *PushgatewayClient) {
		p.doer = doer
	}
}

// WithJob sets the Pushgateway job name.
func WithJob(job string) PushgatewayOption {
	return func(p *PushgatewayClient) {
		p.job = job
	}
}

// WithInstance sets the instance grouping label. Defaults to the hostname.
func WithInstance(instance string) PushgatewayOption {
	return func(p *PushgatewayClient) {
		p.instance = instance
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) PushgatewayOption {
	return func(p *PushgatewayClient) {
		p.logger = logger
	}
}

// NewPushgatewayClient creates a new PushgatewayClient.
func NewPushgatewayClient(url string, opts ...PushgatewayOption) *PushgatewayClient {
	hostname, _ := os.Hostname()

	p := &PushgatewayClient{
		url:        strings.TrimSuffix(url, "/"),
		job:        "ntfy_publisher",
		instance:   hostname,
		httpClient: http.NewClient(),
		logger:     slog.Default(),
		registry:   prometheus.NewRegistry(),
		published: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "messages_total",
				Help:      "Total number of publish attempts by outcome",
			},
			[]string{"topic", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "publish_duration_seconds",
				Help:      "Duration of publish attempts in seconds, including retries",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"topic"},
		),
		lastSuccess: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_success_timestamp_seconds",
				Help:      "Unix timestamp of the last accepted message",
			},
			[]string{"topic"},
		),
		responses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_responses_total",
				Help:      "HTTP responses received from the ntfy server by status code",
			},
			[]string{"code"},
		),
	}

	for _, opt := range opts {
		opt(p)
	}

	info := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "info",
		Help:        "Build information",
		ConstLabels: prometheus.Labels{"version": version.Get().Short(), "go_version": runtime.Version()},
	})
	info.Set(1)

	p.registry.MustRegister(p.published, p.duration, p.lastSuccess, p.responses, info)

	return p
}

// Observe records result without pushing.
func (p *PushgatewayClient) Observe(result *domain.PublishResult) {
	p.published.WithLabelValues(result.Topic, result.Outcome.String()).Inc()
	p.duration.WithLabelValues(result.Topic).Observe(result.Duration.Seconds())
	if result.Success() {
		p.lastSuccess.WithLabelValues(result.Topic).Set(float64(result.EndTime.Unix()))
	}
}

// Push records result and pushes all metrics to the Pushgateway.
func (p *PushgatewayClient) Push(ctx context.Context, result *domain.PublishResult) error {
	if result != nil {
		p.Observe(result)
	}

	p.logger.Debug("pushing metrics to pushgateway",
		"url", p.url,
		"job", p.job,
		"instance", p.instance,
	)

	pusher := push.New(p.url, p.job).
		Gatherer(p.registry).
		Grouping("instance", p.instance)
	if p.doer != nil {
		pusher = pusher.Client(p.doer)
	}

	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}

	p.logger.Debug("metrics pushed successfully")
	return nil
}

// Validate checks if the Pushgateway is reachable.
func (p *PushgatewayClient) Validate(ctx context.Context) error {
	readyURL := fmt.Sprintf("%s/-/ready", p.url)

	if err := p.httpClient.CheckConnectivity(ctx, readyURL); err != nil {
		// Older gateways have no readiness endpoint.
		if err2 := p.httpClient.CheckConnectivity(ctx, p.url); err2 != nil {
			return fmt.Errorf("pushgateway not reachable at %s: %w", p.url, err)
		}
	}

	return nil
}

// Transport wraps next so every server response is counted by status code.
func (p *PushgatewayClient) Transport(next ntfy.Transport) ntfy.Transport {
	return ntfy.TransportFunc(func(ctx context.Context, req ntfy.Request) (ntfy.Response, error) {
		resp, err := next.Publish(ctx, req)
		if err == nil {
			p.responses.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
		}
		return resp, err
	})
}

// Registry exposes the registry holding the publish metrics.
func (p *PushgatewayClient) Registry() *prometheus.Registry {
	return p.registry
}

// Ensure PushgatewayClient implements domain.MetricsPusher.
var _ domain.MetricsPusher = (*PushgatewayClient)(nil)
