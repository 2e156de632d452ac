package metrics

import (
	"context"

	"github.com/sharkusmanch/ntfy-publisher/internal/domain"
)

// MockPusher is a mock implementation of domain.MetricsPusher for testing.
type MockPusher struct {
	PushFunc     func(ctx context.Context, result *domain.PublishResult) error
	ValidateFunc func(ctx context.Context) error

	// Results stores every result that has been pushed.
	Results []*domain.PublishResult
}

// Push calls the mock PushFunc and stores the result.
func (m *MockPusher) Push(ctx context.Context, result *domain.PublishResult) error {
	m.Results = append(m.Results, result)
	if m.PushFunc != nil {
		return m.PushFunc(ctx, result)
	}
	return nil
}

// Validate calls the mock ValidateFunc.
func (m *MockPusher) Validate(ctx context.Context) error {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx)
	}
	return nil
}

// Ensure MockPusher implements domain.MetricsPusher.
var _ domain.MetricsPusher = (*MockPusher)(nil)
