package rxflow

import (
	"log/slog"

	"github.com/randalmurphal/rxflow/pkg/rxflow/observability"
)

// subscribeConfig holds per-subscription instrumentation.
type subscribeConfig struct {
	logger  *slog.Logger
	metrics observability.MetricsRecorder
}

func defaultSubscribeConfig() subscribeConfig {
	return subscribeConfig{
		metrics: observability.NoopMetrics{},
	}
}

// SubscribeOption configures a subscription.
type SubscribeOption func(*subscribeConfig)

// WithLogger sets the logger for subscription lifecycle, stage failures and
// unhandled errors. A nil logger disables logging.
//
// Example:
//
//	sub := results.Subscribe(show, nil, nil, rxflow.WithLogger(slog.Default()))
func WithLogger(logger *slog.Logger) SubscribeOption {
	return func(c *subscribeConfig) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder for deliveries, suppressed
// deliveries, stage errors and debounce drops.
func WithMetrics(m observability.MetricsRecorder) SubscribeOption {
	return func(c *subscribeConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

func buildSubscribeConfig(opts []SubscribeOption) subscribeConfig {
	cfg := defaultSubscribeConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
