package tracker

// config.go defines Tracker's functional options.
//
// © 2025 parcelgo authors. MIT License.

import "go.uber.org/zap"

// config is the internal configuration object assembled by New. A generic
// Option is unnecessary here (Tracker is not parameterized over K/V the way
// the teacher's Cache is), but the functional-options shape itself is kept:
// all fields get sensible defaults in defaultConfig, and Option mutates them.
type config struct {
	logger  *zap.Logger
	metrics metricsSink
}

func defaultConfig() *config {
	return &config{
		logger:  zap.NewNop(),
		metrics: noopMetrics{},
	}
}

// Option customizes a Tracker built by New.
type Option func(*config)

// WithLogger attaches a structured logger. The zero value is zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics attaches a Prometheus-backed metrics sink. Without this
// option the tracker records no metrics.
func WithMetrics(m metricsSink) Option {
	return func(c *config) {
		if m != nil {
			c.metrics = m
		}
	}
}

func applyOptions(c *config, opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}
