package buffer

import (
	"github.com/c360/streamkit/metric"
)

// Option configures buffer behavior using the functional options pattern.
type Option[T any] func(*bufferOptions[T])

// bufferOptions holds internal configuration for buffer instances.
// Statistics are always collected and are not configurable; metrics are
// optional and enabled via WithMetrics.
type bufferOptions[T any] struct {
	strategy     Strategy
	dropCallback DropCallback[T]

	// metricsReg is optional - if provided, buffer activity is also exposed
	// as Prometheus metrics under metricsPrefix.
	metricsReg    *metric.MetricsRegistry
	metricsPrefix string
}

// WithStrategy selects the full/empty disambiguation strategy.
// Defaults to GuardSlot if not specified.
func WithStrategy[T any](strategy Strategy) Option[T] {
	return func(opts *bufferOptions[T]) {
		opts.strategy = strategy
	}
}

// WithDropCallback sets a callback invoked with each element discarded by
// an overwrite. The callback runs outside the buffer's lock.
func WithDropCallback[T any](callback DropCallback[T]) Option[T] {
	return func(opts *bufferOptions[T]) {
		opts.dropCallback = callback
	}
}

// WithMetrics enables Prometheus metrics export for buffer activity.
// The prefix identifies this buffer instance in metric labels.
// If registry is nil or prefix is empty, this option is ignored.
func WithMetrics[T any](registry *metric.MetricsRegistry, prefix string) Option[T] {
	return func(opts *bufferOptions[T]) {
		if registry != nil && prefix != "" {
			opts.metricsReg = registry
			opts.metricsPrefix = prefix
		}
	}
}

// applyOptions applies functional options to create final buffer configuration.
func applyOptions[T any](options ...Option[T]) *bufferOptions[T] {
	opts := &bufferOptions[T]{
		strategy: GuardSlot,
	}

	for _, opt := range options {
		if opt != nil {
			opt(opts)
		}
	}

	return opts
}
