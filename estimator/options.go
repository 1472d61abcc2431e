package estimator

import (
	"github.com/arloliu/vancouver/internal/logging"
	"github.com/arloliu/vancouver/internal/metrics"
	"github.com/arloliu/vancouver/types"
)

// Default numeric parameters.
const (
	// DefaultMinVariance bounds peer precision at 1/DefaultMinVariance.
	DefaultMinVariance = 0.001

	// DefaultDefaultVariance is the variance every precision starts from.
	DefaultDefaultVariance = 1.0

	// DefaultEpsilon shifts an exactly zero denominator before inverting it.
	DefaultEpsilon = 0.01
)

type options struct {
	mode            types.EstimatorMode
	minVariance     float64
	defaultVariance float64
	epsilon         float64
	maxGrade        float64
	logger          types.Logger
	metrics         types.EstimatorMetrics
}

func defaultOptions() options {
	return options{
		mode:            types.ModeSimplified,
		minVariance:     DefaultMinVariance,
		defaultVariance: DefaultDefaultVariance,
		epsilon:         DefaultEpsilon,
		logger:          logging.NewNop(),
		metrics:         metrics.NewNop(),
	}
}

// Option configures an Estimator.
type Option func(*options)

// WithMode selects the recurrence variant. Unknown modes are ignored.
//
// Parameters:
//   - mode: types.ModeSimplified (default) or types.ModeLeaveOneOut
//
// Returns:
//   - Option: Configuration option
func WithMode(mode types.EstimatorMode) Option {
	return func(o *options) {
		if mode.Valid() {
			o.mode = mode
		}
	}
}

// WithMinVariance sets the smallest variance a peer can reach.
// Non-positive values are ignored.
func WithMinVariance(v float64) Option {
	return func(o *options) {
		if v > 0 {
			o.minVariance = v
		}
	}
}

// WithDefaultVariance sets the initial variance of every precision.
// Non-positive values are ignored.
func WithDefaultVariance(v float64) Option {
	return func(o *options) {
		if v > 0 {
			o.defaultVariance = v
		}
	}
}

// WithEpsilon sets the shift applied to an exactly zero denominator.
// Non-positive values are ignored.
func WithEpsilon(eps float64) Option {
	return func(o *options) {
		if eps > 0 {
			o.epsilon = eps
		}
	}
}

// WithMaxGrade clamps estimated grades to [0, limit] in every round.
//
// Zero disables clamping; negative values are ignored. Ground truths outside
// the range are rejected by Estimate.
func WithMaxGrade(limit float64) Option {
	return func(o *options) {
		if limit >= 0 {
			o.maxGrade = limit
		}
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(logger types.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics sets the metrics collector. A nil collector is ignored.
func WithMetrics(m types.EstimatorMetrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}
