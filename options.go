package vancouver

// Option configures an Engine with optional dependencies.
type Option func(*engineOptions)

// engineOptions holds optional Engine configuration.
type engineOptions struct {
	strategy    AssignmentStrategy
	strategySet bool
	metrics     MetricsCollector
	logger      Logger
	runID       func() string
}

// WithStrategy replaces the configured strategy used by Assign.
//
// AssignCovered keeps using the built-in covered strategy.
//
// Parameters:
//   - strategy: AssignmentStrategy implementation
//
// Returns:
//   - Option: Functional option for New
//
// Example:
//
//	engine, err := vancouver.New(&cfg, vancouver.WithStrategy(myStrategy))
func WithStrategy(strategy AssignmentStrategy) Option {
	return func(o *engineOptions) {
		o.strategy = strategy
		o.strategySet = true
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for New
//
// Example:
//
//	metrics := myPrometheusCollector
//	engine, err := vancouver.New(&cfg, vancouver.WithMetrics(metrics))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *engineOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for New
func WithLogger(logger Logger) Option {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// WithRunIDFunc overrides how estimation run ids are generated (UUIDv4 by default).
func WithRunIDFunc(fn func() string) Option {
	return func(o *engineOptions) {
		o.runID = fn
	}
}
