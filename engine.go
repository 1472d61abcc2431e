package vancouver

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/arloliu/vancouver/estimator"
	"github.com/arloliu/vancouver/internal/logging"
	"github.com/arloliu/vancouver/internal/metrics"
	"github.com/arloliu/vancouver/strategy"
	"github.com/arloliu/vancouver/types"
)

// Engine wires assignment generation and grade estimation from one Config.
//
// An Engine holds configuration and stateless components only; every call
// builds its own run-scoped state. All methods are safe for concurrent use.
type Engine struct {
	cfg Config

	strategy  AssignmentStrategy
	covered   *strategy.Covered
	matching  *strategy.RandomMatching
	estimator *estimator.Estimator

	metrics MetricsCollector
	logger  Logger
	runID   func() string
}

// New creates an Engine from the configuration.
//
// Missing values are filled in with SetDefaults before validation.
//
// Parameters:
//   - cfg: Configuration (defaults are applied in place)
//   - opts: Optional configuration (strategy, metrics, logger)
//
// Returns:
//   - *Engine: Initialized engine
//   - error: ErrInvalidConfig or ErrAssignmentStrategyRequired
//
// Example:
//
//	cfg := vancouver.DefaultConfig()
//	cfg.Estimator.Mode = "leave_one_out"
//	engine, err := vancouver.New(&cfg)
//	assignment, cover, err := engine.AssignCovered(peers, submissions, excludes, nil)
func New(cfg *Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}

	SetDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &engineOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.strategySet && options.strategy == nil {
		return nil, ErrAssignmentStrategyRequired
	}

	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logging.NewNop()
	}

	cfg.ValidateWithWarnings(loggerInstance)

	runID := options.runID
	if runID == nil {
		runID = uuid.NewString
	}

	strategyOpts := []strategy.Option{
		strategy.WithNumTries(cfg.Assignment.NumTries),
		strategy.WithExtraSlots(strategy.ExtraSlots(cfg.Assignment.ExtraSlots)),
		strategy.WithLogger(loggerInstance),
		strategy.WithMetrics(metricsCollector),
	}
	switch {
	case cfg.Assignment.SeedKey != "":
		strategyOpts = append(strategyOpts, strategy.WithSeedKey(cfg.Assignment.SeedKey))
	case cfg.Assignment.Seed != 0:
		strategyOpts = append(strategyOpts, strategy.WithSeed(cfg.Assignment.Seed))
	}

	e := &Engine{
		cfg:      *cfg,
		covered:  strategy.NewCovered(strategyOpts...),
		matching: strategy.NewRandomMatching(strategyOpts...),
		estimator: estimator.New(
			estimator.WithMode(types.EstimatorMode(cfg.Estimator.Mode)),
			estimator.WithMinVariance(cfg.Estimator.MinVariance),
			estimator.WithDefaultVariance(cfg.Estimator.DefaultVariance),
			estimator.WithEpsilon(cfg.Estimator.Epsilon),
			estimator.WithMaxGrade(cfg.Estimator.MaxGrade),
			estimator.WithLogger(loggerInstance),
			estimator.WithMetrics(metricsCollector),
		),
		metrics: metricsCollector,
		logger:  loggerInstance,
		runID:   runID,
	}

	e.strategy = e.matching
	if options.strategySet {
		e.strategy = options.strategy
	}

	return e, nil
}

// Config returns a copy of the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Assign gives every peer ReviewsPerPeer distinct submissions.
//
// Parameters:
//   - peers: Peer ids (distinct)
//   - submissions: Submission ids (distinct)
//   - excludes: Forbidden submissions per peer (nil means none)
//
// Returns:
//   - Assignment: Submissions per peer
//   - error: Input validation error or ErrConstraintInfeasible
func (e *Engine) Assign(peers []PeerID, submissions []SubmissionID, excludes Excludes) (Assignment, error) {
	a, err := e.strategy.Assign(peers, submissions, e.cfg.Assignment.ReviewsPerPeer, excludes)
	if err != nil {
		return nil, fmt.Errorf("assign: %w", err)
	}

	return a, nil
}

// AssignWithCover completes a pre-seeded partial assignment.
//
// Parameters:
//   - peers: Peer ids (distinct)
//   - submissions: Submission ids (distinct)
//   - excludes: Forbidden submissions per peer (nil means none)
//   - cover: Reviews already fixed per peer, included in the result
//
// Returns:
//   - Assignment: Submissions per peer, cover included
//   - error: ErrInvalidCover, input validation error or ErrConstraintInfeasible
func (e *Engine) AssignWithCover(peers []PeerID, submissions []SubmissionID, excludes Excludes, cover Assignment) (Assignment, error) {
	a, err := e.matching.AssignWithCover(peers, submissions, e.cfg.Assignment.ReviewsPerPeer, excludes, cover)
	if err != nil {
		return nil, fmt.Errorf("assign with cover: %w", err)
	}

	return a, nil
}

// AssignCovered builds an assignment whose first pass covers a small set of
// submissions, the natural targets for ground-truth grading.
//
// Parameters:
//   - peers: Peer ids (distinct)
//   - submissions: Submission ids (distinct)
//   - excludes: Forbidden submissions per peer (nil means none)
//   - seed: Submissions that must be part of the cover (may be nil)
//
// Returns:
//   - Assignment: Submissions per peer, cover included
//   - Cover: The cover submissions and their one-review assignment
//   - error: Input validation error or ErrConstraintInfeasible
func (e *Engine) AssignCovered(peers []PeerID, submissions []SubmissionID, excludes Excludes, seed []SubmissionID) (Assignment, Cover, error) {
	a, cover, err := e.covered.AssignCovered(peers, submissions, e.cfg.Assignment.ReviewsPerPeer, excludes, seed)
	if err != nil {
		return nil, Cover{}, fmt.Errorf("assign covered: %w", err)
	}

	return a, cover, nil
}

// Estimate runs the configured estimator for Iterations rounds.
//
// The result carries a fresh run id.
//
// Parameters:
//   - reviews: Observed scores
//   - truths: Known grades (may be nil)
//
// Returns:
//   - *Result: Grades and peer qualities
//   - error: Input validation error or ErrPreconditionViolation
func (e *Engine) Estimate(reviews Reviews, truths GroundTruths) (*Result, error) {
	result, err := e.estimator.Estimate(reviews, truths, e.cfg.Estimator.Iterations)
	if err != nil {
		return nil, fmt.Errorf("estimate: %w", err)
	}
	result.RunID = e.runID()

	e.logger.Info("estimation completed",
		"run_id", result.RunID,
		"mode", result.Mode,
		"rounds", result.Rounds,
		"peers", len(result.Peers),
		"submissions", len(result.Submissions),
		"ground_truths", len(truths))

	return result, nil
}

// EstimateFrom reads reviews and ground truths from sources and estimates.
//
// Source reads are bounded by OperationTimeout.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - scores: Review source (required)
//   - truths: Ground truth source (nil means none)
//
// Returns:
//   - *Result: Grades and peer qualities
//   - error: ErrScoreSourceRequired, source error or estimation error
func (e *Engine) EstimateFrom(ctx context.Context, scores ScoreSource, truths GroundTruthSource) (*Result, error) {
	if scores == nil {
		return nil, ErrScoreSourceRequired
	}

	readCtx, cancel := context.WithTimeout(ctx, e.cfg.OperationTimeout)
	defer cancel()

	reviews, err := scores.ListReviews(readCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	var known GroundTruths
	if truths != nil {
		known, err = truths.ListGroundTruths(readCtx)
		if err != nil {
			return nil, fmt.Errorf("failed to list ground truths: %w", err)
		}
	}

	return e.Estimate(reviews, known)
}
