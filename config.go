package vancouver

import (
	"fmt"
	"time"

	"github.com/arloliu/vancouver/strategy"
	"github.com/arloliu/vancouver/types"
)

// AssignmentConfig controls review assignment generation.
type AssignmentConfig struct {
	// ReviewsPerPeer is the number of distinct submissions every peer reviews (k).
	ReviewsPerPeer int `yaml:"reviewsPerPeer"`

	// NumTries is the shuffle budget of one assignment pass.
	// Tight exclusion sets need a larger budget.
	NumTries int `yaml:"numTries"`

	// ExtraSlots selects which submissions absorb the extra slots when
	// peers*k is not a multiple of the submission count: "prefix" or "trim".
	ExtraSlots string `yaml:"extraSlots"`

	// Seed makes assignments reproducible. 0 draws a fresh seed per call.
	Seed uint64 `yaml:"seed"`

	// SeedKey derives the seed from a string such as "course-42/hw3".
	// Takes precedence over Seed when set.
	SeedKey string `yaml:"seedKey"`
}

// EstimatorConfig controls the grade estimator.
type EstimatorConfig struct {
	// Mode is "simplified" or "leave_one_out".
	Mode string `yaml:"mode"`

	// Iterations is the number of update rounds per run.
	Iterations int `yaml:"iterations"`

	// MinVariance caps peer precision at 1/MinVariance.
	MinVariance float64 `yaml:"minVariance"`

	// DefaultVariance is the variance every peer and submission starts from.
	DefaultVariance float64 `yaml:"defaultVariance"`

	// Epsilon shifts an exactly zero denominator before inverting it.
	Epsilon float64 `yaml:"epsilon"`

	// MaxGrade clamps estimated grades to [0, MaxGrade]. 0 disables clamping.
	MaxGrade float64 `yaml:"maxGrade"`
}

// KVBucketConfig configures NATS JetStream KV bucket names.
type KVBucketConfig struct {
	// AssignmentBucket holds one assignment document per peer.
	AssignmentBucket string `yaml:"assignmentBucket"`

	// ResultBucket holds estimation results by run id and "latest".
	ResultBucket string `yaml:"resultBucket"`

	// ReviewBucket holds one score per review edge.
	ReviewBucket string `yaml:"reviewBucket"`
}

// Config is the configuration for the Engine.
//
// All duration fields accept standard Go duration strings like "30s", "5m".
type Config struct {
	// OperationTimeout bounds source reads and KV operations.
	OperationTimeout time.Duration `yaml:"operationTimeout"`

	// Assignment controls review assignment generation.
	Assignment AssignmentConfig `yaml:"assignment"`

	// Estimator controls the grade estimator.
	Estimator EstimatorConfig `yaml:"estimator"`

	// KVBuckets controls NATS JetStream KV bucket names.
	KVBuckets KVBucketConfig `yaml:"kvBuckets"`
}

// DefaultConfig returns a Config with sensible defaults.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		OperationTimeout: 10 * time.Second,
		Assignment: AssignmentConfig{
			ReviewsPerPeer: 3,
			NumTries:       strategy.DefaultNumTries,
			ExtraSlots:     string(strategy.ExtraSlotsPrefix),
		},
		Estimator: EstimatorConfig{
			Mode:            string(types.ModeSimplified),
			Iterations:      20,
			MinVariance:     0.001,
			DefaultVariance: 1.0,
			Epsilon:         0.01,
			MaxGrade:        0, // no clamping
		},
		KVBuckets: KVBucketConfig{
			AssignmentBucket: "vancouver-assignment",
			ResultBucket:     "vancouver-result",
			ReviewBucket:     "vancouver-review",
		},
	}
}

// SetDefaults fills in missing configuration values with defaults.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.OperationTimeout == 0 {
		cfg.OperationTimeout = defaults.OperationTimeout
	}
	if cfg.Assignment.ReviewsPerPeer == 0 {
		cfg.Assignment.ReviewsPerPeer = defaults.Assignment.ReviewsPerPeer
	}
	if cfg.Assignment.NumTries == 0 {
		cfg.Assignment.NumTries = defaults.Assignment.NumTries
	}
	if cfg.Assignment.ExtraSlots == "" {
		cfg.Assignment.ExtraSlots = defaults.Assignment.ExtraSlots
	}
	if cfg.Estimator.Mode == "" {
		cfg.Estimator.Mode = defaults.Estimator.Mode
	}
	if cfg.Estimator.Iterations == 0 {
		cfg.Estimator.Iterations = defaults.Estimator.Iterations
	}
	if cfg.Estimator.MinVariance == 0 {
		cfg.Estimator.MinVariance = defaults.Estimator.MinVariance
	}
	if cfg.Estimator.DefaultVariance == 0 {
		cfg.Estimator.DefaultVariance = defaults.Estimator.DefaultVariance
	}
	if cfg.Estimator.Epsilon == 0 {
		cfg.Estimator.Epsilon = defaults.Estimator.Epsilon
	}
	// Note: MaxGrade of 0 is valid (no clamping), so we don't apply default
	if cfg.KVBuckets.AssignmentBucket == "" {
		cfg.KVBuckets.AssignmentBucket = defaults.KVBuckets.AssignmentBucket
	}
	if cfg.KVBuckets.ResultBucket == "" {
		cfg.KVBuckets.ResultBucket = defaults.KVBuckets.ResultBucket
	}
	if cfg.KVBuckets.ReviewBucket == "" {
		cfg.KVBuckets.ReviewBucket = defaults.KVBuckets.ReviewBucket
	}
}

// Validate checks configuration constraints and returns error for invalid values.
//
// Hard Validation Rules:
//   - ReviewsPerPeer >= 1
//   - NumTries >= 1
//   - ExtraSlots is "prefix" or "trim"
//   - Mode is "simplified" or "leave_one_out"
//   - Iterations >= 1
//   - MinVariance, DefaultVariance, Epsilon > 0
//   - MaxGrade >= 0
//   - OperationTimeout > 0
//   - bucket names are set
//
// Returns:
//   - error: Validation error wrapping ErrInvalidConfig, nil if valid
func (cfg *Config) Validate() error {
	if cfg.Assignment.ReviewsPerPeer < 1 {
		return fmt.Errorf("%w: ReviewsPerPeer must be >= 1, got %d", ErrInvalidConfig, cfg.Assignment.ReviewsPerPeer)
	}
	if cfg.Assignment.NumTries < 1 {
		return fmt.Errorf("%w: NumTries must be >= 1, got %d", ErrInvalidConfig, cfg.Assignment.NumTries)
	}
	if !strategy.ExtraSlots(cfg.Assignment.ExtraSlots).Valid() {
		return fmt.Errorf("%w: ExtraSlots must be %q or %q, got %q", ErrInvalidConfig,
			strategy.ExtraSlotsPrefix, strategy.ExtraSlotsTrim, cfg.Assignment.ExtraSlots)
	}

	if !types.EstimatorMode(cfg.Estimator.Mode).Valid() {
		return fmt.Errorf("%w: Mode must be %q or %q, got %q", ErrInvalidConfig,
			types.ModeSimplified, types.ModeLeaveOneOut, cfg.Estimator.Mode)
	}
	if cfg.Estimator.Iterations < 1 {
		return fmt.Errorf("%w: Iterations must be >= 1, got %d", ErrInvalidConfig, cfg.Estimator.Iterations)
	}
	if cfg.Estimator.MinVariance <= 0 {
		return fmt.Errorf("%w: MinVariance must be > 0, got %v", ErrInvalidConfig, cfg.Estimator.MinVariance)
	}
	if cfg.Estimator.DefaultVariance <= 0 {
		return fmt.Errorf("%w: DefaultVariance must be > 0, got %v", ErrInvalidConfig, cfg.Estimator.DefaultVariance)
	}
	if cfg.Estimator.Epsilon <= 0 {
		return fmt.Errorf("%w: Epsilon must be > 0, got %v", ErrInvalidConfig, cfg.Estimator.Epsilon)
	}
	if cfg.Estimator.MaxGrade < 0 {
		return fmt.Errorf("%w: MaxGrade must be >= 0, got %v", ErrInvalidConfig, cfg.Estimator.MaxGrade)
	}

	if cfg.OperationTimeout <= 0 {
		return fmt.Errorf("%w: OperationTimeout must be > 0, got %v", ErrInvalidConfig, cfg.OperationTimeout)
	}
	if cfg.KVBuckets.AssignmentBucket == "" || cfg.KVBuckets.ResultBucket == "" || cfg.KVBuckets.ReviewBucket == "" {
		return fmt.Errorf("%w: KV bucket names must not be empty", ErrInvalidConfig)
	}

	return nil
}

// ValidateWithWarnings logs warnings for valid but non-recommended values.
//
// This is called after Validate() in New() to provide operator guidance.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	if cfg.Estimator.Mode == string(types.ModeLeaveOneOut) && cfg.Assignment.ReviewsPerPeer < 2 {
		logger.Warn(
			"leave-one-out estimation needs at least two reviews per peer",
			"reviewsPerPeer", cfg.Assignment.ReviewsPerPeer,
			"recommended", 3,
		)
	}

	if cfg.Assignment.NumTries < 100 {
		logger.Warn(
			"NumTries is very low, assignments with exclusions may fail",
			"numTries", cfg.Assignment.NumTries,
			"recommended", strategy.DefaultNumTries,
		)
	}

	if cfg.Assignment.Seed != 0 && cfg.Assignment.SeedKey != "" {
		logger.Warn(
			"both Seed and SeedKey are set, SeedKey wins",
			"seed", cfg.Assignment.Seed,
			"seedKey", cfg.Assignment.SeedKey,
		)
	}

	if cfg.Estimator.MinVariance > cfg.Estimator.DefaultVariance {
		logger.Warn(
			"MinVariance exceeds DefaultVariance, every peer starts clamped",
			"minVariance", cfg.Estimator.MinVariance,
			"defaultVariance", cfg.Estimator.DefaultVariance,
		)
	}
}

// TestConfig returns a configuration for fast, reproducible tests.
//
// Assignments are seeded, and estimation runs fewer rounds.
//
// Returns:
//   - Config: Configuration for tests
//
// Example:
//
//	cfg := vancouver.TestConfig()
//	cfg.Assignment.ReviewsPerPeer = 2
//	engine, err := vancouver.New(&cfg)
func TestConfig() Config {
	cfg := DefaultConfig()

	cfg.OperationTimeout = 2 * time.Second
	cfg.Assignment.SeedKey = "vancouver-test"
	cfg.Assignment.NumTries = 10000
	cfg.Estimator.Iterations = 10

	return cfg
}
