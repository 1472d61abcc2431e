package strategy

import (
	"math/rand/v2"

	"github.com/arloliu/vancouver/internal/hash"
	"github.com/arloliu/vancouver/internal/logging"
	"github.com/arloliu/vancouver/internal/metrics"
	"github.com/arloliu/vancouver/types"
)

// DefaultNumTries is the default shuffle budget of one Assign call.
const DefaultNumTries = 1000

// ExtraSlots selects which submissions absorb the extra review slots when
// N*k is not a multiple of M.
type ExtraSlots string

const (
	// ExtraSlotsPrefix gives the extra slots to the first submissions in input
	// order. Deterministic for a given submission order.
	ExtraSlotsPrefix ExtraSlots = "prefix"

	// ExtraSlotsTrim starts from load copies of every submission and drops one
	// copy from a uniformly random set of distinct submissions.
	ExtraSlotsTrim ExtraSlots = "trim"
)

// Valid reports whether e names a known policy.
func (e ExtraSlots) Valid() bool {
	return e == ExtraSlotsPrefix || e == ExtraSlotsTrim
}

// options holds the settings shared by RandomMatching and Covered.
type options struct {
	numTries   int
	seed       uint64
	seeded     bool
	extraSlots ExtraSlots
	logger     types.Logger
	metrics    types.AssignmentMetrics
}

func defaultOptions() options {
	return options{
		numTries:   DefaultNumTries,
		extraSlots: ExtraSlotsPrefix,
		logger:     logging.NewNop(),
		metrics:    metrics.NewNop(),
	}
}

// Option configures an assignment strategy.
type Option func(*options)

// WithNumTries sets the shuffle budget of one Assign call.
//
// Values below 1 are ignored.
//
// Parameters:
//   - n: Maximum number of shuffles (default: 1000)
//
// Returns:
//   - Option: Configuration option
func WithNumTries(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.numTries = n
		}
	}
}

// WithSeed makes every Assign call reproducible.
//
// Two strategies built with the same seed return the same assignment for the
// same input. Without a seed each call draws a fresh random seed.
//
// Parameters:
//   - seed: Random seed
//
// Returns:
//   - Option: Configuration option
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
		o.seeded = true
	}
}

// WithSeedKey derives the seed from a string key, such as a course and
// homework identifier.
//
// Parameters:
//   - key: Seed key, hashed with xxh3
//
// Returns:
//   - Option: Configuration option
func WithSeedKey(key string) Option {
	return WithSeed(hash.Seed(key))
}

// WithExtraSlots sets the extra slot policy. Unknown policies are ignored.
//
// Parameters:
//   - policy: ExtraSlotsPrefix (default) or ExtraSlotsTrim
//
// Returns:
//   - Option: Configuration option
func WithExtraSlots(policy ExtraSlots) Option {
	return func(o *options) {
		if policy.Valid() {
			o.extraSlots = policy
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
func WithMetrics(m types.AssignmentMetrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// newRand returns the generator for one call. Seeded strategies derive an
// independent stream per label.
func (o *options) newRand(label string) *rand.Rand {
	if !o.seeded {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // not used for security
	}
	hi, lo := hash.Stream(o.seed, label)

	return rand.New(rand.NewPCG(hi, lo)) //nolint:gosec // not used for security
}
