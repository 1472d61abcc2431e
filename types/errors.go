package types

import "errors"

// Sentinel errors for the Vancouver library.
//
// These errors provide type-safe error checking using errors.Is() and errors.As().
// All components should use these sentinel errors for known error conditions
// and wrap them with context using fmt.Errorf("%s: %w", msg, err).
//
// Error Naming Convention:
//   - Use descriptive names with Err prefix
//   - Group by component (Assignment, Estimator, Transport, etc.)
//   - Use consistent messages across similar error types

// Configuration errors - returned while building an Engine.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrAssignmentStrategyRequired is returned when assignment strategy is nil.
	ErrAssignmentStrategyRequired = errors.New("assignment strategy is required")

	// ErrScoreSourceRequired is returned when a score source is nil.
	ErrScoreSourceRequired = errors.New("score source is required")
)

// Assignment errors - returned by assignment strategies.
var (
	// ErrNoPeers is returned when trying to assign reviews with no peers.
	ErrNoPeers = errors.New("no peers available")

	// ErrNoSubmissions is returned when trying to assign reviews with no submissions.
	ErrNoSubmissions = errors.New("no submissions available")

	// ErrInvalidReviewCount is returned when k is below 1 or above the number of submissions.
	ErrInvalidReviewCount = errors.New("invalid number of reviews per peer")

	// ErrDuplicateID is returned when a peer or submission id is listed twice.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrInvalidCover is returned when a pre-seeded cover violates the assignment constraints.
	ErrInvalidCover = errors.New("invalid cover")

	// ErrConstraintInfeasible is returned when the retry budget is exhausted
	// without finding an assignment that satisfies every exclusion.
	ErrConstraintInfeasible = errors.New("no valid assignment found within retry budget")
)

// Estimator errors - returned by the grade estimator.
var (
	// ErrEmptyReviews is returned when the review graph has no edges.
	ErrEmptyReviews = errors.New("no reviews to estimate from")

	// ErrInvalidIterations is returned when the iteration count is below 1.
	ErrInvalidIterations = errors.New("iterations must be at least 1")

	// ErrInvalidScore is returned for NaN or infinite scores and ground truths,
	// and for ground truths outside [0, MaxGrade] when grade clamping is enabled.
	ErrInvalidScore = errors.New("invalid score")

	// ErrPreconditionViolation is returned by the leave-one-out estimator when a peer
	// reviewed fewer than two submissions or a submission received fewer than two reviews.
	ErrPreconditionViolation = errors.New("estimator precondition violated")
)

// Transport errors - returned by the NATS KV publishers and stores.
var (
	// ErrInvalidKey is returned when an id cannot be used as a KV key token.
	ErrInvalidKey = errors.New("invalid KV key")

	// ErrPublishFailed is returned when publishing to NATS KV fails.
	ErrPublishFailed = errors.New("failed to publish")

	// ErrConnectivity marks a publish or read that failed because the NATS
	// server could not be reached.
	ErrConnectivity = errors.New("NATS connectivity error")
)
