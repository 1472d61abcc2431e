package vancouver

import "github.com/arloliu/vancouver/types"

// Sentinel errors returned by the Engine and the components it wires.
//
// All of them are defined in the types package; compare with errors.Is.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrAssignmentStrategyRequired is returned when WithStrategy is given a nil strategy.
	ErrAssignmentStrategyRequired = types.ErrAssignmentStrategyRequired

	// ErrScoreSourceRequired is returned by EstimateFrom without a score source.
	ErrScoreSourceRequired = types.ErrScoreSourceRequired

	ErrNoPeers              = types.ErrNoPeers
	ErrNoSubmissions        = types.ErrNoSubmissions
	ErrInvalidReviewCount   = types.ErrInvalidReviewCount
	ErrDuplicateID          = types.ErrDuplicateID
	ErrInvalidCover         = types.ErrInvalidCover
	ErrConstraintInfeasible = types.ErrConstraintInfeasible

	ErrEmptyReviews          = types.ErrEmptyReviews
	ErrInvalidIterations     = types.ErrInvalidIterations
	ErrInvalidScore          = types.ErrInvalidScore
	ErrPreconditionViolation = types.ErrPreconditionViolation

	ErrInvalidKey    = types.ErrInvalidKey
	ErrPublishFailed = types.ErrPublishFailed
	ErrConnectivity  = types.ErrConnectivity
)
