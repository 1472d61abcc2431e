package estimator

import "github.com/arloliu/vancouver/types"

// Re-exported estimator errors for callers that only import this package.
var (
	ErrEmptyReviews          = types.ErrEmptyReviews
	ErrInvalidIterations     = types.ErrInvalidIterations
	ErrInvalidScore          = types.ErrInvalidScore
	ErrPreconditionViolation = types.ErrPreconditionViolation
)
