package strategy

import "github.com/arloliu/vancouver/types"

// Re-exported assignment errors for callers that only import this package.
var (
	ErrNoPeers              = types.ErrNoPeers
	ErrNoSubmissions        = types.ErrNoSubmissions
	ErrInvalidReviewCount   = types.ErrInvalidReviewCount
	ErrDuplicateID          = types.ErrDuplicateID
	ErrInvalidCover         = types.ErrInvalidCover
	ErrConstraintInfeasible = types.ErrConstraintInfeasible
)
