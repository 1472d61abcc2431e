package vancouver

import "github.com/arloliu/vancouver/types"

// Re-export types from the types package.
//
// Internal packages depend on `types` only, while users get the convenient
// `vancouver.Assignment`, `vancouver.Result`, `vancouver.Logger` and so on.
type (
	PeerID       = types.PeerID
	SubmissionID = types.SubmissionID
	Review       = types.Review
	Reviews      = types.Reviews
	GroundTruths = types.GroundTruths
	Assignment   = types.Assignment
	Excludes     = types.Excludes
	Cover        = types.Cover
)

// Re-export estimation results.
type (
	EstimatorMode = types.EstimatorMode
	Peer          = types.Peer
	Submission    = types.Submission
	Estimate      = types.Estimate
	Result        = types.Result
)

// Re-export interfaces from the types package for convenience.
type (
	AssignmentStrategy = types.AssignmentStrategy
	ScoreSource        = types.ScoreSource
	GroundTruthSource  = types.GroundTruthSource
	MetricsCollector   = types.MetricsCollector
	Logger             = types.Logger
)

// Re-export estimator modes.
const (
	ModeSimplified  = types.ModeSimplified
	ModeLeaveOneOut = types.ModeLeaveOneOut
)

// Re-export graph helpers.
var (
	// ExcludesFromGroups forbids every author from reviewing its own submission.
	ExcludesFromGroups = types.ExcludesFromGroups

	// ExcludeSelf forbids each peer from reviewing the submission with its own id.
	ExcludeSelf = types.ExcludeSelf

	// ReviewsFromEdges builds Reviews from a list of edges.
	ReviewsFromEdges = types.ReviewsFromEdges
)
