package types

// AssignmentStrategy generates review assignments for a set of peers.
//
// Strategies implement different assignment algorithms:
//   - RandomMatching: Shuffle, pair and validate with bounded retries
//   - Covered: A one-review cover pass followed by a residual pass
//   - Custom: User-defined algorithms
//
// Strategy implementations should:
//   - Never return a partial or silently invalid assignment
//   - Handle edge cases (no peers, no submissions, k out of range)
//   - Keep per-submission load within one of ceil(N*k/M)
type AssignmentStrategy interface {
	// Assign generates an assignment of k distinct submissions per peer.
	//
	// Parameters:
	//   - peers: Peer ids (distinct)
	//   - submissions: Submission ids (distinct)
	//   - k: Number of reviews per peer (1 <= k <= len(submissions))
	//   - excludes: Forbidden submissions per peer (nil means none)
	//
	// Returns:
	//   - Assignment: Map from peer to its k submissions
	//   - error: ErrConstraintInfeasible when no valid assignment is found
	Assign(peers []PeerID, submissions []SubmissionID, k int, excludes Excludes) (Assignment, error)
}
