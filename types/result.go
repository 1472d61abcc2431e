package types

import "slices"

// EstimatorMode selects the Vancouver recurrence variant.
type EstimatorMode string

const (
	// ModeSimplified includes every reviewer in every sum. It has no
	// structural preconditions.
	ModeSimplified EstimatorMode = "simplified"

	// ModeLeaveOneOut never lets a peer's own score inform its own quality
	// estimate. Requires at least two reviews per peer and per submission.
	ModeLeaveOneOut EstimatorMode = "leave_one_out"
)

// Valid reports whether m names a known mode.
func (m EstimatorMode) Valid() bool {
	return m == ModeSimplified || m == ModeLeaveOneOut
}

// String returns the mode name.
func (m EstimatorMode) String() string {
	return string(m)
}

// Peer is the estimated state of a grader after a run.
type Peer struct {
	ID PeerID `json:"id"`

	// Variance is the inverse reliability of the peer; lower is more reliable.
	Variance float64 `json:"variance"`

	// Submissions lists the submissions this peer reviewed, sorted.
	Submissions []SubmissionID `json:"submissions"`
}

// Submission is the estimated state of a submission after a run.
type Submission struct {
	ID SubmissionID `json:"id"`

	// Grade is the estimated grade, or the ground truth when one was supplied.
	Grade float64 `json:"grade"`

	// Variance is the uncertainty of Grade.
	Variance float64 `json:"variance"`

	// GroundTruth is meaningful only when HasGroundTruth is set.
	GroundTruth    float64 `json:"groundTruth,omitempty"`
	HasGroundTruth bool    `json:"hasGroundTruth"`

	// Peers lists the reviewers of this submission, sorted.
	Peers []PeerID `json:"peers"`
}

// Estimate is the (grade, variance) pair reported for a submission.
type Estimate struct {
	Grade    float64 `json:"grade"`
	Variance float64 `json:"variance"`
}

// Result is the output of one estimator run.
type Result struct {
	// RunID identifies the run; set by the Engine, empty for direct estimator calls.
	RunID string `json:"runId,omitempty"`

	// Mode is the recurrence variant that produced the result.
	Mode EstimatorMode `json:"mode"`

	// Rounds is the number of update rounds executed.
	Rounds int `json:"rounds"`

	// Peers and Submissions are sorted by id.
	Peers       []Peer       `json:"peers"`
	Submissions []Submission `json:"submissions"`
}

// Scores returns the (grade, variance) estimate of every submission.
func (r *Result) Scores() map[SubmissionID]Estimate {
	out := make(map[SubmissionID]Estimate, len(r.Submissions))
	for _, s := range r.Submissions {
		out[s.ID] = Estimate{Grade: s.Grade, Variance: s.Variance}
	}

	return out
}

// Qualities returns the estimated variance of every peer.
func (r *Result) Qualities() map[PeerID]float64 {
	out := make(map[PeerID]float64, len(r.Peers))
	for _, p := range r.Peers {
		out[p.ID] = p.Variance
	}

	return out
}

// Submission looks up a submission by id.
func (r *Result) Submission(id SubmissionID) (Submission, bool) {
	i, ok := slices.BinarySearchFunc(r.Submissions, id, func(s Submission, id SubmissionID) int {
		switch {
		case s.ID < id:
			return -1
		case s.ID > id:
			return 1
		default:
			return 0
		}
	})
	if !ok {
		return Submission{}, false
	}

	return r.Submissions[i], true
}

// Peer looks up a peer by id.
func (r *Result) Peer(id PeerID) (Peer, bool) {
	i, ok := slices.BinarySearchFunc(r.Peers, id, func(p Peer, id PeerID) int {
		switch {
		case p.ID < id:
			return -1
		case p.ID > id:
			return 1
		default:
			return 0
		}
	})
	if !ok {
		return Peer{}, false
	}

	return r.Peers[i], true
}
