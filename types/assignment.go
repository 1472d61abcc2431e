package types

import (
	"fmt"
	"slices"
)

// PeerID identifies a grader. Ids are opaque; the library never parses them.
type PeerID string

// SubmissionID identifies a reviewed submission.
type SubmissionID string

// Assignment maps each peer to the submissions it must review.
//
// The order of a peer's submissions carries no meaning. A valid assignment has
// exactly k submissions per peer, no duplicates and no excluded submission.
type Assignment map[PeerID][]SubmissionID

// Excludes maps each peer to the submissions it must never review.
//
// A peer missing from the map has no exclusions.
type Excludes map[PeerID][]SubmissionID

// Cover is the distinguished first pass of a covered assignment.
//
// Every peer reviews exactly one submission of Submissions in Assignment, which
// makes the cover submissions the natural targets for externally supplied
// ground-truth grades.
type Cover struct {
	// Submissions lists the cover submissions.
	Submissions []SubmissionID `json:"submissions"`

	// Assignment holds the single cover review of every peer.
	Assignment Assignment `json:"assignment"`
}

// Peers returns the peers of the assignment in sorted order.
func (a Assignment) Peers() []PeerID {
	peers := make([]PeerID, 0, len(a))
	for p := range a {
		peers = append(peers, p)
	}
	slices.Sort(peers)

	return peers
}

// Clone returns a deep copy of the assignment.
func (a Assignment) Clone() Assignment {
	if a == nil {
		return nil
	}

	out := make(Assignment, len(a))
	for p, subs := range a {
		out[p] = slices.Clone(subs)
	}

	return out
}

// Invert returns the submission to reviewers mapping of the assignment.
//
// Reviewer lists are sorted so the result does not depend on map iteration order.
//
// Returns:
//   - map[SubmissionID][]PeerID: Peers assigned to each submission
func (a Assignment) Invert() map[SubmissionID][]PeerID {
	out := make(map[SubmissionID][]PeerID)
	for p, subs := range a {
		for _, s := range subs {
			out[s] = append(out[s], p)
		}
	}
	for s := range out {
		slices.Sort(out[s])
	}

	return out
}

// Loads counts how many peers review each submission.
func (a Assignment) Loads() map[SubmissionID]int {
	loads := make(map[SubmissionID]int)
	for _, subs := range a {
		for _, s := range subs {
			loads[s]++
		}
	}

	return loads
}

// Merge appends the submissions of other to a copy of a, peer by peer.
func (a Assignment) Merge(other Assignment) Assignment {
	out := a.Clone()
	if out == nil {
		out = make(Assignment, len(other))
	}
	for p, subs := range other {
		out[p] = append(out[p], subs...)
	}

	return out
}

// Check reports whether no peer reviews a submission twice or reviews an
// excluded submission.
//
// Parameters:
//   - excludes: Forbidden submissions per peer (nil means none)
//
// Returns:
//   - error: Description of the first violation found, nil if the assignment is valid
func (a Assignment) Check(excludes Excludes) error {
	for _, p := range a.Peers() {
		seen := make(map[SubmissionID]struct{}, len(a[p])+len(excludes[p]))
		for _, s := range excludes[p] {
			seen[s] = struct{}{}
		}
		for _, s := range a[p] {
			if _, dup := seen[s]; dup {
				return fmt.Errorf("peer %q cannot review submission %q", p, s)
			}
			seen[s] = struct{}{}
		}
	}

	return nil
}

// Clone returns a deep copy of the exclusions.
func (e Excludes) Clone() Excludes {
	out := make(Excludes, len(e))
	for p, subs := range e {
		out[p] = slices.Clone(subs)
	}

	return out
}

// Merge returns the union of e and the submissions assigned in a.
//
// Used to forbid a second review of the same submission when an assignment is
// built in several passes.
func (e Excludes) Merge(a Assignment) Excludes {
	out := e.Clone()
	for p, subs := range a {
		out[p] = append(out[p], subs...)
	}

	return out
}

// ExcludesFromGroups derives exclusions from submission ownership.
//
// Each submission is authored by a group of peers, and no author may review its
// own group's submission.
//
// Parameters:
//   - groups: Authors of each submission
//
// Returns:
//   - Excludes: For every author, the submissions it owns
func ExcludesFromGroups(groups map[SubmissionID][]PeerID) Excludes {
	out := make(Excludes)
	for s, authors := range groups {
		for _, p := range authors {
			out[p] = append(out[p], s)
		}
	}
	for p := range out {
		slices.Sort(out[p])
	}

	return out
}

// ExcludeSelf returns exclusions forbidding each peer from reviewing the
// submission that carries its own id.
func ExcludeSelf(peers []PeerID) Excludes {
	out := make(Excludes, len(peers))
	for _, p := range peers {
		out[p] = []SubmissionID{SubmissionID(p)}
	}

	return out
}
