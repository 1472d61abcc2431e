package types

import (
	"context"
	"maps"
	"slices"
)

// Review is one edge of the review graph: the score a peer gave a submission.
type Review struct {
	Peer       PeerID       `json:"peer"`
	Submission SubmissionID `json:"submission"`
	Score      float64      `json:"score"`
}

// Reviews holds the observed scores keyed by peer, then by submission.
type Reviews map[PeerID]map[SubmissionID]float64

// GroundTruths holds externally supplied grades for a subset of submissions.
type GroundTruths map[SubmissionID]float64

// ReviewsFromEdges builds a Reviews map from a list of edges.
//
// A later edge for the same peer and submission replaces an earlier one.
func ReviewsFromEdges(edges []Review) Reviews {
	out := make(Reviews)
	for _, e := range edges {
		row, ok := out[e.Peer]
		if !ok {
			row = make(map[SubmissionID]float64)
			out[e.Peer] = row
		}
		row[e.Submission] = e.Score
	}

	return out
}

// Add records a single score, allocating the peer row when needed.
func (r Reviews) Add(peer PeerID, sub SubmissionID, score float64) {
	row, ok := r[peer]
	if !ok {
		row = make(map[SubmissionID]float64)
		r[peer] = row
	}
	row[sub] = score
}

// Clone returns a deep copy of the reviews.
func (r Reviews) Clone() Reviews {
	out := make(Reviews, len(r))
	for p, row := range r {
		out[p] = maps.Clone(row)
	}

	return out
}

// Edges flattens the reviews into edges sorted by peer, then submission.
func (r Reviews) Edges() []Review {
	edges := make([]Review, 0, len(r))
	for p, row := range r {
		for s, score := range row {
			edges = append(edges, Review{Peer: p, Submission: s, Score: score})
		}
	}
	slices.SortFunc(edges, func(a, b Review) int {
		if a.Peer != b.Peer {
			if a.Peer < b.Peer {
				return -1
			}

			return 1
		}
		if a.Submission < b.Submission {
			return -1
		}
		if a.Submission > b.Submission {
			return 1
		}

		return 0
	})

	return edges
}

// Assignment returns the review graph structure without scores.
func (r Reviews) Assignment() Assignment {
	out := make(Assignment, len(r))
	for p, row := range r {
		subs := make([]SubmissionID, 0, len(row))
		for s := range row {
			subs = append(subs, s)
		}
		slices.Sort(subs)
		out[p] = subs
	}

	return out
}

// ScoreSource supplies the observed scores of a review graph.
//
// Implementations include static maps, sentinel score matrices, CSV rows and
// NATS KV backed stores.
type ScoreSource interface {
	// ListReviews returns a snapshot of the scores recorded so far.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//
	// Returns:
	//   - Reviews: Scores keyed by peer, then submission
	//   - error: Source access error
	ListReviews(ctx context.Context) (Reviews, error)
}

// GroundTruthSource supplies externally known grades.
//
// Submissions missing from the returned map are left to pure estimation.
type GroundTruthSource interface {
	// ListGroundTruths returns the known grades.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//
	// Returns:
	//   - GroundTruths: Grade per submission (may be empty)
	//   - error: Source access error
	ListGroundTruths(ctx context.Context) (GroundTruths, error)
}
