package source

import (
	"context"
	"fmt"

	"github.com/arloliu/vancouver/types"
)

// DefaultSentinel marks a missing entry in a score matrix.
const DefaultSentinel = -1.0

// Matrix is a score source backed by a dense peer x submission matrix.
type Matrix struct {
	reviews types.Reviews
}

var _ types.ScoreSource = (*Matrix)(nil)

// MatrixOption configures a Matrix.
type MatrixOption func(*matrixOptions)

type matrixOptions struct {
	sentinel float64
}

// WithSentinel sets the value that marks a missing entry (default: -1).
func WithSentinel(v float64) MatrixOption {
	return func(o *matrixOptions) {
		o.sentinel = v
	}
}

// NewMatrix converts a score matrix into a source.
//
// Row i holds the scores of peers[i] and column j the scores of
// submissions[j]. Entries equal to the sentinel are missing edges.
//
// Parameters:
//   - peers: Row ids
//   - submissions: Column ids
//   - scores: len(peers) rows of len(submissions) entries
//   - opts: Optional configuration (WithSentinel)
//
// Returns:
//   - *Matrix: Source over the non-missing entries
//   - error: Shape mismatch
//
// Example:
//
//	src, err := source.NewMatrix(peers, subs, [][]float64{
//	    {0.9, -1, 0.7},
//	    {-1, 0.4, 0.6},
//	})
func NewMatrix(peers []types.PeerID, submissions []types.SubmissionID, scores [][]float64, opts ...MatrixOption) (*Matrix, error) {
	o := matrixOptions{sentinel: DefaultSentinel}
	for _, opt := range opts {
		opt(&o)
	}

	if len(scores) != len(peers) {
		return nil, fmt.Errorf("score matrix has %d rows for %d peers", len(scores), len(peers))
	}

	reviews := make(types.Reviews, len(peers))
	for i, row := range scores {
		if len(row) != len(submissions) {
			return nil, fmt.Errorf("score matrix row %d has %d entries for %d submissions", i, len(row), len(submissions))
		}
		for j, v := range row {
			if v == o.sentinel {
				continue
			}
			reviews.Add(peers[i], submissions[j], v)
		}
	}

	return &Matrix{reviews: reviews}, nil
}

// ListReviews returns the non-missing entries.
//
// Returns:
//   - types.Reviews: Scores keyed by peer, then submission
//   - error: Always nil (never fails)
func (m *Matrix) ListReviews(_ context.Context) (types.Reviews, error) {
	return m.reviews.Clone(), nil
}
