package source

import (
	"context"
	"maps"
	"sync"

	"github.com/arloliu/vancouver/types"
)

// Static implements score and ground-truth sources over fixed maps.
type Static struct {
	mu      sync.RWMutex
	reviews types.Reviews
	truths  types.GroundTruths
}

var (
	_ types.ScoreSource       = (*Static)(nil)
	_ types.GroundTruthSource = (*Static)(nil)
)

// NewStatic creates a new static source.
//
// The maps are copied, so later changes by the caller are not observed.
//
// Parameters:
//   - reviews: Observed scores
//   - truths: Known grades (may be nil)
//
// Returns:
//   - *Static: Initialized static source
//
// Example:
//
//	src := source.NewStatic(reviews, types.GroundTruths{"s1": 0.9})
//	result, err := engine.EstimateFrom(ctx, src, src)
func NewStatic(reviews types.Reviews, truths types.GroundTruths) *Static {
	s := &Static{}
	s.Update(reviews, truths)

	return s
}

// ListReviews returns a copy of the reviews.
//
// Returns:
//   - types.Reviews: The fixed reviews
//   - error: Always nil (never fails)
func (s *Static) ListReviews(_ context.Context) (types.Reviews, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.reviews.Clone(), nil
}

// ListGroundTruths returns a copy of the ground truths.
//
// Returns:
//   - types.GroundTruths: The fixed ground truths (empty, never nil)
//   - error: Always nil (never fails)
func (s *Static) ListGroundTruths(_ context.Context) (types.GroundTruths, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.truths), nil
}

// Update replaces the reviews and ground truths.
//
// Parameters:
//   - reviews: New observed scores
//   - truths: New known grades (may be nil)
func (s *Static) Update(reviews types.Reviews, truths types.GroundTruths) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reviews = reviews.Clone()
	s.truths = make(types.GroundTruths, len(truths))
	maps.Copy(s.truths, truths)
}
