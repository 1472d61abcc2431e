package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReviewsFromEdges(t *testing.T) {
	t.Parallel()

	edges := []Review{
		{Peer: "p2", Submission: "s1", Score: 0.9},
		{Peer: "p1", Submission: "s2", Score: 0.5},
		{Peer: "p1", Submission: "s1", Score: 1.0},
		{Peer: "p1", Submission: "s2", Score: 0.6},
	}

	reviews := ReviewsFromEdges(edges)

	require.Len(t, reviews, 2)
	require.InDelta(t, 0.6, reviews["p1"]["s2"], 1e-12, "later edge replaces earlier one")

	flat := reviews.Edges()
	require.Equal(t, []Review{
		{Peer: "p1", Submission: "s1", Score: 1.0},
		{Peer: "p1", Submission: "s2", Score: 0.6},
		{Peer: "p2", Submission: "s1", Score: 0.9},
	}, flat)
}

func TestReviewsAssignment(t *testing.T) {
	t.Parallel()

	reviews := Reviews{}
	reviews.Add("p1", "s2", 0.4)
	reviews.Add("p1", "s1", 0.3)
	reviews.Add("p2", "s1", 0.8)

	require.Equal(t, Assignment{
		"p1": {"s1", "s2"},
		"p2": {"s1"},
	}, reviews.Assignment())
}

func TestReviewsClone(t *testing.T) {
	t.Parallel()

	reviews := Reviews{}
	reviews.Add("p1", "s1", 0.5)

	clone := reviews.Clone()
	clone.Add("p1", "s1", 0.9)
	clone.Add("p2", "s1", 0.1)

	require.InDelta(t, 0.5, reviews["p1"]["s1"], 1e-12)
	require.Len(t, reviews, 1)
}
