package source

import (
	"context"
	"testing"

	"github.com/arloliu/vancouver/types"
	"github.com/stretchr/testify/require"
)

func TestMatrix(t *testing.T) {
	peers := []types.PeerID{"p1", "p2"}
	subs := []types.SubmissionID{"s1", "s2", "s3"}

	t.Run("skips sentinel entries", func(t *testing.T) {
		src, err := NewMatrix(peers, subs, [][]float64{
			{0.9, -1, 0.7},
			{-1, 0.4, 0.6},
		})
		require.NoError(t, err)

		reviews, err := src.ListReviews(context.Background())

		require.NoError(t, err)
		require.Equal(t, types.Reviews{
			"p1": {"s1": 0.9, "s3": 0.7},
			"p2": {"s2": 0.4, "s3": 0.6},
		}, reviews)
	})

	t.Run("custom sentinel keeps negative scores", func(t *testing.T) {
		src, err := NewMatrix(peers[:1], subs[:2], [][]float64{{-1, 99}}, WithSentinel(99))
		require.NoError(t, err)

		reviews, _ := src.ListReviews(context.Background())

		require.Equal(t, types.Reviews{"p1": {"s1": -1}}, reviews)
	})

	t.Run("rejects shape mismatch", func(t *testing.T) {
		_, err := NewMatrix(peers, subs, [][]float64{{0.1, 0.2, 0.3}})
		require.Error(t, err)

		_, err = NewMatrix(peers, subs, [][]float64{{0.1, 0.2, 0.3}, {0.1}})
		require.Error(t, err)
		require.Contains(t, err.Error(), "row 1")
	})
}
