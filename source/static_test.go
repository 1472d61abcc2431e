package source

import (
	"context"
	"testing"

	"github.com/arloliu/vancouver/types"
	"github.com/stretchr/testify/require"
)

func TestStatic(t *testing.T) {
	t.Run("returns reviews and truths", func(t *testing.T) {
		reviews := types.Reviews{"p1": {"s1": 0.5, "s2": 0.7}}
		src := NewStatic(reviews, types.GroundTruths{"s1": 0.6})

		got, err := src.ListReviews(context.Background())
		require.NoError(t, err)
		require.Equal(t, reviews, got)

		truths, err := src.ListGroundTruths(context.Background())
		require.NoError(t, err)
		require.Equal(t, types.GroundTruths{"s1": 0.6}, truths)
	})

	t.Run("returns empty truths when none given", func(t *testing.T) {
		src := NewStatic(types.Reviews{}, nil)

		truths, err := src.ListGroundTruths(context.Background())

		require.NoError(t, err)
		require.NotNil(t, truths)
		require.Empty(t, truths)
	})

	t.Run("does not share maps with the caller", func(t *testing.T) {
		reviews := types.Reviews{"p1": {"s1": 0.5}}
		src := NewStatic(reviews, nil)

		reviews["p1"]["s1"] = 0.9
		got, _ := src.ListReviews(context.Background())
		require.InDelta(t, 0.5, got["p1"]["s1"], 1e-12)

		got["p1"]["s1"] = 0.1
		again, _ := src.ListReviews(context.Background())
		require.InDelta(t, 0.5, again["p1"]["s1"], 1e-12)
	})

	t.Run("update replaces content", func(t *testing.T) {
		src := NewStatic(types.Reviews{"p1": {"s1": 0.5}}, nil)

		src.Update(types.Reviews{"p2": {"s2": 0.3}}, types.GroundTruths{"s2": 0.3})

		got, _ := src.ListReviews(context.Background())
		require.Equal(t, types.Reviews{"p2": {"s2": 0.3}}, got)
	})
}
