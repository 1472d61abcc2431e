package testing

import (
	"testing"

	"github.com/arloliu/vancouver/types"
	"github.com/stretchr/testify/require"
)

func TestLetters(t *testing.T) {
	peers, subs := Letters(3)

	require.Equal(t, []types.PeerID{"A", "B", "C"}, peers)
	require.Equal(t, []types.SubmissionID{"A", "B", "C"}, subs)

	peers, _ = Letters(28)
	require.Equal(t, types.PeerID("A1"), peers[26])
	require.Equal(t, types.PeerID("B1"), peers[27])
}

func TestFullReviews(t *testing.T) {
	peers, subs := Letters(2)

	reviews := FullReviews(peers, subs, func(i, j int) float64 { return float64(i*10 + j) })

	require.Len(t, reviews.Edges(), 4)
	require.InDelta(t, 11.0, reviews["B"]["B"], 1e-12)
}

func TestFormatKeyValues(t *testing.T) {
	require.Empty(t, formatKeyValues(nil))
	require.Equal(t, "a=1 b=<missing>", formatKeyValues([]any{"a", 1, "b"}))
}
