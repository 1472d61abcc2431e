package testing

import (
	"fmt"

	"github.com/arloliu/vancouver/types"
)

// Letters returns n peer ids and n submission ids named A, B, C and so on,
// with a numeric suffix once the alphabet is exhausted.
//
// Peer i and submission i share the same id, which makes
// types.ExcludeSelf produce the usual no-self-review constraint.
func Letters(n int) ([]types.PeerID, []types.SubmissionID) {
	peers := make([]types.PeerID, n)
	subs := make([]types.SubmissionID, n)
	for i := range n {
		id := string(rune('A' + i%26))
		if i >= 26 {
			id = fmt.Sprintf("%s%d", id, i/26)
		}
		peers[i] = types.PeerID(id)
		subs[i] = types.SubmissionID(id)
	}

	return peers, subs
}

// FullReviews builds a fully connected review graph where every peer scores
// every submission with score(i, j).
func FullReviews(peers []types.PeerID, subs []types.SubmissionID, score func(i, j int) float64) types.Reviews {
	reviews := make(types.Reviews, len(peers))
	for i, p := range peers {
		for j, s := range subs {
			reviews.Add(p, s, score(i, j))
		}
	}

	return reviews
}
