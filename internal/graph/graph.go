package graph

import (
	"github.com/arloliu/vancouver/types"
)

// Edge is one review in index form.
type Edge struct {
	Peer       int
	Submission int
	Score      float64
}

// Graph is a review graph in index form.
//
// ByPeer[i] and BySubmission[j] hold positions into Edges, in ascending edge
// order.
type Graph struct {
	Peers       *Index[types.PeerID]
	Submissions *Index[types.SubmissionID]

	Edges        []Edge
	ByPeer       [][]int
	BySubmission [][]int
}

// Build converts reviews into index form. Edges are ordered by peer, then
// submission.
func Build(reviews types.Reviews) *Graph {
	flat := reviews.Edges()

	peerIDs := make([]types.PeerID, 0, len(reviews))
	subIDs := make([]types.SubmissionID, 0, len(flat))
	for _, e := range flat {
		peerIDs = append(peerIDs, e.Peer)
		subIDs = append(subIDs, e.Submission)
	}

	g := &Graph{
		Peers:       NewIndex(peerIDs),
		Submissions: NewIndex(subIDs),
		Edges:       make([]Edge, len(flat)),
	}
	g.ByPeer = make([][]int, g.Peers.Len())
	g.BySubmission = make([][]int, g.Submissions.Len())

	for k, e := range flat {
		i, _ := g.Peers.Pos(e.Peer)
		j, _ := g.Submissions.Pos(e.Submission)
		g.Edges[k] = Edge{Peer: i, Submission: j, Score: e.Score}
		g.ByPeer[i] = append(g.ByPeer[i], k)
		g.BySubmission[j] = append(g.BySubmission[j], k)
	}

	return g
}

// MinDegree returns the smallest number of edges incident to any peer and to
// any submission.
func (g *Graph) MinDegree() (peer, submission int) {
	peer, submission = minLen(g.ByPeer), minLen(g.BySubmission)

	return peer, submission
}

// PeerSubmissions returns the submissions reviewed by peer i, sorted.
func (g *Graph) PeerSubmissions(i int) []types.SubmissionID {
	out := make([]types.SubmissionID, len(g.ByPeer[i]))
	for n, k := range g.ByPeer[i] {
		out[n] = g.Submissions.ID(g.Edges[k].Submission)
	}

	return out
}

// SubmissionPeers returns the reviewers of submission j, sorted.
func (g *Graph) SubmissionPeers(j int) []types.PeerID {
	out := make([]types.PeerID, len(g.BySubmission[j]))
	for n, k := range g.BySubmission[j] {
		out[n] = g.Peers.ID(g.Edges[k].Peer)
	}

	return out
}

func minLen(lists [][]int) int {
	if len(lists) == 0 {
		return 0
	}
	m := len(lists[0])
	for _, l := range lists[1:] {
		m = min(m, len(l))
	}

	return m
}
