package estimator

import (
	"github.com/arloliu/vancouver/internal/graph"
)

// simplified runs the recurrence with every reviewer in every sum.
func (e *Estimator) simplified(g *graph.Graph, truth []float64, rounds int) state {
	ivar := e.initialPrecisions(g.Peers.Len())
	jvar := make([]float64, g.Submissions.Len())
	jmean := make([]float64, g.Submissions.Len())

	for range rounds {
		for j, edges := range g.BySubmission {
			var precision, weighted float64
			for _, k := range edges {
				edge := g.Edges[k]
				precision += ivar[edge.Peer]
				weighted += edge.Score * ivar[edge.Peer]
			}
			jvar[j] = precision
			jmean[j] = e.grade(weighted*e.invert(precision), truth[j])
		}

		for i, edges := range g.ByPeer {
			var weight, deviation float64
			for _, k := range edges {
				edge := g.Edges[k]
				d := edge.Score - jmean[edge.Submission]
				weight += jvar[edge.Submission]
				deviation += jvar[edge.Submission] * d * d
			}
			ivar[i] = e.peerPrecision(weight, deviation)
		}
	}

	return state{jmean: jmean, jvar: jvar, ivar: ivar}
}
