package estimator

import (
	"github.com/arloliu/vancouver/internal/graph"
)

// leaveOneOut runs the recurrence with per-edge state.
//
// For an edge (i, j), jvarE and jmeanE describe submission j as seen without
// reviewer i, and ivarE describes peer i as seen without submission j.
func (e *Estimator) leaveOneOut(g *graph.Graph, truth []float64, rounds int) state {
	ivarE := e.initialPrecisions(len(g.Edges))
	jvarE := make([]float64, len(g.Edges))
	jmeanE := make([]float64, len(g.Edges))

	for range rounds {
		for j, edges := range g.BySubmission {
			for _, k := range edges {
				var precision, weighted float64
				for _, other := range edges {
					if other == k {
						continue
					}
					precision += ivarE[other]
					weighted += g.Edges[other].Score * ivarE[other]
				}
				jvarE[k] = precision
				jmeanE[k] = e.grade(weighted*e.invert(precision), truth[j])
			}
		}

		for _, edges := range g.ByPeer {
			for _, k := range edges {
				var weight, deviation float64
				for _, other := range edges {
					if other == k {
						continue
					}
					d := g.Edges[other].Score - jmeanE[other]
					weight += jvarE[other]
					deviation += jvarE[other] * d * d
				}
				ivarE[k] = e.peerPrecision(weight, deviation)
			}
		}
	}

	st := state{
		jmean: make([]float64, g.Submissions.Len()),
		jvar:  make([]float64, g.Submissions.Len()),
		ivar:  make([]float64, g.Peers.Len()),
	}

	for j, edges := range g.BySubmission {
		var precision, weighted float64
		for _, k := range edges {
			precision += ivarE[k]
			weighted += g.Edges[k].Score * ivarE[k]
		}
		st.jvar[j] = precision
		st.jmean[j] = e.grade(weighted*e.invert(precision), truth[j])
	}

	for i, edges := range g.ByPeer {
		var weight, deviation float64
		for _, k := range edges {
			d := g.Edges[k].Score - jmeanE[k]
			weight += jvarE[k]
			deviation += jvarE[k] * d * d
		}
		st.ivar[i] = e.peerPrecision(weight, deviation)
	}

	return st
}
