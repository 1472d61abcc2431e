package estimator

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/arloliu/vancouver/internal/graph"
	"github.com/arloliu/vancouver/types"
)

// Estimator runs the Vancouver recurrence over a review graph.
//
// An Estimator holds configuration only. Every Estimate call builds its own
// state, so one Estimator can serve concurrent callers.
type Estimator struct {
	opts options
}

// New creates an estimator.
//
// Parameters:
//   - opts: Optional configuration (WithMode, WithMinVariance, WithDefaultVariance, WithEpsilon, WithMaxGrade, WithLogger, WithMetrics)
//
// Returns:
//   - *Estimator: Initialized estimator
//
// Example:
//
//	est := estimator.New(estimator.WithMode(types.ModeLeaveOneOut))
//	result, err := est.Estimate(reviews, truths, 20)
func New(opts ...Option) *Estimator {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Estimator{opts: o}
}

// Mode returns the configured recurrence variant.
func (e *Estimator) Mode() types.EstimatorMode {
	return e.opts.mode
}

// state is the outcome of the final round, indexed like the graph.
type state struct {
	jmean []float64
	jvar  []float64
	ivar  []float64
}

// Estimate runs exactly iterations rounds and reports grades and qualities.
//
// Parameters:
//   - reviews: Observed scores keyed by peer, then submission
//   - truths: Known grades (may be nil); entries for submissions nobody reviewed are ignored
//   - iterations: Number of rounds, at least 1
//
// Returns:
//   - *types.Result: Grade and variance per submission, variance per peer
//   - error: ErrInvalidIterations, ErrEmptyReviews, ErrInvalidScore or ErrPreconditionViolation
func (e *Estimator) Estimate(reviews types.Reviews, truths types.GroundTruths, iterations int) (*types.Result, error) {
	start := time.Now()
	mode := e.opts.mode.String()

	g, truth, err := e.prepare(reviews, truths, iterations)
	if err != nil {
		reason := "invalid_input"
		if errors.Is(err, types.ErrPreconditionViolation) {
			reason = "precondition"
		}
		e.opts.metrics.RecordEstimationFailure(mode, reason)
		e.opts.logger.Warn("estimation rejected", "mode", mode, "error", err)

		return nil, err
	}

	var st state
	if e.opts.mode == types.ModeLeaveOneOut {
		st = e.leaveOneOut(g, truth, iterations)
	} else {
		st = e.simplified(g, truth, iterations)
	}

	result := e.buildResult(g, truth, truths, st, iterations)

	clamped := 0
	for _, p := range st.ivar {
		if p >= 1/e.opts.minVariance {
			clamped++
		}
	}

	elapsed := time.Since(start).Seconds()
	e.opts.metrics.RecordEstimation(mode, iterations, elapsed)
	e.opts.metrics.RecordClampedPeers(mode, clamped)
	e.opts.logger.Debug("estimation finished",
		"mode", mode,
		"rounds", iterations,
		"peers", g.Peers.Len(),
		"submissions", g.Submissions.Len(),
		"clamped", clamped)

	return result, nil
}

// prepare validates the input and returns the graph and a per-submission truth
// table (NaN where no truth is known).
func (e *Estimator) prepare(reviews types.Reviews, truths types.GroundTruths, iterations int) (*graph.Graph, []float64, error) {
	if iterations < 1 {
		return nil, nil, fmt.Errorf("%w: got %d", types.ErrInvalidIterations, iterations)
	}

	g := graph.Build(reviews)
	if len(g.Edges) == 0 {
		return nil, nil, types.ErrEmptyReviews
	}

	for _, edge := range g.Edges {
		if math.IsNaN(edge.Score) || math.IsInf(edge.Score, 0) {
			return nil, nil, fmt.Errorf("%w: peer %q scored submission %q with %v", types.ErrInvalidScore,
				g.Peers.ID(edge.Peer), g.Submissions.ID(edge.Submission), edge.Score)
		}
	}

	truth := make([]float64, g.Submissions.Len())
	for j := range truth {
		truth[j] = math.NaN()
	}
	for id, v := range truths {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, nil, fmt.Errorf("%w: ground truth %v for submission %q", types.ErrInvalidScore, v, id)
		}
		if e.opts.maxGrade > 0 && (v < 0 || v > e.opts.maxGrade) {
			return nil, nil, fmt.Errorf("%w: ground truth %v for submission %q outside [0, %v]",
				types.ErrInvalidScore, v, id, e.opts.maxGrade)
		}
		j, ok := g.Submissions.Pos(id)
		if !ok {
			e.opts.logger.Warn("ignoring ground truth for unreviewed submission", "submission", id)

			continue
		}
		truth[j] = v
	}

	if e.opts.mode == types.ModeLeaveOneOut {
		if err := checkDegrees(g); err != nil {
			return nil, nil, err
		}
	}

	return g, truth, nil
}

// checkDegrees enforces the leave-one-out precondition.
func checkDegrees(g *graph.Graph) error {
	if peer, submission := g.MinDegree(); peer >= 2 && submission >= 2 {
		return nil
	}

	for i, edges := range g.ByPeer {
		if len(edges) < 2 {
			return fmt.Errorf("%w: peer %q reviewed %d submission(s), need at least 2",
				types.ErrPreconditionViolation, g.Peers.ID(i), len(edges))
		}
	}
	for j, edges := range g.BySubmission {
		if len(edges) < 2 {
			return fmt.Errorf("%w: submission %q received %d review(s), need at least 2",
				types.ErrPreconditionViolation, g.Submissions.ID(j), len(edges))
		}
	}

	return nil
}

func (e *Estimator) buildResult(g *graph.Graph, truth []float64, truths types.GroundTruths, st state, rounds int) *types.Result {
	result := &types.Result{
		Mode:        e.opts.mode,
		Rounds:      rounds,
		Peers:       make([]types.Peer, g.Peers.Len()),
		Submissions: make([]types.Submission, g.Submissions.Len()),
	}

	for i := range result.Peers {
		result.Peers[i] = types.Peer{
			ID:          g.Peers.ID(i),
			Variance:    e.invert(st.ivar[i]),
			Submissions: g.PeerSubmissions(i),
		}
	}

	for j := range result.Submissions {
		id := g.Submissions.ID(j)
		sub := types.Submission{
			ID:       id,
			Grade:    st.jmean[j],
			Variance: e.invert(st.jvar[j]),
			Peers:    g.SubmissionPeers(j),
		}
		if !math.IsNaN(truth[j]) {
			sub.GroundTruth = truths[id]
			sub.HasGroundTruth = true
		}
		result.Submissions[j] = sub
	}

	return result
}

// invert returns 1/x, shifting an exactly zero x by epsilon.
func (e *Estimator) invert(x float64) float64 {
	if x == 0 {
		return 1 / (x + e.opts.epsilon)
	}

	return 1 / x
}

// peerPrecision applies the clamp to a precision-weighted deviation ratio.
func (e *Estimator) peerPrecision(weight, deviation float64) float64 {
	return math.Min(1/e.opts.minVariance, weight*e.invert(deviation))
}

// grade applies the optional clamp and the ground-truth override.
func (e *Estimator) grade(mean, truth float64) float64 {
	if !math.IsNaN(truth) {
		return truth
	}
	if e.opts.maxGrade > 0 {
		return math.Min(math.Max(mean, 0), e.opts.maxGrade)
	}

	return mean
}

func (e *Estimator) initialPrecisions(n int) []float64 {
	out := make([]float64, n)
	p := 1 / e.opts.defaultVariance
	for i := range out {
		out[i] = p
	}

	return out
}
