package vancouver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/vancouver/source"
	vtest "github.com/arloliu/vancouver/testing"
	"github.com/arloliu/vancouver/types"
)

func scenarioReviews() Reviews {
	return types.ReviewsFromEdges([]Review{
		{Peer: "p1", Submission: "s1", Score: 1.0},
		{Peer: "p1", Submission: "s2", Score: 0.5},
		{Peer: "p2", Submission: "s1", Score: 0.9},
		{Peer: "p2", Submission: "s2", Score: 0.4},
		{Peer: "p3", Submission: "s1", Score: 1.0},
		{Peer: "p3", Submission: "s2", Score: 0.5},
	})
}

type failingSource struct{}

func (failingSource) ListReviews(context.Context) (Reviews, error) {
	return nil, errors.New("source offline")
}

func (failingSource) ListGroundTruths(context.Context) (GroundTruths, error) {
	return nil, errors.New("source offline")
}

type fixedStrategy struct {
	assignment Assignment
}

func (f fixedStrategy) Assign([]PeerID, []SubmissionID, int, Excludes) (Assignment, error) {
	return f.assignment, nil
}

func TestNew(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := New(nil)
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("applies defaults", func(t *testing.T) {
		cfg := Config{}
		engine, err := New(&cfg)
		require.NoError(t, err)
		require.Equal(t, DefaultConfig(), engine.Config())
		require.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Estimator.Mode = "full"
		_, err := New(&cfg)
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("rejects nil strategy", func(t *testing.T) {
		cfg := TestConfig()
		_, err := New(&cfg, WithStrategy(nil))
		require.ErrorIs(t, err, ErrAssignmentStrategyRequired)
	})
}

func TestEngine_Assign(t *testing.T) {
	cfg := TestConfig()
	engine, err := New(&cfg, WithLogger(vtest.NewTestLogger(t)))
	require.NoError(t, err)

	peers, subs := vtest.Letters(6)
	excludes := types.ExcludeSelf(peers)

	a, err := engine.Assign(peers, subs, excludes)
	require.NoError(t, err)
	require.Len(t, a, 6)
	require.NoError(t, a.Check(excludes))
	for _, p := range peers {
		require.Len(t, a[p], cfg.Assignment.ReviewsPerPeer)
	}
	for s, load := range a.Loads() {
		require.Equal(t, 3, load, "submission %s", s)
	}

	again, err := engine.Assign(peers, subs, excludes)
	require.NoError(t, err)
	require.Equal(t, a, again, "seeded engines are reproducible")

	t.Run("with cover", func(t *testing.T) {
		cover := Assignment{"A": {"B"}, "B": {"C"}}
		a, err := engine.AssignWithCover(peers, subs, excludes, cover)
		require.NoError(t, err)
		require.NoError(t, a.Check(excludes))
		require.Contains(t, a["A"], SubmissionID("B"))
		require.Contains(t, a["B"], SubmissionID("C"))
	})

	t.Run("errors are wrapped", func(t *testing.T) {
		_, err := engine.Assign(nil, subs, nil)
		require.ErrorIs(t, err, ErrNoPeers)

		_, err = engine.AssignWithCover(peers, subs, excludes, Assignment{"A": {"A"}})
		require.ErrorIs(t, err, ErrInvalidCover)
	})

	t.Run("custom strategy", func(t *testing.T) {
		fixed := Assignment{"A": {"B"}}
		engine, err := New(&cfg, WithStrategy(fixedStrategy{assignment: fixed}))
		require.NoError(t, err)

		a, err := engine.Assign(peers, subs, excludes)
		require.NoError(t, err)
		require.Equal(t, fixed, a)
	})
}

func TestEngine_AssignCovered(t *testing.T) {
	cfg := TestConfig()
	engine, err := New(&cfg)
	require.NoError(t, err)

	peers, subs := vtest.Letters(6)
	excludes := types.ExcludeSelf(peers)

	a, cover, err := engine.AssignCovered(peers, subs, excludes, []SubmissionID{"C"})
	require.NoError(t, err)
	require.NoError(t, a.Check(excludes))
	require.Len(t, cover.Submissions, 2)
	require.Contains(t, cover.Submissions, SubmissionID("C"))

	for _, p := range peers {
		require.Len(t, a[p], 3)
		require.Len(t, cover.Assignment[p], 1)
		require.Contains(t, a[p], cover.Assignment[p][0])
	}

	_, _, err = engine.AssignCovered(peers, subs, excludes, []SubmissionID{"nope"})
	require.ErrorIs(t, err, ErrInvalidCover)
}

func TestEngine_Estimate(t *testing.T) {
	cfg := TestConfig()
	engine, err := New(&cfg, WithRunIDFunc(func() string { return "run-1" }))
	require.NoError(t, err)

	r, err := engine.Estimate(scenarioReviews(), nil)
	require.NoError(t, err)
	require.Equal(t, "run-1", r.RunID)
	require.Equal(t, ModeSimplified, r.Mode)
	require.Equal(t, cfg.Estimator.Iterations, r.Rounds)

	s1, ok := r.Submission("s1")
	require.True(t, ok)
	require.Greater(t, s1.Grade, 0.9)
	require.Less(t, s1.Grade, 1.0)

	t.Run("default run ids are unique", func(t *testing.T) {
		engine, err := New(&cfg)
		require.NoError(t, err)

		first, err := engine.Estimate(scenarioReviews(), nil)
		require.NoError(t, err)
		second, err := engine.Estimate(scenarioReviews(), nil)
		require.NoError(t, err)
		require.NotEmpty(t, first.RunID)
		require.NotEqual(t, first.RunID, second.RunID)
	})

	t.Run("leave-one-out precondition", func(t *testing.T) {
		cfg := TestConfig()
		cfg.Estimator.Mode = string(ModeLeaveOneOut)
		engine, err := New(&cfg)
		require.NoError(t, err)

		reviews := scenarioReviews()
		delete(reviews["p1"], "s2")
		_, err = engine.Estimate(reviews, nil)
		require.ErrorIs(t, err, ErrPreconditionViolation)
	})
}

func TestEngine_EstimateFrom(t *testing.T) {
	cfg := TestConfig()
	engine, err := New(&cfg)
	require.NoError(t, err)
	ctx := context.Background()

	src := source.NewStatic(scenarioReviews(), GroundTruths{"s1": 0.95})

	r, err := engine.EstimateFrom(ctx, src, src)
	require.NoError(t, err)
	s1, ok := r.Submission("s1")
	require.True(t, ok)
	require.True(t, s1.HasGroundTruth)
	require.InDelta(t, 0.95, s1.Grade, 1e-12)

	r, err = engine.EstimateFrom(ctx, src, nil)
	require.NoError(t, err)
	s1, _ = r.Submission("s1")
	require.False(t, s1.HasGroundTruth)

	_, err = engine.EstimateFrom(ctx, nil, nil)
	require.ErrorIs(t, err, ErrScoreSourceRequired)

	_, err = engine.EstimateFrom(ctx, failingSource{}, nil)
	require.ErrorContains(t, err, "source offline")

	_, err = engine.EstimateFrom(ctx, src, failingSource{})
	require.ErrorContains(t, err, "ground truths")
}
