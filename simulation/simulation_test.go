package simulation

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	vtest "github.com/arloliu/vancouver/testing"
	"github.com/arloliu/vancouver/types"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed)) //nolint:gosec // test only
}

func TestNewClass(t *testing.T) {
	c := NewClass(3, 2)

	require.Equal(t, []types.SubmissionID{"s01", "s02", "s03"}, c.Submissions)
	require.Len(t, c.Peers, 6)
	require.Equal(t, []types.PeerID{"s02-1", "s02-2"}, c.Groups["s02"])

	big := NewClass(120, 1)
	require.Equal(t, types.SubmissionID("s001"), big.Submissions[0])
	require.Equal(t, types.SubmissionID("s120"), big.Submissions[119])
}

func TestRandomReviews(t *testing.T) {
	assignment := types.Assignment{
		"p1": {"s1", "s2"},
		"p2": {"s2", "s3"},
	}
	reviews := RandomReviews(newRand(1), assignment, map[types.PeerID]int{"p1": 5})

	require.Equal(t, assignment, reviews.Assignment())
	for _, row := range reviews {
		for _, score := range row {
			require.GreaterOrEqual(t, score, 0.0)
			require.Less(t, score, 1.0)
		}
	}

	again := RandomReviews(newRand(1), assignment, map[types.PeerID]int{"p1": 5})
	require.Equal(t, reviews, again)
}

func TestSelectTruths(t *testing.T) {
	_, all := vtest.Letters(6)

	t.Run("samples from a large cover", func(t *testing.T) {
		cover := []types.SubmissionID{"A", "C", "E"}
		got := SelectTruths(newRand(2), cover, all, 2)
		require.Len(t, got, 2)
		require.Subset(t, cover, got)
	})

	t.Run("tops up a small cover", func(t *testing.T) {
		cover := []types.SubmissionID{"B"}
		got := SelectTruths(newRand(3), cover, all, 4)
		require.Len(t, got, 4)
		require.Contains(t, got, types.SubmissionID("B"))
		require.True(t, slices.IsSorted(got))
	})

	t.Run("without cover", func(t *testing.T) {
		got := SelectTruths(newRand(4), nil, all, 3)
		require.Len(t, got, 3)
		require.Subset(t, all, got)
	})

	t.Run("bounded by the submissions", func(t *testing.T) {
		require.Equal(t, all, SelectTruths(newRand(5), nil, all, 10))
		require.Empty(t, SelectTruths(newRand(5), all, all, 0))
	})
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	invalid := map[string]func(*Config){
		"submissions":      func(c *Config) { c.Submissions = 1 },
		"group size":       func(c *Config) { c.GroupSize = 0 },
		"reviews per peer": func(c *Config) { c.ReviewsPerPeer = c.Submissions },
		"truths":           func(c *Config) { c.Truths = c.Submissions + 1 },
		"quality range":    func(c *Config) { c.MaxQuality = 0 },
		"iterations":       func(c *Config) { c.Iterations = 0 },
		"mode":             func(c *Config) { c.Mode = "full" },
		"num tries":        func(c *Config) { c.NumTries = 0 },
	}
	for name, mutate := range invalid {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestEvaluate(t *testing.T) {
	cfg := DefaultConfig()

	errs, err := Evaluate(cfg, newRand(7), vtest.NewTestLogger(t))
	require.NoError(t, err)
	require.Len(t, errs.Grade, cfg.Submissions)
	require.Len(t, errs.Variance, cfg.Submissions)
	require.Len(t, errs.Quality, cfg.Submissions*cfg.GroupSize)

	zeros := 0
	for _, e := range errs.Grade {
		require.GreaterOrEqual(t, e, 0.0)
		require.Less(t, e, 1.0)
		if e == 0 {
			zeros++
		}
	}
	require.GreaterOrEqual(t, zeros, cfg.Truths, "visible truths are reported exactly")

	t.Run("all truths visible", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Truths = cfg.Submissions

		errs, err := Evaluate(cfg, newRand(8), nil)
		require.NoError(t, err)
		for i := range errs.Grade {
			require.Zero(t, errs.Grade[i])
			require.Zero(t, errs.Variance[i])
		}
	})

	t.Run("leave-one-out", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Mode = types.ModeLeaveOneOut

		_, err := Evaluate(cfg, newRand(9), nil)
		require.NoError(t, err)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.GroupSize = 0

		_, err := Evaluate(cfg, newRand(9), nil)
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestRun(t *testing.T) {
	cfg := DefaultConfig()

	stats, err := Run(cfg, 3, nil)
	require.NoError(t, err)
	require.Equal(t, 3, stats.Runs)
	require.GreaterOrEqual(t, stats.Max.Grade, stats.Mean.Grade)
	require.GreaterOrEqual(t, stats.Max.Quality, stats.Median.Quality)

	again, err := Run(cfg, 3, nil)
	require.NoError(t, err)
	require.Equal(t, stats, again, "equal seeds give equal statistics")

	_, err = Run(cfg, 0, nil)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestMedian(t *testing.T) {
	require.Zero(t, median(nil))
	require.Equal(t, 2.0, median([]float64{3, 1, 2}))
	require.Equal(t, 2.5, median([]float64{4, 1, 3, 2}))
	require.Equal(t, 2.0, mean([]float64{1, 2, 3}))
}
