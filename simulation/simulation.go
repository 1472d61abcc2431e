package simulation

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/arloliu/vancouver/estimator"
	"github.com/arloliu/vancouver/internal/logging"
	"github.com/arloliu/vancouver/strategy"
	"github.com/arloliu/vancouver/types"
)

// TrueGrade is the expected score of every synthetic submission.
const TrueGrade = 0.5

// Errors holds the absolute errors of one evaluation.
type Errors struct {
	// Grade is |estimated grade - TrueGrade| per submission.
	Grade []float64

	// Variance is |variance - omniscient variance| per submission, where the
	// omniscient run knows every ground truth.
	Variance []float64

	// Quality is |estimated peer variance - 1/(12q)| per peer.
	Quality []float64
}

// Summary is one statistic of each error series.
type Summary struct {
	Grade    float64 `json:"grade"`
	Variance float64 `json:"variance"`
	Quality  float64 `json:"quality"`
}

// Stats are error statistics averaged across runs.
type Stats struct {
	Runs   int     `json:"runs"`
	Mean   Summary `json:"mean"`
	Median Summary `json:"median"`
	Max    Summary `json:"max"`
}

// Class is a synthetic set of submissions and their authors.
type Class struct {
	Peers       []types.PeerID
	Submissions []types.SubmissionID
	Groups      map[types.SubmissionID][]types.PeerID
}

// NewClass builds n submissions "s01".."sNN", each authored by groupSize peers
// named after the submission ("s01-1", "s01-2", ...).
func NewClass(n, groupSize int) Class {
	width := len(fmt.Sprint(n))
	c := Class{
		Peers:       make([]types.PeerID, 0, n*groupSize),
		Submissions: make([]types.SubmissionID, 0, n),
		Groups:      make(map[types.SubmissionID][]types.PeerID, n),
	}
	for i := 1; i <= n; i++ {
		s := types.SubmissionID(fmt.Sprintf("s%0*d", max(width, 2), i))
		c.Submissions = append(c.Submissions, s)
		for j := 1; j <= groupSize; j++ {
			p := types.PeerID(fmt.Sprintf("%s-%d", s, j))
			c.Peers = append(c.Peers, p)
			c.Groups[s] = append(c.Groups[s], p)
		}
	}

	return c
}

// RandomReviews scores every assigned edge with the mean of q uniform draws,
// where q is the peer's quality (1 when missing or below 1).
func RandomReviews(rng *rand.Rand, assignment types.Assignment, qualities map[types.PeerID]int) types.Reviews {
	reviews := make(types.Reviews, len(assignment))
	for _, p := range assignment.Peers() {
		q := max(qualities[p], 1)
		for _, s := range assignment[p] {
			sum := 0.0
			for range q {
				sum += rng.Float64()
			}
			reviews.Add(p, s, sum/float64(q))
		}
	}

	return reviews
}

// SelectTruths picks n submissions whose grade becomes visible.
//
// Cover submissions are taken first: a random n of them when the cover is
// larger than n, otherwise all of them topped up with random others. The
// result is sorted and never longer than all.
func SelectTruths(rng *rand.Rand, cover, all []types.SubmissionID, n int) []types.SubmissionID {
	n = min(max(n, 0), len(all))

	picked := slices.Clone(cover)
	rng.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })
	if len(picked) >= n {
		picked = picked[:n]
		slices.Sort(picked)

		return picked
	}

	rest := make([]types.SubmissionID, 0, len(all))
	for _, s := range all {
		if !slices.Contains(picked, s) {
			rest = append(rest, s)
		}
	}
	rng.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })
	picked = append(picked, rest[:n-len(picked)]...)
	slices.Sort(picked)

	return picked
}

// Evaluate runs one synthetic class end to end.
//
// Parameters:
//   - cfg: Class and estimator settings
//   - rng: Source of the hidden qualities, scores and truth selection
//   - logger: Logger for the strategy and estimator (nop when nil)
//
// Returns:
//   - Errors: Absolute errors of the run
//   - error: ErrInvalidConfig, ErrConstraintInfeasible or an estimator error
func Evaluate(cfg Config, rng *rand.Rand, logger types.Logger) (Errors, error) {
	if err := cfg.Validate(); err != nil {
		return Errors{}, err
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	class := NewClass(cfg.Submissions, cfg.GroupSize)
	covered := strategy.NewCovered(
		strategy.WithNumTries(cfg.NumTries),
		strategy.WithSeed(rng.Uint64()),
		strategy.WithLogger(logger),
	)
	assignment, cover, err := covered.AssignCovered(class.Peers, class.Submissions, cfg.ReviewsPerPeer,
		types.ExcludesFromGroups(class.Groups), nil)
	if err != nil {
		return Errors{}, fmt.Errorf("assign: %w", err)
	}

	qualities := make(map[types.PeerID]int, len(class.Peers))
	for _, p := range class.Peers {
		qualities[p] = cfg.MinQuality + rng.IntN(cfg.MaxQuality-cfg.MinQuality+1)
	}
	reviews := RandomReviews(rng, assignment, qualities)

	var visibleFrom []types.SubmissionID
	if cfg.UseCover {
		visibleFrom = cover.Submissions
	}
	visible := make(types.GroundTruths, cfg.Truths)
	for _, s := range SelectTruths(rng, visibleFrom, class.Submissions, cfg.Truths) {
		visible[s] = TrueGrade
	}
	omniscient := make(types.GroundTruths, len(class.Submissions))
	for _, s := range class.Submissions {
		omniscient[s] = TrueGrade
	}

	est := estimator.New(estimator.WithMode(cfg.Mode), estimator.WithLogger(logger))
	result, err := est.Estimate(reviews, visible, cfg.Iterations)
	if err != nil {
		return Errors{}, fmt.Errorf("estimate: %w", err)
	}
	omni, err := est.Estimate(reviews, omniscient, cfg.Iterations)
	if err != nil {
		return Errors{}, fmt.Errorf("omniscient estimate: %w", err)
	}

	errs := Errors{
		Grade:    make([]float64, 0, len(result.Submissions)),
		Variance: make([]float64, 0, len(result.Submissions)),
		Quality:  make([]float64, 0, len(result.Peers)),
	}
	for i, s := range result.Submissions {
		errs.Grade = append(errs.Grade, math.Abs(s.Grade-TrueGrade))
		errs.Variance = append(errs.Variance, math.Abs(s.Variance-omni.Submissions[i].Variance))
	}
	for _, p := range result.Peers {
		trueVariance := 1 / (12 * float64(qualities[p.ID]))
		errs.Quality = append(errs.Quality, math.Abs(p.Variance-trueVariance))
	}

	return errs, nil
}

// Run repeats Evaluate and averages the mean, median and max of each error
// series across runs.
//
// Parameters:
//   - cfg: Class and estimator settings; cfg.Seed seeds the whole sequence
//   - runs: Number of classes to evaluate (at least 1)
//   - logger: Logger (nop when nil)
//
// Returns:
//   - Stats: Averaged statistics
//   - error: The first Evaluate error
func Run(cfg Config, runs int, logger types.Logger) (Stats, error) {
	if runs < 1 {
		return Stats{}, fmt.Errorf("%w: runs must be >= 1, got %d", ErrInvalidConfig, runs)
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)) //nolint:gosec // simulation only

	stats := Stats{Runs: runs}
	for run := range runs {
		errs, err := Evaluate(cfg, rng, logger)
		if err != nil {
			return Stats{}, fmt.Errorf("run %d: %w", run, err)
		}

		stats.Mean.add(mean(errs.Grade), mean(errs.Variance), mean(errs.Quality))
		stats.Median.add(median(errs.Grade), median(errs.Variance), median(errs.Quality))
		stats.Max.add(slices.Max(errs.Grade), slices.Max(errs.Variance), slices.Max(errs.Quality))
	}

	n := float64(runs)
	stats.Mean.scale(1 / n)
	stats.Median.scale(1 / n)
	stats.Max.scale(1 / n)

	logger.Debug("simulation finished", "runs", runs, "mean_grade_error", stats.Mean.Grade)

	return stats, nil
}

func (s *Summary) add(grade, variance, quality float64) {
	s.Grade += grade
	s.Variance += variance
	s.Quality += quality
}

func (s *Summary) scale(f float64) {
	s.Grade *= f
	s.Variance *= f
	s.Quality *= f
}
