package strategy

import (
	"fmt"
	"slices"
	"time"

	"github.com/arloliu/vancouver/types"
)

const coveredName = "covered"

// Covered assigns reviews in two RandomMatching passes.
//
// The first pass gives every peer exactly one review over a small set of cover
// submissions. The second pass assigns the remaining k-1 reviews over the other
// submissions, with each peer's cover review added to its exclusions.
type Covered struct {
	matching *RandomMatching
}

var _ types.AssignmentStrategy = (*Covered)(nil)

// NewCovered creates a covered assignment strategy.
//
// Parameters:
//   - opts: Same options as NewRandomMatching
//
// Returns:
//   - *Covered: Initialized strategy
//
// Example:
//
//	c := strategy.NewCovered(strategy.WithSeed(7))
//	assignment, cover, err := c.AssignCovered(peers, submissions, 3, excludes, nil)
func NewCovered(opts ...Option) *Covered {
	return &Covered{matching: NewRandomMatching(opts...)}
}

// Assign implements types.AssignmentStrategy and discards the cover.
func (c *Covered) Assign(peers []types.PeerID, submissions []types.SubmissionID, k int, excludes types.Excludes) (types.Assignment, error) {
	assignment, _, err := c.AssignCovered(peers, submissions, k, excludes, nil)

	return assignment, err
}

// AssignCovered generates an assignment together with its cover.
//
// For N peers and M submissions the cover holds ceil(N/load) distinct
// submissions, where load is ceil(N*k/M). Submissions listed in seed are always
// part of the cover and the rest are sampled from the remaining submissions.
// When seed already holds more submissions than that, the cover is exactly seed.
//
// Loads are balanced within each pass, not across them. The cover pass bounds
// every cover submission by ceil(N/|cover|) and the residual pass bounds every
// other submission by ceil(N*(k-1)/(M-|cover|)), so a submission's total load
// may exceed ceil(N*k/M) when few submissions remain outside the cover.
//
// Parameters:
//   - peers: Peer ids (distinct)
//   - submissions: Submission ids (distinct)
//   - k: Reviews per peer, including the cover review
//   - excludes: Forbidden submissions per peer (nil means none)
//   - seed: Submissions that must belong to the cover (may be nil)
//
// Returns:
//   - types.Assignment: Complete assignment
//   - types.Cover: Cover submissions and the cover review of every peer
//   - error: ErrInvalidCover for unknown seed ids, ErrConstraintInfeasible or an input error
func (c *Covered) AssignCovered(
	peers []types.PeerID,
	submissions []types.SubmissionID,
	k int,
	excludes types.Excludes,
	seed []types.SubmissionID,
) (types.Assignment, types.Cover, error) {
	start := time.Now()

	assignment, cover, tries, err := c.assignCovered(peers, submissions, k, excludes, seed)
	c.matching.opts.metrics.RecordAssignmentAttempt(coveredName, tries, err == nil)
	c.matching.opts.metrics.RecordAssignmentDuration(coveredName, time.Since(start).Seconds())

	return assignment, cover, err
}

func (c *Covered) assignCovered(
	peers []types.PeerID,
	submissions []types.SubmissionID,
	k int,
	excludes types.Excludes,
	seed []types.SubmissionID,
) (types.Assignment, types.Cover, int, error) {
	if err := validateInput(peers, submissions, k); err != nil {
		return nil, types.Cover{}, 0, err
	}

	known := make(map[types.SubmissionID]struct{}, len(submissions))
	for _, s := range submissions {
		known[s] = struct{}{}
	}

	coverSubs := make([]types.SubmissionID, 0, len(seed))
	inCover := make(map[types.SubmissionID]struct{}, len(seed))
	for _, s := range seed {
		if _, ok := known[s]; !ok {
			return nil, types.Cover{}, 0, fmt.Errorf("%w: unknown seed submission %q", types.ErrInvalidCover, s)
		}
		if _, dup := inCover[s]; dup {
			continue
		}
		inCover[s] = struct{}{}
		coverSubs = append(coverSubs, s)
	}

	rng := c.matching.opts.newRand(coveredName)

	load := ceilDiv(len(peers)*k, len(submissions))
	size := ceilDiv(len(peers), load)
	if missing := size - len(coverSubs); missing > 0 {
		pool := make([]types.SubmissionID, 0, len(submissions)-len(coverSubs))
		for _, s := range submissions {
			if _, ok := inCover[s]; !ok {
				pool = append(pool, s)
			}
		}
		rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		for _, s := range pool[:missing] {
			inCover[s] = struct{}{}
			coverSubs = append(coverSubs, s)
		}
	}
	slices.Sort(coverSubs)

	coverAssignment, tries, err := c.matching.assign(rng, peers, coverSubs, 1, excludes, nil)
	if err != nil {
		return nil, types.Cover{}, tries, fmt.Errorf("cover pass: %w", err)
	}
	cover := types.Cover{Submissions: coverSubs, Assignment: coverAssignment}

	if k == 1 {
		return coverAssignment.Clone(), cover, tries, nil
	}

	residualSubs := make([]types.SubmissionID, 0, len(submissions)-len(coverSubs))
	for _, s := range submissions {
		if _, ok := inCover[s]; !ok {
			residualSubs = append(residualSubs, s)
		}
	}
	if len(residualSubs) < k-1 {
		return nil, types.Cover{}, tries, fmt.Errorf("%w: %d submissions left outside the cover, need %d",
			types.ErrConstraintInfeasible, len(residualSubs), k-1)
	}

	residual, residualTries, err := c.matching.assign(rng, peers, residualSubs, k-1, excludes.Merge(coverAssignment), nil)
	tries += residualTries
	if err != nil {
		return nil, types.Cover{}, tries, fmt.Errorf("residual pass: %w", err)
	}

	c.matching.opts.logger.Debug("covered assignment generated",
		"peers", len(peers), "submissions", len(submissions), "k", k, "cover", len(coverSubs), "tries", tries)

	return coverAssignment.Merge(residual), cover, tries, nil
}
