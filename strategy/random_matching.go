package strategy

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/arloliu/vancouver/types"
)

const randomMatchingName = "random_matching"

// RandomMatching assigns reviews by pairing a shuffled multiset of peer slots
// with a shuffled multiset of submission slots.
//
// Each try permutes both multisets independently, pairs them position-wise and
// validates the result. The first valid pairing is returned; exhausting the
// retry budget returns ErrConstraintInfeasible.
type RandomMatching struct {
	opts options
}

var _ types.AssignmentStrategy = (*RandomMatching)(nil)

// NewRandomMatching creates a new random matching strategy.
//
// Parameters:
//   - opts: Optional configuration (WithNumTries, WithSeed, WithSeedKey, WithExtraSlots, WithLogger, WithMetrics)
//
// Returns:
//   - *RandomMatching: Initialized strategy
//
// Example:
//
//	rm := strategy.NewRandomMatching(strategy.WithSeedKey("cs101-hw3"))
//	assignment, err := rm.Assign(peers, submissions, 3, types.ExcludeSelf(peers))
func NewRandomMatching(opts ...Option) *RandomMatching {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &RandomMatching{opts: o}
}

// Assign generates an assignment of k distinct submissions per peer.
//
// Parameters:
//   - peers: Peer ids (distinct)
//   - submissions: Submission ids (distinct)
//   - k: Reviews per peer, 1 <= k <= len(submissions)
//   - excludes: Forbidden submissions per peer (nil means none)
//
// Returns:
//   - types.Assignment: Map from peer to its k submissions
//   - error: ErrConstraintInfeasible when the retry budget is exhausted, or an input error
func (rm *RandomMatching) Assign(peers []types.PeerID, submissions []types.SubmissionID, k int, excludes types.Excludes) (types.Assignment, error) {
	return rm.AssignWithCover(peers, submissions, k, excludes, nil)
}

// AssignWithCover generates an assignment that keeps a pre-seeded partial
// assignment in place.
//
// Every cover review counts towards its peer's k and consumes one slot of its
// submission's load before the remaining slots are shuffled. The cover itself
// must respect the exclusions and must not exceed any submission's load.
//
// Parameters:
//   - peers: Peer ids (distinct)
//   - submissions: Submission ids (distinct)
//   - k: Reviews per peer, including cover reviews
//   - excludes: Forbidden submissions per peer (nil means none)
//   - cover: Pre-seeded reviews per peer (nil means none)
//
// Returns:
//   - types.Assignment: Complete assignment containing the cover
//   - error: ErrInvalidCover, ErrConstraintInfeasible or an input error
func (rm *RandomMatching) AssignWithCover(peers []types.PeerID, submissions []types.SubmissionID, k int, excludes types.Excludes, cover types.Assignment) (types.Assignment, error) {
	start := time.Now()

	assignment, tries, err := rm.assign(rm.opts.newRand(randomMatchingName), peers, submissions, k, excludes, cover)
	rm.opts.metrics.RecordAssignmentAttempt(randomMatchingName, tries, err == nil)
	rm.opts.metrics.RecordAssignmentDuration(randomMatchingName, time.Since(start).Seconds())

	return assignment, err
}

// assign runs the shuffle loop with the given generator and returns the number
// of shuffles it performed.
func (rm *RandomMatching) assign(
	rng *rand.Rand,
	peers []types.PeerID,
	submissions []types.SubmissionID,
	k int,
	excludes types.Excludes,
	cover types.Assignment,
) (types.Assignment, int, error) {
	if err := validateInput(peers, submissions, k); err != nil {
		return nil, 0, err
	}
	if err := validateCover(peers, submissions, k, excludes, cover); err != nil {
		return nil, 0, err
	}
	if err := checkCapacity(peers, submissions, k, excludes); err != nil {
		return nil, 0, err
	}

	n, m := len(peers), len(submissions)
	load := ceilDiv(n*k, m)

	counts, err := rm.slotCounts(rng, submissions, n*k, load, cover)
	if err != nil {
		return nil, 0, err
	}

	subSlots := make([]types.SubmissionID, 0, n*k)
	for i, s := range submissions {
		for range counts[i] {
			subSlots = append(subSlots, s)
		}
	}
	peerSlots := make([]types.PeerID, 0, n*k)
	for _, p := range peers {
		for range k - len(cover[p]) {
			peerSlots = append(peerSlots, p)
		}
	}

	for try := 1; try <= rm.opts.numTries; try++ {
		rng.Shuffle(len(subSlots), func(i, j int) { subSlots[i], subSlots[j] = subSlots[j], subSlots[i] })
		rng.Shuffle(len(peerSlots), func(i, j int) { peerSlots[i], peerSlots[j] = peerSlots[j], peerSlots[i] })

		candidate := make(types.Assignment, n)
		for _, p := range peers {
			candidate[p] = make([]types.SubmissionID, 0, k)
			candidate[p] = append(candidate[p], cover[p]...)
		}
		for i, p := range peerSlots {
			candidate[p] = append(candidate[p], subSlots[i])
		}

		if candidate.Check(excludes) == nil {
			rm.opts.logger.Debug("assignment generated",
				"peers", n, "submissions", m, "k", k, "load", load, "tries", try)

			return candidate, try, nil
		}
	}

	rm.opts.logger.Warn("assignment retry budget exhausted",
		"peers", n, "submissions", m, "k", k, "tries", rm.opts.numTries)

	return nil, rm.opts.numTries, fmt.Errorf("%w: %d tries for %d peers, %d submissions, k=%d",
		types.ErrConstraintInfeasible, rm.opts.numTries, n, m, k)
}

// slotCounts returns how many residual slots each submission receives once
// the cover is accounted for.
func (rm *RandomMatching) slotCounts(rng *rand.Rand, submissions []types.SubmissionID, slots, load int, cover types.Assignment) ([]int, error) {
	m := len(submissions)
	counts := make([]int, m)

	switch rm.opts.extraSlots {
	case ExtraSlotsTrim:
		for i := range counts {
			counts[i] = load
		}
	default:
		extras := slots - m*(load-1)
		for i := range counts {
			counts[i] = load - 1
			if i < extras {
				counts[i]++
			}
		}
	}

	pos := make(map[types.SubmissionID]int, m)
	for i, s := range submissions {
		pos[s] = i
	}
	for _, subs := range cover {
		for _, s := range subs {
			counts[pos[s]]--
		}
	}
	for i, c := range counts {
		if c < 0 {
			return nil, fmt.Errorf("%w: submission %q is covered more than its load of %d", types.ErrInvalidCover, submissions[i], load)
		}
	}

	if rm.opts.extraSlots == ExtraSlotsTrim {
		// Dropping one copy from distinct submissions is the same as reshuffling
		// until the trimmed tail holds no duplicate id.
		trim := m*load - slots
		candidates := make([]int, 0, m)
		for i, c := range counts {
			if c > 0 {
				candidates = append(candidates, i)
			}
		}
		if len(candidates) < trim {
			return nil, fmt.Errorf("%w: cover leaves %d submissions to trim %d slots from", types.ErrInvalidCover, len(candidates), trim)
		}
		rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
		for _, i := range candidates[:trim] {
			counts[i]--
		}
	}

	return counts, nil
}

func validateInput(peers []types.PeerID, submissions []types.SubmissionID, k int) error {
	if len(peers) == 0 {
		return types.ErrNoPeers
	}
	if len(submissions) == 0 {
		return types.ErrNoSubmissions
	}
	if k < 1 || k > len(submissions) {
		return fmt.Errorf("%w: k=%d with %d submissions", types.ErrInvalidReviewCount, k, len(submissions))
	}
	if id, ok := firstDuplicate(peers); ok {
		return fmt.Errorf("%w: peer %q", types.ErrDuplicateID, id)
	}
	if id, ok := firstDuplicate(submissions); ok {
		return fmt.Errorf("%w: submission %q", types.ErrDuplicateID, id)
	}

	return nil
}

func validateCover(peers []types.PeerID, submissions []types.SubmissionID, k int, excludes types.Excludes, cover types.Assignment) error {
	if len(cover) == 0 {
		return nil
	}

	knownPeers := make(map[types.PeerID]struct{}, len(peers))
	for _, p := range peers {
		knownPeers[p] = struct{}{}
	}
	knownSubs := make(map[types.SubmissionID]struct{}, len(submissions))
	for _, s := range submissions {
		knownSubs[s] = struct{}{}
	}

	for _, p := range cover.Peers() {
		if _, ok := knownPeers[p]; !ok {
			return fmt.Errorf("%w: unknown peer %q", types.ErrInvalidCover, p)
		}
		if len(cover[p]) > k {
			return fmt.Errorf("%w: peer %q has %d cover reviews, k=%d", types.ErrInvalidCover, p, len(cover[p]), k)
		}
		for _, s := range cover[p] {
			if _, ok := knownSubs[s]; !ok {
				return fmt.Errorf("%w: unknown submission %q", types.ErrInvalidCover, s)
			}
		}
	}

	if err := cover.Check(excludes); err != nil {
		return fmt.Errorf("%w: %w", types.ErrInvalidCover, err)
	}

	return nil
}

// checkCapacity rejects inputs where some peer has fewer than k allowed
// submissions, which no number of shuffles can fix.
func checkCapacity(peers []types.PeerID, submissions []types.SubmissionID, k int, excludes types.Excludes) error {
	if len(excludes) == 0 {
		return nil
	}

	known := make(map[types.SubmissionID]struct{}, len(submissions))
	for _, s := range submissions {
		known[s] = struct{}{}
	}

	for _, p := range peers {
		forbidden := make(map[types.SubmissionID]struct{}, len(excludes[p]))
		for _, s := range excludes[p] {
			if _, ok := known[s]; ok {
				forbidden[s] = struct{}{}
			}
		}
		if len(submissions)-len(forbidden) < k {
			return fmt.Errorf("%w: peer %q can review only %d of %d submissions, k=%d",
				types.ErrConstraintInfeasible, p, len(submissions)-len(forbidden), len(submissions), k)
		}
	}

	return nil
}

func firstDuplicate[T comparable](ids []T) (T, bool) {
	seen := make(map[T]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return id, true
		}
		seen[id] = struct{}{}
	}

	var zero T

	return zero, false
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
