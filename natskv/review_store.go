package natskv

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/vancouver/internal/kvutil"
	"github.com/arloliu/vancouver/internal/logging"
	"github.com/arloliu/vancouver/internal/metrics"
	"github.com/arloliu/vancouver/types"
)

// DefaultReviewPrefix is the key prefix of recorded reviews.
const DefaultReviewPrefix = "review"

// ReviewStore records review scores in NATS KV and reads them back as a
// types.ScoreSource.
type ReviewStore struct {
	kv      jetstream.KeyValue
	prefix  string
	logger  types.Logger
	metrics types.PublisherMetrics
}

var _ types.ScoreSource = (*ReviewStore)(nil)

// NewReviewStore creates a review store.
//
// Parameters:
//   - kv: NATS KV bucket for reviews
//   - prefix: Key prefix (DefaultReviewPrefix when empty)
//   - logger: Logger (nop when nil)
//   - m: Metrics collector (nop when nil)
//
// Returns:
//   - *ReviewStore: A new store instance
func NewReviewStore(kv jetstream.KeyValue, prefix string, logger types.Logger, m types.PublisherMetrics) *ReviewStore {
	if prefix == "" {
		prefix = DefaultReviewPrefix
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if m == nil {
		m = metrics.NewNop()
	}

	return &ReviewStore{kv: kv, prefix: prefix, logger: logger, metrics: m}
}

// Record stores one review, replacing any earlier score for the same edge.
//
// Returns ErrInvalidScore for NaN or infinite scores and ErrInvalidKey for ids
// that are not valid key tokens.
func (s *ReviewStore) Record(ctx context.Context, review types.Review) error {
	if math.IsNaN(review.Score) || math.IsInf(review.Score, 0) {
		return fmt.Errorf("%w: %s -> %s: %v", types.ErrInvalidScore, review.Peer, review.Submission, review.Score)
	}

	k, err := key(s.prefix, string(review.Peer), string(review.Submission))
	if err != nil {
		return err
	}

	data, err := json.Marshal(review)
	if err != nil {
		return fmt.Errorf("%w: marshal review: %w", types.ErrPublishFailed, err)
	}

	start := time.Now()
	_, err = s.kv.Put(ctx, k, data)
	s.metrics.RecordKVOperationDuration("put", time.Since(start).Seconds())
	if err != nil {
		s.metrics.RecordPublish("review", 0, 0, false)

		return putError(k, err)
	}
	s.metrics.RecordPublish("review", 1, 0, true)

	return nil
}

// RecordAll stores every edge of reviews, stopping at the first failure.
func (s *ReviewStore) RecordAll(ctx context.Context, reviews types.Reviews) error {
	edges := reviews.Edges()
	for _, e := range edges {
		if err := s.Record(ctx, e); err != nil {
			return err
		}
	}
	s.logger.Debug("reviews recorded", "count", len(edges))

	return nil
}

// ListReviews returns every review recorded under the store prefix.
//
// Entries that fail to decode are skipped with a warning.
func (s *ReviewStore) ListReviews(ctx context.Context) (types.Reviews, error) {
	start := time.Now()
	keys, err := kvutil.ListKeys(ctx, s.kv, s.prefix)
	s.metrics.RecordKVOperationDuration("keys", time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	reviews := make(types.Reviews)
	for _, k := range keys {
		if strings.Count(k, ".") != 1 {
			s.logger.Warn("ignoring unexpected review key", "key", k)

			continue
		}

		full := s.prefix + "." + k
		start := time.Now()
		entry, err := s.kv.Get(ctx, full)
		s.metrics.RecordKVOperationDuration("get", time.Since(start).Seconds())
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn("review vanished while listing", "key", full, "error", err)

			continue
		}

		var r types.Review
		if err := json.Unmarshal(entry.Value(), &r); err != nil {
			s.logger.Warn("ignoring undecodable review", "key", full, "error", err)

			continue
		}
		reviews.Add(r.Peer, r.Submission, r.Score)
	}

	return reviews, nil
}
