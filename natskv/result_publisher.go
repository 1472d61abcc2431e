package natskv

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/vancouver/internal/logging"
	"github.com/arloliu/vancouver/internal/metrics"
	"github.com/arloliu/vancouver/types"
)

const (
	// DefaultResultPrefix is the key prefix of estimation results.
	DefaultResultPrefix = "result"

	latestToken = "latest"
)

// ResultPublisher stores estimation results in NATS KV.
//
// Every result is written twice: under its run id and under "latest".
type ResultPublisher struct {
	kv      jetstream.KeyValue
	prefix  string
	logger  types.Logger
	metrics types.PublisherMetrics
}

// NewResultPublisher creates a new result publisher.
//
// Parameters:
//   - kv: NATS KV bucket for results
//   - prefix: Key prefix (DefaultResultPrefix when empty)
//   - logger: Logger (nop when nil)
//   - m: Metrics collector (nop when nil)
//
// Returns:
//   - *ResultPublisher: A new publisher instance
func NewResultPublisher(kv jetstream.KeyValue, prefix string, logger types.Logger, m types.PublisherMetrics) *ResultPublisher {
	if prefix == "" {
		prefix = DefaultResultPrefix
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if m == nil {
		m = metrics.NewNop()
	}

	return &ResultPublisher{kv: kv, prefix: prefix, logger: logger, metrics: m}
}

// Publish writes the result under its run id and under the latest key.
//
// Returns ErrInvalidKey when the run id is empty or not a valid key token,
// and ErrPublishFailed when a write fails.
func (p *ResultPublisher) Publish(ctx context.Context, result *types.Result) error {
	if result == nil {
		return fmt.Errorf("%w: nil result", types.ErrPublishFailed)
	}
	if result.RunID == latestToken {
		return fmt.Errorf("%w: run id %q is reserved", types.ErrInvalidKey, result.RunID)
	}

	runKey, err := key(p.prefix, result.RunID)
	if err != nil {
		p.metrics.RecordPublish("result", 0, 0, false)

		return err
	}
	latestKey := p.prefix + "." + latestToken

	data, err := json.Marshal(result)
	if err != nil {
		p.metrics.RecordPublish("result", 0, 0, false)

		return fmt.Errorf("%w: marshal result: %w", types.ErrPublishFailed, err)
	}

	for i, k := range []string{runKey, latestKey} {
		start := time.Now()
		_, err := p.kv.Put(ctx, k, data)
		p.metrics.RecordKVOperationDuration("put", time.Since(start).Seconds())
		if err != nil {
			p.metrics.RecordPublish("result", i, 0, false)

			return putError(k, err)
		}
	}

	p.metrics.RecordPublish("result", 2, 0, true)
	p.logger.Info("result published",
		"run_id", result.RunID,
		"mode", result.Mode,
		"submissions", len(result.Submissions),
		"bytes", len(data))

	return nil
}

// Get reads the result of one run.
func (p *ResultPublisher) Get(ctx context.Context, runID string) (*types.Result, error) {
	k, err := key(p.prefix, runID)
	if err != nil {
		return nil, err
	}

	return p.read(ctx, k)
}

// Latest reads the most recently published result.
func (p *ResultPublisher) Latest(ctx context.Context) (*types.Result, error) {
	return p.read(ctx, p.prefix+"."+latestToken)
}

func (p *ResultPublisher) read(ctx context.Context, k string) (*types.Result, error) {
	start := time.Now()
	entry, err := p.kv.Get(ctx, k)
	p.metrics.RecordKVOperationDuration("get", time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", k, err)
	}

	var result types.Result
	if err := json.Unmarshal(entry.Value(), &result); err != nil {
		return nil, fmt.Errorf("decode %s: %w", k, err)
	}

	return &result, nil
}
