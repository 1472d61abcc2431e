package natskv

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/arloliu/vancouver/internal/hash"
	"github.com/arloliu/vancouver/internal/kvutil"
	"github.com/arloliu/vancouver/internal/logging"
	"github.com/arloliu/vancouver/internal/metrics"
	"github.com/arloliu/vancouver/types"
)

// DefaultAssignmentPrefix is the key prefix of assignment documents.
const DefaultAssignmentPrefix = "assignment"

// AssignmentDocument is the JSON document published for one peer.
type AssignmentDocument struct {
	// Version increases with every Publish, across publisher restarts.
	Version int64 `json:"version"`

	// Lifecycle is a caller-supplied label such as "initial" or "reassign".
	Lifecycle string `json:"lifecycle"`

	Peer        types.PeerID         `json:"peer"`
	Submissions []types.SubmissionID `json:"submissions"`
}

// AssignmentPublisher publishes assignments to NATS KV, one key per peer.
//
// Keys of peers missing from the latest assignment are deleted. A peer whose
// submissions and lifecycle did not change since the previous Publish keeps
// its existing document.
type AssignmentPublisher struct {
	kv     jetstream.KeyValue
	prefix string

	mu             sync.Mutex
	currentVersion int64
	lastPublish    time.Time

	// fingerprints caches the content hash of the last document written per peer.
	fingerprints *xsync.Map[types.PeerID, uint64]

	logger  types.Logger
	metrics types.PublisherMetrics
}

// NewAssignmentPublisher creates a new assignment publisher.
//
// Parameters:
//   - kv: NATS KV bucket for assignments
//   - prefix: Key prefix (DefaultAssignmentPrefix when empty)
//   - logger: Logger for publishing events (nop when nil)
//   - m: Metrics collector (nop when nil)
//
// Returns:
//   - *AssignmentPublisher: A new publisher instance
func NewAssignmentPublisher(kv jetstream.KeyValue, prefix string, logger types.Logger, m types.PublisherMetrics) *AssignmentPublisher {
	if prefix == "" {
		prefix = DefaultAssignmentPrefix
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if m == nil {
		m = metrics.NewNop()
	}

	return &AssignmentPublisher{
		kv:           kv,
		prefix:       prefix,
		fingerprints: xsync.NewMap[types.PeerID, uint64](),
		logger:       logger,
		metrics:      m,
	}
}

// DiscoverHighestVersion scans KV for the highest published version.
//
// Call it once before the first Publish so versions stay monotonic when a new
// publisher takes over an existing bucket.
//
// Parameters:
//   - ctx: Context for cancellation
//
// Returns:
//   - error: KV access failure
func (p *AssignmentPublisher) DiscoverHighestVersion(ctx context.Context) error {
	peers, err := p.listPeers(ctx)
	if err != nil {
		return err
	}

	highest := int64(0)
	for _, peer := range peers {
		doc, err := p.get(ctx, peer)
		if err != nil {
			p.logger.Debug("skipping unreadable assignment", "peer", peer, "error", err)

			continue
		}
		highest = max(highest, doc.Version)
	}

	p.mu.Lock()
	p.currentVersion = max(p.currentVersion, highest)
	p.mu.Unlock()

	if highest > 0 {
		p.logger.Info("discovered existing assignments", "highest_version", highest, "checked_keys", len(peers))
	}

	return nil
}

// Publish writes the assignment to KV.
//
// A failed Put leaves the current version unchanged and keeps the keys of peers
// missing from assignment. Documents written before the failure carry the next
// version, which a retry publishes again.
//
// Parameters:
//   - ctx: Context for cancellation
//   - assignment: Submissions per peer
//   - lifecycle: Label stored in every document
//
// Returns:
//   - error: ErrInvalidKey for ids that are not valid key tokens, or ErrPublishFailed
//
// Example:
//
//	pub := natskv.NewAssignmentPublisher(kv, "", logger, nil)
//	_ = pub.DiscoverHighestVersion(ctx)
//	err := pub.Publish(ctx, assignment, "initial")
func (p *AssignmentPublisher) Publish(ctx context.Context, assignment types.Assignment, lifecycle string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	peers := assignment.Peers()
	keys := make(map[types.PeerID]string, len(peers))
	for _, peer := range peers {
		k, err := key(p.prefix, string(peer))
		if err != nil {
			p.metrics.RecordPublish("assignment", 0, 0, false)

			return err
		}
		keys[peer] = k
	}

	// The version and stale cleanup are committed only once every Put succeeded.
	version := p.currentVersion + 1

	written, skipped := 0, 0
	for _, peer := range peers {
		subs := slices.Clone(assignment[peer])
		slices.Sort(subs)

		fp, err := fingerprint(lifecycle, subs)
		if err != nil {
			p.metrics.RecordPublish("assignment", written, skipped, false)

			return fmt.Errorf("%w: %w", types.ErrPublishFailed, err)
		}
		if prev, ok := p.fingerprints.Load(peer); ok && prev == fp {
			skipped++

			continue
		}

		data, err := json.Marshal(AssignmentDocument{
			Version:     version,
			Lifecycle:   lifecycle,
			Peer:        peer,
			Submissions: subs,
		})
		if err != nil {
			p.metrics.RecordPublish("assignment", written, skipped, false)

			return fmt.Errorf("%w: marshal assignment: %w", types.ErrPublishFailed, err)
		}

		start := time.Now()
		_, err = p.kv.Put(ctx, keys[peer], data)
		p.metrics.RecordKVOperationDuration("put", time.Since(start).Seconds())
		if err != nil {
			p.metrics.RecordPublish("assignment", written, skipped, false)

			return putError(keys[peer], err)
		}
		p.fingerprints.Store(peer, fp)
		written++
	}

	p.currentVersion = version
	p.deleteStale(ctx, keys)

	p.lastPublish = time.Now()
	p.metrics.RecordPublish("assignment", written, skipped, true)
	p.logger.Info("assignments published",
		"version", version,
		"peers", len(peers),
		"written", written,
		"skipped", skipped,
		"lifecycle", lifecycle)

	return nil
}

// Get reads the document published for one peer.
func (p *AssignmentPublisher) Get(ctx context.Context, peer types.PeerID) (AssignmentDocument, error) {
	return p.get(ctx, peer)
}

// CleanupAll deletes every assignment key and forgets the fingerprint cache.
func (p *AssignmentPublisher) CleanupAll(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := p.listPeers(ctx); err != nil {
		return err
	}
	p.deleteStale(ctx, nil)
	p.fingerprints.Clear()
	p.logger.Info("cleaned up all assignments")

	return nil
}

// CurrentVersion returns the version of the last Publish (0 if none).
func (p *AssignmentPublisher) CurrentVersion() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.currentVersion
}

// LastPublishTime returns the time of the last successful Publish.
func (p *AssignmentPublisher) LastPublishTime() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.lastPublish
}

// deleteStale removes keys of peers not in active (all keys when active is nil).
// Failures are logged; publishing continues.
func (p *AssignmentPublisher) deleteStale(ctx context.Context, active map[types.PeerID]string) {
	peers, err := p.listPeers(ctx)
	if err != nil {
		p.logger.Warn("stale assignment cleanup failed, continuing", "error", err)

		return
	}

	deleted := 0
	for _, peer := range peers {
		if _, ok := active[peer]; ok {
			continue
		}

		start := time.Now()
		err := p.kv.Delete(ctx, p.prefix+"."+string(peer))
		p.metrics.RecordKVOperationDuration("delete", time.Since(start).Seconds())
		if err != nil {
			p.logger.Warn("failed to delete stale assignment", "peer", peer, "error", err)

			continue
		}
		p.fingerprints.Delete(peer)
		deleted++
	}

	if deleted > 0 {
		p.logger.Debug("deleted stale assignments", "count", deleted)
	}
}

func (p *AssignmentPublisher) listPeers(ctx context.Context) ([]types.PeerID, error) {
	start := time.Now()
	keys, err := kvutil.ListKeys(ctx, p.kv, p.prefix)
	p.metrics.RecordKVOperationDuration("keys", time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	peers := make([]types.PeerID, 0, len(keys))
	for _, k := range keys {
		peers = append(peers, types.PeerID(k))
	}

	return peers, nil
}

func (p *AssignmentPublisher) get(ctx context.Context, peer types.PeerID) (AssignmentDocument, error) {
	k, err := key(p.prefix, string(peer))
	if err != nil {
		return AssignmentDocument{}, err
	}

	start := time.Now()
	entry, err := p.kv.Get(ctx, k)
	p.metrics.RecordKVOperationDuration("get", time.Since(start).Seconds())
	if err != nil {
		return AssignmentDocument{}, fmt.Errorf("get %s: %w", k, err)
	}

	var doc AssignmentDocument
	if err := json.Unmarshal(entry.Value(), &doc); err != nil {
		return AssignmentDocument{}, fmt.Errorf("decode %s: %w", k, err)
	}

	return doc, nil
}

// fingerprint hashes the version-independent part of a document.
func fingerprint(lifecycle string, subs []types.SubmissionID) (uint64, error) {
	data, err := json.Marshal(struct {
		Lifecycle   string               `json:"lifecycle"`
		Submissions []types.SubmissionID `json:"submissions"`
	}{lifecycle, subs})
	if err != nil {
		return 0, err
	}

	return hash.Fingerprint(data), nil
}
