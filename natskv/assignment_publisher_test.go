package natskv

import (
	"context"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/vancouver/internal/kvutil"
	"github.com/arloliu/vancouver/internal/logging"
	"github.com/arloliu/vancouver/internal/metrics"
	vtest "github.com/arloliu/vancouver/testing"
	"github.com/arloliu/vancouver/types"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	return ctx
}

func TestAssignmentPublisher_DiscoverHighestVersion(t *testing.T) {
	_, nc := vtest.StartEmbeddedNATS(t)
	kv := vtest.CreateJetStreamKV(t, nc, "publisher-discover")
	ctx := testContext(t)

	publisher := NewAssignmentPublisher(kv, "", logging.NewNop(), metrics.NewNop())

	require.NoError(t, publisher.DiscoverHighestVersion(ctx))
	require.Equal(t, int64(0), publisher.CurrentVersion())

	for peer, version := range map[string]int64{"alice": 5, "bob": 10} {
		data, err := json.Marshal(AssignmentDocument{Version: version, Peer: types.PeerID(peer)})
		require.NoError(t, err)
		_, err = kv.Put(ctx, "assignment."+peer, data)
		require.NoError(t, err)
	}
	_, err := kv.Put(ctx, "result.latest", []byte(`{"version": 99}`))
	require.NoError(t, err)

	require.NoError(t, publisher.DiscoverHighestVersion(ctx))
	require.Equal(t, int64(10), publisher.CurrentVersion())

	require.NoError(t, publisher.Publish(ctx, types.Assignment{"alice": {"s1"}}, "initial"))
	require.Equal(t, int64(11), publisher.CurrentVersion())
}

func TestAssignmentPublisher_Publish(t *testing.T) {
	_, nc := vtest.StartEmbeddedNATS(t)
	kv := vtest.CreateJetStreamKV(t, nc, "publisher-publish")
	ctx := testContext(t)

	publisher := NewAssignmentPublisher(kv, "", vtest.NewTestLogger(t), nil)

	assignment := types.Assignment{
		"alice": {"s3", "s1"},
		"bob":   {"s2", "s3"},
	}
	require.NoError(t, publisher.Publish(ctx, assignment, "initial"))
	require.Equal(t, int64(1), publisher.CurrentVersion())
	require.False(t, publisher.LastPublishTime().IsZero())

	doc, err := publisher.Get(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, AssignmentDocument{
		Version:     1,
		Lifecycle:   "initial",
		Peer:        "alice",
		Submissions: []types.SubmissionID{"s1", "s3"},
	}, doc)

	// Input slices are not reordered.
	require.Equal(t, []types.SubmissionID{"s3", "s1"}, assignment["alice"])

	t.Run("skips unchanged documents", func(t *testing.T) {
		require.NoError(t, publisher.Publish(ctx, assignment, "initial"))
		require.Equal(t, int64(2), publisher.CurrentVersion())

		doc, err := publisher.Get(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, int64(1), doc.Version)
	})

	t.Run("rewrites changed documents and removes stale peers", func(t *testing.T) {
		next := types.Assignment{
			"alice": {"s1", "s3"},
			"carol": {"s2"},
		}
		require.NoError(t, publisher.Publish(ctx, next, "reassign"))

		peers, err := kvutil.ListKeys(ctx, kv, DefaultAssignmentPrefix)
		require.NoError(t, err)
		require.ElementsMatch(t, []string{"alice", "carol"}, peers)

		doc, err := publisher.Get(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, int64(3), doc.Version)
		require.Equal(t, "reassign", doc.Lifecycle)
	})

	t.Run("rejects ids that are not key tokens", func(t *testing.T) {
		err := publisher.Publish(ctx, types.Assignment{"a.b": {"s1"}}, "initial")
		require.ErrorIs(t, err, ErrInvalidKey)
		require.Equal(t, int64(3), publisher.CurrentVersion())
	})

	t.Run("cleanup removes every key", func(t *testing.T) {
		require.NoError(t, publisher.CleanupAll(ctx))

		peers, err := kvutil.ListKeys(ctx, kv, DefaultAssignmentPrefix)
		require.NoError(t, err)
		require.Empty(t, peers)

		// The fingerprint cache is gone, so the same assignment is written again.
		require.NoError(t, publisher.Publish(ctx, types.Assignment{"alice": {"s1", "s3"}}, "reassign"))
		doc, err := publisher.Get(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, publisher.CurrentVersion(), doc.Version)
	})
}

func TestAssignmentPublisher_FailedPublishKeepsVersion(t *testing.T) {
	_, nc := vtest.StartEmbeddedNATS(t)
	kv := vtest.CreateJetStreamKV(t, nc, "publisher-failed")
	ctx := testContext(t)

	publisher := NewAssignmentPublisher(kv, "", logging.NewNop(), metrics.NewNop())
	require.NoError(t, publisher.Publish(ctx, types.Assignment{
		"alice": {"s1"},
		"bob":   {"s2"},
	}, "initial"))
	require.Equal(t, int64(1), publisher.CurrentVersion())

	canceled, cancel := context.WithCancel(ctx)
	cancel()

	err := publisher.Publish(canceled, types.Assignment{"alice": {"s3"}}, "reassign")
	require.ErrorIs(t, err, ErrPublishFailed)
	require.Equal(t, int64(1), publisher.CurrentVersion())

	// bob is absent from the failed assignment but keeps its document.
	peers, err := kvutil.ListKeys(ctx, kv, DefaultAssignmentPrefix)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"alice", "bob"}, peers)

	doc, err := publisher.Get(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, int64(1), doc.Version)
	require.Equal(t, []types.SubmissionID{"s1"}, doc.Submissions)

	// A retry publishes the version the failed attempt would have used.
	require.NoError(t, publisher.Publish(ctx, types.Assignment{"alice": {"s3"}}, "reassign"))
	require.Equal(t, int64(2), publisher.CurrentVersion())

	peers, err = kvutil.ListKeys(ctx, kv, DefaultAssignmentPrefix)
	require.NoError(t, err)
	require.Equal(t, []string{"alice"}, peers)

	doc, err = publisher.Get(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, int64(2), doc.Version)
}

func TestAssignmentPublisher_MonotonicAcrossPublishers(t *testing.T) {
	_, nc := vtest.StartEmbeddedNATS(t)
	kv := vtest.CreateJetStreamKV(t, nc, "publisher-handover")
	ctx := testContext(t)

	first := NewAssignmentPublisher(kv, "", nil, nil)
	for range 3 {
		require.NoError(t, first.Publish(ctx, types.Assignment{"alice": {"s1"}}, "initial"))
	}
	// Two of the three publishes were skipped, so the stored version is 1.
	require.Equal(t, int64(3), first.CurrentVersion())

	second := NewAssignmentPublisher(kv, "", nil, nil)
	require.NoError(t, second.DiscoverHighestVersion(ctx))
	require.Equal(t, int64(1), second.CurrentVersion())

	require.NoError(t, second.Publish(ctx, types.Assignment{"alice": {"s2"}}, "reassign"))
	doc, err := second.Get(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, int64(2), doc.Version)
}
