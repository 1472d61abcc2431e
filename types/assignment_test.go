package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestAssignmentInvert(t *testing.T) {
	t.Parallel()

	a := Assignment{
		"alice": {"s2", "s1"},
		"bob":   {"s1"},
		"carol": {"s2", "s3"},
	}

	want := map[SubmissionID][]PeerID{
		"s1": {"alice", "bob"},
		"s2": {"alice", "carol"},
		"s3": {"carol"},
	}
	if diff := cmp.Diff(want, a.Invert()); diff != "" {
		t.Fatalf("Invert() mismatch (-want +got):\n%s", diff)
	}
}

func TestAssignmentLoads(t *testing.T) {
	t.Parallel()

	a := Assignment{
		"alice": {"s1", "s2"},
		"bob":   {"s1", "s3"},
	}

	require.Equal(t, map[SubmissionID]int{"s1": 2, "s2": 1, "s3": 1}, a.Loads())
	require.Equal(t, []PeerID{"alice", "bob"}, a.Peers())
}

func TestAssignmentCheck(t *testing.T) {
	t.Parallel()

	t.Run("accepts valid assignment", func(t *testing.T) {
		a := Assignment{"alice": {"s2", "s3"}, "bob": {"s1", "s3"}}
		excludes := Excludes{"alice": {"s1"}, "bob": {"s2"}}

		require.NoError(t, a.Check(excludes))
		require.NoError(t, a.Check(nil))
	})

	t.Run("rejects excluded submission", func(t *testing.T) {
		a := Assignment{"alice": {"s1", "s3"}}

		err := a.Check(Excludes{"alice": {"s1"}})
		require.Error(t, err)
		require.Contains(t, err.Error(), "alice")
	})

	t.Run("rejects duplicate submission", func(t *testing.T) {
		a := Assignment{"alice": {"s2", "s2"}}

		require.Error(t, a.Check(nil))
	})
}

func TestAssignmentCloneAndMerge(t *testing.T) {
	t.Parallel()

	a := Assignment{"alice": {"s1"}}
	b := Assignment{"alice": {"s2"}, "bob": {"s3"}}

	merged := a.Merge(b)
	require.Equal(t, Assignment{"alice": {"s1", "s2"}, "bob": {"s3"}}, merged)
	require.Equal(t, Assignment{"alice": {"s1"}}, a, "merge must not modify the receiver")

	clone := merged.Clone()
	clone["alice"][0] = "changed"
	require.Equal(t, SubmissionID("s1"), merged["alice"][0])

	require.Nil(t, Assignment(nil).Clone())
	require.Equal(t, b, Assignment(nil).Merge(b))
}

func TestExcludesFromGroups(t *testing.T) {
	t.Parallel()

	groups := map[SubmissionID][]PeerID{
		"a": {"a1", "a2", "a3"},
		"b": {"b1", "b2"},
	}

	excludes := ExcludesFromGroups(groups)

	require.Len(t, excludes, 5)
	require.Equal(t, []SubmissionID{"a"}, excludes["a2"])
	require.Equal(t, []SubmissionID{"b"}, excludes["b1"])
}

func TestExcludesMerge(t *testing.T) {
	t.Parallel()

	base := Excludes{"alice": {"s1"}}
	merged := base.Merge(Assignment{"alice": {"s2"}, "bob": {"s3"}})

	require.Equal(t, Excludes{"alice": {"s1", "s2"}, "bob": {"s3"}}, merged)
	require.Equal(t, Excludes{"alice": {"s1"}}, base)
}

func TestExcludeSelf(t *testing.T) {
	t.Parallel()

	excludes := ExcludeSelf([]PeerID{"A", "B"})

	require.Equal(t, Excludes{"A": {"A"}, "B": {"B"}}, excludes)
}
