package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/vancouver/types"
)

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ASCII, "ascii": ASCII, "Markdown": Markdown, "md": Markdown} {
		got, err := ParseMode(in)
		require.NoError(t, err)
		require.Equal(t, want, got, in)
	}

	_, err := ParseMode("html")
	require.Error(t, err)
}

func TestAssignment(t *testing.T) {
	a := types.Assignment{"alice": {"s1", "s2"}, "bob": {"s2", "s3"}}
	cover := &types.Cover{
		Submissions: []types.SubmissionID{"s2"},
		Assignment:  types.Assignment{"alice": {"s2"}, "bob": {"s2"}},
	}

	out := Assignment(a, cover, ASCII)
	require.Contains(t, out, "alice")
	require.Contains(t, out, "s1, s2*")
	require.Contains(t, out, "cover: s2")
	require.Less(t, strings.Index(out, "alice"), strings.Index(out, "bob"))

	md := Assignment(a, nil, Markdown)
	require.True(t, strings.HasPrefix(md, "| Peer"), md)
	require.NotContains(t, md, "*")
}

func TestLoads(t *testing.T) {
	out := Loads(types.Assignment{"alice": {"s1", "s2"}, "bob": {"s2"}}, ASCII)

	require.Contains(t, out, "s1")
	require.Less(t, strings.Index(out, "s1"), strings.Index(out, "s2"))
}

func TestResultTables(t *testing.T) {
	r := &types.Result{
		RunID:  "run-1",
		Mode:   types.ModeLeaveOneOut,
		Rounds: 7,
		Peers:  []types.Peer{{ID: "alice", Variance: 0.125, Submissions: []types.SubmissionID{"s1", "s2"}}},
		Submissions: []types.Submission{
			{ID: "s1", Grade: 0.9, Variance: 0.01, HasGroundTruth: true, GroundTruth: 0.9, Peers: []types.PeerID{"alice"}},
		},
	}

	subs := Submissions(r, ASCII)
	require.Contains(t, subs, "0.9000")
	require.Contains(t, subs, "yes")
	require.Contains(t, subs, "run run-1")
	require.Contains(t, subs, "leave_one_out")

	peers := Peers(r, Markdown)
	require.Contains(t, peers, "alice")
	require.Contains(t, peers, "0.1250")
}

func TestStats(t *testing.T) {
	out := Stats(3, []StatsRow{
		{Name: "mean", Grade: 0.01, Variance: 0.002, Quality: 0.3},
		{Name: "max", Grade: 0.05, Variance: 0.01, Quality: 0.6},
	}, ASCII)

	require.Contains(t, out, "mean")
	require.Contains(t, out, "0.01000")
	require.Contains(t, out, "3 runs")
}
