package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNewPrometheus_Defaults(t *testing.T) {
	p := NewPrometheus(nil, "")

	require.Equal(t, prometheus.DefaultRegisterer, p.reg)
	require.Equal(t, "vancouver", p.namespace)
}

func TestPrometheusCollector_LazyRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "test")

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Empty(t, families, "nothing is registered before first use")

	p.RecordAssignmentAttempt("random_matching", 2, true)
	p.RecordAssignmentDuration("random_matching", 0.001)
	p.RecordEstimation("simplified", 10, 0.02)
	p.RecordEstimationFailure("leave_one_out", "precondition")
	p.RecordClampedPeers("simplified", 3)
	p.RecordPublish("assignment", 4, 2, true)
	p.RecordKVOperationDuration("put", 0.001)

	families, err = reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	require.True(t, names["test_assignment_attempts_total"])
	require.True(t, names["test_estimator_runs_total"])
	require.True(t, names["test_estimator_clamped_peers"])
	require.True(t, names["test_publisher_keys_total"])
	require.True(t, names["test_kv_operation_duration_seconds"])
}

func TestPrometheusCollector_Values(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "test")

	p.RecordPublish("result", 2, 1, true)
	p.RecordPublish("result", 3, 0, true)
	p.RecordClampedPeers("simplified", 5)
	p.RecordClampedPeers("simplified", 1)

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, f := range families {
		switch f.GetName() {
		case "test_publisher_keys_total":
			for _, m := range f.GetMetric() {
				labels := map[string]string{}
				for _, l := range m.GetLabel() {
					labels[l.GetName()] = l.GetValue()
				}
				if labels["outcome"] == "written" {
					require.InDelta(t, 5.0, m.GetCounter().GetValue(), 1e-9)
				}
				if labels["outcome"] == "skipped" {
					require.InDelta(t, 1.0, m.GetCounter().GetValue(), 1e-9)
				}
			}
		case "test_estimator_clamped_peers":
			require.Len(t, f.GetMetric(), 1)
			require.InDelta(t, 1.0, f.GetMetric()[0].GetGauge().GetValue(), 1e-9)
		}
	}
}
