package metrics

import "github.com/arloliu/vancouver/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Components fall back to it when no collector is
// configured.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A new no-op metrics collector instance
//
// Example:
//
//	metrics := metrics.NewNop()
//	engine, err := vancouver.New(&cfg, vancouver.WithMetrics(metrics))
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// AssignmentMetrics implementation

// RecordAssignmentAttempt discards the attempt metric.
func (n *NopMetrics) RecordAssignmentAttempt(_ /* strategy */ string, _ /* tries */ int, _ /* success */ bool) {
	// No-op
}

// RecordAssignmentDuration discards the duration metric.
func (n *NopMetrics) RecordAssignmentDuration(_ /* strategy */ string, _ /* duration */ float64) {
	// No-op
}

// EstimatorMetrics implementation

// RecordEstimation discards the estimation metric.
func (n *NopMetrics) RecordEstimation(_ /* mode */ string, _ /* rounds */ int, _ /* duration */ float64) {
	// No-op
}

// RecordEstimationFailure discards the failure metric.
func (n *NopMetrics) RecordEstimationFailure(_ /* mode */ string, _ /* reason */ string) {
	// No-op
}

// RecordClampedPeers discards the clamp metric.
func (n *NopMetrics) RecordClampedPeers(_ /* mode */ string, _ /* count */ int) {
	// No-op
}

// PublisherMetrics implementation

// RecordPublish discards the publish metric.
func (n *NopMetrics) RecordPublish(_ /* kind */ string, _ /* written */, _ /* skipped */ int, _ /* success */ bool) {
	// No-op
}

// RecordKVOperationDuration discards the KV latency metric.
func (n *NopMetrics) RecordKVOperationDuration(_ /* operation */ string, _ /* duration */ float64) {
	// No-op
}
