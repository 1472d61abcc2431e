package metrics

import (
	"strconv"
	"sync"

	"github.com/arloliu/vancouver/types"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Collectors are created and registered lazily on first use, so constructing a
// PrometheusCollector that is never exercised leaves the registry untouched.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	// Assignment metrics
	assignAttempts *prometheus.CounterVec
	assignTries    *prometheus.HistogramVec
	assignLatency  *prometheus.HistogramVec

	// Estimator metrics
	estRuns     *prometheus.CounterVec
	estRounds   *prometheus.HistogramVec
	estLatency  *prometheus.HistogramVec
	estFailures *prometheus.CounterVec
	estClamped  *prometheus.GaugeVec

	// Publisher metrics
	pubResults *prometheus.CounterVec
	pubKeys    *prometheus.CounterVec
	kvLatency  *prometheus.HistogramVec
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "vancouver" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "vancouver"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.assignAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "assignment",
			Name:      "attempts_total",
			Help:      "Assign calls by strategy and result (success,failure).",
		}, []string{"strategy", "result"})

		p.assignTries = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "assignment",
			Name:      "shuffles",
			Help:      "Number of shuffles performed per Assign call.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 11), // 1 .. 1024
		}, []string{"strategy"})

		p.assignLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "assignment",
			Name:      "duration_seconds",
			Help:      "Latency of Assign calls in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"strategy"})

		p.estRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "estimator",
			Name:      "runs_total",
			Help:      "Completed estimator runs by mode.",
		}, []string{"mode"})

		p.estRounds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "estimator",
			Name:      "rounds",
			Help:      "Rounds executed per estimator run.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 200, 500},
		}, []string{"mode"})

		p.estLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "estimator",
			Name:      "duration_seconds",
			Help:      "Latency of estimator runs in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"mode"})

		p.estFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "estimator",
			Name:      "failures_total",
			Help:      "Estimator runs rejected before the first round, by reason.",
		}, []string{"mode", "reason"})

		p.estClamped = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "estimator",
			Name:      "clamped_peers",
			Help:      "Peers whose precision hit the clamp in the last run.",
		}, []string{"mode"})

		p.pubResults = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "publisher",
			Name:      "publishes_total",
			Help:      "Publish operations by kind and success.",
		}, []string{"kind", "success"})

		p.pubKeys = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "publisher",
			Name:      "keys_total",
			Help:      "Keys handled by publishers, by kind and outcome (written,skipped).",
		}, []string{"kind", "outcome"})

		p.kvLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "kv",
			Name:      "operation_duration_seconds",
			Help:      "NATS KV operation latency in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"operation"})

		p.reg.MustRegister(p.assignAttempts)
		p.reg.MustRegister(p.assignTries)
		p.reg.MustRegister(p.assignLatency)
		p.reg.MustRegister(p.estRuns)
		p.reg.MustRegister(p.estRounds)
		p.reg.MustRegister(p.estLatency)
		p.reg.MustRegister(p.estFailures)
		p.reg.MustRegister(p.estClamped)
		p.reg.MustRegister(p.pubResults)
		p.reg.MustRegister(p.pubKeys)
		p.reg.MustRegister(p.kvLatency)
	})
}

// AssignmentMetrics implementation

// RecordAssignmentAttempt counts an Assign call and observes its shuffle count.
func (p *PrometheusCollector) RecordAssignmentAttempt(strategy string, tries int, success bool) {
	p.ensureRegistered()
	result := "failure"
	if success {
		result = "success"
	}
	p.assignAttempts.WithLabelValues(strategy, result).Inc()
	p.assignTries.WithLabelValues(strategy).Observe(float64(tries))
}

// RecordAssignmentDuration observes Assign latency.
func (p *PrometheusCollector) RecordAssignmentDuration(strategy string, duration float64) {
	p.ensureRegistered()
	p.assignLatency.WithLabelValues(strategy).Observe(duration)
}

// EstimatorMetrics implementation

// RecordEstimation counts a completed run.
func (p *PrometheusCollector) RecordEstimation(mode string, rounds int, duration float64) {
	p.ensureRegistered()
	p.estRuns.WithLabelValues(mode).Inc()
	p.estRounds.WithLabelValues(mode).Observe(float64(rounds))
	p.estLatency.WithLabelValues(mode).Observe(duration)
}

// RecordEstimationFailure counts a rejected run.
func (p *PrometheusCollector) RecordEstimationFailure(mode string, reason string) {
	p.ensureRegistered()
	p.estFailures.WithLabelValues(mode, reason).Inc()
}

// RecordClampedPeers sets the clamped peer gauge.
func (p *PrometheusCollector) RecordClampedPeers(mode string, count int) {
	p.ensureRegistered()
	p.estClamped.WithLabelValues(mode).Set(float64(count))
}

// PublisherMetrics implementation

// RecordPublish counts a publish operation and the keys it touched.
func (p *PrometheusCollector) RecordPublish(kind string, written, skipped int, success bool) {
	p.ensureRegistered()
	p.pubResults.WithLabelValues(kind, strconv.FormatBool(success)).Inc()
	p.pubKeys.WithLabelValues(kind, "written").Add(float64(written))
	p.pubKeys.WithLabelValues(kind, "skipped").Add(float64(skipped))
}

// RecordKVOperationDuration observes KV latency.
func (p *PrometheusCollector) RecordKVOperationDuration(operation string, duration float64) {
	p.ensureRegistered()
	p.kvLatency.WithLabelValues(operation).Observe(duration)
}
