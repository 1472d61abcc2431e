package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
//
// This interface composes smaller, domain-focused interfaces for better modularity.
type MetricsCollector interface {
	AssignmentMetrics
	EstimatorMetrics
	PublisherMetrics
}

// AssignmentMetrics defines metrics for assignment generation.
type AssignmentMetrics interface {
	// RecordAssignmentAttempt records the outcome of one Assign call.
	//
	// Parameters:
	//   - strategy: Strategy name ("random_matching", "covered")
	//   - tries: Number of shuffles performed
	//   - success: true if a valid assignment was found
	RecordAssignmentAttempt(strategy string, tries int, success bool)

	// RecordAssignmentDuration records the time taken by one Assign call.
	//
	// Parameters:
	//   - strategy: Strategy name
	//   - duration: Time taken in seconds
	RecordAssignmentDuration(strategy string, duration float64)
}

// EstimatorMetrics defines metrics for estimator runs.
type EstimatorMetrics interface {
	// RecordEstimation records a completed estimator run.
	//
	// Parameters:
	//   - mode: Estimator mode ("simplified", "leave_one_out")
	//   - rounds: Number of rounds executed
	//   - duration: Time taken in seconds
	RecordEstimation(mode string, rounds int, duration float64)

	// RecordEstimationFailure records a run rejected before any round executed.
	//
	// Parameters:
	//   - mode: Estimator mode
	//   - reason: Failure reason ("precondition", "invalid_input")
	RecordEstimationFailure(mode string, reason string)

	// RecordClampedPeers records how many peers hit the precision clamp in the final round.
	RecordClampedPeers(mode string, count int)
}

// PublisherMetrics defines metrics for NATS KV publishing.
type PublisherMetrics interface {
	// RecordPublish records a publish operation.
	//
	// Parameters:
	//   - kind: Published document kind ("assignment", "result", "review")
	//   - written: Number of keys written
	//   - skipped: Number of unchanged keys skipped
	//   - success: true if the publish completed
	RecordPublish(kind string, written, skipped int, success bool)

	// RecordKVOperationDuration records NATS KV operation latency.
	//
	// Parameters:
	//   - operation: Operation type ("get", "put", "delete", "keys")
	//   - duration: Time taken in seconds
	RecordKVOperationDuration(operation string, duration float64)
}
