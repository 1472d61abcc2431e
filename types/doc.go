// Package types provides core type definitions and interfaces for the Vancouver library.
//
// This package contains shared types that are used across multiple packages in the
// library. By keeping these types in a separate package, we avoid import cycles
// between the root vancouver package and its strategy, estimator and transport packages.
//
// Key types:
//   - PeerID, SubmissionID: Opaque identities of graders and submissions
//   - Assignment: Peer to submissions mapping produced by an AssignmentStrategy
//   - Reviews: Observed scores on the edges of the review graph
//   - Result: Per-submission grade/variance and per-peer variance estimates
//   - Logger: Structured logging interface
//   - MetricsCollector: Metrics recording interface
package types
