// Package testing provides test utilities for the vancouver module.
//
// This package offers helpers for setting up test environments, particularly
// embedded NATS servers for transport tests, and small review-graph fixtures.
//
// Key utilities:
//   - StartEmbeddedNATS: Single NATS server with JetStream
//   - CreateJetStreamKV: Convenience wrapper for KV bucket creation
//   - NewTestLogger: types.Logger writing to testing.T and recording every call
//   - Letters, FullReviews: review-graph fixtures
//
// Example usage:
//
//	import (
//	    "testing"
//	    vtest "github.com/arloliu/vancouver/testing"
//	)
//
//	func TestMyComponent(t *testing.T) {
//	    _, nc := vtest.StartEmbeddedNATS(t)
//	    // Use nc for your tests
//	}
package testing
