// Package vancouver assigns peer reviews and estimates submission grades and
// grader reliability from the resulting sparse review graph.
//
// The estimator implements the Vancouver algorithm: submission grades are
// precision-weighted means of the reviewer scores, and reviewer precision is
// the inverse of how far a reviewer strays from the consensus. Both are
// refined together for a fixed number of rounds.
//
// # Quick Start
//
//	cfg := vancouver.DefaultConfig()
//	engine, err := vancouver.New(&cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Every peer reviews three submissions, never its own.
//	assignment, cover, err := engine.AssignCovered(peers, submissions, vancouver.ExcludeSelf(peers), nil)
//
//	// ... collect scores ...
//
//	result, err := engine.Estimate(reviews, vancouver.GroundTruths{cover.Submissions[0]: 8.5})
//	for _, s := range result.Submissions {
//	    fmt.Println(s.ID, s.Grade, s.Variance)
//	}
//
// # Assignment
//
// Assignments are random matchings between k copies of every peer and load
// copies of every submission, reshuffled until no peer reviews a submission
// twice or an excluded one. The covered variant first gives every peer one
// review out of a small cover set, the natural target for instructor grading.
//
// # Estimation Modes
//
//   - simplified: every reviewer contributes to every sum
//   - leave_one_out: a reviewer's own score never informs its own quality;
//     needs at least two reviews per peer and per submission
//
// Ground truths pin the grade of a submission and anchor reviewer quality.
//
// # Subpackages
//
//   - strategy: RandomMatching and Covered assignment strategies
//   - estimator: the Vancouver estimator
//   - source: static, matrix and CSV review sources
//   - natskv: NATS JetStream KV publishers and review store
//   - simulation: synthetic classes for evaluating the estimator
//
// The vancouver command in cmd/vancouver wraps the Engine with CSV input,
// table output and optional NATS publishing.
package vancouver
