// Package strategy provides built-in review assignment strategies.
//
// Assignment strategies decide which submissions each peer reviews. The package
// includes two built-in strategies:
//
//   - RandomMatching: shuffle, pair and validate with a bounded retry budget
//   - Covered: a one-review cover pass followed by a residual RandomMatching pass
//
// # Load
//
// With N peers, M submissions and k reviews per peer there are N*k review
// slots, so each submission is reviewed load = ceil(N*k/M) times, or once less
// when N*k is not a multiple of M. Which submissions receive the extra unit is
// decided by the ExtraSlots policy:
//
//   - ExtraSlotsPrefix: the first submissions in input order (default)
//   - ExtraSlotsTrim: a uniformly random subset
//
// # Strategy Selection Guide
//
// RandomMatching:
//   - Use when every review is equivalent
//   - Supports a pre-seeded partial assignment via AssignWithCover
//
// Covered:
//   - Use when some submissions will be graded by staff to anchor the estimator
//   - Every peer reviews exactly one cover submission, so staff grading the
//     cover reaches every peer
//
// Custom strategies can be implemented by satisfying the types.AssignmentStrategy interface.
package strategy
