// Package estimator implements the Vancouver grade estimator.
//
// Given the scores peers gave to submissions, the estimator alternates between
// two updates for a fixed number of rounds:
//
//   - each submission grade is the precision-weighted mean of its reviews
//   - each peer precision is the inverse of its precision-weighted squared
//     deviation from the current grades
//
// Ground-truth grades pin their submissions in every round. Two modes are
// available:
//
//   - ModeSimplified: every reviewer takes part in every sum
//   - ModeLeaveOneOut: a peer's own score never informs its own precision,
//     which requires at least two reviews per peer and per submission
//
// All values are kept as precisions internally and reported as variances.
package estimator
