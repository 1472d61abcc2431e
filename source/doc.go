// Package source provides built-in score and ground-truth sources.
//
// Score sources supply the observed review scores the estimator runs on.
// The package includes:
//
//   - Static: Fixed reviews and ground truths held in memory
//   - Matrix: A dense peer x submission matrix with a missing-entry sentinel
//   - CSV: peer,submission,score rows; TruthCSV: submission,grade rows
//
// Custom sources can be implemented by satisfying the types.ScoreSource and
// types.GroundTruthSource interfaces. The natskv package provides a NATS KV
// backed ReviewStore.
package source
