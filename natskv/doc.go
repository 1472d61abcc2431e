// Package natskv moves assignments, reviews and estimation results over NATS
// JetStream KeyValue buckets.
//
// Three components are provided:
//
//   - AssignmentPublisher: one versioned document per peer under "<prefix>.<peer>"
//   - ReviewStore: one score per edge under "<prefix>.<peer>.<submission>";
//     implements types.ScoreSource
//   - ResultPublisher: estimation results under "<prefix>.<runID>" and "<prefix>.latest"
//
// Peer, submission and run ids become key tokens and must match
// [-/_=a-zA-Z0-9]+. Other ids are rejected with types.ErrInvalidKey.
package natskv
