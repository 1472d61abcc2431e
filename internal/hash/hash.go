// Package hash wraps xxh3 for seed derivation and document fingerprints.
package hash

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"
)

// Seed derives a 64-bit random seed from a key.
//
// Equal keys always produce equal seeds, so a run identified by a stable key
// (course id, assignment round) can be reproduced exactly.
//
// Example:
//
//	seed := hash.Seed("cs101-hw3")
func Seed(key string) uint64 {
	return xxh3.HashString(key)
}

// Stream derives the two PCG state words for a seed and a stream label.
//
// Different labels give independent streams from the same seed.
func Stream(seed uint64, label string) (uint64, uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], seed)
	h := xxh3.Hash128Seed(append(buf[:], label...), seed)

	return h.Hi, h.Lo
}

// Fingerprint returns the xxh3 hash of a serialized document.
func Fingerprint(data []byte) uint64 {
	return xxh3.Hash(data)
}
