package graph

import (
	"cmp"
	"slices"
)

// Index is a bidirectional mapping between ids and dense positions.
//
// Positions follow sorted id order, so two indexes built from the same id set
// are identical regardless of input order.
type Index[T cmp.Ordered] struct {
	ids []T
	pos map[T]int
}

// NewIndex builds an index over the distinct ids in the input.
func NewIndex[T cmp.Ordered](ids []T) *Index[T] {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	pos := make(map[T]int, len(sorted))
	for i, id := range sorted {
		pos[id] = i
	}

	return &Index[T]{ids: sorted, pos: pos}
}

// Len returns the number of ids.
func (x *Index[T]) Len() int {
	return len(x.ids)
}

// Pos returns the position of id.
func (x *Index[T]) Pos(id T) (int, bool) {
	i, ok := x.pos[id]

	return i, ok
}

// ID returns the id stored at position i.
func (x *Index[T]) ID(i int) T {
	return x.ids[i]
}

// IDs returns the ids in position order. The caller must not modify the slice.
func (x *Index[T]) IDs() []T {
	return x.ids
}
