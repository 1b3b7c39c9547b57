package arena

import "fmt"

// Handle refers to a value stored in an Arena[T]. It pairs a slot index with the
// generation the slot had when the value was inserted; the generation bumps on
// remove, so handles to a removed value never resolve again even after the slot
// is reused. T is a compile-time tag only.
//
// Handles are plain values: copy them freely and compare them with ==. Only an
// Arena mints non-zero handles, and a handle is meaningless outside the arena
// that issued it.
type Handle[T any] struct {
	index      uint32
	generation uint32
}

func newHandle[T any](index, generation uint32) Handle[T] {
	return Handle[T]{index: index, generation: generation}
}

func (h Handle[T]) Index() uint32      { return h.index }
func (h Handle[T]) Generation() uint32 { return h.generation }

// IsZero reports whether h is the zero handle. The zero handle is the first
// handle any arena issues, so it is not "invalid" by itself; it must still be
// checked with Get like any other handle.
func (h Handle[T]) IsZero() bool { return h.index == 0 && h.generation == 0 }

// Key packs the handle into a single integer: generation in the upper 32 bits,
// index in the lower 32 bits. Collaborators use it as an opaque map or row key.
func (h Handle[T]) Key() uint64 {
	return uint64(h.generation)<<32 | uint64(h.index)
}

func (h Handle[T]) String() string {
	return fmt.Sprintf("Handle(%d:%d)", h.index, h.generation)
}
