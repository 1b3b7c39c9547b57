// Package arena implements a generational arena: O(1) insert, remove and
// validated lookup through typed handles that detect reuse of freed slots.
//
// An Arena is not safe for concurrent use; callers serialize access.
package arena

import "iter"

// slot is one storage cell. generation changes only on remove; val is nil
// while the slot sits on the free list.
type slot[T any] struct {
	generation uint32
	val        *T
}

// Arena owns values of type T and hands out Handle[T] references to them.
// Values are boxed so pointers returned by GetMut survive later inserts.
type Arena[T any] struct {
	slots []slot[T]
	free  []uint32
	count int
}

func New[T any]() *Arena[T] {
	return &Arena[T]{}
}

// WithCapacity preallocates room for n slots.
func WithCapacity[T any](n int) *Arena[T] {
	return &Arena[T]{
		slots: make([]slot[T], 0, n),
	}
}

// Insert stores v and returns its handle. A freed slot is reused with the
// generation it already carries; otherwise a new slot starts at generation 0.
func (a *Arena[T]) Insert(v T) Handle[T] {
	a.count++
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[idx]
		s.val = &v
		return newHandle[T](idx, s.generation)
	}
	idx := uint32(len(a.slots))
	a.slots = append(a.slots, slot[T]{val: &v})
	return newHandle[T](idx, 0)
}

// Remove takes the value out of the slot h refers to and invalidates every
// outstanding handle to it. It reports false when h is stale or out of range.
func (a *Arena[T]) Remove(h Handle[T]) (T, bool) {
	s := a.lookup(h)
	if s == nil {
		var zero T
		return zero, false
	}
	v := *s.val
	s.val = nil
	s.generation++ // wraps at 2^32
	a.free = append(a.free, h.index)
	a.count--
	return v, true
}

// Get returns a copy of the value h refers to.
func (a *Arena[T]) Get(h Handle[T]) (T, bool) {
	s := a.lookup(h)
	if s == nil {
		var zero T
		return zero, false
	}
	return *s.val, true
}

// GetMut returns a pointer to the stored value. The pointer must not be kept
// past a Remove of h.
func (a *Arena[T]) GetMut(h Handle[T]) (*T, bool) {
	s := a.lookup(h)
	if s == nil {
		return nil, false
	}
	return s.val, true
}

// Contains reports whether h currently resolves to a value.
func (a *Arena[T]) Contains(h Handle[T]) bool {
	return a.lookup(h) != nil
}

// Len returns the number of live values.
func (a *Arena[T]) Len() int {
	return a.count
}

// All yields every live value with its handle in slot-index order. Slot order
// matches insertion order until slots start being reused.
func (a *Arena[T]) All() iter.Seq2[Handle[T], T] {
	return func(yield func(Handle[T], T) bool) {
		for i := range a.slots {
			s := &a.slots[i]
			if s.val == nil {
				continue
			}
			if !yield(newHandle[T](uint32(i), s.generation), *s.val) {
				return
			}
		}
	}
}

// Values yields every live value in slot-index order.
func (a *Arena[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range a.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// Each calls fn with a mutable pointer to every live value.
func (a *Arena[T]) Each(fn func(Handle[T], *T)) {
	for i := range a.slots {
		s := &a.slots[i]
		if s.val != nil {
			fn(newHandle[T](uint32(i), s.generation), s.val)
		}
	}
}

// lookup returns the slot for h if h is valid against this arena.
func (a *Arena[T]) lookup(h Handle[T]) *slot[T] {
	if int(h.index) >= len(a.slots) {
		return nil
	}
	s := &a.slots[h.index]
	if s.generation != h.generation || s.val == nil {
		return nil
	}
	return s
}
