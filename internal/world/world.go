// Package world is the entity store of the road editor. It keeps one
// generational arena per entity kind and the operations that create
// cross-referencing entities without ever leaving a dangling handle behind.
//
// A World is single-writer: callers serialize all access to one instance.
package world

import (
	"iter"

	"github.com/roadnet/editor/internal/core/arena"
)

// World owns every node, segment and road of an editing session.
type World struct {
	nodes    *arena.Arena[Node]
	segments *arena.Arena[Segment]
	roads    *arena.Arena[Road]
}

func New() *World {
	return &World{
		nodes:    arena.WithCapacity[Node](256),
		segments: arena.WithCapacity[Segment](256),
		roads:    arena.WithCapacity[Road](16),
	}
}

// storeOf selects the arena backing entity kind T.
func storeOf[T Entity](w *World) *arena.Arena[T] {
	switch any((*T)(nil)).(type) {
	case *Node:
		return any(w.nodes).(*arena.Arena[T])
	case *Segment:
		return any(w.segments).(*arena.Arena[T])
	case *Road:
		return any(w.roads).(*arena.Arena[T])
	}
	panic("world: unregistered entity kind")
}

// Add stores v and returns its handle.
func Add[T Entity](w *World, v T) arena.Handle[T] {
	return storeOf[T](w).Insert(v)
}

// Get returns a copy of the entity h refers to. A Road copy shares its
// segment list with the stored road; use RoadSegments for an owned copy.
func Get[T Entity](w *World, h arena.Handle[T]) (T, bool) {
	return storeOf[T](w).Get(h)
}

// GetMut returns a pointer to the stored entity.
func GetMut[T Entity](w *World, h arena.Handle[T]) (*T, bool) {
	return storeOf[T](w).GetMut(h)
}

// Remove deletes the entity h refers to and returns it. Nothing referencing
// it is touched; handles held elsewhere simply stop resolving.
func Remove[T Entity](w *World, h arena.Handle[T]) (T, bool) {
	return storeOf[T](w).Remove(h)
}

// Alive reports whether h resolves to a live entity.
func Alive[T Entity](w *World, h arena.Handle[T]) bool {
	return storeOf[T](w).Contains(h)
}

// All yields every live entity of kind T for read-only traversal.
func All[T Entity](w *World) iter.Seq2[arena.Handle[T], T] {
	return storeOf[T](w).All()
}

// Len returns the number of live entities of kind T.
func Len[T Entity](w *World) int {
	return storeOf[T](w).Len()
}
