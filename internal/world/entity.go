package world

import "github.com/roadnet/editor/internal/core/arena"

// Vec2 is a position in world space.
type Vec2 struct {
	X float64
	Y float64
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }

// DistSq returns the squared distance between v and o.
func (v Vec2) DistSq(o Vec2) float64 {
	d := v.Sub(o)
	return d.X*d.X + d.Y*d.Y
}

// Node is a point of the road graph.
type Node struct {
	Position Vec2
}

// Segment is an edge between two distinct nodes. Road is nil for a free
// segment that belongs to no road.
type Segment struct {
	A    arena.Handle[Node]
	B    arena.Handle[Node]
	Road *arena.Handle[Road]
}

// Road is a named, ordered chain of segments. Segments only grows, in the
// order segments were created against the road.
type Road struct {
	Name     string
	Segments []arena.Handle[Segment]
}

// Entity lists the kinds a World stores.
type Entity interface {
	Node | Segment | Road
}
