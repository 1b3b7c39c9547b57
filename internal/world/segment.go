package world

import (
	"fmt"

	"github.com/roadnet/editor/internal/core/arena"
)

// CreateSegment connects a and b with a segment that belongs to no road.
func (w *World) CreateSegment(a, b Endpoint) (arena.Handle[Segment], error) {
	return w.createSegment(nil, a, b)
}

// CreateRoadSegment connects a and b and appends the new segment to road.
func (w *World) CreateRoadSegment(road arena.Handle[Road], a, b Endpoint) (arena.Handle[Segment], error) {
	return w.createSegment(&road, a, b)
}

// createSegment validates every input before it adds anything, so a failed
// call never leaves an orphaned node or segment in the world.
func (w *World) createSegment(road *arena.Handle[Road], a, b Endpoint) (arena.Handle[Segment], error) {
	var none arena.Handle[Segment]

	if road != nil && !w.roads.Contains(*road) {
		return none, fmt.Errorf("road %s: %w", *road, ErrDanglingRoad)
	}
	if err := w.checkEndpoint(a); err != nil {
		return none, fmt.Errorf("endpoint a: %w", err)
	}
	if err := w.checkEndpoint(b); err != nil {
		return none, fmt.Errorf("endpoint b: %w", err)
	}
	if degenerate(a, b) {
		return none, fmt.Errorf("%s to %s: %w", a, b, ErrDegenerateSegment)
	}

	// Nothing below can fail.
	na, _ := w.ResolveEndpoint(a)
	nb, _ := w.ResolveEndpoint(b)

	seg := Segment{A: na, B: nb}
	if road != nil {
		r := *road
		seg.Road = &r
	}
	h := w.segments.Insert(seg)

	if road != nil {
		rd, _ := w.roads.GetMut(*road)
		rd.Segments = append(rd.Segments, h)
	}
	return h, nil
}

// degenerate reports whether a and b would resolve to the same node. Only two
// handle-form endpoints can: every position-form endpoint gets a fresh node,
// so equal positions are not degenerate.
func degenerate(a, b Endpoint) bool {
	return a.existing && b.existing && a.node == b.node
}

// SegmentEnds returns the positions of both endpoints of h. It reports false
// if the segment or either node is gone.
func (w *World) SegmentEnds(h arena.Handle[Segment]) (Vec2, Vec2, bool) {
	seg, ok := w.segments.Get(h)
	if !ok {
		return Vec2{}, Vec2{}, false
	}
	a, ok := w.nodes.Get(seg.A)
	if !ok {
		return Vec2{}, Vec2{}, false
	}
	b, ok := w.nodes.Get(seg.B)
	if !ok {
		return Vec2{}, Vec2{}, false
	}
	return a.Position, b.Position, true
}
