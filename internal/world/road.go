package world

import (
	"slices"

	"github.com/roadnet/editor/internal/core/arena"
)

// CreateRoad adds an empty road named name.
func (w *World) CreateRoad(name string) arena.Handle[Road] {
	return w.roads.Insert(Road{Name: name})
}

// RoadSegments returns a copy of the road's segment list in road order. The
// list may contain handles of segments removed since they were appended.
func (w *World) RoadSegments(h arena.Handle[Road]) ([]arena.Handle[Segment], bool) {
	r, ok := w.roads.Get(h)
	if !ok {
		return nil, false
	}
	return slices.Clone(r.Segments), true
}

// RoadPath returns the positions along a road as runs of connected segments.
// A run continues while a live segment starts at the node the previous live
// segment ended on; otherwise a new run begins. Segments whose nodes are gone
// are skipped, so removing a middle segment splits the road in two runs.
func (w *World) RoadPath(h arena.Handle[Road]) ([][]Vec2, bool) {
	r, ok := w.roads.Get(h)
	if !ok {
		return nil, false
	}
	var (
		runs [][]Vec2
		last arena.Handle[Node]
	)
	for _, sh := range r.Segments {
		seg, ok := w.segments.Get(sh)
		if !ok {
			continue
		}
		a, okA := w.nodes.Get(seg.A)
		b, okB := w.nodes.Get(seg.B)
		if !okA || !okB {
			continue
		}
		if len(runs) == 0 || seg.A != last {
			runs = append(runs, []Vec2{a.Position})
		}
		runs[len(runs)-1] = append(runs[len(runs)-1], b.Position)
		last = seg.B
	}
	return runs, true
}
