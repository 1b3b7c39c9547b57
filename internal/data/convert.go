package data

import (
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roadnet/editor/internal/snapshot"
)

// FromSnapshot turns a snapshot back into an editable layout. Each connected
// run of a road's segments becomes one road entry under the road's name, so a
// road with gaps comes back as several roads and no segment is invented
// across a gap. Segments without a road become free segments. Nodes no
// segment uses are not representable and are dropped.
func FromSnapshot(s *snapshot.Snapshot) *Layout {
	nodes := make(map[uint64][]float64, len(s.Nodes))
	for _, n := range s.Nodes {
		nodes[n.Key] = []float64{n.X, n.Y}
	}
	segs := make(map[uint64]snapshot.SegmentRecord, len(s.Segments))
	for _, seg := range s.Segments {
		if nodes[seg.A] == nil || nodes[seg.B] == nil {
			continue
		}
		segs[seg.Key] = seg
	}

	roads := make([]snapshot.RoadRecord, len(s.Roads))
	copy(roads, s.Roads)
	sort.Slice(roads, func(i, j int) bool { return roads[i].Key < roads[j].Key })

	l := &Layout{}
	owned := make(map[uint64]bool)
	for _, r := range roads {
		var (
			run  [][]float64
			last uint64
		)
		for _, key := range r.Segments {
			seg, ok := segs[key]
			if !ok {
				continue
			}
			owned[key] = true
			if len(run) > 0 && seg.A != last {
				l.Roads = append(l.Roads, RoadEntry{Name: r.Name, Points: run})
				run = nil
			}
			if len(run) == 0 {
				run = append(run, nodes[seg.A])
			}
			run = append(run, nodes[seg.B])
			last = seg.B
		}
		if len(run) > 0 {
			l.Roads = append(l.Roads, RoadEntry{Name: r.Name, Points: run})
		}
	}

	free := make([]snapshot.SegmentRecord, 0, len(segs))
	for _, seg := range segs {
		if !owned[seg.Key] {
			free = append(free, seg)
		}
	}
	sort.Slice(free, func(i, j int) bool { return free[i].Key < free[j].Key })
	for _, seg := range free {
		l.Segments = append(l.Segments, SegmentEntry{A: nodes[seg.A], B: nodes[seg.B]})
	}
	return l
}

// WriteYAML writes l in the format LoadLayout reads.
func (l *Layout) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	return enc.Close()
}
