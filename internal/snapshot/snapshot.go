// Package snapshot builds a read-only, serializable copy of a world.
//
// A snapshot is referentially closed: every key a segment or road mentions
// belongs to a record in the same snapshot. Segments with a dead endpoint and
// road entries pointing at removed segments are left out.
package snapshot

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/roadnet/editor/internal/world"
)

type Snapshot struct {
	ID        string          `yaml:"id"`
	Name      string          `yaml:"name"`
	CreatedAt time.Time       `yaml:"created_at"`
	Nodes     []NodeRecord    `yaml:"nodes"`
	Segments  []SegmentRecord `yaml:"segments"`
	Roads     []RoadRecord    `yaml:"roads"`
}

// Record keys are arena.Handle.Key values of the live entities.
type NodeRecord struct {
	Key uint64  `yaml:"key"`
	X   float64 `yaml:"x"`
	Y   float64 `yaml:"y"`
}

type SegmentRecord struct {
	Key  uint64  `yaml:"key"`
	A    uint64  `yaml:"a"`
	B    uint64  `yaml:"b"`
	Road *uint64 `yaml:"road,omitempty"`
}

type RoadRecord struct {
	Key      uint64   `yaml:"key"`
	Name     string   `yaml:"name"`
	Segments []uint64 `yaml:"segments"`
}

// Build copies the live content of w.
func Build(w *world.World, name string) *Snapshot {
	s := &Snapshot{
		ID:        newID(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Nodes:     make([]NodeRecord, 0, world.Len[world.Node](w)),
		Segments:  make([]SegmentRecord, 0, world.Len[world.Segment](w)),
		Roads:     make([]RoadRecord, 0, world.Len[world.Road](w)),
	}

	for h, n := range world.All[world.Node](w) {
		s.Nodes = append(s.Nodes, NodeRecord{Key: h.Key(), X: n.Position.X, Y: n.Position.Y})
	}

	kept := make(map[uint64]bool, world.Len[world.Segment](w))
	for h, seg := range world.All[world.Segment](w) {
		if !world.Alive(w, seg.A) || !world.Alive(w, seg.B) {
			continue
		}
		rec := SegmentRecord{Key: h.Key(), A: seg.A.Key(), B: seg.B.Key()}
		if seg.Road != nil && world.Alive(w, *seg.Road) {
			k := seg.Road.Key()
			rec.Road = &k
		}
		s.Segments = append(s.Segments, rec)
		kept[h.Key()] = true
	}

	for h, r := range world.All[world.Road](w) {
		rec := RoadRecord{Key: h.Key(), Name: r.Name, Segments: make([]uint64, 0, len(r.Segments))}
		for _, sh := range r.Segments {
			if kept[sh.Key()] {
				rec.Segments = append(rec.Segments, sh.Key())
			}
		}
		s.Roads = append(s.Roads, rec)
	}
	return s
}

// newID returns a UUID v7, falling back to v4 if v7 generation fails.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

func (s *Snapshot) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return enc.Close()
}

func ReadYAML(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}

func (s *Snapshot) String() string {
	return fmt.Sprintf("snapshot %s: %d nodes, %d segments, %d roads",
		s.ID, len(s.Nodes), len(s.Segments), len(s.Roads))
}
