package data

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadnet/editor/internal/snapshot"
	"github.com/roadnet/editor/internal/world"
)

func TestFromSnapshotRebuildsLayout(t *testing.T) {
	l, err := LoadLayout(writeLayout(t, sample))
	require.NoError(t, err)
	w := world.New()
	require.NoError(t, l.Apply(w, newTool(t, w)))

	back := FromSnapshot(snapshot.Build(w, "convert"))

	require.Len(t, back.Roads, 2)
	assert.Equal(t, "Main Street", back.Roads[0].Name)
	assert.Equal(t, [][]float64{{0, 0}, {10, 0}, {20, 5}}, back.Roads[0].Points)
	assert.Equal(t, "Road", back.Roads[1].Name)
	require.Len(t, back.Segments, 1)
	assert.Equal(t, []float64{100, 100}, back.Segments[0].A)

	var buf bytes.Buffer
	require.NoError(t, back.WriteYAML(&buf))
	path := filepath.Join(t.TempDir(), "back.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	again, err := LoadLayout(path)
	require.NoError(t, err)
	assert.Equal(t, back, again)
}

func TestFromSnapshotSkipsMissingSegments(t *testing.T) {
	s := &snapshot.Snapshot{
		Nodes: []snapshot.NodeRecord{{Key: 1, X: 0}, {Key: 2, X: 1}, {Key: 3, X: 5}, {Key: 4, X: 6}},
		Segments: []snapshot.SegmentRecord{
			{Key: 10, A: 1, B: 2},
			{Key: 11, A: 3, B: 4},
		},
		Roads: []snapshot.RoadRecord{
			{Key: 20, Name: "Gappy", Segments: []uint64{10, 99, 11}},
			{Key: 21, Name: "Empty", Segments: []uint64{99}},
		},
	}

	l := FromSnapshot(s)
	assert.Equal(t, []RoadEntry{
		{Name: "Gappy", Points: [][]float64{{0, 0}, {1, 0}}},
		{Name: "Gappy", Points: [][]float64{{5, 0}, {6, 0}}},
	}, l.Roads)
	assert.Empty(t, l.Segments)
}

func TestFromSnapshotKeepsSegmentCount(t *testing.T) {
	w := world.New()
	r := w.CreateRoad("Ring")
	s1, err := w.CreateRoadSegment(r, world.At(world.Vec2{X: 0}), world.At(world.Vec2{X: 1}))
	require.NoError(t, err)
	seg1, _ := world.Get(w, s1)
	s2, err := w.CreateRoadSegment(r, world.Existing(seg1.B), world.At(world.Vec2{X: 2}))
	require.NoError(t, err)
	seg2, _ := world.Get(w, s2)
	s3, err := w.CreateRoadSegment(r, world.Existing(seg2.B), world.At(world.Vec2{X: 3}))
	require.NoError(t, err)
	seg3, _ := world.Get(w, s3)
	_, err = w.CreateRoadSegment(r, world.Existing(seg3.B), world.At(world.Vec2{X: 4}))
	require.NoError(t, err)
	// Disconnected from the rest of the road.
	_, err = w.CreateRoadSegment(r, world.At(world.Vec2{X: 5, Y: 5}), world.At(world.Vec2{X: 6, Y: 5}))
	require.NoError(t, err)
	_, err = w.CreateSegment(world.At(world.Vec2{Y: 9}), world.At(world.Vec2{X: 1, Y: 9}))
	require.NoError(t, err)
	world.Remove(w, s2)
	want := world.Len[world.Segment](w)
	require.Equal(t, 5, want)

	l := FromSnapshot(snapshot.Build(w, "count"))
	assert.Equal(t, []RoadEntry{
		{Name: "Ring", Points: [][]float64{{0, 0}, {1, 0}}},
		{Name: "Ring", Points: [][]float64{{2, 0}, {3, 0}, {4, 0}}},
		{Name: "Ring", Points: [][]float64{{5, 5}, {6, 5}}},
	}, l.Roads)
	require.Len(t, l.Segments, 1)

	back := world.New()
	require.NoError(t, l.Apply(back, newTool(t, back)))
	assert.Equal(t, want, world.Len[world.Segment](back))
	assert.Equal(t, 3, world.Len[world.Road](back))
}
