package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadnet/editor/internal/core/arena"
)

func TestResolveEndpoint(t *testing.T) {
	w := New()
	live := Add(w, Node{Position: Vec2{1, 1}})
	dead := Add(w, Node{Position: Vec2{2, 2}})
	Remove(w, dead)

	t.Run("position creates a node", func(t *testing.T) {
		before := Len[Node](w)
		h, err := w.ResolveEndpoint(At(Vec2{5, 5}))
		require.NoError(t, err)
		n, ok := Get(w, h)
		require.True(t, ok)
		assert.Equal(t, Vec2{5, 5}, n.Position)
		assert.Equal(t, before+1, Len[Node](w))
	})

	t.Run("live handle is returned as is", func(t *testing.T) {
		before := Len[Node](w)
		h, err := w.ResolveEndpoint(Existing(live))
		require.NoError(t, err)
		assert.Equal(t, live, h)
		assert.Equal(t, before, Len[Node](w))
	})

	t.Run("stale handle fails without creating", func(t *testing.T) {
		before := Len[Node](w)
		_, err := w.ResolveEndpoint(Existing(dead))
		assert.ErrorIs(t, err, ErrStaleHandle)
		assert.Equal(t, before, Len[Node](w))
	})
}

func TestCreateSegment(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(w *World) (Endpoint, Endpoint)
		wantErr  error
		newNodes int
	}{
		{
			name: "two distinct positions",
			setup: func(w *World) (Endpoint, Endpoint) {
				return At(Vec2{0, 0}), At(Vec2{10, 0})
			},
			newNodes: 2,
		},
		{
			name: "existing node to position",
			setup: func(w *World) (Endpoint, Endpoint) {
				n := Add(w, Node{Position: Vec2{0, 0}})
				return Existing(n), At(Vec2{0, 10})
			},
			newNodes: 1,
		},
		{
			name: "two existing nodes",
			setup: func(w *World) (Endpoint, Endpoint) {
				a := Add(w, Node{Position: Vec2{0, 0}})
				b := Add(w, Node{Position: Vec2{3, 4}})
				return Existing(a), Existing(b)
			},
		},
		{
			name: "same node twice is degenerate",
			setup: func(w *World) (Endpoint, Endpoint) {
				n := Add(w, Node{Position: Vec2{0, 0}})
				return Existing(n), Existing(n)
			},
			wantErr: ErrDegenerateSegment,
		},
		{
			name: "same position twice makes two nodes",
			setup: func(w *World) (Endpoint, Endpoint) {
				return At(Vec2{7, 7}), At(Vec2{7, 7})
			},
			newNodes: 2,
		},
		{
			name: "existing node and its own position makes a new node",
			setup: func(w *World) (Endpoint, Endpoint) {
				n := Add(w, Node{Position: Vec2{3, 3}})
				return Existing(n), At(Vec2{3, 3})
			},
			newNodes: 1,
		},
		{
			name: "stale endpoint a",
			setup: func(w *World) (Endpoint, Endpoint) {
				n := Add(w, Node{})
				Remove(w, n)
				return Existing(n), At(Vec2{1, 0})
			},
			wantErr: ErrStaleHandle,
		},
		{
			name: "stale endpoint b after slot reuse",
			setup: func(w *World) (Endpoint, Endpoint) {
				n := Add(w, Node{})
				Remove(w, n)
				Add(w, Node{Position: Vec2{9, 9}}) // reuses n's slot
				return At(Vec2{1, 0}), Existing(n)
			},
			wantErr: ErrStaleHandle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New()
			a, b := tt.setup(w)
			nodesBefore := Len[Node](w)
			segsBefore := Len[Segment](w)

			h, err := w.CreateSegment(a, b)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, nodesBefore, Len[Node](w), "failed call must not add nodes")
				assert.Equal(t, segsBefore, Len[Segment](w), "failed call must not add segments")
				return
			}
			require.NoError(t, err)
			seg, ok := Get(w, h)
			require.True(t, ok)
			assert.NotEqual(t, seg.A, seg.B)
			assert.True(t, Alive(w, seg.A))
			assert.True(t, Alive(w, seg.B))
			assert.Nil(t, seg.Road)
			assert.Equal(t, nodesBefore+tt.newNodes, Len[Node](w))
		})
	}
}

func TestCreateRoadSegmentAppendsInOrder(t *testing.T) {
	w := New()
	r := w.CreateRoad("Main")

	s1, err := w.CreateRoadSegment(r, At(Vec2{0, 0}), At(Vec2{10, 0}))
	require.NoError(t, err)
	seg1, _ := Get(w, s1)

	s2, err := w.CreateRoadSegment(r, Existing(seg1.B), At(Vec2{20, 0}))
	require.NoError(t, err)

	segs, ok := w.RoadSegments(r)
	require.True(t, ok)
	assert.Equal(t, []arena.Handle[Segment]{s1, s2}, segs)

	seg2, _ := Get(w, s2)
	require.NotNil(t, seg2.Road)
	assert.Equal(t, r, *seg2.Road)
	assert.Equal(t, seg1.B, seg2.A, "chained segments share the joint node")
	assert.Equal(t, 3, Len[Node](w))

	path, ok := w.RoadPath(r)
	require.True(t, ok)
	assert.Equal(t, [][]Vec2{{{0, 0}, {10, 0}, {20, 0}}}, path)
}

func TestCreateRoadSegmentOnRemovedRoadLeavesNoOrphan(t *testing.T) {
	w := New()
	r := w.CreateRoad("X")
	_, ok := Remove(w, r)
	require.True(t, ok)

	_, err := w.CreateRoadSegment(r, At(Vec2{0, 0}), At(Vec2{1, 1}))

	assert.ErrorIs(t, err, ErrDanglingRoad)
	assert.Equal(t, 0, Len[Segment](w))
	assert.Equal(t, 0, Len[Node](w))
}

func TestCreateRoadSegmentOnReusedRoadSlot(t *testing.T) {
	w := New()
	old := w.CreateRoad("old")
	Remove(w, old)
	fresh := w.CreateRoad("fresh")
	require.Equal(t, old.Index(), fresh.Index())

	_, err := w.CreateRoadSegment(old, At(Vec2{0, 0}), At(Vec2{1, 0}))
	assert.ErrorIs(t, err, ErrDanglingRoad)

	segs, _ := w.RoadSegments(fresh)
	assert.Empty(t, segs, "stale road handle must not reach the new road")
}

func TestRoadSegmentsIsACopy(t *testing.T) {
	w := New()
	r := w.CreateRoad("copy")
	_, err := w.CreateRoadSegment(r, At(Vec2{0, 0}), At(Vec2{1, 0}))
	require.NoError(t, err)

	segs, _ := w.RoadSegments(r)
	segs[0] = arena.Handle[Segment]{}

	again, _ := w.RoadSegments(r)
	assert.Len(t, again, 1)
	assert.NotEqual(t, arena.Handle[Segment]{}, again[0])
}

func TestRoadPathSkipsRemovedSegments(t *testing.T) {
	w := New()
	r := w.CreateRoad("gappy")
	s1, _ := w.CreateRoadSegment(r, At(Vec2{0, 0}), At(Vec2{1, 0}))
	seg1, _ := Get(w, s1)
	s2, _ := w.CreateRoadSegment(r, Existing(seg1.B), At(Vec2{2, 0}))
	seg2, _ := Get(w, s2)
	_, err := w.CreateRoadSegment(r, Existing(seg2.B), At(Vec2{3, 0}))
	require.NoError(t, err)

	Remove(w, s1)

	path, ok := w.RoadPath(r)
	require.True(t, ok)
	assert.Equal(t, [][]Vec2{{{1, 0}, {2, 0}, {3, 0}}}, path)

	Remove(w, r)
	_, ok = w.RoadPath(r)
	assert.False(t, ok)
}

func TestRoadPathSplitsAtGaps(t *testing.T) {
	w := New()
	r := w.CreateRoad("split")
	s1, _ := w.CreateRoadSegment(r, At(Vec2{0, 0}), At(Vec2{1, 0}))
	seg1, _ := Get(w, s1)
	s2, _ := w.CreateRoadSegment(r, Existing(seg1.B), At(Vec2{2, 0}))
	seg2, _ := Get(w, s2)
	_, err := w.CreateRoadSegment(r, Existing(seg2.B), At(Vec2{3, 0}))
	require.NoError(t, err)

	Remove(w, s2)

	path, ok := w.RoadPath(r)
	require.True(t, ok)
	assert.Equal(t, [][]Vec2{{{0, 0}, {1, 0}}, {{2, 0}, {3, 0}}}, path)
}

func TestRoadPathDoesNotJoinDisconnectedSegments(t *testing.T) {
	w := New()
	r := w.CreateRoad("apart")
	_, err := w.CreateRoadSegment(r, At(Vec2{0, 0}), At(Vec2{1, 0}))
	require.NoError(t, err)
	// Starts where the first one ended, but on a different node.
	_, err = w.CreateRoadSegment(r, At(Vec2{1, 0}), At(Vec2{2, 0}))
	require.NoError(t, err)

	path, _ := w.RoadPath(r)
	assert.Equal(t, [][]Vec2{{{0, 0}, {1, 0}}, {{1, 0}, {2, 0}}}, path)

	empty := w.CreateRoad("empty")
	path, ok := w.RoadPath(empty)
	assert.True(t, ok)
	assert.Empty(t, path)
}

func TestSegmentEndsAfterNodeRemoval(t *testing.T) {
	w := New()
	s, err := w.CreateSegment(At(Vec2{0, 0}), At(Vec2{4, 0}))
	require.NoError(t, err)

	a, b, ok := w.SegmentEnds(s)
	require.True(t, ok)
	assert.Equal(t, Vec2{0, 0}, a)
	assert.Equal(t, Vec2{4, 0}, b)

	seg, _ := Get(w, s)
	Remove(w, seg.B)
	_, _, ok = w.SegmentEnds(s)
	assert.False(t, ok)
	assert.True(t, Alive(w, s), "no cascading delete")
}

func TestEndpointAccessors(t *testing.T) {
	w := New()
	n := Add(w, Node{})

	h, ok := Existing(n).Node()
	assert.True(t, ok)
	assert.Equal(t, n, h)
	_, ok = Existing(n).Position()
	assert.False(t, ok)

	p, ok := At(Vec2{1, 2}).Position()
	assert.True(t, ok)
	assert.Equal(t, Vec2{1, 2}, p)
	assert.Equal(t, "(1, 2)", At(Vec2{1, 2}).String())
	assert.Equal(t, "Handle(0:0)", Existing(n).String())
}
