package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roadnet/editor/internal/config"
	"github.com/roadnet/editor/internal/core/event"
	"github.com/roadnet/editor/internal/tool"
	"github.com/roadnet/editor/internal/world"
)

func testCamera() Camera {
	return NewCamera(config.RenderConfig{Width: 200, Height: 100, Zoom: 2})
}

func TestCameraRoundTrip(t *testing.T) {
	cam := testCamera()
	assert.Equal(t, Point{X: 100, Y: 50}, cam.ToScreen(world.Vec2{}))
	assert.Equal(t, Point{X: 120, Y: 30}, cam.ToScreen(world.Vec2{X: 10, Y: 10}), "world y points up")

	for _, p := range []world.Vec2{{X: 0, Y: 0}, {X: -7, Y: 3}, {X: 12.5, Y: -4}} {
		got := cam.ToWorld(cam.ToScreen(p))
		assert.InDelta(t, p.X, got.X, 1e-9)
		assert.InDelta(t, p.Y, got.Y, 1e-9)
	}
}

func TestCameraPanAndZoom(t *testing.T) {
	cam := testCamera()
	cam.Pan(20, 0)
	assert.Equal(t, Point{X: 120, Y: 50}, cam.ToScreen(world.Vec2{}), "dragging right moves content right")

	cam.ZoomBy(1000)
	assert.Equal(t, float64(maxZoom), cam.Zoom)
	cam.ZoomBy(1e-9)
	assert.Equal(t, minZoom, cam.Zoom)
	cam.ZoomBy(-1)
	assert.Equal(t, minZoom, cam.Zoom, "non-positive factors are ignored")
}

func TestCameraFit(t *testing.T) {
	cam := testCamera()
	cam.Fit([]world.Vec2{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 40}}, 10)

	assert.Equal(t, world.Vec2{X: 50, Y: 20}, cam.Center)
	assert.InDelta(t, 1.8, cam.Zoom, 1e-9) // min(180/100, 80/40)

	tl := cam.ToScreen(world.Vec2{X: 0, Y: 40})
	assert.InDelta(t, 10, tl.X, 1e-9)
}

func TestFrameDrawsEveryKind(t *testing.T) {
	w := world.New()
	r := w.CreateRoad("Main")
	s, err := w.CreateRoadSegment(r, world.At(world.Vec2{X: 0}), world.At(world.Vec2{X: 10}))
	require.NoError(t, err)
	seg, _ := world.Get(w, s)
	_, err = w.CreateRoadSegment(r, world.Existing(seg.B), world.At(world.Vec2{X: 10, Y: 10}))
	require.NoError(t, err)
	_, err = w.CreateSegment(world.At(world.Vec2{X: -5}), world.At(world.Vec2{X: -5, Y: 5}))
	require.NoError(t, err)

	var rec Recorder
	Frame(w, testCamera(), &rec, Layers(nil)...)

	assert.Equal(t, 1, rec.Count(ShapePolyline), "one road")
	assert.Equal(t, 3, rec.Count(ShapeLine), "every segment")
	assert.Equal(t, 5, rec.Count(ShapeCircle), "every node")
	assert.Len(t, rec.Shapes[0].Points, 3, "road polyline passes through the shared joint")

	rec.Reset()
	assert.Empty(t, rec.Shapes)
}

func TestRoadLayerDrawsEachRun(t *testing.T) {
	w := world.New()
	r := w.CreateRoad("Broken")
	s1, err := w.CreateRoadSegment(r, world.At(world.Vec2{X: 0}), world.At(world.Vec2{X: 1}))
	require.NoError(t, err)
	seg1, _ := world.Get(w, s1)
	s2, err := w.CreateRoadSegment(r, world.Existing(seg1.B), world.At(world.Vec2{X: 5, Y: 5}))
	require.NoError(t, err)
	seg2, _ := world.Get(w, s2)
	_, err = w.CreateRoadSegment(r, world.Existing(seg2.B), world.At(world.Vec2{X: 6, Y: 5}))
	require.NoError(t, err)
	world.Remove(w, s2)

	var rec Recorder
	Frame(w, testCamera(), &rec, RoadLayer{})

	require.Equal(t, 2, rec.Count(ShapePolyline), "no connector across the removed segment")
	cam := testCamera()
	assert.Equal(t, []Point{cam.ToScreen(world.Vec2{X: 0}), cam.ToScreen(world.Vec2{X: 1})}, rec.Shapes[0].Points)
	assert.Equal(t, []Point{cam.ToScreen(world.Vec2{X: 5, Y: 5}), cam.ToScreen(world.Vec2{X: 6, Y: 5})}, rec.Shapes[1].Points)
}

func TestFrameSkipsBrokenSegments(t *testing.T) {
	w := world.New()
	s, err := w.CreateSegment(world.At(world.Vec2{}), world.At(world.Vec2{X: 1}))
	require.NoError(t, err)
	seg, _ := world.Get(w, s)
	world.Remove(w, seg.A)

	var rec Recorder
	Frame(w, testCamera(), &rec, SegmentLayer{}, NodeLayer{})
	assert.Equal(t, 0, rec.Count(ShapeLine))
	assert.Equal(t, 1, rec.Count(ShapeCircle))
}

func TestPreviewLayer(t *testing.T) {
	w := world.New()
	rt := tool.NewRoadTool(w, event.NewBus(), config.Defaults().Tool, zap.NewNop())
	rt.Toggle()
	require.NoError(t, rt.Place(world.Vec2{X: 1}))
	require.NoError(t, rt.Place(world.Vec2{X: 2}))

	var rec Recorder
	Frame(w, testCamera(), &rec, Layers(rt)...)

	require.Equal(t, 1, rec.Count(ShapePolyline))
	require.Equal(t, 2, rec.Count(ShapeCircle))
	assert.Equal(t, PreviewFirst, rec.Shapes[1].Color)
	assert.Equal(t, PreviewPoint, rec.Shapes[2].Color)
}

func TestWriteSVG(t *testing.T) {
	var rec Recorder
	rec.Line(Point{0, 0}, Point{10, 10}, 2, SegmentColor)
	rec.Circle(Point{5, 5}, 4, Color{255, 0, 0, 0})
	rec.Polyline([]Point{{1, 1}}, 1, RoadColor) // too short, skipped

	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, 64, 32, Background, rec.Shapes))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" width="64" height="32"`))
	assert.Contains(t, out, `<polyline points="0.00,0.00 10.00,10.00" fill="none" stroke="#ffffff"`)
	assert.Contains(t, out, `<circle cx="5.00" cy="5.00" r="4" fill="#ff0000" fill-opacity="0"/>`)
	assert.Equal(t, 1, strings.Count(out, "<polyline"))
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
}
