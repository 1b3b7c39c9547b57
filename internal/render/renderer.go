package render

import (
	"github.com/roadnet/editor/internal/tool"
	"github.com/roadnet/editor/internal/world"
)

// Palette.
var (
	Background   = RGB(24, 24, 28)
	RoadColor    = RGB(77, 128, 230)
	SegmentColor = RGB(255, 255, 255)
	NodeColor    = RGB(173, 216, 230)
	PreviewLine  = RGB(204, 204, 204)
	PreviewFirst = RGB(51, 204, 51)
	PreviewPoint = RGB(204, 204, 51)
)

// Renderer draws one kind of content. Frame calls every renderer in order,
// so later renderers paint over earlier ones.
type Renderer interface {
	Render(w *world.World, cam Camera, c Canvas)
}

// Frame draws w through cam onto c.
func Frame(w *world.World, cam Camera, c Canvas, renderers ...Renderer) {
	for _, r := range renderers {
		r.Render(w, cam, c)
	}
}

// Layers returns the standard draw order: roads, free segments, nodes and,
// when t is not nil, the road tool preview on top.
func Layers(t *tool.RoadTool) []Renderer {
	layers := []Renderer{RoadLayer{}, SegmentLayer{}, NodeLayer{}}
	if t != nil {
		layers = append(layers, PreviewLayer{Tool: t})
	}
	return layers
}

// RoadLayer draws every road as one polyline per connected run of live
// segments.
type RoadLayer struct{}

func (RoadLayer) Render(w *world.World, cam Camera, c Canvas) {
	for h := range world.All[world.Road](w) {
		runs, _ := w.RoadPath(h)
		for _, run := range runs {
			c.Polyline(project(cam, run), 5, RoadColor)
		}
	}
}

// SegmentLayer draws every segment, road-owned or not.
type SegmentLayer struct{}

func (SegmentLayer) Render(w *world.World, cam Camera, c Canvas) {
	for h := range world.All[world.Segment](w) {
		a, b, ok := w.SegmentEnds(h)
		if !ok {
			continue
		}
		c.Line(cam.ToScreen(a), cam.ToScreen(b), 2, SegmentColor)
	}
}

type NodeLayer struct{}

func (NodeLayer) Render(w *world.World, cam Camera, c Canvas) {
	for _, n := range world.All[world.Node](w) {
		c.Circle(cam.ToScreen(n.Position), 4, NodeColor)
	}
}

// PreviewLayer draws the points of the road being built.
type PreviewLayer struct {
	Tool *tool.RoadTool
}

func (p PreviewLayer) Render(_ *world.World, cam Camera, c Canvas) {
	pts := p.Tool.Preview()
	if len(pts) >= 2 {
		c.Polyline(project(cam, pts), 1.5, PreviewLine)
	}
	for i, pt := range pts {
		col := PreviewPoint
		if i == 0 {
			col = PreviewFirst
		}
		c.Circle(cam.ToScreen(pt), 6, col)
	}
}

func project(cam Camera, pts []world.Vec2) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = cam.ToScreen(p)
	}
	return out
}
