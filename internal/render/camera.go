// Package render draws the road network through a camera transform onto a
// Canvas. It only reads the world.
package render

import (
	"github.com/roadnet/editor/internal/config"
	"github.com/roadnet/editor/internal/world"
)

const (
	minZoom = 0.05
	maxZoom = 50
)

// Point is a position in screen space, y pointing down.
type Point struct {
	X float64
	Y float64
}

// Camera maps world space (y up) to a Width×Height viewport. Center is the
// world position shown at the middle of the viewport.
type Camera struct {
	Center world.Vec2
	Zoom   float64
	Width  float64
	Height float64
}

func NewCamera(cfg config.RenderConfig) Camera {
	c := Camera{
		Center: world.Vec2{X: cfg.CenterX, Y: cfg.CenterY},
		Zoom:   1,
		Width:  float64(cfg.Width),
		Height: float64(cfg.Height),
	}
	c.ZoomBy(cfg.Zoom)
	return c
}

func (c Camera) ToScreen(p world.Vec2) Point {
	return Point{
		X: (p.X-c.Center.X)*c.Zoom + c.Width/2,
		Y: (c.Center.Y-p.Y)*c.Zoom + c.Height/2,
	}
}

func (c Camera) ToWorld(p Point) world.Vec2 {
	return world.Vec2{
		X: (p.X-c.Width/2)/c.Zoom + c.Center.X,
		Y: c.Center.Y - (p.Y-c.Height/2)/c.Zoom,
	}
}

// Pan moves the view by a screen-space delta.
func (c *Camera) Pan(dx, dy float64) {
	c.Center.X -= dx / c.Zoom
	c.Center.Y += dy / c.Zoom
}

// ZoomBy multiplies the zoom by f, clamped to a sane range.
func (c *Camera) ZoomBy(f float64) {
	if f <= 0 {
		return
	}
	c.Zoom = min(max(c.Zoom*f, minZoom), maxZoom)
}

// Fit centers the camera on the bounding box of pts and zooms so that it
// fills the viewport with a margin in pixels.
func (c *Camera) Fit(pts []world.Vec2, margin float64) {
	if len(pts) == 0 {
		return
	}
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
		hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
	}
	c.Center = world.Vec2{X: (lo.X + hi.X) / 2, Y: (lo.Y + hi.Y) / 2}

	w, h := hi.X-lo.X, hi.Y-lo.Y
	availW, availH := c.Width-2*margin, c.Height-2*margin
	if w == 0 && h == 0 || availW <= 0 || availH <= 0 {
		return
	}
	zoom := float64(maxZoom)
	if w > 0 {
		zoom = min(zoom, availW/w)
	}
	if h > 0 {
		zoom = min(zoom, availH/h)
	}
	c.Zoom = max(zoom, minZoom)
}
