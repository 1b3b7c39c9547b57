package system

import (
	"time"

	coresys "github.com/roadnet/editor/internal/core/system"
	"github.com/roadnet/editor/internal/render"
	"github.com/roadnet/editor/internal/world"
)

// RenderSystem re-records the frame every tick. Phase 3 (Output).
type RenderSystem struct {
	world  *world.World
	camera render.Camera
	layers []render.Renderer
	rec    render.Recorder
	frames int
}

func NewRenderSystem(w *world.World, cam render.Camera, layers []render.Renderer) *RenderSystem {
	return &RenderSystem{world: w, camera: cam, layers: layers}
}

func (s *RenderSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *RenderSystem) Update(_ time.Duration) {
	s.rec.Reset()
	render.Frame(s.world, s.camera, &s.rec, s.layers...)
	s.frames++
}

// Shapes returns the display list of the last recorded frame.
func (s *RenderSystem) Shapes() []render.Shape { return s.rec.Shapes }

func (s *RenderSystem) Frames() int { return s.frames }

// Camera returns a pointer so callers can pan, zoom or fit between ticks.
func (s *RenderSystem) Camera() *render.Camera { return &s.camera }
