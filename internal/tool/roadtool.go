// Package tool implements the interactive road tool: a two-state machine that
// collects clicked points and turns them into a road of chained segments.
package tool

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/roadnet/editor/internal/config"
	"github.com/roadnet/editor/internal/core/arena"
	"github.com/roadnet/editor/internal/core/event"
	"github.com/roadnet/editor/internal/world"
)

type State int

const (
	StateIdle State = iota
	StateBuilding
)

func (s State) String() string {
	if s == StateBuilding {
		return "building"
	}
	return "idle"
}

var (
	ErrNotBuilding    = errors.New("road tool is not building")
	ErrTooFewPoints   = errors.New("not enough points for a road")
	ErrDuplicatePoint = errors.New("point repeats the previous one")
)

// RoadTool turns input actions into world mutations. It is driven from the
// editor loop goroutine only.
type RoadTool struct {
	world *world.World
	bus   *event.Bus
	log   *zap.Logger
	cfg   config.ToolConfig

	state  State
	points []world.Endpoint
	path   []world.Vec2 // preview positions, parallel to points
}

func NewRoadTool(w *world.World, bus *event.Bus, cfg config.ToolConfig, log *zap.Logger) *RoadTool {
	if cfg.MinPoints < 2 {
		cfg.MinPoints = 2
	}
	return &RoadTool{world: w, bus: bus, log: log, cfg: cfg}
}

func (t *RoadTool) State() State { return t.state }

// Preview returns the positions placed so far for the road being built.
func (t *RoadTool) Preview() []world.Vec2 {
	out := make([]world.Vec2, len(t.path))
	copy(out, t.path)
	return out
}

// Apply dispatches a queued action.
func (t *RoadTool) Apply(a Action) error {
	switch a.Kind {
	case ActionToggle:
		t.Toggle()
	case ActionPlace:
		return t.Place(a.Pos)
	case ActionConfirm:
		_, err := t.Confirm(a.Name)
		return err
	case ActionCancel:
		return t.Cancel()
	default:
		return fmt.Errorf("unknown action %d", a.Kind)
	}
	return nil
}

// Toggle switches between idle and building.
func (t *RoadTool) Toggle() {
	if t.state == StateIdle {
		t.setState(StateBuilding)
	} else {
		t.setState(StateIdle)
	}
}

// Place adds a point to the road under construction. With a snap radius
// configured, a point close to a live node reuses that node.
func (t *RoadTool) Place(pos world.Vec2) error {
	if t.state != StateBuilding {
		return t.reject(ActionPlace, ErrNotBuilding)
	}

	ep, at := world.At(pos), pos
	snapped := false
	if h, p, ok := t.nearestNode(pos); ok {
		ep, at, snapped = world.Existing(h), p, true
	}

	if n := len(t.points); n > 0 && sameEndpoint(t.points[n-1], ep) {
		return t.reject(ActionPlace, ErrDuplicatePoint)
	}

	t.points = append(t.points, ep)
	t.path = append(t.path, at)
	event.Emit(t.bus, event.NodePlaced{Position: at, Snapped: snapped, Pending: len(t.points)})
	return nil
}

// Confirm builds the road from the placed points and returns to idle. With
// too few points the tool keeps building and nothing is created.
func (t *RoadTool) Confirm(name string) (arena.Handle[world.Road], error) {
	if t.state != StateBuilding {
		return arena.Handle[world.Road]{}, t.reject(ActionConfirm, ErrNotBuilding)
	}
	if len(t.points) < t.cfg.MinPoints {
		err := fmt.Errorf("%w: have %d, need %d", ErrTooFewPoints, len(t.points), t.cfg.MinPoints)
		return arena.Handle[world.Road]{}, t.reject(ActionConfirm, err)
	}

	name = NormalizeName(name, t.cfg.DefaultRoadName)
	road, segments, err := t.build(name)
	if err != nil {
		t.log.Warn("road build failed", zap.String("name", name), zap.Error(err))
		t.setState(StateIdle)
		return arena.Handle[world.Road]{}, err
	}

	t.log.Info("created road",
		zap.String("name", name),
		zap.Stringer("road", road),
		zap.Int("nodes", len(t.points)),
		zap.Int("segments", segments),
	)
	event.Emit(t.bus, event.RoadBuilt{Road: road, Name: name, Segments: segments})
	t.setState(StateIdle)
	return road, nil
}

// Cancel abandons the road under construction.
func (t *RoadTool) Cancel() error {
	if t.state != StateBuilding {
		return t.reject(ActionCancel, ErrNotBuilding)
	}
	t.setState(StateIdle)
	return nil
}

// build chains the placed points into segments of a new road. Each segment
// starts at the node the previous one ended on. On failure every entity the
// call created is removed again.
func (t *RoadTool) build(name string) (arena.Handle[world.Road], int, error) {
	road := t.world.CreateRoad(name)

	var (
		segments []arena.Handle[world.Segment]
		nodes    []arena.Handle[world.Node]
	)
	rollback := func() {
		for _, s := range segments {
			world.Remove(t.world, s)
		}
		for _, n := range nodes {
			world.Remove(t.world, n)
		}
		world.Remove(t.world, road)
	}

	prev := t.points[0]
	for i, next := range t.points[1:] {
		h, err := t.world.CreateRoadSegment(road, prev, next)
		if err != nil {
			rollback()
			return arena.Handle[world.Road]{}, 0, fmt.Errorf("segment %d: %w", i, err)
		}
		seg, _ := world.Get(t.world, h)
		segments = append(segments, h)
		if _, ok := prev.Position(); ok {
			nodes = append(nodes, seg.A)
		}
		if _, ok := next.Position(); ok {
			nodes = append(nodes, seg.B)
		}
		prev = world.Existing(seg.B)
	}
	return road, len(segments), nil
}

func (t *RoadTool) nearestNode(pos world.Vec2) (arena.Handle[world.Node], world.Vec2, bool) {
	if t.cfg.SnapRadius <= 0 {
		return arena.Handle[world.Node]{}, world.Vec2{}, false
	}
	var (
		best   arena.Handle[world.Node]
		bestAt world.Vec2
		found  bool
	)
	bestDist := t.cfg.SnapRadius * t.cfg.SnapRadius
	for h, n := range world.All[world.Node](t.world) {
		if d := n.Position.DistSq(pos); d <= bestDist {
			best, bestAt, bestDist, found = h, n.Position, d, true
		}
	}
	return best, bestAt, found
}

func (t *RoadTool) setState(s State) {
	if s == t.state {
		return
	}
	from := t.state
	t.state = s
	t.points = t.points[:0]
	t.path = t.path[:0]

	if s == StateBuilding {
		t.log.Info("entered road building mode")
	} else {
		t.log.Info("exited road building mode")
	}
	event.Emit(t.bus, event.ToolStateChanged{From: from.String(), To: s.String()})
}

func (t *RoadTool) reject(kind ActionKind, err error) error {
	t.log.Debug("action rejected", zap.Stringer("action", kind), zap.Error(err))
	event.Emit(t.bus, event.ActionRejected{Action: kind.String(), Reason: err.Error()})
	return err
}

func sameEndpoint(a, b world.Endpoint) bool {
	if ha, ok := a.Node(); ok {
		hb, ok := b.Node()
		return ok && ha == hb
	}
	pa, _ := a.Position()
	pb, ok := b.Position()
	return ok && pa == pb
}

// NormalizeName trims a road name, collapses inner whitespace and converts it
// to Unicode NFC. An empty result falls back to def.
func NormalizeName(name, def string) string {
	name = strings.Join(strings.Fields(name), " ")
	name = norm.NFC.String(name)
	if name == "" {
		return def
	}
	return name
}
