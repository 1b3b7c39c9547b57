// Package data loads editor input files.
package data

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roadnet/editor/internal/tool"
	"github.com/roadnet/editor/internal/world"
)

var ErrBadPoint = errors.New("point must be [x, y]")

// RoadEntry is a road drawn through its points in order.
type RoadEntry struct {
	Name   string      `yaml:"name"`
	Points [][]float64 `yaml:"points"`
}

// SegmentEntry is a free segment that belongs to no road.
type SegmentEntry struct {
	A []float64 `yaml:"a"`
	B []float64 `yaml:"b"`
}

// Layout is a road network description, applied on top of a world.
type Layout struct {
	Roads    []RoadEntry    `yaml:"roads"`
	Segments []SegmentEntry `yaml:"segments"`
}

// LoadLayout loads a layout YAML file.
func LoadLayout(path string) (*Layout, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	var l Layout
	if err := yaml.Unmarshal(raw, &l); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	if err := l.validate(); err != nil {
		return nil, fmt.Errorf("layout %s: %w", path, err)
	}
	return &l, nil
}

func (l *Layout) validate() error {
	for i, r := range l.Roads {
		for j, p := range r.Points {
			if len(p) != 2 {
				return fmt.Errorf("road %d (%q) point %d: %w", i, r.Name, j, ErrBadPoint)
			}
		}
	}
	for i, s := range l.Segments {
		if len(s.A) != 2 || len(s.B) != 2 {
			return fmt.Errorf("segment %d: %w", i, ErrBadPoint)
		}
	}
	return nil
}

// Count returns the number of roads and free segments in the layout.
func (l *Layout) Count() int {
	return len(l.Roads) + len(l.Segments)
}

// Apply builds every road through the road tool, then adds the free
// segments to w. It stops at the first road or segment that fails; the
// tool is left idle.
func (l *Layout) Apply(w *world.World, t *tool.RoadTool) error {
	for _, r := range l.Roads {
		if err := applyRoad(t, r); err != nil {
			return fmt.Errorf("road %q: %w", r.Name, err)
		}
	}
	for i, s := range l.Segments {
		if _, err := w.CreateSegment(world.At(vec(s.A)), world.At(vec(s.B))); err != nil {
			return fmt.Errorf("segment %d: %w", i, err)
		}
	}
	return nil
}

func applyRoad(t *tool.RoadTool, r RoadEntry) error {
	if t.State() != tool.StateBuilding {
		t.Toggle()
	}
	for _, p := range r.Points {
		if err := t.Place(vec(p)); err != nil {
			_ = t.Cancel()
			return err
		}
	}
	_, err := t.Confirm(r.Name)
	if t.State() == tool.StateBuilding {
		_ = t.Cancel()
	}
	return err
}

func vec(p []float64) world.Vec2 {
	return world.Vec2{X: p[0], Y: p[1]}
}
