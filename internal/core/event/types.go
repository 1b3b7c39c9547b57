package event

import (
	"github.com/roadnet/editor/internal/core/arena"
	"github.com/roadnet/editor/internal/world"
)

// Road tool event types.

type ToolStateChanged struct {
	From string
	To   string
}

type NodePlaced struct {
	Position world.Vec2
	Snapped  bool // reuses an existing node
	Pending  int  // points placed so far for the road under construction
}

type RoadBuilt struct {
	Road     arena.Handle[world.Road]
	Name     string
	Segments int
}

type ActionRejected struct {
	Action string
	Reason string
}
