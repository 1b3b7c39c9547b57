package world

import (
	"fmt"

	"github.com/roadnet/editor/internal/core/arena"
)

// Endpoint names one end of a segment: either a node that already exists or a
// raw position at which a new node is created.
type Endpoint struct {
	node     arena.Handle[Node]
	pos      Vec2
	existing bool
}

// At is an endpoint that creates a new node at p.
func At(p Vec2) Endpoint {
	return Endpoint{pos: p}
}

// Existing is an endpoint that reuses node h. h must be live when the
// endpoint is resolved.
func Existing(h arena.Handle[Node]) Endpoint {
	return Endpoint{node: h, existing: true}
}

// Node returns the node handle and true for an Existing endpoint.
func (e Endpoint) Node() (arena.Handle[Node], bool) {
	return e.node, e.existing
}

// Position returns the raw position and true for an At endpoint.
func (e Endpoint) Position() (Vec2, bool) {
	return e.pos, !e.existing
}

func (e Endpoint) String() string {
	if e.existing {
		return e.node.String()
	}
	return fmt.Sprintf("(%g, %g)", e.pos.X, e.pos.Y)
}

// ResolveEndpoint returns the node handle for e. A position always yields a
// freshly added node; a handle is returned only while it is live and is never
// replaced by a new node.
func (w *World) ResolveEndpoint(e Endpoint) (arena.Handle[Node], error) {
	if e.existing {
		if !w.nodes.Contains(e.node) {
			return arena.Handle[Node]{}, fmt.Errorf("node %s: %w", e.node, ErrStaleHandle)
		}
		return e.node, nil
	}
	return w.nodes.Insert(Node{Position: e.pos}), nil
}

// checkEndpoint validates e without creating anything.
func (w *World) checkEndpoint(e Endpoint) error {
	if e.existing && !w.nodes.Contains(e.node) {
		return fmt.Errorf("node %s: %w", e.node, ErrStaleHandle)
	}
	return nil
}
