package tool

import (
	"strings"

	"github.com/roadnet/editor/internal/config"
	"github.com/roadnet/editor/internal/world"
)

// ActionKind is an input the road tool reacts to.
type ActionKind int

const (
	ActionToggle ActionKind = iota
	ActionPlace
	ActionConfirm
	ActionCancel
)

func (k ActionKind) String() string {
	switch k {
	case ActionToggle:
		return "toggle"
	case ActionPlace:
		return "place"
	case ActionConfirm:
		return "confirm"
	case ActionCancel:
		return "cancel"
	}
	return "unknown"
}

// Action is one queued input. Pos is used by ActionPlace, Name by
// ActionConfirm.
type Action struct {
	Kind ActionKind
	Pos  world.Vec2
	Name string
}

// Queue is a bounded FIFO of actions between the input source and the
// command system. Push never blocks.
type Queue struct {
	ch chan Action
}

func NewQueue(size int) *Queue {
	return &Queue{ch: make(chan Action, size)}
}

// Push enqueues a. It reports false if the queue is full and a was dropped.
func (q *Queue) Push(a Action) bool {
	select {
	case q.ch <- a:
		return true
	default:
		return false
	}
}

// Pop dequeues the oldest action, if any.
func (q *Queue) Pop() (Action, bool) {
	select {
	case a := <-q.ch:
		return a, true
	default:
		return Action{}, false
	}
}

func (q *Queue) Len() int {
	return len(q.ch)
}

// Bindings maps key names to actions.
type Bindings map[string]ActionKind

func NewBindings(cfg config.InputConfig) Bindings {
	b := make(Bindings, 4)
	bind := func(key string, k ActionKind) {
		if key = strings.ToLower(strings.TrimSpace(key)); key != "" {
			b[key] = k
		}
	}
	bind(cfg.ToggleBuild, ActionToggle)
	bind(cfg.PlaceNode, ActionPlace)
	bind(cfg.ConfirmRoad, ActionConfirm)
	bind(cfg.CancelBuilding, ActionCancel)
	return b
}

// Lookup returns the action bound to key. Key names are case-insensitive.
func (b Bindings) Lookup(key string) (ActionKind, bool) {
	k, ok := b[strings.ToLower(strings.TrimSpace(key))]
	return k, ok
}
