package system

import "time"

// Phase defines execution ordering within a single editor tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: drain queued tool actions
	PhasePreUpdate               // 1: dispatch last tick's events
	PhaseUpdate                  // 2: editor logic
	PhaseOutput                  // 3: record the frame
	PhasePersist                 // 4: periodic snapshots
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhasePreUpdate:
		return "pre-update"
	case PhaseUpdate:
		return "update"
	case PhaseOutput:
		return "output"
	case PhasePersist:
		return "persist"
	}
	return "unknown"
}

// System is the interface every editor system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
