package system

import (
	"errors"
	"time"

	"go.uber.org/zap"

	coresys "github.com/roadnet/editor/internal/core/system"
	"github.com/roadnet/editor/internal/tool"
)

// CommandSystem drains queued input actions into the road tool. Phase 0
// (Input).
type CommandSystem struct {
	queue      *tool.Queue
	tool       *tool.RoadTool
	maxPerTick int
	log        *zap.Logger

	applied  int
	rejected int
}

func NewCommandSystem(queue *tool.Queue, t *tool.RoadTool, maxPerTick int, log *zap.Logger) *CommandSystem {
	return &CommandSystem{
		queue:      queue,
		tool:       t,
		maxPerTick: maxPerTick,
		log:        log,
	}
}

func (s *CommandSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *CommandSystem) Update(_ time.Duration) {
	for i := 0; i < s.maxPerTick; i++ {
		a, ok := s.queue.Pop()
		if !ok {
			return
		}
		if err := s.tool.Apply(a); err != nil {
			s.rejected++
			if !isUserError(err) {
				s.log.Warn("action failed", zap.Stringer("action", a.Kind), zap.Error(err))
			}
			continue
		}
		s.applied++
	}
}

// Applied and Rejected count actions since start.
func (s *CommandSystem) Applied() int  { return s.applied }
func (s *CommandSystem) Rejected() int { return s.rejected }

// isUserError reports errors caused by input the tool refuses, as opposed to
// failures of the world underneath it.
func isUserError(err error) bool {
	return errors.Is(err, tool.ErrNotBuilding) ||
		errors.Is(err, tool.ErrTooFewPoints) ||
		errors.Is(err, tool.ErrDuplicatePoint)
}
