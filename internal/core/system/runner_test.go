package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	name  string
	phase Phase
	log   *[]string
}

func (r recorder) Phase() Phase { return r.phase }

func (r recorder) Update(time.Duration) { *r.log = append(*r.log, r.name) }

func TestRunnerOrdersByPhase(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(recorder{"persist", PhasePersist, &log})
	r.Register(recorder{"output", PhaseOutput, &log})
	r.Register(recorder{"input-a", PhaseInput, &log})
	r.Register(recorder{"input-b", PhaseInput, &log})
	r.Register(recorder{"events", PhasePreUpdate, &log})

	r.Tick(time.Millisecond)

	assert.Equal(t, []string{"input-a", "input-b", "events", "output", "persist"}, log)
	assert.Equal(t, uint64(1), r.Ticks())
}

func TestTickPhaseRunsOnlyThatPhase(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(recorder{"output", PhaseOutput, &log})
	r.Register(recorder{"input", PhaseInput, &log})

	r.TickPhase(PhaseInput, 0)

	assert.Equal(t, []string{"input"}, log)
	assert.Equal(t, uint64(0), r.Ticks())
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "input", PhaseInput.String())
	assert.Equal(t, "persist", PhasePersist.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
