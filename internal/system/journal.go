package system

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/roadnet/editor/internal/core/event"
	coresys "github.com/roadnet/editor/internal/core/system"
	"github.com/roadnet/editor/internal/persist"
)

// JournalWriter appends edit journal entries for one session.
// persist.JournalRepo implements it.
type JournalWriter interface {
	Session() string
	Write(ctx context.Context, entries []persist.JournalEntry) error
	MarkProcessed(ctx context.Context) error
}

var _ JournalWriter = (*persist.JournalRepo)(nil)

// JournalSystem records tool events and writes them out in batches. Phase 4
// (Persist).
type JournalSystem struct {
	writer    JournalWriter
	log       *zap.Logger
	pending   []persist.JournalEntry
	tickCount int
	interval  int
	now       func() time.Time
}

func NewJournalSystem(bus *event.Bus, writer JournalWriter, intervalTicks int, log *zap.Logger) *JournalSystem {
	s := &JournalSystem{
		writer:   writer,
		log:      log,
		interval: max(intervalTicks, 1),
		now:      time.Now,
	}
	event.Subscribe(bus, func(e event.RoadBuilt) {
		s.record("road_built", fmt.Sprintf("%s %s (%d segments)", e.Road, e.Name, e.Segments))
	})
	event.Subscribe(bus, func(e event.ActionRejected) {
		s.record("rejected", e.Action+": "+e.Reason)
	})
	event.Subscribe(bus, func(e event.ToolStateChanged) {
		s.record("state", e.From+" -> "+e.To)
	})
	return s
}

func (s *JournalSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *JournalSystem) Update(_ time.Duration) {
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Flush(ctx); err != nil {
		s.log.Error("write edit journal", zap.Error(err))
	}
}

// Flush writes every pending entry. On failure the entries stay pending.
func (s *JournalSystem) Flush(ctx context.Context) error {
	if len(s.pending) == 0 {
		return nil
	}
	if err := s.writer.Write(ctx, s.pending); err != nil {
		return err
	}
	s.log.Debug("edit journal written",
		zap.String("journal_session", s.writer.Session()),
		zap.Int("entries", len(s.pending)),
	)
	s.pending = nil
	return nil
}

// Close writes what is pending and marks the session's journal processed.
// Nothing is marked if the final write fails.
func (s *JournalSystem) Close(ctx context.Context) error {
	if err := s.Flush(ctx); err != nil {
		return err
	}
	if err := s.writer.MarkProcessed(ctx); err != nil {
		return fmt.Errorf("mark journal %s processed: %w", s.writer.Session(), err)
	}
	s.log.Info("edit journal closed", zap.String("journal_session", s.writer.Session()))
	return nil
}

// Pending returns the number of entries not yet written.
func (s *JournalSystem) Pending() int { return len(s.pending) }

func (s *JournalSystem) record(kind, detail string) {
	s.pending = append(s.pending, persist.JournalEntry{Kind: kind, Detail: detail, RecordedAt: s.now().UTC()})
}
