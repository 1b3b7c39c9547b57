package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/roadnet/editor/internal/core/event"
	coresys "github.com/roadnet/editor/internal/core/system"
	"github.com/roadnet/editor/internal/snapshot"
	"github.com/roadnet/editor/internal/world"
)

// SnapshotSaver stores a snapshot. persist.SnapshotRepo implements it.
type SnapshotSaver interface {
	Save(ctx context.Context, s *snapshot.Snapshot) error
}

// SnapshotSystem periodically saves a snapshot of the world when it changed.
// Phase 4 (Persist).
type SnapshotSystem struct {
	world     *world.World
	saver     SnapshotSaver
	name      string
	log       *zap.Logger
	tickCount int
	interval  int // save every N ticks, 0 = only on Flush
	dirty     bool
	saved     int
}

func NewSnapshotSystem(w *world.World, bus *event.Bus, saver SnapshotSaver, name string, intervalTicks int, log *zap.Logger) *SnapshotSystem {
	s := &SnapshotSystem{
		world:    w,
		saver:    saver,
		name:     name,
		log:      log,
		interval: intervalTicks,
	}
	event.Subscribe(bus, func(event.RoadBuilt) { s.dirty = true })
	return s
}

func (s *SnapshotSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *SnapshotSystem) Update(_ time.Duration) {
	if s.interval <= 0 {
		return
	}
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	if !s.dirty {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.save(ctx); err != nil {
		s.log.Error("auto-save snapshot", zap.Error(err))
	}
}

// MarkDirty flags edits made outside the road tool, such as script calls.
func (s *SnapshotSystem) MarkDirty() { s.dirty = true }

// Flush saves a snapshot immediately, changed or not. Called on shutdown.
func (s *SnapshotSystem) Flush(ctx context.Context) error {
	return s.save(ctx)
}

// Saved returns the number of snapshots written.
func (s *SnapshotSystem) Saved() int { return s.saved }

func (s *SnapshotSystem) save(ctx context.Context) error {
	snap := snapshot.Build(s.world, s.name)
	if err := s.saver.Save(ctx, snap); err != nil {
		return err
	}
	s.dirty = false
	s.saved++
	s.log.Info("snapshot saved",
		zap.String("id", snap.ID),
		zap.Int("nodes", len(snap.Nodes)),
		zap.Int("segments", len(snap.Segments)),
		zap.Int("roads", len(snap.Roads)))
	return nil
}
