package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roadnet/editor/internal/core/event"
	coresys "github.com/roadnet/editor/internal/core/system"
	"github.com/roadnet/editor/internal/data"
	"github.com/roadnet/editor/internal/persist"
	"github.com/roadnet/editor/internal/render"
	"github.com/roadnet/editor/internal/scripting"
	"github.com/roadnet/editor/internal/snapshot"
	"github.com/roadnet/editor/internal/system"
	"github.com/roadnet/editor/internal/tool"
	"github.com/roadnet/editor/internal/world"
)

var runFlags struct {
	layout string
	svg    string
	yaml   string
	ticks  int
	fit    bool
}

var runCmd = &cobra.Command{
	Use:   "run [script.lua...]",
	Short: "Build a road network and write the result",
	Long: `Run applies an optional YAML layout, executes the given Lua scripts in
order, then ticks the editor loop until the queued tool input is drained
(or editor.max_ticks / --ticks is reached, or the process is interrupted).

Example:
  roadnet run --layout layouts/town.yaml --svg town.svg scripts/ring.lua`,
	RunE: runEditor,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runFlags.layout, "layout", "", "YAML layout applied before the scripts")
	f.StringVar(&runFlags.svg, "svg", "", "write the final frame as SVG to this file")
	f.StringVar(&runFlags.yaml, "yaml", "", "write a snapshot as YAML to this file")
	f.IntVar(&runFlags.ticks, "ticks", 0, "stop after this many ticks (overrides editor.max_ticks)")
	f.BoolVar(&runFlags.fit, "fit", false, "fit the camera to the network before writing the SVG")
}

func runEditor(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	printBanner(cfg.Editor.Name)
	session := uuid.NewString()
	log := log.With(zap.String("session", session))

	// 1. Optional PostgreSQL sink
	var (
		snapshots *persist.SnapshotRepo
		journal   *persist.JournalRepo
	)
	if cfg.Database.Enabled {
		printSection("Database")
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()
		snapshots = persist.NewSnapshotRepo(db)
		journal = persist.NewJournalRepo(db, session)
		fmt.Println()
	}

	// 2. World, tool and scripting
	w := world.New()
	bus := event.NewBus()
	queue := tool.NewQueue(cfg.Editor.QueueSize)
	bindings := tool.NewBindings(cfg.Input)
	rt := tool.NewRoadTool(w, bus, cfg.Tool, log)
	logEvents(bus, log)

	engine := scripting.NewEngine(w, queue, bindings, cfg.Tool, log)
	defer engine.Close()
	engine.Attach(bus)

	// 3. Input
	printSection("Input")
	if runFlags.layout != "" {
		layout, err := data.LoadLayout(runFlags.layout)
		if err != nil {
			return err
		}
		if err := layout.Apply(w, rt); err != nil {
			return fmt.Errorf("apply layout: %w", err)
		}
		printStat("Layout entries", layout.Count())
	}
	loaded, err := engine.LoadDir(cfg.Editor.ScriptsDir)
	if err != nil {
		return fmt.Errorf("scripts dir %s: %w", cfg.Editor.ScriptsDir, err)
	}
	for _, path := range args {
		if err := engine.RunFile(path); err != nil {
			return err
		}
	}
	printStat("Scripts", loaded+len(args))
	printStat("Script edits", engine.Edits())
	printStat("Queued actions", queue.Len())
	fmt.Println()

	// 4. Systems
	runner := coresys.NewRunner()
	commands := system.NewCommandSystem(queue, rt, cfg.Editor.MaxActionsPerTick, log)
	runner.Register(commands)
	runner.Register(system.NewEventSystem(bus))
	renderer := system.NewRenderSystem(w, render.NewCamera(cfg.Render), render.Layers(rt))
	runner.Register(renderer)

	var snapSys *system.SnapshotSystem
	if snapshots != nil {
		snapSys = system.NewSnapshotSystem(w, bus, snapshots, cfg.Editor.Name, cfg.Database.SaveInterval, log)
		if engine.Edits() > 0 {
			snapSys.MarkDirty()
		}
		runner.Register(snapSys)
	}
	var journalSys *system.JournalSystem
	if journal != nil {
		journalSys = system.NewJournalSystem(bus, journal, cfg.Database.SaveInterval, log)
		runner.Register(journalSys)
	}

	// 5. Editor loop
	maxTicks := cfg.Editor.MaxTicks
	if runFlags.ticks > 0 {
		maxTicks = runFlags.ticks
	}
	printSection("Editor loop")
	printReady(fmt.Sprintf("tick rate %s", cfg.Editor.TickRate))
	fmt.Println()

	ticker := time.NewTicker(cfg.Editor.TickRate)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Editor.TickRate)
			if finished(runner, queue, bus, maxTicks) {
				break loop
			}
		case <-ctx.Done():
			log.Info("received shutdown signal")
			break loop
		}
	}

	// 6. Output
	printSection("Result")
	printStat("Ticks", int(runner.Ticks()))
	printStat("Actions applied", commands.Applied())
	printStat("Actions rejected", commands.Rejected())
	printStat("Nodes", world.Len[world.Node](w))
	printStat("Segments", world.Len[world.Segment](w))
	printStat("Roads", world.Len[world.Road](w))

	if runFlags.svg != "" {
		if err := writeSVG(runFlags.svg, w, renderer); err != nil {
			return err
		}
		printOK("SVG written to " + runFlags.svg)
	}
	if runFlags.yaml != "" {
		if err := writeSnapshotYAML(runFlags.yaml, snapshot.Build(w, cfg.Editor.Name)); err != nil {
			return err
		}
		printOK("snapshot written to " + runFlags.yaml)
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if snapSys != nil {
		if err := snapSys.Flush(flushCtx); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		printOK("snapshot stored")
	}
	if journalSys != nil {
		if err := journalSys.Close(flushCtx); err != nil {
			return fmt.Errorf("close journal: %w", err)
		}
		printOK("edit journal " + journal.Session() + " closed")
	}
	fmt.Println()
	return nil
}

// finished reports whether the loop should stop: after maxTicks ticks, or,
// with no limit, once no input or events are left.
func finished(r *coresys.Runner, q *tool.Queue, bus *event.Bus, maxTicks int) bool {
	if maxTicks > 0 {
		return r.Ticks() >= uint64(maxTicks)
	}
	return q.Len() == 0 && bus.Pending() == 0
}

func openDB(ctx context.Context) (*persist.DB, error) {
	dbCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(dbCtx, cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	printOK("PostgreSQL connected")

	if err := persist.RunMigrations(dbCtx, db.Pool); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	printOK("migrations applied")
	return db, nil
}

func logEvents(bus *event.Bus, log *zap.Logger) {
	event.Subscribe(bus, func(e event.ToolStateChanged) {
		log.Debug("tool state", zap.String("from", e.From), zap.String("to", e.To))
	})
	event.Subscribe(bus, func(e event.NodePlaced) {
		log.Debug("node placed",
			zap.Float64("x", e.Position.X),
			zap.Float64("y", e.Position.Y),
			zap.Bool("snapped", e.Snapped),
			zap.Int("pending", e.Pending))
	})
	event.Subscribe(bus, func(e event.RoadBuilt) {
		log.Debug("road built", zap.Stringer("road", e.Road), zap.String("name", e.Name))
	})
	event.Subscribe(bus, func(e event.ActionRejected) {
		log.Debug("action rejected", zap.String("action", e.Action), zap.String("reason", e.Reason))
	})
}

func writeSVG(path string, w *world.World, r *system.RenderSystem) error {
	if runFlags.fit {
		pts := make([]world.Vec2, 0, world.Len[world.Node](w))
		for _, n := range world.All[world.Node](w) {
			pts = append(pts, n.Position)
		}
		r.Camera().Fit(pts, 20)
	}
	r.Update(0)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create svg: %w", err)
	}
	defer f.Close()
	if err := render.WriteSVG(f, cfg.Render.Width, cfg.Render.Height, render.Background, r.Shapes()); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return f.Close()
}

func writeSnapshotYAML(path string, s *snapshot.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	defer f.Close()
	if err := s.WriteYAML(f); err != nil {
		return err
	}
	return f.Close()
}
