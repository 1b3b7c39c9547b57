// Package scripting runs Lua command scripts against the editor world.
package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/roadnet/editor/internal/config"
	"github.com/roadnet/editor/internal/core/event"
	"github.com/roadnet/editor/internal/tool"
	"github.com/roadnet/editor/internal/world"
)

// APIVersion is exposed to scripts as the API_VERSION global.
const APIVersion = 1

// Engine wraps a single gopher-lua VM bound to one world.
// Single-goroutine access only (editor loop).
type Engine struct {
	vm       *lua.LState
	world    *world.World
	queue    *tool.Queue
	bindings tool.Bindings
	cfg      config.ToolConfig
	log      *zap.Logger
	edits    int
}

func NewEngine(w *world.World, queue *tool.Queue, bindings tool.Bindings, cfg config.ToolConfig, log *zap.Logger) *Engine {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(APIVersion))

	e := &Engine{
		vm:       vm,
		world:    w,
		queue:    queue,
		bindings: bindings,
		cfg:      cfg,
		log:      log,
	}
	e.register()
	return e
}

// RunFile executes one script.
func (e *Engine) RunFile(path string) error {
	if err := e.vm.DoFile(path); err != nil {
		return fmt.Errorf("run %s: %w", path, err)
	}
	e.log.Debug("ran lua script", zap.String("file", path))
	return nil
}

func (e *Engine) RunString(src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("run chunk: %w", err)
	}
	return nil
}

// LoadDir runs all .lua files of a directory in name order and returns how
// many ran. An empty or missing directory is not an error.
func (e *Engine) LoadDir(dir string) (int, error) {
	if dir == "" {
		return 0, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	for i, name := range names {
		if err := e.RunFile(filepath.Join(dir, name)); err != nil {
			return i, err
		}
	}
	return len(names), nil
}

// Edits returns how many world mutations scripts have made.
func (e *Engine) Edits() int { return e.edits }

// Attach forwards bus events to the optional Lua hooks on_road_built and
// on_rejected.
func (e *Engine) Attach(bus *event.Bus) {
	event.Subscribe(bus, func(ev event.RoadBuilt) {
		e.callHook("on_road_built", e.pushHandle(ev.Road), lua.LString(ev.Name), lua.LNumber(ev.Segments))
	})
	event.Subscribe(bus, func(ev event.ActionRejected) {
		e.callHook("on_rejected", lua.LString(ev.Action), lua.LString(ev.Reason))
	})
}

// callHook calls a Lua global function if the scripts defined it.
func (e *Engine) callHook(name string, args ...lua.LValue) {
	fn := e.vm.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		return
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, args...); err != nil {
		e.log.Error("lua hook error", zap.String("func", name), zap.Error(err))
	}
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
