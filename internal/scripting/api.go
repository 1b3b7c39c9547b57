package scripting

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/roadnet/editor/internal/core/arena"
	"github.com/roadnet/editor/internal/tool"
	"github.com/roadnet/editor/internal/world"
)

// Userdata type names. Each wraps an arena.Handle of the matching kind.
const (
	nodeType    = "roadnet.node"
	segmentType = "roadnet.segment"
	roadType    = "roadnet.road"
)

func (e *Engine) register() {
	for _, name := range []string{nodeType, segmentType, roadType} {
		mt := e.vm.NewTypeMetatable(name)
		e.vm.SetField(mt, "__tostring", e.vm.NewFunction(handleToString))
		e.vm.SetField(mt, "__eq", e.vm.NewFunction(handleEq))
	}

	e.vm.SetGlobal("node", e.vm.NewFunction(e.luaNode))
	e.vm.SetGlobal("road", e.vm.NewFunction(e.luaRoad))
	e.vm.SetGlobal("segment", e.vm.NewFunction(e.luaSegment))
	e.vm.SetGlobal("remove", e.vm.NewFunction(e.luaRemove))
	e.vm.SetGlobal("alive", e.vm.NewFunction(e.luaAlive))
	e.vm.SetGlobal("position", e.vm.NewFunction(e.luaPosition))
	e.vm.SetGlobal("segments", e.vm.NewFunction(e.luaSegments))
	e.vm.SetGlobal("count", e.vm.NewFunction(e.luaCount))
	e.vm.SetGlobal("log", e.vm.NewFunction(e.luaLog))

	e.vm.SetGlobal("tool", e.vm.SetFuncs(e.vm.NewTable(), map[string]lua.LGFunction{
		"toggle":  e.luaToolToggle,
		"place":   e.luaToolPlace,
		"confirm": e.luaToolConfirm,
		"cancel":  e.luaToolCancel,
		"press":   e.luaToolPress,
	}))
}

// pushHandle wraps a handle in userdata of its kind.
func (e *Engine) pushHandle(h any) *lua.LUserData {
	ud := e.vm.NewUserData()
	ud.Value = h
	switch h.(type) {
	case arena.Handle[world.Node]:
		e.vm.SetMetatable(ud, e.vm.GetTypeMetatable(nodeType))
	case arena.Handle[world.Segment]:
		e.vm.SetMetatable(ud, e.vm.GetTypeMetatable(segmentType))
	case arena.Handle[world.Road]:
		e.vm.SetMetatable(ud, e.vm.GetTypeMetatable(roadType))
	}
	return ud
}

func checkHandle[T world.Entity](L *lua.LState, n int, kind string) arena.Handle[T] {
	ud := L.CheckUserData(n)
	h, ok := ud.Value.(arena.Handle[T])
	if !ok {
		L.ArgError(n, kind+" expected")
	}
	return h
}

func handleToString(L *lua.LState) int {
	ud := L.CheckUserData(1)
	var s string
	switch h := ud.Value.(type) {
	case arena.Handle[world.Node]:
		s = "node " + h.String()
	case arena.Handle[world.Segment]:
		s = "segment " + h.String()
	case arena.Handle[world.Road]:
		s = "road " + h.String()
	default:
		s = "userdata"
	}
	L.Push(lua.LString(s))
	return 1
}

func handleEq(L *lua.LState) int {
	a, b := L.CheckUserData(1), L.CheckUserData(2)
	L.Push(lua.LBool(a.Value == b.Value))
	return 1
}

// failure returns nil plus a message, the Lua convention for soft errors.
func failure(L *lua.LState, msg string) int {
	L.Push(lua.LNil)
	L.Push(lua.LString(msg))
	return 2
}

// node(x, y) -> node
func (e *Engine) luaNode(L *lua.LState) int {
	p := world.Vec2{X: float64(L.CheckNumber(1)), Y: float64(L.CheckNumber(2))}
	h := world.Add(e.world, world.Node{Position: p})
	e.edits++
	L.Push(e.pushHandle(h))
	return 1
}

// road([name]) -> road
func (e *Engine) luaRoad(L *lua.LState) int {
	name := tool.NormalizeName(L.OptString(1, ""), e.cfg.DefaultRoadName)
	h := e.world.CreateRoad(name)
	e.edits++
	L.Push(e.pushHandle(h))
	return 1
}

// segment(a, b [, road]) -> segment | nil, message
// a and b are nodes or {x, y} tables.
func (e *Engine) luaSegment(L *lua.LState) int {
	a := endpointArg(L, 1)
	b := endpointArg(L, 2)

	var (
		h   arena.Handle[world.Segment]
		err error
	)
	if L.GetTop() >= 3 && L.Get(3) != lua.LNil {
		r := checkHandle[world.Road](L, 3, "road")
		h, err = e.world.CreateRoadSegment(r, a, b)
	} else {
		h, err = e.world.CreateSegment(a, b)
	}
	if err != nil {
		return failure(L, err.Error())
	}
	e.edits++
	L.Push(e.pushHandle(h))
	return 1
}

func endpointArg(L *lua.LState, n int) world.Endpoint {
	switch v := L.Get(n).(type) {
	case *lua.LUserData:
		if h, ok := v.Value.(arena.Handle[world.Node]); ok {
			return world.Existing(h)
		}
	case *lua.LTable:
		x, y := v.RawGetInt(1), v.RawGetInt(2)
		if x == lua.LNil && y == lua.LNil {
			x, y = v.RawGetString("x"), v.RawGetString("y")
		}
		xn, okx := x.(lua.LNumber)
		yn, oky := y.(lua.LNumber)
		if okx && oky {
			return world.At(world.Vec2{X: float64(xn), Y: float64(yn)})
		}
	}
	L.ArgError(n, "node or {x, y} expected")
	return world.Endpoint{}
}

// remove(handle) -> bool
func (e *Engine) luaRemove(L *lua.LState) int {
	var ok bool
	switch h := L.CheckUserData(1).Value.(type) {
	case arena.Handle[world.Node]:
		_, ok = world.Remove(e.world, h)
	case arena.Handle[world.Segment]:
		_, ok = world.Remove(e.world, h)
	case arena.Handle[world.Road]:
		_, ok = world.Remove(e.world, h)
	default:
		L.ArgError(1, "handle expected")
	}
	if ok {
		e.edits++
	}
	L.Push(lua.LBool(ok))
	return 1
}

// alive(handle) -> bool
func (e *Engine) luaAlive(L *lua.LState) int {
	var ok bool
	switch h := L.CheckUserData(1).Value.(type) {
	case arena.Handle[world.Node]:
		ok = world.Alive(e.world, h)
	case arena.Handle[world.Segment]:
		ok = world.Alive(e.world, h)
	case arena.Handle[world.Road]:
		ok = world.Alive(e.world, h)
	default:
		L.ArgError(1, "handle expected")
	}
	L.Push(lua.LBool(ok))
	return 1
}

// position(node) -> x, y | nil, message
func (e *Engine) luaPosition(L *lua.LState) int {
	h := checkHandle[world.Node](L, 1, "node")
	n, ok := world.Get(e.world, h)
	if !ok {
		return failure(L, world.ErrStaleHandle.Error())
	}
	L.Push(lua.LNumber(n.Position.X))
	L.Push(lua.LNumber(n.Position.Y))
	return 2
}

// segments(road) -> {segment...} | nil, message
func (e *Engine) luaSegments(L *lua.LState) int {
	h := checkHandle[world.Road](L, 1, "road")
	segs, ok := e.world.RoadSegments(h)
	if !ok {
		return failure(L, world.ErrStaleHandle.Error())
	}
	t := L.CreateTable(len(segs), 0)
	for _, s := range segs {
		t.Append(e.pushHandle(s))
	}
	L.Push(t)
	return 1
}

// count(kind) -> number, kind is "nodes", "segments" or "roads".
func (e *Engine) luaCount(L *lua.LState) int {
	var n int
	switch strings.TrimSuffix(strings.ToLower(L.CheckString(1)), "s") {
	case "node":
		n = world.Len[world.Node](e.world)
	case "segment":
		n = world.Len[world.Segment](e.world)
	case "road":
		n = world.Len[world.Road](e.world)
	default:
		L.ArgError(1, "nodes, segments or roads expected")
	}
	L.Push(lua.LNumber(n))
	return 1
}

func (e *Engine) luaLog(L *lua.LState) int {
	e.log.Info("lua", zap.String("msg", L.CheckString(1)))
	return 0
}

func (e *Engine) enqueue(L *lua.LState, a tool.Action) int {
	if !e.queue.Push(a) {
		L.Push(lua.LFalse)
		L.Push(lua.LString("input queue full"))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

func (e *Engine) luaToolToggle(L *lua.LState) int {
	return e.enqueue(L, tool.Action{Kind: tool.ActionToggle})
}

// tool.place(x, y)
func (e *Engine) luaToolPlace(L *lua.LState) int {
	p := world.Vec2{X: float64(L.CheckNumber(1)), Y: float64(L.CheckNumber(2))}
	return e.enqueue(L, tool.Action{Kind: tool.ActionPlace, Pos: p})
}

// tool.confirm([name])
func (e *Engine) luaToolConfirm(L *lua.LState) int {
	return e.enqueue(L, tool.Action{Kind: tool.ActionConfirm, Name: L.OptString(1, "")})
}

func (e *Engine) luaToolCancel(L *lua.LState) int {
	return e.enqueue(L, tool.Action{Kind: tool.ActionCancel})
}

// tool.press(key [, x, y]) queues the action bound to key. Place actions
// use x and y.
func (e *Engine) luaToolPress(L *lua.LState) int {
	key := L.CheckString(1)
	kind, ok := e.bindings.Lookup(key)
	if !ok {
		return failure(L, "unbound key "+key)
	}
	a := tool.Action{Kind: kind}
	if kind == tool.ActionPlace {
		a.Pos = world.Vec2{X: float64(L.OptNumber(2, 0)), Y: float64(L.OptNumber(3, 0))}
	}
	return e.enqueue(L, a)
}
