package bind

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/klauspost/readahead"
	lua "github.com/yuin/gopher-lua"

	"github.com/ardnew/vex/lang"
)

// TickFunc is the name of the optional script function called by [Lua.Tick].
const TickFunc = "tick"

// maxTableDepth limits how deep [Lua.Bind] descends into nested tables.
const maxTableDepth = 8

// Lua is a sandboxed Lua state whose global variables serve as live
// bindings. Only the base, table, string and math libraries are available,
// and functions that load code from files or strings are removed.
//
// A script defines its state as globals and may define a tick function that
// advances it:
//
//	player = { health = 20, inWater = false }
//
//	function tick(n)
//	  player.health = player.health - 1
//	end
//
// Each binding reads the current global value when resolved, so evaluations
// interleaved with [Lua.Tick] observe the script's state at that moment.
// A Lua value is safe for concurrent use.
type Lua struct {
	mu       sync.Mutex
	state    *lua.LState
	baseline map[string]bool
	opts     options
	name     string
	ticks    int
}

// NewLua runs the script read from r in a new sandboxed state.
// The name identifies the script in errors and logs.
func NewLua(
	ctx context.Context,
	name string,
	r io.Reader,
	opts ...Option,
) (*Lua, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	l := &Lua{
		state: L,
		opts:  makeOptions(opts...),
		name:  name,
	}

	if err := l.openSafeLibs(); err != nil {
		L.Close()

		return nil, err
	}

	sandbox(L)

	l.baseline = make(map[string]bool)
	L.G.Global.ForEach(func(k, _ lua.LValue) {
		l.baseline[k.String()] = true
	})

	ra := readahead.NewReader(r)
	defer ra.Close()

	fn, err := L.Load(ra, name)
	if err != nil {
		L.Close()

		return nil, ErrScript.Wrap(err).With(slog.String("script", name))
	}

	L.SetContext(ctx)
	defer L.RemoveContext()

	L.Push(fn)

	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		L.Close()

		return nil, ErrScript.Wrap(err).With(slog.String("script", name))
	}

	l.opts.logger.DebugContext(ctx, "loaded lua script",
		slog.String("script", name),
		slog.Int("globals", len(l.globals())))

	return l, nil
}

// NewLuaFile is [NewLua] reading the named file.
func NewLuaFile(ctx context.Context, path string, opts ...Option) (*Lua, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, lang.ErrReadInput.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	return NewLua(ctx, path, f, opts...)
}

// Close releases the Lua state. Bindings created from l fail afterwards.
func (l *Lua) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != nil {
		l.state.Close()
		l.state = nil
	}
}

// Ticks returns the number of completed calls to [Lua.Tick].
func (l *Lua) Ticks() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.ticks
}

// Tick calls the script's tick function with the number of previous ticks.
// It does nothing if the script defines no tick function.
func (l *Lua) Tick(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == nil {
		return ErrScript.With(slog.String("reason", "state closed"))
	}

	fn, ok := l.state.GetGlobal(TickFunc).(*lua.LFunction)
	if !ok {
		return nil
	}

	l.state.SetContext(ctx)
	defer l.state.RemoveContext()

	err := l.state.CallByParam(
		lua.P{Fn: fn, NRet: 0, Protect: true},
		lua.LNumber(l.ticks),
	)
	if err != nil {
		return ErrScript.Wrap(err).With(
			slog.String("script", l.name),
			slog.Int("tick", l.ticks))
	}

	l.ticks++

	l.opts.logger.TraceContext(ctx, "lua tick",
		slog.String("script", l.name),
		slog.Int("tick", l.ticks))

	return nil
}

// Bind binds every scalar global defined by the script into env, allocating
// env if nil. Tables are descended and contribute dotted names. Globals the
// script creates later are bound only by a later call to Bind.
func (l *Lua) Bind(env *lang.Env) *lang.Env {
	if env == nil {
		env = lang.NewEnv()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, path := range l.globals() {
		env.Bind(l.opts.prefix+strings.Join(path, "."), l.producer(path))
	}

	return env
}

// producer resolves path against the live global table.
func (l *Lua) producer(path []string) lang.Producer {
	return func() (lang.Variant, error) {
		l.mu.Lock()
		defer l.mu.Unlock()

		if l.state == nil {
			return lang.Variant{}, ErrScript.With(
				slog.String("reason", "state closed"))
		}

		var v lua.LValue = l.state.G.Global

		for _, key := range path {
			t, ok := v.(*lua.LTable)
			if !ok {
				v = lua.LNil

				break
			}

			v = t.RawGetString(key)
		}

		return variant(v)
	}
}

// globals returns the paths of all scalar values reachable from globals the
// script defined, in no particular order.
func (l *Lua) globals() [][]string {
	var (
		paths [][]string
		seen  = make(map[*lua.LTable]bool)
		walk  func(lua.LValue, []string)
	)

	walk = func(v lua.LValue, path []string) {
		switch v := v.(type) {
		case lua.LNumber, lua.LString, lua.LBool:
			paths = append(paths, path)

		case *lua.LTable:
			if seen[v] || len(path) >= maxTableDepth {
				return
			}

			seen[v] = true

			v.ForEach(func(k, e lua.LValue) {
				if s, ok := k.(lua.LString); ok {
					walk(e, append(path[:len(path):len(path)], string(s)))
				}
			})
		}
	}

	l.state.G.Global.ForEach(func(k, v lua.LValue) {
		s, ok := k.(lua.LString)
		if !ok || l.baseline[string(s)] {
			return
		}

		walk(v, []string{string(s)})
	})

	return paths
}

func variant(v lua.LValue) (lang.Variant, error) {
	switch v := v.(type) {
	case lua.LNumber:
		return lang.Number(float64(v)), nil
	case lua.LString:
		return lang.String(string(v)), nil
	case lua.LBool:
		return lang.Bool(bool(v)), nil
	default:
		return lang.Variant{}, ErrValue.With(
			slog.String("type", v.Type().String()))
	}
}

// openSafeLibs opens only the side-effect free standard libraries.
func (l *Lua) openSafeLibs() error {
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		err := l.state.CallByParam(
			lua.P{Fn: l.state.NewFunction(lib.open), NRet: 0, Protect: true},
			lua.LString(lib.name),
		)
		if err != nil {
			return ErrScript.Wrap(err).With(slog.String("library", lib.name))
		}
	}

	return nil
}

// sandbox removes globals that load code or reach outside the state.
func sandbox(L *lua.LState) {
	for _, name := range []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage", "module", "require",
	} {
		L.SetGlobal(name, lua.LNil)
	}
}
