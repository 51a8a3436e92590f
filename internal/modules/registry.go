// SPDX-License-Identifier: MPL-2.0

package modules

import (
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/exp/slices"

	lua "github.com/yuin/gopher-lua"
)

// lockedMetatable is what getmetatable returns for a module global.
const lockedMetatable = "locked"

var (
	// ErrDuplicateModule is returned when two modules share a name.
	ErrDuplicateModule = errors.New("duplicate module name")
	// ErrGlobalCollision is returned when a module name is already taken in
	// the target Lua state or reserved by the host.
	ErrGlobalCollision = errors.New("module name collides with an existing global")
)

type (
	// DuplicateModuleError is returned by Registry.Register.
	DuplicateModuleError struct {
		Name string
	}

	// GlobalCollisionError is returned by Registry.Install.
	GlobalCollisionError struct {
		Name string
	}

	// Registry is the fixed, ordered set of modules for one session.
	Registry struct {
		modules []Module
	}
)

// Error implements the error interface.
func (e *DuplicateModuleError) Error() string {
	return fmt.Sprintf("module %q registered twice", e.Name)
}

// Unwrap returns ErrDuplicateModule for errors.Is() compatibility.
func (e *DuplicateModuleError) Unwrap() error { return ErrDuplicateModule }

// Error implements the error interface.
func (e *GlobalCollisionError) Error() string {
	return fmt.Sprintf("cannot install module %q: global already defined", e.Name)
}

// Unwrap returns ErrGlobalCollision for errors.Is() compatibility.
func (e *GlobalCollisionError) Unwrap() error { return ErrGlobalCollision }

// NewRegistry creates a registry holding mods, in order.
func NewRegistry(mods ...Module) (*Registry, error) {
	r := &Registry{}
	for _, m := range mods {
		if err := r.Register(m); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register appends m. Names must be unique within the registry.
func (r *Registry) Register(m Module) error {
	if slices.Contains(r.Names(), m.Name()) {
		return &DuplicateModuleError{Name: m.Name()}
	}
	r.modules = append(r.modules, m)
	return nil
}

// Names returns the registered module names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.modules))
	for _, m := range r.modules {
		names = append(names, m.Name())
	}
	return names
}

// Install binds every module as a global of L. It refuses to overwrite any
// global that already exists in L and any name listed in reserved. Nothing
// is installed when a collision is found.
func (r *Registry) Install(L *lua.LState, reserved ...string) error {
	for _, m := range r.modules {
		name := m.Name()
		if slices.Contains(reserved, name) || L.GetGlobal(name) != lua.LNil {
			return &GlobalCollisionError{Name: name}
		}
	}

	for _, m := range r.modules {
		L.SetGlobal(m.Name(), newProxy(L, m))
		slog.Debug("installed module", "module", m.Name(), "functions", len(m.Functions()), "fields", len(m.Fields()))
	}
	return nil
}

// newProxy builds the locked table exposed as a module global. The proxy
// itself stays empty so every read goes through __index and every write
// through __newindex.
func newProxy(L *lua.LState, m Module) *lua.LTable {
	name := m.Name()

	members := make(map[string]lua.LValue, len(m.Functions()))
	for _, f := range m.Functions() {
		members[f.Name] = L.NewFunction(f.Fn)
	}
	fields := make(map[string]func(*lua.LState) lua.LValue, len(m.Fields()))
	for _, f := range m.Fields() {
		fields[f.Name] = f.Get
	}

	mt := L.NewTable()
	mt.RawSetString("__index", L.NewFunction(func(L *lua.LState) int {
		key, ok := L.Get(2).(lua.LString)
		if !ok {
			L.Push(lua.LNil)
			return 1
		}
		if fn, found := members[string(key)]; found {
			L.Push(fn)
			return 1
		}
		if get, found := fields[string(key)]; found {
			L.Push(get(L))
			return 1
		}
		L.Push(lua.LNil)
		return 1
	}))
	mt.RawSetString("__newindex", L.NewFunction(func(L *lua.LState) int {
		L.RaiseError("%s: module is read-only (cannot assign %s)", name, L.Get(2).String())
		return 0
	}))
	mt.RawSetString("__metatable", lua.LString(lockedMetatable))
	mt.RawSetString("__tostring", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString("module: " + name))
		return 1
	}))
	if c, ok := m.(Callable); ok {
		mt.RawSetString("__call", L.NewFunction(func(L *lua.LState) int {
			L.Remove(1)
			return c.Call(L)
		}))
	}

	proxy := L.NewTable()
	L.SetMetatable(proxy, mt)
	return proxy
}
