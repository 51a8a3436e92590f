// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/walker84837/lunash/internal/modules"

	lua "github.com/yuin/gopher-lua"
)

// ArgGlobal is the global holding the launcher's argument vector.
const ArgGlobal = "arg"

// Session owns one Lua state for the duration of a single script run.
// It is not safe for concurrent use; only State may be called from other
// goroutines.
type Session struct {
	L      *lua.LState
	ctx    context.Context
	state  atomic.Int32
	script *Script
	chunk  *lua.LFunction
	closed bool
}

// NewSession creates a Lua state with the restricted standard library.
// ctx is attached to the state so canceling it stops a running script.
func NewSession(ctx context.Context) *Session {
	if ctx == nil {
		ctx = context.Background()
	}
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openRestrictedLibs(L)
	L.SetContext(ctx)

	s := &Session{L: L, ctx: ctx}
	slog.Debug("session created", "state", StateCreated)
	return s
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Configure installs the module registry and the 0-based arg table.
func (s *Session) Configure(reg *modules.Registry, args []string) error {
	if err := s.expect(StateCreated, StateConfigured); err != nil {
		return err
	}

	if err := reg.Install(s.L, ArgGlobal); err != nil {
		s.transition(StateFaulted)
		return &SetupError{Stage: "install modules", Err: err}
	}

	argTable := s.L.CreateTable(len(args), 1)
	for i, a := range args {
		argTable.RawSetInt(i, lua.LString(a))
	}
	s.L.SetGlobal(ArgGlobal, argTable)

	s.transition(StateConfigured)
	return nil
}

// Load compiles script using its path as the chunk name.
func (s *Session) Load(script *Script) error {
	if err := s.expect(StateConfigured, StateLoaded); err != nil {
		return err
	}

	chunk, err := s.L.Load(strings.NewReader(script.Source), script.Path)
	if err != nil {
		s.transition(StateFaulted)
		compileErr := &CompileError{Path: script.Path, Message: err.Error()}
		var apiErr *lua.ApiError
		if errors.As(err, &apiErr) {
			compileErr.Message = apiErr.Object.String()
			compileErr.Err = apiErr.Cause
		}
		return compileErr
	}

	s.script = script
	s.chunk = chunk
	s.transition(StateLoaded)
	return nil
}

// Run executes the loaded chunk under a protected call. An uncaught Lua
// error, or cancellation of the session context, yields a *RuntimeFault.
func (s *Session) Run() error {
	if err := s.expect(StateLoaded, StateRunning); err != nil {
		return err
	}
	s.transition(StateRunning)

	s.L.Push(s.chunk)
	err := s.L.PCall(0, lua.MultRet, nil)
	if err == nil {
		s.transition(StateCompleted)
		return nil
	}

	s.transition(StateFaulted)
	fault := &RuntimeFault{Path: s.script.Path, Message: err.Error()}
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) {
		fault.Message = apiErr.Object.String()
		fault.StackTrace = apiErr.StackTrace
		fault.Err = apiErr.Cause
	}
	if ctxErr := s.ctx.Err(); ctxErr != nil {
		fault.Message = "interrupted: " + ctxErr.Error()
		fault.Err = ctxErr
	}
	return fault
}

// Close releases the Lua state. It is safe to call more than once.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.L.Close()
	slog.Debug("session closed", "state", s.State())
}

func (s *Session) expect(from, to State) error {
	if cur := s.State(); cur != from || s.closed {
		return &InvalidTransitionError{From: cur, To: to}
	}
	return nil
}

func (s *Session) transition(to State) {
	from := State(s.state.Swap(int32(to)))
	slog.Debug("session state changed", "from", from, "to", to)
}
