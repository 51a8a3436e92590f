// SPDX-License-Identifier: MPL-2.0

package modules

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// ErrNativeCall is the sentinel wrapped by NativeCallError.
var ErrNativeCall = errors.New("native call failed")

type (
	// Function is one callable member of a module.
	Function struct {
		Name string
		Fn   lua.LGFunction
	}

	// Field is a read-only attribute. Get is evaluated on every access.
	Field struct {
		Name string
		Get  func(L *lua.LState) lua.LValue
	}

	// Module is a named bundle of functions and attributes.
	Module interface {
		Name() string
		Functions() []Function
		Fields() []Field
	}

	// Callable is implemented by modules whose global can be called directly,
	// e.g. regex("[a-z]+"). Call receives the call arguments without the
	// module table itself.
	Callable interface {
		Call(L *lua.LState) int
	}

	// NativeCallError describes a failed native operation.
	NativeCallError struct {
		Module string
		Op     string
		Err    error
	}
)

// Error implements the error interface.
func (e *NativeCallError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Module, e.Op, e.Err)
}

// Unwrap returns ErrNativeCall and the cause for errors.Is() compatibility.
func (e *NativeCallError) Unwrap() []error { return []error{ErrNativeCall, e.Err} }

// raise aborts the current Go function with a Lua error carrying the script
// position and "<module>.<op>: <cause>".
func raise(L *lua.LState, module, op string, err error) int {
	L.RaiseError("%s", (&NativeCallError{Module: module, Op: op, Err: err}).Error())
	return 0
}
