// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
)

var (
	// ErrSetup is the sentinel for failures preparing a session.
	ErrSetup = errors.New("session setup failed")
	// ErrCompile is the sentinel for scripts that do not compile.
	ErrCompile = errors.New("script compilation failed")
	// ErrRuntimeFault is the sentinel for uncaught errors raised while running a script.
	ErrRuntimeFault = errors.New("script runtime fault")
	// ErrInvalidTransition is returned when a session operation is called out of order.
	ErrInvalidTransition = errors.New("invalid session state transition")
)

type (
	// SetupError reports a failure before any script code ran.
	SetupError struct {
		// Stage names the step that failed (e.g. "read script", "install modules").
		Stage string
		Err   error
	}

	// CompileError reports a syntax error in the script.
	CompileError struct {
		Path    string
		Message string
		Err     error
	}

	// RuntimeFault reports an uncaught Lua error, a canceled session, or a
	// recovered host panic.
	RuntimeFault struct {
		Path       string
		Message    string
		StackTrace string
		Err        error
	}

	// InvalidTransitionError is returned when a Session method is called in
	// the wrong state.
	InvalidTransitionError struct {
		From State
		To   State
	}
)

// Error implements the error interface.
func (e *SetupError) Error() string {
	return fmt.Sprintf("setup failed (%s): %v", e.Stage, e.Err)
}

// Unwrap returns ErrSetup and the underlying cause.
func (e *SetupError) Unwrap() []error { return []error{ErrSetup, e.Err} }

// Error implements the error interface.
func (e *CompileError) Error() string {
	return fmt.Sprintf("compile %s: %s", e.Path, e.Message)
}

// Unwrap returns ErrCompile and the underlying cause, if any.
func (e *CompileError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCompile}
	}
	return []error{ErrCompile, e.Err}
}

// Error implements the error interface.
func (e *RuntimeFault) Error() string {
	if e.Path == "" {
		return "runtime fault: " + e.Message
	}
	return fmt.Sprintf("runtime fault in %s: %s", e.Path, e.Message)
}

// Unwrap returns ErrRuntimeFault and the underlying cause, if any.
func (e *RuntimeFault) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRuntimeFault}
	}
	return []error{ErrRuntimeFault, e.Err}
}

// Error implements the error interface.
func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot move session from %s to %s", e.From, e.To)
}

// Unwrap returns ErrInvalidTransition for errors.Is() compatibility.
func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }
