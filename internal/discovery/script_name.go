// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
	"strings"

	"github.com/walker84837/lunash/internal/config"
)

const (
	// ScriptExt is the extension every script file carries.
	ScriptExt = ".lua"
)

// ErrInvalidScriptName is returned when a ScriptName cannot be mapped to a file name.
var ErrInvalidScriptName = errors.New("invalid script name")

type (
	// ScriptName is the logical name an operator passes to `lunash run`.
	// It maps to the file name "<name>.lunash.lua".
	ScriptName string

	// InvalidScriptNameError describes why a ScriptName was rejected.
	// It wraps ErrInvalidScriptName for errors.Is() compatibility.
	InvalidScriptNameError struct {
		Value  ScriptName
		Reason string
	}
)

// String returns the string representation of the ScriptName.
func (n ScriptName) String() string { return string(n) }

// IsValid returns whether the name is non-empty, not whitespace-only and free
// of path separators. Names with separators would let a lookup escape the
// search directories.
func (n ScriptName) IsValid() (bool, []error) {
	s := string(n)
	switch {
	case strings.TrimSpace(s) == "":
		return false, []error{&InvalidScriptNameError{Value: n, Reason: "must not be empty"}}
	case strings.ContainsAny(s, `/\`):
		return false, []error{&InvalidScriptNameError{Value: n, Reason: "must not contain path separators"}}
	case s == "." || s == "..":
		return false, []error{&InvalidScriptNameError{Value: n, Reason: "must not be a relative directory reference"}}
	case strings.ContainsRune(s, 0):
		return false, []error{&InvalidScriptNameError{Value: n, Reason: "must not contain NUL bytes"}}
	}
	return true, nil
}

// FileName returns the canonical file name for the script: "<name>.lunash.lua".
func (n ScriptName) FileName() string {
	return string(n) + "." + config.AppName + ScriptExt
}

// Error implements the error interface.
func (e *InvalidScriptNameError) Error() string {
	return fmt.Sprintf("invalid script name %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidScriptName for errors.Is() compatibility.
func (e *InvalidScriptNameError) Unwrap() error { return ErrInvalidScriptName }
