// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

var errNoSuchFile = errors.New("no such file or directory")

// compileFailure joins a sentinel and a cause, as the session errors do.
type compileFailure struct {
	sentinel error
	cause    error
}

func (e *compileFailure) Error() string   { return "compile deploy.lunash.lua: " + e.cause.Error() }
func (e *compileFailure) Unwrap() []error { return []error{e.sentinel, e.cause} }

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{"operation only", &ActionableError{Operation: "run script"}, "failed to run script"},
		{
			"with script name",
			&ActionableError{Operation: "resolve script", Resource: "deploy"},
			"failed to resolve script: deploy",
		},
		{
			"with cause",
			&ActionableError{Operation: "load configuration", Cause: errNoSuchFile},
			"failed to load configuration: no such file or directory",
		},
		{
			"all parts",
			&ActionableError{Operation: "prepare session", Resource: "/s/deploy.lunash.lua", Cause: errNoSuchFile},
			"failed to prepare session: /s/deploy.lunash.lua: no such file or directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableError_UnwrapReachesCause(t *testing.T) {
	t.Parallel()

	err := NewErrorContext().WithOperation("load configuration").Wrap(errNoSuchFile).BuildError()
	if !errors.Is(err, errNoSuchFile) {
		t.Errorf("errors.Is(%v, errNoSuchFile) = false", err)
	}
	if (&ActionableError{Operation: "run script"}).Unwrap() != nil {
		t.Error("Unwrap() without a cause should be nil")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("compile error")
	joined := &compileFailure{sentinel: sentinel, cause: errors.New("line 3: unexpected symbol")}

	tests := []struct {
		name     string
		err      *ActionableError
		verbose  bool
		contains []string
		excludes []string
	}{
		{
			name: "suggestions listed",
			err: &ActionableError{
				Operation:   "resolve script",
				Resource:    "deploy",
				Suggestions: []string{"Create deploy.lunash.lua in the current directory", "Add the script's directory to LUA_SCRIPT_PATH"},
			},
			contains: []string{
				"failed to resolve script: deploy",
				"• Create deploy.lunash.lua in the current directory",
				"• Add the script's directory to LUA_SCRIPT_PATH",
			},
		},
		{
			name:     "chain hidden unless verbose",
			err:      &ActionableError{Operation: "compile script", Cause: joined},
			contains: []string{"failed to compile script: compile deploy.lunash.lua"},
			excludes: []string{"Error chain:"},
		},
		{
			name:    "joined causes walked in verbose mode",
			err:     &ActionableError{Operation: "compile script", Cause: joined},
			verbose: true,
			contains: []string{
				"Error chain:",
				"1. compile deploy.lunash.lua: line 3: unexpected symbol",
				"2. compile error",
				"3. line 3: unexpected symbol",
			},
		},
		{
			name: "nested actionable error",
			err: &ActionableError{
				Operation: "run script",
				Cause:     &ActionableError{Operation: "read script", Cause: errNoSuchFile},
			},
			verbose: true,
			contains: []string{
				"1. failed to read script: no such file or directory",
				"2. no such file or directory",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.err.Format(tt.verbose)
			for _, s := range tt.contains {
				if !strings.Contains(got, s) {
					t.Errorf("Format() missing %q\ngot:\n%s", s, got)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(got, s) {
					t.Errorf("Format() should not contain %q\ngot:\n%s", s, got)
				}
			}
		})
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	t.Run("missing operation", func(t *testing.T) {
		t.Parallel()
		ctx := NewErrorContext().WithResource("deploy").Wrap(errNoSuchFile)
		if ae := ctx.Build(); ae != nil {
			t.Errorf("Build() = %v, want nil", ae)
		}
		if err := ctx.BuildError(); err != nil {
			t.Errorf("BuildError() = %v, want a nil interface", err)
		}
	})

	t.Run("all parts", func(t *testing.T) {
		t.Parallel()
		ae := NewErrorContext().
			WithOperation("resolve script").
			WithResource("deploy").
			WithSuggestion("Create deploy.lunash.lua in the current directory").
			WithIssue(ScriptNotFoundId).
			Wrap(errNoSuchFile).
			Build()
		if ae == nil {
			t.Fatal("Build() returned nil")
		}
		if ae.Operation != "resolve script" || ae.Resource != "deploy" {
			t.Errorf("Operation, Resource = %q, %q", ae.Operation, ae.Resource)
		}
		if len(ae.Suggestions) != 1 {
			t.Errorf("len(Suggestions) = %d, want 1", len(ae.Suggestions))
		}
		if !errors.Is(ae, errNoSuchFile) {
			t.Error("cause not reachable through errors.Is")
		}
		if got := ae.Issue(); got == nil || got.Id() != ScriptNotFoundId {
			t.Errorf("Issue() = %v, want the script-not-found entry", got)
		}
	})

	t.Run("issue unset", func(t *testing.T) {
		t.Parallel()
		if got := NewErrorContext().WithOperation("run script").Build().Issue(); got != nil {
			t.Errorf("Issue() = %v, want nil", got)
		}
	})
}

func TestErrorContext_BuiltErrorsAreIndependent(t *testing.T) {
	t.Parallel()

	ctx := NewErrorContext().WithOperation("run script").WithSuggestion("Use pcall")
	first := ctx.Build()
	second := ctx.WithSuggestion("Re-run with --verbose").Wrap(errNoSuchFile).Build()

	if len(first.Suggestions) != 1 {
		t.Errorf("first error gained suggestions added later: %v", first.Suggestions)
	}
	if first.Cause != nil {
		t.Errorf("first error gained a cause set later: %v", first.Cause)
	}
	if len(second.Suggestions) != 2 {
		t.Errorf("len(second.Suggestions) = %d, want 2", len(second.Suggestions))
	}
}
