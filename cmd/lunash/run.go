// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/walker84837/lunash/internal/discovery"
	"github.com/walker84837/lunash/internal/httpclient"
	"github.com/walker84837/lunash/internal/issue"
	"github.com/walker84837/lunash/internal/runtime"

	"github.com/spf13/cobra"
)

func newRunCommand(app *App) *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run <name> [args...]",
		Short: "Run a script by name",
		Long: `Run a script by name.

The script file is <name>.lunash.lua, looked up in order in:
  1. the current directory
  2. the user scripts directory (see 'lunash config path')
  3. each directory in ` + discovery.ScriptPathEnv + `, then configured search_paths

Everything after the name is passed to the script. Inside the script
arg holds the launcher's command line as typed, from arg[0] (the
launcher itself). With no global flags, arg[1] is "run", arg[2] the
name and arg[3] onwards the extra arguments.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runScript(cmd.Context(), args[0])
		},
	}
	// Flags after the script name belong to the script.
	runCmd.Flags().SetInterspersed(false)

	return runCmd
}

// runScript resolves name, runs it and converts any failure to an *ExitError.
func (a *App) runScript(ctx context.Context, name string) error {
	cfg := a.config()

	resolved, err := discovery.New(cfg, a.resolverOpts...).Resolve(discovery.ScriptName(name))
	if err != nil {
		return newExitError(err, name, "")
	}
	slog.Debug("script resolved", "name", name, "path", resolved.Path, "source", resolved.Source)

	script, err := runtime.LoadScript(resolved.Path)
	if err != nil {
		return newExitError(err, name, resolved.Path)
	}

	userAgent := cfg.HTTP.UserAgent
	if userAgent == "" {
		userAgent = "lunash/" + Version
	}
	opts := append([]runtime.HostOption{
		runtime.WithHTTPOptions(httpclient.Options{UserAgent: userAgent, Proxy: cfg.HTTP.Proxy}),
	}, a.hostOpts...)

	if err := runtime.NewHost(opts...).Run(ctx, script, a.args); err != nil {
		return newExitError(err, name, resolved.Path)
	}
	return nil
}

// newExitError classifies err into an exit status and wraps it with the
// matching catalog entry and suggestions.
func newExitError(err error, name, path string) *ExitError {
	code := runtime.ExitCodeFor(err)
	ctx := issue.NewErrorContext().Wrap(err)

	var kind string
	switch code {
	case runtime.ExitResolution:
		kind = "resolution failure"
		ctx.WithOperation("resolve script").WithResource(name)
		if errors.Is(err, discovery.ErrInvalidScriptName) {
			ctx.WithIssue(issue.InvalidScriptNameId).
				WithSuggestion("Pass the bare script name, without directories or the .lunash.lua suffix")
		} else {
			ctx.WithIssue(issue.ScriptNotFoundId).
				WithSuggestion(fmt.Sprintf("Create %s in the current directory", discovery.ScriptName(name).FileName())).
				WithSuggestion("Add the script's directory to " + discovery.ScriptPathEnv)
		}
	case runtime.ExitSetup:
		kind = "setup failure"
		ctx.WithOperation("prepare session").WithResource(path).
			WithIssue(issue.SessionSetupFailedId).
			WithSuggestion("Re-run with --verbose to see the full error chain")
	case runtime.ExitCompile:
		kind = "compile failure"
		ctx.WithOperation("compile script").
			WithIssue(issue.ScriptCompileFailedId).
			WithSuggestion("Fix the syntax error at the reported line")
	default:
		kind = "runtime fault"
		ctx.WithOperation("run script").
			WithIssue(issue.ScriptRuntimeFaultId).
			WithSuggestion("Use pcall to handle errors the script can recover from")
	}

	return &ExitError{Code: code, Kind: kind, Err: ctx.BuildError()}
}

// renderFailure writes the failure kind, the actionable message, any
// locations probed or stack trace, and the catalog help entry.
func (a *App) renderFailure(w io.Writer, exitErr *ExitError) {
	fmt.Fprintln(w, ErrorStyle.Render("✗ "+exitErr.Kind))
	if exitErr.Err == nil {
		return
	}
	fmt.Fprintln(w, formatErrorForDisplay(exitErr.Err, a.flags.verbose))

	var notFound *discovery.ScriptNotFoundError
	if errors.As(exitErr.Err, &notFound) && len(notFound.Probes) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, SubtitleStyle.Render("Searched:"))
		for _, p := range notFound.Probes {
			fmt.Fprintf(w, "  %s %s\n", CmdStyle.Render(p.Path), VerboseStyle.Render("("+p.Source.String()+")"))
		}
	}

	var fault *runtime.RuntimeFault
	if errors.As(exitErr.Err, &fault) && fault.StackTrace != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, VerboseStyle.Render(fault.StackTrace))
	}

	var ae *issue.ActionableError
	if errors.As(exitErr.Err, &ae) {
		if help := ae.Issue(); help != nil {
			rendered, err := help.Render(a.glamourStyle())
			if err != nil {
				slog.Debug("failed to render issue help", "issue", help.Id(), "error", err)
				return
			}
			fmt.Fprint(w, rendered)
		}
	}
}
