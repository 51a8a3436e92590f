// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/walker84837/lunash/internal/config"
	"github.com/walker84837/lunash/internal/discovery"
	"github.com/walker84837/lunash/internal/logging"
	"github.com/walker84837/lunash/internal/runtime"
)

type (
	// App wires CLI services and shared dependencies. Cobra handlers receive
	// an App and delegate through it.
	App struct {
		Config       config.Provider
		stdout       io.Writer
		stderr       io.Writer
		args         []string
		hostOpts     []runtime.HostOption
		resolverOpts []discovery.Option
		flags        rootFlags
		cfg          *config.Config
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Stdout io.Writer
		Stderr io.Writer
		// Args is the process argument vector handed to scripts as arg.
		// Defaults to os.Args.
		Args []string
		// HostOptions are appended after the options derived from configuration.
		HostOptions []runtime.HostOption
		// ResolverOptions are appended after the options derived from configuration.
		ResolverOptions []discovery.Option
	}

	rootFlags struct {
		verbose    bool
		configFile string
		logLevel   string
	}
)

// NewApp creates an App, filling unset dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:       deps.Config,
		stdout:       deps.Stdout,
		stderr:       deps.Stderr,
		args:         deps.Args,
		hostOpts:     deps.HostOptions,
		resolverOpts: deps.ResolverOptions,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	if app.args == nil {
		app.args = os.Args
	}
	return app
}

// loadConfig reads configuration and installs the logger. A broken config
// file is reported as a warning and defaults are used instead.
func (a *App) loadConfig(ctx context.Context) error {
	if a.flags.logLevel != "" {
		if valid, errs := config.LogLevel(a.flags.logLevel).IsValid(); !valid {
			return fmt.Errorf("--log-level: %w", errs[0])
		}
	}

	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.flags.configFile})
	if err != nil {
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, a.flags.verbose))
		cfg = config.DefaultConfig()
	}
	a.cfg = cfg

	if !a.flags.verbose {
		a.flags.verbose = cfg.UI.Verbose
	}

	level := a.flags.logLevel
	if level == "" {
		level = cfg.Log.Level.String()
		if a.flags.verbose {
			level = config.LogLevelDebug.String()
		}
	}
	logging.Setup(logging.Options{
		Level:  level,
		Format: cfg.Log.Format.String(),
		Output: a.stderr,
	})
	slog.Debug("configuration loaded", "log_level", level, "search_paths", len(cfg.SearchPaths))
	return nil
}

// config returns the loaded configuration, or defaults if none was loaded.
func (a *App) config() *config.Config {
	if a.cfg == nil {
		return config.DefaultConfig()
	}
	return a.cfg
}

// glamourStyle maps the configured color scheme to a glamour style name.
func (a *App) glamourStyle() string {
	switch a.config().UI.ColorScheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}
