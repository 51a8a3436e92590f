// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/walker84837/lunash/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `lunash config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage lunash configuration",
		Long: `Manage lunash configuration.

Configuration is stored in:
  - Linux: ~/.config/lunash/config.cue
  - macOS: ~/Library/Application Support/lunash/config.cue
  - Windows: %APPDATA%\lunash\config.cue

Every key can be overridden with an environment variable prefixed with
` + config.EnvPrefix + `_, e.g. ` + config.EnvPrefix + `_LOG_LEVEL=debug.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.showConfig(cmd.Context())
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration and scripts paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.showConfigPath()
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file and scripts directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.initConfig()
		},
	})

	return cfgCmd
}

func (a *App) showConfig(ctx context.Context) error {
	cfg, path, err := config.LoadWithPath(ctx, config.LoadOptions{ConfigFilePath: a.flags.configFile})
	if err != nil {
		return err
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(a.stdout, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(a.stdout)

	if path != "" {
		fmt.Fprintf(a.stdout, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(a.stdout, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(a.stdout)

	fmt.Fprintf(a.stdout, "%s:\n", keyStyle.Render("search_paths"))
	if len(cfg.SearchPaths) == 0 {
		fmt.Fprintf(a.stdout, "  %s\n", SubtitleStyle.Render("(none configured)"))
	}
	for _, p := range cfg.SearchPaths {
		fmt.Fprintf(a.stdout, "  - %s\n", valueStyle.Render(p.String()))
	}

	fmt.Fprintln(a.stdout)
	fmt.Fprintf(a.stdout, "%s:\n", keyStyle.Render("http"))
	fmt.Fprintf(a.stdout, "  user_agent: %s\n", valueStyle.Render(orNone(cfg.HTTP.UserAgent)))
	fmt.Fprintf(a.stdout, "  proxy: %s\n", valueStyle.Render(orNone(cfg.HTTP.Proxy)))

	fmt.Fprintln(a.stdout)
	fmt.Fprintf(a.stdout, "%s:\n", keyStyle.Render("log"))
	fmt.Fprintf(a.stdout, "  level: %s\n", valueStyle.Render(cfg.Log.Level.String()))
	fmt.Fprintf(a.stdout, "  format: %s\n", valueStyle.Render(cfg.Log.Format.String()))

	fmt.Fprintln(a.stdout)
	fmt.Fprintf(a.stdout, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(a.stdout, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))
	fmt.Fprintf(a.stdout, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))

	return nil
}

func (a *App) showConfigPath() error {
	cfgPath, err := config.ConfigFilePath()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Config file: %s\n", cfgPath)

	if scriptsDir, err := config.ScriptsDir(); err == nil {
		fmt.Fprintf(a.stdout, "Scripts directory: %s\n", scriptsDir)
	} else {
		slog.Warn("failed to determine scripts directory", "error", err)
	}
	return nil
}

func (a *App) initConfig() error {
	cfgPath, err := config.CreateDefaultConfig()
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	fmt.Fprintf(a.stdout, "%s Configuration at %s\n", SuccessStyle.Render("✓"), cfgPath)

	scriptsDir, err := config.EnsureScriptsDir()
	if err != nil {
		slog.Warn("failed to create scripts directory", "path", scriptsDir, "error", err)
		return nil
	}
	fmt.Fprintf(a.stdout, "%s Scripts directory at %s\n", SuccessStyle.Render("✓"), scriptsDir)
	return nil
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(none)"
	}
	return s
}
