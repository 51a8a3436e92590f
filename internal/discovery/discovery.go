// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/walker84837/lunash/internal/config"

	"mvdan.cc/sh/v3/shell"
)

const (
	// SourceCurrentDir indicates the script was found in the current directory
	SourceCurrentDir Source = iota
	// SourceUserDir indicates the script was found in the per-user scripts directory
	SourceUserDir
	// SourceSearchPath indicates the script was found via LUA_SCRIPT_PATH or a configured search path
	SourceSearchPath
)

// ScriptPathEnv names the environment variable holding the tier-3 directory list.
const ScriptPathEnv = "LUA_SCRIPT_PATH"

// ErrScriptNotFound is returned when no tier holds the requested script.
var ErrScriptNotFound = errors.New("script not found")

type (
	// Source represents the tier a script was found in
	Source int

	// Probe is one location checked during resolution.
	Probe struct {
		Source Source
		Path   string
	}

	// ResolvedPath is the outcome of a successful lookup.
	ResolvedPath struct {
		// Name is the logical name that was resolved.
		Name ScriptName
		// Path is the absolute path to the script file.
		Path string
		// Source is the tier that produced the match.
		Source Source
	}

	// ScriptNotFoundError lists every location probed for a script.
	// It wraps ErrScriptNotFound for errors.Is() compatibility.
	ScriptNotFoundError struct {
		Name   ScriptName
		Probes []Probe
	}

	// Option configures a Resolver.
	Option func(*Resolver)

	// Resolver maps script names to files across the search tiers.
	Resolver struct {
		baseDir     string
		scriptsDir  string
		searchPaths []config.SearchPath
		lookupEnv   func(string) (string, bool)
		homeDir     func() (string, error)
		isFile      func(string) bool
	}
)

// String returns a human-readable source name
func (s Source) String() string {
	switch s {
	case SourceCurrentDir:
		return "current directory"
	case SourceUserDir:
		return "user scripts directory"
	case SourceSearchPath:
		return "search path"
	default:
		return "unknown"
	}
}

// Error implements the error interface.
func (e *ScriptNotFoundError) Error() string {
	return fmt.Sprintf("script %q not found (looked for %s in %d location(s))", e.Name, e.Name.FileName(), len(e.Probes))
}

// Unwrap returns ErrScriptNotFound for errors.Is() compatibility.
func (e *ScriptNotFoundError) Unwrap() error { return ErrScriptNotFound }

// WithBaseDir sets the tier-1 directory. Defaults to the process working directory.
func WithBaseDir(dir string) Option {
	return func(r *Resolver) { r.baseDir = dir }
}

// WithScriptsDir sets the tier-2 directory. Defaults to config.ScriptsDir().
func WithScriptsDir(dir string) Option {
	return func(r *Resolver) { r.scriptsDir = dir }
}

// WithLookupEnv replaces os.LookupEnv for reading LUA_SCRIPT_PATH and for
// expanding configured search paths.
func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(r *Resolver) { r.lookupEnv = lookup }
}

// WithSearchPaths overrides the configured search paths.
func WithSearchPaths(paths ...config.SearchPath) Option {
	return func(r *Resolver) { r.searchPaths = paths }
}

// New creates a Resolver. cfg may be nil, in which case no configured search
// paths are used.
func New(cfg *config.Config, opts ...Option) *Resolver {
	r := &Resolver{
		lookupEnv: os.LookupEnv,
		homeDir:   os.UserHomeDir,
		isFile:    isRegularFile,
	}
	if cfg != nil {
		r.searchPaths = cfg.SearchPaths
	}

	if wd, err := os.Getwd(); err == nil {
		r.baseDir = wd
	} else {
		slog.Warn("cannot determine working directory; skipping current directory tier", "error", err)
	}
	if dir, err := config.ScriptsDir(); err == nil {
		r.scriptsDir = dir
	} else {
		slog.Warn("cannot determine user scripts directory; skipping user tier", "error", err)
	}

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve finds the script file for name. It returns *InvalidScriptNameError
// for malformed names and *ScriptNotFoundError when no tier has the file.
func (r *Resolver) Resolve(name ScriptName) (*ResolvedPath, error) {
	if valid, errs := name.IsValid(); !valid {
		return nil, errs[0]
	}

	fileName := name.FileName()
	var probes []Probe

	try := func(dir string, source Source) *ResolvedPath {
		path := filepath.Join(dir, fileName)
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		probes = append(probes, Probe{Source: source, Path: path})
		if !r.isFile(path) {
			return nil
		}
		slog.Debug("resolved script", "name", name, "path", path, "source", source)
		return &ResolvedPath{Name: name, Path: path, Source: source}
	}

	// 1. Current directory (highest precedence)
	if r.baseDir != "" {
		if found := try(r.baseDir, SourceCurrentDir); found != nil {
			return found, nil
		}
	}

	// 2. Per-user scripts directory
	if r.scriptsDir != "" {
		if found := try(r.scriptsDir, SourceUserDir); found != nil {
			return found, nil
		}
	}

	// 3. LUA_SCRIPT_PATH entries, then configured search paths
	for _, dir := range r.envSearchDirs() {
		if found := try(dir, SourceSearchPath); found != nil {
			return found, nil
		}
	}
	for _, sp := range r.searchPaths {
		dir, err := r.expand(string(sp))
		if err != nil {
			slog.Warn("skipping search path", "path", sp, "error", err)
			continue
		}
		if found := try(dir, SourceSearchPath); found != nil {
			return found, nil
		}
	}

	return nil, &ScriptNotFoundError{Name: name, Probes: probes}
}

// envSearchDirs splits LUA_SCRIPT_PATH on the platform list separator,
// dropping empty entries.
func (r *Resolver) envSearchDirs() []string {
	raw, ok := r.lookupEnv(ScriptPathEnv)
	if !ok || raw == "" {
		return nil
	}
	var dirs []string
	for _, entry := range filepath.SplitList(raw) {
		if entry != "" {
			dirs = append(dirs, entry)
		}
	}
	return dirs
}

// expand applies ~ and $VAR expansion to a configured search path.
func (r *Resolver) expand(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		home, err := r.homeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		p = home + p[1:]
	}
	expanded, err := shell.Expand(p, func(key string) string {
		v, _ := r.lookupEnv(key)
		return v
	})
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", p, err)
	}
	if strings.TrimSpace(expanded) == "" {
		return "", fmt.Errorf("%q expands to an empty path", p)
	}
	return expanded, nil
}

// isRegularFile reports whether path exists and is a regular file (after
// following symlinks). Directories named like a script never match.
func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
