// SPDX-License-Identifier: MPL-2.0

// Package logging installs the process-wide slog logger backed by charmbracelet/log.
//
// Call sites throughout lunash use log/slog directly (slog.Debug, slog.Warn with
// key/value pairs); this package only decides where those records go and how
// they are rendered.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
)

const (
	// FormatText renders human readable, styled log lines.
	FormatText = "text"
	// FormatJSON renders one JSON object per record.
	FormatJSON = "json"

	defaultTimeFormat = "15:04:05"
)

// Options configures Setup.
type Options struct {
	// Level is one of debug, info, warn, error. Unknown values fall back to info.
	Level string
	// Format is FormatText or FormatJSON. Unknown values fall back to text.
	Format string
	// Output receives log records. Defaults to os.Stderr so guest stdout stays clean.
	Output io.Writer
	// Prefix is prepended to every record when non-empty.
	Prefix string
}

// New builds a charmbracelet/log logger from opts without touching global state.
func New(opts Options) *log.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	level, err := log.ParseLevel(opts.Level)
	if err != nil {
		level = log.InfoLevel
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           level,
		Prefix:          opts.Prefix,
		ReportTimestamp: level == log.DebugLevel,
		TimeFormat:      defaultTimeFormat,
	})
	if opts.Format == FormatJSON {
		logger.SetFormatter(log.JSONFormatter)
	} else {
		logger.SetFormatter(log.TextFormatter)
	}

	return logger
}

// Setup builds a logger from opts, installs it as the slog default and returns it.
func Setup(opts Options) *slog.Logger {
	logger := slog.New(New(opts))
	slog.SetDefault(logger)
	return logger
}
