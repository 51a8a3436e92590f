// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the lunash command-line interface.
//
// The root command loads configuration, installs the slog handler and hands
// off to subcommands. "run" resolves a script by name, runs it in a fresh Lua
// session and maps the outcome to a process exit status:
//
//	0  success
//	1  runtime fault
//	2  resolution failure (invalid name or script not found)
//	3  setup failure
//	4  compile failure
package cmd
