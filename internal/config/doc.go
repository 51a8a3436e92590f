// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/lunash/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/lunash/config.cue on macOS, %APPDATA%\lunash\config.cue
// on Windows). Every key can be overridden with a LUNASH_ prefixed environment
// variable (for example LUNASH_LOG_LEVEL=debug).
//
// The package also owns the per-user data directory whose scripts/ subdirectory
// is the second search tier for named scripts.
package config
