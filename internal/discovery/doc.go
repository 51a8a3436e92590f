// SPDX-License-Identifier: MPL-2.0

// Package discovery resolves a logical script name to a file on disk.
//
// A name "foo" maps to the file "foo.lunash.lua", which is probed in three tiers
// in precedence order:
//  1. The current working directory.
//  2. The per-user scripts directory (<DataDir>/scripts, see config.ScriptsDir).
//  3. Each directory listed in LUA_SCRIPT_PATH, then each configured search path.
//
// The first existing regular file wins. Later tiers are not consulted (nor is
// LUA_SCRIPT_PATH read) once an earlier tier matches.
package discovery
