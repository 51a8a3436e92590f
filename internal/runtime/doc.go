// SPDX-License-Identifier: MPL-2.0

// Package runtime hosts one guest Lua session per launch.
//
// A Session walks the states Created, Configured, Loaded, Running and then
// Completed or Faulted. Created opens a restricted standard library (no io,
// package or debug; no file loaders; no process-control os functions).
// Configured installs the capability modules and the arg table. Loaded
// compiles the script with its resolved path as chunk name. Running executes
// it under a protected call.
//
// Host wires a Session to a fresh shared HTTP client and the default module
// registry, and runs it on a single dedicated worker goroutine so that a
// panic anywhere in the session is reported as a RuntimeFault rather than
// tearing down the launcher.
package runtime
