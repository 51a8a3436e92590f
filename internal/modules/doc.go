// SPDX-License-Identifier: MPL-2.0

// Package modules implements the native modules lunash exposes to guest scripts.
//
// Each module is a closed bundle of Go functions and read-only attributes
// registered under one global name:
//
//	fs         basename, dirname, readlink, cwd_parent
//	stringx    split, trim
//	regex      new / regex(p), is_match, captures
//	clipboard  get, set, get_image
//	http       get, post
//	bit        band, bor, bxor, bnot, lshift, rshift, arshift, tobit, tohex
//
// Modules are collected in a Registry and installed into a Lua state before any
// script code runs. Every module global is a locked proxy table: scripts can
// read and call through it but cannot add, replace or remove members, and
// getmetatable returns a placeholder string.
//
// Native failures surface to Lua as errors of the form "<module>.<op>: <cause>"
// and can be caught with pcall.
package modules
