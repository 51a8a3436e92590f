// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// remediation hints. An error may link to a catalog Issue whose Markdown help
// is rendered with glamour below the error on the terminal.
package issue
