// SPDX-License-Identifier: MPL-2.0

package modules

import (
	"github.com/walker84837/lunash/internal/clipboard"
	"github.com/walker84837/lunash/internal/httpclient"
)

// Context carries the per-session collaborators of stateful modules.
type Context struct {
	// HTTP is the session's shared client. Nil leaves http calls unconfigured.
	HTTP *httpclient.Shared
	// Clipboard is the clipboard backend. Nil selects clipboard.System().
	Clipboard clipboard.Backend
}

// DefaultRegistry returns the fixed module set of a lunash session.
func DefaultRegistry(ctx Context) *Registry {
	cb := ctx.Clipboard
	if cb == nil {
		cb = clipboard.System()
	}
	// Names are distinct constants, so registration cannot fail.
	r, err := NewRegistry(
		NewFS(),
		NewStringx(),
		NewRegex(),
		NewHTTP(ctx.HTTP),
		NewClipboard(cb),
		NewBit(),
	)
	if err != nil {
		panic(err)
	}
	return r
}
