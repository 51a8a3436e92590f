// SPDX-License-Identifier: MPL-2.0

package modules

import (
	"context"

	"github.com/walker84837/lunash/internal/clipboard"

	lua "github.com/yuin/gopher-lua"
)

// ClipboardModuleName is the global name of the clipboard module.
const ClipboardModuleName = "clipboard"

// Clipboard exposes the system clipboard. Each call acquires the clipboard
// through the backend and releases it before returning.
type Clipboard struct {
	backend clipboard.Backend
}

// NewClipboard creates the clipboard module over backend.
func NewClipboard(backend clipboard.Backend) *Clipboard {
	return &Clipboard{backend: backend}
}

// Name implements Module.
func (m *Clipboard) Name() string { return ClipboardModuleName }

// Functions implements Module.
func (m *Clipboard) Functions() []Function {
	return []Function{
		{Name: "get", Fn: m.get},
		{Name: "set", Fn: m.set},
		{Name: "get_image", Fn: m.getImage},
	}
}

// Fields implements Module.
func (m *Clipboard) Fields() []Field { return nil }

func (m *Clipboard) get(L *lua.LState) int {
	text, err := m.backend.ReadText()
	if err != nil {
		return raise(L, ClipboardModuleName, "get", err)
	}
	L.Push(lua.LString(text))
	return 1
}

func (m *Clipboard) set(L *lua.LState) int {
	if err := m.backend.WriteText(L.CheckString(1)); err != nil {
		return raise(L, ClipboardModuleName, "set", err)
	}
	return 0
}

// getImage returns {width = w, height = h, bytes = <RGBA string>}.
func (m *Clipboard) getImage(L *lua.LState) int {
	img, err := m.backend.ReadImage(stateContext(L))
	if err != nil {
		return raise(L, ClipboardModuleName, "get_image", err)
	}
	tb := L.CreateTable(0, 3)
	tb.RawSetString("width", lua.LNumber(img.Width))
	tb.RawSetString("height", lua.LNumber(img.Height))
	tb.RawSetString("bytes", lua.LString(img.RGBA))
	L.Push(tb)
	return 1
}

// stateContext returns the context attached to L, or Background when none is.
func stateContext(L *lua.LState) context.Context {
	if ctx := L.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
