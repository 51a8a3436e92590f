// SPDX-License-Identifier: MPL-2.0

package modules

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// StringxModuleName is the global name of the string utilities module.
const StringxModuleName = "stringx"

// Stringx adds string helpers missing from Lua's string library.
type Stringx struct{}

// NewStringx creates the stringx module.
func NewStringx() *Stringx { return &Stringx{} }

// Name implements Module.
func (m *Stringx) Name() string { return StringxModuleName }

// Functions implements Module.
func (m *Stringx) Functions() []Function {
	return []Function{
		{Name: "split", Fn: m.split},
		{Name: "trim", Fn: m.trim},
	}
}

// Fields implements Module.
func (m *Stringx) Fields() []Field { return nil }

// split returns a sequence of the pieces of s around every occurrence of sep.
// Empty pieces are kept, so split("a,,b", ",") is {"a", "", "b"}. An empty
// sep splits s into its UTF-8 characters.
func (m *Stringx) split(L *lua.LState) int {
	s := L.CheckString(1)
	sep := L.CheckString(2)

	parts := strings.Split(s, sep)
	tb := L.CreateTable(len(parts), 0)
	for i, p := range parts {
		tb.RawSetInt(i+1, lua.LString(p))
	}
	L.Push(tb)
	return 1
}

// trim strips leading and trailing Unicode whitespace.
func (m *Stringx) trim(L *lua.LState) int {
	L.Push(lua.LString(strings.TrimSpace(L.CheckString(1))))
	return 1
}
