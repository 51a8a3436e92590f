// SPDX-License-Identifier: MPL-2.0

package modules

import (
	"github.com/walker84837/lunash/internal/httpclient"

	lua "github.com/yuin/gopher-lua"
)

// HTTPModuleName is the global name of the HTTP module.
const HTTPModuleName = "http"

// HTTP issues requests through the session's shared client.
type HTTP struct {
	client *httpclient.Shared
}

// NewHTTP creates the http module. A nil client is allowed; every call then
// fails with httpclient.ErrClientNotConfigured.
func NewHTTP(client *httpclient.Shared) *HTTP {
	return &HTTP{client: client}
}

// Name implements Module.
func (m *HTTP) Name() string { return HTTPModuleName }

// Functions implements Module.
func (m *HTTP) Functions() []Function {
	return []Function{
		{Name: "get", Fn: m.get},
		{Name: "post", Fn: m.post},
	}
}

// Fields implements Module.
func (m *HTTP) Fields() []Field { return nil }

func (m *HTTP) get(L *lua.LState) int {
	text, err := m.client.Get(stateContext(L), L.CheckString(1))
	if err != nil {
		return raise(L, HTTPModuleName, "get", err)
	}
	L.Push(lua.LString(text))
	return 1
}

func (m *HTTP) post(L *lua.LState) int {
	url := L.CheckString(1)
	body := L.CheckString(2)
	text, err := m.client.Post(stateContext(L), url, body)
	if err != nil {
		return raise(L, HTTPModuleName, "post", err)
	}
	L.Push(lua.LString(text))
	return 1
}
