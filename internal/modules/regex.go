// SPDX-License-Identifier: MPL-2.0

package modules

import (
	"regexp"

	lua "github.com/yuin/gopher-lua"
)

const (
	// RegexModuleName is the global name of the regular expression module.
	RegexModuleName = "regex"

	matcherTypeName = "lunash.regex.matcher"
)

// Regex compiles RE2 patterns into matcher objects.
//
//	local m = regex.new("(\\d+)-(\\d+)")   -- or regex("(\\d+)-(\\d+)")
//	m:is_match("12-34")                      --> true
//	m:captures("12-34")                      --> {"12-34", "12", "34"}
//
// regex.is_match(p, s) and regex.captures(p, s) compile p for a single use.
type Regex struct{}

// NewRegex creates the regex module.
func NewRegex() *Regex { return &Regex{} }

// Name implements Module.
func (m *Regex) Name() string { return RegexModuleName }

// Functions implements Module.
func (m *Regex) Functions() []Function {
	return []Function{
		{Name: "new", Fn: m.newMatcher},
		{Name: "is_match", Fn: m.isMatch},
		{Name: "captures", Fn: m.captures},
	}
}

// Fields implements Module.
func (m *Regex) Fields() []Field { return nil }

// Call implements Callable so regex(p) behaves like regex.new(p).
func (m *Regex) Call(L *lua.LState) int { return m.newMatcher(L) }

func (m *Regex) newMatcher(L *lua.LState) int {
	re := compile(L, "new", L.CheckString(1))
	ud := L.NewUserData()
	ud.Value = re
	L.SetMetatable(ud, matcherMetatable(L))
	L.Push(ud)
	return 1
}

func (m *Regex) isMatch(L *lua.LState) int {
	re := compile(L, "is_match", L.CheckString(1))
	L.Push(lua.LBool(re.MatchString(L.CheckString(2))))
	return 1
}

func (m *Regex) captures(L *lua.LState) int {
	re := compile(L, "captures", L.CheckString(1))
	L.Push(capturesTable(L, re, L.CheckString(2)))
	return 1
}

func compile(L *lua.LState, op, pattern string) *regexp.Regexp {
	re, err := regexp.Compile(pattern)
	if err != nil {
		raise(L, RegexModuleName, op, err)
		return nil
	}
	return re
}

// matcherMetatable returns the shared metatable for compiled matchers,
// creating it on first use in L.
func matcherMetatable(L *lua.LState) *lua.LTable {
	if mt, ok := L.GetTypeMetatable(matcherTypeName).(*lua.LTable); ok {
		return mt
	}
	mt := L.NewTypeMetatable(matcherTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"is_match": matcherIsMatch,
		"captures": matcherCaptures,
	}))
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString("regex: " + checkMatcher(L).String()))
		return 1
	}))
	L.SetField(mt, "__metatable", lua.LString(lockedMetatable))
	return mt
}

func checkMatcher(L *lua.LState) *regexp.Regexp {
	ud := L.CheckUserData(1)
	re, ok := ud.Value.(*regexp.Regexp)
	if !ok {
		L.ArgError(1, "regex matcher expected")
		return nil
	}
	return re
}

func matcherIsMatch(L *lua.LState) int {
	re := checkMatcher(L)
	L.Push(lua.LBool(re.MatchString(L.CheckString(2))))
	return 1
}

func matcherCaptures(L *lua.LState) int {
	re := checkMatcher(L)
	L.Push(capturesTable(L, re, L.CheckString(2)))
	return 1
}

// capturesTable returns the first match of re in text: index 1 is the whole
// match, followed by every group in order. Groups that did not participate
// leave a nil hole so numbering stays stable. No match gives an empty table.
func capturesTable(L *lua.LState, re *regexp.Regexp, text string) *lua.LTable {
	groups := Captures(re, text)
	tb := L.CreateTable(len(groups), 0)
	for i, g := range groups {
		if g != nil {
			tb.RawSetInt(i+1, lua.LString(*g))
		}
	}
	return tb
}

// Captures returns the whole first match followed by each group; nil entries
// are groups that did not participate. It returns nil when re does not match.
func Captures(re *regexp.Regexp, text string) []*string {
	loc := re.FindStringSubmatchIndex(text)
	if loc == nil {
		return nil
	}
	out := make([]*string, len(loc)/2)
	for i := range out {
		start, end := loc[2*i], loc[2*i+1]
		if start < 0 {
			continue
		}
		s := text[start:end]
		out[i] = &s
	}
	return out
}
