// SPDX-License-Identifier: MPL-2.0

package modules

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/walker84837/lunash/internal/clipboard"
	"github.com/walker84837/lunash/internal/httpclient"

	lua "github.com/yuin/gopher-lua"
)

// fakeClipboard is an in-memory clipboard.Backend.
type fakeClipboard struct {
	mu    sync.Mutex
	text  string
	image *clipboard.Image
	err   error
}

func (f *fakeClipboard) ReadText() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.text, f.err
}

func (f *fakeClipboard) WriteText(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

func (f *fakeClipboard) ReadImage(context.Context) (*clipboard.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.image == nil {
		return nil, clipboard.ErrNoImage
	}
	return f.image, nil
}

// newTestState opens the base and string libraries and installs reg.
func newTestState(t *testing.T, reg *Registry) *lua.LState {
	t.Helper()
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	t.Cleanup(L.Close)
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.StringLibName, lua.OpenString},
		{lua.TabLibName, lua.OpenTable},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	if err := reg.Install(L, "arg"); err != nil {
		t.Fatalf("Install() returned error: %v", err)
	}
	return L
}

func newDefaultState(t *testing.T, ctx Context) *lua.LState {
	t.Helper()
	if ctx.Clipboard == nil {
		ctx.Clipboard = &fakeClipboard{}
	}
	return newTestState(t, DefaultRegistry(ctx))
}

func mustRun(t *testing.T, L *lua.LState, src string) {
	t.Helper()
	if err := L.DoString(src); err != nil {
		t.Fatalf("script failed: %v\n%s", err, src)
	}
}

func globalString(t *testing.T, L *lua.LState, name string) string {
	t.Helper()
	v := L.GetGlobal(name)
	s, ok := v.(lua.LString)
	if !ok {
		t.Fatalf("global %s = %v (%s), want string", name, v, v.Type())
	}
	return string(s)
}

// sequence reads t[1..n] as strings, using "<nil>" for holes.
func sequence(t *testing.T, L *lua.LState, name string, n int) []string {
	t.Helper()
	tb, ok := L.GetGlobal(name).(*lua.LTable)
	if !ok {
		t.Fatalf("global %s is %s, want table", name, L.GetGlobal(name).Type())
	}
	out := make([]string, n)
	for i := range out {
		v := tb.RawGetInt(i + 1)
		if v == lua.LNil {
			out[i] = "<nil>"
			continue
		}
		out[i] = v.String()
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestStringx(t *testing.T) {
	t.Parallel()

	L := newDefaultState(t, Context{})
	L.SetGlobal("unicode_ws", lua.LString("\t\u3000y\n"))
	mustRun(t, L, `
		parts = stringx.split("a,,b", ",")
		count = #parts
		chars = stringx.split("hé!", "")
		trimmed = stringx.trim("  x  ")
		trimmed_unicode = stringx.trim(unicode_ws)
	`)

	if got := sequence(t, L, "parts", 3); !equalStrings(got, []string{"a", "", "b"}) {
		t.Errorf(`split("a,,b", ",") = %q, want ["a" "" "b"]`, got)
	}
	if got := L.GetGlobal("count"); got != lua.LNumber(3) {
		t.Errorf("#parts = %v, want 3", got)
	}
	if got := sequence(t, L, "chars", 3); !equalStrings(got, []string{"h", "é", "!"}) {
		t.Errorf(`split("hé!", "") = %q, want ["h" "é" "!"]`, got)
	}
	if got := globalString(t, L, "trimmed"); got != "x" {
		t.Errorf(`trim("  x  ") = %q, want "x"`, got)
	}
	if got := globalString(t, L, "trimmed_unicode"); got != "y" {
		t.Errorf("trim with unicode whitespace = %q, want %q", got, "y")
	}
}

func TestRegex_Captures(t *testing.T) {
	t.Parallel()

	L := newDefaultState(t, Context{})
	mustRun(t, L, `
		local m = regex.new("(\\d+)-(\\d+)")
		ctor = m:captures("12-34")
		call = regex("(\\d+)-(\\d+)"):captures("xx 12-34 yy")
		static = regex.captures("(\\d+)-(\\d+)", "12-34")
		none = m:captures("no digits")
		none_empty = next(none) == nil
		holes = regex.captures("(a)?(b)", "b")
		matched = m:is_match("1-2")
		unmatched = regex.is_match("^z", "abc")
	`)

	want := []string{"12-34", "12", "34"}
	for _, name := range []string{"ctor", "call", "static"} {
		if got := sequence(t, L, name, 3); !equalStrings(got, want) {
			t.Errorf("%s captures = %q, want %q", name, got, want)
		}
	}
	if L.GetGlobal("none_empty") != lua.LTrue {
		t.Error("captures on no match should return an empty table")
	}
	if got := sequence(t, L, "holes", 3); !equalStrings(got, []string{"b", "<nil>", "b"}) {
		t.Errorf("optional group captures = %q, want [b <nil> b]", got)
	}
	if L.GetGlobal("matched") != lua.LTrue {
		t.Error("is_match(\"1-2\") = false, want true")
	}
	if L.GetGlobal("unmatched") != lua.LFalse {
		t.Error("regex.is_match(\"^z\", \"abc\") = true, want false")
	}
}

func TestRegex_InvalidPatternIsCatchable(t *testing.T) {
	t.Parallel()

	L := newDefaultState(t, Context{})
	mustRun(t, L, `ok, err = pcall(regex.new, "(unclosed")`)

	if L.GetGlobal("ok") != lua.LFalse {
		t.Fatal("regex.new with invalid pattern should fail")
	}
	if msg := globalString(t, L, "err"); !strings.Contains(msg, "regex.new:") {
		t.Errorf("error = %q, want it to mention regex.new", msg)
	}
}

func TestModules_AreReadOnly(t *testing.T) {
	t.Parallel()

	L := newDefaultState(t, Context{})
	mustRun(t, L, `
		ok_assign, err_assign = pcall(function() fs.basename = nil end)
		ok_add, err_add = pcall(function() stringx.extra = 1 end)
		mt = getmetatable(regex)
		ok_setmt = pcall(setmetatable, http, {})
		still_there = type(fs.basename) == "function"
		missing = stringx.nope == nil
	`)

	if L.GetGlobal("ok_assign") != lua.LFalse || L.GetGlobal("ok_add") != lua.LFalse {
		t.Error("assigning into a module should fail")
	}
	if msg := globalString(t, L, "err_add"); !strings.Contains(msg, "read-only") {
		t.Errorf("assignment error = %q, want it to mention read-only", msg)
	}
	if got := globalString(t, L, "mt"); got != lockedMetatable {
		t.Errorf("getmetatable(regex) = %q, want %q", got, lockedMetatable)
	}
	if L.GetGlobal("ok_setmt") != lua.LFalse {
		t.Error("setmetatable on a module should fail")
	}
	if L.GetGlobal("still_there") != lua.LTrue {
		t.Error("fs.basename was replaced")
	}
	if L.GetGlobal("missing") != lua.LTrue {
		t.Error("unknown members should read as nil")
	}
}

func TestSessions_ShareNoModuleState(t *testing.T) {
	t.Parallel()

	cbA, cbB := &fakeClipboard{}, &fakeClipboard{text: "from B"}
	A := newDefaultState(t, Context{Clipboard: cbA})
	B := newDefaultState(t, Context{Clipboard: cbB})

	mustRun(t, A, `
		clipboard.set("from A")
		pcall(function() fs.injected = true end)
		rawset(_G, "leak", "A")
	`)
	mustRun(t, B, `
		seen = clipboard.get()
		injected = fs.injected
		leak = rawget(_G, "leak")
	`)

	if got := globalString(t, B, "seen"); got != "from B" {
		t.Errorf("session B clipboard = %q, want %q", got, "from B")
	}
	if B.GetGlobal("injected") != lua.LNil {
		t.Error("module member injected in session A is visible in B")
	}
	if B.GetGlobal("leak") != lua.LNil {
		t.Error("global from session A is visible in B")
	}
	if cbA.text != "from A" {
		t.Errorf("session A clipboard = %q, want %q", cbA.text, "from A")
	}
}

func TestClipboard_GetImage(t *testing.T) {
	t.Parallel()

	cb := &fakeClipboard{image: &clipboard.Image{Width: 1, Height: 2, RGBA: []byte{1, 2, 3, 4, 5, 6, 7, 8}}}
	L := newDefaultState(t, Context{Clipboard: cb})
	mustRun(t, L, `
		local img = clipboard.get_image()
		w, h, n = img.width, img.height, #img.bytes
		b5 = string.byte(img.bytes, 5)
	`)

	if L.GetGlobal("w") != lua.LNumber(1) || L.GetGlobal("h") != lua.LNumber(2) {
		t.Errorf("image size = %vx%v, want 1x2", L.GetGlobal("w"), L.GetGlobal("h"))
	}
	if L.GetGlobal("n") != lua.LNumber(8) {
		t.Errorf("#bytes = %v, want 8", L.GetGlobal("n"))
	}
	if L.GetGlobal("b5") != lua.LNumber(5) {
		t.Errorf("byte 5 = %v, want 5", L.GetGlobal("b5"))
	}
}

func TestClipboard_ErrorsAreCatchable(t *testing.T) {
	t.Parallel()

	L := newDefaultState(t, Context{Clipboard: &fakeClipboard{err: clipboard.ErrUnsupported}})
	mustRun(t, L, `
		ok_get, err_get = pcall(clipboard.get)
		ok_img, err_img = pcall(clipboard.get_image)
	`)

	if L.GetGlobal("ok_get") != lua.LFalse {
		t.Error("clipboard.get should fail when the backend fails")
	}
	if msg := globalString(t, L, "err_get"); !strings.Contains(msg, "clipboard.get:") {
		t.Errorf("error = %q, want clipboard.get prefix", msg)
	}
	if msg := globalString(t, L, "err_img"); !strings.Contains(msg, "clipboard.get_image:") {
		t.Errorf("error = %q, want clipboard.get_image prefix", msg)
	}
}

func TestFS_Lua(t *testing.T) {
	t.Parallel()

	fsMod := &FS{getwd: func() (string, error) { return "/home/user/project", nil }}
	reg, err := NewRegistry(fsMod)
	if err != nil {
		t.Fatalf("NewRegistry() returned error: %v", err)
	}
	L := newTestState(t, reg)
	mustRun(t, L, `
		base = fs.basename("/a/b.txt")
		dir = fs.dirname("/a/b.txt")
		no_base = fs.basename("/") == nil
		no_dir = fs.dirname("/") == nil
		parent = fs.cwd_parent
		ok_link, err_link = pcall(fs.readlink, "/definitely/not/a/link")
	`)

	if got := globalString(t, L, "base"); got != "b.txt" {
		t.Errorf(`fs.basename("/a/b.txt") = %q, want "b.txt"`, got)
	}
	if got := globalString(t, L, "dir"); got != "/a" {
		t.Errorf(`fs.dirname("/a/b.txt") = %q, want "/a"`, got)
	}
	if L.GetGlobal("no_base") != lua.LTrue || L.GetGlobal("no_dir") != lua.LTrue {
		t.Error("basename/dirname of the root should be nil")
	}
	if got := globalString(t, L, "parent"); got != "/home/user" {
		t.Errorf("fs.cwd_parent = %q, want /home/user", got)
	}
	if L.GetGlobal("ok_link") != lua.LFalse {
		t.Error("fs.readlink on a missing path should raise")
	}
	if msg := globalString(t, L, "err_link"); !strings.Contains(msg, "fs.readlink:") {
		t.Errorf("readlink error = %q, want fs.readlink prefix", msg)
	}
}

func TestFS_CwdParentAtRoot(t *testing.T) {
	t.Parallel()

	reg, _ := NewRegistry(&FS{getwd: func() (string, error) { return "/", nil }})
	L := newTestState(t, reg)
	mustRun(t, L, `at_root = fs.cwd_parent == nil`)

	if L.GetGlobal("at_root") != lua.LTrue {
		t.Error("fs.cwd_parent at / should be nil")
	}
}

func TestFS_Readlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated privileges on windows")
	}
	t.Parallel()

	dir := t.TempDir()
	link := filepath.Join(dir, "link")
	if err := os.Symlink("target.txt", link); err != nil {
		t.Fatalf("Symlink() returned error: %v", err)
	}

	L := newDefaultState(t, Context{})
	L.SetGlobal("link_path", lua.LString(link))
	mustRun(t, L, `target = fs.readlink(link_path)`)

	if got := globalString(t, L, "target"); got != "target.txt" {
		t.Errorf("fs.readlink() = %q, want target.txt", got)
	}
}

func TestBasenameDirname(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("cases use unix separators")
	}
	t.Parallel()

	tests := []struct {
		path   string
		base   string
		baseOK bool
		dir    string
		dirOK  bool
	}{
		{"/a/b.txt", "b.txt", true, "/a", true},
		{"/a/b/", "b", true, "/a", true},
		{"b.txt", "b.txt", true, "", true},
		{"/a", "a", true, "/", true},
		{"a/b", "b", true, "a", true},
		{"a//b", "b", true, "a", true},
		{"/", "", false, "", false},
		{"///", "", false, "", false},
		{"", "", false, "", false},
		{"/a/..", "", false, "/a", true},
		{".", "", false, "", true},
		{"/.", "", false, "", false},
		{"foo.txt/.", "foo.txt", true, "", true},
		{"a/b/.", "b", true, "a", true},
		{"/a/./b", "b", true, "/a", true},
		{"a/./b/c", "c", true, "a/./b", true},
		{"./a", "a", true, ".", true},
		{"//a", "a", true, "/", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			base, ok := Basename(tt.path)
			if base != tt.base || ok != tt.baseOK {
				t.Errorf("Basename(%q) = (%q, %v), want (%q, %v)", tt.path, base, ok, tt.base, tt.baseOK)
			}
			dir, ok := Dirname(tt.path)
			if dir != tt.dir || ok != tt.dirOK {
				t.Errorf("Dirname(%q) = (%q, %v), want (%q, %v)", tt.path, dir, ok, tt.dir, tt.dirOK)
			}
		})
	}
}

func TestBit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		expr string
		want lua.LValue
	}{
		{"bit.band(0xff, 0x0f)", lua.LNumber(15)},
		{"bit.bor(1, 2, 4)", lua.LNumber(7)},
		{"bit.bxor(5, 3)", lua.LNumber(6)},
		{"bit.bnot(0)", lua.LNumber(-1)},
		{"bit.lshift(1, 31)", lua.LNumber(-2147483648)},
		{"bit.lshift(1, 33)", lua.LNumber(2)},
		{"bit.rshift(-1, 28)", lua.LNumber(15)},
		{"bit.arshift(-16, 2)", lua.LNumber(-4)},
		{"bit.tobit(4294967297)", lua.LNumber(1)},
		{"bit.tobit(0xffffffff)", lua.LNumber(-1)},
		{"bit.tohex(255)", lua.LString("000000ff")},
		{"bit.tohex(-1, -4)", lua.LString("FFFF")},
		{"bit.tohex(0x1234, 2)", lua.LString("34")},
	}

	L := newDefaultState(t, Context{})
	for _, tt := range tests {
		mustRun(t, L, "result = "+tt.expr)
		if got := L.GetGlobal("result"); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.expr, got, tt.want)
		}
	}
}

func TestHTTP_SequentialGets(t *testing.T) {
	t.Parallel()

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Method == http.MethodPost {
			body, _ := io.ReadAll(r.Body)
			_, _ = w.Write(body)
			return
		}
		_, _ = io.WriteString(w, "hello")
	}))
	t.Cleanup(srv.Close)

	client, err := httpclient.New(httpclient.Options{})
	if err != nil {
		t.Fatalf("httpclient.New() returned error: %v", err)
	}
	L := newDefaultState(t, Context{HTTP: client})
	L.SetGlobal("url", lua.LString(srv.URL))
	mustRun(t, L, `
		first = http.get(url)
		second = http.get(url)
		echoed = http.post(url, "ping")
	`)

	if globalString(t, L, "first") != "hello" || globalString(t, L, "second") != "hello" {
		t.Errorf("http.get results = %q, %q, want hello twice", L.GetGlobal("first"), L.GetGlobal("second"))
	}
	if got := globalString(t, L, "echoed"); got != "ping" {
		t.Errorf("http.post() = %q, want ping", got)
	}
	if calls != 3 {
		t.Errorf("server saw %d requests, want 3", calls)
	}
}

func TestHTTP_NotConfigured(t *testing.T) {
	t.Parallel()

	L := newDefaultState(t, Context{})
	mustRun(t, L, `ok, err = pcall(http.get, "http://example.invalid/")`)

	if L.GetGlobal("ok") != lua.LFalse {
		t.Fatal("http.get without a client should fail")
	}
	msg := globalString(t, L, "err")
	if !strings.Contains(msg, "http.get:") || !strings.Contains(msg, httpclient.ErrClientNotConfigured.Error()) {
		t.Errorf("error = %q, want http.get prefix and not-configured cause", msg)
	}
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	t.Parallel()

	_, err := NewRegistry(NewFS(), NewStringx(), NewFS())
	if !errors.Is(err, ErrDuplicateModule) {
		t.Errorf("NewRegistry() error = %v, want ErrDuplicateModule", err)
	}
}

// namedModule is a module with an arbitrary name and no members.
type namedModule string

func (m namedModule) Name() string          { return string(m) }
func (m namedModule) Functions() []Function { return nil }
func (m namedModule) Fields() []Field       { return nil }

func TestRegistry_InstallCollisions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		module   string
		reserved []string
	}{
		{"existing global", "string", nil},
		{"base function", "print", nil},
		{"reserved name", "arg", []string{"arg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reg, err := NewRegistry(NewFS(), namedModule(tt.module))
			if err != nil {
				t.Fatalf("NewRegistry() returned error: %v", err)
			}
			L := lua.NewState()
			defer L.Close()

			err = reg.Install(L, tt.reserved...)
			if !errors.Is(err, ErrGlobalCollision) {
				t.Fatalf("Install() error = %v, want ErrGlobalCollision", err)
			}
			if L.GetGlobal(FSModuleName) != lua.LNil {
				t.Error("Install() bound modules despite a collision")
			}
		})
	}
}

func TestRegistry_Names(t *testing.T) {
	t.Parallel()

	got := DefaultRegistry(Context{Clipboard: &fakeClipboard{}}).Names()
	want := []string{"fs", "stringx", "regex", "http", "clipboard", "bit"}
	if !equalStrings(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestNativeCallError(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := &NativeCallError{Module: "fs", Op: "readlink", Err: cause}
	if err.Error() != "fs.readlink: boom" {
		t.Errorf("Error() = %q, want %q", err.Error(), "fs.readlink: boom")
	}
	if !errors.Is(err, ErrNativeCall) || !errors.Is(err, cause) {
		t.Error("NativeCallError should match both ErrNativeCall and its cause")
	}
}
