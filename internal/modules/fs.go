// SPDX-License-Identifier: MPL-2.0

package modules

import (
	"os"
	"runtime"

	lua "github.com/yuin/gopher-lua"
)

// FSModuleName is the global name of the filesystem module.
const FSModuleName = "fs"

// FS exposes read-only path helpers. It holds no state.
type FS struct {
	getwd func() (string, error)
}

// NewFS creates the fs module bound to the process working directory.
func NewFS() *FS {
	return &FS{getwd: os.Getwd}
}

// Name implements Module.
func (m *FS) Name() string { return FSModuleName }

// Functions implements Module.
func (m *FS) Functions() []Function {
	return []Function{
		{Name: "basename", Fn: m.basename},
		{Name: "dirname", Fn: m.dirname},
		{Name: "readlink", Fn: m.readlink},
	}
}

// Fields implements Module.
func (m *FS) Fields() []Field {
	return []Field{
		{Name: "cwd_parent", Get: m.cwdParent},
	}
}

func (m *FS) basename(L *lua.LState) int {
	name, ok := Basename(L.CheckString(1))
	L.Push(optString(name, ok))
	return 1
}

func (m *FS) dirname(L *lua.LState) int {
	parent, ok := Dirname(L.CheckString(1))
	L.Push(optString(parent, ok))
	return 1
}

func (m *FS) readlink(L *lua.LState) int {
	target, err := os.Readlink(L.CheckString(1))
	if err != nil {
		return raise(L, FSModuleName, "readlink", err)
	}
	L.Push(lua.LString(target))
	return 1
}

func (m *FS) cwdParent(L *lua.LState) lua.LValue {
	wd, err := m.getwd()
	if err != nil {
		raise(L, FSModuleName, "cwd_parent", err)
		return lua.LNil
	}
	return optString(Dirname(wd))
}

// pathComponent is one named component of a path, located within it.
type pathComponent struct {
	name string
	end  int
}

// splitPath separates path into its root (drive prefix plus one separator)
// and its components. Empty components and "." are dropped, except a "."
// that leads a path with no root.
func splitPath(path string) (rootLen int, comps []pathComponent) {
	rootLen = len(volumePrefix(path))
	if rootLen < len(path) && isPathSeparator(rune(path[rootLen])) {
		rootLen++
	}

	i := rootLen
	for i < len(path) {
		j := i
		for j < len(path) && !isPathSeparator(rune(path[j])) {
			j++
		}
		name := path[i:j]
		leadingDot := name == "." && i == 0
		if name != "" && (name != "." || leadingDot) {
			comps = append(comps, pathComponent{name: name, end: j})
		}
		i = j + 1
	}
	return rootLen, comps
}

// Basename returns the final component of path. Trailing separators and
// "." components are ignored. It reports false when the final component is
// not a name: empty paths, roots, and paths ending in "..".
func Basename(path string) (string, bool) {
	_, comps := splitPath(path)
	if len(comps) == 0 {
		return "", false
	}
	name := comps[len(comps)-1].name
	if name == "." || name == ".." {
		return "", false
	}
	return name, true
}

// Dirname returns path without its final component. A single relative
// component yields "" and an empty path or a root yields false.
func Dirname(path string) (string, bool) {
	rootLen, comps := splitPath(path)
	switch len(comps) {
	case 0:
		return "", false
	case 1:
		// "/a" -> "/", `C:\a` -> `C:\`, "a" -> ""
		return path[:rootLen], true
	default:
		return path[:comps[len(comps)-2].end], true
	}
}

func optString(s string, ok bool) lua.LValue {
	if !ok {
		return lua.LNil
	}
	return lua.LString(s)
}

func isPathSeparator(r rune) bool {
	return r == '/' || (runtime.GOOS == "windows" && r == '\\')
}

// volumePrefix returns a Windows drive prefix such as "C:".
func volumePrefix(p string) string {
	if runtime.GOOS == "windows" && len(p) >= 2 && p[1] == ':' {
		return p[:2]
	}
	return ""
}
