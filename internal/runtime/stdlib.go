// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	lua "github.com/yuin/gopher-lua"
)

type stdLib struct {
	name string
	open lua.LGFunction
}

var (
	// openedLibs is the standard library subset available to scripts.
	// io, package and debug are never opened.
	openedLibs = []stdLib{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
		{lua.OsLibName, lua.OpenOs},
	}

	// removedBaseFuncs load code from disk or through the package loader.
	removedBaseFuncs = []string{"dofile", "loadfile", "require", "module", "_printregs"}

	// removedOsFuncs touch the process or the filesystem.
	removedOsFuncs = []string{"execute", "exit", "remove", "rename", "tmpname", "setlocale"}
)

// openRestrictedLibs opens the allowed libraries into L, which must have been
// created with SkipOpenLibs, and strips the functions scripts may not use.
func openRestrictedLibs(L *lua.LState) {
	for _, lib := range openedLibs {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	for _, name := range removedBaseFuncs {
		L.SetGlobal(name, lua.LNil)
	}
	if osTable, ok := L.GetGlobal(lua.OsLibName).(*lua.LTable); ok {
		for _, name := range removedOsFuncs {
			osTable.RawSetString(name, lua.LNil)
		}
	}
}
