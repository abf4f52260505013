package config

import (
	lua "github.com/yuin/gopher-lua"
)

// sandboxedGlobals are removed from every VM that evaluates config.lua.
var sandboxedGlobals = []string{
	"os",
	"io",
	"debug",
	"require",
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"module",
	"collectgarbage",
}

// newSandboxedVM creates a Lua VM with the system-facing libraries removed.
// string, table, math and the basic functions stay available.
func newSandboxedVM() *lua.LState {
	L := lua.NewState(lua.Options{
		CallStackSize: 256,
	})
	for _, name := range sandboxedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}
