package config

import (
	lua "github.com/yuin/gopher-lua"
)

// sandboxLuaVM strips the VM down to a declarative subset. Configs must
// not execute commands, touch the filesystem, or load external code.
// string, table, math, and the basic utilities stay available.
func sandboxLuaVM(L *lua.LState) {
	L.SetGlobal("os", lua.LNil)
	L.SetGlobal("io", lua.LNil)

	L.SetGlobal("require", lua.LNil)
	L.SetGlobal("dofile", lua.LNil)
	L.SetGlobal("loadfile", lua.LNil)
	L.SetGlobal("load", lua.LNil)
	L.SetGlobal("loadstring", lua.LNil)

	// debug could be used to crawl out of the sandbox.
	L.SetGlobal("debug", lua.LNil)
}

func newSandboxedVM() *lua.LState {
	L := lua.NewState()
	sandboxLuaVM(L)
	return L
}
