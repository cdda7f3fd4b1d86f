// Package prelude owns the small Lua runtime library spec.md §2/§8
// assumes is in scope wherever emitted code runs: the TS_* helpers the
// rewriters and conditional-expression lowering reference, and a `bit`
// table for the `&`/`|` operators. The core codegen package never
// embeds this text itself — spec.md puts "a Lua standard-library
// runtime" explicitly out of the emitter's own scope — but a CLI that
// actually wants to run or verify the Lua it produces needs it
// supplied from somewhere, so it lives here as its own package.
package prelude

import (
	_ "embed"

	lua "github.com/yuin/gopher-lua"
	luar "layeh.com/gopher-luar"
)

// Source is the Lua text every one of the TS_* helpers and the bit
// table are defined in. It has no dependency on anything emitted by
// codegen; it only assumes the host program concatenates it ahead of
// the translated file.
//
//go:embed prelude.lua
var Source string

// NewState returns a fresh Lua VM with the prelude already loaded. A
// `__host_log` global is registered via gopher-luar, bridging the Go
// logger in through the VM boundary as a plain callable Lua value
// rather than only letting Lua call back into Lua — TS_slice calls it
// when a caller passes an out-of-range `to` it has to silently clamp.
func NewState(log func(message string)) (*lua.LState, error) {
	L := lua.NewState()
	if log == nil {
		log = func(string) {}
	}
	L.SetGlobal("__host_log", luar.New(L, log))
	if err := L.DoString(Source); err != nil {
		L.Close()
		return nil, err
	}
	return L, nil
}
