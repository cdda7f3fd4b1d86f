// Package verify answers one question: is this Lua text something a
// real Lua VM can load? It exists for the `slua verify` subcommand and
// for the tests in test/integration, which want stronger assurance
// than a substring check — round-tripping emitted text through gopher-lua catches
// precedence and quoting mistakes a string comparison would miss.
package verify

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"lunar/internal/prelude"
)

// Result reports whether a piece of Lua source loaded cleanly once the
// prelude was already in scope.
type Result struct {
	OK  bool
	Err error
}

// Source compiles lua source against a VM that already has the
// prelude's TS_* helpers and bit table defined, without executing it —
// a syntax/load check, not a run. A construct that depends on the
// prelude but never calls into it (the overwhelmingly common case:
// function bodies aren't executed just by being loaded) still passes,
// since undefined-global references only fail at call time.
func Source(luaSource string) Result {
	L, err := prelude.NewState(nil)
	if err != nil {
		return Result{OK: false, Err: fmt.Errorf("loading prelude: %w", err)}
	}
	defer L.Close()

	if _, err := L.LoadString(luaSource); err != nil {
		return Result{OK: false, Err: err}
	}
	return Result{OK: true}
}

// Run compiles and executes lua source in a VM seeded with the
// prelude, returning any load or runtime error. Used where a caller
// wants to actually exercise emitted code (e.g. a codegen test
// asserting a specific runtime value), not just confirm it parses.
func Run(luaSource string) error {
	L, err := prelude.NewState(nil)
	if err != nil {
		return fmt.Errorf("loading prelude: %w", err)
	}
	defer L.Close()
	return L.DoString(luaSource)
}

// Global reads a global Lua value back out of a freshly-run VM, for
// tests that want to assert on the result of executing emitted code
// rather than its raw text.
func Global(luaSource, name string) (lua.LValue, error) {
	L, err := prelude.NewState(nil)
	if err != nil {
		return nil, fmt.Errorf("loading prelude: %w", err)
	}
	defer L.Close()
	if err := L.DoString(luaSource); err != nil {
		return nil, err
	}
	return L.GetGlobal(name), nil
}
