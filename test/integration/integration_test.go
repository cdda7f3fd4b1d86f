// Package integration drives the full lexer -> parser -> checker ->
// codegen pipeline on whole small programs, then round-trips the
// result through internal/verify's embedded Lua VM — the strongest
// assurance available short of a real interpreter on disk, and one
// the unit tests in internal/codegen do not attempt: they compare
// emitted text only.
package integration

import (
	"strings"
	"testing"

	"lunar/internal/codegen"
	"lunar/internal/lexer"
	"lunar/internal/parser"
	"lunar/internal/types"
	"lunar/internal/verify"
)

func compile(t *testing.T, source string) string {
	t.Helper()
	p := parser.New(lexer.New(source))
	statements := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	checker := types.NewChecker()
	checker.Check(statements)
	out, err := codegen.Generate(statements, checker)
	if err != nil {
		t.Fatalf("transpile failed: %v", err)
	}
	return out
}

func TestBasicTypesCompileLoadAndRun(t *testing.T) {
	out := compile(t, `
let count: number = 0;
let name: string = "lunar";
let active: boolean = true;
count = count + 1;
`)
	if err := verify.Run(out); err != nil {
		t.Fatalf("emitted Lua failed to run: %v\n--- lua ---\n%s", err, out)
	}
}

func TestClassHierarchyCompilesLoadsAndRuns(t *testing.T) {
	out := compile(t, `
class Animal {
	constructor(public name: string) {}
	speak(): string { return this.name; }
}
class Dog extends Animal {
	constructor(name: string) { super(name); }
}
let d = new Dog("Rex");
let said: string = d.speak();
`)
	if !strings.Contains(out, `Dog = Dog or Animal.new()`) {
		t.Errorf("missing reopen-guard against base class; lua:\n%s", out)
	}
	if !strings.Contains(out, "Dog.new(true, \"Rex\")") {
		t.Errorf("missing construct-flagged instantiation; lua:\n%s", out)
	}
	if err := verify.Run(out); err != nil {
		t.Fatalf("emitted Lua failed to run: %v\n--- lua ---\n%s", err, out)
	}
}

func TestArrayAndStringHelpersCompileLoadAndRun(t *testing.T) {
	out := compile(t, `
let xs: number[] = [1, 2, 3];
let doubled: number[] = xs.map(function(x: number): number { return x * 2; });
let total: number = 0;
doubled.forEach(function(x: number): void { total = total + x; });
let greeting: string = "hello";
let idx: number = greeting.indexOf("l");
`)
	if !strings.Contains(out, "TS_map(xs,") {
		t.Errorf("missing TS_map call; lua:\n%s", out)
	}
	if !strings.Contains(out, "TS_forEach(doubled,") {
		t.Errorf("missing TS_forEach call; lua:\n%s", out)
	}
	if !strings.Contains(out, `((string.find(greeting, "l", 1, true) or 0) - 1)`) {
		t.Errorf("missing indexOf rewrite; lua:\n%s", out)
	}
	if err := verify.Run(out); err != nil {
		t.Fatalf("emitted Lua failed to run: %v\n--- lua ---\n%s", err, out)
	}
}

func TestSwitchFallthroughCompilesLoadsAndRuns(t *testing.T) {
	out := compile(t, `
let k: number = 1;
let result: string = "";
switch (k) {
	case 1:
		result = "one";
		break;
	case 2:
		result = "two";
		break;
	default:
		result = "other";
}
`)
	if err := verify.Run(out); err != nil {
		t.Fatalf("emitted Lua failed to run: %v\n--- lua ---\n%s", err, out)
	}
}

func TestUnsupportedConstructRejectedBeforeEmission(t *testing.T) {
	p := parser.New(lexer.New(`while (true) { continue; }`))
	statements := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	checker := types.NewChecker()
	checker.Check(statements)
	_, err := codegen.Generate(statements, checker)
	if err == nil {
		t.Fatal("expected continue to be rejected")
	}
	terr, ok := err.(*codegen.TranspileError)
	if !ok {
		t.Fatalf("expected *codegen.TranspileError, got %T", err)
	}
	if terr.Reason != codegen.UnsupportedSyntax {
		t.Errorf("got reason %q, want %q", terr.Reason, codegen.UnsupportedSyntax)
	}
}
