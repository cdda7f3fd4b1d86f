package codegen_test

import (
	"strings"
	"testing"

	"lunar/internal/codegen"
	"lunar/internal/lexer"
	"lunar/internal/parser"
	"lunar/internal/types"
)

func generate(t *testing.T, src string) (string, error) {
	t.Helper()
	p := parser.New(lexer.New(src))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	checker := types.NewChecker()
	checker.Check(program)
	return codegen.Generate(program, checker)
}

func mustGenerate(t *testing.T, src string) string {
	t.Helper()
	out, err := generate(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return out
}

func TestLetBinaryExpression(t *testing.T) {
	out := mustGenerate(t, "let x = 1 + 2;")
	want := "local x = (1)+(2)\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestClassicForLoop(t *testing.T) {
	out := mustGenerate(t, "for (let i = 0; i < 10; i++) { print(i); }")
	want := "for i=0,10-1,1 do\n    print(i)\nend\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestSwitchFallthrough(t *testing.T) {
	out := mustGenerate(t, "switch (k) { case 1: a(); break; case 2: b(); default: c(); }")
	for _, want := range []string{
		"if (k)==(1) then",
		"::switchCase0::",
		"goto switchDone0",
		"elseif (k)==(2) then",
		"goto switchCase2",
		"else",
		"::switchCase2::",
		"::switchDone0::",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q; full output:\n%s", want, out)
		}
	}
}

func TestClassWithInheritance(t *testing.T) {
	src := `class C extends B {
		constructor(public x: number) { super(x); }
		m() { return this.x; }
	}`
	out := mustGenerate(t, src)
	for _, want := range []string{
		"C = C or B.new()",
		"C.__index = C",
		"C.__base = B",
		"function C.constructor(self,x)",
		"self.x = x",
		"self.__base.constructor(self,x)",
		"function C.m(self)",
		"return self.x",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q; full output:\n%s", want, out)
		}
	}
}

func TestArrayDestructuringWithRest(t *testing.T) {
	out := mustGenerate(t, "let [a, b, ...rest] = xs;")
	want := "local __destr0 = xs\nlocal a = __destr0[1]\nlocal b = __destr0[2]\nlocal rest = TS_slice(__destr0, 2)\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestTemplateLiteral(t *testing.T) {
	out := mustGenerate(t, "let s = `hi ${name}!`;")
	if !strings.Contains(out, `"hi ".. (name).."!"`) {
		t.Errorf("output missing template concatenation; full output:\n%s", out)
	}
}

func TestContinueIsRejected(t *testing.T) {
	_, err := generate(t, "while (true) { continue; }")
	if err == nil {
		t.Fatal("expected an error for continue")
	}
	terr, ok := err.(*codegen.TranspileError)
	if !ok {
		t.Fatalf("expected *codegen.TranspileError, got %T", err)
	}
	if terr.Reason != codegen.UnsupportedSyntax {
		t.Errorf("got reason %q, want %q", terr.Reason, codegen.UnsupportedSyntax)
	}
}

func TestStringMethodRewriting(t *testing.T) {
	src := `let greeting: string = "hi"; let idx = greeting.indexOf("i");`
	out := mustGenerate(t, src)
	if !strings.Contains(out, `((string.find(greeting, "i", 1, true) or 0) - 1)`) {
		t.Errorf("output missing indexOf rewrite; full output:\n%s", out)
	}
}

func TestStringIndexOfWithFromArgument(t *testing.T) {
	src := `let greeting: string = "hi"; let idx = greeting.indexOf("i", 2);`
	out := mustGenerate(t, src)
	if !strings.Contains(out, `((string.find(greeting, "i", (2)+1, true) or 0) - 1)`) {
		t.Errorf("output missing two-argument indexOf rewrite; full output:\n%s", out)
	}
}

func TestUnsupportedStringMethodRejected(t *testing.T) {
	src := `let greeting: string = "hi"; greeting.toUpperCase();`
	_, err := generate(t, src)
	if err == nil {
		t.Fatal("expected an error for an unknown string method")
	}
	terr, ok := err.(*codegen.TranspileError)
	if !ok {
		t.Fatalf("expected *codegen.TranspileError, got %T", err)
	}
	if terr.Reason != codegen.UnsupportedStringCall {
		t.Errorf("got reason %q, want %q", terr.Reason, codegen.UnsupportedStringCall)
	}
}

func TestUnsupportedArrayMethodRejected(t *testing.T) {
	src := `let xs: number[] = [1, 2]; xs.pop();`
	_, err := generate(t, src)
	if err == nil {
		t.Fatal("expected an error for an unknown array method")
	}
	terr, ok := err.(*codegen.TranspileError)
	if !ok {
		t.Fatalf("expected *codegen.TranspileError, got %T", err)
	}
	if terr.Reason != codegen.UnsupportedArrayCall {
		t.Errorf("got reason %q, want %q", terr.Reason, codegen.UnsupportedArrayCall)
	}
}

func TestNamedImportLowersToBareRequire(t *testing.T) {
	out := mustGenerate(t, `import { a, b } from "helpers";`)
	want := "require(\"helpers\")\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestWildcardImportBindsLocal(t *testing.T) {
	out := mustGenerate(t, `import * as helpers from "helpers";`)
	want := "local helpers = require(\"helpers\")\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestRenamedImportRejected(t *testing.T) {
	_, err := generate(t, `import { a as b } from "helpers";`)
	if err == nil {
		t.Fatal("expected an error for a renamed import")
	}
	terr, ok := err.(*codegen.TranspileError)
	if !ok {
		t.Fatalf("expected *codegen.TranspileError, got %T", err)
	}
	if terr.Reason != codegen.RenamedImport {
		t.Errorf("got reason %q, want %q", terr.Reason, codegen.RenamedImport)
	}
}

func TestIndexAccessOffsetsByReceiverType(t *testing.T) {
	out := mustGenerate(t, `let xs: number[] = [1, 2]; let v = xs[0];`)
	if !strings.Contains(out, "xs[(0)+1]") {
		t.Errorf("expected array index access to offset by one; full output:\n%s", out)
	}
}

func TestObjectIndexAccessHasNoOffset(t *testing.T) {
	out := mustGenerate(t, `let o: object = {}; let v = o["k"];`)
	if !strings.Contains(out, `o["k"]`) {
		t.Errorf("expected object index access to carry no offset; full output:\n%s", out)
	}
}

func TestDeclareFunctionEmitsNothing(t *testing.T) {
	out := mustGenerate(t, "declare function ambient(): void;\nlet x = 1;")
	want := "local x = 1\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestCompileMembersOnlyEnumInlinesValues(t *testing.T) {
	src := "@CompileMembersOnly enum Color { Red, Green, Blue = 5 }\nlet c = Color.Blue;"
	out := mustGenerate(t, src)
	if strings.Contains(out, "Color = Color or") {
		t.Errorf("compile-members-only enum should not declare a runtime table; full output:\n%s", out)
	}
	if !strings.Contains(out, "local c = 5") {
		t.Errorf("expected Color.Blue to inline to 5; full output:\n%s", out)
	}
}

func TestRuntimeEnumDeclaresTable(t *testing.T) {
	out := mustGenerate(t, "enum Direction { Up, Down }")
	if !strings.Contains(out, "Direction = Direction or {}") {
		t.Errorf("expected a runtime enum table; full output:\n%s", out)
	}
	if !strings.Contains(out, "Direction.Up = 0") || !strings.Contains(out, "Direction.Down = 1") {
		t.Errorf("expected auto-incremented members; full output:\n%s", out)
	}
}

func TestCompoundAssignment(t *testing.T) {
	out := mustGenerate(t, "total += 1;")
	want := "total = (total)+(1)\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestTernaryExpression(t *testing.T) {
	out := mustGenerate(t, "let x = a ? 1 : 2;")
	if !strings.Contains(out, "TS_ITE(a, function() return 1 end, function() return 2 end)") {
		t.Errorf("output missing ternary thunk; full output:\n%s", out)
	}
}
