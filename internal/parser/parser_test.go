package parser

import (
	"lunar/internal/ast"
	"lunar/internal/lexer"
	"testing"
)

func parseProgram(t *testing.T, input string) []ast.Statement {
	t.Helper()
	l := lexer.New(input)
	p := New(l)
	stmts := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("parser errors for %q: %v", input, p.Errors())
	}
	return stmts
}

func TestVariableDeclaration(t *testing.T) {
	stmts := parseProgram(t, "let x = 1 + 2;")
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	decl, ok := stmts[0].(*ast.VariableDeclaration)
	if !ok {
		t.Fatalf("expected *ast.VariableDeclaration, got %T", stmts[0])
	}
	if len(decl.Declarators) != 1 {
		t.Fatalf("expected 1 declarator, got %d", len(decl.Declarators))
	}
	d := decl.Declarators[0]
	if d.Name == nil || d.Name.Value != "x" {
		t.Fatalf("expected declarator name x, got %+v", d.Name)
	}
	bin, ok := d.Value.(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("expected binary expression value, got %T", d.Value)
	}
	if bin.Operator != "+" {
		t.Fatalf("expected '+' operator, got %q", bin.Operator)
	}
}

func TestDestructuringDeclaration(t *testing.T) {
	stmts := parseProgram(t, "let [a, b, ...rest] = xs;")
	decl := stmts[0].(*ast.VariableDeclaration)
	d := decl.Declarators[0]
	if d.Pattern == nil {
		t.Fatalf("expected a destructuring pattern")
	}
	if len(d.Pattern) != 3 {
		t.Fatalf("expected 3 pattern elements, got %d", len(d.Pattern))
	}
	if d.Pattern[0].Name.Value != "a" || d.Pattern[1].Name.Value != "b" {
		t.Fatalf("unexpected pattern names: %+v", d.Pattern)
	}
	if !d.Pattern[2].Rest || d.Pattern[2].Name.Value != "rest" {
		t.Fatalf("expected rest element named rest, got %+v", d.Pattern[2])
	}
}

func TestForClassicLoop(t *testing.T) {
	stmts := parseProgram(t, "for (let i = 0; i < 10; i++) { print(i); }")
	stmt, ok := stmts[0].(*ast.ForStatement)
	if !ok {
		t.Fatalf("expected *ast.ForStatement, got %T", stmts[0])
	}
	if _, ok := stmt.Init.(*ast.VariableDeclaration); !ok {
		t.Fatalf("expected init to be a variable declaration, got %T", stmt.Init)
	}
	if _, ok := stmt.Cond.(*ast.BinaryExpression); !ok {
		t.Fatalf("expected condition to be a binary expression, got %T", stmt.Cond)
	}
	exprStmt, ok := stmt.Post.(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected post to be an expression statement, got %T", stmt.Post)
	}
	if _, ok := exprStmt.Expression.(*ast.UpdateExpression); !ok {
		t.Fatalf("expected post expression to be an update expression, got %T", exprStmt.Expression)
	}
	if len(stmt.Body.Statements) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(stmt.Body.Statements))
	}
}

func TestForOfLoop(t *testing.T) {
	stmts := parseProgram(t, "for (let x of xs) { print(x); }")
	stmt, ok := stmts[0].(*ast.ForOfStatement)
	if !ok {
		t.Fatalf("expected *ast.ForOfStatement, got %T", stmts[0])
	}
	if stmt.VarName.Value != "x" {
		t.Fatalf("expected loop var x, got %q", stmt.VarName.Value)
	}
	if ident, ok := stmt.Iterable.(*ast.Identifier); !ok || ident.Value != "xs" {
		t.Fatalf("expected iterable identifier xs, got %+v", stmt.Iterable)
	}
}

func TestForInLoop(t *testing.T) {
	stmts := parseProgram(t, "for (let k in obj) { print(k); }")
	stmt, ok := stmts[0].(*ast.ForInStatement)
	if !ok {
		t.Fatalf("expected *ast.ForInStatement, got %T", stmts[0])
	}
	if stmt.VarName.Value != "k" {
		t.Fatalf("expected loop var k, got %q", stmt.VarName.Value)
	}
}

func TestSwitchStatement(t *testing.T) {
	stmts := parseProgram(t, `switch (k) {
		case 1: a(); break;
		case 2: b();
		default: c();
	}`)
	stmt, ok := stmts[0].(*ast.SwitchStatement)
	if !ok {
		t.Fatalf("expected *ast.SwitchStatement, got %T", stmts[0])
	}
	if len(stmt.Clauses) != 3 {
		t.Fatalf("expected 3 clauses, got %d", len(stmt.Clauses))
	}
	if stmt.Clauses[0].IsDefault {
		t.Fatalf("first clause should not be default")
	}
	if !stmt.Clauses[2].IsDefault {
		t.Fatalf("third clause should be default")
	}
	var sawBreak bool
	for _, s := range stmt.Clauses[0].Body {
		if _, ok := s.(*ast.BreakStatement); ok {
			sawBreak = true
		}
	}
	if !sawBreak {
		t.Fatalf("expected break statement in first clause body")
	}
}

func TestClassDeclaration(t *testing.T) {
	stmts := parseProgram(t, `class C extends B {
		constructor(public x: number) {
			super(x);
		}
		m() {
			return this.x;
		}
	}`)
	cd, ok := stmts[0].(*ast.ClassDeclaration)
	if !ok {
		t.Fatalf("expected *ast.ClassDeclaration, got %T", stmts[0])
	}
	if cd.Name.Value != "C" {
		t.Fatalf("expected class name C, got %q", cd.Name.Value)
	}
	if cd.SuperClass == nil || cd.SuperClass.Value != "B" {
		t.Fatalf("expected superclass B, got %+v", cd.SuperClass)
	}
	if cd.Constructor == nil {
		t.Fatalf("expected a constructor")
	}
	if len(cd.Constructor.Parameters) != 1 || cd.Constructor.Parameters[0].Modifier != "public" {
		t.Fatalf("expected one public constructor param, got %+v", cd.Constructor.Parameters)
	}
	if len(cd.Methods) != 1 || cd.Methods[0].Name.Value != "m" {
		t.Fatalf("expected method m, got %+v", cd.Methods)
	}
}

func TestClassDecorators(t *testing.T) {
	stmts := parseProgram(t, `@PureAbstract
	class Shape {
		area() { return 0; }
	}`)
	cd, ok := stmts[0].(*ast.ClassDeclaration)
	if !ok {
		t.Fatalf("expected *ast.ClassDeclaration, got %T", stmts[0])
	}
	if !cd.HasDecorator("PureAbstract") {
		t.Fatalf("expected PureAbstract decorator, got %v", cd.Decorators)
	}
}

func TestEnumDeclaration(t *testing.T) {
	stmts := parseProgram(t, `enum Color { Red, Green, Blue = 5 }`)
	ed, ok := stmts[0].(*ast.EnumDeclaration)
	if !ok {
		t.Fatalf("expected *ast.EnumDeclaration, got %T", stmts[0])
	}
	if len(ed.Members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(ed.Members))
	}
	if ed.Members[0].Value != nil {
		t.Fatalf("expected Red to auto-increment with nil value")
	}
	lit, ok := ed.Members[2].Value.(*ast.NumberLiteral)
	if !ok || lit.Value != 5 {
		t.Fatalf("expected Blue = 5, got %+v", ed.Members[2].Value)
	}
}

func TestTemplateLiteral(t *testing.T) {
	stmts := parseProgram(t, "let greeting = `hi ${name}!`;")
	decl := stmts[0].(*ast.VariableDeclaration)
	tpl, ok := decl.Declarators[0].Value.(*ast.TemplateExpression)
	if !ok {
		t.Fatalf("expected *ast.TemplateExpression, got %T", decl.Declarators[0].Value)
	}
	if len(tpl.Quasis) != 2 || tpl.Quasis[0] != "hi " || tpl.Quasis[1] != "!" {
		t.Fatalf("unexpected quasis: %#v", tpl.Quasis)
	}
	if len(tpl.Expressions) != 1 {
		t.Fatalf("expected 1 interpolated expression, got %d", len(tpl.Expressions))
	}
	ident, ok := tpl.Expressions[0].(*ast.Identifier)
	if !ok || ident.Value != "name" {
		t.Fatalf("expected interpolated identifier name, got %+v", tpl.Expressions[0])
	}
}

func TestTernaryExpression(t *testing.T) {
	stmts := parseProgram(t, "let x = a ? b : c;")
	decl := stmts[0].(*ast.VariableDeclaration)
	cond, ok := decl.Declarators[0].Value.(*ast.ConditionalExpression)
	if !ok {
		t.Fatalf("expected *ast.ConditionalExpression, got %T", decl.Declarators[0].Value)
	}
	if _, ok := cond.Condition.(*ast.Identifier); !ok {
		t.Fatalf("expected identifier condition, got %T", cond.Condition)
	}
}

func TestArrowFunction(t *testing.T) {
	stmts := parseProgram(t, "let f = (x) => x + 1;")
	decl := stmts[0].(*ast.VariableDeclaration)
	fn, ok := decl.Declarators[0].Value.(*ast.FunctionExpression)
	if !ok || !fn.IsArrow {
		t.Fatalf("expected an arrow function, got %T", decl.Declarators[0].Value)
	}
	if len(fn.Parameters) != 1 || fn.Parameters[0].Name.Value != "x" {
		t.Fatalf("expected single param x, got %+v", fn.Parameters)
	}
	if fn.ConciseBody == nil {
		t.Fatalf("expected a concise body")
	}
}

func TestNewExpression(t *testing.T) {
	stmts := parseProgram(t, "let p = new Point(1, 2);")
	decl := stmts[0].(*ast.VariableDeclaration)
	ne, ok := decl.Declarators[0].Value.(*ast.NewExpression)
	if !ok {
		t.Fatalf("expected *ast.NewExpression, got %T", decl.Declarators[0].Value)
	}
	if ident, ok := ne.Callee.(*ast.Identifier); !ok || ident.Value != "Point" {
		t.Fatalf("expected callee Point, got %+v", ne.Callee)
	}
	if len(ne.Arguments) != 2 {
		t.Fatalf("expected 2 arguments, got %d", len(ne.Arguments))
	}
}

func TestImportAndExport(t *testing.T) {
	stmts := parseProgram(t, `import { foo, bar as baz } from "./mod";
	export class Widget {}`)
	imp, ok := stmts[0].(*ast.ImportStatement)
	if !ok {
		t.Fatalf("expected *ast.ImportStatement, got %T", stmts[0])
	}
	if imp.Module != "./mod" {
		t.Fatalf("expected module ./mod, got %q", imp.Module)
	}
	if len(imp.Names) != 2 || imp.Names[1].Renamed == nil || imp.Names[1].Renamed.Value != "baz" {
		t.Fatalf("unexpected import names: %+v", imp.Names)
	}

	exp, ok := stmts[1].(*ast.ExportStatement)
	if !ok {
		t.Fatalf("expected *ast.ExportStatement, got %T", stmts[1])
	}
	if _, ok := exp.Statement.(*ast.ClassDeclaration); !ok {
		t.Fatalf("expected exported class declaration, got %T", exp.Statement)
	}
}

func TestCompoundAssignment(t *testing.T) {
	stmts := parseProgram(t, "total += 1;")
	stmt, ok := stmts[0].(*ast.CompoundAssignmentStatement)
	if !ok {
		t.Fatalf("expected *ast.CompoundAssignmentStatement, got %T", stmts[0])
	}
	if stmt.Operator != "+=" {
		t.Fatalf("expected += operator, got %q", stmt.Operator)
	}
}

func TestArrayTypeAnnotationSynthesizesBracketSuffix(t *testing.T) {
	stmts := parseProgram(t, "function sum(xs: number[]): number { return 0; }")
	fn, ok := stmts[0].(*ast.FunctionDeclaration)
	if !ok {
		t.Fatalf("expected *ast.FunctionDeclaration, got %T", stmts[0])
	}
	if len(fn.Parameters) != 1 {
		t.Fatalf("expected 1 parameter, got %d", len(fn.Parameters))
	}
	annotation, ok := fn.Parameters[0].Type.(*ast.Identifier)
	if !ok || annotation.Value != "number[]" {
		t.Fatalf("expected synthesized number[] annotation, got %+v", fn.Parameters[0].Type)
	}
}

func TestContinueParsesAsStatement(t *testing.T) {
	// continue is a parse-level no-op; the code generator is responsible
	// for rejecting it (spec.md's UnsupportedSyntax case), not the parser.
	stmts := parseProgram(t, "while (true) { continue; }")
	stmt := stmts[0].(*ast.WhileStatement)
	if _, ok := stmt.Body.Statements[0].(*ast.ContinueStatement); !ok {
		t.Fatalf("expected continue statement, got %T", stmt.Body.Statements[0])
	}
}
