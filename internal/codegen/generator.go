// Package codegen lowers an SL AST into Lua 5.x source text.
//
// The architecture follows spec.md §4: a dispatcher (emitFile/emitNode)
// hands each statement or expression to one of a handful of emitter
// groups — statements, expressions, the class emitter, the for-loop
// analyzer — each of which may consult the type-aware rewriters for
// string/array method calls, or the TypeChecker oracle for capability
// queries (is this an enum, a pure-abstract class, an extension
// class...). Nothing here performs type inference itself; it only asks
// the oracle questions and rewrites accordingly.
package codegen

import (
	"lunar/internal/ast"
	"lunar/internal/types"
)

// Generate lowers a full program (its top-level statement list) to Lua
// source text, using checker to answer the capability queries the
// rewriters need. It returns the first TranspileError encountered;
// lowering stops at that point rather than continuing to emit invalid
// output past a rejected construct.
func Generate(statements []ast.Statement, checker types.TypeChecker) (string, error) {
	state := newState(checker)
	if err := emitFile(state, statements); err != nil {
		return "", err
	}
	return state.out.String(), nil
}

// emitFile is the top-level dispatch entry: each top-level statement is
// handed to emitNode in turn, separated by nothing extra — each
// statement emitter writes its own trailing newline.
func emitFile(s *EmitterState, statements []ast.Statement) error {
	for _, stmt := range statements {
		if err := emitNode(s, stmt); err != nil {
			return err
		}
	}
	return nil
}

// emitNode is the statement dispatcher spec.md §4 describes: a type
// switch over every statement kind the parser can produce, each
// delegating to its own emitter function so every statement kind's
// lowering logic lives in one well-named place.
func emitNode(s *EmitterState, stmt ast.Statement) error {
	if isAmbient(stmt) {
		return nil
	}
	switch node := stmt.(type) {
	case *ast.VariableDeclaration:
		return emitVariableDeclaration(s, node)
	case *ast.FunctionDeclaration:
		return emitFunctionDeclaration(s, node)
	case *ast.ClassDeclaration:
		return emitClassDeclaration(s, node)
	case *ast.EnumDeclaration:
		return emitEnumDeclaration(s, node)
	case *ast.InterfaceDeclaration, *ast.TypeAliasDeclaration:
		return nil // type-only, emits nothing
	case *ast.ExpressionStatement:
		return emitExpressionStatement(s, node)
	case *ast.ReturnStatement:
		return emitReturnStatement(s, node)
	case *ast.IfStatement:
		return emitIfStatement(s, node)
	case *ast.WhileStatement:
		return emitWhileStatement(s, node)
	case *ast.ForStatement:
		return emitForStatement(s, node)
	case *ast.ForOfStatement:
		return emitForOfStatement(s, node)
	case *ast.ForInStatement:
		return emitForInStatement(s, node)
	case *ast.SwitchStatement:
		return emitSwitchStatement(s, node)
	case *ast.BreakStatement:
		return emitBreakStatement(s, node)
	case *ast.ContinueStatement:
		return newError(UnsupportedSyntax, node.Token.Line, node.Token.Column, "continue is not supported")
	case *ast.BlockStatement:
		return emitBlock(s, node)
	case *ast.AssignmentStatement:
		return emitAssignmentStatement(s, node)
	case *ast.CompoundAssignmentStatement:
		return emitCompoundAssignmentStatement(s, node)
	case *ast.ImportStatement:
		return emitImportStatement(s, node)
	case *ast.ExportStatement:
		return emitNode(s, node.Statement)
	default:
		return newError(UnsupportedSyntax, 0, 0, "unhandled statement kind %T", stmt)
	}
}

// isAmbient reports whether a statement is declaration-only: a
// `declare function`/`declare class` introduces a type-level binding
// with no runtime body, so it emits nothing at all.
func isAmbient(stmt ast.Statement) bool {
	switch node := stmt.(type) {
	case *ast.FunctionDeclaration:
		return node.Declare
	case *ast.ClassDeclaration:
		return node.Declare
	default:
		return false
	}
}

// emitBlock emits every statement of a block at the current indent,
// without introducing a Lua do...end wrapper of its own — callers
// (if/while/for/function bodies) are responsible for that framing.
func emitBlock(s *EmitterState, block *ast.BlockStatement) error {
	for _, stmt := range block.Statements {
		if err := emitNode(s, stmt); err != nil {
			return err
		}
	}
	return nil
}
