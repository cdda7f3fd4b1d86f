package codegen

import (
	"fmt"

	"lunar/internal/ast"
)

// emitVariableDeclaration lowers every declarator in a `let`/`const`
// statement. Lua has no const, so both lower to `local`. A destructuring
// declarator spills a generated temporary plus one `local` per bound
// name, matching the one-line-per-binding shape the rest of this
// package's statement emitters use.
func emitVariableDeclaration(s *EmitterState, node *ast.VariableDeclaration) error {
	for _, decl := range node.Declarators {
		if decl.Pattern != nil {
			if err := emitDestructuringDeclarator(s, decl); err != nil {
				return err
			}
			continue
		}
		if decl.Value == nil {
			s.writeIndented("local %s\n", decl.Name.Value)
			continue
		}
		valueStr, err := emitExpression(s, decl.Value)
		if err != nil {
			return err
		}
		s.writeIndented("local %s = %s\n", decl.Name.Value, valueStr)
	}
	return nil
}

func emitDestructuringDeclarator(s *EmitterState, decl ast.Declarator) error {
	valueStr, err := emitExpression(s, decl.Value)
	if err != nil {
		return err
	}
	tempName := fmt.Sprintf("__destr%d", s.nextGenID())
	s.writeIndented("local %s = %s\n", tempName, valueStr)
	for i, elem := range decl.Pattern {
		if elem.Rest {
			s.writeIndented("local %s = TS_slice(%s, %d)\n", elem.Name.Value, tempName, i)
			continue
		}
		s.writeIndented("local %s = %s[%d]\n", elem.Name.Value, tempName, i+1)
	}
	return nil
}

func emitFunctionDeclaration(s *EmitterState, node *ast.FunctionDeclaration) error {
	params := paramNames(node.Parameters)
	s.writeIndented("function %s(%s)\n", node.Name.Value, joinNoSpace(params))
	s.indent++
	s.pushLoopBreak()
	if err := emitBlock(s, node.Body); err != nil {
		s.popBreakTarget()
		s.indent--
		return err
	}
	s.popBreakTarget()
	s.indent--
	s.writeIndented("end\n")
	return nil
}

func emitExpressionStatement(s *EmitterState, node *ast.ExpressionStatement) error {
	str, err := emitExpression(s, node.Expression)
	if err != nil {
		return err
	}
	s.writeIndented("%s\n", str)
	return nil
}

func emitReturnStatement(s *EmitterState, node *ast.ReturnStatement) error {
	if node.ReturnValue == nil {
		s.writeIndented("return\n")
		return nil
	}
	str, err := emitExpression(s, node.ReturnValue)
	if err != nil {
		return err
	}
	s.writeIndented("return %s\n", str)
	return nil
}

func emitIfStatement(s *EmitterState, node *ast.IfStatement) error {
	condStr, err := emitExpression(s, node.Condition)
	if err != nil {
		return err
	}
	s.writeIndented("if %s then\n", condStr)
	s.indent++
	if err := emitBlock(s, node.Consequence); err != nil {
		s.indent--
		return err
	}
	s.indent--
	if node.Alternative != nil {
		if elseIf, ok := singleIfStatement(node.Alternative); ok {
			s.writeIndented("else")
			return emitElseIf(s, elseIf)
		}
		s.writeIndented("else\n")
		s.indent++
		if err := emitBlock(s, node.Alternative); err != nil {
			s.indent--
			return err
		}
		s.indent--
	}
	s.writeIndented("end\n")
	return nil
}

// singleIfStatement recognizes the synthetic single-statement block the
// parser wraps an `else if` chain's nested IfStatement in.
func singleIfStatement(block *ast.BlockStatement) (*ast.IfStatement, bool) {
	if len(block.Statements) != 1 {
		return nil, false
	}
	ifStmt, ok := block.Statements[0].(*ast.IfStatement)
	return ifStmt, ok
}

// emitElseIf continues an `if`/`elseif` chain in place of emitting a
// nested `else if then ... end end`.
func emitElseIf(s *EmitterState, node *ast.IfStatement) error {
	condStr, err := emitExpression(s, node.Condition)
	if err != nil {
		return err
	}
	s.write("if %s then\n", condStr)
	s.indent++
	if err := emitBlock(s, node.Consequence); err != nil {
		s.indent--
		return err
	}
	s.indent--
	if node.Alternative != nil {
		if elseIf, ok := singleIfStatement(node.Alternative); ok {
			s.writeIndented("else")
			return emitElseIf(s, elseIf)
		}
		s.writeIndented("else\n")
		s.indent++
		if err := emitBlock(s, node.Alternative); err != nil {
			s.indent--
			return err
		}
		s.indent--
	}
	s.writeIndented("end\n")
	return nil
}

func emitWhileStatement(s *EmitterState, node *ast.WhileStatement) error {
	condStr, err := emitExpression(s, node.Condition)
	if err != nil {
		return err
	}
	s.writeIndented("while %s do\n", condStr)
	s.indent++
	s.pushLoopBreak()
	if err := emitBlock(s, node.Body); err != nil {
		s.popBreakTarget()
		s.indent--
		return err
	}
	s.popBreakTarget()
	s.indent--
	s.writeIndented("end\n")
	return nil
}

func emitForStatement(s *EmitterState, node *ast.ForStatement) error {
	plan, err := analyzeForLoop(s, node)
	if err != nil {
		return err
	}
	s.writeIndented("for %s=%s,%s,%s do\n", plan.varName, plan.start, plan.end, plan.step)
	s.indent++
	s.pushLoopBreak()
	if err := emitBlock(s, node.Body); err != nil {
		s.popBreakTarget()
		s.indent--
		return err
	}
	s.popBreakTarget()
	s.indent--
	s.writeIndented("end\n")
	return nil
}

func emitForOfStatement(s *EmitterState, node *ast.ForOfStatement) error {
	iterStr, err := emitExpression(s, node.Iterable)
	if err != nil {
		return err
	}
	s.writeIndented("for _, %s in ipairs(%s) do\n", node.VarName.Value, iterStr)
	s.indent++
	s.pushLoopBreak()
	if err := emitBlock(s, node.Body); err != nil {
		s.popBreakTarget()
		s.indent--
		return err
	}
	s.popBreakTarget()
	s.indent--
	s.writeIndented("end\n")
	return nil
}

func emitForInStatement(s *EmitterState, node *ast.ForInStatement) error {
	iterStr, err := emitExpression(s, node.Iterable)
	if err != nil {
		return err
	}
	s.writeIndented("for %s, _ in pairs(%s) do\n", node.VarName.Value, iterStr)
	s.indent++
	s.pushLoopBreak()
	if err := emitBlock(s, node.Body); err != nil {
		s.popBreakTarget()
		s.indent--
		return err
	}
	s.popBreakTarget()
	s.indent--
	s.writeIndented("end\n")
	return nil
}

// emitSwitchStatement lowers a switch to an if/elseif dispatch chain
// of gotos plus a sequence of labeled clause bodies. Each clause gets
// its own label; a clause without
// a break falls into the next clause's label with an explicit goto
// rather than relying on the labels' sequential layout, since a
// fallthrough clause's statements may declare locals that would
// otherwise be in scope for a bare sequential jump. With no default
// clause, a value that matches no case jumps straight to the exit label.
//
// Label numbers come from the file-wide counter: a switch reserves one
// number per clause (switchCase<N+i>, exit label switchDone<N>), so
// labels stay unique across sequential and nested switches.
func emitSwitchStatement(s *EmitterState, node *ast.SwitchStatement) error {
	base := s.genCounter
	s.genCounter += max(len(node.Clauses), 1)
	doneLabel := fmt.Sprintf("switchDone%d", base)
	discStr, err := emitExpression(s, node.Discriminant)
	if err != nil {
		return err
	}

	defaultIdx := -1
	wroteFirstTest := false
	for i, clause := range node.Clauses {
		label := fmt.Sprintf("switchCase%d", base+i)
		if clause.IsDefault {
			defaultIdx = i
			continue
		}
		testStr, err := emitExpression(s, clause.Test)
		if err != nil {
			return err
		}
		if !wroteFirstTest {
			s.writeIndented("if (%s)==(%s) then\n", discStr, testStr)
			wroteFirstTest = true
		} else {
			s.writeIndented("elseif (%s)==(%s) then\n", discStr, testStr)
		}
		s.indent++
		s.writeIndented("goto %s\n", label)
		s.indent--
	}
	if defaultIdx >= 0 {
		label := fmt.Sprintf("switchCase%d", base+defaultIdx)
		if wroteFirstTest {
			s.writeIndented("else\n")
			s.indent++
			s.writeIndented("goto %s\n", label)
			s.indent--
		} else {
			s.writeIndented("goto %s\n", label)
		}
	}
	if wroteFirstTest {
		s.writeIndented("end\n")
	}
	if defaultIdx < 0 {
		s.writeIndented("goto %s\n", doneLabel)
	}

	s.pushSwitchBreak(doneLabel)
	for i, clause := range node.Clauses {
		label := fmt.Sprintf("switchCase%d", base+i)
		s.writeIndented("::%s::\n", label)
		for _, stmt := range clause.Body {
			if err := emitNode(s, stmt); err != nil {
				s.popBreakTarget()
				return err
			}
		}
		if i < len(node.Clauses)-1 && !endsInBreak(clause.Body) {
			s.writeIndented("goto switchCase%d\n", base+i+1)
		}
	}
	s.popBreakTarget()
	s.writeIndented("::%s::\n", doneLabel)
	return nil
}

func emitBreakStatement(s *EmitterState, node *ast.BreakStatement) error {
	if target := s.currentBreakTarget(); target != "" {
		s.writeIndented("goto %s\n", target)
		return nil
	}
	s.writeIndented("break\n")
	return nil
}

func emitAssignmentStatement(s *EmitterState, node *ast.AssignmentStatement) error {
	nameStr, err := emitExpression(s, node.Name)
	if err != nil {
		return err
	}
	valueStr, err := emitExpression(s, node.Value)
	if err != nil {
		return err
	}
	s.writeIndented("%s = %s\n", nameStr, valueStr)
	return nil
}

// emitCompoundAssignmentStatement lowers `+=`/`-=` by duplicating the
// assignment target on both sides, e.g. `total = (total)+(1)`. This
// re-evaluates the target expression twice; accepted for identifier
// and simple member targets, where that has no observable side effect.
func emitCompoundAssignmentStatement(s *EmitterState, node *ast.CompoundAssignmentStatement) error {
	nameStr, err := emitExpression(s, node.Name)
	if err != nil {
		return err
	}
	valueStr, err := emitExpression(s, node.Value)
	if err != nil {
		return err
	}
	op := "+"
	if node.Operator == "-=" {
		op = "-"
	}
	s.writeIndented("%s = (%s)%s(%s)\n", nameStr, nameStr, op, valueStr)
	return nil
}

// emitImportStatement lowers an import to a `require` call. Renamed
// named imports (`{ a as b }`) are rejected outright — expressing that
// rename would mean tracking an identifier alias throughout the rest
// of the file, which this emitter does not do. A named import with no
// rename lowers to a bare `require("m")` with no local bindings: the
// imported names are expected to already be globals the module itself
// exports, not a Lua table this emitter destructures.
func emitImportStatement(s *EmitterState, node *ast.ImportStatement) error {
	if node.IsWildcard {
		s.writeIndented("local %s = require(%s)\n", node.Alias.Value, quoteLuaString(node.Module))
		return nil
	}
	for _, spec := range node.Names {
		if spec.Renamed != nil {
			return newError(RenamedImport, node.Token.Line, node.Token.Column, "renamed import %q is not supported", spec.Name.Value)
		}
	}
	s.writeIndented("require(%s)\n", quoteLuaString(node.Module))
	return nil
}

func endsInBreak(body []ast.Statement) bool {
	if len(body) == 0 {
		return false
	}
	_, ok := body[len(body)-1].(*ast.BreakStatement)
	return ok
}

func paramNames(params []*ast.Parameter) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name.Value
	}
	return names
}

func joinNoSpace(items []string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += ","
		}
		out += item
	}
	return out
}
