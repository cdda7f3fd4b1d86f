package codegen

import "lunar/internal/ast"

// forLoopPlan is the numeric for-loop shape the analyzer extracts from
// a three-clause ForStatement: start, end, and step expressions ready
// to drop directly into Lua's `for i=start,end,step do`.
type forLoopPlan struct {
	varName string
	start   string
	end     string
	step    string
}

// analyzeForLoop recognizes the restricted `for (let i = start; i OP
// bound; i++/i--/i+=n/i-=n)` shape and turns it into Lua's inclusive
// numeric for bounds, adjusting strict comparison operators by one so
// the loop still runs the same number of iterations. Any other
// three-clause shape — a different loop variable in the condition or
// update, a non-declarator init, anything else — is rejected rather
// than approximated.
func analyzeForLoop(s *EmitterState, node *ast.ForStatement) (*forLoopPlan, error) {
	decl, ok := node.Init.(*ast.VariableDeclaration)
	if !ok || len(decl.Declarators) != 1 || decl.Declarators[0].Name == nil {
		return nil, newError(UnsupportedForShape, 0, 0, "for-loop init must be a single variable declarator")
	}
	varName := decl.Declarators[0].Name.Value
	if decl.Declarators[0].Value == nil {
		return nil, newError(UnsupportedForShape, 0, 0, "for-loop init must have a starting value")
	}
	startStr, err := emitExpression(s, decl.Declarators[0].Value)
	if err != nil {
		return nil, err
	}

	cond, ok := node.Cond.(*ast.BinaryExpression)
	if !ok {
		return nil, newError(UnsupportedForShape, 0, 0, "for-loop condition must compare the loop variable against a bound")
	}
	condVar, ok := cond.Left.(*ast.Identifier)
	if !ok || condVar.Value != varName {
		return nil, newError(UnsupportedForShape, 0, 0, "for-loop condition must test the loop variable on its left side")
	}
	boundStr, err := emitExpression(s, cond.Right)
	if err != nil {
		return nil, err
	}

	stepStr, err := analyzeForStep(s, node.Post, varName)
	if err != nil {
		return nil, err
	}

	var endStr string
	switch cond.Operator {
	case "<":
		endStr = boundStr + "-1"
	case ">":
		endStr = boundStr + "+1"
	case "<=", ">=":
		endStr = boundStr
	default:
		return nil, newError(UnsupportedForShape, 0, 0, "unsupported for-loop comparison operator %q", cond.Operator)
	}

	return &forLoopPlan{varName: varName, start: startStr, end: endStr, step: stepStr}, nil
}

func analyzeForStep(s *EmitterState, post ast.Statement, varName string) (string, error) {
	exprStmt, ok := post.(*ast.ExpressionStatement)
	if ok {
		update, ok := exprStmt.Expression.(*ast.UpdateExpression)
		if !ok {
			return "", newError(UnsupportedForShape, 0, 0, "unsupported for-loop update expression")
		}
		arg, ok := update.Argument.(*ast.Identifier)
		if !ok || arg.Value != varName {
			return "", newError(UnsupportedForShape, 0, 0, "for-loop update must target the loop variable")
		}
		if update.Operator == "++" {
			return "1", nil
		}
		return "-1", nil
	}

	compound, ok := post.(*ast.CompoundAssignmentStatement)
	if !ok {
		return "", newError(UnsupportedForShape, 0, 0, "unsupported for-loop update clause")
	}
	ident, ok := compound.Name.(*ast.Identifier)
	if !ok || ident.Value != varName {
		return "", newError(UnsupportedForShape, 0, 0, "for-loop update must target the loop variable")
	}
	valStr, err := emitExpression(s, compound.Value)
	if err != nil {
		return "", err
	}
	if compound.Operator == "+=" {
		return valStr, nil
	}
	return "-(" + valStr + ")", nil
}
