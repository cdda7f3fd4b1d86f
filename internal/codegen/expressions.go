package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"lunar/internal/ast"
	"lunar/internal/types"
)

// luaBinaryOps maps operators with a different spelling in Lua. Anything
// absent from this table is emitted verbatim.
var luaBinaryOps = map[string]string{
	"===": "==",
	"!==": "~=",
	"!=":  "~=",
	"&&":  "and",
	"||":  "or",
}

// emitExpression lowers a single expression to its Lua source text.
// Every expression kind the parser can produce is handled by exactly
// one case; the type checker is consulted only where the lowering
// depends on a capability (is this a string, an array, a class
// instance, an enum) rather than on syntax alone.
func emitExpression(s *EmitterState, expr ast.Expression) (string, error) {
	switch node := expr.(type) {
	case *ast.Identifier:
		return node.Value, nil
	case *ast.NumberLiteral:
		return formatLuaNumber(node.Value), nil
	case *ast.StringLiteral:
		return quoteLuaString(node.Value), nil
	case *ast.BooleanLiteral:
		if node.Value {
			return "true", nil
		}
		return "false", nil
	case *ast.NullLiteral:
		return "nil", nil
	case *ast.ThisExpression:
		return "self", nil
	case *ast.SuperExpression:
		return "self.__base", nil
	case *ast.TemplateExpression:
		return emitTemplateExpression(s, node)
	case *ast.BinaryExpression:
		return emitBinaryExpression(s, node)
	case *ast.UnaryExpression:
		return emitUnaryExpression(s, node)
	case *ast.UpdateExpression:
		return "", newError(UnsupportedSyntax, 0, 0, "++/-- is only supported as a loop update clause, not as a general expression")
	case *ast.ConditionalExpression:
		return emitConditionalExpression(s, node)
	case *ast.CallExpression:
		return emitCallExpression(s, node)
	case *ast.NewExpression:
		return emitNewExpression(s, node)
	case *ast.DotExpression:
		return emitDotExpression(s, node)
	case *ast.IndexExpression:
		return emitIndexExpression(s, node)
	case *ast.ArrayLiteral:
		return emitArrayLiteral(s, node)
	case *ast.ObjectLiteral:
		return emitObjectLiteral(s, node)
	case *ast.FunctionExpression:
		return emitFunctionExpression(s, node)
	case *ast.TypeAssertionExpression:
		return emitExpression(s, node.Expression)
	case *ast.AsExpression:
		return emitExpression(s, node.Expression)
	case *ast.ParenthesizedExpression:
		inner, err := emitExpression(s, node.Expression)
		if err != nil {
			return "", err
		}
		return "(" + inner + ")", nil
	default:
		return "", newError(UnsupportedSyntax, 0, 0, "unhandled expression kind %T", expr)
	}
}

func formatLuaNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func quoteLuaString(value string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range value {
		switch r {
		case '"':
			b.WriteString("\\\"")
		case '\\':
			b.WriteString("\\\\")
		case '\n':
			b.WriteString("\\n")
		case '\t':
			b.WriteString("\\t")
		case '\r':
			b.WriteString("\\r")
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// emitTemplateExpression concatenates quasis and interpolated
// expressions with Lua's `..` operator: quasis[0] .. (expr0) ..
// quasis[1] .. (expr1) .. ... .. quasis[n].
func emitTemplateExpression(s *EmitterState, node *ast.TemplateExpression) (string, error) {
	var b strings.Builder
	b.WriteString(quoteLuaString(node.Quasis[0]))
	for i, e := range node.Expressions {
		exprStr, err := emitExpression(s, e)
		if err != nil {
			return "", err
		}
		b.WriteString(".. (")
		b.WriteString(exprStr)
		b.WriteString(")..")
		b.WriteString(quoteLuaString(node.Quasis[i+1]))
	}
	return b.String(), nil
}

func emitBinaryExpression(s *EmitterState, node *ast.BinaryExpression) (string, error) {
	left, err := emitExpression(s, node.Left)
	if err != nil {
		return "", err
	}
	right, err := emitExpression(s, node.Right)
	if err != nil {
		return "", err
	}

	switch node.Operator {
	case "??":
		return fmt.Sprintf("((%s) ~= nil and (%s) or (%s))", left, left, right), nil
	case "&":
		return fmt.Sprintf("bit.band(%s, %s)", left, right), nil
	case "|":
		return fmt.Sprintf("bit.bor(%s, %s)", left, right), nil
	case "+":
		leftType := s.checker.TypeOf(node.Left)
		rightType := s.checker.TypeOf(node.Right)
		if (leftType != nil && leftType.IsString()) || (rightType != nil && rightType.IsString()) {
			return fmt.Sprintf("(%s)..(%s)", left, right), nil
		}
		return fmt.Sprintf("(%s)+(%s)", left, right), nil
	}

	op, ok := luaBinaryOps[node.Operator]
	if !ok {
		op = node.Operator
	}
	return fmt.Sprintf("(%s)%s(%s)", left, op, right), nil
}

func emitUnaryExpression(s *EmitterState, node *ast.UnaryExpression) (string, error) {
	arg, err := emitExpression(s, node.Right)
	if err != nil {
		return "", err
	}
	switch node.Operator {
	case "!":
		return fmt.Sprintf("not (%s)", arg), nil
	case "-":
		return fmt.Sprintf("-(%s)", arg), nil
	case "+":
		return fmt.Sprintf("(%s)", arg), nil
	default:
		return "", newError(UnsupportedSyntax, 0, 0, "unsupported unary operator %q", node.Operator)
	}
}

func emitConditionalExpression(s *EmitterState, node *ast.ConditionalExpression) (string, error) {
	cond, err := emitExpression(s, node.Condition)
	if err != nil {
		return "", err
	}
	conseq, err := emitExpression(s, node.Consequent)
	if err != nil {
		return "", err
	}
	alt, err := emitExpression(s, node.Alternate)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("TS_ITE(%s, function() return %s end, function() return %s end)", cond, conseq, alt), nil
}

func emitArgumentList(s *EmitterState, args []ast.Expression) ([]string, error) {
	out := make([]string, len(args))
	for i, a := range args {
		str, err := emitExpression(s, a)
		if err != nil {
			return nil, err
		}
		out[i] = str
	}
	return out, nil
}

func emitCallExpression(s *EmitterState, node *ast.CallExpression) (string, error) {
	argStrs, err := emitArgumentList(s, node.Arguments)
	if err != nil {
		return "", err
	}
	args := strings.Join(argStrs, ", ")

	if _, ok := node.Function.(*ast.SuperExpression); ok {
		prefix := "self.__base.constructor(self"
		if len(argStrs) > 0 {
			prefix += "," + strings.Join(argStrs, ",")
		}
		return prefix + ")", nil
	}

	dot, ok := node.Function.(*ast.DotExpression)
	if !ok {
		callee, err := emitExpression(s, node.Function)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s(%s)", callee, args), nil
	}

	objStr, err := emitExpression(s, dot.Left)
	if err != nil {
		return "", err
	}
	method := dot.Right.Value
	leftType := s.checker.TypeOf(dot.Left)

	if leftType != nil && leftType.IsString() {
		if rewritten, ok := rewriteStringCall(method, objStr, argStrs); ok {
			return rewritten, nil
		}
		return "", newError(UnsupportedStringCall, 0, 0, "unsupported string method %q", method)
	}
	if leftType != nil && leftType.IsArray() {
		if rewritten, ok := rewriteArrayCall(method, objStr, argStrs); ok {
			return rewritten, nil
		}
		return "", newError(UnsupportedArrayCall, 0, 0, "unsupported array method %q", method)
	}
	if _, ok := leftType.(*types.ClassType); ok {
		prefix := objStr + "." + method + "(" + objStr
		if len(argStrs) > 0 {
			prefix += ", " + args
		}
		return prefix + ")", nil
	}

	return fmt.Sprintf("%s.%s(%s)", objStr, method, args), nil
}

// emitNewExpression lowers `new C(args)` to `C.new(true, args)` — the
// leading `true` is the `construct` flag `C.new` checks before calling
// the constructor, distinguishing an actual instantiation from the
// unconstructed base instance a subclass creates for its prototype.
func emitNewExpression(s *EmitterState, node *ast.NewExpression) (string, error) {
	callee, err := emitExpression(s, node.Callee)
	if err != nil {
		return "", err
	}
	argStrs, err := emitArgumentList(s, node.Arguments)
	if err != nil {
		return "", err
	}
	parts := append([]string{"true"}, argStrs...)
	return fmt.Sprintf("%s.new(%s)", callee, strings.Join(parts, ", ")), nil
}

func emitDotExpression(s *EmitterState, node *ast.DotExpression) (string, error) {
	leftType := s.checker.TypeOf(node.Left)
	objStr, err := emitExpression(s, node.Left)
	if err != nil {
		return "", err
	}
	prop := node.Right.Value

	if enumType, ok := leftType.(*types.EnumType); ok && enumType.IsCompileMembersOnlyEnum() {
		memberType := s.checker.TypeOf(node)
		switch lit := memberType.(type) {
		case *types.NumberLiteralType:
			return formatLuaNumber(lit.Value), nil
		case *types.StringLiteralType:
			return quoteLuaString(lit.Value), nil
		}
	}

	if leftType != nil && leftType.IsString() {
		if rewritten, ok := rewriteStringProperty(prop, objStr); ok {
			return rewritten, nil
		}
	}
	if leftType != nil && leftType.IsArray() {
		if rewritten, ok := rewriteArrayProperty(prop, objStr); ok {
			return rewritten, nil
		}
	}

	return fmt.Sprintf("%s.%s", objStr, prop), nil
}

// emitIndexExpression lowers element access. Arrays and tuples are
// 1-indexed in Lua, so the index is offset by +1; strings have no
// native indexing and go through string.sub instead; anything else
// (object/dict access) carries its own keys through unchanged.
func emitIndexExpression(s *EmitterState, node *ast.IndexExpression) (string, error) {
	objStr, err := emitExpression(s, node.Left)
	if err != nil {
		return "", err
	}
	idxStr, err := emitExpression(s, node.Index)
	if err != nil {
		return "", err
	}
	leftType := s.checker.TypeOf(node.Left)

	if leftType != nil && leftType.IsString() {
		return fmt.Sprintf("string.sub(%s, (%s)+1, (%s)+1)", objStr, idxStr, idxStr), nil
	}
	if leftType != nil && (leftType.IsArray() || leftType.IsTuple()) {
		return fmt.Sprintf("%s[(%s)+1]", objStr, idxStr), nil
	}
	return fmt.Sprintf("%s[%s]", objStr, idxStr), nil
}

func emitArrayLiteral(s *EmitterState, node *ast.ArrayLiteral) (string, error) {
	elems, err := emitArgumentList(s, node.Elements)
	if err != nil {
		return "", err
	}
	return "{" + strings.Join(elems, ", ") + "}", nil
}

func emitObjectLiteral(s *EmitterState, node *ast.ObjectLiteral) (string, error) {
	parts := make([]string, len(node.Properties))
	for i, prop := range node.Properties {
		valueStr, err := emitExpression(s, prop.Value)
		if err != nil {
			return "", err
		}
		if prop.Computed {
			keyStr, err := emitExpression(s, prop.Key)
			if err != nil {
				return "", err
			}
			parts[i] = fmt.Sprintf("[%s] = %s", keyStr, valueStr)
			continue
		}
		switch key := prop.Key.(type) {
		case *ast.Identifier:
			parts[i] = fmt.Sprintf("[%s] = %s", quoteLuaString(key.Value), valueStr)
		case *ast.StringLiteral:
			parts[i] = fmt.Sprintf("[%s] = %s", quoteLuaString(key.Value), valueStr)
		default:
			keyStr, err := emitExpression(s, prop.Key)
			if err != nil {
				return "", err
			}
			parts[i] = fmt.Sprintf("[%s] = %s", keyStr, valueStr)
		}
	}
	return "{" + strings.Join(parts, ", ") + "}", nil
}

func emitFunctionExpression(s *EmitterState, node *ast.FunctionExpression) (string, error) {
	params := make([]string, len(node.Parameters))
	for i, p := range node.Parameters {
		params[i] = p.Name.Value
	}
	var b strings.Builder
	b.WriteString("function(")
	b.WriteString(strings.Join(params, ", "))
	b.WriteString(")\n")
	s.indent++
	if node.ConciseBody != nil {
		bodyStr, err := emitExpression(s, node.ConciseBody)
		if err != nil {
			return "", err
		}
		b.WriteString(s.indentString())
		b.WriteString("return ")
		b.WriteString(bodyStr)
		b.WriteString("\n")
	} else {
		saved := s.out
		s.out = strings.Builder{}
		if err := emitBlock(s, node.Body); err != nil {
			s.out = saved
			return "", err
		}
		b.WriteString(s.out.String())
		s.out = saved
	}
	s.indent--
	b.WriteString(s.indentString())
	b.WriteString("end")
	return b.String(), nil
}
