package types

import (
	"fmt"
	"lunar/internal/ast"
)

// TypeError is a diagnostic raised while inferring or resolving types.
// Unlike codegen's TranspileError, a TypeError never aborts emission —
// the checker degrades to Any and keeps going, matching a "best effort"
// oracle rather than a full type-checking front-end.
type TypeError struct {
	Message string
	Line    int
	Column  int
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("type error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// Environment is a lexical scope of name -> Type bindings.
type Environment struct {
	store map[string]Type
	outer *Environment
}

func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Type)}
}

func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

func (e *Environment) Get(name string) (Type, bool) {
	t, ok := e.store[name]
	if !ok && e.outer != nil {
		return e.outer.Get(name)
	}
	return t, ok
}

func (e *Environment) Set(name string, t Type) {
	e.store[name] = t
}

// TypeChecker is the oracle spec.md §3 hands to the emitter: it maps a
// Node to its Type and nothing else. Checker is this module's only
// implementation.
type TypeChecker interface {
	TypeOf(node ast.Node) Type
}

// Checker performs a single forward pass over a file, inferring just
// enough type information to answer the codegen oracle's capability
// queries. It is not a structural type checker: it never rejects a
// program, and assignability/generics are this package's business, not
// something the checker enforces. Unresolvable expressions resolve to
// Any, which answers every capability query false — the conservative
// choice, since the emitter treats "false" as "fall back to the
// generic lowering".
type Checker struct {
	env     *Environment
	classes map[string]*ClassType
	enums   map[string]*EnumType
	types   map[ast.Node]Type
	errors  []*TypeError
}

func NewChecker() *Checker {
	return &Checker{
		env:     NewEnvironment(),
		classes: make(map[string]*ClassType),
		enums:   make(map[string]*EnumType),
		types:   make(map[ast.Node]Type),
	}
}

func (c *Checker) Errors() []*TypeError { return c.errors }

func (c *Checker) errorf(line, col int, format string, args ...any) {
	c.errors = append(c.errors, &TypeError{Message: fmt.Sprintf(format, args...), Line: line, Column: col})
}

// TypeOf implements TypeChecker. Nodes never visited by Check resolve
// to Any.
func (c *Checker) TypeOf(node ast.Node) Type {
	if node == nil {
		return Any
	}
	if t, ok := c.types[node]; ok {
		return t
	}
	return Any
}

func (c *Checker) record(node ast.Node, t Type) Type {
	c.types[node] = t
	return t
}

// Check walks every top-level statement, registering class and enum
// declarations before inferring expression types so forward references
// (a class used before its own declaration further down the file)
// still resolve.
func (c *Checker) Check(statements []ast.Statement) {
	for _, stmt := range statements {
		c.hoist(stmt)
	}
	for _, stmt := range statements {
		c.checkStatement(stmt)
	}
}

// hoist registers class/enum names ahead of the inference pass so a
// NewExpression or DotExpression earlier in the file can still resolve
// a class declared later.
func (c *Checker) hoist(stmt ast.Statement) {
	switch node := stmt.(type) {
	case *ast.ClassDeclaration:
		ct := &ClassType{Name: node.Name.Value, Decorators: node.Decorators}
		c.classes[node.Name.Value] = ct
		// Bind the class name itself so a bare reference to it (as
		// opposed to an instance) resolves to its ClassType too —
		// needed for `new X()` and static member access on X.
		c.env.Set(node.Name.Value, ct)
	case *ast.EnumDeclaration:
		et := &EnumType{Name: node.Name.Value, Members: make(map[string]Type), CompileMembersOnly: node.CompileMembersOnly}
		c.enums[node.Name.Value] = et
		// Same reasoning as the class case: `Color` in `Color.Red`
		// must resolve to the EnumType itself, not to Any.
		c.env.Set(node.Name.Value, et)
	case *ast.ExportStatement:
		c.hoist(node.Statement)
	}
}

func (c *Checker) checkStatement(stmt ast.Statement) {
	switch node := stmt.(type) {
	case *ast.VariableDeclaration:
		c.checkVariableDeclaration(node)
	case *ast.FunctionDeclaration:
		c.checkFunctionDeclaration(node)
	case *ast.ClassDeclaration:
		c.checkClassDeclaration(node)
	case *ast.EnumDeclaration:
		c.checkEnumDeclaration(node)
	case *ast.ExpressionStatement:
		c.infer(node.Expression)
	case *ast.ReturnStatement:
		c.infer(node.ReturnValue)
	case *ast.IfStatement:
		c.infer(node.Condition)
		c.checkBlock(node.Consequence)
		c.checkBlock(node.Alternative)
	case *ast.WhileStatement:
		c.infer(node.Condition)
		c.checkBlock(node.Body)
	case *ast.ForStatement:
		if node.Init != nil {
			c.checkStatement(node.Init)
		}
		c.infer(node.Cond)
		if node.Post != nil {
			c.checkStatement(node.Post)
		}
		c.checkBlock(node.Body)
	case *ast.ForOfStatement:
		iterType := c.infer(node.Iterable)
		elem := Type(Any)
		if arr, ok := iterType.(*ArrayType); ok {
			elem = arr.ElementType
		}
		c.env.Set(node.VarName.Value, elem)
		c.checkBlock(node.Body)
	case *ast.ForInStatement:
		c.infer(node.Iterable)
		c.env.Set(node.VarName.Value, Any)
		c.checkBlock(node.Body)
	case *ast.SwitchStatement:
		c.infer(node.Discriminant)
		for _, clause := range node.Clauses {
			if clause.Test != nil {
				c.infer(clause.Test)
			}
			for _, s := range clause.Body {
				c.checkStatement(s)
			}
		}
	case *ast.BlockStatement:
		c.checkBlock(node)
	case *ast.AssignmentStatement:
		c.infer(node.Value)
	case *ast.CompoundAssignmentStatement:
		c.infer(node.Value)
	case *ast.ExportStatement:
		c.checkStatement(node.Statement)
	}
}

func (c *Checker) checkBlock(block *ast.BlockStatement) {
	if block == nil {
		return
	}
	for _, s := range block.Statements {
		c.checkStatement(s)
	}
}

func (c *Checker) checkVariableDeclaration(node *ast.VariableDeclaration) {
	for i := range node.Declarators {
		d := &node.Declarators[i]
		var declared Type
		if d.Value != nil {
			declared = c.infer(d.Value)
		} else {
			declared = Any
		}
		if d.Name != nil {
			c.env.Set(d.Name.Value, declared)
		}
		for _, elem := range d.Pattern {
			if elem.Name != nil {
				c.env.Set(elem.Name.Value, Any)
			}
		}
	}
}

func (c *Checker) checkFunctionDeclaration(node *ast.FunctionDeclaration) {
	inner := NewEnclosedEnvironment(c.env)
	outer := c.env
	c.env = inner
	for _, p := range node.Parameters {
		c.env.Set(p.Name.Value, c.resolveAnnotation(p.Type))
	}
	c.checkBlock(node.Body)
	c.env = outer
}

func (c *Checker) checkClassDeclaration(node *ast.ClassDeclaration) {
	ct := c.classes[node.Name.Value]
	if node.SuperClass != nil {
		if super, ok := c.classes[node.SuperClass.Value]; ok {
			ct.Super = super
			// Record the super-class reference itself so codegen can
			// query its decorators (@PureAbstract, @NoClassOr) via
			// TypeOf(node.SuperClass) when lowering the class header.
			c.record(node.SuperClass, super)
		}
	}

	inner := NewEnclosedEnvironment(c.env)
	outer := c.env
	c.env = inner
	c.env.Set("this", ct)

	if node.Constructor != nil {
		for _, p := range node.Constructor.Parameters {
			c.env.Set(p.Name.Value, c.resolveAnnotation(p.Type))
		}
		c.checkBlock(node.Constructor.Body)
	}
	for _, field := range node.Fields {
		if field.Value != nil {
			c.infer(field.Value)
		}
	}
	for _, method := range node.Methods {
		methodEnv := NewEnclosedEnvironment(inner)
		c.env = methodEnv
		for _, p := range method.Parameters {
			c.env.Set(p.Name.Value, c.resolveAnnotation(p.Type))
		}
		c.checkBlock(method.Body)
	}

	c.env = outer
}

func (c *Checker) checkEnumDeclaration(node *ast.EnumDeclaration) {
	et := c.enums[node.Name.Value]
	next := 0.0
	for _, member := range node.Members {
		var v Type = &NumberLiteralType{Value: next}
		if member.Value != nil {
			mt := c.infer(member.Value)
			if lit, ok := mt.(*NumberLiteralType); ok {
				v = lit
				next = lit.Value
			}
		}
		et.Members[member.Name.Value] = v
		next++
	}
}

// resolveAnnotation maps a parsed type-annotation expression to a
// Type. Only identifier annotations are meaningful here (spec.md puts
// full type inference out of scope); anything else resolves to Any.
func (c *Checker) resolveAnnotation(expr ast.Expression) Type {
	ident, ok := expr.(*ast.Identifier)
	if !ok {
		return Any
	}
	name := ident.Value
	if len(name) > 2 && name[len(name)-2:] == "[]" {
		return &ArrayType{ElementType: c.resolveAnnotation(&ast.Identifier{Value: name[:len(name)-2]})}
	}
	switch name {
	case "string":
		return String
	case "number":
		return Number
	case "boolean":
		return Boolean
	case "void":
		return Void
	case "any":
		return Any
	}
	if ct, ok := c.classes[name]; ok {
		return ct
	}
	if et, ok := c.enums[name]; ok {
		return et
	}
	return Any
}

// infer computes and records the Type of an expression node, so every
// expression the checker walks ends up queryable via TypeOf. The only
// other caller of c.record is checkClassDeclaration, which records the
// super-class identifier.
func (c *Checker) infer(expr ast.Expression) Type {
	if expr == nil {
		return Any
	}
	switch node := expr.(type) {
	case *ast.NumberLiteral:
		return c.record(node, &NumberLiteralType{Value: node.Value})
	case *ast.StringLiteral:
		return c.record(node, &StringLiteralType{Value: node.Value})
	case *ast.BooleanLiteral:
		return c.record(node, Boolean)
	case *ast.NullLiteral:
		return c.record(node, Nil)
	case *ast.TemplateExpression:
		for _, e := range node.Expressions {
			c.infer(e)
		}
		return c.record(node, String)
	case *ast.Identifier:
		if t, ok := c.env.Get(node.Value); ok {
			return c.record(node, t)
		}
		return c.record(node, Any)
	case *ast.ThisExpression:
		if t, ok := c.env.Get("this"); ok {
			return c.record(node, t)
		}
		return c.record(node, Any)
	case *ast.SuperExpression:
		if this, ok := c.env.Get("this"); ok {
			if ct, ok := this.(*ClassType); ok && ct.Super != nil {
				return c.record(node, ct.Super)
			}
		}
		return c.record(node, Any)
	case *ast.ArrayLiteral:
		var elem Type = Any
		if len(node.Elements) > 0 {
			elem = c.infer(node.Elements[0])
			for _, e := range node.Elements[1:] {
				c.infer(e)
			}
		}
		return c.record(node, &ArrayType{ElementType: elem})
	case *ast.ObjectLiteral:
		props := make(map[string]Type, len(node.Properties))
		for _, p := range node.Properties {
			v := c.infer(p.Value)
			if ident, ok := p.Key.(*ast.Identifier); ok && !p.Computed {
				props[ident.Value] = v
			} else {
				c.infer(p.Key)
			}
		}
		return c.record(node, &ObjectType{Properties: props})
	case *ast.BinaryExpression:
		return c.record(node, c.inferBinary(node))
	case *ast.UnaryExpression:
		right := c.infer(node.Right)
		if node.Operator == "!" {
			return c.record(node, Boolean)
		}
		return c.record(node, right)
	case *ast.UpdateExpression:
		return c.record(node, c.infer(node.Argument))
	case *ast.ConditionalExpression:
		c.infer(node.Condition)
		cons := c.infer(node.Consequent)
		alt := c.infer(node.Alternate)
		if cons.Equals(alt) {
			return c.record(node, cons)
		}
		return c.record(node, Any)
	case *ast.CallExpression:
		c.infer(node.Function)
		for _, a := range node.Arguments {
			c.infer(a)
		}
		return c.record(node, Any)
	case *ast.NewExpression:
		for _, a := range node.Arguments {
			c.infer(a)
		}
		if ident, ok := node.Callee.(*ast.Identifier); ok {
			if ct, ok := c.classes[ident.Value]; ok {
				return c.record(node, ct)
			}
		}
		return c.record(node, Any)
	case *ast.DotExpression:
		left := c.infer(node.Left)
		if et, ok := left.(*EnumType); ok {
			if v, ok := et.Members[node.Right.Value]; ok {
				return c.record(node, v)
			}
		}
		if ct, ok := left.(*ClassType); ok {
			_ = ct
		}
		return c.record(node, Any)
	case *ast.IndexExpression:
		left := c.infer(node.Left)
		c.infer(node.Index)
		if arr, ok := left.(*ArrayType); ok {
			return c.record(node, arr.ElementType)
		}
		if tup, ok := left.(*TupleType); ok {
			if lit, ok := node.Index.(*ast.NumberLiteral); ok {
				idx := int(lit.Value)
				if idx >= 0 && idx < len(tup.Elements) {
					return c.record(node, tup.Elements[idx])
				}
			}
		}
		return c.record(node, Any)
	case *ast.FunctionExpression:
		inner := NewEnclosedEnvironment(c.env)
		outer := c.env
		c.env = inner
		params := make([]Type, len(node.Parameters))
		for i, p := range node.Parameters {
			params[i] = c.resolveAnnotation(p.Type)
			c.env.Set(p.Name.Value, params[i])
		}
		var ret Type = Any
		if node.ConciseBody != nil {
			ret = c.infer(node.ConciseBody)
		} else {
			c.checkBlock(node.Body)
		}
		c.env = outer
		return c.record(node, &FunctionType{Parameters: params, ReturnType: ret})
	case *ast.TypeAssertionExpression:
		return c.record(node, c.infer(node.Expression))
	case *ast.AsExpression:
		return c.record(node, c.infer(node.Expression))
	case *ast.ParenthesizedExpression:
		return c.record(node, c.infer(node.Expression))
	default:
		return Any
	}
}

func (c *Checker) inferBinary(node *ast.BinaryExpression) Type {
	left := c.infer(node.Left)
	right := c.infer(node.Right)
	switch node.Operator {
	case "<", ">", "<=", ">=", "===", "!==", "==", "!=", "&&", "||":
		return Boolean
	case "+":
		if left.IsString() || right.IsString() {
			return String
		}
		return Number
	default:
		return Number
	}
}
