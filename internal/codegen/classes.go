package codegen

import (
	"lunar/internal/ast"
)

// emitClassDeclaration lowers a class into Lua's usual
// metatable-as-prototype idiom: a table that is its own __index,
// carrying a reference to its base table for super dispatch, plus one
// `function C.name(self, ...)` per method and constructor.
//
// An `@extension` class skips all of that and instead monkey-patches
// its methods directly onto the class it extends, since it never
// introduces a type of its own. `@NoClassOr` and `@PureAbstract` are
// decorators on the super-type, not the class itself: a pure-abstract
// base is never wired in as a runtime `__base` at all, since it exists
// only to be extended, never instantiated on its own.
func emitClassDeclaration(s *EmitterState, node *ast.ClassDeclaration) error {
	if node.IsExtension {
		return emitExtensionClass(s, node)
	}

	name := node.Name.Value
	hasBase := false
	noClassOr := false
	if node.SuperClass != nil {
		superType := s.checker.TypeOf(node.SuperClass)
		if superType == nil || !superType.IsPureAbstractClass() {
			hasBase = true
			noClassOr = superType != nil && superType.HasCustomDecorator("NoClassOr")
		}
	}

	if hasBase {
		if noClassOr {
			s.writeIndented("%s = %s.new()\n", name, node.SuperClass.Value)
		} else {
			s.writeIndented("%s = %s or %s.new()\n", name, name, node.SuperClass.Value)
		}
		s.writeIndented("%s.__base = %s\n", name, node.SuperClass.Value)
	} else {
		s.writeIndented("%s = %s or {}\n", name, name)
	}
	s.writeIndented("%s.__index = %s\n", name, name)

	for _, field := range node.Fields {
		if !field.Static || field.Value == nil {
			continue
		}
		valueStr, err := emitExpression(s, field.Value)
		if err != nil {
			return err
		}
		s.writeIndented("%s.%s = %s\n", name, field.Name.Value, valueStr)
	}

	if err := emitConstructor(s, node, hasBase); err != nil {
		return err
	}

	for _, method := range node.Methods {
		if method.Abstract || method.Body == nil {
			continue
		}
		if err := emitMethod(s, name, method); err != nil {
			return err
		}
	}

	s.writeIndented("function %s.new(construct, ...)\n", name)
	s.indent++
	s.writeIndented("local instance = setmetatable({}, %s)\n", name)
	s.writeIndented("if construct and %s.constructor then %s.constructor(instance, ...) end\n", name, name)
	s.writeIndented("return instance\n")
	s.indent--
	s.writeIndented("end\n")

	return nil
}

// emitConstructor writes `function C.constructor(self, params) ...
// end`. The body opens with, in order: parameter-shorthand assignments
// (`constructor(public x: number)`), then initialized instance-field
// assignments, then the constructor's own statements — so a
// `super(...)` call partway through the original body sees both kinds
// of assignment already applied.
func emitConstructor(s *EmitterState, node *ast.ClassDeclaration, hasBase bool) error {
	name := node.Name.Value
	ctor := node.Constructor

	var params []*ast.Parameter
	if ctor != nil {
		params = ctor.Parameters
	}
	s.writeIndented("function %s.constructor(self%s)\n", name, prefixedParamNames(params))
	s.indent++

	for _, p := range params {
		if p.Modifier == "" {
			continue
		}
		s.writeIndented("self.%s = %s\n", p.Name.Value, p.Name.Value)
	}

	for _, field := range node.Fields {
		if field.Static || field.Value == nil {
			continue
		}
		valueStr, err := emitExpression(s, field.Value)
		if err != nil {
			s.indent--
			return err
		}
		s.writeIndented("self.%s = %s\n", field.Name.Value, valueStr)
	}

	if ctor != nil {
		if err := emitBlock(s, ctor.Body); err != nil {
			s.indent--
			return err
		}
	} else if hasBase {
		s.writeIndented("self.__base.constructor(self)\n")
	}

	s.indent--
	s.writeIndented("end\n")
	return nil
}

func emitMethod(s *EmitterState, owner string, method *ast.ClassMethod) error {
	if method.Static {
		s.writeIndented("function %s.%s(%s)\n", owner, method.Name.Value, joinNoSpace(paramNames(method.Parameters)))
	} else {
		s.writeIndented("function %s.%s(self%s)\n", owner, method.Name.Value, prefixedParamNames(method.Parameters))
	}
	s.indent++
	s.pushLoopBreak()
	if err := emitBlock(s, method.Body); err != nil {
		s.popBreakTarget()
		s.indent--
		return err
	}
	s.popBreakTarget()
	s.indent--
	s.writeIndented("end\n")
	return nil
}

// emitExtensionClass adds methods directly onto the table of the class
// named in `extends` — `@extension class C extends B` patches B's
// prototype in place rather than declaring a derived type, the idiom
// this language uses for reopening a built-in. Without an `extends`
// clause the methods go onto the table named by the class itself.
func emitExtensionClass(s *EmitterState, node *ast.ClassDeclaration) error {
	name := node.Name.Value
	if node.SuperClass != nil {
		name = node.SuperClass.Value
	}
	for _, method := range node.Methods {
		if method.Abstract || method.Body == nil {
			continue
		}
		if err := emitMethod(s, name, method); err != nil {
			return err
		}
	}
	return nil
}

func prefixedParamNames(params []*ast.Parameter) string {
	names := paramNames(params)
	if len(names) == 0 {
		return ""
	}
	return "," + joinNoSpace(names)
}

// emitEnumDeclaration emits a runtime table of members for an ordinary
// enum. A `@CompileMembersOnly` enum emits nothing at its declaration
// site at all — every read of one of its members is inlined to the
// literal value directly at the DotExpression that reads it.
func emitEnumDeclaration(s *EmitterState, node *ast.EnumDeclaration) error {
	if node.CompileMembersOnly {
		return nil
	}
	name := node.Name.Value
	s.writeIndented("%s = %s or {}\n", name, name)
	next := 0.0
	for _, member := range node.Members {
		if member.Value != nil {
			if lit, ok := member.Value.(*ast.NumberLiteral); ok {
				next = lit.Value
			}
			valueStr, err := emitExpression(s, member.Value)
			if err != nil {
				return err
			}
			s.writeIndented("%s.%s = %s\n", name, member.Name.Value, valueStr)
			next++
			continue
		}
		s.writeIndented("%s.%s = %s\n", name, member.Name.Value, formatLuaNumber(next))
		next++
	}
	return nil
}
