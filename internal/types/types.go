package types

import (
	"fmt"
	"strings"
)

// Type is the oracle the code generator queries. spec.md treats Type as
// an opaque handle with a fixed capability surface; everything else
// (structural assignability, generics, interface matching) is this
// package's own business and never crosses into codegen.
type Type interface {
	String() string
	Equals(other Type) bool
	IsAssignableTo(other Type) bool

	IsString() bool
	IsStringLiteral() bool
	IsObject() bool
	IsArray() bool
	IsTuple() bool
	IsCompileMembersOnlyEnum() bool
	IsPureAbstractClass() bool
	IsExtensionClass() bool
	HasCustomDecorator(name string) bool
}

// capabilities gives every concrete type the spec.md capability surface
// with a false/no-op default; concrete types override only the
// predicates that apply to them.
type capabilities struct{}

func (capabilities) IsString() bool                     { return false }
func (capabilities) IsStringLiteral() bool               { return false }
func (capabilities) IsObject() bool                      { return false }
func (capabilities) IsArray() bool                       { return false }
func (capabilities) IsTuple() bool                       { return false }
func (capabilities) IsCompileMembersOnlyEnum() bool      { return false }
func (capabilities) IsPureAbstractClass() bool           { return false }
func (capabilities) IsExtensionClass() bool              { return false }
func (capabilities) HasCustomDecorator(name string) bool { return false }

// ---- Basic types -------------------------------------------------

type NumberType struct{ capabilities }

func (t *NumberType) String() string { return "number" }
func (t *NumberType) Equals(other Type) bool {
	_, ok := other.(*NumberType)
	return ok
}
func (t *NumberType) IsAssignableTo(other Type) bool {
	if t.Equals(other) {
		return true
	}
	if _, isAny := other.(*AnyType); isAny {
		return true
	}
	if u, isUnion := other.(*UnionType); isUnion {
		return u.Contains(t)
	}
	return false
}

type StringType struct{ capabilities }

func (t *StringType) String() string           { return "string" }
func (t *StringType) IsString() bool            { return true }
func (t *StringType) Equals(other Type) bool {
	_, ok := other.(*StringType)
	return ok
}
func (t *StringType) IsAssignableTo(other Type) bool {
	if t.Equals(other) {
		return true
	}
	if _, isAny := other.(*AnyType); isAny {
		return true
	}
	if u, isUnion := other.(*UnionType); isUnion {
		return u.Contains(t)
	}
	return false
}

type BooleanType struct{ capabilities }

func (t *BooleanType) String() string { return "boolean" }
func (t *BooleanType) Equals(other Type) bool {
	_, ok := other.(*BooleanType)
	return ok
}
func (t *BooleanType) IsAssignableTo(other Type) bool {
	if t.Equals(other) {
		return true
	}
	if _, isAny := other.(*AnyType); isAny {
		return true
	}
	if u, isUnion := other.(*UnionType); isUnion {
		return u.Contains(t)
	}
	return false
}

type NilType struct{ capabilities }

func (t *NilType) String() string { return "nil" }
func (t *NilType) Equals(other Type) bool {
	_, ok := other.(*NilType)
	return ok
}
func (t *NilType) IsAssignableTo(other Type) bool {
	if t.Equals(other) {
		return true
	}
	if _, ok := other.(*OptionalType); ok {
		return true
	}
	if _, isAny := other.(*AnyType); isAny {
		return true
	}
	if u, isUnion := other.(*UnionType); isUnion {
		return u.Contains(t)
	}
	return false
}

type VoidType struct{ capabilities }

func (t *VoidType) String() string { return "void" }
func (t *VoidType) Equals(other Type) bool {
	_, ok := other.(*VoidType)
	return ok
}
func (t *VoidType) IsAssignableTo(other Type) bool {
	if t.Equals(other) {
		return true
	}
	_, isAny := other.(*AnyType)
	return isAny
}

// StringLiteralType is the type of a string literal expression —
// narrower than StringType, but the codegen oracle treats it like a
// string for the purposes of IsString (spec.md §3's `is_string_literal`
// is a separate, finer query from `is_string`).
type StringLiteralType struct {
	capabilities
	Value string
}

func (t *StringLiteralType) String() string       { return fmt.Sprintf("%q", t.Value) }
func (t *StringLiteralType) IsString() bool       { return true }
func (t *StringLiteralType) IsStringLiteral() bool { return true }
func (t *StringLiteralType) Equals(other Type) bool {
	o, ok := other.(*StringLiteralType)
	return ok && t.Value == o.Value
}
func (t *StringLiteralType) IsAssignableTo(other Type) bool {
	if t.Equals(other) {
		return true
	}
	if _, isAny := other.(*AnyType); isAny {
		return true
	}
	if _, isString := other.(*StringType); isString {
		return true
	}
	if u, isUnion := other.(*UnionType); isUnion {
		if u.Contains(t) {
			return true
		}
		for _, ut := range u.Types {
			if _, isString := ut.(*StringType); isString {
				return true
			}
		}
	}
	return false
}

type NumberLiteralType struct {
	capabilities
	Value float64
}

func (t *NumberLiteralType) String() string { return fmt.Sprintf("%g", t.Value) }
func (t *NumberLiteralType) Equals(other Type) bool {
	o, ok := other.(*NumberLiteralType)
	return ok && t.Value == o.Value
}
func (t *NumberLiteralType) IsAssignableTo(other Type) bool {
	if t.Equals(other) {
		return true
	}
	if _, isAny := other.(*AnyType); isAny {
		return true
	}
	if _, isNumber := other.(*NumberType); isNumber {
		return true
	}
	if u, isUnion := other.(*UnionType); isUnion {
		if u.Contains(t) {
			return true
		}
		for _, ut := range u.Types {
			if _, isNumber := ut.(*NumberType); isNumber {
				return true
			}
		}
	}
	return false
}

type AnyType struct{ capabilities }

func (t *AnyType) String() string { return "any" }
func (t *AnyType) Equals(other Type) bool {
	_, ok := other.(*AnyType)
	return ok
}
func (t *AnyType) IsAssignableTo(other Type) bool { return true }

// ---- Complex types -------------------------------------------------

// ArrayType is a homogeneous array. spec.md's `is_array` query drives
// the array-vs-object index offset, `.length` and the array method
// rewrites. It does not pick the loop iterator: for-of always lowers
// to ipairs and for-in always to pairs, whatever the iterable's type.
type ArrayType struct {
	capabilities
	ElementType Type
}

func (t *ArrayType) String() string  { return fmt.Sprintf("%s[]", t.ElementType.String()) }
func (t *ArrayType) IsArray() bool   { return true }
func (t *ArrayType) Equals(other Type) bool {
	o, ok := other.(*ArrayType)
	return ok && t.ElementType.Equals(o.ElementType)
}
func (t *ArrayType) IsAssignableTo(other Type) bool {
	if t.Equals(other) {
		return true
	}
	if _, isAny := other.(*AnyType); isAny {
		return true
	}
	if o, ok := other.(*ArrayType); ok {
		return t.ElementType.IsAssignableTo(o.ElementType)
	}
	return false
}

// ObjectType is a plain key/value table — SL's object literal type.
type ObjectType struct {
	capabilities
	Properties map[string]Type
}

func (t *ObjectType) String() string { return "object" }
func (t *ObjectType) IsObject() bool { return true }
func (t *ObjectType) Equals(other Type) bool {
	o, ok := other.(*ObjectType)
	if !ok || len(t.Properties) != len(o.Properties) {
		return false
	}
	for k, v := range t.Properties {
		ov, ok := o.Properties[k]
		if !ok || !v.Equals(ov) {
			return false
		}
	}
	return true
}
func (t *ObjectType) IsAssignableTo(other Type) bool {
	if t.Equals(other) {
		return true
	}
	_, isAny := other.(*AnyType)
	return isAny
}

type FunctionType struct {
	capabilities
	Parameters []Type
	ReturnType Type
}

func (t *FunctionType) String() string {
	params := make([]string, len(t.Parameters))
	for i, p := range t.Parameters {
		params[i] = p.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(params, ", "), t.ReturnType.String())
}
func (t *FunctionType) Equals(other Type) bool {
	o, ok := other.(*FunctionType)
	if !ok || len(t.Parameters) != len(o.Parameters) {
		return false
	}
	for i, p := range t.Parameters {
		if !p.Equals(o.Parameters[i]) {
			return false
		}
	}
	return t.ReturnType.Equals(o.ReturnType)
}
func (t *FunctionType) IsAssignableTo(other Type) bool {
	if t.Equals(other) {
		return true
	}
	if _, isAny := other.(*AnyType); isAny {
		return true
	}
	o, ok := other.(*FunctionType)
	if !ok || len(t.Parameters) != len(o.Parameters) {
		return false
	}
	for i, p := range t.Parameters {
		if !o.Parameters[i].IsAssignableTo(p) {
			return false
		}
	}
	return t.ReturnType.IsAssignableTo(o.ReturnType)
}

type UnionType struct {
	capabilities
	Types []Type
}

func (t *UnionType) String() string {
	parts := make([]string, 0, len(t.Types))
	for _, typ := range t.Types {
		if typ != nil {
			parts = append(parts, typ.String())
		}
	}
	return strings.Join(parts, " | ")
}
func (t *UnionType) Equals(other Type) bool {
	o, ok := other.(*UnionType)
	if !ok || len(t.Types) != len(o.Types) {
		return false
	}
	for _, typ := range t.Types {
		found := false
		for _, ot := range o.Types {
			if typ.Equals(ot) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
func (t *UnionType) IsAssignableTo(other Type) bool {
	if t.Equals(other) {
		return true
	}
	if _, isAny := other.(*AnyType); isAny {
		return true
	}
	for _, typ := range t.Types {
		if !typ.IsAssignableTo(other) {
			return false
		}
	}
	return true
}
func (t *UnionType) Contains(typ Type) bool {
	for _, ut := range t.Types {
		if ut.Equals(typ) {
			return true
		}
	}
	return false
}

// OptionalType is `T | nil` written `T?`.
type OptionalType struct {
	capabilities
	BaseType Type
}

func (t *OptionalType) String() string { return t.BaseType.String() + "?" }
func (t *OptionalType) Equals(other Type) bool {
	o, ok := other.(*OptionalType)
	return ok && t.BaseType.Equals(o.BaseType)
}
func (t *OptionalType) IsAssignableTo(other Type) bool {
	if t.Equals(other) {
		return true
	}
	if _, isAny := other.(*AnyType); isAny {
		return true
	}
	if o, ok := other.(*OptionalType); ok {
		return t.BaseType.IsAssignableTo(o.BaseType)
	}
	return false
}

// TupleType is a fixed-length, heterogeneous array — spec.md's
// `is_tuple` query drives the same +1 index-offset treatment as arrays.
type TupleType struct {
	capabilities
	Elements []Type
}

func (t *TupleType) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
}
func (t *TupleType) IsTuple() bool { return true }
func (t *TupleType) Equals(other Type) bool {
	o, ok := other.(*TupleType)
	if !ok || len(t.Elements) != len(o.Elements) {
		return false
	}
	for i, e := range t.Elements {
		if !e.Equals(o.Elements[i]) {
			return false
		}
	}
	return true
}
func (t *TupleType) IsAssignableTo(other Type) bool {
	if t.Equals(other) {
		return true
	}
	if _, isAny := other.(*AnyType); isAny {
		return true
	}
	o, ok := other.(*TupleType)
	if !ok || len(t.Elements) != len(o.Elements) {
		return false
	}
	for i, e := range t.Elements {
		if !e.IsAssignableTo(o.Elements[i]) {
			return false
		}
	}
	return true
}

// ---- User-defined types -----------------------------------------

// ClassType carries the decorator facts the class emitter needs:
// `@PureAbstract` (drop the runtime `extends`), `@NoClassOr` (skip the
// reopen guard), `@extension` (monkey-patch instead of declaring).
type ClassType struct {
	capabilities
	Name       string
	Super      *ClassType
	Decorators []string
}

func (t *ClassType) String() string { return t.Name }
func (t *ClassType) IsObject() bool { return true }
func (t *ClassType) Equals(other Type) bool {
	o, ok := other.(*ClassType)
	return ok && t.Name == o.Name
}
func (t *ClassType) IsAssignableTo(other Type) bool {
	if t.Equals(other) {
		return true
	}
	_, isAny := other.(*AnyType)
	return isAny
}
func (t *ClassType) HasDecorator(name string) bool {
	for _, d := range t.Decorators {
		if d == name {
			return true
		}
	}
	return false
}
func (t *ClassType) HasCustomDecorator(name string) bool { return t.HasDecorator(name) }
func (t *ClassType) IsPureAbstractClass() bool            { return t.HasDecorator("PureAbstract") }
func (t *ClassType) IsExtensionClass() bool               { return t.HasDecorator("extension") }

// EnumType's CompileMembersOnly mirrors spec.md's `is_compile_members_only_enum`.
type EnumType struct {
	capabilities
	Name               string
	Members            map[string]Type
	CompileMembersOnly bool
}

func (t *EnumType) String() string                  { return t.Name }
func (t *EnumType) IsCompileMembersOnlyEnum() bool   { return t.CompileMembersOnly }
func (t *EnumType) Equals(other Type) bool {
	o, ok := other.(*EnumType)
	return ok && t.Name == o.Name
}
func (t *EnumType) IsAssignableTo(other Type) bool {
	if t.Equals(other) {
		return true
	}
	_, isAny := other.(*AnyType)
	return isAny
}
func (t *EnumType) HasMember(name string) bool {
	_, ok := t.Members[name]
	return ok
}

// ---- Utility functions and shared instances -----------------------

func IsNumericType(t Type) bool {
	_, ok := t.(*NumberType)
	return ok
}

func IsStringType(t Type) bool { return t != nil && t.IsString() }

func IsBooleanType(t Type) bool {
	_, ok := t.(*BooleanType)
	return ok
}

func IsNilType(t Type) bool {
	_, ok := t.(*NilType)
	return ok
}

func IsVoidType(t Type) bool {
	_, ok := t.(*VoidType)
	return ok
}

var (
	Number  = &NumberType{}
	String  = &StringType{}
	Boolean = &BooleanType{}
	Nil     = &NilType{}
	Void    = &VoidType{}
	Any     = &AnyType{}
)
