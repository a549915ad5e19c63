// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package types implements the PFA type system.
//
// Types are derived from Avro schemas: primitives, fixed, enums, arrays,
// maps, records and unions. Fixed, enum and record types are named:
// two named types with the same full name are the same type within one
// document. Function and exception types complete the system for
// expressions that are not stored values.
package types

import (
	"strings"
)

// Type of a value or of an expression.
type Type interface {
	// Kind of the type.
	Kind() Kind

	// Accepts reports whether a value of type other can be used where
	// a value of this type is expected.
	Accepts(other Type) bool

	// String representation of the type.
	String() string
}

type primitive struct {
	kind Kind
}

var (
	nullT    = &primitive{kind: NullKind}
	booleanT = &primitive{kind: BooleanKind}
	intT     = &primitive{kind: IntKind}
	longT    = &primitive{kind: LongKind}
	floatT   = &primitive{kind: FloatKind}
	doubleT  = &primitive{kind: DoubleKind}
	bytesT   = &primitive{kind: BytesKind}
	stringT  = &primitive{kind: StringKind}
)

// NullType returns the null type.
func NullType() Type { return nullT }

// BooleanType returns the boolean type.
func BooleanType() Type { return booleanT }

// IntType returns the 32-bit signed integer type.
func IntType() Type { return intT }

// LongType returns the 64-bit signed integer type.
func LongType() Type { return longT }

// FloatType returns the 32-bit floating-point type.
func FloatType() Type { return floatT }

// DoubleType returns the 64-bit floating-point type.
func DoubleType() Type { return doubleT }

// BytesType returns the bytes type.
func BytesType() Type { return bytesT }

// StringType returns the string type.
func StringType() Type { return stringT }

// Kind of the primitive.
func (t *primitive) Kind() Kind { return t.kind }

// Accepts reports whether a value of type other can be used where
// a value of this type is expected.
func (t *primitive) Accepts(other Type) bool { return accepts(t, other, nil) }

func (t *primitive) String() string { return typeString(t) }

// Named is the identity of fixed, enum and record types.
type Named struct {
	Name      string
	Namespace string
	Aliases   []string
	Doc       string
}

// FullName returns the name qualified with its namespace.
func (n *Named) FullName() string {
	if n.Namespace == "" {
		return n.Name
	}
	return n.Namespace + "." + n.Name
}

// NamedType is a type identified by its full name.
type NamedType interface {
	Type
	FullName() string
	named() *Named
}

func (n *Named) named() *Named { return n }

// NewNamed returns the identity of a named type given a name which may include a namespace.
func NewNamed(fullName string) Named {
	i := strings.LastIndex(fullName, ".")
	if i < 0 {
		return Named{Name: fullName}
	}
	return Named{Name: fullName[i+1:], Namespace: fullName[:i]}
}

type (
	// Fixed is a fixed-length byte sequence.
	Fixed struct {
		Named
		Size int
	}

	// Enum is a closed set of symbols.
	Enum struct {
		Named
		Symbols []string
	}

	// Field of a record.
	Field struct {
		Name string
		Type Type
		// Default value of the field as a document tree.
		// Only meaningful if HasDefault is true.
		Default    any
		HasDefault bool
		Order      string
		Doc        string
	}

	// Record is a sequence of named fields.
	Record struct {
		Named
		Fields []*Field
	}

	// Array is a sequence of items of the same type.
	Array struct {
		Items Type
	}

	// Map associates strings to values of the same type.
	Map struct {
		Values Type
	}

	// Union of types. Use NewUnion or Broadest to build valid unions.
	Union struct {
		Types []Type
	}

	// Fcn is the type of a function passed as an argument.
	Fcn struct {
		Params []Type
		Ret    Type
	}

	exception struct{}
)

var (
	_ NamedType = (*Fixed)(nil)
	_ NamedType = (*Enum)(nil)
	_ NamedType = (*Record)(nil)
	_ Type      = (*Array)(nil)
	_ Type      = (*Map)(nil)
	_ Type      = (*Union)(nil)
	_ Type      = (*Fcn)(nil)
	_ Type      = (*exception)(nil)
)

var exceptionT = &exception{}

// ExceptionType returns the type of expressions raising an error.
// It is accepted by every type and absorbed by Broadest.
func ExceptionType() Type { return exceptionT }

// Kind returns FixedKind.
func (t *Fixed) Kind() Kind { return FixedKind }

// Accepts reports whether a value of type other can be used where
// a value of this type is expected.
func (t *Fixed) Accepts(other Type) bool { return accepts(t, other, nil) }

func (t *Fixed) String() string { return typeString(t) }

// Kind returns EnumKind.
func (t *Enum) Kind() Kind { return EnumKind }

// Accepts reports whether a value of type other can be used where
// a value of this type is expected.
func (t *Enum) Accepts(other Type) bool { return accepts(t, other, nil) }

func (t *Enum) String() string { return typeString(t) }

// Index returns the position of a symbol or -1 if the symbol is not in the enum.
func (t *Enum) Index(symbol string) int {
	for i, s := range t.Symbols {
		if s == symbol {
			return i
		}
	}
	return -1
}

// Kind returns RecordKind.
func (t *Record) Kind() Kind { return RecordKind }

// Accepts reports whether a value of type other can be used where
// a value of this type is expected.
func (t *Record) Accepts(other Type) bool { return accepts(t, other, nil) }

func (t *Record) String() string { return typeString(t) }

// Field returns a field given its name.
func (t *Record) Field(name string) (*Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Kind returns ArrayKind.
func (t *Array) Kind() Kind { return ArrayKind }

// Accepts reports whether a value of type other can be used where
// a value of this type is expected.
func (t *Array) Accepts(other Type) bool { return accepts(t, other, nil) }

func (t *Array) String() string { return typeString(t) }

// Kind returns MapKind.
func (t *Map) Kind() Kind { return MapKind }

// Accepts reports whether a value of type other can be used where
// a value of this type is expected.
func (t *Map) Accepts(other Type) bool { return accepts(t, other, nil) }

func (t *Map) String() string { return typeString(t) }

// Kind returns UnionKind.
func (t *Union) Kind() Kind { return UnionKind }

// Accepts reports whether a value of type other can be used where
// a value of this type is expected.
func (t *Union) Accepts(other Type) bool { return accepts(t, other, nil) }

func (t *Union) String() string { return typeString(t) }

// Kind returns FcnKind.
func (t *Fcn) Kind() Kind { return FcnKind }

// Accepts reports whether a value of type other can be used where
// a value of this type is expected.
func (t *Fcn) Accepts(other Type) bool { return accepts(t, other, nil) }

func (t *Fcn) String() string { return typeString(t) }

func (*exception) Kind() Kind { return ExceptionKind }

func (t *exception) Accepts(other Type) bool { return other.Kind() == ExceptionKind }

func (*exception) String() string { return ExceptionKind.String() }

// ArrayOf returns an array type.
func ArrayOf(items Type) *Array { return &Array{Items: items} }

// MapOf returns a map type.
func MapOf(values Type) *Map { return &Map{Values: values} }
