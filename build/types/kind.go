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

package types

// Kind of a type.
type Kind int

// Kinds of types. Numeric kinds are ordered by promotion:
// a numeric kind accepts all the numeric kinds before it.
const (
	InvalidKind Kind = iota
	NullKind
	BooleanKind
	IntKind
	LongKind
	FloatKind
	DoubleKind
	BytesKind
	StringKind
	FixedKind
	EnumKind
	ArrayKind
	MapKind
	RecordKind
	UnionKind
	// FcnKind is the kind of function values passed as arguments.
	// Functions cannot be stored: they are not Avro types.
	FcnKind
	// ExceptionKind is the kind of expressions raising an error.
	ExceptionKind
)

var kindNames = map[Kind]string{
	InvalidKind:   "invalid",
	NullKind:      "null",
	BooleanKind:   "boolean",
	IntKind:       "int",
	LongKind:      "long",
	FloatKind:     "float",
	DoubleKind:    "double",
	BytesKind:     "bytes",
	StringKind:    "string",
	FixedKind:     "fixed",
	EnumKind:      "enum",
	ArrayKind:     "array",
	MapKind:       "map",
	RecordKind:    "record",
	UnionKind:     "union",
	FcnKind:       "function",
	ExceptionKind: "exception",
}

// String returns the name of the kind as written in a schema.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return kindNames[InvalidKind]
}

// IsNumeric returns true if the kind is int, long, float or double.
func (k Kind) IsNumeric() bool {
	return k >= IntKind && k <= DoubleKind
}

// IsNamed returns true for the kinds identified by a name.
func (k Kind) IsNamed() bool {
	return k == FixedKind || k == EnumKind || k == RecordKind
}

// IsAvro returns true if values of the kind can be stored or serialized.
func (k Kind) IsAvro() bool {
	return k >= NullKind && k <= UnionKind
}

// PrimitiveFromString returns a primitive type given its schema name.
func PrimitiveFromString(name string) (Type, bool) {
	switch name {
	case "null":
		return NullType(), true
	case "boolean":
		return BooleanType(), true
	case "int":
		return IntType(), true
	case "long":
		return LongType(), true
	case "float":
		return FloatType(), true
	case "double":
		return DoubleType(), true
	case "bytes":
		return BytesType(), true
	case "string":
		return StringType(), true
	}
	return nil, false
}
