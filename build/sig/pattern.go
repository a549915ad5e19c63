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

// Package sig describes the signatures of library functions and matches
// them against the types of the arguments of a call.
//
// A signature is a list of named parameter patterns and a result pattern.
// Patterns are types in which some parts are replaced by labelled
// wildcards. All occurrences of a label in a signature are bound to the
// same type when a call is matched.
package sig

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gx-org/pfa/base/ordered"
	"github.com/gx-org/pfa/base/stringseq"
	"github.com/gx-org/pfa/build/types"
)

// Pattern of a parameter or of the result of a signature.
type Pattern interface {
	fmt.Stringer
	// labels appends the labels used by the pattern.
	labels(ls []string) []string
}

type (
	// Concrete matches a type accepted by a given type.
	Concrete struct {
		Type types.Type
	}

	// Array matches arrays of items matched by a pattern.
	Array struct {
		Items Pattern
	}

	// Map matches maps of values matched by a pattern.
	Map struct {
		Values Pattern
	}

	// Union matches unions whose members are all matched by one of the patterns.
	Union struct {
		Types []Pattern
	}

	// Fcn matches a function passed as an argument.
	Fcn struct {
		Params []Pattern
		Ret    Pattern
	}

	// Wildcard matches any type, or any type of a set if OneOf is not empty.
	Wildcard struct {
		Label string
		OneOf []types.Type
	}

	// WildRecord matches any record with at least the given fields.
	// The label is bound to the complete record type.
	WildRecord struct {
		Label  string
		Fields *ordered.Map[string, Pattern]
	}

	// WildEnum matches any enum type.
	WildEnum struct {
		Label string
	}

	// WildFixed matches any fixed type.
	WildFixed struct {
		Label string
	}

	// EnumFields matches an enum whose symbols are the field names of
	// the record bound to the Record label.
	EnumFields struct {
		Label  string
		Record string
	}
)

var (
	_ Pattern = (*Concrete)(nil)
	_ Pattern = (*Array)(nil)
	_ Pattern = (*Map)(nil)
	_ Pattern = (*Union)(nil)
	_ Pattern = (*Fcn)(nil)
	_ Pattern = (*Wildcard)(nil)
	_ Pattern = (*WildRecord)(nil)
	_ Pattern = (*WildEnum)(nil)
	_ Pattern = (*WildFixed)(nil)
	_ Pattern = (*EnumFields)(nil)
)

// Type returns a pattern matching types accepted by t.
func Type(t types.Type) *Concrete { return &Concrete{Type: t} }

// Null matches null.
func Null() *Concrete { return Type(types.NullType()) }

// Boolean matches booleans.
func Boolean() *Concrete { return Type(types.BooleanType()) }

// Int matches ints.
func Int() *Concrete { return Type(types.IntType()) }

// Long matches ints and longs.
func Long() *Concrete { return Type(types.LongType()) }

// Float matches ints, longs and floats.
func Float() *Concrete { return Type(types.FloatType()) }

// Double matches all numbers.
func Double() *Concrete { return Type(types.DoubleType()) }

// Bytes matches bytes.
func Bytes() *Concrete { return Type(types.BytesType()) }

// String matches strings.
func String() *Concrete { return Type(types.StringType()) }

// ArrayOf returns an array pattern.
func ArrayOf(items Pattern) *Array { return &Array{Items: items} }

// MapOf returns a map pattern.
func MapOf(values Pattern) *Map { return &Map{Values: values} }

// UnionOf returns a union pattern.
func UnionOf(typs ...Pattern) *Union { return &Union{Types: typs} }

// FcnOf returns a function pattern.
func FcnOf(ret Pattern, params ...Pattern) *Fcn { return &Fcn{Params: params, Ret: ret} }

// Any returns a wildcard.
func Any(label string, oneOf ...types.Type) *Wildcard {
	return &Wildcard{Label: label, OneOf: oneOf}
}

// AnyNumber returns a wildcard matching int, long, float or double.
func AnyNumber(label string) *Wildcard {
	return Any(label, types.IntType(), types.LongType(), types.FloatType(), types.DoubleType())
}

// AnyRecord returns a wild record pattern. Fields are given as name, pattern pairs.
func AnyRecord(label string, fields ...any) *WildRecord {
	m := ordered.NewMap[string, Pattern]()
	for i := 0; i+1 < len(fields); i += 2 {
		m.Store(fields[i].(string), fields[i+1].(Pattern))
	}
	return &WildRecord{Label: label, Fields: m}
}

func (p *Concrete) labels(ls []string) []string { return ls }

func (p *Concrete) String() string { return p.Type.String() }

func (p *Array) labels(ls []string) []string { return p.Items.labels(ls) }

func (p *Array) String() string { return "array of " + p.Items.String() }

func (p *Map) labels(ls []string) []string { return p.Values.labels(ls) }

func (p *Map) String() string { return "map of " + p.Values.String() }

func (p *Union) labels(ls []string) []string {
	for _, sub := range p.Types {
		ls = sub.labels(ls)
	}
	return ls
}

func (p *Union) String() string {
	return "union of {" + stringseq.JoinStringer(slices.Values(p.Types), ", ") + "}"
}

func (p *Fcn) labels(ls []string) []string {
	for _, param := range p.Params {
		ls = param.labels(ls)
	}
	return p.Ret.labels(ls)
}

func (p *Fcn) String() string {
	return fmt.Sprintf("function (%s) -> %s", stringseq.JoinStringer(slices.Values(p.Params), ", "), p.Ret)
}

func (p *Wildcard) labels(ls []string) []string { return append(ls, p.Label) }

func (p *Wildcard) String() string {
	if len(p.OneOf) == 0 {
		return "any " + p.Label
	}
	return fmt.Sprintf("any %s of {%s}", p.Label, stringseq.JoinStringer(slices.Values(p.OneOf), ", "))
}

// allows returns true if the wildcard can be bound to t.
func (p *Wildcard) allows(t types.Type) bool {
	if len(p.OneOf) == 0 {
		return true
	}
	return slices.ContainsFunc(p.OneOf, func(allowed types.Type) bool {
		return types.Equal(allowed, t)
	})
}

func (p *WildRecord) labels(ls []string) []string {
	ls = append(ls, p.Label)
	for field := range p.Fields.Values() {
		ls = field.labels(ls)
	}
	return ls
}

func (p *WildRecord) String() string {
	if p.Fields.Size() == 0 {
		return "any record " + p.Label
	}
	var fields []string
	for name, field := range p.Fields.Iter() {
		fields = append(fields, name+": "+field.String())
	}
	return fmt.Sprintf("any record %s with {%s}", p.Label, strings.Join(fields, ", "))
}

func (p *WildEnum) labels(ls []string) []string { return append(ls, p.Label) }

func (p *WildEnum) String() string { return "any enum " + p.Label }

func (p *WildFixed) labels(ls []string) []string { return append(ls, p.Label) }

func (p *WildFixed) String() string { return "any fixed " + p.Label }

func (p *EnumFields) labels(ls []string) []string { return append(ls, p.Label, p.Record) }

func (p *EnumFields) String() string {
	return fmt.Sprintf("enum %s of fields of %s", p.Label, p.Record)
}

// IsWild returns true if the pattern contains a label.
func IsWild(p Pattern) bool {
	return len(p.labels(nil)) > 0
}
