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

import "slices"

// memo records the pairs of distinct named types currently being compared.
// A pair found in the memo is assumed compatible: this breaks the recursion
// through self-referencing records.
type memo map[[2]NamedType]bool

func (m *memo) enter(x, y NamedType) bool {
	if *m == nil {
		*m = make(memo)
	}
	key := [2]NamedType{x, y}
	if (*m)[key] {
		return false
	}
	(*m)[key] = true
	return true
}

// Accepts reports whether a value of type candidate can be used where
// a value of type target is expected.
//
// Numeric types are promoted (int to long to float to double, never
// backward). A union accepts a type if one of its members does, and
// accepts another union if every member of the other union is accepted.
// Named types accept only types with the same full name.
func Accepts(target, candidate Type) bool {
	return accepts(target, candidate, nil)
}

// Equal returns true if both types accept each other.
func Equal(x, y Type) bool {
	if x == y {
		return true
	}
	var m memo
	return accepts(x, y, &m) && accepts(y, x, &m)
}

func accepts(x, y Type, m *memo) bool {
	if m == nil {
		m = new(memo)
	}
	if x == y {
		return true
	}
	if y.Kind() == ExceptionKind {
		return true
	}
	if yU, ok := y.(*Union); ok && x.Kind() != UnionKind {
		// A non-union accepts a union if it accepts every member.
		for _, sub := range yU.Types {
			if !accepts(x, sub, m) {
				return false
			}
		}
		return len(yU.Types) > 0
	}
	switch xT := x.(type) {
	case *primitive:
		return acceptsPrimitive(xT.kind, y.Kind())
	case *Array:
		yT, ok := y.(*Array)
		return ok && accepts(xT.Items, yT.Items, m)
	case *Map:
		yT, ok := y.(*Map)
		return ok && accepts(xT.Values, yT.Values, m)
	case *Fixed:
		yT, ok := y.(*Fixed)
		return ok && xT.FullName() == yT.FullName() && xT.Size == yT.Size
	case *Enum:
		yT, ok := y.(*Enum)
		if !ok || xT.FullName() != yT.FullName() {
			return false
		}
		for _, s := range yT.Symbols {
			if xT.Index(s) < 0 {
				return false
			}
		}
		return true
	case *Record:
		yT, ok := y.(*Record)
		if !ok || xT.FullName() != yT.FullName() {
			return false
		}
		return acceptsRecord(xT, yT, m)
	case *Union:
		if yT, ok := y.(*Union); ok {
			for _, ySub := range yT.Types {
				if !slices.ContainsFunc(xT.Types, func(xSub Type) bool {
					return accepts(xSub, ySub, m)
				}) {
					return false
				}
			}
			return true
		}
		return slices.ContainsFunc(xT.Types, func(xSub Type) bool {
			return accepts(xSub, y, m)
		})
	case *Fcn:
		yT, ok := y.(*Fcn)
		if !ok || len(xT.Params) != len(yT.Params) {
			return false
		}
		// Parameters are contravariant, the result is covariant.
		for i := range xT.Params {
			if !accepts(yT.Params[i], xT.Params[i], m) {
				return false
			}
		}
		return accepts(xT.Ret, yT.Ret, m)
	case *exception:
		return y.Kind() == ExceptionKind
	}
	return false
}

func acceptsPrimitive(x, y Kind) bool {
	if x.IsNumeric() {
		return y.IsNumeric() && y <= x
	}
	return x == y
}

// acceptsRecord compares two distinct records with the same name.
// Within one document, a name denotes a single record instance so
// this only happens for types coming from different documents.
func acceptsRecord(x, y *Record, m *memo) bool {
	if !m.enter(x, y) {
		return true
	}
	if len(x.Fields) != len(y.Fields) {
		return false
	}
	for _, xf := range x.Fields {
		yf, ok := y.Field(xf.Name)
		if !ok || !accepts(xf.Type, yf.Type, m) {
			return false
		}
	}
	return true
}
