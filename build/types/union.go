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

import (
	"github.com/pkg/errors"
)

// unionKey identifies the slot of a type in a union: unions may not
// contain two types with the same key.
func unionKey(t Type) string {
	if n, ok := t.(NamedType); ok {
		return n.FullName()
	}
	return t.Kind().String()
}

// NewUnion returns a union with the given members.
// Members cannot be unions, and two members cannot have the same kind
// unless they are named types with different names.
func NewUnion(members ...Type) (*Union, error) {
	if len(members) == 0 {
		return nil, errors.Errorf("union must have at least one member")
	}
	seen := make(map[string]bool)
	for _, t := range members {
		switch t.Kind() {
		case UnionKind:
			return nil, errors.Errorf("union %s cannot directly contain another union", unionString(members))
		case FcnKind, ExceptionKind:
			return nil, errors.Errorf("union %s cannot contain %s", unionString(members), t)
		}
		key := unionKey(t)
		if seen[key] {
			return nil, errors.Errorf("union %s contains %s more than once", unionString(members), key)
		}
		seen[key] = true
	}
	return &Union{Types: append([]Type{}, members...)}, nil
}

func unionString(members []Type) string {
	return typeString(&Union{Types: members})
}

// Broadest returns the narrowest type accepting all the given types:
//   - exception types are ignored unless all types are exceptions,
//   - numeric types are promoted to the widest one,
//   - arrays (resp. maps) are merged into an array (resp. map) of the broadest items (resp. values),
//   - anything else becomes a union, flattening nested unions.
func Broadest(typs ...Type) (Type, error) {
	var flat []Type
	for _, t := range typs {
		if t.Kind() == ExceptionKind {
			continue
		}
		if u, ok := t.(*Union); ok {
			flat = append(flat, u.Types...)
			continue
		}
		flat = append(flat, t)
	}
	if len(flat) == 0 {
		if len(typs) == 0 {
			return nil, errors.Errorf("cannot find the broadest type of an empty list")
		}
		return ExceptionType(), nil
	}
	var members []Type
	for _, t := range flat {
		var err error
		members, err = mergeMember(members, t)
		if err != nil {
			return nil, err
		}
	}
	if len(members) == 1 {
		return members[0], nil
	}
	return NewUnion(members...)
}

func mergeMember(members []Type, t Type) ([]Type, error) {
	for i, m := range members {
		if Accepts(m, t) {
			return members, nil
		}
		if Accepts(t, m) {
			members[i] = t
			return dedupe(members), nil
		}
		if m.Kind() != t.Kind() {
			continue
		}
		switch mT := m.(type) {
		case *Array:
			items, err := Broadest(mT.Items, t.(*Array).Items)
			if err != nil {
				return nil, err
			}
			members[i] = ArrayOf(items)
			return members, nil
		case *Map:
			values, err := Broadest(mT.Values, t.(*Map).Values)
			if err != nil {
				return nil, err
			}
			members[i] = MapOf(values)
			return members, nil
		}
		if !t.Kind().IsNamed() || unionKey(m) == unionKey(t) {
			return nil, errors.Errorf("cannot combine %s and %s into one type", m, t)
		}
	}
	return append(members, t), nil
}

// dedupe removes members accepted by another member.
func dedupe(members []Type) []Type {
	var out []Type
	for i, m := range members {
		absorbed := false
		for j, other := range members {
			if i != j && Accepts(other, m) && (!Accepts(m, other) || j < i) {
				absorbed = true
				break
			}
		}
		if !absorbed {
			out = append(out, m)
		}
	}
	return out
}

// Nullable returns a union of a type with null.
func Nullable(t Type) (Type, error) {
	return Broadest(t, NullType())
}

// WithoutNull returns the type of the non-null values of a union.
// The second value is false if the type is not a union containing null
// and at least another type.
func WithoutNull(t Type) (Type, bool) {
	u, ok := t.(*Union)
	if !ok {
		return nil, false
	}
	var rest []Type
	hasNull := false
	for _, sub := range u.Types {
		if sub.Kind() == NullKind {
			hasNull = true
			continue
		}
		rest = append(rest, sub)
	}
	if !hasNull || len(rest) == 0 {
		return nil, false
	}
	if len(rest) == 1 {
		return rest[0], true
	}
	return &Union{Types: rest}, true
}

// Members returns the members of a union or the type itself.
func Members(t Type) []Type {
	if u, ok := t.(*Union); ok {
		return u.Types
	}
	return []Type{t}
}

// WidestNumeric returns the widest numeric type of a list of numeric types.
func WidestNumeric(typs ...Type) (Type, bool) {
	var widest Type
	for _, t := range typs {
		if !t.Kind().IsNumeric() {
			return nil, false
		}
		if widest == nil || t.Kind() > widest.Kind() {
			widest = t
		}
	}
	return widest, widest != nil
}
