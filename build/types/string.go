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
	"strconv"

	"github.com/gx-org/pfa/build/jsontree"
)

// Schema returns the JSON schema of a type as a document tree.
// Named types are fully described the first time they appear and
// referred to by name afterwards.
func Schema(t Type) any {
	return schema(t, make(map[string]bool))
}

func schema(t Type, seen map[string]bool) any {
	switch tT := t.(type) {
	case *primitive:
		return tT.kind.String()
	case *Array:
		return jsontree.NewObject().
			Set("type", "array").
			Set("items", schema(tT.Items, seen))
	case *Map:
		return jsontree.NewObject().
			Set("type", "map").
			Set("values", schema(tT.Values, seen))
	case *Union:
		members := make([]any, len(tT.Types))
		for i, sub := range tT.Types {
			members[i] = schema(sub, seen)
		}
		return members
	case NamedType:
		name := tT.FullName()
		if seen[name] {
			return name
		}
		seen[name] = true
		return namedSchema(tT, seen)
	case *Fcn:
		params := make([]any, len(tT.Params))
		for i, p := range tT.Params {
			params[i] = schema(p, seen)
		}
		return jsontree.NewObject().
			Set("type", "function").
			Set("params", params).
			Set("ret", schema(tT.Ret, seen))
	}
	return t.Kind().String()
}

func namedSchema(t NamedType, seen map[string]bool) any {
	obj := jsontree.NewObject().
		Set("type", t.Kind().String()).
		Set("name", t.FullName())
	switch tT := t.(type) {
	case *Fixed:
		obj.Set("size", jsontree.Number(strconv.Itoa(tT.Size)))
	case *Enum:
		symbols := make([]any, len(tT.Symbols))
		for i, s := range tT.Symbols {
			symbols[i] = s
		}
		obj.Set("symbols", symbols)
	case *Record:
		fields := make([]any, len(tT.Fields))
		for i, f := range tT.Fields {
			field := jsontree.NewObject().
				Set("name", f.Name).
				Set("type", schema(f.Type, seen))
			if f.HasDefault {
				field.Set("default", f.Default)
			}
			fields[i] = field
		}
		obj.Set("fields", fields)
	}
	return obj
}

func typeString(t Type) string {
	return jsontree.Marshal(Schema(t))
}
