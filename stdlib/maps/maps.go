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

// Package maps provides the map. functions.
// Functions listing the content of a map sort it by key.
package maps

import (
	"maps"
	"slices"

	"github.com/gx-org/pfa/build/sig"
	"github.com/gx-org/pfa/stdlib/builtin"
	"github.com/pkg/errors"
	expmaps "golang.org/x/exp/maps"
)

func values(args []any, i int) map[string]any {
	return args[i].(map[string]any)
}

func mapOf(label string) *sig.Map {
	return sig.MapOf(sig.Any(label))
}

func sortedKeys(m map[string]any) []string {
	keys := expmaps.Keys(m)
	slices.Sort(keys)
	return keys
}

// Package of the map functions.
var Package = &builtin.Package{
	Prefix: "map.",
	Funcs: []*builtin.Func{
		builtin.Define("map.len", "Number of entries in a map.", func(args []any) (any, error) {
			return int32(len(values(args, 0))), nil
		}, sig.New(sig.Int(), sig.P("m", mapOf("A")))),
		builtin.Define("map.keys", "Keys of a map in increasing order.", func(args []any) (any, error) {
			keys := sortedKeys(values(args, 0))
			out := make([]any, len(keys))
			for i, k := range keys {
				out[i] = k
			}
			return out, nil
		}, sig.New(sig.ArrayOf(sig.String()), sig.P("m", mapOf("A")))),
		builtin.Define("map.values", "Values of a map ordered by key.", func(args []any) (any, error) {
			m := values(args, 0)
			keys := sortedKeys(m)
			out := make([]any, len(keys))
			for i, k := range keys {
				out[i] = m[k]
			}
			return out, nil
		}, sig.New(sig.ArrayOf(sig.Any("A")), sig.P("m", mapOf("A")))),
		builtin.Define("map.containsKey", "Test if a map has a key.", func(args []any) (any, error) {
			_, ok := values(args, 0)[args[1].(string)]
			return ok, nil
		}, sig.New(sig.Boolean(), sig.P("m", mapOf("A")), sig.P("key", sig.String()))),
		builtin.Define("map.add", "Return a new map with a key set to a value.", func(args []any) (any, error) {
			out := maps.Clone(values(args, 0))
			if out == nil {
				out = make(map[string]any)
			}
			out[args[1].(string)] = args[2]
			return out, nil
		}, sig.New(mapOf("A"), sig.P("m", mapOf("A")), sig.P("key", sig.String()), sig.P("value", sig.Any("A")))),
		builtin.Define("map.remove", "Return a new map without a key.", func(args []any) (any, error) {
			out := maps.Clone(values(args, 0))
			delete(out, args[1].(string))
			return out, nil
		}, sig.New(mapOf("A"), sig.P("m", mapOf("A")), sig.P("key", sig.String()))),
		builtin.Define("map.map", "Apply a function to each value of a map.", func(args []any) (any, error) {
			m := values(args, 0)
			fcn := args[1].(builtin.Fcn)
			out := make(map[string]any, len(m))
			for _, k := range sortedKeys(m) {
				var err error
				if out[k], err = fcn(m[k]); err != nil {
					return nil, errors.Wrapf(err, "map.map: key %q", k)
				}
			}
			return out, nil
		}, sig.New(mapOf("B"), sig.P("m", mapOf("A")), sig.P("fcn", sig.FcnOf(sig.Any("B"), sig.Any("A"))))),
	},
}
