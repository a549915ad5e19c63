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

// Package array provides the a. functions. Arrays are never modified in
// place: functions returning an array return a new one.
package array

import (
	"slices"

	"github.com/gx-org/pfa/build/sig"
	"github.com/gx-org/pfa/stdlib/builtin"
	"github.com/gx-org/pfa/stdlib/impl"
	"github.com/pkg/errors"
)

func items(args []any, i int) []any {
	return args[i].([]any)
}

func arrayOf(label string) *sig.Array {
	return sig.ArrayOf(sig.Any(label))
}

// Package of the array functions.
var Package = &builtin.Package{
	Prefix: "a.",
	Funcs: []*builtin.Func{
		builtin.Define("a.len", "Number of items in an array.", func(args []any) (any, error) {
			return int32(len(items(args, 0))), nil
		}, sig.New(sig.Int(), sig.P("a", arrayOf("A")))),
		builtin.Define("a.append", "Return a new array with an item added at the end.", func(args []any) (any, error) {
			return append(slices.Clone(items(args, 0)), args[1]), nil
		}, sig.New(arrayOf("A"), sig.P("a", arrayOf("A")), sig.P("item", sig.Any("A")))),
		builtin.Define("a.concat", "Concatenate two arrays.", func(args []any) (any, error) {
			return slices.Concat(items(args, 0), items(args, 1)), nil
		}, sig.New(arrayOf("A"), sig.P("a", arrayOf("A")), sig.P("b", arrayOf("A")))),
		builtin.Define("a.subseq", "Items between start (inclusive) and end (exclusive).", subseq,
			sig.New(arrayOf("A"), sig.P("a", arrayOf("A")), sig.P("start", sig.Int()), sig.P("end", sig.Int()))),
		builtin.Define("a.contains", "Test if an array contains an item.", contains,
			sig.New(sig.Boolean(), sig.P("haystack", arrayOf("A")), sig.P("needle", sig.Any("A")))),
		builtin.Define("a.map", "Apply a function to each item of an array.", mapItems,
			sig.New(arrayOf("B"), sig.P("a", arrayOf("A")), sig.P("fcn", sig.FcnOf(sig.Any("B"), sig.Any("A"))))),
		builtin.Define("a.filter", "Keep the items for which a predicate is true.", filter,
			sig.New(arrayOf("A"), sig.P("a", arrayOf("A")), sig.P("fcn", sig.FcnOf(sig.Boolean(), sig.Any("A"))))),
		builtin.Define("a.sum", "Sum of the items of an array.", sum,
			sig.New(sig.AnyNumber("A"), sig.P("a", sig.ArrayOf(sig.AnyNumber("A"))))),
		builtin.Define("a.mean", "Arithmetic mean of the items of a non-empty array.", mean,
			sig.New(sig.Double(), sig.P("a", sig.ArrayOf(sig.Double())))),
	},
}

func subseq(args []any) (any, error) {
	a := items(args, 0)
	start := index(args[1].(int32), len(a))
	end := index(args[2].(int32), len(a))
	if end <= start {
		return []any{}, nil
	}
	return slices.Clone(a[start:end]), nil
}

// index resolves negative indexes from the end and clips the result
// to the bounds of the array.
func index(i int32, n int) int {
	if i < 0 {
		i += int32(n)
	}
	return int(impl.Clamp(i, 0, int32(n)))
}

func contains(args []any) (any, error) {
	needle := args[1]
	return slices.ContainsFunc(items(args, 0), func(item any) bool {
		return equal(item, needle)
	}), nil
}

func mapItems(args []any) (any, error) {
	fcn := args[1].(builtin.Fcn)
	a := items(args, 0)
	out := make([]any, len(a))
	for i, item := range a {
		var err error
		if out[i], err = fcn(item); err != nil {
			return nil, errors.Wrapf(err, "a.map: item %d", i)
		}
	}
	return out, nil
}

func filter(args []any) (any, error) {
	fcn := args[1].(builtin.Fcn)
	var out []any
	for i, item := range items(args, 0) {
		keep, err := fcn(item)
		if err != nil {
			return nil, errors.Wrapf(err, "a.filter: item %d", i)
		}
		if keep.(bool) {
			out = append(out, item)
		}
	}
	if out == nil {
		out = []any{}
	}
	return out, nil
}

func sum(args []any) (any, error) {
	a := items(args, 0)
	if len(a) == 0 {
		return nil, errors.Errorf("a.sum: cannot infer the type of the sum of an empty array")
	}
	var r any
	var err error
	switch a[0].(type) {
	case int32:
		r, err = impl.Sum(typed[int32](a))
	case int64:
		r, err = impl.Sum(typed[int64](a))
	case float32:
		r = sumFloat(typed[float32](a))
	case float64:
		r = sumFloat(typed[float64](a))
	default:
		return nil, errors.Errorf("a.sum: unsupported item %T", a[0])
	}
	if err != nil {
		return nil, errors.Wrap(err, "a.sum")
	}
	return r, nil
}

func mean(args []any) (any, error) {
	a := typed[float64](items(args, 0))
	if len(a) == 0 {
		return nil, errors.Errorf("a.mean: empty array")
	}
	return sumFloat(a) / float64(len(a)), nil
}
