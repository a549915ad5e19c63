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

package check_test

import (
	"strings"
	"testing"

	"github.com/gx-org/pfa/base/ordered"
	"github.com/gx-org/pfa/build/ast"
	"github.com/gx-org/pfa/build/check"
	"github.com/gx-org/pfa/build/fmterr"
	"github.com/gx-org/pfa/build/jsontree"
	"github.com/gx-org/pfa/build/reader"
	"github.com/gx-org/pfa/build/sig"
	"github.com/gx-org/pfa/build/types"
	"github.com/gx-org/pfa/stdlib"
	"github.com/gx-org/pfa/stdlib/builtin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type symbol struct {
	name string
	typ  types.Type
}

func checkExpr(t *testing.T, src string, conf check.Config, syms ...symbol) (types.Type, *check.Info, error) {
	t.Helper()
	tree, err := jsontree.ParseString(src)
	if err != nil {
		t.Fatalf("cannot parse %s: %v", src, err)
	}
	expr, err := reader.ReadExpr(tree)
	if err != nil {
		t.Fatalf("cannot read %s:\n%+v", src, err)
	}
	if conf.Registry == nil {
		conf.Registry = stdlib.Default()
	}
	symMap := ordered.NewMap[string, types.Type]()
	for _, sym := range syms {
		symMap.Store(sym.name, sym.typ)
	}
	return check.Expr(expr, symMap, conf)
}

func nullable(t *testing.T, typ types.Type) types.Type {
	t.Helper()
	u, err := types.Nullable(typ)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func union(t *testing.T, typs ...types.Type) types.Type {
	t.Helper()
	u, err := types.Broadest(typs...)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

var (
	intArray = `{"type": {"type": "array", "items": "int"}, "value": [1, 2, 3]}`
	intMap   = `{"type": {"type": "map", "values": "int"}, "value": {"a": 1}}`
)

func TestExprTypes(t *testing.T) {
	nullableInt := nullable(t, types.IntType())
	tests := []struct {
		src  string
		syms []symbol
		want types.Type
	}{
		{src: `{"+": [2, 2]}`, want: types.IntType()},
		{src: `{"+": [2, 2.5]}`, want: types.DoubleType()},
		{src: `{"+": [2, {"long": 3}]}`, want: types.LongType()},
		{src: `{"/": [2, 2]}`, want: types.DoubleType()},
		{src: `{"m.round": [2.5]}`, want: types.LongType()},
		{src: `{"do": [{"let": {"x": 1}}, {"set": {"x": 2}}, "x"]}`, want: types.IntType()},
		{src: `{"do": []}`, want: types.NullType()},
		{src: `{"let": {"x": 1}}`, want: types.NullType()},
		{src: `{"if": true, "then": 1}`, want: nullableInt},
		{src: `{"if": true, "then": 1, "else": 2.5}`, want: types.DoubleType()},
		{src: `{"if": true, "then": {"error": "bad"}, "else": 1}`, want: types.IntType()},
		{src: `{"cond": [{"if": true, "then": 1}, {"if": false, "then": 2}], "else": 3}`, want: types.IntType()},
		{src: `{"cond": [{"if": true, "then": 1}]}`, want: nullableInt},
		{src: `{"while": false, "do": 1}`, want: types.NullType()},
		{src: `{"do": [{"let": {"i": 0}}, {"do": {"set": {"i": 1}}, "until": {"==": ["i", 1]}}]}`, want: types.NullType()},
		{src: `{"for": {"i": 0}, "while": {"<": ["i", 3]}, "step": {"i": {"+": ["i", 1]}}, "do": "i"}`, want: types.NullType()},
		{src: `{"foreach": "x", "in": ` + intArray + `, "do": {"+": ["x", 1]}}`, want: types.NullType()},
		{src: `{"forkey": "k", "forval": "v", "in": ` + intMap + `, "do": {"s.len": ["k"]}}`, want: types.NullType()},
		{src: `{"attr": "r", "path": [["a"]]}`, syms: []symbol{{"r", recordA()}}, want: types.IntType()},
		{src: `{"attr": "xs", "path": [0]}`, syms: []symbol{{"xs", types.ArrayOf(types.StringType())}}, want: types.StringType()},
		{src: `"xs.0"`, syms: []symbol{{"xs", types.ArrayOf(types.StringType())}}, want: types.StringType()},
		{src: `{"attr": "xs", "path": [0], "to": ["hi"]}`, syms: []symbol{{"xs", types.ArrayOf(types.StringType())}}, want: types.ArrayOf(types.StringType())},
		{src: `{"ifnotnull": {"y": "x"}, "then": {"+": ["y", 1]}, "else": 0}`, syms: []symbol{{"x", nullableInt}}, want: types.IntType()},
		{src: `{"a.map": [` + intArray + `, {"params": [{"x": "int"}], "ret": "double", "do": {"m.sqrt": ["x"]}}]}`, want: types.ArrayOf(types.DoubleType())},
		{src: `{"a.map": [` + intArray + `, {"fcn": "m.sqrt"}]}`, want: types.ArrayOf(types.DoubleType())},
		{src: `{"a.map": [` + intArray + `, {"fcn": "+", "fill": {"y": 1.5}}]}`, want: types.ArrayOf(types.DoubleType())},
		{src: `{"a.len": [` + intArray + `]}`, want: types.IntType()},
		{src: `{"new": {"a": 1}, "type": {"type": "map", "values": "double"}}`, want: types.MapOf(types.DoubleType())},
		{src: `{"new": [1, 2], "type": {"type": "array", "items": "long"}}`, want: types.ArrayOf(types.LongType())},
		{src: `{"upcast": 1, "as": "double"}`, want: types.DoubleType()},
		{src: `{"try": [1]}`, want: nullableInt},
		{src: `{"try": [{"error": "bad"}]}`, want: types.NullType()},
		{src: `{"error": "bad"}`, want: types.ExceptionType()},
		{src: `{"doc": "some text"}`, want: types.NullType()},
		{src: `{"log": ["x", ["message"]]}`, syms: []symbol{{"x", types.IntType()}}, want: types.NullType()},
		{src: `{"pack": [{"int": 1}, {"double": 2}, {"raw": "b"}]}`, syms: []symbol{{"b", types.BytesType()}}, want: types.BytesType()},
		{src: `{"unpack": "b", "format": [{"x": "int"}, {"y": "double"}], "then": {"+": ["x", "y"]}}`, syms: []symbol{{"b", types.BytesType()}}, want: nullable(t, types.DoubleType())},
	}
	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			got, _, err := checkExpr(t, test.src, check.Config{}, test.syms...)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			if !types.Equal(got, test.want) {
				t.Errorf("got type %s but want %s", got, test.want)
			}
		})
	}
}

func recordA() types.Type {
	return &types.Record{
		Named:  types.NewNamed("R"),
		Fields: []*types.Field{{Name: "a", Type: types.IntType()}},
	}
}

func TestExprErrors(t *testing.T) {
	tests := []struct {
		src  string
		syms []symbol
		err  string
	}{
		{src: `"x"`, err: `unknown symbol "x"`},
		{src: `{"+": [["a"], 1]}`, err: "no signature of + accepts arguments"},
		{src: `{"s.len": [1]}`, err: "Signatures are:\n\t(s: \"string\") -> \"int\""},
		{src: `{"nope": [1]}`, err: `unknown function "nope"`},
		{src: `{"do": [{"let": {"x": 1}}, {"set": {"x": 2.5}}]}`, err: `cannot assign a value of type "double" to "x"`},
		{src: `{"do": [{"let": {"x": 1}}, {"do": [{"let": {"x": 2}}]}]}`, err: `symbol "x" is already defined`},
		{src: `{"set": {"x": 1}}`, err: `unknown symbol "x"`},
		{src: `{"let": {"x": {"error": "bad"}}}`, err: "raising an error"},
		{src: `{"if": 1, "then": 1}`, err: "predicate has type"},
		{
			src: `{"do": [{"let": {"s": 0}}, {"foreach": "x", "in": ` + intArray + `, "do": {"set": {"s": "x"}}}]}`,
			err: `symbol "s" cannot be modified from this scope`,
		},
		{
			src: `{"do": [{"let": {"y": 1}}, {"a.map": [` + intArray + `, {"params": [{"x": "int"}], "ret": "int", "do": "y"}]}]}`,
			err: `unknown symbol "y"`,
		},
		{
			src: `{"a.map": [` + intArray + `, {"params": [{"x": "int"}], "ret": "string", "do": "x"}]}`,
			err: "function body returns",
		},
		{src: `{"foreach": "x", "in": 1, "do": "x"}`, err: "an array is required"},
		{src: `{"forkey": "k", "forval": "v", "in": ` + intArray + `, "do": "k"}`, err: "a map is required"},
		{src: `{"attr": "x", "path": [0]}`, syms: []symbol{{"x", types.IntType()}}, err: "cannot select into"},
		{src: `{"attr": "xs", "path": [["a"]]}`, syms: []symbol{{"xs", types.ArrayOf(types.IntType())}}, err: "array index has type"},
		{src: `{"attr": "r", "path": [["b"]]}`, syms: []symbol{{"r", recordA()}}, err: `record R has no field "b"`},
		{src: `{"attr": "xs", "path": [0], "to": 1}`, syms: []symbol{{"xs", types.ArrayOf(types.StringType())}}, err: "replacement value has type"},
		{src: `{"ifnotnull": {"y": "x"}, "then": "y"}`, syms: []symbol{{"x", types.IntType()}}, err: "a union with null is required"},
		{src: `{"new": {"a": ["s"]}, "type": {"type": "map", "values": "int"}}`, err: "value a has type"},
		{src: `{"new": {"b": 1}, "type": {"type": "record", "name": "R", "fields": [{"name": "a", "type": "int"}]}}`, err: `record R has no field "b"`},
		{src: `{"new": {}, "type": {"type": "record", "name": "R", "fields": [{"name": "a", "type": "int"}]}}`, err: `field "a" of record R is missing`},
		{src: `{"upcast": 1.5, "as": "int"}`, err: "upcast expression has type"},
		{src: `{"pack": [{"int": ["s"]}]}`, err: "cannot pack a value"},
		{src: `{"u.f": [1]}`, err: `unknown user function "u.f"`},
		{src: `{"emit": [1]}`, err: `unknown function "emit"`},
	}
	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			_, _, err := checkExpr(t, test.src, check.Config{}, test.syms...)
			if err == nil {
				t.Fatalf("expected an error containing %q", test.err)
			}
			if !fmterr.IsSemantic(err) {
				t.Errorf("error %v is not a semantic error", err)
			}
			if !strings.Contains(err.Error(), test.err) {
				t.Errorf("error %q does not contain %q", err.Error(), test.err)
			}
		})
	}
}

func TestCast(t *testing.T) {
	u := union(t, types.NullType(), types.IntType(), types.StringType())
	x := symbol{"x", u}
	const intCase = `{"as": "int", "named": "i", "do": "i"}`
	const stringCase = `{"as": "string", "named": "s", "do": {"s.len": ["s"]}}`
	const nullCase = `{"as": "null", "named": "n", "do": 0}`
	t.Run("exhaustive", func(t *testing.T) {
		got, _, err := checkExpr(t, `{"cast": "x", "cases": [`+intCase+`, `+stringCase+`, `+nullCase+`]}`, check.Config{}, x)
		if err != nil {
			t.Fatalf("%+v", err)
		}
		if !types.Equal(got, types.IntType()) {
			t.Errorf("got %s but want int", got)
		}
	})
	t.Run("missing case", func(t *testing.T) {
		_, _, err := checkExpr(t, `{"cast": "x", "cases": [`+intCase+`, `+stringCase+`]}`, check.Config{}, x)
		if err == nil || !strings.Contains(err.Error(), `cast is not exhaustive: "null" is not handled`) {
			t.Errorf("got error %v but want a non exhaustive cast", err)
		}
	})
	t.Run("extra case", func(t *testing.T) {
		_, _, err := checkExpr(t, `{"cast": "x", "cases": [`+intCase+`, `+stringCase+`, `+nullCase+`, {"as": "double", "named": "d", "do": 1}]}`, check.Config{}, x)
		if err == nil || !strings.Contains(err.Error(), `cast case "double" is not a possible type`) {
			t.Errorf("got error %v but want an impossible case", err)
		}
	})
	t.Run("partial", func(t *testing.T) {
		got, _, err := checkExpr(t, `{"cast": "x", "cases": [`+intCase+`], "partial": true}`, check.Config{}, x)
		if err != nil {
			t.Fatalf("%+v", err)
		}
		if want := nullable(t, types.IntType()); !types.Equal(got, want) {
			t.Errorf("got %s but want %s", got, want)
		}
	})
}

func TestUpcastInsertion(t *testing.T) {
	src := `{"a.map": [` + intArray + `, {"params": [{"x": "int"}], "ret": "double", "do": {"+": ["x", 1]}}]}`
	_, info, err := checkExpr(t, src, check.Config{})
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if len(info.Upcasts) != 1 {
		t.Fatalf("got %d upcasts but want 1", len(info.Upcasts))
	}
	up := info.Upcasts[0]
	if !types.Equal(up.As.Type(), types.DoubleType()) {
		t.Errorf("upcast to %s but want double", up.As.Type())
	}
	if _, ok := up.Expr.(*ast.Call); !ok {
		t.Errorf("upcast wraps %T but want the call to +", up.Expr)
	}
	if got, _ := info.TypeOf(up); !types.Equal(got, types.DoubleType()) {
		t.Errorf("upcast has type %v but want double", got)
	}
}

func TestCallsRecorded(t *testing.T) {
	_, info, err := checkExpr(t, `{"+": [1, {"long": 2}]}`, check.Config{})
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if len(info.Calls) != 1 {
		t.Fatalf("got %d calls but want 1", len(info.Calls))
	}
	for call, match := range info.Calls {
		if call.Name != "+" {
			t.Errorf("got call to %s but want +", call.Name)
		}
		for i, param := range match.Params {
			if !types.Equal(param, types.LongType()) {
				t.Errorf("parameter %d has type %s but want long", i, param)
			}
		}
	}
}

func testRegistry(t *testing.T) *stdlib.Registry {
	t.Helper()
	eval := func(args []any) (any, error) { return args[0], nil }
	reg, err := stdlib.New(&builtin.Package{
		Prefix: "t.",
		Funcs: []*builtin.Func{
			builtin.Define("t.old", "", eval,
				sig.New(sig.Int(), sig.P("x", sig.Int())).WithLife(sig.Lifespan{Deprecation: "0.7.0", Contingency: "use t.new"}),
			),
			builtin.Define("t.gone", "", eval,
				sig.New(sig.Int(), sig.P("x", sig.Int())).WithLife(sig.Lifespan{Death: "0.5.0"}),
			),
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

func TestLifespan(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	conf := check.Config{Registry: testRegistry(t), Logger: zap.New(core)}
	if _, _, err := checkExpr(t, `{"t.old": [1]}`, conf); err != nil {
		t.Fatalf("%+v", err)
	}
	warnings := logs.FilterMessage("call to a deprecated function").All()
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings but want 1", len(warnings))
	}
	if got := warnings[0].ContextMap()["contingency"]; got != "use t.new" {
		t.Errorf("got contingency %v but want use t.new", got)
	}
	_, _, err := checkExpr(t, `{"t.gone": [1]}`, conf)
	if err == nil || !strings.Contains(err.Error(), `function "t.gone" does not exist in PFA v0.8.1`) {
		t.Errorf("got error %v but want a dead function", err)
	}
	conf.Version = "0.4.0"
	if _, _, err := checkExpr(t, `{"t.gone": [1]}`, conf); err != nil {
		t.Errorf("t.gone does not exist in PFA 0.4.0: %v", err)
	}
	conf.Version = "not a version"
	if _, _, err := checkExpr(t, `{"t.gone": [1]}`, conf); err == nil {
		t.Errorf("invalid version accepted")
	}
}
