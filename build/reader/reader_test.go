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

package reader_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/gx-org/pfa/build/ast"
	"github.com/gx-org/pfa/build/fmterr"
	"github.com/gx-org/pfa/build/jsontree"
	"github.com/gx-org/pfa/build/reader"
)

func readExpr(t *testing.T, src string) (ast.Expr, error) {
	t.Helper()
	tree, err := jsontree.ParseString(src)
	if err != nil {
		t.Fatalf("cannot parse %s: %v", src, err)
	}
	return reader.ReadExpr(tree)
}

var ignoreSrc = cmpopts.IgnoreTypes(ast.Src{})

func TestLiterals(t *testing.T) {
	tests := []struct {
		src  string
		want ast.Expr
	}{
		{src: `2147483647`, want: &ast.LiteralInt{Value: 2147483647}},
		{src: `-2147483648`, want: &ast.LiteralInt{Value: -2147483648}},
		{src: `2147483648`, want: &ast.LiteralLong{Value: 2147483648}},
		{src: `2.5`, want: &ast.LiteralDouble{Value: 2.5}},
		{src: `1e3`, want: &ast.LiteralDouble{Value: 1000}},
		{src: `{"long": 2}`, want: &ast.LiteralLong{Value: 2}},
		{src: `{"float": 2}`, want: &ast.LiteralFloat{Value: 2}},
		{src: `{"double": 2}`, want: &ast.LiteralDouble{Value: 2}},
		{src: `{"int": 2}`, want: &ast.LiteralInt{Value: 2}},
		{src: `null`, want: &ast.LiteralNull{}},
		{src: `true`, want: &ast.LiteralBoolean{Value: true}},
		{src: `["hello"]`, want: &ast.LiteralString{Value: "hello"}},
		{src: `{"string": "x"}`, want: &ast.LiteralString{Value: "x"}},
		{src: `{"base64": "aGk="}`, want: &ast.LiteralBase64{Value: []byte("hi")}},
		{src: `"x"`, want: &ast.Ref{Name: "x"}},
		{
			src: `"x.a.0"`,
			want: &ast.AttrGet{
				Expr: &ast.Ref{Name: "x"},
				Path: []ast.Expr{&ast.LiteralString{Value: "a"}, &ast.LiteralInt{Value: 0}},
			},
		},
	}
	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			got, err := readExpr(t, test.src)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			if diff := cmp.Diff(test.want, got, ignoreSrc); diff != "" {
				t.Errorf("unexpected expression (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOverflowIsDouble(t *testing.T) {
	got, err := readExpr(t, `1e400`)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if _, ok := got.(*ast.LiteralDouble); !ok {
		t.Errorf("got %T but want *ast.LiteralDouble", got)
	}
}

func TestCall(t *testing.T) {
	tests := []struct {
		src  string
		want ast.Expr
	}{
		{
			src: `{"+": [2, 2]}`,
			want: &ast.Call{Name: "+", Args: []ast.Argument{
				&ast.LiteralInt{Value: 2},
				&ast.LiteralInt{Value: 2},
			}},
		},
		{
			src: `{"m.sqrt": 2.0}`,
			want: &ast.Call{Name: "m.sqrt", Args: []ast.Argument{
				&ast.LiteralDouble{Value: 2},
			}},
		},
		{
			src: `{"a.map": ["xs", {"fcn": "u.double"}]}`,
			want: &ast.Call{Name: "a.map", Args: []ast.Argument{
				&ast.Ref{Name: "xs"},
				&ast.FcnRef{Name: "u.double"},
			}},
		},
		{
			src:  `{"u.f": []}`,
			want: &ast.Call{Name: "u.f"},
		},
	}
	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			got, err := readExpr(t, test.src)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			if diff := cmp.Diff(test.want, got, ignoreSrc, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("unexpected call (-want +got):\n%s", diff)
			}
		})
	}
}

func TestKeySets(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{src: `{"if": true, "then": 1}`, want: "*ast.If"},
		{src: `{"if": true, "then": 1, "else": 2}`, want: "*ast.If"},
		{src: `{"cond": [{"if": true, "then": 1}]}`, want: "*ast.Cond"},
		{src: `{"cond": [{"if": true, "then": 1}], "else": 2}`, want: "*ast.Cond"},
		{src: `{"do": [1, 2]}`, want: "*ast.Do"},
		{src: `{"let": {"x": 1}}`, want: "*ast.Let"},
		{src: `{"set": {"x": 1}}`, want: "*ast.SetVar"},
		{src: `{"attr": "x", "path": [["a"]]}`, want: "*ast.AttrGet"},
		{src: `{"attr": "x", "path": [["a"]], "to": 2}`, want: "*ast.AttrTo"},
		{src: `{"cell": "c"}`, want: "*ast.CellGet"},
		{src: `{"cell": "c", "to": 2}`, want: "*ast.CellTo"},
		{src: `{"pool": "p", "path": [["a"]]}`, want: "*ast.PoolGet"},
		{src: `{"pool": "p", "path": [["a"]], "to": 2, "init": 0}`, want: "*ast.PoolTo"},
		{src: `{"pool": "p", "del": ["a"]}`, want: "*ast.PoolDel"},
		{src: `{"while": true, "do": 1}`, want: "*ast.While"},
		{src: `{"do": 1, "until": true}`, want: "*ast.DoUntil"},
		{src: `{"for": {"i": 0}, "while": true, "step": {"i": 1}, "do": 1}`, want: "*ast.For"},
		{src: `{"foreach": "x", "in": "xs", "do": 1}`, want: "*ast.Foreach"},
		{src: `{"foreach": "x", "in": "xs", "do": 1, "seq": true}`, want: "*ast.Foreach"},
		{src: `{"forkey": "k", "forval": "v", "in": "m", "do": 1}`, want: "*ast.Forkeyval"},
		{src: `{"call": "f", "args": [1]}`, want: "*ast.CallUserFcn"},
		{src: `{"cast": "x", "cases": [{"as": "int", "named": "xi", "do": "xi"}]}`, want: "*ast.CastBlock"},
		{src: `{"upcast": 1, "as": "double"}`, want: "*ast.Upcast"},
		{src: `{"ifnotnull": {"x": "y"}, "then": "x"}`, want: "*ast.IfNotNull"},
		{src: `{"pack": [{"int": 1}]}`, want: "*ast.Pack"},
		{src: `{"unpack": "b", "format": [{"x": "int"}], "then": "x"}`, want: "*ast.Unpack"},
		{src: `{"doc": "comment"}`, want: "*ast.Doc"},
		{src: `{"error": "bad", "code": 3}`, want: "*ast.Error"},
		{src: `{"try": 1, "filter": ["bad"]}`, want: "*ast.Try"},
		{src: `{"log": ["x"], "namespace": "ns"}`, want: "*ast.Log"},
		{src: `{"type": "int", "value": 3}`, want: "*ast.Literal"},
		{src: `{"new": [1, 2], "type": {"type": "array", "items": "int"}}`, want: "*ast.NewArray"},
		{src: `{"new": {"a": 1}, "type": {"type": "record", "name": "R", "fields": [{"name": "a", "type": "int"}]}}`, want: "*ast.NewObject"},
		{src: `{"f": 1, "@": "line 3"}`, want: "*ast.Call"},
	}
	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			got, err := readExpr(t, test.src)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			if gotT := fmt.Sprintf("%T", got); gotT != test.want {
				t.Errorf("got %s but want %s", gotT, test.want)
			}
		})
	}
}

func TestIfElse(t *testing.T) {
	withoutElse, err := readExpr(t, `{"if": true, "then": 1}`)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if ifn := withoutElse.(*ast.If); ifn.Else != nil {
		t.Errorf("got else branch %v but want none", ifn.Else)
	}
	withElse, err := readExpr(t, `{"if": true, "then": 1, "else": [2, 3]}`)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if ifn := withElse.(*ast.If); len(ifn.Else) != 2 {
		t.Errorf("got %d expressions in else but want 2", len(ifn.Else))
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{src: `{"if": true, "then": 1, "foo": 2}`, want: "unrecognized set of keys {foo, if, then}"},
		{src: `{"if": true}`, want: "unrecognized set of keys {if}"},
		{src: `{}`, want: "empty object"},
		{src: `2147483648000000000000`, want: "too large"},
		{src: `{"int": 2147483648}`, want: "out of the range of int"},
		{src: `"1x"`, want: "is not a valid symbol name"},
		{src: `"x..y"`, want: "empty segment"},
		{src: `[1, 2]`, want: "an array is not an expression"},
		{src: `{"pool": "p"}`, want: `"pool" requires a non-empty "path"`},
		{src: `{"pool": "p", "path": []}`, want: `"path" must not be empty`},
		{src: `{"attr": "x", "path": []}`, want: `"path" must not be empty`},
		{src: `{"pool": "p", "path": [["a"]], "to": 2}`, want: `requires an "init"`},
		{src: `{"let": {"1x": 1}}`, want: `"1x" is not a valid symbol name`},
		{src: `{"let": {}}`, want: "at least one symbol"},
		{src: `{"do": [1, {"let": {"x": {"if": true}}}]}`, want: "do.1.let.x"},
		{src: `{"fcn": "1f"}`, want: "not a valid function name"},
		{src: `{"params": [{"x": "int"}, {"x": "int"}], "ret": "int", "do": "x"}`, want: "declared more than once"},
		{src: `{"cast": "x", "cases": [{"as": "int", "do": "xi"}]}`, want: "exactly the keys"},
		{src: `{"cond": [{"if": true, "then": 1, "else": 2}]}`, want: "cond.0"},
		{src: `{"pack": [{"quad": 1}]}`, want: "pack.0"},
		{src: `{"error": "bad", "code": 1.5}`, want: `"code" must be an integer`},
		{src: `{"type": "int", "value": "x"}`, want: "invalid literal value"},
		{src: `{"type": "Unknown", "value": 1}`, want: "is not defined"},
		{src: `{"params": [], "ret": "int", "do": 1}`, want: "functions can only be passed as arguments"},
		{src: `{"forkey": "k", "forval": "k", "in": "m", "do": 1}`, want: "must be different"},
	}
	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			_, err := readExpr(t, test.src)
			if err == nil {
				t.Fatalf("expected an error containing %q", test.want)
			}
			if !fmterr.IsSyntax(err) {
				t.Errorf("got %v but want a syntax error", err)
			}
			if !strings.Contains(err.Error(), test.want) {
				t.Errorf("got error %q but want it to contain %q", err.Error(), test.want)
			}
		})
	}
}

func TestYAMLPosition(t *testing.T) {
	tree, err := jsontree.ParseString("do:\n  - let:\n      x:\n        if: true\n")
	if err != nil {
		t.Fatal(err)
	}
	_, err = reader.ReadExpr(tree)
	if err == nil {
		t.Fatal("expected an error")
	}
	for _, want := range []string{"do.0.let.x", "line 4"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not contain %q", err.Error(), want)
		}
	}
}

func TestForms(t *testing.T) {
	forms := reader.Forms()
	if len(forms) == 0 {
		t.Fatal("no forms")
	}
	for _, form := range forms {
		keys := strings.Split(form, ",")
		for i, key := range keys {
			if !reader.IsReserved(key) {
				t.Errorf("key %q of form {%s} is not reserved", key, form)
			}
			if i > 0 && keys[i-1] >= key {
				t.Errorf("keys of form {%s} are not sorted", form)
			}
		}
	}
}

func TestNames(t *testing.T) {
	tests := []struct {
		name           string
		symbol, fcn    bool
		operator, resv bool
	}{
		{name: "x", symbol: true, fcn: true},
		{name: "_x1", symbol: true, fcn: true},
		{name: "m.sqrt", fcn: true},
		{name: "u.f", fcn: true},
		{name: "1x"},
		{name: "a.", fcn: false},
		{name: "a..b", fcn: false},
		{name: ".a", fcn: false},
		{name: "m.special.erf", fcn: true},
		{name: "m.link.l1", fcn: true},
		{name: "+", operator: true},
		{name: "&&", operator: true},
		{name: "u-", operator: true},
		{name: "if", symbol: true, fcn: true, resv: true},
		{name: "fill", symbol: true, fcn: true, resv: true},
	}
	for _, test := range tests {
		if got := reader.IsSymbol(test.name); got != test.symbol {
			t.Errorf("IsSymbol(%q) = %t but want %t", test.name, got, test.symbol)
		}
		if got := reader.IsFunctionName(test.name); got != test.fcn {
			t.Errorf("IsFunctionName(%q) = %t but want %t", test.name, got, test.fcn)
		}
		if got := reader.IsOperator(test.name); got != test.operator {
			t.Errorf("IsOperator(%q) = %t but want %t", test.name, got, test.operator)
		}
		if got := reader.IsReserved(test.name); got != test.resv {
			t.Errorf("IsReserved(%q) = %t but want %t", test.name, got, test.resv)
		}
	}
}
