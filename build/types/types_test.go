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

package types_test

import (
	"strings"
	"testing"

	"github.com/gx-org/pfa/build/fmterr"
	"github.com/gx-org/pfa/build/jsontree"
	"github.com/gx-org/pfa/build/types"
)

func mustUnion(t *testing.T, members ...types.Type) types.Type {
	t.Helper()
	u, err := types.NewUnion(members...)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestPromotion(t *testing.T) {
	numerics := []types.Type{
		types.IntType(),
		types.LongType(),
		types.FloatType(),
		types.DoubleType(),
	}
	for i, x := range numerics {
		for j, y := range numerics {
			got := types.Accepts(x, y)
			want := j <= i
			if got != want {
				t.Errorf("%s accepts %s: got %v but want %v", x, y, got, want)
			}
			if i != j && types.Accepts(x, y) == types.Accepts(y, x) {
				t.Errorf("%s and %s accept each other in both or neither directions", x, y)
			}
		}
	}
	if types.Accepts(types.StringType(), types.IntType()) {
		t.Errorf("string accepts int")
	}
	if types.Accepts(types.IntType(), types.BooleanType()) {
		t.Errorf("int accepts boolean")
	}
}

func TestUnionAccepts(t *testing.T) {
	intString := mustUnion(t, types.IntType(), types.StringType())
	stringInt := mustUnion(t, types.StringType(), types.IntType())
	onlyInt := mustUnion(t, types.IntType())
	tests := []struct {
		target, candidate types.Type
		want              bool
	}{
		{target: intString, candidate: types.IntType(), want: true},
		{target: intString, candidate: types.LongType(), want: false},
		{target: onlyInt, candidate: intString, want: false},
		{target: intString, candidate: stringInt, want: true},
		{target: stringInt, candidate: intString, want: true},
		{target: types.DoubleType(), candidate: mustUnion(t, types.IntType(), types.FloatType()), want: true},
		{target: types.IntType(), candidate: types.ExceptionType(), want: true},
		{target: intString, candidate: types.ExceptionType(), want: true},
	}
	for i, test := range tests {
		got := types.Accepts(test.target, test.candidate)
		if got != test.want {
			t.Errorf("test %d: %s accepts %s: got %v but want %v", i, test.target, test.candidate, got, test.want)
		}
	}
}

func TestNewUnionErrors(t *testing.T) {
	tests := []struct {
		members []types.Type
		err     string
	}{
		{err: "at least one member"},
		{
			members: []types.Type{types.IntType(), types.IntType()},
			err:     "more than once",
		},
		{
			members: []types.Type{types.ArrayOf(types.IntType()), types.ArrayOf(types.StringType())},
			err:     "more than once",
		},
		{
			members: []types.Type{types.IntType(), &types.Union{Types: []types.Type{types.StringType()}}},
			err:     "another union",
		},
		{
			members: []types.Type{types.IntType(), &types.Fcn{Ret: types.IntType()}},
			err:     "cannot contain",
		},
	}
	for i, test := range tests {
		_, err := types.NewUnion(test.members...)
		if err == nil {
			t.Errorf("test %d: expected an error but got nil", i)
			continue
		}
		if !strings.Contains(err.Error(), test.err) {
			t.Errorf("test %d: error %q does not contain %q", i, err.Error(), test.err)
		}
	}
}

const myTree = `{"type":"record","name":"MyTree","fields":[{"name":"left","type":["null","MyTree"]},{"name":"right","type":["null","MyTree"]}]}`

func TestForwardDeclaration(t *testing.T) {
	typs, err := types.ParseForward(myTree)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	tree := typs[myTree]
	if !tree.Accepts(tree) {
		t.Errorf("%s does not accept itself", tree)
	}
	rec := tree.(*types.Record)
	left, _ := rec.Field("left")
	nonNull, ok := types.WithoutNull(left.Type)
	if !ok || nonNull != tree {
		t.Errorf("field left has type %s but want a nullable MyTree", left.Type)
	}
	if got := tree.String(); got != myTree {
		t.Errorf("got schema:\n%s\nwant:\n%s", got, myTree)
	}
	// A copy from another document is accepted structurally.
	other, err := types.ParseForward(myTree)
	if err != nil {
		t.Fatal(err)
	}
	if !types.Equal(tree, other[myTree]) {
		t.Errorf("MyTree from two documents are not equal")
	}
}

func TestForwardDeclarationMutual(t *testing.T) {
	a := `{"type": "record", "name": "A", "fields": [{"name": "b", "type": ["null", "B"]}]}`
	b := `{"type": "record", "name": "B", "fields": [{"name": "a", "type": "A"}, {"name": "as", "type": {"type": "array", "items": "A"}}]}`
	arrayOfA := `{"type": "array", "items": "A"}`
	typs, err := types.ParseForward(arrayOfA, a, b)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	aT, bT := typs[a].(*types.Record), typs[b].(*types.Record)
	fa, _ := bT.Field("a")
	if fa.Type != aT {
		t.Errorf("B.a has type %s but want A", fa.Type)
	}
	if got := typs[arrayOfA].(*types.Array).Items; got != aT {
		t.Errorf("array items have type %s but want A", got)
	}
}

func TestNamespaces(t *testing.T) {
	b := types.NewBuilder()
	rec := b.MakePlaceholder(mustParse(t, `{"type": "record", "name": "R", "namespace": "com.acme", "fields": [
	  {"name": "e", "type": {"type": "enum", "name": "E", "symbols": ["X", "Y"]}},
	  {"name": "f", "type": {"type": "fixed", "name": "other.F", "size": 4}}
	]}`), "", fmterr.Pos{})
	ref := b.MakePlaceholder("com.acme.E", "", fmterr.Pos{})
	relative := b.MakePlaceholder("E", "com.acme", fmterr.Pos{})
	fixed := b.MakePlaceholder("other.F", "", fmterr.Pos{})
	if err := b.ResolveTypes(); err != nil {
		t.Fatalf("%+v", err)
	}
	if got, want := rec.Type().(types.NamedType).FullName(), "com.acme.R"; got != want {
		t.Errorf("got record name %q but want %q", got, want)
	}
	e, ok := b.Named("com.acme.E")
	if !ok {
		t.Fatalf("com.acme.E is not defined")
	}
	if ref.Type() != e || relative.Type() != e {
		t.Errorf("references to com.acme.E resolved to %s and %s", ref.Type(), relative.Type())
	}
	if got := fixed.Type().(*types.Fixed).Size; got != 4 {
		t.Errorf("fixed size is %d but want 4", got)
	}
	if got := len(b.NamedTypes()); got != 3 {
		t.Errorf("builder has %d named types but want 3", got)
	}
}

func mustParse(t *testing.T, src string) any {
	t.Helper()
	tree, err := jsontree.ParseFormat([]byte(src), jsontree.JSON)
	if err != nil {
		t.Fatal(err)
	}
	return tree
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		texts []string
		err   string
	}{
		{
			texts: []string{`{"type": "array", "items": "Nope"}`},
			err:   `type name "Nope" is not defined`,
		},
		{
			texts: []string{
				`{"type": "enum", "name": "E", "symbols": ["A"]}`,
				`{"type": "enum", "name": "E", "symbols": ["B"]}`,
			},
			err: "defined twice with different structures",
		},
		{
			texts: []string{`["int", "int"]`},
			err:   "more than once",
		},
		{
			texts: []string{`{"type": "fixed", "name": "F"}`},
			err:   `requires an integer "size"`,
		},
		{
			texts: []string{`{"type": "enum", "name": "E", "symbols": ["A", "A"]}`},
			err:   "more than once",
		},
		{
			texts: []string{`{"type": "record", "name": "R", "fields": [{"name": "x", "type": "int", "default": "a"}]}`},
			err:   `invalid default for field "x"`,
		},
		{
			texts: []string{`{"type": "record", "name": "R", "fields": [{"name": "x", "type": "int"}, {"name": "x", "type": "int"}]}`},
			err:   `field "x" appears more than once`,
		},
		{
			texts: []string{`{"type": "record", "name": "1R", "fields": []}`},
			err:   "invalid type name",
		},
		{
			texts: []string{`{"items": "int"}`},
			err:   `no "type" key`,
		},
	}
	for i, test := range tests {
		_, err := types.ParseForward(test.texts...)
		if err == nil {
			t.Errorf("test %d: expected an error but got nil", i)
			continue
		}
		if !fmterr.IsSyntax(err) {
			t.Errorf("test %d: error %v is not a syntax error", i, err)
		}
		if !strings.Contains(err.Error(), test.err) {
			t.Errorf("test %d: error %q does not contain %q", i, err.Error(), test.err)
		}
	}
}

func TestSameDefinitionTwice(t *testing.T) {
	enum := `{"type": "enum", "name": "E", "symbols": ["A", "B"]}`
	b := types.NewBuilder()
	first := b.MakePlaceholder(mustParse(t, enum), "", fmterr.Pos{})
	second := b.MakePlaceholder(mustParse(t, enum), "", fmterr.Pos{})
	if err := b.ResolveTypes(); err != nil {
		t.Fatal(err)
	}
	if first.Type() != second.Type() {
		t.Errorf("two identical definitions of E resolved to different types")
	}
}

func TestPlaceholderBeforeResolution(t *testing.T) {
	b := types.NewBuilder()
	ph := b.MakePlaceholder("int", "", fmterr.Pos{Path: "input"})
	if ph.IsResolved() {
		t.Errorf("placeholder is resolved before ResolveTypes")
	}
	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("consulting an unresolved placeholder did not panic")
			}
		}()
		ph.Type()
	}()
	if err := b.ResolveTypes(); err != nil {
		t.Fatal(err)
	}
	if ph.Type() != types.IntType() {
		t.Errorf("got %s but want int", ph.Type())
	}
	if err := b.ResolveTypes(); err == nil {
		t.Errorf("resolving types twice did not fail")
	}
}

func TestBroadest(t *testing.T) {
	intString := mustUnion(t, types.IntType(), types.StringType())
	tests := []struct {
		typs []types.Type
		want string
	}{
		{
			typs: []types.Type{types.IntType(), types.DoubleType(), types.LongType()},
			want: `"double"`,
		},
		{
			typs: []types.Type{types.IntType(), types.StringType()},
			want: `["int","string"]`,
		},
		{
			typs: []types.Type{types.ExceptionType(), types.IntType()},
			want: `"int"`,
		},
		{
			typs: []types.Type{types.ArrayOf(types.IntType()), types.ArrayOf(types.StringType())},
			want: `{"type":"array","items":["int","string"]}`,
		},
		{
			typs: []types.Type{types.NullType(), intString, types.LongType()},
			want: `["null","long","string"]`,
		},
		{
			typs: []types.Type{types.MapOf(types.IntType()), types.MapOf(types.DoubleType())},
			want: `{"type":"map","values":"double"}`,
		},
	}
	for i, test := range tests {
		got, err := types.Broadest(test.typs...)
		if err != nil {
			t.Errorf("test %d: %v", i, err)
			continue
		}
		if got.String() != test.want {
			t.Errorf("test %d: got %s but want %s", i, got, test.want)
		}
	}
	if got, err := types.Broadest(types.ExceptionType()); err != nil || got != types.ExceptionType() {
		t.Errorf("Broadest(exception) = %v, %v", got, err)
	}
}

func TestCheckValue(t *testing.T) {
	tests := []struct {
		typ, value string
		ok         bool
	}{
		{typ: `"int"`, value: `3`, ok: true},
		{typ: `"int"`, value: `2147483648`, ok: false},
		{typ: `"long"`, value: `2147483648`, ok: true},
		{typ: `"int"`, value: `3.5`, ok: false},
		{typ: `"double"`, value: `3`, ok: true},
		{typ: `"float"`, value: `"nan"`, ok: true},
		{typ: `"double"`, value: `"three"`, ok: false},
		{typ: `"string"`, value: `"a"`, ok: true},
		{typ: `"string"`, value: `3`, ok: false},
		{typ: `"bytes"`, value: `"ÿ"`, ok: true},
		{typ: `"bytes"`, value: `"Ā"`, ok: false},
		{typ: `"null"`, value: `null`, ok: true},
		{typ: `"boolean"`, value: `false`, ok: true},
		{typ: `["null", "int"]`, value: `null`, ok: true},
		{typ: `["null", "int"]`, value: `{"int": 3}`, ok: true},
		{typ: `["null", "int"]`, value: `3`, ok: false},
		{typ: `["null", "int"]`, value: `{"string": "a"}`, ok: false},
		{typ: `["int", "string"]`, value: `null`, ok: false},
		{typ: `{"type": "array", "items": "int"}`, value: `[1, 2, 3]`, ok: true},
		{typ: `{"type": "array", "items": "int"}`, value: `[1, "2"]`, ok: false},
		{typ: `{"type": "map", "values": "int"}`, value: `{"a": 1, "b": 2}`, ok: true},
		{typ: `{"type": "map", "values": "int"}`, value: `[1]`, ok: false},
		{typ: `{"type": "enum", "name": "E", "symbols": ["A", "B"]}`, value: `"B"`, ok: true},
		{typ: `{"type": "enum", "name": "E", "symbols": ["A", "B"]}`, value: `"C"`, ok: false},
		{typ: `{"type": "fixed", "name": "F", "size": 2}`, value: `"ab"`, ok: true},
		{typ: `{"type": "fixed", "name": "F", "size": 2}`, value: `"abc"`, ok: false},
		{typ: `{"type": "record", "name": "P", "fields": [{"name": "x", "type": "int"}, {"name": "y", "type": "string", "default": "a"}]}`, value: `{"x": 1}`, ok: true},
		{typ: `{"type": "record", "name": "P", "fields": [{"name": "x", "type": "int"}, {"name": "y", "type": "string", "default": "a"}]}`, value: `{"y": "b"}`, ok: false},
		{typ: `{"type": "record", "name": "P", "fields": [{"name": "x", "type": "int"}]}`, value: `{"x": 1, "z": 2}`, ok: false},
		{typ: myTree, value: `{"left": {"MyTree": {"left": null, "right": null}}, "right": null}`, ok: true},
	}
	for i, test := range tests {
		typs, err := types.ParseForward(test.typ)
		if err != nil {
			t.Errorf("test %d: cannot parse type: %v", i, err)
			continue
		}
		err = types.CheckValue(typs[test.typ], mustParse(t, test.value))
		if test.ok && err != nil {
			t.Errorf("test %d: %s is not a valid %s: %v", i, test.value, test.typ, err)
		}
		if !test.ok && err == nil {
			t.Errorf("test %d: %s is a valid %s but want an error", i, test.value, test.typ)
		}
	}
}

func TestFcnAccepts(t *testing.T) {
	intToDouble := &types.Fcn{Params: []types.Type{types.IntType()}, Ret: types.DoubleType()}
	doubleToInt := &types.Fcn{Params: []types.Type{types.DoubleType()}, Ret: types.IntType()}
	if !intToDouble.Accepts(doubleToInt) {
		t.Errorf("%s does not accept %s", intToDouble, doubleToInt)
	}
	if doubleToInt.Accepts(intToDouble) {
		t.Errorf("%s accepts %s", doubleToInt, intToDouble)
	}
	if got, want := intToDouble.String(), `{"type":"function","params":["int"],"ret":"double"}`; got != want {
		t.Errorf("got %s but want %s", got, want)
	}
}
