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

package jsontree_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/pfa/build/jsontree"
)

func TestParseJSON(t *testing.T) {
	src := `{
  "input": "int",
  "action": [{"+": [2, 2.5, 1e400]}, ["hello"], null, true]
}`
	tree, err := jsontree.Parse([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	obj, ok := tree.(*jsontree.Object)
	if !ok {
		t.Fatalf("got %T but want an object", tree)
	}
	if got, want := obj.At(), "line 1, column 1"; got != want {
		t.Errorf("got position %q but want %q", got, want)
	}
	var keys []string
	for k := range obj.Keys() {
		keys = append(keys, k)
	}
	if diff := cmp.Diff([]string{"input", "action"}, keys); diff != "" {
		t.Errorf("unexpected keys (-want +got):\n%s", diff)
	}
	action, _ := obj.Get("action")
	call := action.([]any)[0].(*jsontree.Object)
	if got, want := call.At(), "line 3, column 14"; got != want {
		t.Errorf("got position %q but want %q", got, want)
	}
	args, _ := call.Get("+")
	nums := args.([]any)
	if !nums[0].(jsontree.Number).IsInteger() {
		t.Errorf("%v is not an integer", nums[0])
	}
	if nums[1].(jsontree.Number).IsInteger() {
		t.Errorf("%v is an integer", nums[1])
	}
	inf, err := nums[2].(jsontree.Number).Float64()
	if err != nil || !math.IsInf(inf, 1) {
		t.Errorf("1e400 = %v, %v but want +Inf, nil", inf, err)
	}
	if got, want := jsontree.Marshal(tree), `{"input":"int","action":[{"+":[2,2.5,1e400]},["hello"],null,true]}`; got != want {
		t.Errorf("Marshal:\ngot:  %s\nwant: %s", got, want)
	}
}

func TestParseYAML(t *testing.T) {
	src := `
input: int
output: int
action:
  - {"+": [input, 1]}
  - let: {x: 3.0}
`
	tree, err := jsontree.Parse([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	want, err := jsontree.Parse([]byte(`{"input": "int", "output": "int", "action": [{"+": ["input", 1]}, {"let": {"x": 3.0}}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if !jsontree.Equal(tree, want) {
		t.Errorf("YAML and JSON trees differ:\nYAML: %s\nJSON: %s", jsontree.Marshal(tree), jsontree.Marshal(want))
	}
	obj := tree.(*jsontree.Object)
	action, _ := obj.Get("action")
	if got, want := action.([]any)[1].(*jsontree.Object).At(), "line 6, column 5"; got != want {
		t.Errorf("got position %q but want %q", got, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		`{"a": 1, "a": 2}`,
		`{"a": 1} {}`,
		`{"a": `,
		"a: 1\na: 2\n",
	}
	for _, src := range tests {
		if _, err := jsontree.Parse([]byte(src)); err == nil {
			t.Errorf("%q: expected an error", src)
		}
	}
}

func TestAtOverride(t *testing.T) {
	tree, err := jsontree.ParseString(`{"@": "my.pfa line 12", "x": 1}`)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := tree.(*jsontree.Object).At(), "my.pfa line 12"; got != want {
		t.Errorf("got position %q but want %q", got, want)
	}
}

func TestFromGo(t *testing.T) {
	got := jsontree.Marshal(jsontree.FromGo(map[string]any{
		"b": []any{1, 2.0, "s", nil},
		"a": true,
	}))
	if want := `{"a":true,"b":[1,2.0,"s",null]}`; got != want {
		t.Errorf("got %s but want %s", got, want)
	}
}

func TestParseOverflow(t *testing.T) {
	tests := []struct {
		src  string
		want []any
	}{
		{
			src:  "[1e400, -1e400]",
			want: []any{jsontree.Number("1e400"), jsontree.Number("-1e400")},
		},
		{
			src:  "- 1e400\n- -1e400\n- '1e400'\n- \"2e500\"\n- x1e400\n",
			want: []any{jsontree.Number("1e400"), jsontree.Number("-1e400"), "1e400", "2e500", "x1e400"},
		},
	}
	for _, test := range tests {
		tree, err := jsontree.ParseString(test.src)
		if err != nil {
			t.Fatalf("%q: %+v", test.src, err)
		}
		if diff := cmp.Diff(test.want, tree); diff != "" {
			t.Errorf("%q: unexpected tree (-want +got):\n%s", test.src, diff)
		}
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		src  string
		want any
	}{
		{src: "1e400", want: jsontree.Number("1e400")},
		{src: " -3", want: jsontree.Number("-3")},
		{src: "- a\n- b\n", want: []any{"a", "b"}},
		{src: "input", want: "input"},
	}
	for _, test := range tests {
		got, err := jsontree.ParseString(test.src)
		if err != nil {
			t.Fatalf("%q: %+v", test.src, err)
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("%q: unexpected tree (-want +got):\n%s", test.src, diff)
		}
	}
}
