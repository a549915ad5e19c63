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

package ast_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/pfa/base/ordered"
	"github.com/gx-org/pfa/build/ast"
)

func nodeNames(root ast.Node) []string {
	var names []string
	ast.Inspect(root, func(n ast.Node) bool {
		names = append(names, fmt.Sprintf("%T", n))
		return true
	})
	return names
}

func sampleTree() *ast.If {
	let := &ast.Let{Values: ast.NewBindings()}
	let.Values.Store("x", &ast.LiteralInt{Value: 2})
	return &ast.If{
		Predicate: &ast.LiteralBoolean{Value: true},
		Then: []ast.Expr{
			let,
			&ast.Call{Name: "+", Args: []ast.Argument{
				&ast.Ref{Name: "x"},
				&ast.LiteralInt{Value: 2},
			}},
		},
		Else: []ast.Expr{&ast.LiteralNull{}},
	}
}

func TestInspect(t *testing.T) {
	want := []string{
		"*ast.If",
		"*ast.LiteralBoolean",
		"*ast.Let",
		"*ast.LiteralInt",
		"*ast.Call",
		"*ast.Ref",
		"*ast.LiteralInt",
		"*ast.LiteralNull",
	}
	if diff := cmp.Diff(want, nodeNames(sampleTree())); diff != "" {
		t.Errorf("unexpected nodes (-want +got):\n%s", diff)
	}
	calls := 0
	ast.Inspect(sampleTree(), func(n ast.Node) bool {
		if _, ok := n.(*ast.Call); ok {
			calls++
			return false
		}
		return true
	})
	if calls != 1 {
		t.Errorf("got %d calls but want 1", calls)
	}
}

func TestRewrite(t *testing.T) {
	tree := sampleTree()
	rewritten := ast.Rewrite(tree, func(n ast.Node) ast.Node {
		lit, ok := n.(*ast.LiteralInt)
		if !ok {
			return n
		}
		return &ast.LiteralLong{Src: lit.Src, Value: int64(lit.Value) + 1}
	})
	if rewritten != tree {
		t.Errorf("root has been replaced")
	}
	var values []int64
	ast.Inspect(tree, func(n ast.Node) bool {
		if lit, ok := n.(*ast.LiteralLong); ok {
			values = append(values, lit.Value)
		}
		return true
	})
	if diff := cmp.Diff([]int64{3, 3}, values); diff != "" {
		t.Errorf("unexpected rewritten values (-want +got):\n%s", diff)
	}
}

func replaceRefs(by ast.Node) func(ast.Node) ast.Node {
	return func(n ast.Node) ast.Node {
		if _, ok := n.(*ast.Ref); ok {
			return by
		}
		return n
	}
}

func TestRewritePanics(t *testing.T) {
	tests := []struct {
		name string
		tree ast.Node
		by   ast.Node
	}{
		{
			name: "predicate to function",
			tree: &ast.If{Predicate: &ast.Ref{Name: "c"}, Then: []ast.Expr{&ast.LiteralNull{}}},
			by:   &ast.FcnDef{},
		},
		{
			name: "let value to function",
			tree: sampleTreeWithLet(&ast.Ref{Name: "y"}),
			by:   &ast.FcnRef{Name: "m.sqrt"},
		},
		{
			name: "call argument to cast case",
			tree: &ast.Call{Name: "a.len", Args: []ast.Argument{&ast.Ref{Name: "xs"}}},
			by:   &ast.CastCase{},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Errorf("replacing a reference by %T did not panic", test.by)
				}
			}()
			ast.Rewrite(test.tree, replaceRefs(test.by))
		})
	}
}

func sampleTreeWithLet(value ast.Expr) *ast.Let {
	let := &ast.Let{Values: ast.NewBindings()}
	let.Values.Store("x", value)
	return let
}

func TestRewriteArgumentToFunction(t *testing.T) {
	fcn := &ast.FcnRef{Name: "m.sqrt"}
	call := &ast.Call{Name: "a.map", Args: []ast.Argument{&ast.Ref{Name: "xs"}, &ast.Ref{Name: "f"}}}
	ast.Rewrite(call, func(n ast.Node) ast.Node {
		if ref, ok := n.(*ast.Ref); ok && ref.Name == "f" {
			return fcn
		}
		return n
	})
	if call.Args[1] != ast.Argument(fcn) {
		t.Errorf("call argument is %T but want the function reference", call.Args[1])
	}
}

func TestEngine(t *testing.T) {
	fcns := ordered.NewMap[string, *ast.FcnDef]()
	fcns.Store("double", &ast.FcnDef{Body: []ast.Expr{&ast.Ref{Name: "x"}}})
	cfg := &ast.EngineConfig{
		Method: ast.Fold,
		Action: []ast.Expr{&ast.Ref{Name: "input"}},
		Fcns:   fcns,
		Merge:  []ast.Expr{&ast.Ref{Name: "tallyOne"}},
	}
	var refs []string
	ast.InspectEngine(cfg, func(n ast.Node) bool {
		if ref, ok := n.(*ast.Ref); ok {
			refs = append(refs, ref.Name)
		}
		return true
	})
	if diff := cmp.Diff([]string{"input", "x", "tallyOne"}, refs); diff != "" {
		t.Errorf("unexpected references (-want +got):\n%s", diff)
	}
	ast.RewriteEngine(cfg, func(n ast.Node) ast.Node {
		if ref, ok := n.(*ast.Ref); ok {
			return &ast.Ref{Src: ref.Src, Name: ref.Name + "_"}
		}
		return n
	})
	fcn, _ := cfg.Fcns.Load("double")
	if got := fcn.Body[0].(*ast.Ref).Name; got != "x_" {
		t.Errorf("got %q but want %q", got, "x_")
	}
	if got := cfg.Method.String(); got != "fold" {
		t.Errorf("got method %q but want fold", got)
	}
	if m, ok := ast.MethodFromString("emit"); !ok || m != ast.Emit {
		t.Errorf("MethodFromString(emit) = %v, %v", m, ok)
	}
}

func TestPackFormat(t *testing.T) {
	tests := []struct {
		format, want string
	}{
		{format: "pad", want: `"null"`},
		{format: "little unsigned short", want: `"int"`},
		{format: "big int", want: `"int"`},
		{format: "unsigned int", want: `"long"`},
		{format: "unsigned long", want: `"double"`},
		{format: "little double", want: `"double"`},
		{format: "raw 12", want: `"bytes"`},
		{format: "prefixed", want: `"bytes"`},
		{format: "unsigned float"},
		{format: "raw twelve"},
		{format: "medium int"},
	}
	for _, test := range tests {
		got, err := ast.PackFormat(test.format)
		if test.want == "" {
			if err == nil {
				t.Errorf("format %q: got type %s but want an error", test.format, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("format %q: %v", test.format, err)
			continue
		}
		if got.String() != test.want {
			t.Errorf("format %q: got %s but want %s", test.format, got, test.want)
		}
	}
}
