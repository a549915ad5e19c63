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

// Package reader builds the syntax tree of a PFA document from its
// JSON or YAML representation.
//
// The node built from an object is determined by the exact set of its
// keys, ignoring the "@" key carrying a source position. Any object with
// a single key which is not reserved is a function call.
package reader

import (
	"slices"
	"strings"

	"github.com/gx-org/pfa/base/uname"
	"github.com/gx-org/pfa/build/ast"
	"github.com/gx-org/pfa/build/fmterr"
	"github.com/gx-org/pfa/build/jsontree"
	"github.com/gx-org/pfa/build/types"
	"golang.org/x/exp/maps"
)

type (
	// Reader reads the expressions of one document.
	// A reader owns the builder resolving the types of the document and
	// must not be used for more than one document.
	Reader struct {
		builder *types.Builder
		names   *uname.Unique
		values  []pendingValue
	}

	// pendingValue is a value written in the document which is checked
	// against its type once all types have been resolved.
	pendingValue struct {
		typ   *types.Placeholder
		value any
		pos   fmterr.Pos
		what  string
	}

	formReader func(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error)
)

// New returns a reader for a new document.
func New() *Reader {
	return &Reader{
		builder: types.NewBuilder(),
		names:   uname.New(),
	}
}

// Builder returns the builder resolving the types of the document.
func (r *Reader) Builder() *types.Builder {
	return r.builder
}

// Resolve resolves all the types of the document and checks the values
// written in the document against their types.
func (r *Reader) Resolve() error {
	if err := r.builder.ResolveTypes(); err != nil {
		return err
	}
	for _, v := range r.values {
		if err := types.CheckValue(v.typ.Type(), v.value); err != nil {
			return fmterr.Syntaxf(v.pos, "invalid %s: %v", v.what, err)
		}
	}
	return nil
}

// ReadExpr reads a single expression and resolves its types.
func ReadExpr(tree any) (ast.Expr, error) {
	r := New()
	expr, err := r.Expr(tree, fmterr.Pos{})
	if err != nil {
		return nil, err
	}
	if err := r.Resolve(); err != nil {
		return nil, err
	}
	return expr, nil
}

func (r *Reader) checkValueLater(typ *types.Placeholder, value any, pos fmterr.Pos, what string) {
	r.values = append(r.values, pendingValue{typ: typ, value: value, pos: pos, what: what})
}

func (r *Reader) typ(tree any, pos fmterr.Pos) *types.Placeholder {
	return r.builder.MakePlaceholder(tree, "", pos)
}

// keySet returns the sorted keys of an object, without the position key.
func keySet(obj *jsontree.Object) []string {
	var keys []string
	for key := range obj.Keys() {
		if key != jsontree.AtKey {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys
}

func objPos(obj *jsontree.Object, pos fmterr.Pos) fmterr.Pos {
	return pos.WithAt(obj.At())
}

// Expr reads an expression.
func (r *Reader) Expr(tree any, pos fmterr.Pos) (ast.Expr, error) {
	arg, err := r.Argument(tree, pos)
	if err != nil {
		return nil, err
	}
	expr, ok := arg.(ast.Expr)
	if !ok {
		return nil, fmterr.Syntaxf(arg.Pos(), "functions can only be passed as arguments to a library function")
	}
	return expr, nil
}

// Argument reads an argument of a function call: an expression or a function.
func (r *Reader) Argument(tree any, pos fmterr.Pos) (ast.Argument, error) {
	switch treeT := tree.(type) {
	case nil:
		return &ast.LiteralNull{Src: ast.Src{At: pos}}, nil
	case bool:
		return &ast.LiteralBoolean{Src: ast.Src{At: pos}, Value: treeT}, nil
	case jsontree.Number:
		return readNumber(treeT, pos)
	case string:
		return readString(treeT, pos)
	case []any:
		if len(treeT) == 1 {
			if s, ok := treeT[0].(string); ok {
				return &ast.LiteralString{Src: ast.Src{At: pos}, Value: s}, nil
			}
		}
		return nil, fmterr.Syntaxf(pos, "an array is not an expression: use [\"string\"] for a string literal or {\"new\": [...], \"type\": ...} for an array")
	case *jsontree.Object:
		return r.object(treeT, objPos(treeT, pos))
	}
	return nil, fmterr.Syntaxf(pos, "unexpected %T in expression", tree)
}

func (r *Reader) object(obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	keys := keySet(obj)
	if read, ok := forms[strings.Join(keys, ",")]; ok {
		return read(r, obj, pos)
	}
	if len(keys) == 1 && !IsReserved(keys[0]) {
		return r.call(obj, keys[0], pos)
	}
	if len(keys) == 0 {
		return nil, fmterr.Syntaxf(pos, "empty object is not an expression")
	}
	return nil, fmterr.Syntaxf(pos, "unrecognized set of keys {%s}", strings.Join(keys, ", "))
}

// Forms returns the key sets recognized by the reader, sorted.
func Forms() []string {
	keys := maps.Keys(forms)
	slices.Sort(keys)
	return keys
}

func (r *Reader) body(tree any, pos fmterr.Pos) ([]ast.Expr, error) {
	list, ok := tree.([]any)
	if !ok {
		expr, err := r.Expr(tree, pos)
		if err != nil {
			return nil, err
		}
		return []ast.Expr{expr}, nil
	}
	exprs := make([]ast.Expr, len(list))
	for i, el := range list {
		var err error
		if exprs[i], err = r.Expr(el, pos.Dot(i)); err != nil {
			return nil, err
		}
	}
	return exprs, nil
}

func (r *Reader) exprList(tree any, pos fmterr.Pos, what string) ([]ast.Expr, error) {
	list, ok := tree.([]any)
	if !ok {
		return nil, fmterr.Syntaxf(pos, "%s must be an array of expressions", what)
	}
	return r.body(list, pos)
}

func (r *Reader) bindings(tree any, pos fmterr.Pos, what string) (*ast.Bindings, error) {
	obj, ok := tree.(*jsontree.Object)
	if !ok {
		return nil, fmterr.Syntaxf(pos, "%s must be an object of symbols to expressions", what)
	}
	pos = objPos(obj, pos)
	bindings := ast.NewBindings()
	for name, value := range obj.Iter() {
		if name == jsontree.AtKey {
			continue
		}
		if !IsSymbol(name) {
			return nil, fmterr.Syntaxf(pos.Dot(name), "%q is not a valid symbol name", name)
		}
		expr, err := r.Expr(value, pos.Dot(name))
		if err != nil {
			return nil, err
		}
		bindings.Store(name, expr)
	}
	if bindings.Size() == 0 {
		return nil, fmterr.Syntaxf(pos, "%s must declare at least one symbol", what)
	}
	return bindings, nil
}

func get(obj *jsontree.Object, key string) any {
	v, _ := obj.Get(key)
	return v
}

func (r *Reader) stringField(obj *jsontree.Object, key string, pos fmterr.Pos) (string, error) {
	s, ok := get(obj, key).(string)
	if !ok {
		return "", fmterr.Syntaxf(pos.Dot(key), "%q must be a string", key)
	}
	return s, nil
}

func (r *Reader) symbolField(obj *jsontree.Object, key string, pos fmterr.Pos) (string, error) {
	s, err := r.stringField(obj, key, pos)
	if err != nil {
		return "", err
	}
	if !IsSymbol(s) {
		return "", fmterr.Syntaxf(pos.Dot(key), "%q is not a valid symbol name", s)
	}
	return s, nil
}

func boolField(obj *jsontree.Object, key string, pos fmterr.Pos) (bool, error) {
	v, ok := obj.Get(key)
	if !ok {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmterr.Syntaxf(pos.Dot(key), "%q must be a boolean", key)
	}
	return b, nil
}
