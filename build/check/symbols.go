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

package check

import (
	"github.com/gx-org/pfa/build/ast"
	"github.com/gx-org/pfa/build/fmterr"
	"github.com/gx-org/pfa/build/types"
)

func (c *checker) ref(s *symbols, ref *ast.Ref) (types.Type, error) {
	t, ok := s.Find(ref.Name)
	if !ok {
		return nil, fmterr.Semanticf(ref.Pos(), "unknown symbol %q", ref.Name)
	}
	return t, nil
}

// define declares new symbols in a scope.
// All the values are checked before any symbol is declared.
func (c *checker) define(s *symbols, bindings *ast.Bindings) error {
	typs := make([]types.Type, 0, bindings.Size())
	for name, value := range bindings.Iter() {
		t, err := c.expr(s, value)
		if err != nil {
			return err
		}
		if t.Kind() == types.ExceptionKind {
			return fmterr.Semanticf(value.Pos(), "cannot declare %q with the value of an expression raising an error", name)
		}
		typs = append(typs, t)
	}
	i := 0
	for name, value := range bindings.Iter() {
		if err := s.Define(name, typs[i]); err != nil {
			return fmterr.Semantic(value.Pos(), err)
		}
		i++
	}
	return nil
}

func (c *checker) let(s *symbols, let *ast.Let) (types.Type, error) {
	if err := c.define(s, let.Values); err != nil {
		return nil, err
	}
	return types.NullType(), nil
}

// assign assigns new values to existing symbols. A symbol keeps the type
// inferred when it was declared: the new values must be accepted by it.
func (c *checker) assign(s *symbols, bindings *ast.Bindings) error {
	for name, value := range bindings.Iter() {
		t, err := c.expr(s, value)
		if err != nil {
			return err
		}
		current, ok := s.Find(name)
		if !ok {
			return fmterr.Semanticf(value.Pos(), "unknown symbol %q", name)
		}
		if err := s.Assign(name, current); err != nil {
			return fmterr.Semantic(value.Pos(), err)
		}
		if !types.Accepts(current, t) {
			return fmterr.Semanticf(value.Pos(), "cannot assign a value of type %s to %q of type %s", t, name, current)
		}
	}
	return nil
}

func (c *checker) setVar(s *symbols, set *ast.SetVar) (types.Type, error) {
	if err := c.assign(s, set.Values); err != nil {
		return nil, err
	}
	return types.NullType(), nil
}
