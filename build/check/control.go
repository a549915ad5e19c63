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
	"github.com/gx-org/pfa/internal/base/scope"
)

// branches returns the type of a conditional expression given the types
// of its branches. A missing else branch evaluates to null.
func (c *checker) branches(node ast.Node, typs []types.Type, hasElse bool) (types.Type, error) {
	if !hasElse {
		typs = append(typs, types.NullType())
	}
	return c.broadest(node, typs...)
}

func (c *checker) ifExpr(s *symbols, ifn *ast.If) (types.Type, error) {
	if err := c.predicate(s.NewChild(scope.Open), ifn.Predicate); err != nil {
		return nil, err
	}
	thenT, err := c.body(s.NewChild(scope.Open), ifn.Then)
	if err != nil {
		return nil, err
	}
	typs := []types.Type{thenT}
	if ifn.Else != nil {
		elseT, err := c.body(s.NewChild(scope.Open), ifn.Else)
		if err != nil {
			return nil, err
		}
		typs = append(typs, elseT)
	}
	return c.branches(ifn, typs, ifn.Else != nil)
}

func (c *checker) cond(s *symbols, cond *ast.Cond) (types.Type, error) {
	var typs []types.Type
	for _, ifn := range cond.Ifs {
		if err := c.predicate(s.NewChild(scope.Open), ifn.Predicate); err != nil {
			return nil, err
		}
		t, err := c.body(s.NewChild(scope.Open), ifn.Then)
		if err != nil {
			return nil, err
		}
		typs = append(typs, c.record(ifn, t))
	}
	if cond.Else != nil {
		t, err := c.body(s.NewChild(scope.Open), cond.Else)
		if err != nil {
			return nil, err
		}
		typs = append(typs, t)
	}
	return c.branches(cond, typs, cond.Else != nil)
}

func (c *checker) while(s *symbols, while *ast.While) (types.Type, error) {
	if err := c.predicate(s.NewChild(scope.Open), while.Predicate); err != nil {
		return nil, err
	}
	if _, err := c.body(s.NewChild(scope.Open), while.Body); err != nil {
		return nil, err
	}
	return types.NullType(), nil
}

func (c *checker) doUntil(s *symbols, until *ast.DoUntil) (types.Type, error) {
	loop := s.NewChild(scope.Open)
	if _, err := c.body(loop, until.Body); err != nil {
		return nil, err
	}
	if err := c.predicate(loop, until.Predicate); err != nil {
		return nil, err
	}
	return types.NullType(), nil
}

func (c *checker) forLoop(s *symbols, loop *ast.For) (types.Type, error) {
	vars := s.NewChild(scope.Open)
	if err := c.define(vars, loop.Init); err != nil {
		return nil, err
	}
	if err := c.predicate(vars.NewChild(scope.Open), loop.Predicate); err != nil {
		return nil, err
	}
	if err := c.assign(vars.NewChild(scope.Open), loop.Step); err != nil {
		return nil, err
	}
	if _, err := c.body(vars.NewChild(scope.Open), loop.Body); err != nil {
		return nil, err
	}
	return types.NullType(), nil
}

func (c *checker) foreach(s *symbols, loop *ast.Foreach) (types.Type, error) {
	t, err := c.expr(s.NewChild(scope.Open), loop.Array)
	if err != nil {
		return nil, err
	}
	arr, ok := t.(*types.Array)
	if !ok {
		return nil, fmterr.Semanticf(loop.Array.Pos(), "foreach iterates over %s but an array is required", t)
	}
	boundary := scope.ReadOnly
	if loop.Seq {
		boundary = scope.Open
	}
	body := s.NewChild(boundary)
	if err := body.Define(loop.Name, arr.Items); err != nil {
		return nil, fmterr.Semantic(loop.Pos(), err)
	}
	if _, err := c.body(body, loop.Body); err != nil {
		return nil, err
	}
	return types.NullType(), nil
}

func (c *checker) forkeyval(s *symbols, loop *ast.Forkeyval) (types.Type, error) {
	t, err := c.expr(s.NewChild(scope.Open), loop.Map)
	if err != nil {
		return nil, err
	}
	m, ok := t.(*types.Map)
	if !ok {
		return nil, fmterr.Semanticf(loop.Map.Pos(), "forkeyval iterates over %s but a map is required", t)
	}
	body := s.NewChild(scope.ReadOnly)
	if err := body.Define(loop.ForKey, types.StringType()); err != nil {
		return nil, fmterr.Semantic(loop.Pos(), err)
	}
	if err := body.Define(loop.ForVal, m.Values); err != nil {
		return nil, fmterr.Semantic(loop.Pos(), err)
	}
	if _, err := c.body(body, loop.Body); err != nil {
		return nil, err
	}
	return types.NullType(), nil
}

func (c *checker) ifNotNull(s *symbols, ifn *ast.IfNotNull) (types.Type, error) {
	then := s.NewChild(scope.Open)
	for name, value := range ifn.Bindings.Iter() {
		t, err := c.expr(s.NewChild(scope.Open), value)
		if err != nil {
			return nil, err
		}
		notNull, ok := types.WithoutNull(t)
		if !ok {
			return nil, fmterr.Semanticf(value.Pos(), "%q has type %s but a union with null is required", name, t)
		}
		if err := then.Define(name, notNull); err != nil {
			return nil, fmterr.Semantic(value.Pos(), err)
		}
	}
	thenT, err := c.body(then, ifn.Then)
	if err != nil {
		return nil, err
	}
	typs := []types.Type{thenT}
	if ifn.Else != nil {
		elseT, err := c.body(s.NewChild(scope.Open), ifn.Else)
		if err != nil {
			return nil, err
		}
		typs = append(typs, elseT)
	}
	return c.branches(ifn, typs, ifn.Else != nil)
}

// cast checks that every case is a possible type of the value and,
// unless the cast is partial, that every possible type has a case.
func (c *checker) cast(s *symbols, cast *ast.CastBlock) (types.Type, error) {
	t, err := c.expr(s.NewChild(scope.Open), cast.Expr)
	if err != nil {
		return nil, err
	}
	caseTypes := make([]types.Type, len(cast.Cases))
	var results []types.Type
	for i, cas := range cast.Cases {
		caseT := cas.Type.Type()
		if !types.Accepts(t, caseT) {
			return nil, fmterr.Semanticf(cas.Pos(), "cast case %s is not a possible type of %s", caseT, t)
		}
		caseTypes[i] = caseT
		body := s.NewChild(scope.Open)
		if err := body.Define(cas.Named, caseT); err != nil {
			return nil, fmterr.Semantic(cas.Pos(), err)
		}
		resT, err := c.body(body, cas.Body)
		if err != nil {
			return nil, err
		}
		results = append(results, c.record(cas, resT))
	}
	if !cast.Partial {
		for _, member := range types.Members(t) {
			if !handled(member, caseTypes) {
				return nil, fmterr.Semanticf(cast.Pos(), "cast is not exhaustive: %s is not handled (mark the cast as partial to ignore it)", member)
			}
		}
	}
	return c.branches(cast, results, !cast.Partial)
}

func handled(member types.Type, cases []types.Type) bool {
	for _, caseT := range cases {
		if types.Accepts(caseT, member) {
			return true
		}
	}
	return false
}

func (c *checker) try(s *symbols, try *ast.Try) (types.Type, error) {
	t, err := c.body(s.NewChild(scope.Open), try.Body)
	if err != nil {
		return nil, err
	}
	if t.Kind() == types.ExceptionKind {
		return types.NullType(), nil
	}
	return c.withNull(try, t)
}

func (c *checker) logExpr(s *symbols, log *ast.Log) (types.Type, error) {
	for _, arg := range log.Args {
		t, err := c.expr(s, arg)
		if err != nil {
			return nil, err
		}
		if !t.Kind().IsAvro() && t.Kind() != types.ExceptionKind {
			return nil, fmterr.Semanticf(arg.Pos(), "cannot log a value of type %s", t)
		}
	}
	return types.NullType(), nil
}

func (c *checker) pack(s *symbols, pack *ast.Pack) (types.Type, error) {
	for _, field := range pack.Fields {
		formatT, err := ast.PackFormat(field.Format)
		if err != nil {
			return nil, fmterr.Semantic(field.Expr.Pos(), err)
		}
		t, err := c.expr(s, field.Expr)
		if err != nil {
			return nil, err
		}
		if !packAccepts(formatT, t) {
			return nil, fmterr.Semanticf(field.Expr.Pos(), "cannot pack a value of type %s with format %q", t, field.Format)
		}
	}
	return types.BytesType(), nil
}

// packAccepts returns true if a value can be packed with a format of a given
// type. Numbers are packed from any numeric type, the format converting them.
func packAccepts(format, t types.Type) bool {
	if format.Kind().IsNumeric() {
		return t.Kind().IsNumeric()
	}
	return types.Accepts(format, t)
}

func (c *checker) unpack(s *symbols, unpack *ast.Unpack) (types.Type, error) {
	if _, err := c.exprAs(s.NewChild(scope.Open), unpack.Bytes, types.BytesType(), "unpacked value"); err != nil {
		return nil, err
	}
	then := s.NewChild(scope.Open)
	for _, field := range unpack.Format {
		formatT, err := ast.PackFormat(field.Format)
		if err != nil {
			return nil, fmterr.Semantic(unpack.Pos(), err)
		}
		if err := then.Define(field.Name, formatT); err != nil {
			return nil, fmterr.Semantic(unpack.Pos(), err)
		}
	}
	thenT, err := c.body(then, unpack.Then)
	if err != nil {
		return nil, err
	}
	typs := []types.Type{thenT}
	if unpack.Else != nil {
		elseT, err := c.body(s.NewChild(scope.Open), unpack.Else)
		if err != nil {
			return nil, err
		}
		typs = append(typs, elseT)
	}
	return c.branches(unpack, typs, unpack.Else != nil)
}
