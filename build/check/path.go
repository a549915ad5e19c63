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
	"github.com/gx-org/pfa/build/sig"
	"github.com/gx-org/pfa/build/types"
	"github.com/gx-org/pfa/internal/base/scope"
)

// path returns the type reached by following a path into a value:
// arrays are indexed by integers, maps by strings and records by
// field names given as string literals.
func (c *checker) path(s *symbols, t types.Type, path []ast.Expr) (types.Type, error) {
	for _, step := range path {
		stepT, err := c.expr(s, step)
		if err != nil {
			return nil, err
		}
		switch tT := t.(type) {
		case *types.Array:
			if k := stepT.Kind(); k != types.IntKind && k != types.LongKind {
				return nil, fmterr.Semanticf(step.Pos(), "array index has type %s but must be an int or a long", stepT)
			}
			t = tT.Items
		case *types.Map:
			if stepT.Kind() != types.StringKind {
				return nil, fmterr.Semanticf(step.Pos(), "map key has type %s but must be a string", stepT)
			}
			t = tT.Values
		case *types.Record:
			name, ok := step.(*ast.LiteralString)
			if !ok {
				return nil, fmterr.Semanticf(step.Pos(), "fields of record %s must be selected by a string literal", tT.FullName())
			}
			field, ok := tT.Field(name.Value)
			if !ok {
				return nil, fmterr.Semanticf(step.Pos(), "record %s has no field %q", tT.FullName(), name.Value)
			}
			t = field.Type
		default:
			return nil, fmterr.Semanticf(step.Pos(), "cannot select into a value of type %s", t)
		}
	}
	return t, nil
}

// to checks the replacement of the value at the end of a path:
// either a value or a function updating the value.
func (c *checker) to(s *symbols, to ast.Argument, want types.Type) error {
	if expr, ok := to.(ast.Expr); ok {
		_, err := c.exprAs(s, expr, want, "replacement value")
		return err
	}
	t, err := c.argument(s, to)
	if err != nil {
		return err
	}
	var fcn *types.Fcn
	switch tT := t.(type) {
	case *types.Fcn:
		fcn = tT
	case *sig.Ref:
		resolved, match, ok := tT.Resolve([]types.Type{want}, c.conf.Version)
		if !ok {
			return fmterr.Semanticf(to.Pos(), "%s does not accept a value of type %s", tT.Name, want)
		}
		c.warnDeprecated(to, tT.Name, match)
		fcn = resolved
		c.record(to, fcn)
	}
	if fcn == nil || len(fcn.Params) != 1 || !types.Accepts(fcn.Params[0], want) || !types.Accepts(want, fcn.Ret) {
		return fmterr.Semanticf(to.Pos(), "update function has type %s but must be a function from %s to %s", t, want, want)
	}
	return nil
}

func (c *checker) attrGet(s *symbols, attr *ast.AttrGet) (types.Type, error) {
	if len(attr.Path) == 0 {
		return nil, fmterr.Semanticf(attr.Pos(), "attribute access requires a non-empty path")
	}
	t, err := c.expr(s, attr.Expr)
	if err != nil {
		return nil, err
	}
	return c.path(s, t, attr.Path)
}

func (c *checker) attrTo(s *symbols, attr *ast.AttrTo) (types.Type, error) {
	if len(attr.Path) == 0 {
		return nil, fmterr.Semanticf(attr.Pos(), "attribute update requires a non-empty path")
	}
	t, err := c.expr(s, attr.Expr)
	if err != nil {
		return nil, err
	}
	end, err := c.path(s, t, attr.Path)
	if err != nil {
		return nil, err
	}
	if err := c.to(s, attr.To, end); err != nil {
		return nil, err
	}
	return t, nil
}

func (c *checker) cell(node ast.Node, name string) (*ast.Cell, error) {
	var cell *ast.Cell
	var ok bool
	if c.eng != nil {
		cell, ok = c.eng.Cells.Load(name)
	}
	if !ok {
		return nil, fmterr.Semanticf(node.Pos(), "unknown cell %q", name)
	}
	return cell, nil
}

func (c *checker) cellGet(s *symbols, get *ast.CellGet) (types.Type, error) {
	cell, err := c.cell(get, get.Cell)
	if err != nil {
		return nil, err
	}
	return c.path(s, cell.Type.Type(), get.Path)
}

func (c *checker) cellTo(s *symbols, to *ast.CellTo) (types.Type, error) {
	cell, err := c.cell(to, to.Cell)
	if err != nil {
		return nil, err
	}
	t := cell.Type.Type()
	end, err := c.path(s, t, to.Path)
	if err != nil {
		return nil, err
	}
	if err := c.to(s, to.To, end); err != nil {
		return nil, err
	}
	return t, nil
}

func (c *checker) pool(node ast.Node, name string) (*ast.Pool, error) {
	var pool *ast.Pool
	var ok bool
	if c.eng != nil {
		pool, ok = c.eng.Pools.Load(name)
	}
	if !ok {
		return nil, fmterr.Semanticf(node.Pos(), "unknown pool %q", name)
	}
	return pool, nil
}

// poolItem returns the type at the end of a pool path: the first step
// selects an item by its string key.
func (c *checker) poolItem(s *symbols, node ast.Node, pool *ast.Pool, path []ast.Expr) (types.Type, error) {
	if len(path) == 0 {
		return nil, fmterr.Semanticf(node.Pos(), "pool access requires a path starting with the key of an item")
	}
	return c.path(s, types.MapOf(pool.Type.Type()), path)
}

func (c *checker) poolGet(s *symbols, get *ast.PoolGet) (types.Type, error) {
	pool, err := c.pool(get, get.Pool)
	if err != nil {
		return nil, err
	}
	return c.poolItem(s, get, pool, get.Path)
}

func (c *checker) poolTo(s *symbols, to *ast.PoolTo) (types.Type, error) {
	pool, err := c.pool(to, to.Pool)
	if err != nil {
		return nil, err
	}
	end, err := c.poolItem(s, to, pool, to.Path)
	if err != nil {
		return nil, err
	}
	item := pool.Type.Type()
	if _, err := c.exprAs(s.NewChild(scope.Open), to.Init, item, "initial pool item"); err != nil {
		return nil, err
	}
	if err := c.to(s, to.To, end); err != nil {
		return nil, err
	}
	return item, nil
}

func (c *checker) poolDel(s *symbols, del *ast.PoolDel) (types.Type, error) {
	if _, err := c.pool(del, del.Pool); err != nil {
		return nil, err
	}
	if _, err := c.exprAs(s, del.Del, types.StringType(), "pool key"); err != nil {
		return nil, err
	}
	return types.NullType(), nil
}
