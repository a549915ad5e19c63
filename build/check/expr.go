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

// expr infers the type of an expression and records it.
func (c *checker) expr(s *symbols, expr ast.Expr) (types.Type, error) {
	t, err := c.exprType(s, expr)
	if err != nil {
		return nil, err
	}
	return c.record(expr, t), nil
}

func (c *checker) exprType(s *symbols, expr ast.Expr) (types.Type, error) {
	switch exprT := expr.(type) {
	case *ast.LiteralNull:
		return types.NullType(), nil
	case *ast.LiteralBoolean:
		return types.BooleanType(), nil
	case *ast.LiteralInt:
		return types.IntType(), nil
	case *ast.LiteralLong:
		return types.LongType(), nil
	case *ast.LiteralFloat:
		return types.FloatType(), nil
	case *ast.LiteralDouble:
		return types.DoubleType(), nil
	case *ast.LiteralString:
		return types.StringType(), nil
	case *ast.LiteralBase64:
		return types.BytesType(), nil
	case *ast.Literal:
		return exprT.Type.Type(), nil
	case *ast.NewObject:
		return c.newObject(s, exprT)
	case *ast.NewArray:
		return c.newArray(s, exprT)
	case *ast.Do:
		return c.body(s.NewChild(scope.Open), exprT.Body)
	case *ast.Let:
		return c.let(s, exprT)
	case *ast.SetVar:
		return c.setVar(s, exprT)
	case *ast.Ref:
		return c.ref(s, exprT)
	case *ast.AttrGet:
		return c.attrGet(s, exprT)
	case *ast.AttrTo:
		return c.attrTo(s, exprT)
	case *ast.CellGet:
		return c.cellGet(s, exprT)
	case *ast.CellTo:
		return c.cellTo(s, exprT)
	case *ast.PoolGet:
		return c.poolGet(s, exprT)
	case *ast.PoolTo:
		return c.poolTo(s, exprT)
	case *ast.PoolDel:
		return c.poolDel(s, exprT)
	case *ast.If:
		return c.ifExpr(s, exprT)
	case *ast.Cond:
		return c.cond(s, exprT)
	case *ast.While:
		return c.while(s, exprT)
	case *ast.DoUntil:
		return c.doUntil(s, exprT)
	case *ast.For:
		return c.forLoop(s, exprT)
	case *ast.Foreach:
		return c.foreach(s, exprT)
	case *ast.Forkeyval:
		return c.forkeyval(s, exprT)
	case *ast.Call:
		return c.call(s, exprT)
	case *ast.CallUserFcn:
		return c.callUserFcn(s, exprT)
	case *ast.CastBlock:
		return c.cast(s, exprT)
	case *ast.Upcast:
		return c.upcast(s, exprT)
	case *ast.IfNotNull:
		return c.ifNotNull(s, exprT)
	case *ast.Pack:
		return c.pack(s, exprT)
	case *ast.Unpack:
		return c.unpack(s, exprT)
	case *ast.Doc:
		return types.NullType(), nil
	case *ast.Error:
		return types.ExceptionType(), nil
	case *ast.Try:
		return c.try(s, exprT)
	case *ast.Log:
		return c.logExpr(s, exprT)
	}
	return nil, fmterr.Internalf("expression %T not supported", expr)
}

// argument infers the type of an argument of a library call:
// an expression or a function.
func (c *checker) argument(s *symbols, arg ast.Argument) (types.Type, error) {
	var t types.Type
	var err error
	switch argT := arg.(type) {
	case ast.Expr:
		return c.expr(s, argT)
	case *ast.FcnDef:
		t, err = c.fcnDef(s, argT)
	case *ast.FcnRef:
		t, err = c.fcnRef(argT)
	case *ast.FcnRefFill:
		t, err = c.fcnRefFill(s, argT)
	default:
		return nil, fmterr.Internalf("argument %T not supported", arg)
	}
	if err != nil {
		return nil, err
	}
	return c.record(arg, t), nil
}

// body checks a sequence of expressions in a scope and returns the type
// of the last one. An empty body has the null type.
func (c *checker) body(s *symbols, body []ast.Expr) (types.Type, error) {
	var last types.Type = types.NullType()
	for _, expr := range body {
		var err error
		if last, err = c.expr(s, expr); err != nil {
			return nil, err
		}
	}
	return last, nil
}

// exprAs checks that the type of an expression is accepted by a target type.
func (c *checker) exprAs(s *symbols, expr ast.Expr, target types.Type, what string) (types.Type, error) {
	t, err := c.expr(s, expr)
	if err != nil {
		return nil, err
	}
	if !types.Accepts(target, t) {
		return nil, fmterr.Semanticf(expr.Pos(), "%s has type %s but %s is expected", what, t, target)
	}
	return t, nil
}

func (c *checker) predicate(s *symbols, expr ast.Expr) error {
	t, err := c.expr(s, expr)
	if err != nil {
		return err
	}
	if t.Kind() != types.BooleanKind {
		return fmterr.Semanticf(expr.Pos(), "predicate has type %s but must be a boolean", t)
	}
	return nil
}

func (c *checker) newObject(s *symbols, obj *ast.NewObject) (types.Type, error) {
	typ := obj.Type.Type()
	switch typT := typ.(type) {
	case *types.Record:
		for name, value := range obj.Fields.Iter() {
			field, ok := typT.Field(name)
			if !ok {
				return nil, fmterr.Semanticf(value.Pos(), "record %s has no field %q", typT.FullName(), name)
			}
			if _, err := c.exprAs(s, value, field.Type, "field "+name); err != nil {
				return nil, err
			}
		}
		for _, field := range typT.Fields {
			if !obj.Fields.Has(field.Name) && !field.HasDefault {
				return nil, fmterr.Semanticf(obj.Pos(), "field %q of record %s is missing", field.Name, typT.FullName())
			}
		}
	case *types.Map:
		for name, value := range obj.Fields.Iter() {
			if _, err := c.exprAs(s, value, typT.Values, "value "+name); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmterr.Semanticf(obj.Pos(), "cannot build an object of type %s: a record or a map is required", typ)
	}
	return typ, nil
}

func (c *checker) newArray(s *symbols, arr *ast.NewArray) (types.Type, error) {
	typ := arr.Type.Type()
	arrT, ok := typ.(*types.Array)
	if !ok {
		return nil, fmterr.Semanticf(arr.Pos(), "cannot build an array of type %s", typ)
	}
	for _, item := range arr.Items {
		if _, err := c.exprAs(s, item, arrT.Items, "array item"); err != nil {
			return nil, err
		}
	}
	return typ, nil
}

func (c *checker) upcast(s *symbols, up *ast.Upcast) (types.Type, error) {
	as := up.As.Type()
	if _, err := c.exprAs(s, up.Expr, as, "upcast expression"); err != nil {
		return nil, err
	}
	return as, nil
}
