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

package reader

import (
	"encoding/base64"
	"math"
	"strconv"
	"strings"

	"github.com/gx-org/pfa/build/ast"
	"github.com/gx-org/pfa/build/fmterr"
	"github.com/gx-org/pfa/build/jsontree"
)

// readNumber classifies a number: integers are ints if they fit in 32 bits,
// longs if they fit in 64 bits. Other numbers are doubles.
func readNumber(n jsontree.Number, pos fmterr.Pos) (ast.Expr, error) {
	src := ast.Src{At: pos}
	if !n.IsInteger() {
		f, err := n.Float64()
		if err != nil {
			return nil, fmterr.Syntaxf(pos, "invalid number %s", n)
		}
		return &ast.LiteralDouble{Src: src, Value: f}, nil
	}
	i, err := n.Int64()
	if err != nil {
		return nil, fmterr.Syntaxf(pos, "integer %s is too large to be represented as a long", n)
	}
	if i >= math.MinInt32 && i <= math.MaxInt32 {
		return &ast.LiteralInt{Src: src, Value: int32(i)}, nil
	}
	return &ast.LiteralLong{Src: src, Value: i}, nil
}

// readString reads a symbol reference or a dotted path like a.b.0.
func readString(s string, pos fmterr.Pos) (ast.Expr, error) {
	src := ast.Src{At: pos}
	if IsSymbol(s) {
		return &ast.Ref{Src: src, Name: s}, nil
	}
	segments := strings.Split(s, ".")
	if len(segments) < 2 || !IsSymbol(segments[0]) {
		return nil, fmterr.Syntaxf(pos, "%q is not a valid symbol name or attribute path (use [%q] for a string literal)", s, s)
	}
	attr := &ast.AttrGet{
		Src:  src,
		Expr: &ast.Ref{Src: src, Name: segments[0]},
	}
	for _, seg := range segments[1:] {
		switch {
		case seg == "":
			return nil, fmterr.Syntaxf(pos, "attribute path %q has an empty segment", s)
		case digitsRegexp.MatchString(seg):
			index, err := strconv.ParseInt(seg, 10, 32)
			if err != nil {
				return nil, fmterr.Syntaxf(pos, "index %s in %q is out of range", seg, s)
			}
			attr.Path = append(attr.Path, &ast.LiteralInt{Src: ast.Src{At: pos}, Value: int32(index)})
		default:
			attr.Path = append(attr.Path, &ast.LiteralString{Src: ast.Src{At: pos}, Value: seg})
		}
	}
	return attr, nil
}

func readInt(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	n, ok := get(obj, "int").(jsontree.Number)
	if !ok || !n.IsInteger() {
		return nil, fmterr.Syntaxf(pos.Dot("int"), "\"int\" must be an integer")
	}
	i, err := strconv.ParseInt(n.String(), 10, 32)
	if err != nil {
		return nil, fmterr.Syntaxf(pos.Dot("int"), "%s is out of the range of int", n)
	}
	return &ast.LiteralInt{Src: ast.Src{At: pos}, Value: int32(i)}, nil
}

func readLong(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	n, ok := get(obj, "long").(jsontree.Number)
	if !ok || !n.IsInteger() {
		return nil, fmterr.Syntaxf(pos.Dot("long"), "\"long\" must be an integer")
	}
	i, err := n.Int64()
	if err != nil {
		return nil, fmterr.Syntaxf(pos.Dot("long"), "%s is out of the range of long", n)
	}
	return &ast.LiteralLong{Src: ast.Src{At: pos}, Value: i}, nil
}

// floatValue returns the value of a floating-point literal: a number or
// one of the strings inf, -inf and nan.
func floatValue(v any) (float64, bool) {
	switch vT := v.(type) {
	case jsontree.Number:
		f, err := vT.Float64()
		return f, err == nil
	case string:
		switch vT {
		case "inf":
			return math.Inf(1), true
		case "-inf":
			return math.Inf(-1), true
		case "nan":
			return math.NaN(), true
		}
	}
	return 0, false
}

func readFloat(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	f, ok := floatValue(get(obj, "float"))
	if !ok {
		return nil, fmterr.Syntaxf(pos.Dot("float"), "\"float\" must be a number")
	}
	return &ast.LiteralFloat{Src: ast.Src{At: pos}, Value: float32(f)}, nil
}

func readDouble(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	f, ok := floatValue(get(obj, "double"))
	if !ok {
		return nil, fmterr.Syntaxf(pos.Dot("double"), "\"double\" must be a number")
	}
	return &ast.LiteralDouble{Src: ast.Src{At: pos}, Value: f}, nil
}

func readStringLiteral(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	s, err := r.stringField(obj, "string", pos)
	if err != nil {
		return nil, err
	}
	return &ast.LiteralString{Src: ast.Src{At: pos}, Value: s}, nil
}

func readBase64(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	s, err := r.stringField(obj, "base64", pos)
	if err != nil {
		return nil, err
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmterr.Syntaxf(pos.Dot("base64"), "invalid base64 string: %v", err)
	}
	return &ast.LiteralBase64{Src: ast.Src{At: pos}, Value: b}, nil
}

func readLiteral(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	lit := &ast.Literal{
		Src:   ast.Src{At: pos},
		Type:  r.typ(get(obj, "type"), pos.Dot("type")),
		Value: get(obj, "value"),
	}
	r.checkValueLater(lit.Type, lit.Value, pos.Dot("value"), "literal value")
	return lit, nil
}

func readNew(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	typ := r.typ(get(obj, "type"), pos.Dot("type"))
	newPos := pos.Dot("new")
	switch v := get(obj, "new").(type) {
	case []any:
		items, err := r.body(v, newPos)
		if err != nil {
			return nil, err
		}
		return &ast.NewArray{Src: ast.Src{At: pos}, Items: items, Type: typ}, nil
	case *jsontree.Object:
		fields := ast.NewBindings()
		for name, value := range v.Iter() {
			if name == jsontree.AtKey {
				continue
			}
			expr, err := r.Expr(value, newPos.Dot(name))
			if err != nil {
				return nil, err
			}
			fields.Store(name, expr)
		}
		return &ast.NewObject{Src: ast.Src{At: pos}, Fields: fields, Type: typ}, nil
	}
	return nil, fmterr.Syntaxf(newPos, "\"new\" must be an array or an object")
}
