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

// Package core provides the operators of the language: arithmetic,
// comparison and logic.
package core

import (
	"github.com/gx-org/pfa/build/sig"
	"github.com/gx-org/pfa/build/types"
	"github.com/gx-org/pfa/stdlib/builtin"
	"github.com/gx-org/pfa/stdlib/impl"
)

func numbers() []sig.Param {
	return []sig.Param{sig.P("x", sig.AnyNumber("A")), sig.P("y", sig.AnyNumber("A"))}
}

func ordered() *sig.Wildcard {
	return sig.Any("A",
		types.IntType(), types.LongType(), types.FloatType(), types.DoubleType(),
		types.StringType(), types.BytesType(), types.BooleanType(),
	)
}

func arithmetic(name, doc string, op numOp) *builtin.Func {
	return builtin.Define(name, doc, func(args []any) (any, error) {
		return op.apply(name, args[0], args[1])
	}, sig.New(sig.AnyNumber("A"), numbers()...))
}

func comparison(name, doc string, test func(int) bool) *builtin.Func {
	return builtin.Define(name, doc, func(args []any) (any, error) {
		c, err := compare(name, args[0], args[1])
		if err != nil {
			return nil, err
		}
		return test(c), nil
	}, sig.New(sig.Boolean(), sig.P("x", ordered()), sig.P("y", ordered())))
}

func logic(name, doc string, op func(x, y bool) bool) *builtin.Func {
	return builtin.Define(name, doc, func(args []any) (any, error) {
		return op(args[0].(bool), args[1].(bool)), nil
	}, sig.New(sig.Boolean(), sig.P("x", sig.Boolean()), sig.P("y", sig.Boolean())))
}

func integers() *sig.Wildcard {
	return sig.Any("A", types.IntType(), types.LongType())
}

// Package of the core operators.
var Package = &builtin.Package{
	Funcs: []*builtin.Func{
		arithmetic("+", "Add two numbers.", numOp{
			i32: impl.Add[int32], i64: impl.Add[int64],
			f32: addFloat[float32], f64: addFloat[float64],
		}),
		arithmetic("-", "Subtract y from x.", numOp{
			i32: impl.Sub[int32], i64: impl.Sub[int64],
			f32: subFloat[float32], f64: subFloat[float64],
		}),
		arithmetic("*", "Multiply two numbers.", numOp{
			i32: impl.Mul[int32], i64: impl.Mul[int64],
			f32: mulFloat[float32], f64: mulFloat[float64],
		}),
		arithmetic("%", "Remainder of the floored division of x by y.", numOp{
			i32: impl.Mod[int32], i64: impl.Mod[int64],
			f32: impl.FloatMod[float32], f64: impl.FloatMod[float64],
		}),
		arithmetic("**", "Raise x to the power y.", numOp{
			i32: powInt[int32], i64: powInt[int64],
			f32: powFloat[float32], f64: powFloat[float64],
		}),
		builtin.Define("/", "Divide two numbers as doubles.", func(args []any) (any, error) {
			return args[0].(float64) / args[1].(float64), nil
		}, sig.New(sig.Double(), sig.P("x", sig.Double()), sig.P("y", sig.Double()))),
		builtin.Define("//", "Divide two integers, rounding towards negative infinity.", func(args []any) (any, error) {
			return numOp{i32: impl.FloorDiv[int32], i64: impl.FloorDiv[int64]}.apply("//", args[0], args[1])
		}, sig.New(integers(), sig.P("x", integers()), sig.P("y", integers()))),
		builtin.Define("u-", "Negate a number.", negate,
			sig.New(sig.AnyNumber("A"), sig.P("x", sig.AnyNumber("A")))),
		builtin.Define("==", "Test two values for equality.", func(args []any) (any, error) {
			return equal(args[0], args[1]), nil
		}, sig.New(sig.Boolean(), sig.P("x", sig.Any("A")), sig.P("y", sig.Any("A")))),
		builtin.Define("!=", "Test two values for inequality.", func(args []any) (any, error) {
			return !equal(args[0], args[1]), nil
		}, sig.New(sig.Boolean(), sig.P("x", sig.Any("A")), sig.P("y", sig.Any("A")))),
		comparison("<", "Test if x is less than y.", func(c int) bool { return c < 0 }),
		comparison("<=", "Test if x is less than or equal to y.", func(c int) bool { return c <= 0 }),
		comparison(">", "Test if x is greater than y.", func(c int) bool { return c > 0 }),
		comparison(">=", "Test if x is greater than or equal to y.", func(c int) bool { return c >= 0 }),
		builtin.Define("max", "Return the largest of x and y.", func(args []any) (any, error) {
			return extremum("max", args, func(c int) bool { return c > 0 })
		}, sig.New(ordered(), sig.P("x", ordered()), sig.P("y", ordered()))),
		builtin.Define("min", "Return the smallest of x and y.", func(args []any) (any, error) {
			return extremum("min", args, func(c int) bool { return c < 0 })
		}, sig.New(ordered(), sig.P("x", ordered()), sig.P("y", ordered()))),
		logic("&&", "Logical and.", func(x, y bool) bool { return x && y }),
		logic("||", "Logical or.", func(x, y bool) bool { return x || y }),
		logic("^^", "Logical exclusive or.", func(x, y bool) bool { return x != y }),
		builtin.Define("!", "Logical not.", func(args []any) (any, error) {
			return !args[0].(bool), nil
		}, sig.New(sig.Boolean(), sig.P("x", sig.Boolean()))),
	},
}
