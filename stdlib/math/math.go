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

// Package math provides the m. functions.
// Functions on doubles follow IEEE 754: they never raise an error.
package math

import (
	"math"

	"github.com/gx-org/pfa/build/sig"
	"github.com/gx-org/pfa/stdlib/builtin"
	"github.com/gx-org/pfa/stdlib/impl"
	"github.com/pkg/errors"
)

func constant(name, doc string, v float64) *builtin.Func {
	return builtin.Define(name, doc, func([]any) (any, error) {
		return v, nil
	}, sig.New(sig.Double()))
}

func unary(name, doc string, f func(float64) float64) *builtin.Func {
	return builtin.Define(name, doc, func(args []any) (any, error) {
		return f(args[0].(float64)), nil
	}, sig.New(sig.Double(), sig.P("x", sig.Double())))
}

// Package of the math functions.
var Package = &builtin.Package{
	Prefix: "m.",
	Funcs: []*builtin.Func{
		constant("m.pi", "The constant pi.", math.Pi),
		constant("m.e", "The constant e.", math.E),
		builtin.Define("m.abs", "Absolute value of a number.", abs,
			sig.New(sig.AnyNumber("A"), sig.P("x", sig.AnyNumber("A")))),
		unary("m.sqrt", "Square root.", math.Sqrt),
		unary("m.exp", "Exponential.", math.Exp),
		unary("m.expm1", "Exponential minus one, accurate for small values.", math.Expm1),
		unary("m.sin", "Sine.", math.Sin),
		unary("m.cos", "Cosine.", math.Cos),
		unary("m.tan", "Tangent.", math.Tan),
		unary("m.asin", "Arc sine.", math.Asin),
		unary("m.acos", "Arc cosine.", math.Acos),
		unary("m.atan", "Arc tangent.", math.Atan),
		unary("m.sinh", "Hyperbolic sine.", math.Sinh),
		unary("m.cosh", "Hyperbolic cosine.", math.Cosh),
		unary("m.tanh", "Hyperbolic tangent.", math.Tanh),
		unary("m.floor", "Largest integer value not greater than x.", math.Floor),
		unary("m.ceil", "Smallest integer value not less than x.", math.Ceil),
		unary("m.special.erf", "Error function.", math.Erf),
		builtin.Define("m.atan2", "Arc tangent of y/x using the signs to find the quadrant.", func(args []any) (any, error) {
			return math.Atan2(args[0].(float64), args[1].(float64)), nil
		}, sig.New(sig.Double(), sig.P("y", sig.Double()), sig.P("x", sig.Double()))),
		builtin.Define("m.hypot", "Euclidean norm of (x, y).", func(args []any) (any, error) {
			return math.Hypot(args[0].(float64), args[1].(float64)), nil
		}, sig.New(sig.Double(), sig.P("x", sig.Double()), sig.P("y", sig.Double()))),
		builtin.Define("m.round", "Round to the nearest integer, halves away from zero.", round,
			sig.New(sig.Int(), sig.P("x", sig.Float())),
			sig.New(sig.Long(), sig.P("x", sig.Double())),
		),
		builtin.Define("m.rint", "Round to the nearest integer, halves to even.", func(args []any) (any, error) {
			return math.RoundToEven(args[0].(float64)), nil
		}, sig.New(sig.Double(), sig.P("x", sig.Double()))),
		builtin.Define("m.signum", "Sign of a number: -1, 0 or 1.", func(args []any) (any, error) {
			switch x := args[0].(float64); {
			case x > 0:
				return int32(1), nil
			case x < 0:
				return int32(-1), nil
			}
			return int32(0), nil
		}, sig.New(sig.Int(), sig.P("x", sig.Double()))),
		ln,
		log10,
		logBase,
	},
}

func abs(args []any) (any, error) {
	var r any
	var err error
	switch x := args[0].(type) {
	case int32:
		r, err = impl.Abs(x)
	case int64:
		r, err = impl.Abs(x)
	case float32:
		r = float32(math.Abs(float64(x)))
	case float64:
		r = math.Abs(x)
	default:
		return nil, errors.Errorf("m.abs: unsupported operand %T", x)
	}
	if err != nil {
		return nil, errors.Wrap(err, "m.abs")
	}
	return r, nil
}

// round rounds floats to ints and doubles to longs. Values out of range
// of the result raise an error.
func round(args []any) (any, error) {
	switch x := args[0].(type) {
	case float32:
		r := math.Round(float64(x))
		if math.IsNaN(r) || r < math.MinInt32 || r > math.MaxInt32 {
			return nil, errors.Errorf("m.round: %v does not fit in an int", x)
		}
		return int32(r), nil
	case float64:
		r := math.Round(x)
		if math.IsNaN(r) || r < math.MinInt64 || r >= math.MaxInt64 {
			return nil, errors.Errorf("m.round: %v does not fit in a long", x)
		}
		return int64(r), nil
	}
	return nil, errors.Errorf("m.round: unsupported operand %T", args[0])
}
