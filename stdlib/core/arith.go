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

package core

import (
	"bytes"
	"cmp"
	"math"
	"reflect"

	"github.com/gx-org/pfa/stdlib/impl"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// numOp is a binary operator implemented for each numeric type.
// Arguments are promoted to the same type before the operator is applied.
type numOp struct {
	i32 func(x, y int32) (int32, error)
	i64 func(x, y int64) (int64, error)
	f32 func(x, y float32) float32
	f64 func(x, y float64) float64
}

func (op numOp) apply(name string, x, y any) (any, error) {
	var r any
	var err error
	switch xT := x.(type) {
	case int32:
		r, err = op.i32(xT, y.(int32))
	case int64:
		r, err = op.i64(xT, y.(int64))
	case float32:
		if op.f32 == nil {
			break
		}
		return op.f32(xT, y.(float32)), nil
	case float64:
		if op.f64 == nil {
			break
		}
		return op.f64(xT, y.(float64)), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	if r == nil {
		return nil, errors.Errorf("%s: unsupported operands %T and %T", name, x, y)
	}
	return r, nil
}

func addFloat[T constraints.Float](x, y T) T { return x + y }

func subFloat[T constraints.Float](x, y T) T { return x - y }

func mulFloat[T constraints.Float](x, y T) T { return x * y }

func powFloat[T constraints.Float](x, y T) T {
	return T(math.Pow(float64(x), float64(y)))
}

// powInt raises an integer to an integer power.
// Negative powers round towards zero as for integer division.
func powInt[T constraints.Signed](x, y T) (T, error) {
	switch x {
	case 0:
		if y < 0 {
			return 0, impl.ErrDivisionByZero
		}
		if y == 0 {
			return 1, nil
		}
		return 0, nil
	case 1:
		return 1, nil
	case -1:
		if y%2 == 0 {
			return 1, nil
		}
		return -1, nil
	}
	if y < 0 {
		return 0, nil
	}
	var r T = 1
	for ; y > 0; y-- {
		var err error
		if r, err = impl.Mul(r, x); err != nil {
			return 0, err
		}
	}
	return r, nil
}

func negate(args []any) (any, error) {
	var r any
	var err error
	switch x := args[0].(type) {
	case int32:
		r, err = impl.Neg(x)
	case int64:
		r, err = impl.Neg(x)
	case float32:
		r = -x
	case float64:
		r = -x
	default:
		return nil, errors.Errorf("u-: unsupported operand %T", x)
	}
	if err != nil {
		return nil, errors.Wrap(err, "u-")
	}
	return r, nil
}

// compare orders two values of the same type.
func compare(name string, x, y any) (int, error) {
	switch xT := x.(type) {
	case int32:
		return cmp.Compare(xT, y.(int32)), nil
	case int64:
		return cmp.Compare(xT, y.(int64)), nil
	case float32:
		return cmp.Compare(xT, y.(float32)), nil
	case float64:
		return cmp.Compare(xT, y.(float64)), nil
	case string:
		return cmp.Compare(xT, y.(string)), nil
	case []byte:
		return bytes.Compare(xT, y.([]byte)), nil
	case bool:
		return compareBool(xT, y.(bool)), nil
	}
	return 0, errors.Errorf("%s: cannot compare values of type %T", name, x)
}

func compareBool(x, y bool) int {
	switch {
	case x == y:
		return 0
	case y:
		return -1
	}
	return 1
}

func extremum(name string, args []any, better func(int) bool) (any, error) {
	c, err := compare(name, args[1], args[0])
	if err != nil {
		return nil, err
	}
	if better(c) {
		return args[1], nil
	}
	return args[0], nil
}

func equal(x, y any) bool {
	return reflect.DeepEqual(x, y)
}
