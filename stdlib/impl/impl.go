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

// Package impl provides the numeric kernels shared by the library
// functions: checked integer arithmetic and floored division.
package impl

import (
	"math"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

var (
	// ErrOverflow is returned when an integer operation overflows.
	ErrOverflow = errors.New("integer overflow")
	// ErrDivisionByZero is returned when an integer is divided by zero.
	ErrDivisionByZero = errors.New("integer division by zero")
)

// Add returns x+y or an error if the result overflows.
func Add[T constraints.Signed](x, y T) (T, error) {
	r := x + y
	if (y > 0 && r < x) || (y < 0 && r > x) {
		return 0, ErrOverflow
	}
	return r, nil
}

// Sub returns x-y or an error if the result overflows.
func Sub[T constraints.Signed](x, y T) (T, error) {
	r := x - y
	if (y < 0 && r < x) || (y > 0 && r > x) {
		return 0, ErrOverflow
	}
	return r, nil
}

// Mul returns x*y or an error if the result overflows.
func Mul[T constraints.Signed](x, y T) (T, error) {
	if x == 0 || y == 0 {
		return 0, nil
	}
	r := x * y
	if r/y != x || (y == -1 && x < 0 && r < 0) {
		return 0, ErrOverflow
	}
	return r, nil
}

// Neg returns -x or an error if x is the smallest integer.
func Neg[T constraints.Signed](x T) (T, error) {
	r := -x
	if x < 0 && r < 0 {
		return 0, ErrOverflow
	}
	return r, nil
}

// FloorDiv returns x/y rounded towards negative infinity.
func FloorDiv[T constraints.Signed](x, y T) (T, error) {
	if y == 0 {
		return 0, ErrDivisionByZero
	}
	if y == -1 {
		return Neg(x)
	}
	q := x / y
	if x%y != 0 && (x < 0) != (y < 0) {
		q--
	}
	return q, nil
}

// Mod returns the remainder of the floored division of x by y:
// the result has the sign of y.
func Mod[T constraints.Signed](x, y T) (T, error) {
	if y == 0 {
		return 0, ErrDivisionByZero
	}
	if y == -1 {
		return 0, nil
	}
	m := x % y
	if m != 0 && (m < 0) != (y < 0) {
		m += y
	}
	return m, nil
}

// FloatMod returns the remainder of the floored division of x by y.
func FloatMod[T constraints.Float](x, y T) T {
	m := T(math.Mod(float64(x), float64(y)))
	if m != 0 && (m < 0) != (y < 0) {
		m += y
	}
	return m
}

// Abs returns the absolute value of x or an error if x is the smallest integer.
func Abs[T constraints.Signed](x T) (T, error) {
	if x >= 0 {
		return x, nil
	}
	return Neg(x)
}

// Sum adds values, stopping at the first overflow.
func Sum[T constraints.Signed](xs []T) (T, error) {
	var total T
	for _, x := range xs {
		var err error
		if total, err = Add(total, x); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// Clamp restricts x to the interval [lo, hi].
func Clamp[T constraints.Ordered](x, lo, hi T) T {
	return min(max(x, lo), hi)
}
