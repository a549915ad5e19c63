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

// Package jsontree represents an untyped JSON or YAML document.
//
// A document is a tree of the following Go values:
//   - nil for null,
//   - bool,
//   - Number for numbers, keeping the literal text so that integers
//     and floating-point numbers can be classified by their consumer,
//   - string,
//   - []any for arrays,
//   - *Object for objects, keeping the order of the keys.
package jsontree

import (
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/gx-org/pfa/base/ordered"
)

// AtKey is the reserved object key carrying a source position tag.
const AtKey = "@"

// Number is a number as written in a document.
type Number string

// IsInteger returns true if the number is written without a fraction or an exponent.
func (n Number) IsInteger() bool {
	s := string(n)
	if s == "" {
		return false
	}
	return !strings.ContainsAny(s, ".eEnNiI")
}

// Int64 returns the number as an int64.
func (n Number) Int64() (int64, error) {
	return strconv.ParseInt(string(n), 10, 64)
}

// Float64 returns the number as a float64.
// Numbers too large to be represented return an infinity without error.
func (n Number) Float64() (float64, error) {
	f, err := strconv.ParseFloat(string(n), 64)
	if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
		return f, nil
	}
	return f, err
}

// String returns the literal text of the number.
func (n Number) String() string {
	return string(n)
}

// Object is a JSON object with ordered keys.
type Object struct {
	// Line and Column of the object in the source text.
	// Zero if the object has not been read from a text.
	Line, Column int

	fields *ordered.Map[string, any]
}

// NewObject returns a new empty object.
func NewObject() *Object {
	return &Object{fields: ordered.NewMap[string, any]()}
}

// Set a field of the object.
func (o *Object) Set(key string, value any) *Object {
	o.fields.Store(key, value)
	return o
}

// Get returns the value of a field.
func (o *Object) Get(key string) (any, bool) {
	return o.fields.Load(key)
}

// Has returns true if the object has a given key.
func (o *Object) Has(key string) bool {
	return o.fields.Has(key)
}

// Len returns the number of keys in the object.
func (o *Object) Len() int {
	return o.fields.Size()
}

// Keys iterates over the keys of the object in document order.
func (o *Object) Keys() iter.Seq[string] {
	return o.fields.Keys()
}

// Iter iterates over the fields of the object in document order.
func (o *Object) Iter() iter.Seq2[string, any] {
	return o.fields.Iter()
}

// At returns the source position tag of the object.
// An explicit "@" string field takes precedence over the position
// computed by the loader.
func (o *Object) At() string {
	if at, ok := o.Get(AtKey); ok {
		if s, isString := at.(string); isString {
			return s
		}
	}
	if o.Line == 0 {
		return ""
	}
	return fmt.Sprintf("line %d, column %d", o.Line, o.Column)
}

// Equal returns true if two trees hold the same values.
// Source positions are ignored.
func Equal(x, y any) bool {
	switch xT := x.(type) {
	case nil:
		return y == nil
	case bool:
		yT, ok := y.(bool)
		return ok && xT == yT
	case Number:
		yT, ok := y.(Number)
		if !ok {
			return false
		}
		if xT == yT {
			return true
		}
		xf, xErr := xT.Float64()
		yf, yErr := yT.Float64()
		return xErr == nil && yErr == nil && xf == yf
	case string:
		yT, ok := y.(string)
		return ok && xT == yT
	case []any:
		yT, ok := y.([]any)
		if !ok || len(xT) != len(yT) {
			return false
		}
		for i := range xT {
			if !Equal(xT[i], yT[i]) {
				return false
			}
		}
		return true
	case *Object:
		yT, ok := y.(*Object)
		if !ok || xT.withoutAt() != yT.withoutAt() {
			return false
		}
		for k, xv := range xT.Iter() {
			if k == AtKey {
				continue
			}
			yv, ok := yT.Get(k)
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	}
	return false
}

func (o *Object) withoutAt() int {
	if o.Has(AtKey) {
		return o.Len() - 1
	}
	return o.Len()
}
