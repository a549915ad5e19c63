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

package types

import (
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/gx-org/pfa/build/jsontree"
	"github.com/pkg/errors"
)

// CheckValue checks that a document tree is a valid JSON encoding of a value of type t.
//
// Values follow the Avro JSON encoding: unions are encoded as null or as
// an object with a single key naming the member type, bytes and fixed as
// strings of code points below 256. Floating-point numbers may also be
// written as the strings "inf", "-inf" or "nan".
func CheckValue(t Type, v any) error {
	return checkValue(t, v, "")
}

func valuePath(path string, key any) string {
	if path == "" {
		return fmtKey(key)
	}
	return path + "." + fmtKey(key)
}

func fmtKey(key any) string {
	switch keyT := key.(type) {
	case int:
		return strconv.Itoa(keyT)
	case string:
		return keyT
	}
	return "?"
}

func valueError(path string, t Type, v any) error {
	if path == "" {
		return errors.Errorf("%s is not a valid %s", jsontree.Marshal(v), t)
	}
	return errors.Errorf("%s at %s is not a valid %s", jsontree.Marshal(v), path, t)
}

func checkValue(t Type, v any, path string) error {
	switch tT := t.(type) {
	case *primitive:
		if !isPrimitiveValue(tT.kind, v) {
			return valueError(path, t, v)
		}
		return nil
	case *Fixed:
		s, ok := v.(string)
		if !ok || !isByteString(s) || utf8.RuneCountInString(s) != tT.Size {
			return valueError(path, t, v)
		}
		return nil
	case *Enum:
		s, ok := v.(string)
		if !ok || tT.Index(s) < 0 {
			return valueError(path, t, v)
		}
		return nil
	case *Array:
		items, ok := v.([]any)
		if !ok {
			return valueError(path, t, v)
		}
		for i, item := range items {
			if err := checkValue(tT.Items, item, valuePath(path, i)); err != nil {
				return err
			}
		}
		return nil
	case *Map:
		obj, ok := v.(*jsontree.Object)
		if !ok {
			return valueError(path, t, v)
		}
		for key, value := range obj.Iter() {
			if key == jsontree.AtKey {
				continue
			}
			if err := checkValue(tT.Values, value, valuePath(path, key)); err != nil {
				return err
			}
		}
		return nil
	case *Record:
		return checkRecord(tT, v, path)
	case *Union:
		return checkUnion(tT, v, path)
	}
	return errors.Errorf("values of type %s cannot be written in a document", t)
}

func checkRecord(t *Record, v any, path string) error {
	obj, ok := v.(*jsontree.Object)
	if !ok {
		return valueError(path, t, v)
	}
	for key := range obj.Keys() {
		if key == jsontree.AtKey {
			continue
		}
		if _, ok := t.Field(key); !ok {
			return errors.Errorf("record %s has no field %q", t.FullName(), key)
		}
	}
	for _, f := range t.Fields {
		value, ok := obj.Get(f.Name)
		if !ok {
			if f.HasDefault {
				continue
			}
			return errors.Errorf("field %q of record %s is missing at %s", f.Name, t.FullName(), path)
		}
		if err := checkValue(f.Type, value, valuePath(path, f.Name)); err != nil {
			return err
		}
	}
	return nil
}

func checkUnion(t *Union, v any, path string) error {
	if v == nil {
		for _, sub := range t.Types {
			if sub.Kind() == NullKind {
				return nil
			}
		}
		return valueError(path, t, v)
	}
	obj, ok := v.(*jsontree.Object)
	if !ok || obj.Len() != 1 {
		return errors.Errorf("%s at %s: a union value must be null or an object with a single key naming a member type of %s", jsontree.Marshal(v), path, t)
	}
	for key, value := range obj.Iter() {
		for _, sub := range t.Types {
			if unionKey(sub) == key {
				return checkValue(sub, value, valuePath(path, key))
			}
		}
		return errors.Errorf("%q is not a member of union %s", key, t)
	}
	return nil
}

func isPrimitiveValue(kind Kind, v any) bool {
	switch kind {
	case NullKind:
		return v == nil
	case BooleanKind:
		_, ok := v.(bool)
		return ok
	case IntKind, LongKind:
		n, ok := v.(jsontree.Number)
		if !ok || !n.IsInteger() {
			return false
		}
		i, err := n.Int64()
		if err != nil {
			return false
		}
		return kind == LongKind || (i >= math.MinInt32 && i <= math.MaxInt32)
	case FloatKind, DoubleKind:
		switch vT := v.(type) {
		case jsontree.Number:
			_, err := vT.Float64()
			return err == nil
		case string:
			return vT == "inf" || vT == "-inf" || vT == "nan"
		}
		return false
	case BytesKind:
		s, ok := v.(string)
		return ok && isByteString(s)
	case StringKind:
		_, ok := v.(string)
		return ok
	}
	return false
}

// isByteString returns true if all the code points of s fit in a byte.
func isByteString(s string) bool {
	for _, r := range s {
		if r > 0xff {
			return false
		}
	}
	return true
}
