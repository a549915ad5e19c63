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

package builtin

import (
	"github.com/gx-org/pfa/build/types"
	"github.com/pkg/errors"
)

// Promote converts a value to a type accepting it.
// Numbers are widened to the numeric kind of the target type, including
// the items of arrays and the values of maps.
func Promote(v any, t types.Type) (any, error) {
	switch tT := t.(type) {
	case *types.Array:
		items, ok := v.([]any)
		if !ok {
			return v, nil
		}
		out := make([]any, len(items))
		for i, item := range items {
			var err error
			if out[i], err = Promote(item, tT.Items); err != nil {
				return nil, errors.Wrapf(err, "item %d", i)
			}
		}
		return out, nil
	case *types.Map:
		values, ok := v.(map[string]any)
		if !ok {
			return v, nil
		}
		out := make(map[string]any, len(values))
		for k, value := range values {
			var err error
			if out[k], err = Promote(value, tT.Values); err != nil {
				return nil, errors.Wrapf(err, "key %q", k)
			}
		}
		return out, nil
	}
	if !t.Kind().IsNumeric() {
		return v, nil
	}
	return promoteNumber(v, t.Kind())
}

func promoteNumber(v any, kind types.Kind) (any, error) {
	switch kind {
	case types.IntKind:
		if x, ok := v.(int32); ok {
			return x, nil
		}
	case types.LongKind:
		switch x := v.(type) {
		case int32:
			return int64(x), nil
		case int64:
			return x, nil
		}
	case types.FloatKind:
		switch x := v.(type) {
		case int32:
			return float32(x), nil
		case int64:
			return float32(x), nil
		case float32:
			return x, nil
		}
	case types.DoubleKind:
		switch x := v.(type) {
		case int32:
			return float64(x), nil
		case int64:
			return float64(x), nil
		case float32:
			return float64(x), nil
		case float64:
			return x, nil
		}
	}
	return nil, errors.Errorf("cannot promote %T to %s", v, kind)
}

// PromoteAll promotes the arguments of a call to the types of the parameters.
func PromoteAll(args []any, params []types.Type) ([]any, error) {
	if len(args) != len(params) {
		return nil, errors.Errorf("got %d arguments but want %d", len(args), len(params))
	}
	out := make([]any, len(args))
	for i, arg := range args {
		if _, isFcn := params[i].(*types.Fcn); isFcn {
			out[i] = arg
			continue
		}
		var err error
		if out[i], err = Promote(arg, params[i]); err != nil {
			return nil, errors.Wrapf(err, "argument %d", i)
		}
	}
	return out, nil
}

// Float64 returns a numeric value as a float64.
func Float64(v any) (float64, bool) {
	switch x := v.(type) {
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

// Int64 returns an integer value as an int64.
func Int64(v any) (int64, bool) {
	switch x := v.(type) {
	case int32:
		return int64(x), true
	case int64:
		return x, true
	}
	return 0, false
}
