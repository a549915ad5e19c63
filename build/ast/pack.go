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

package ast

import (
	"strconv"
	"strings"

	"github.com/gx-org/pfa/build/types"
	"github.com/pkg/errors"
)

// PackFormat returns the type of the values packed or unpacked with a given format.
//
// Numeric formats can be prefixed by an endianness (little or big, the
// default being big). Supported formats are pad, boolean, byte, short,
// int, long (all optionally unsigned), float, double, raw, raw followed by
// a size, tonull and prefixed.
func PackFormat(format string) (types.Type, error) {
	words := strings.Fields(format)
	if len(words) > 0 && (words[0] == "little" || words[0] == "big") {
		words = words[1:]
	}
	unsigned := len(words) > 0 && words[0] == "unsigned"
	if unsigned {
		words = words[1:]
	}
	if len(words) == 0 {
		return nil, errors.Errorf("invalid pack format %q", format)
	}
	if words[0] == "raw" && len(words) == 2 {
		if size, err := strconv.Atoi(words[1]); err == nil && size >= 0 && !unsigned {
			return types.BytesType(), nil
		}
		return nil, errors.Errorf("invalid pack format %q", format)
	}
	if len(words) != 1 {
		return nil, errors.Errorf("invalid pack format %q", format)
	}
	switch words[0] {
	case "byte", "short":
		return types.IntType(), nil
	case "int":
		if unsigned {
			return types.LongType(), nil
		}
		return types.IntType(), nil
	case "long":
		if unsigned {
			return types.DoubleType(), nil
		}
		return types.LongType(), nil
	}
	if unsigned {
		return nil, errors.Errorf("invalid pack format %q: %s cannot be unsigned", format, words[0])
	}
	switch words[0] {
	case "pad":
		return types.NullType(), nil
	case "boolean":
		return types.BooleanType(), nil
	case "float":
		return types.FloatType(), nil
	case "double":
		return types.DoubleType(), nil
	case "raw", "tonull", "prefixed":
		return types.BytesType(), nil
	}
	return nil, errors.Errorf("invalid pack format %q", format)
}
