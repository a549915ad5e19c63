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

package jsontree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Marshal returns the compact JSON text of a tree.
// Keys are written in document order.
func Marshal(v any) string {
	var b strings.Builder
	write(&b, v)
	return b.String()
}

func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func write(b *strings.Builder, v any) {
	switch vT := v.(type) {
	case nil:
		b.WriteString("null")
	case bool:
		b.WriteString(strconv.FormatBool(vT))
	case Number:
		b.WriteString(string(vT))
	case string:
		b.WriteString(quote(vT))
	case []any:
		b.WriteString("[")
		for i, el := range vT {
			if i > 0 {
				b.WriteString(",")
			}
			write(b, el)
		}
		b.WriteString("]")
	case *Object:
		b.WriteString("{")
		i := 0
		for k, el := range vT.Iter() {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(quote(k))
			b.WriteString(":")
			write(b, el)
			i++
		}
		b.WriteString("}")
	default:
		write(b, FromGo(v))
	}
}

// FromGo converts Go values, as produced by encoding/json or written
// by hand, into a tree. Keys of Go maps are sorted.
// Floating-point values are always written with a fraction so that they
// are never read back as integers.
func FromGo(v any) any {
	switch vT := v.(type) {
	case nil, bool, string, Number, *Object:
		return vT
	case json.Number:
		return Number(vT)
	case int:
		return Number(strconv.Itoa(vT))
	case int32:
		return Number(strconv.FormatInt(int64(vT), 10))
	case int64:
		return Number(strconv.FormatInt(vT, 10))
	case float32:
		return floatNumber(float64(vT), 32)
	case float64:
		return floatNumber(vT, 64)
	case []any:
		arr := make([]any, len(vT))
		for i, el := range vT {
			arr[i] = FromGo(el)
		}
		return arr
	case []string:
		arr := make([]any, len(vT))
		for i, el := range vT {
			arr[i] = el
		}
		return arr
	case map[string]any:
		keys := make([]string, 0, len(vT))
		for k := range vT {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			obj.Set(k, FromGo(vT[k]))
		}
		return obj
	}
	return fmt.Sprint(v)
}

func floatNumber(f float64, bitSize int) Number {
	switch {
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	case math.IsNaN(f):
		return "NaN"
	}
	s := strconv.FormatFloat(f, 'g', -1, bitSize)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return Number(s)
}
