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

// Package strings provides the s. functions.
// Strings are indexed by code points, not by bytes.
package strings

import (
	"strings"
	"unicode/utf8"

	"github.com/gx-org/pfa/build/sig"
	"github.com/gx-org/pfa/stdlib/builtin"
	"github.com/gx-org/pfa/stdlib/impl"
	"github.com/pkg/errors"
)

func str(args []any, i int) string {
	return args[i].(string)
}

func transform(name, doc string, f func(string) string) *builtin.Func {
	return builtin.Define(name, doc, func(args []any) (any, error) {
		return f(str(args, 0)), nil
	}, sig.New(sig.String(), sig.P("s", sig.String())))
}

func test(name, doc string, f func(s, x string) bool) *builtin.Func {
	return builtin.Define(name, doc, func(args []any) (any, error) {
		return f(str(args, 0), str(args, 1)), nil
	}, sig.New(sig.Boolean(), sig.P("haystack", sig.String()), sig.P("needle", sig.String())))
}

// Package of the string functions.
var Package = &builtin.Package{
	Prefix: "s.",
	Funcs: []*builtin.Func{
		builtin.Define("s.len", "Number of characters in a string.", func(args []any) (any, error) {
			return int32(utf8.RuneCountInString(str(args, 0))), nil
		}, sig.New(sig.Int(), sig.P("s", sig.String()))),
		builtin.Define("s.substr", "Characters of s between start (inclusive) and end (exclusive).", substr,
			sig.New(sig.String(), sig.P("s", sig.String()), sig.P("start", sig.Int()), sig.P("end", sig.Int()))),
		builtin.Define("s.concat", "Concatenate two strings.", func(args []any) (any, error) {
			return str(args, 0) + str(args, 1), nil
		}, sig.New(sig.String(), sig.P("x", sig.String()), sig.P("y", sig.String()))),
		builtin.Define("s.repeat", "Repeat a string n times.", func(args []any) (any, error) {
			n := args[1].(int32)
			if n < 0 {
				return nil, errors.Errorf("s.repeat: negative count %d", n)
			}
			return strings.Repeat(str(args, 0), int(n)), nil
		}, sig.New(sig.String(), sig.P("s", sig.String()), sig.P("n", sig.Int()))),
		builtin.Define("s.join", "Join an array of strings with a separator.", func(args []any) (any, error) {
			items := args[0].([]any)
			parts := make([]string, len(items))
			for i, item := range items {
				parts[i] = item.(string)
			}
			return strings.Join(parts, str(args, 1)), nil
		}, sig.New(sig.String(), sig.P("array", sig.ArrayOf(sig.String())), sig.P("sep", sig.String()))),
		builtin.Define("s.split", "Split a string at each occurrence of a separator.", func(args []any) (any, error) {
			parts := strings.Split(str(args, 0), str(args, 1))
			out := make([]any, len(parts))
			for i, part := range parts {
				out[i] = part
			}
			return out, nil
		}, sig.New(sig.ArrayOf(sig.String()), sig.P("s", sig.String()), sig.P("sep", sig.String()))),
		builtin.Define("s.index", "Index of the first occurrence of needle in haystack, -1 if absent.", func(args []any) (any, error) {
			haystack := str(args, 0)
			i := strings.Index(haystack, str(args, 1))
			if i < 0 {
				return int32(-1), nil
			}
			return int32(utf8.RuneCountInString(haystack[:i])), nil
		}, sig.New(sig.Int(), sig.P("haystack", sig.String()), sig.P("needle", sig.String()))),
		test("s.contains", "Test if haystack contains needle.", strings.Contains),
		test("s.startswith", "Test if haystack starts with needle.", strings.HasPrefix),
		test("s.endswith", "Test if haystack ends with needle.", strings.HasSuffix),
		transform("s.upper", "Convert to upper case.", strings.ToUpper),
		transform("s.lower", "Convert to lower case.", strings.ToLower),
		builtin.Define("s.strip", "Remove the given characters from both ends of a string.", func(args []any) (any, error) {
			return strings.Trim(str(args, 0), str(args, 1)), nil
		}, sig.New(sig.String(), sig.P("s", sig.String()), sig.P("chars", sig.String()))),
	},
}

// substr selects characters between two indexes. Negative indexes count
// from the end of the string and indexes out of range are clipped.
func substr(args []any) (any, error) {
	runes := []rune(str(args, 0))
	start := index(args[1].(int32), len(runes))
	end := index(args[2].(int32), len(runes))
	if end <= start {
		return "", nil
	}
	return string(runes[start:end]), nil
}

func index(i int32, n int) int {
	if i < 0 {
		i += int32(n)
	}
	return int(impl.Clamp(i, 0, int32(n)))
}
