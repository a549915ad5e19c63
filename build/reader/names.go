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

package reader

import (
	"regexp"
	"slices"
)

var (
	symbolRegexp   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	fcnNameRegexp  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z0-9_]+)*$`)
	operatorRegexp = regexp.MustCompile(`^[-+*/%<>=!&|^~]+$`)
	digitsRegexp   = regexp.MustCompile(`^[0-9]+$`)
)

// IsSymbol returns true if s is a valid symbol name:
// a letter or an underscore followed by letters, digits or underscores.
func IsSymbol(s string) bool {
	return symbolRegexp.MatchString(s)
}

// IsFunctionName returns true if s is a valid function name: a symbol
// followed by segments of letters, digits or underscores, each after a dot.
func IsFunctionName(s string) bool {
	return fcnNameRegexp.MatchString(s)
}

// IsOperator returns true if s is the name of an operator, like + or &&.
func IsOperator(s string) bool {
	return s == "u-" || operatorRegexp.MatchString(s)
}

// reserved are the keys that cannot name a function in a call.
var reserved = []string{
	"args", "as", "attr", "base64", "call", "cases", "cast", "cell", "code",
	"cond", "del", "do", "doc", "double", "else", "error", "fcn", "fill",
	"filter", "float", "for", "foreach", "forkey", "format", "forval", "if",
	"ifnotnull", "in", "init", "int", "let", "log", "long", "named",
	"namespace", "new", "pack", "params", "partial", "path", "pool", "ret",
	"seq", "set", "step", "string", "then", "to", "try", "type", "unpack",
	"until", "upcast", "value", "while",
}

// IsReserved returns true if s is a key reserved by the grammar of expressions.
func IsReserved(s string) bool {
	_, found := slices.BinarySearch(reserved, s)
	return found
}
