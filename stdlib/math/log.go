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

package math

import (
	"math"

	"github.com/gx-org/pfa/build/sig"
	"github.com/gx-org/pfa/stdlib/builtin"
	"github.com/pkg/errors"
)

var (
	ln    = unary("m.ln", "Natural logarithm.", math.Log)
	log10 = unary("m.log10", "Logarithm in base 10.", math.Log10)
)

var logBase = builtin.Define("m.log", "Logarithm of x in a given base.", func(args []any) (any, error) {
	x, base := args[0].(float64), args[1].(int32)
	if base <= 0 {
		return nil, errors.Errorf("m.log: base must be positive, got %d", base)
	}
	return math.Log(x) / math.Log(float64(base)), nil
}, sig.New(sig.Double(), sig.P("x", sig.Double()), sig.P("base", sig.Int())))
