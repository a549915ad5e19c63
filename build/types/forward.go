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
	"github.com/gx-org/pfa/build/fmterr"
	"github.com/gx-org/pfa/build/jsontree"
	"github.com/pkg/errors"
)

// ParseForward resolves a batch of type expressions written as JSON or
// YAML texts. Types in the batch can refer to named types defined by any
// other text of the batch, in any order. It returns the resolved type of
// each text, keyed by the text.
func ParseForward(texts ...string) (map[string]Type, error) {
	b := NewBuilder()
	phs := make(map[string]*Placeholder, len(texts))
	for i, text := range texts {
		expr, err := jsontree.ParseString(text)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot parse type %d", i)
		}
		phs[text] = b.MakePlaceholder(expr, "", fmterr.Pos{Path: "types"}.Dot(i))
	}
	if err := b.ResolveTypes(); err != nil {
		return nil, err
	}
	typs := make(map[string]Type, len(phs))
	for text, ph := range phs {
		typs[text] = ph.Type()
	}
	return typs, nil
}
