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

package sig

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/gx-org/pfa/base/iter"
	"github.com/gx-org/pfa/base/stringseq"
	"github.com/gx-org/pfa/build/types"
	"github.com/pkg/errors"
)

type (
	// Param is a named parameter of a signature.
	Param struct {
		Name    string
		Pattern Pattern
	}

	// Sig is the signature of a library function.
	Sig struct {
		Params []Param
		Ret    Pattern
		Life   Lifespan
	}

	// Sigs are the signatures of an overloaded function, in order of declaration.
	Sigs []*Sig

	// Match is the result of matching the arguments of a call against a signature.
	Match struct {
		// Sig is the matched signature and Index its position in the overloads.
		Sig   *Sig
		Index int
		// Params are the types of the parameters once the labels have been
		// bound. Arguments are promoted to these types.
		Params []types.Type
		// Ret is the type returned by the call.
		Ret types.Type
		// Refs are the resolved signatures of library functions passed as arguments,
		// keyed by the argument index.
		Refs map[int]*Match
		// Deprecated is true if the signature is deprecated in the version used to match.
		Deprecated bool
	}
)

// P returns a named parameter.
func P(name string, p Pattern) Param {
	return Param{Name: name, Pattern: p}
}

// New returns a signature.
func New(ret Pattern, params ...Param) *Sig {
	return &Sig{Params: params, Ret: ret}
}

// WithLife sets the lifespan of the signature.
func (s *Sig) WithLife(life Lifespan) *Sig {
	s.Life = life
	return s
}

// Validate checks that the signature is well formed: parameter names are
// unique and the labels of the result are bound by a parameter.
func (s *Sig) Validate() error {
	names := make(map[string]bool)
	var bound []string
	for _, param := range s.Params {
		if param.Name == "" {
			return errors.Errorf("signature %s has an unnamed parameter", s)
		}
		if names[param.Name] {
			return errors.Errorf("signature %s has more than one parameter named %q", s, param.Name)
		}
		names[param.Name] = true
		bound = param.Pattern.labels(bound)
	}
	for _, label := range s.Ret.labels(nil) {
		if !slices.Contains(bound, label) {
			return errors.Errorf("label %s of the result of signature %s is not bound by a parameter", label, s)
		}
	}
	return s.Life.Validate()
}

// wildParams returns the number of parameters with a wildcard.
func (s *Sig) wildParams() int {
	n := 0
	for _, param := range s.Params {
		if IsWild(param.Pattern) {
			n++
		}
	}
	return n
}

// Match the types of the arguments of a call against the signature.
// Returns false if the signature does not exist in the given version
// or does not accept the arguments.
func (s *Sig) Match(args []types.Type, version string) (*Match, bool) {
	if !s.Life.Alive(version) || len(args) != len(s.Params) {
		return nil, false
	}
	m := newMatcher(version)
	for i, param := range s.Params {
		n := len(m.deferred)
		if !m.match(param.Pattern, args[i], false) {
			return nil, false
		}
		for j := n; j < len(m.deferred); j++ {
			m.deferred[j].index = i
		}
	}
	var refs map[int]*Match
	var refTypes map[int]types.Type
	if len(m.deferred) > 0 {
		// Function references are resolved once the types of the other arguments are known.
		assigned, ok := m.assign()
		if !ok {
			return nil, false
		}
		refs = make(map[int]*Match)
		refTypes = make(map[int]types.Type)
		for _, def := range m.deferred {
			params := make([]types.Type, len(def.pattern.Params))
			for i, paramP := range def.pattern.Params {
				if params[i], ok = substitute(paramP, assigned); !ok {
					return nil, false
				}
			}
			fcn, refMatch, ok := def.ref.Resolve(params, version)
			if !ok || !m.match(def.pattern.Ret, fcn.Ret, false) {
				return nil, false
			}
			refs[def.index] = refMatch
			refTypes[def.index] = fcn
		}
	}
	assigned, ok := m.assign()
	if !ok {
		return nil, false
	}
	match := &Match{
		Sig:        s,
		Params:     make([]types.Type, len(args)),
		Refs:       refs,
		Deprecated: s.Life.Deprecated(version),
	}
	for i, param := range s.Params {
		if fcn, isRef := refTypes[i]; isRef {
			match.Params[i] = fcn
			continue
		}
		if match.Params[i], ok = substitute(param.Pattern, assigned); !ok {
			return nil, false
		}
	}
	if match.Ret, ok = substitute(s.Ret, assigned); !ok {
		return nil, false
	}
	return match, true
}

func (s *Sig) String() string {
	var b strings.Builder
	b.WriteString("(")
	for i, param := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %s", param.Name, param.Pattern)
	}
	fmt.Fprintf(&b, ") -> %s", s.Ret)
	return b.String()
}

// Match the types of the arguments of a call against all the signatures.
//
// If more than one signature matches, the signature with the fewest
// parameters containing a wildcard wins. Signatures with the same number
// of wildcard parameters are ordered by declaration.
func (ss Sigs) Match(args []types.Type, version string) (*Match, bool) {
	var best *Match
	for i, s := range ss {
		match, ok := s.Match(args, version)
		if !ok {
			continue
		}
		match.Index = i
		if best == nil || s.wildParams() < best.Sig.wildParams() {
			best = match
		}
	}
	return best, best != nil
}

// Alive returns the signatures existing in a given version.
func (ss Sigs) Alive(version string) Sigs {
	return slices.Collect(iter.Filter(slices.Values(ss), func(s *Sig) bool {
		return s.Life.Alive(version)
	}))
}

// Validate all the signatures.
func (ss Sigs) Validate() error {
	for i, s := range ss {
		if err := s.Validate(); err != nil {
			return errors.Wrapf(err, "signature %d", i)
		}
	}
	return nil
}

func (ss Sigs) String() string {
	return stringseq.JoinStringer(slices.Values(ss), "\n")
}

// Ref is the type of a reference to a library function passed as an
// argument. Its signature is resolved when the call receiving the
// reference is matched.
type Ref struct {
	Name string
	Sigs Sigs
	// Fill are the types of the parameters filled by the reference, by name.
	Fill map[string]types.Type
}

var _ types.Type = (*Ref)(nil)

// Kind returns FcnKind.
func (*Ref) Kind() types.Kind { return types.FcnKind }

// Accepts returns false: references are only resolved by signature matching.
func (*Ref) Accepts(types.Type) bool { return false }

func (r *Ref) String() string {
	if len(r.Fill) == 0 {
		return fmt.Sprintf("reference to %s", r.Name)
	}
	return fmt.Sprintf("reference to %s filling %s", r.Name, stringseq.JoinQuoted(maps.Keys(r.Fill), ", "))
}

// Resolve returns the type of the referenced function when it is called
// with arguments of the given types.
func (r *Ref) Resolve(params []types.Type, version string) (*types.Fcn, *Match, bool) {
	var best *Match
	for i, s := range r.Sigs {
		if len(s.Params) != len(params)+len(r.Fill) {
			continue
		}
		args := make([]types.Type, 0, len(s.Params))
		next := 0
		for _, param := range s.Params {
			if filled, ok := r.Fill[param.Name]; ok {
				args = append(args, filled)
				continue
			}
			if next >= len(params) {
				break
			}
			args = append(args, params[next])
			next++
		}
		if len(args) != len(s.Params) {
			continue
		}
		match, ok := s.Match(args, version)
		if !ok {
			continue
		}
		match.Index = i
		if best == nil || s.wildParams() < best.Sig.wildParams() {
			best = match
		}
	}
	if best == nil {
		return nil, nil, false
	}
	fcn := &types.Fcn{Ret: best.Ret}
	for i, param := range best.Sig.Params {
		if _, filled := r.Fill[param.Name]; !filled {
			fcn.Params = append(fcn.Params, best.Params[i])
		}
	}
	return fcn, best, true
}
