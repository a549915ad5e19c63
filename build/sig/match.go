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
	"slices"

	"github.com/gx-org/pfa/build/types"
	"golang.org/x/exp/maps"
)

type (
	member struct {
		typ    types.Type
		strict bool
	}

	// labelData collects the constraints on a label while parameters are matched.
	labelData struct {
		// forward are the types of arguments matched by the label.
		// Strict members appear inside containers and cannot be promoted.
		forward []member
		// reversed are the parameter types of functions passed as arguments:
		// they must accept the type bound to the label.
		reversed []types.Type
		// allowed restricts the type bound to the label.
		allowed []*Wildcard
	}

	deferredRef struct {
		index   int
		pattern *Fcn
		ref     *Ref
	}

	// matcher matches the arguments of one call against one signature.
	matcher struct {
		version    string
		labels     map[string]*labelData
		enumFields []*EnumFields
		deferred   []deferredRef
	}
)

func newMatcher(version string) *matcher {
	return &matcher{
		version: version,
		labels:  make(map[string]*labelData),
	}
}

func (ld *labelData) clone() *labelData {
	return &labelData{
		forward:  slices.Clone(ld.forward),
		reversed: slices.Clone(ld.reversed),
		allowed:  slices.Clone(ld.allowed),
	}
}

func (m *matcher) clone() *matcher {
	c := &matcher{
		version:    m.version,
		labels:     make(map[string]*labelData, len(m.labels)),
		enumFields: slices.Clone(m.enumFields),
		deferred:   slices.Clone(m.deferred),
	}
	for label, ld := range m.labels {
		c.labels[label] = ld.clone()
	}
	return c
}

func (m *matcher) label(name string) *labelData {
	ld := m.labels[name]
	if ld == nil {
		ld = &labelData{}
		m.labels[name] = ld
	}
	return ld
}

func (m *matcher) add(label string, t types.Type, strict bool) {
	ld := m.label(label)
	ld.forward = append(ld.forward, member{typ: t, strict: strict})
}

// match records the constraints of matching an argument type against a pattern.
// Patterns inside containers are strict: their types cannot be promoted.
func (m *matcher) match(p Pattern, actual types.Type, strict bool) bool {
	if actual.Kind() == types.ExceptionKind {
		return true
	}
	switch pT := p.(type) {
	case *Concrete:
		if strict {
			return types.Equal(pT.Type, actual)
		}
		return pT.Type.Accepts(actual)
	case *Array:
		aT, ok := actual.(*types.Array)
		return ok && m.match(pT.Items, aT.Items, true)
	case *Map:
		aT, ok := actual.(*types.Map)
		return ok && m.match(pT.Values, aT.Values, true)
	case *Union:
		return m.matchUnion(pT, actual, strict)
	case *Fcn:
		return m.matchFcn(pT, actual)
	case *Wildcard:
		if !pT.allows(actual) {
			return false
		}
		m.label(pT.Label).allowed = append(m.label(pT.Label).allowed, pT)
		m.add(pT.Label, actual, strict)
		return true
	case *WildRecord:
		rec, ok := actual.(*types.Record)
		if !ok {
			return false
		}
		for name, fieldP := range pT.Fields.Iter() {
			field, ok := rec.Field(name)
			if !ok || !m.match(fieldP, field.Type, true) {
				return false
			}
		}
		m.add(pT.Label, rec, strict)
		return true
	case *WildEnum:
		if actual.Kind() != types.EnumKind {
			return false
		}
		m.add(pT.Label, actual, strict)
		return true
	case *WildFixed:
		if actual.Kind() != types.FixedKind {
			return false
		}
		m.add(pT.Label, actual, strict)
		return true
	case *EnumFields:
		if actual.Kind() != types.EnumKind {
			return false
		}
		m.add(pT.Label, actual, strict)
		m.enumFields = append(m.enumFields, pT)
		return true
	}
	return false
}

// matchUnion matches every member of the actual type with one member of the pattern.
func (m *matcher) matchUnion(p *Union, actual types.Type, strict bool) bool {
	for _, sub := range types.Members(actual) {
		matched := false
		for _, subP := range p.Types {
			trial := m.clone()
			if trial.match(subP, sub, strict) {
				*m = *trial
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func (m *matcher) matchFcn(p *Fcn, actual types.Type) bool {
	if ref, ok := actual.(*Ref); ok {
		m.deferred = append(m.deferred, deferredRef{pattern: p, ref: ref, index: -1})
		return true
	}
	aT, ok := actual.(*types.Fcn)
	if !ok || len(aT.Params) != len(p.Params) {
		return false
	}
	for i, paramP := range p.Params {
		if !m.reverse(paramP, aT.Params[i]) {
			return false
		}
	}
	return m.match(p.Ret, aT.Ret, false)
}

// reverse records the constraints of passing a value matched by a pattern
// to a function parameter of a declared type.
func (m *matcher) reverse(p Pattern, declared types.Type) bool {
	switch pT := p.(type) {
	case *Concrete:
		return declared.Accepts(pT.Type)
	case *Array:
		dT, ok := declared.(*types.Array)
		return ok && m.reverse(pT.Items, dT.Items)
	case *Map:
		dT, ok := declared.(*types.Map)
		return ok && m.reverse(pT.Values, dT.Values)
	case *Union:
		for _, sub := range pT.Types {
			if !m.reverse(sub, declared) {
				return false
			}
		}
		return true
	case *Wildcard:
		ld := m.label(pT.Label)
		ld.reversed = append(ld.reversed, declared)
		ld.allowed = append(ld.allowed, pT)
		return true
	case *WildRecord:
		rec, ok := declared.(*types.Record)
		if !ok {
			return false
		}
		for name, fieldP := range pT.Fields.Iter() {
			field, ok := rec.Field(name)
			if !ok || !m.reverse(fieldP, field.Type) {
				return false
			}
		}
		m.label(pT.Label).reversed = append(m.label(pT.Label).reversed, declared)
		return true
	case *WildEnum, *EnumFields:
		if declared.Kind() != types.EnumKind {
			return false
		}
		m.label(labelOf(pT)).reversed = append(m.label(labelOf(pT)).reversed, declared)
		return true
	case *WildFixed:
		if declared.Kind() != types.FixedKind {
			return false
		}
		m.label(pT.Label).reversed = append(m.label(pT.Label).reversed, declared)
		return true
	}
	return false
}

func labelOf(p Pattern) string {
	switch pT := p.(type) {
	case *Wildcard:
		return pT.Label
	case *WildRecord:
		return pT.Label
	case *WildEnum:
		return pT.Label
	case *WildFixed:
		return pT.Label
	case *EnumFields:
		return pT.Label
	}
	return ""
}

// assign computes the type bound to every label.
func (m *matcher) assign() (map[string]types.Type, bool) {
	assigned := make(map[string]types.Type, len(m.labels))
	labels := maps.Keys(m.labels)
	slices.Sort(labels)
	for _, label := range labels {
		t, ok := m.labels[label].assignment()
		if !ok {
			return nil, false
		}
		assigned[label] = t
	}
	for _, ef := range m.enumFields {
		enum, isEnum := assigned[ef.Label].(*types.Enum)
		rec, isRecord := assigned[ef.Record].(*types.Record)
		if !isEnum || !isRecord || !symbolsAreFields(enum, rec) {
			return nil, false
		}
	}
	return assigned, true
}

func symbolsAreFields(enum *types.Enum, rec *types.Record) bool {
	if len(enum.Symbols) != len(rec.Fields) {
		return false
	}
	for _, s := range enum.Symbols {
		if _, ok := rec.Field(s); !ok {
			return false
		}
	}
	return true
}

func (ld *labelData) assignment() (types.Type, bool) {
	var forward []types.Type
	for _, mb := range ld.forward {
		if mb.typ.Kind() != types.ExceptionKind {
			forward = append(forward, mb.typ)
		}
	}
	var t types.Type
	switch {
	case len(forward) > 0:
		var ok bool
		if t, ok = unify(forward); !ok {
			return nil, false
		}
		for _, mb := range ld.forward {
			if mb.strict && !types.Equal(t, mb.typ) {
				return nil, false
			}
		}
	case len(ld.reversed) > 0:
		t = narrowest(ld.reversed)
		if t == nil {
			return nil, false
		}
	default:
		t = types.ExceptionType()
	}
	for _, r := range ld.reversed {
		if !r.Accepts(t) {
			return nil, false
		}
	}
	if t.Kind() != types.ExceptionKind {
		for _, w := range ld.allowed {
			if !w.allows(t) {
				return nil, false
			}
		}
	}
	return t, true
}

// unify returns the type bound to a label matching several types.
// Numbers are unified to the widest one. Types of different kinds are
// only unified if one of them is a union.
func unify(typs []types.Type) (types.Type, bool) {
	if widest, ok := types.WidestNumeric(typs...); ok {
		return widest, true
	}
	first := typs[0]
	if !slices.ContainsFunc(typs, func(t types.Type) bool { return !types.Equal(first, t) }) {
		return first, true
	}
	if slices.ContainsFunc(typs, func(t types.Type) bool { return t.Kind() == types.UnionKind }) {
		t, err := types.Broadest(typs...)
		return t, err == nil
	}
	switch first.Kind() {
	case types.ArrayKind:
		items := make([]types.Type, len(typs))
		for i, t := range typs {
			aT, ok := t.(*types.Array)
			if !ok {
				return nil, false
			}
			items[i] = aT.Items
		}
		unified, ok := unify(items)
		if !ok {
			return nil, false
		}
		return types.ArrayOf(unified), true
	case types.MapKind:
		values := make([]types.Type, len(typs))
		for i, t := range typs {
			mT, ok := t.(*types.Map)
			if !ok {
				return nil, false
			}
			values[i] = mT.Values
		}
		unified, ok := unify(values)
		if !ok {
			return nil, false
		}
		return types.MapOf(unified), true
	}
	return nil, false
}

// narrowest returns the type accepted by all the other types.
func narrowest(typs []types.Type) types.Type {
	for _, candidate := range typs {
		if !slices.ContainsFunc(typs, func(t types.Type) bool { return !t.Accepts(candidate) }) {
			return candidate
		}
	}
	return nil
}

// substitute replaces the labels of a pattern by their bound types.
func substitute(p Pattern, assigned map[string]types.Type) (types.Type, bool) {
	switch pT := p.(type) {
	case *Concrete:
		return pT.Type, true
	case *Array:
		items, ok := substitute(pT.Items, assigned)
		if !ok {
			return nil, false
		}
		return types.ArrayOf(items), true
	case *Map:
		values, ok := substitute(pT.Values, assigned)
		if !ok {
			return nil, false
		}
		return types.MapOf(values), true
	case *Union:
		members := make([]types.Type, len(pT.Types))
		for i, sub := range pT.Types {
			var ok bool
			if members[i], ok = substitute(sub, assigned); !ok {
				return nil, false
			}
		}
		t, err := types.Broadest(members...)
		return t, err == nil
	case *Fcn:
		fcn := &types.Fcn{Params: make([]types.Type, len(pT.Params))}
		for i, param := range pT.Params {
			var ok bool
			if fcn.Params[i], ok = substitute(param, assigned); !ok {
				return nil, false
			}
		}
		var ok bool
		fcn.Ret, ok = substitute(pT.Ret, assigned)
		return fcn, ok
	}
	t, ok := assigned[labelOf(p)]
	return t, ok
}
