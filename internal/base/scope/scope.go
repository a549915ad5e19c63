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

// Package scope provides lexical scopes for the symbols of a PFA document.
//
// Symbols cannot be shadowed: a symbol can only be defined if it is not
// visible from the scope. Scopes can be separated from their parent by a
// boundary restricting what can be seen or modified from the inside.
package scope

import (
	"github.com/gx-org/pfa/base/ordered"
	"github.com/pkg/errors"
)

// Boundary between a scope and its parent.
type Boundary int

const (
	// Open boundary: symbols of the parents can be read and assigned.
	Open Boundary = iota
	// ReadOnly boundary: symbols of the parents can be read but not assigned.
	ReadOnly
	// Sealed boundary: symbols of the parents are not visible.
	Sealed
)

// Scope stores the value of symbols, typically their types.
// A symbol is found by querying the scope and, if not found, its parents
// recursively up to the first sealed boundary.
type Scope[V any] struct {
	parent   *Scope[V]
	boundary Boundary
	local    *ordered.Map[string, V]
}

// New returns a new root scope.
func New[V any]() *Scope[V] {
	return &Scope[V]{local: ordered.NewMap[string, V]()}
}

// NewWithValues returns a new root scope with predefined values.
func NewWithValues[V any](vals *ordered.Map[string, V]) *Scope[V] {
	s := New[V]()
	for k, v := range vals.Iter() {
		s.local.Store(k, v)
	}
	return s
}

// NewChild returns a new scope nested in s.
func (s *Scope[V]) NewChild(b Boundary) *Scope[V] {
	return &Scope[V]{
		parent:   s,
		boundary: b,
		local:    ordered.NewMap[string, V](),
	}
}

// Find returns the value of a symbol visible from the scope.
func (s *Scope[V]) Find(key string) (value V, ok bool) {
	for current := s; current != nil; current = current.parent {
		if value, ok = current.local.Load(key); ok {
			return
		}
		if current.boundary == Sealed {
			break
		}
	}
	return
}

// Define a new symbol in the local scope.
// It fails if the symbol is already visible from the scope.
func (s *Scope[V]) Define(key string, value V) error {
	if _, exists := s.Find(key); exists {
		return errors.Errorf("symbol %q is already defined in this scope", key)
	}
	s.local.Store(key, value)
	return nil
}

// Assign a new value to an existing symbol, in the scope defining it.
// It fails if the symbol is not visible or if a read-only boundary
// separates the scope from the scope defining the symbol.
func (s *Scope[V]) Assign(key string, value V) error {
	owner, err := s.owner(key)
	if err != nil {
		return err
	}
	owner.local.Store(key, value)
	return nil
}

// owner returns the scope in which a symbol that can be assigned is defined.
func (s *Scope[V]) owner(key string) (*Scope[V], error) {
	for current := s; current != nil; current = current.parent {
		if current.local.Has(key) {
			return current, nil
		}
		switch current.boundary {
		case ReadOnly:
			if _, visible := current.parent.Find(key); visible {
				return nil, errors.Errorf("symbol %q cannot be modified from this scope", key)
			}
			return nil, errors.Errorf("unknown symbol %q", key)
		case Sealed:
			return nil, errors.Errorf("unknown symbol %q", key)
		}
	}
	return nil, errors.Errorf("unknown symbol %q", key)
}
