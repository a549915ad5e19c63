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
	"github.com/gx-org/pfa/base/ordered"
	"github.com/gx-org/pfa/build/types"
)

// Method of an engine.
type Method int

const (
	// Map returns one output per input.
	Map Method = iota
	// Emit outputs any number of values per input by calling emit.
	Emit
	// Fold accumulates the inputs into a tally.
	Fold
)

var methodNames = map[Method]string{
	Map:  "map",
	Emit: "emit",
	Fold: "fold",
}

func (m Method) String() string {
	return methodNames[m]
}

// MethodFromString returns the method given its name in a document.
func MethodFromString(s string) (Method, bool) {
	for m, name := range methodNames {
		if name == s {
			return m, true
		}
	}
	return Map, false
}

// Source of the initial value of a cell or a pool.
type Source string

const (
	// Embedded initial values are written in the document.
	Embedded Source = "embedded"
	// JSON initial values are fetched from a URL pointing to a JSON file.
	JSON Source = "json"
	// Avro initial values are fetched from a URL pointing to an Avro file.
	Avro Source = "avro"
)

// IsValid returns true if the source is known.
func (s Source) IsValid() bool {
	return s == Embedded || s == JSON || s == Avro
}

type (
	// Cell is a named persistent value.
	Cell struct {
		Src
		Type *types.Placeholder
		// Init is the initial value written as a document tree if the
		// source is embedded, or the URL of the initial value otherwise.
		Init     any
		Shared   bool
		Rollback bool
		Source   Source
	}

	// Pool is a named persistent map of values.
	Pool struct {
		Src
		// Type of the items of the pool.
		Type *types.Placeholder
		// Init are the initial items written as a document tree if the
		// source is embedded, or the URL of the initial items otherwise.
		Init     any
		Shared   bool
		Rollback bool
		Source   Source
	}

	// EngineConfig is a parsed PFA document.
	EngineConfig struct {
		Src
		Name   string
		Method Method
		Input  *types.Placeholder
		Output *types.Placeholder
		Begin  []Expr
		Action []Expr
		End    []Expr
		// Fcns are the user functions, keyed by their name without the u. prefix.
		Fcns *ordered.Map[string, *FcnDef]
		// Zero is the initial tally of a fold engine as a document tree.
		Zero  any
		Merge []Expr
		Cells *ordered.Map[string, *Cell]
		Pools *ordered.Map[string, *Pool]
		// RandSeed is the seed of the random number generator, nil if not given.
		RandSeed *int64
		Doc      string
		// Version of the model, nil if not given.
		Version  *int
		Metadata *ordered.Map[string, string]
		Options  *ordered.Map[string, any]
	}
)

// UserFcnPrefix is the prefix of the names of user functions in calls.
const UserFcnPrefix = "u."
