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

// Package builtin defines the descriptions of library functions:
// their signatures and their evaluation callbacks.
//
// Values passed to and returned by callbacks use the following Go types:
//
//	null           nil
//	boolean        bool
//	int            int32
//	long           int64
//	float          float32
//	double         float64
//	bytes, fixed   []byte
//	string, enum   string
//	array          []any
//	map, record    map[string]any
//	function       Fcn
package builtin

import (
	"strings"

	"github.com/gx-org/pfa/build/sig"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

type (
	// Eval evaluates a library function given arguments already promoted
	// to the parameter types of the matched signature.
	Eval func(args []any) (any, error)

	// Fcn is a function value passed to a library function.
	Fcn func(args ...any) (any, error)

	// Func is a library function.
	Func struct {
		// Name of the function, including the prefix of its package.
		Name string
		// Doc is a one line description of the function.
		Doc string
		// Sigs are the overloads of the function.
		Sigs sig.Sigs
		// Eval is the pure implementation of the function.
		Eval Eval
	}

	// Package groups the functions sharing a name prefix.
	Package struct {
		// Prefix of the names of the functions, for example "m." for
		// the math functions. The core package has an empty prefix.
		Prefix string
		Funcs  []*Func
	}
)

// Validate checks that a function is well formed.
func (f *Func) Validate() error {
	if f.Name == "" {
		return errors.Errorf("library function without a name")
	}
	if len(f.Sigs) == 0 {
		return errors.Errorf("library function %s has no signature", f.Name)
	}
	if f.Eval == nil {
		return errors.Errorf("library function %s has no implementation", f.Name)
	}
	var errs error
	for i, s := range f.Sigs {
		if err := s.Validate(); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "signature %d of %s", i, f.Name))
		}
	}
	return errs
}

// Validate checks all the functions of a package.
func (p *Package) Validate() error {
	var errs error
	for _, f := range p.Funcs {
		if !strings.HasPrefix(f.Name, p.Prefix) {
			errs = multierr.Append(errs, errors.Errorf("function %s does not start with the prefix %q of its package", f.Name, p.Prefix))
			continue
		}
		errs = multierr.Append(errs, f.Validate())
	}
	return errs
}

// Define returns a function with a single implementation for all its signatures.
func Define(name, doc string, eval Eval, sigs ...*sig.Sig) *Func {
	return &Func{Name: name, Doc: doc, Sigs: sigs, Eval: eval}
}

// Errorf returns a runtime error raised by a library function.
func Errorf(name, format string, a ...any) error {
	return errors.Wrap(errors.Errorf(format, a...), name)
}
