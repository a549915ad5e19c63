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

// Package stdlib provides the library functions of PFA: a registry mapping
// function names to their signatures and implementations.
package stdlib

import (
	"slices"
	"sync"

	"github.com/gx-org/pfa/build/check"
	"github.com/gx-org/pfa/build/sig"
	"github.com/gx-org/pfa/build/types"
	"github.com/gx-org/pfa/stdlib/array"
	"github.com/gx-org/pfa/stdlib/builtin"
	"github.com/gx-org/pfa/stdlib/core"
	pfamaps "github.com/gx-org/pfa/stdlib/maps"
	"github.com/gx-org/pfa/stdlib/math"
	"github.com/gx-org/pfa/stdlib/strings"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/exp/maps"
)

// Registry of library functions.
type Registry struct {
	funcs    map[string]*builtin.Func
	prefixes map[string]bool
}

var _ check.Registry = (*Registry)(nil)

var packages = []*builtin.Package{
	core.Package,
	array.Package,
	pfamaps.Package,
	math.Package,
	strings.Package,
}

// New returns a registry given packages of functions.
// All the problems found in the packages are returned.
func New(pkgs ...*builtin.Package) (*Registry, error) {
	r := &Registry{
		funcs:    make(map[string]*builtin.Func),
		prefixes: make(map[string]bool),
	}
	var errs error
	for _, pkg := range pkgs {
		if r.prefixes[pkg.Prefix] {
			errs = multierr.Append(errs, errors.Errorf("package with prefix %q registered more than once", pkg.Prefix))
			continue
		}
		r.prefixes[pkg.Prefix] = true
		if err := pkg.Validate(); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		for _, f := range pkg.Funcs {
			if _, dup := r.funcs[f.Name]; dup {
				errs = multierr.Append(errs, errors.Errorf("function %s registered more than once", f.Name))
				continue
			}
			r.funcs[f.Name] = f
		}
	}
	if errs != nil {
		return nil, errs
	}
	return r, nil
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := New(packages...)
	if err != nil {
		panic(errors.Wrapf(err, "invalid standard library"))
	}
	return r
})

// Default returns the registry of all the library functions.
func Default() *Registry {
	return defaultRegistry()
}

// Sigs returns the signatures of a function.
func (r *Registry) Sigs(name string) (sig.Sigs, bool) {
	f, ok := r.funcs[name]
	if !ok {
		return nil, false
	}
	return f.Sigs, true
}

// Func returns a function given its name.
func (r *Registry) Func(name string) (*builtin.Func, bool) {
	f, ok := r.funcs[name]
	return f, ok
}

// Names returns the names of all the functions (alphabetically ordered).
func (r *Registry) Names() []string {
	names := maps.Keys(r.funcs)
	slices.Sort(names)
	return names
}

// Prefixes returns the prefixes of the packages (alphabetically ordered).
func (r *Registry) Prefixes() []string {
	prefixes := maps.Keys(r.prefixes)
	slices.Sort(prefixes)
	return prefixes
}

// Call evaluates a function given the signature matched by the checker.
// Arguments are promoted to the parameter types of the signature.
func (r *Registry) Call(name string, match *sig.Match, args ...any) (any, error) {
	f, ok := r.funcs[name]
	if !ok {
		return nil, errors.Errorf("unknown function %q", name)
	}
	promoted, err := builtin.PromoteAll(args, match.Params)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot call %s", name)
	}
	out, err := f.Eval(promoted)
	if err != nil {
		return nil, err
	}
	return builtin.Promote(out, match.Ret)
}

// Eval matches the types of the arguments against the signatures of a
// function and evaluates it.
func (r *Registry) Eval(name, version string, typs []types.Type, args ...any) (any, error) {
	f, ok := r.funcs[name]
	if !ok {
		return nil, errors.Errorf("unknown function %q", name)
	}
	match, ok := f.Sigs.Match(typs, version)
	if !ok {
		return nil, errors.Errorf("no signature of %s accepts the arguments in PFA %s", name, version)
	}
	return r.Call(name, match, args...)
}
