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

// Package check infers the types of the expressions of a PFA document
// and enforces the typing and scoping rules of the language.
//
// Checking fails at the first ill-typed expression with a semantic error
// located at the expression.
package check

import (
	"github.com/gx-org/pfa/base/ordered"
	"github.com/gx-org/pfa/build/ast"
	"github.com/gx-org/pfa/build/fmterr"
	"github.com/gx-org/pfa/build/sig"
	"github.com/gx-org/pfa/build/types"
	"github.com/gx-org/pfa/internal/base/scope"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type (
	// Registry provides the signatures of library functions.
	Registry interface {
		// Sigs returns the signatures of a library function given its name.
		Sigs(name string) (sig.Sigs, bool)
	}

	// Config of a checker.
	Config struct {
		// Registry of library functions. A nil registry has no function.
		Registry Registry
		// Version of the language used to select library signatures.
		// Defaults to sig.DefaultVersion.
		Version string
		// Logger receives debug records and warnings. Defaults to a no-op logger.
		Logger *zap.Logger
		// CallCacheSize is the number of overload resolutions memoized.
		// Zero disables the cache.
		CallCacheSize int
	}

	// Info is the result of checking a document.
	Info struct {
		// Types of all the expressions and function arguments.
		Types map[ast.Node]types.Type
		// Calls to library functions with their matched signature.
		Calls map[*ast.Call]*sig.Match
		// Fcns are the types of the user functions, keyed by their name
		// including the u. prefix.
		Fcns *ordered.Map[string, *types.Fcn]
		// Upcasts are the nodes inserted by the checker at the end of
		// function bodies returning a narrower type than declared.
		Upcasts []*ast.Upcast
	}

	symbols = scope.Scope[types.Type]

	checker struct {
		conf  Config
		log   *zap.Logger
		eng   *ast.EngineConfig
		info  *Info
		calls *callCache
	}
)

// TypeOf returns the type inferred for a node.
func (info *Info) TypeOf(node ast.Node) (types.Type, bool) {
	t, ok := info.Types[node]
	return t, ok
}

func newChecker(eng *ast.EngineConfig, conf Config) (*checker, error) {
	if conf.Version == "" {
		conf.Version = sig.DefaultVersion
	}
	version, err := sig.CanonicalVersion(conf.Version)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid language version")
	}
	conf.Version = version
	if conf.Registry == nil {
		conf.Registry = emptyRegistry{}
	}
	log := conf.Logger
	if log == nil {
		log = zap.NewNop()
	}
	calls, err := newCallCache(conf.CallCacheSize)
	if err != nil {
		return nil, err
	}
	return &checker{
		conf:  conf,
		log:   log,
		eng:   eng,
		calls: calls,
		info: &Info{
			Types: make(map[ast.Node]types.Type),
			Calls: make(map[*ast.Call]*sig.Match),
			Fcns:  ordered.NewMap[string, *types.Fcn](),
		},
	}, nil
}

type emptyRegistry struct{}

func (emptyRegistry) Sigs(string) (sig.Sigs, bool) { return nil, false }

// Engine checks a complete document.
func Engine(eng *ast.EngineConfig, conf Config) (*Info, error) {
	c, err := newChecker(eng, conf)
	if err != nil {
		return nil, err
	}
	if err := c.engine(); err != nil {
		return nil, err
	}
	c.log.Debug("engine checked",
		zap.String("engine", eng.Name),
		zap.Int("expressions", len(c.info.Types)),
		zap.Int("calls", len(c.info.Calls)),
		zap.Int("upcasts", len(c.info.Upcasts)),
	)
	return c.info, nil
}

// Expr checks a single expression outside of any engine given the
// types of the symbols it can refer to.
func Expr(expr ast.Expr, syms *ordered.Map[string, types.Type], conf Config) (types.Type, *Info, error) {
	c, err := newChecker(nil, conf)
	if err != nil {
		return nil, nil, err
	}
	root := scope.NewWithValues(syms)
	t, err := c.expr(root.NewChild(scope.Open), expr)
	if err != nil {
		return nil, nil, err
	}
	return t, c.info, nil
}

func (c *checker) record(node ast.Node, t types.Type) types.Type {
	c.info.Types[node] = t
	return t
}

func (c *checker) broadest(node ast.Node, typs ...types.Type) (types.Type, error) {
	t, err := types.Broadest(typs...)
	if err != nil {
		return nil, fmterr.Semantic(node.Pos(), err)
	}
	return t, nil
}

func (c *checker) withNull(node ast.Node, t types.Type) (types.Type, error) {
	return c.broadest(node, t, types.NullType())
}
