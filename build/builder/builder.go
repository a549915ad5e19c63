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

// Package builder compiles a PFA document: the text is loaded into a
// document tree, the tree is read into an AST whose types are resolved,
// and the AST is type checked.
//
// Building stops at the first phase reporting an error.
package builder

import (
	"github.com/gx-org/pfa/api/options"
	"github.com/gx-org/pfa/base/ordered"
	"github.com/gx-org/pfa/build/ast"
	"github.com/gx-org/pfa/build/check"
	"github.com/gx-org/pfa/build/fmterr"
	"github.com/gx-org/pfa/build/jsontree"
	"github.com/gx-org/pfa/build/reader"
	"github.com/gx-org/pfa/build/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type (
	// Engine is a compiled PFA document.
	Engine struct {
		// Config is the AST of the document. Upcasts inserted by the
		// checker are part of the tree.
		Config *ast.EngineConfig
		// Info are the results of the type checker.
		Info *check.Info
		// Named are the types defined by the document.
		Named []types.NamedType
	}

	// Symbol is a symbol given to an expression compiled outside an engine.
	Symbol struct {
		Name string
		// Type is the JSON or YAML text of the Avro type of the symbol.
		Type string
	}
)

// Build compiles a document text.
func Build(src []byte, opts ...options.Option) (*Engine, error) {
	o, err := options.New(opts...)
	if err != nil {
		return nil, err
	}
	tree, err := load(o, src)
	if err != nil {
		return nil, err
	}
	return buildTree(o, tree)
}

// BuildTree compiles a document already loaded into a tree.
func BuildTree(tree any, opts ...options.Option) (*Engine, error) {
	o, err := options.New(opts...)
	if err != nil {
		return nil, err
	}
	return buildTree(o, tree)
}

func load(o *options.Options, src []byte) (any, error) {
	tree, err := jsontree.ParseFormat(src, o.Format)
	if err != nil {
		return nil, fmterr.Syntax(fmterr.Pos{}, err)
	}
	o.Logger.Debug("document loaded", zap.Int("bytes", len(src)), zap.Stringer("format", o.Format))
	return tree, nil
}

func buildTree(o *options.Options, tree any) (*Engine, error) {
	r := reader.New()
	cfg, err := r.Engine(tree)
	if err != nil {
		return nil, primary(o, err)
	}
	named := r.Builder().NamedTypes()
	o.Logger.Debug("document read",
		zap.String("engine", cfg.Name),
		zap.Stringer("method", cfg.Method),
		zap.Int("named types", len(named)),
		zap.Int("user functions", cfg.Fcns.Size()),
	)
	info, err := check.Engine(cfg, o.CheckConfig())
	if err != nil {
		return nil, err
	}
	o.Logger.Debug("document checked", zap.String("engine", cfg.Name), zap.String("version", o.Version))
	return &Engine{Config: cfg, Info: info, Named: named}, nil
}

// primary logs all the errors of a phase and returns the first one.
func primary(o *options.Options, err error) error {
	all := fmterr.Errors{}
	all.Append(err)
	errs := all.Errors()
	if len(errs) > 1 {
		for _, e := range errs[1:] {
			o.Logger.Debug("additional error", zap.Error(e))
		}
	}
	return errs[0]
}

// BuildExpr compiles a single expression given the symbols it can refer to.
func BuildExpr(src []byte, syms []Symbol, opts ...options.Option) (types.Type, *check.Info, error) {
	o, err := options.New(opts...)
	if err != nil {
		return nil, nil, err
	}
	tree, err := load(o, src)
	if err != nil {
		return nil, nil, err
	}
	r := reader.New()
	symPos := fmterr.Pos{Path: "symbols"}
	symTypes := ordered.NewMap[string, types.Type]()
	for _, sym := range syms {
		typeTree, err := jsontree.ParseString(sym.Type)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "cannot parse the type of symbol %s", sym.Name)
		}
		typ, err := r.Builder().ResolveOne(typeTree, "", symPos.Dot(sym.Name))
		if err != nil {
			return nil, nil, primary(o, err)
		}
		symTypes.Store(sym.Name, typ)
	}
	expr, err := r.Expr(tree, fmterr.Pos{})
	if err != nil {
		return nil, nil, err
	}
	if err := r.Resolve(); err != nil {
		return nil, nil, primary(o, err)
	}
	return check.Expr(expr, symTypes, o.CheckConfig())
}
