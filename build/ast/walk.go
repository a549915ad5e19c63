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
	"fmt"

	"github.com/gx-org/pfa/base/iter"
	"github.com/gx-org/pfa/base/ordered"
)

// Inspect traverses a node in depth-first order: it calls f(n) and, if f
// returns true, inspects the children of n.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, child := range Children(n) {
		Inspect(child, f)
	}
}

// InspectEngine inspects all the expressions of an engine in the order of the document.
func InspectEngine(cfg *EngineConfig, f func(Node) bool) {
	for _, n := range engineChildren(cfg) {
		Inspect(n, f)
	}
}

func engineChildren(cfg *EngineConfig) []Node {
	var nodes []Node
	for e := range iter.Concat(cfg.Begin, cfg.Action, cfg.End) {
		nodes = append(nodes, e)
	}
	for fcn := range cfg.Fcns.Values() {
		nodes = append(nodes, fcn)
	}
	return appendExprs(nodes, cfg.Merge)
}

func appendExprs(nodes []Node, exprs []Expr) []Node {
	for _, e := range exprs {
		nodes = append(nodes, e)
	}
	return nodes
}

func appendBindings(nodes []Node, bindings *Bindings) []Node {
	for e := range bindings.Values() {
		nodes = append(nodes, e)
	}
	return nodes
}

// Children returns the direct children of a node in the order of the document.
func Children(n Node) []Node {
	var nodes []Node
	switch nT := n.(type) {
	case *NewObject:
		nodes = appendBindings(nodes, nT.Fields)
	case *NewArray:
		nodes = appendExprs(nodes, nT.Items)
	case *Do:
		nodes = appendExprs(nodes, nT.Body)
	case *Let:
		nodes = appendBindings(nodes, nT.Values)
	case *SetVar:
		nodes = appendBindings(nodes, nT.Values)
	case *AttrGet:
		nodes = append(nodes, nT.Expr)
		nodes = appendExprs(nodes, nT.Path)
	case *AttrTo:
		nodes = append(nodes, nT.Expr)
		nodes = appendExprs(nodes, nT.Path)
		nodes = append(nodes, nT.To)
	case *CellGet:
		nodes = appendExprs(nodes, nT.Path)
	case *CellTo:
		nodes = appendExprs(nodes, nT.Path)
		nodes = append(nodes, nT.To)
	case *PoolGet:
		nodes = appendExprs(nodes, nT.Path)
	case *PoolTo:
		nodes = appendExprs(nodes, nT.Path)
		nodes = append(nodes, nT.To, nT.Init)
	case *PoolDel:
		nodes = append(nodes, nT.Del)
	case *If:
		nodes = append(nodes, nT.Predicate)
		nodes = appendExprs(nodes, nT.Then)
		nodes = appendExprs(nodes, nT.Else)
	case *Cond:
		for _, ifn := range nT.Ifs {
			nodes = append(nodes, ifn)
		}
		nodes = appendExprs(nodes, nT.Else)
	case *While:
		nodes = append(nodes, nT.Predicate)
		nodes = appendExprs(nodes, nT.Body)
	case *DoUntil:
		nodes = appendExprs(nodes, nT.Body)
		nodes = append(nodes, nT.Predicate)
	case *For:
		nodes = appendBindings(nodes, nT.Init)
		nodes = append(nodes, nT.Predicate)
		nodes = appendBindings(nodes, nT.Step)
		nodes = appendExprs(nodes, nT.Body)
	case *Foreach:
		nodes = append(nodes, nT.Array)
		nodes = appendExprs(nodes, nT.Body)
	case *Forkeyval:
		nodes = append(nodes, nT.Map)
		nodes = appendExprs(nodes, nT.Body)
	case *FcnDef:
		nodes = appendExprs(nodes, nT.Body)
	case *FcnRefFill:
		for arg := range nT.Fill.Values() {
			nodes = append(nodes, arg)
		}
	case *Call:
		for _, arg := range nT.Args {
			nodes = append(nodes, arg)
		}
	case *CallUserFcn:
		nodes = append(nodes, nT.Name)
		nodes = appendExprs(nodes, nT.Args)
	case *CastBlock:
		nodes = append(nodes, nT.Expr)
		for _, c := range nT.Cases {
			nodes = append(nodes, c)
		}
	case *CastCase:
		nodes = appendExprs(nodes, nT.Body)
	case *Upcast:
		nodes = append(nodes, nT.Expr)
	case *IfNotNull:
		nodes = appendBindings(nodes, nT.Bindings)
		nodes = appendExprs(nodes, nT.Then)
		nodes = appendExprs(nodes, nT.Else)
	case *Pack:
		for _, field := range nT.Fields {
			nodes = append(nodes, field.Expr)
		}
	case *Unpack:
		nodes = append(nodes, nT.Bytes)
		nodes = appendExprs(nodes, nT.Then)
		nodes = appendExprs(nodes, nT.Else)
	case *Try:
		nodes = appendExprs(nodes, nT.Body)
	case *Log:
		nodes = appendExprs(nodes, nT.Args)
	}
	return nodes
}

// Rewrite applies f to all the nodes of a tree, children first, and
// replaces each node by the node returned by f. Children are replaced in
// place. Rewrite panics if f replaces an expression by a node which is not
// an expression.
func Rewrite(n Node, f func(Node) Node) Node {
	if n == nil {
		return nil
	}
	r := rewriter{f: f}
	return r.node(n)
}

// RewriteEngine rewrites all the expressions of an engine.
func RewriteEngine(cfg *EngineConfig, f func(Node) Node) {
	r := rewriter{f: f}
	r.exprs(cfg.Begin)
	r.exprs(cfg.Action)
	r.exprs(cfg.End)
	for name, fcn := range cfg.Fcns.Iter() {
		n := r.node(fcn)
		rewritten, ok := n.(*FcnDef)
		if !ok {
			panic(fmt.Sprintf("function %s rewritten to %T", name, n))
		}
		cfg.Fcns.Store(name, rewritten)
	}
	r.exprs(cfg.Merge)
}

type rewriter struct {
	f func(Node) Node
}

func (r rewriter) expr(e Expr) Expr {
	if e == nil {
		return nil
	}
	n := r.node(e)
	rewritten, ok := n.(Expr)
	if !ok {
		panic(fmt.Sprintf("expression %T at %s rewritten to %T which is not an expression", e, e.Pos(), n))
	}
	return rewritten
}

func (r rewriter) arg(a Argument) Argument {
	if a == nil {
		return nil
	}
	n := r.node(a)
	rewritten, ok := n.(Argument)
	if !ok {
		panic(fmt.Sprintf("argument %T at %s rewritten to %T which is not an argument", a, a.Pos(), n))
	}
	return rewritten
}

func (r rewriter) exprs(es []Expr) {
	for i, e := range es {
		es[i] = r.expr(e)
	}
}

func (r rewriter) bindings(bs *Bindings) {
	for name, e := range bs.Iter() {
		bs.Store(name, r.expr(e))
	}
}

func (r rewriter) args(fill *ordered.Map[string, Argument]) {
	for name, a := range fill.Iter() {
		fill.Store(name, r.arg(a))
	}
}

func (r rewriter) node(n Node) Node {
	switch nT := n.(type) {
	case *NewObject:
		r.bindings(nT.Fields)
	case *NewArray:
		r.exprs(nT.Items)
	case *Do:
		r.exprs(nT.Body)
	case *Let:
		r.bindings(nT.Values)
	case *SetVar:
		r.bindings(nT.Values)
	case *AttrGet:
		nT.Expr = r.expr(nT.Expr)
		r.exprs(nT.Path)
	case *AttrTo:
		nT.Expr = r.expr(nT.Expr)
		r.exprs(nT.Path)
		nT.To = r.arg(nT.To)
	case *CellGet:
		r.exprs(nT.Path)
	case *CellTo:
		r.exprs(nT.Path)
		nT.To = r.arg(nT.To)
	case *PoolGet:
		r.exprs(nT.Path)
	case *PoolTo:
		r.exprs(nT.Path)
		nT.To = r.arg(nT.To)
		nT.Init = r.expr(nT.Init)
	case *PoolDel:
		nT.Del = r.expr(nT.Del)
	case *If:
		nT.Predicate = r.expr(nT.Predicate)
		r.exprs(nT.Then)
		r.exprs(nT.Else)
	case *Cond:
		for i, ifn := range nT.Ifs {
			rn := r.node(ifn)
			rewritten, ok := rn.(*If)
			if !ok {
				panic(fmt.Sprintf("branch %d of cond at %s rewritten to %T", i, nT.Pos(), rn))
			}
			nT.Ifs[i] = rewritten
		}
		r.exprs(nT.Else)
	case *While:
		nT.Predicate = r.expr(nT.Predicate)
		r.exprs(nT.Body)
	case *DoUntil:
		r.exprs(nT.Body)
		nT.Predicate = r.expr(nT.Predicate)
	case *For:
		r.bindings(nT.Init)
		nT.Predicate = r.expr(nT.Predicate)
		r.bindings(nT.Step)
		r.exprs(nT.Body)
	case *Foreach:
		nT.Array = r.expr(nT.Array)
		r.exprs(nT.Body)
	case *Forkeyval:
		nT.Map = r.expr(nT.Map)
		r.exprs(nT.Body)
	case *FcnDef:
		r.exprs(nT.Body)
	case *FcnRefFill:
		r.args(nT.Fill)
	case *Call:
		for i, a := range nT.Args {
			nT.Args[i] = r.arg(a)
		}
	case *CallUserFcn:
		nT.Name = r.expr(nT.Name)
		r.exprs(nT.Args)
	case *CastBlock:
		nT.Expr = r.expr(nT.Expr)
		for i, c := range nT.Cases {
			rn := r.node(c)
			rewritten, ok := rn.(*CastCase)
			if !ok {
				panic(fmt.Sprintf("case %d of cast at %s rewritten to %T", i, nT.Pos(), rn))
			}
			nT.Cases[i] = rewritten
		}
	case *CastCase:
		r.exprs(nT.Body)
	case *Upcast:
		nT.Expr = r.expr(nT.Expr)
	case *IfNotNull:
		r.bindings(nT.Bindings)
		r.exprs(nT.Then)
		r.exprs(nT.Else)
	case *Pack:
		for _, field := range nT.Fields {
			field.Expr = r.expr(field.Expr)
		}
	case *Unpack:
		nT.Bytes = r.expr(nT.Bytes)
		r.exprs(nT.Then)
		r.exprs(nT.Else)
	case *Try:
		r.exprs(nT.Body)
	case *Log:
		r.exprs(nT.Args)
	}
	return r.f(n)
}
