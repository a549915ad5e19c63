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

package reader

import (
	"math"
	"strings"

	"github.com/gx-org/pfa/base/ordered"
	"github.com/gx-org/pfa/build/ast"
	"github.com/gx-org/pfa/build/fmterr"
	"github.com/gx-org/pfa/build/jsontree"
	"github.com/gx-org/pfa/build/types"
)

var engineKeys = map[string]bool{
	"name": true, "method": true, "input": true, "output": true,
	"begin": true, "action": true, "end": true, "fcns": true,
	"zero": true, "merge": true, "cells": true, "pools": true,
	"randseed": true, "doc": true, "version": true, "metadata": true,
	"options": true,
}

var persistentKeys = map[string]bool{
	"type": true, "init": true, "shared": true, "rollback": true, "source": true,
}

// ReadEngine reads a complete PFA document and resolves its types.
func ReadEngine(tree any) (*ast.EngineConfig, error) {
	return New().Engine(tree)
}

// Engine reads a complete PFA document and resolves its types.
func (r *Reader) Engine(tree any) (*ast.EngineConfig, error) {
	obj, ok := tree.(*jsontree.Object)
	if !ok {
		return nil, fmterr.Syntaxf(fmterr.Pos{}, "a PFA document must be a JSON object")
	}
	pos := objPos(obj, fmterr.Pos{})
	for _, key := range keySet(obj) {
		if !engineKeys[key] {
			return nil, fmterr.Syntaxf(pos.Dot(key), "unexpected top-level field %q", key)
		}
	}
	for _, key := range []string{"input", "output", "action"} {
		if !obj.Has(key) {
			return nil, fmterr.Syntaxf(pos, "missing required top-level field %q", key)
		}
	}
	eng := &ast.EngineConfig{Src: ast.Src{At: pos}}
	if err := r.engineHeader(eng, obj, pos); err != nil {
		return nil, err
	}
	eng.Input = r.typ(get(obj, "input"), pos.Dot("input"))
	eng.Output = r.typ(get(obj, "output"), pos.Dot("output"))
	if err := r.engineFcns(eng, obj, pos); err != nil {
		return nil, err
	}
	var err error
	if eng.Cells, err = readPersistent(obj, "cells", pos, r.cell); err != nil {
		return nil, err
	}
	if eng.Pools, err = readPersistent(obj, "pools", pos, r.pool); err != nil {
		return nil, err
	}
	if eng.Begin, err = r.optionalBody(obj, "begin", pos); err != nil {
		return nil, err
	}
	if eng.Action, err = r.body(get(obj, "action"), pos.Dot("action")); err != nil {
		return nil, err
	}
	if len(eng.Action) == 0 {
		return nil, fmterr.Syntaxf(pos.Dot("action"), "\"action\" must contain at least one expression")
	}
	if eng.End, err = r.optionalBody(obj, "end", pos); err != nil {
		return nil, err
	}
	if err := r.engineFold(eng, obj, pos); err != nil {
		return nil, err
	}
	if err := r.Resolve(); err != nil {
		return nil, err
	}
	return eng, nil
}

func (r *Reader) engineHeader(eng *ast.EngineConfig, obj *jsontree.Object, pos fmterr.Pos) error {
	var err error
	if obj.Has("name") {
		if eng.Name, err = r.stringField(obj, "name", pos); err != nil {
			return err
		}
	} else {
		eng.Name = r.names.Suffixed("Engine")
	}
	eng.Method = ast.Map
	if obj.Has("method") {
		name, err := r.stringField(obj, "method", pos)
		if err != nil {
			return err
		}
		var ok bool
		if eng.Method, ok = ast.MethodFromString(name); !ok {
			return fmterr.Syntaxf(pos.Dot("method"), "unknown method %q: must be \"map\", \"emit\" or \"fold\"", name)
		}
	}
	if obj.Has("doc") {
		if eng.Doc, err = r.stringField(obj, "doc", pos); err != nil {
			return err
		}
	}
	if obj.Has("randseed") {
		seed, err := integerField(obj, "randseed", pos, math.MinInt64, math.MaxInt64)
		if err != nil {
			return err
		}
		eng.RandSeed = &seed
	}
	if obj.Has("version") {
		version, err := integerField(obj, "version", pos, math.MinInt32, math.MaxInt32)
		if err != nil {
			return err
		}
		eng.Version = new(int)
		*eng.Version = int(version)
	}
	if eng.Metadata, err = readMetadata(obj, pos); err != nil {
		return err
	}
	if opts, ok := obj.Get("options"); ok {
		optsObj, isObj := opts.(*jsontree.Object)
		if !isObj {
			return fmterr.Syntaxf(pos.Dot("options"), "\"options\" must be an object")
		}
		eng.Options = ordered.NewMap[string, any]()
		for key, value := range optsObj.Iter() {
			if key != jsontree.AtKey {
				eng.Options.Store(key, value)
			}
		}
	}
	return nil
}

func integerField(obj *jsontree.Object, key string, pos fmterr.Pos, lo, hi int64) (int64, error) {
	n, ok := get(obj, key).(jsontree.Number)
	if !ok || !n.IsInteger() {
		return 0, fmterr.Syntaxf(pos.Dot(key), "%q must be an integer", key)
	}
	v, err := n.Int64()
	if err != nil || v < lo || v > hi {
		return 0, fmterr.Syntaxf(pos.Dot(key), "%q is out of range", key)
	}
	return v, nil
}

func readMetadata(obj *jsontree.Object, pos fmterr.Pos) (*ordered.Map[string, string], error) {
	tree, ok := obj.Get("metadata")
	if !ok {
		return nil, nil
	}
	pos = pos.Dot("metadata")
	metaObj, ok := tree.(*jsontree.Object)
	if !ok {
		return nil, fmterr.Syntaxf(pos, "\"metadata\" must be an object of strings")
	}
	meta := ordered.NewMap[string, string]()
	for key, value := range metaObj.Iter() {
		if key == jsontree.AtKey {
			continue
		}
		s, isString := value.(string)
		if !isString {
			return nil, fmterr.Syntaxf(pos.Dot(key), "metadata values must be strings")
		}
		meta.Store(key, s)
	}
	return meta, nil
}

func (r *Reader) engineFcns(eng *ast.EngineConfig, obj *jsontree.Object, pos fmterr.Pos) error {
	eng.Fcns = ordered.NewMap[string, *ast.FcnDef]()
	tree, ok := obj.Get("fcns")
	if !ok {
		return nil
	}
	pos = pos.Dot("fcns")
	fcnsObj, ok := tree.(*jsontree.Object)
	if !ok {
		return fmterr.Syntaxf(pos, "\"fcns\" must be an object of function names to definitions")
	}
	for name, def := range fcnsObj.Iter() {
		if name == jsontree.AtKey {
			continue
		}
		if !IsFunctionName(name) {
			return fmterr.Syntaxf(pos.Dot(name), "%q is not a valid user function name", name)
		}
		fcn, err := r.FcnDef(def, pos.Dot(name))
		if err != nil {
			return err
		}
		eng.Fcns.Store(name, fcn)
	}
	return nil
}

func (r *Reader) engineFold(eng *ast.EngineConfig, obj *jsontree.Object, pos fmterr.Pos) error {
	zero, hasZero := obj.Get("zero")
	if eng.Method != ast.Fold {
		for _, key := range []string{"zero", "merge"} {
			if obj.Has(key) {
				return fmterr.Syntaxf(pos.Dot(key), "%q can only be given with the fold method", key)
			}
		}
		return nil
	}
	if !hasZero {
		return fmterr.Syntaxf(pos, "the fold method requires a \"zero\" value")
	}
	eng.Zero = zero
	r.checkValueLater(eng.Output, zero, pos.Dot("zero"), "zero value")
	var err error
	eng.Merge, err = r.optionalBody(obj, "merge", pos)
	return err
}

func readPersistent[T any](obj *jsontree.Object, key string, pos fmterr.Pos, read func(*jsontree.Object, fmterr.Pos) (T, error)) (*ordered.Map[string, T], error) {
	all := ordered.NewMap[string, T]()
	tree, ok := obj.Get(key)
	if !ok {
		return all, nil
	}
	pos = pos.Dot(key)
	allObj, ok := tree.(*jsontree.Object)
	if !ok {
		return nil, fmterr.Syntaxf(pos, "%q must be an object of names to definitions", key)
	}
	for name, def := range allObj.Iter() {
		if name == jsontree.AtKey {
			continue
		}
		defPos := pos.Dot(name)
		if !IsSymbol(name) {
			return nil, fmterr.Syntaxf(defPos, "%q is not a valid name", name)
		}
		defObj, ok := def.(*jsontree.Object)
		if !ok {
			return nil, fmterr.Syntaxf(defPos, "definition of %q must be an object", name)
		}
		defPos = objPos(defObj, defPos)
		for _, k := range keySet(defObj) {
			if !persistentKeys[k] {
				return nil, fmterr.Syntaxf(defPos.Dot(k), "unexpected field %q", k)
			}
		}
		v, err := read(defObj, defPos)
		if err != nil {
			return nil, err
		}
		all.Store(name, v)
	}
	return all, nil
}

type persistent struct {
	typ      *types.Placeholder
	shared   bool
	rollback bool
	source   ast.Source
}

func (r *Reader) persistent(obj *jsontree.Object, pos fmterr.Pos) (*persistent, error) {
	if !obj.Has("type") {
		return nil, fmterr.Syntaxf(pos, "missing \"type\"")
	}
	p := &persistent{typ: r.typ(get(obj, "type"), pos.Dot("type")), source: ast.Embedded}
	var err error
	if p.shared, err = boolField(obj, "shared", pos); err != nil {
		return nil, err
	}
	if p.rollback, err = boolField(obj, "rollback", pos); err != nil {
		return nil, err
	}
	if p.shared && p.rollback {
		return nil, fmterr.Syntaxf(pos, "\"shared\" and \"rollback\" cannot both be true")
	}
	if obj.Has("source") {
		source, err := r.stringField(obj, "source", pos)
		if err != nil {
			return nil, err
		}
		p.source = ast.Source(source)
		if !p.source.IsValid() {
			return nil, fmterr.Syntaxf(pos.Dot("source"), "unknown source %q: must be \"embedded\", \"json\" or \"avro\"", source)
		}
	}
	return p, nil
}

// external checks that the initial value of a cell or a pool read from
// an external source is a URL.
func external(p *persistent, init any, pos fmterr.Pos) error {
	url, ok := init.(string)
	if !ok || strings.TrimSpace(url) == "" {
		return fmterr.Syntaxf(pos.Dot("init"), "\"init\" must be a URL with the %s source", p.source)
	}
	return nil
}

func (r *Reader) cell(obj *jsontree.Object, pos fmterr.Pos) (*ast.Cell, error) {
	p, err := r.persistent(obj, pos)
	if err != nil {
		return nil, err
	}
	init, ok := obj.Get("init")
	if !ok {
		return nil, fmterr.Syntaxf(pos, "missing \"init\"")
	}
	if p.source == ast.Embedded {
		r.checkValueLater(p.typ, init, pos.Dot("init"), "cell initial value")
	} else if err := external(p, init, pos); err != nil {
		return nil, err
	}
	return &ast.Cell{
		Src:      ast.Src{At: pos},
		Type:     p.typ,
		Init:     init,
		Shared:   p.shared,
		Rollback: p.rollback,
		Source:   p.source,
	}, nil
}

func (r *Reader) pool(obj *jsontree.Object, pos fmterr.Pos) (*ast.Pool, error) {
	p, err := r.persistent(obj, pos)
	if err != nil {
		return nil, err
	}
	init, ok := obj.Get("init")
	if !ok {
		init = jsontree.NewObject()
	}
	if p.source == ast.Embedded {
		items, isObj := init.(*jsontree.Object)
		if !isObj {
			return nil, fmterr.Syntaxf(pos.Dot("init"), "\"init\" of a pool must be an object of keys to items")
		}
		for key, item := range items.Iter() {
			if key != jsontree.AtKey {
				r.checkValueLater(p.typ, item, pos.Dot("init").Dot(key), "pool item")
			}
		}
	} else if err := external(p, init, pos); err != nil {
		return nil, err
	}
	return &ast.Pool{
		Src:      ast.Src{At: pos},
		Type:     p.typ,
		Init:     init,
		Shared:   p.shared,
		Rollback: p.rollback,
		Source:   p.source,
	}, nil
}
