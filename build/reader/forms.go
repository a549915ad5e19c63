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

	"github.com/gx-org/pfa/base/ordered"
	"github.com/gx-org/pfa/build/ast"
	"github.com/gx-org/pfa/build/fmterr"
	"github.com/gx-org/pfa/build/jsontree"
)

// forms maps sorted key sets, joined by commas, to the function reading the node.
var forms map[string]formReader

func init() {
	forms = map[string]formReader{
		"int":    readInt,
		"long":   readLong,
		"float":  readFloat,
		"double": readDouble,
		"string": readStringLiteral,
		"base64": readBase64,

		"type,value": readLiteral,
		"new,type":   readNew,

		"do":  readDo,
		"let": readLet,
		"set": readSet,

		"attr":         pathRequired("attr"),
		"attr,path":    readAttrGet,
		"attr,path,to": readAttrTo,

		"cell":         readCellGet,
		"cell,path":    readCellGet,
		"cell,to":      readCellTo,
		"cell,path,to": readCellTo,

		"pool":              pathRequired("pool"),
		"path,pool":         readPoolGet,
		"path,pool,to":      initRequired,
		"init,path,pool,to": readPoolTo,
		"del,pool":          readPoolDel,

		"if,then":      readIf,
		"else,if,then": readIf,
		"cond":         readCond,
		"cond,else":    readCond,

		"do,while":            readWhile,
		"do,until":            readDoUntil,
		"do,for,step,while":   readFor,
		"do,foreach,in":       readForeach,
		"do,foreach,in,seq":   readForeach,
		"do,forkey,forval,in": readForkeyval,

		"do,params,ret": readFcnDef,
		"fcn":           readFcnRef,
		"fcn,fill":      readFcnRefFill,
		"args,call":     readCallUserFcn,

		"cases,cast":         readCast,
		"cases,cast,partial": readCast,
		"as,upcast":          readUpcast,

		"ifnotnull,then":      readIfNotNull,
		"else,ifnotnull,then": readIfNotNull,

		"pack":                    readPack,
		"format,then,unpack":      readUnpack,
		"else,format,then,unpack": readUnpack,

		"doc":           readDoc,
		"error":         readError,
		"code,error":    readError,
		"try":           readTry,
		"filter,try":    readTry,
		"log":           readLog,
		"log,namespace": readLog,
	}
}

func pathRequired(key string) formReader {
	return func(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
		return nil, fmterr.Syntaxf(pos, "%q requires a non-empty \"path\"", key)
	}
}

func initRequired(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	return nil, fmterr.Syntaxf(pos, "updating a pool requires an \"init\" value for missing items")
}

func (r *Reader) call(obj *jsontree.Object, name string, pos fmterr.Pos) (ast.Argument, error) {
	if !IsFunctionName(name) && !IsOperator(name) {
		return nil, fmterr.Syntaxf(pos, "%q is not a valid function name", name)
	}
	call := &ast.Call{Src: ast.Src{At: pos}, Name: name}
	argsPos := pos.Dot(name)
	args, isList := get(obj, name).([]any)
	if !isList {
		arg, err := r.Argument(get(obj, name), argsPos)
		if err != nil {
			return nil, err
		}
		call.Args = []ast.Argument{arg}
		return call, nil
	}
	for i, tree := range args {
		arg, err := r.Argument(tree, argsPos.Dot(i))
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
	}
	return call, nil
}

func readDo(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	body, err := r.body(get(obj, "do"), pos.Dot("do"))
	if err != nil {
		return nil, err
	}
	return &ast.Do{Src: ast.Src{At: pos}, Body: body}, nil
}

func readLet(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	values, err := r.bindings(get(obj, "let"), pos.Dot("let"), "\"let\"")
	if err != nil {
		return nil, err
	}
	return &ast.Let{Src: ast.Src{At: pos}, Values: values}, nil
}

func readSet(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	values, err := r.bindings(get(obj, "set"), pos.Dot("set"), "\"set\"")
	if err != nil {
		return nil, err
	}
	return &ast.SetVar{Src: ast.Src{At: pos}, Values: values}, nil
}

func (r *Reader) path(obj *jsontree.Object, pos fmterr.Pos, required bool) ([]ast.Expr, error) {
	tree, ok := obj.Get("path")
	if !ok {
		return nil, nil
	}
	path, err := r.exprList(tree, pos.Dot("path"), "\"path\"")
	if err != nil {
		return nil, err
	}
	if required && len(path) == 0 {
		return nil, fmterr.Syntaxf(pos.Dot("path"), "\"path\" must not be empty")
	}
	return path, nil
}

func readAttrGet(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	expr, err := r.Expr(get(obj, "attr"), pos.Dot("attr"))
	if err != nil {
		return nil, err
	}
	path, err := r.path(obj, pos, true)
	if err != nil {
		return nil, err
	}
	return &ast.AttrGet{Src: ast.Src{At: pos}, Expr: expr, Path: path}, nil
}

func (r *Reader) to(obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	return r.Argument(get(obj, "to"), pos.Dot("to"))
}

func readAttrTo(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	attr, err := readAttrGet(r, obj, pos)
	if err != nil {
		return nil, err
	}
	to, err := r.to(obj, pos)
	if err != nil {
		return nil, err
	}
	attrGet := attr.(*ast.AttrGet)
	return &ast.AttrTo{Src: attrGet.Src, Expr: attrGet.Expr, Path: attrGet.Path, To: to}, nil
}

func readCellGet(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	name, err := r.stringField(obj, "cell", pos)
	if err != nil {
		return nil, err
	}
	path, err := r.path(obj, pos, false)
	if err != nil {
		return nil, err
	}
	return &ast.CellGet{Src: ast.Src{At: pos}, Cell: name, Path: path}, nil
}

func readCellTo(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	cell, err := readCellGet(r, obj, pos)
	if err != nil {
		return nil, err
	}
	to, err := r.to(obj, pos)
	if err != nil {
		return nil, err
	}
	cellGet := cell.(*ast.CellGet)
	return &ast.CellTo{Src: cellGet.Src, Cell: cellGet.Cell, Path: cellGet.Path, To: to}, nil
}

func readPoolGet(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	name, err := r.stringField(obj, "pool", pos)
	if err != nil {
		return nil, err
	}
	path, err := r.path(obj, pos, true)
	if err != nil {
		return nil, err
	}
	return &ast.PoolGet{Src: ast.Src{At: pos}, Pool: name, Path: path}, nil
}

func readPoolTo(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	pool, err := readPoolGet(r, obj, pos)
	if err != nil {
		return nil, err
	}
	to, err := r.to(obj, pos)
	if err != nil {
		return nil, err
	}
	init, err := r.Expr(get(obj, "init"), pos.Dot("init"))
	if err != nil {
		return nil, err
	}
	poolGet := pool.(*ast.PoolGet)
	return &ast.PoolTo{Src: poolGet.Src, Pool: poolGet.Pool, Path: poolGet.Path, To: to, Init: init}, nil
}

func readPoolDel(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	name, err := r.stringField(obj, "pool", pos)
	if err != nil {
		return nil, err
	}
	del, err := r.Expr(get(obj, "del"), pos.Dot("del"))
	if err != nil {
		return nil, err
	}
	return &ast.PoolDel{Src: ast.Src{At: pos}, Pool: name, Del: del}, nil
}

func (r *Reader) optionalBody(obj *jsontree.Object, key string, pos fmterr.Pos) ([]ast.Expr, error) {
	tree, ok := obj.Get(key)
	if !ok {
		return nil, nil
	}
	return r.body(tree, pos.Dot(key))
}

func readIf(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	pred, err := r.Expr(get(obj, "if"), pos.Dot("if"))
	if err != nil {
		return nil, err
	}
	then, err := r.body(get(obj, "then"), pos.Dot("then"))
	if err != nil {
		return nil, err
	}
	els, err := r.optionalBody(obj, "else", pos)
	if err != nil {
		return nil, err
	}
	return &ast.If{Src: ast.Src{At: pos}, Predicate: pred, Then: then, Else: els}, nil
}

func readCond(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	condPos := pos.Dot("cond")
	branches, ok := get(obj, "cond").([]any)
	if !ok || len(branches) == 0 {
		return nil, fmterr.Syntaxf(condPos, "\"cond\" must be a non-empty array of {\"if\": ..., \"then\": ...}")
	}
	cond := &ast.Cond{Src: ast.Src{At: pos}}
	for i, branch := range branches {
		branchPos := condPos.Dot(i)
		branchObj, ok := branch.(*jsontree.Object)
		if !ok {
			return nil, fmterr.Syntaxf(branchPos, "cond branch must be an object with keys \"if\" and \"then\"")
		}
		branchPos = objPos(branchObj, branchPos)
		if keys := keySet(branchObj); len(keys) != 2 || keys[0] != "if" || keys[1] != "then" {
			return nil, fmterr.Syntaxf(branchPos, "cond branch must have exactly the keys \"if\" and \"then\"")
		}
		ifn, err := readIf(r, branchObj, branchPos)
		if err != nil {
			return nil, err
		}
		cond.Ifs = append(cond.Ifs, ifn.(*ast.If))
	}
	var err error
	if cond.Else, err = r.optionalBody(obj, "else", pos); err != nil {
		return nil, err
	}
	return cond, nil
}

func readWhile(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	pred, err := r.Expr(get(obj, "while"), pos.Dot("while"))
	if err != nil {
		return nil, err
	}
	body, err := r.body(get(obj, "do"), pos.Dot("do"))
	if err != nil {
		return nil, err
	}
	return &ast.While{Src: ast.Src{At: pos}, Predicate: pred, Body: body}, nil
}

func readDoUntil(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	body, err := r.body(get(obj, "do"), pos.Dot("do"))
	if err != nil {
		return nil, err
	}
	pred, err := r.Expr(get(obj, "until"), pos.Dot("until"))
	if err != nil {
		return nil, err
	}
	return &ast.DoUntil{Src: ast.Src{At: pos}, Body: body, Predicate: pred}, nil
}

func readFor(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	init, err := r.bindings(get(obj, "for"), pos.Dot("for"), "\"for\"")
	if err != nil {
		return nil, err
	}
	pred, err := r.Expr(get(obj, "while"), pos.Dot("while"))
	if err != nil {
		return nil, err
	}
	step, err := r.bindings(get(obj, "step"), pos.Dot("step"), "\"step\"")
	if err != nil {
		return nil, err
	}
	body, err := r.body(get(obj, "do"), pos.Dot("do"))
	if err != nil {
		return nil, err
	}
	return &ast.For{Src: ast.Src{At: pos}, Init: init, Predicate: pred, Step: step, Body: body}, nil
}

func readForeach(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	name, err := r.symbolField(obj, "foreach", pos)
	if err != nil {
		return nil, err
	}
	array, err := r.Expr(get(obj, "in"), pos.Dot("in"))
	if err != nil {
		return nil, err
	}
	body, err := r.body(get(obj, "do"), pos.Dot("do"))
	if err != nil {
		return nil, err
	}
	seq, err := boolField(obj, "seq", pos)
	if err != nil {
		return nil, err
	}
	return &ast.Foreach{Src: ast.Src{At: pos}, Name: name, Array: array, Body: body, Seq: seq}, nil
}

func readForkeyval(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	forKey, err := r.symbolField(obj, "forkey", pos)
	if err != nil {
		return nil, err
	}
	forVal, err := r.symbolField(obj, "forval", pos)
	if err != nil {
		return nil, err
	}
	if forKey == forVal {
		return nil, fmterr.Syntaxf(pos, "\"forkey\" and \"forval\" must be different symbols")
	}
	m, err := r.Expr(get(obj, "in"), pos.Dot("in"))
	if err != nil {
		return nil, err
	}
	body, err := r.body(get(obj, "do"), pos.Dot("do"))
	if err != nil {
		return nil, err
	}
	return &ast.Forkeyval{Src: ast.Src{At: pos}, ForKey: forKey, ForVal: forVal, Map: m, Body: body}, nil
}

// FcnDef reads a function definition.
func (r *Reader) FcnDef(tree any, pos fmterr.Pos) (*ast.FcnDef, error) {
	obj, ok := tree.(*jsontree.Object)
	if !ok {
		return nil, fmterr.Syntaxf(pos, "function definition must be an object")
	}
	pos = objPos(obj, pos)
	keys := keySet(obj)
	if len(keys) != 3 || keys[0] != "do" || keys[1] != "params" || keys[2] != "ret" {
		return nil, fmterr.Syntaxf(pos, "function definition must have exactly the keys \"params\", \"ret\" and \"do\"")
	}
	fcn, err := readFcnDef(r, obj, pos)
	if err != nil {
		return nil, err
	}
	return fcn.(*ast.FcnDef), nil
}

func readFcnDef(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	paramsPos := pos.Dot("params")
	params, ok := get(obj, "params").([]any)
	if !ok {
		return nil, fmterr.Syntaxf(paramsPos, "\"params\" must be an array of {name: type}")
	}
	fcn := &ast.FcnDef{Src: ast.Src{At: pos}}
	seen := make(map[string]bool)
	for i, param := range params {
		paramPos := paramsPos.Dot(i)
		paramObj, ok := param.(*jsontree.Object)
		if !ok {
			return nil, fmterr.Syntaxf(paramPos, "parameter must be an object {name: type}")
		}
		paramPos = objPos(paramObj, paramPos)
		keys := keySet(paramObj)
		if len(keys) != 1 {
			return nil, fmterr.Syntaxf(paramPos, "parameter must be an object with a single key {name: type}")
		}
		name := keys[0]
		if !IsSymbol(name) {
			return nil, fmterr.Syntaxf(paramPos, "%q is not a valid parameter name", name)
		}
		if seen[name] {
			return nil, fmterr.Syntaxf(paramPos, "parameter %q is declared more than once", name)
		}
		seen[name] = true
		fcn.Params = append(fcn.Params, &ast.Param{
			Name: name,
			Type: r.typ(get(paramObj, name), paramPos.Dot(name)),
		})
	}
	fcn.Ret = r.typ(get(obj, "ret"), pos.Dot("ret"))
	var err error
	if fcn.Body, err = r.body(get(obj, "do"), pos.Dot("do")); err != nil {
		return nil, err
	}
	return fcn, nil
}

func (r *Reader) fcnName(obj *jsontree.Object, pos fmterr.Pos) (string, error) {
	name, err := r.stringField(obj, "fcn", pos)
	if err != nil {
		return "", err
	}
	if !IsFunctionName(name) && !IsOperator(name) {
		return "", fmterr.Syntaxf(pos.Dot("fcn"), "%q is not a valid function name", name)
	}
	return name, nil
}

func readFcnRef(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	name, err := r.fcnName(obj, pos)
	if err != nil {
		return nil, err
	}
	return &ast.FcnRef{Src: ast.Src{At: pos}, Name: name}, nil
}

func readFcnRefFill(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	name, err := r.fcnName(obj, pos)
	if err != nil {
		return nil, err
	}
	fillPos := pos.Dot("fill")
	fillObj, ok := get(obj, "fill").(*jsontree.Object)
	if !ok {
		return nil, fmterr.Syntaxf(fillPos, "\"fill\" must be an object of parameter names to arguments")
	}
	fill := ordered.NewMap[string, ast.Argument]()
	for param, tree := range fillObj.Iter() {
		if param == jsontree.AtKey {
			continue
		}
		if !IsSymbol(param) {
			return nil, fmterr.Syntaxf(fillPos.Dot(param), "%q is not a valid parameter name", param)
		}
		arg, err := r.Argument(tree, fillPos.Dot(param))
		if err != nil {
			return nil, err
		}
		fill.Store(param, arg)
	}
	if fill.Size() == 0 {
		return nil, fmterr.Syntaxf(fillPos, "\"fill\" must give at least one parameter")
	}
	return &ast.FcnRefFill{Src: ast.Src{At: pos}, Name: name, Fill: fill}, nil
}

func readCallUserFcn(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	name, err := r.Expr(get(obj, "call"), pos.Dot("call"))
	if err != nil {
		return nil, err
	}
	args, err := r.exprList(get(obj, "args"), pos.Dot("args"), "\"args\"")
	if err != nil {
		return nil, err
	}
	return &ast.CallUserFcn{Src: ast.Src{At: pos}, Name: name, Args: args}, nil
}

func readCast(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	expr, err := r.Expr(get(obj, "cast"), pos.Dot("cast"))
	if err != nil {
		return nil, err
	}
	partial, err := boolField(obj, "partial", pos)
	if err != nil {
		return nil, err
	}
	casesPos := pos.Dot("cases")
	cases, ok := get(obj, "cases").([]any)
	if !ok || len(cases) == 0 {
		return nil, fmterr.Syntaxf(casesPos, "\"cases\" must be a non-empty array of {\"as\": type, \"named\": symbol, \"do\": ...}")
	}
	cast := &ast.CastBlock{Src: ast.Src{At: pos}, Expr: expr, Partial: partial}
	for i, c := range cases {
		casePos := casesPos.Dot(i)
		caseObj, ok := c.(*jsontree.Object)
		if !ok {
			return nil, fmterr.Syntaxf(casePos, "cast case must be an object")
		}
		casePos = objPos(caseObj, casePos)
		keys := keySet(caseObj)
		if len(keys) != 3 || keys[0] != "as" || keys[1] != "do" || keys[2] != "named" {
			return nil, fmterr.Syntaxf(casePos, "cast case must have exactly the keys \"as\", \"named\" and \"do\"")
		}
		named, err := r.symbolField(caseObj, "named", casePos)
		if err != nil {
			return nil, err
		}
		body, err := r.body(get(caseObj, "do"), casePos.Dot("do"))
		if err != nil {
			return nil, err
		}
		cast.Cases = append(cast.Cases, &ast.CastCase{
			Src:   ast.Src{At: casePos},
			Type:  r.typ(get(caseObj, "as"), casePos.Dot("as")),
			Named: named,
			Body:  body,
		})
	}
	return cast, nil
}

func readUpcast(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	expr, err := r.Expr(get(obj, "upcast"), pos.Dot("upcast"))
	if err != nil {
		return nil, err
	}
	return &ast.Upcast{Src: ast.Src{At: pos}, Expr: expr, As: r.typ(get(obj, "as"), pos.Dot("as"))}, nil
}

func readIfNotNull(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	bindings, err := r.bindings(get(obj, "ifnotnull"), pos.Dot("ifnotnull"), "\"ifnotnull\"")
	if err != nil {
		return nil, err
	}
	then, err := r.body(get(obj, "then"), pos.Dot("then"))
	if err != nil {
		return nil, err
	}
	els, err := r.optionalBody(obj, "else", pos)
	if err != nil {
		return nil, err
	}
	return &ast.IfNotNull{Src: ast.Src{At: pos}, Bindings: bindings, Then: then, Else: els}, nil
}

// singleKey returns the key and the value of an object with exactly one key.
func singleKey(tree any, pos fmterr.Pos, what string) (string, any, fmterr.Pos, error) {
	obj, ok := tree.(*jsontree.Object)
	if !ok {
		return "", nil, pos, fmterr.Syntaxf(pos, "%s must be an object with a single key", what)
	}
	pos = objPos(obj, pos)
	keys := keySet(obj)
	if len(keys) != 1 {
		return "", nil, pos, fmterr.Syntaxf(pos, "%s must be an object with a single key", what)
	}
	return keys[0], get(obj, keys[0]), pos, nil
}

func readPack(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	packPos := pos.Dot("pack")
	fields, ok := get(obj, "pack").([]any)
	if !ok {
		return nil, fmterr.Syntaxf(packPos, "\"pack\" must be an array of {format: expression}")
	}
	pack := &ast.Pack{Src: ast.Src{At: pos}}
	for i, field := range fields {
		format, tree, fieldPos, err := singleKey(field, packPos.Dot(i), "pack field")
		if err != nil {
			return nil, err
		}
		if _, err := ast.PackFormat(format); err != nil {
			return nil, fmterr.Syntax(fieldPos, err)
		}
		expr, err := r.Expr(tree, fieldPos.Dot(format))
		if err != nil {
			return nil, err
		}
		pack.Fields = append(pack.Fields, &ast.PackField{Format: format, Expr: expr})
	}
	return pack, nil
}

func readUnpack(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	bytes, err := r.Expr(get(obj, "unpack"), pos.Dot("unpack"))
	if err != nil {
		return nil, err
	}
	formatPos := pos.Dot("format")
	fields, ok := get(obj, "format").([]any)
	if !ok || len(fields) == 0 {
		return nil, fmterr.Syntaxf(formatPos, "\"format\" must be a non-empty array of {symbol: format}")
	}
	unpack := &ast.Unpack{Src: ast.Src{At: pos}, Bytes: bytes}
	seen := make(map[string]bool)
	for i, field := range fields {
		name, formatV, fieldPos, err := singleKey(field, formatPos.Dot(i), "unpack format")
		if err != nil {
			return nil, err
		}
		if !IsSymbol(name) {
			return nil, fmterr.Syntaxf(fieldPos, "%q is not a valid symbol name", name)
		}
		if seen[name] {
			return nil, fmterr.Syntaxf(fieldPos, "symbol %q is unpacked more than once", name)
		}
		seen[name] = true
		format, ok := formatV.(string)
		if !ok {
			return nil, fmterr.Syntaxf(fieldPos.Dot(name), "format must be a string")
		}
		if _, err := ast.PackFormat(format); err != nil {
			return nil, fmterr.Syntax(fieldPos.Dot(name), err)
		}
		unpack.Format = append(unpack.Format, &ast.UnpackField{Name: name, Format: format})
	}
	if unpack.Then, err = r.body(get(obj, "then"), pos.Dot("then")); err != nil {
		return nil, err
	}
	if unpack.Else, err = r.optionalBody(obj, "else", pos); err != nil {
		return nil, err
	}
	return unpack, nil
}

func readDoc(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	comment, err := r.stringField(obj, "doc", pos)
	if err != nil {
		return nil, err
	}
	return &ast.Doc{Src: ast.Src{At: pos}, Comment: comment}, nil
}

func readError(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	msg, err := r.stringField(obj, "error", pos)
	if err != nil {
		return nil, err
	}
	errNode := &ast.Error{Src: ast.Src{At: pos}, Message: msg}
	if codeV, ok := obj.Get("code"); ok {
		codePos := pos.Dot("code")
		code, isNum := codeV.(jsontree.Number)
		if !isNum || !code.IsInteger() {
			return nil, fmterr.Syntaxf(codePos, "\"code\" must be an integer")
		}
		c, err := code.Int64()
		if err != nil || c < math.MinInt32 || c > math.MaxInt32 {
			return nil, fmterr.Syntaxf(codePos, "\"code\" %s is out of the int range", code)
		}
		errNode.Code = new(int)
		*errNode.Code = int(c)
	}
	return errNode, nil
}

func readTry(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	body, err := r.body(get(obj, "try"), pos.Dot("try"))
	if err != nil {
		return nil, err
	}
	try := &ast.Try{Src: ast.Src{At: pos}, Body: body}
	if filterV, ok := obj.Get("filter"); ok {
		filter, isList := filterV.([]any)
		if !isList {
			return nil, fmterr.Syntaxf(pos.Dot("filter"), "\"filter\" must be an array of strings")
		}
		for i, f := range filter {
			s, isString := f.(string)
			if !isString {
				return nil, fmterr.Syntaxf(pos.Dot("filter").Dot(i), "\"filter\" must be an array of strings")
			}
			try.Filter = append(try.Filter, s)
		}
	}
	return try, nil
}

func readLog(r *Reader, obj *jsontree.Object, pos fmterr.Pos) (ast.Argument, error) {
	args, err := r.body(get(obj, "log"), pos.Dot("log"))
	if err != nil {
		return nil, err
	}
	log := &ast.Log{Src: ast.Src{At: pos}, Args: args}
	if _, ok := obj.Get("namespace"); ok {
		if log.Namespace, err = r.stringField(obj, "namespace", pos); err != nil {
			return nil, err
		}
	}
	return log, nil
}
