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

package check

import (
	"slices"
	"strings"

	pfafmt "github.com/gx-org/pfa/base/fmt"
	"github.com/gx-org/pfa/base/stringseq"
	"github.com/gx-org/pfa/build/ast"
	"github.com/gx-org/pfa/build/fmterr"
	"github.com/gx-org/pfa/build/sig"
	"github.com/gx-org/pfa/build/types"
	"github.com/gx-org/pfa/internal/base/scope"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"
)

// emitName is the function provided to the action of an emit engine.
const emitName = "emit"

// fcnType returns the declared type of a function definition.
func fcnType(def *ast.FcnDef) *types.Fcn {
	fcn := &types.Fcn{Ret: def.Ret.Type()}
	for _, param := range def.Params {
		fcn.Params = append(fcn.Params, param.Type.Type())
	}
	return fcn
}

// fcnDef checks the body of a function definition. The body only sees the
// parameters of the function: symbols of the enclosing scopes are hidden.
//
// If the body returns a type narrower than the declared return type,
// its last expression is wrapped in an upcast to the declared type.
func (c *checker) fcnDef(s *symbols, def *ast.FcnDef) (*types.Fcn, error) {
	fcn := fcnType(def)
	for _, t := range fcn.Params {
		if !t.Kind().IsAvro() {
			return nil, fmterr.Semanticf(def.Pos(), "function parameters must be Avro types, got %s", t)
		}
	}
	body := s.NewChild(scope.Sealed)
	for i, param := range def.Params {
		if err := body.Define(param.Name, fcn.Params[i]); err != nil {
			return nil, fmterr.Semantic(def.Pos(), err)
		}
	}
	got, err := c.body(body, def.Body)
	if err != nil {
		return nil, err
	}
	if !types.Accepts(fcn.Ret, got) {
		return nil, fmterr.Semanticf(def.Pos(), "function body returns %s but the function declares %s", got, fcn.Ret)
	}
	if len(def.Body) > 0 && got.Kind() != types.ExceptionKind && !types.Equal(fcn.Ret, got) {
		last := def.Body[len(def.Body)-1]
		up := &ast.Upcast{Src: ast.Src{At: last.Pos()}, Expr: last, As: types.Resolved(fcn.Ret)}
		def.Body[len(def.Body)-1] = up
		c.record(up, fcn.Ret)
		c.info.Upcasts = append(c.info.Upcasts, up)
	}
	return fcn, nil
}

func userFcnName(name string) (string, bool) {
	return strings.CutPrefix(name, ast.UserFcnPrefix)
}

// userFcn returns the declared type and the definition of a user function.
func (c *checker) userFcn(node ast.Node, name string) (*types.Fcn, *ast.FcnDef, error) {
	short, _ := userFcnName(name)
	var def *ast.FcnDef
	var ok bool
	if c.eng != nil {
		def, ok = c.eng.Fcns.Load(short)
	}
	if !ok {
		return nil, nil, fmterr.Semanticf(node.Pos(), "unknown user function %q", name)
	}
	fcn, ok := c.info.Fcns.Load(name)
	if !ok {
		fcn = fcnType(def)
		c.info.Fcns.Store(name, fcn)
	}
	return fcn, def, nil
}

func (c *checker) librarySigs(node ast.Node, name string) (sig.Sigs, error) {
	sigs, ok := c.conf.Registry.Sigs(name)
	if !ok {
		return nil, fmterr.Semanticf(node.Pos(), "unknown function %q", name)
	}
	if len(sigs.Alive(c.conf.Version)) == 0 {
		return nil, fmterr.Semanticf(node.Pos(), "function %q does not exist in PFA %s", name, c.conf.Version)
	}
	return sigs, nil
}

func (c *checker) fcnRef(ref *ast.FcnRef) (types.Type, error) {
	if _, isUser := userFcnName(ref.Name); isUser {
		fcn, _, err := c.userFcn(ref, ref.Name)
		return fcn, err
	}
	sigs, err := c.librarySigs(ref, ref.Name)
	if err != nil {
		return nil, err
	}
	return &sig.Ref{Name: ref.Name, Sigs: sigs}, nil
}

func (c *checker) fcnRefFill(s *symbols, ref *ast.FcnRefFill) (types.Type, error) {
	fill := make(map[string]types.Type)
	for name, arg := range ref.Fill.Iter() {
		expr, ok := arg.(ast.Expr)
		if !ok {
			return nil, fmterr.Semanticf(arg.Pos(), "parameter %q can only be filled by a value", name)
		}
		t, err := c.expr(s, expr)
		if err != nil {
			return nil, err
		}
		fill[name] = t
	}
	if _, isUser := userFcnName(ref.Name); !isUser {
		sigs, err := c.librarySigs(ref, ref.Name)
		if err != nil {
			return nil, err
		}
		return &sig.Ref{Name: ref.Name, Sigs: sigs, Fill: fill}, nil
	}
	fcn, def, err := c.userFcn(ref, ref.Name)
	if err != nil {
		return nil, err
	}
	filled := &types.Fcn{Ret: fcn.Ret}
	for i, param := range def.Params {
		t, ok := fill[param.Name]
		if !ok {
			filled.Params = append(filled.Params, fcn.Params[i])
			continue
		}
		if !types.Accepts(fcn.Params[i], t) {
			return nil, fmterr.Semanticf(ref.Pos(), "parameter %q of %s has type %s but is filled with %s", param.Name, ref.Name, fcn.Params[i], t)
		}
		delete(fill, param.Name)
	}
	if len(fill) > 0 {
		names := maps.Keys(fill)
		slices.Sort(names)
		return nil, fmterr.Semanticf(ref.Pos(), "%s has no parameter %s", ref.Name, stringseq.JoinQuoted(slices.Values(names), ", "))
	}
	return filled, nil
}

func (c *checker) warnDeprecated(node ast.Node, name string, match *sig.Match) {
	if match == nil || !match.Deprecated {
		return
	}
	c.log.Warn("call to a deprecated function",
		zap.String("function", name),
		zap.String("signature", match.Sig.String()),
		zap.String("pos", node.Pos().String()),
		zap.String("contingency", match.Sig.Life.Contingency),
	)
}

func typesString(typs []types.Type) string {
	return stringseq.JoinStringer(slices.Values(typs), ", ")
}

func (c *checker) call(s *symbols, call *ast.Call) (types.Type, error) {
	if _, isUser := userFcnName(call.Name); isUser {
		return c.callUser(s, call)
	}
	if call.Name == emitName && c.eng != nil && c.eng.Method == ast.Emit {
		return c.emit(s, call)
	}
	sigs, err := c.librarySigs(call, call.Name)
	if err != nil {
		return nil, err
	}
	args := make([]types.Type, len(call.Args))
	for i, arg := range call.Args {
		if args[i], err = c.argument(s, arg); err != nil {
			return nil, err
		}
	}
	match, ok := c.calls.match(call.Name, sigs, args, c.conf.Version)
	if !ok {
		return nil, fmterr.Semanticf(call.Pos(), "no signature of %s accepts arguments (%s). Signatures are:\n%s", call.Name, typesString(args), pfafmt.Indent(sigs.Alive(c.conf.Version).String()))
	}
	c.warnDeprecated(call, call.Name, match)
	c.info.Calls[call] = match
	for i, refMatch := range match.Refs {
		c.record(call.Args[i], match.Params[i])
		if ref, ok := args[i].(*sig.Ref); ok {
			c.warnDeprecated(call.Args[i], ref.Name, refMatch)
		}
	}
	return match.Ret, nil
}

// exprArgs checks the arguments of a call accepting only values.
func (c *checker) exprArgs(s *symbols, name string, args []ast.Argument) ([]types.Type, error) {
	typs := make([]types.Type, len(args))
	for i, arg := range args {
		expr, ok := arg.(ast.Expr)
		if !ok {
			return nil, fmterr.Semanticf(arg.Pos(), "functions can only be passed to library functions, not to %s", name)
		}
		var err error
		if typs[i], err = c.expr(s, expr); err != nil {
			return nil, err
		}
	}
	return typs, nil
}

func (c *checker) checkArgs(node ast.Node, name string, fcn *types.Fcn, args []types.Type) error {
	if len(args) != len(fcn.Params) {
		return fmterr.Semanticf(node.Pos(), "%s expects %d arguments but got %d", name, len(fcn.Params), len(args))
	}
	for i, param := range fcn.Params {
		if !types.Accepts(param, args[i]) {
			return fmterr.Semanticf(node.Pos(), "argument %d of %s has type %s but %s is expected", i, name, args[i], param)
		}
	}
	return nil
}

func (c *checker) callUser(s *symbols, call *ast.Call) (types.Type, error) {
	fcn, _, err := c.userFcn(call, call.Name)
	if err != nil {
		return nil, err
	}
	args, err := c.exprArgs(s, call.Name, call.Args)
	if err != nil {
		return nil, err
	}
	if err := c.checkArgs(call, call.Name, fcn, args); err != nil {
		return nil, err
	}
	return fcn.Ret, nil
}

func (c *checker) emit(s *symbols, call *ast.Call) (types.Type, error) {
	args, err := c.exprArgs(s, emitName, call.Args)
	if err != nil {
		return nil, err
	}
	emitT := &types.Fcn{Params: []types.Type{c.eng.Output.Type()}, Ret: types.NullType()}
	if err := c.checkArgs(call, emitName, emitT, args); err != nil {
		return nil, err
	}
	return types.NullType(), nil
}

// callUserFcn checks a call to a user function selected at runtime by
// an enum of user function names. All the functions must accept the
// arguments and the result is the broadest of their return types.
func (c *checker) callUserFcn(s *symbols, call *ast.CallUserFcn) (types.Type, error) {
	t, err := c.expr(s, call.Name)
	if err != nil {
		return nil, err
	}
	enum, ok := t.(*types.Enum)
	if !ok {
		return nil, fmterr.Semanticf(call.Name.Pos(), "user function name has type %s but an enum of user function names is required", t)
	}
	args := make([]types.Type, len(call.Args))
	for i, arg := range call.Args {
		if args[i], err = c.expr(s, arg); err != nil {
			return nil, err
		}
	}
	rets := make([]types.Type, len(enum.Symbols))
	for i, symbol := range enum.Symbols {
		name := ast.UserFcnPrefix + symbol
		fcn, _, err := c.userFcn(call, name)
		if err != nil {
			return nil, err
		}
		if err := c.checkArgs(call, name, fcn, args); err != nil {
			return nil, err
		}
		rets[i] = fcn.Ret
	}
	return c.broadest(call, rets...)
}
