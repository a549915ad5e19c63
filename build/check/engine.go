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
	"github.com/gx-org/pfa/base/ordered"
	"github.com/gx-org/pfa/build/ast"
	"github.com/gx-org/pfa/build/fmterr"
	"github.com/gx-org/pfa/build/types"
	"github.com/gx-org/pfa/internal/base/scope"
)

// Symbols provided by the engine to its begin, action and end sections.
const (
	InputSymbol           = "input"
	TallySymbol           = "tally"
	TallyOneSymbol        = "tallyOne"
	TallyTwoSymbol        = "tallyTwo"
	NameSymbol            = "name"
	InstanceSymbol        = "instance"
	MetadataSymbol        = "metadata"
	ActionsStartedSymbol  = "actionsStarted"
	ActionsFinishedSymbol = "actionsFinished"
)

// section of an engine with its own root scope.
type section int

const (
	beginSection section = iota
	actionSection
	endSection
	mergeSection
)

// engineSymbols returns the read-only symbols visible from a section.
func (c *checker) engineSymbols(sec section) *symbols {
	output := c.eng.Output.Type()
	syms := ordered.NewMap[string, types.Type]()
	if sec == mergeSection {
		syms.Store(TallyOneSymbol, output)
		syms.Store(TallyTwoSymbol, output)
	} else {
		syms.Store(NameSymbol, types.StringType())
		syms.Store(InstanceSymbol, types.IntType())
		syms.Store(MetadataSymbol, types.MapOf(types.StringType()))
		syms.Store(ActionsStartedSymbol, types.LongType())
		syms.Store(ActionsFinishedSymbol, types.LongType())
	}
	if sec == actionSection {
		syms.Store(InputSymbol, c.eng.Input.Type())
	}
	if c.eng.Method == ast.Fold && (sec == actionSection || sec == endSection) {
		syms.Store(TallySymbol, output)
	}
	return scope.NewWithValues(syms).NewChild(scope.ReadOnly)
}

// declareFcns computes the types of the user functions before checking
// their bodies so that functions can call each other.
func (c *checker) declareFcns() error {
	for name, def := range c.eng.Fcns.Iter() {
		fcn := fcnType(def)
		if !fcn.Ret.Kind().IsAvro() {
			return fmterr.Semanticf(def.Pos(), "user function %q must return an Avro type, not %s", name, fcn.Ret)
		}
		c.info.Fcns.Store(ast.UserFcnPrefix+name, fcn)
	}
	return nil
}

func (c *checker) engine() error {
	for _, t := range []types.Type{c.eng.Input.Type(), c.eng.Output.Type()} {
		if !t.Kind().IsAvro() {
			return fmterr.Semanticf(c.eng.Pos(), "engine input and output must be Avro types, not %s", t)
		}
	}
	if err := c.declareFcns(); err != nil {
		return err
	}
	for def := range c.eng.Fcns.Values() {
		if _, err := c.fcnDef(scope.New[types.Type](), def); err != nil {
			return err
		}
	}
	if _, err := c.body(c.engineSymbols(beginSection), c.eng.Begin); err != nil {
		return err
	}
	actionT, err := c.body(c.engineSymbols(actionSection), c.eng.Action)
	if err != nil {
		return err
	}
	output := c.eng.Output.Type()
	if c.eng.Method != ast.Emit && !types.Accepts(output, actionT) {
		return fmterr.Semanticf(c.lastPos(c.eng.Action), "action returns %s but the engine output is %s", actionT, output)
	}
	if _, err := c.body(c.engineSymbols(endSection), c.eng.End); err != nil {
		return err
	}
	if c.eng.Method == ast.Fold && len(c.eng.Merge) > 0 {
		mergeT, err := c.body(c.engineSymbols(mergeSection), c.eng.Merge)
		if err != nil {
			return err
		}
		if !types.Accepts(output, mergeT) {
			return fmterr.Semanticf(c.lastPos(c.eng.Merge), "merge returns %s but the engine output is %s", mergeT, output)
		}
	}
	return nil
}

// lastPos returns the position of the expression giving its value to a body.
func (c *checker) lastPos(body []ast.Expr) fmterr.Pos {
	if len(body) == 0 {
		return c.eng.Pos()
	}
	return body[len(body)-1].Pos()
}
