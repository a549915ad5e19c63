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

// Package ast defines the nodes of a parsed PFA document.
//
// Nodes are built by the reader and annotated by the checker. Types are
// held as placeholders since they may refer to named types defined later
// in the document.
package ast

import (
	"github.com/gx-org/pfa/base/ordered"
	"github.com/gx-org/pfa/build/fmterr"
	"github.com/gx-org/pfa/build/types"
)

type (
	// Node of the syntax tree.
	Node interface {
		// Pos returns the position of the node in the document.
		Pos() fmterr.Pos
	}

	// Argument of a function call: an expression or a function.
	Argument interface {
		Node
		argument()
	}

	// Expr is an expression evaluating to a value.
	Expr interface {
		Argument
		expr()
	}

	// Src is the position of a node in the document.
	Src struct {
		At fmterr.Pos
	}
)

// Pos returns the position of the node.
func (s Src) Pos() fmterr.Pos { return s.At }

// Bindings associates names to expressions in order of declaration.
type Bindings = ordered.Map[string, Expr]

// NewBindings returns an empty set of bindings.
func NewBindings() *Bindings {
	return ordered.NewMap[string, Expr]()
}

// Literals.
type (
	// LiteralNull is null.
	LiteralNull struct {
		Src
	}

	// LiteralBoolean is true or false.
	LiteralBoolean struct {
		Src
		Value bool
	}

	// LiteralInt is a 32-bit integer.
	LiteralInt struct {
		Src
		Value int32
	}

	// LiteralLong is a 64-bit integer.
	LiteralLong struct {
		Src
		Value int64
	}

	// LiteralFloat is a 32-bit floating-point number.
	LiteralFloat struct {
		Src
		Value float32
	}

	// LiteralDouble is a 64-bit floating-point number.
	LiteralDouble struct {
		Src
		Value float64
	}

	// LiteralString is a string.
	LiteralString struct {
		Src
		Value string
	}

	// LiteralBase64 is a sequence of bytes given in base64.
	LiteralBase64 struct {
		Src
		Value []byte
	}

	// Literal is a value of any type written as a document tree.
	Literal struct {
		Src
		Type  *types.Placeholder
		Value any
	}
)

// Construction of values.
type (
	// NewObject builds a map or a record.
	NewObject struct {
		Src
		Fields *Bindings
		Type   *types.Placeholder
	}

	// NewArray builds an array.
	NewArray struct {
		Src
		Items []Expr
		Type  *types.Placeholder
	}
)

// Symbols and storage.
type (
	// Do evaluates a sequence of expressions and returns the last value.
	Do struct {
		Src
		Body []Expr
	}

	// Let declares new symbols.
	Let struct {
		Src
		Values *Bindings
	}

	// SetVar assigns new values to existing symbols.
	SetVar struct {
		Src
		Values *Bindings
	}

	// Ref is a reference to a symbol.
	Ref struct {
		Src
		Name string
	}

	// AttrGet extracts a value from a structure.
	AttrGet struct {
		Src
		Expr Expr
		Path []Expr
	}

	// AttrTo returns a copy of a structure with a value replaced.
	// To is either an expression or a function updating the value.
	AttrTo struct {
		Src
		Expr Expr
		Path []Expr
		To   Argument
	}

	// CellGet reads a cell.
	CellGet struct {
		Src
		Cell string
		Path []Expr
	}

	// CellTo updates a cell.
	CellTo struct {
		Src
		Cell string
		Path []Expr
		To   Argument
	}

	// PoolGet reads an item of a pool. The first element of the path is the key of the item.
	PoolGet struct {
		Src
		Pool string
		Path []Expr
	}

	// PoolTo updates an item of a pool, initializing it if the key is not in the pool.
	PoolTo struct {
		Src
		Pool string
		Path []Expr
		To   Argument
		Init Expr
	}

	// PoolDel removes an item from a pool.
	PoolDel struct {
		Src
		Pool string
		Del  Expr
	}
)

// Control flow.
type (
	// If evaluates Then if the predicate is true, else Else if present.
	If struct {
		Src
		Predicate Expr
		Then      []Expr
		Else      []Expr
	}

	// Cond evaluates the first branch whose predicate is true.
	Cond struct {
		Src
		Ifs  []*If
		Else []Expr
	}

	// While evaluates its body while the predicate is true.
	While struct {
		Src
		Predicate Expr
		Body      []Expr
	}

	// DoUntil evaluates its body until the predicate is true.
	DoUntil struct {
		Src
		Body      []Expr
		Predicate Expr
	}

	// For is a loop with loop variables declared by Init and updated by Step.
	For struct {
		Src
		Init      *Bindings
		Predicate Expr
		Step      *Bindings
		Body      []Expr
	}

	// Foreach iterates over the items of an array.
	// Seq is true if the body must be evaluated in sequence.
	Foreach struct {
		Src
		Name  string
		Array Expr
		Body  []Expr
		Seq   bool
	}

	// Forkeyval iterates over the entries of a map.
	Forkeyval struct {
		Src
		ForKey, ForVal string
		Map            Expr
		Body           []Expr
	}
)

// Functions.
type (
	// Param of a function definition.
	Param struct {
		Name string
		Type *types.Placeholder
	}

	// FcnDef is a function definition, either anonymous or in the fcns section of a document.
	FcnDef struct {
		Src
		Params []*Param
		Ret    *types.Placeholder
		Body   []Expr
	}

	// FcnRef is a reference to a named function.
	FcnRef struct {
		Src
		Name string
	}

	// FcnRefFill is a reference to a named function with some parameters given.
	FcnRefFill struct {
		Src
		Name string
		Fill *ordered.Map[string, Argument]
	}

	// Call calls a library function or a user function.
	// User functions are named u.<name>.
	Call struct {
		Src
		Name string
		Args []Argument
	}

	// CallUserFcn calls a user function chosen at runtime by an enum of function names.
	CallUserFcn struct {
		Src
		Name Expr
		Args []Expr
	}
)

// Types.
type (
	// CastCase is a branch of a cast.
	CastCase struct {
		Src
		Type  *types.Placeholder
		Named string
		Body  []Expr
	}

	// CastBlock evaluates the case matching the runtime type of a value.
	CastBlock struct {
		Src
		Expr    Expr
		Cases   []*CastCase
		Partial bool
	}

	// Upcast changes the static type of an expression to a broader type.
	Upcast struct {
		Src
		Expr Expr
		As   *types.Placeholder
	}

	// IfNotNull binds symbols to the values of nullable expressions and
	// evaluates Then if none of them is null.
	IfNotNull struct {
		Src
		Bindings *Bindings
		Then     []Expr
		Else     []Expr
	}

	// PackField is an expression packed in bytes with a given format.
	PackField struct {
		Format string
		Expr   Expr
	}

	// Pack packs values into bytes.
	Pack struct {
		Src
		Fields []*PackField
	}

	// UnpackField is a symbol defined by unpacking bytes with a given format.
	UnpackField struct {
		Name   string
		Format string
	}

	// Unpack unpacks bytes into symbols and evaluates Then if the bytes match the format.
	Unpack struct {
		Src
		Bytes  Expr
		Format []*UnpackField
		Then   []Expr
		Else   []Expr
	}
)

// Diagnostics.
type (
	// Doc is a comment.
	Doc struct {
		Src
		Comment string
	}

	// Error raises an error.
	Error struct {
		Src
		Message string
		Code    *int
	}

	// Try catches errors raised while evaluating its body.
	// Filter restricts the errors caught to the given messages.
	Try struct {
		Src
		Body   []Expr
		Filter []string
	}

	// Log writes values to the log.
	Log struct {
		Src
		Args      []Expr
		Namespace string
	}
)

var (
	_ Expr = (*LiteralNull)(nil)
	_ Expr = (*LiteralBoolean)(nil)
	_ Expr = (*LiteralInt)(nil)
	_ Expr = (*LiteralLong)(nil)
	_ Expr = (*LiteralFloat)(nil)
	_ Expr = (*LiteralDouble)(nil)
	_ Expr = (*LiteralString)(nil)
	_ Expr = (*LiteralBase64)(nil)
	_ Expr = (*Literal)(nil)
	_ Expr = (*NewObject)(nil)
	_ Expr = (*NewArray)(nil)
	_ Expr = (*Do)(nil)
	_ Expr = (*Let)(nil)
	_ Expr = (*SetVar)(nil)
	_ Expr = (*Ref)(nil)
	_ Expr = (*AttrGet)(nil)
	_ Expr = (*AttrTo)(nil)
	_ Expr = (*CellGet)(nil)
	_ Expr = (*CellTo)(nil)
	_ Expr = (*PoolGet)(nil)
	_ Expr = (*PoolTo)(nil)
	_ Expr = (*PoolDel)(nil)
	_ Expr = (*If)(nil)
	_ Expr = (*Cond)(nil)
	_ Expr = (*While)(nil)
	_ Expr = (*DoUntil)(nil)
	_ Expr = (*For)(nil)
	_ Expr = (*Foreach)(nil)
	_ Expr = (*Forkeyval)(nil)
	_ Expr = (*Call)(nil)
	_ Expr = (*CallUserFcn)(nil)
	_ Expr = (*CastBlock)(nil)
	_ Expr = (*Upcast)(nil)
	_ Expr = (*IfNotNull)(nil)
	_ Expr = (*Pack)(nil)
	_ Expr = (*Unpack)(nil)
	_ Expr = (*Doc)(nil)
	_ Expr = (*Error)(nil)
	_ Expr = (*Try)(nil)
	_ Expr = (*Log)(nil)

	_ Argument = (*FcnDef)(nil)
	_ Argument = (*FcnRef)(nil)
	_ Argument = (*FcnRefFill)(nil)

	_ Node = (*CastCase)(nil)
)

func (*LiteralNull) argument()    {}
func (*LiteralBoolean) argument() {}
func (*LiteralInt) argument()     {}
func (*LiteralLong) argument()    {}
func (*LiteralFloat) argument()   {}
func (*LiteralDouble) argument()  {}
func (*LiteralString) argument()  {}
func (*LiteralBase64) argument()  {}
func (*Literal) argument()        {}
func (*NewObject) argument()      {}
func (*NewArray) argument()       {}
func (*Do) argument()             {}
func (*Let) argument()            {}
func (*SetVar) argument()         {}
func (*Ref) argument()            {}
func (*AttrGet) argument()        {}
func (*AttrTo) argument()         {}
func (*CellGet) argument()        {}
func (*CellTo) argument()         {}
func (*PoolGet) argument()        {}
func (*PoolTo) argument()         {}
func (*PoolDel) argument()        {}
func (*If) argument()             {}
func (*Cond) argument()           {}
func (*While) argument()          {}
func (*DoUntil) argument()        {}
func (*For) argument()            {}
func (*Foreach) argument()        {}
func (*Forkeyval) argument()      {}
func (*Call) argument()           {}
func (*CallUserFcn) argument()    {}
func (*CastBlock) argument()      {}
func (*Upcast) argument()         {}
func (*IfNotNull) argument()      {}
func (*Pack) argument()           {}
func (*Unpack) argument()         {}
func (*Doc) argument()            {}
func (*Error) argument()          {}
func (*Try) argument()            {}
func (*Log) argument()            {}
func (*FcnDef) argument()         {}
func (*FcnRef) argument()         {}
func (*FcnRefFill) argument()     {}

func (*LiteralNull) expr()    {}
func (*LiteralBoolean) expr() {}
func (*LiteralInt) expr()     {}
func (*LiteralLong) expr()    {}
func (*LiteralFloat) expr()   {}
func (*LiteralDouble) expr()  {}
func (*LiteralString) expr()  {}
func (*LiteralBase64) expr()  {}
func (*Literal) expr()        {}
func (*NewObject) expr()      {}
func (*NewArray) expr()       {}
func (*Do) expr()             {}
func (*Let) expr()            {}
func (*SetVar) expr()         {}
func (*Ref) expr()            {}
func (*AttrGet) expr()        {}
func (*AttrTo) expr()         {}
func (*CellGet) expr()        {}
func (*CellTo) expr()         {}
func (*PoolGet) expr()        {}
func (*PoolTo) expr()         {}
func (*PoolDel) expr()        {}
func (*If) expr()             {}
func (*Cond) expr()           {}
func (*While) expr()          {}
func (*DoUntil) expr()        {}
func (*For) expr()            {}
func (*Foreach) expr()        {}
func (*Forkeyval) expr()      {}
func (*Call) expr()           {}
func (*CallUserFcn) expr()    {}
func (*CastBlock) expr()      {}
func (*Upcast) expr()         {}
func (*IfNotNull) expr()      {}
func (*Pack) expr()           {}
func (*Unpack) expr()         {}
func (*Doc) expr()            {}
func (*Error) expr()          {}
func (*Try) expr()            {}
func (*Log) expr()            {}
