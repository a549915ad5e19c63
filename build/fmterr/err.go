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

package fmterr

import (
	"fmt"
	"runtime/debug"

	"github.com/pkg/errors"
)

type (
	// ErrorWithPos is an error attached to a position in a PFA document.
	ErrorWithPos interface {
		error
		Pos() Pos
		Err() error
	}

	posError struct {
		kind string
		pos  Pos
		err  error
	}

	// SyntaxError is returned when a document does not match the grammar
	// of the language.
	SyntaxError struct {
		posError
	}

	// SemanticError is returned when a document is well-formed but
	// violates a typing or a scoping rule.
	SemanticError struct {
		posError
	}
)

var (
	_ ErrorWithPos = (*SyntaxError)(nil)
	_ ErrorWithPos = (*SemanticError)(nil)
)

// Syntax wraps an error into a syntax error at a position.
func Syntax(pos Pos, err error) error {
	return &SyntaxError{posError{kind: "syntax", pos: pos, err: err}}
}

// Syntaxf returns a formatted syntax error at a position.
func Syntaxf(pos Pos, format string, a ...any) error {
	return Syntax(pos, errors.Errorf(format, a...))
}

// Semantic wraps an error into a semantic error at a position.
func Semantic(pos Pos, err error) error {
	return &SemanticError{posError{kind: "semantic", pos: pos, err: err}}
}

// Semanticf returns a formatted semantic error at a position.
func Semanticf(pos Pos, format string, a ...any) error {
	return Semantic(pos, errors.Errorf(format, a...))
}

// Internal marks an error as internal, potentially adding additional information.
func Internal(err error) error {
	return fmt.Errorf("PFA internal error. This is a bug in the PFA compiler. Please report it. Error:\n%+v", err)
}

// Internalf returns a formatted internal error.
func Internalf(format string, a ...any) error {
	return Internal(errors.Errorf(format, a...))
}

// IsSyntax returns true if a syntax error is in the chain of err.
func IsSyntax(err error) bool {
	var target *SyntaxError
	return errors.As(err, &target)
}

// IsSemantic returns true if a semantic error is in the chain of err.
func IsSemantic(err error) bool {
	var target *SemanticError
	return errors.As(err, &target)
}

// Error returns a string description of the error.
func (err *posError) Error() (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprintf("recovered from panic when building error message: %T:\n%v", err.err, string(debug.Stack()))
		}
	}()
	where := err.pos.String()
	if where == "" {
		return fmt.Sprintf("PFA %s error: %s", err.kind, err.err.Error())
	}
	return fmt.Sprintf("PFA %s error at %s: %s", err.kind, where, err.err.Error())
}

// Pos returns the position of the error in the document.
func (err *posError) Pos() Pos {
	return err.pos
}

// Err returns the error without its position.
func (err *posError) Err() error {
	return err.err
}

// Unwrap the error.
func (err *posError) Unwrap() error {
	return err.err
}

// Format writes the error into the state of the formatter.
func (err *posError) Format(s fmt.State, verb rune) {
	format(err, s, verb)
}
