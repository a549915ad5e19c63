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

// Package testbuild provides declarative tests compiling PFA documents
// and expressions.
package testbuild

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gx-org/pfa/api/options"
	pfafmt "github.com/gx-org/pfa/base/fmt"
	"github.com/gx-org/pfa/build/builder"
	"github.com/gx-org/pfa/build/types"
	"go.uber.org/zap/zaptest"
)

type (
	// Test compiles some source code and checks the result.
	Test interface {
		Run(*testing.T)
	}

	// Doc compiles a complete document.
	Doc struct {
		// Src is the JSON or YAML text of the document.
		Src string
		// Err is a substring of the expected error.
		// The document has to compile if empty.
		Err string
		// WantAction is the JSON text of the type expected to be inferred
		// for the last expression of the action, if any.
		WantAction string
		// Options of the compilation.
		Options []options.Option
	}

	// Expr compiles a single expression.
	Expr struct {
		// Src is the JSON or YAML text of the expression.
		Src string
		// Syms are the symbols the expression can refer to.
		Syms []builder.Symbol
		// Want is the JSON text of the expected type of the expression.
		Want string
		// Err is a substring of the expected error.
		Err string
		// Options of the compilation.
		Options []options.Option
	}
)

// Run all the tests.
func Run(t *testing.T, tests ...Test) {
	for i, test := range tests {
		t.Run(fmt.Sprintf("test%d", i), test.Run)
	}
}

func withLogger(t *testing.T, opts []options.Option) []options.Option {
	return append([]options.Option{options.WithLogger(zaptest.NewLogger(t))}, opts...)
}

// checkErr returns true if the test can continue.
func checkErr(t *testing.T, src string, err error, want string) bool {
	t.Helper()
	if want == "" {
		if err != nil {
			t.Errorf("cannot compile:\n%s\nerror:\n%+v", pfafmt.Number(src), err)
		}
		return err == nil
	}
	if err == nil {
		t.Errorf("compiling:\n%s\nsucceeded but want an error containing %q", pfafmt.Number(src), want)
		return false
	}
	if !strings.Contains(err.Error(), want) {
		t.Errorf("compiling:\n%s\nerror:\n%s\ndoes not contain %q", pfafmt.Number(src), err.Error(), want)
	}
	return false
}

func checkType(t *testing.T, what string, got types.Type, want string) {
	t.Helper()
	if want == "" {
		return
	}
	wants, err := types.ParseForward(want)
	if err != nil {
		t.Fatalf("cannot parse the expected type %s:\n%+v", want, err)
	}
	if wantType := wants[want]; !types.Equal(got, wantType) {
		t.Errorf("%s has type %s but want %s", what, got, wantType)
	}
}

// Run compiles the document.
func (tt Doc) Run(t *testing.T) {
	eng, err := builder.Build([]byte(tt.Src), withLogger(t, tt.Options)...)
	if !checkErr(t, tt.Src, err, tt.Err) {
		return
	}
	if tt.WantAction == "" {
		return
	}
	action := eng.Config.Action
	if len(action) == 0 {
		t.Fatalf("document:\n%s\nhas no action", pfafmt.Number(tt.Src))
	}
	last := action[len(action)-1]
	got, ok := eng.Info.Types[last]
	if !ok {
		t.Fatalf("no type inferred for the last action expression %T of:\n%s", last, pfafmt.Number(tt.Src))
	}
	checkType(t, "action", got, tt.WantAction)
}

// Run compiles the expression.
func (tt Expr) Run(t *testing.T) {
	got, _, err := builder.BuildExpr([]byte(tt.Src), tt.Syms, withLogger(t, tt.Options)...)
	if !checkErr(t, tt.Src, err, tt.Err) {
		return
	}
	checkType(t, tt.Src, got, tt.Want)
}
