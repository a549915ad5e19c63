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

package fmterr_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/gx-org/pfa/build/fmterr"
)

func TestPos(t *testing.T) {
	root := fmterr.Pos{}
	tests := []struct {
		pos  fmterr.Pos
		want string
	}{
		{pos: root, want: ""},
		{pos: root.Dot("action"), want: "action"},
		{pos: root.Dot("action").Dot(3).Dot("then").Dot(1), want: "action.3.then.1"},
		{pos: root.Dot("action").WithAt("line 4, column 9"), want: "action (line 4, column 9)"},
		{pos: root.Dot("action").WithAt("line 4").Dot(0), want: "action.0"},
		{pos: root.WithAt("line 1"), want: "(line 1)"},
	}
	for i, test := range tests {
		if got := test.pos.String(); got != test.want {
			t.Errorf("test %d: got %q but want %q", i, got, test.want)
		}
	}
}

func TestKinds(t *testing.T) {
	pos := fmterr.Pos{Path: "action.0"}
	syntax := fmterr.Syntaxf(pos, "unexpected key set %s", "{}")
	semantic := fmterr.Semanticf(pos, "unknown symbol %q", "x")
	if !fmterr.IsSyntax(syntax) || fmterr.IsSemantic(syntax) {
		t.Errorf("%v: wrong classification", syntax)
	}
	if !fmterr.IsSemantic(semantic) || fmterr.IsSyntax(semantic) {
		t.Errorf("%v: wrong classification", semantic)
	}
	wrapped := errors.Wrap(semantic, "checking document")
	if !fmterr.IsSemantic(wrapped) {
		t.Errorf("%v: wrapped semantic error not detected", wrapped)
	}
	if got, want := syntax.Error(), "PFA syntax error at action.0: unexpected key set {}"; got != want {
		t.Errorf("got %q but want %q", got, want)
	}
	var withPos fmterr.ErrorWithPos
	if !errors.As(wrapped, &withPos) || withPos.Pos() != pos {
		t.Errorf("cannot recover position from %v", wrapped)
	}
	if verbose := fmt.Sprintf("%+v", syntax); !strings.Contains(verbose, "Error generated at:") {
		t.Errorf("verbose formatting does not include a stack trace:\n%s", verbose)
	}
}

func TestErrors(t *testing.T) {
	errs := &fmterr.Errors{}
	if !errs.Empty() || errs.ToError() != nil {
		t.Fatalf("new error set is not empty")
	}
	first := errors.New("first")
	errs.Append(first)
	errs.Append(errors.New("second"))
	if got := len(errs.Errors()); got != 2 {
		t.Errorf("got %d errors but want 2", got)
	}
	if got := fmterr.First(errs.ToError()); got != first {
		t.Errorf("First() = %v but want %v", got, first)
	}
	if got := fmterr.First(nil); got != nil {
		t.Errorf("First(nil) = %v but want nil", got)
	}
}
