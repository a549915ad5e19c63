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
	"testing"

	"github.com/gx-org/pfa/build/sig"
	"github.com/gx-org/pfa/build/types"
)

func TestCallCache(t *testing.T) {
	cc, err := newCallCache(2)
	if err != nil {
		t.Fatal(err)
	}
	sigs := sig.Sigs{sig.New(sig.AnyNumber("A"), sig.P("x", sig.AnyNumber("A")))}
	intArgs := []types.Type{types.IntType()}
	first, ok := cc.match("f", sigs, intArgs, sig.DefaultVersion)
	if !ok {
		t.Fatalf("f(int) does not match")
	}
	second, _ := cc.match("f", sigs, intArgs, sig.DefaultVersion)
	if first != second {
		t.Errorf("second resolution of f(int) has not been cached")
	}
	if _, ok := cc.match("f", sigs, []types.Type{types.StringType()}, sig.DefaultVersion); ok {
		t.Errorf("f(string) matches")
	}
	if _, ok := cc.match("f", sigs, []types.Type{types.StringType()}, sig.DefaultVersion); ok {
		t.Errorf("cached f(string) matches")
	}
	if got := cc.len(); got != 2 {
		t.Errorf("cache has %d entries but want 2", got)
	}
	fcnArgs := []types.Type{&types.Fcn{Params: []types.Type{types.IntType()}, Ret: types.IntType()}}
	cc.match("g", sigs, fcnArgs, sig.DefaultVersion)
	if got := cc.len(); got != 2 {
		t.Errorf("cache has %d entries after a call with a function argument but want 2", got)
	}
	cc.match("f", sigs, []types.Type{types.LongType()}, sig.DefaultVersion)
	if got := cc.len(); got != 2 {
		t.Errorf("cache has %d entries but its size is 2", got)
	}
}

func TestNilCallCache(t *testing.T) {
	cc, err := newCallCache(0)
	if err != nil {
		t.Fatal(err)
	}
	if cc != nil {
		t.Fatalf("a cache of size 0 is not nil")
	}
	sigs := sig.Sigs{sig.New(sig.Int(), sig.P("x", sig.Int()))}
	if _, ok := cc.match("f", sigs, []types.Type{types.IntType()}, sig.DefaultVersion); !ok {
		t.Errorf("f(int) does not match without a cache")
	}
	if cc.len() != 0 {
		t.Errorf("nil cache is not empty")
	}
}
