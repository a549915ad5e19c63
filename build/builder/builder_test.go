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

package builder_test

import (
	"testing"

	"github.com/gx-org/pfa/api/options"
	"github.com/gx-org/pfa/build/builder"
	"github.com/gx-org/pfa/build/builder/testbuild"
	"github.com/gx-org/pfa/build/fmterr"
	"github.com/gx-org/pfa/build/jsontree"
	"github.com/gx-org/pfa/build/sig"
	"github.com/gx-org/pfa/stdlib"
	"github.com/gx-org/pfa/stdlib/builtin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuildDocuments(t *testing.T) {
	testbuild.Run(t,
		testbuild.Doc{
			Src:        `{"input": "double", "output": "double", "action": {"m.sqrt": ["input"]}}`,
			WantAction: `"double"`,
		},
		testbuild.Doc{
			Src: `
input: int
output: double
action:
  - {let: {x: {"+": [input, 1]}}}
  - {m.sqrt: [x]}
`,
			WantAction: `"double"`,
		},
		testbuild.Doc{
			Src: `{
				"output": {"type": "array", "items": "Point"},
				"input": {"type": "record", "name": "Point", "fields": [
					{"name": "x", "type": "double"},
					{"name": "y", "type": "double"}
				]},
				"action": {"new": ["input"], "type": {"type": "array", "items": "Point"}}
			}`,
			WantAction: `{"type": "array", "items": {"type": "record", "name": "Point", "fields": [
				{"name": "x", "type": "double"},
				{"name": "y", "type": "double"}
			]}}`,
		},
		testbuild.Doc{
			Src:        `{"input": "int", "output": ["null", "int"], "action": {"if": {">": ["input", 0]}, "then": "input"}}`,
			WantAction: `["null", "int"]`,
		},
		testbuild.Doc{
			Src:        `{"input": "int", "output": "double", "action": "input"}`,
			WantAction: `"int"`,
		},
		testbuild.Doc{
			Src:        `{"input": "int", "output": "long", "action": [{"let": {"x": 2.5}}, {"+": ["input", 1]}]}`,
			WantAction: `"int"`,
		},
		testbuild.Doc{
			Src: `{"input": "int", "output": "Nope", "action": "input"}`,
			Err: `type name "Nope" is not defined`,
		},
		testbuild.Doc{
			Src: `{"input": "int", "output": "string", "action": "input"}`,
			Err: "action returns",
		},
		testbuild.Doc{
			Src: `{"input": "int", "output": "int", "action": {"if": true, "foo": 1}}`,
			Err: "unrecognized set of keys",
		},
		testbuild.Doc{
			Src: `{"input": "int", "output": "int", "action": {"+": ["input",`,
			Err: "PFA syntax error",
		},
		testbuild.Doc{
			Src: `{"input": "double", "output": "double",
				"fcns": {"geo.half": {"params": [{"x": "double"}], "ret": "double", "do": {"/": ["x", 2]}}},
				"action": {"u.geo.half": ["input"]}}`,
			WantAction: `"double"`,
		},
		testbuild.Doc{
			Src: `{"input": "int", "output": "int", "action": {"u.missing": ["input"]}}`,
			Err: `unknown user function "u.missing"`,
		},
	)
}

func TestBuildExprs(t *testing.T) {
	testbuild.Run(t,
		testbuild.Expr{
			Src:  `{"+": [1, 2]}`,
			Want: `"int"`,
		},
		testbuild.Expr{
			Src:  `{"+": ["x", 2.5]}`,
			Syms: []builder.Symbol{{Name: "x", Type: `"long"`}},
			Want: `"double"`,
		},
		testbuild.Expr{
			Src: `{"a.len": ["xs"]}`,
			Syms: []builder.Symbol{
				{Name: "xs", Type: `{"type": "array", "items": "string"}`},
			},
			Want: `"int"`,
		},
		testbuild.Expr{
			Src:  `{"s.concat": ["s", ["!"]]}`,
			Syms: []builder.Symbol{{Name: "s", Type: "string"}},
			Want: `"string"`,
		},
		testbuild.Expr{
			Src: `{"attr": "p", "path": [["x"]]}`,
			Syms: []builder.Symbol{
				{Name: "p", Type: `{"type": "record", "name": "P", "fields": [{"name": "x", "type": "float"}]}`},
			},
			Want: `"float"`,
		},
		testbuild.Expr{
			Src:  "m.sqrt: [1e400]",
			Want: `"double"`,
		},
		testbuild.Expr{
			Src: `{"+": ["x", 1]}`,
			Err: `unknown symbol "x"`,
		},
		testbuild.Expr{
			Src:  `{"s.len": ["x"]}`,
			Syms: []builder.Symbol{{Name: "x", Type: `"int"`}},
			Err:  "no signature of s.len",
		},
		testbuild.Expr{
			Src:  `"x"`,
			Syms: []builder.Symbol{{Name: "x", Type: `"Unknown"`}},
			Err:  `type name "Unknown" is not defined`,
		},
	)
}

func versionedRegistry(t *testing.T) *stdlib.Registry {
	eval := func(args []any) (any, error) { return args[0], nil }
	reg, err := stdlib.New(&builtin.Package{
		Prefix: "t.",
		Funcs: []*builtin.Func{
			builtin.Define("t.old", "Removed in 0.8.", eval,
				sig.New(sig.Int(), sig.P("x", sig.Int())).WithLife(sig.Lifespan{Death: "0.8.0"})),
			builtin.Define("t.new", "Added in 0.8.", eval,
				sig.New(sig.Int(), sig.P("x", sig.Int())).WithLife(sig.Lifespan{Birth: "0.8.0"})),
		},
	})
	require.NoError(t, err)
	return reg
}

func TestBuildVersions(t *testing.T) {
	reg := options.WithRegistry(versionedRegistry(t))
	const (
		callOld = `{"input": "int", "output": "int", "action": {"t.old": ["input"]}}`
		callNew = `{"input": "int", "output": "int", "action": {"t.new": ["input"]}}`
	)
	testbuild.Run(t,
		testbuild.Doc{
			Src:     callOld,
			Options: []options.Option{reg, options.WithVersion("0.7.0")},
		},
		testbuild.Doc{
			Src:     callOld,
			Options: []options.Option{reg},
			Err:     `function "t.old" does not exist in PFA v0.8.1`,
		},
		testbuild.Doc{
			Src:     callNew,
			Options: []options.Option{reg},
		},
		testbuild.Doc{
			Src:     callNew,
			Options: []options.Option{reg, options.WithVersion("v0.7.2")},
			Err:     `function "t.new" does not exist in PFA v0.7.2`,
		},
		testbuild.Doc{
			Src:     `{"input": "double", "output": "double", "action": {"m.sqrt": ["input"]}}`,
			Options: []options.Option{reg},
			Err:     `unknown function "m.sqrt"`,
		},
	)
}

func TestBuildErrorKinds(t *testing.T) {
	_, err := builder.Build([]byte(`{"input": "int", "output": "int", "action": {"if": true, "foo": 1}}`))
	require.Error(t, err)
	require.True(t, fmterr.IsSyntax(err), "%v is not a syntax error", err)

	_, err = builder.Build([]byte(`{"input": "int", "output": "string", "action": "input"}`))
	require.Error(t, err)
	require.True(t, fmterr.IsSemantic(err), "%v is not a semantic error", err)

	_, err = builder.Build([]byte(`{"input": "int"`), options.WithFormat(jsontree.JSON))
	require.Error(t, err)
	require.True(t, fmterr.IsSyntax(err), "%v is not a syntax error", err)
}

func TestBuildEngine(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	src := `{
		"name": "points",
		"input": {"type": "record", "name": "Point", "namespace": "geo", "fields": [
			{"name": "x", "type": "double"},
			{"name": "y", "type": "double"}
		]},
		"output": "double",
		"fcns": {"norm": {"params": [{"p": "geo.Point"}], "ret": "double",
			"do": {"m.hypot": [{"attr": "p", "path": [["x"]]}, {"attr": "p", "path": [["y"]]}]}}},
		"action": {"u.norm": ["input"]}
	}`
	eng, err := builder.Build([]byte(src), options.WithLogger(zap.New(core)))
	require.NoError(t, err)
	require.Equal(t, "points", eng.Config.Name)
	require.Len(t, eng.Named, 1)
	require.Equal(t, "geo.Point", eng.Named[0].FullName())
	_, ok := eng.Info.Fcns.Load("u.norm")
	require.True(t, ok, "u.norm missing from the checker results")

	var messages []string
	for _, entry := range logs.All() {
		messages = append(messages, entry.Message)
	}
	require.Equal(t, []string{"document loaded", "document read", "engine checked", "document checked"}, messages)
}

func TestBuildTree(t *testing.T) {
	tree := jsontree.NewObject().
		Set("input", "string").
		Set("output", "int").
		Set("action", jsontree.NewObject().Set("s.len", []any{"input"}))
	eng, err := builder.BuildTree(tree)
	require.NoError(t, err)
	require.Equal(t, `"int"`, eng.Config.Output.Type().String())
}

func TestInvalidOptions(t *testing.T) {
	_, err := builder.Build([]byte(`{}`), options.WithCallCache(-1))
	require.Error(t, err)
	_, _, err = builder.BuildExpr([]byte(`1`), nil, options.WithRegistry(nil))
	require.Error(t, err)
}
