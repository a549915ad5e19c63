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

package jsontree

import (
	"bytes"
	"encoding/json"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Format of a document text.
type Format int

const (
	// Auto detects the format: texts starting with '{', '[', '"' or a
	// number are JSON.
	Auto Format = iota
	// JSON text.
	JSON
	// YAML text.
	YAML
)

// String returns the name of the format.
func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case YAML:
		return "yaml"
	default:
		return "auto"
	}
}

// Parse a document text, detecting its format.
func Parse(src []byte) (any, error) {
	return ParseFormat(src, Auto)
}

// ParseString parses a document given as a string, detecting its format.
func ParseString(src string) (any, error) {
	return ParseFormat([]byte(src), Auto)
}

// ParseFormat parses a document text given its format.
func ParseFormat(src []byte, format Format) (any, error) {
	if format == Auto {
		format = detect(src)
	}
	switch format {
	case JSON:
		return parseJSON(src)
	case YAML:
		return parseYAML(src)
	}
	return nil, errors.Errorf("unknown document format %d", format)
}

func detect(src []byte) Format {
	trimmed := bytes.TrimLeft(src, " \t\r\n")
	if len(trimmed) == 0 {
		return JSON
	}
	switch c := trimmed[0]; {
	case c == '{', c == '[', c == '"', isDigit(c):
		return JSON
	case c == '-' && len(trimmed) > 1 && isDigit(trimmed[1]):
		return JSON
	}
	return YAML
}

// lines maps byte offsets to line and column numbers.
type lines []int

func newLines(src []byte) lines {
	starts := lines{0}
	for i, c := range src {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func (ls lines) position(offset int) (line, column int) {
	i := sort.Search(len(ls), func(i int) bool { return ls[i] > offset }) - 1
	return i + 1, offset - ls[i] + 1
}

type jsonParser struct {
	src   []byte
	lines lines
	dec   *json.Decoder
}

func parseJSON(src []byte) (any, error) {
	p := &jsonParser{
		src:   src,
		lines: newLines(src),
		dec:   json.NewDecoder(bytes.NewReader(src)),
	}
	p.dec.UseNumber()
	v, err := p.value()
	if err != nil {
		return nil, err
	}
	if _, err := p.dec.Token(); err != io.EOF {
		return nil, errors.Errorf("invalid JSON document: unexpected data after the top-level value")
	}
	return v, nil
}

// tokenStart returns the offset of the next token.
func (p *jsonParser) tokenStart() int {
	off := int(p.dec.InputOffset())
	for off < len(p.src) && strings.IndexByte(" \t\r\n,:", p.src[off]) >= 0 {
		off++
	}
	return off
}

func (p *jsonParser) value() (any, error) {
	start := p.tokenStart()
	tok, err := p.dec.Token()
	if err != nil {
		return nil, errors.Wrapf(err, "invalid JSON document")
	}
	switch tokT := tok.(type) {
	case json.Delim:
		switch tokT {
		case '{':
			return p.object(start)
		case '[':
			return p.array()
		}
		return nil, errors.Errorf("invalid JSON document: unexpected delimiter %s", tokT)
	case json.Number:
		return Number(tokT), nil
	case string, bool, nil:
		return tokT, nil
	}
	return nil, errors.Errorf("invalid JSON document: unexpected token %v", tok)
}

func (p *jsonParser) object(start int) (*Object, error) {
	obj := NewObject()
	obj.Line, obj.Column = p.lines.position(start)
	for p.dec.More() {
		keyTok, err := p.dec.Token()
		if err != nil {
			return nil, errors.Wrapf(err, "invalid JSON document")
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, errors.Errorf("invalid JSON document: object key %v is not a string", keyTok)
		}
		if obj.Has(key) {
			line, col := p.lines.position(start)
			return nil, errors.Errorf("invalid JSON document: duplicate key %q in object at line %d, column %d", key, line, col)
		}
		val, err := p.value()
		if err != nil {
			return nil, err
		}
		obj.Set(key, val)
	}
	if _, err := p.dec.Token(); err != nil {
		return nil, errors.Wrapf(err, "invalid JSON document")
	}
	return obj, nil
}

func (p *jsonParser) array() ([]any, error) {
	arr := []any{}
	for p.dec.More() {
		val, err := p.value()
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)
	}
	if _, err := p.dec.Token(); err != nil {
		return nil, errors.Wrapf(err, "invalid JSON document")
	}
	return arr, nil
}

func parseYAML(src []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(src, &root); err != nil {
		return nil, errors.Wrapf(err, "invalid YAML document")
	}
	if root.Kind == 0 {
		return nil, nil
	}
	return fromYAML(&root)
}

func fromYAML(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromYAML(n.Content[0])
	case yaml.AliasNode:
		return fromYAML(n.Alias)
	case yaml.SequenceNode:
		arr := make([]any, len(n.Content))
		for i, el := range n.Content {
			v, err := fromYAML(el)
			if err != nil {
				return nil, err
			}
			arr[i] = v
		}
		return arr, nil
	case yaml.MappingNode:
		obj := NewObject()
		obj.Line, obj.Column = n.Line, n.Column
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valNode := n.Content[i], n.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, errors.Errorf("invalid YAML document: line %d, column %d: object keys must be scalars", keyNode.Line, keyNode.Column)
			}
			if obj.Has(keyNode.Value) {
				return nil, errors.Errorf("invalid YAML document: line %d, column %d: duplicate key %q", keyNode.Line, keyNode.Column, keyNode.Value)
			}
			v, err := fromYAML(valNode)
			if err != nil {
				return nil, err
			}
			obj.Set(keyNode.Value, v)
		}
		return obj, nil
	case yaml.ScalarNode:
		return fromYAMLScalar(n)
	}
	return nil, errors.Errorf("invalid YAML document: line %d, column %d: unsupported node kind %d", n.Line, n.Column, n.Kind)
}

func fromYAMLScalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, errors.Wrapf(err, "invalid YAML document: line %d, column %d", n.Line, n.Column)
		}
		return b, nil
	case "!!int":
		if Number(n.Value).IsInteger() && isDecimal(n.Value) {
			return Number(n.Value), nil
		}
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, errors.Wrapf(err, "invalid YAML document: line %d, column %d", n.Line, n.Column)
		}
		return FromGo(i), nil
	case "!!float":
		switch strings.ToLower(n.Value) {
		case ".inf", "+.inf":
			return Number("+Inf"), nil
		case "-.inf":
			return Number("-Inf"), nil
		case ".nan":
			return Number("NaN"), nil
		}
		return Number(n.Value), nil
	case "!!str":
		// yaml.v3 resolves plain numbers out of the float64 range as strings.
		if n.Style == 0 && jsonNumber.MatchString(n.Value) {
			return Number(n.Value), nil
		}
	}
	return n.Value, nil
}

var jsonNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isDecimal(s string) bool {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "-"), "+")
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
