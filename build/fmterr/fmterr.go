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

// Package fmterr provides helpers to build errors located in a PFA document
// and to accumulate errors while reading or checking a document.
package fmterr

import (
	"fmt"
	"strings"
)

// Pos locates a node in a PFA document.
type Pos struct {
	// Path is the JSON path from the root of the document, for example
	// action.3.then.1.
	Path string
	// At is a source position tag, either given by an "@" key in the
	// document or computed by the loader.
	At string
}

// Dot returns the position of a child of the node.
// The source tag is not inherited: children carry their own.
func (p Pos) Dot(key any) Pos {
	seg := fmt.Sprint(key)
	if p.Path == "" {
		return Pos{Path: seg}
	}
	return Pos{Path: p.Path + "." + seg}
}

// WithAt returns the position with a source tag.
// An empty tag keeps the current one.
func (p Pos) WithAt(at string) Pos {
	if at == "" {
		return p
	}
	p.At = at
	return p
}

// IsZero returns true if the position carries no information.
func (p Pos) IsZero() bool {
	return p.Path == "" && p.At == ""
}

// String returns the position as displayed in error messages.
func (p Pos) String() string {
	var b strings.Builder
	if p.Path != "" {
		b.WriteString(p.Path)
	}
	if p.At != "" {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString("(")
		b.WriteString(p.At)
		b.WriteString(")")
	}
	return b.String()
}
