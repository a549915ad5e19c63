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

// Package fmt formats document sources and messages for diagnostics.
package fmt

import (
	"fmt"
	"strconv"
	"strings"
)

// Number prefixes every line of a document with its line number, starting
// at 1, so that line and column positions in errors can be read against it.
// Numbers are padded to the width of the last one.
func Number(src string) string {
	lines := strings.SplitAfter(src, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	width := len(strconv.Itoa(len(lines)))
	var s strings.Builder
	for i, line := range lines {
		fmt.Fprintf(&s, "%0*d %s", width, i+1, line)
	}
	return s.String()
}

// Indent prefixes every non-empty line of a message with a tabulation.
func Indent(msg string) string {
	var s strings.Builder
	for line := range strings.Lines(msg) {
		if strings.TrimSpace(line) != "" {
			s.WriteString("\t")
		}
		s.WriteString(line)
	}
	return s.String()
}
