// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package sexp

import "strings"

// Formatter pretty prints S-Expressions, aiming to fit its output within a
// given width.  A list which does not fit on the current line is split such
// that its head stays on the current line and each remaining element starts
// an indented line of its own:
//
//	(head child1
//	   child2
//	   ...
//	   childn)
//
// Symbols and arrays are never split, hence may exceed the width.
type Formatter struct {
	// Maximum desired width
	maxWidth uint
}

// NewFormatter constructs a new formatter which aims to fit its output within a
// given width.
func NewFormatter(width uint) *Formatter {
	return &Formatter{width}
}

// Format a given S-Expression, producing one or more lines each terminated by
// a newline.
func (p *Formatter) Format(sexp SExp) string {
	var text formattedText
	//
	p.format(sexp, &text)
	//
	return text.String()
}

func (p *Formatter) format(sexp SExp, text *formattedText) {
	var (
		str  = sexp.String()
		list = sexp.AsList()
	)
	// Check whether splitting is possible (or needed)
	if list == nil || list.Len() <= 2 || text.LineWidth()+uint(len(str)) <= p.maxWidth {
		text.WriteString(str)
		return
	}
	//
	text.WriteString("(")
	p.format(list.Get(0), text)
	text.WriteString(" ")
	p.format(list.Get(1), text)
	text.Indent(1)
	//
	for _, element := range list.Elements[2:] {
		text.NewLine()
		p.format(element, text)
	}
	//
	text.Indent(-1)
	text.WriteString(")")
}

// formattedText is a block of lines under construction, where new lines start
// at the current indent level.
type formattedText struct {
	// Current indent level
	indent int
	// Lines being written
	lines []string
}

func (p *formattedText) String() string {
	var builder strings.Builder
	//
	for _, l := range p.lines {
		builder.WriteString(l)
		builder.WriteString("\n")
	}
	//
	return builder.String()
}

// Indent increases or decreases the current indent level.
func (p *formattedText) Indent(delta int) {
	p.indent += delta
}

// NewLine starts a new line at the current indent level.
func (p *formattedText) NewLine() {
	p.lines = append(p.lines, strings.Repeat("   ", p.indent))
}

// LineWidth returns the width of the current line.
func (p *formattedText) LineWidth() uint {
	if n := len(p.lines); n > 0 {
		return uint(len(p.lines[n-1]))
	}
	//
	return 0
}

// WriteString writes a string onto the end of the current line.
func (p *formattedText) WriteString(str string) {
	if n := len(p.lines); n == 0 {
		p.lines = append(p.lines, str)
	} else {
		p.lines[n-1] += str
	}
}
