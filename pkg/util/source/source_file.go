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
package source

import (
	"fmt"
	"os"
	"sort"
)

// ReadFiles reads a given set of source files, or produces an error.
func ReadFiles(filenames ...string) ([]File, error) {
	files := make([]File, len(filenames))
	//
	for i, n := range filenames {
		bytes, err := os.ReadFile(n)
		if err != nil {
			return nil, err
		}
		//
		files[i] = *NewSourceFile(n, bytes)
	}
	//
	return files, nil
}

// Line is a single physical line of a source file, excluding its terminating
// newline.
type Line struct {
	text   []rune
	span   Span
	number int
}

func (p *Line) String() string {
	return string(p.text[p.span.start:p.span.end])
}

// Number returns the line number, counting from 1.
func (p *Line) Number() int {
	return p.number
}

// Start returns the offset of the first rune of this line within its file.
func (p *Line) Start() int {
	return p.span.start
}

// Length returns the number of runes on this line.
func (p *Line) Length() int {
	return p.span.Length()
}

// File is a named source text, held as runes so that spans index characters
// rather than bytes.
type File struct {
	filename string
	contents []rune
	// Offset at which each line starts, in ascending order.
	lines []int
}

// NewSourceFile constructs a source file with the given name and contents.
func NewSourceFile(filename string, bytes []byte) *File {
	contents := []rune(string(bytes))
	lines := []int{0}
	//
	for i, c := range contents {
		if c == '\n' {
			lines = append(lines, i+1)
		}
	}
	//
	return &File{filename, contents, lines}
}

// Filename returns the name of this source file.
func (s *File) Filename() string {
	return s.filename
}

// Contents returns the text of this source file.
func (s *File) Contents() []rune {
	return s.contents
}

// SyntaxError constructs an error reported against a given span of this file.
func (s *File) SyntaxError(span Span, msg string) *SyntaxError {
	return &SyntaxError{s, span, msg}
}

// LineOf returns the line enclosing a given offset.  An offset beyond the end
// of the file (e.g. for an unexpected end-of-file) gives the last line.
func (s *File) LineOf(offset int) Line {
	// Index of the last line starting at or before offset
	n := sort.Search(len(s.lines), func(i int) bool { return s.lines[i] > offset }) - 1
	n = max(0, n)
	//
	end := len(s.contents)
	if n+1 < len(s.lines) {
		// Exclude the newline
		end = s.lines[n+1] - 1
	}
	//
	return Line{s.contents, Span{s.lines[n], end}, n + 1}
}

// SyntaxError is an error reported against a span of a source file, such as
// a malformed term or an undeclared identifier.
type SyntaxError struct {
	srcfile *File
	span    Span
	msg     string
}

// SourceFile returns the file this error was reported against.
func (p *SyntaxError) SourceFile() *File {
	return p.srcfile
}

// Span returns the span this error was reported against.
func (p *SyntaxError) Span() Span {
	return p.span
}

// Message returns the message of this error, without location information.
func (p *SyntaxError) Message() string {
	return p.msg
}

// Error implements the error interface.
func (p *SyntaxError) Error() string {
	line := p.FirstEnclosingLine()
	return fmt.Sprintf("%s:%d: %s", p.srcfile.filename, line.Number(), p.msg)
}

// FirstEnclosingLine returns the line on which this error's span starts.  A
// span can cross several lines, in which case only the first is returned.
func (p *SyntaxError) FirstEnclosingLine() Line {
	return p.srcfile.LineOf(p.span.start)
}
