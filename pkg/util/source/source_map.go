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
)

// Span identifies a contiguous region of a source file by its physical (rune)
// offsets, rather than by its text.  This allows the enclosing line (amongst
// other things) to be recovered when reporting errors.
type Span struct {
	// Offset of the first rune covered.
	start int
	// Offset one past the last rune covered.
	end int
}

// NewSpan constructs a span covering the runes from start (inclusive) to end
// (exclusive).
func NewSpan(start int, end int) Span {
	if start > end {
		panic(fmt.Sprintf("invalid span %d:%d", start, end))
	}

	return Span{start, end}
}

// Start returns the offset of the first rune covered by this span.
func (p Span) Start() int {
	return p.start
}

// End returns the offset one past the last rune covered by this span.
func (p Span) End() int {
	return p.end
}

// Length returns the number of runes covered by this span.
func (p Span) Length() int {
	return p.end - p.start
}

// Contains checks whether a given offset falls within this span.
func (p Span) Contains(offset int) bool {
	return p.start <= offset && offset < p.end
}

// Map associates the items of some tree (e.g. S-expressions or AST nodes)
// with the spans of the source file they originated from.  Items are compared
// by identity, hence pointer types are expected.
type Map[T comparable] struct {
	srcfile *File
	spans   map[T]Span
}

// NewSourceMap constructs an empty source map over a given file.
func NewSourceMap[T comparable](srcfile *File) *Map[T] {
	return &Map[T]{srcfile, make(map[T]Span)}
}

// Source returns the file this map refers into.
func (p *Map[T]) Source() *File {
	return p.srcfile
}

// Put associates an item with a span.  Each item can be associated at most
// once, and any attempt to reassociate an item panics.
func (p *Map[T]) Put(item T, span Span) {
	if _, ok := p.spans[item]; ok {
		panic(fmt.Sprintf("item already mapped: %v", any(item)))
	}
	//
	p.spans[item] = span
}

// Has checks whether an item has an associated span.
func (p *Map[T]) Has(item T) bool {
	_, ok := p.spans[item]
	return ok
}

// Get returns the span associated with an item, and panics if there is none.
func (p *Map[T]) Get(item T) Span {
	span, ok := p.spans[item]
	if !ok {
		panic(fmt.Sprintf("item not mapped: %v", any(item)))
	}
	//
	return span
}

// SyntaxError constructs an error reported against the span of a given item.
// An item without a span is reported against the whole file.
func (p *Map[T]) SyntaxError(item T, msg string) *SyntaxError {
	span, ok := p.spans[item]
	if !ok {
		span = NewSpan(0, len(p.srcfile.contents))
	}
	//
	return p.srcfile.SyntaxError(span, msg)
}
