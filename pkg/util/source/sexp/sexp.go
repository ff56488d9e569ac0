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

import (
	"strings"
)

// SExp is an S-Expression, which is either a List (written with parentheses),
// an Array (written with square brackets) or a Symbol.
type SExp interface {
	// AsList returns this term if it is a list, or nil otherwise.
	AsList() *List
	// AsArray returns this term if it is an array, or nil otherwise.
	AsArray() *Array
	// AsSymbol returns this term if it is a symbol, or nil otherwise.
	AsSymbol() *Symbol
	// String returns this term on a single line.
	String() string
	// Write this term on a single line.
	writeTo(builder *strings.Builder)
}

// List is a parenthesised sequence of zero or more terms.
type List struct {
	Elements []SExp
}

// NewList constructs a list of the given terms.
func NewList(elements ...SExp) *List {
	return &List{elements}
}

// AsList returns the list itself.
func (l *List) AsList() *List { return l }

// AsArray returns nil.
func (l *List) AsArray() *Array { return nil }

// AsSymbol returns nil.
func (l *List) AsSymbol() *Symbol { return nil }

// Len returns the number of terms in this list.
func (l *List) Len() int { return len(l.Elements) }

// Get returns the ith term in this list.
func (l *List) Get(i int) SExp { return l.Elements[i] }

// Head returns the symbol at the start of this list.  If the list is empty, or
// starts with something other than a symbol, then "" is returned.
func (l *List) Head() string {
	if len(l.Elements) == 0 {
		return ""
	} else if s := l.Elements[0].AsSymbol(); s != nil {
		return s.Value
	}
	//
	return ""
}

func (l *List) String() string {
	return toString(l)
}

func (l *List) writeTo(builder *strings.Builder) {
	writeSequence(builder, '(', l.Elements, ')')
}

// Array is a bracketed sequence of zero or more terms.
type Array struct {
	Elements []SExp
}

// NewArray constructs an array of the given terms.
func NewArray(elements ...SExp) *Array {
	return &Array{elements}
}

// AsList returns nil.
func (a *Array) AsList() *List { return nil }

// AsArray returns the array itself.
func (a *Array) AsArray() *Array { return a }

// AsSymbol returns nil.
func (a *Array) AsSymbol() *Symbol { return nil }

// Len returns the number of terms in this array.
func (a *Array) Len() int { return len(a.Elements) }

// Get returns the ith term in this array.
func (a *Array) Get(i int) SExp { return a.Elements[i] }

func (a *Array) String() string {
	return toString(a)
}

func (a *Array) writeTo(builder *strings.Builder) {
	writeSequence(builder, '[', a.Elements, ']')
}

// Symbol is an atomic term, such as a name or a number.
type Symbol struct {
	Value string
}

// NewSymbol constructs a symbol with the given text.
func NewSymbol(value string) *Symbol {
	return &Symbol{value}
}

// AsList returns nil.
func (s *Symbol) AsList() *List { return nil }

// AsArray returns nil.
func (s *Symbol) AsArray() *Array { return nil }

// AsSymbol returns the symbol itself.
func (s *Symbol) AsSymbol() *Symbol { return s }

func (s *Symbol) String() string {
	return s.Value
}

func (s *Symbol) writeTo(builder *strings.Builder) {
	builder.WriteString(s.Value)
}

func toString(term SExp) string {
	var builder strings.Builder
	//
	term.writeTo(&builder)
	//
	return builder.String()
}

func writeSequence(builder *strings.Builder, open rune, elements []SExp, close rune) {
	builder.WriteRune(open)
	//
	for i, e := range elements {
		if i != 0 {
			builder.WriteRune(' ')
		}
		//
		e.writeTo(builder)
	}
	//
	builder.WriteRune(close)
}
