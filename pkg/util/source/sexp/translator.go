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
	"github.com/consensys/go-airscript/pkg/util/source"
)

// SymbolRule is responsible for converting a terminating expression (i.e. a
// symbol) into an item of type T.  For example, a number or a column access.
// A rule which does not apply to the given symbol returns false.
type SymbolRule[T comparable] func(string) (T, bool, error)

// ListRule is responsible for converting a list with a given head into an item
// of type T.  The rule is responsible for translating any arguments.
type ListRule[T comparable] func(*List) (T, []source.SyntaxError)

// ArrayRule is responsible for converting an array into an item of type T.
type ArrayRule[T comparable] func(*Array) (T, []source.SyntaxError)

// RecursiveRule is a wrapper for translating lists whose arguments are built by
// recursively reusing the enclosing translator.  The rule is given the head of
// the list and its (already translated) arguments.
type RecursiveRule[T comparable] func(string, []T) (T, error)

// Translator is a generic mechanism for translating S-Expressions into a
// structured form.  As translation proceeds, a source map is constructed from
// translated items to the spans of the S-Expressions they originated from.
type Translator[T comparable] struct {
	// Rules for translating lists, indexed by head
	lists map[string]ListRule[T]
	// Rule for translating arrays
	array ArrayRule[T]
	// Rules for translating symbols, tried in order
	symbols []SymbolRule[T]
	// Maps S-Expressions to their spans in the original source file.
	oldSrcmap *source.Map[SExp]
	// Maps translated items to their spans in the original source file.
	newSrcmap *source.Map[T]
}

// NewTranslator constructs a new Translator instance for S-Expressions parsed
// with a given source map.
func NewTranslator[T comparable](srcmap *source.Map[SExp]) *Translator[T] {
	return &Translator[T]{
		lists:     make(map[string]ListRule[T]),
		oldSrcmap: srcmap,
		newSrcmap: source.NewSourceMap[T](srcmap.Source()),
	}
}

// SourceMap returns the source map maintained for items constructed by this
// translator.
func (p *Translator[T]) SourceMap() *source.Map[T] {
	return p.newSrcmap
}

// SpanOf gets the span associated with a given S-Expression in the original
// source file.
func (p *Translator[T]) SpanOf(sexp SExp) source.Span {
	return p.oldSrcmap.Get(sexp)
}

// Map records that a given item originated from a given S-Expression.  Items
// returned by Translate are mapped automatically.
func (p *Translator[T]) Map(item T, sexp SExp) {
	if !p.newSrcmap.Has(item) {
		p.newSrcmap.Put(item, p.oldSrcmap.Get(sexp))
	}
}

// Translate a given S-Expression into the structured representation T.
func (p *Translator[T]) Translate(sexp SExp) (T, []source.SyntaxError) {
	var (
		empty  T
		item   T
		errors []source.SyntaxError
	)
	//
	switch e := sexp.(type) {
	case *List:
		if rule, ok := p.lists[e.Head()]; ok {
			item, errors = rule(e)
		} else {
			return empty, p.SyntaxErrors(e, "unknown list encountered")
		}
	case *Array:
		if p.array == nil {
			return empty, p.SyntaxErrors(e, "unexpected array")
		}
		//
		item, errors = p.array(e)
	case *Symbol:
		var found bool
		//
		item, found, errors = p.translateSymbol(e)
		if !found {
			return empty, p.SyntaxErrors(e, "unknown symbol encountered")
		}
	}
	//
	if len(errors) > 0 {
		return empty, errors
	}
	//
	p.Map(item, sexp)
	//
	return item, nil
}

// AddListRule adds a raw list rule to this translator.
func (p *Translator[T]) AddListRule(name string, rule ListRule[T]) {
	p.lists[name] = rule
}

// AddRecursiveListRule adds a list rule whose arguments are translated
// recursively before the rule itself is applied.
func (p *Translator[T]) AddRecursiveListRule(name string, rule RecursiveRule[T]) {
	p.lists[name] = func(l *List) (T, []source.SyntaxError) {
		var (
			empty  T
			errors []source.SyntaxError
			args   = make([]T, len(l.Elements)-1)
		)
		//
		for i, s := range l.Elements[1:] {
			var errs []source.SyntaxError
			args[i], errs = p.Translate(s)
			errors = append(errors, errs...)
		}
		//
		if len(errors) > 0 {
			return empty, errors
		}
		//
		item, err := rule(name, args)
		if err != nil {
			return empty, p.SyntaxErrors(l, err.Error())
		}
		//
		return item, nil
	}
}

// SetArrayRule sets the rule used for translating arrays.
func (p *Translator[T]) SetArrayRule(rule ArrayRule[T]) {
	p.array = rule
}

// AddSymbolRule adds a new symbol rule to this translator.
func (p *Translator[T]) AddSymbolRule(rule SymbolRule[T]) {
	p.symbols = append(p.symbols, rule)
}

// SyntaxError constructs a suitable syntax error for a given S-Expression.
func (p *Translator[T]) SyntaxError(s SExp, msg string) *source.SyntaxError {
	return p.oldSrcmap.SyntaxError(s, msg)
}

// SyntaxErrors constructs a suitable syntax error for a given S-Expression,
// wrapped in an array.
func (p *Translator[T]) SyntaxErrors(s SExp, msg string) []source.SyntaxError {
	return []source.SyntaxError{*p.SyntaxError(s, msg)}
}

func (p *Translator[T]) translateSymbol(s *Symbol) (T, bool, []source.SyntaxError) {
	var empty T
	//
	for _, rule := range p.symbols {
		item, ok, err := rule(s.Value)
		if ok && err != nil {
			return empty, true, p.SyntaxErrors(s, err.Error())
		} else if ok {
			return item, true, nil
		}
	}
	//
	return empty, false, nil
}
