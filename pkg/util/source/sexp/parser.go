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
	"unicode"

	"github.com/consensys/go-airscript/pkg/util/source"
)

// ParseAll parses every term in a given source file, along with a source map
// from each term (at any depth) to its span in the file.  Parsing stops at the
// first malformed term.
func ParseAll(srcfile *source.File) ([]SExp, *source.Map[SExp], *source.SyntaxError) {
	var (
		p     = NewParser(srcfile)
		terms []SExp
	)
	//
	for {
		term, err := p.Parse()
		if err != nil || term == nil {
			return terms, p.srcmap, err
		}
		//
		terms = append(terms, term)
	}
}

// Parser reads successive terms from a source file.  Comments start with ';'
// and run to the end of the line.
type Parser struct {
	srcfile *source.File
	text    []rune
	// Position of the next rune to read.
	index  int
	srcmap *source.Map[SExp]
}

// NewParser constructs a parser positioned at the start of a given file.
func NewParser(srcfile *source.File) *Parser {
	return &Parser{srcfile, srcfile.Contents(), 0, source.NewSourceMap[SExp](srcfile)}
}

// SourceMap returns the spans of all terms parsed so far.
func (p *Parser) SourceMap() *source.Map[SExp] {
	return p.srcmap
}

// An open list or array whose closing delimiter has not yet been read.
type frame struct {
	start    int
	close    rune
	elements []SExp
}

// Parse reads the next term, or returns nil at the end of the file.  Nested
// sequences are tracked on an explicit stack, hence deeply nested input cannot
// exhaust the call stack.
func (p *Parser) Parse() (SExp, *source.SyntaxError) {
	var stack []frame
	//
	for {
		p.skipWhiteSpace()
		//
		if p.index == len(p.text) {
			if len(stack) == 0 {
				return nil, nil
			}
			//
			return nil, p.error("unexpected end-of-file")
		}
		//
		var (
			term  SExp
			start = p.index
			c     = p.text[p.index]
		)
		//
		switch c {
		case '(', '[':
			p.index++
			stack = append(stack, frame{start, closing(c), nil})
			//
			continue
		case ')', ']':
			n := len(stack) - 1
			if n < 0 || stack[n].close != c {
				return nil, p.error("unexpected end-of-sequence")
			}
			//
			p.index++
			start = stack[n].start
			term = sequence(c, stack[n].elements)
			stack = stack[:n]
		default:
			term = &Symbol{p.parseSymbol()}
		}
		//
		p.srcmap.Put(term, source.NewSpan(start, p.index))
		//
		if len(stack) == 0 {
			return term, nil
		}
		//
		top := &stack[len(stack)-1]
		top.elements = append(top.elements, term)
	}
}

func closing(open rune) rune {
	if open == '(' {
		return ')'
	}
	//
	return ']'
}

func sequence(close rune, elements []SExp) SExp {
	if close == ')' {
		return &List{elements}
	}
	//
	return &Array{elements}
}

// Skip whitespace and comments.
func (p *Parser) skipWhiteSpace() {
	for p.index < len(p.text) {
		switch c := p.text[p.index]; {
		case c == ';':
			for p.index < len(p.text) && p.text[p.index] != '\n' {
				p.index++
			}
		case unicode.IsSpace(c):
			p.index++
		default:
			return
		}
	}
}

// Read a symbol, which runs until whitespace, a comment or a delimiter.
func (p *Parser) parseSymbol() string {
	start := p.index
	//
	for ; p.index < len(p.text); p.index++ {
		if c := p.text[p.index]; c == '(' || c == ')' || c == '[' || c == ']' || c == ';' || unicode.IsSpace(c) {
			return string(p.text[start:p.index])
		}
	}
	//
	return string(p.text[start:])
}

// Construct an error at the current position.
func (p *Parser) error(msg string) *source.SyntaxError {
	end := min(p.index+1, len(p.text))
	return p.srcfile.SyntaxError(source.NewSpan(p.index, end), msg)
}
