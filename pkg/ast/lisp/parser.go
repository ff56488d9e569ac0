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
package lisp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/consensys/go-airscript/pkg/ast"
	"github.com/consensys/go-airscript/pkg/util/source"
	"github.com/consensys/go-airscript/pkg/util/source/sexp"
)

// ParseSourceFile parses a given source file into an AIR description.  Along
// with the description, a source map is returned which maps every node of the
// description back to its span in the file.  Parsing continues past a
// malformed section, such that all syntax errors in the file are reported.
func ParseSourceFile(srcfile *source.File) (*ast.Source, *source.Map[ast.Node], []source.SyntaxError) {
	terms, srcmap, err := sexp.ParseAll(srcfile)
	if err != nil {
		return nil, nil, []source.SyntaxError{*err}
	}
	//
	var (
		p        = newParser(srcmap)
		src      = ast.NewSource()
		errors   []source.SyntaxError
		sections []ast.Section
	)
	//
	for _, term := range terms {
		section, errs := p.translateSection(term)
		//
		if len(errs) > 0 {
			errors = append(errors, errs...)
		} else {
			sections = append(sections, section)
		}
	}
	//
	if len(errors) > 0 {
		return nil, nil, errors
	}
	//
	src.Sections = sections
	//
	return src, p.translator.SourceMap(), nil
}

// ParseString parses a given string into an AIR description.  This is a
// convenience for when no source map is required.
func ParseString(text string) (*ast.Source, error) {
	src, _, errs := ParseSourceFile(source.NewSourceFile("", []byte(text)))
	//
	if len(errs) > 0 {
		return nil, &errs[0]
	}
	//
	return src, nil
}

type parser struct {
	translator *sexp.Translator[ast.Node]
}

func newParser(srcmap *source.Map[sexp.SExp]) *parser {
	p := &parser{sexp.NewTranslator[ast.Node](srcmap)}
	// Sections
	p.translator.AddListRule("air", p.translateAirDef)
	p.translator.AddListRule("trace-columns", p.translateTraceColumns)
	p.translator.AddListRule("public-inputs", p.translatePublicInputs)
	p.translator.AddListRule("periodic-columns", p.translatePeriodicColumns)
	p.translator.AddListRule("boundary-constraints", p.translateBoundaryConstraints)
	p.translator.AddListRule("transition-constraints", p.translateTransitionConstraints)
	// Expressions
	p.translator.AddRecursiveListRule("+", naryRule)
	p.translator.AddRecursiveListRule("-", naryRule)
	p.translator.AddRecursiveListRule("*", naryRule)
	p.translator.AddRecursiveListRule("^", expRule)
	p.translator.SetArrayRule(p.translateElement)
	p.translator.AddSymbolRule(constantRule)
	p.translator.AddSymbolRule(variableRule)
	//
	return p
}

func (p *parser) translateSection(term sexp.SExp) (ast.Section, []source.SyntaxError) {
	if term.AsList() == nil {
		return nil, p.translator.SyntaxErrors(term, "expected section")
	}
	//
	node, errs := p.translator.Translate(term)
	if len(errs) > 0 {
		return nil, errs
	} else if section, ok := node.(ast.Section); ok {
		return section, nil
	}
	//
	return nil, p.translator.SyntaxErrors(term, "expected section")
}

func (p *parser) translateExpr(term sexp.SExp) (ast.Expr, []source.SyntaxError) {
	node, errs := p.translator.Translate(term)
	if len(errs) > 0 {
		return nil, errs
	} else if expr, ok := node.(ast.Expr); ok {
		return expr, nil
	}
	//
	return nil, p.translator.SyntaxErrors(term, "expected expression")
}

// ============================================================================
// Sections
// ============================================================================

// (air NAME)
func (p *parser) translateAirDef(l *sexp.List) (ast.Node, []source.SyntaxError) {
	if l.Len() != 2 || !isIdentifier(l.Get(1)) {
		return nil, p.translator.SyntaxErrors(l, "expected (air NAME)")
	}
	//
	return &ast.AirDef{Name: l.Get(1).AsSymbol().Value}, nil
}

// (trace-columns (main a b ...) (aux c d ...))
func (p *parser) translateTraceColumns(l *sexp.List) (ast.Node, []source.SyntaxError) {
	var (
		section ast.TraceColumns
		errors  []source.SyntaxError
	)
	//
	for _, term := range l.Elements[1:] {
		var (
			list    = term.AsList()
			columns []*ast.Identifier
		)
		//
		if list == nil || (list.Head() != "main" && list.Head() != "aux") {
			errors = append(errors, *p.translator.SyntaxError(term, "expected (main ...) or (aux ...)"))
			continue
		}
		//
		for _, col := range list.Elements[1:] {
			if !isIdentifier(col) {
				errors = append(errors, *p.translator.SyntaxError(col, "invalid column name"))
				continue
			}
			//
			id := &ast.Identifier{Name: col.AsSymbol().Value}
			p.translator.Map(id, col)
			columns = append(columns, id)
		}
		//
		if list.Head() == "main" {
			section.Main = append(section.Main, columns...)
		} else {
			section.Aux = append(section.Aux, columns...)
		}
	}
	//
	return &section, errors
}

// (public-inputs (NAME SIZE) ...)
func (p *parser) translatePublicInputs(l *sexp.List) (ast.Node, []source.SyntaxError) {
	var (
		section ast.PublicInputs
		errors  []source.SyntaxError
	)
	//
	for _, term := range l.Elements[1:] {
		list := term.AsList()
		//
		if list == nil || list.Len() != 2 || !isIdentifier(list.Get(0)) || list.Get(1).AsSymbol() == nil {
			errors = append(errors, *p.translator.SyntaxError(term, "expected (NAME SIZE)"))
			continue
		}
		//
		size, err := strconv.ParseUint(list.Get(1).AsSymbol().Value, 10, 64)
		if err != nil || size == 0 {
			errors = append(errors, *p.translator.SyntaxError(list.Get(1), "invalid public input size"))
			continue
		}
		//
		input := &ast.PublicInput{Name: list.Head(), Size: uint(size)}
		p.translator.Map(input, term)
		section.Inputs = append(section.Inputs, input)
	}
	//
	return &section, errors
}

// (periodic-columns (NAME v0 v1 ...) ...)
func (p *parser) translatePeriodicColumns(l *sexp.List) (ast.Node, []source.SyntaxError) {
	var (
		section ast.PeriodicColumns
		errors  []source.SyntaxError
	)
	//
	for _, term := range l.Elements[1:] {
		list := term.AsList()
		//
		if list == nil || list.Len() < 2 || !isIdentifier(list.Get(0)) {
			errors = append(errors, *p.translator.SyntaxError(term, "expected (NAME v0 v1 ...)"))
			continue
		}
		//
		column := &ast.PeriodicColumn{Name: list.Head()}
		//
		for _, v := range list.Elements[1:] {
			value, err := parseNumber(v)
			if err != nil {
				errors = append(errors, *p.translator.SyntaxError(v, err.Error()))
				continue
			}
			//
			column.Values = append(column.Values, value)
		}
		//
		p.translator.Map(column, term)
		section.Columns = append(section.Columns, column)
	}
	//
	return &section, errors
}

// (boundary-constraints (= (first COL) EXPR) (= (last COL) EXPR) ...)
func (p *parser) translateBoundaryConstraints(l *sexp.List) (ast.Node, []source.SyntaxError) {
	var (
		section ast.BoundaryConstraints
		errors  []source.SyntaxError
	)
	//
	if l.Len() == 1 {
		return nil, p.translator.SyntaxErrors(l, "empty boundary constraints section")
	}
	//
	for _, term := range l.Elements[1:] {
		constraint, errs := p.translateBoundaryConstraint(term)
		//
		if len(errs) > 0 {
			errors = append(errors, errs...)
		} else {
			section.Constraints = append(section.Constraints, constraint)
		}
	}
	//
	return &section, errors
}

func (p *parser) translateBoundaryConstraint(term sexp.SExp) (*ast.BoundaryConstraint, []source.SyntaxError) {
	var (
		list     = term.AsList()
		boundary ast.Boundary
	)
	//
	if list == nil || list.Len() != 3 || list.Head() != "=" || list.Get(1).AsList() == nil {
		return nil, p.translator.SyntaxErrors(term, "expected (= (first COL) EXPR) or (= (last COL) EXPR)")
	}
	//
	access := list.Get(1).AsList()
	//
	switch {
	case access.Len() != 2:
		return nil, p.translator.SyntaxErrors(access, "expected (first COL) or (last COL)")
	case access.Head() == "first":
		boundary = ast.First
	case access.Head() == "last":
		boundary = ast.Last
	default:
		return nil, p.translator.SyntaxErrors(access, "unknown boundary (expected first or last)")
	}
	//
	column, errs := p.translateExpr(access.Get(1))
	if len(errs) > 0 {
		return nil, errs
	} else if _, ok := column.(*ast.Variable); !ok {
		return nil, p.translator.SyntaxErrors(access.Get(1), "expected column")
	}
	//
	value, errs := p.translateExpr(list.Get(2))
	if len(errs) > 0 {
		return nil, errs
	}
	//
	constraint := &ast.BoundaryConstraint{Column: column.(*ast.Variable), Boundary: boundary, Value: value}
	p.translator.Map(constraint, term)
	//
	return constraint, nil
}

// (transition-constraints (= EXPR EXPR) ...)
func (p *parser) translateTransitionConstraints(l *sexp.List) (ast.Node, []source.SyntaxError) {
	var (
		section ast.TransitionConstraints
		errors  []source.SyntaxError
	)
	//
	if l.Len() == 1 {
		return nil, p.translator.SyntaxErrors(l, "empty transition constraints section")
	}
	//
	for _, term := range l.Elements[1:] {
		constraint, errs := p.translateTransitionConstraint(term)
		//
		if len(errs) > 0 {
			errors = append(errors, errs...)
		} else {
			section.Constraints = append(section.Constraints, constraint)
		}
	}
	//
	return &section, errors
}

func (p *parser) translateTransitionConstraint(term sexp.SExp) (*ast.TransitionConstraint, []source.SyntaxError) {
	list := term.AsList()
	//
	if list == nil || list.Len() != 3 || list.Head() != "=" {
		return nil, p.translator.SyntaxErrors(term, "expected (= EXPR EXPR)")
	}
	//
	lhs, errs1 := p.translateExpr(list.Get(1))
	rhs, errs2 := p.translateExpr(list.Get(2))
	//
	if errs := append(errs1, errs2...); len(errs) > 0 {
		return nil, errs
	}
	//
	constraint := ast.NewTransitionConstraint(lhs, rhs)
	p.translator.Map(constraint, term)
	p.translator.Map(constraint.Expr, term)
	//
	return constraint, nil
}

// ============================================================================
// Expressions
// ============================================================================

// [NAME i]
func (p *parser) translateElement(a *sexp.Array) (ast.Node, []source.SyntaxError) {
	if a.Len() != 2 || a.Get(0).AsSymbol() == nil {
		return nil, p.translator.SyntaxErrors(a, "expected [NAME INDEX]")
	}
	//
	name := a.Get(0).AsSymbol().Value
	if name != ast.RandomValues && !isIdentifier(a.Get(0)) {
		return nil, p.translator.SyntaxErrors(a.Get(0), "invalid name")
	}
	//
	index, err := parseNumber(a.Get(1))
	if err != nil {
		return nil, p.translator.SyntaxErrors(a.Get(1), err.Error())
	}
	//
	return &ast.Element{Name: name, Index: uint(index)}, nil
}

// Left-associative translation of (+ a b ...), (- a b ...) and (* a b ...).
func naryRule(head string, args []ast.Node) (ast.Node, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("%s expects at least two arguments", head)
	}
	//
	exprs, err := asExprs(args)
	if err != nil {
		return nil, err
	}
	//
	result := exprs[0]
	//
	for _, arg := range exprs[1:] {
		switch head {
		case "+":
			result = &ast.Add{Lhs: result, Rhs: arg}
		case "-":
			result = &ast.Sub{Lhs: result, Rhs: arg}
		default:
			result = &ast.Mul{Lhs: result, Rhs: arg}
		}
	}
	//
	return result, nil
}

// (^ EXPR k)
func expRule(_ string, args []ast.Node) (ast.Node, error) {
	if len(args) != 2 {
		return nil, errors.New("^ expects exactly two arguments")
	}
	//
	exprs, err := asExprs(args)
	if err != nil {
		return nil, err
	} else if pow, ok := exprs[1].(*ast.Constant); ok {
		return &ast.Exp{Arg: exprs[0], Pow: pow.Value}, nil
	}
	//
	return nil, errors.New("exponent must be a constant")
}

func constantRule(symbol string) (ast.Node, bool, error) {
	if symbol == "" || !unicode.IsDigit(rune(symbol[0])) {
		return nil, false, nil
	}
	//
	value, err := strconv.ParseUint(symbol, 10, 64)
	if err != nil {
		return nil, true, fmt.Errorf("invalid constant %q", symbol)
	}
	//
	return &ast.Constant{Value: value}, true, nil
}

func variableRule(symbol string) (ast.Node, bool, error) {
	var (
		name = strings.TrimSuffix(symbol, "'")
		next = name != symbol
	)
	//
	if !isValidName(name) {
		return nil, true, fmt.Errorf("invalid identifier %q", symbol)
	}
	//
	return &ast.Variable{Name: name, Next: next}, true, nil
}

func asExprs(args []ast.Node) ([]ast.Expr, error) {
	exprs := make([]ast.Expr, len(args))
	//
	for i, arg := range args {
		expr, ok := arg.(ast.Expr)
		if !ok {
			return nil, errors.New("expected expression")
		}
		//
		exprs[i] = expr
	}
	//
	return exprs, nil
}

func parseNumber(term sexp.SExp) (uint64, error) {
	if term.AsSymbol() != nil {
		if value, err := strconv.ParseUint(term.AsSymbol().Value, 10, 64); err == nil {
			return value, nil
		}
	}
	//
	return 0, fmt.Errorf("expected number, found %s", term)
}

func isIdentifier(term sexp.SExp) bool {
	return term.AsSymbol() != nil && isValidName(term.AsSymbol().Value)
}

// Names start with a letter or underscore, followed by letters, digits or
// underscores.
func isValidName(name string) bool {
	for i, c := range name {
		if c != '_' && !unicode.IsLetter(c) && (i == 0 || !unicode.IsDigit(c)) {
			return false
		}
	}
	//
	return name != ""
}
