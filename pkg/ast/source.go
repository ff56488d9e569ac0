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
package ast

import (
	"fmt"

	"github.com/consensys/go-airscript/pkg/util/source/sexp"
)

// Node provides common functionality across all elements of the Abstract Syntax
// Tree.  For example, it ensures every element can converted back into Lisp
// form for debugging.  Furthermore, it provides a reference point for
// constructing a suitable source map for reporting errors.
type Node interface {
	// Convert this node into its lisp representation.  This is primarily used
	// for debugging purposes.
	Lisp() sexp.SExp
}

// Source represents the root of the Abstract Syntax Tree for an AIR
// description.  It consists of a sequence of sections, given in the order they
// appeared in the original text.
type Source struct {
	Sections []Section
}

// NewSource constructs a source from a given sequence of sections.
func NewSource(sections ...Section) *Source {
	return &Source{sections}
}

// Section represents a top-level section of an AIR description, such as a
// declaration of trace columns or a set of boundary constraints.
type Section interface {
	Node
	// Marks the implementing type as a section.
	isSection()
}

// ============================================================================
// air
// ============================================================================

// AirDef gives a name to the AIR being described.
type AirDef struct {
	Name string
}

func (p *AirDef) isSection() {}

// Lisp converts this node into its lisp representation.
func (p *AirDef) Lisp() sexp.SExp {
	return sexp.NewList(sexp.NewSymbol("air"), sexp.NewSymbol(p.Name))
}

// ============================================================================
// trace-columns
// ============================================================================

// Identifier is a name being declared.
type Identifier struct {
	Name string
}

// Lisp converts this node into its lisp representation.
func (p *Identifier) Lisp() sexp.SExp {
	return sexp.NewSymbol(p.Name)
}

// TraceColumns declares the columns of the main and auxiliary execution trace
// segments.  Within each segment, columns are indexed in order of declaration.
type TraceColumns struct {
	Main []*Identifier
	Aux  []*Identifier
}

func (p *TraceColumns) isSection() {}

// Lisp converts this node into its lisp representation.
func (p *TraceColumns) Lisp() sexp.SExp {
	main := sexp.NewList(sexp.NewSymbol("main"))
	aux := sexp.NewList(sexp.NewSymbol("aux"))
	//
	for _, c := range p.Main {
		main.Elements = append(main.Elements, c.Lisp())
	}
	//
	for _, c := range p.Aux {
		aux.Elements = append(aux.Elements, c.Lisp())
	}
	//
	return sexp.NewList(sexp.NewSymbol("trace-columns"), main, aux)
}

// ============================================================================
// public-inputs
// ============================================================================

// PublicInput declares a named public input holding a fixed number of
// elements.
type PublicInput struct {
	Name string
	Size uint
}

// Lisp converts this node into its lisp representation.
func (p *PublicInput) Lisp() sexp.SExp {
	return sexp.NewList(sexp.NewSymbol(p.Name), sexp.NewSymbol(fmt.Sprintf("%d", p.Size)))
}

// PublicInputs is a section declaring zero or more public inputs.
type PublicInputs struct {
	Inputs []*PublicInput
}

func (p *PublicInputs) isSection() {}

// Lisp converts this node into its lisp representation.
func (p *PublicInputs) Lisp() sexp.SExp {
	list := sexp.NewList(sexp.NewSymbol("public-inputs"))
	//
	for _, input := range p.Inputs {
		list.Elements = append(list.Elements, input.Lisp())
	}
	//
	return list
}

// ============================================================================
// periodic-columns
// ============================================================================

// PeriodicColumn declares a column whose values repeat with a cycle matching
// the number of values given.
type PeriodicColumn struct {
	Name   string
	Values []uint64
}

// Lisp converts this node into its lisp representation.
func (p *PeriodicColumn) Lisp() sexp.SExp {
	list := sexp.NewList(sexp.NewSymbol(p.Name))
	//
	for _, v := range p.Values {
		list.Elements = append(list.Elements, sexp.NewSymbol(fmt.Sprintf("%d", v)))
	}
	//
	return list
}

// PeriodicColumns is a section declaring zero or more periodic columns.
type PeriodicColumns struct {
	Columns []*PeriodicColumn
}

func (p *PeriodicColumns) isSection() {}

// Lisp converts this node into its lisp representation.
func (p *PeriodicColumns) Lisp() sexp.SExp {
	list := sexp.NewList(sexp.NewSymbol("periodic-columns"))
	//
	for _, c := range p.Columns {
		list.Elements = append(list.Elements, c.Lisp())
	}
	//
	return list
}

// ============================================================================
// boundary-constraints
// ============================================================================

// Boundary identifies the row of the trace at which a boundary constraint
// applies.
type Boundary uint8

const (
	// First is the first row of the trace.
	First Boundary = iota
	// Last is the last row of the trace.
	Last
)

func (b Boundary) String() string {
	if b == First {
		return "first"
	}
	//
	return "last"
}

// BoundaryConstraint asserts that a given column holds a given value on either
// the first or last row of the trace.
type BoundaryConstraint struct {
	Column   *Variable
	Boundary Boundary
	Value    Expr
}

// Lisp converts this node into its lisp representation.
func (p *BoundaryConstraint) Lisp() sexp.SExp {
	access := sexp.NewList(sexp.NewSymbol(p.Boundary.String()), p.Column.Lisp())
	return sexp.NewList(sexp.NewSymbol("="), access, p.Value.Lisp())
}

// BoundaryConstraints is a section of zero or more boundary constraints.
type BoundaryConstraints struct {
	Constraints []*BoundaryConstraint
}

func (p *BoundaryConstraints) isSection() {}

// Lisp converts this node into its lisp representation.
func (p *BoundaryConstraints) Lisp() sexp.SExp {
	list := sexp.NewList(sexp.NewSymbol("boundary-constraints"))
	//
	for _, c := range p.Constraints {
		list.Elements = append(list.Elements, c.Lisp())
	}
	//
	return list
}

// ============================================================================
// transition-constraints
// ============================================================================

// TransitionConstraint asserts that a given expression over the current and
// next rows of the trace evaluates to zero.  Equations of the form "l = r" are
// normalised into "l - r" upon construction.
type TransitionConstraint struct {
	Expr Expr
}

// NewTransitionConstraint constructs a transition constraint from an equation
// between two expressions.
func NewTransitionConstraint(lhs Expr, rhs Expr) *TransitionConstraint {
	return &TransitionConstraint{&Sub{lhs, rhs}}
}

// Lisp converts this node into its lisp representation.
func (p *TransitionConstraint) Lisp() sexp.SExp {
	return sexp.NewList(sexp.NewSymbol("="), p.Expr.Lisp(), sexp.NewSymbol("0"))
}

// TransitionConstraints is a section of zero or more transition constraints.
type TransitionConstraints struct {
	Constraints []*TransitionConstraint
}

func (p *TransitionConstraints) isSection() {}

// Lisp converts this node into its lisp representation.
func (p *TransitionConstraints) Lisp() sexp.SExp {
	list := sexp.NewList(sexp.NewSymbol("transition-constraints"))
	//
	for _, c := range p.Constraints {
		list.Elements = append(list.Elements, c.Lisp())
	}
	//
	return list
}
