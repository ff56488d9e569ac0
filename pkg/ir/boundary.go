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
package ir

import (
	"fmt"
	"slices"

	"github.com/consensys/go-airscript/pkg/ast"
	"github.com/consensys/go-airscript/pkg/ir/graph"
)

// BoundaryAssertion asserts that a given column of the trace holds a given
// value at a given boundary.  The value is an independent expression tree over
// constants, public input elements and random values.  It is shared with the
// IR which produced it and must not be modified.
type BoundaryAssertion struct {
	Column uint
	Value  ast.Expr
}

// BoundaryConstraints holds the boundary assertions of an AIR, bucketed by
// trace segment and boundary.  Each column has at most one assertion per
// boundary.
type BoundaryConstraints struct {
	// Indexed by segment and then boundary.
	buckets [2][2]map[uint]ast.Expr
}

// NewBoundaryConstraints constructs an empty set of boundary constraints.
func NewBoundaryConstraints() *BoundaryConstraints {
	var p BoundaryConstraints
	//
	for s := range p.buckets {
		for b := range p.buckets[s] {
			p.buckets[s][b] = make(map[uint]ast.Expr)
		}
	}
	//
	return &p
}

// Insert a boundary constraint, resolving all names it uses via a given symbol
// table.
func (p *BoundaryConstraints) Insert(symbols *SymbolTable, constraint *ast.BoundaryConstraint) error {
	var (
		column  = constraint.Column
		segment graph.Segment
	)
	//
	binding, err := symbols.Resolve(column.Name, column)
	if err != nil {
		return err
	}
	//
	switch binding.Kind {
	case MainColumnBinding:
		segment = graph.Main
	case AuxColumnBinding:
		segment = graph.Aux
	default:
		return newError(InvalidIdentifierUsage, column,
			"boundary constraints can only be applied to trace columns, but %q is a %s", column.Name, binding.Kind)
	}
	//
	if column.Next {
		return newError(InvalidNextRowUsage, column,
			"boundary constraints may not reference next-row values (found %q)", column.Name)
	} else if err := validateBoundaryExpr(symbols, constraint.Value); err != nil {
		return err
	}
	//
	bucket := p.buckets[segment][constraint.Boundary]
	if _, ok := bucket[binding.Index]; ok {
		return newError(DuplicateBoundaryAssertion, constraint,
			"duplicate %s boundary assertion for %s column %d (%q)",
			constraint.Boundary, segment, binding.Index, column.Name)
	}
	//
	bucket[binding.Index] = constraint.Value
	//
	return nil
}

// MainFirst returns the assertions on the first row of the main segment, in
// column order.
func (p *BoundaryConstraints) MainFirst() []BoundaryAssertion {
	return p.assertions(graph.Main, ast.First)
}

// MainLast returns the assertions on the last row of the main segment, in
// column order.
func (p *BoundaryConstraints) MainLast() []BoundaryAssertion {
	return p.assertions(graph.Main, ast.Last)
}

// AuxFirst returns the assertions on the first row of the auxiliary segment, in
// column order.
func (p *BoundaryConstraints) AuxFirst() []BoundaryAssertion {
	return p.assertions(graph.Aux, ast.First)
}

// AuxLast returns the assertions on the last row of the auxiliary segment, in
// column order.
func (p *BoundaryConstraints) AuxLast() []BoundaryAssertion {
	return p.assertions(graph.Aux, ast.Last)
}

// MainLen returns the number of assertions on the main segment.
func (p *BoundaryConstraints) MainLen() uint {
	return uint(len(p.buckets[graph.Main][ast.First]) + len(p.buckets[graph.Main][ast.Last]))
}

// AuxLen returns the number of assertions on the auxiliary segment.
func (p *BoundaryConstraints) AuxLen() uint {
	return uint(len(p.buckets[graph.Aux][ast.First]) + len(p.buckets[graph.Aux][ast.Last]))
}

// IsEmpty checks whether there are no assertions at all.
func (p *BoundaryConstraints) IsEmpty() bool {
	return p.MainLen() == 0 && p.AuxLen() == 0
}

func (p *BoundaryConstraints) assertions(segment graph.Segment, boundary ast.Boundary) []BoundaryAssertion {
	var (
		bucket     = p.buckets[segment][boundary]
		assertions = make([]BoundaryAssertion, 0, len(bucket))
	)
	//
	for column, value := range bucket {
		assertions = append(assertions, BoundaryAssertion{column, value})
	}
	//
	slices.SortFunc(assertions, func(l, r BoundaryAssertion) int {
		return int(l.Column) - int(r.Column)
	})
	//
	return assertions
}

// Check that a boundary value only refers to constants, public input elements
// and random values.
func validateBoundaryExpr(symbols *SymbolTable, expr ast.Expr) error {
	switch e := expr.(type) {
	case *ast.Constant:
		return validateConstant(e)
	case *ast.Element:
		_, err := resolveElement(symbols, e)
		return err
	case *ast.Variable:
		binding, err := symbols.Resolve(e.Name, e)
		if err != nil {
			return err
		}
		//
		return newError(InvalidIdentifierUsage, e,
			"boundary constraints cannot refer to %s %q", binding.Kind, e.Name)
	case *ast.Add:
		return validateBoundaryExprs(symbols, e.Lhs, e.Rhs)
	case *ast.Sub:
		return validateBoundaryExprs(symbols, e.Lhs, e.Rhs)
	case *ast.Mul:
		return validateBoundaryExprs(symbols, e.Lhs, e.Rhs)
	case *ast.Exp:
		return validateBoundaryExpr(symbols, e.Arg)
	default:
		panic(fmt.Sprintf("unknown expression encountered (%s)", expr.Lisp()))
	}
}

func validateBoundaryExprs(symbols *SymbolTable, exprs ...ast.Expr) error {
	for _, e := range exprs {
		if err := validateBoundaryExpr(symbols, e); err != nil {
			return err
		}
	}
	//
	return nil
}

// Check a literal is a valid field element.
func validateConstant(c *ast.Constant) error {
	if c.Value >= fieldModulus {
		return newError(InvalidFieldElement, c, "constant %d is not a field element", c.Value)
	}
	//
	return nil
}

// Resolve an element access, which must either refer to the random values or
// to a declared public input.  In the former case, the returned binding is
// empty.
func resolveElement(symbols *SymbolTable, e *ast.Element) (Binding, error) {
	if e.Name == ast.RandomValues {
		return Binding{}, nil
	}
	//
	binding, err := symbols.Resolve(e.Name, e)
	//
	switch {
	case err != nil:
		return binding, err
	case binding.Kind != PublicInputBinding:
		return binding, newError(InvalidIdentifierUsage, e, "cannot index %s %q", binding.Kind, e.Name)
	case e.Index >= binding.Size:
		return binding, newError(IndexOutOfRange, e,
			"index %d out of range for public input %q of size %d", e.Index, e.Name, binding.Size)
	}
	//
	return binding, nil
}
