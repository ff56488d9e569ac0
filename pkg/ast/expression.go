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

// RandomValues is the reserved name under which the verifier's random values
// are accessed, as in "$rand[0]".
const RandomValues = "$rand"

// Expr represents an arbitrary expression used within a boundary or transition
// constraint.  Expressions are unresolved: names are not yet bound to
// declarations.
type Expr interface {
	Node
	// Marks the implementing type as an expression.
	isExpr()
}

// ============================================================================
// Constant
// ============================================================================

// Constant represents a literal value.
type Constant struct {
	Value uint64
}

func (e *Constant) isExpr() {}

// Lisp converts this node into its lisp representation.
func (e *Constant) Lisp() sexp.SExp {
	return sexp.NewSymbol(fmt.Sprintf("%d", e.Value))
}

// ============================================================================
// Variable
// ============================================================================

// Variable represents a reference to a named column, or a periodic column.
// When Next holds, the reference is to the value of the column on the next row
// (written "x'").
type Variable struct {
	Name string
	Next bool
}

func (e *Variable) isExpr() {}

// Lisp converts this node into its lisp representation.
func (e *Variable) Lisp() sexp.SExp {
	if e.Next {
		return sexp.NewSymbol(e.Name + "'")
	}
	//
	return sexp.NewSymbol(e.Name)
}

// ============================================================================
// Element
// ============================================================================

// Element represents an access to a given element of a named vector, such as a
// public input (e.g. "stack[0]") or the random values (e.g. "$rand[1]").
type Element struct {
	Name  string
	Index uint
}

func (e *Element) isExpr() {}

// Lisp converts this node into its lisp representation.
func (e *Element) Lisp() sexp.SExp {
	return sexp.NewArray(sexp.NewSymbol(e.Name), sexp.NewSymbol(fmt.Sprintf("%d", e.Index)))
}

// ============================================================================
// Add / Sub / Mul
// ============================================================================

// Add represents the sum of two expressions.
type Add struct {
	Lhs Expr
	Rhs Expr
}

func (e *Add) isExpr() {}

// Lisp converts this node into its lisp representation.
func (e *Add) Lisp() sexp.SExp {
	return sexp.NewList(sexp.NewSymbol("+"), e.Lhs.Lisp(), e.Rhs.Lisp())
}

// Sub represents the difference of two expressions.
type Sub struct {
	Lhs Expr
	Rhs Expr
}

func (e *Sub) isExpr() {}

// Lisp converts this node into its lisp representation.
func (e *Sub) Lisp() sexp.SExp {
	return sexp.NewList(sexp.NewSymbol("-"), e.Lhs.Lisp(), e.Rhs.Lisp())
}

// Mul represents the product of two expressions.
type Mul struct {
	Lhs Expr
	Rhs Expr
}

func (e *Mul) isExpr() {}

// Lisp converts this node into its lisp representation.
func (e *Mul) Lisp() sexp.SExp {
	return sexp.NewList(sexp.NewSymbol("*"), e.Lhs.Lisp(), e.Rhs.Lisp())
}

// ============================================================================
// Exp
// ============================================================================

// Exp represents an expression raised to a constant power.
type Exp struct {
	Arg Expr
	Pow uint64
}

func (e *Exp) isExpr() {}

// Lisp converts this node into its lisp representation.
func (e *Exp) Lisp() sexp.SExp {
	return sexp.NewList(sexp.NewSymbol("^"), e.Arg.Lisp(), sexp.NewSymbol(fmt.Sprintf("%d", e.Pow)))
}
