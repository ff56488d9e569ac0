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
	"testing"

	"github.com/consensys/go-airscript/pkg/ast"
	"github.com/consensys/go-airscript/pkg/ir/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition_Segments(t *testing.T) {
	var (
		symbols     = newTestSymbols(t)
		constraints = NewTransitionConstraints()
	)
	// a' = a + b
	require.NoError(t, constraints.Insert(symbols, ast.NewTransitionConstraint(next("a"), add(curr("a"), curr("b")))))
	// p' = p * a
	require.NoError(t, constraints.Insert(symbols, ast.NewTransitionConstraint(next("p"), mul(curr("p"), curr("a")))))
	// b = $rand[0]
	require.NoError(t, constraints.Insert(symbols, ast.NewTransitionConstraint(curr("b"), element(ast.RandomValues, 0))))
	// b = stack[2] * k
	require.NoError(t, constraints.Insert(symbols, ast.NewTransitionConstraint(curr("b"),
		mul(element("stack", 2), curr("k")))))
	//
	assert.Len(t, constraints.MainConstraints(), 2)
	assert.Len(t, constraints.AuxConstraints(), 2)
	assert.Equal(t, uint(4), constraints.Len())
	//
	g := constraints.Graph()
	assert.Equal(t, "(- main[0]' (+ main[0] main[1]))", g.Lisp(constraints.MainConstraints()[0]).String())
	assert.Equal(t, "(- main[1] (* stack[2] periodic[0]))", g.Lisp(constraints.MainConstraints()[1]).String())
	assert.Equal(t, "(- aux[0]' (* aux[0] main[0]))", g.Lisp(constraints.AuxConstraints()[0]).String())
	assert.Equal(t, "(- main[1] $rand[0])", g.Lisp(constraints.AuxConstraints()[1]).String())
	//
	assert.Equal(t, []graph.Degree{graph.NewDegree(1), graph.NewDegree(1, 3)}, constraints.MainDegrees())
	assert.Equal(t, []graph.Degree{graph.NewDegree(2), graph.NewDegree(1)}, constraints.AuxDegrees())
}

func TestTransition_Sharing(t *testing.T) {
	var (
		symbols     = newTestSymbols(t)
		constraints = NewTransitionConstraints()
	)
	// The same constraint many times over
	for i := 0; i < 100; i++ {
		c := ast.NewTransitionConstraint(next("a"), add(curr("a"), &ast.Constant{Value: 1}))
		require.NoError(t, constraints.Insert(symbols, c))
	}
	// a', a, 1, a+1, a'-(a+1)
	assert.Equal(t, uint(5), constraints.Graph().Len())
	assert.Len(t, constraints.MainConstraints(), 100)
	//
	for _, root := range constraints.MainConstraints() {
		assert.Equal(t, constraints.MainConstraints()[0], root)
	}
}

func TestTransition_Exp(t *testing.T) {
	var (
		symbols     = newTestSymbols(t)
		constraints = NewTransitionConstraints()
		// a'^2 - a = 1
		lhs = &ast.Sub{Lhs: &ast.Exp{Arg: next("a"), Pow: 2}, Rhs: curr("a")}
	)
	//
	require.NoError(t, constraints.Insert(symbols, ast.NewTransitionConstraint(lhs, &ast.Constant{Value: 1})))
	assert.Equal(t, []graph.Degree{graph.NewDegree(2)}, constraints.MainDegrees())
}

func TestTransition_Errors(t *testing.T) {
	symbols := newTestSymbols(t)
	//
	checkTransitionErr(t, symbols, add(curr("a"), curr("x")), UndeclaredIdentifier)
	checkTransitionErr(t, symbols, add(curr("a"), next("k")), InvalidNextRowUsage)
	checkTransitionErr(t, symbols, mul(curr("stack"), curr("a")), InvalidIdentifierUsage)
	checkTransitionErr(t, symbols, element("a", 0), InvalidIdentifierUsage)
	checkTransitionErr(t, symbols, element("stack", 16), IndexOutOfRange)
	checkTransitionErr(t, symbols, element("x", 0), UndeclaredIdentifier)
	checkTransitionErr(t, symbols, &ast.Constant{Value: fieldModulus}, InvalidFieldElement)
}

func TestTransition_DegreeOverflow(t *testing.T) {
	symbols := newTestSymbols(t)
	// (a*a)^(2^63) has degree 2^64
	checkTransitionErr(t, symbols, &ast.Exp{Arg: mul(curr("a"), curr("a")), Pow: 1 << 63}, DegreeOverflow)
	checkTransitionErr(t, symbols, mul(&ast.Exp{Arg: curr("a"), Pow: 1 << 63}, &ast.Exp{Arg: curr("a"), Pow: 1 << 63}),
		DegreeOverflow)
	// A rejected constraint leaves later ones unaffected.
	constraints := NewTransitionConstraints()
	c := ast.NewTransitionConstraint(&ast.Exp{Arg: mul(curr("a"), curr("a")), Pow: 1 << 63}, &ast.Constant{Value: 0})
	assert.True(t, IsKind(constraints.Insert(symbols, c), DegreeOverflow))
	//
	c = ast.NewTransitionConstraint(&ast.Exp{Arg: curr("a"), Pow: 1 << 63}, &ast.Constant{Value: 0})
	require.NoError(t, constraints.Insert(symbols, c))
	assert.Equal(t, []graph.Degree{graph.NewDegree(1 << 63)}, constraints.MainDegrees())
}

func next(name string) *ast.Variable {
	return &ast.Variable{Name: name, Next: true}
}

func curr(name string) *ast.Variable {
	return &ast.Variable{Name: name}
}

func element(name string, index uint) *ast.Element {
	return &ast.Element{Name: name, Index: index}
}

func add(lhs ast.Expr, rhs ast.Expr) *ast.Add {
	return &ast.Add{Lhs: lhs, Rhs: rhs}
}

func mul(lhs ast.Expr, rhs ast.Expr) *ast.Mul {
	return &ast.Mul{Lhs: lhs, Rhs: rhs}
}

func checkTransitionErr(t *testing.T, symbols *SymbolTable, expr ast.Expr, kind ErrorKind) {
	t.Helper()
	//
	constraints := NewTransitionConstraints()
	err := constraints.Insert(symbols, &ast.TransitionConstraint{Expr: expr})
	//
	assert.True(t, IsKind(err, kind), "expected %s, got %v", kind, err)
	assert.Equal(t, uint(0), constraints.Len())
}
