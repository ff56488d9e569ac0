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
	"github.com/consensys/go-airscript/pkg/ast/lisp"
	"github.com/consensys/go-airscript/pkg/ir/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Positive Tests
// ============================================================================

func TestAir_BoundaryConstraints(t *testing.T) {
	air := checkAirOk(t, `
		(trace-columns (main clk))
		(transition-constraints (= clk' (+ clk 1)))
		(boundary-constraints (= (first clk) 0) (= (last clk) 1))`)
	//
	assert.Equal(t, DefaultAirName, air.Name())
	assert.Equal(t, uint(2), air.NumMainAssertions())
	assert.Equal(t, uint(0), air.NumAuxAssertions())
	assert.Equal(t, []graph.Degree{graph.NewDegree(1)}, air.MainDegrees())
	assert.Empty(t, air.AuxDegrees())
	assert.Equal(t, []BoundaryAssertion{{0, &ast.Constant{Value: 0}}}, air.MainFirstBoundaryConstraints())
	assert.Equal(t, []BoundaryAssertion{{0, &ast.Constant{Value: 1}}}, air.MainLastBoundaryConstraints())
}

func TestAir_TransitionConstraints(t *testing.T) {
	air := checkAirOk(t, `
		(trace-columns (main clk))
		(boundary-constraints (= (first clk) 0))
		(transition-constraints (= clk' (+ clk 1)))`)
	//
	roots := air.MainTransitionConstraints()
	require.Len(t, roots, 1)
	assert.Empty(t, air.AuxTransitionConstraints())
	assert.Equal(t, "(- main[0]' (+ main[0] 1))", air.Graph().Lisp(roots[0]).String())
}

func TestAir_Mul(t *testing.T) {
	air := checkAirOk(t, `
		(trace-columns (main clk))
		(boundary-constraints (= (first clk) 0))
		(transition-constraints (= (* clk' clk) 1))`)
	//
	assert.Equal(t, []graph.Degree{graph.NewDegree(2)}, air.MainDegrees())
}

func TestAir_Exp(t *testing.T) {
	air := checkAirOk(t, `
		(trace-columns (main clk))
		(boundary-constraints (= (first clk) 0))
		(transition-constraints (= (- (^ clk' 2) clk) 1))`)
	//
	assert.Equal(t, []graph.Degree{graph.NewDegree(2)}, air.MainDegrees())
	assert.Equal(t, uint(2), air.MainDegrees()[0].Total())
}

func TestAir_Periodic(t *testing.T) {
	air := checkAirOk(t, `
		(air Periodic)
		(trace-columns (main a))
		(periodic-columns (k 1 0 0 0 0 0 0 0) (j 1 1))
		(boundary-constraints (= (first a) 0))
		(transition-constraints (= k 0) (= (* a' k j) a))`)
	//
	assert.Equal(t, "Periodic", air.Name())
	assert.Equal(t, []uint{8, 2}, air.PeriodicCycleLengths())
	assert.Equal(t, []graph.Degree{graph.NewDegree(0, 7), graph.NewDegree(1, 1, 7)}, air.MainDegrees())
	assert.Equal(t, uint(9), air.MainDegrees()[1].Total())
	//
	columns := air.PeriodicColumns()
	require.Len(t, columns, 2)
	assert.Equal(t, "j", columns[1].Name)
	assert.Equal(t, uint64(1), columns[0].Values[0].Uint64())
}

func TestAir_Aux(t *testing.T) {
	air := checkAirOk(t, `
		(trace-columns (main a) (aux p))
		(public-inputs (stack 4))
		(boundary-constraints
			(= (first a) [stack 0])
			(= (first p) 1)
			(= (last p) [$rand 0]))
		(transition-constraints
			(= a' (+ a 1))
			(= p' (* p (+ a [$rand 0])))
			(= a' (* a [$rand 1])))`)
	//
	assert.Equal(t, uint(1), air.MainWidth())
	assert.Equal(t, uint(1), air.AuxWidth())
	assert.Equal(t, []PublicInput{{"stack", 4}}, air.PublicInputs())
	assert.Equal(t, uint(1), air.NumMainAssertions())
	assert.Equal(t, uint(2), air.NumAuxAssertions())
	assert.Len(t, air.AuxFirstBoundaryConstraints(), 1)
	assert.Len(t, air.AuxLastBoundaryConstraints(), 1)
	assert.Len(t, air.MainTransitionConstraints(), 1)
	assert.Len(t, air.AuxTransitionConstraints(), 2)
	assert.Equal(t, []graph.Degree{graph.NewDegree(2), graph.NewDegree(1)}, air.AuxDegrees())
}

func TestAir_Config(t *testing.T) {
	src, err := lisp.ParseString(`
		(trace-columns (main a))
		(periodic-columns (k 1 0))
		(boundary-constraints (= (first a) 0))
		(transition-constraints (= a' (* a k)))`)
	require.NoError(t, err)
	//
	air, err := BuildAirIR(src, Config{"Named", 2})
	require.NoError(t, err)
	assert.Equal(t, "Named", air.Name())
	//
	_, err = BuildAirIR(src, Config{"Named", 4})
	assert.True(t, IsKind(err, InvalidPeriodicColumnCycle))
}

func TestAir_ReadOnlyGraph(t *testing.T) {
	air := checkAirOk(t, `
		(trace-columns (main a b))
		(boundary-constraints (= (first a) 0))
		(transition-constraints (= a' (* a b)))`)
	//
	g := air.Graph()
	root := air.MainTransitionConstraints()[0]
	expected := g.Lisp(root).String()
	//
	for i := uint(0); i < g.Len(); i++ {
		switch n := g.Node(graph.NodeRef(i)).(type) {
		case *graph.TraceAccess:
			n.Column = 100
		case *graph.Mul:
			n.Lhs, n.Rhs = n.Rhs, n.Lhs
		case *graph.Sub:
			n.Lhs = n.Rhs
		}
	}
	//
	assert.Equal(t, expected, g.Lisp(root).String())
	assert.Equal(t, expected, air.Graph().Lisp(root).String())
}

func TestAir_SectionOrder(t *testing.T) {
	sections := []string{
		"(air Order)",
		"(trace-columns (main a b) (aux p))",
		"(public-inputs (stack 2))",
		"(periodic-columns (k 0 1 0 1))",
		"(boundary-constraints (= (first a) [stack 0]) (= (last b) 1) (= (first p) 1))",
		"(transition-constraints (= a' (+ a b)) (= p' (* p k)) (= b' (* a [stack 1])))",
	}
	//
	expected := buildFromSections(t, sections).String()
	//
	permute(sections, func(permutation []string) {
		assert.Equal(t, expected, buildFromSections(t, permutation).String())
	})
}

func TestAir_SplitSections(t *testing.T) {
	// Declarations spread across sections continue their indices.
	air := checkAirOk(t, `
		(trace-columns (main a))
		(transition-constraints (= a' b))
		(trace-columns (main b) (aux p))
		(boundary-constraints (= (first b) 0))
		(boundary-constraints (= (first a) 0))
		(transition-constraints (= b' p))`)
	//
	assert.Equal(t, uint(2), air.MainWidth())
	assert.Equal(t, uint(2), air.NumMainAssertions())
	assert.Equal(t, "(- main[0]' main[1])", air.Graph().Lisp(air.MainTransitionConstraints()[0]).String())
	assert.Equal(t, "(- main[1]' aux[0])", air.Graph().Lisp(air.AuxTransitionConstraints()[0]).String())
}

func TestAir_Immutable(t *testing.T) {
	air := checkAirOk(t, `
		(trace-columns (main clk))
		(public-inputs (stack 2))
		(boundary-constraints (= (first clk) 0))
		(transition-constraints (= clk' (+ clk 1)))`)
	//
	air.PublicInputs()[0].Size = 100
	air.MainTransitionConstraints()[0] = 100
	air.MainDegrees()[0] = graph.NewDegree(100)
	//
	assert.Equal(t, uint(2), air.PublicInputs()[0].Size)
	assert.NotEqual(t, graph.NodeRef(100), air.MainTransitionConstraints()[0])
	assert.Equal(t, graph.NewDegree(1), air.MainDegrees()[0])
}

// ============================================================================
// Negative Tests
// ============================================================================

func TestAir_Err_DuplicateFirst(t *testing.T) {
	checkAirErr(t, `
		(trace-columns (main clk))
		(boundary-constraints (= (first clk) 0) (= (first clk) 0))
		(transition-constraints (= clk' (+ clk 1)))`, DuplicateBoundaryAssertion)
}

func TestAir_Err_DuplicateLast(t *testing.T) {
	checkAirErr(t, `
		(trace-columns (main clk))
		(boundary-constraints (= (last clk) 0) (= (last clk) 1))
		(transition-constraints (= clk' (+ clk 1)))`, DuplicateBoundaryAssertion)
}

func TestAir_Err_BoundaryUndeclared(t *testing.T) {
	checkAirErr(t, `(boundary-constraints (= (first clk) 0) (= (last clk) 1))`, UndeclaredIdentifier)
}

func TestAir_Err_TransitionUndeclared(t *testing.T) {
	err := checkAirErr(t, `
		(boundary-constraints (= (first clk) 0))
		(transition-constraints (= clk' (+ clk 1)))`, UndeclaredIdentifier)
	// Reported against the first constraint in source order
	assert.Equal(t, `"clk"`, err.Message())
}

func TestAir_Err_TransitionOnlyUndeclared(t *testing.T) {
	err := checkAirErr(t, `(transition-constraints (= clk' (+ clk 1)))`, UndeclaredIdentifier)
	//
	assert.Equal(t, &ast.Variable{Name: "clk", Next: true}, err.Node())
}

func TestAir_Err_MissingBoundary(t *testing.T) {
	err := checkAirErr(t, `
		(trace-columns (main clk))
		(transition-constraints (= clk' (+ clk 1)))`, MissingSection)
	//
	assert.Equal(t, "boundary constraints section is missing", err.Message())
	assert.Nil(t, err.Node())
}

func TestAir_Err_MissingTransition(t *testing.T) {
	err := checkAirErr(t, `
		(trace-columns (main clk))
		(boundary-constraints (= (first clk) 0))`, MissingSection)
	//
	assert.Equal(t, "transition constraints section is missing", err.Message())
}

func TestAir_Err_MissingBoth(t *testing.T) {
	err := checkAirErr(t, `(trace-columns (main clk))`, MissingSection)
	// Boundaries are checked first
	assert.Equal(t, "boundary constraints section is missing", err.Message())
}

func TestAir_Err_EmptySections(t *testing.T) {
	// Sections which are present but empty cannot arise from the parser, but
	// are rejected nonetheless.
	src := ast.NewSource(
		&ast.TraceColumns{Main: []*ast.Identifier{{Name: "clk"}}},
		&ast.BoundaryConstraints{},
		&ast.TransitionConstraints{},
	)
	//
	_, err := NewAirIR(src)
	assert.True(t, IsKind(err, MissingSection))
}

func TestAir_Err_DuplicateDeclaration(t *testing.T) {
	checkAirErr(t, `
		(trace-columns (main a))
		(public-inputs (a 2))
		(boundary-constraints (= (first a) 0))
		(transition-constraints (= a' a))`, DuplicateIdentifier)
}

func TestAir_Err_InvalidCycle(t *testing.T) {
	checkAirErr(t, `
		(trace-columns (main a))
		(periodic-columns (k 1 0 0))
		(boundary-constraints (= (first a) 0))
		(transition-constraints (= a' a))`, InvalidPeriodicColumnCycle)
}

func TestAir_Err_BoundaryNext(t *testing.T) {
	checkAirErr(t, `
		(trace-columns (main a))
		(boundary-constraints (= (first a') 0))
		(transition-constraints (= a' a))`, InvalidNextRowUsage)
}

func TestAir_Err_FirstErrorWins(t *testing.T) {
	// A duplicate declaration is found before the undeclared reference.
	checkAirErr(t, `
		(transition-constraints (= x 0))
		(trace-columns (main a a))
		(boundary-constraints (= (first a) 0))`, DuplicateIdentifier)
}

func TestAir_Err_InvalidConfig(t *testing.T) {
	src, err := lisp.ParseString(`
		(trace-columns (main a))
		(periodic-columns (k 1 0))
		(boundary-constraints (= (first a) 0))
		(transition-constraints (= a' (* a k)))`)
	require.NoError(t, err)
	//
	for _, config := range []Config{{}, {"A", 0}, {"", 2}, {"A", 3}} {
		air, err := BuildAirIR(src, config)
		//
		assert.Nil(t, air)
		assert.True(t, IsKind(err, InvalidConfig), "%v: %v", config, err)
	}
}

func TestAir_Err_DegreeOverflow(t *testing.T) {
	checkAirErr(t, `
		(trace-columns (main x))
		(boundary-constraints (= (first x) 0))
		(transition-constraints (= (^ (* x x) 9223372036854775808) 0))`, DegreeOverflow)
}

func TestAir_Err_PeriodicDuplicate(t *testing.T) {
	checkAirErr(t, `
		(trace-columns (main x))
		(periodic-columns (x 1 2 3))
		(boundary-constraints (= (first x) 0))
		(transition-constraints (= x' x))`, DuplicateIdentifier)
}

// ============================================================================
// Helpers
// ============================================================================

func checkAirOk(t *testing.T, text string) *AirIR {
	t.Helper()
	//
	src, err := lisp.ParseString(text)
	require.NoError(t, err)
	//
	air, err := NewAirIR(src)
	require.NoError(t, err)
	//
	return air
}

func checkAirErr(t *testing.T, text string, kind ErrorKind) *SemanticError {
	t.Helper()
	//
	src, err := lisp.ParseString(text)
	require.NoError(t, err)
	//
	air, err := NewAirIR(src)
	require.Nil(t, air)
	//
	var serr *SemanticError
	//
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, kind, serr.Kind(), serr.Error())
	//
	return serr
}

func buildFromSections(t *testing.T, sections []string) *AirIR {
	var text string
	//
	for _, s := range sections {
		text += s + "\n"
	}
	//
	return checkAirOk(t, text)
}

// Apply a given function to every permutation of a given slice.
func permute(items []string, fn func([]string)) {
	var (
		n    = len(items)
		perm = make([]string, n)
		used = make([]bool, n)
		rec  func(int)
	)
	//
	rec = func(i int) {
		if i == n {
			fn(perm)
			return
		}
		//
		for j := 0; j < n; j++ {
			if !used[j] {
				used[j] = true
				perm[i] = items[j]
				rec(i + 1)
				used[j] = false
			}
		}
	}
	//
	rec(0)
}
