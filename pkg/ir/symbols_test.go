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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbols_Indices(t *testing.T) {
	symbols := NewSymbolTable(MinCycleLength)
	//
	checkIndex(t, 0)(symbols.InsertMainTraceColumn(&ast.Identifier{Name: "a"}))
	checkIndex(t, 0)(symbols.InsertAuxTraceColumn(&ast.Identifier{Name: "b"}))
	checkIndex(t, 1)(symbols.InsertMainTraceColumn(&ast.Identifier{Name: "c"}))
	checkIndex(t, 0)(symbols.InsertPeriodicColumn(&ast.PeriodicColumn{Name: "k", Values: []uint64{1, 0}}))
	checkIndex(t, 1)(symbols.InsertPeriodicColumn(&ast.PeriodicColumn{Name: "j", Values: []uint64{1, 0, 1, 0}}))
	require.NoError(t, symbols.InsertPublicInput(&ast.PublicInput{Name: "stack", Size: 16}))
	//
	main, aux := symbols.Widths()
	assert.Equal(t, uint(2), main)
	assert.Equal(t, uint(1), aux)
	//
	inputs, periodics := symbols.Declarations()
	assert.Equal(t, []PublicInput{{"stack", 16}}, inputs)
	require.Len(t, periodics, 2)
	assert.Equal(t, "k", periodics[0].Name)
	assert.Equal(t, uint(2), periodics[0].CycleLength())
	assert.Equal(t, uint(4), periodics[1].CycleLength())
}

func TestSymbols_Resolve(t *testing.T) {
	symbols := NewSymbolTable(MinCycleLength)
	//
	checkIndex(t, 0)(symbols.InsertMainTraceColumn(&ast.Identifier{Name: "a"}))
	checkIndex(t, 0)(symbols.InsertAuxTraceColumn(&ast.Identifier{Name: "b"}))
	checkIndex(t, 0)(symbols.InsertPeriodicColumn(&ast.PeriodicColumn{Name: "k", Values: []uint64{1, 0, 0, 0}}))
	require.NoError(t, symbols.InsertPublicInput(&ast.PublicInput{Name: "stack", Size: 16}))
	//
	checkBinding(t, symbols, "a", Binding{"a", MainColumnBinding, 0, 0})
	checkBinding(t, symbols, "b", Binding{"b", AuxColumnBinding, 0, 0})
	checkBinding(t, symbols, "k", Binding{"k", PeriodicColumnBinding, 0, 4})
	checkBinding(t, symbols, "stack", Binding{"stack", PublicInputBinding, 0, 16})
	//
	node := &ast.Variable{Name: "x"}
	_, err := symbols.Resolve("x", node)
	//
	var serr *SemanticError
	//
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, UndeclaredIdentifier, serr.Kind())
	assert.Same(t, node, serr.Node())
	assert.Equal(t, `undeclared identifier: "x"`, err.Error())
}

func TestSymbols_Uniqueness(t *testing.T) {
	declare := []func(*SymbolTable, string) error{
		func(s *SymbolTable, name string) error {
			_, err := s.InsertMainTraceColumn(&ast.Identifier{Name: name})
			return err
		},
		func(s *SymbolTable, name string) error {
			_, err := s.InsertAuxTraceColumn(&ast.Identifier{Name: name})
			return err
		},
		func(s *SymbolTable, name string) error {
			return s.InsertPublicInput(&ast.PublicInput{Name: name, Size: 4})
		},
		func(s *SymbolTable, name string) error {
			_, err := s.InsertPeriodicColumn(&ast.PeriodicColumn{Name: name, Values: []uint64{0, 1}})
			return err
		},
	}
	// Every kind of declaration clashes with every other kind.
	for i, first := range declare {
		for j, second := range declare {
			symbols := NewSymbolTable(MinCycleLength)
			//
			require.NoError(t, first(symbols, "x"), "declaration %d", i)
			err := second(symbols, "x")
			assert.True(t, IsKind(err, DuplicateIdentifier), "declarations %d then %d", i, j)
		}
	}
}

func TestSymbols_Reserved(t *testing.T) {
	symbols := NewSymbolTable(MinCycleLength)
	_, err := symbols.InsertMainTraceColumn(&ast.Identifier{Name: ast.RandomValues})
	//
	assert.True(t, IsKind(err, DuplicateIdentifier))
}

func TestSymbols_InvalidCycle(t *testing.T) {
	for _, n := range []int{0, 1, 3, 5, 6, 7, 12} {
		symbols := NewSymbolTable(MinCycleLength)
		_, err := symbols.InsertPeriodicColumn(&ast.PeriodicColumn{Name: "k", Values: make([]uint64, n)})
		//
		assert.True(t, IsKind(err, InvalidPeriodicColumnCycle), "cycle length %d", n)
	}
}

func TestSymbols_MinCycle(t *testing.T) {
	symbols := NewSymbolTable(8)
	_, err := symbols.InsertPeriodicColumn(&ast.PeriodicColumn{Name: "k", Values: make([]uint64, 4)})
	assert.True(t, IsKind(err, InvalidPeriodicColumnCycle))
	//
	checkIndex(t, 0)(symbols.InsertPeriodicColumn(&ast.PeriodicColumn{Name: "k", Values: make([]uint64, 8)}))
}

func TestSymbols_InvalidPeriodicValue(t *testing.T) {
	symbols := NewSymbolTable(MinCycleLength)
	_, err := symbols.InsertPeriodicColumn(&ast.PeriodicColumn{Name: "k", Values: []uint64{0, fieldModulus}})
	//
	assert.True(t, IsKind(err, InvalidFieldElement))
	// Rejected declarations are not bound.
	_, err = symbols.Resolve("k", nil)
	assert.True(t, IsKind(err, UndeclaredIdentifier))
}

func TestSymbols_EmptyCycle(t *testing.T) {
	// An empty column is never a valid cycle, whatever the minimum.
	symbols := NewSymbolTable(0)
	_, err := symbols.InsertPeriodicColumn(&ast.PeriodicColumn{Name: "k"})
	//
	assert.True(t, IsKind(err, InvalidPeriodicColumnCycle))
}

func TestSymbols_PeriodicDuplicateFirst(t *testing.T) {
	symbols := NewSymbolTable(MinCycleLength)
	checkIndex(t, 0)(symbols.InsertMainTraceColumn(&ast.Identifier{Name: "x"}))
	// Both the name and the cycle are invalid, but the name is reported.
	_, err := symbols.InsertPeriodicColumn(&ast.PeriodicColumn{Name: "x", Values: []uint64{1, 2, 3}})
	assert.True(t, IsKind(err, DuplicateIdentifier))
	//
	_, err = symbols.InsertPeriodicColumn(&ast.PeriodicColumn{Name: "x", Values: []uint64{0, fieldModulus}})
	assert.True(t, IsKind(err, DuplicateIdentifier))
	//
	_, err = symbols.InsertPeriodicColumn(&ast.PeriodicColumn{Name: ast.RandomValues, Values: []uint64{1}})
	assert.True(t, IsKind(err, DuplicateIdentifier))
	//
	checkBinding(t, symbols, "x", Binding{"x", MainColumnBinding, 0, 0})
}

func checkIndex(t *testing.T, expected uint) func(uint, error) {
	return func(index uint, err error) {
		t.Helper()
		require.NoError(t, err)
		assert.Equal(t, expected, index)
	}
}

func checkBinding(t *testing.T, symbols *SymbolTable, name string, expected Binding) {
	t.Helper()
	//
	binding, err := symbols.Resolve(name, nil)
	require.NoError(t, err)
	assert.Equal(t, expected, binding)
}
