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

	"github.com/consensys/gnark-crypto/field/goldilocks"
	"github.com/consensys/go-airscript/pkg/ast"
)

// Largest value (plus one) which can be represented as a field element.
var fieldModulus = goldilocks.Modulus().Uint64()

// BindingKind identifies what sort of declaration a name is bound to.
type BindingKind uint8

const (
	// MainColumnBinding is a column of the main trace segment.
	MainColumnBinding BindingKind = iota
	// AuxColumnBinding is a column of the auxiliary trace segment.
	AuxColumnBinding
	// PublicInputBinding is a public input.
	PublicInputBinding
	// PeriodicColumnBinding is a periodic column.
	PeriodicColumnBinding
)

func (k BindingKind) String() string {
	switch k {
	case MainColumnBinding:
		return "main column"
	case AuxColumnBinding:
		return "aux column"
	case PublicInputBinding:
		return "public input"
	default:
		return "periodic column"
	}
}

// Binding records what a declared name refers to.  The index is the position of
// the declaration amongst those of the same kind (in declaration order).  For
// a public input, the size is its number of elements; for a periodic column,
// it is its cycle length.  Otherwise, the size is unused.
type Binding struct {
	Name  string
	Kind  BindingKind
	Index uint
	Size  uint
}

func (b Binding) String() string {
	return fmt.Sprintf("%s %d (%s)", b.Kind, b.Index, b.Name)
}

// PublicInput describes a declared public input.
type PublicInput struct {
	Name string
	Size uint
}

// PeriodicColumn describes a declared periodic column, whose values repeat
// with a cycle matching their number.
type PeriodicColumn struct {
	Name   string
	Values []goldilocks.Element
}

// CycleLength returns the number of rows after which this column repeats.
func (p *PeriodicColumn) CycleLength() uint {
	return uint(len(p.Values))
}

// SymbolTable binds declared names to their declarations.  Names are unique
// across all kinds of declaration.  The table is populated from the
// declaration sections of a source, after which it is used to resolve the
// names used in constraints.
type SymbolTable struct {
	minCycleLength uint
	bindings       map[string]Binding
	mainWidth      uint
	auxWidth       uint
	// Public inputs in order of declaration
	publicInputs []PublicInput
	// Periodic columns in order of declaration
	periodicColumns []PeriodicColumn
}

// NewSymbolTable constructs an empty symbol table, where periodic columns must
// have at least the given number of values.
func NewSymbolTable(minCycleLength uint) *SymbolTable {
	return &SymbolTable{
		minCycleLength: minCycleLength,
		bindings:       make(map[string]Binding),
	}
}

// InsertMainTraceColumn declares a column of the main trace segment, returning
// its index.
func (p *SymbolTable) InsertMainTraceColumn(id *ast.Identifier) (uint, error) {
	if err := p.insert(id, Binding{id.Name, MainColumnBinding, p.mainWidth, 0}); err != nil {
		return 0, err
	}
	//
	p.mainWidth++
	//
	return p.mainWidth - 1, nil
}

// InsertAuxTraceColumn declares a column of the auxiliary trace segment,
// returning its index.
func (p *SymbolTable) InsertAuxTraceColumn(id *ast.Identifier) (uint, error) {
	if err := p.insert(id, Binding{id.Name, AuxColumnBinding, p.auxWidth, 0}); err != nil {
		return 0, err
	}
	//
	p.auxWidth++
	//
	return p.auxWidth - 1, nil
}

// InsertPublicInput declares a public input of a given size.
func (p *SymbolTable) InsertPublicInput(input *ast.PublicInput) error {
	index := uint(len(p.publicInputs))
	//
	if err := p.insert(input, Binding{input.Name, PublicInputBinding, index, input.Size}); err != nil {
		return err
	}
	//
	p.publicInputs = append(p.publicInputs, PublicInput{input.Name, input.Size})
	//
	return nil
}

// InsertPeriodicColumn declares a periodic column, returning its index.  The
// number of values must be a power of two, and no smaller than the minimum
// cycle length.
func (p *SymbolTable) InsertPeriodicColumn(column *ast.PeriodicColumn) (uint, error) {
	var (
		index  = uint(len(p.periodicColumns))
		length = uint(len(column.Values))
		values = make([]goldilocks.Element, length)
	)
	// Uniqueness takes precedence over any problem with the values
	if err := p.checkUnique(column, column.Name); err != nil {
		return 0, err
	}
	//
	if length == 0 || length < p.minCycleLength || length&(length-1) != 0 {
		return 0, newError(InvalidPeriodicColumnCycle, column,
			"periodic column %q has cycle length %d (must be a power of two and at least %d)",
			column.Name, length, p.minCycleLength)
	}
	//
	for i, v := range column.Values {
		if v >= fieldModulus {
			return 0, newError(InvalidFieldElement, column,
				"value %d of periodic column %q is not a field element", v, column.Name)
		}
		//
		values[i] = goldilocks.NewElement(v)
	}
	//
	if err := p.insert(column, Binding{column.Name, PeriodicColumnBinding, index, length}); err != nil {
		return 0, err
	}
	//
	p.periodicColumns = append(p.periodicColumns, PeriodicColumn{column.Name, values})
	//
	return index, nil
}

// Resolve determines the declaration bound to a given name, where node
// identifies the point of use (for error reporting).
func (p *SymbolTable) Resolve(name string, node ast.Node) (Binding, error) {
	if binding, ok := p.bindings[name]; ok {
		return binding, nil
	}
	//
	return Binding{}, newError(UndeclaredIdentifier, node, "%q", name)
}

// Widths returns the number of main and auxiliary trace columns declared.
func (p *SymbolTable) Widths() (uint, uint) {
	return p.mainWidth, p.auxWidth
}

// Declarations returns the public inputs and periodic columns declared, each
// in order of declaration.
func (p *SymbolTable) Declarations() ([]PublicInput, []PeriodicColumn) {
	return p.publicInputs, p.periodicColumns
}

func (p *SymbolTable) insert(node ast.Node, binding Binding) error {
	if err := p.checkUnique(node, binding.Name); err != nil {
		return err
	}
	//
	p.bindings[binding.Name] = binding
	//
	return nil
}

func (p *SymbolTable) checkUnique(node ast.Node, name string) error {
	if name == ast.RandomValues {
		return newError(DuplicateIdentifier, node, "identifier %q is reserved", name)
	} else if existing, ok := p.bindings[name]; ok {
		return newError(DuplicateIdentifier, node, "identifier %q already declared as %s", name, existing.Kind)
	}
	//
	return nil
}
