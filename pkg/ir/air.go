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
	"slices"

	"github.com/consensys/go-airscript/pkg/ast"
	"github.com/consensys/go-airscript/pkg/ir/graph"
	log "github.com/sirupsen/logrus"
)

// AirIR is the validated intermediate representation of an AIR.  Once built,
// an AirIR is never modified and can be shared freely.  In particular, all
// accessors return copies of any underlying slices, and the graph is exposed
// through a read-only view.  Boundary value expressions are shared with the
// IR and must not be modified.
type AirIR struct {
	name            string
	mainWidth       uint
	auxWidth        uint
	publicInputs    []PublicInput
	periodicColumns []PeriodicColumn
	boundaries      *BoundaryConstraints
	transitions     *TransitionConstraints
	// Degrees of main constraints (in order)
	mainDegrees []graph.Degree
	// Degrees of aux constraints (in order)
	auxDegrees []graph.Degree
}

// NewAirIR builds the IR for a given source using the default configuration.
func NewAirIR(src *ast.Source) (*AirIR, error) {
	return BuildAirIR(src, DefaultConfig())
}

// BuildAirIR builds the IR for a given source.  Declarations are collected
// first, such that constraints can be resolved against them regardless of the
// order in which sections are given.  Construction stops at the first error
// encountered.
func BuildAirIR(src *ast.Source, config Config) (*AirIR, error) {
	if err := config.Validate(); err != nil {
		return nil, newError(InvalidConfig, nil, "%s", err)
	}
	//
	var (
		symbols     = NewSymbolTable(config.MinCycleLength)
		boundaries  = NewBoundaryConstraints()
		transitions = NewTransitionConstraints()
	)
	// Pass 1
	name, err := collectDeclarations(src, config.DefaultName, symbols)
	if err != nil {
		return nil, err
	}
	// Pass 2
	if err := resolveConstraints(src, symbols, boundaries, transitions); err != nil {
		return nil, err
	}
	// Validate
	if boundaries.IsEmpty() {
		return nil, newError(MissingSection, nil, "boundary constraints section is missing")
	} else if transitions.Len() == 0 {
		return nil, newError(MissingSection, nil, "transition constraints section is missing")
	}
	//
	var (
		mainWidth, auxWidth      = symbols.Widths()
		publicInputs, periodicCs = symbols.Declarations()
	)
	//
	air := &AirIR{
		name:            name,
		mainWidth:       mainWidth,
		auxWidth:        auxWidth,
		publicInputs:    publicInputs,
		periodicColumns: periodicCs,
		boundaries:      boundaries,
		transitions:     transitions,
		mainDegrees:     transitions.MainDegrees(),
		auxDegrees:      transitions.AuxDegrees(),
	}
	//
	log.Debugf("built air %q with %d boundary assertions, %d transition constraints and %d graph nodes",
		name, boundaries.MainLen()+boundaries.AuxLen(), transitions.Len(), transitions.Graph().Len())
	//
	return air, nil
}

// Populate the symbol table from all declaration sections, returning the name
// of the AIR.  Where several names are given, the last one wins.
func collectDeclarations(src *ast.Source, name string, symbols *SymbolTable) (string, error) {
	for _, section := range src.Sections {
		switch s := section.(type) {
		case *ast.AirDef:
			name = s.Name
		case *ast.TraceColumns:
			for _, col := range s.Main {
				if _, err := symbols.InsertMainTraceColumn(col); err != nil {
					return name, err
				}
			}
			//
			for _, col := range s.Aux {
				if _, err := symbols.InsertAuxTraceColumn(col); err != nil {
					return name, err
				}
			}
		case *ast.PublicInputs:
			for _, input := range s.Inputs {
				if err := symbols.InsertPublicInput(input); err != nil {
					return name, err
				}
			}
		case *ast.PeriodicColumns:
			for _, col := range s.Columns {
				if _, err := symbols.InsertPeriodicColumn(col); err != nil {
					return name, err
				}
			}
		}
	}
	//
	var (
		mainWidth, auxWidth = symbols.Widths()
		inputs, periodics   = symbols.Declarations()
	)
	//
	log.Debugf("declared %d main columns, %d aux columns, %d public inputs and %d periodic columns",
		mainWidth, auxWidth, len(inputs), len(periodics))
	//
	return name, nil
}

// Resolve and insert every constraint from all constraint sections.
func resolveConstraints(src *ast.Source, symbols *SymbolTable, boundaries *BoundaryConstraints,
	transitions *TransitionConstraints) error {
	//
	for _, section := range src.Sections {
		switch s := section.(type) {
		case *ast.BoundaryConstraints:
			for _, c := range s.Constraints {
				if err := boundaries.Insert(symbols, c); err != nil {
					return err
				}
			}
		case *ast.TransitionConstraints:
			for _, c := range s.Constraints {
				if err := transitions.Insert(symbols, c); err != nil {
					return err
				}
			}
		}
	}
	//
	return nil
}

// Name returns the name of this AIR.
func (p *AirIR) Name() string {
	return p.name
}

// MainWidth returns the number of columns in the main trace segment.
func (p *AirIR) MainWidth() uint {
	return p.mainWidth
}

// AuxWidth returns the number of columns in the auxiliary trace segment.
func (p *AirIR) AuxWidth() uint {
	return p.auxWidth
}

// PublicInputs returns the declared public inputs, in order of declaration.
func (p *AirIR) PublicInputs() []PublicInput {
	return slices.Clone(p.publicInputs)
}

// PeriodicColumns returns the declared periodic columns, in order of
// declaration.
func (p *AirIR) PeriodicColumns() []PeriodicColumn {
	columns := make([]PeriodicColumn, len(p.periodicColumns))
	//
	for i, c := range p.periodicColumns {
		columns[i] = PeriodicColumn{c.Name, slices.Clone(c.Values)}
	}
	//
	return columns
}

// PeriodicCycleLengths returns the cycle length of each periodic column, in
// order of declaration.
func (p *AirIR) PeriodicCycleLengths() []uint {
	lengths := make([]uint, len(p.periodicColumns))
	//
	for i, c := range p.periodicColumns {
		lengths[i] = c.CycleLength()
	}
	//
	return lengths
}

// NumMainAssertions returns the number of boundary assertions on the main
// trace segment.
func (p *AirIR) NumMainAssertions() uint {
	return p.boundaries.MainLen()
}

// NumAuxAssertions returns the number of boundary assertions on the auxiliary
// trace segment.
func (p *AirIR) NumAuxAssertions() uint {
	return p.boundaries.AuxLen()
}

// MainFirstBoundaryConstraints returns the first-row assertions on the main
// segment, in column order.
func (p *AirIR) MainFirstBoundaryConstraints() []BoundaryAssertion {
	return p.boundaries.MainFirst()
}

// MainLastBoundaryConstraints returns the last-row assertions on the main
// segment, in column order.
func (p *AirIR) MainLastBoundaryConstraints() []BoundaryAssertion {
	return p.boundaries.MainLast()
}

// AuxFirstBoundaryConstraints returns the first-row assertions on the
// auxiliary segment, in column order.
func (p *AirIR) AuxFirstBoundaryConstraints() []BoundaryAssertion {
	return p.boundaries.AuxFirst()
}

// AuxLastBoundaryConstraints returns the last-row assertions on the auxiliary
// segment, in column order.
func (p *AirIR) AuxLastBoundaryConstraints() []BoundaryAssertion {
	return p.boundaries.AuxLast()
}

// MainDegrees returns the degree of each main transition constraint, in the
// same order as MainTransitionConstraints.
func (p *AirIR) MainDegrees() []graph.Degree {
	return slices.Clone(p.mainDegrees)
}

// AuxDegrees returns the degree of each auxiliary transition constraint, in
// the same order as AuxTransitionConstraints.
func (p *AirIR) AuxDegrees() []graph.Degree {
	return slices.Clone(p.auxDegrees)
}

// MainTransitionConstraints returns the graph roots of the main transition
// constraints.
func (p *AirIR) MainTransitionConstraints() []graph.NodeRef {
	return slices.Clone(p.transitions.MainConstraints())
}

// AuxTransitionConstraints returns the graph roots of the auxiliary transition
// constraints.
func (p *AirIR) AuxTransitionConstraints() []graph.NodeRef {
	return slices.Clone(p.transitions.AuxConstraints())
}

// Graph provides read access to the graph shared by all transition
// constraints.
func (p *AirIR) Graph() graph.View {
	return graph.ReadOnly(p.transitions.Graph())
}
