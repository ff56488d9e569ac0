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
	"math"

	"github.com/consensys/go-airscript/pkg/ast"
	"github.com/consensys/go-airscript/pkg/ir/graph"
)

// TransitionConstraints holds the transition constraints of an AIR.  Each
// constraint is the root of an expression in a shared algebraic graph which
// must evaluate to zero on every pair of consecutive rows.  Constraints which
// touch the auxiliary segment (i.e. an auxiliary column or a random value) are
// kept apart from those which touch only the main segment.
type TransitionConstraints struct {
	graph    *graph.Graph
	analysis *graph.DegreeAnalysis
	main     []graph.NodeRef
	aux      []graph.NodeRef
}

// NewTransitionConstraints constructs an empty set of transition constraints
// over a fresh graph.
func NewTransitionConstraints() *TransitionConstraints {
	g := graph.NewGraph()
	return &TransitionConstraints{graph: g, analysis: graph.NewDegreeAnalysis(g)}
}

// Insert a transition constraint, resolving all names it uses via a given
// symbol table and adding its expression to the underlying graph.  A constraint
// whose degree cannot be represented is rejected.
func (p *TransitionConstraints) Insert(symbols *SymbolTable, constraint *ast.TransitionConstraint) error {
	root, segment, err := p.insertExpr(symbols, constraint.Expr)
	if err != nil {
		return err
	}
	//
	if _, ok := p.analysis.Degree(root); !ok {
		return newError(DegreeOverflow, constraint, "degree of %s exceeds %d",
			constraint.Expr.Lisp(), uint(math.MaxUint))
	}
	//
	switch segment {
	case graph.Aux:
		p.aux = append(p.aux, root)
	default:
		p.main = append(p.main, root)
	}
	//
	return nil
}

// Graph returns the graph holding all constraint expressions.
func (p *TransitionConstraints) Graph() *graph.Graph {
	return p.graph
}

// MainConstraints returns the roots of all constraints over the main segment,
// in order of insertion.
func (p *TransitionConstraints) MainConstraints() []graph.NodeRef {
	return p.main
}

// AuxConstraints returns the roots of all constraints touching the auxiliary
// segment, in order of insertion.
func (p *TransitionConstraints) AuxConstraints() []graph.NodeRef {
	return p.aux
}

// MainDegrees returns the degree of each main constraint, in order of
// insertion.
func (p *TransitionConstraints) MainDegrees() []graph.Degree {
	return p.degrees(p.main)
}

// AuxDegrees returns the degree of each auxiliary constraint, in order of
// insertion.
func (p *TransitionConstraints) AuxDegrees() []graph.Degree {
	return p.degrees(p.aux)
}

func (p *TransitionConstraints) degrees(roots []graph.NodeRef) []graph.Degree {
	degrees := make([]graph.Degree, len(roots))
	//
	for i, root := range roots {
		degrees[i], _ = p.analysis.Degree(root)
	}
	//
	return degrees
}

// Len returns the total number of constraints.
func (p *TransitionConstraints) Len() uint {
	return uint(len(p.main) + len(p.aux))
}

// Insert an expression into the graph bottom-up, returning its root and the
// segment it touches.
func (p *TransitionConstraints) insertExpr(symbols *SymbolTable, expr ast.Expr) (graph.NodeRef, graph.Segment, error) {
	switch e := expr.(type) {
	case *ast.Constant:
		if err := validateConstant(e); err != nil {
			return 0, graph.Main, err
		}
		//
		return p.graph.Insert(graph.NewConstant(e.Value)), graph.Main, nil
	case *ast.Variable:
		return p.insertVariable(symbols, e)
	case *ast.Element:
		return p.insertElement(symbols, e)
	case *ast.Add:
		return p.insertBinary(symbols, e.Lhs, e.Rhs, func(l, r graph.NodeRef) graph.Node { return &graph.Add{Lhs: l, Rhs: r} })
	case *ast.Sub:
		return p.insertBinary(symbols, e.Lhs, e.Rhs, func(l, r graph.NodeRef) graph.Node { return &graph.Sub{Lhs: l, Rhs: r} })
	case *ast.Mul:
		return p.insertBinary(symbols, e.Lhs, e.Rhs, func(l, r graph.NodeRef) graph.Node { return &graph.Mul{Lhs: l, Rhs: r} })
	case *ast.Exp:
		arg, segment, err := p.insertExpr(symbols, e.Arg)
		if err != nil {
			return 0, segment, err
		}
		//
		return p.graph.Insert(&graph.Exp{Arg: arg, Pow: e.Pow}), segment, nil
	default:
		panic(fmt.Sprintf("unknown expression encountered (%s)", expr.Lisp()))
	}
}

func (p *TransitionConstraints) insertBinary(symbols *SymbolTable, lhs ast.Expr, rhs ast.Expr,
	constructor func(graph.NodeRef, graph.NodeRef) graph.Node) (graph.NodeRef, graph.Segment, error) {
	//
	l, lseg, err := p.insertExpr(symbols, lhs)
	if err != nil {
		return 0, lseg, err
	}
	//
	r, rseg, err := p.insertExpr(symbols, rhs)
	if err != nil {
		return 0, rseg, err
	}
	//
	return p.graph.Insert(constructor(l, r)), max(lseg, rseg), nil
}

func (p *TransitionConstraints) insertVariable(symbols *SymbolTable, v *ast.Variable) (graph.NodeRef, graph.Segment, error) {
	var offset = graph.Current
	//
	if v.Next {
		offset = graph.Next
	}
	//
	binding, err := symbols.Resolve(v.Name, v)
	if err != nil {
		return 0, graph.Main, err
	}
	//
	switch binding.Kind {
	case MainColumnBinding:
		return p.graph.Insert(&graph.TraceAccess{Segment: graph.Main, Column: binding.Index, Offset: offset}),
			graph.Main, nil
	case AuxColumnBinding:
		return p.graph.Insert(&graph.TraceAccess{Segment: graph.Aux, Column: binding.Index, Offset: offset}),
			graph.Aux, nil
	case PeriodicColumnBinding:
		if v.Next {
			return 0, graph.Main, newError(InvalidNextRowUsage, v,
				"periodic column %q cannot be accessed on the next row", v.Name)
		}
		//
		return p.graph.Insert(&graph.PeriodicAccess{Column: binding.Index, CycleLength: binding.Size}),
			graph.Main, nil
	default:
		return 0, graph.Main, newError(InvalidIdentifierUsage, v,
			"public input %q must be accessed by element (e.g. [%s 0])", v.Name, v.Name)
	}
}

func (p *TransitionConstraints) insertElement(symbols *SymbolTable, e *ast.Element) (graph.NodeRef, graph.Segment, error) {
	if _, err := resolveElement(symbols, e); err != nil {
		return 0, graph.Main, err
	} else if e.Name == ast.RandomValues {
		return p.graph.Insert(&graph.RandomAccess{Index: e.Index}), graph.Aux, nil
	}
	//
	return p.graph.Insert(&graph.PublicInputAccess{Name: e.Name, Index: e.Index}), graph.Main, nil
}
