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
	"io"
	"strings"

	"github.com/consensys/go-airscript/pkg/ir/graph"
	"github.com/consensys/go-airscript/pkg/util/source/sexp"
)

// DefaultTextWidth is the width used when printing an IR without a terminal.
const DefaultTextWidth = 80

// Print writes a textual rendering of a given IR, covering its declarations,
// boundary assertions, graph nodes and transition constraints (in that order).
// Constraint expressions are expanded and formatted to fit the given width.
func Print(w io.Writer, air *AirIR, width uint) error {
	var (
		builder   strings.Builder
		formatter = sexp.NewFormatter(width)
	)
	// Declarations
	fmt.Fprintf(&builder, "air %s\n", air.Name())
	fmt.Fprintf(&builder, "trace main %d aux %d\n", air.MainWidth(), air.AuxWidth())
	//
	for _, input := range air.PublicInputs() {
		fmt.Fprintf(&builder, "public %s %d\n", input.Name, input.Size)
	}
	//
	for _, col := range air.PeriodicColumns() {
		values := make([]string, len(col.Values))
		for i := range col.Values {
			values[i] = fmt.Sprintf("%d", col.Values[i].Uint64())
		}
		//
		fmt.Fprintf(&builder, "periodic %s %d (%s)\n", col.Name, col.CycleLength(), strings.Join(values, " "))
	}
	// Boundary assertions
	printAssertions(&builder, "first main", air.MainFirstBoundaryConstraints())
	printAssertions(&builder, "last main", air.MainLastBoundaryConstraints())
	printAssertions(&builder, "first aux", air.AuxFirstBoundaryConstraints())
	printAssertions(&builder, "last aux", air.AuxLastBoundaryConstraints())
	// Graph nodes
	g := air.Graph()
	for i := uint(0); i < g.Len(); i++ {
		fmt.Fprintf(&builder, "node %s = %s\n", graph.NodeRef(i), g.Node(graph.NodeRef(i)))
	}
	// Transition constraints
	printConstraints(&builder, formatter, "main", g, air.MainTransitionConstraints(), air.MainDegrees())
	printConstraints(&builder, formatter, "aux", g, air.AuxTransitionConstraints(), air.AuxDegrees())
	//
	_, err := io.WriteString(w, builder.String())
	//
	return err
}

func (p *AirIR) String() string {
	var builder strings.Builder
	// Cannot fail
	_ = Print(&builder, p, DefaultTextWidth)
	//
	return builder.String()
}

func printAssertions(builder *strings.Builder, prefix string, assertions []BoundaryAssertion) {
	for _, a := range assertions {
		fmt.Fprintf(builder, "%s[%d] = %s\n", prefix, a.Column, a.Value.Lisp())
	}
}

func printConstraints(builder *strings.Builder, formatter *sexp.Formatter, segment string, g graph.View,
	roots []graph.NodeRef, degrees []graph.Degree) {
	//
	for i, root := range roots {
		fmt.Fprintf(builder, "constraint %s %s degree %s\n", segment, root, degrees[i])
		//
		for _, line := range strings.Split(strings.TrimSuffix(formatter.Format(g.Lisp(root)), "\n"), "\n") {
			fmt.Fprintf(builder, "   %s\n", line)
		}
	}
}
