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
package graph

import (
	"fmt"

	"github.com/consensys/go-airscript/pkg/util/collection/hash"
	"github.com/consensys/go-airscript/pkg/util/source/sexp"
)

// View provides read-only access to an algebraic graph.  This is what
// consumers of a completed IR see, such that shared subexpressions can be
// walked exactly once.
type View interface {
	// Len returns the number of nodes in the graph.
	Len() uint
	// Node returns the node identified by a given handle.
	Node(NodeRef) Node
	// Degree computes the degree of the expression rooted at a given handle.
	Degree(NodeRef) Degree
	// Degrees computes the degrees of the expressions rooted at the given
	// handles, sharing work across all of them.
	Degrees([]NodeRef) []Degree
	// Lisp expands the expression rooted at a given handle into a tree.
	Lisp(NodeRef) sexp.SExp
}

// Graph is an append-only arena of expression nodes.  Insertion is
// deduplicating: a node structurally identical to one already present is
// never added again, rather the existing handle is returned.  Since operands
// must exist before a node referring to them can be inserted, every operand
// handle is strictly smaller than that of its parent and the graph is acyclic
// by construction.
type Graph struct {
	// Nodes in order of insertion, such that a node's handle is its index.
	nodes []Node
	// Structural index used for deduplication.
	index *hash.Map[Node, NodeRef]
}

var _ View = (*Graph)(nil)

// NewGraph constructs an initially empty graph.
func NewGraph() *Graph {
	return &Graph{nil, hash.NewMap[Node, NodeRef](0)}
}

// Insert a node into this graph, returning its handle.  If a structurally
// identical node already exists then its handle is returned instead.  This
// panics if the node refers to an operand which does not exist.
func (p *Graph) Insert(node Node) NodeRef {
	if ref, ok := p.index.Get(node); ok {
		return ref
	}
	// Sanity check operands
	for _, op := range node.Operands() {
		if uint(op) >= uint(len(p.nodes)) {
			panic(fmt.Sprintf("invalid operand %s for node %s", op, node))
		}
	}
	//
	ref := NodeRef(len(p.nodes))
	p.nodes = append(p.nodes, node)
	p.index.Insert(node, ref)
	//
	return ref
}

// Len returns the number of nodes in the graph.
func (p *Graph) Len() uint {
	return uint(len(p.nodes))
}

// Node returns the node identified by a given handle.
func (p *Graph) Node(ref NodeRef) Node {
	return p.nodes[ref]
}

// Lisp expands the expression rooted at a given handle into a tree.  Shared
// subexpressions are expanded once per use, so this is intended only for
// debugging.
func (p *Graph) Lisp(ref NodeRef) sexp.SExp {
	switch n := p.nodes[ref].(type) {
	case *Add:
		return sexp.NewList(sexp.NewSymbol("+"), p.Lisp(n.Lhs), p.Lisp(n.Rhs))
	case *Sub:
		return sexp.NewList(sexp.NewSymbol("-"), p.Lisp(n.Lhs), p.Lisp(n.Rhs))
	case *Mul:
		return sexp.NewList(sexp.NewSymbol("*"), p.Lisp(n.Lhs), p.Lisp(n.Rhs))
	case *Exp:
		return sexp.NewList(sexp.NewSymbol("^"), p.Lisp(n.Arg), sexp.NewSymbol(fmt.Sprintf("%d", n.Pow)))
	default:
		return sexp.NewSymbol(n.String())
	}
}

// ReadOnly returns a view of a given graph through which it cannot be
// modified.  In particular, every node returned is a copy, such that mutating
// it has no effect on the graph.
func ReadOnly(graph *Graph) View {
	return readOnlyView{graph}
}

type readOnlyView struct {
	graph *Graph
}

func (p readOnlyView) Len() uint                      { return p.graph.Len() }
func (p readOnlyView) Degree(ref NodeRef) Degree       { return p.graph.Degree(ref) }
func (p readOnlyView) Degrees(refs []NodeRef) []Degree { return p.graph.Degrees(refs) }
func (p readOnlyView) Lisp(ref NodeRef) sexp.SExp      { return p.graph.Lisp(ref) }
func (p readOnlyView) Node(ref NodeRef) Node           { return copyNode(p.graph.Node(ref)) }

func copyNode(node Node) Node {
	switch n := node.(type) {
	case *Constant:
		c := *n
		return &c
	case *TraceAccess:
		c := *n
		return &c
	case *PeriodicAccess:
		c := *n
		return &c
	case *PublicInputAccess:
		c := *n
		return &c
	case *RandomAccess:
		c := *n
		return &c
	case *Add:
		c := *n
		return &c
	case *Sub:
		c := *n
		return &c
	case *Mul:
		c := *n
		return &c
	case *Exp:
		c := *n
		return &c
	default:
		panic(fmt.Sprintf("unknown node encountered (%s)", node))
	}
}
