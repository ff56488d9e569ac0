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
	"math"
	"math/bits"
	"slices"
	"strings"
)

// Degree summarises the polynomial degree of a constraint.  The base degree
// accounts for trace column accesses, whilst each periodic column touched
// contributes an entry (its cycle length less one) to the multiset of cycles.
// The cycles are needed downstream to size composition polynomials.
type Degree struct {
	base uint
	// Sorted multiset, nil when empty.
	cycles []uint
}

// NewDegree constructs a degree record from a base degree and zero or more
// cycle contributions (in any order).  Zero contributions are dropped.
func NewDegree(base uint, cycles ...uint) Degree {
	var cs []uint
	//
	for _, c := range cycles {
		if c != 0 {
			cs = append(cs, c)
		}
	}
	//
	slices.Sort(cs)
	//
	return Degree{base, cs}
}

// Base returns the degree contributed by trace column accesses.
func (d Degree) Base() uint {
	return d.base
}

// Cycles returns the (sorted) multiset of periodic column contributions.
func (d Degree) Cycles() []uint {
	return slices.Clone(d.cycles)
}

// Total returns the effective degree, combining base and cycle contributions.
// This saturates at math.MaxUint.
func (d Degree) Total() uint {
	total, _ := checkedTotal(d)
	return total
}

// Equals checks whether two degree records are identical.
func (d Degree) Equals(other Degree) bool {
	return d.base == other.base && slices.Equal(d.cycles, other.cycles)
}

func (d Degree) String() string {
	if len(d.cycles) == 0 {
		return fmt.Sprintf("%d", d.base)
	}
	//
	cycles := make([]string, len(d.cycles))
	for i, c := range d.cycles {
		cycles[i] = fmt.Sprintf("%d", c)
	}
	//
	return fmt.Sprintf("%d{%s}", d.base, strings.Join(cycles, ","))
}

// Degree computes the degree of the expression rooted at a given handle.  If
// the degree exceeds what can be represented, then the result is saturated (see
// DegreeAnalysis).
func (p *Graph) Degree(ref NodeRef) Degree {
	degree, _ := NewDegreeAnalysis(p).Degree(ref)
	return degree
}

// Degrees computes the degrees of the expressions rooted at the given handles.
// Results are memoised across all roots, such that a subexpression shared by
// many constraints is analysed only once.
func (p *Graph) Degrees(refs []NodeRef) []Degree {
	var (
		analysis = NewDegreeAnalysis(p)
		degrees  = make([]Degree, len(refs))
	)
	//
	for i, ref := range refs {
		degrees[i], _ = analysis.Degree(ref)
	}
	//
	return degrees
}

// ============================================================================
// Degree Analysis
// ============================================================================

// DegreeAnalysis computes (and memoises) the degrees of nodes in a graph.  The
// graph may continue to grow between queries.  Degrees whose base, cycle
// contributions or total cannot be represented are said to overflow, and are
// saturated such that any affected value is math.MaxUint.
type DegreeAnalysis struct {
	graph    *Graph
	degrees  []Degree
	overflow []bool
	done     []bool
	// Number of nodes analysed so far.
	visits uint
}

// NewDegreeAnalysis constructs an analysis over a given graph.
func NewDegreeAnalysis(graph *Graph) *DegreeAnalysis {
	return &DegreeAnalysis{graph: graph}
}

// Degree returns the degree of the expression rooted at a given handle, along
// with false if that degree overflows.
func (p *DegreeAnalysis) Degree(root NodeRef) (Degree, bool) {
	// Account for nodes added since the last query
	if n := int(p.graph.Len()) - len(p.done); n > 0 {
		p.degrees = append(p.degrees, make([]Degree, n)...)
		p.overflow = append(p.overflow, make([]bool, n)...)
		p.done = append(p.done, make([]bool, n)...)
	}
	//
	p.analyse(root)
	//
	return p.degrees[root], !p.overflow[root]
}

// Analyse a given node via a post-order traversal of its operands.  An explicit
// stack is used so that very deep expressions cannot overflow the goroutine
// stack.
func (p *DegreeAnalysis) analyse(root NodeRef) {
	stack := []NodeRef{root}
	//
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		//
		if p.done[top] {
			stack = stack[:len(stack)-1]
			continue
		}
		//
		var (
			node    = p.graph.Node(top)
			pending = false
		)
		//
		for _, op := range node.Operands() {
			if !p.done[op] {
				stack = append(stack, op)
				pending = true
			}
		}
		//
		if !pending {
			var ok bool
			//
			p.degrees[top], ok = p.combine(node)
			p.overflow[top] = !ok || p.operandOverflow(node)
			p.done[top] = true
			p.visits++
			stack = stack[:len(stack)-1]
		}
	}
}

func (p *DegreeAnalysis) operandOverflow(node Node) bool {
	for _, op := range node.Operands() {
		if p.overflow[op] {
			return true
		}
	}
	//
	return false
}

// Determine the degree of a node whose operands have all been analysed,
// returning false if it overflows.
func (p *DegreeAnalysis) combine(node Node) (Degree, bool) {
	var degree Degree
	//
	switch n := node.(type) {
	case *Constant, *PublicInputAccess, *RandomAccess:
		return Degree{}, true
	case *TraceAccess:
		// NOTE: the row offset has no bearing on degree.
		return Degree{1, nil}, true
	case *PeriodicAccess:
		if n.CycleLength == 0 {
			return Degree{}, false
		}
		//
		degree = NewDegree(0, n.CycleLength-1)
	case *Add:
		degree = unionDegrees(p.degrees[n.Lhs], p.degrees[n.Rhs])
	case *Sub:
		degree = unionDegrees(p.degrees[n.Lhs], p.degrees[n.Rhs])
	case *Mul:
		var ok bool
		if degree, ok = sumDegrees(p.degrees[n.Lhs], p.degrees[n.Rhs]); !ok {
			return degree, false
		}
	case *Exp:
		var ok bool
		if degree, ok = scaleDegree(p.degrees[n.Arg], n.Pow); !ok {
			return degree, false
		}
	default:
		panic(fmt.Sprintf("unknown node encountered (%s)", node))
	}
	// Check the total is representable
	_, ok := checkedTotal(degree)
	//
	return degree, ok
}

// Degree of l + r (or l - r), which is the maximum of the base degrees along
// with the multiset union of cycles.
func unionDegrees(l Degree, r Degree) Degree {
	var (
		cycles []uint
		i, j   int
	)
	//
	for i < len(l.cycles) && j < len(r.cycles) {
		switch {
		case l.cycles[i] == r.cycles[j]:
			cycles = append(cycles, l.cycles[i])
			i++
			j++
		case l.cycles[i] < r.cycles[j]:
			cycles = append(cycles, l.cycles[i])
			i++
		default:
			cycles = append(cycles, r.cycles[j])
			j++
		}
	}
	//
	cycles = append(cycles, l.cycles[i:]...)
	cycles = append(cycles, r.cycles[j:]...)
	//
	return Degree{max(l.base, r.base), normalise(cycles)}
}

// Degree of l * r, which is the sum of the base degrees along with the
// multiset sum of cycles.
func sumDegrees(l Degree, r Degree) (Degree, bool) {
	cycles := append(slices.Clone(l.cycles), r.cycles...)
	slices.Sort(cycles)
	//
	base, carry := bits.Add(l.base, r.base, 0)
	if carry != 0 {
		return Degree{math.MaxUint, normalise(cycles)}, false
	}
	//
	return Degree{base, normalise(cycles)}, true
}

// Degree of d^k, where both base degree and every cycle contribution scale by
// k.
func scaleDegree(d Degree, k uint64) (Degree, bool) {
	if k == 0 {
		return Degree{}, true
	} else if k > math.MaxUint {
		return Degree{math.MaxUint, nil}, false
	}
	//
	var (
		ok     = true
		cycles = make([]uint, len(d.cycles))
		base   uint
	)
	//
	for i, c := range d.cycles {
		cycles[i], ok = checkedMul(c, uint(k), ok)
	}
	//
	base, ok = checkedMul(d.base, uint(k), ok)
	//
	return Degree{base, normalise(cycles)}, ok
}

// Multiply two values, saturating on overflow.  The given flag is returned,
// cleared if overflow occurred.
func checkedMul(x uint, y uint, ok bool) (uint, bool) {
	hi, lo := bits.Mul(x, y)
	if hi != 0 {
		return math.MaxUint, false
	}
	//
	return lo, ok
}

func checkedTotal(d Degree) (uint, bool) {
	total := d.base
	//
	for _, c := range d.cycles {
		var carry uint
		//
		if total, carry = bits.Add(total, c, 0); carry != 0 {
			return math.MaxUint, false
		}
	}
	//
	return total, true
}

func normalise(cycles []uint) []uint {
	if len(cycles) == 0 {
		return nil
	}
	//
	return cycles
}
