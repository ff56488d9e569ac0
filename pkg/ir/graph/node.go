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

	"github.com/consensys/gnark-crypto/field/goldilocks"
	"github.com/consensys/go-airscript/pkg/util/collection/hash"
)

// NodeRef is an opaque handle identifying a node within a graph.  Handles are
// stable for the lifetime of the graph which issued them.
type NodeRef uint

func (r NodeRef) String() string {
	return fmt.Sprintf("#%d", uint(r))
}

// Node represents a single vertex in the algebraic graph.  Leaves refer to
// constants, trace cells, periodic columns, public inputs or random values.
// Internal nodes refer to their operands by handle, and are therefore only
// meaningful with respect to the graph in which they were inserted.
type Node interface {
	hash.Hasher[Node]
	// Operands returns the handles of the immediate operands of this node (if
	// any), from left to right.
	Operands() []NodeRef
	// String returns a short textual description of this node, where operands
	// are written as handles.
	String() string
}

// Tags distinguishing node kinds when hashing.
const (
	constantTag uint64 = iota
	traceTag
	periodicTag
	publicInputTag
	randomTag
	addTag
	subTag
	mulTag
	expTag
)

// ============================================================================
// Constant
// ============================================================================

// Constant represents a fixed field element.
type Constant struct {
	Value goldilocks.Element
}

// NewConstant constructs a constant node from a given (reduced) value.
func NewConstant(value uint64) *Constant {
	return &Constant{goldilocks.NewElement(value)}
}

// Equals implementation for the Hasher interface.
func (p *Constant) Equals(other Node) bool {
	o, ok := other.(*Constant)
	return ok && p.Value.Equal(&o.Value)
}

// Hash implementation for the Hasher interface.
func (p *Constant) Hash() uint64 {
	return hash.Combine(constantTag, p.Value.Uint64())
}

// Operands of a constant are empty.
func (p *Constant) Operands() []NodeRef { return nil }

func (p *Constant) String() string {
	return fmt.Sprintf("%d", p.Value.Uint64())
}

// ============================================================================
// Trace Access
// ============================================================================

// Segment identifies a segment of the execution trace.
type Segment uint8

const (
	// Main is the main trace segment.
	Main Segment = iota
	// Aux is the auxiliary trace segment, which is built using the verifier's
	// random values.
	Aux
)

func (s Segment) String() string {
	if s == Main {
		return "main"
	}
	//
	return "aux"
}

// RowOffset identifies which row of the trace a column access refers to,
// relative to the row on which a constraint is being evaluated.
type RowOffset uint8

const (
	// Current refers to the row on which the constraint is evaluated.
	Current RowOffset = iota
	// Next refers to the row immediately following.
	Next
)

// TraceAccess represents reading the value of a given trace column on either
// the current or next row.
type TraceAccess struct {
	Segment Segment
	Column  uint
	Offset  RowOffset
}

// Equals implementation for the Hasher interface.
func (p *TraceAccess) Equals(other Node) bool {
	o, ok := other.(*TraceAccess)
	return ok && *p == *o
}

// Hash implementation for the Hasher interface.
func (p *TraceAccess) Hash() uint64 {
	return hash.Combine(traceTag, uint64(p.Segment), uint64(p.Column), uint64(p.Offset))
}

// Operands of a trace access are empty.
func (p *TraceAccess) Operands() []NodeRef { return nil }

func (p *TraceAccess) String() string {
	if p.Offset == Next {
		return fmt.Sprintf("%s[%d]'", p.Segment, p.Column)
	}
	//
	return fmt.Sprintf("%s[%d]", p.Segment, p.Column)
}

// ============================================================================
// Periodic Access
// ============================================================================

// PeriodicAccess represents reading the value of a given periodic column.  The
// cycle length of the column is retained for degree analysis.
type PeriodicAccess struct {
	Column      uint
	CycleLength uint
}

// Equals implementation for the Hasher interface.
func (p *PeriodicAccess) Equals(other Node) bool {
	o, ok := other.(*PeriodicAccess)
	return ok && *p == *o
}

// Hash implementation for the Hasher interface.
func (p *PeriodicAccess) Hash() uint64 {
	return hash.Combine(periodicTag, uint64(p.Column), uint64(p.CycleLength))
}

// Operands of a periodic access are empty.
func (p *PeriodicAccess) Operands() []NodeRef { return nil }

func (p *PeriodicAccess) String() string {
	return fmt.Sprintf("periodic[%d]", p.Column)
}

// ============================================================================
// Public Input Access
// ============================================================================

// PublicInputAccess represents reading a given element of a named public
// input.
type PublicInputAccess struct {
	Name  string
	Index uint
}

// Equals implementation for the Hasher interface.
func (p *PublicInputAccess) Equals(other Node) bool {
	o, ok := other.(*PublicInputAccess)
	return ok && *p == *o
}

// Hash implementation for the Hasher interface.
func (p *PublicInputAccess) Hash() uint64 {
	return hash.Combine(publicInputTag, hash.String(p.Name), uint64(p.Index))
}

// Operands of a public input access are empty.
func (p *PublicInputAccess) Operands() []NodeRef { return nil }

func (p *PublicInputAccess) String() string {
	return fmt.Sprintf("%s[%d]", p.Name, p.Index)
}

// ============================================================================
// Random Access
// ============================================================================

// RandomAccess represents reading one of the verifier's random values.
type RandomAccess struct {
	Index uint
}

// Equals implementation for the Hasher interface.
func (p *RandomAccess) Equals(other Node) bool {
	o, ok := other.(*RandomAccess)
	return ok && *p == *o
}

// Hash implementation for the Hasher interface.
func (p *RandomAccess) Hash() uint64 {
	return hash.Combine(randomTag, uint64(p.Index))
}

// Operands of a random access are empty.
func (p *RandomAccess) Operands() []NodeRef { return nil }

func (p *RandomAccess) String() string {
	return fmt.Sprintf("$rand[%d]", p.Index)
}

// ============================================================================
// Add / Sub / Mul
// ============================================================================

// Add represents the sum of two nodes.
type Add struct {
	Lhs NodeRef
	Rhs NodeRef
}

// Equals implementation for the Hasher interface.
func (p *Add) Equals(other Node) bool {
	o, ok := other.(*Add)
	return ok && *p == *o
}

// Hash implementation for the Hasher interface.
func (p *Add) Hash() uint64 {
	return hash.Combine(addTag, uint64(p.Lhs), uint64(p.Rhs))
}

// Operands returns the left and right operands.
func (p *Add) Operands() []NodeRef { return []NodeRef{p.Lhs, p.Rhs} }

func (p *Add) String() string {
	return fmt.Sprintf("(+ %s %s)", p.Lhs, p.Rhs)
}

// Sub represents the difference of two nodes.
type Sub struct {
	Lhs NodeRef
	Rhs NodeRef
}

// Equals implementation for the Hasher interface.
func (p *Sub) Equals(other Node) bool {
	o, ok := other.(*Sub)
	return ok && *p == *o
}

// Hash implementation for the Hasher interface.
func (p *Sub) Hash() uint64 {
	return hash.Combine(subTag, uint64(p.Lhs), uint64(p.Rhs))
}

// Operands returns the left and right operands.
func (p *Sub) Operands() []NodeRef { return []NodeRef{p.Lhs, p.Rhs} }

func (p *Sub) String() string {
	return fmt.Sprintf("(- %s %s)", p.Lhs, p.Rhs)
}

// Mul represents the product of two nodes.
type Mul struct {
	Lhs NodeRef
	Rhs NodeRef
}

// Equals implementation for the Hasher interface.
func (p *Mul) Equals(other Node) bool {
	o, ok := other.(*Mul)
	return ok && *p == *o
}

// Hash implementation for the Hasher interface.
func (p *Mul) Hash() uint64 {
	return hash.Combine(mulTag, uint64(p.Lhs), uint64(p.Rhs))
}

// Operands returns the left and right operands.
func (p *Mul) Operands() []NodeRef { return []NodeRef{p.Lhs, p.Rhs} }

func (p *Mul) String() string {
	return fmt.Sprintf("(* %s %s)", p.Lhs, p.Rhs)
}

// ============================================================================
// Exp
// ============================================================================

// Exp represents a node raised to a constant power.
type Exp struct {
	Arg NodeRef
	Pow uint64
}

// Equals implementation for the Hasher interface.
func (p *Exp) Equals(other Node) bool {
	o, ok := other.(*Exp)
	return ok && *p == *o
}

// Hash implementation for the Hasher interface.
func (p *Exp) Hash() uint64 {
	return hash.Combine(expTag, uint64(p.Arg), p.Pow)
}

// Operands returns the base of the exponent.
func (p *Exp) Operands() []NodeRef { return []NodeRef{p.Arg} }

func (p *Exp) String() string {
	return fmt.Sprintf("(^ %s %d)", p.Arg, p.Pow)
}
