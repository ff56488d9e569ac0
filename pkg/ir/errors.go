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
	"errors"
	"fmt"

	"github.com/consensys/go-airscript/pkg/ast"
)

// ErrorKind classifies the semantic errors which can arise when building an
// IR.  Every kind corresponds to a specific malformed-source condition.
type ErrorKind uint8

const (
	// DuplicateIdentifier indicates a name was declared more than once.
	DuplicateIdentifier ErrorKind = iota
	// InvalidPeriodicColumnCycle indicates a periodic column whose length is
	// not a power of two, or is below the minimum cycle length.
	InvalidPeriodicColumnCycle
	// UndeclaredIdentifier indicates a reference to a name never declared.
	UndeclaredIdentifier
	// InvalidNextRowUsage indicates a next-row access where none is permitted.
	InvalidNextRowUsage
	// DuplicateBoundaryAssertion indicates a second assertion for the same
	// column at the same boundary.
	DuplicateBoundaryAssertion
	// MissingSection indicates the boundary or transition constraints are
	// absent.
	MissingSection
	// InvalidIdentifierUsage indicates a name which resolves, but to something
	// which cannot be used in the given position.
	InvalidIdentifierUsage
	// IndexOutOfRange indicates an access beyond the declared size of a public
	// input.
	IndexOutOfRange
	// InvalidFieldElement indicates a literal which is not a valid field
	// element.
	InvalidFieldElement
	// DegreeOverflow indicates a transition constraint whose degree is too
	// large to be represented.
	DegreeOverflow
	// InvalidConfig indicates a configuration which cannot be used to build an
	// IR.
	InvalidConfig
)

func (k ErrorKind) String() string {
	switch k {
	case DuplicateIdentifier:
		return "duplicate identifier"
	case InvalidPeriodicColumnCycle:
		return "invalid periodic column cycle"
	case UndeclaredIdentifier:
		return "undeclared identifier"
	case InvalidNextRowUsage:
		return "invalid next row usage"
	case DuplicateBoundaryAssertion:
		return "duplicate boundary assertion"
	case MissingSection:
		return "missing section"
	case InvalidIdentifierUsage:
		return "invalid identifier usage"
	case IndexOutOfRange:
		return "index out of range"
	case InvalidFieldElement:
		return "invalid field element"
	case DegreeOverflow:
		return "degree overflow"
	case InvalidConfig:
		return "invalid configuration"
	default:
		return "unknown error"
	}
}

// SemanticError reports a problem with the meaning (rather than the syntax) of
// a given source.  Where possible, the offending node is retained so that the
// error can be mapped back to a location in the original text.
type SemanticError struct {
	kind ErrorKind
	// Offending node, which may be nil.
	node ast.Node
	msg  string
}

// Kind returns the classification of this error.
func (e *SemanticError) Kind() ErrorKind {
	return e.kind
}

// Node returns the offending node of this error, or nil if there is none (e.g.
// for a missing section).
func (e *SemanticError) Node() ast.Node {
	return e.node
}

// Message returns the error message without its classification.
func (e *SemanticError) Message() string {
	return e.msg
}

// Error implements the error interface.
func (e *SemanticError) Error() string {
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

// IsKind checks whether a given error is a semantic error of a given kind.
func IsKind(err error, kind ErrorKind) bool {
	var serr *SemanticError
	//
	if errors.As(err, &serr) {
		return serr.kind == kind
	}
	//
	return false
}

func newError(kind ErrorKind, node ast.Node, format string, args ...any) *SemanticError {
	return &SemanticError{kind, node, fmt.Sprintf(format, args...)}
}
