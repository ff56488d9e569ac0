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
package termio

import (
	"os"

	"golang.org/x/term"
)

// Terminal describes the properties of the terminal (if any) attached to a
// given output.
type Terminal struct {
	// file descriptor for output.
	fd int
	// Whether or not the output is a terminal.
	isTerminal bool
}

// NewTerminal determines the terminal properties of a given output file.
func NewTerminal(file *os.File) Terminal {
	fd := int(file.Fd())
	//
	return Terminal{fd, term.IsTerminal(fd)}
}

// IsTerminal checks whether the underlying output is a terminal, and hence
// whether escapes can be used.
func (p Terminal) IsTerminal() bool {
	return p.isTerminal
}

// Width returns the width of the terminal, or the given default where this
// cannot be determined (e.g. because output is redirected to a file).
func (p Terminal) Width(def uint) uint {
	if !p.isTerminal {
		return def
	}
	//
	width, _, err := term.GetSize(p.fd)
	if err != nil || width <= 0 {
		return def
	}
	//
	return uint(width)
}

// Highlight wraps some text in the given escape, or returns the text unchanged
// if the output is not a terminal.
func (p Terminal) Highlight(escape AnsiEscape, text string) string {
	if !p.isTerminal {
		return text
	}
	//
	return escape.Build() + text + ResetAnsiEscape().Build()
}
