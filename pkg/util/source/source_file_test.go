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
package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceFile_LineOf(t *testing.T) {
	srcfile := NewSourceFile("test.lisp", []byte("(air A)\n\n(trace-columns (main a))"))
	//
	checkLine(t, srcfile, 0, 1, "(air A)")
	checkLine(t, srcfile, 7, 1, "(air A)")
	checkLine(t, srcfile, 8, 2, "")
	checkLine(t, srcfile, 9, 3, "(trace-columns (main a))")
	checkLine(t, srcfile, 32, 3, "(trace-columns (main a))")
	// Beyond the end
	checkLine(t, srcfile, 100, 3, "(trace-columns (main a))")
}

func TestSourceFile_TrailingNewline(t *testing.T) {
	srcfile := NewSourceFile("test.lisp", []byte("(air A)\n"))
	//
	checkLine(t, srcfile, 3, 1, "(air A)")
	checkLine(t, srcfile, 8, 2, "")
}

func TestSourceFile_Unicode(t *testing.T) {
	srcfile := NewSourceFile("test.lisp", []byte("; ∑\n(air A)"))
	//
	checkLine(t, srcfile, 4, 2, "(air A)")
}

func TestSyntaxError_Error(t *testing.T) {
	srcfile := NewSourceFile("test.lisp", []byte("(air A)\n(air)"))
	err := srcfile.SyntaxError(NewSpan(8, 13), "expected (air NAME)")
	//
	assert.Equal(t, "test.lisp:2: expected (air NAME)", err.Error())
	assert.Equal(t, "expected (air NAME)", err.Message())
	assert.Equal(t, 5, err.Span().Length())
}

func TestSourceMap_SyntaxError(t *testing.T) {
	var (
		srcfile = NewSourceFile("test.lisp", []byte("(air A)"))
		srcmap  = NewSourceMap[*int](srcfile)
		x, y    = new(int), new(int)
	)
	//
	srcmap.Put(x, NewSpan(5, 6))
	assert.True(t, srcmap.Has(x))
	assert.False(t, srcmap.Has(y))
	assert.Equal(t, NewSpan(5, 6), srcmap.SyntaxError(x, "bad").Span())
	// Unmapped items cover the whole file
	assert.Equal(t, NewSpan(0, 7), srcmap.SyntaxError(y, "bad").Span())
	assert.Panics(t, func() { srcmap.Put(x, NewSpan(0, 1)) })
	assert.Panics(t, func() { srcmap.Get(y) })
}

func checkLine(t *testing.T, srcfile *File, offset int, number int, text string) {
	t.Helper()
	//
	line := srcfile.LineOf(offset)
	assert.Equal(t, number, line.Number())
	assert.Equal(t, text, line.String())
}
