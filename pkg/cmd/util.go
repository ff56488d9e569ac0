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
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/consensys/go-airscript/pkg/ast/lisp"
	"github.com/consensys/go-airscript/pkg/ir"
	"github.com/consensys/go-airscript/pkg/util/source"
	"github.com/consensys/go-airscript/pkg/util/termio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected flag, or exit if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected unsigned integer, or exit if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string, or exit if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Configure the log level according to the verbose flag.
func configureLogging(cmd *cobra.Command) {
	if GetFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}
}

// Determine the build configuration from the config file (if given), with any
// explicit flags taking precedence.
func getConfig(cmd *cobra.Command) ir.Config {
	var (
		config = ir.DefaultConfig()
		err    error
	)
	//
	if filename := GetString(cmd, "config"); filename != "" {
		config, err = readConfigFile(filename)
	}
	//
	if cmd.Flags().Changed("default-name") {
		config.DefaultName = GetString(cmd, "default-name")
	}
	//
	if cmd.Flags().Changed("min-cycle") {
		config.MinCycleLength = GetUint(cmd, "min-cycle")
	}
	//
	if err == nil {
		if verr := config.Validate(); verr != nil {
			err = fmt.Errorf("invalid configuration: %w", verr)
		}
	}
	//
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	log.Debugf("using default name %q and minimum cycle length %d", config.DefaultName, config.MinCycleLength)
	//
	return config
}

func readConfigFile(filename string) (ir.Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return ir.Config{}, err
	}
	//
	defer file.Close()
	//
	return ir.ReadConfig(file)
}

// Read the given source files, or exit if any cannot be read.
func readSourceFiles(filenames []string) []source.File {
	srcfiles, err := source.ReadFiles(filenames...)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return srcfiles
}

// Compile a given source file into an IR, or produce the errors arising.  Errors
// which can be associated with some part of the file are reported as syntax
// errors, and all others are reported as they are.
func compileSourceFile(srcfile *source.File, config ir.Config) (*ir.AirIR, []error) {
	src, srcmap, errs := lisp.ParseSourceFile(srcfile)
	//
	if len(errs) > 0 {
		errors := make([]error, len(errs))
		for i := range errs {
			errors[i] = &errs[i]
		}
		//
		return nil, errors
	}
	//
	air, err := ir.BuildAirIR(src, config)
	if serr, ok := err.(*ir.SemanticError); ok && serr.Node() != nil {
		return nil, []error{srcmap.SyntaxError(serr.Node(), serr.Error())}
	} else if err != nil {
		return nil, []error{fmt.Errorf("%s: %w", srcfile.Filename(), err)}
	}
	//
	return air, nil
}

// Print errors arising from compilation, highlighting where in the source they
// occurred (if known).
func printErrors(w io.Writer, terminal termio.Terminal, errors []error) {
	for _, err := range errors {
		if serr, ok := err.(*source.SyntaxError); ok {
			printSyntaxError(w, terminal, serr)
		} else {
			fmt.Fprintln(w, err)
		}
	}
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(w io.Writer, terminal termio.Terminal, err *source.SyntaxError) {
	span := err.Span()
	line := err.FirstEnclosingLine()
	lineOffset := max(0, span.Start()-line.Start())
	// Calculate length (ensures don't overflow line)
	length := max(1, min(line.Length()-lineOffset, span.Length()))
	// Print error + line number
	fmt.Fprintf(w, "%s:%d:%d-%d %s\n", err.SourceFile().Filename(),
		line.Number(), 1+lineOffset, 1+lineOffset+length, err.Message())
	// Print separator line
	fmt.Fprintln(w)
	// Print line
	fmt.Fprintln(w, line.String())
	// Print indent (todo: account for tabs)
	fmt.Fprint(w, strings.Repeat(" ", lineOffset))
	// Print highlight
	highlight := termio.NewAnsiEscape().Bold().FgColour(termio.TERM_RED)
	fmt.Fprintln(w, terminal.Highlight(highlight, strings.Repeat("^", length)))
}
