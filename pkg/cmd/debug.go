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

	"github.com/consensys/go-airscript/pkg/ir"
	"github.com/consensys/go-airscript/pkg/ir/graph"
	"github.com/consensys/go-airscript/pkg/util"
	"github.com/consensys/go-airscript/pkg/util/termio"
	"github.com/spf13/cobra"
)

var debugCmd = &cobra.Command{
	Use:   "debug [flags] constraint_file",
	Short: "print the intermediate representation of a constraint file.",
	Long: `Print the intermediate representation built for a given constraint
	file.  This includes its declarations, boundary assertions, the shared
	expression graph and each transition constraint along with its degree.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		configureLogging(cmd)
		//
		var (
			config   = getConfig(cmd)
			stats    = util.NewPerfStats()
			srcfiles = readSourceFiles(args)
			terminal = termio.NewTerminal(os.Stdout)
		)
		//
		air, errs := compileSourceFile(&srcfiles[0], config)
		if len(errs) > 0 {
			printErrors(os.Stdout, terminal, errs)
			os.Exit(1)
		}
		//
		if GetFlag(cmd, "stats") {
			stats.Log("Building air")
		}
		// Determine text width
		textWidth := terminal.Width(ir.DefaultTextWidth)
		if cmd.Flags().Changed("textwidth") {
			textWidth = GetUint(cmd, "textwidth")
		}
		//
		var err error
		if GetFlag(cmd, "summary") {
			err = printSummary(os.Stdout, air)
		} else {
			err = ir.Print(os.Stdout, air, textWidth)
		}
		//
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
	},
}

// Print a brief summary of an air, rather than the air itself.
func printSummary(w io.Writer, air *ir.AirIR) error {
	_, err := fmt.Fprintf(w, "air %s\n"+
		"columns: %d main, %d aux, %d periodic\n"+
		"public inputs: %d\n"+
		"boundary assertions: %d main, %d aux\n"+
		"transition constraints: %d main (max degree %d), %d aux (max degree %d)\n"+
		"graph nodes: %d\n",
		air.Name(),
		air.MainWidth(), air.AuxWidth(), len(air.PeriodicColumns()),
		len(air.PublicInputs()),
		air.NumMainAssertions(), air.NumAuxAssertions(),
		len(air.MainDegrees()), maxDegree(air.MainDegrees()), len(air.AuxDegrees()), maxDegree(air.AuxDegrees()),
		air.Graph().Len())
	//
	return err
}

func maxDegree(degrees []graph.Degree) uint {
	var m uint
	//
	for _, d := range degrees {
		m = max(m, d.Total())
	}
	//
	return m
}

func init() {
	rootCmd.AddCommand(debugCmd)
	debugCmd.Flags().Bool("summary", false, "Print summary information")
	debugCmd.Flags().Uint("textwidth", ir.DefaultTextWidth, "Set maximum textwidth to use")
}
