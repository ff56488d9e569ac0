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
	"github.com/consensys/go-airscript/pkg/util"
	"github.com/consensys/go-airscript/pkg/util/source"
	"github.com/consensys/go-airscript/pkg/util/termio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] constraint_file(s)",
	Short: "check one or more constraint files are well-formed.",
	Long: `Check that each of the given constraint files is well-formed, reporting
	any syntax or semantic errors found.  Each file is checked independently.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 1 {
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
		failures := checkSourceFiles(os.Stdout, terminal, config, srcfiles)
		//
		if GetFlag(cmd, "stats") {
			stats.Log(fmt.Sprintf("Checking %d file(s)", len(srcfiles)))
		}
		//
		if failures > 0 {
			log.Errorf("%d of %d file(s) failed", failures, len(srcfiles))
			os.Exit(1)
		}
	},
}

// Check each source file in turn, printing any errors and returning the number
// of files which failed.
func checkSourceFiles(w io.Writer, terminal termio.Terminal, config ir.Config, srcfiles []source.File) uint {
	var failures uint
	//
	for i := range srcfiles {
		air, errs := compileSourceFile(&srcfiles[i], config)
		//
		if len(errs) > 0 {
			printErrors(w, terminal, errs)
			//
			failures++
		} else {
			log.Infof("%s: air %s has %d main and %d aux constraints", srcfiles[i].Filename(), air.Name(),
				len(air.MainDegrees()), len(air.AuxDegrees()))
		}
	}
	//
	return failures
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
