// Copyright © 2020 AMIS Technologies
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command modsolve solves one modular equation per invocation: four
// arguments a b c n for the linear a*x + b = c (mod n), five arguments
// a b c d n for the quadratic a*x^2 + b*x + c = d (mod n). Coefficients
// may be negative; the modulus may not. Underscores inside numbers are
// accepted as digit separators.
package main

import (
	"fmt"
	"os"

	"github.com/getamis/sirius/log"
	"github.com/spf13/cobra"

	"github.com/getamis/modsolve/config"
)

var cmd = &cobra.Command{
	Use:   "modsolve <a> <b> <c> [d] <n>",
	Short: "Solve a linear or quadratic modular equation over Z/nZ",
	Args:  cobra.RangeArgs(4, 5),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := config.FactorOptions(cmd)
		if err != nil {
			return err
		}

		eq, err := parseEquation(args)
		if err != nil {
			log.Error("Failed to parse equation", "err", err)
			os.Exit(1)
		}

		sols, _ := eq.solve(opts)
		printSolution(sols, eq.modu())
		return nil
	},
	SilenceUsage: true,
}

func init() {
	config.AddFlags(cmd)
}

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error with command line args:", err)
		os.Exit(1)
	}
}
