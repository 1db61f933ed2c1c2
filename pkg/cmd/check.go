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
	"context"
	"fmt"
	"io"
	"os"

	"github.com/consensys/go-semgus/pkg/encode"
	"github.com/consensys/go-semgus/pkg/ir/horn"
	"github.com/consensys/go-semgus/pkg/solver"
	"github.com/consensys/go-semgus/pkg/util"
	"github.com/consensys/go-semgus/pkg/util/source/sexp"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] problem_file",
	Short: "Check realizability of a SemGuS problem against its examples.",
	Long: `Check whether a SemGuS problem is realizable on the examples given by its
	constraints.  The problem is encoded as a set of Horn clauses, whose
	satisfiability is then determined by an external solver (z3 by default).
	A satisfiable encoding means no term of the grammar meets every example.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		cfg := getConfig(cmd)
		verdict, err := runCheck(context.Background(), args[0], cfg, os.Stdout)
		//
		if err != nil {
			reportError(err)
			os.Exit(2)
		}
		//
		printVerdict(os.Stdout, verdict, isTerminal())
	},
}

// Encode a problem against its examples, and check the result.  Generated
// assertions are written to out when requested.
func runCheck(ctx context.Context, filename string, cfg Config, out io.Writer) (solver.Verdict, error) {
	p, err := readProblem(filename, cfg)
	//
	if err != nil {
		return solver.Unknown, err
	}
	//
	engine, err := cfg.Engine()
	//
	if err != nil {
		return solver.Unknown, err
	}
	//
	hctx := horn.NewContext()
	defer hctx.Close()
	//
	stats := util.NewPerfStats()
	encoding, err := encode.NewEncoder(hctx, p).Encode(p.Constraints())
	//
	if err != nil {
		return solver.Unknown, err
	}
	//
	stats.Log(fmt.Sprintf("encoding %d example(s) of \"%s\" as %d formula(s)", encoding.Columns.Rows(),
		encoding.Target, len(encoding.Formulas)))
	//
	if cfg.Print {
		printFormulas(out, encoding.Formulas, cfg.Width)
	}
	//
	stats = util.NewPerfStats()
	verdict, err := engine.Check(ctx, hctx, encoding.Formulas...)
	//
	stats.Log("solving")
	//
	return verdict, err
}

func printFormulas(out io.Writer, formulas []horn.Term, width uint) {
	formatter := sexp.NewSmtFormatter(width)
	//
	for _, f := range formulas {
		fmt.Fprint(out, formatter.Format(f.Lisp()))
	}
}

func addSolverFlags(cmd *cobra.Command) {
	cmd.Flags().String("solver", solver.DEFAULT_BINARY, "solver executable")
	cmd.Flags().StringArray("solver-arg", solver.DEFAULT_ARGS, "argument for the solver executable (repeatable)")
	cmd.Flags().Duration("timeout", 0, "time limit for the solver (0 for none)")
}

func addScriptFlags(cmd *cobra.Command) {
	cmd.Flags().String("logic", solver.DEFAULT_LOGIC, "logic to set in generated scripts")
	cmd.Flags().Uint("width", horn.DEFAULT_WIDTH, "line width of generated formulas")
}

func addProblemFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("allow-redefinition", false, "permit functions and datatypes to be redefined")
	cmd.Flags().Bool("lenient", false, "ignore unknown fields in events")
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(checkCmd)
	addSolverFlags(checkCmd)
	addScriptFlags(checkCmd)
	addProblemFlags(checkCmd)
	checkCmd.Flags().Bool("print", false, "print generated formulas before checking")
}
