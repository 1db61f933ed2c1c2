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
	"slices"
	"strings"

	"github.com/consensys/go-semgus/pkg/semgus/problem"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] problem_file",
	Short: "Summarise a SemGuS problem.",
	Long: `Summarise a SemGuS problem, including its target, term types, grammar,
	semantic functions and constraints.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		cfg := getConfig(cmd)
		//
		if err := runInspect(args[0], cfg, os.Stdout); err != nil {
			reportError(err)
			os.Exit(2)
		}
	},
}

func runInspect(filename string, cfg Config, out io.Writer) error {
	p, err := readProblem(filename, cfg)
	//
	if err != nil {
		return err
	}
	//
	printProblem(out, p)
	//
	return nil
}

func printProblem(out io.Writer, p *problem.Problem) {
	target := p.Target()
	fmt.Fprintf(out, "synth-fun %s (%s : %s)\n", p.TargetName(), target.Name(), target.TermType())
	// Metadata
	metadata := p.Metadata()
	//
	if len(metadata) > 0 {
		fmt.Fprintln(out, "metadata:")
		//
		keys := make([]string, 0, len(metadata))
		for key := range metadata {
			keys = append(keys, key)
		}
		//
		slices.Sort(keys)
		//
		for _, key := range keys {
			fmt.Fprintf(out, "  :%s %s\n", key, metadata[key].String())
		}
	}
	// Term types
	fmt.Fprintln(out, "term types:")
	//
	for _, name := range p.TermTypeNames() {
		tt, _ := p.TermType(name)
		constructors := make([]string, 0)
		//
		for _, c := range tt.Constructors() {
			constructors = append(constructors, application(c.Name, c.Children))
		}
		//
		fmt.Fprintf(out, "  %s: %s\n", name, strings.Join(constructors, " | "))
	}
	// Grammar
	fmt.Fprintln(out, "nonterminals:")
	//
	for _, name := range p.NonTerminalNames() {
		nt, _ := p.NonTerminal(name)
		fmt.Fprintf(out, "  %s : %s\n", name, nt.TermType())
		//
		for _, prod := range nt.Productions() {
			children := make([]string, prod.Arity())
			//
			for i, child := range prod.Children() {
				children[i] = child.Name()
			}
			//
			fmt.Fprintf(out, "    %s (%s)\n", application(prod.Operator(), children), plural(len(prod.Rules()), "rule"))
		}
	}
	// Semantics
	smt := p.SmtContext()
	//
	if names := smt.FunctionNames(); len(names) > 0 {
		fmt.Fprintln(out, "functions:")
		//
		for _, name := range names {
			fn := smt.Functions[name]
			args := make([]string, len(fn.Arguments))
			//
			for i, arg := range fn.Arguments {
				args[i] = arg.String()
			}
			//
			fmt.Fprintf(out, "  %s -> %s\n", application(name, args), fn.ReturnSort.String())
		}
	}
	//
	if names := smt.DatatypeNames(); len(names) > 0 {
		fmt.Fprintf(out, "datatypes: %s\n", strings.Join(names, ", "))
	}
	//
	fmt.Fprintf(out, "constraints: %d\n", len(p.Constraints()))
	//
	for _, c := range p.Constraints() {
		fmt.Fprintf(out, "  %s\n", c.String())
	}
}

func application(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	//
	return fmt.Sprintf("%s(%s)", name, strings.Join(args, ", "))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	//
	return fmt.Sprintf("%d %ss", n, noun)
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(inspectCmd)
	addProblemFlags(inspectCmd)
}
