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

	"github.com/consensys/go-semgus/pkg/semgus/problem"
	"github.com/consensys/go-semgus/pkg/solver"
	"github.com/consensys/go-semgus/pkg/util"
	"github.com/consensys/go-semgus/pkg/util/source"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// GetFlag gets an expected flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string flag, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected unsigned integer flag, or exits if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Read a problem from a given file of events.
func readProblem(filename string, cfg Config) (*problem.Problem, error) {
	bytes, err := os.ReadFile(filename)
	//
	if err != nil {
		return nil, errors.Wrapf(err, "reading problem")
	}
	//
	stats := util.NewPerfStats()
	events, err := cfg.EventOptions().ParseBytes(bytes)
	//
	if err != nil {
		return nil, errors.Wrapf(err, "%s", filename)
	}
	//
	stats.Log(fmt.Sprintf("parsing %d events", len(events)))
	stats = util.NewPerfStats()
	//
	p, err := problem.FromEvents(events, cfg.ProblemOptions())
	//
	if err != nil {
		return nil, errors.Wrapf(err, "%s", filename)
	}
	//
	stats.Log("building problem")
	//
	return p, nil
}

// Report an error, highlighting the location of syntax errors.
func reportError(err error) {
	var serr *source.SyntaxError
	//
	if errors.As(err, &serr) {
		printSyntaxError(serr)
	} else {
		fmt.Println(err)
	}
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(err *source.SyntaxError) {
	span := err.Span()
	line := err.FirstEnclosingLine()
	lineOffset := span.Start() - line.Start()
	// Calculate length (ensures don't overflow line)
	length := max(min(line.Length()-lineOffset, span.Length()), 1)
	// Print error + line number
	fmt.Printf("%s:%d:%d-%d %s\n", err.SourceFile().Filename(),
		line.Number(), 1+lineOffset, 1+lineOffset+length, err.Message())
	// Print separator line
	fmt.Println()
	// Print line
	fmt.Println(line.String())
	// Print indent (todo: account for tabs)
	fmt.Print(strings.Repeat(" ", max(lineOffset, 0)))
	// Print highlight
	fmt.Println(strings.Repeat("^", length))
}

// Print a verdict along with its interpretation, coloured when requested.
func printVerdict(out io.Writer, verdict solver.Verdict, colour bool) {
	var c *color.Color
	//
	switch verdict {
	case solver.Sat:
		c = color.New(color.FgRed, color.Bold)
	case solver.Unsat:
		c = color.New(color.FgGreen, color.Bold)
	default:
		c = color.New(color.FgYellow, color.Bold)
	}
	//
	if colour {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	//
	fmt.Fprintf(out, "%s (%s)\n", c.Sprint(verdict.String()), verdict.Interpret())
}

// Determine whether stdout is a terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
