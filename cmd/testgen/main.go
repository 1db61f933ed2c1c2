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
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	util "github.com/consensys/go-semgus/pkg/cmd"
	"github.com/consensys/go-semgus/pkg/semgus/ast"
	"github.com/consensys/go-semgus/pkg/semgus/event"
	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Uint("min-elem", 0, "Minimum input")
	rootCmd.Flags().Uint("max-elem", 2, "Maximum input")
	rootCmd.Flags().Uint("min-lines", 1, "Minimum number of examples")
	rootCmd.Flags().Uint("max-lines", 4, "Maximum number of examples")
	rootCmd.Flags().StringP("output", "o", "testdata/semgus", "Output directory")
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "testgen [flags] problem_file oracle",
	Short: "Test generation utility for go-semgus.",
	Long: `Generate variations of a SemGuS problem, whose constraints are replaced by
	examples computed by a hard-coded oracle.  One problem is generated for each
	number of examples.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		var cfg TestGenConfig
		// Lookup oracle
		cfg.oracle = findOracle(args[1])
		cfg.min_elem = util.GetUint(cmd, "min-elem")
		cfg.max_elem = util.GetUint(cmd, "max-elem")
		cfg.min_lines = util.GetUint(cmd, "min-lines")
		cfg.max_lines = util.GetUint(cmd, "max-lines")
		dir := util.GetString(cmd, "output")
		// Read problem
		bytes, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		//
		basename := strings.TrimSuffix(filepath.Base(args[0]), ".sem.json")
		pool := generatePool(cfg)
		//
		for n := cfg.min_lines; n < cfg.max_lines; n++ {
			if n > uint(len(pool)) {
				log.Warnf("skipping %d examples (only %d inputs)", n, len(pool))
				continue
			}
			//
			problem, err := generateProblem(bytes, cfg.oracle, pool[:n])
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			//
			filename := filepath.Join(dir, fmt.Sprintf("%s.%s.auto.%d.sem.json", basename, cfg.oracle.Name, n))
			writeProblem(filename, problem, n)
		}
	},
}

// TestGenConfig encapsulates configuration related to test generation.
type TestGenConfig struct {
	oracle    Oracle
	min_elem  uint
	max_elem  uint
	min_lines uint
	max_lines uint
}

// OracleFn defines the function which determines the expected output for a given input.
type OracleFn = func(int64) int64

// Oracle represents a hard-coded function from which examples are generated.
type Oracle struct {
	// Name of the oracle in question
	Name string
	// Function computing the expected output
	Fn OracleFn
}

var oracles []Oracle = []Oracle{
	{"identity", func(x int64) int64 { return x }},
	{"succ", func(x int64) int64 { return x + 1 }},
	{"double", func(x int64) int64 { return 2 * x }},
	{"one", func(x int64) int64 { return 1 }},
}

func findOracle(name string) Oracle {
	for _, o := range oracles {
		if o.Name == name {
			return o
		}
	}
	//
	panic(fmt.Sprintf("unknown oracle \"%s\"", name))
}

func generatePool(cfg TestGenConfig) []int64 {
	if cfg.max_elem < cfg.min_elem {
		return nil
	}
	//
	n := cfg.max_elem - cfg.min_elem + 1
	elems := make([]int64, n)
	// Iterate values
	for i := uint(0); i != n; i++ {
		elems[i] = int64(cfg.min_elem + i)
	}
	// Done
	return elems
}

// Generate a problem from a given problem (as an array of events), replacing
// its constraints with one example per input.  Examples take the form of the
// first constraint, which must apply a semantic function to a term, an input
// and an output.
func generateProblem(bytes []byte, oracle Oracle, inputs []int64) ([]byte, error) {
	var (
		raw       []json.RawMessage
		generated []any
		template  *ast.Application
	)
	//
	if err := json.Unmarshal(bytes, &raw); err != nil {
		return nil, errors.Wrapf(err, "reading events")
	}
	//
	for i, r := range raw {
		e, err := event.ParseEvent(r)
		//
		if err != nil {
			return nil, errors.Wrapf(err, "event %d", i)
		} else if c, ok := e.(*event.Constraint); !ok {
			generated = append(generated, r)
		} else if template == nil {
			if template, err = exampleTemplate(c); err != nil {
				return nil, err
			}
			//
			for _, x := range inputs {
				generated = append(generated, map[string]any{
					"$event":     event.CONSTRAINT,
					"constraint": example(template, x, oracle.Fn(x)),
				})
			}
		}
	}
	//
	if template == nil {
		return nil, errors.New("no constraint from which to generate examples")
	}
	//
	return json.MarshalIndent(generated, "", " ")
}

func exampleTemplate(c *event.Constraint) (*ast.Application, error) {
	app, ok := c.Term.(*ast.Application)
	//
	if !ok || len(app.Arguments) != 3 {
		return nil, errors.Errorf("constraint %s is not an example", c.Term.String())
	} else if _, ok := app.Argument(0).(*ast.Variable); !ok {
		return nil, errors.Errorf("constraint %s does not apply to a term", c.Term.String())
	}
	//
	return app, nil
}

// Construct the JSON form of an example.
func example(template *ast.Application, input int64, output int64) map[string]any {
	var (
		term  = template.Argument(0).(*ast.Variable)
		sorts = make([]any, len(template.Arguments))
	)
	//
	for i, arg := range template.Arguments {
		sorts[i] = identifier(arg.Sort)
	}
	//
	return map[string]any{
		"$termType":     "application",
		"name":          template.Name.Name,
		"returnSort":    identifier(template.ReturnSort),
		"argumentSorts": sorts,
		"arguments": []any{
			map[string]any{"$termType": "variable", "name": term.Name, "sort": identifier(term.Sort)},
			literal(template.Arguments[1].Sort, input),
			literal(template.Arguments[2].Sort, output),
		},
	}
}

// Construct the JSON form of a literal of a given sort.  Bit-vector values
// wrap around.
func literal(sort ast.Identifier, value int64) any {
	if sort.Name == "BitVec" && len(sort.Indices) == 1 {
		if width, ok := sort.Indices[0].(ast.NumericIndex); ok && width > 0 && width < 64 {
			mask := uint64(1)<<uint64(width) - 1
			return map[string]any{"$termType": "bitvector", "size": uint64(width), "value": uint64(value) & mask}
		}
	}
	//
	return value
}

func identifier(id ast.Identifier) any {
	if !id.IsIndexed() {
		return id.Name
	}
	//
	elements := []any{id.Name}
	//
	for _, index := range id.Indices {
		switch i := index.(type) {
		case ast.NumericIndex:
			elements = append(elements, uint64(i))
		case ast.SymbolIndex:
			elements = append(elements, string(i))
		}
	}
	//
	return elements
}

func writeProblem(filename string, problem []byte, n uint) {
	// Write the file
	if err := os.WriteFile(filename, append(problem, '\n'), 0644); err != nil {
		panic(err)
	}
	// Log what happened
	log.Infof("Wrote %s (%d examples)\n", filename, n)
}
