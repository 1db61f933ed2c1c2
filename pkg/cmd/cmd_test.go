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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/consensys/go-semgus/pkg/semgus/event"
	"github.com/consensys/go-semgus/pkg/semgus/problem"
	"github.com/consensys/go-semgus/pkg/solver"
	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Directory containing the test problems.
const TestDir = "../../testdata/semgus"

func Test_Config_01(t *testing.T) {
	cfg := DefaultConfig()
	engine, err := cfg.Engine()
	require.NoError(t, err)
	//
	assert.Equal(t, solver.NewProcess(), engine)
}

func Test_Config_02(t *testing.T) {
	filename := writeFile(t, "config.yaml", `
solver: cvc5
solver-args: ["--lang", "smt2"]
timeout: 5s
lenient: true
width: 80
`)
	cfg, err := LoadConfig(filename)
	require.NoError(t, err)
	// Unspecified settings take their defaults
	assert.Equal(t, solver.DEFAULT_LOGIC, cfg.Logic)
	assert.True(t, cfg.Lenient)
	assert.False(t, cfg.AllowRedefinition)
	assert.Equal(t, event.Options{AllowUnknownFields: true}, cfg.EventOptions())
	assert.Equal(t, problem.Options{}, cfg.ProblemOptions())
	//
	engine, err := cfg.Engine()
	require.NoError(t, err)
	assert.Equal(t, &solver.Process{
		Binary:  "cvc5",
		Args:    []string{"--lang", "smt2"},
		Logic:   solver.DEFAULT_LOGIC,
		Timeout: 5 * time.Second,
		Width:   80,
	}, engine)
}

func Test_Config_03(t *testing.T) {
	// Only explicitly set flags override
	cmd := testCommand(t, "--logic", "ALL", "--timeout", "2s", "--solver-arg", "-a", "--solver-arg", "-b", "--lenient")
	cfg := Config{Solver: "yices", Width: 10, Print: true}
	require.NoError(t, cfg.Override(cmd))
	//
	assert.Equal(t, Config{
		Solver:     "yices",
		SolverArgs: []string{"-a", "-b"},
		Logic:      "ALL",
		Timeout:    "2s",
		Lenient:    true,
		Print:      true,
		Width:      10,
	}, cfg)
}

func Test_Config_04(t *testing.T) {
	cmd := testCommand(t, "--print=false", "--allow-redefinition", "--width", "60", "--solver", "z3")
	cfg := Config{Print: true}
	require.NoError(t, cfg.Override(cmd))
	//
	assert.Equal(t, Config{Solver: "z3", AllowRedefinition: true, Width: 60}, cfg)
}

func Test_Invalid_Config_01(t *testing.T) {
	// Unknown setting
	_, err := LoadConfig(writeFile(t, "config.yaml", "colour: true\n"))
	assert.Error(t, err)
	// Missing file
	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func Test_Invalid_Config_02(t *testing.T) {
	for _, timeout := range []string{"soon", "-1s", "5"} {
		cfg := Config{Timeout: timeout}
		_, err := cfg.Engine()
		assert.Error(t, err, timeout)
	}
}

// ============================================================================
// Commands
// ============================================================================

func Test_Inspect_01(t *testing.T) {
	var out bytes.Buffer
	//
	require.NoError(t, runInspect(filepath.Join(TestDir, "arith.sem.json"), DefaultConfig(), &out))
	assert.Equal(t, strings.Join([]string{
		"synth-fun f (Start : E)",
		"metadata:",
		"  :source \"arith\"",
		"term types:",
		"  E: $x | $one | $plus(E, E)",
		"nonterminals:",
		"  Start : E",
		"    $x (1 rule)",
		"    $one (1 rule)",
		"    $plus(Start, Start) (1 rule)",
		"functions:",
		"  E.Sem(et:E, x:Int, r:Int) -> Bool",
		"constraints: 2",
		"  (E.Sem f 1 2)",
		"  (E.Sem f 2 3)",
		"",
	}, "\n"), out.String())
}

func Test_Encode_01(t *testing.T) {
	var out bytes.Buffer
	//
	require.NoError(t, runEncode(filepath.Join(TestDir, "const.sem.json"), DefaultConfig(), &out))
	assert.Equal(t, strings.Join([]string{
		"(set-logic HORN)",
		"(declare-fun E.Sem (Int Int) Bool)",
		"(assert (forall ((i0_r Int) (i1_r Int)) (=> (and (= i0_r 1) (= i1_r 1)) (E.Sem i0_r i1_r))))",
		"(assert (forall ((o0 Int) (o1 Int)) (=> (E.Sem o0 o1) (not (and (= o0 1) (= o1 2))))))",
		"(check-sat)",
		"",
	}, "\n"), out.String())
}

func Test_Encode_02(t *testing.T) {
	output := filepath.Join(t.TempDir(), "const.smt2")
	cfg := DefaultConfig()
	cfg.Logic = ""
	//
	require.NoError(t, encodeToFile(filepath.Join(TestDir, "const.sem.json"), cfg, output))
	//
	bytes, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(bytes), "(declare-fun E.Sem (Int Int) Bool)\n"))
}

func Test_Check_01(t *testing.T) {
	var out bytes.Buffer
	//
	cfg := fakeSolver(t, "cat > /dev/null; echo unsat")
	cfg.Print = true
	//
	verdict, err := runCheck(context.Background(), filepath.Join(TestDir, "arith.sem.json"), cfg, &out)
	require.NoError(t, err)
	assert.Equal(t, solver.Unsat, verdict)
	assert.Contains(t, out.String(), "(forall ((o0 Int) (o1 Int)) (=> (E.Sem o0 o1) (not (and (= o0 2) (= o1 3)))))")
}

func Test_Check_02(t *testing.T) {
	// Nothing printed by default
	var out bytes.Buffer
	//
	cfg := fakeSolver(t, "cat > /dev/null; echo sat")
	//
	verdict, err := runCheck(context.Background(), filepath.Join(TestDir, "const.sem.json"), cfg, &out)
	require.NoError(t, err)
	assert.Equal(t, solver.Sat, verdict)
	assert.Empty(t, out.String())
}

func Test_Invalid_Check_01(t *testing.T) {
	_, err := runCheck(context.Background(), filepath.Join(TestDir, "missing.sem.json"), DefaultConfig(), nil)
	assert.Error(t, err)
}

func Test_Invalid_Check_02(t *testing.T) {
	// Malformed solver response
	cfg := fakeSolver(t, "cat > /dev/null; echo '(sat'")
	_, err := runCheck(context.Background(), filepath.Join(TestDir, "const.sem.json"), cfg, nil)
	assert.Error(t, err)
}

func Test_Invalid_Check_03(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = "never"
	//
	_, err := runCheck(context.Background(), filepath.Join(TestDir, "const.sem.json"), cfg, nil)
	assert.Error(t, err)
}

func Test_Lenient_01(t *testing.T) {
	// Unknown fields are rejected unless lenient
	filename := rewriteProblem(t, "const.sem.json", func(events []any) []any {
		events[0].(map[string]any)["comment"] = "generated"
		return events
	})
	//
	cfg := DefaultConfig()
	//
	var derr *event.DeserializationError
	//
	err := runInspect(filename, cfg, &bytes.Buffer{})
	require.True(t, errors.As(err, &derr), "expected deserialization error, got %v", err)
	assert.Equal(t, []string{"0", "comment"}, derr.Path())
	//
	cfg.Lenient = true
	assert.NoError(t, runInspect(filename, cfg, &bytes.Buffer{}))
}

func Test_Redefinition_01(t *testing.T) {
	// Redefinitions are rejected unless allowed
	filename := rewriteProblem(t, "const.sem.json", func(events []any) []any {
		for _, e := range events {
			if e.(map[string]any)["$event"] == event.DEFINE_FUNCTION {
				return append(events, e)
			}
		}
		//
		panic("unreachable")
	})
	//
	cfg := DefaultConfig()
	//
	var cerr *problem.ConsistencyError
	//
	err := runInspect(filename, cfg, &bytes.Buffer{})
	require.True(t, errors.As(err, &cerr), "expected consistency error, got %v", err)
	//
	cfg.AllowRedefinition = true
	assert.NoError(t, runInspect(filename, cfg, &bytes.Buffer{}))
}

func Test_PrintVerdict_01(t *testing.T) {
	var out bytes.Buffer
	//
	printVerdict(&out, solver.Unsat, false)
	printVerdict(&out, solver.Sat, false)
	printVerdict(&out, solver.Unknown, false)
	assert.Equal(t, "unsat (realizable on the examples)\nsat (unrealizable)\nunknown (unknown)\n", out.String())
}

func Test_PrintVerdict_02(t *testing.T) {
	var out bytes.Buffer
	//
	printVerdict(&out, solver.Sat, true)
	assert.Contains(t, out.String(), "\x1b[")
	assert.Contains(t, out.String(), "sat")
}

// ============================================================================
// Helpers
// ============================================================================

// Construct a command with every flag, and parse a given set of arguments.
func testCommand(t *testing.T, args ...string) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	addSolverFlags(cmd)
	addScriptFlags(cmd)
	addProblemFlags(cmd)
	cmd.Flags().Bool("print", false, "")
	require.NoError(t, cmd.ParseFlags(args))
	//
	return cmd
}

// Construct a configuration which runs a given shell script as the solver.
func fakeSolver(t *testing.T, script string) Config {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no shell available")
	}
	//
	cfg := DefaultConfig()
	cfg.Solver = "/bin/sh"
	cfg.SolverArgs = []string{"-c", script}
	//
	return cfg
}

func writeFile(t *testing.T, name string, contents string) string {
	filename := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(filename, []byte(contents), 0644))
	//
	return filename
}

// Rewrite the events of a test problem, returning the rewritten file.
func rewriteProblem(t *testing.T, name string, fn func([]any) []any) string {
	contents, err := os.ReadFile(filepath.Join(TestDir, name))
	require.NoError(t, err)
	//
	var events []any
	//
	require.NoError(t, json.Unmarshal(contents, &events))
	//
	contents, err = json.Marshal(fn(events))
	require.NoError(t, err)
	//
	return writeFile(t, name, string(contents))
}
