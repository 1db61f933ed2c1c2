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
package encode

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/consensys/go-semgus/pkg/ir/horn"
	"github.com/consensys/go-semgus/pkg/semgus/ast"
	"github.com/consensys/go-semgus/pkg/semgus/event"
	"github.com/consensys/go-semgus/pkg/semgus/problem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Directory containing the test problems.
const TestDir = "../../testdata/semgus"

var (
	intSort  = ast.NewIdentifier("Int")
	boolSort = ast.NewIdentifier("Bool")
	termSort = ast.NewIdentifier("E")
)

func Test_Vectorize_01(t *testing.T) {
	// N rows of K arguments give K-2 inputs and one result column, each of
	// length N.
	for k := 2; k <= 5; k++ {
		for n := 1; n <= 4; n++ {
			ctx := horn.NewContext()
			enc := NewEncoder(ctx, loadProblem(t, "arith.sem.json"))
			rows := make([]ast.Term, n)
			//
			for j := range rows {
				rows[j] = example("E.Sem", k, int64(j))
			}
			//
			columns, err := enc.Vectorize(rows)
			require.NoError(t, err)
			assert.Len(t, columns.Inputs, k-2)
			assert.Len(t, columns.Results, n)
			assert.Equal(t, uint(n), columns.Rows())
			//
			for _, col := range columns.Inputs {
				assert.Len(t, col, n)
			}
			//
			ctx.Close()
		}
	}
}

func Test_Vectorize_02(t *testing.T) {
	ctx := horn.NewContext()
	defer ctx.Close()
	//
	enc := NewEncoder(ctx, loadProblem(t, "arith.sem.json"))
	columns, err := enc.Vectorize([]ast.Term{
		app("E.Sem", variable("f", termSort), &ast.Numeral{Value: 1}, &ast.Numeral{Value: 2}),
		app("E.Sem", variable("f", termSort), &ast.Numeral{Value: 3}, &ast.Numeral{Value: -4}),
	})
	require.NoError(t, err)
	//
	assert.Equal(t, []string{"1", "3"}, render(columns.Inputs[0]))
	assert.Equal(t, []string{"2", "(- 4)"}, render(columns.Results))
}

func Test_Encode_01(t *testing.T) {
	// Indicators have one argument per example
	ctx := horn.NewContext()
	defer ctx.Close()
	//
	p := loadProblem(t, "arith.sem.json")
	encoding, err := NewEncoder(ctx, p).Encode(p.Constraints())
	require.NoError(t, err)
	//
	require.Len(t, encoding.Indicators, 1)
	ind := encoding.Indicators["E.Sem"]
	assert.Equal(t, []*horn.Sort{ctx.IntSort(), ctx.IntSort()}, ind.Domain())
	assert.Same(t, ctx.BoolSort(), ind.Range())
	assert.Equal(t, "E.Sem", encoding.Target)
	assert.Len(t, encoding.Formulas, 2)
	//
	for _, f := range encoding.Formulas {
		assert.True(t, horn.Owns(ctx, f))
	}
}

func Test_Encode_02(t *testing.T) {
	// A single literal production, against outputs 1 and 2.
	ctx := horn.NewContext()
	defer ctx.Close()
	//
	p := loadProblem(t, "const.sem.json")
	encoding, err := NewEncoder(ctx, p).Encode(p.Constraints())
	require.NoError(t, err)
	//
	assert.Equal(t, []string{
		"(forall ((i0_r Int) (i1_r Int)) (=> (and (= i0_r 1) (= i1_r 1)) (E.Sem i0_r i1_r)))",
		"(forall ((o0 Int) (o1 Int)) (=> (E.Sem o0 o1) (not (and (= o0 1) (= o1 2)))))",
	}, render(encoding.Formulas))
}

func Test_Encode_03(t *testing.T) {
	// Leading quantifiers are shared across examples, inputs are bound to
	// their columns and nested calls are vectorized.
	ctx := horn.NewContext()
	defer ctx.Close()
	//
	p := loadProblem(t, "arith.sem.json")
	encoding, err := NewEncoder(ctx, p).Encode(p.Constraints())
	require.NoError(t, err)
	//
	assert.Equal(t, "(forall ((i0_r Int) (i1_r Int)) (and "+
		"(=> (and (= i0_r 1) (= i1_r 2)) (E.Sem i0_r i1_r)) "+
		"(=> (and (= i0_r 1) (= i1_r 1)) (E.Sem i0_r i1_r)) "+
		"(=> (exists ((i0_r1 Int) (i0_r2 Int) (i1_r1 Int) (i1_r2 Int)) (and "+
		"(E.Sem i0_r1 i1_r1) (E.Sem i0_r2 i1_r2) (= i0_r (+ i0_r1 i0_r2)) (= i1_r (+ i1_r1 i1_r2)))) "+
		"(E.Sem i0_r i1_r))))", horn.String(encoding.Formulas[0]))
}

func Test_Encode_04(t *testing.T) {
	ctx := horn.NewContext()
	defer ctx.Close()
	//
	p := loadProblem(t, "bitvec.sem.json")
	encoding, err := NewEncoder(ctx, p).Encode(p.Constraints())
	require.NoError(t, err)
	//
	assert.Equal(t, []*horn.Sort{ctx.BitVecSort(8), ctx.BitVecSort(8)}, encoding.Indicators["E.Sem"].Domain())
	assert.Equal(t, "(forall ((o0 (_ BitVec 8)) (o1 (_ BitVec 8))) "+
		"(=> (E.Sem o0 o1) (not (and (= o0 (_ bv2 8)) (= o1 (_ bv3 8))))))", horn.String(encoding.Formulas[1]))
}

func Test_Encode_05(t *testing.T) {
	// Non-match bodies are a single alternative, and nested quantifiers are
	// replicated per example.
	body := app("and", app("=", variable("r", intSort), variable("x", intSort)),
		&ast.Quantifier{Kind: ast.ForAll, Bindings: []ast.TypedVar{{Name: "y", Sort: intSort}},
			Child: app(">=", variable("y", intSort), variable("y", intSort))})
	//
	ctx := horn.NewContext()
	defer ctx.Close()
	//
	p := singleFunction(t, "g", body, "t", "x", "r")
	encoding, err := NewEncoder(ctx, p).Encode([]ast.Term{
		example("g", 3, 5), example("g", 3, 6),
	})
	require.NoError(t, err)
	//
	assert.Equal(t, "(forall ((i0_r Int) (i1_r Int)) (=> (and (= i0_r 5) (forall ((i0_y Int)) (>= i0_y i0_y)) "+
		"(= i1_r 6) (forall ((i1_y Int)) (>= i1_y i1_y))) (g i0_r i1_r)))", horn.String(encoding.Formulas[0]))
}

func Test_Encode_06(t *testing.T) {
	// Inputs without a column are fresh, and operators collapse when unary.
	body := app("=", variable("r", intSort), app("+", variable("y", intSort)))
	//
	ctx := horn.NewContext()
	defer ctx.Close()
	//
	p := singleFunction(t, "g", body, "t", "x", "y", "r")
	encoding, err := NewEncoder(ctx, p).Encode([]ast.Term{example("g", 3, 1)})
	require.NoError(t, err)
	//
	assert.Equal(t, "(forall ((i0_y Int) (i0_r Int)) (=> (= i0_r i0_y) (g i0_r)))", horn.String(encoding.Formulas[0]))
}

func Test_Encode_07(t *testing.T) {
	// Unary minus remains a negation
	body := app("=", variable("r", intSort), app("-", variable("x", intSort)))
	//
	ctx := horn.NewContext()
	defer ctx.Close()
	//
	p := singleFunction(t, "g", body, "t", "x", "r")
	encoding, err := NewEncoder(ctx, p).Encode([]ast.Term{example("g", 3, 1)})
	require.NoError(t, err)
	//
	assert.Equal(t, "(forall ((i0_r Int)) (=> (= i0_r (- 1)) (g i0_r)))", horn.String(encoding.Formulas[0]))
}

func Test_Encode_08(t *testing.T) {
	// Nested calls under an inner quantifier see its variables at every
	// example, so the quantifier is shared across examples.
	inner := &ast.Quantifier{Kind: ast.Exists, Bindings: []ast.TypedVar{{Name: "r1", Sort: intSort}},
		Child: app("and",
			app("g", variable("t", termSort), variable("x", intSort), variable("r1", intSort)),
			app("=", variable("r", intSort), variable("r1", intSort)))}
	body := app("and", app("=", variable("x", intSort), variable("x", intSort)), inner)
	//
	ctx := horn.NewContext()
	defer ctx.Close()
	//
	p := singleFunction(t, "g", body, "t", "x", "r")
	encoding, err := NewEncoder(ctx, p).Encode([]ast.Term{
		example("g", 3, 5), example("g", 3, 6),
	})
	require.NoError(t, err)
	//
	assert.Equal(t, "(forall ((i0_r Int) (i1_r Int)) (=> (and (= 5 5) "+
		"(exists ((i0_r1 Int) (i1_r1 Int)) (and (g i0_r1 i1_r1) (= i0_r i0_r1) (= i1_r i1_r1))) "+
		"(= 6 6)) (g i0_r i1_r)))", horn.String(encoding.Formulas[0]))
}

func Test_Encode_09(t *testing.T) {
	// Universal inner quantifiers around nested calls are shared likewise.
	inner := &ast.Quantifier{Kind: ast.ForAll, Bindings: []ast.TypedVar{{Name: "y", Sort: intSort}},
		Child: app("g", variable("t", termSort), variable("x", intSort), variable("y", intSort))}
	body := app("or", app("=", variable("r", intSort), variable("x", intSort)), inner)
	//
	ctx := horn.NewContext()
	defer ctx.Close()
	//
	p := singleFunction(t, "g", body, "t", "x", "r")
	encoding, err := NewEncoder(ctx, p).Encode([]ast.Term{
		example("g", 3, 1), example("g", 3, 2),
	})
	require.NoError(t, err)
	//
	assert.Equal(t, "(forall ((i0_r Int) (i1_r Int)) (=> (and "+
		"(or (= i0_r 1) (forall ((i0_y Int) (i1_y Int)) (g i0_y i1_y))) "+
		"(or (= i1_r 2) (forall ((i0_y Int) (i1_y Int)) (g i0_y i1_y)))) (g i0_r i1_r)))",
		horn.String(encoding.Formulas[0]))
}

// ============================================================================
// Failures
// ============================================================================

func Test_Invalid_Encode_01(t *testing.T) {
	// Unknown operator
	body := app("=", variable("r", intSort), app("frobnicate", variable("x", intSort)))
	checkEncodeErr(t, singleFunction(t, "g", body, "t", "x", "r"), example("g", 3, 1))
}

func Test_Invalid_Encode_02(t *testing.T) {
	// Unbound variable
	body := app("=", variable("r", intSort), variable("z", intSort))
	checkEncodeErr(t, singleFunction(t, "g", body, "t", "x", "r"), example("g", 3, 1))
}

func Test_Invalid_Encode_03(t *testing.T) {
	// Rows of differing lengths, or too short
	p := loadProblem(t, "arith.sem.json")
	checkEncodeErr(t, p, example("E.Sem", 3, 1), example("E.Sem", 4, 1))
	checkEncodeErr(t, p, example("E.Sem", 1, 1))
	checkEncodeErr(t, p)
}

func Test_Invalid_Encode_04(t *testing.T) {
	// Rows applying different, or unknown, functions
	p := loadProblem(t, "arith.sem.json")
	checkEncodeErr(t, p, example("E.Sem", 3, 1), example("F.Sem", 3, 1))
	checkEncodeErr(t, p, example("F.Sem", 3, 1))
	checkEncodeErr(t, p, &ast.Numeral{Value: 1})
}

func Test_Invalid_Encode_05(t *testing.T) {
	// Unsupported output sort
	body := app("true")
	p := singleFunctionWith(t, "g", body, []ast.TypedVar{{Name: "t", Sort: termSort}, {Name: "r", Sort: ast.NewIdentifier("Real")}})
	checkEncodeErr(t, p, example("g", 2, 1))
}

func Test_Invalid_Encode_06(t *testing.T) {
	// Output of the wrong sort for the indicator
	body := app("=", variable("r", boolSort), app("true"))
	p := singleFunctionWith(t, "g", body, []ast.TypedVar{{Name: "t", Sort: termSort}, {Name: "r", Sort: boolSort}})
	checkEncodeErr(t, p, example("g", 2, 1))
}

func Test_Invalid_Encode_07(t *testing.T) {
	// Match terms within results
	body := &ast.Match{Term: variable("t", termSort), Cases: []ast.MatchCase{
		{Operator: "$a", Result: &ast.Match{Term: variable("t", termSort)}},
	}}
	checkEncodeErr(t, singleFunction(t, "g", body, "t", "x", "r"), example("g", 3, 1))
}

// ============================================================================
// Helpers
// ============================================================================

func loadProblem(t *testing.T, name string) *problem.Problem {
	bytes, err := os.ReadFile(filepath.Join(TestDir, name))
	require.NoError(t, err)
	//
	events, err := event.ParseBytes(bytes)
	require.NoError(t, err)
	//
	p, err := problem.FromEvents(events, problem.Options{})
	require.NoError(t, err)
	//
	return p
}

// Construct a problem with a single function whose first argument has term
// sort, and whose remaining arguments are integers.
func singleFunction(t *testing.T, name string, body ast.Term, args ...string) *problem.Problem {
	vars := make([]ast.TypedVar, len(args))
	//
	for i, arg := range args {
		vars[i] = ast.TypedVar{Name: arg, Sort: intSort}
	}
	//
	vars[0].Sort = termSort
	//
	return singleFunctionWith(t, name, body, vars)
}

func singleFunctionWith(t *testing.T, name string, body ast.Term, args []ast.TypedVar) *problem.Problem {
	sorts := make([]ast.Identifier, len(args))
	//
	for i, arg := range args {
		sorts[i] = arg.Sort
	}
	//
	p, err := problem.FromEvents([]event.Event{
		&event.DeclareTermType{Name: "E"},
		&event.DefineFunction{Name: name, ReturnSort: boolSort, Arguments: args, Body: body},
		&event.SynthFun{Name: "f", TermType: "E", Grammar: event.Grammar{
			NonTerminals: []event.GrammarNonTerminal{{Name: "S", TermType: "E"}},
		}},
	}, problem.Options{})
	require.NoError(t, err)
	//
	return p
}

func app(name string, args ...ast.Term) *ast.Application {
	typed := make([]ast.TypedTerm, len(args))
	//
	for i, arg := range args {
		typed[i] = ast.TypedTerm{Sort: intSort, Term: arg}
	}
	//
	return ast.NewApplication(ast.NewIdentifier(name), boolSort, typed...)
}

func variable(name string, sort ast.Identifier) *ast.Variable {
	return &ast.Variable{Name: name, Sort: sort}
}

// Construct an example row with k arguments, all of which (other than the
// first) are the given value.
func example(fn string, k int, value int64) ast.Term {
	args := make([]ast.Term, k)
	args[0] = variable("f", termSort)
	//
	for i := 1; i < k; i++ {
		args[i] = &ast.Numeral{Value: value}
	}
	//
	return app(fn, args...)
}

func render(terms []horn.Term) []string {
	strs := make([]string, len(terms))
	//
	for i, term := range terms {
		strs[i] = horn.String(term)
	}
	//
	return strs
}

func checkEncodeErr(t *testing.T, p *problem.Problem, examples ...ast.Term) {
	t.Helper()
	//
	ctx := horn.NewContext()
	defer ctx.Close()
	//
	encoding, err := NewEncoder(ctx, p).Encode(examples)
	//
	var cerr *problem.ConsistencyError
	//
	assert.Nil(t, encoding)
	require.Error(t, err)
	assert.True(t, errors.As(err, &cerr), "expected consistency error, got %v", err)
}
