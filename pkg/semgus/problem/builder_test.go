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
package problem

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/consensys/go-semgus/pkg/semgus/ast"
	"github.com/consensys/go-semgus/pkg/semgus/event"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Directory containing the test problems.
const TestDir = "../../../testdata/semgus"

var (
	intSort  = ast.NewIdentifier("Int")
	boolSort = ast.NewIdentifier("Bool")
	trueTerm = ast.NewApplication(ast.NewIdentifier("true"), boolSort)
)

func Test_Build_01(t *testing.T) {
	problem := checkFile(t, "arith.sem.json")
	//
	assert.Equal(t, "f", problem.TargetName())
	assert.Equal(t, []string{"Start"}, problem.NonTerminalNames())
	assert.Equal(t, "E", problem.Target().TermType())
	assert.Equal(t, []string{"$x", "$one", "$plus"}, problem.Target().Operators())
	assert.Len(t, problem.Constraints(), 2)
	assert.Equal(t, ast.StringValue("arith"), problem.Metadata()["source"])
	assert.Equal(t, []string{"E.Sem"}, problem.SmtContext().FunctionNames())
	//
	plus, ok := problem.Target().Production("$plus")
	require.True(t, ok)
	assert.Equal(t, uint(2), plus.Arity())
	require.Len(t, plus.Rules(), 1)
	//
	rule := plus.Rules()[0]
	assert.Len(t, rule.Body, 2)
	assert.True(t, rule.Variables["x"].IsInput())
	assert.True(t, rule.Variables["r"].IsOutput())
	assert.False(t, rule.Variables["r1"].IsOutput())
	// Children resolve within the grammar
	for _, child := range plus.Children() {
		assert.Same(t, problem.Target(), child)
	}
}

func Test_Build_02(t *testing.T) {
	// Nonterminals are exactly those of the grammar, and can refer forwards.
	b := newTestBuilder("E", "F")
	b.define("E", "$e", "F")
	b.define("F", "$f")
	b.synth("f", "E", []event.GrammarNonTerminal{{Name: "S", TermType: "E"}, {Name: "T", TermType: "F"}},
		production("S", "$e", "T"), production("T", "$f"))
	//
	problem := b.finish(t)
	//
	assert.Equal(t, []string{"S", "T"}, problem.NonTerminalNames())
	assert.Equal(t, "S", problem.Target().Name())
	//
	prod, _ := problem.Target().Production("$e")
	child, _ := problem.NonTerminal("T")
	//
	assert.Equal(t, []*NonTerminal{child}, prod.Children())
}

func Test_Build_03(t *testing.T) {
	// Target is the first nonterminal of the synth-fun's term type.
	b := newTestBuilder("E", "F")
	b.define("E", "$e")
	b.define("F", "$f")
	b.synth("f", "F", []event.GrammarNonTerminal{{Name: "A", TermType: "E"}, {Name: "B", TermType: "F"},
		{Name: "C", TermType: "F"}}, production("B", "$f"), production("C", "$f"))
	//
	assert.Equal(t, "B", b.finish(t).Target().Name())
}

func Test_Build_04(t *testing.T) {
	// Two CHCs for distinct constructors never conflict
	b := newTestBuilder("E")
	b.consume(&event.DefineTermType{Name: "E", Constructors: []event.TermConstructor{{Name: "$a"}, {Name: "$b"}}})
	b.chc("$a", "E", "x")
	b.chc("$b", "E", "x")
	b.chc("$b", "E", "x")
	b.synth("f", "E", []event.GrammarNonTerminal{{Name: "S", TermType: "E"}}, production("S", "$a"),
		production("S", "$b"))
	//
	problem := b.finish(t)
	a, _ := problem.Target().Production("$a")
	bp, _ := problem.Target().Production("$b")
	//
	assert.Len(t, a.Rules(), 1)
	assert.Len(t, bp.Rules(), 2)
	assert.Empty(t, a.Children())
	assert.Empty(t, bp.Children())
}

func Test_Build_05(t *testing.T) {
	// Snapshots are unaffected by mutating returned values.
	problem := checkFile(t, "arith.sem.json")
	before := problem.SmtContext()
	//
	problem.SmtContext().Functions["g"] = ast.Function{Name: "g"}
	problem.Metadata()["source"] = ast.StringValue("changed")
	problem.Constraints()[0] = nil
	problem.Target().Productions()[0] = nil
	//
	fn, _ := problem.Target().Production("$x")
	fn.Rules()[0].Variables["x"].Attributes["output"] = ast.UnitValue{}
	//
	after := problem.SmtContext()
	//
	if diff := cmp.Diff(before.FunctionNames(), after.FunctionNames()); diff != "" {
		t.Errorf("context changed (-before +after):\n%s", diff)
	}
	//
	assert.Equal(t, ast.StringValue("arith"), problem.Metadata()["source"])
	assert.NotNil(t, problem.Constraints()[0])
	assert.NotNil(t, problem.Target().Productions()[0])
	assert.False(t, fn.Rules()[0].Variables["x"].IsOutput())
}

func Test_Build_06(t *testing.T) {
	// Rules are copied into productions by value.
	problem := checkFile(t, "arith.sem.json")
	tt, ok := problem.TermType("E")
	require.True(t, ok)
	//
	constructor, ok := tt.Constructor("$plus")
	require.True(t, ok)
	//
	prod, _ := problem.Target().Production("$plus")
	opts := cmp.Comparer(func(a, b ast.Term) bool { return a.String() == b.String() })
	//
	if diff := cmp.Diff(constructor.Rules, prod.Rules(), opts); diff != "" {
		t.Errorf("rules differ (-constructor +production):\n%s", diff)
	}
}

func Test_Build_07(t *testing.T) {
	// Redefinition permitted under options, with the last definition kept.
	b := NewBuilder(Options{AllowRedefinition: true})
	require.NoError(t, b.Consume(&event.DefineFunction{Name: "g", ReturnSort: intSort, Body: &ast.Numeral{Value: 1}}))
	require.NoError(t, b.Consume(&event.DefineFunction{Name: "g", ReturnSort: intSort, Body: &ast.Numeral{Value: 2}}))
	require.NoError(t, b.Consume(&event.DefineDatatype{Name: "D"}))
	require.NoError(t, b.Consume(&event.DefineDatatype{Name: "D"}))
	require.NoError(t, b.Consume(&event.DeclareTermType{Name: "E"}))
	require.NoError(t, b.Consume(&event.SynthFun{Name: "f", TermType: "E",
		Grammar: event.Grammar{NonTerminals: []event.GrammarNonTerminal{{Name: "S", TermType: "E"}}}}))
	//
	problem, err := b.Finish()
	require.NoError(t, err)
	assert.Equal(t, &ast.Numeral{Value: 2}, problem.SmtContext().Functions["g"].Body)
}

func Test_Build_08(t *testing.T) {
	// Metadata is last write wins.
	b := newTestBuilder("E")
	b.consume(&event.SetInfo{Keyword: "k", Value: ast.NumberValue(1)})
	b.consume(&event.SetInfo{Keyword: "k", Value: ast.NumberValue(2)})
	b.synth("f", "E", []event.GrammarNonTerminal{{Name: "S", TermType: "E"}})
	//
	assert.Equal(t, ast.NumberValue(2), b.finish(t).Metadata()["k"])
}

// ============================================================================
// Failures
// ============================================================================

func Test_Invalid_Build_01(t *testing.T) {
	b := newTestBuilder("E")
	checkConsumeErr(t, b, &event.DeclareTermType{Name: "E"})
}

func Test_Invalid_Build_02(t *testing.T) {
	b := newTestBuilder()
	checkConsumeErr(t, b, &event.DefineTermType{Name: "E"})
}

func Test_Invalid_Build_03(t *testing.T) {
	// Duplicate constructors within a term type, in one event or across two.
	b := newTestBuilder("E")
	checkConsumeErr(t, b, &event.DefineTermType{Name: "E",
		Constructors: []event.TermConstructor{{Name: "$a"}, {Name: "$a"}}})
	//
	b = newTestBuilder("E")
	b.define("E", "$a")
	checkConsumeErr(t, b, &event.DefineTermType{Name: "E", Constructors: []event.TermConstructor{{Name: "$a"}}})
}

func Test_Invalid_Build_04(t *testing.T) {
	b := newTestBuilder("E")
	checkConsumeErr(t, b, &event.DefineTermType{Name: "E",
		Constructors: []event.TermConstructor{{Name: "$a", Children: []string{"F"}}}})
}

func Test_Invalid_Build_05(t *testing.T) {
	b := newTestBuilder("E")
	b.define("E", "$a")
	checkConsumeErr(t, b, hornClause("$b", "E", "x"))
	checkConsumeErr(t, b, hornClause("$a", "F", "x"))
}

func Test_Invalid_Build_06(t *testing.T) {
	b := newTestBuilder("E")
	b.define("E", "$a")
	checkConsumeErr(t, b, hornClause("$a", "E", "x", "x"))
	//
	clause := hornClause("$a", "E", "x")
	clause.InputVariables = []string{"y"}
	checkConsumeErr(t, b, clause)
	//
	clause = hornClause("$a", "E", "x")
	clause.OutputVariables = []string{"y"}
	checkConsumeErr(t, b, clause)
}

func Test_Invalid_Build_07(t *testing.T) {
	// Duplicate nonterminals
	b := newTestBuilder("E")
	checkConsumeErr(t, b, synthFun("f", "E", []event.GrammarNonTerminal{{Name: "S", TermType: "E"},
		{Name: "S", TermType: "E"}}))
}

func Test_Invalid_Build_08(t *testing.T) {
	// Dangling occurrence, naming the reference.
	b := newTestBuilder("E")
	b.define("E", "$a", "E")
	err := b.builder.Consume(synthFun("f", "E", []event.GrammarNonTerminal{{Name: "S", TermType: "E"}},
		production("S", "$a", "Missing")))
	//
	checkConsistencyErr(t, err)
	assert.Contains(t, err.Error(), "\"Missing\"")
}

func Test_Invalid_Build_09(t *testing.T) {
	// Unknown instance, duplicate operator
	b := newTestBuilder("E")
	nts := []event.GrammarNonTerminal{{Name: "S", TermType: "E"}}
	checkConsumeErr(t, b, synthFun("f", "E", nts, production("T", "$a")))
	checkConsumeErr(t, b, synthFun("f", "E", nts, production("S", "$a"), production("S", "$a")))
}

func Test_Invalid_Build_10(t *testing.T) {
	// Nonterminal with undeclared term type, or synth-fun of undeclared term type
	b := newTestBuilder("E")
	checkConsumeErr(t, b, synthFun("f", "E", []event.GrammarNonTerminal{{Name: "S", TermType: "F"}}))
	checkConsumeErr(t, b, synthFun("f", "F", nil))
}

func Test_Invalid_Build_11(t *testing.T) {
	b := newTestBuilder("E")
	b.synth("f", "E", []event.GrammarNonTerminal{{Name: "S", TermType: "E"}})
	checkConsumeErr(t, b, synthFun("g", "E", []event.GrammarNonTerminal{{Name: "S", TermType: "E"}}))
}

func Test_Invalid_Build_12(t *testing.T) {
	// No synth-fun
	_, err := newTestBuilder("E").builder.Finish()
	checkConsistencyErr(t, err)
}

func Test_Invalid_Build_13(t *testing.T) {
	// Production operator without a matching constructor
	b := newTestBuilder("E")
	b.define("E", "$a")
	b.synth("f", "E", []event.GrammarNonTerminal{{Name: "S", TermType: "E"}}, production("S", "$b"))
	//
	_, err := b.builder.Finish()
	checkConsistencyErr(t, err)
}

func Test_Invalid_Build_14(t *testing.T) {
	// No nonterminal for the target term type
	b := newTestBuilder("E", "F")
	b.synth("f", "E", []event.GrammarNonTerminal{{Name: "S", TermType: "F"}})
	//
	_, err := b.builder.Finish()
	checkConsistencyErr(t, err)
}

func Test_Invalid_Build_15(t *testing.T) {
	// Builder is spent after finishing
	b := newTestBuilder("E")
	b.synth("f", "E", []event.GrammarNonTerminal{{Name: "S", TermType: "E"}})
	b.finish(t)
	//
	checkConsumeErr(t, b, &event.CheckSynth{})
	//
	_, err := b.builder.Finish()
	checkConsistencyErr(t, err)
}

func Test_Invalid_Build_16(t *testing.T) {
	b := newTestBuilder()
	b.consume(&event.DefineFunction{Name: "g", ReturnSort: intSort, Body: &ast.Numeral{Value: 1}})
	checkConsumeErr(t, b, &event.DefineFunction{Name: "g", ReturnSort: intSort, Body: &ast.Numeral{Value: 1}})
	b.consume(&event.DefineDatatype{Name: "D"})
	checkConsumeErr(t, b, &event.DefineDatatype{Name: "D"})
}

func Test_Invalid_Build_17(t *testing.T) {
	// Production arity disagrees with its constructor
	b := newTestBuilder("E")
	b.define("E", "$a", "E")
	b.synth("f", "E", []event.GrammarNonTerminal{{Name: "S", TermType: "E"}}, production("S", "$a"))
	//
	_, err := b.builder.Finish()
	checkConsistencyErr(t, err)
}

// ============================================================================
// Helpers
// ============================================================================

type testBuilder struct {
	builder *Builder
}

// Construct a builder with a given set of declared term types.
func newTestBuilder(termTypes ...string) *testBuilder {
	b := &testBuilder{NewBuilder(Options{})}
	//
	for _, tt := range termTypes {
		if err := b.builder.Consume(&event.DeclareTermType{Name: tt}); err != nil {
			panic(err)
		}
	}
	//
	return b
}

func (p *testBuilder) consume(e event.Event) {
	if err := p.builder.Consume(e); err != nil {
		panic(err)
	}
}

// Define a single constructor of a term type.
func (p *testBuilder) define(termType string, operator string, children ...string) {
	p.consume(&event.DefineTermType{Name: termType,
		Constructors: []event.TermConstructor{{Name: operator, Children: children}}})
}

func (p *testBuilder) chc(operator string, termType string, vars ...string) {
	p.consume(hornClause(operator, termType, vars...))
}

func (p *testBuilder) synth(name string, termType string, nts []event.GrammarNonTerminal,
	prods ...event.GrammarProduction) {
	p.consume(synthFun(name, termType, nts, prods...))
}

func (p *testBuilder) finish(t *testing.T) *Problem {
	problem, err := p.builder.Finish()
	require.NoError(t, err)
	//
	return problem
}

func hornClause(operator string, termType string, vars ...string) *event.HornClause {
	return &event.HornClause{
		Constructor: event.ClauseConstructor{Name: operator, ReturnSort: termType},
		Head:        ast.RelationApp{Name: termType + ".Sem"},
		Constraint:  trueTerm,
		Variables:   vars,
	}
}

func synthFun(name string, termType string, nts []event.GrammarNonTerminal,
	prods ...event.GrammarProduction) *event.SynthFun {
	return &event.SynthFun{Name: name, TermType: termType, Grammar: event.Grammar{NonTerminals: nts, Productions: prods}}
}

func production(instance string, operator string, occurrences ...string) event.GrammarProduction {
	return event.GrammarProduction{Instance: instance, Operator: operator, Occurrences: occurrences}
}

func checkFile(t *testing.T, name string) *Problem {
	bytes, err := os.ReadFile(filepath.Join(TestDir, name))
	require.NoError(t, err)
	//
	events, err := event.ParseBytes(bytes)
	require.NoError(t, err)
	//
	problem, err := FromEvents(events, Options{})
	require.NoError(t, err)
	//
	return problem
}

func checkConsumeErr(t *testing.T, b *testBuilder, e event.Event) {
	t.Helper()
	checkConsistencyErr(t, b.builder.Consume(e))
}

func checkConsistencyErr(t *testing.T, err error) {
	t.Helper()
	//
	var cerr *ConsistencyError
	//
	require.Error(t, err)
	assert.True(t, errors.As(err, &cerr), "expected consistency error, got %v", err)
}
