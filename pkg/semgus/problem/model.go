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
	"maps"
	"slices"

	"github.com/consensys/go-semgus/pkg/semgus/ast"
)

// SemanticRule is a single Constrained Horn Clause describing the semantics of
// a term type constructor.
type SemanticRule struct {
	// Variables bound to the children of the constructor.
	ChildTermVars []ast.TypedVar
	// Conclusion of the clause.
	Head ast.RelationApp
	// Premises of the clause.
	Body []ast.RelationApp
	// Constraint which must hold for the clause to apply.
	Constraint ast.Term
	// Every variable of the clause, annotated with its role.
	Variables map[string]ast.AnnotatedVar
}

// Clone returns a copy of this rule which shares no mutable state with it.
func (p SemanticRule) Clone() SemanticRule {
	vars := make(map[string]ast.AnnotatedVar, len(p.Variables))
	//
	for k, v := range p.Variables {
		vars[k] = v.Clone()
	}
	//
	return SemanticRule{
		slices.Clone(p.ChildTermVars),
		p.Head,
		slices.Clone(p.Body),
		p.Constraint,
		vars,
	}
}

// Constructor is a named constructor of a term type, whose children are given
// by their term types.
type Constructor struct {
	Name     string
	Children []string
	Rules    []SemanticRule
}

func (p *Constructor) clone() *Constructor {
	rules := make([]SemanticRule, len(p.Rules))
	//
	for i, r := range p.Rules {
		rules[i] = r.Clone()
	}
	//
	return &Constructor{p.Name, slices.Clone(p.Children), rules}
}

// TermType is a syntactic sort, whose values are built from its constructors.
type TermType struct {
	name string
	// Constructors in order of definition
	constructors []*Constructor
}

// Name returns the name of this term type.
func (p *TermType) Name() string {
	return p.name
}

// Constructor looks up a constructor of this term type by name.
func (p *TermType) Constructor(name string) (Constructor, bool) {
	if c := p.find(name); c != nil {
		return *c.clone(), true
	}
	//
	return Constructor{}, false
}

// Constructors returns the constructors of this term type, in the order they
// were defined.
func (p *TermType) Constructors() []Constructor {
	constructors := make([]Constructor, len(p.constructors))
	//
	for i, c := range p.constructors {
		constructors[i] = *c.clone()
	}
	//
	return constructors
}

func (p *TermType) find(name string) *Constructor {
	for _, c := range p.constructors {
		if c.Name == name {
			return c
		}
	}
	//
	return nil
}

func (p *TermType) clone() *TermType {
	constructors := make([]*Constructor, len(p.constructors))
	//
	for i, c := range p.constructors {
		constructors[i] = c.clone()
	}
	//
	return &TermType{p.name, constructors}
}

// NonTerminal is a nonterminal of the target grammar.  Each nonterminal
// generates terms of a given term type, via one or more productions.
type NonTerminal struct {
	name        string
	termType    string
	operators   []string
	productions map[string]*Production
}

// Name returns the name of this nonterminal.
func (p *NonTerminal) Name() string {
	return p.name
}

// TermType returns the name of the term type generated by this nonterminal.
func (p *NonTerminal) TermType() string {
	return p.termType
}

// Operators returns the operators of this nonterminal's productions, in
// grammar order.
func (p *NonTerminal) Operators() []string {
	return slices.Clone(p.operators)
}

// Production returns the production of this nonterminal for a given operator.
func (p *NonTerminal) Production(operator string) (*Production, bool) {
	prod, ok := p.productions[operator]
	return prod, ok
}

// Productions returns the productions of this nonterminal, in grammar order.
func (p *NonTerminal) Productions() []*Production {
	prods := make([]*Production, len(p.operators))
	//
	for i, op := range p.operators {
		prods[i] = p.productions[op]
	}
	//
	return prods
}

// Production is a single production of a nonterminal, which builds a term
// using a given operator (i.e. term type constructor) from terms generated by
// its child nonterminals.
type Production struct {
	operator string
	children []*NonTerminal
	rules    []SemanticRule
}

// Operator returns the operator of this production.
func (p *Production) Operator() string {
	return p.operator
}

// Arity returns the number of children of this production.
func (p *Production) Arity() uint {
	return uint(len(p.children))
}

// Children returns the nonterminals of this production's children.
func (p *Production) Children() []*NonTerminal {
	return slices.Clone(p.children)
}

// Rules returns the semantic rules attached to this production.
func (p *Production) Rules() []SemanticRule {
	rules := make([]SemanticRule, len(p.rules))
	//
	for i, r := range p.rules {
		rules[i] = r.Clone()
	}
	//
	return rules
}

// Problem is a complete SemGuS problem.  A problem is immutable once built.
type Problem struct {
	targetName   string
	target       *NonTerminal
	nonTerminals map[string]*NonTerminal
	// Nonterminal names in grammar order
	order       []string
	constraints []ast.Term
	metadata    map[string]ast.AttributeValue
	smt         ast.SmtContext
	termTypes   map[string]*TermType
}

// TargetName returns the name of the function being synthesized.
func (p *Problem) TargetName() string {
	return p.targetName
}

// Target returns the nonterminal from which candidate programs are generated.
func (p *Problem) Target() *NonTerminal {
	return p.target
}

// NonTerminal looks up a grammar nonterminal by name.
func (p *Problem) NonTerminal(name string) (*NonTerminal, bool) {
	nt, ok := p.nonTerminals[name]
	return nt, ok
}

// NonTerminals returns a mapping from names to grammar nonterminals.
func (p *Problem) NonTerminals() map[string]*NonTerminal {
	return maps.Clone(p.nonTerminals)
}

// NonTerminalNames returns the names of all nonterminals, in grammar order.
func (p *Problem) NonTerminalNames() []string {
	return slices.Clone(p.order)
}

// Constraints returns the synthesis constraints, in stream order.
func (p *Problem) Constraints() []ast.Term {
	return slices.Clone(p.constraints)
}

// Metadata returns the metadata attributes set for this problem.
func (p *Problem) Metadata() map[string]ast.AttributeValue {
	return maps.Clone(p.metadata)
}

// SmtContext returns the datatypes and functions defined by this problem.
func (p *Problem) SmtContext() ast.SmtContext {
	return p.smt.Clone()
}

// TermType looks up a term type by name.
func (p *Problem) TermType(name string) (*TermType, bool) {
	tt, ok := p.termTypes[name]
	return tt, ok
}

// TermTypeNames returns the names of all term types, in sorted order.
func (p *Problem) TermTypeNames() []string {
	names := make([]string, 0, len(p.termTypes))
	for name := range p.termTypes {
		names = append(names, name)
	}
	slices.Sort(names)
	//
	return names
}
