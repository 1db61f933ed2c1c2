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
	"fmt"
	"maps"
	"slices"

	"github.com/consensys/go-semgus/pkg/semgus/ast"
	"github.com/consensys/go-semgus/pkg/semgus/event"
	log "github.com/sirupsen/logrus"
)

// Options control how a builder treats events which are questionable, but
// which could be accepted.
type Options struct {
	// AllowRedefinition permits functions and datatypes to be defined more
	// than once, in which case the last definition is retained.
	AllowRedefinition bool
}

// Builder constructs a problem from a sequence of events.  Events are consumed
// one at a time, in stream order, after which the problem is produced by
// Finish.  A builder can produce at most one problem.
type Builder struct {
	options     Options
	metadata    map[string]ast.AttributeValue
	smt         ast.SmtContext
	termTypes   map[string]*TermType
	constraints []ast.Term
	synth       *event.SynthFun
	finished    bool
}

// NewBuilder constructs an empty builder.
func NewBuilder(options Options) *Builder {
	return &Builder{
		options:   options,
		metadata:  make(map[string]ast.AttributeValue),
		smt:       ast.NewSmtContext(),
		termTypes: make(map[string]*TermType),
	}
}

// FromEvents builds a problem from a complete sequence of events.
func FromEvents(events []event.Event, options Options) (*Problem, error) {
	builder := NewBuilder(options)
	//
	for i, e := range events {
		if err := builder.Consume(e); err != nil {
			return nil, fmt.Errorf("event %d (%s): %w", i, e.Kind(), err)
		}
	}
	//
	return builder.Finish()
}

// Consume folds a single event into the problem being built.
func (p *Builder) Consume(e event.Event) error {
	if p.finished {
		return Errorf("builder already finished")
	}
	//
	log.Debugf("consuming %s event", e.Kind())
	//
	var err *ConsistencyError
	//
	switch e := e.(type) {
	case *event.SetInfo:
		p.metadata[e.Keyword] = e.Value
	case *event.StreamEnd, *event.CheckSynth, *event.DeclareFunction, *event.DeclareDatatype:
		// nothing to do
	case *event.DefineFunction:
		err = p.defineFunction(e)
	case *event.DefineDatatype:
		err = p.defineDatatype(e)
	case *event.DeclareTermType:
		err = p.declareTermType(e)
	case *event.DefineTermType:
		err = p.defineTermType(e)
	case *event.HornClause:
		err = p.hornClause(e)
	case *event.Constraint:
		p.constraints = append(p.constraints, e.Term)
	case *event.SynthFun:
		err = p.synthFun(e)
	default:
		return Errorf("unknown event \"%s\"", e.Kind())
	}
	//
	if err != nil {
		return err
	}
	//
	return nil
}

func (p *Builder) defineFunction(e *event.DefineFunction) *ConsistencyError {
	if _, ok := p.smt.Functions[e.Name]; ok {
		if !p.options.AllowRedefinition {
			return Errorf("function \"%s\" already defined", e.Name)
		}
		//
		log.Warnf("function \"%s\" redefined", e.Name)
	}
	//
	p.smt.Functions[e.Name] = ast.Function{
		Name:       e.Name,
		ReturnSort: e.ReturnSort,
		Arguments:  slices.Clone(e.Arguments),
		Body:       e.Body,
	}
	//
	return nil
}

func (p *Builder) defineDatatype(e *event.DefineDatatype) *ConsistencyError {
	if _, ok := p.smt.Datatypes[e.Name]; ok {
		if !p.options.AllowRedefinition {
			return Errorf("datatype \"%s\" already defined", e.Name)
		}
		//
		log.Warnf("datatype \"%s\" redefined", e.Name)
	}
	//
	constructors := make(map[string]ast.DatatypeConstructor)
	//
	for _, c := range e.Constructors {
		if _, ok := constructors[c.Name]; ok {
			return Errorf("duplicate constructor \"%s\" for datatype \"%s\"", c.Name, e.Name)
		}
		//
		constructors[c.Name] = c
	}
	//
	p.smt.Datatypes[e.Name] = ast.Datatype{Name: e.Name, Constructors: constructors}
	//
	return nil
}

func (p *Builder) declareTermType(e *event.DeclareTermType) *ConsistencyError {
	if _, ok := p.termTypes[e.Name]; ok {
		return Errorf("term type \"%s\" already declared", e.Name)
	}
	//
	p.termTypes[e.Name] = &TermType{name: e.Name}
	//
	return nil
}

func (p *Builder) defineTermType(e *event.DefineTermType) *ConsistencyError {
	tt, ok := p.termTypes[e.Name]
	//
	if !ok {
		return Errorf("term type \"%s\" defined before declaration", e.Name)
	}
	//
	for _, c := range e.Constructors {
		if tt.find(c.Name) != nil {
			return Errorf("duplicate constructor \"%s\" for term type \"%s\"", c.Name, e.Name)
		}
		//
		for _, child := range c.Children {
			if _, ok := p.termTypes[child]; !ok {
				return Errorf("constructor \"%s\" of term type \"%s\" has undeclared child type \"%s\"",
					c.Name, e.Name, child)
			}
		}
		//
		tt.constructors = append(tt.constructors, &Constructor{Name: c.Name, Children: slices.Clone(c.Children)})
	}
	//
	return nil
}

func (p *Builder) hornClause(e *event.HornClause) *ConsistencyError {
	tt, ok := p.termTypes[e.Constructor.ReturnSort]
	//
	if !ok {
		return Errorf("CHC for constructor \"%s\" has unknown term type \"%s\"",
			e.Constructor.Name, e.Constructor.ReturnSort)
	}
	//
	constructor := tt.find(e.Constructor.Name)
	//
	if constructor == nil {
		return Errorf("CHC for unknown constructor \"%s\" of term type \"%s\"", e.Constructor.Name, tt.name)
	}
	//
	vars := make(map[string]ast.AnnotatedVar, len(e.Variables))
	//
	for _, name := range e.Variables {
		if _, ok := vars[name]; ok {
			return Errorf("duplicate variable \"%s\" in CHC for constructor \"%s\"", name, constructor.Name)
		}
		//
		vars[name] = ast.NewAnnotatedVar(name)
	}
	//
	if err := annotate(vars, e.InputVariables, ast.InputAttribute); err != nil {
		return err
	} else if err := annotate(vars, e.OutputVariables, ast.OutputAttribute); err != nil {
		return err
	}
	//
	constructor.Rules = append(constructor.Rules, SemanticRule{
		ChildTermVars: slices.Clone(e.Constructor.Arguments),
		Head:          e.Head,
		Body:          slices.Clone(e.Body),
		Constraint:    e.Constraint,
		Variables:     vars,
	})
	//
	return nil
}

func annotate(vars map[string]ast.AnnotatedVar, names []string, attribute string) *ConsistencyError {
	for _, name := range names {
		v, ok := vars[name]
		//
		if !ok {
			return Errorf("unknown variable \"%s\" declared as %s", name, attribute)
		}
		//
		v.Attributes[attribute] = ast.UnitValue{}
	}
	//
	return nil
}

// Check the grammar of a synth-fun event is self-consistent, and record it.
func (p *Builder) synthFun(e *event.SynthFun) *ConsistencyError {
	if p.synth != nil {
		return Errorf("multiple synth-fun events (\"%s\" and \"%s\")", p.synth.Name, e.Name)
	} else if _, ok := p.termTypes[e.TermType]; !ok {
		return Errorf("synth-fun \"%s\" has undeclared term type \"%s\"", e.Name, e.TermType)
	}
	//
	nonterminals := make(map[string]map[string]bool)
	//
	for _, nt := range e.Grammar.NonTerminals {
		if _, ok := nonterminals[nt.Name]; ok {
			return Errorf("duplicate nonterminal \"%s\"", nt.Name)
		} else if _, ok := p.termTypes[nt.TermType]; !ok {
			return Errorf("nonterminal \"%s\" has undeclared term type \"%s\"", nt.Name, nt.TermType)
		}
		//
		nonterminals[nt.Name] = make(map[string]bool)
	}
	//
	for _, prod := range e.Grammar.Productions {
		operators, ok := nonterminals[prod.Instance]
		//
		if !ok {
			return Errorf("unknown nonterminal \"%s\" referenced in production", prod.Instance)
		} else if operators[prod.Operator] {
			return Errorf("duplicate production \"%s\" for nonterminal \"%s\"", prod.Operator, prod.Instance)
		}
		//
		for _, occ := range prod.Occurrences {
			if _, ok := nonterminals[occ]; !ok {
				return Errorf("unknown nonterminal \"%s\" referenced in production \"%s\" of \"%s\"",
					occ, prod.Operator, prod.Instance)
			}
		}
		//
		operators[prod.Operator] = true
	}
	//
	p.synth = e
	//
	return nil
}

// Finish produces the problem described by all events consumed so far.  The
// builder cannot be used thereafter.
func (p *Builder) Finish() (*Problem, error) {
	if p.finished {
		return nil, Errorf("builder already finished")
	} else if p.synth == nil {
		return nil, Errorf("no synth-fun event")
	}
	//
	p.finished = true
	//
	termTypes := make(map[string]*TermType, len(p.termTypes))
	//
	for name, tt := range p.termTypes {
		termTypes[name] = tt.clone()
	}
	// Allocate nonterminals first, so that productions can refer to any of
	// them.
	var (
		grammar      = p.synth.Grammar
		order        = make([]string, len(grammar.NonTerminals))
		nonterminals = make(map[string]*NonTerminal, len(grammar.NonTerminals))
		target       *NonTerminal
	)
	//
	for i, nt := range grammar.NonTerminals {
		order[i] = nt.Name
		nonterminals[nt.Name] = &NonTerminal{
			name:        nt.Name,
			termType:    nt.TermType,
			productions: make(map[string]*Production),
		}
	}
	// Populate productions
	for _, prod := range grammar.Productions {
		nt := nonterminals[prod.Instance]
		tt, ok := termTypes[nt.termType]
		//
		if !ok {
			return nil, Errorf("nonterminal \"%s\" has unknown term type \"%s\"", nt.name, nt.termType)
		}
		//
		constructor := tt.find(prod.Operator)
		//
		if constructor == nil {
			return nil, Errorf("production \"%s\" of nonterminal \"%s\" has no constructor in term type \"%s\"",
				prod.Operator, nt.name, tt.name)
		} else if len(constructor.Children) != len(prod.Occurrences) {
			return nil, Errorf("production \"%s\" of nonterminal \"%s\" has %d children, expected %d",
				prod.Operator, nt.name, len(prod.Occurrences), len(constructor.Children))
		}
		//
		children := make([]*NonTerminal, len(prod.Occurrences))
		//
		for i, occ := range prod.Occurrences {
			children[i] = nonterminals[occ]
		}
		//
		rules := make([]SemanticRule, len(constructor.Rules))
		//
		for i, r := range constructor.Rules {
			rules[i] = r.Clone()
		}
		//
		nt.operators = append(nt.operators, prod.Operator)
		nt.productions[prod.Operator] = &Production{prod.Operator, children, rules}
	}
	//
	for _, name := range order {
		if nt := nonterminals[name]; nt.termType == p.synth.TermType {
			target = nt
			break
		}
	}
	//
	if target == nil {
		return nil, Errorf("no nonterminal of term type \"%s\" for synth-fun \"%s\"", p.synth.TermType, p.synth.Name)
	}
	//
	problem := &Problem{
		targetName:   p.synth.Name,
		target:       target,
		nonTerminals: nonterminals,
		order:        order,
		constraints:  slices.Clone(p.constraints),
		metadata:     maps.Clone(p.metadata),
		smt:          p.smt.Clone(),
		termTypes:    termTypes,
	}
	// Release accumulated state
	p.metadata, p.termTypes, p.constraints, p.synth = nil, nil, nil, nil
	p.smt = ast.SmtContext{}
	//
	return problem, nil
}
