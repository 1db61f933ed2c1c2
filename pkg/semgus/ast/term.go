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
package ast

import (
	"fmt"
	"strings"
)

// Term represents an SMT term appearing in a function body, the constraint of
// a Horn clause or a synthesis constraint.  A term is one of *Application,
// *Variable, *Numeral, *BitVector, *Quantifier or *Match.
type Term interface {
	isTerm()
	// String returns an SMT-LIB rendering of this term.
	String() string
}

// TypedTerm is an argument of an application, paired with its declared sort.
type TypedTerm struct {
	Sort Identifier
	Term Term
}

// Application applies a named function or operator to zero or more arguments.
// A constant such as true is an application with no arguments.
type Application struct {
	Name       Identifier
	ReturnSort Identifier
	Arguments  []TypedTerm
}

// Variable is a reference to a named variable.
type Variable struct {
	Name string
	Sort Identifier
}

// Numeral is an integer literal.
type Numeral struct {
	Value int64
}

// BitVector is a fixed-width bit-vector literal.
type BitVector struct {
	Width uint
	Value uint64
}

// QuantifierKind distinguishes existential from universal quantification.
type QuantifierKind uint8

const (
	// Exists represents existential quantification.
	Exists QuantifierKind = iota
	// ForAll represents universal quantification.
	ForAll
)

func (p QuantifierKind) String() string {
	if p == Exists {
		return "exists"
	}
	//
	return "forall"
}

// Quantifier binds zero or more variables over a child term.
type Quantifier struct {
	Kind     QuantifierKind
	Bindings []TypedVar
	Child    Term
}

// Match performs a case split on a term.  Function bodies describing the
// semantics of a grammar are typically a match over the syntax term, with one
// case per production.
type Match struct {
	Term  Term
	Cases []MatchCase
}

// MatchCase is a single case of a match, which applies when the scrutinee was
// built with the given operator.  Bindings name the operator's arguments.
type MatchCase struct {
	Operator string
	Bindings []string
	Result   Term
}

func (*Application) isTerm() {}
func (*Variable) isTerm()    {}
func (*Numeral) isTerm()     {}
func (*BitVector) isTerm()   {}
func (*Quantifier) isTerm()  {}
func (*Match) isTerm()       {}

// NewApplication constructs an application whose arguments are given along
// with their sorts.
func NewApplication(name Identifier, returnSort Identifier, args ...TypedTerm) *Application {
	return &Application{name, returnSort, args}
}

// Argument returns the ith argument term of this application.
func (p *Application) Argument(i int) Term {
	return p.Arguments[i].Term
}

func (p *Application) String() string {
	if len(p.Arguments) == 0 {
		return p.Name.String()
	}
	//
	var builder strings.Builder
	//
	builder.WriteString("(")
	builder.WriteString(p.Name.String())
	//
	for _, arg := range p.Arguments {
		builder.WriteString(" ")
		builder.WriteString(arg.Term.String())
	}
	//
	builder.WriteString(")")
	//
	return builder.String()
}

func (p *Variable) String() string {
	return p.Name
}

func (p *Numeral) String() string {
	if p.Value < 0 {
		return fmt.Sprintf("(- %d)", -p.Value)
	}
	//
	return fmt.Sprintf("%d", p.Value)
}

func (p *BitVector) String() string {
	return fmt.Sprintf("(_ bv%d %d)", p.Value, p.Width)
}

func (p *Quantifier) String() string {
	bindings := make([]string, len(p.Bindings))
	//
	for i, b := range p.Bindings {
		bindings[i] = fmt.Sprintf("(%s %s)", b.Name, b.Sort.String())
	}
	//
	return fmt.Sprintf("(%s (%s) %s)", p.Kind.String(), strings.Join(bindings, " "), p.Child.String())
}

func (p *Match) String() string {
	var builder strings.Builder
	//
	builder.WriteString("(match ")
	builder.WriteString(p.Term.String())
	builder.WriteString(" (")
	//
	for i, c := range p.Cases {
		if i != 0 {
			builder.WriteString(" ")
		}
		//
		builder.WriteString(c.String())
	}
	//
	builder.WriteString("))")
	//
	return builder.String()
}

func (p MatchCase) String() string {
	pattern := p.Operator
	//
	if len(p.Bindings) > 0 {
		pattern = fmt.Sprintf("(%s %s)", p.Operator, strings.Join(p.Bindings, " "))
	}
	//
	return fmt.Sprintf("(%s %s)", pattern, p.Result.String())
}
