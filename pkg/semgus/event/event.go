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
package event

import (
	"github.com/consensys/go-semgus/pkg/semgus/ast"
)

// Event names, as given by the discriminator field of each event object.
const (
	SET_INFO          = "set-info"
	END_OF_STREAM     = "end-of-stream"
	DECLARE_FUNCTION  = "declare-function"
	DEFINE_FUNCTION   = "define-function"
	DECLARE_DATATYPE  = "declare-datatype"
	DEFINE_DATATYPE   = "define-datatype"
	CHECK_SYNTH       = "check-synth"
	DECLARE_TERM_TYPE = "declare-term-type"
	DEFINE_TERM_TYPE  = "define-term-type"
	CHC               = "chc"
	CONSTRAINT        = "constraint"
	SYNTH_FUN         = "synth-fun"
)

// Event is a single element of a specification event stream.  This is one of
// *SetInfo, *StreamEnd, *DeclareFunction, *DefineFunction, *DeclareDatatype,
// *DefineDatatype, *CheckSynth, *DeclareTermType, *DefineTermType,
// *HornClause, *Constraint or *SynthFun.
type Event interface {
	isEvent()
	// Kind returns the discriminator identifying this kind of event.
	Kind() string
}

// ============================================================================
// Meta events
// ============================================================================

// SetInfo records a metadata attribute of the problem.
type SetInfo struct {
	Keyword string
	Value   ast.AttributeValue
}

// StreamEnd marks the end of the event stream.
type StreamEnd struct{}

// ============================================================================
// SMT events
// ============================================================================

// DeclareFunction declares the rank of a function without defining it.
type DeclareFunction struct {
	Name          string
	ReturnSort    ast.Identifier
	ArgumentSorts []ast.Identifier
}

// DefineFunction defines a function, including its body.
type DefineFunction struct {
	Name       string
	ReturnSort ast.Identifier
	Arguments  []ast.TypedVar
	Body       ast.Term
}

// DeclareDatatype declares a datatype without defining its constructors.
type DeclareDatatype struct {
	Name  string
	Arity int64
}

// DefineDatatype defines the constructors of a datatype.
type DefineDatatype struct {
	Name         string
	Constructors []ast.DatatypeConstructor
}

// ============================================================================
// SemGuS events
// ============================================================================

// CheckSynth requests that the problem be solved.
type CheckSynth struct{}

// DeclareTermType declares a term type, without defining its constructors.
type DeclareTermType struct {
	Name string
}

// DefineTermType attaches constructors to a previously declared term type.
type DefineTermType struct {
	Name         string
	Constructors []TermConstructor
}

// TermConstructor is a constructor of a term type, whose children are named
// by their term types.
type TermConstructor struct {
	Name     string
	Children []string
}

// HornClause gives one Constrained Horn Clause of the semantics of a term
// type constructor.  The variable lists are exactly as given in the stream,
// and are checked for consistency when the problem is built.
type HornClause struct {
	Constructor     ClauseConstructor
	Head            ast.RelationApp
	Body            []ast.RelationApp
	Constraint      ast.Term
	Variables       []string
	InputVariables  []string
	OutputVariables []string
}

// ClauseConstructor identifies the term type constructor whose semantics a
// Horn clause describes, along with the variables bound to its children.
type ClauseConstructor struct {
	Name       string
	ReturnSort string
	Arguments  []ast.TypedVar
}

// Constraint gives a synthesis constraint (e.g. an input/output example).
type Constraint struct {
	Term ast.Term
}

// SynthFun names the function to synthesize, along with its grammar.
type SynthFun struct {
	Name     string
	TermType string
	Grammar  Grammar
}

// Grammar describes the grammar of candidate programs for a SynthFun.
type Grammar struct {
	NonTerminals []GrammarNonTerminal
	Productions  []GrammarProduction
}

// GrammarNonTerminal is a nonterminal of a grammar, along with its term type.
type GrammarNonTerminal struct {
	Name     string
	TermType string
}

// GrammarProduction is a production of a nonterminal (the instance), whose
// children (the occurrences) are named nonterminals.
type GrammarProduction struct {
	Instance    string
	Operator    string
	Occurrences []string
}

func (*SetInfo) isEvent()         {}
func (*StreamEnd) isEvent()       {}
func (*DeclareFunction) isEvent() {}
func (*DefineFunction) isEvent()  {}
func (*DeclareDatatype) isEvent() {}
func (*DefineDatatype) isEvent()  {}
func (*CheckSynth) isEvent()      {}
func (*DeclareTermType) isEvent() {}
func (*DefineTermType) isEvent()  {}
func (*HornClause) isEvent()      {}
func (*Constraint) isEvent()      {}
func (*SynthFun) isEvent()        {}

// Kind returns the discriminator of this event.
func (*SetInfo) Kind() string { return SET_INFO }

// Kind returns the discriminator of this event.
func (*StreamEnd) Kind() string { return END_OF_STREAM }

// Kind returns the discriminator of this event.
func (*DeclareFunction) Kind() string { return DECLARE_FUNCTION }

// Kind returns the discriminator of this event.
func (*DefineFunction) Kind() string { return DEFINE_FUNCTION }

// Kind returns the discriminator of this event.
func (*DeclareDatatype) Kind() string { return DECLARE_DATATYPE }

// Kind returns the discriminator of this event.
func (*DefineDatatype) Kind() string { return DEFINE_DATATYPE }

// Kind returns the discriminator of this event.
func (*CheckSynth) Kind() string { return CHECK_SYNTH }

// Kind returns the discriminator of this event.
func (*DeclareTermType) Kind() string { return DECLARE_TERM_TYPE }

// Kind returns the discriminator of this event.
func (*DefineTermType) Kind() string { return DEFINE_TERM_TYPE }

// Kind returns the discriminator of this event.
func (*HornClause) Kind() string { return CHC }

// Kind returns the discriminator of this event.
func (*Constraint) Kind() string { return CONSTRAINT }

// Kind returns the discriminator of this event.
func (*SynthFun) Kind() string { return SYNTH_FUN }
