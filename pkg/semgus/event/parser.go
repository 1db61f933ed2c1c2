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
	"bytes"
	"io"

	"github.com/consensys/go-semgus/pkg/semgus/ast"
	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

// Options control how strictly an event stream is checked.
type Options struct {
	// AllowUnknownFields permits objects to contain fields beyond those
	// expected for their kind, which are then ignored.
	AllowUnknownFields bool
}

// Parse reads an event stream (i.e. a JSON array of events) from a given
// reader, using the default options.
func Parse(reader io.Reader) ([]Event, error) {
	return Options{}.Parse(reader)
}

// ParseBytes parses an event stream held in a byte slice, using the default
// options.
func ParseBytes(bytes []byte) ([]Event, error) {
	return Options{}.ParseBytes(bytes)
}

// Parse reads an event stream from a given reader.
func (p Options) Parse(reader io.Reader) ([]Event, error) {
	bytes, err := io.ReadAll(reader)
	//
	if err != nil {
		return nil, errors.Wrap(err, "reading event stream")
	}
	//
	return p.ParseBytes(bytes)
}

// ParseBytes parses an event stream held in a byte slice.  Either every event
// is returned, or the first error encountered.
func (p Options) ParseBytes(bytes []byte) ([]Event, error) {
	root, err := decodeJson(bytes)
	//
	if err != nil {
		return nil, err
	}
	//
	arr, ok := root.([]any)
	//
	if !ok {
		return nil, errorf("event stream must be an array, found %s", kindOf(root))
	}
	//
	events, derr := p.ParseEvents(arr)
	//
	if derr != nil {
		return nil, derr
	}
	//
	return events, nil
}

// ParseEvents parses an array of decoded JSON values into events.  Parsing
// stops at the first element which is not a valid event.
func (p Options) ParseEvents(values []any) ([]Event, *DeserializationError) {
	var (
		dec    = decoder{p}
		events = make([]Event, len(values))
	)
	//
	for i, value := range values {
		var err *DeserializationError
		//
		if events[i], err = dec.Event(value); err != nil {
			return nil, err.PrependIndex(i)
		}
	}
	//
	return events, nil
}

// ParseEvent parses a single event object given as JSON text.
func (p Options) ParseEvent(bytes []byte) (Event, error) {
	root, err := decodeJson(bytes)
	//
	if err != nil {
		return nil, err
	}
	//
	dec := decoder{p}
	//
	event, derr := dec.Event(root)
	//
	if derr != nil {
		return nil, derr
	}
	//
	return event, nil
}

// ParseEvent parses a single event object given as JSON text, using the
// default options.
func ParseEvent(bytes []byte) (Event, error) {
	return Options{}.ParseEvent(bytes)
}

func decodeJson(data []byte) (any, error) {
	var (
		root  any
		extra any
		dec   = json.NewDecoder(bytes.NewReader(data))
	)
	// Numbers are retained in their textual form, since large integers are
	// not representable as float64.
	dec.UseNumber()
	//
	if err := dec.Decode(&root); err != nil {
		return nil, &MalformedError{err}
	} else if err := dec.Decode(&extra); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		//
		return nil, &MalformedError{err}
	}
	//
	return root, nil
}

// decoder converts decoded JSON values into events and their components.
type decoder struct {
	options Options
}

// Event decodes a single event object, dispatching on its $event field.
func (p *decoder) Event(value any) (Event, *DeserializationError) {
	obj, err := asObject(value, p.options)
	//
	if err != nil {
		return nil, err
	}
	//
	name, err := obj.Str("$event")
	//
	if err != nil {
		return nil, err
	}
	//
	var event Event
	//
	switch name {
	case SET_INFO:
		event, err = p.setInfo(obj)
	case END_OF_STREAM:
		event = &StreamEnd{}
	case DECLARE_FUNCTION:
		event, err = p.declareFunction(obj)
	case DEFINE_FUNCTION:
		event, err = p.defineFunction(obj)
	case DECLARE_DATATYPE:
		event, err = p.declareDatatype(obj)
	case DEFINE_DATATYPE:
		event, err = p.defineDatatype(obj)
	case CHECK_SYNTH:
		event = &CheckSynth{}
	case DECLARE_TERM_TYPE:
		event, err = p.declareTermType(obj)
	case DEFINE_TERM_TYPE:
		event, err = p.defineTermType(obj)
	case CHC:
		event, err = p.hornClause(obj)
	case CONSTRAINT:
		event, err = p.constraint(obj)
	case SYNTH_FUN:
		event, err = p.synthFun(obj)
	default:
		return nil, errorf("unknown event \"%s\"", name).Prepend("$event")
	}
	//
	if err == nil {
		err = obj.Done()
	}
	//
	if err != nil {
		return nil, err
	}
	//
	return event, nil
}

func (p *decoder) setInfo(obj *object) (Event, *DeserializationError) {
	keyword, err := obj.Str("keyword")
	//
	if err != nil {
		return nil, err
	}
	//
	raw, err := obj.get("value")
	//
	if err != nil {
		return nil, err
	}
	//
	value, err := p.AttributeValue(raw)
	//
	if err != nil {
		return nil, err.Prepend("value")
	}
	//
	return &SetInfo{keyword, value}, nil
}

func (p *decoder) declareFunction(obj *object) (*DeclareFunction, *DeserializationError) {
	name, err := obj.Str("name")
	//
	if err != nil {
		return nil, err
	}
	//
	rank, err := obj.Object("rank")
	//
	if err != nil {
		return nil, err
	}
	//
	returnSort, err := p.IdentifierAt(rank, "returnSort")
	//
	if err != nil {
		return nil, err.Prepend("rank")
	}
	//
	argumentSorts, err := p.IdentifiersAt(rank, "argumentSorts")
	//
	if err == nil {
		err = rank.Done()
	}
	//
	if err != nil {
		return nil, err.Prepend("rank")
	}
	//
	return &DeclareFunction{name, returnSort, argumentSorts}, nil
}

func (p *decoder) defineFunction(obj *object) (Event, *DeserializationError) {
	decl, err := p.declareFunction(obj)
	//
	if err != nil {
		return nil, err
	}
	//
	defn, err := obj.Object("definition")
	//
	if err != nil {
		return nil, err
	}
	//
	names, err := defn.Strings("arguments")
	//
	if err != nil {
		return nil, err.Prepend("definition")
	} else if len(names) != len(decl.ArgumentSorts) {
		return nil, errorf("number of argument sorts and lambda arity differ (%d != %d)",
			len(decl.ArgumentSorts), len(names)).Prepend("arguments").Prepend("definition")
	}
	//
	body, err := p.TermAt(defn, "body")
	//
	if err == nil {
		err = defn.Done()
	}
	//
	if err != nil {
		return nil, err.Prepend("definition")
	}
	//
	return &DefineFunction{decl.Name, decl.ReturnSort, ast.NewTypedVars(names, decl.ArgumentSorts), body}, nil
}

func (p *decoder) declareDatatype(obj *object) (Event, *DeserializationError) {
	var arity int64
	//
	name, err := obj.Str("name")
	//
	if err != nil {
		return nil, err
	} else if obj.has("arity") {
		if arity, err = obj.Int("arity"); err != nil {
			return nil, err
		}
	}
	//
	return &DeclareDatatype{name, arity}, nil
}

func (p *decoder) defineDatatype(obj *object) (Event, *DeserializationError) {
	name, err := obj.Str("name")
	//
	if err != nil {
		return nil, err
	}
	//
	objs, err := obj.Objects("constructors")
	//
	if err != nil {
		return nil, err
	}
	//
	constructors := make([]ast.DatatypeConstructor, len(objs))
	//
	for i, c := range objs {
		if constructors[i], err = p.datatypeConstructor(c); err != nil {
			return nil, err.PrependIndex(i).Prepend("constructors")
		}
	}
	//
	return &DefineDatatype{name, constructors}, nil
}

func (p *decoder) datatypeConstructor(obj *object) (ast.DatatypeConstructor, *DeserializationError) {
	name, err := obj.Str("name")
	//
	if err != nil {
		return ast.DatatypeConstructor{}, err
	}
	//
	children, err := p.IdentifiersAt(obj, "children")
	//
	if err == nil {
		err = obj.Done()
	}
	//
	if err != nil {
		return ast.DatatypeConstructor{}, err
	}
	//
	return ast.DatatypeConstructor{Name: name, Arguments: children}, nil
}

func (p *decoder) declareTermType(obj *object) (Event, *DeserializationError) {
	name, err := obj.Str("name")
	//
	if err != nil {
		return nil, err
	}
	//
	return &DeclareTermType{name}, nil
}

func (p *decoder) defineTermType(obj *object) (Event, *DeserializationError) {
	name, err := obj.Str("name")
	//
	if err != nil {
		return nil, err
	}
	//
	objs, err := obj.Objects("constructors")
	//
	if err != nil {
		return nil, err
	}
	//
	constructors := make([]TermConstructor, len(objs))
	//
	for i, c := range objs {
		if constructors[i], err = p.termConstructor(c); err != nil {
			return nil, err.PrependIndex(i).Prepend("constructors")
		}
	}
	//
	return &DefineTermType{name, constructors}, nil
}

func (p *decoder) termConstructor(obj *object) (TermConstructor, *DeserializationError) {
	name, err := obj.Str("name")
	//
	if err != nil {
		return TermConstructor{}, err
	}
	//
	children, err := obj.Strings("children")
	//
	if err == nil {
		err = obj.Done()
	}
	//
	if err != nil {
		return TermConstructor{}, err
	}
	//
	return TermConstructor{name, children}, nil
}

func (p *decoder) hornClause(obj *object) (Event, *DeserializationError) {
	var (
		clause HornClause
		err    *DeserializationError
	)
	//
	if clause.Constructor, err = p.clauseConstructor(obj); err != nil {
		return nil, err
	} else if clause.Head, err = p.relationAt(obj, "head"); err != nil {
		return nil, err
	} else if clause.Body, err = p.relationsAt(obj, "bodyRelations"); err != nil {
		return nil, err
	} else if clause.Constraint, err = p.TermAt(obj, "constraint"); err != nil {
		return nil, err
	} else if clause.Variables, err = obj.Strings("variables"); err != nil {
		return nil, err
	} else if clause.InputVariables, err = obj.OptionalStrings("inputVariables"); err != nil {
		return nil, err
	} else if clause.OutputVariables, err = obj.OptionalStrings("outputVariables"); err != nil {
		return nil, err
	}
	//
	return &clause, nil
}

func (p *decoder) clauseConstructor(parent *object) (ClauseConstructor, *DeserializationError) {
	obj, err := parent.Object("constructor")
	//
	if err != nil {
		return ClauseConstructor{}, err
	}
	//
	name, err := obj.Str("name")
	//
	if err != nil {
		return ClauseConstructor{}, err.Prepend("constructor")
	}
	//
	returnSort, err := obj.Str("returnSort")
	//
	if err != nil {
		return ClauseConstructor{}, err.Prepend("constructor")
	}
	//
	args, err := p.TypedVarsAt(obj, "arguments", "argumentSorts")
	//
	if err == nil {
		err = obj.Done()
	}
	//
	if err != nil {
		return ClauseConstructor{}, err.Prepend("constructor")
	}
	//
	return ClauseConstructor{name, returnSort, args}, nil
}

func (p *decoder) relationAt(obj *object, key string) (ast.RelationApp, *DeserializationError) {
	value, err := obj.get(key)
	//
	if err != nil {
		return ast.RelationApp{}, err
	}
	//
	rel, err := p.RelationApp(value)
	//
	if err != nil {
		return ast.RelationApp{}, err.Prepend(key)
	}
	//
	return rel, nil
}

func (p *decoder) relationsAt(obj *object, key string) ([]ast.RelationApp, *DeserializationError) {
	arr, err := obj.Array(key)
	//
	if err != nil {
		return nil, err
	}
	//
	rels := make([]ast.RelationApp, len(arr))
	//
	for i, value := range arr {
		if rels[i], err = p.RelationApp(value); err != nil {
			return nil, err.PrependIndex(i).Prepend(key)
		}
	}
	//
	return rels, nil
}

func (p *decoder) constraint(obj *object) (Event, *DeserializationError) {
	term, err := p.TermAt(obj, "constraint")
	//
	if err != nil {
		return nil, err
	}
	//
	return &Constraint{term}, nil
}

func (p *decoder) synthFun(obj *object) (Event, *DeserializationError) {
	name, err := obj.Str("name")
	//
	if err != nil {
		return nil, err
	}
	//
	termType, err := obj.Str("termType")
	//
	if err != nil {
		return nil, err
	}
	//
	grammar, err := obj.Object("grammar")
	//
	if err != nil {
		return nil, err
	}
	//
	g, err := p.grammar(grammar)
	//
	if err != nil {
		return nil, err.Prepend("grammar")
	}
	//
	return &SynthFun{name, termType, g}, nil
}

func (p *decoder) grammar(obj *object) (Grammar, *DeserializationError) {
	var grammar Grammar
	//
	nonterminals, err := obj.Objects("nonTerminals")
	//
	if err != nil {
		return grammar, err
	}
	//
	productions, err := obj.Objects("productions")
	//
	if err != nil {
		return grammar, err
	} else if err = obj.Done(); err != nil {
		return grammar, err
	}
	//
	grammar.NonTerminals = make([]GrammarNonTerminal, len(nonterminals))
	grammar.Productions = make([]GrammarProduction, len(productions))
	//
	for i, nt := range nonterminals {
		if grammar.NonTerminals[i], err = p.grammarNonTerminal(nt); err != nil {
			return grammar, err.PrependIndex(i).Prepend("nonTerminals")
		}
	}
	//
	for i, prod := range productions {
		if grammar.Productions[i], err = p.grammarProduction(prod); err != nil {
			return grammar, err.PrependIndex(i).Prepend("productions")
		}
	}
	//
	return grammar, nil
}

func (p *decoder) grammarNonTerminal(obj *object) (GrammarNonTerminal, *DeserializationError) {
	name, err := obj.Str("name")
	//
	if err != nil {
		return GrammarNonTerminal{}, err
	}
	//
	termType, err := obj.Str("termType")
	//
	if err == nil {
		err = obj.Done()
	}
	//
	if err != nil {
		return GrammarNonTerminal{}, err
	}
	//
	return GrammarNonTerminal{name, termType}, nil
}

func (p *decoder) grammarProduction(obj *object) (GrammarProduction, *DeserializationError) {
	instance, err := obj.Str("instance")
	//
	if err != nil {
		return GrammarProduction{}, err
	}
	//
	operator, err := obj.Str("operator")
	//
	if err != nil {
		return GrammarProduction{}, err
	}
	//
	occurrences, err := obj.Strings("occurrences")
	//
	if err == nil {
		err = obj.Done()
	}
	//
	if err != nil {
		return GrammarProduction{}, err
	}
	//
	return GrammarProduction{instance, operator, occurrences}, nil
}
