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
	"fmt"

	"github.com/consensys/go-semgus/pkg/ir/horn"
	"github.com/consensys/go-semgus/pkg/semgus/ast"
	"github.com/consensys/go-semgus/pkg/semgus/problem"
	log "github.com/sirupsen/logrus"
)

// Encoding is the result of encoding a problem against a set of examples.
type Encoding struct {
	// Formulas to be checked, with one axiom per function (in order of
	// function name) followed by the closing formula.
	Formulas []horn.Term
	// Indicator predicates, indexed by function name.
	Indicators map[string]*horn.FuncDecl
	// Example columns
	Columns Columns
	// Function whose indicator is refuted by the closing formula.
	Target string
}

// Encoder compiles a problem, along with a table of examples, into a set of
// Horn clauses over one indicator predicate per function.  Each indicator
// holds for a vector of outputs (one per example) iff there is a single term
// producing every output on its respective example.
type Encoder struct {
	ctx     *horn.Context
	problem *problem.Problem
	smt     ast.SmtContext
}

// NewEncoder constructs an encoder for a given problem, whose formulas are
// built within a given context.
func NewEncoder(ctx *horn.Context, p *problem.Problem) *Encoder {
	return &Encoder{ctx, p, p.SmtContext()}
}

// Encode a set of examples (i.e. rows) against the problem.  Each example is
// an application whose first argument identifies the term, whose last argument
// is the expected output, and whose remaining arguments are inputs.
func (p *Encoder) Encode(examples []ast.Term) (*Encoding, error) {
	if len(examples) == 0 {
		return nil, problem.Errorf("no examples to encode")
	}
	//
	columns, err := p.Vectorize(examples)
	//
	if err != nil {
		return nil, err
	}
	//
	target, err := p.target(examples)
	//
	if err != nil {
		return nil, err
	}
	//
	indicators, err := p.declareIndicators(uint(len(examples)))
	//
	if err != nil {
		return nil, err
	}
	//
	var formulas []horn.Term
	//
	for _, name := range p.smt.FunctionNames() {
		axiom, err := p.axiom(p.smt.Functions[name], columns, indicators)
		//
		if err != nil {
			return nil, err
		}
		//
		formulas = append(formulas, axiom)
	}
	//
	closing, err := p.closing(indicators[target], columns)
	//
	if err != nil {
		return nil, err
	}
	//
	formulas = append(formulas, closing)
	//
	return &Encoding{formulas, indicators, columns, target}, nil
}

// Declare one indicator per function, each taking one argument per example.
// The sort of each argument is that of the function's last argument.
func (p *Encoder) declareIndicators(n uint) (map[string]*horn.FuncDecl, error) {
	indicators := make(map[string]*horn.FuncDecl)
	//
	for _, name := range p.smt.FunctionNames() {
		fn := p.smt.Functions[name]
		//
		if len(fn.Arguments) == 0 {
			return nil, problem.Errorf("function \"%s\" has no arguments", name)
		}
		//
		last := fn.Arguments[len(fn.Arguments)-1]
		sort, err := p.sortOf(last.Sort)
		//
		if err != nil {
			return nil, problem.Errorf("function \"%s\": %s", name, err.Error())
		} else if fn.ReturnSort.Name != "Bool" && !fn.ReturnSort.Equals(last.Sort) {
			log.Warnf("function \"%s\" returns %s, but is encoded over its last argument (%s)", name,
				fn.ReturnSort.String(), last.Sort.String())
		}
		//
		domain := make([]*horn.Sort, n)
		//
		for i := range domain {
			domain[i] = sort
		}
		//
		decl, err := p.ctx.DeclareFunc(name, domain, p.ctx.BoolSort())
		//
		if err != nil {
			return nil, problem.Errorf("%s", err.Error())
		}
		//
		log.Debugf("declared indicator %s", decl.String())
		//
		indicators[name] = decl
	}
	//
	return indicators, nil
}

// Determine the function named by the examples, all of which must agree.
func (p *Encoder) target(examples []ast.Term) (string, error) {
	var target string
	//
	for i, row := range examples {
		app, ok := row.(*ast.Application)
		//
		if !ok {
			return "", problem.Errorf("example %d is not an application (%s)", i, row.String())
		} else if i == 0 {
			target = app.Name.Name
		} else if app.Name.Name != target {
			return "", problem.Errorf("example %d applies \"%s\", expected \"%s\"", i, app.Name.Name, target)
		}
	}
	//
	if _, ok := p.smt.Functions[target]; !ok {
		return "", problem.Errorf("examples apply unknown function \"%s\"", target)
	}
	//
	return target, nil
}

// Construct the closing formula, which asserts that the target indicator does
// not hold for the vector of expected outputs.
func (p *Encoder) closing(indicator *horn.FuncDecl, columns Columns) (horn.Term, error) {
	var (
		n       = len(columns.Results)
		domain  = indicator.Domain()
		outputs = make([]*horn.Var, n)
		args    = make([]horn.Term, n)
		eqs     = make([]horn.Term, n)
	)
	//
	for j := 0; j < n; j++ {
		if columns.Results[j].Sort() != domain[j] {
			return nil, problem.Errorf("output of example %d has sort %s, but \"%s\" expects %s", j,
				columns.Results[j].Sort().String(), indicator.Name(), domain[j].String())
		}
		//
		outputs[j] = p.ctx.Const(fmt.Sprintf("o%d", j), domain[j])
		args[j] = outputs[j]
		eqs[j] = p.ctx.Eq(outputs[j], columns.Results[j])
	}
	//
	call, err := p.ctx.Apply(indicator, args...)
	//
	if err != nil {
		return nil, problem.Errorf("%s", err.Error())
	}
	//
	return p.ctx.Forall(outputs, p.ctx.Implies(call, p.ctx.Not(p.ctx.And(eqs...)))), nil
}

// Determine the sort corresponding to a given identifier.  Only integers,
// booleans and bit-vectors are supported.
func (p *Encoder) sortOf(id ast.Identifier) (*horn.Sort, error) {
	switch {
	case id.Name == "Int" && !id.IsIndexed():
		return p.ctx.IntSort(), nil
	case id.Name == "Bool" && !id.IsIndexed():
		return p.ctx.BoolSort(), nil
	case id.Name == "BitVec" && len(id.Indices) == 1:
		if width, ok := id.Indices[0].(ast.NumericIndex); ok && width > 0 && uint64(width) <= 1<<24 {
			return p.ctx.BitVecSort(uint(width)), nil
		}
	}
	//
	return nil, fmt.Errorf("unsupported sort %s", id.String())
}
