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
	"github.com/consensys/go-semgus/pkg/ir/horn"
	"github.com/consensys/go-semgus/pkg/semgus/ast"
	"github.com/consensys/go-semgus/pkg/semgus/problem"
	log "github.com/sirupsen/logrus"
)

// Construct the axiom defining the indicator of a given function.  Every
// alternative (i.e. match case) of the function's body gives rise to one
// implication, whose premise is the alternative evaluated at every example and
// whose conclusion is the indicator applied to the vector of outputs.
func (p *Encoder) axiom(fn ast.Function, columns Columns, indicators map[string]*horn.FuncDecl) (horn.Term, error) {
	var (
		ctx   = p.ctx
		n     = columns.Rows()
		m     = len(fn.Arguments)
		eval  = newEvaluator(p, indicators, n)
		fresh []*horn.Var
	)
	// Bind arguments (other than the first) at every index.  Inputs are
	// bound to their example column where one exists.
	for c := 1; c < m; c++ {
		arg := fn.Arguments[c]
		sort, err := p.sortOf(arg.Sort)
		//
		if err != nil && c == m-1 {
			return nil, problem.Errorf("function \"%s\": %s", fn.Name, err.Error())
		} else if err != nil {
			log.Debugf("function \"%s\": ignoring argument \"%s\" (%s)", fn.Name, arg.Name, err.Error())
			continue
		}
		//
		for j := uint(0); j < n; j++ {
			var value horn.Term
			//
			if c < m-1 && c-1 < len(columns.Inputs) {
				value = columns.Inputs[c-1][j]
				//
				if value.Sort() != sort {
					return nil, problem.Errorf("function \"%s\": input %s of example %d has sort %s, expected %s",
						fn.Name, arg.Name, j, value.Sort().String(), sort.String())
				}
			} else {
				v := ctx.Const(indexed(j, arg.Name), sort)
				fresh = append(fresh, v)
				value = v
			}
			//
			eval = eval.Bind(j, map[string]horn.Term{arg.Name: value})
		}
	}
	//
	if m < 2 {
		return nil, problem.Errorf("function \"%s\" has no output argument", fn.Name)
	}
	// Conclusion
	outputs, err := eval.EvalAll(&ast.Variable{Name: fn.Arguments[m-1].Name, Sort: fn.Arguments[m-1].Sort})
	//
	if err != nil {
		return nil, problem.Errorf("function \"%s\": %s", fn.Name, err.Error())
	}
	//
	head, err := ctx.Apply(indicators[fn.Name], outputs...)
	//
	if err != nil {
		return nil, problem.Errorf("function \"%s\": %s", fn.Name, err.Error())
	}
	//
	var implications []horn.Term
	//
	for _, alternative := range alternatives(fn.Body) {
		premise, err := p.premise(eval, alternative)
		//
		if err != nil {
			return nil, problem.Errorf("function \"%s\": %s", fn.Name, err.Error())
		}
		//
		implications = append(implications, ctx.Implies(premise, head))
	}
	//
	return ctx.Forall(fresh, ctx.And(implications...)), nil
}

// Construct the premise for one alternative.  Leading quantifiers are bound
// across every example, such that a single witness vector is shared by all
// examples.
func (p *Encoder) premise(eval *evaluator, term ast.Term) (horn.Term, error) {
	var (
		ctx        = p.ctx
		quantified []*ast.Quantifier
		binders    [][]*horn.Var
	)
	//
	for q, ok := term.(*ast.Quantifier); ok; q, ok = term.(*ast.Quantifier) {
		var (
			vars []*horn.Var
			err  error
		)
		//
		if eval, vars, err = eval.Replicate(q.Bindings); err != nil {
			return nil, err
		}
		//
		quantified = append(quantified, q)
		binders = append(binders, vars)
		term = q.Child
	}
	//
	conjuncts, err := eval.EvalAll(term)
	//
	if err != nil {
		return nil, err
	}
	//
	premise := ctx.And(flatten(conjuncts)...)
	//
	for i := len(quantified) - 1; i >= 0; i-- {
		if quantified[i].Kind == ast.Exists {
			premise = ctx.Exists(binders[i], premise)
		} else {
			premise = ctx.Forall(binders[i], premise)
		}
	}
	//
	return premise, nil
}

// Split a function body into its alternatives.
func alternatives(body ast.Term) []ast.Term {
	match, ok := body.(*ast.Match)
	//
	if !ok {
		return []ast.Term{body}
	}
	//
	results := make([]ast.Term, len(match.Cases))
	//
	for i, c := range match.Cases {
		results[i] = c.Result
	}
	//
	return results
}

// Flatten nested conjunctions, removing duplicate conjuncts.  Duplicates arise
// from nested calls, which are identical at every index.
func flatten(terms []horn.Term) []horn.Term {
	var (
		flat []horn.Term
		seen = make(map[string]bool)
	)
	//
	for _, term := range terms {
		parts := []horn.Term{term}
		//
		if app, ok := term.(*horn.App); ok && app.Op == "and" {
			parts = app.Args
		}
		//
		for _, part := range parts {
			if key := horn.String(part); !seen[key] {
				seen[key] = true
				flat = append(flat, part)
			}
		}
	}
	//
	return flat
}
