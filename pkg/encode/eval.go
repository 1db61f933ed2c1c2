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
	"maps"
	"slices"

	"github.com/consensys/go-semgus/pkg/ir/horn"
	"github.com/consensys/go-semgus/pkg/semgus/ast"
)

// Builtin operators which are translated directly.
var builtins = map[string]bool{
	// Core
	"not": true, "and": true, "or": true, "=>": true, "xor": true, "=": true, "distinct": true, "ite": true,
	// Integers
	"<": true, "<=": true, ">": true, ">=": true, "+": true, "-": true, "*": true, "div": true, "mod": true,
	"abs": true,
	// Bit-vectors
	"bvadd": true, "bvsub": true, "bvmul": true, "bvudiv": true, "bvurem": true, "bvsdiv": true,
	"bvsrem": true, "bvsmod": true, "bvand": true, "bvor": true, "bvxor": true, "bvnot": true,
	"bvneg": true, "bvshl": true, "bvlshr": true, "bvashr": true, "bvult": true, "bvule": true,
	"bvugt": true, "bvuge": true, "bvslt": true, "bvsle": true, "bvsgt": true, "bvsge": true,
	"concat": true,
}

// Operators which collapse to their operand when applied to exactly one.
var collapsible = map[string]bool{"and": true, "or": true, "+": true, "*": true}

// evaluator translates terms into formulas, once per example.  Each example
// index has its own environment mapping variable names to their values at
// that index.
type evaluator struct {
	encoder    *Encoder
	indicators map[string]*horn.FuncDecl
	envs       []map[string]horn.Term
}

func newEvaluator(encoder *Encoder, indicators map[string]*horn.FuncDecl, n uint) *evaluator {
	envs := make([]map[string]horn.Term, n)
	//
	for j := range envs {
		envs[j] = make(map[string]horn.Term)
	}
	//
	return &evaluator{encoder, indicators, envs}
}

// Bind returns an evaluator which extends the environment of a given index.
func (p *evaluator) Bind(j uint, bindings map[string]horn.Term) *evaluator {
	envs := slices.Clone(p.envs)
	envs[j] = maps.Clone(envs[j])
	//
	maps.Copy(envs[j], bindings)
	//
	return &evaluator{p.encoder, p.indicators, envs}
}

// Replicate a list of bindings once per example index, using variables named
// by index and then name.  The resulting evaluator binds each name to its
// variable at the corresponding index.
func (p *evaluator) Replicate(bindings []ast.TypedVar) (*evaluator, []*horn.Var, error) {
	var (
		vars  []*horn.Var
		envs  = slices.Clone(p.envs)
		ctx   = p.encoder.ctx
		n     = uint(len(p.envs))
		sorts = make([]*horn.Sort, len(bindings))
	)
	//
	for i, b := range bindings {
		sort, err := p.encoder.sortOf(b.Sort)
		//
		if err != nil {
			return nil, nil, fmt.Errorf("variable \"%s\": %w", b.Name, err)
		}
		//
		sorts[i] = sort
	}
	//
	for j := uint(0); j < n; j++ {
		envs[j] = maps.Clone(envs[j])
		//
		for i, b := range bindings {
			v := ctx.Const(indexed(j, b.Name), sorts[i])
			envs[j][b.Name] = v
			vars = append(vars, v)
		}
	}
	//
	return &evaluator{p.encoder, p.indicators, envs}, vars, nil
}

// Eval translates a term at a given example index.
func (p *evaluator) Eval(term ast.Term, j uint) (horn.Term, error) {
	ctx := p.encoder.ctx
	//
	switch t := term.(type) {
	case *ast.Numeral:
		return ctx.Int(t.Value), nil
	case *ast.BitVector:
		if t.Width == 0 || (t.Width < 64 && t.Value>>t.Width != 0) {
			return nil, fmt.Errorf("invalid bit-vector literal %s", t.String())
		}
		//
		return ctx.BitVec(t.Value, t.Width), nil
	case *ast.Variable:
		if v, ok := p.envs[j][t.Name]; ok {
			return v, nil
		}
		//
		return nil, fmt.Errorf("unbound variable \"%s\"", t.Name)
	case *ast.Application:
		return p.application(t, j)
	case *ast.Quantifier:
		return p.quantifier(t, j)
	case *ast.Match:
		return nil, fmt.Errorf("unexpected match term %s", t.String())
	default:
		return nil, fmt.Errorf("unknown term %s", term.String())
	}
}

// EvalAll translates a term at every example index.
func (p *evaluator) EvalAll(term ast.Term) ([]horn.Term, error) {
	var (
		err   error
		terms = make([]horn.Term, len(p.envs))
	)
	//
	for j := range terms {
		if terms[j], err = p.Eval(term, uint(j)); err != nil {
			return nil, err
		}
	}
	//
	return terms, nil
}

func (p *evaluator) application(app *ast.Application, j uint) (horn.Term, error) {
	var (
		ctx  = p.encoder.ctx
		name = app.Name.Name
	)
	//
	if app.Name.IsIndexed() {
		return nil, fmt.Errorf("unknown operator %s", app.Name.String())
	} else if len(app.Arguments) == 0 && (name == "true" || name == "false") {
		return ctx.Bool(name == "true"), nil
	} else if builtins[name] && len(app.Arguments) > 0 {
		args := make([]horn.Term, len(app.Arguments))
		//
		for i, arg := range app.Arguments {
			var err error
			//
			if args[i], err = p.Eval(arg.Term, j); err != nil {
				return nil, err
			}
		}
		//
		if len(args) == 1 && collapsible[name] {
			return args[0], nil
		}
		//
		return ctx.Op(name, args...)
	} else if indicator, ok := p.indicators[name]; ok {
		return p.call(indicator, app)
	}
	//
	return nil, fmt.Errorf("unknown operator \"%s\"", name)
}

// Nested calls are applied to the vector of their final argument, taken across
// every example.
func (p *evaluator) call(indicator *horn.FuncDecl, app *ast.Application) (horn.Term, error) {
	if len(app.Arguments) == 0 {
		return nil, fmt.Errorf("call to \"%s\" has no arguments", indicator.Name())
	}
	//
	args, err := p.EvalAll(app.Argument(len(app.Arguments) - 1))
	//
	if err != nil {
		return nil, err
	}
	//
	return p.encoder.ctx.Apply(indicator, args...)
}

// Nested quantifiers bind their variables only at the given index, unless
// their body calls an indicator.  Such calls read their arguments at every
// index, so the variables are then replicated across all examples and the
// quantifier is the same at each index.
func (p *evaluator) quantifier(q *ast.Quantifier, j uint) (horn.Term, error) {
	if p.calls(q.Child) {
		return p.replicated(q)
	}
	//
	var (
		ctx      = p.encoder.ctx
		vars     = make([]*horn.Var, len(q.Bindings))
		bindings = make(map[string]horn.Term)
	)
	//
	for i, b := range q.Bindings {
		sort, err := p.encoder.sortOf(b.Sort)
		//
		if err != nil {
			return nil, fmt.Errorf("variable \"%s\": %w", b.Name, err)
		}
		//
		vars[i] = ctx.Const(indexed(j, b.Name), sort)
		bindings[b.Name] = vars[i]
	}
	//
	body, err := p.Bind(j, bindings).Eval(q.Child, j)
	//
	if err != nil {
		return nil, err
	} else if q.Kind == ast.Exists {
		return ctx.Exists(vars, body), nil
	}
	//
	return ctx.Forall(vars, body), nil
}

func (p *evaluator) replicated(q *ast.Quantifier) (horn.Term, error) {
	eval, vars, err := p.Replicate(q.Bindings)
	//
	if err != nil {
		return nil, err
	}
	//
	bodies, err := eval.EvalAll(q.Child)
	//
	if err != nil {
		return nil, err
	}
	//
	body := p.encoder.ctx.And(flatten(bodies)...)
	//
	if q.Kind == ast.Exists {
		return p.encoder.ctx.Exists(vars, body), nil
	}
	//
	return p.encoder.ctx.Forall(vars, body), nil
}

// Check whether a term applies an indicator anywhere within it.
func (p *evaluator) calls(term ast.Term) bool {
	switch t := term.(type) {
	case *ast.Application:
		if _, ok := p.indicators[t.Name.Name]; ok && !t.Name.IsIndexed() {
			return true
		}
		//
		for _, arg := range t.Arguments {
			if p.calls(arg.Term) {
				return true
			}
		}
	case *ast.Quantifier:
		return p.calls(t.Child)
	}
	//
	return false
}

func indexed(j uint, name string) string {
	return fmt.Sprintf("i%d_%s", j, name)
}
