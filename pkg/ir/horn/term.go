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
package horn

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/consensys/go-semgus/pkg/util/source/sexp"
)

// Term is a formula, or a subterm of a formula, built within some context.
// This is one of *Var, *IntLit, *BitVecLit, *BoolLit, *App, *Call or
// *Quantified.
type Term interface {
	isTerm()
	// Sort returns the sort of this term.
	Sort() *Sort
	// Lisp returns the SMT-LIB2 rendering of this term.
	Lisp() sexp.SExp
}

// Var is a variable, which may be free or bound by an enclosing quantifier.
type Var struct {
	Name string
	sort *Sort
}

// IntLit is an integer literal.
type IntLit struct {
	Value int64
	sort  *Sort
}

// BitVecLit is a bit-vector literal.
type BitVecLit struct {
	Value uint64
	sort  *Sort
}

// BoolLit is either true or false.
type BoolLit struct {
	Value bool
	sort  *Sort
}

// App applies a builtin (interpreted) operator, such as + or and.
type App struct {
	Op   string
	Args []Term
	sort *Sort
}

// Call applies a declared (uninterpreted) function.
type Call struct {
	Decl *FuncDecl
	Args []Term
}

// Quantified universally or existentially quantifies a body over variables.
type Quantified struct {
	Exists bool
	Vars   []*Var
	Body   Term
}

func (*Var) isTerm()        {}
func (*IntLit) isTerm()     {}
func (*BitVecLit) isTerm()  {}
func (*BoolLit) isTerm()    {}
func (*App) isTerm()        {}
func (*Call) isTerm()       {}
func (*Quantified) isTerm() {}

// Sort returns the sort of this variable.
func (p *Var) Sort() *Sort { return p.sort }

// Sort returns the integer sort.
func (p *IntLit) Sort() *Sort { return p.sort }

// Sort returns the bit-vector sort of this literal.
func (p *BitVecLit) Sort() *Sort { return p.sort }

// Sort returns the boolean sort.
func (p *BoolLit) Sort() *Sort { return p.sort }

// Sort returns the result sort of this operator application.
func (p *App) Sort() *Sort { return p.sort }

// Sort returns the range of the applied function.
func (p *Call) Sort() *Sort { return p.Decl.rng }

// Sort returns the sort of the body.
func (p *Quantified) Sort() *Sort { return p.Body.Sort() }

// Lisp returns the name of this variable.
func (p *Var) Lisp() sexp.SExp {
	return sexp.NewSymbol(p.Name)
}

// Lisp returns this literal, where negative values are written as a negation.
func (p *IntLit) Lisp() sexp.SExp {
	if p.Value < 0 {
		abs := strings.TrimPrefix(strconv.FormatInt(p.Value, 10), "-")
		return sexp.NewList([]sexp.SExp{sexp.NewSymbol("-"), sexp.NewSymbol(abs)})
	}
	//
	return sexp.NewSymbol(strconv.FormatInt(p.Value, 10))
}

// Lisp returns this literal in (_ bvN W) form.
func (p *BitVecLit) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{
		sexp.NewSymbol("_"),
		sexp.NewSymbol(fmt.Sprintf("bv%d", p.Value)),
		sexp.NewSymbol(fmt.Sprintf("%d", p.sort.width)),
	})
}

// Lisp returns true or false.
func (p *BoolLit) Lisp() sexp.SExp {
	return sexp.NewSymbol(strconv.FormatBool(p.Value))
}

// Lisp returns this operator application.
func (p *App) Lisp() sexp.SExp {
	return application(sexp.NewSymbol(p.Op), p.Args)
}

// Lisp returns this function application.
func (p *Call) Lisp() sexp.SExp {
	if len(p.Args) == 0 {
		return sexp.NewSymbol(p.Decl.name)
	}
	//
	return application(sexp.NewSymbol(p.Decl.name), p.Args)
}

// Lisp returns this quantified formula.
func (p *Quantified) Lisp() sexp.SExp {
	var (
		binder = "forall"
		vars   = make([]sexp.SExp, len(p.Vars))
	)
	//
	if p.Exists {
		binder = "exists"
	}
	//
	for i, v := range p.Vars {
		vars[i] = sexp.NewList([]sexp.SExp{sexp.NewSymbol(v.Name), v.sort.Lisp()})
	}
	//
	return sexp.NewList([]sexp.SExp{sexp.NewSymbol(binder), sexp.NewList(vars), p.Body.Lisp()})
}

func application(head sexp.SExp, args []Term) sexp.SExp {
	elements := make([]sexp.SExp, len(args)+1)
	elements[0] = head
	//
	for i, arg := range args {
		elements[i+1] = arg.Lisp()
	}
	//
	return sexp.NewList(elements)
}

// String renders a term on a single line.
func String(term Term) string {
	return term.Lisp().String(true)
}

// ============================================================================
// Constructors
// ============================================================================

// Int constructs an integer literal.
func (p *Context) Int(value int64) *IntLit {
	return &IntLit{value, p.IntSort()}
}

// Bool constructs a boolean literal.
func (p *Context) Bool(value bool) *BoolLit {
	return &BoolLit{value, p.BoolSort()}
}

// BitVec constructs a bit-vector literal of a given width.  The value must fit
// within the width.
func (p *Context) BitVec(value uint64, width uint) *BitVecLit {
	if width < 64 && value>>width != 0 {
		panic(fmt.Sprintf("bit-vector value %d exceeds width %d", value, width))
	}
	//
	return &BitVecLit{value, p.BitVecSort(width)}
}

// And constructs a conjunction.  The empty conjunction is true, and a
// conjunction of one term is that term.
func (p *Context) And(terms ...Term) Term {
	switch len(terms) {
	case 0:
		return p.Bool(true)
	case 1:
		return terms[0]
	default:
		return &App{"and", terms, p.BoolSort()}
	}
}

// Or constructs a disjunction.  The empty disjunction is false, and a
// disjunction of one term is that term.
func (p *Context) Or(terms ...Term) Term {
	switch len(terms) {
	case 0:
		return p.Bool(false)
	case 1:
		return terms[0]
	default:
		return &App{"or", terms, p.BoolSort()}
	}
}

// Not constructs a negation.
func (p *Context) Not(term Term) Term {
	return &App{"not", []Term{term}, p.BoolSort()}
}

// Implies constructs an implication.
func (p *Context) Implies(lhs Term, rhs Term) Term {
	return &App{"=>", []Term{lhs, rhs}, p.BoolSort()}
}

// Eq constructs an equality.
func (p *Context) Eq(lhs Term, rhs Term) Term {
	return &App{"=", []Term{lhs, rhs}, p.BoolSort()}
}

// Op applies a builtin operator.  The sort of the result is determined from
// the operator and the sorts of its arguments.
func (p *Context) Op(op string, args ...Term) (Term, error) {
	switch op {
	case "and":
		return p.And(args...), nil
	case "or":
		return p.Or(args...), nil
	}
	//
	if len(args) == 0 {
		return nil, fmt.Errorf("operator \"%s\" requires arguments", op)
	}
	//
	sort, err := p.resultSort(op, args)
	//
	if err != nil {
		return nil, err
	}
	//
	return &App{op, args, sort}, nil
}

func (p *Context) resultSort(op string, args []Term) (*Sort, error) {
	switch op {
	case "not", "=>", "xor", "=", "distinct", "<", "<=", ">", ">=",
		"bvult", "bvule", "bvugt", "bvuge", "bvslt", "bvsle", "bvsgt", "bvsge":
		return p.BoolSort(), nil
	case "ite":
		if len(args) != 3 {
			return nil, fmt.Errorf("operator \"ite\" requires 3 arguments (found %d)", len(args))
		}
		//
		return args[1].Sort(), nil
	case "concat":
		var width uint
		//
		for _, arg := range args {
			if arg.Sort().kind != BITVEC_SORT {
				return nil, fmt.Errorf("operator \"concat\" requires bit-vector arguments")
			}
			//
			width += arg.Sort().width
		}
		//
		return p.BitVecSort(width), nil
	default:
		return args[0].Sort(), nil
	}
}

// Apply applies a declared function to arguments, whose sorts must match its
// domain.
func (p *Context) Apply(decl *FuncDecl, args ...Term) (Term, error) {
	if decl.ctx != p {
		return nil, fmt.Errorf("function \"%s\" belongs to another context", decl.name)
	} else if len(args) != len(decl.domain) {
		return nil, fmt.Errorf("function \"%s\" expects %d arguments (found %d)", decl.name, len(decl.domain), len(args))
	}
	//
	for i, arg := range args {
		if arg.Sort() != decl.domain[i] {
			return nil, fmt.Errorf("argument %d of \"%s\" has sort %s, expected %s", i, decl.name,
				arg.Sort().String(), decl.domain[i].String())
		}
	}
	//
	return &Call{decl, args}, nil
}

// Forall universally quantifies a body over zero or more variables.
func (p *Context) Forall(vars []*Var, body Term) Term {
	if len(vars) == 0 {
		return body
	}
	//
	return &Quantified{false, vars, body}
}

// Exists existentially quantifies a body over zero or more variables.
func (p *Context) Exists(vars []*Var, body Term) Term {
	if len(vars) == 0 {
		return body
	}
	//
	return &Quantified{true, vars, body}
}

// Owns checks that every sort and declaration used within a term belongs to a
// given context.
func Owns(ctx *Context, term Term) bool {
	switch t := term.(type) {
	case *Var:
		return t.sort.ctx == ctx
	case *IntLit:
		return t.sort.ctx == ctx
	case *BitVecLit:
		return t.sort.ctx == ctx
	case *BoolLit:
		return t.sort.ctx == ctx
	case *App:
		return t.sort.ctx == ctx && ownsAll(ctx, t.Args)
	case *Call:
		return t.Decl.ctx == ctx && ownsAll(ctx, t.Args)
	case *Quantified:
		for _, v := range t.Vars {
			if v.sort.ctx != ctx {
				return false
			}
		}
		//
		return Owns(ctx, t.Body)
	default:
		return false
	}
}

func ownsAll(ctx *Context, terms []Term) bool {
	for _, t := range terms {
		if !Owns(ctx, t) {
			return false
		}
	}
	//
	return true
}
