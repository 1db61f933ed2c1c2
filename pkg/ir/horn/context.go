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
	"slices"
	"strings"

	"github.com/consensys/go-semgus/pkg/util/source/sexp"
)

// SortKind identifies the family to which a sort belongs.
type SortKind uint8

const (
	// INT_SORT is the sort of mathematical integers.
	INT_SORT SortKind = iota
	// BOOL_SORT is the sort of booleans.
	BOOL_SORT
	// BITVEC_SORT is the family of fixed-width bit-vector sorts.
	BITVEC_SORT
)

// Sort is a handle to a sort belonging to a given context.  Sorts are interned,
// hence two sorts from the same context are equal iff they are the same
// pointer.
type Sort struct {
	ctx   *Context
	kind  SortKind
	width uint
}

// Kind returns the family of this sort.
func (p *Sort) Kind() SortKind {
	return p.kind
}

// Width returns the width of a bit-vector sort, or zero for other sorts.
func (p *Sort) Width() uint {
	return p.width
}

// Lisp returns the SMT-LIB2 rendering of this sort.
func (p *Sort) Lisp() sexp.SExp {
	switch p.kind {
	case INT_SORT:
		return sexp.NewSymbol("Int")
	case BOOL_SORT:
		return sexp.NewSymbol("Bool")
	default:
		return sexp.NewList([]sexp.SExp{
			sexp.NewSymbol("_"),
			sexp.NewSymbol("BitVec"),
			sexp.NewSymbol(fmt.Sprintf("%d", p.width)),
		})
	}
}

func (p *Sort) String() string {
	return p.Lisp().String(true)
}

// FuncDecl is an uninterpreted function (or predicate, when its range is Bool)
// declared within a given context.
type FuncDecl struct {
	ctx    *Context
	name   string
	domain []*Sort
	rng    *Sort
}

// Name returns the name of this declaration.
func (p *FuncDecl) Name() string {
	return p.name
}

// Domain returns the argument sorts of this declaration.
func (p *FuncDecl) Domain() []*Sort {
	return slices.Clone(p.domain)
}

// Range returns the result sort of this declaration.
func (p *FuncDecl) Range() *Sort {
	return p.rng
}

// Lisp returns the declare-fun command for this declaration.
func (p *FuncDecl) Lisp() sexp.SExp {
	domain := make([]sexp.SExp, len(p.domain))
	//
	for i, s := range p.domain {
		domain[i] = s.Lisp()
	}
	//
	return sexp.NewList([]sexp.SExp{
		sexp.NewSymbol("declare-fun"),
		sexp.NewSymbol(p.name),
		sexp.NewList(domain),
		p.rng.Lisp(),
	})
}

func (p *FuncDecl) String() string {
	return p.Lisp().String(true)
}

// Context owns the sorts and declarations from which formulas are built.  All
// sorts, declarations and variables must be created whilst the context is
// open, and a formula can only be checked against the context which owns it.
type Context struct {
	closed   bool
	intSort  *Sort
	boolSort *Sort
	bitvecs  map[uint]*Sort
	decls    []*FuncDecl
	names    map[string]*FuncDecl
}

// NewContext constructs a new (open) context.
func NewContext() *Context {
	ctx := &Context{bitvecs: make(map[uint]*Sort), names: make(map[string]*FuncDecl)}
	ctx.intSort = &Sort{ctx, INT_SORT, 0}
	ctx.boolSort = &Sort{ctx, BOOL_SORT, 0}
	//
	return ctx
}

// Close releases this context.  Closing a context more than once has no
// effect.
func (p *Context) Close() {
	p.closed = true
	p.bitvecs = nil
	p.names = nil
}

// Closed determines whether this context has been released.
func (p *Context) Closed() bool {
	return p.closed
}

func (p *Context) checkOpen() {
	if p.closed {
		panic("use of closed horn context")
	}
}

// IntSort returns the sort of integers.
func (p *Context) IntSort() *Sort {
	p.checkOpen()
	return p.intSort
}

// BoolSort returns the sort of booleans.
func (p *Context) BoolSort() *Sort {
	p.checkOpen()
	return p.boolSort
}

// BitVecSort returns the sort of bit-vectors of a given (non-zero) width.
func (p *Context) BitVecSort(width uint) *Sort {
	p.checkOpen()
	//
	if width == 0 {
		panic("zero-width bit-vector sort")
	} else if s, ok := p.bitvecs[width]; ok {
		return s
	}
	//
	s := &Sort{p, BITVEC_SORT, width}
	p.bitvecs[width] = s
	//
	return s
}

// DeclareFunc declares an uninterpreted function with a given signature.
// Declaring the same name again with an identical signature returns the
// original declaration.
func (p *Context) DeclareFunc(name string, domain []*Sort, rng *Sort) (*FuncDecl, error) {
	p.checkOpen()
	//
	for _, s := range append(slices.Clone(domain), rng) {
		if s.ctx != p {
			return nil, fmt.Errorf("sort %s of \"%s\" belongs to another context", s.String(), name)
		}
	}
	//
	if decl, ok := p.names[name]; ok {
		if !slices.Equal(decl.domain, domain) || decl.rng != rng {
			return nil, fmt.Errorf("conflicting declarations of \"%s\" (%s vs %s)", name,
				signature(decl.domain, decl.rng), signature(domain, rng))
		}
		//
		return decl, nil
	}
	//
	decl := &FuncDecl{p, name, slices.Clone(domain), rng}
	p.decls = append(p.decls, decl)
	p.names[name] = decl
	//
	return decl, nil
}

// Lookup finds the declaration of a given name, if one exists.
func (p *Context) Lookup(name string) (*FuncDecl, bool) {
	p.checkOpen()
	decl, ok := p.names[name]
	//
	return decl, ok
}

// Decls returns all declarations made in this context, in the order they were
// made.
func (p *Context) Decls() []*FuncDecl {
	return slices.Clone(p.decls)
}

// Const constructs a variable of a given sort.
func (p *Context) Const(name string, sort *Sort) *Var {
	p.checkOpen()
	//
	if sort.ctx != p {
		panic(fmt.Sprintf("sort %s of \"%s\" belongs to another context", sort.String(), name))
	}
	//
	return &Var{name, sort}
}

func signature(domain []*Sort, rng *Sort) string {
	var builder strings.Builder
	//
	builder.WriteString("(")
	//
	for i, s := range domain {
		if i != 0 {
			builder.WriteString(" ")
		}
		//
		builder.WriteString(s.String())
	}
	//
	builder.WriteString(") ")
	builder.WriteString(rng.String())
	//
	return builder.String()
}
