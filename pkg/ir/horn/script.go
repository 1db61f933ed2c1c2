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
	"io"
	"strings"

	"github.com/consensys/go-semgus/pkg/util/source/sexp"
)

// DEFAULT_WIDTH is the line width scripts are formatted to, unless otherwise
// specified.
const DEFAULT_WIDTH = 100

// Script is a complete SMT-LIB2 query, consisting of declarations followed by
// assertions and a single check-sat command.
type Script struct {
	// Logic to set, or empty for none.
	Logic string
	// Declarations of uninterpreted functions.
	Decls []*FuncDecl
	// Formulas to assert.
	Assertions []Term
	// Line width used when formatting.
	Width uint
}

// NewScript constructs a script asserting a given set of formulas, declaring
// everything declared in a given context.
func NewScript(logic string, ctx *Context, assertions ...Term) *Script {
	return &Script{logic, ctx.Decls(), assertions, DEFAULT_WIDTH}
}

// Lisp returns the commands of this script.
func (p *Script) Lisp() []sexp.SExp {
	var commands []sexp.SExp
	//
	if p.Logic != "" {
		commands = append(commands, command("set-logic", sexp.NewSymbol(p.Logic)))
	}
	//
	for _, decl := range p.Decls {
		commands = append(commands, decl.Lisp())
	}
	//
	for _, assertion := range p.Assertions {
		commands = append(commands, command("assert", assertion.Lisp()))
	}
	//
	return append(commands, command("check-sat"))
}

func (p *Script) String() string {
	var (
		builder   strings.Builder
		formatter = sexp.NewSmtFormatter(p.Width)
	)
	//
	for _, cmd := range p.Lisp() {
		builder.WriteString(formatter.Format(cmd))
	}
	//
	return builder.String()
}

// WriteTo writes this script to a given writer.
func (p *Script) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, p.String())
	return int64(n), err
}

func command(name string, args ...sexp.SExp) sexp.SExp {
	return sexp.NewList(append([]sexp.SExp{sexp.NewSymbol(name)}, args...))
}
