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
	"sort"
	"strings"
)

// DatatypeConstructor is a constructor of an SMT datatype.
type DatatypeConstructor struct {
	Name      string
	Arguments []Identifier
}

// Datatype is an algebraic SMT datatype, as introduced by define-datatype.
type Datatype struct {
	Name         string
	Constructors map[string]DatatypeConstructor
}

// Function is an SMT function with a body, as introduced by define-function.
type Function struct {
	Name       string
	ReturnSort Identifier
	Arguments  []TypedVar
	Body       Term
}

// SmtContext records the datatypes and functions defined by a problem.
type SmtContext struct {
	Datatypes map[string]Datatype
	Functions map[string]Function
}

// NewSmtContext constructs an empty context.
func NewSmtContext() SmtContext {
	return SmtContext{make(map[string]Datatype), make(map[string]Function)}
}

// Clone returns a copy of this context whose maps can be modified without
// affecting this one.
func (p SmtContext) Clone() SmtContext {
	ctx := NewSmtContext()
	//
	for k, v := range p.Datatypes {
		ctx.Datatypes[k] = v
	}
	//
	for k, v := range p.Functions {
		ctx.Functions[k] = v
	}
	//
	return ctx
}

// FunctionNames returns the names of all functions in this context in sorted
// order.
func (p SmtContext) FunctionNames() []string {
	names := make([]string, 0, len(p.Functions))
	//
	for name := range p.Functions {
		names = append(names, name)
	}
	//
	sort.Strings(names)
	//
	return names
}

// DatatypeNames returns the names of all datatypes in this context in sorted
// order.
func (p SmtContext) DatatypeNames() []string {
	names := make([]string, 0, len(p.Datatypes))
	//
	for name := range p.Datatypes {
		names = append(names, name)
	}
	//
	sort.Strings(names)
	//
	return names
}

func (p SmtContext) String() string {
	var builder strings.Builder
	//
	for _, name := range p.DatatypeNames() {
		builder.WriteString(p.Datatypes[name].String())
		builder.WriteString("\n")
	}
	//
	for _, name := range p.FunctionNames() {
		builder.WriteString(p.Functions[name].String())
		builder.WriteString("\n")
	}
	//
	return builder.String()
}

func (p Datatype) String() string {
	names := make([]string, 0, len(p.Constructors))
	//
	for name := range p.Constructors {
		names = append(names, name)
	}
	//
	sort.Strings(names)
	//
	constructors := make([]string, len(names))
	//
	for i, name := range names {
		constructors[i] = p.Constructors[name].String()
	}
	//
	return fmt.Sprintf("(define-datatype %s (%s))", p.Name, strings.Join(constructors, " "))
}

func (p DatatypeConstructor) String() string {
	if len(p.Arguments) == 0 {
		return fmt.Sprintf("(%s)", p.Name)
	}
	//
	args := make([]string, len(p.Arguments))
	//
	for i, arg := range p.Arguments {
		args[i] = arg.String()
	}
	//
	return fmt.Sprintf("(%s %s)", p.Name, strings.Join(args, " "))
}

func (p Function) String() string {
	args := make([]string, len(p.Arguments))
	//
	for i, arg := range p.Arguments {
		args[i] = fmt.Sprintf("(%s %s)", arg.Name, arg.Sort.String())
	}
	//
	body := "?"
	//
	if p.Body != nil {
		body = p.Body.String()
	}
	//
	return fmt.Sprintf("(define-fun %s (%s) %s %s)", p.Name, strings.Join(args, " "), p.ReturnSort.String(), body)
}
