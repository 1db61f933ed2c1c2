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

// Attribute keys used to annotate the variables of a Horn clause.
const (
	// InputAttribute marks a variable as an input of a semantic relation.
	InputAttribute = "input"
	// OutputAttribute marks a variable as an output of a semantic relation.
	OutputAttribute = "output"
)

// TypedVar is a variable name paired with its sort.
type TypedVar struct {
	Name string
	Sort Identifier
}

// NewTypedVars pairs up a list of names with a list of sorts, which must have
// the same length.
func NewTypedVars(names []string, sorts []Identifier) []TypedVar {
	if len(names) != len(sorts) {
		panic(fmt.Sprintf("mismatched names and sorts (%d != %d)", len(names), len(sorts)))
	}
	//
	vars := make([]TypedVar, len(names))
	//
	for i := range names {
		vars[i] = TypedVar{names[i], sorts[i]}
	}
	//
	return vars
}

func (p TypedVar) String() string {
	return fmt.Sprintf("%s:%s", p.Name, p.Sort.String())
}

// AnnotatedVar is a variable name paired with a set of attributes, such as
// whether it is an input or an output of the enclosing Horn clause.
type AnnotatedVar struct {
	Name       string
	Attributes map[string]AttributeValue
}

// NewAnnotatedVar constructs a variable with no attributes.
func NewAnnotatedVar(name string) AnnotatedVar {
	return AnnotatedVar{name, make(map[string]AttributeValue)}
}

// IsInput determines whether this variable carries the input attribute.
func (p AnnotatedVar) IsInput() bool {
	_, ok := p.Attributes[InputAttribute]
	return ok
}

// IsOutput determines whether this variable carries the output attribute.
func (p AnnotatedVar) IsOutput() bool {
	_, ok := p.Attributes[OutputAttribute]
	return ok
}

// Clone makes a deep copy of this variable's attribute set.
func (p AnnotatedVar) Clone() AnnotatedVar {
	attrs := make(map[string]AttributeValue, len(p.Attributes))
	//
	for k, v := range p.Attributes {
		attrs[k] = v
	}
	//
	return AnnotatedVar{p.Name, attrs}
}

func (p AnnotatedVar) String() string {
	keys := make([]string, 0, len(p.Attributes))
	//
	for k := range p.Attributes {
		keys = append(keys, ":"+k)
	}
	//
	sort.Strings(keys)
	//
	if len(keys) == 0 {
		return p.Name
	}
	//
	return fmt.Sprintf("%s[%s]", p.Name, strings.Join(keys, " "))
}

// AttributeValue is the value of a metadata or variable attribute.  This is
// one of UnitValue, StringValue, NumberValue, KeywordValue or ListValue.
type AttributeValue interface {
	isAttributeValue()
	String() string
}

// UnitValue is an attribute with no value (e.g. a flag such as :input).
type UnitValue struct{}

// StringValue is a string-valued attribute.
type StringValue string

// NumberValue is an integer-valued attribute.
type NumberValue int64

// KeywordValue is a keyword-valued attribute (e.g. :logic).
type KeywordValue string

// ListValue is a list of attribute values.
type ListValue []AttributeValue

func (UnitValue) isAttributeValue()    {}
func (StringValue) isAttributeValue()  {}
func (NumberValue) isAttributeValue()  {}
func (KeywordValue) isAttributeValue() {}
func (ListValue) isAttributeValue()    {}

func (UnitValue) String() string { return "()" }

func (p StringValue) String() string { return fmt.Sprintf("%q", string(p)) }

func (p NumberValue) String() string { return fmt.Sprintf("%d", int64(p)) }

func (p KeywordValue) String() string { return ":" + string(p) }

func (p ListValue) String() string {
	elements := make([]string, len(p))
	//
	for i, v := range p {
		elements[i] = v.String()
	}
	//
	return fmt.Sprintf("(%s)", strings.Join(elements, " "))
}
