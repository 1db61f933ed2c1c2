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
	"strings"
)

// Index is a single index of an indexed identifier, such as the width of a
// bit-vector sort.  This is either a NumericIndex or a SymbolIndex.
type Index interface {
	isIndex()
	String() string
}

// NumericIndex is an index given as a number (e.g. the 32 in (_ BitVec 32)).
type NumericIndex uint64

func (NumericIndex) isIndex() {}

func (p NumericIndex) String() string {
	return fmt.Sprintf("%d", uint64(p))
}

// SymbolIndex is an index given as a symbol.
type SymbolIndex string

func (SymbolIndex) isIndex() {}

func (p SymbolIndex) String() string {
	return string(p)
}

// Identifier names a sort or an operator.  An identifier may carry zero or
// more indices, as in (_ BitVec 32).
type Identifier struct {
	Name    string
	Indices []Index
}

// NewIdentifier constructs an identifier with the given indices.
func NewIdentifier(name string, indices ...Index) Identifier {
	return Identifier{name, indices}
}

// IsIndexed determines whether this identifier has any indices.
func (p Identifier) IsIndexed() bool {
	return len(p.Indices) > 0
}

// Equals checks whether two identifiers have the same name and indices.
func (p Identifier) Equals(other Identifier) bool {
	if p.Name != other.Name || len(p.Indices) != len(other.Indices) {
		return false
	}
	//
	for i, index := range p.Indices {
		if index != other.Indices[i] {
			return false
		}
	}
	//
	return true
}

func (p Identifier) String() string {
	if len(p.Indices) == 0 {
		return p.Name
	}
	//
	var builder strings.Builder
	//
	builder.WriteString("(_ ")
	builder.WriteString(p.Name)
	//
	for _, index := range p.Indices {
		builder.WriteString(" ")
		builder.WriteString(index.String())
	}
	//
	builder.WriteString(")")
	//
	return builder.String()
}
