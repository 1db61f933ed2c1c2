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
package sexp

import (
	"fmt"
	"strings"
	"unicode"
)

// SExp is an S-Expression which is either a List of zero or more
// S-Expressions, or a Symbol.  This is the textual form in which formulas are
// handed to (and responses received from) an SMT-LIB2 solver.
type SExp interface {
	// AsList checks whether this S-Expression is a list and, if
	// so, returns it.  Otherwise, it returns nil.
	AsList() *List
	// AsSymbol checks whether this S-Expression is a symbol and,
	// if so, returns it.  Otherwise, it returns nil.
	AsSymbol() *Symbol
	// String generates a string representation which may (may not) be quoted.
	// Quoting follows SMT-LIB2 conventions, where symbols containing characters
	// outside the simple symbol alphabet are enclosed in vertical bars.
	String(quote bool) string
}

// ===================================================================
// List
// ===================================================================

// List represents a list of zero or more S-Expressions.
type List struct {
	Elements []SExp
}

// NOTE: This is used for compile time type checking if the given type
// satisfies the given interface.
var _ SExp = (*List)(nil)

// EmptyList creates an empty list.
func EmptyList() *List {
	return &List{}
}

// NewList creates a new list from a given array of S-Expressions.
func NewList(elements []SExp) *List {
	return &List{elements}
}

// AsList returns the given list.
func (l *List) AsList() *List { return l }

// AsSymbol returns nil for a list.
func (l *List) AsSymbol() *Symbol { return nil }

// Len gets the number of elements in this list.
func (l *List) Len() int { return len(l.Elements) }

// Get the ith element of this list
func (l *List) Get(i int) SExp { return l.Elements[i] }

// Append a new element onto this list.
func (l *List) Append(element SExp) {
	l.Elements = append(l.Elements, element)
}

func (l *List) String(quote bool) string {
	var builder strings.Builder
	//
	builder.WriteString("(")
	//
	for i := 0; i < len(l.Elements); i++ {
		if i != 0 {
			builder.WriteString(" ")
		}

		builder.WriteString(l.Elements[i].String(quote))
	}
	//
	builder.WriteString(")")
	//
	return builder.String()
}

// MatchSymbols matches a list which starts with at least n symbols, of which the
// first m match the given strings.
func (l *List) MatchSymbols(n int, symbols ...string) bool {
	if len(l.Elements) < n || len(symbols) > n {
		return false
	}

	for i := 0; i < len(symbols); i++ {
		switch ith := l.Elements[i].(type) {
		case *Symbol:
			if ith.Value != symbols[i] {
				return false
			}
		default:
			return false
		}
	}

	return true
}

// ===================================================================
// Symbol
// ===================================================================

// Symbol represents a terminating symbol.  String literals (e.g. the message
// of an SMT-LIB2 error response) are also held as symbols, retaining their
// enclosing double quotes.
type Symbol struct {
	Value string
}

// NOTE: This is used for compile time type checking if the given type
// satisfies the given interface.
var _ SExp = (*Symbol)(nil)

// NewSymbol creates a new symbol from a given string.
func NewSymbol(value string) *Symbol {
	return &Symbol{value}
}

// NewString creates a new string literal symbol, escaping embedded quotes as
// SMT-LIB2 requires.
func NewString(value string) *Symbol {
	return &Symbol{fmt.Sprintf("\"%s\"", strings.ReplaceAll(value, "\"", "\"\""))}
}

// AsList returns nil for a symbol.
func (s *Symbol) AsList() *List { return nil }

// AsSymbol returns the given symbol
func (s *Symbol) AsSymbol() *Symbol { return s }

// IsString determines whether this symbol is a string literal.
func (s *Symbol) IsString() bool {
	return len(s.Value) >= 2 && s.Value[0] == '"' && s.Value[len(s.Value)-1] == '"'
}

// Unquote strips the enclosing quotes (or vertical bars) from a string literal
// (or quoted symbol).  Other symbols are returned as is.
func (s *Symbol) Unquote() string {
	n := len(s.Value)
	//
	switch {
	case s.IsString():
		return strings.ReplaceAll(s.Value[1:n-1], "\"\"", "\"")
	case n >= 2 && s.Value[0] == '|' && s.Value[n-1] == '|':
		return s.Value[1 : n-1]
	default:
		return s.Value
	}
}

func (s *Symbol) String(quote bool) string {
	if quote && !s.IsString() && !IsSimpleSymbol(s.Value) {
		return fmt.Sprintf("|%s|", s.Value)
	}
	// No quote required
	return s.Value
}

// IsSimpleSymbol checks whether a given string can be written as an SMT-LIB2
// simple symbol (or numeral) without quoting.
func IsSimpleSymbol(value string) bool {
	if value == "" {
		return false
	} else if unicode.IsDigit(rune(value[0])) {
		// Numerals are fine, but otherwise symbols cannot start with a digit.
		return strings.TrimLeft(value, "0123456789") == ""
	}
	//
	for _, r := range value {
		if !isSymbolLetter(r) {
			return false
		}
	}
	//
	return true
}

func isSymbolLetter(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("~!@$%^&*_-+=<>.?/", r))
}
