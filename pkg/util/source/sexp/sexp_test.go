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
	"reflect"
	"testing"

	"github.com/consensys/go-semgus/pkg/util/source"
)

// ============================================================================
// Positive Tests
// ============================================================================

func TestSexp_0(t *testing.T) {
	CheckOk(t, nil, "")
}

func TestSexp_1(t *testing.T) {
	e1 := List{nil}
	CheckOk(t, &e1, "()")
}

func TestSexp_2(t *testing.T) {
	e1 := List{nil}
	e2 := List{[]SExp{&e1}}
	CheckOk(t, &e2, "(())")
}

func TestSexp_3(t *testing.T) {
	e1 := Symbol{"sat"}
	CheckOk(t, &e1, "sat")
}

func TestSexp_4(t *testing.T) {
	e1 := Symbol{"unsat"}
	CheckOk(t, &e1, "  unsat\n")
}

func TestSexp_5(t *testing.T) {
	e1 := Symbol{"error"}
	e2 := Symbol{"\"line 1 column 5: unknown constant x\""}
	e3 := List{[]SExp{&e1, &e2}}
	CheckOk(t, &e3, "(error \"line 1 column 5: unknown constant x\")")
}

func TestSexp_6(t *testing.T) {
	e1 := Symbol{"declare-fun"}
	e2 := Symbol{"|E.Sem value|"}
	e3 := List{nil}
	e4 := Symbol{"Bool"}
	e5 := List{[]SExp{&e1, &e2, &e3, &e4}}
	CheckOk(t, &e5, "(declare-fun |E.Sem value| () Bool)")
}

func TestSexp_7(t *testing.T) {
	e1 := Symbol{"\"say \"\"hi\"\"\""}
	CheckOk(t, &e1, "\"say \"\"hi\"\"\"")
}

func TestSexp_8(t *testing.T) {
	e1 := Symbol{"x"}
	e2 := List{[]SExp{&e1}}
	CheckOk(t, &e2, "; a comment\n(x) ; trailing")
}

func TestSexp_ParseAll_1(t *testing.T) {
	terms := CheckAllOk(t, "sat\n(model)\n")
	//
	if len(terms) != 2 {
		t.Fatalf("expected 2 terms, got %d", len(terms))
	} else if terms[0].AsSymbol() == nil || terms[0].AsSymbol().Value != "sat" {
		t.Errorf("expected sat, got %s", terms[0].String(false))
	} else if terms[1].AsList() == nil {
		t.Errorf("expected list, got %s", terms[1].String(false))
	}
}

// ============================================================================
// Symbols
// ============================================================================

func TestSymbol_Quote_1(t *testing.T) {
	CheckQuote(t, "E.Sem", "E.Sem")
}

func TestSymbol_Quote_2(t *testing.T) {
	CheckQuote(t, "E Sem", "|E Sem|")
}

func TestSymbol_Quote_3(t *testing.T) {
	CheckQuote(t, "0_x", "|0_x|")
}

func TestSymbol_Quote_4(t *testing.T) {
	CheckQuote(t, "42", "42")
}

func TestSymbol_Unquote_1(t *testing.T) {
	if s := NewString("a \"b\"").Unquote(); s != "a \"b\"" {
		t.Errorf("unexpected unquoted string %q", s)
	}
}

func TestSymbol_Unquote_2(t *testing.T) {
	if s := NewSymbol("|a b|").Unquote(); s != "a b" {
		t.Errorf("unexpected unquoted symbol %q", s)
	}
}

// ============================================================================
// Formatting
// ============================================================================

func TestFormat_1(t *testing.T) {
	x := NewSymbol("x")
	e := NewList([]SExp{NewSymbol("assert"), NewList([]SExp{NewSymbol("="), x, x})})
	CheckFormat(t, NewSmtFormatter(80), e, "(assert (= x x))\n")
}

func TestFormat_2(t *testing.T) {
	body := NewList([]SExp{NewSymbol("=>"), NewSymbol("premise_is_long"), NewSymbol("conclusion_is_long")})
	binders := NewList([]SExp{NewList([]SExp{NewSymbol("x"), NewSymbol("Int")})})
	e := NewList([]SExp{NewSymbol("forall"), binders, body})
	CheckFormat(t, NewSmtFormatter(30), e, "(forall ((x Int))\n  (=>\n    premise_is_long\n    conclusion_is_long))\n")
}

func TestFormat_3(t *testing.T) {
	e := NewList([]SExp{NewSymbol("and"), NewSymbol("aaaaaaaaaa"), NewSymbol("bbbbbbbbbb")})
	CheckFormat(t, NewSmtFormatter(14), e, "(and\n  aaaaaaaaaa\n  bbbbbbbbbb)\n")
}

// ============================================================================
// Negative Tests
// ============================================================================

// unexpected end of list
func TestSexp_Err1(t *testing.T) {
	CheckErr(t, ")")
}

// unexpected end of file
func TestSexp_Err2(t *testing.T) {
	CheckErr(t, "(sat")
}

// unexpected remainder
func TestSexp_Err3(t *testing.T) {
	CheckErr(t, "(sat))")
}

// unterminated string
func TestSexp_Err4(t *testing.T) {
	CheckErr(t, "(error \"oops)")
}

// ============================================================================
// Helpers
// ============================================================================

func CheckOk(t *testing.T, sexp1 SExp, input string) {
	sexp2, _, err := Parse(source.NewSourceFile("test", []byte(input)))
	//
	if err != nil {
		t.Error(err)
	} else if sexp1 == nil && sexp2 == nil {
		return
	} else if !reflect.DeepEqual(sexp1, sexp2) {
		t.Errorf("%s != %s", sexp1.String(false), sexp2.String(false))
	}
}

func CheckAllOk(t *testing.T, input string) []SExp {
	terms, _, err := ParseAll(source.NewSourceFile("test", []byte(input)))
	//
	if err != nil {
		t.Fatal(err)
	}
	//
	return terms
}

func CheckQuote(t *testing.T, value string, expected string) {
	if actual := NewSymbol(value).String(true); actual != expected {
		t.Errorf("%s != %s", actual, expected)
	}
}

func CheckFormat(t *testing.T, formatter *Formatter, sexp SExp, expected string) {
	if actual := formatter.Format(sexp); actual != expected {
		t.Errorf("%q != %q", actual, expected)
	}
}

func CheckErr(t *testing.T, input string) {
	_, _, err := Parse(source.NewSourceFile("test", []byte(input)))
	//
	if err == nil {
		t.Errorf("input should not have parsed!")
	}
}
