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
	"math"
	"strings"
)

// INDENT is written once per level of indentation.
const INDENT = "  "

// FormattingChunk represents a chunk of a lisp expression which is to be
// indented at a given priority level.
type FormattingChunk struct {
	Priority uint
	Indent   uint
	Contents SExp
}

// Formatter encapsulates and applies a given set of rules.
type Formatter struct {
	// Maximum desired width
	maxWidth uint
	// Rules to be used for formatting
	rules []FormattingRule
}

// NewFormatter constructs a new formatter which aims to fit its output within a
// given width.
func NewFormatter(width uint) *Formatter {
	return &Formatter{width, nil}
}

// NewSmtFormatter constructs a formatter preloaded with rules suitable for
// SMT-LIB2 scripts, where quantifiers, implications and connectives are broken
// across lines before anything else.
func NewSmtFormatter(width uint) *Formatter {
	f := NewFormatter(width)
	//
	f.Add(&HFormatter{Head: "forall", Inline: 1, Priority: 1})
	f.Add(&HFormatter{Head: "exists", Inline: 1, Priority: 1})
	f.Add(&HFormatter{Head: "=>", Inline: 0, Priority: 2})
	f.Add(&HFormatter{Head: "and", Inline: 0, Priority: 3})
	f.Add(&HFormatter{Head: "or", Inline: 0, Priority: 3})
	//
	return f
}

// Add a new formatting rule to this formatter.
func (p *Formatter) Add(rule FormattingRule) {
	p.rules = append(p.rules, rule)
}

// Format a given S-Expression using the rules embedded within this formatter.
func (p *Formatter) Format(sexp SExp) string {
	var (
		priority uint = 0
		changed       = true
		text     layout
	)
	// Keep going whilst things are still changing.
	for changed {
		changed = false
		text = format(priority, p.maxWidth, sexp, p.rules)
		//
		if text.widest > p.maxWidth && priority < 10 {
			changed = true
			priority++
		}
	}
	//
	return text.String()
}

func format(priority, maxWidth uint, sexp SExp, rules []FormattingRule) layout {
	var text layout
	//
	formatInner(priority, maxWidth, false, sexp, rules, &text)
	// Done
	return text
}

func formatInner(priority, maxWidth uint, newline bool, sexp SExp, rules []FormattingRule, text *layout) {
	switch sexp := sexp.(type) {
	case *Symbol:
		text.write(sexp.String(true))
	case *List:
		for _, rule := range rules {
			// Override priority?
			if text.width()+uint(len(sexp.String(true))) <= maxWidth {
				priority = 0
			}
			//
			if chunks, indent := rule.Split(sexp); chunks != nil {
				formatWith(priority, maxWidth, newline, chunks, indent, rules, text)
				return
			}
		}
		// default rule
		formatDefault(priority, maxWidth, sexp, rules, text)
	default:
		panic("unreachable")
	}
}

func formatWith(priority, maxWidth uint, newline bool, chunks []FormattingChunk, indent uint,
	rules []FormattingRule, text *layout) {
	//
	if indent != math.MaxUint && !newline {
		text.indent(int(indent))
		text.newline()
	}
	//
	text.write("(")
	//
	for i, chunk := range chunks {
		var nl bool
		//
		if chunk.Priority <= priority {
			text.indent(int(chunk.Indent))
			text.newline()
			// Request newline
			nl = true
		} else if i != 0 {
			text.write(" ")
		}
		//
		formatInner(priority, maxWidth, nl, chunk.Contents, rules, text)
		//
		if chunk.Priority <= priority {
			text.indent(-int(chunk.Indent))
		}
	}
	//
	text.write(")")
	//
	if indent != math.MaxUint && !newline {
		text.indent(-int(indent))
	}
}

func formatDefault(priority, maxWidth uint, sexp *List, rules []FormattingRule, text *layout) {
	//
	text.write("(")
	//
	for i := 0; i < sexp.Len(); i++ {
		if i != 0 {
			text.write(" ")
		}

		formatInner(priority, maxWidth, false, sexp.Get(i), rules, text)
	}
	//
	text.write(")")
}

// layout accumulates the lines of a formatted expression.  The last line is
// the one being written.
type layout struct {
	depth  int
	lines  []string
	widest uint
}

func (p *layout) String() string {
	if len(p.lines) == 0 {
		return ""
	}
	//
	return strings.Join(p.lines, "\n") + "\n"
}

func (p *layout) indent(delta int) {
	p.depth += delta
}

func (p *layout) newline() {
	p.lines = append(p.lines, strings.Repeat(INDENT, max(p.depth, 0)))
	p.widest = max(p.widest, p.width())
}

func (p *layout) write(str string) {
	if n := len(p.lines); n == 0 {
		p.lines = append(p.lines, str)
	} else {
		p.lines[n-1] += str
	}
	//
	p.widest = max(p.widest, p.width())
}

// Width of the line being written.
func (p *layout) width() uint {
	if n := len(p.lines); n > 0 {
		return uint(len(p.lines[n-1]))
	}
	//
	return 0
}
