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

import "math"

// FormattingRule provides a generic mechanism for writing custom formatting
// rules.  Whenever a list is encountered during formatting, the formatting
// rules will be given the opportunity to direct formatting of the list.  That
// is, whether to start a new line and indent the list as whole and/or any of
// its children.  A formatting rule should return nil for the formatting chunks
// when it doesn't handle the given list.
type FormattingRule interface {
	Split(*List) ([]FormattingChunk, uint)
}

// HFormatter keeps the head of a list (and a fixed number of following
// elements) on the current line, whilst the remaining children are broken onto
// indented lines once the given priority is reached, thusly:
//
//	(forall ((x Int))
//	  body)
//
// This suits SMT-LIB2 binders and connectives, where the interesting part is the
// trailing operands.
type HFormatter struct {
	// Head symbol to match
	Head string
	// Number of elements after the head kept inline.
	Inline int
	// Priority to give for matching.
	Priority uint
}

// Split a list using the HFormatter where the list matches.
func (p *HFormatter) Split(list *List) ([]FormattingChunk, uint) {
	if list.Len() == 0 {
		return nil, 0
	} else if sym, ok := list.Get(0).(*Symbol); !ok || sym.Value != p.Head {
		return nil, 0
	}
	//
	chunks := make([]FormattingChunk, list.Len())
	//
	for i := 0; i < list.Len(); i++ {
		chunks[i].Contents = list.Get(i)
		//
		if i <= p.Inline {
			chunks[i].Priority = math.MaxUint
		} else {
			chunks[i].Priority = p.Priority
			chunks[i].Indent = 1
		}
	}
	// Never start the list itself on a new line.
	return chunks, math.MaxUint
}
