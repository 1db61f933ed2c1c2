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
package solver

import (
	"fmt"

	"github.com/consensys/go-semgus/pkg/util/source"
	"github.com/consensys/go-semgus/pkg/util/source/sexp"
)

// ResponseError is an error reported by the solver itself, such as a sort
// error in a submitted assertion.
type ResponseError struct {
	message string
}

// Message returns the message reported by the solver.
func (p *ResponseError) Message() string {
	return p.message
}

func (p *ResponseError) Error() string {
	return fmt.Sprintf("solver error: %s", p.message)
}

// ParseResponse extracts the verdict from the output of a solver.  The output
// is a sequence of S-expressions, of which the first verdict symbol is used.
// Error responses take precedence over any verdict.  Malformed output yields
// a *source.SyntaxError locating the problem.
func ParseResponse(name string, output []byte) (Verdict, error) {
	var (
		srcfile      = source.NewSourceFile(name, output)
		verdict      = Unknown
		found        = false
		terms, _, se = sexp.ParseAll(srcfile)
	)
	//
	if se != nil {
		return Unknown, se
	}
	//
	for _, term := range terms {
		if list := term.AsList(); list != nil && list.Len() == 2 && list.MatchSymbols(1, "error") {
			if msg := list.Get(1).AsSymbol(); msg != nil {
				return Unknown, &ResponseError{msg.Unquote()}
			}
			//
			return Unknown, &ResponseError{list.Get(1).String(false)}
		} else if symbol := term.AsSymbol(); symbol != nil && !found {
			verdict, found = ParseVerdict(symbol.Value)
		}
	}
	//
	if !found {
		return Unknown, fmt.Errorf("no verdict in solver response")
	}
	//
	return verdict, nil
}
