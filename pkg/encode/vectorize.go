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
package encode

import (
	"github.com/consensys/go-semgus/pkg/ir/horn"
	"github.com/consensys/go-semgus/pkg/semgus/ast"
	"github.com/consensys/go-semgus/pkg/semgus/problem"
	log "github.com/sirupsen/logrus"
)

// Columns holds a table of examples in column order.  That is, each column
// holds the value of one argument position across all examples.
type Columns struct {
	// Input columns, in argument order.
	Inputs [][]horn.Term
	// Expected outputs, one per example.
	Results []horn.Term
}

// Rows returns the number of examples.
func (p Columns) Rows() uint {
	return uint(len(p.Results))
}

// Vectorize transposes a set of examples into columns.  Every example must be
// an application with the same number of arguments (at least two), where the
// first argument is ignored and the last gives the expected output.  The
// remaining arguments must be constants.
func (p *Encoder) Vectorize(examples []ast.Term) (Columns, error) {
	var (
		n     = len(examples)
		arity = -1
		rows  = make([]*ast.Application, n)
	)
	//
	for i, row := range examples {
		app, ok := row.(*ast.Application)
		//
		if !ok {
			return Columns{}, problem.Errorf("example %d is not an application (%s)", i, row.String())
		} else if arity == -1 {
			arity = len(app.Arguments)
		} else if len(app.Arguments) != arity {
			return Columns{}, problem.Errorf("example %d has %d arguments, expected %d", i, len(app.Arguments), arity)
		}
		//
		rows[i] = app
	}
	//
	if arity < 2 {
		return Columns{}, problem.Errorf("examples require at least 2 arguments (found %d)", max(arity, 0))
	}
	//
	columns := make([][]horn.Term, arity-1)
	// Constants are evaluated without any variables in scope.
	eval := newEvaluator(p, nil, 1)
	//
	for c := range columns {
		columns[c] = make([]horn.Term, n)
		//
		for j, row := range rows {
			value, err := eval.Eval(row.Argument(c+1), 0)
			//
			if err != nil {
				return Columns{}, problem.Errorf("example %d, argument %d: %s", j, c+1, err.Error())
			}
			//
			columns[c][j] = value
		}
	}
	//
	log.Debugf("vectorized %d examples into %d input column(s)", n, arity-2)
	//
	return Columns{columns[:arity-2], columns[arity-2]}, nil
}
