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

// Verdict is the answer given by a solver for a set of Horn clauses.
type Verdict uint8

const (
	// Unknown indicates the solver gave up (e.g. due to incompleteness).
	Unknown Verdict = iota
	// Sat indicates the clauses are satisfiable.
	Sat
	// Unsat indicates the clauses are unsatisfiable.
	Unsat
)

// ParseVerdict converts a check-sat response into a verdict.
func ParseVerdict(response string) (Verdict, bool) {
	switch response {
	case "sat":
		return Sat, true
	case "unsat":
		return Unsat, true
	case "unknown":
		return Unknown, true
	}
	//
	return Unknown, false
}

func (p Verdict) String() string {
	switch p {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	default:
		return "unknown"
	}
}

// Interpret a verdict on an encoded problem.  Satisfiable clauses admit a
// model in which no term of the grammar meets every example, hence the
// problem is unrealizable.  Unsatisfiable clauses mean some term does meet
// them all.
func (p Verdict) Interpret() string {
	switch p {
	case Sat:
		return "unrealizable"
	case Unsat:
		return "realizable on the examples"
	default:
		return "unknown"
	}
}
