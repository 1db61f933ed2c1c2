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

// RelationApp is an application of a (semantic) relation to variables.  These
// form the head and body of the Horn clauses describing a production's
// semantics.
type RelationApp struct {
	Name      string
	Arguments []TypedVar
}

func (p RelationApp) String() string {
	args := make([]string, len(p.Arguments))
	//
	for i, arg := range p.Arguments {
		args[i] = arg.String()
	}
	//
	return fmt.Sprintf("%s(%s)", p.Name, strings.Join(args, ", "))
}
