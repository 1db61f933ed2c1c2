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
package problem

import "fmt"

// ConsistencyError reports a problem whose events are individually well-formed,
// but which are inconsistent with each other (e.g. a reference to an
// undeclared term type, or a duplicate declaration).
type ConsistencyError struct {
	message string
}

// Errorf constructs a consistency error from a format string.
func Errorf(format string, args ...any) *ConsistencyError {
	return &ConsistencyError{fmt.Sprintf(format, args...)}
}

func (p *ConsistencyError) Error() string {
	return p.message
}
