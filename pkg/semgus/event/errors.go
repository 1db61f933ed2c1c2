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
package event

import (
	"fmt"
	"strings"
)

// DeserializationError reports JSON which is well-formed, but which does not
// describe a valid event.  The path identifies the offending element, starting
// from the root of the event array.
type DeserializationError struct {
	path    []string
	message string
}

func newError(message string, path ...string) *DeserializationError {
	return &DeserializationError{path, message}
}

func errorf(format string, args ...any) *DeserializationError {
	return newError(fmt.Sprintf(format, args...))
}

// Path returns the path segments leading to the offending element.  Array
// indices are given in decimal.
func (p *DeserializationError) Path() []string {
	path := make([]string, len(p.path))
	copy(path, p.path)
	//
	return path
}

// Message returns the error message, without its path.
func (p *DeserializationError) Message() string {
	return p.message
}

// Prepend adds an enclosing field name to the front of this error's path.
func (p *DeserializationError) Prepend(segment string) *DeserializationError {
	p.path = append([]string{segment}, p.path...)
	return p
}

// PrependIndex adds an enclosing array index to the front of this error's path.
func (p *DeserializationError) PrependIndex(index int) *DeserializationError {
	return p.Prepend(fmt.Sprintf("%d", index))
}

func (p *DeserializationError) Error() string {
	if len(p.path) == 0 {
		return p.message
	}
	//
	return fmt.Sprintf("%s: %s", strings.Join(p.path, "."), p.message)
}

// MalformedError reports input which is not valid JSON.
type MalformedError struct {
	cause error
}

func (p *MalformedError) Error() string {
	return fmt.Sprintf("malformed json: %s", p.cause.Error())
}

// Unwrap returns the underlying decoder error.
func (p *MalformedError) Unwrap() error {
	return p.cause
}
