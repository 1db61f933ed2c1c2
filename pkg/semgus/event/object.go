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
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/segmentio/encoding/json"
)

// object provides checked access to the fields of a decoded JSON object.  Each
// field accessed is recorded, such that any remaining fields can be reported
// as unknown.
type object struct {
	fields  map[string]any
	visited map[string]bool
	options Options
}

func asObject(value any, options Options) (*object, *DeserializationError) {
	fields, ok := value.(map[string]any)
	//
	if !ok {
		return nil, errorf("expected object, found %s", kindOf(value))
	}
	//
	return &object{fields, make(map[string]bool), options}, nil
}

// get returns the raw value of a required field.
func (p *object) get(key string) (any, *DeserializationError) {
	p.visited[key] = true
	//
	if value, ok := p.fields[key]; ok {
		return value, nil
	}
	//
	return nil, newError("missing field", key)
}

// has checks whether a field is present.  Present fields with null values are
// treated as absent.
func (p *object) has(key string) bool {
	p.visited[key] = true
	value, ok := p.fields[key]
	//
	return ok && value != nil
}

func (p *object) Str(key string) (string, *DeserializationError) {
	value, err := p.get(key)
	//
	if err != nil {
		return "", err
	}
	//
	str, ok := value.(string)
	//
	if !ok {
		return "", errorf("expected string, found %s", kindOf(value)).Prepend(key)
	}
	//
	return str, nil
}

func (p *object) Int(key string) (int64, *DeserializationError) {
	value, err := p.get(key)
	//
	if err != nil {
		return 0, err
	}
	//
	n, derr := asInt(value)
	//
	if derr != nil {
		return 0, derr.Prepend(key)
	}
	//
	return n, nil
}

func (p *object) Array(key string) ([]any, *DeserializationError) {
	value, err := p.get(key)
	//
	if err != nil {
		return nil, err
	}
	//
	arr, ok := value.([]any)
	//
	if !ok {
		return nil, errorf("expected array, found %s", kindOf(value)).Prepend(key)
	}
	//
	return arr, nil
}

func (p *object) Object(key string) (*object, *DeserializationError) {
	value, err := p.get(key)
	//
	if err != nil {
		return nil, err
	}
	//
	obj, derr := asObject(value, p.options)
	//
	if derr != nil {
		return nil, derr.Prepend(key)
	}
	//
	return obj, nil
}

// Objects returns a required field holding an array of objects.
func (p *object) Objects(key string) ([]*object, *DeserializationError) {
	arr, err := p.Array(key)
	//
	if err != nil {
		return nil, err
	}
	//
	objs := make([]*object, len(arr))
	//
	for i, value := range arr {
		if objs[i], err = asObject(value, p.options); err != nil {
			return nil, err.PrependIndex(i).Prepend(key)
		}
	}
	//
	return objs, nil
}

// Strings returns a required field holding an array of strings.
func (p *object) Strings(key string) ([]string, *DeserializationError) {
	arr, err := p.Array(key)
	//
	if err != nil {
		return nil, err
	}
	//
	strs, err := asStrings(arr)
	//
	if err != nil {
		return nil, err.Prepend(key)
	}
	//
	return strs, nil
}

// OptionalStrings returns a field holding an array of strings, or nil when
// the field is absent.
func (p *object) OptionalStrings(key string) ([]string, *DeserializationError) {
	if !p.has(key) {
		return nil, nil
	}
	//
	return p.Strings(key)
}

// Done checks that every field of this object has been accessed, unless
// unknown fields are permitted.
func (p *object) Done() *DeserializationError {
	if p.options.AllowUnknownFields {
		return nil
	}
	//
	var unknown []string
	//
	for key := range p.fields {
		if !p.visited[key] {
			unknown = append(unknown, key)
		}
	}
	//
	if len(unknown) == 0 {
		return nil
	}
	//
	sort.Strings(unknown)
	//
	return errorf("unknown field(s) %s", strings.Join(unknown, ", ")).Prepend(unknown[0])
}

func asStrings(arr []any) ([]string, *DeserializationError) {
	strs := make([]string, len(arr))
	//
	for i, value := range arr {
		str, ok := value.(string)
		//
		if !ok {
			return nil, errorf("expected string, found %s", kindOf(value)).PrependIndex(i)
		}
		//
		strs[i] = str
	}
	//
	return strs, nil
}

func asInt(value any) (int64, *DeserializationError) {
	num, ok := value.(json.Number)
	//
	if !ok {
		return 0, errorf("expected integer, found %s", kindOf(value))
	}
	//
	n, err := num.Int64()
	//
	if err != nil {
		return 0, errorf("expected integer, found %s", num.String())
	}
	//
	return n, nil
}

func asUint(value any) (uint64, *DeserializationError) {
	num, ok := value.(json.Number)
	//
	if !ok {
		return 0, errorf("expected integer, found %s", kindOf(value))
	}
	//
	n, err := strconv.ParseUint(num.String(), 10, 64)
	//
	if err != nil {
		return 0, errorf("expected non-negative integer, found %s", num.String())
	}
	//
	return n, nil
}

func asWidth(value any) (uint, *DeserializationError) {
	n, err := asUint(value)
	//
	if err != nil {
		return 0, err
	} else if n == 0 || n > math.MaxUint32 {
		return 0, errorf("invalid bit-vector width %d", n)
	}
	//
	return uint(n), nil
}

func kindOf(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}
