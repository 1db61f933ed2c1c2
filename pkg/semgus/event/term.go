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
	"github.com/consensys/go-semgus/pkg/semgus/ast"
	"github.com/segmentio/encoding/json"
)

// Term type discriminators.
const (
	termApplication = "application"
	termVariable    = "variable"
	termBitVector   = "bitvector"
	termExists      = "exists"
	termForAll      = "forall"
	termMatch       = "match"
)

// Identifier decodes an identifier, which is either a string or an array whose
// first element is a name and whose remaining elements are indices.
func (p *decoder) Identifier(value any) (ast.Identifier, *DeserializationError) {
	switch v := value.(type) {
	case string:
		return ast.NewIdentifier(v), nil
	case []any:
		if len(v) == 0 {
			return ast.Identifier{}, errorf("empty identifier")
		}
		//
		name, ok := v[0].(string)
		//
		if !ok {
			return ast.Identifier{}, errorf("expected string, found %s", kindOf(v[0])).PrependIndex(0)
		}
		//
		indices := make([]ast.Index, len(v)-1)
		//
		for i, elem := range v[1:] {
			switch e := elem.(type) {
			case string:
				indices[i] = ast.SymbolIndex(e)
			case json.Number:
				n, err := asUint(e)
				if err != nil {
					return ast.Identifier{}, err.PrependIndex(i + 1)
				}
				//
				indices[i] = ast.NumericIndex(n)
			default:
				return ast.Identifier{}, errorf("expected index, found %s", kindOf(elem)).PrependIndex(i + 1)
			}
		}
		//
		return ast.NewIdentifier(name, indices...), nil
	default:
		return ast.Identifier{}, errorf("expected identifier, found %s", kindOf(value))
	}
}

// IdentifierAt decodes an identifier held in a given field.
func (p *decoder) IdentifierAt(obj *object, key string) (ast.Identifier, *DeserializationError) {
	value, err := obj.get(key)
	//
	if err != nil {
		return ast.Identifier{}, err
	}
	//
	id, err := p.Identifier(value)
	//
	if err != nil {
		return ast.Identifier{}, err.Prepend(key)
	}
	//
	return id, nil
}

// IdentifiersAt decodes an array of identifiers held in a given field.
func (p *decoder) IdentifiersAt(obj *object, key string) ([]ast.Identifier, *DeserializationError) {
	arr, err := obj.Array(key)
	//
	if err != nil {
		return nil, err
	}
	//
	ids := make([]ast.Identifier, len(arr))
	//
	for i, value := range arr {
		if ids[i], err = p.Identifier(value); err != nil {
			return nil, err.PrependIndex(i).Prepend(key)
		}
	}
	//
	return ids, nil
}

// TypedVarsAt decodes a list of variable names held in one field, alongside a
// list of their sorts held in another.
func (p *decoder) TypedVarsAt(obj *object, names string, sorts string) ([]ast.TypedVar, *DeserializationError) {
	vars, err := obj.Strings(names)
	//
	if err != nil {
		return nil, err
	}
	//
	ids, err := p.IdentifiersAt(obj, sorts)
	//
	if err != nil {
		return nil, err
	} else if len(vars) != len(ids) {
		return nil, errorf("%s and %s have different lengths (%d != %d)", names, sorts, len(vars), len(ids))
	}
	//
	return ast.NewTypedVars(vars, ids), nil
}

// AttributeValue decodes the value of an attribute.
func (p *decoder) AttributeValue(value any) (ast.AttributeValue, *DeserializationError) {
	switch v := value.(type) {
	case nil:
		return ast.UnitValue{}, nil
	case string:
		return ast.StringValue(v), nil
	case json.Number:
		n, err := asInt(v)
		if err != nil {
			return nil, err
		}
		//
		return ast.NumberValue(n), nil
	case []any:
		list := make(ast.ListValue, len(v))
		//
		for i, elem := range v {
			var err *DeserializationError
			//
			if list[i], err = p.AttributeValue(elem); err != nil {
				return nil, err.PrependIndex(i)
			}
		}
		//
		return list, nil
	case map[string]any:
		obj, _ := asObject(v, p.options)
		keyword, err := obj.Str("keyword")
		//
		if err == nil {
			err = obj.Done()
		}
		//
		if err != nil {
			return nil, err
		}
		//
		return ast.KeywordValue(keyword), nil
	default:
		return nil, errorf("expected attribute value, found %s", kindOf(value))
	}
}

// RelationApp decodes a relation application.
func (p *decoder) RelationApp(value any) (ast.RelationApp, *DeserializationError) {
	obj, err := asObject(value, p.options)
	//
	if err != nil {
		return ast.RelationApp{}, err
	}
	//
	name, err := obj.Str("name")
	//
	if err != nil {
		return ast.RelationApp{}, err
	}
	//
	args, err := p.TypedVarsAt(obj, "arguments", "signature")
	//
	if err == nil {
		err = obj.Done()
	}
	//
	if err != nil {
		return ast.RelationApp{}, err
	}
	//
	return ast.RelationApp{Name: name, Arguments: args}, nil
}

// Term decodes a term, which is either an integer literal or an object whose
// $termType field identifies its kind.
func (p *decoder) Term(value any) (ast.Term, *DeserializationError) {
	if num, ok := value.(json.Number); ok {
		n, err := asInt(num)
		if err != nil {
			return nil, err
		}
		//
		return &ast.Numeral{Value: n}, nil
	}
	//
	obj, err := asObject(value, p.options)
	//
	if err != nil {
		return nil, errorf("expected term, found %s", kindOf(value))
	}
	//
	kind, err := obj.Str("$termType")
	//
	if err != nil {
		return nil, err
	}
	//
	var term ast.Term
	//
	switch kind {
	case termApplication:
		term, err = p.application(obj)
	case termVariable:
		term, err = p.variable(obj)
	case termBitVector:
		term, err = p.bitvector(obj)
	case termExists:
		term, err = p.quantifier(obj, ast.Exists)
	case termForAll:
		term, err = p.quantifier(obj, ast.ForAll)
	case termMatch:
		term, err = p.match(obj)
	default:
		return nil, errorf("unknown term type \"%s\"", kind).Prepend("$termType")
	}
	//
	if err == nil {
		err = obj.Done()
	}
	//
	if err != nil {
		return nil, err
	}
	//
	return term, nil
}

// TermAt decodes a term held in a given field.
func (p *decoder) TermAt(obj *object, key string) (ast.Term, *DeserializationError) {
	value, err := obj.get(key)
	//
	if err != nil {
		return nil, err
	}
	//
	term, err := p.Term(value)
	//
	if err != nil {
		return nil, err.Prepend(key)
	}
	//
	return term, nil
}

func (p *decoder) application(obj *object) (ast.Term, *DeserializationError) {
	name, err := p.IdentifierAt(obj, "name")
	//
	if err != nil {
		return nil, err
	}
	//
	returnSort, err := p.IdentifierAt(obj, "returnSort")
	//
	if err != nil {
		return nil, err
	}
	//
	sorts, err := p.IdentifiersAt(obj, "argumentSorts")
	//
	if err != nil {
		return nil, err
	}
	//
	arr, err := obj.Array("arguments")
	//
	if err != nil {
		return nil, err
	} else if len(arr) != len(sorts) {
		return nil, errorf("argumentSorts and arguments have different lengths (%d != %d)", len(sorts), len(arr))
	}
	//
	args := make([]ast.TypedTerm, len(arr))
	//
	for i, value := range arr {
		arg, err := p.Term(value)
		//
		if err != nil {
			return nil, err.PrependIndex(i).Prepend("arguments")
		}
		//
		args[i] = ast.TypedTerm{Sort: sorts[i], Term: arg}
	}
	//
	return ast.NewApplication(name, returnSort, args...), nil
}

func (p *decoder) variable(obj *object) (ast.Term, *DeserializationError) {
	name, err := obj.Str("name")
	//
	if err != nil {
		return nil, err
	}
	//
	sort, err := p.IdentifierAt(obj, "sort")
	//
	if err != nil {
		return nil, err
	}
	//
	return &ast.Variable{Name: name, Sort: sort}, nil
}

func (p *decoder) bitvector(obj *object) (ast.Term, *DeserializationError) {
	size, err := obj.get("size")
	//
	if err != nil {
		return nil, err
	}
	//
	width, err := asWidth(size)
	//
	if err != nil {
		return nil, err.Prepend("size")
	}
	//
	raw, err := obj.get("value")
	//
	if err != nil {
		return nil, err
	}
	//
	value, err := asUint(raw)
	//
	if err != nil {
		return nil, err.Prepend("value")
	} else if width < 64 && value>>width != 0 {
		return nil, errorf("value %d does not fit in %d bits", value, width).Prepend("value")
	}
	//
	return &ast.BitVector{Width: width, Value: value}, nil
}

func (p *decoder) quantifier(obj *object, kind ast.QuantifierKind) (ast.Term, *DeserializationError) {
	bindings, err := p.TypedVarsAt(obj, "bindings", "bindingSorts")
	//
	if err != nil {
		return nil, err
	}
	//
	child, err := p.TermAt(obj, "child")
	//
	if err != nil {
		return nil, err
	}
	//
	return &ast.Quantifier{Kind: kind, Bindings: bindings, Child: child}, nil
}

func (p *decoder) match(obj *object) (ast.Term, *DeserializationError) {
	scrutinee, err := p.TermAt(obj, "term")
	//
	if err != nil {
		return nil, err
	}
	//
	binders, err := obj.Objects("binders")
	//
	if err != nil {
		return nil, err
	}
	//
	cases := make([]ast.MatchCase, len(binders))
	//
	for i, binder := range binders {
		if cases[i], err = p.matchCase(binder); err != nil {
			return nil, err.PrependIndex(i).Prepend("binders")
		}
	}
	//
	return &ast.Match{Term: scrutinee, Cases: cases}, nil
}

func (p *decoder) matchCase(obj *object) (ast.MatchCase, *DeserializationError) {
	operator, err := obj.Str("operator")
	//
	if err != nil {
		return ast.MatchCase{}, err
	}
	//
	bindings, err := obj.Strings("arguments")
	//
	if err != nil {
		return ast.MatchCase{}, err
	}
	//
	result, err := p.TermAt(obj, "child")
	//
	if err == nil {
		err = obj.Done()
	}
	//
	if err != nil {
		return ast.MatchCase{}, err
	}
	//
	return ast.MatchCase{Operator: operator, Bindings: bindings, Result: result}, nil
}
