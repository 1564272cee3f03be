/*
Copyright 2024 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package operator

import "fmt"

// comparison is the common shape of Equal/NotEqual/Lt/Le/Gt/Ge: a
// pairwise comparison over exactly two values from elements. Fewer
// than two elements is true; more than two is an error.
type comparison struct {
	name     string
	elements Operator
	compare  func(a, b any) (bool, error)
}

func newComparison(name string, elements Operator, compare func(a, b any) (bool, error)) (*comparison, error) {
	if err := CheckListInput(name, ListOf(Any()), elements.ReturnType()); err != nil {
		return nil, err
	}
	return &comparison{name: name, elements: elements, compare: compare}, nil
}

func (c *comparison) InputType() Type  { return ListOf(Any()) }
func (c *comparison) ReturnType() Type { return Bool() }

func (c *comparison) Eval(ctx *Contexts) (any, error) {
	vs, err := evalList(c.elements, ctx)
	if err != nil {
		return nil, err
	}
	if len(vs) < 2 {
		return true, nil
	}
	if len(vs) > 2 {
		return nil, fmt.Errorf("%s: expected at most two operands, got %d", c.name, len(vs))
	}
	return c.compare(vs[0], vs[1])
}

func numericPair(a, b any) (float64, float64, error) {
	an, err := CoerceNumber(a)
	if err != nil {
		return 0, 0, err
	}
	bn, err := CoerceNumber(b)
	if err != nil {
		return 0, 0, err
	}
	return an, bn, nil
}

// Equal is deep structural equality of exactly two values.
type Equal struct{ *comparison }

func NewEqual(elements Operator) (*Equal, error) {
	c, err := newComparison("equal", elements, func(a, b any) (bool, error) { return DeepEqual(a, b), nil })
	if err != nil {
		return nil, err
	}
	return &Equal{c}, nil
}

// NotEqual is the negation of Equal.
type NotEqual struct{ *comparison }

func NewNotEqual(elements Operator) (*NotEqual, error) {
	c, err := newComparison("not-equal", elements, func(a, b any) (bool, error) { return !DeepEqual(a, b), nil })
	if err != nil {
		return nil, err
	}
	return &NotEqual{c}, nil
}

// Lt is numeric less-than.
type Lt struct{ *comparison }

func NewLt(elements Operator) (*Lt, error) {
	c, err := newComparison("lt", elements, func(a, b any) (bool, error) {
		an, bn, err := numericPair(a, b)
		if err != nil {
			return false, err
		}
		return an < bn, nil
	})
	if err != nil {
		return nil, err
	}
	return &Lt{c}, nil
}

// Le is numeric less-than-or-equal.
type Le struct{ *comparison }

func NewLe(elements Operator) (*Le, error) {
	c, err := newComparison("le", elements, func(a, b any) (bool, error) {
		an, bn, err := numericPair(a, b)
		if err != nil {
			return false, err
		}
		return an <= bn, nil
	})
	if err != nil {
		return nil, err
	}
	return &Le{c}, nil
}

// Gt is numeric greater-than.
type Gt struct{ *comparison }

func NewGt(elements Operator) (*Gt, error) {
	c, err := newComparison("gt", elements, func(a, b any) (bool, error) {
		an, bn, err := numericPair(a, b)
		if err != nil {
			return false, err
		}
		return an > bn, nil
	})
	if err != nil {
		return nil, err
	}
	return &Gt{c}, nil
}

// Ge is numeric greater-than-or-equal.
type Ge struct{ *comparison }

func NewGe(elements Operator) (*Ge, error) {
	c, err := newComparison("ge", elements, func(a, b any) (bool, error) {
		an, bn, err := numericPair(a, b)
		if err != nil {
			return false, err
		}
		return an >= bn, nil
	})
	if err != nil {
		return nil, err
	}
	return &Ge{c}, nil
}
