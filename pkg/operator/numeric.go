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

var numberListInput = ListOf(Number())

// numericReducer is the common shape of Sum/Sub/Mul/Div: a left-to-right
// reduction over a list of numbers, empty -> 0, single element coerced.
type numericReducer struct {
	name     string
	elements Operator
	identity float64
	combine  func(acc, v float64) (float64, error)
}

func newNumericReducer(name string, elements Operator, combine func(acc, v float64) (float64, error)) (*numericReducer, error) {
	if err := CheckListInput(name, numberListInput, elements.ReturnType()); err != nil {
		return nil, err
	}
	return &numericReducer{name: name, elements: elements, identity: 0, combine: combine}, nil
}

func (r *numericReducer) InputType() Type  { return numberListInput }
func (r *numericReducer) ReturnType() Type { return Number() }

func (r *numericReducer) Eval(ctx *Contexts) (any, error) {
	vs, err := evalList(r.elements, ctx)
	if err != nil {
		return nil, err
	}
	if len(vs) == 0 {
		return r.identity, nil
	}
	if len(vs) == 1 {
		return CoerceNumber(vs[0])
	}
	acc, err := CoerceNumber(vs[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.name, err)
	}
	for _, v := range vs[1:] {
		n, err := CoerceNumber(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.name, err)
		}
		acc, err = r.combine(acc, n)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.name, err)
		}
	}
	return acc, nil
}

// Sum left-to-right reduces elements with addition.
type Sum struct{ *numericReducer }

func NewSum(elements Operator) (*Sum, error) {
	r, err := newNumericReducer("sum", elements, func(acc, v float64) (float64, error) { return acc + v, nil })
	if err != nil {
		return nil, err
	}
	return &Sum{r}, nil
}

// Sub left-to-right reduces elements with subtraction.
type Sub struct{ *numericReducer }

func NewSub(elements Operator) (*Sub, error) {
	r, err := newNumericReducer("sub", elements, func(acc, v float64) (float64, error) { return acc - v, nil })
	if err != nil {
		return nil, err
	}
	return &Sub{r}, nil
}

// Mul left-to-right reduces elements with multiplication.
type Mul struct{ *numericReducer }

func NewMul(elements Operator) (*Mul, error) {
	r, err := newNumericReducer("mul", elements, func(acc, v float64) (float64, error) { return acc * v, nil })
	if err != nil {
		return nil, err
	}
	return &Mul{r}, nil
}

// Div left-to-right reduces elements with division.
type Div struct{ *numericReducer }

func NewDiv(elements Operator) (*Div, error) {
	r, err := newNumericReducer("div", elements, func(acc, v float64) (float64, error) {
		if v == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return acc / v, nil
	})
	if err != nil {
		return nil, err
	}
	return &Div{r}, nil
}
