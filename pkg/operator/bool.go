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

var boolListInput = ListOf(Bool())

// And reduces a list of booleans with logical conjunction. An empty
// list is true; a single element is coerced to bool.
type And struct {
	Elements Operator
}

// NewAnd validates the list-input type rule at construction time.
func NewAnd(elements Operator) (*And, error) {
	if err := CheckListInput("and", boolListInput, elements.ReturnType()); err != nil {
		return nil, err
	}
	return &And{Elements: elements}, nil
}

func (a *And) InputType() Type  { return boolListInput }
func (a *And) ReturnType() Type { return Bool() }

func (a *And) Eval(ctx *Contexts) (any, error) {
	vs, err := evalList(a.Elements, ctx)
	if err != nil {
		return nil, err
	}
	if len(vs) == 1 {
		return CoerceBool(vs[0])
	}
	for _, v := range vs {
		b, err := CoerceBool(v)
		if err != nil {
			return nil, fmt.Errorf("and: %w", err)
		}
		if !b {
			return false, nil
		}
	}
	return true, nil
}

// Or reduces a list of booleans with logical disjunction. An empty
// list is false -- the algebraic identity of OR (one prior
// implementation returned true for an empty list; this one adopts the
// algebraically correct identity instead).
type Or struct {
	Elements Operator
}

func NewOr(elements Operator) (*Or, error) {
	if err := CheckListInput("or", boolListInput, elements.ReturnType()); err != nil {
		return nil, err
	}
	return &Or{Elements: elements}, nil
}

func (o *Or) InputType() Type  { return boolListInput }
func (o *Or) ReturnType() Type { return Bool() }

func (o *Or) Eval(ctx *Contexts) (any, error) {
	vs, err := evalList(o.Elements, ctx)
	if err != nil {
		return nil, err
	}
	if len(vs) == 1 {
		return CoerceBool(vs[0])
	}
	for _, v := range vs {
		b, err := CoerceBool(v)
		if err != nil {
			return nil, fmt.Errorf("or: %w", err)
		}
		if b {
			return true, nil
		}
	}
	return false, nil
}

// Not negates a single boolean argument.
type Not struct {
	Arg Operator
}

func NewNot(arg Operator) (*Not, error) {
	if !IsSubtype(arg.ReturnType(), Bool()) {
		return nil, fmt.Errorf("not: expected bool argument, got %s", arg.ReturnType())
	}
	return &Not{Arg: arg}, nil
}

func (n *Not) InputType() Type  { return Bool() }
func (n *Not) ReturnType() Type { return Bool() }

func (n *Not) Eval(ctx *Contexts) (any, error) {
	v, err := n.Arg.Eval(ctx)
	if err != nil {
		return nil, err
	}
	b, err := CoerceBool(v)
	if err != nil {
		return nil, fmt.Errorf("not: %w", err)
	}
	return !b, nil
}

// evalList evaluates elements (expected to return a list) against ctx
// and returns its Go slice form.
func evalList(elements Operator, ctx *Contexts) ([]any, error) {
	v, err := elements.Eval(ctx)
	if err != nil {
		return nil, err
	}
	return AsList(v)
}
