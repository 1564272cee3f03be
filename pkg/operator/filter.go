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

// Filter shares ForEach's iteration discipline but keeps elements for
// which Op evaluates truthy; Op must be boolean-returning.
type Filter struct {
	Elements Operator
	Op       Operator
}

func NewFilter(elements, op Operator) (*Filter, error) {
	if !IsSubtype(op.ReturnType(), Bool()) {
		return nil, fmt.Errorf("filter: predicate must return bool, got %s", op.ReturnType())
	}
	return &Filter{Elements: elements, Op: op}, nil
}

func (f *Filter) InputType() Type  { return Any() }
func (f *Filter) ReturnType() Type { return f.Elements.ReturnType() }

func (f *Filter) Eval(ctx *Contexts) (any, error) {
	v, err := f.Elements.Eval(ctx)
	if err != nil {
		return nil, err
	}
	elems, err := AsList(v)
	if err != nil {
		return nil, err
	}
	if elems == nil {
		return []any{}, nil
	}
	out := make([]any, 0, len(elems))
	for _, e := range elems {
		inner := ctx.Push(e)
		r, err := f.Op.Eval(inner)
		if err != nil {
			return nil, err
		}
		keep, err := CoerceBool(r)
		if err != nil {
			return nil, fmt.Errorf("filter: %w", err)
		}
		if keep {
			out = append(out, e)
		}
	}
	return out, nil
}
