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

// ForEach (alias Map in v1beta1) evaluates Elements; if null, returns
// an empty list. Otherwise, for each element it pushes the element
// onto the context stack, evaluates Op, pops, and collects the
// results. The result's element type is Op.ReturnType().
type ForEach struct {
	Elements Operator
	Op       Operator
}

func NewForEach(elements, op Operator) *ForEach {
	return &ForEach{Elements: elements, Op: op}
}

func (f *ForEach) InputType() Type  { return Any() }
func (f *ForEach) ReturnType() Type { return ListOf(f.Op.ReturnType()) }

func (f *ForEach) Eval(ctx *Contexts) (any, error) {
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
		out = append(out, r)
	}
	return out, nil
}
