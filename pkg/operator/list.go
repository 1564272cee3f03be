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

// List evaluates each child in order with the current stack and
// returns the resulting sequence. Its element type collapses to
// Dynamic when children disagree: a heterogeneous list return type is
// a design smell better handled by dynamic typing than by a union
// type.
type List struct {
	Children []Operator
	elemType Type
}

func NewList(children []Operator) *List {
	elem := Dynamic()
	if len(children) > 0 {
		elem = children[0].ReturnType()
		for _, c := range children[1:] {
			if c.ReturnType().Kind != elem.Kind {
				elem = Dynamic()
				break
			}
		}
	}
	return &List{Children: children, elemType: elem}
}

func (l *List) InputType() Type  { return Any() }
func (l *List) ReturnType() Type { return ListOf(l.elemType) }

func (l *List) Eval(ctx *Contexts) (any, error) {
	out := make([]any, 0, len(l.Children))
	for _, c := range l.Children {
		v, err := c.Eval(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
