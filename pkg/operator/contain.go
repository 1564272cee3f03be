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

// Contain evaluates Value, then iterates Elements, returning true on
// the first deep-equality match, else false. Value and Elements are
// both evaluated under the current stack without pushing a frame.
type Contain struct {
	Elements Operator
	Value    Operator
}

func NewContain(elements, value Operator) *Contain {
	return &Contain{Elements: elements, Value: value}
}

func (c *Contain) InputType() Type  { return Any() }
func (c *Contain) ReturnType() Type { return Bool() }

func (c *Contain) Eval(ctx *Contexts) (any, error) {
	val, err := c.Value.Eval(ctx)
	if err != nil {
		return nil, err
	}
	v, err := c.Elements.Eval(ctx)
	if err != nil {
		return nil, err
	}
	elems, err := AsList(v)
	if err != nil {
		return nil, err
	}
	for _, e := range elems {
		if DeepEqual(e, val) {
			return true, nil
		}
	}
	return false, nil
}
