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

import "strings"

var stringListInput = ListOf(String())

// StrConcat concatenates a list of strings. A single element is
// coerced to string.
type StrConcat struct {
	Elements Operator
}

func NewStrConcat(elements Operator) (*StrConcat, error) {
	if err := CheckListInput("strconcat", stringListInput, elements.ReturnType()); err != nil {
		return nil, err
	}
	return &StrConcat{Elements: elements}, nil
}

func (s *StrConcat) InputType() Type  { return stringListInput }
func (s *StrConcat) ReturnType() Type { return String() }

func (s *StrConcat) Eval(ctx *Contexts) (any, error) {
	vs, err := evalList(s.Elements, ctx)
	if err != nil {
		return nil, err
	}
	if len(vs) == 1 {
		return CoerceString(vs[0])
	}
	var b strings.Builder
	for _, v := range vs {
		str, err := CoerceString(v)
		if err != nil {
			return nil, err
		}
		b.WriteString(str)
	}
	return b.String(), nil
}
