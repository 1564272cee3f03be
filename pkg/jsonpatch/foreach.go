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

package jsonpatch

import (
	"fmt"

	"github.com/admission-rules/generic-k8s-webhook/pkg/operator"
	"github.com/admission-rules/generic-k8s-webhook/pkg/path"
)

// ForEachPatch repeats Body once per element referenced by Elements,
// which must be an operator.WithRef. For every (element,
// elementPointer) pair it evaluates Body with the context stack
// extended by that element and a path prefix extended by
// elementPointer, so that nested loops accumulate a single JSON
// Pointer down to the leaf.
type ForEachPatch struct {
	Elements operator.WithRef
	Body     []Operator
}

func NewForEachPatch(elements operator.Operator, body []Operator) (*ForEachPatch, error) {
	ref, ok := elements.(operator.WithRef)
	if !ok {
		return nil, fmt.Errorf("forEach patch: elements must be a getValue reference, got %T", elements)
	}
	return &ForEachPatch{Elements: ref, Body: body}, nil
}

func (f *ForEachPatch) GeneratePatch(ctx *operator.Contexts, prefix path.Path) ([]RawOp, error) {
	refs, err := f.Elements.IterRefs(ctx)
	if err != nil {
		return nil, err
	}
	var ops []RawOp
	for _, ref := range refs {
		inner := ctx.Push(ref.Value)
		elemPrefix := make(path.Path, 0, len(prefix)+len(ref.Pointer))
		elemPrefix = append(elemPrefix, prefix...)
		for _, tok := range ref.Pointer {
			elemPrefix = append(elemPrefix, path.Segment(tok))
		}
		for _, body := range f.Body {
			delta, err := body.GeneratePatch(inner, elemPrefix)
			if err != nil {
				return nil, err
			}
			ops = append(ops, delta...)
		}
	}
	return ops, nil
}

var _ Operator = (*ForEachPatch)(nil)
