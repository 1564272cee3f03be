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

import (
	"fmt"

	"github.com/admission-rules/generic-k8s-webhook/pkg/path"
)

// GetValue resolves a dotted Path against contexts[ContextId]. It is
// the only operator that carries the WithRef capability.
type GetValue struct {
	Path      path.Path
	ContextId int
}

// NewGetValue constructs a GetValue, validating that ContextId is one
// of the two legal values up front so a bad manifest is rejected at
// compile time rather than surfacing as a confusing runtime error.
func NewGetValue(p path.Path, contextId int) (*GetValue, error) {
	if contextId != 0 && contextId != -1 {
		return nil, fmt.Errorf("getValue: contextId must be 0 or -1, got %d", contextId)
	}
	if len(p) == 0 {
		return nil, fmt.Errorf("getValue: path must not be empty")
	}
	return &GetValue{Path: p, ContextId: contextId}, nil
}

func (g *GetValue) InputType() Type  { return Any() }
func (g *GetValue) ReturnType() Type { return Dynamic() }

func (g *GetValue) Eval(ctx *Contexts) (any, error) {
	root, err := ctx.At(g.ContextId)
	if err != nil {
		return nil, err
	}
	v, _, err := walk(root, g.Path.Root())
	return v, err
}

// IterRefs implements WithRef: it walks the same path as Eval but
// additionally records, for every segment consumed, the JSON Pointer
// tokens that located the final value. A reference ending on a list
// enumerates each element (ForEachPatch's typical use); a reference
// ending on a scalar or map yields that single value.
func (g *GetValue) IterRefs(ctx *Contexts) ([]RefElem, error) {
	root, err := ctx.At(g.ContextId)
	if err != nil {
		return nil, err
	}
	v, tokens, err := walk(root, g.Path.Root())
	if err != nil {
		return nil, err
	}
	if list, ok := v.([]any); ok {
		refs := make([]RefElem, 0, len(list))
		for i, elem := range list {
			ptr := append(append([]string{}, tokens...), fmt.Sprintf("%d", i))
			refs = append(refs, RefElem{Value: elem, Pointer: ptr})
		}
		return refs, nil
	}
	return []RefElem{{Value: v, Pointer: tokens}}, nil
}

// walk resolves segments against doc, returning the addressed value
// together with the pointer tokens consumed to reach it. On a map, a
// missing key returns (nil, tokens, nil), not an error. On a list, an
// out-of-range index likewise returns nil. Walking a path through a
// scalar with segments remaining is an evaluation error. An empty
// segment list (or encountering "*") early-terminates at the current
// node.
func walk(doc any, segments []path.Segment) (any, []string, error) {
	tokens := make([]string, 0, len(segments))
	cur := doc
	for i, seg := range segments {
		if seg == path.Relative {
			// An empty segment early-terminates and returns the
			// current node.
			return cur, tokens, nil
		}
		if seg == path.Wildcard {
			// "*" enumerates all children; leave cur as the container
			// itself for the caller (IterRefs / exprlang pipelines) to
			// expand.
			return cur, tokens, nil
		}
		switch m := cur.(type) {
		case map[string]any:
			v, ok := m[string(seg)]
			if !ok {
				return nil, tokens, nil
			}
			cur = v
			tokens = append(tokens, string(seg))
		case []any:
			idx, ok := seg.AsIndex()
			if !ok {
				return nil, tokens, fmt.Errorf("getValue: segment %q is not a valid list index", seg)
			}
			if idx < 0 || idx >= len(m) {
				return nil, tokens, nil
			}
			cur = m[idx]
			tokens = append(tokens, string(seg))
		case nil:
			return nil, tokens, nil
		default:
			return nil, tokens, fmt.Errorf("getValue: cannot walk into scalar value %v with remaining path %v", cur, segments[i:])
		}
	}
	return cur, tokens, nil
}

var _ WithRef = (*GetValue)(nil)
