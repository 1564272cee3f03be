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

// Operator is a node of the compiled, immutable operator tree. A
// parent exclusively owns its children; there is no ownership cycle.
type Operator interface {
	// InputType is the type this operator expects from its argument
	// subtree, or Any() if it accepts anything.
	InputType() Type
	// ReturnType is the type this node yields, or Dynamic() if only
	// known at evaluation time.
	ReturnType() Type
	// Eval produces a value given a context stack.
	Eval(ctx *Contexts) (any, error)
}

// WithRef is a capability tag carried only by GetValue: in addition to
// returning a value, it can enumerate the (element, pointer-prefix)
// pairs addressing each location the reference spans. Used by
// ForEachPatch.
type WithRef interface {
	Operator
	// IterRefs returns each addressed element together with the JSON
	// Pointer segments (relative to the resolved context) that locate
	// it.
	IterRefs(ctx *Contexts) ([]RefElem, error)
}

// RefElem is one (element, pointer) pair yielded by a WithRef operator.
type RefElem struct {
	Value   any
	Pointer []string
}

// Contexts is the context stack: an ordered sequence of JSON
// documents. Index 0 is outermost (the original
// admission object); index -1 is innermost (most recently pushed,
// e.g. by ForEach). It is passed by reference; children may extend it
// (Push) but must never mutate an outer frame's value.
type Contexts struct {
	frames []any
}

// NewContexts seeds a context stack with the single outermost document.
func NewContexts(root any) *Contexts {
	return &Contexts{frames: []any{root}}
}

// Push returns a new stack with v as the innermost frame. The
// receiver's frames are not mutated, so the caller's stack remains
// valid for sibling evaluations after the pushed one returns.
func (c *Contexts) Push(v any) *Contexts {
	next := make([]any, len(c.frames), len(c.frames)+1)
	copy(next, c.frames)
	return &Contexts{frames: append(next, v)}
}

// At resolves a contextId as used by GetValue: 0 selects the outermost
// frame, -1 selects the innermost. Any other value is an evaluation
// error.
func (c *Contexts) At(contextId int) (any, error) {
	switch contextId {
	case 0:
		return c.frames[0], nil
	case -1:
		return c.frames[len(c.frames)-1], nil
	default:
		return nil, fmt.Errorf("getValue: invalid context index %d, must be 0 or -1", contextId)
	}
}

// Outer is shorthand for At(0).
func (c *Contexts) Outer() any { return c.frames[0] }

// Inner is shorthand for At(-1).
func (c *Contexts) Inner() any { return c.frames[len(c.frames)-1] }
