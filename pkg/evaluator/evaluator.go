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

// Package evaluator implements the action evaluator: given a compiled
// Webhook and an admitted object, evaluate each Action's condition in
// order and, on the first match, build the accumulated JSON Patch by
// sequentially applying each JSON-Patch operator's output to an
// evolving copy of the object.
package evaluator

import (
	"fmt"

	"github.com/admission-rules/generic-k8s-webhook/pkg/config"
	"github.com/admission-rules/generic-k8s-webhook/pkg/jsonpatch"
	"github.com/admission-rules/generic-k8s-webhook/pkg/operator"
)

// Process is the evaluator's public entry: for the given Webhook,
// evaluate each Action's condition over obj in order; on the first true
// condition, return (action.Accept, accumulated patch). If no action
// matches, return (true, nil) -- the "default acceptance" invariant.
func Process(wh config.Webhook, obj any) (accept bool, patch []jsonpatch.RawOp, err error) {
	for i, action := range wh.Actions {
		matched, err := evalCondition(action.Condition, obj)
		if err != nil {
			return false, nil, fmt.Errorf("evaluator: webhook %q action %d: %w", wh.Name, i, err)
		}
		if !matched {
			continue
		}
		ops, err := generatePatch(action.Patch, obj)
		if err != nil {
			return false, nil, fmt.Errorf("evaluator: webhook %q action %d: %w", wh.Name, i, err)
		}
		return action.Accept, ops, nil
	}
	return true, nil, nil
}

func evalCondition(condition operator.Operator, obj any) (bool, error) {
	v, err := condition.Eval(operator.NewContexts(obj))
	if err != nil {
		return false, fmt.Errorf("condition: %w", err)
	}
	return operator.CoerceBool(v)
}

// generatePatch implements the per-action sequential-apply algorithm:
// manifest_0 = obj; for each JSON-Patch operator op_i,
// delta_i = op_i.GeneratePatch([manifest_{i-1}]); manifest_i =
// apply(delta_i, manifest_{i-1}); accum = accum ++ delta_i. Every
// operator sees the cumulative effect of every earlier one in the same
// action, so e.g. an "add" followed by a condition-bearing "expr" on
// the same action observes the add's result.
func generatePatch(ops []jsonpatch.Operator, obj any) ([]jsonpatch.RawOp, error) {
	doc := obj
	var accum []jsonpatch.RawOp
	for i, op := range ops {
		delta, err := op.GeneratePatch(operator.NewContexts(doc), nil)
		if err != nil {
			return nil, fmt.Errorf("patch op %d: %w", i, err)
		}
		doc, err = jsonpatch.Apply(doc, delta)
		if err != nil {
			return nil, fmt.Errorf("patch op %d: apply: %w", i, err)
		}
		accum = append(accum, delta...)
	}
	return accum, nil
}

// ProcessChain implements the multi-webhook chaining rule: when
// several Webhooks share a URL path, the front end applies each
// one's patch to obj before evaluating the next, AND-ing accept and
// short-circuiting on the first deny. It returns the final accept
// decision and the full concatenation of every webhook's patch ops,
// each expressed against the document state it was computed from (so
// replaying them in order against the original obj reproduces the
// same final document).
func ProcessChain(webhooks []config.Webhook, obj any) (accept bool, patch []jsonpatch.RawOp, err error) {
	doc := obj
	var accum []jsonpatch.RawOp
	for _, wh := range webhooks {
		ok, ops, err := Process(wh, doc)
		if err != nil {
			return false, nil, err
		}
		if !ok {
			return false, nil, nil
		}
		if len(ops) > 0 {
			doc, err = jsonpatch.Apply(doc, ops)
			if err != nil {
				return false, nil, fmt.Errorf("evaluator: webhook %q: apply chained patch: %w", wh.Name, err)
			}
			accum = append(accum, ops...)
		}
	}
	return true, accum, nil
}
