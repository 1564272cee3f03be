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

package config

import (
	"fmt"

	"github.com/admission-rules/generic-k8s-webhook/pkg/jsonpatch"
)

// patchParserFunc parses the remaining fields of one patch-list entry
// (after its "op" key has been consumed) into a jsonpatch.Operator.
type patchParserFunc func(d *dialect, raw map[string]any, loc string) (jsonpatch.Operator, error)

// parsePatch parses the "patch" list of a v1alpha1/v1beta1 Action,
// or the body of a ForEachPatch.
func (d *dialect) parsePatch(raw []any, loc string) ([]jsonpatch.Operator, error) {
	ops := make([]jsonpatch.Operator, 0, len(raw))
	for i, elem := range raw {
		entryLoc := fmt.Sprintf("%s.%d", loc, i)
		m, err := asDict(elem, entryLoc)
		if err != nil {
			return nil, err
		}
		m = cloneDict(m)
		opName, err := mustPopString(m, "op", entryLoc)
		if err != nil {
			return nil, err
		}
		fn, ok := d.patchOps[opName]
		if !ok {
			return nil, fmt.Errorf("config: %s: unsupported patch operation %q", entryLoc, opName)
		}
		op, err := fn(d, m, entryLoc)
		if err != nil {
			return nil, err
		}
		if err := requireEmpty(m, entryLoc); err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func parseAddPatch(_ *dialect, raw map[string]any, loc string) (jsonpatch.Operator, error) {
	p, err := mustPopPath(raw, "path", loc)
	if err != nil {
		return nil, err
	}
	value, err := mustPop(raw, "value", loc)
	if err != nil {
		return nil, err
	}
	return jsonpatch.NewAdd(p, value), nil
}

func parseRemovePatch(_ *dialect, raw map[string]any, loc string) (jsonpatch.Operator, error) {
	p, err := mustPopPath(raw, "path", loc)
	if err != nil {
		return nil, err
	}
	return jsonpatch.NewRemove(p), nil
}

func parseReplacePatch(_ *dialect, raw map[string]any, loc string) (jsonpatch.Operator, error) {
	p, err := mustPopPath(raw, "path", loc)
	if err != nil {
		return nil, err
	}
	value, err := mustPop(raw, "value", loc)
	if err != nil {
		return nil, err
	}
	return jsonpatch.NewReplace(p, value), nil
}

func parseCopyPatch(_ *dialect, raw map[string]any, loc string) (jsonpatch.Operator, error) {
	p, err := mustPopPath(raw, "path", loc)
	if err != nil {
		return nil, err
	}
	from, err := mustPopPath(raw, "from", loc)
	if err != nil {
		return nil, err
	}
	return jsonpatch.NewCopy(p, from), nil
}

func parseMovePatch(_ *dialect, raw map[string]any, loc string) (jsonpatch.Operator, error) {
	p, err := mustPopPath(raw, "path", loc)
	if err != nil {
		return nil, err
	}
	from, err := mustPopPath(raw, "from", loc)
	if err != nil {
		return nil, err
	}
	return jsonpatch.NewMove(p, from), nil
}

func parseTestPatch(_ *dialect, raw map[string]any, loc string) (jsonpatch.Operator, error) {
	p, err := mustPopPath(raw, "path", loc)
	if err != nil {
		return nil, err
	}
	value, err := mustPop(raw, "value", loc)
	if err != nil {
		return nil, err
	}
	return jsonpatch.NewPatchTest(p, value), nil
}

// parseExprPatch is v1beta1-only: "value" names an operator spec that
// is evaluated at request time rather than a literal.
func parseExprPatch(d *dialect, raw map[string]any, loc string) (jsonpatch.Operator, error) {
	p, err := mustPopPath(raw, "path", loc)
	if err != nil {
		return nil, err
	}
	rawValue, err := mustPop(raw, "value", loc)
	if err != nil {
		return nil, err
	}
	op, err := d.parseOperator(rawValue, loc+".value")
	if err != nil {
		return nil, err
	}
	return jsonpatch.NewExpr(p, op), nil
}

// parseForEachPatch is v1beta1-only: "elements" must be a reference
// (operator.WithRef) and "patch" repeats once per addressed element.
func parseForEachPatch(d *dialect, raw map[string]any, loc string) (jsonpatch.Operator, error) {
	rawElements, err := mustPop(raw, "elements", loc)
	if err != nil {
		return nil, err
	}
	elements, err := d.parseOperator(rawElements, loc+".elements")
	if err != nil {
		return nil, err
	}
	rawPatch, ok := raw["patch"]
	if !ok {
		return nil, fmt.Errorf("config: %s: missing required key \"patch\"", loc)
	}
	delete(raw, "patch")
	patchList, ok := rawPatch.([]any)
	if !ok {
		return nil, fmt.Errorf("config: %s.patch: expected a list, got %T", loc, rawPatch)
	}
	body, err := d.parsePatch(patchList, loc+".patch")
	if err != nil {
		return nil, err
	}
	return jsonpatch.NewForEachPatch(elements, body)
}

// v1alpha1PatchOps is the JSON-Patch operator set defined for
// apiVersion generic-webhook/v1alpha1: the plain RFC 6902 ops.
func v1alpha1PatchOps() map[string]patchParserFunc {
	return map[string]patchParserFunc{
		"add":     parseAddPatch,
		"remove":  parseRemovePatch,
		"replace": parseReplacePatch,
		"copy":    parseCopyPatch,
		"move":    parseMovePatch,
		"test":    parseTestPatch,
	}
}

// v1beta1PatchOps adds "expr" and "forEach" to the v1alpha1 set.
func v1beta1PatchOps() map[string]patchParserFunc {
	ops := v1alpha1PatchOps()
	ops["expr"] = parseExprPatch
	ops["forEach"] = parseForEachPatch
	return ops
}
