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
	"encoding/json"
	"fmt"

	jsonpatchv4 "gopkg.in/evanphx/json-patch.v4"
)

// Apply round-trips doc through encoding/json, applies ops with
// evanphx/json-patch, and decodes the result back to the same any-typed
// document shape GetValue and the patch operators expect. The
// evaluator calls this once per action whose patch built successfully,
// so that a later action's GetValue references see the cumulative
// effect of earlier ones.
func Apply(doc any, ops []RawOp) (any, error) {
	if len(ops) == 0 {
		return doc, nil
	}
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("jsonpatch: marshal document: %w", err)
	}
	patchJSON, err := json.Marshal(ops)
	if err != nil {
		return nil, fmt.Errorf("jsonpatch: marshal patch: %w", err)
	}
	patch, err := jsonpatchv4.DecodePatch(patchJSON)
	if err != nil {
		return nil, fmt.Errorf("jsonpatch: decode patch: %w", err)
	}
	patched, err := patch.Apply(docJSON)
	if err != nil {
		return nil, fmt.Errorf("jsonpatch: apply patch: %w", err)
	}
	var out any
	if err := json.Unmarshal(patched, &out); err != nil {
		return nil, fmt.Errorf("jsonpatch: unmarshal patched document: %w", err)
	}
	return out, nil
}
