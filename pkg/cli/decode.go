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

package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"sigs.k8s.io/yaml"

	"github.com/admission-rules/generic-k8s-webhook/pkg/jsonpatch"
)

// decodeObject decodes a Kubernetes object manifest the same way
// pkg/config decodes a rule-set manifest: sigs.k8s.io/yaml accepts both
// plain JSON and YAML and normalizes to JSON number/string semantics.
func decodeObject(data []byte) (any, error) {
	var obj any
	if err := yaml.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// printPatch writes ops as an indented JSON array, the form a human
// running the cli subcommand would paste into `kubectl patch`.
func printPatch(w io.Writer, ops []jsonpatch.RawOp) error {
	raw, err := json.MarshalIndent(ops, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}
