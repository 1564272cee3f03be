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

	"github.com/admission-rules/generic-k8s-webhook/pkg/path"
)

// mustPop removes key from raw and returns its value, erroring (and
// naming loc in the message) if the key is absent. This mirrors the
// original source's utils.must_pop: every parser consumes the keys it
// recognizes so that, at the end, any keys still left in raw are an
// over-specification error ("operator present with extra ... sub-keys").
func mustPop(raw map[string]any, key, loc string) (any, error) {
	v, ok := raw[key]
	if !ok {
		return nil, fmt.Errorf("config: %s: missing required key %q", loc, key)
	}
	delete(raw, key)
	return v, nil
}

// mustPopString is mustPop plus a string type assertion.
func mustPopString(raw map[string]any, key, loc string) (string, error) {
	v, err := mustPop(raw, key, loc)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("config: %s: key %q must be a string, got %T", loc, key, v)
	}
	return s, nil
}

// mustPopPath pops key as a dotted-path string and parses it: patch
// path/from fields use the same dotted-path notation as a reference.
func mustPopPath(raw map[string]any, key, loc string) (path.Path, error) {
	s, err := mustPopString(raw, key, loc)
	if err != nil {
		return nil, err
	}
	p, err := path.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", loc, err)
	}
	return p, nil
}

// asDict asserts raw is a map, erroring with loc on mismatch.
func asDict(raw any, loc string) (map[string]any, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("config: %s: expected a mapping, got %T", loc, raw)
	}
	return m, nil
}

// cloneDict makes a shallow copy of m so that repeated mustPop calls
// against it don't mutate the caller's raw manifest -- needed because
// the same sub-map may be walked more than once while producing error
// context.
func cloneDict(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// requireEmpty errors if raw still has keys left after every expected
// one has been popped off.
func requireEmpty(raw map[string]any, loc string) error {
	if len(raw) == 0 {
		return nil
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	return fmt.Errorf("config: %s: unexpected keys %v", loc, keys)
}

// contextIDForPath applies GetValue's contextId convention to a
// parsed reference path: an absolute ("$...") path
// addresses context 0 (the outermost document); a relative ("....")
// path addresses context -1 (the innermost).
func contextIDForPath(p path.Path) int {
	if p.IsAbsolute() {
		return 0
	}
	return -1
}
