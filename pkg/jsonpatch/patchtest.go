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
	"github.com/admission-rules/generic-k8s-webhook/pkg/operator"
	"github.com/admission-rules/generic-k8s-webhook/pkg/path"
)

// Test emits a "test" op. Named PatchTest (not Test) to avoid colliding
// with Go's convention for _test.go files; the RFC 6902 op it emits is
// still "test".
type PatchTest struct {
	Path  path.Path
	Value any
}

func NewPatchTest(p path.Path, value any) *PatchTest {
	return &PatchTest{Path: p, Value: value}
}

func (t *PatchTest) GeneratePatch(_ *operator.Contexts, prefix path.Path) ([]RawOp, error) {
	return []RawOp{{Op: "test", Path: path.Format(t.Path, prefix), Value: t.Value}}, nil
}

var _ Operator = (*PatchTest)(nil)
