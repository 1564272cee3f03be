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

// Remove emits a "remove" op unconditionally, with no existence check.
// The original source carries a TODO to make this a no-op when the
// path is missing; this implementation keeps the current behavior
// (emit the op unchanged) rather than guessing at the unwritten
// follow-up.
type Remove struct {
	Path path.Path
}

func NewRemove(p path.Path) *Remove {
	return &Remove{Path: p}
}

func (r *Remove) GeneratePatch(_ *operator.Contexts, prefix path.Path) ([]RawOp, error) {
	return []RawOp{{Op: "remove", Path: path.Format(r.Path, prefix)}}, nil
}

var _ Operator = (*Remove)(nil)
