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

// Replace emits a "replace" op.
type Replace struct {
	Path  path.Path
	Value any
}

func NewReplace(p path.Path, value any) *Replace {
	return &Replace{Path: p, Value: value}
}

func (r *Replace) GeneratePatch(_ *operator.Contexts, prefix path.Path) ([]RawOp, error) {
	return []RawOp{{Op: "replace", Path: path.Format(r.Path, prefix), Value: r.Value}}, nil
}

var _ Operator = (*Replace)(nil)
