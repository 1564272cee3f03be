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

// Add walks the existing document along Path to find the first
// missing key. If none is missing, or only the last segment is, it
// emits a plain "add" at the full path. Otherwise it wraps Value in the
// nested structure needed to fill in the segments below the first
// missing key and emits a single "add" at that key, directly under the
// deepest existing location.
type Add struct {
	Path  path.Path
	Value any
}

func NewAdd(p path.Path, value any) *Add {
	return &Add{Path: p, Value: value}
}

func (a *Add) GeneratePatch(ctx *operator.Contexts, prefix path.Path) ([]RawOp, error) {
	return addOp(ctx, prefix, a.Path, a.Value)
}

// addOp is factored out so Expr can delegate to it once it has
// resolved its value expression to a literal.
func addOp(ctx *operator.Contexts, prefix path.Path, p path.Path, value any) ([]RawOp, error) {
	doc, err := documentFor(p, ctx)
	if err != nil {
		return nil, err
	}
	_, consumed := firstMissing(doc, p.Root())
	if consumed >= len(p.Root())-1 {
		return []RawOp{{Op: "add", Path: path.Format(p, prefix), Value: value}}, nil
	}
	wrapped := wrapRemaining(p.Root()[consumed+1:], value)
	target := subPath(p, p.Root()[:consumed+1])
	return []RawOp{{Op: "add", Path: path.Format(target, prefix), Value: wrapped}}, nil
}

var _ Operator = (*Add)(nil)
