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

// Copy emits a "copy" op; both Path and From are formatted via the
// prefix rule independently, since either may be absolute.
type Copy struct {
	Path path.Path
	From path.Path
}

func NewCopy(p, from path.Path) *Copy {
	return &Copy{Path: p, From: from}
}

func (c *Copy) GeneratePatch(_ *operator.Contexts, prefix path.Path) ([]RawOp, error) {
	return []RawOp{{Op: "copy", Path: path.Format(c.Path, prefix), From: path.Format(c.From, prefix)}}, nil
}

var _ Operator = (*Copy)(nil)

// Move emits a "move" op.
type Move struct {
	Path path.Path
	From path.Path
}

func NewMove(p, from path.Path) *Move {
	return &Move{Path: p, From: from}
}

func (m *Move) GeneratePatch(_ *operator.Contexts, prefix path.Path) ([]RawOp, error) {
	return []RawOp{{Op: "move", Path: path.Format(m.Path, prefix), From: path.Format(m.From, prefix)}}, nil
}

var _ Operator = (*Move)(nil)
