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
	"fmt"

	"github.com/admission-rules/generic-k8s-webhook/pkg/operator"
	"github.com/admission-rules/generic-k8s-webhook/pkg/path"
)

// Expr evaluates Op against the current context stack, then delegates
// to Add with the resolved literal value. It is only available in the
// v1beta1 dialect.
type Expr struct {
	Path path.Path
	Op   operator.Operator
}

func NewExpr(p path.Path, op operator.Operator) *Expr {
	return &Expr{Path: p, Op: op}
}

func (e *Expr) GeneratePatch(ctx *operator.Contexts, prefix path.Path) ([]RawOp, error) {
	value, err := e.Op.Eval(ctx)
	if err != nil {
		return nil, fmt.Errorf("expr: %w", err)
	}
	return addOp(ctx, prefix, e.Path, value)
}

var _ Operator = (*Expr)(nil)
