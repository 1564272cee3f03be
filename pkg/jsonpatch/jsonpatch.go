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

// Package jsonpatch implements the JSON-Patch operators: a tree of
// nodes that, given a context stack and a path prefix, yield RFC 6902
// operations.
package jsonpatch

import (
	"github.com/admission-rules/generic-k8s-webhook/pkg/operator"
	"github.com/admission-rules/generic-k8s-webhook/pkg/path"
)

// RawOp is one RFC 6902 operation, in the shape the standard library's
// encoding/json and evanphx/json-patch both understand.
type RawOp struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	From  string `json:"from,omitempty"`
	Value any    `json:"value,omitempty"`
}

// Operator is a node of the JSON-Patch operator tree. Each node can
// yield more than one RFC 6902 op -- ForEachPatch in particular emits
// one set of ops per addressed element.
type Operator interface {
	GeneratePatch(ctx *operator.Contexts, prefix path.Path) ([]RawOp, error)
}
