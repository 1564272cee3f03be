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

// Package config compiles the YAML rule-set manifest into an
// immutable Manifest of operator and JSON-Patch trees.
package config

import (
	"github.com/admission-rules/generic-k8s-webhook/pkg/jsonpatch"
	"github.com/admission-rules/generic-k8s-webhook/pkg/operator"
)

// ExpectedAPIGroup and ExpectedKind are the only values accepted for a
// manifest's apiVersion group and kind.
const (
	ExpectedAPIGroup = "generic-webhook"
	ExpectedKind     = "GenericWebhookConfig"
)

// Manifest is a compiled rule set: an ordered list of Webhook, each
// multiplexed by URL path by the HTTP front end.
type Manifest struct {
	APIGroup   string
	APIVersion string
	Kind       string
	Webhooks   []Webhook
}

// Webhook is one logical webhook: a name, the URL path it answers, and
// an ordered list of Action evaluated in turn by pkg/evaluator.
type Webhook struct {
	Name    string
	Path    string
	Actions []Action
}

// Action is a (condition, patch, accept) triple. It is always built by
// parseAction, which fills in the defaults (condition = const(true),
// patch = empty, accept = true) for any omitted field before returning
// one.
type Action struct {
	Condition operator.Operator
	Patch     []jsonpatch.Operator
	Accept    bool
}
