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

package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admission-rules/generic-k8s-webhook/pkg/config"
	"github.com/admission-rules/generic-k8s-webhook/pkg/operator"
)

func compile(t *testing.T, yamlDoc string) *config.Manifest {
	t.Helper()
	m, err := config.CompileYAML([]byte(yamlDoc))
	require.NoError(t, err)
	return m
}

func TestProcessDefaultAcceptanceNoActions(t *testing.T) {
	m := compile(t, `
apiVersion: generic-webhook/v1alpha1
kind: GenericWebhookConfig
webhooks:
  - name: noop
    path: /noop
    actions: []
`)
	accept, patch, err := Process(m.Webhooks[0], map[string]any{})
	require.NoError(t, err)
	assert.True(t, accept)
	assert.Empty(t, patch)
}

func TestProcessDenyOnMismatch(t *testing.T) {
	m := compile(t, `
apiVersion: generic-webhook/v1alpha1
kind: GenericWebhookConfig
webhooks:
  - name: deny-pods
    path: /deny-pods
    actions:
      - condition:
          equal:
            - getValue: ".kind"
            - const: "Pod"
        accept: false
`)
	wh := m.Webhooks[0]

	accept, patch, err := Process(wh, map[string]any{"kind": "Service"})
	require.NoError(t, err)
	assert.True(t, accept)
	assert.Empty(t, patch)

	accept, patch, err = Process(wh, map[string]any{"kind": "Pod"})
	require.NoError(t, err)
	assert.False(t, accept)
	assert.Empty(t, patch)
}

func TestProcessSequentialPatchSeesPriorOps(t *testing.T) {
	m := compile(t, `
apiVersion: generic-webhook/v1beta1
kind: GenericWebhookConfig
webhooks:
  - name: annotate-twice
    path: /annotate-twice
    actions:
      - patch:
          - op: add
            path: .metadata.annotations
            value: {}
          - op: add
            path: .metadata.annotations.a
            value: "1"
`)
	accept, patch, err := Process(m.Webhooks[0], map[string]any{"metadata": map[string]any{}})
	require.NoError(t, err)
	assert.True(t, accept)
	require.Len(t, patch, 2)
	assert.Equal(t, "/metadata/annotations", patch[0].Path)
	assert.Equal(t, "/metadata/annotations/a", patch[1].Path)
}

func TestProcessChainShortCircuitsOnDeny(t *testing.T) {
	first := config.Webhook{
		Name: "first",
		Path: "/shared",
		Actions: []config.Action{
			{Condition: operator.NewConst(true), Accept: false},
		},
	}
	second := config.Webhook{
		Name: "second",
		Path: "/shared",
		Actions: []config.Action{
			{Condition: operator.NewConst(true), Accept: true},
		},
	}
	accept, patch, err := ProcessChain([]config.Webhook{first, second}, map[string]any{})
	require.NoError(t, err)
	assert.False(t, accept)
	assert.Empty(t, patch)
}

func TestProcessChainAppliesEarlierPatchBeforeLaterCondition(t *testing.T) {
	m := compile(t, `
apiVersion: generic-webhook/v1beta1
kind: GenericWebhookConfig
webhooks:
  - name: annotate
    path: /shared
    actions:
      - patch:
          - op: add
            path: .metadata.annotations
            value: {"a": "1"}
  - name: check-annotation
    path: /shared
    actions:
      - condition: "$.metadata.annotations.a == \"1\""
`)
	accept, patch, err := ProcessChain(m.Webhooks, map[string]any{"metadata": map[string]any{}})
	require.NoError(t, err)
	assert.True(t, accept)
	require.Len(t, patch, 1)
}
