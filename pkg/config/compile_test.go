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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admission-rules/generic-k8s-webhook/pkg/operator"
)

func TestCompileV1Alpha1AcceptWithSum(t *testing.T) {
	manifest, err := CompileYAML([]byte(`
apiVersion: generic-webhook/v1alpha1
kind: GenericWebhookConfig
webhooks:
  - name: sum-check
    path: /sum-check
    actions:
      - condition:
          equal:
            - sum:
                - const: 2
                - const: 3
            - const: 5
`))
	require.NoError(t, err)
	require.Len(t, manifest.Webhooks, 1)
	action := manifest.Webhooks[0].Actions[0]

	v, err := action.Condition.Eval(operator.NewContexts(map[string]any{}))
	require.NoError(t, err)
	assert.Equal(t, true, v)
	assert.True(t, action.Accept)
	assert.Empty(t, action.Patch)
}

func TestCompileRejectsWrongAPIGroup(t *testing.T) {
	_, err := CompileYAML([]byte(`
apiVersion: not-generic-webhook/v1alpha1
kind: GenericWebhookConfig
webhooks: []
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apiGroup")
}

func TestCompileRejectsUnknownOperator(t *testing.T) {
	_, err := CompileYAML([]byte(`
apiVersion: generic-webhook/v1alpha1
kind: GenericWebhookConfig
webhooks:
  - name: bad
    path: /bad
    actions:
      - condition:
          nope: true
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown operator")
}

func TestCompileRejectsOverspecifiedAction(t *testing.T) {
	_, err := CompileYAML([]byte(`
apiVersion: generic-webhook/v1alpha1
kind: GenericWebhookConfig
webhooks:
  - name: bad
    path: /bad
    actions:
      - condition: { const: true }
        unexpectedField: 1
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected keys")
}

func TestCompileV1Alpha1RejectsExpressionStrings(t *testing.T) {
	_, err := CompileYAML([]byte(`
apiVersion: generic-webhook/v1alpha1
kind: GenericWebhookConfig
webhooks:
  - name: bad
    path: /bad
    actions:
      - condition: "1 == 1"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}

func TestCompileV1Beta1ExpressionString(t *testing.T) {
	manifest, err := CompileYAML([]byte(`
apiVersion: generic-webhook/v1beta1
kind: GenericWebhookConfig
webhooks:
  - name: expr-check
    path: /expr-check
    actions:
      - condition: "2*(3+4/2)-1 == 9"
`))
	require.NoError(t, err)
	action := manifest.Webhooks[0].Actions[0]
	v, err := action.Condition.Eval(operator.NewContexts(map[string]any{}))
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestCompileDenyOnConditionMatch(t *testing.T) {
	manifest, err := CompileYAML([]byte(`
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
`))
	require.NoError(t, err)
	action := manifest.Webhooks[0].Actions[0]

	v, err := action.Condition.Eval(operator.NewContexts(map[string]any{"kind": "Service"}))
	require.NoError(t, err)
	assert.Equal(t, false, v)

	v, err = action.Condition.Eval(operator.NewContexts(map[string]any{"kind": "Pod"}))
	require.NoError(t, err)
	assert.Equal(t, true, v)
	assert.False(t, action.Accept)
}

func TestCompileAddMissingPath(t *testing.T) {
	manifest, err := CompileYAML([]byte(`
apiVersion: generic-webhook/v1alpha1
kind: GenericWebhookConfig
webhooks:
  - name: add-container
    path: /add-container
    actions:
      - patch:
          - op: add
            path: .spec.containers.-
            value:
              name: main
`))
	require.NoError(t, err)
	action := manifest.Webhooks[0].Actions[0]
	require.Len(t, action.Patch, 1)

	ops, err := action.Patch[0].GeneratePatch(operator.NewContexts(map[string]any{"spec": map[string]any{}}), nil)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, "add", ops[0].Op)
}

func TestCompileV1Beta1ForEachPatch(t *testing.T) {
	manifest, err := CompileYAML([]byte(`
apiVersion: generic-webhook/v1beta1
kind: GenericWebhookConfig
webhooks:
  - name: set-cpu
    path: /set-cpu
    actions:
      - patch:
          - op: forEach
            elements: ".spec.containers"
            patch:
              - op: add
                path: .resources.requests.cpu
                value: "100m"
`))
	require.NoError(t, err)
	action := manifest.Webhooks[0].Actions[0]

	doc := map[string]any{
		"spec": map[string]any{
			"containers": []any{
				map[string]any{"name": "a"},
				map[string]any{"name": "b"},
			},
		},
	}
	ops, err := action.Patch[0].GeneratePatch(operator.NewContexts(doc), nil)
	require.NoError(t, err)
	require.Len(t, ops, 2)
	// Neither container has "resources" yet, so each add lands on that
	// first missing key with {"requests": {"cpu": "100m"}} as its value.
	assert.Equal(t, "/spec/containers/0/resources", ops[0].Path)
	assert.Equal(t, "/spec/containers/1/resources", ops[1].Path)
}

func TestCompileRejectsUnsupportedAPIVersion(t *testing.T) {
	_, err := CompileYAML([]byte(`
apiVersion: generic-webhook/v2
kind: GenericWebhookConfig
webhooks: []
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported apiVersion")
}
