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

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testManifest = `
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
`

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestRunAcceptsNonMatchingObject(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTemp(t, dir, "config.yaml", testManifest)
	objPath := writeTemp(t, dir, "object.yaml", "kind: Service\n")

	var out bytes.Buffer
	accept, err := Run(Options{
		ConfigPath:   cfgPath,
		ManifestPath: objPath,
		WebhookName:  "deny-pods",
		Stdout:       &out,
	})
	require.NoError(t, err)
	assert.True(t, accept)
	assert.Contains(t, out.String(), "ACCEPT")
}

func TestRunDeniesMatchingObject(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTemp(t, dir, "config.yaml", testManifest)
	objPath := writeTemp(t, dir, "object.yaml", "kind: Pod\n")

	var out bytes.Buffer
	accept, err := Run(Options{
		ConfigPath:   cfgPath,
		ManifestPath: objPath,
		WebhookName:  "deny-pods",
		Stdout:       &out,
	})
	require.NoError(t, err)
	assert.False(t, accept)
	assert.Contains(t, out.String(), "DENY")
}

func TestRunUnknownWebhookNameErrors(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTemp(t, dir, "config.yaml", testManifest)
	objPath := writeTemp(t, dir, "object.yaml", "kind: Pod\n")

	var out bytes.Buffer
	_, err := Run(Options{
		ConfigPath:   cfgPath,
		ManifestPath: objPath,
		WebhookName:  "does-not-exist",
		Stdout:       &out,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no webhook named")
}

func TestRunShowPatchPrintsGeneratedOps(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTemp(t, dir, "config.yaml", `
apiVersion: generic-webhook/v1alpha1
kind: GenericWebhookConfig
webhooks:
  - name: add-label
    path: /add-label
    actions:
      - patch:
          - op: add
            path: .metadata.labels
            value: {"injected": "true"}
`)
	objPath := writeTemp(t, dir, "object.yaml", "metadata: {}\n")

	var out bytes.Buffer
	accept, err := Run(Options{
		ConfigPath:   cfgPath,
		ManifestPath: objPath,
		WebhookName:  "add-label",
		ShowPatch:    true,
		Stdout:       &out,
	})
	require.NoError(t, err)
	assert.True(t, accept)
	assert.Contains(t, out.String(), "/metadata/labels")
}
