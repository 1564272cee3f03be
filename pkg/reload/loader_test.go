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

package reload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifestV1 = `
apiVersion: generic-webhook/v1alpha1
kind: GenericWebhookConfig
webhooks:
  - name: noop
    path: /noop
    actions: []
`

const manifestV2 = `
apiVersion: generic-webhook/v1alpha1
kind: GenericWebhookConfig
webhooks:
  - name: noop
    path: /noop
    actions: []
  - name: second
    path: /second
    actions: []
`

func TestLoaderInitialLoadAndReload(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(manifestV1), 0o644))

	loader, err := NewLoader(cfgPath)
	require.NoError(t, err)
	assert.Len(t, loader.Current().Webhooks, 1)

	require.NoError(t, os.WriteFile(cfgPath, []byte(manifestV2), 0o644))
	require.NoError(t, loader.reload())
	assert.Len(t, loader.Current().Webhooks, 2)
}

func TestLoaderReloadErrorRetainsPreviousManifest(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(manifestV1), 0o644))

	loader, err := NewLoader(cfgPath)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(cfgPath, []byte("not: [valid"), 0o644))
	err = loader.reload()
	require.Error(t, err)
	assert.Len(t, loader.Current().Webhooks, 1)
}

func TestNewLoaderFailsOnMissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
