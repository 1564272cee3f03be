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

package server

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admission-rules/generic-k8s-webhook/pkg/config"
)

type staticManifest struct {
	m *config.Manifest
}

func (s staticManifest) Current() *config.Manifest { return s.m }

func compileManifest(t *testing.T, yamlDoc string) *staticManifest {
	t.Helper()
	m, err := config.CompileYAML([]byte(yamlDoc))
	require.NoError(t, err)
	return &staticManifest{m: m}
}

func newTestServer(t *testing.T, yamlDoc string) *Server {
	t.Helper()
	return New(compileManifest(t, yamlDoc), prometheus.NewRegistry())
}

func postReview(t *testing.T, srv *Server, path string, object map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	objRaw, err := json.Marshal(object)
	require.NoError(t, err)
	body := admissionReview{
		APIVersion: admissionAPIVersion,
		Kind:       admissionKind,
		Request:    &admissionReq{UID: "req-1", Object: objRaw},
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(raw)))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealthz(t *testing.T) {
	srv := newTestServer(t, `
apiVersion: generic-webhook/v1alpha1
kind: GenericWebhookConfig
webhooks: []
`)
	req := httptest.NewRequest(http.MethodPost, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "I'm alive", rec.Body.String())
}

func TestHandleWebhookUnmatchedPathReturns400(t *testing.T) {
	srv := newTestServer(t, `
apiVersion: generic-webhook/v1alpha1
kind: GenericWebhookConfig
webhooks: []
`)
	rec := postReview(t, srv, "/nope", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleWebhookAllowsByDefault(t *testing.T) {
	srv := newTestServer(t, `
apiVersion: generic-webhook/v1alpha1
kind: GenericWebhookConfig
webhooks:
  - name: noop
    path: /noop
    actions: []
`)
	rec := postReview(t, srv, "/noop", map[string]any{"kind": "Pod"})
	require.Equal(t, http.StatusOK, rec.Code)

	var review admissionReview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &review))
	require.NotNil(t, review.Response)
	assert.Equal(t, "req-1", review.Response.UID)
	assert.True(t, review.Response.Allowed)
	assert.Empty(t, review.Response.Patch)
}

func TestHandleWebhookAllowsAndPatches(t *testing.T) {
	srv := newTestServer(t, `
apiVersion: generic-webhook/v1beta1
kind: GenericWebhookConfig
webhooks:
  - name: label-pod
    path: /label
    actions:
      - condition:
          equal:
            - getValue: ".kind"
            - const: "Pod"
        patch:
          - op: add
            path: .metadata.labels
            value: {"injected": "true"}
`)
	rec := postReview(t, srv, "/label", map[string]any{"kind": "Pod", "metadata": map[string]any{}})
	require.Equal(t, http.StatusOK, rec.Code)

	var review admissionReview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &review))
	require.NotNil(t, review.Response)
	assert.True(t, review.Response.Allowed)
	assert.Equal(t, "JSONPatch", review.Response.PatchType)

	patchRaw, err := base64.StdEncoding.DecodeString(review.Response.Patch)
	require.NoError(t, err)
	assert.Contains(t, string(patchRaw), "/metadata/labels")
}
