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
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"k8s.io/klog/v2"

	"github.com/admission-rules/generic-k8s-webhook/pkg/config"
	"github.com/admission-rules/generic-k8s-webhook/pkg/evaluator"
)

// ManifestSource is the read side of pkg/reload.Loader: the only thing
// Server needs from the config cell is the currently published
// Manifest. Depending on this narrow interface instead of *reload.Loader
// directly keeps the package testable with a stub.
type ManifestSource interface {
	Current() *config.Manifest
}

// Server is the admission webhook HTTP front end: a health check, one
// dispatch path per configured webhook (or chain of webhooks sharing a
// path), and a Prometheus metrics endpoint. It wraps net/http's
// ServeMux -- this surface is a handful of static, multiplexed paths,
// which ServeMux handles without pulling in a router dependency.
type Server struct {
	manifests ManifestSource
	mux       *http.ServeMux
}

// New builds a Server reading webhook configuration from manifests. It
// registers its own Prometheus collectors with reg and serves them
// back under /metrics -- callers construct a fresh *prometheus.Registry
// per Server (tests) or share one process-wide registry (production).
func New(manifests ManifestSource, reg *prometheus.Registry) *Server {
	registerMetrics(reg)

	s := &Server{
		manifests: manifests,
		mux:       http.NewServeMux(),
	}
	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	s.mux.HandleFunc("/", s.handleWebhook)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("I'm alive"))
}

// handleWebhook dispatches by URL path: every Webhook in the current
// Manifest whose Path matches the request URL is run in declaration
// order via evaluator.ProcessChain, AND-ing accept and short-circuiting
// on the first deny. An unmatched path is a client configuration error,
// not a server error -- it answers 400 rather than 404 to signal a
// request that was routed here by mistake.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	path := r.URL.Path

	webhooks := webhooksForPath(s.manifests.Current(), path)
	if len(webhooks) == 0 {
		observe(path, outcomeError, start)
		http.Error(w, fmt.Sprintf("no webhook registered for path %q", path), http.StatusBadRequest)
		return
	}

	var review admissionReview
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil {
		observe(path, outcomeError, start)
		http.Error(w, fmt.Sprintf("decode AdmissionReview: %v", err), http.StatusBadRequest)
		return
	}
	if review.Request == nil {
		observe(path, outcomeError, start)
		http.Error(w, "AdmissionReview missing request", http.StatusBadRequest)
		return
	}

	uid := review.Request.UID
	if uid == "" {
		uid = uuid.NewString()
	}

	var obj any
	if err := json.Unmarshal(review.Request.Object, &obj); err != nil {
		observe(path, outcomeError, start)
		http.Error(w, fmt.Sprintf("decode request.object: %v", err), http.StatusBadRequest)
		return
	}

	accept, ops, err := evaluator.ProcessChain(webhooks, obj)
	if err != nil {
		observe(path, outcomeError, start)
		klog.ErrorS(err, "evaluate webhook chain", "path", path, "uid", uid)
		http.Error(w, fmt.Sprintf("evaluate webhooks: %v", err), http.StatusInternalServerError)
		return
	}

	resp := &admissionResp{UID: uid, Allowed: accept}
	if accept && len(ops) > 0 {
		raw, err := json.Marshal(ops)
		if err != nil {
			observe(path, outcomeError, start)
			http.Error(w, fmt.Sprintf("marshal patch: %v", err), http.StatusInternalServerError)
			return
		}
		resp.PatchType = "JSONPatch"
		resp.Patch = base64.StdEncoding.EncodeToString(raw)
	}

	outcome := outcomeAllow
	if !accept {
		outcome = outcomeDeny
	}
	observe(path, outcome, start)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(admissionReview{
		APIVersion: admissionAPIVersion,
		Kind:       admissionKind,
		Response:   resp,
	})
}

// webhooksForPath returns every Webhook in m registered under path, in
// manifest order -- the chaining set evaluator.ProcessChain runs.
func webhooksForPath(m *config.Manifest, path string) []config.Webhook {
	var matched []config.Webhook
	for _, wh := range m.Webhooks {
		if wh.Path == path {
			matched = append(matched, wh)
		}
	}
	return matched
}
