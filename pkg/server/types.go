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

// Package server implements the admission webhook HTTP front end: a
// health endpoint and one handler per configured webhook path, decoding
// and replying with the admission.k8s.io/v1 AdmissionReview wire format.
package server

import "encoding/json"

// admissionReview is the subset of the admission.k8s.io/v1
// AdmissionReview wire shape this front end reads and writes. It is
// hand-rolled rather than imported from k8s.io/api/admission/v1: this
// system's configuration source is a local YAML file rather than a
// cluster (DESIGN.md), so pulling in k8s.io/api/apimachinery only for
// this one struct's JSON tags would add a large, mostly-unused
// dependency for a handful of fields.
type admissionReview struct {
	APIVersion string           `json:"apiVersion"`
	Kind       string           `json:"kind"`
	Request    *admissionReq    `json:"request,omitempty"`
	Response   *admissionResp   `json:"response,omitempty"`
}

type admissionReq struct {
	UID    string          `json:"uid"`
	Object json.RawMessage `json:"object"`
}

type admissionResp struct {
	UID       string `json:"uid"`
	Allowed   bool   `json:"allowed"`
	PatchType string `json:"patchType,omitempty"`
	Patch     string `json:"patch,omitempty"`
}

const (
	admissionAPIVersion = "admission.k8s.io/v1"
	admissionKind       = "AdmissionReview"
)
