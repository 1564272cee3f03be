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

// Package cli implements the one-shot "cli" subcommand: run a single
// named webhook against a local Kubernetes object and print the
// accept/deny decision, without standing up an HTTP server.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/admission-rules/generic-k8s-webhook/pkg/config"
	"github.com/admission-rules/generic-k8s-webhook/pkg/evaluator"
)

// Options configures one Run invocation.
type Options struct {
	ConfigPath   string // path to the rule-set manifest
	ManifestPath string // path to the Kubernetes object to evaluate
	WebhookName  string // name of the Webhook to run
	ShowPatch    bool   // print the generated JSON Patch on acceptance
	Stdout       io.Writer
}

// Run loads opts.ConfigPath and opts.ManifestPath, locates the Webhook
// named opts.WebhookName, evaluates it against the decoded object via
// pkg/evaluator.Process, and writes the decision (and, if requested,
// the JSON Patch) to opts.Stdout. The returned error already carries
// enough context to print directly; Run never calls os.Exit itself so
// that callers control process exit behavior.
func Run(opts Options) (accept bool, err error) {
	configData, err := os.ReadFile(opts.ConfigPath)
	if err != nil {
		return false, fmt.Errorf("cli: read config %s: %w", opts.ConfigPath, err)
	}
	manifest, err := config.CompileYAML(configData)
	if err != nil {
		return false, fmt.Errorf("cli: compile config %s: %w", opts.ConfigPath, err)
	}

	objectData, err := os.ReadFile(opts.ManifestPath)
	if err != nil {
		return false, fmt.Errorf("cli: read object %s: %w", opts.ManifestPath, err)
	}
	obj, err := decodeObject(objectData)
	if err != nil {
		return false, fmt.Errorf("cli: decode object %s: %w", opts.ManifestPath, err)
	}

	wh, err := findWebhook(manifest, opts.WebhookName)
	if err != nil {
		return false, err
	}

	accept, ops, err := evaluator.Process(wh, obj)
	if err != nil {
		return false, fmt.Errorf("cli: evaluate webhook %q: %w", wh.Name, err)
	}

	if accept {
		fmt.Fprintf(opts.Stdout, "webhook %q: ACCEPT\n", wh.Name)
	} else {
		fmt.Fprintf(opts.Stdout, "webhook %q: DENY\n", wh.Name)
	}
	if opts.ShowPatch && accept && len(ops) > 0 {
		if err := printPatch(opts.Stdout, ops); err != nil {
			return accept, fmt.Errorf("cli: print patch: %w", err)
		}
	}
	return accept, nil
}

func findWebhook(m *config.Manifest, name string) (config.Webhook, error) {
	for _, wh := range m.Webhooks {
		if wh.Name == name {
			return wh, nil
		}
	}
	return config.Webhook{}, fmt.Errorf("cli: no webhook named %q in manifest", name)
}
