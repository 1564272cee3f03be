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
	"fmt"
	"strings"
)

// Compile parses a raw YAML-decoded manifest into an
// immutable Manifest. raw must already be map[string]interface{}-shaped
// (e.g. via sigs.k8s.io/yaml, which decodes through JSON semantics); a
// gopkg.in/yaml.v2-style map[interface{}]interface{} is not accepted.
func Compile(raw map[string]any) (*Manifest, error) {
	raw = cloneDict(raw)

	rawAPIVersion, err := mustPopString(raw, "apiVersion", "manifest")
	if err != nil {
		return nil, err
	}
	apiGroup, apiVersion, err := splitAPIVersion(rawAPIVersion)
	if err != nil {
		return nil, err
	}
	if apiGroup != ExpectedAPIGroup {
		return nil, fmt.Errorf("config: manifest: invalid apiGroup %q, must be %q", apiGroup, ExpectedAPIGroup)
	}

	kind, err := mustPopString(raw, "kind", "manifest")
	if err != nil {
		return nil, err
	}
	if kind != ExpectedKind {
		return nil, fmt.Errorf("config: manifest: invalid kind %q, must be %q", kind, ExpectedKind)
	}

	d, err := dialectFor(apiVersion)
	if err != nil {
		return nil, err
	}

	rawWebhooks, err := mustPop(raw, "webhooks", "manifest")
	if err != nil {
		return nil, err
	}
	webhookList, ok := rawWebhooks.([]any)
	if !ok {
		return nil, fmt.Errorf("config: manifest.webhooks: expected a list, got %T", rawWebhooks)
	}

	webhooks := make([]Webhook, 0, len(webhookList))
	for i, rawWebhook := range webhookList {
		wh, err := parseWebhook(d, rawWebhook, fmt.Sprintf("webhooks.%d", i))
		if err != nil {
			return nil, err
		}
		webhooks = append(webhooks, wh)
	}

	if err := requireEmpty(raw, "manifest"); err != nil {
		return nil, err
	}

	return &Manifest{
		APIGroup:   apiGroup,
		APIVersion: apiVersion,
		Kind:       kind,
		Webhooks:   webhooks,
	}, nil
}

// splitAPIVersion splits "generic-webhook/v1alpha1" into its group and
// version components: apiVersion selects a dialect.
func splitAPIVersion(s string) (group, version string, err error) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("config: manifest: apiVersion %q must be of the form <group>/<version>", s)
	}
	return parts[0], parts[1], nil
}

// dialectFor selects the operator set, JSON-Patch op set, and
// expression-string availability for a given apiVersion.
func dialectFor(version string) (*dialect, error) {
	switch version {
	case "v1alpha1":
		return &dialect{
			operators:   v1alpha1Operators(),
			patchOps:    v1alpha1PatchOps(),
			exprEnabled: false,
		}, nil
	case "v1beta1":
		return &dialect{
			operators:   v1beta1Operators(),
			patchOps:    v1beta1PatchOps(),
			exprEnabled: true,
		}, nil
	default:
		return nil, fmt.Errorf("config: manifest: unsupported apiVersion %q", version)
	}
}

// parseWebhook parses one entry of the manifest's "webhooks" list.
func parseWebhook(d *dialect, raw any, loc string) (Webhook, error) {
	m, err := asDict(raw, loc)
	if err != nil {
		return Webhook{}, err
	}
	m = cloneDict(m)

	name, err := mustPopString(m, "name", loc)
	if err != nil {
		return Webhook{}, err
	}
	path, err := mustPopString(m, "path", loc)
	if err != nil {
		return Webhook{}, err
	}

	rawActions, err := mustPop(m, "actions", loc)
	if err != nil {
		return Webhook{}, err
	}
	actionList, ok := rawActions.([]any)
	if !ok {
		return Webhook{}, fmt.Errorf("config: %s.actions: expected a list, got %T", loc, rawActions)
	}
	actions := make([]Action, 0, len(actionList))
	for i, rawAction := range actionList {
		action, err := parseAction(d, rawAction, fmt.Sprintf("%s.actions.%d", loc, i))
		if err != nil {
			return Webhook{}, err
		}
		actions = append(actions, action)
	}

	if err := requireEmpty(m, loc); err != nil {
		return Webhook{}, err
	}

	return Webhook{Name: name, Path: path, Actions: actions}, nil
}

// parseAction parses one Action entry, applying the defaults:
// condition = const(true), patch = [], accept = true.
func parseAction(d *dialect, raw any, loc string) (Action, error) {
	m, err := asDict(raw, loc)
	if err != nil {
		return Action{}, err
	}
	m = cloneDict(m)

	rawCondition, ok := m["condition"]
	if !ok {
		rawCondition = map[string]any{"const": true}
	} else {
		delete(m, "condition")
	}
	condition, err := d.parseOperator(rawCondition, loc+".condition")
	if err != nil {
		return Action{}, err
	}

	rawPatch, ok := m["patch"]
	if !ok {
		rawPatch = []any{}
	} else {
		delete(m, "patch")
	}
	patchList, ok := rawPatch.([]any)
	if !ok {
		return Action{}, fmt.Errorf("config: %s.patch: expected a list, got %T", loc, rawPatch)
	}
	patch, err := d.parsePatch(patchList, loc+".patch")
	if err != nil {
		return Action{}, err
	}

	accept := true
	if rawAccept, ok := m["accept"]; ok {
		b, ok := rawAccept.(bool)
		if !ok {
			return Action{}, fmt.Errorf("config: %s.accept: expected a bool, got %T", loc, rawAccept)
		}
		accept = b
		delete(m, "accept")
	}

	if err := requireEmpty(m, loc); err != nil {
		return Action{}, err
	}

	return Action{Condition: condition, Patch: patch, Accept: accept}, nil
}
