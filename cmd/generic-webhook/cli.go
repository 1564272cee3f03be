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

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/admission-rules/generic-k8s-webhook/pkg/cli"
)

func newCLICommand(configPath *string) *cobra.Command {
	var (
		manifestPath string
		whName       string
		showPatch    bool
	)

	cmd := &cobra.Command{
		Use:   "cli",
		Short: "Evaluate one webhook against a local Kubernetes object manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			accept, err := cli.Run(cli.Options{
				ConfigPath:   *configPath,
				ManifestPath: manifestPath,
				WebhookName:  whName,
				ShowPatch:    showPatch,
				Stdout:       cmd.OutOrStdout(),
			})
			if err != nil {
				return err
			}
			if !accept {
				os.Exit(exitCode(accept))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&manifestPath, "k8s-manifest", "", "path to the Kubernetes object to evaluate (YAML or JSON)")
	cmd.Flags().StringVar(&whName, "wh-name", "", "name of the webhook to run")
	cmd.Flags().BoolVar(&showPatch, "show-patch", false, "print the generated JSON Patch on acceptance")
	_ = cmd.MarkFlagRequired("k8s-manifest")
	_ = cmd.MarkFlagRequired("wh-name")
	return cmd
}
