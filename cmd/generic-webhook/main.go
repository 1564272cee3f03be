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

// Command generic-webhook runs the admission rule-evaluation engine,
// either as an HTTPS server (the "server" subcommand) or as a one-shot
// local check against a single object (the "cli" subcommand).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

// version is set at build time via -ldflags; it defaults to "dev" for
// local builds.
var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	goFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(goFlags)

	root := &cobra.Command{
		Use:           "generic-webhook",
		Short:         "Generic rule-based Kubernetes admission webhook engine",
		SilenceUsage:  true,
		SilenceErrors: false,
		Version:       version,
	}
	root.PersistentFlags().AddGoFlagSet(goFlags)
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to the rule-set manifest (YAML)")
	_ = root.MarkPersistentFlagRequired("config")

	root.AddCommand(newServerCommand(&configPath))
	root.AddCommand(newCLICommand(&configPath))
	return root
}

func exitCode(accept bool) int {
	if accept {
		return 0
	}
	return 1
}

func fatalf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
