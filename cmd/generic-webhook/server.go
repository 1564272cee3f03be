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
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/admission-rules/generic-k8s-webhook/pkg/reload"
	"github.com/admission-rules/generic-k8s-webhook/pkg/server"
)

const defaultReloadFallbackPeriod = 30 * time.Second

func newServerCommand(configPath *string) *cobra.Command {
	var (
		port     int
		certFile string
		keyFile  string
	)

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Serve the admission webhook over HTTPS",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, port, certFile, keyFile)
		},
	}
	cmd.Flags().IntVar(&port, "port", 8443, "port to listen on")
	cmd.Flags().StringVar(&certFile, "cert-file", "", "path to the TLS certificate")
	cmd.Flags().StringVar(&keyFile, "key-file", "", "path to the TLS private key")
	return cmd
}

func runServer(ctx context.Context, configPath string, port int, certFile, keyFile string) error {
	if configPath == "" {
		return fatalf("--config is required")
	}

	loader, err := reload.NewLoader(configPath)
	if err != nil {
		return fatalf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := loader.Start(ctx, defaultReloadFallbackPeriod); err != nil {
			klog.ErrorS(err, "config reload loop exited")
		}
	}()

	srv := server.New(loader, prometheus.NewRegistry())
	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: srv,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	klog.InfoS("serving admission webhook", "port", port)
	var serveErr error
	if certFile != "" && keyFile != "" {
		serveErr = httpSrv.ListenAndServeTLS(certFile, keyFile)
	} else {
		klog.InfoS("no --cert-file/--key-file given, serving plain HTTP (not suitable for production)")
		serveErr = httpSrv.ListenAndServe()
	}
	if serveErr != nil && serveErr != http.ErrServerClosed {
		return fatalf("serve: %w", serveErr)
	}
	return nil
}
