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

// Package reload implements the single-writer/multi-reader config
// cell: a Loader holds the current compiled Manifest behind an
// atomic.Value, grounded on
// k8s.io/apiserver/pkg/admission/configuration/validating_rules_manager.go's
// informer-driven manager -- rebuilt here around a file watch instead
// of an informer, since this system's configuration source is a local
// YAML file rather than a Kubernetes-native CRD. A global mutable
// Manifest pointer would need the same single-writer discipline with
// none of the safety, so this cell replaces it with an atomic swap.
package reload

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"k8s.io/klog/v2"

	"github.com/admission-rules/generic-k8s-webhook/pkg/config"
)

// Loader is the atomic-swap cell: the reloader worker (single writer)
// periodically reads the config file, compiles a new Manifest, and
// atomically publishes it; request workers (readers) take the current
// Manifest without further locking.
type Loader struct {
	path    string
	current atomic.Value // holds *config.Manifest
}

// NewLoader compiles path once up front -- a Loader is only useful once
// it holds a valid Manifest -- and returns the ready-to-use Loader.
func NewLoader(path string) (*Loader, error) {
	l := &Loader{path: path}
	if err := l.reload(); err != nil {
		return nil, fmt.Errorf("reload: initial load of %s: %w", path, err)
	}
	return l, nil
}

// Current returns the most recently published Manifest. Safe to call
// from any number of concurrent request workers without locking, since
// Manifest is immutable once compiled.
func (l *Loader) Current() *config.Manifest {
	return l.current.Load().(*config.Manifest)
}

// reload re-reads and recompiles l.path, publishing the new Manifest
// only on success. A compile or I/O failure never propagates to
// in-flight requests: the previous Manifest is retained and the error
// is just returned to the caller (Start logs it and keeps running).
func (l *Loader) reload() error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return fmt.Errorf("read %s: %w", l.path, err)
	}
	manifest, err := config.CompileYAML(data)
	if err != nil {
		return fmt.Errorf("compile %s: %w", l.path, err)
	}
	l.current.Store(manifest)
	return nil
}

// Start runs the hot-reload loop until ctx is cancelled: a cancellable
// wait for the refresh period, checked at each wake against a set-once
// stop signal. An fsnotify watch on the config file's directory drives
// immediate reloads, with a periodic re-stat fallback
// (fsnotify misses some editors' atomic rename-over-existing-file
// save pattern depending on the filesystem) at every tick of
// fallbackPeriod. Reload errors are logged and never stop the loop.
func (l *Loader) Start(ctx context.Context, fallbackPeriod time.Duration) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("reload: create watcher: %w", err)
	}
	defer watcher.Close()

	dir := dirOf(l.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("reload: watch %s: %w", dir, err)
	}

	ticker := time.NewTicker(fallbackPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != l.path {
				continue
			}
			if err := l.reload(); err != nil {
				klog.Warningf("reload: %v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			klog.Warningf("reload: watcher error: %v", err)
		case <-ticker.C:
			if err := l.reload(); err != nil {
				klog.Warningf("reload: %v", err)
			}
		}
	}
}

// dirOf returns the directory fsnotify should watch for changes to
// path -- watching the containing directory, not the file itself,
// survives editors that save by renaming a temp file over the target
// (which invalidates a direct watch on the original inode).
func dirOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "."
}
