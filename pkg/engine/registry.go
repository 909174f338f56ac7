/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"k8s.io/klog/v2"

	jsonutils "github.com/AMD-AGI/Primus-Batch/pkg/utils/json"
)

// ModelConfig is the per-model entry of the registry file.
type ModelConfig struct {
	GpuMemoryFraction float64 `json:"gpu_memory_fraction"`
	MaxContextLen     int     `json:"max_context_len"`
	WeightsBytes      int64   `json:"weights_bytes"`
	CpuOffloadGb      float64 `json:"cpu_offload_gb"`
}

// Registry maps model names to load configuration. It is backed by a JSON
// file and reloads on file change, so operators can add models without
// restarting the worker. Lookups during a bad intermediate write keep
// serving the last good snapshot.
type Registry struct {
	path    string
	watcher *fsnotify.Watcher
	stopCh  chan struct{}

	mu     sync.RWMutex
	models map[string]ModelConfig
}

// NewRegistry loads the registry file and starts watching it.
func NewRegistry(path string) (*Registry, error) {
	if path == "" {
		return nil, fmt.Errorf("engine registry path is empty")
	}
	r := &Registry{
		path:   path,
		stopCh: make(chan struct{}),
		models: map[string]ModelConfig{},
	}
	if err := r.reload(); err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: editors and configmap mounts replace the file,
	// which drops a watch set on the file itself.
	if err = watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}
	r.watcher = watcher
	go r.watch()
	return r, nil
}

// Lookup returns the config for a model and whether it is registered.
func (r *Registry) Lookup(model string) (ModelConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.models[model]
	return cfg, ok
}

// Models returns the registered model names.
func (r *Registry) Models() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	return names
}

func (r *Registry) Close() {
	close(r.stopCh)
	if r.watcher != nil {
		r.watcher.Close()
	}
}

func (r *Registry) reload() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return err
	}
	models := map[string]ModelConfig{}
	if err = jsonutils.Unmarshal(data, &models); err != nil {
		return fmt.Errorf("failed to parse model registry %s: %v", r.path, err)
	}
	r.mu.Lock()
	r.models = models
	r.mu.Unlock()
	klog.InfoS("model registry loaded", "path", r.path, "models", len(models))
	return nil
}

func (r *Registry) watch() {
	for {
		select {
		case <-r.stopCh:
			return
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(r.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if err := r.reload(); err != nil {
				klog.ErrorS(err, "failed to reload model registry", "path", r.path)
			}
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			klog.ErrorS(err, "model registry watcher error")
		}
	}
}
