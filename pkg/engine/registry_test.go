/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gotest.tools/assert"
)

func writeRegistry(t *testing.T, path, content string) {
	t.Helper()
	assert.NilError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestRegistryLookup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.json")
	writeRegistry(t, path, `{"llama-3-8b":{"gpu_memory_fraction":0.85,"max_context_len":8192,"weights_bytes":17179869184}}`)

	r, err := NewRegistry(path)
	assert.NilError(t, err)
	defer r.Close()

	cfg, ok := r.Lookup("llama-3-8b")
	assert.Equal(t, ok, true)
	assert.Equal(t, cfg.GpuMemoryFraction, 0.85)
	assert.Equal(t, cfg.MaxContextLen, 8192)

	_, ok = r.Lookup("unknown")
	assert.Equal(t, ok, false)
	assert.Equal(t, len(r.Models()), 1)
}

func TestRegistryRejectsMissingOrBadFile(t *testing.T) {
	_, err := NewRegistry("")
	assert.Assert(t, err != nil)

	_, err = NewRegistry(filepath.Join(t.TempDir(), "absent.json"))
	assert.Assert(t, err != nil)

	path := filepath.Join(t.TempDir(), "models.json")
	writeRegistry(t, path, "{broken")
	_, err = NewRegistry(path)
	assert.Assert(t, err != nil)
}

func TestRegistryReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.json")
	writeRegistry(t, path, `{"llama-3-8b":{"max_context_len":4096}}`)

	r, err := NewRegistry(path)
	assert.NilError(t, err)
	defer r.Close()

	writeRegistry(t, path, `{"llama-3-8b":{"max_context_len":4096},"qwen-2-7b":{"max_context_len":32768}}`)
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := r.Lookup("qwen-2-7b"); ok {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("registry did not pick up the new model")
}
