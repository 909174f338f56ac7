/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package engine

import (
	"testing"

	"gotest.tools/assert"

	batcherrors "github.com/AMD-AGI/Primus-Batch/pkg/errors"
)

func TestPlanLoadFits(t *testing.T) {
	cfg := ModelConfig{GpuMemoryFraction: 0.9, MaxContextLen: 8192, WeightsBytes: 16 * gb}
	health := &Health{MemoryTotalBytes: 80 * gb}
	plan, err := PlanLoad("llama-3-8b", cfg, health)
	assert.NilError(t, err)
	assert.Equal(t, plan.GpuMemoryFraction, 0.9)
	assert.Equal(t, plan.MaxContextLen, 8192)
	assert.Equal(t, plan.CpuOffloadGb, 0.0)
}

func TestPlanLoadDefaultsFraction(t *testing.T) {
	plan, err := PlanLoad("m", ModelConfig{}, &Health{MemoryTotalBytes: 80 * gb})
	assert.NilError(t, err)
	assert.Equal(t, plan.GpuMemoryFraction, 0.9)

	plan, err = PlanLoad("m", ModelConfig{GpuMemoryFraction: 1.5}, nil)
	assert.NilError(t, err)
	assert.Equal(t, plan.GpuMemoryFraction, 0.9)
}

func TestPlanLoadUnknownSizes(t *testing.T) {
	// No weights info or no health: hand the engine a plain plan and let it try.
	plan, err := PlanLoad("m", ModelConfig{GpuMemoryFraction: 0.8}, nil)
	assert.NilError(t, err)
	assert.Equal(t, plan.GpuMemoryFraction, 0.8)

	plan, err = PlanLoad("m", ModelConfig{GpuMemoryFraction: 0.8, WeightsBytes: 200 * gb}, &Health{})
	assert.NilError(t, err)
	assert.Equal(t, plan.GpuMemoryFraction, 0.8)
}

func TestPlanLoadOffload(t *testing.T) {
	cfg := ModelConfig{GpuMemoryFraction: 0.5, WeightsBytes: 50 * gb, CpuOffloadGb: 16}
	health := &Health{MemoryTotalBytes: 80 * gb}
	plan, err := PlanLoad("m", cfg, health)
	assert.NilError(t, err)
	assert.Equal(t, plan.CpuOffloadGb, 16.0)
}

func TestPlanLoadInsufficientMemory(t *testing.T) {
	cfg := ModelConfig{GpuMemoryFraction: 0.5, WeightsBytes: 70 * gb, CpuOffloadGb: 8}
	health := &Health{MemoryTotalBytes: 80 * gb}
	_, err := PlanLoad("m", cfg, health)
	assert.Equal(t, batcherrors.IsInsufficientMemory(err), true)
}
