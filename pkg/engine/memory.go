/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package engine

import (
	"fmt"

	batcherrors "github.com/AMD-AGI/Primus-Batch/pkg/errors"
)

const gb = int64(1 << 30)

// PlanLoad decides how a model fits on the GPU. The weights must fit inside
// the VRAM share the model is allowed; when they do not, the configured CPU
// offload budget makes up the difference, and when even that is short the
// job is rejected as insufficient_memory instead of letting the engine OOM.
func PlanLoad(model string, cfg ModelConfig, health *Health) (LoadConfig, error) {
	plan := LoadConfig{
		GpuMemoryFraction: cfg.GpuMemoryFraction,
		MaxContextLen:     cfg.MaxContextLen,
	}
	if plan.GpuMemoryFraction <= 0 || plan.GpuMemoryFraction > 1 {
		plan.GpuMemoryFraction = 0.9
	}
	if cfg.WeightsBytes <= 0 || health == nil || health.MemoryTotalBytes <= 0 {
		// Unknown sizes: let the engine try with the plain plan.
		return plan, nil
	}

	budget := int64(float64(health.MemoryTotalBytes) * plan.GpuMemoryFraction)
	if cfg.WeightsBytes <= budget {
		return plan, nil
	}
	offloadBytes := int64(cfg.CpuOffloadGb * float64(gb))
	if offloadBytes > 0 && cfg.WeightsBytes-offloadBytes <= budget {
		plan.CpuOffloadGb = cfg.CpuOffloadGb
		return plan, nil
	}
	return LoadConfig{}, batcherrors.NewInsufficientMemory(fmt.Sprintf(
		"model %s needs %d bytes, vram budget is %d bytes, cpu offload %d bytes",
		model, cfg.WeightsBytes, budget, offloadBytes))
}
