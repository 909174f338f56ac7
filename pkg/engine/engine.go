/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package engine

import (
	"context"
	"encoding/json"

	"github.com/AMD-AGI/Primus-Batch/pkg/apis"
)

// LoadConfig tunes how the engine maps a model onto the GPU.
type LoadConfig struct {
	GpuMemoryFraction float64 `json:"gpu_memory_fraction,omitempty"`
	MaxContextLen     int     `json:"max_context_len,omitempty"`
	CpuOffloadGb      float64 `json:"cpu_offload_gb,omitempty"`
}

// Request is one prompt handed to the engine.
type Request struct {
	CustomID string
	Body     apis.BatchRequestBody
}

// Result is the engine's answer for one prompt. Exactly one of Body and Err
// is set. Body is the raw chat-completion response object, preserved verbatim
// for the output line.
type Result struct {
	CustomID   string
	StatusCode int
	Body       json.RawMessage
	Err        error
}

// Usage aggregates token accounting over a Generate call.
type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}

// Health is a point-in-time GPU and engine snapshot.
type Health struct {
	MemoryUsedBytes  int64   `json:"memory_used_bytes"`
	MemoryTotalBytes int64   `json:"memory_total_bytes"`
	TemperatureC     float64 `json:"temperature_c"`
	UtilizationPct   float64 `json:"utilization_pct"`
	Idle             bool    `json:"idle"`
}

// MemoryPct reports used VRAM as a percentage; zero when totals are unknown.
func (h *Health) MemoryPct() float64 {
	if h == nil || h.MemoryTotalBytes <= 0 {
		return 0
	}
	return float64(h.MemoryUsedBytes) / float64(h.MemoryTotalBytes) * 100
}

// FreeBytes reports unused VRAM.
func (h *Health) FreeBytes() int64 {
	if h == nil {
		return 0
	}
	return h.MemoryTotalBytes - h.MemoryUsedBytes
}

// Interface is the contract with the single-GPU inference engine. Load and
// Unload are exclusive: the engine serves at most one model at a time.
type Interface interface {
	Load(ctx context.Context, model string, cfg LoadConfig) error
	Unload(ctx context.Context) error
	Generate(ctx context.Context, reqs []Request) ([]Result, Usage, error)
	Health(ctx context.Context) (*Health, error)
	LoadedModel(ctx context.Context) (string, error)
}
