/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package worker

import (
	"k8s.io/klog/v2"

	"github.com/AMD-AGI/Primus-Batch/pkg/config"
	"github.com/AMD-AGI/Primus-Batch/pkg/engine"
)

const gb = int64(1 << 30)

// maxFloorFailures is how many consecutive failed chunks at the minimum size
// we tolerate before declaring the GPU unhealthy.
const maxFloorFailures = 2

// chunker adapts the chunk size to the GPU. The starting size comes from the
// VRAM tier; failures halve it down to the floor, and a clean chunk lets it
// grow back toward the tier.
type chunker struct {
	tier       int
	floor      int
	size       int
	floorFails int
}

func newChunker(health *engine.Health) *chunker {
	tier := tierFor(health)
	return &chunker{
		tier:  tier,
		floor: config.GetChunkSizeMin(),
		size:  tier,
	}
}

// tierFor picks the starting chunk size from the free VRAM share. Unknown
// totals land on the floor.
func tierFor(health *engine.Health) int {
	if health == nil || health.MemoryTotalBytes <= 0 {
		return config.GetChunkSizeMin()
	}
	freePct := 100 - health.MemoryPct()
	switch {
	case freePct >= 50:
		return config.GetChunkSizeDefault()
	case freePct >= 25:
		return 3000
	case freePct >= 15:
		return 1000
	default:
		return config.GetChunkSizeMin()
	}
}

// Size returns the current chunk size in lines.
func (c *chunker) Size() int {
	if c.size < c.floor {
		return c.floor
	}
	return c.size
}

// OnFailure halves the chunk size. It returns true when the GPU should be
// considered unhealthy: the size is already at the floor and keeps failing.
func (c *chunker) OnFailure() bool {
	if c.size <= c.floor {
		c.floorFails++
		klog.InfoS("chunk failed at floor size", "size", c.floor, "consecutive", c.floorFails)
		return c.floorFails >= maxFloorFailures
	}
	c.size /= 2
	if c.size < c.floor {
		c.size = c.floor
	}
	klog.InfoS("chunk size halved", "size", c.size)
	return false
}

// OnSuccess resets the failure streak and grows the size back toward the tier.
func (c *chunker) OnSuccess() {
	c.floorFails = 0
	if c.size < c.tier {
		c.size *= 2
		if c.size > c.tier {
			c.size = c.tier
		}
	}
}

// OnHealth shrinks the next chunk when the GPU is running close to its
// limits, without counting it as a failure.
func (c *chunker) OnHealth(health *engine.Health) {
	if health == nil {
		return
	}
	if health.MemoryPct() > config.GetGpuMemoryPctLimit() ||
		health.TemperatureC > config.GetGpuTemperatureLimit() {
		if c.size > c.floor {
			c.size /= 2
			if c.size < c.floor {
				c.size = c.floor
			}
			klog.InfoS("chunk size reduced on GPU pressure",
				"size", c.size, "memoryPct", health.MemoryPct(), "temperatureC", health.TemperatureC)
		}
	}
}
