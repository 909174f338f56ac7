/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package worker

import (
	"testing"

	"gotest.tools/assert"

	"github.com/AMD-AGI/Primus-Batch/pkg/engine"
)

func healthWithVram(usedGb, totalGb int64) *engine.Health {
	return &engine.Health{MemoryUsedBytes: usedGb * gb, MemoryTotalBytes: totalGb * gb}
}

// Tiers key on the free VRAM share, not the card size: a large card mostly
// occupied by weights starts small.
func TestChunkerTiers(t *testing.T) {
	assert.Equal(t, newChunker(healthWithVram(20, 80)).Size(), 5000) // 75% free
	assert.Equal(t, newChunker(healthWithVram(40, 80)).Size(), 5000) // 50% free
	assert.Equal(t, newChunker(healthWithVram(44, 80)).Size(), 3000) // 45% free
	assert.Equal(t, newChunker(healthWithVram(60, 80)).Size(), 3000) // 25% free
	assert.Equal(t, newChunker(healthWithVram(64, 80)).Size(), 1000) // 20% free
	assert.Equal(t, newChunker(healthWithVram(68, 80)).Size(), 1000) // 15% free
	assert.Equal(t, newChunker(healthWithVram(70, 80)).Size(), 500)  // 12.5% free
	// Unknown VRAM lands on the floor.
	assert.Equal(t, newChunker(nil).Size(), 500)
	assert.Equal(t, newChunker(&engine.Health{}).Size(), 500)
}

func TestChunkerHalvesOnFailure(t *testing.T) {
	c := newChunker(healthWithVram(0, 80))
	assert.Equal(t, c.OnFailure(), false)
	assert.Equal(t, c.Size(), 2500)
	assert.Equal(t, c.OnFailure(), false)
	assert.Equal(t, c.Size(), 1250)
}

func TestChunkerFloorFailures(t *testing.T) {
	c := newChunker(healthWithVram(70, 80))
	assert.Equal(t, c.Size(), 500)
	assert.Equal(t, c.OnFailure(), false)
	assert.Equal(t, c.Size(), 500)
	// Second consecutive failure at the floor flags the GPU.
	assert.Equal(t, c.OnFailure(), true)
}

func TestChunkerSuccessResetsStreakAndGrows(t *testing.T) {
	c := newChunker(healthWithVram(0, 80))
	c.OnFailure()
	c.OnFailure()
	c.OnSuccess()
	assert.Equal(t, c.Size(), 2500)
	c.OnSuccess()
	assert.Equal(t, c.Size(), 5000)
	// Growth caps at the tier.
	c.OnSuccess()
	assert.Equal(t, c.Size(), 5000)

	// A success between floor failures clears the streak.
	c = newChunker(healthWithVram(70, 80))
	c.OnFailure()
	c.OnSuccess()
	assert.Equal(t, c.OnFailure(), false)
}

func TestChunkerShrinksOnGpuPressure(t *testing.T) {
	c := newChunker(healthWithVram(0, 80))
	hot := &engine.Health{
		MemoryTotalBytes: 80 * gb,
		MemoryUsedBytes:  78 * gb,
		TemperatureC:     70,
	}
	c.OnHealth(hot)
	assert.Equal(t, c.Size(), 2500)

	// Healthy readings leave the size alone.
	c.OnHealth(&engine.Health{MemoryTotalBytes: 80 * gb, MemoryUsedBytes: 10 * gb, TemperatureC: 50})
	assert.Equal(t, c.Size(), 2500)
	c.OnHealth(nil)
	assert.Equal(t, c.Size(), 2500)
}
