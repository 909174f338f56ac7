/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package worker

import (
	"context"
	"os"
	"sync"
	"time"

	"k8s.io/klog/v2"

	"github.com/AMD-AGI/Primus-Batch/pkg/apis"
	"github.com/AMD-AGI/Primus-Batch/pkg/config"
	dbclient "github.com/AMD-AGI/Primus-Batch/pkg/database/client"
	dbutils "github.com/AMD-AGI/Primus-Batch/pkg/database/utils"
	"github.com/AMD-AGI/Primus-Batch/pkg/engine"
	"github.com/AMD-AGI/Primus-Batch/pkg/metrics"
)

// heartbeatTask periodically publishes the worker's liveness row. The API
// server reads it for admission control and the queue view; the stale-job
// sweeper reads it to reclaim work from dead workers.
type heartbeatTask struct {
	dbClient  dbclient.Interface
	engine    engine.Interface
	workerId  string
	pid       int
	startedAt time.Time

	mu             sync.Mutex
	status         apis.WorkerStatus
	currentBatchId string
	loadedModel    string
	modelLoadedAt  time.Time
}

func newHeartbeatTask(dbClient dbclient.Interface, eng engine.Interface, workerId string) *heartbeatTask {
	return &heartbeatTask{
		dbClient:  dbClient,
		engine:    eng,
		workerId:  workerId,
		pid:       os.Getpid(),
		startedAt: time.Now().UTC(),
		status:    apis.WorkerStatusIdle,
	}
}

// SetStatus updates the coarse state reported on the next beat.
func (t *heartbeatTask) SetStatus(status apis.WorkerStatus, batchId string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = status
	t.currentBatchId = batchId
}

// SetLoadedModel records which model occupies the GPU.
func (t *heartbeatTask) SetLoadedModel(model string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loadedModel = model
	t.modelLoadedAt = time.Now().UTC()
}

// run beats until ctx is cancelled, then publishes one final draining beat so
// the API side sees an orderly shutdown instead of a stale row.
func (t *heartbeatTask) run(ctx context.Context) {
	interval := time.Duration(config.GetHeartbeatIntervalSecond()) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	t.publish(ctx)
	for {
		select {
		case <-ctx.Done():
			t.SetStatus(apis.WorkerStatusDraining, "")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			t.publish(shutdownCtx)
			cancel()
			return
		case <-ticker.C:
			t.publish(ctx)
		}
	}
}

func (t *heartbeatTask) publish(ctx context.Context) {
	t.mu.Lock()
	hb := &dbclient.WorkerHeartbeat{
		WorkerId:       t.workerId,
		Pid:            t.pid,
		StartedAt:      dbutils.NullTime(t.startedAt),
		LastSeen:       dbutils.NullTime(time.Now().UTC()),
		Status:         t.status.String(),
		CurrentBatchId: dbutils.NullString(t.currentBatchId),
		LoadedModel:    dbutils.NullString(t.loadedModel),
		ModelLoadedAt:  dbutils.NullTime(t.modelLoadedAt),
	}
	t.mu.Unlock()

	health, err := t.engine.Health(ctx)
	if err != nil {
		klog.V(2).InfoS("engine health probe failed", "err", err)
	} else if health != nil {
		hb.GpuMemoryUsedBytes = dbutils.NullInt64(health.MemoryUsedBytes)
		hb.GpuMemoryTotalBytes = dbutils.NullInt64(health.MemoryTotalBytes)
		hb.GpuTemperatureC = dbutils.NullFloat64(health.TemperatureC)
		hb.GpuUtilizationPct = dbutils.NullFloat64(health.UtilizationPct)
		metrics.GpuMemoryPct.Set(health.MemoryPct())
		metrics.GpuTemperatureC.Set(health.TemperatureC)
	}

	if err := t.dbClient.UpsertWorkerHeartbeat(ctx, hb); err != nil {
		klog.ErrorS(err, "failed to publish heartbeat", "workerId", t.workerId)
	}
}
