/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"context"
	"fmt"

	"k8s.io/klog/v2"

	batcherrors "github.com/AMD-AGI/Primus-Batch/pkg/errors"
)

const (
	TWorkerHeartbeat = "worker_heartbeats"
)

var (
	upsertWorkerHeartbeatCmd = fmt.Sprintf(`INSERT INTO %s
		(worker_id, pid, started_at, last_seen, status, current_batch_id, loaded_model, model_loaded_at,
		 gpu_memory_used_bytes, gpu_memory_total_bytes, gpu_temperature_c, gpu_utilization_pct)
		VALUES (:worker_id, :pid, :started_at, :last_seen, :status, :current_batch_id, :loaded_model, :model_loaded_at,
		 :gpu_memory_used_bytes, :gpu_memory_total_bytes, :gpu_temperature_c, :gpu_utilization_pct)
		ON CONFLICT (worker_id) DO UPDATE SET
			pid = EXCLUDED.pid,
			started_at = EXCLUDED.started_at,
			last_seen = EXCLUDED.last_seen,
			status = EXCLUDED.status,
			current_batch_id = EXCLUDED.current_batch_id,
			loaded_model = EXCLUDED.loaded_model,
			model_loaded_at = EXCLUDED.model_loaded_at,
			gpu_memory_used_bytes = EXCLUDED.gpu_memory_used_bytes,
			gpu_memory_total_bytes = EXCLUDED.gpu_memory_total_bytes,
			gpu_temperature_c = EXCLUDED.gpu_temperature_c,
			gpu_utilization_pct = EXCLUDED.gpu_utilization_pct`, TWorkerHeartbeat)

	getLatestHeartbeatCmd = fmt.Sprintf(`SELECT * FROM %s ORDER BY last_seen DESC LIMIT 1`, TWorkerHeartbeat)
	getHeartbeatCmd       = fmt.Sprintf(`SELECT * FROM %s WHERE worker_id = $1 LIMIT 1`, TWorkerHeartbeat)
)

// UpsertWorkerHeartbeat writes the liveness row for one worker. Called on a
// fixed cadence, so failure is logged but surfaced to the caller for its
// error gauge rather than retried here.
func (c *Client) UpsertWorkerHeartbeat(ctx context.Context, hb *WorkerHeartbeat) error {
	if hb == nil {
		return batcherrors.NewValidationError("the input is empty")
	}
	db, err := c.getDB()
	if err != nil {
		return err
	}
	_, err = db.NamedExecContext(ctx, upsertWorkerHeartbeatCmd, hb)
	if err != nil {
		klog.ErrorS(err, "failed to upsert worker heartbeat", "workerId", hb.WorkerId)
	}
	return err
}

// GetLatestWorkerHeartbeat returns the most recently seen worker row, which
// the API treats as "the" worker for health and queue views.
func (c *Client) GetLatestWorkerHeartbeat(ctx context.Context) (*WorkerHeartbeat, error) {
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}
	var rows []*WorkerHeartbeat
	if err = db.SelectContext(ctx, &rows, getLatestHeartbeatCmd); err != nil {
		klog.ErrorS(err, "failed to select latest worker heartbeat")
		return nil, err
	}
	if len(rows) == 0 {
		return nil, batcherrors.NewNotFound("no worker heartbeat")
	}
	return rows[0], nil
}

// GetWorkerHeartbeat returns the liveness row of one worker.
func (c *Client) GetWorkerHeartbeat(ctx context.Context, workerId string) (*WorkerHeartbeat, error) {
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}
	var rows []*WorkerHeartbeat
	if err = db.SelectContext(ctx, &rows, getHeartbeatCmd, workerId); err != nil {
		klog.ErrorS(err, "failed to select worker heartbeat", "workerId", workerId)
		return nil, err
	}
	if len(rows) == 0 {
		return nil, batcherrors.NewNotFound(fmt.Sprintf("worker %s", workerId))
	}
	return rows[0], nil
}
