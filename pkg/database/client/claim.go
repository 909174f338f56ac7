/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"k8s.io/klog/v2"

	"github.com/AMD-AGI/Primus-Batch/pkg/apis"
)

// ClaimNextBatchJob atomically claims the next eligible job for workerId.
// Resumable jobs already owned by this worker win over fresh work; among
// fresh validating jobs the dequeue order is priority desc, created_at asc.
// The row is locked with SKIP LOCKED so concurrent workers never claim the
// same job; a nil job means the queue is empty.
func (c *Client) ClaimNextBatchJob(ctx context.Context, workerId string) (*BatchJob, error) {
	gdb, err := c.getGorm()
	if err != nil {
		return nil, err
	}
	var job BatchJob
	err = gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Resume own in-flight work first, crash recovery depends on it.
		result := tx.Clauses(clause.Locking{
			Strength: "UPDATE",
			Options:  "SKIP LOCKED",
		}).Where("worker_id = ? AND status IN ?", workerId,
			[]string{apis.BatchStatusInProgress.String(), apis.BatchStatusFinalizing.String()}).
			Order("in_progress_at ASC").First(&job)
		if result.Error == nil {
			return nil
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}

		result = tx.Clauses(clause.Locking{
			Strength: "UPDATE",
			Options:  "SKIP LOCKED",
		}).Where("status = ?", apis.BatchStatusValidating.String()).
			Order("priority DESC, created_at ASC").First(&job)
		if result.Error != nil {
			return result.Error
		}

		now := time.Now().UTC()
		update := tx.Model(&BatchJob{}).
			Where("batch_id = ? AND status = ?", job.BatchId, apis.BatchStatusValidating.String()).
			Updates(map[string]interface{}{
				"status":         apis.BatchStatusInProgress.String(),
				"worker_id":      workerId,
				"in_progress_at": now,
				"queue_position": nil,
			})
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("batch_id = ?", job.BatchId).First(&job).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		klog.ErrorS(err, "failed to claim batch job", "workerId", workerId)
		return nil, err
	}
	return &job, nil
}

// ReclaimOwnedBatchJobs returns non-terminal jobs still stamped with this
// worker's id, ordered oldest first. Called once at startup so a restarted
// worker resumes its own work before touching the shared queue.
func (c *Client) ReclaimOwnedBatchJobs(ctx context.Context, workerId string) ([]*BatchJob, error) {
	gdb, err := c.getGorm()
	if err != nil {
		return nil, err
	}
	var jobs []*BatchJob
	err = gdb.WithContext(ctx).
		Where("worker_id = ? AND status IN ?", workerId,
			[]string{apis.BatchStatusInProgress.String(), apis.BatchStatusFinalizing.String()}).
		Order("in_progress_at ASC").Find(&jobs).Error
	if err != nil {
		klog.ErrorS(err, "failed to reclaim owned batch jobs", "workerId", workerId)
		return nil, err
	}
	return jobs, nil
}

// ReleaseStaleBatchJobs returns in-flight jobs whose owning worker has not
// heartbeated since staleBefore back to validating so another worker can
// claim them. Partial output is preserved; the resume rule skips completed
// lines. Returns the batch ids released.
func (c *Client) ReleaseStaleBatchJobs(ctx context.Context, staleBefore time.Time) ([]string, error) {
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}
	cmd := fmt.Sprintf(`UPDATE %s AS j SET status='%s', worker_id=NULL, in_progress_at=NULL
		WHERE j.status IN ('%s', '%s')
		  AND j.worker_id IS NOT NULL
		  AND NOT EXISTS (
			SELECT 1 FROM %s AS h
			WHERE h.worker_id = j.worker_id AND h.last_seen >= $1
		  )
		RETURNING j.batch_id`,
		TBatchJob, apis.BatchStatusValidating,
		apis.BatchStatusInProgress, apis.BatchStatusFinalizing,
		TWorkerHeartbeat)
	var batchIds []string
	if err = db.SelectContext(ctx, &batchIds, cmd, staleBefore); err != nil {
		klog.ErrorS(err, "failed to release stale batch jobs")
		return nil, err
	}
	return batchIds, nil
}
