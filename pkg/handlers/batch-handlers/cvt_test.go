/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package batchhandlers

import (
	"database/sql"
	"testing"
	"time"

	"github.com/lib/pq"
	"gotest.tools/assert"

	"github.com/AMD-AGI/Primus-Batch/pkg/apis"
	dbclient "github.com/AMD-AGI/Primus-Batch/pkg/database/client"
	"github.com/AMD-AGI/Primus-Batch/pkg/errors"
)

func terminalJob(status apis.BatchStatus, terminalAt time.Time) *dbclient.BatchJob {
	return &dbclient.BatchJob{
		BatchId:    "batch-1",
		Status:     status.String(),
		CreatedAt:  pq.NullTime{Time: terminalAt.Add(-time.Hour), Valid: true},
		TerminalAt: pq.NullTime{Time: terminalAt, Valid: true},
	}
}

func TestCvtBatchJobTerminalTimestampSlot(t *testing.T) {
	at := time.Unix(1700000000, 0)

	batch := CvtBatchJob(terminalJob(apis.BatchStatusCompleted, at))
	assert.Assert(t, batch.CompletedAt != nil)
	assert.Equal(t, *batch.CompletedAt, at.Unix())
	assert.Assert(t, batch.FailedAt == nil)

	batch = CvtBatchJob(terminalJob(apis.BatchStatusFailed, at))
	assert.Assert(t, batch.FailedAt != nil)
	assert.Assert(t, batch.CompletedAt == nil)

	batch = CvtBatchJob(terminalJob(apis.BatchStatusExpired, at))
	assert.Assert(t, batch.ExpiredAt != nil)

	batch = CvtBatchJob(terminalJob(apis.BatchStatusCancelled, at))
	assert.Assert(t, batch.CancelledAt != nil)
}

func TestCvtBatchJobQueuePositionOnlyWhileValidating(t *testing.T) {
	job := &dbclient.BatchJob{
		BatchId:       "batch-1",
		Status:        apis.BatchStatusValidating.String(),
		QueuePosition: sql.NullInt64{Int64: 2, Valid: true},
	}
	batch := CvtBatchJob(job)
	assert.Assert(t, batch.QueuePosition != nil)
	assert.Equal(t, *batch.QueuePosition, 2)

	job.Status = apis.BatchStatusInProgress.String()
	assert.Assert(t, CvtBatchJob(job).QueuePosition == nil)
}

func TestCvtBatchJobErrorsAndMetadata(t *testing.T) {
	job := &dbclient.BatchJob{
		BatchId:      "batch-1",
		Status:       apis.BatchStatusFailed.String(),
		ErrorCode:    sql.NullString{String: errors.GpuUnhealthy, Valid: true},
		ErrorMessage: sql.NullString{String: "repeated chunk failures", Valid: true},
		Metadata:     sql.NullString{String: `{"team":"eval","priority":"1"}`, Valid: true},
	}
	batch := CvtBatchJob(job)
	assert.Assert(t, batch.Errors != nil)
	assert.Equal(t, len(batch.Errors.Data), 1)
	assert.Equal(t, batch.Errors.Data[0].Code, errors.GpuUnhealthy)
	assert.Equal(t, batch.Metadata["team"], "eval")
}

func TestCvtBatchJobMinimalRow(t *testing.T) {
	batch := CvtBatchJob(&dbclient.BatchJob{BatchId: "batch-1", Status: apis.BatchStatusValidating.String()})
	assert.Equal(t, batch.Object, "batch")
	assert.Equal(t, batch.CreatedAt, int64(0))
	assert.Assert(t, batch.InProgressAt == nil)
	assert.Assert(t, batch.Errors == nil)
	assert.Assert(t, batch.Metadata == nil)
}
