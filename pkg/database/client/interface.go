/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"context"
	"time"

	sqrl "github.com/Masterminds/squirrel"
)

// Interface is the job store contract shared by the API handlers, the worker
// and the sweepers. *Client is the only production implementation; tests use
// the generated mock under client/mock.
type Interface interface {
	Close()

	// files
	InsertFile(ctx context.Context, file *File) error
	GetFile(ctx context.Context, fileId string) (*File, error)
	SelectFiles(ctx context.Context, query sqrl.Sqlizer, orderBy []string, limit, offset int) ([]*File, error)
	SetFileDeleted(ctx context.Context, fileId string) error
	CountActiveJobsByFile(ctx context.Context, fileId string) (int, error)
	SweepExpiredFiles(ctx context.Context) ([]string, error)

	// batch jobs
	InsertBatchJob(ctx context.Context, job *BatchJob) error
	GetBatchJob(ctx context.Context, batchId string) (*BatchJob, error)
	SelectBatchJobs(ctx context.Context, query sqrl.Sqlizer, orderBy []string, limit, offset int) ([]*BatchJob, error)
	CountBatchJobs(ctx context.Context, query sqrl.Sqlizer) (int, error)
	CountQueueDepth(ctx context.Context) (int, error)
	UpdateBatchJobStatus(ctx context.Context, batchId string, from []string, to string, extra map[string]interface{}) (bool, error)
	ApplyChunkProgress(ctx context.Context, batchId string, completedDelta, failedDelta, tokensDelta int64, throughputTps float64, estimatedCompletionAt time.Time) (*BatchJob, error)
	SetBatchJobTotalRequests(ctx context.Context, batchId string, total int64) error
	MarkExpiredBatchJobs(ctx context.Context) (int64, error)
	RefreshQueuePositions(ctx context.Context) error
	CancelBatchJob(ctx context.Context, batchId string) (*BatchJob, error)
	ClaimNextBatchJob(ctx context.Context, workerId string) (*BatchJob, error)
	ReclaimOwnedBatchJobs(ctx context.Context, workerId string) ([]*BatchJob, error)
	ReleaseStaleBatchJobs(ctx context.Context, staleBefore time.Time) ([]string, error)

	// failed requests
	InsertFailedRequest(ctx context.Context, fr *FailedRequest) error
	SelectFailedRequests(ctx context.Context, batchId string) ([]*FailedRequest, error)
	CountFailedRequests(ctx context.Context, batchId string) (int, error)
	DeleteFailedRequestsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// worker heartbeats
	UpsertWorkerHeartbeat(ctx context.Context, hb *WorkerHeartbeat) error
	GetLatestWorkerHeartbeat(ctx context.Context) (*WorkerHeartbeat, error)
	GetWorkerHeartbeat(ctx context.Context, workerId string) (*WorkerHeartbeat, error)

	// system status
	GetSystemStatus(ctx context.Context) (*SystemStatus, error)
	SetMaintenance(ctx context.Context, enabled bool, reason string, etaMinutes int) error

	// audit
	InsertAuditLog(ctx context.Context, auditLog *AuditLog) error
	DeleteAuditLogsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

var _ Interface = (*Client)(nil)
