/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package batchhandlers

import (
	"github.com/lib/pq"
	"k8s.io/klog/v2"

	"github.com/AMD-AGI/Primus-Batch/pkg/apis"
	dbclient "github.com/AMD-AGI/Primus-Batch/pkg/database/client"
	jsonutils "github.com/AMD-AGI/Primus-Batch/pkg/utils/json"
)

// CvtBatchJob converts a job row to its wire representation. The worker uses
// it too when assembling completion events, so it lives in one place.
func CvtBatchJob(job *dbclient.BatchJob) *apis.Batch {
	status := apis.BatchStatus(job.Status)
	rsp := &apis.Batch{
		ID:               job.BatchId,
		Object:           "batch",
		Endpoint:         job.Endpoint,
		InputFileID:      job.InputFileId,
		CompletionWindow: job.CompletionWindow,
		Status:           status,
		Model:            job.Model,
		Priority:         job.Priority,
		TokensProcessed:  job.TokensProcessed,
		RequestCounts: apis.BatchRequestCounts{
			Total:     job.TotalRequests,
			Completed: job.CompletedRequests,
			Failed:    job.FailedRequests,
		},
	}
	if job.CreatedAt.Valid {
		rsp.CreatedAt = job.CreatedAt.Time.Unix()
	}
	rsp.InProgressAt = unixPtr(job.InProgressAt)
	rsp.ExpiresAt = unixPtr(job.ExpiresAt)
	rsp.FinalizingAt = unixPtr(job.FinalizedAt)
	rsp.CancellingAt = unixPtr(job.CancellingAt)
	rsp.LastProgressAt = unixPtr(job.LastProgressAt)
	rsp.EstimatedCompletionAt = unixPtr(job.EstimatedCompletionAt)

	// terminal_at lands in the timestamp slot matching the final status
	switch status {
	case apis.BatchStatusCompleted:
		rsp.CompletedAt = unixPtr(job.TerminalAt)
	case apis.BatchStatusFailed:
		rsp.FailedAt = unixPtr(job.TerminalAt)
	case apis.BatchStatusExpired:
		rsp.ExpiredAt = unixPtr(job.TerminalAt)
	case apis.BatchStatusCancelled:
		rsp.CancelledAt = unixPtr(job.TerminalAt)
	}

	if job.OutputFileId.Valid {
		rsp.OutputFileID = job.OutputFileId.String
	}
	if job.ErrorFileId.Valid {
		rsp.ErrorFileID = job.ErrorFileId.String
	}
	if job.ThroughputTps.Valid {
		rsp.Throughput = job.ThroughputTps.Float64
	}
	// queue position only means something while the job still waits
	if status == apis.BatchStatusValidating && job.QueuePosition.Valid {
		position := int(job.QueuePosition.Int64)
		rsp.QueuePosition = &position
	}
	if job.ErrorCode.Valid || job.ErrorMessage.Valid {
		rsp.Errors = &apis.BatchErrors{
			Object: "list",
			Data: []apis.BatchErrorItem{{
				Code:    job.ErrorCode.String,
				Message: job.ErrorMessage.String,
			}},
		}
	}
	if job.Metadata.Valid && job.Metadata.String != "" {
		metadata := map[string]string{}
		if err := jsonutils.Unmarshal([]byte(job.Metadata.String), &metadata); err != nil {
			klog.ErrorS(err, "failed to decode batch metadata", "batchId", job.BatchId)
		} else {
			rsp.Metadata = metadata
		}
	}
	return rsp
}

func unixPtr(t pq.NullTime) *int64 {
	if !t.Valid {
		return nil
	}
	unix := t.Time.Unix()
	return &unix
}
