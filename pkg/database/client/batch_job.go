/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"context"
	"fmt"
	"time"

	sqrl "github.com/Masterminds/squirrel"
	"k8s.io/klog/v2"

	"github.com/AMD-AGI/Primus-Batch/pkg/apis"
	dbutils "github.com/AMD-AGI/Primus-Batch/pkg/database/utils"
	batcherrors "github.com/AMD-AGI/Primus-Batch/pkg/errors"
)

const (
	TBatchJob = "batch_jobs"
)

var (
	getBatchJobCmd       = fmt.Sprintf(`SELECT * FROM %s WHERE batch_id = $1 LIMIT 1`, TBatchJob)
	insertBatchJobFormat = `INSERT INTO ` + TBatchJob + ` (%s) VALUES (%s)`
)

func nonTerminalStatuses() []string {
	return apis.NonTerminalBatchStatuses()
}

// InsertBatchJob inserts a new job in validating state.
func (c *Client) InsertBatchJob(ctx context.Context, job *BatchJob) error {
	if job == nil {
		return batcherrors.NewValidationError("the input is empty")
	}
	// The insert binds every column, so created_at must be stamped here or
	// the NOT NULL default never applies.
	if !job.CreatedAt.Valid {
		job.CreatedAt = dbutils.NullTime(time.Now().UTC())
	}
	db, err := c.getDB()
	if err != nil {
		return err
	}
	_, err = db.NamedExecContext(ctx, generateCommand(*job, insertBatchJobFormat, "id"), job)
	if err != nil {
		klog.ErrorS(err, "failed to insert batch job db", "batchId", job.BatchId)
	}
	return err
}

// GetBatchJob retrieves a job by its identifier.
func (c *Client) GetBatchJob(ctx context.Context, batchId string) (*BatchJob, error) {
	if batchId == "" {
		return nil, batcherrors.NewValidationError("batchId is empty")
	}
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}
	var jobs []*BatchJob
	if err = db.SelectContext(ctx, &jobs, getBatchJobCmd, batchId); err != nil {
		klog.ErrorS(err, "failed to select batch job", "batchId", batchId)
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, batcherrors.NewNotFound(fmt.Sprintf("batch %s", batchId))
	}
	return jobs[0], nil
}

// SelectBatchJobs retrieves multiple job records.
func (c *Client) SelectBatchJobs(ctx context.Context, query sqrl.Sqlizer, orderBy []string, limit, offset int) ([]*BatchJob, error) {
	startTime := time.Now().UTC()
	defer func() {
		if query != nil {
			klog.V(4).Infof("select batch jobs, query: %s, orderBy: %v, limit: %d, offset: %d, cost (%v)",
				dbutils.CvtToSqlStr(query), orderBy, limit, offset, time.Since(startTime))
		}
	}()
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}
	builder := sqrl.Select("*").PlaceholderFormat(sqrl.Dollar).From(TBatchJob)
	if query != nil {
		builder = builder.Where(query)
	}
	builder = builder.OrderBy(orderBy...)
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	if offset > 0 {
		builder = builder.Offset(uint64(offset))
	}
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	var jobs []*BatchJob
	if c.RequestTimeout > 0 {
		ctx2, cancel := context.WithTimeout(ctx, c.RequestTimeout)
		defer cancel()
		err = db.SelectContext(ctx2, &jobs, sql, args...)
	} else {
		err = db.SelectContext(ctx, &jobs, sql, args...)
	}
	return jobs, err
}

// CountBatchJobs returns the total count of jobs matching the criteria.
func (c *Client) CountBatchJobs(ctx context.Context, query sqrl.Sqlizer) (int, error) {
	db, err := c.getDB()
	if err != nil {
		return 0, err
	}
	builder := sqrl.Select("COUNT(*)").PlaceholderFormat(sqrl.Dollar).From(TBatchJob)
	if query != nil {
		builder = builder.Where(query)
	}
	sql, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}
	var cnt int
	err = db.GetContext(ctx, &cnt, sql, args...)
	return cnt, err
}

// CountQueueDepth counts non-terminal jobs, the admission-control population.
func (c *Client) CountQueueDepth(ctx context.Context) (int, error) {
	tags := GetBatchJobFieldTags()
	return c.CountBatchJobs(ctx, sqrl.Eq{GetFieldTag(tags, "Status"): nonTerminalStatuses()})
}

// UpdateBatchJobStatus flips a job's status guarded by the set of states the
// transition is legal from, updating extra columns in the same statement.
// It returns false without error when the guard did not match, which callers
// treat as losing a race with a concurrent transition.
func (c *Client) UpdateBatchJobStatus(ctx context.Context, batchId string, from []string, to string,
	extra map[string]interface{}) (bool, error) {
	db, err := c.getDB()
	if err != nil {
		return false, err
	}
	tags := GetBatchJobFieldTags()
	builder := sqrl.Update(TBatchJob).PlaceholderFormat(sqrl.Dollar).
		Set(GetFieldTag(tags, "Status"), to)
	for col, val := range extra {
		builder = builder.Set(col, val)
	}
	builder = builder.Where(sqrl.And{
		sqrl.Eq{GetFieldTag(tags, "BatchId"): batchId},
		sqrl.Eq{GetFieldTag(tags, "Status"): from},
	})
	sql, args, err := builder.ToSql()
	if err != nil {
		return false, err
	}
	result, err := db.ExecContext(ctx, sql, args...)
	if err != nil {
		klog.ErrorS(err, "failed to update batch job status", "batchId", batchId, "to", to)
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

// ApplyChunkProgress applies one chunk's counter deltas, throughput and ETA
// in a single statement, guarded so that progress never lands on a job that
// has already left the processing states.
func (c *Client) ApplyChunkProgress(ctx context.Context, batchId string, completedDelta, failedDelta, tokensDelta int64,
	throughputTps float64, estimatedCompletionAt time.Time) (*BatchJob, error) {
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}
	cmd := fmt.Sprintf(`UPDATE %s SET
			completed_requests = completed_requests + $2,
			failed_requests = failed_requests + $3,
			tokens_processed = tokens_processed + $4,
			throughput_tps = $5,
			estimated_completion_at = $6,
			last_progress_at = NOW()
		WHERE batch_id = $1 AND status IN ('%s', '%s')
		RETURNING *`,
		TBatchJob, apis.BatchStatusInProgress, apis.BatchStatusCancelling)
	var jobs []*BatchJob
	err = db.SelectContext(ctx, &jobs, cmd, batchId, completedDelta, failedDelta, tokensDelta,
		dbutils.NullFloat64(throughputTps), dbutils.NullTime(estimatedCompletionAt))
	if err != nil {
		klog.ErrorS(err, "failed to apply chunk progress", "batchId", batchId)
		return nil, err
	}
	if len(jobs) == 0 {
		// The job moved to a state that no longer accepts progress, the
		// caller re-reads it to observe cancel/expiry.
		return c.GetBatchJob(ctx, batchId)
	}
	return jobs[0], nil
}

// SetBatchJobTotalRequests stamps the request total once input validation
// has counted the lines.
func (c *Client) SetBatchJobTotalRequests(ctx context.Context, batchId string, total int64) error {
	db, err := c.getDB()
	if err != nil {
		return err
	}
	cmd := fmt.Sprintf(`UPDATE %s SET total_requests=$2 WHERE batch_id=$1`, TBatchJob)
	_, err = db.ExecContext(ctx, cmd, batchId, total)
	if err != nil {
		klog.ErrorS(err, "failed to set total requests", "batchId", batchId)
	}
	return err
}

// MarkExpiredBatchJobs transitions every non-terminal job past its expiry to
// expired and returns how many were swept.
func (c *Client) MarkExpiredBatchJobs(ctx context.Context) (int64, error) {
	db, err := c.getDB()
	if err != nil {
		return 0, err
	}
	cmd := fmt.Sprintf(`UPDATE %s SET status='%s', terminal_at=NOW(), error_code='%s',
			error_message='completion window elapsed before the batch finished'
		WHERE status IN ('%s', '%s', '%s', '%s') AND expires_at IS NOT NULL AND expires_at < NOW()`,
		TBatchJob, apis.BatchStatusExpired, batcherrors.Timeout,
		apis.BatchStatusValidating, apis.BatchStatusInProgress,
		apis.BatchStatusFinalizing, apis.BatchStatusCancelling)
	result, err := db.ExecContext(ctx, cmd)
	if err != nil {
		klog.ErrorS(err, "failed to mark expired batch jobs")
		return 0, err
	}
	n, _ := result.RowsAffected()
	return n, nil
}

// RefreshQueuePositions recomputes queue_position for waiting jobs in one
// statement, following dequeue order. Running and terminal jobs get NULL.
func (c *Client) RefreshQueuePositions(ctx context.Context) error {
	db, err := c.getDB()
	if err != nil {
		return err
	}
	cmd := fmt.Sprintf(`UPDATE %s AS j SET queue_position = ranked.pos
		FROM (
			SELECT batch_id, ROW_NUMBER() OVER (ORDER BY priority DESC, created_at ASC) AS pos
			FROM %s WHERE status = '%s'
		) AS ranked
		WHERE j.batch_id = ranked.batch_id`, TBatchJob, TBatchJob, apis.BatchStatusValidating)
	if _, err = db.ExecContext(ctx, cmd); err != nil {
		klog.ErrorS(err, "failed to refresh queue positions")
		return err
	}
	cmd = fmt.Sprintf(`UPDATE %s SET queue_position = NULL WHERE status != '%s' AND queue_position IS NOT NULL`,
		TBatchJob, apis.BatchStatusValidating)
	if _, err = db.ExecContext(ctx, cmd); err != nil {
		klog.ErrorS(err, "failed to clear queue positions")
		return err
	}
	return nil
}

// CancelBatchJob applies the cooperative cancel contract: a validating job
// goes straight to cancelled, a running job is flagged cancelling for the
// worker to observe at the next chunk boundary, and terminal jobs refuse.
func (c *Client) CancelBatchJob(ctx context.Context, batchId string) (*BatchJob, error) {
	job, err := c.GetBatchJob(ctx, batchId)
	if err != nil {
		return nil, err
	}
	status := apis.BatchStatus(job.Status)
	switch {
	case status.IsFinal():
		return nil, batcherrors.NewAlreadyTerminal(fmt.Sprintf("batch %s is %s", batchId, job.Status))
	case status == apis.BatchStatusCancelling:
		return job, nil
	case status == apis.BatchStatusValidating:
		tags := GetBatchJobFieldTags()
		ok, err := c.UpdateBatchJobStatus(ctx, batchId,
			[]string{apis.BatchStatusValidating.String()}, apis.BatchStatusCancelled.String(),
			map[string]interface{}{
				GetFieldTag(tags, "TerminalAt"):   time.Now().UTC(),
				GetFieldTag(tags, "CancellingAt"): time.Now().UTC(),
			})
		if err != nil {
			return nil, err
		}
		if !ok {
			// Lost the race with the worker's claim, fall through to the
			// cooperative path.
			return c.CancelBatchJob(ctx, batchId)
		}
	default:
		tags := GetBatchJobFieldTags()
		ok, err := c.UpdateBatchJobStatus(ctx, batchId,
			[]string{apis.BatchStatusInProgress.String(), apis.BatchStatusFinalizing.String()},
			apis.BatchStatusCancelling.String(),
			map[string]interface{}{
				GetFieldTag(tags, "CancellingAt"): time.Now().UTC(),
			})
		if err != nil {
			return nil, err
		}
		if !ok {
			return c.CancelBatchJob(ctx, batchId)
		}
	}
	return c.GetBatchJob(ctx, batchId)
}
