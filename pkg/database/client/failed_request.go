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

	batcherrors "github.com/AMD-AGI/Primus-Batch/pkg/errors"
)

const (
	TFailedRequest = "failed_requests"
)

var (
	insertFailedRequestFormat = `INSERT INTO ` + TFailedRequest + ` (%s) VALUES (%s)`
)

// InsertFailedRequest dead-letters one request line.
func (c *Client) InsertFailedRequest(ctx context.Context, fr *FailedRequest) error {
	if fr == nil {
		return batcherrors.NewValidationError("the input is empty")
	}
	db, err := c.getDB()
	if err != nil {
		return err
	}
	_, err = db.NamedExecContext(ctx, generateCommand(*fr, insertFailedRequestFormat, "id"), fr)
	if err != nil {
		klog.ErrorS(err, "failed to insert failed request", "batchId", fr.BatchId, "customId", fr.CustomId)
	}
	return err
}

// SelectFailedRequests returns the dead-letter rows of one batch in request
// order, feeding the errors file aggregation at finalize.
func (c *Client) SelectFailedRequests(ctx context.Context, batchId string) ([]*FailedRequest, error) {
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}
	tags := GetFailedRequestFieldTags()
	sql, args, err := sqrl.Select("*").PlaceholderFormat(sqrl.Dollar).From(TFailedRequest).
		Where(sqrl.Eq{GetFieldTag(tags, "BatchId"): batchId}).
		OrderBy(GetFieldTag(tags, "RequestIndex") + " " + ASC).ToSql()
	if err != nil {
		return nil, err
	}
	var rows []*FailedRequest
	err = db.SelectContext(ctx, &rows, sql, args...)
	return rows, err
}

// CountFailedRequests counts dead-letter rows of one batch.
func (c *Client) CountFailedRequests(ctx context.Context, batchId string) (int, error) {
	db, err := c.getDB()
	if err != nil {
		return 0, err
	}
	tags := GetFailedRequestFieldTags()
	sql, args, err := sqrl.Select("COUNT(*)").PlaceholderFormat(sqrl.Dollar).From(TFailedRequest).
		Where(sqrl.Eq{GetFieldTag(tags, "BatchId"): batchId}).ToSql()
	if err != nil {
		return 0, err
	}
	var cnt int
	err = db.GetContext(ctx, &cnt, sql, args...)
	return cnt, err
}

// DeleteFailedRequestsBefore drops dead-letter rows older than the cutoff,
// driven by the retention sweeper.
func (c *Client) DeleteFailedRequestsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	db, err := c.getDB()
	if err != nil {
		return 0, err
	}
	cmd := fmt.Sprintf(`DELETE FROM %s WHERE last_attempt_at < $1`, TFailedRequest)
	result, err := db.ExecContext(ctx, cmd, cutoff)
	if err != nil {
		klog.ErrorS(err, "failed to delete old failed requests")
		return 0, err
	}
	n, _ := result.RowsAffected()
	return n, nil
}
