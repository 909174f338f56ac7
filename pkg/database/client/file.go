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

	dbutils "github.com/AMD-AGI/Primus-Batch/pkg/database/utils"
	batcherrors "github.com/AMD-AGI/Primus-Batch/pkg/errors"
)

const (
	TFile = "files"
)

var (
	getFileCmd       = fmt.Sprintf(`SELECT * FROM %s WHERE file_id = $1 AND is_deleted = false LIMIT 1`, TFile)
	insertFileFormat = `INSERT INTO ` + TFile + ` (%s) VALUES (%s)`
)

// InsertFile inserts a new file row. Files are immutable after insertion.
func (c *Client) InsertFile(ctx context.Context, file *File) error {
	if file == nil {
		return batcherrors.NewValidationError("the input is empty")
	}
	// The insert binds every column, so created_at must be stamped here or
	// the NOT NULL default never applies.
	if !file.CreatedAt.Valid {
		file.CreatedAt = dbutils.NullTime(time.Now().UTC())
	}
	db, err := c.getDB()
	if err != nil {
		return err
	}
	_, err = db.NamedExecContext(ctx, generateCommand(*file, insertFileFormat, "id"), file)
	if err != nil {
		klog.ErrorS(err, "failed to insert file db", "fileId", file.FileId)
	}
	return err
}

// GetFile retrieves a file by its identifier, excluding deleted rows.
func (c *Client) GetFile(ctx context.Context, fileId string) (*File, error) {
	if fileId == "" {
		return nil, batcherrors.NewValidationError("fileId is empty")
	}
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}
	var files []*File
	if err = db.SelectContext(ctx, &files, getFileCmd, fileId); err != nil {
		klog.ErrorS(err, "failed to select file", "fileId", fileId)
		return nil, err
	}
	if len(files) == 0 {
		return nil, batcherrors.NewNotFound(fmt.Sprintf("file %s", fileId))
	}
	return files[0], nil
}

// SelectFiles retrieves multiple file records.
func (c *Client) SelectFiles(ctx context.Context, query sqrl.Sqlizer, orderBy []string, limit, offset int) ([]*File, error) {
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}
	builder := sqrl.Select("*").PlaceholderFormat(sqrl.Dollar).From(TFile)
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
	var files []*File
	if c.RequestTimeout > 0 {
		ctx2, cancel := context.WithTimeout(ctx, c.RequestTimeout)
		defer cancel()
		err = db.SelectContext(ctx2, &files, sql, args...)
	} else {
		err = db.SelectContext(ctx, &files, sql, args...)
	}
	return files, err
}

// SetFileDeleted marks a file row as deleted. The blob itself is removed by
// the caller; blob removal is best-effort and never blocks the row update.
func (c *Client) SetFileDeleted(ctx context.Context, fileId string) error {
	db, err := c.getDB()
	if err != nil {
		return err
	}
	cmd := fmt.Sprintf(`UPDATE %s SET is_deleted=true WHERE file_id=$1`, TFile)
	result, err := db.ExecContext(ctx, cmd, fileId)
	if err != nil {
		klog.ErrorS(err, "failed to update file db", "fileId", fileId)
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return batcherrors.NewNotFound(fmt.Sprintf("file %s", fileId))
	}
	return nil
}

// CountActiveJobsByFile counts non-terminal batch jobs referencing fileId as
// input. Deletion of a referenced file is refused while this is non-zero.
func (c *Client) CountActiveJobsByFile(ctx context.Context, fileId string) (int, error) {
	db, err := c.getDB()
	if err != nil {
		return 0, err
	}
	tags := GetBatchJobFieldTags()
	query := sqrl.And{
		sqrl.Eq{GetFieldTag(tags, "InputFileId"): fileId},
		sqrl.Eq{GetFieldTag(tags, "Status"): nonTerminalStatuses()},
	}
	sql, args, err := sqrl.Select("COUNT(*)").PlaceholderFormat(sqrl.Dollar).From(TBatchJob).Where(query).ToSql()
	if err != nil {
		return 0, err
	}
	var cnt int
	err = db.GetContext(ctx, &cnt, sql, args...)
	return cnt, err
}

// SweepExpiredFiles marks files past their expiry as deleted and returns the
// affected blob refs so the caller can clean up storage.
func (c *Client) SweepExpiredFiles(ctx context.Context) ([]string, error) {
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}
	cmd := fmt.Sprintf(`UPDATE %s SET is_deleted=true
		WHERE is_deleted=false AND expires_at IS NOT NULL AND expires_at < NOW()
		RETURNING blob_ref`, TFile)
	var refs []string
	if err = db.SelectContext(ctx, &refs, cmd); err != nil {
		klog.ErrorS(err, "failed to sweep expired files")
		return nil, err
	}
	return refs, nil
}
