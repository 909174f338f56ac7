/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"context"
	"fmt"
	"time"

	batcherrors "github.com/AMD-AGI/Primus-Batch/pkg/errors"
)

const (
	TAuditLog = "audit_logs"
)

var (
	insertAuditLogFormat = `INSERT INTO ` + TAuditLog + ` (%s) VALUES (%s)`
)

// InsertAuditLog inserts a new audit log entry into the database.
func (c *Client) InsertAuditLog(ctx context.Context, auditLog *AuditLog) error {
	if auditLog == nil {
		return batcherrors.NewValidationError("the input is empty")
	}
	db, err := c.getDB()
	if err != nil {
		return err
	}
	_, err = db.NamedExecContext(ctx, generateCommand(*auditLog, insertAuditLogFormat, "id"), auditLog)
	if err != nil {
		return fmt.Errorf("failed to insert audit_log to db: %v", err)
	}
	return nil
}

// DeleteAuditLogsBefore drops audit rows older than the cutoff.
func (c *Client) DeleteAuditLogsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	db, err := c.getDB()
	if err != nil {
		return 0, err
	}
	cmd := fmt.Sprintf(`DELETE FROM %s WHERE created_at < $1`, TAuditLog)
	result, err := db.ExecContext(ctx, cmd, cutoff)
	if err != nil {
		return 0, err
	}
	n, _ := result.RowsAffected()
	return n, nil
}
