/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"context"
	"fmt"

	"k8s.io/klog/v2"
)

const (
	TSystemStatus = "system_status"

	// systemStatusId pins the singleton row.
	systemStatusId = 1
)

var (
	getSystemStatusCmd = fmt.Sprintf(`SELECT * FROM %s WHERE id = %d LIMIT 1`, TSystemStatus, systemStatusId)
)

// GetSystemStatus returns the singleton system row. A missing row reads as
// "no maintenance" so a fresh database behaves sensibly.
func (c *Client) GetSystemStatus(ctx context.Context) (*SystemStatus, error) {
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}
	var rows []*SystemStatus
	if err = db.SelectContext(ctx, &rows, getSystemStatusCmd); err != nil {
		klog.ErrorS(err, "failed to select system status")
		return nil, err
	}
	if len(rows) == 0 {
		return &SystemStatus{Id: systemStatusId}, nil
	}
	return rows[0], nil
}

// SetMaintenance toggles maintenance mode. Enabling stamps the start time;
// disabling clears reason and ETA.
func (c *Client) SetMaintenance(ctx context.Context, enabled bool, reason string, etaMinutes int) error {
	db, err := c.getDB()
	if err != nil {
		return err
	}
	var cmd string
	var args []interface{}
	if enabled {
		cmd = fmt.Sprintf(`INSERT INTO %s (id, maintenance_mode, maintenance_reason, maintenance_started_at, maintenance_eta_minutes, updated_at)
			VALUES (%d, true, $1, NOW(), $2, NOW())
			ON CONFLICT (id) DO UPDATE SET
				maintenance_mode = true,
				maintenance_reason = EXCLUDED.maintenance_reason,
				maintenance_started_at = NOW(),
				maintenance_eta_minutes = EXCLUDED.maintenance_eta_minutes,
				updated_at = NOW()`, TSystemStatus, systemStatusId)
		args = []interface{}{reason, etaMinutes}
	} else {
		cmd = fmt.Sprintf(`INSERT INTO %s (id, maintenance_mode, updated_at)
			VALUES (%d, false, NOW())
			ON CONFLICT (id) DO UPDATE SET
				maintenance_mode = false,
				maintenance_reason = NULL,
				maintenance_started_at = NULL,
				maintenance_eta_minutes = NULL,
				updated_at = NOW()`, TSystemStatus, systemStatusId)
	}
	if _, err = db.ExecContext(ctx, cmd, args...); err != nil {
		klog.ErrorS(err, "failed to set maintenance mode", "enabled", enabled)
		return err
	}
	return nil
}
