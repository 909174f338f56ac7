/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"context"
	"strings"
	"testing"

	"gotest.tools/assert"
)

func TestGetFieldTag(t *testing.T) {
	tags := GetBatchJobFieldTags()
	assert.Equal(t, GetFieldTag(tags, "BatchId"), "batch_id")
	assert.Equal(t, GetFieldTag(tags, "TerminalAt"), "terminal_at")
	assert.Equal(t, GetFieldTag(tags, "OutputFileId"), "output_file_id")
	assert.Equal(t, GetFieldTag(tags, "ErrorCode"), "error_code")
	assert.Equal(t, GetFieldTag(tags, "nosuchfield"), "")

	fileTags := GetFileFieldTags()
	assert.Equal(t, GetFieldTag(fileTags, "BlobRef"), "blob_ref")
	assert.Equal(t, GetFieldTag(fileTags, "LineCount"), "line_count")
}

func TestGenerateCommandSkipsIgnoredColumn(t *testing.T) {
	cmd := generateCommand(File{}, `INSERT INTO files (%s) VALUES (%s)`, "id")
	assert.Assert(t, !strings.Contains(cmd, "(id,"))
	assert.Assert(t, strings.Contains(cmd, "file_id"))
	assert.Assert(t, strings.Contains(cmd, ":file_id"))
	assert.Assert(t, strings.Contains(cmd, "blob_ref"))
}

// The generated INSERT binds every tagged column, including created_at, so
// inserts must stamp it rather than rely on the column default.
func TestInsertStampsCreatedAt(t *testing.T) {
	c := &Client{}
	ctx := context.Background()

	file := &File{FileId: "file-x", Purpose: "batch_input", BlobRef: "file-x"}
	_ = c.InsertFile(ctx, file)
	assert.Equal(t, file.CreatedAt.Valid, true)
	assert.Assert(t, !file.CreatedAt.Time.IsZero())

	job := &BatchJob{BatchId: "batch-x", InputFileId: "file-x", Status: "validating"}
	_ = c.InsertBatchJob(ctx, job)
	assert.Equal(t, job.CreatedAt.Valid, true)
	assert.Assert(t, !job.CreatedAt.Time.IsZero())
}

func TestHeartbeatTagsCoverGpuColumns(t *testing.T) {
	tags := GetWorkerHeartbeatFieldTags()
	for _, field := range []string{"GpuMemoryUsedBytes", "GpuMemoryTotalBytes", "GpuTemperatureC", "GpuUtilizationPct"} {
		assert.Assert(t, GetFieldTag(tags, field) != "", "field %s", field)
	}
}
