/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package blob

import (
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/assert"
)

func TestPartWriterAppendAndFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch-1.output.jsonl")
	w, err := OpenPartWriter(path)
	assert.NilError(t, err)
	assert.Equal(t, w.Lines(), 0)

	assert.NilError(t, w.AppendLine([]byte(`{"custom_id":"a"}`)))
	assert.NilError(t, w.AppendLine([]byte(`{"custom_id":"b"}`)))
	assert.NilError(t, w.Flush())
	assert.Equal(t, w.Lines(), 2)
	assert.NilError(t, w.Close())

	data, err := os.ReadFile(path)
	assert.NilError(t, err)
	assert.Equal(t, string(data), "{\"custom_id\":\"a\"}\n{\"custom_id\":\"b\"}\n")
}

func TestPartWriterResume(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch-2.output.jsonl")
	w, err := OpenPartWriter(path)
	assert.NilError(t, err)
	assert.NilError(t, w.AppendLine([]byte(`{"custom_id":"a"}`)))
	assert.NilError(t, w.Flush())
	assert.NilError(t, w.Close())

	// Reopen as a restarted worker would: existing lines are the resume point
	// and appends land after them.
	w, err = OpenPartWriter(path)
	assert.NilError(t, err)
	assert.Equal(t, w.Lines(), 1)
	assert.NilError(t, w.AppendLine([]byte(`{"custom_id":"b"}`)))
	assert.NilError(t, w.Flush())
	assert.Equal(t, w.Lines(), 2)
	assert.NilError(t, w.Close())

	data, err := os.ReadFile(path)
	assert.NilError(t, err)
	assert.Equal(t, string(data), "{\"custom_id\":\"a\"}\n{\"custom_id\":\"b\"}\n")
}

func TestPartWriterResetDropsUnflushedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch-5.output.jsonl")
	w, err := OpenPartWriter(path)
	assert.NilError(t, err)
	assert.NilError(t, w.AppendLine([]byte(`{"custom_id":"a"}`)))
	assert.NilError(t, w.AppendLine([]byte(`{"custom_id":"b"}`)))
	assert.NilError(t, w.Flush())

	// A chunk that fails after appending rolls back to the flush boundary.
	assert.NilError(t, w.AppendLine([]byte(`{"custom_id":"c"}`)))
	assert.NilError(t, w.AppendLine([]byte(`{"custom_id":"d"}`)))
	assert.NilError(t, w.Reset())
	assert.Equal(t, w.Lines(), 2)

	// The retried chunk lands cleanly after the committed lines.
	assert.NilError(t, w.AppendLine([]byte(`{"custom_id":"c2"}`)))
	assert.NilError(t, w.Flush())
	assert.Equal(t, w.Lines(), 3)
	assert.NilError(t, w.Close())

	data, err := os.ReadFile(path)
	assert.NilError(t, err)
	assert.Equal(t, string(data), "{\"custom_id\":\"a\"}\n{\"custom_id\":\"b\"}\n{\"custom_id\":\"c2\"}\n")
}

func TestPartWriterResetTruncatesSpilledBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch-6.output.jsonl")
	w, err := OpenPartWriter(path)
	assert.NilError(t, err)
	assert.NilError(t, w.AppendLine([]byte(`{"custom_id":"a"}`)))
	assert.NilError(t, w.Flush())

	// A line bigger than the buffer spills straight into the file; Reset
	// must truncate it away, not just drop the buffer.
	big := make([]byte, 512*1024)
	for i := range big {
		big[i] = 'x'
	}
	assert.NilError(t, w.AppendLine(big))
	assert.NilError(t, w.Reset())
	assert.Equal(t, w.Lines(), 1)
	assert.NilError(t, w.Close())

	data, err := os.ReadFile(path)
	assert.NilError(t, err)
	assert.Equal(t, string(data), "{\"custom_id\":\"a\"}\n")
}

func TestPartWriterDiscard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch-3.output.jsonl")
	w, err := OpenPartWriter(path)
	assert.NilError(t, err)
	assert.NilError(t, w.AppendLine([]byte("x")))
	assert.NilError(t, w.Discard())
	_, err = os.Stat(path)
	assert.Equal(t, os.IsNotExist(err), true)

	// Discarding an already-missing file is not an error.
	w, err = OpenPartWriter(path)
	assert.NilError(t, err)
	assert.NilError(t, os.Remove(path))
	assert.NilError(t, w.Discard())
}

func TestPartWriterCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scratch", "nested", "batch-4.output.jsonl")
	w, err := OpenPartWriter(path)
	assert.NilError(t, err)
	assert.NilError(t, w.Close())
}
