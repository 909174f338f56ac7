/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package blob

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
)

// PartWriter accumulates JSONL output lines in a scratch file while a batch
// runs. Flush is called at every chunk boundary and fsyncs, so after a crash
// the file holds exactly the lines of fully committed chunks; the line count
// is the resume point. Publish streams the finished file into the blob store.
type PartWriter struct {
	path  string
	file  *os.File
	buf   *bufio.Writer
	lines int

	// state as of the last Flush, the rollback point for Reset
	committedLines int
	committedSize  int64
}

// OpenPartWriter opens (or creates) the scratch file in append mode and
// counts the lines already present from a previous run.
func OpenPartWriter(path string) (*PartWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, err
	}
	lines, err := countFileLines(path)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0640)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &PartWriter{
		path:           path,
		file:           f,
		buf:            bufio.NewWriterSize(f, 256*1024),
		lines:          lines,
		committedLines: lines,
		committedSize:  info.Size(),
	}, nil
}

// AppendLine writes one JSONL record. The trailing newline is added here.
func (w *PartWriter) AppendLine(raw []byte) error {
	if _, err := w.buf.Write(raw); err != nil {
		return err
	}
	if err := w.buf.WriteByte('\n'); err != nil {
		return err
	}
	w.lines++
	return nil
}

// Flush commits buffered lines to stable storage. Call it only at chunk
// boundaries; everything flushed is guaranteed to survive a crash.
func (w *PartWriter) Flush() error {
	if err := w.buf.Flush(); err != nil {
		return err
	}
	if err := w.file.Sync(); err != nil {
		return err
	}
	info, err := w.file.Stat()
	if err != nil {
		return err
	}
	w.committedLines = w.lines
	w.committedSize = info.Size()
	return nil
}

// Reset discards everything appended since the last Flush, restoring the
// file to its last durable chunk boundary. A retried chunk starts clean.
// Large chunks can spill past the buffer into the file, so the file itself
// is truncated back; O_APPEND keeps later writes landing at the new end.
func (w *PartWriter) Reset() error {
	w.buf.Reset(w.file)
	if err := w.file.Truncate(w.committedSize); err != nil {
		return err
	}
	w.lines = w.committedLines
	return nil
}

// Lines reports how many lines the file holds, including pre-existing ones.
func (w *PartWriter) Lines() int {
	return w.lines
}

func (w *PartWriter) Close() error {
	if err := w.buf.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// Publish flushes, uploads the scratch file to the store under ref, and
// returns its size in bytes. The scratch file is left in place; Discard
// removes it once the batch row points at the published blob.
func (w *PartWriter) Publish(ctx context.Context, store Store, ref string) (int64, error) {
	if err := w.Flush(); err != nil {
		return 0, err
	}
	f, err := os.Open(w.path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	if err = store.Put(ctx, ref, f); err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Discard closes the writer and removes the scratch file.
func (w *PartWriter) Discard() error {
	w.Close()
	if err := os.Remove(w.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// countFileLines counts non-blank lines; a missing file counts as zero.
func countFileLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 4<<20)
	n := 0
	for scanner.Scan() {
		if len(bytes.TrimSpace(scanner.Bytes())) > 0 {
			n++
		}
	}
	if err = scanner.Err(); err != nil {
		return 0, err
	}
	return n, nil
}
