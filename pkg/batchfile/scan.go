/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package batchfile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/AMD-AGI/Primus-Batch/pkg/apis"
	"github.com/AMD-AGI/Primus-Batch/pkg/errors"
	jsonutils "github.com/AMD-AGI/Primus-Batch/pkg/utils/json"
)

const (
	// maxLineBytes bounds a single JSONL line. Larger lines fail validation
	// instead of exhausting memory.
	maxLineBytes = 4 << 20
)

// Summary is the outcome of validating a batch input file. Model is the
// single model shared by every line; LineCount drives total_requests.
type Summary struct {
	LineCount int
	Model     string
}

// ValidateInput scans a batch input stream line by line and enforces the
// input contract: every line parses as JSON, carries custom_id/method/url/
// body, body.model and well-formed messages; custom_ids are unique; all
// lines agree on one model; the file is non-empty and within maxLines.
// Validation is all-or-nothing: the first bad line rejects the whole file.
func ValidateInput(r io.Reader, maxLines int) (*Summary, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	summary := &Summary{}
	seen := make(map[string]struct{})
	lineNo := 0
	for scanner.Scan() {
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		lineNo++
		if maxLines > 0 && lineNo > maxLines {
			return nil, errors.NewTooLarge(fmt.Sprintf("input file exceeds %d requests", maxLines))
		}
		line, err := ParseLine(raw)
		if err != nil {
			return nil, errors.NewValidationError(fmt.Sprintf("line %d: %v", lineNo, err))
		}
		if _, dup := seen[line.CustomID]; dup {
			return nil, errors.NewDuplicateCustomId(fmt.Sprintf("line %d: custom_id %q", lineNo, line.CustomID))
		}
		seen[line.CustomID] = struct{}{}
		if summary.Model == "" {
			summary.Model = line.Body.Model
		} else if summary.Model != line.Body.Model {
			return nil, errors.NewModelMismatchInBatch(
				fmt.Sprintf("line %d uses %q, previous lines use %q", lineNo, line.Body.Model, summary.Model))
		}
		summary.LineCount = lineNo
	}
	if err := scanner.Err(); err != nil {
		if err == bufio.ErrTooLong {
			return nil, errors.NewValidationError(fmt.Sprintf("line %d exceeds %d bytes", lineNo+1, maxLineBytes))
		}
		return nil, err
	}
	if summary.LineCount == 0 {
		return nil, errors.NewValidationError("input file has no request lines")
	}
	return summary, nil
}

// ParseLine decodes and validates one input line.
func ParseLine(raw []byte) (*apis.BatchRequestLine, error) {
	var line apis.BatchRequestLine
	if err := jsonutils.Unmarshal(raw, &line); err != nil {
		return nil, fmt.Errorf("not valid JSON: %v", err)
	}
	if err := checkLine(&line); err != nil {
		return nil, err
	}
	return &line, nil
}

// checkLine enforces the per-line schema of the batch input format.
func checkLine(line *apis.BatchRequestLine) error {
	if line.CustomID == "" {
		return fmt.Errorf("custom_id is required")
	}
	if !strings.EqualFold(line.Method, "POST") {
		return fmt.Errorf("method must be POST, got %q", line.Method)
	}
	if line.URL != apis.EndpointChatCompletions {
		return fmt.Errorf("url must be %s, got %q", apis.EndpointChatCompletions, line.URL)
	}
	if line.Body.Model == "" {
		return fmt.Errorf("body.model is required")
	}
	if len(line.Body.Messages) == 0 {
		return fmt.Errorf("body.messages must not be empty")
	}
	for i, msg := range line.Body.Messages {
		switch msg.Role {
		case "system", "user", "assistant":
		default:
			return fmt.Errorf("messages[%d].role %q is not one of system|user|assistant", i, msg.Role)
		}
		if msg.Content == "" {
			return fmt.Errorf("messages[%d].content is required", i)
		}
	}
	return nil
}

// CountLines counts non-blank lines in a JSONL stream. The worker uses it on
// the partial output blob to compute the resume point after a restart.
func CountLines(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	n := 0
	for scanner.Scan() {
		if len(bytes.TrimSpace(scanner.Bytes())) > 0 {
			n++
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return n, nil
}

// ReadLines streams non-blank raw lines to fn with their zero-based index.
// fn returning an error stops the scan.
func ReadLines(r io.Reader, fn func(index int, raw []byte) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	index := 0
	for scanner.Scan() {
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		// Scanner reuses its buffer, hand out a copy.
		line := make([]byte, len(raw))
		copy(line, raw)
		if err := fn(index, line); err != nil {
			return err
		}
		index++
	}
	return scanner.Err()
}
