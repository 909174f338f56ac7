/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package resulthandler

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-resty/resty/v2"
	"k8s.io/klog/v2"

	"github.com/AMD-AGI/Primus-Batch/pkg/apis"
	"github.com/AMD-AGI/Primus-Batch/pkg/batchfile"
	"github.com/AMD-AGI/Primus-Batch/pkg/blob"
	"github.com/AMD-AGI/Primus-Batch/pkg/config"
	jsonutils "github.com/AMD-AGI/Primus-Batch/pkg/utils/json"
)

// importBatchSize bounds one POST to the downstream store.
const importBatchSize = 100

// DownstreamRecord is one result row imported into the downstream store.
// BatchID and CustomID together are the idempotency key: re-imports after a
// retry or worker resume overwrite rather than duplicate.
type DownstreamRecord struct {
	BatchID  string          `json:"batch_id"`
	CustomID string          `json:"custom_id"`
	Response json.RawMessage `json:"response,omitempty"`
	Error    json.RawMessage `json:"error,omitempty"`
}

type downstreamImportRequest struct {
	Records []DownstreamRecord `json:"records"`
}

// DownstreamHandler streams completed results into an external task store.
type DownstreamHandler struct {
	enabled bool
	client  *resty.Client
	store   blob.Store
}

func NewDownstreamHandler(store blob.Store) *DownstreamHandler {
	client := resty.New().
		SetBaseURL(config.GetDownstreamUrl()).
		SetTimeout(time.Duration(config.GetDownstreamTimeoutSecond()) * time.Second).
		SetHeader("Content-Type", "application/json")
	if key := config.GetDownstreamApiKey(); key != "" {
		client.SetAuthToken(key)
	}
	return &DownstreamHandler{
		enabled: config.IsDownstreamEnable() && config.GetDownstreamUrl() != "",
		client:  client,
		store:   store,
	}
}

func (h *DownstreamHandler) Name() string {
	return "downstream_import"
}

func (h *DownstreamHandler) Enabled(completion *Completion) bool {
	return h.enabled && completion.OutputBlobRef != ""
}

func (h *DownstreamHandler) Handle(ctx context.Context, completion *Completion) Outcome {
	batch := completion.Batch
	reader, err := h.store.Get(ctx, completion.OutputBlobRef)
	if err != nil {
		klog.ErrorS(err, "failed to open output blob for downstream import", "batchId", batch.ID)
		return OutcomeRetryable
	}
	defer reader.Close()

	records := make([]DownstreamRecord, 0, importBatchSize)
	outcome := OutcomeOk
	err = batchfile.ReadLines(reader, func(index int, raw []byte) error {
		var line apis.BatchOutputLine
		if err := jsonutils.Unmarshal(raw, &line); err != nil {
			// A malformed output line is our bug, skip it rather than
			// blocking the import.
			klog.ErrorS(err, "skipping malformed output line", "batchId", batch.ID, "index", index)
			return nil
		}
		record := DownstreamRecord{
			BatchID:  batch.ID,
			CustomID: line.CustomID,
		}
		if line.Response != nil {
			record.Response = line.Response.Body
		}
		if line.Error != nil {
			record.Error = jsonutils.MarshalSilently(line.Error)
		}
		records = append(records, record)
		if len(records) == importBatchSize {
			if o := h.post(ctx, records); o != OutcomeOk {
				outcome = o
				return errStopImport
			}
			records = records[:0]
		}
		return nil
	})
	if err != nil && err != errStopImport {
		klog.ErrorS(err, "failed to read output blob", "batchId", batch.ID)
		return OutcomeRetryable
	}
	if outcome != OutcomeOk {
		return outcome
	}
	if len(records) > 0 {
		return h.post(ctx, records)
	}
	return OutcomeOk
}

var errStopImport = errors.New("downstream import aborted")

func (h *DownstreamHandler) post(ctx context.Context, records []DownstreamRecord) Outcome {
	rsp, err := h.client.R().
		SetContext(ctx).
		SetBody(downstreamImportRequest{Records: records}).
		Post("/v1/import")
	if err != nil {
		return OutcomeRetryable
	}
	if rsp.IsSuccess() {
		return OutcomeOk
	}
	if rsp.StatusCode() >= 500 || rsp.StatusCode() == 429 {
		return OutcomeRetryable
	}
	return OutcomePermanent
}
