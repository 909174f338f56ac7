/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package resulthandler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"k8s.io/klog/v2"

	"github.com/AMD-AGI/Primus-Batch/pkg/apis"
	"github.com/AMD-AGI/Primus-Batch/pkg/config"
	"github.com/AMD-AGI/Primus-Batch/pkg/utils/httpclient"
	jsonutils "github.com/AMD-AGI/Primus-Batch/pkg/utils/json"
)

const (
	// SignatureHeader carries the HMAC of the webhook body.
	SignatureHeader = "X-Webhook-Signature"

	eventBatchCompleted = "batch.completed"
)

// WebhookEvent is the payload POSTed to the configured webhook URL.
type WebhookEvent struct {
	Event         string                  `json:"event"`
	BatchID       string                  `json:"batch_id"`
	OutputFileID  string                  `json:"output_file_id"`
	ErrorFileID   string                  `json:"error_file_id,omitempty"`
	RequestCounts apis.BatchRequestCounts `json:"request_counts"`
	Metadata      map[string]string       `json:"metadata,omitempty"`
}

// WebhookHandler notifies an external URL of batch completion, signed with a
// shared secret so the receiver can authenticate the sender.
type WebhookHandler struct {
	url     string
	secret  string
	timeout time.Duration
	client  httpclient.Interface
}

func NewWebhookHandler() *WebhookHandler {
	return &WebhookHandler{
		url:     config.GetWebhookUrl(),
		secret:  config.GetWebhookSecret(),
		timeout: time.Duration(config.GetWebhookTimeoutSecond()) * time.Second,
		client:  httpclient.NewHttpClient(),
	}
}

func (h *WebhookHandler) Name() string {
	return "webhook"
}

func (h *WebhookHandler) Enabled(completion *Completion) bool {
	return h.url != ""
}

// Handle delivers one attempt. 2xx succeeds; 408, 429 and 5xx are worth
// retrying; any other status is a receiver bug and permanent.
func (h *WebhookHandler) Handle(ctx context.Context, completion *Completion) Outcome {
	batch := completion.Batch
	body := jsonutils.MarshalSilently(WebhookEvent{
		Event:         eventBatchCompleted,
		BatchID:       batch.ID,
		OutputFileID:  batch.OutputFileID,
		ErrorFileID:   batch.ErrorFileID,
		RequestCounts: batch.RequestCounts,
		Metadata:      batch.Metadata,
	})

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	req, err := httpclient.BuildRequestWithContext(ctx, h.url, http.MethodPost, body,
		SignatureHeader, Sign(body, h.secret))
	if err != nil {
		return OutcomePermanent
	}
	rsp, err := h.client.Do(req)
	if err != nil {
		klog.ErrorS(err, "webhook delivery failed", "batchId", batch.ID)
		return OutcomeRetryable
	}
	if rsp.IsSuccess() {
		return OutcomeOk
	}
	klog.ErrorS(nil, "webhook rejected", "batchId", batch.ID, "status", rsp.StatusCode)
	if rsp.StatusCode == http.StatusRequestTimeout ||
		rsp.StatusCode == http.StatusTooManyRequests ||
		rsp.StatusCode >= 500 {
		return OutcomeRetryable
	}
	return OutcomePermanent
}

// Sign returns the hex HMAC-SHA256 of body under secret.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
