/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package resulthandler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gotest.tools/assert"

	"github.com/AMD-AGI/Primus-Batch/pkg/apis"
	"github.com/AMD-AGI/Primus-Batch/pkg/utils/httpclient"
	jsonutils "github.com/AMD-AGI/Primus-Batch/pkg/utils/json"
)

func testCompletion() *Completion {
	return &Completion{
		Batch: &apis.Batch{
			ID:           "batch-abc",
			OutputFileID: "file-out",
			RequestCounts: apis.BatchRequestCounts{
				Total:     10,
				Completed: 9,
				Failed:    1,
			},
			Metadata: map[string]string{"team": "eval"},
		},
		OutputBlobRef: "files/file-out",
	}
}

func webhookFor(url string) *WebhookHandler {
	return &WebhookHandler{
		url:     url,
		secret:  "topsecret",
		timeout: 2 * time.Second,
		client:  httpclient.NewHttpClient(),
	}
}

func TestWebhookDeliverySignedPayload(t *testing.T) {
	var gotBody []byte
	var gotSignature string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotSignature = r.Header.Get(SignatureHeader)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	h := webhookFor(srv.URL)
	assert.Equal(t, h.Handle(context.Background(), testCompletion()), OutcomeOk)

	var event WebhookEvent
	assert.NilError(t, jsonutils.Unmarshal(gotBody, &event))
	assert.Equal(t, event.Event, "batch.completed")
	assert.Equal(t, event.BatchID, "batch-abc")
	assert.Equal(t, event.OutputFileID, "file-out")
	assert.Equal(t, event.RequestCounts.Completed, int64(9))
	assert.Equal(t, gotSignature, Sign(gotBody, "topsecret"))
}

func TestWebhookOutcomeByStatus(t *testing.T) {
	cases := []struct {
		status  int
		outcome Outcome
	}{
		{http.StatusOK, OutcomeOk},
		{http.StatusAccepted, OutcomeOk},
		{http.StatusRequestTimeout, OutcomeRetryable},
		{http.StatusTooManyRequests, OutcomeRetryable},
		{http.StatusInternalServerError, OutcomeRetryable},
		{http.StatusBadGateway, OutcomeRetryable},
		{http.StatusBadRequest, OutcomePermanent},
		{http.StatusNotFound, OutcomePermanent},
		{http.StatusGone, OutcomePermanent},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		h := webhookFor(srv.URL)
		assert.Equal(t, h.Handle(context.Background(), testCompletion()), tc.outcome,
			"status %d", tc.status)
		srv.Close()
	}
}

func TestWebhookConnectionFailureIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	h := webhookFor(srv.URL)
	assert.Equal(t, h.Handle(context.Background(), testCompletion()), OutcomeRetryable)
}

func TestWebhookEnabled(t *testing.T) {
	assert.Equal(t, webhookFor("http://example.com/hook").Enabled(testCompletion()), true)
	assert.Equal(t, webhookFor("").Enabled(testCompletion()), false)
}
