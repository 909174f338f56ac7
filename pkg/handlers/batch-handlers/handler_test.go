/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package batchhandlers

import (
	"bytes"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/lib/pq"
	"gotest.tools/assert"

	"github.com/AMD-AGI/Primus-Batch/pkg/apis"
	"github.com/AMD-AGI/Primus-Batch/pkg/config"
	dbclient "github.com/AMD-AGI/Primus-Batch/pkg/database/client"
	"github.com/AMD-AGI/Primus-Batch/pkg/database/client/mock"
	dbutils "github.com/AMD-AGI/Primus-Batch/pkg/database/utils"
	"github.com/AMD-AGI/Primus-Batch/pkg/errors"
	jsonutils "github.com/AMD-AGI/Primus-Batch/pkg/utils/json"
)

func init() {
	gin.SetMode(gin.TestMode)
	// Every request in the suite comes from the same client address.
	config.SetValue("ratelimit.batches_per_min", 100000)
}

func newTestRouter(client dbclient.Interface) *gin.Engine {
	e := gin.New()
	InitBatchRouters(e, NewHandler(client))
	return e
}

func doRequest(e *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(jsonutils.MarshalSilently(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func errorCodeOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var rsp apis.ErrorResponse
	assert.NilError(t, jsonutils.Unmarshal(w.Body.Bytes(), &rsp))
	return rsp.Error.Code
}

func freshHeartbeat() *dbclient.WorkerHeartbeat {
	return &dbclient.WorkerHeartbeat{
		WorkerId: "worker-1",
		Status:   apis.WorkerStatusIdle.String(),
		LastSeen: dbutils.NullTime(time.Now().UTC()),
	}
}

func inputFile() *dbclient.File {
	return &dbclient.File{
		FileId:    "file-in",
		Purpose:   apis.PurposeBatchInput,
		LineCount: 100,
		Model:     sql.NullString{String: "llama-3-8b", Valid: true},
	}
}

func validCreateRequest() apis.CreateBatchRequest {
	return apis.CreateBatchRequest{
		InputFileID:      "file-in",
		Endpoint:         apis.EndpointChatCompletions,
		CompletionWindow: "24h",
	}
}

func TestCreateBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := mock.NewMockInterface(ctrl)

	client.EXPECT().GetSystemStatus(gomock.Any()).Return(&dbclient.SystemStatus{}, nil)
	client.EXPECT().GetLatestWorkerHeartbeat(gomock.Any()).Return(freshHeartbeat(), nil)
	client.EXPECT().CountQueueDepth(gomock.Any()).Return(3, nil)
	client.EXPECT().GetFile(gomock.Any(), "file-in").Return(inputFile(), nil)

	var inserted *dbclient.BatchJob
	client.EXPECT().InsertBatchJob(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, job *dbclient.BatchJob) error {
			inserted = job
			return nil
		})
	client.EXPECT().RefreshQueuePositions(gomock.Any()).Return(nil)
	client.EXPECT().GetBatchJob(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, batchId string) (*dbclient.BatchJob, error) {
			inserted.CreatedAt = pq.NullTime{Time: time.Now().UTC(), Valid: true}
			inserted.QueuePosition = sql.NullInt64{Int64: 4, Valid: true}
			return inserted, nil
		})

	req := validCreateRequest()
	req.Metadata = map[string]string{"priority": "1", "team": "eval"}
	// Omitted window: the row must store the default it resolved to, so the
	// batch never echoes an empty completion_window.
	req.CompletionWindow = ""
	w := doRequest(newTestRouter(client), http.MethodPost, "/v1/batches", req)
	assert.Equal(t, w.Code, http.StatusOK)

	var batch apis.Batch
	assert.NilError(t, jsonutils.Unmarshal(w.Body.Bytes(), &batch))
	assert.Equal(t, batch.Status, apis.BatchStatusValidating)
	assert.Equal(t, batch.Model, "llama-3-8b")
	assert.Equal(t, batch.Priority, apis.PriorityHigh)
	assert.Equal(t, batch.RequestCounts.Total, int64(100))
	assert.Assert(t, batch.QueuePosition != nil)
	assert.Equal(t, *batch.QueuePosition, 4)
	assert.Equal(t, inserted.Endpoint, apis.EndpointChatCompletions)
	assert.Equal(t, inserted.CompletionWindow, "24h")
	assert.Assert(t, inserted.ExpiresAt.Valid)
}

func TestCreateBatchRejectsWrongEndpoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := mock.NewMockInterface(ctrl)

	req := validCreateRequest()
	req.Endpoint = "/v1/embeddings"
	w := doRequest(newTestRouter(client), http.MethodPost, "/v1/batches", req)
	assert.Equal(t, w.Code, http.StatusBadRequest)
	assert.Equal(t, errorCodeOf(t, w), errors.ValidationError)
}

func TestCreateBatchRejectsBadWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := mock.NewMockInterface(ctrl)

	for _, window := range []string{"5m", "200h", "soon"} {
		req := validCreateRequest()
		req.CompletionWindow = window
		w := doRequest(newTestRouter(client), http.MethodPost, "/v1/batches", req)
		assert.Equal(t, w.Code, http.StatusBadRequest, "window %s", window)
	}
}

func TestCreateBatchMaintenanceMode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := mock.NewMockInterface(ctrl)
	client.EXPECT().GetSystemStatus(gomock.Any()).Return(&dbclient.SystemStatus{
		MaintenanceMode:   true,
		MaintenanceReason: sql.NullString{String: "weekly upgrade", Valid: true},
	}, nil)

	w := doRequest(newTestRouter(client), http.MethodPost, "/v1/batches", validCreateRequest())
	assert.Equal(t, w.Code, http.StatusServiceUnavailable)
	assert.Equal(t, errorCodeOf(t, w), errors.MaintenanceMode)
}

func TestCreateBatchStaleHeartbeat(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := mock.NewMockInterface(ctrl)
	client.EXPECT().GetSystemStatus(gomock.Any()).Return(&dbclient.SystemStatus{}, nil)
	hb := freshHeartbeat()
	hb.LastSeen = dbutils.NullTime(time.Now().UTC().Add(-5 * time.Minute))
	client.EXPECT().GetLatestWorkerHeartbeat(gomock.Any()).Return(hb, nil)

	w := doRequest(newTestRouter(client), http.MethodPost, "/v1/batches", validCreateRequest())
	assert.Equal(t, w.Code, http.StatusServiceUnavailable)
	assert.Equal(t, errorCodeOf(t, w), errors.GpuUnhealthy)
}

func TestCreateBatchNoWorker(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := mock.NewMockInterface(ctrl)
	client.EXPECT().GetSystemStatus(gomock.Any()).Return(&dbclient.SystemStatus{}, nil)
	client.EXPECT().GetLatestWorkerHeartbeat(gomock.Any()).Return(nil, errors.NewNotFound("worker_heartbeats"))

	w := doRequest(newTestRouter(client), http.MethodPost, "/v1/batches", validCreateRequest())
	assert.Equal(t, errorCodeOf(t, w), errors.GpuUnhealthy)
}

func TestCreateBatchOverheatedGpu(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := mock.NewMockInterface(ctrl)
	client.EXPECT().GetSystemStatus(gomock.Any()).Return(&dbclient.SystemStatus{}, nil)
	hb := freshHeartbeat()
	hb.GpuTemperatureC = sql.NullFloat64{Float64: 92, Valid: true}
	client.EXPECT().GetLatestWorkerHeartbeat(gomock.Any()).Return(hb, nil)

	w := doRequest(newTestRouter(client), http.MethodPost, "/v1/batches", validCreateRequest())
	assert.Equal(t, errorCodeOf(t, w), errors.GpuUnhealthy)
}

func TestCreateBatchQueueFull(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := mock.NewMockInterface(ctrl)
	client.EXPECT().GetSystemStatus(gomock.Any()).Return(&dbclient.SystemStatus{}, nil)
	client.EXPECT().GetLatestWorkerHeartbeat(gomock.Any()).Return(freshHeartbeat(), nil)
	client.EXPECT().CountQueueDepth(gomock.Any()).Return(100, nil)

	w := doRequest(newTestRouter(client), http.MethodPost, "/v1/batches", validCreateRequest())
	assert.Equal(t, w.Code, http.StatusServiceUnavailable)
	assert.Equal(t, errorCodeOf(t, w), errors.QueueFull)
}

func TestCreateBatchFileMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := mock.NewMockInterface(ctrl)
	client.EXPECT().GetSystemStatus(gomock.Any()).Return(&dbclient.SystemStatus{}, nil)
	client.EXPECT().GetLatestWorkerHeartbeat(gomock.Any()).Return(freshHeartbeat(), nil)
	client.EXPECT().CountQueueDepth(gomock.Any()).Return(0, nil)
	client.EXPECT().GetFile(gomock.Any(), "file-in").Return(nil, errors.NewNotFound("file-in"))

	w := doRequest(newTestRouter(client), http.MethodPost, "/v1/batches", validCreateRequest())
	assert.Equal(t, w.Code, http.StatusNotFound)
	assert.Equal(t, errorCodeOf(t, w), errors.FileMissing)
}

func TestCreateBatchRejectsOutputFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := mock.NewMockInterface(ctrl)
	client.EXPECT().GetSystemStatus(gomock.Any()).Return(&dbclient.SystemStatus{}, nil)
	client.EXPECT().GetLatestWorkerHeartbeat(gomock.Any()).Return(freshHeartbeat(), nil)
	client.EXPECT().CountQueueDepth(gomock.Any()).Return(0, nil)
	file := inputFile()
	file.Purpose = apis.PurposeBatchOutput
	client.EXPECT().GetFile(gomock.Any(), "file-in").Return(file, nil)

	w := doRequest(newTestRouter(client), http.MethodPost, "/v1/batches", validCreateRequest())
	assert.Equal(t, errorCodeOf(t, w), errors.ValidationError)
}

func TestGetBatchNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := mock.NewMockInterface(ctrl)
	client.EXPECT().GetBatchJob(gomock.Any(), "batch-x").Return(nil, errors.NewNotFound("batch-x"))

	w := doRequest(newTestRouter(client), http.MethodGet, "/v1/batches/batch-x", nil)
	assert.Equal(t, w.Code, http.StatusNotFound)
}

func TestCancelBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := mock.NewMockInterface(ctrl)
	client.EXPECT().CancelBatchJob(gomock.Any(), "batch-1").Return(&dbclient.BatchJob{
		BatchId:      "batch-1",
		Status:       apis.BatchStatusCancelling.String(),
		CreatedAt:    pq.NullTime{Time: time.Now().UTC(), Valid: true},
		CancellingAt: pq.NullTime{Time: time.Now().UTC(), Valid: true},
	}, nil)

	w := doRequest(newTestRouter(client), http.MethodPost, "/v1/batches/batch-1/cancel", nil)
	assert.Equal(t, w.Code, http.StatusOK)
	var batch apis.Batch
	assert.NilError(t, jsonutils.Unmarshal(w.Body.Bytes(), &batch))
	assert.Equal(t, batch.Status, apis.BatchStatusCancelling)
	assert.Assert(t, batch.CancellingAt != nil)
}

func TestCancelBatchAlreadyTerminal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := mock.NewMockInterface(ctrl)
	client.EXPECT().CancelBatchJob(gomock.Any(), "batch-1").Return(nil, errors.NewAlreadyTerminal("completed"))

	w := doRequest(newTestRouter(client), http.MethodPost, "/v1/batches/batch-1/cancel", nil)
	assert.Equal(t, w.Code, http.StatusConflict)
	assert.Equal(t, errorCodeOf(t, w), errors.AlreadyTerminal)
}

func TestListBatchesHasMore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := mock.NewMockInterface(ctrl)

	jobs := make([]*dbclient.BatchJob, 0, 3)
	for _, id := range []string{"batch-3", "batch-2", "batch-1"} {
		jobs = append(jobs, &dbclient.BatchJob{
			BatchId:   id,
			Status:    apis.BatchStatusValidating.String(),
			CreatedAt: pq.NullTime{Time: time.Now().UTC(), Valid: true},
		})
	}
	// limit=2 asks for 3 rows; 3 back means another page exists.
	client.EXPECT().SelectBatchJobs(gomock.Any(), gomock.Any(), gomock.Any(), 3, 0).Return(jobs, nil)

	w := doRequest(newTestRouter(client), http.MethodGet, "/v1/batches?limit=2", nil)
	assert.Equal(t, w.Code, http.StatusOK)
	var rsp apis.ListBatchResponse
	assert.NilError(t, jsonutils.Unmarshal(w.Body.Bytes(), &rsp))
	assert.Equal(t, len(rsp.Data), 2)
	assert.Equal(t, rsp.HasMore, true)
	assert.Equal(t, rsp.FirstID, "batch-3")
	assert.Equal(t, rsp.LastID, "batch-2")
}

func TestListBatchesUnknownCursor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := mock.NewMockInterface(ctrl)
	client.EXPECT().GetBatchJob(gomock.Any(), "batch-gone").Return(nil, errors.NewNotFound("batch-gone"))

	w := doRequest(newTestRouter(client), http.MethodGet, "/v1/batches?after=batch-gone", nil)
	assert.Equal(t, w.Code, http.StatusBadRequest)
}

func TestGetQueue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := mock.NewMockInterface(ctrl)

	hb := freshHeartbeat()
	hb.Status = apis.WorkerStatusProcessing.String()
	hb.LoadedModel = sql.NullString{String: "llama-3-8b", Valid: true}
	client.EXPECT().GetLatestWorkerHeartbeat(gomock.Any()).Return(hb, nil)

	running := &dbclient.BatchJob{
		BatchId:               "batch-run",
		Status:                apis.BatchStatusInProgress.String(),
		Model:                 "llama-3-8b",
		Priority:              apis.PriorityHigh,
		TotalRequests:         200,
		CompletedRequests:     40,
		FailedRequests:        10,
		ThroughputTps:         sql.NullFloat64{Float64: 123.4, Valid: true},
		EstimatedCompletionAt: pq.NullTime{Time: time.Now().Add(time.Hour), Valid: true},
	}
	queued := &dbclient.BatchJob{
		BatchId: "batch-wait",
		Status:  apis.BatchStatusValidating.String(),
		Model:   "llama-3-8b",
	}
	client.EXPECT().SelectBatchJobs(gomock.Any(), gomock.Any(), gomock.Any(), 0, 0).
		Return([]*dbclient.BatchJob{running, queued}, nil)

	w := doRequest(newTestRouter(client), http.MethodGet, "/v1/queue", nil)
	assert.Equal(t, w.Code, http.StatusOK)
	var rsp apis.QueueResponse
	assert.NilError(t, jsonutils.Unmarshal(w.Body.Bytes(), &rsp))
	assert.Equal(t, rsp.Worker.Status, apis.WorkerStatusProcessing)
	assert.Equal(t, rsp.Worker.LoadedModel, "llama-3-8b")
	assert.Equal(t, len(rsp.Jobs), 2)
	assert.Equal(t, rsp.Jobs[0].BatchID, "batch-run")
	assert.Equal(t, rsp.Jobs[0].ProgressPct, 25.0)
	assert.Assert(t, rsp.Jobs[0].EtaSeconds != nil)
	assert.Assert(t, rsp.Jobs[1].EtaSeconds == nil)
}

func TestParseCompletionWindow(t *testing.T) {
	window, d, err := parseCompletionWindow("24h")
	assert.NilError(t, err)
	assert.Equal(t, window, "24h")
	assert.Equal(t, d, 24*time.Hour)

	window, d, err = parseCompletionWindow("168h")
	assert.NilError(t, err)
	assert.Equal(t, window, "168h")
	assert.Equal(t, d, 168*time.Hour)

	// An omitted window resolves to the configured default.
	window, d, err = parseCompletionWindow("")
	assert.NilError(t, err)
	assert.Equal(t, window, "24h")
	assert.Equal(t, d, 24*time.Hour)

	_, _, err = parseCompletionWindow("30m")
	assert.Equal(t, errors.IsValidation(err), true)
	_, _, err = parseCompletionWindow("169h")
	assert.Equal(t, errors.IsValidation(err), true)
	_, _, err = parseCompletionWindow("tomorrow")
	assert.Equal(t, errors.IsValidation(err), true)
}

func TestClampPriority(t *testing.T) {
	assert.Equal(t, ClampPriority(nil), apis.PriorityNormal)
	assert.Equal(t, ClampPriority(map[string]string{"priority": "1"}), apis.PriorityHigh)
	assert.Equal(t, ClampPriority(map[string]string{"priority": "-1"}), apis.PriorityTest)
	assert.Equal(t, ClampPriority(map[string]string{"priority": "7"}), apis.PriorityHigh)
	assert.Equal(t, ClampPriority(map[string]string{"priority": "-9"}), apis.PriorityTest)
	assert.Equal(t, ClampPriority(map[string]string{"priority": "urgent"}), apis.PriorityNormal)
}
