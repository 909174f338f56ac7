/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package batchhandlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	sqrl "github.com/Masterminds/squirrel"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"github.com/AMD-AGI/Primus-Batch/pkg/apis"
	"github.com/AMD-AGI/Primus-Batch/pkg/apiutils"
	"github.com/AMD-AGI/Primus-Batch/pkg/config"
	dbclient "github.com/AMD-AGI/Primus-Batch/pkg/database/client"
	dbutils "github.com/AMD-AGI/Primus-Batch/pkg/database/utils"
	"github.com/AMD-AGI/Primus-Batch/pkg/errors"
	"github.com/AMD-AGI/Primus-Batch/pkg/metrics"
	jsonutils "github.com/AMD-AGI/Primus-Batch/pkg/utils/json"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100

	// completion window bounds, OpenAI only allows 24h but self-hosted
	// deployments want room on both sides
	minCompletionWindow = time.Hour
	maxCompletionWindow = 7 * 24 * time.Hour
)

type handleFunc func(*gin.Context) (interface{}, error)

// handle executes the handler function and processes the response/error.
func handle(c *gin.Context, fn handleFunc) {
	response, err := fn(c)
	if err != nil {
		apiutils.AbortWithApiError(c, err)
		return
	}
	code := http.StatusOK
	if c.Writer.Status() > 0 {
		code = c.Writer.Status()
	}
	c.JSON(code, response)
}

// Handler serves the batch API on top of the job store.
type Handler struct {
	dbClient dbclient.Interface
}

func NewHandler(dbClient dbclient.Interface) *Handler {
	return &Handler{dbClient: dbClient}
}

// CreateBatch handles POST /v1/batches.
func (h *Handler) CreateBatch(c *gin.Context) {
	handle(c, h.createBatch)
}

// GetBatch handles GET /v1/batches/:id.
func (h *Handler) GetBatch(c *gin.Context) {
	handle(c, h.getBatch)
}

// ListBatches handles GET /v1/batches.
func (h *Handler) ListBatches(c *gin.Context) {
	handle(c, h.listBatches)
}

// CancelBatch handles POST /v1/batches/:id/cancel.
func (h *Handler) CancelBatch(c *gin.Context) {
	handle(c, h.cancelBatch)
}

// GetQueue handles GET /v1/queue.
func (h *Handler) GetQueue(c *gin.Context) {
	handle(c, h.getQueue)
}

// createBatch admits a new job. Admission rejects early, before any row is
// written: maintenance mode, worker/GPU health, queue depth, then the input
// file itself.
func (h *Handler) createBatch(c *gin.Context) (interface{}, error) {
	var req apis.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if req.Endpoint != apis.EndpointChatCompletions {
		return nil, errors.NewValidationError(
			fmt.Sprintf("endpoint must be %s, got %q", apis.EndpointChatCompletions, req.Endpoint))
	}
	effectiveWindow, window, err := parseCompletionWindow(req.CompletionWindow)
	if err != nil {
		return nil, err
	}

	ctx := c.Request.Context()
	status, err := h.dbClient.GetSystemStatus(ctx)
	if err != nil {
		return nil, err
	}
	if status.MaintenanceMode {
		return nil, errors.NewMaintenanceMode(dbutils.ParseNullString(status.MaintenanceReason))
	}
	if err = h.checkWorkerHealth(c); err != nil {
		return nil, err
	}
	depth, err := h.dbClient.CountQueueDepth(ctx)
	if err != nil {
		return nil, err
	}
	if maxDepth := config.GetMaxQueueDepth(); depth >= maxDepth {
		return nil, errors.NewQueueFull(fmt.Sprintf("%d of %d queue slots in use", depth, maxDepth))
	}

	file, err := h.dbClient.GetFile(ctx, req.InputFileID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewFileMissing(req.InputFileID)
		}
		return nil, err
	}
	if file.Purpose != apis.PurposeBatchInput {
		return nil, errors.NewValidationError(
			fmt.Sprintf("file %s has purpose %q, want %q", file.FileId, file.Purpose, apis.PurposeBatchInput))
	}
	if maxLines := config.GetMaxRequestsPerJob(); file.LineCount > maxLines {
		return nil, errors.NewTooLarge(fmt.Sprintf("input file has %d requests, limit is %d", file.LineCount, maxLines))
	}

	now := time.Now().UTC()
	job := &dbclient.BatchJob{
		BatchId:          "batch-" + uuid.NewString(),
		InputFileId:      file.FileId,
		Endpoint:         req.Endpoint,
		CompletionWindow: effectiveWindow,
		Model:            dbutils.ParseNullString(file.Model),
		Priority:         ClampPriority(req.Metadata),
		Status:           apis.BatchStatusValidating.String(),
		TotalRequests:    int64(file.LineCount),
		ExpiresAt:        dbutils.NullTime(now.Add(window)),
	}
	if len(req.Metadata) > 0 {
		job.Metadata = dbutils.NullString(string(jsonutils.MarshalSilently(req.Metadata)))
	}
	if err = h.dbClient.InsertBatchJob(ctx, job); err != nil {
		return nil, err
	}
	metrics.RecordBatchTransition(job.Status)
	if err = h.dbClient.RefreshQueuePositions(ctx); err != nil {
		klog.ErrorS(err, "failed to refresh queue positions", "batchId", job.BatchId)
	}
	job, err = h.dbClient.GetBatchJob(ctx, job.BatchId)
	if err != nil {
		return nil, err
	}

	klog.InfoS("batch created", "batchId", job.BatchId, "inputFileId", job.InputFileId,
		"model", job.Model, "priority", job.Priority, "totalRequests", job.TotalRequests)
	return CvtBatchJob(job), nil
}

// checkWorkerHealth rejects admission when no live worker exists or the GPU
// is outside its operating limits.
func (h *Handler) checkWorkerHealth(c *gin.Context) error {
	hb, err := h.dbClient.GetLatestWorkerHeartbeat(c.Request.Context())
	if err != nil {
		if errors.IsNotFound(err) {
			return errors.NewGpuUnhealthy("no worker has ever reported")
		}
		return err
	}
	age := time.Since(dbutils.ParseNullTime(hb.LastSeen))
	if age > time.Duration(config.GetHeartbeatStaleSecond())*time.Second {
		return errors.NewGpuUnhealthy(fmt.Sprintf("worker heartbeat is %s old", age.Truncate(time.Second)))
	}
	if hb.GpuTemperatureC.Valid && hb.GpuTemperatureC.Float64 > config.GetGpuTemperatureLimit() {
		return errors.NewGpuUnhealthy(fmt.Sprintf("GPU temperature %.0fC over limit", hb.GpuTemperatureC.Float64))
	}
	if hb.GpuMemoryTotalBytes.Valid && hb.GpuMemoryTotalBytes.Int64 > 0 && hb.GpuMemoryUsedBytes.Valid {
		pct := float64(hb.GpuMemoryUsedBytes.Int64) / float64(hb.GpuMemoryTotalBytes.Int64) * 100
		if pct > config.GetGpuMemoryPctLimit() {
			return errors.NewGpuUnhealthy(fmt.Sprintf("GPU memory at %.1f%%", pct))
		}
	}
	return nil
}

func (h *Handler) getBatch(c *gin.Context) (interface{}, error) {
	job, err := h.dbClient.GetBatchJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}
	return CvtBatchJob(job), nil
}

// listBatches pages newest-first. The after cursor is the batch id of the
// last item on the previous page.
func (h *Handler) listBatches(c *gin.Context) (interface{}, error) {
	var query apis.ListBatchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	limit := query.Limit
	if limit == 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	ctx := c.Request.Context()
	where := sqrl.And{}
	if query.After != "" {
		cursor, err := h.dbClient.GetBatchJob(ctx, query.After)
		if err != nil {
			return nil, errors.NewValidationError(fmt.Sprintf("unknown after cursor %q", query.After))
		}
		where = append(where, sqrl.Or{
			sqrl.Lt{"created_at": cursor.CreatedAt.Time},
			sqrl.And{sqrl.Eq{"created_at": cursor.CreatedAt.Time}, sqrl.Lt{"id": cursor.Id}},
		})
	}
	orderBy := []string{dbclient.CreatedAt + " " + dbclient.DESC, "id " + dbclient.DESC}
	// One extra row decides has_more without a count query.
	jobs, err := h.dbClient.SelectBatchJobs(ctx, where, orderBy, limit+1, 0)
	if err != nil {
		return nil, err
	}
	hasMore := len(jobs) > limit
	if hasMore {
		jobs = jobs[:limit]
	}

	rsp := apis.ListBatchResponse{Object: "list", Data: make([]apis.Batch, 0, len(jobs)), HasMore: hasMore}
	for _, job := range jobs {
		rsp.Data = append(rsp.Data, *CvtBatchJob(job))
	}
	if len(jobs) > 0 {
		rsp.FirstID = jobs[0].BatchId
		rsp.LastID = jobs[len(jobs)-1].BatchId
	}
	return rsp, nil
}

// cancelBatch requests cancellation. Queued jobs cancel immediately, running
// jobs flip to cancelling and the worker stops at the next chunk boundary.
func (h *Handler) cancelBatch(c *gin.Context) (interface{}, error) {
	job, err := h.dbClient.CancelBatchJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}
	metrics.RecordBatchTransition(job.Status)
	klog.InfoS("batch cancel requested", "batchId", job.BatchId, "status", job.Status)
	return CvtBatchJob(job), nil
}

// getQueue returns a live snapshot: the worker summary plus every
// non-terminal job in dispatch order.
func (h *Handler) getQueue(c *gin.Context) (interface{}, error) {
	ctx := c.Request.Context()
	rsp := apis.QueueResponse{Jobs: make([]apis.QueueJob, 0)}

	hb, err := h.dbClient.GetLatestWorkerHeartbeat(ctx)
	if err != nil && !errors.IsNotFound(err) {
		return nil, err
	}
	if hb != nil {
		rsp.Worker = apis.QueueWorker{
			Status:      apis.WorkerStatus(hb.Status),
			LastSeen:    dbutils.ParseNullTime(hb.LastSeen).Unix(),
			LoadedModel: dbutils.ParseNullString(hb.LoadedModel),
		}
	}

	where := sqrl.Eq{"status": []string{
		apis.BatchStatusValidating.String(),
		apis.BatchStatusInProgress.String(),
		apis.BatchStatusFinalizing.String(),
		apis.BatchStatusCancelling.String(),
	}}
	orderBy := []string{"priority " + dbclient.DESC, dbclient.CreatedAt + " " + dbclient.ASC}
	jobs, err := h.dbClient.SelectBatchJobs(ctx, where, orderBy, 0, 0)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	for _, job := range jobs {
		queueJob := apis.QueueJob{
			BatchID:  job.BatchId,
			Status:   apis.BatchStatus(job.Status),
			Model:    job.Model,
			Priority: job.Priority,
		}
		if job.TotalRequests > 0 {
			done := job.CompletedRequests + job.FailedRequests
			queueJob.ProgressPct = float64(done) / float64(job.TotalRequests) * 100
		}
		if job.ThroughputTps.Valid {
			queueJob.Throughput = job.ThroughputTps.Float64
		}
		if job.EstimatedCompletionAt.Valid {
			eta := int64(job.EstimatedCompletionAt.Time.Sub(now).Seconds())
			if eta < 0 {
				eta = 0
			}
			queueJob.EtaSeconds = &eta
		}
		rsp.Jobs = append(rsp.Jobs, queueJob)
	}
	return rsp, nil
}

// parseCompletionWindow validates the requested window, e.g. "24h", and
// returns the effective window string alongside the duration so an omitted
// window is persisted as the default it resolved to.
func parseCompletionWindow(window string) (string, time.Duration, error) {
	if window == "" {
		window = config.GetDefaultCompletionWindow()
	}
	d, err := time.ParseDuration(window)
	if err != nil {
		return "", 0, errors.NewValidationError(fmt.Sprintf("completion_window %q is not a duration", window))
	}
	if d < minCompletionWindow || d > maxCompletionWindow {
		return "", 0, errors.NewValidationError(
			fmt.Sprintf("completion_window must be between %s and %s", minCompletionWindow, maxCompletionWindow))
	}
	return window, d, nil
}

// ClampPriority reads metadata["priority"] and clamps it to the supported
// levels. Anything unparsable is normal priority.
func ClampPriority(metadata map[string]string) int {
	raw, ok := metadata["priority"]
	if !ok {
		return apis.PriorityNormal
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return apis.PriorityNormal
	}
	return apis.ClampPriority(n)
}
