/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package worker

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"github.com/AMD-AGI/Primus-Batch/pkg/apis"
	"github.com/AMD-AGI/Primus-Batch/pkg/batchfile"
	"github.com/AMD-AGI/Primus-Batch/pkg/blob"
	"github.com/AMD-AGI/Primus-Batch/pkg/config"
	dbclient "github.com/AMD-AGI/Primus-Batch/pkg/database/client"
	dbutils "github.com/AMD-AGI/Primus-Batch/pkg/database/utils"
	"github.com/AMD-AGI/Primus-Batch/pkg/engine"
	batcherrors "github.com/AMD-AGI/Primus-Batch/pkg/errors"
	batchhandlers "github.com/AMD-AGI/Primus-Batch/pkg/handlers/batch-handlers"
	"github.com/AMD-AGI/Primus-Batch/pkg/metrics"
	"github.com/AMD-AGI/Primus-Batch/pkg/resulthandler"
	jsonutils "github.com/AMD-AGI/Primus-Batch/pkg/utils/json"
)

// throughput EMA weight for the newest chunk
const throughputAlpha = 0.3

// Processor executes one claimed batch at a time: model hot-swap, chunked
// generation with durable per-chunk commits, finalization and result
// delivery.
type Processor struct {
	dbClient   dbclient.Interface
	store      blob.Store
	engine     engine.Interface
	registry   *engine.Registry
	heartbeat  *heartbeatTask
	pipeline   *resulthandler.Pipeline
	workerId   string
	scratchDir string
}

func NewProcessor(dbClient dbclient.Interface, store blob.Store, eng engine.Interface,
	registry *engine.Registry, heartbeat *heartbeatTask, workerId string) *Processor {
	return &Processor{
		dbClient:  dbClient,
		store:     store,
		engine:    eng,
		registry:  registry,
		heartbeat: heartbeat,
		pipeline: resulthandler.NewPipeline(
			resulthandler.NewWebhookHandler(),
			resulthandler.NewDownstreamHandler(store),
			resulthandler.NewEmailHandler(),
		),
		workerId:   workerId,
		scratchDir: config.GetWorkerScratchDir(),
	}
}

// Process runs one claimed job to a terminal state, or returns early on
// context cancellation leaving the job resumable.
func (p *Processor) Process(ctx context.Context, job *dbclient.BatchJob) {
	klog.InfoS("processing batch", "batchId", job.BatchId, "model", job.Model,
		"totalRequests", job.TotalRequests, "completed", job.CompletedRequests, "failed", job.FailedRequests)
	p.heartbeat.SetStatus(apis.WorkerStatusProcessing, job.BatchId)
	defer p.heartbeat.SetStatus(apis.WorkerStatusIdle, "")

	if err := p.ensureModel(ctx, job); err != nil {
		p.failJob(ctx, job, err)
		return
	}

	lines, batchErr := p.loadInputLines(ctx, job)
	if batchErr != nil {
		p.failJob(ctx, job, batchErr)
		return
	}

	writer, err := blob.OpenPartWriter(p.scratchPath(job.BatchId))
	if err != nil {
		p.failJob(ctx, job, batcherrors.NewInternalError(fmt.Sprintf("failed to open scratch file: %v", err)))
		return
	}

	// Lines already on disk belong to chunks committed before a restart.
	resume := writer.Lines()
	if resume > 0 {
		klog.InfoS("resuming batch from partial output", "batchId", job.BatchId, "lines", resume)
	}
	p.runChunks(ctx, job, lines, writer, resume)
}

// ensureModel makes the job's model the one loaded on the GPU, swapping out
// whatever was there before.
func (p *Processor) ensureModel(ctx context.Context, job *dbclient.BatchJob) *batcherrors.BatchError {
	loaded, err := p.engine.LoadedModel(ctx)
	if err != nil {
		klog.ErrorS(err, "failed to query loaded model", "batchId", job.BatchId)
	}
	if loaded == job.Model {
		return nil
	}

	p.heartbeat.SetStatus(apis.WorkerStatusLoadingModel, job.BatchId)
	defer p.heartbeat.SetStatus(apis.WorkerStatusProcessing, job.BatchId)

	if loaded != "" {
		if err = p.engine.Unload(ctx); err != nil {
			return batcherrors.NewModelLoadFailed(fmt.Sprintf("failed to unload %s: %v", loaded, err))
		}
		p.heartbeat.SetLoadedModel("")
	}

	modelCfg, _ := p.registry.Lookup(job.Model)
	health, err := p.engine.Health(ctx)
	if err != nil {
		klog.ErrorS(err, "health probe before model load failed", "batchId", job.BatchId)
	}
	plan, planErr := engine.PlanLoad(job.Model, modelCfg, health)
	if planErr != nil {
		var be *batcherrors.BatchError
		if batcherrors.IsInsufficientMemory(planErr) {
			be = planErr.(*batcherrors.BatchError)
		} else {
			be = batcherrors.NewModelLoadFailed(planErr.Error())
		}
		return be
	}

	start := time.Now()
	if err = p.engine.Load(ctx, job.Model, plan); err != nil {
		return batcherrors.NewModelLoadFailed(fmt.Sprintf("model %s: %v", job.Model, err))
	}
	p.heartbeat.SetLoadedModel(job.Model)
	klog.InfoS("model loaded", "batchId", job.BatchId, "model", job.Model,
		"elapsed", time.Since(start).String())
	return nil
}

// loadInputLines streams the input blob into memory as raw JSONL lines.
func (p *Processor) loadInputLines(ctx context.Context, job *dbclient.BatchJob) ([][]byte, *batcherrors.BatchError) {
	file, err := p.dbClient.GetFile(ctx, job.InputFileId)
	if err != nil {
		return nil, batcherrors.NewFileMissing(job.InputFileId)
	}
	reader, err := p.store.Get(ctx, file.BlobRef)
	if err != nil {
		return nil, batcherrors.NewFileMissing(fmt.Sprintf("%s: %v", job.InputFileId, err))
	}
	defer reader.Close()

	lines := make([][]byte, 0, file.LineCount)
	err = batchfile.ReadLines(reader, func(_ int, raw []byte) error {
		lines = append(lines, raw)
		return nil
	})
	if err != nil {
		return nil, batcherrors.NewInternalError(fmt.Sprintf("failed to read input blob: %v", err))
	}
	return lines, nil
}

// runChunks drives the chunk loop from the resume point to the end of input,
// then finalizes. Cancellation and expiry are observed between chunks only.
func (p *Processor) runChunks(ctx context.Context, job *dbclient.BatchJob,
	lines [][]byte, writer *blob.PartWriter, resume int) {
	health, err := p.engine.Health(ctx)
	if err != nil {
		klog.ErrorS(err, "initial health probe failed", "batchId", job.BatchId)
	}
	sizer := newChunker(health)

	idx := resume
	for idx < len(lines) {
		if ctx.Err() != nil {
			// Shutdown: leave the job in_progress, a later claim resumes it.
			writer.Close()
			return
		}
		current, err := p.dbClient.GetBatchJob(ctx, job.BatchId)
		if err != nil {
			klog.ErrorS(err, "failed to re-read job", "batchId", job.BatchId)
			writer.Close()
			return
		}
		switch apis.BatchStatus(current.Status) {
		case apis.BatchStatusCancelling:
			p.finalizeCancelled(ctx, current, writer)
			return
		case apis.BatchStatusInProgress:
		default:
			// Expired or reassigned while we were busy, stop touching it.
			klog.InfoS("job left processing state", "batchId", job.BatchId, "status", current.Status)
			writer.Close()
			return
		}

		if health, err = p.engine.Health(ctx); err == nil {
			sizer.OnHealth(health)
		}
		end := idx + sizer.Size()
		if end > len(lines) {
			end = len(lines)
		}

		start := time.Now()
		completed, failed, usage, chunkErr := p.processChunk(ctx, current, lines[idx:end], idx, writer)
		if chunkErr != nil {
			if ctx.Err() != nil {
				writer.Close()
				return
			}
			// Drop whatever the failed chunk appended so the retry does not
			// duplicate output lines.
			if resetErr := writer.Reset(); resetErr != nil {
				writer.Close()
				p.failJob(ctx, current, batcherrors.NewInternalError(
					fmt.Sprintf("failed to roll back output after chunk failure: %v", resetErr)))
				return
			}
			if sizer.OnFailure() {
				writer.Close()
				p.failJob(ctx, current, batcherrors.NewGpuUnhealthy(
					fmt.Sprintf("repeated chunk failures at minimum size: %v", chunkErr)))
				return
			}
			continue
		}
		if err = writer.Flush(); err != nil {
			writer.Close()
			p.failJob(ctx, current, batcherrors.NewInternalError(fmt.Sprintf("failed to flush output: %v", err)))
			return
		}
		sizer.OnSuccess()

		elapsed := time.Since(start)
		metrics.ChunkDurationSeconds.Observe(elapsed.Seconds())
		updated, err := p.applyProgress(ctx, current, completed, failed, usage, end-idx, len(lines)-end, elapsed)
		if err != nil {
			klog.ErrorS(err, "failed to record chunk progress", "batchId", job.BatchId)
		} else {
			job = updated
		}
		idx = end
	}
	p.finalizeCompleted(ctx, job, writer)
}

// processChunk generates one chunk and appends one output line per input
// line, in input order. A returned error means the whole chunk failed with
// no side effects: dead-letter rows are inserted only after every output
// line of the chunk landed in the writer, so a retried chunk never
// duplicates them.
func (p *Processor) processChunk(ctx context.Context, job *dbclient.BatchJob,
	chunk [][]byte, offset int, writer *blob.PartWriter) (completed, failed int64, usage engine.Usage, err error) {
	type lineState struct {
		customId string
		request  *apis.BatchRequestLine
		lineErr  *apis.BatchLineError
	}
	states := make([]lineState, len(chunk))
	requests := make([]engine.Request, 0, len(chunk))
	for i, raw := range chunk {
		line, parseErr := batchfile.ParseLine(raw)
		if parseErr != nil {
			// Upload validation should have caught this; dead-letter the
			// line instead of failing the batch.
			states[i].customId = fmt.Sprintf("line-%d", offset+i+1)
			states[i].lineErr = &apis.BatchLineError{
				Code:    batcherrors.ValidationError,
				Message: parseErr.Error(),
			}
			continue
		}
		states[i].customId = line.CustomID
		states[i].request = line
		requests = append(requests, engine.Request{CustomID: line.CustomID, Body: line.Body})
	}

	var results []engine.Result
	if len(requests) > 0 {
		results, usage, err = p.engine.Generate(ctx, requests)
		if err != nil {
			return 0, 0, engine.Usage{}, err
		}
	}
	byCustomId := make(map[string]*engine.Result, len(results))
	for i := range results {
		byCustomId[results[i].CustomID] = &results[i]
	}

	type letter struct {
		customId string
		index    int
		kind     apis.ErrorKind
		message  string
	}
	letters := make([]letter, 0)
	for i := range states {
		state := &states[i]
		out := apis.BatchOutputLine{CustomID: state.customId}
		switch {
		case state.lineErr != nil:
			out.Error = state.lineErr
			letters = append(letters, letter{state.customId, offset + i, apis.ErrorKindValidation, state.lineErr.Message})
			failed++
		default:
			result := byCustomId[state.customId]
			if result == nil || result.Err != nil {
				message := "engine returned no result"
				if result != nil && result.Err != nil {
					message = result.Err.Error()
				}
				out.Error = &apis.BatchLineError{Code: batcherrors.InferenceError, Message: message}
				letters = append(letters, letter{state.customId, offset + i, apis.ErrorKindInference, message})
				failed++
			} else {
				out.Response = &apis.BatchOutputResponse{StatusCode: result.StatusCode, Body: result.Body}
				completed++
			}
		}
		if appendErr := writer.AppendLine(jsonutils.MarshalSilently(out)); appendErr != nil {
			return 0, 0, engine.Usage{}, appendErr
		}
	}
	for _, l := range letters {
		p.deadLetter(ctx, job, l.customId, l.index, l.kind, l.message)
	}
	return completed, failed, usage, nil
}

// applyProgress commits one chunk's counters with smoothed throughput and a
// fresh ETA.
func (p *Processor) applyProgress(ctx context.Context, job *dbclient.BatchJob,
	completed, failed int64, usage engine.Usage, chunkLines, remaining int, elapsed time.Duration) (*dbclient.BatchJob, error) {
	tps := 0.0
	if seconds := elapsed.Seconds(); seconds > 0 {
		tps = float64(usage.TotalTokens) / seconds
	}
	if job.ThroughputTps.Valid && job.ThroughputTps.Float64 > 0 {
		tps = (1-throughputAlpha)*job.ThroughputTps.Float64 + throughputAlpha*tps
	}
	metrics.TokensPerSecond.Set(tps)

	var eta time.Time
	if seconds := elapsed.Seconds(); seconds > 0 && chunkLines > 0 {
		linesPerSec := float64(chunkLines) / seconds
		eta = time.Now().UTC().Add(time.Duration(float64(remaining)/linesPerSec) * time.Second)
	}
	return p.dbClient.ApplyChunkProgress(ctx, job.BatchId, completed, failed, usage.TotalTokens, tps, eta)
}

func (p *Processor) deadLetter(ctx context.Context, job *dbclient.BatchJob,
	customId string, index int, kind apis.ErrorKind, message string) {
	metrics.FailedRequestsTotal.WithLabelValues(kind.String()).Inc()
	fr := &dbclient.FailedRequest{
		BatchId:       job.BatchId,
		CustomId:      customId,
		RequestIndex:  index,
		ErrorKind:     kind.String(),
		ErrorMessage:  dbutils.NullString(message),
		AttemptCount:  1,
		LastAttemptAt: dbutils.NullTime(time.Now().UTC()),
	}
	if err := p.dbClient.InsertFailedRequest(ctx, fr); err != nil {
		klog.ErrorS(err, "failed to dead-letter request", "batchId", job.BatchId, "customId", customId)
	}
}

// finalizeCompleted publishes the output and error files and lands the job on
// completed, or failed when not a single request succeeded. Result handlers
// run only for completed batches.
func (p *Processor) finalizeCompleted(ctx context.Context, job *dbclient.BatchJob, writer *blob.PartWriter) {
	ok, err := p.dbClient.UpdateBatchJobStatus(ctx, job.BatchId,
		[]string{apis.BatchStatusInProgress.String()}, apis.BatchStatusFinalizing.String(),
		map[string]interface{}{"finalized_at": time.Now().UTC()})
	if err != nil || !ok {
		// Cancelled or expired under us; the next claim or sweeper owns it now.
		klog.InfoS("job not finalizable", "batchId", job.BatchId, "err", err)
		writer.Close()
		return
	}
	metrics.RecordBatchTransition(apis.BatchStatusFinalizing.String())

	outputFileId, outputRef, err := p.publishOutput(ctx, job, writer)
	if err != nil {
		writer.Close()
		p.failJob(ctx, job, batcherrors.NewInternalError(fmt.Sprintf("failed to publish output: %v", err)))
		return
	}
	errorFileId, errorRef, err := p.publishErrors(ctx, job)
	if err != nil {
		klog.ErrorS(err, "failed to publish errors file", "batchId", job.BatchId)
	}

	current, err := p.dbClient.GetBatchJob(ctx, job.BatchId)
	if err != nil {
		writer.Close()
		return
	}
	extra := map[string]interface{}{
		"terminal_at":    time.Now().UTC(),
		"output_file_id": outputFileId,
	}
	if errorFileId != "" {
		extra["error_file_id"] = errorFileId
	}
	finalStatus := apis.BatchStatusCompleted
	if current.CompletedRequests == 0 && current.FailedRequests > 0 {
		finalStatus = apis.BatchStatusFailed
		extra["error_code"] = batcherrors.InferenceError
		extra["error_message"] = "every request in the batch failed"
	}
	ok, err = p.dbClient.UpdateBatchJobStatus(ctx, job.BatchId,
		[]string{apis.BatchStatusFinalizing.String()}, finalStatus.String(), extra)
	if err != nil || !ok {
		klog.ErrorS(err, "failed to land terminal status", "batchId", job.BatchId, "status", finalStatus)
		writer.Close()
		return
	}
	metrics.RecordBatchTransition(finalStatus.String())
	if err = writer.Discard(); err != nil {
		klog.ErrorS(err, "failed to remove scratch file", "batchId", job.BatchId)
	}
	klog.InfoS("batch finished", "batchId", job.BatchId, "status", finalStatus,
		"completed", current.CompletedRequests, "failed", current.FailedRequests)

	if finalStatus != apis.BatchStatusCompleted {
		return
	}
	final, err := p.dbClient.GetBatchJob(ctx, job.BatchId)
	if err != nil {
		klog.ErrorS(err, "failed to load final job for handlers", "batchId", job.BatchId)
		return
	}
	p.pipeline.Run(ctx, &resulthandler.Completion{
		Batch:         batchhandlers.CvtBatchJob(final),
		OutputBlobRef: outputRef,
		ErrorBlobRef:  errorRef,
	})
}

// finalizeCancelled publishes whatever chunks committed before the cancel and
// lands the job on cancelled. Handlers do not run.
func (p *Processor) finalizeCancelled(ctx context.Context, job *dbclient.BatchJob, writer *blob.PartWriter) {
	extra := map[string]interface{}{"terminal_at": time.Now().UTC()}
	if writer.Lines() > 0 {
		outputFileId, _, err := p.publishOutput(ctx, job, writer)
		if err != nil {
			klog.ErrorS(err, "failed to publish partial output", "batchId", job.BatchId)
		} else {
			extra["output_file_id"] = outputFileId
		}
	}
	ok, err := p.dbClient.UpdateBatchJobStatus(ctx, job.BatchId,
		[]string{apis.BatchStatusCancelling.String()}, apis.BatchStatusCancelled.String(), extra)
	if err != nil || !ok {
		klog.ErrorS(err, "failed to land cancelled status", "batchId", job.BatchId)
		writer.Close()
		return
	}
	metrics.RecordBatchTransition(apis.BatchStatusCancelled.String())
	if err = writer.Discard(); err != nil {
		klog.ErrorS(err, "failed to remove scratch file", "batchId", job.BatchId)
	}
	klog.InfoS("batch cancelled at chunk boundary", "batchId", job.BatchId, "lines", writer.Lines())
}

// publishOutput uploads the scratch output file and registers it as a
// batch_output file.
func (p *Processor) publishOutput(ctx context.Context, job *dbclient.BatchJob,
	writer *blob.PartWriter) (fileId, ref string, err error) {
	fileId = "file-" + uuid.NewString()
	ref = blob.FileRef(fileId)
	size, err := writer.Publish(ctx, p.store, ref)
	if err != nil {
		return "", "", err
	}
	file := &dbclient.File{
		FileId:    fileId,
		Purpose:   apis.PurposeBatchOutput,
		Filename:  job.BatchId + "_output.jsonl",
		Bytes:     size,
		BlobRef:   ref,
		LineCount: writer.Lines(),
	}
	if err = p.dbClient.InsertFile(ctx, file); err != nil {
		return "", "", err
	}
	return fileId, ref, nil
}

// publishErrors aggregates the job's dead-letter rows into a batch_errors
// file. No rows means no file and empty ids.
func (p *Processor) publishErrors(ctx context.Context, job *dbclient.BatchJob) (fileId, ref string, err error) {
	failures, err := p.dbClient.SelectFailedRequests(ctx, job.BatchId)
	if err != nil {
		return "", "", err
	}
	if len(failures) == 0 {
		return "", "", nil
	}
	var buf bytes.Buffer
	for _, fr := range failures {
		line := apis.BatchErrorLine{
			CustomID: fr.CustomId,
			Error: apis.BatchLineError{
				Code:         errorCodeForKind(fr.ErrorKind),
				Message:      dbutils.ParseNullString(fr.ErrorMessage),
				AttemptCount: fr.AttemptCount,
			},
		}
		buf.Write(jsonutils.MarshalSilently(line))
		buf.WriteByte('\n')
	}

	fileId = "file-" + uuid.NewString()
	ref = blob.FileRef(fileId)
	size := int64(buf.Len())
	if err = p.store.Put(ctx, ref, &buf); err != nil {
		return "", "", err
	}
	file := &dbclient.File{
		FileId:    fileId,
		Purpose:   apis.PurposeBatchErrors,
		Filename:  job.BatchId + "_errors.jsonl",
		Bytes:     size,
		BlobRef:   ref,
		LineCount: len(failures),
	}
	if err = p.dbClient.InsertFile(ctx, file); err != nil {
		return "", "", err
	}
	return fileId, ref, nil
}

func errorCodeForKind(kind string) string {
	switch apis.ErrorKind(kind) {
	case apis.ErrorKindValidation:
		return batcherrors.ValidationError
	case apis.ErrorKindInference:
		return batcherrors.InferenceError
	default:
		return batcherrors.InternalError
	}
}

// failJob lands the job on failed from whatever processing state it is in.
func (p *Processor) failJob(ctx context.Context, job *dbclient.BatchJob, batchErr *batcherrors.BatchError) {
	klog.ErrorS(batchErr, "batch failed", "batchId", job.BatchId, "code", batchErr.ErrorCode)
	ok, err := p.dbClient.UpdateBatchJobStatus(ctx, job.BatchId,
		[]string{
			apis.BatchStatusInProgress.String(),
			apis.BatchStatusFinalizing.String(),
			apis.BatchStatusCancelling.String(),
		},
		apis.BatchStatusFailed.String(),
		map[string]interface{}{
			"terminal_at":   time.Now().UTC(),
			"error_code":    batchErr.ErrorCode,
			"error_message": batchErr.ErrorMessage,
		})
	if err != nil || !ok {
		klog.ErrorS(err, "failed to mark job failed", "batchId", job.BatchId)
		return
	}
	metrics.RecordBatchTransition(apis.BatchStatusFailed.String())
}

func (p *Processor) scratchPath(batchId string) string {
	return filepath.Join(p.scratchDir, batchId+".output.jsonl")
}
