/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package apis

// BatchStatus is the lifecycle state of a batch job.
type BatchStatus string

const (
	BatchStatusValidating BatchStatus = "validating"
	BatchStatusInProgress BatchStatus = "in_progress"
	BatchStatusFinalizing BatchStatus = "finalizing"
	BatchStatusCompleted  BatchStatus = "completed"
	BatchStatusFailed     BatchStatus = "failed"
	BatchStatusCancelling BatchStatus = "cancelling"
	BatchStatusCancelled  BatchStatus = "cancelled"
	BatchStatusExpired    BatchStatus = "expired"
)

func (s BatchStatus) String() string {
	return string(s)
}

// IsFinal reports whether the status is terminal. Terminal batches never
// change status again.
func (s BatchStatus) IsFinal() bool {
	return s == BatchStatusCompleted || s == BatchStatusFailed ||
		s == BatchStatusCancelled || s == BatchStatusExpired
}

// EndpointChatCompletions is the only endpoint batches may target.
const EndpointChatCompletions = "/v1/chat/completions"

// Priority levels derived from metadata["priority"].
const (
	PriorityTest   = -1
	PriorityNormal = 0
	PriorityHigh   = 1
)

// CreateBatchRequest represents the request to create a batch job.
type CreateBatchRequest struct {
	InputFileID      string            `json:"input_file_id" binding:"required"`
	Endpoint         string            `json:"endpoint" binding:"required"`
	CompletionWindow string            `json:"completion_window"`
	Metadata         map[string]string `json:"metadata"`
}

// BatchRequestCounts summarizes per-request progress within a batch.
type BatchRequestCounts struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}

// BatchErrorItem is one entry of the errors list on a failed batch.
type BatchErrorItem struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Line    int64  `json:"line,omitempty"`
}

// BatchErrors wraps the errors list on a failed batch.
type BatchErrors struct {
	Object string           `json:"object"`
	Data   []BatchErrorItem `json:"data"`
}

// Batch represents a batch job on the wire. Timestamps are Unix seconds.
// Model, priority and the progress fields extend the standard object.
type Batch struct {
	ID               string             `json:"id"`
	Object           string             `json:"object"`
	Endpoint         string             `json:"endpoint"`
	InputFileID      string             `json:"input_file_id"`
	CompletionWindow string             `json:"completion_window"`
	Status           BatchStatus        `json:"status"`
	OutputFileID     string             `json:"output_file_id,omitempty"`
	ErrorFileID      string             `json:"error_file_id,omitempty"`
	CreatedAt        int64              `json:"created_at"`
	InProgressAt     *int64             `json:"in_progress_at,omitempty"`
	ExpiresAt        *int64             `json:"expires_at,omitempty"`
	FinalizingAt     *int64             `json:"finalizing_at,omitempty"`
	CompletedAt      *int64             `json:"completed_at,omitempty"`
	FailedAt         *int64             `json:"failed_at,omitempty"`
	ExpiredAt        *int64             `json:"expired_at,omitempty"`
	CancellingAt     *int64             `json:"cancelling_at,omitempty"`
	CancelledAt      *int64             `json:"cancelled_at,omitempty"`
	RequestCounts    BatchRequestCounts `json:"request_counts"`
	Errors           *BatchErrors       `json:"errors,omitempty"`
	Metadata         map[string]string  `json:"metadata,omitempty"`

	Model                 string  `json:"model,omitempty"`
	Priority              int     `json:"priority"`
	TokensProcessed       int64   `json:"tokens_processed"`
	Throughput            float64 `json:"throughput,omitempty"`
	LastProgressAt        *int64  `json:"last_progress_at,omitempty"`
	EstimatedCompletionAt *int64  `json:"estimated_completion_at,omitempty"`
	QueuePosition         *int    `json:"queue_position,omitempty"`
}

// ListBatchQuery represents cursor pagination parameters for listing batches.
type ListBatchQuery struct {
	After string `form:"after" binding:"omitempty"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// ListBatchResponse represents one page of batches.
type ListBatchResponse struct {
	Object  string  `json:"object"`
	Data    []Batch `json:"data"`
	FirstID string  `json:"first_id,omitempty"`
	LastID  string  `json:"last_id,omitempty"`
	HasMore bool    `json:"has_more"`
}
