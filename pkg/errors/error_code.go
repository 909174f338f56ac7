/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package errors

import (
	"errors"
	"fmt"
	"net/http"
)

/*
   Stable client-visible error codes. The code string is part of the API
   contract: it appears in error responses, in BatchJob.error_code, and in
   per-line entries of the errors file. Codes are grouped by the stage that
   raises them.
*/

// input
const (
	ValidationError      = "validation_error"
	TooLarge             = "too_large"
	ModelMismatchInBatch = "model_mismatch_in_batch"
	DuplicateCustomId    = "duplicate_custom_id"
)

// admission
const (
	QueueFull       = "queue_full"
	MaintenanceMode = "maintenance_mode"
	RateLimited     = "rate_limited"
)

// resource
const (
	GpuUnhealthy       = "gpu_unhealthy"
	InsufficientMemory = "insufficient_memory"
	ModelLoadFailed    = "model_load_failed"
	FileMissing        = "file_missing"
)

// runtime
const (
	InferenceError = "inference_error"
	Timeout        = "timeout"
	InternalError  = "internal_error"
)

// lifecycle
const (
	AlreadyTerminal = "already_terminal"
	NotFound        = "not_found"
	FileInUse       = "file_in_use"
)

// webhook outcomes, internal only, never returned to clients
const (
	WebhookRetryable = "webhook_retryable"
	WebhookPermanent = "webhook_permanent"
)

// BatchError is the unified error carried between layers: an HTTP status for
// the API boundary, a stable code from the taxonomy above, and a message safe
// to show to clients.
type BatchError struct {
	HttpCode     int    `json:"-"`
	ErrorCode    string `json:"code"`
	ErrorMessage string `json:"message"`
}

// Error returns the error message string.
func (err *BatchError) Error() string {
	return err.ErrorMessage
}

// CodeForError returns the taxonomy code of err, or empty when err is not a
// BatchError.
func CodeForError(err error) string {
	var be *BatchError
	if errors.As(err, &be) {
		return be.ErrorCode
	}
	return ""
}

// HttpCodeForError returns the HTTP status for err, defaulting to 500 for
// unclassified errors.
func HttpCodeForError(err error) int {
	var be *BatchError
	if errors.As(err, &be) {
		return be.HttpCode
	}
	return http.StatusInternalServerError
}

func IsBatchError(err error) bool {
	var be *BatchError
	return errors.As(err, &be)
}

func IsNotFound(err error) bool {
	return CodeForError(err) == NotFound
}

func IsValidation(err error) bool {
	code := CodeForError(err)
	return code == ValidationError || code == ModelMismatchInBatch || code == DuplicateCustomId
}

func IsTooLarge(err error) bool {
	return CodeForError(err) == TooLarge
}

func IsAlreadyTerminal(err error) bool {
	return CodeForError(err) == AlreadyTerminal
}

func IsFileInUse(err error) bool {
	return CodeForError(err) == FileInUse
}

func IsRateLimited(err error) bool {
	return CodeForError(err) == RateLimited
}

func IsMaintenance(err error) bool {
	return CodeForError(err) == MaintenanceMode
}

func IsQueueFull(err error) bool {
	return CodeForError(err) == QueueFull
}

func IsGpuUnhealthy(err error) bool {
	return CodeForError(err) == GpuUnhealthy
}

func IsInsufficientMemory(err error) bool {
	return CodeForError(err) == InsufficientMemory
}

func IsInternal(err error) bool {
	return CodeForError(err) == InternalError
}

// IgnoreNotFound drops not-found errors, keeping everything else.
func IgnoreNotFound(err error) error {
	if err == nil || IsNotFound(err) {
		return nil
	}
	return err
}

func NewValidationError(message string) *BatchError {
	return &BatchError{
		HttpCode:     http.StatusBadRequest,
		ErrorCode:    ValidationError,
		ErrorMessage: fmt.Sprintf("Invalid input. %s", message),
	}
}

func NewTooLarge(message string) *BatchError {
	return &BatchError{
		HttpCode:     http.StatusRequestEntityTooLarge,
		ErrorCode:    TooLarge,
		ErrorMessage: fmt.Sprintf("Request entity too large. %s", message),
	}
}

func NewModelMismatchInBatch(message string) *BatchError {
	return &BatchError{
		HttpCode:     http.StatusBadRequest,
		ErrorCode:    ModelMismatchInBatch,
		ErrorMessage: fmt.Sprintf("All lines in a batch must use the same model. %s", message),
	}
}

func NewDuplicateCustomId(message string) *BatchError {
	return &BatchError{
		HttpCode:     http.StatusBadRequest,
		ErrorCode:    DuplicateCustomId,
		ErrorMessage: fmt.Sprintf("Duplicate custom_id. %s", message),
	}
}

func NewQueueFull(message string) *BatchError {
	return &BatchError{
		HttpCode:     http.StatusServiceUnavailable,
		ErrorCode:    QueueFull,
		ErrorMessage: fmt.Sprintf("Queue is full. %s", message),
	}
}

func NewMaintenanceMode(message string) *BatchError {
	return &BatchError{
		HttpCode:     http.StatusServiceUnavailable,
		ErrorCode:    MaintenanceMode,
		ErrorMessage: fmt.Sprintf("Service is in maintenance mode. %s", message),
	}
}

func NewRateLimited(message string) *BatchError {
	return &BatchError{
		HttpCode:     http.StatusTooManyRequests,
		ErrorCode:    RateLimited,
		ErrorMessage: fmt.Sprintf("Rate limit exceeded. %s", message),
	}
}

func NewGpuUnhealthy(message string) *BatchError {
	return &BatchError{
		HttpCode:     http.StatusServiceUnavailable,
		ErrorCode:    GpuUnhealthy,
		ErrorMessage: fmt.Sprintf("GPU is unhealthy. %s", message),
	}
}

func NewInsufficientMemory(message string) *BatchError {
	return &BatchError{
		HttpCode:     http.StatusServiceUnavailable,
		ErrorCode:    InsufficientMemory,
		ErrorMessage: fmt.Sprintf("Insufficient accelerator memory. %s", message),
	}
}

func NewModelLoadFailed(message string) *BatchError {
	return &BatchError{
		HttpCode:     http.StatusInternalServerError,
		ErrorCode:    ModelLoadFailed,
		ErrorMessage: fmt.Sprintf("Model load failed. %s", message),
	}
}

func NewFileMissing(message string) *BatchError {
	return &BatchError{
		HttpCode:     http.StatusNotFound,
		ErrorCode:    FileMissing,
		ErrorMessage: fmt.Sprintf("Input file is missing. %s", message),
	}
}

func NewInferenceError(message string) *BatchError {
	return &BatchError{
		HttpCode:     http.StatusInternalServerError,
		ErrorCode:    InferenceError,
		ErrorMessage: fmt.Sprintf("Inference failed. %s", message),
	}
}

func NewTimeout(message string) *BatchError {
	return &BatchError{
		HttpCode:     http.StatusGatewayTimeout,
		ErrorCode:    Timeout,
		ErrorMessage: fmt.Sprintf("Operation timed out. %s", message),
	}
}

func NewInternalError(message string) *BatchError {
	return &BatchError{
		HttpCode:     http.StatusInternalServerError,
		ErrorCode:    InternalError,
		ErrorMessage: fmt.Sprintf("Internal error. %s", message),
	}
}

func NewAlreadyTerminal(message string) *BatchError {
	return &BatchError{
		HttpCode:     http.StatusConflict,
		ErrorCode:    AlreadyTerminal,
		ErrorMessage: fmt.Sprintf("Batch is already in a terminal state. %s", message),
	}
}

func NewNotFound(message string) *BatchError {
	return &BatchError{
		HttpCode:     http.StatusNotFound,
		ErrorCode:    NotFound,
		ErrorMessage: fmt.Sprintf("Not found. %s", message),
	}
}

func NewFileInUse(message string) *BatchError {
	return &BatchError{
		HttpCode:     http.StatusConflict,
		ErrorCode:    FileInUse,
		ErrorMessage: fmt.Sprintf("File is referenced by an active batch. %s", message),
	}
}
