/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"

	"github.com/lib/pq"
)

const (
	DESC = "desc"
	ASC  = "asc"

	CreatedAt = "created_at"
)

// File is a stored blob row. Input files carry the model derived at upload
// so create-batch never has to re-scan the blob.
type File struct {
	Id        int64          `db:"id"`
	FileId    string         `db:"file_id"`
	Purpose   string         `db:"purpose"`
	Filename  string         `db:"filename"`
	Bytes     int64          `db:"bytes"`
	BlobRef   string         `db:"blob_ref"`
	LineCount int            `db:"line_count"`
	Model     sql.NullString `db:"model"`
	CreatedAt pq.NullTime    `db:"created_at"`
	ExpiresAt pq.NullTime    `db:"expires_at"`
	IsDeleted bool           `db:"is_deleted"`
}

// GetFileFieldTags returns the FileFieldTags value.
func GetFileFieldTags() map[string]string {
	f := File{}
	return getFieldTags(f)
}

// BatchJob is the scheduling unit. The struct doubles as the gorm model for
// the transactional claim path, so every column carries both tags.
type BatchJob struct {
	Id               int64          `db:"id" gorm:"column:id;primaryKey"`
	BatchId          string         `db:"batch_id" gorm:"column:batch_id"`
	InputFileId      string         `db:"input_file_id" gorm:"column:input_file_id"`
	Endpoint         string         `db:"endpoint" gorm:"column:endpoint"`
	CompletionWindow string         `db:"completion_window" gorm:"column:completion_window"`
	Model            string         `db:"model" gorm:"column:model"`
	Priority         int            `db:"priority" gorm:"column:priority"`
	Metadata         sql.NullString `db:"metadata" gorm:"column:metadata"`
	Status           string         `db:"status" gorm:"column:status"`

	TotalRequests     int64 `db:"total_requests" gorm:"column:total_requests"`
	CompletedRequests int64 `db:"completed_requests" gorm:"column:completed_requests"`
	FailedRequests    int64 `db:"failed_requests" gorm:"column:failed_requests"`
	TokensProcessed   int64 `db:"tokens_processed" gorm:"column:tokens_processed"`

	ThroughputTps         sql.NullFloat64 `db:"throughput_tps" gorm:"column:throughput_tps"`
	LastProgressAt        pq.NullTime     `db:"last_progress_at" gorm:"column:last_progress_at"`
	EstimatedCompletionAt pq.NullTime     `db:"estimated_completion_at" gorm:"column:estimated_completion_at"`
	QueuePosition         sql.NullInt64   `db:"queue_position" gorm:"column:queue_position"`

	WorkerId sql.NullString `db:"worker_id" gorm:"column:worker_id"`

	CreatedAt    pq.NullTime `db:"created_at" gorm:"column:created_at"`
	InProgressAt pq.NullTime `db:"in_progress_at" gorm:"column:in_progress_at"`
	FinalizedAt  pq.NullTime `db:"finalized_at" gorm:"column:finalized_at"`
	CancellingAt pq.NullTime `db:"cancelling_at" gorm:"column:cancelling_at"`
	TerminalAt   pq.NullTime `db:"terminal_at" gorm:"column:terminal_at"`
	ExpiresAt    pq.NullTime `db:"expires_at" gorm:"column:expires_at"`

	OutputFileId sql.NullString `db:"output_file_id" gorm:"column:output_file_id"`
	ErrorFileId  sql.NullString `db:"error_file_id" gorm:"column:error_file_id"`

	ErrorCode    sql.NullString `db:"error_code" gorm:"column:error_code"`
	ErrorMessage sql.NullString `db:"error_message" gorm:"column:error_message"`
}

// TableName keeps gorm on the same table the sqlx layer uses.
func (BatchJob) TableName() string {
	return TBatchJob
}

// GetBatchJobFieldTags returns the BatchJobFieldTags value.
func GetBatchJobFieldTags() map[string]string {
	j := BatchJob{}
	return getFieldTags(j)
}

// FailedRequest is a dead-letter row for one input line. It survives the job
// for post-mortem, subject to the retention sweeper.
type FailedRequest struct {
	Id            int64          `db:"id"`
	BatchId       string         `db:"batch_id"`
	CustomId      string         `db:"custom_id"`
	RequestIndex  int            `db:"request_index"`
	ErrorKind     string         `db:"error_kind"`
	ErrorMessage  sql.NullString `db:"error_message"`
	AttemptCount  int            `db:"attempt_count"`
	LastAttemptAt pq.NullTime    `db:"last_attempt_at"`
}

// GetFailedRequestFieldTags returns the FailedRequestFieldTags value.
func GetFailedRequestFieldTags() map[string]string {
	f := FailedRequest{}
	return getFieldTags(f)
}

// WorkerHeartbeat is the singleton liveness row per worker process.
type WorkerHeartbeat struct {
	WorkerId            string          `db:"worker_id"`
	Pid                 int             `db:"pid"`
	StartedAt           pq.NullTime     `db:"started_at"`
	LastSeen            pq.NullTime     `db:"last_seen"`
	Status              string          `db:"status"`
	CurrentBatchId      sql.NullString  `db:"current_batch_id"`
	LoadedModel         sql.NullString  `db:"loaded_model"`
	ModelLoadedAt       pq.NullTime     `db:"model_loaded_at"`
	GpuMemoryUsedBytes  sql.NullInt64   `db:"gpu_memory_used_bytes"`
	GpuMemoryTotalBytes sql.NullInt64   `db:"gpu_memory_total_bytes"`
	GpuTemperatureC     sql.NullFloat64 `db:"gpu_temperature_c"`
	GpuUtilizationPct   sql.NullFloat64 `db:"gpu_utilization_pct"`
}

// GetWorkerHeartbeatFieldTags returns the WorkerHeartbeatFieldTags value.
func GetWorkerHeartbeatFieldTags() map[string]string {
	h := WorkerHeartbeat{}
	return getFieldTags(h)
}

// SystemStatus is the singleton maintenance row, id fixed to 1.
type SystemStatus struct {
	Id                   int64          `db:"id"`
	MaintenanceMode      bool           `db:"maintenance_mode"`
	MaintenanceReason    sql.NullString `db:"maintenance_reason"`
	MaintenanceStartedAt pq.NullTime    `db:"maintenance_started_at"`
	MaintenanceEtaMinute sql.NullInt64  `db:"maintenance_eta_minutes"`
	UpdatedAt            pq.NullTime    `db:"updated_at"`
}

// AuditLog records one mutating API request.
type AuditLog struct {
	Id          int64          `db:"id"`
	RequestId   string         `db:"request_id"`
	ClientIp    string         `db:"client_ip"`
	HttpMethod  string         `db:"http_method"`
	RequestPath string         `db:"request_path"`
	Resource    sql.NullString `db:"resource"`
	StatusCode  int            `db:"status_code"`
	RequestBody sql.NullString `db:"request_body"`
	CreatedAt   pq.NullTime    `db:"created_at"`
}

// GetAuditLogFieldTags returns the AuditLogFieldTags value.
func GetAuditLogFieldTags() map[string]string {
	a := AuditLog{}
	return getFieldTags(a)
}

// getFieldTags retrieves FieldTags for internal use.
func getFieldTags(obj interface{}) map[string]string {
	result := make(map[string]string)
	t := reflect.TypeOf(obj)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		result[strings.ToLower(field.Name)] = field.Tag.Get("db")
	}
	return result
}

// generateCommand generates SQL command string using reflection
// Iterates through struct fields and builds column and value lists
// Skips fields with specified ignoreTag
// Returns formatted SQL command with columns and values
func generateCommand(obj interface{}, format, ignoreTag string) string {
	t := reflect.TypeOf(obj)
	columns := make([]string, 0, t.NumField())
	values := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("db")
		if tag == ignoreTag {
			continue
		}
		columns = append(columns, tag)
		values = append(values, fmt.Sprintf(":%s", tag))
	}
	cmd := fmt.Sprintf(format, strings.Join(columns, ", "), strings.Join(values, ", "))
	return cmd
}

// GetFieldTag returns the FieldTag value.
func GetFieldTag(tags map[string]string, name string) string {
	name = strings.ToLower(name)
	return tags[name]
}
