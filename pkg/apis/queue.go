/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package apis

// WorkerStatus is the coarse state a worker reports through heartbeats.
type WorkerStatus string

const (
	WorkerStatusIdle         WorkerStatus = "idle"
	WorkerStatusLoadingModel WorkerStatus = "loading_model"
	WorkerStatusProcessing   WorkerStatus = "processing"
	WorkerStatusDraining     WorkerStatus = "draining"
	WorkerStatusError        WorkerStatus = "error"
)

func (s WorkerStatus) String() string {
	return string(s)
}

// QueueWorker represents the worker summary in the queue view.
type QueueWorker struct {
	Status      WorkerStatus `json:"status"`
	LastSeen    int64        `json:"last_seen"`
	LoadedModel string       `json:"loaded_model,omitempty"`
}

// QueueJob represents one non-terminal batch in the queue view.
type QueueJob struct {
	BatchID     string      `json:"batch_id"`
	Status      BatchStatus `json:"status"`
	Model       string      `json:"model,omitempty"`
	Priority    int         `json:"priority"`
	ProgressPct float64     `json:"progress_pct"`
	Throughput  float64     `json:"throughput,omitempty"`
	EtaSeconds  *int64      `json:"eta_seconds,omitempty"`
}

// QueueResponse represents the live queue snapshot.
type QueueResponse struct {
	Worker QueueWorker `json:"worker"`
	Jobs   []QueueJob  `json:"jobs"`
}

// HealthGpu carries the GPU part of the health view.
type HealthGpu struct {
	MemoryPct    float64 `json:"memory_pct"`
	TemperatureC float64 `json:"temperature_c"`
}

// HealthResponse represents the service health summary.
type HealthResponse struct {
	Status               string    `json:"status"`
	WorkerHeartbeatAgeS  float64   `json:"worker_heartbeat_age_s"`
	Gpu                  HealthGpu `json:"gpu"`
	MaintenanceMode      bool      `json:"maintenance_mode"`
	MaintenanceReason    string    `json:"maintenance_reason,omitempty"`
	MaintenanceEtaMinute int       `json:"maintenance_eta_minutes,omitempty"`
}

const (
	HealthStatusHealthy  = "healthy"
	HealthStatusDegraded = "degraded"
)

// MaintenanceRequest represents the request to toggle maintenance mode.
type MaintenanceRequest struct {
	Enabled    bool   `json:"enabled"`
	Reason     string `json:"reason"`
	EtaMinutes int    `json:"eta_minutes"`
}

// MaintenanceResponse echoes the maintenance state after a toggle.
type MaintenanceResponse struct {
	Enabled    bool   `json:"enabled"`
	Reason     string `json:"reason,omitempty"`
	StartedAt  *int64 `json:"started_at,omitempty"`
	EtaMinutes int    `json:"eta_minutes,omitempty"`
}
