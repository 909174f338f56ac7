/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HttpRequestsTotal counts API requests by route, method and status.
	HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "primus_batch_http_requests_total",
		Help: "Total number of HTTP requests handled by the API server",
	}, []string{"path", "method", "status"})

	// HttpRequestLatencySeconds is the API request latency histogram.
	HttpRequestLatencySeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "primus_batch_http_request_latency_seconds",
		Help:    "Histogram of HTTP request latency in seconds",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"path", "method"})

	// RateLimitRejectionsTotal counts requests rejected by the rate limiter.
	RateLimitRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "primus_batch_rate_limit_rejections_total",
		Help: "Total number of requests rejected by the per-IP rate limiter",
	}, []string{"resource"})

	// BatchTransitionsTotal counts batch status transitions.
	BatchTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "primus_batch_batch_transitions_total",
		Help: "Total number of batch job status transitions",
	}, []string{"to"})

	// QueueDepth is the number of non-terminal batch jobs.
	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "primus_batch_queue_depth",
		Help: "Number of batch jobs in a non-terminal status",
	})

	// ChunkDurationSeconds is the per-chunk processing latency histogram.
	ChunkDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "primus_batch_chunk_duration_seconds",
		Help:    "Histogram of chunk processing duration in seconds",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
	})

	// TokensPerSecond is the worker's current generation throughput.
	TokensPerSecond = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "primus_batch_tokens_per_second",
		Help: "Current worker token throughput (exponential moving average)",
	})

	// GpuMemoryPct is the GPU memory utilization from the last heartbeat.
	GpuMemoryPct = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "primus_batch_gpu_memory_pct",
		Help: "GPU memory utilization percentage reported by the worker",
	})

	// GpuTemperatureC is the GPU temperature from the last heartbeat.
	GpuTemperatureC = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "primus_batch_gpu_temperature_celsius",
		Help: "GPU temperature reported by the worker",
	})

	// HandlerOutcomesTotal counts result-handler outcomes.
	HandlerOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "primus_batch_handler_outcomes_total",
		Help: "Total number of result handler outcomes",
	}, []string{"handler", "outcome"})

	// FailedRequestsTotal counts dead-lettered input lines by error kind.
	FailedRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "primus_batch_failed_requests_total",
		Help: "Total number of input lines recorded as failed requests",
	}, []string{"kind"})
)

// RecordBatchTransition records a job entering a status.
func RecordBatchTransition(to string) {
	BatchTransitionsTotal.WithLabelValues(to).Inc()
}

// RecordHandlerOutcome records one result-handler run.
func RecordHandlerOutcome(handler, outcome string) {
	HandlerOutcomesTotal.WithLabelValues(handler, outcome).Inc()
}
