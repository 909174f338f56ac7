/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package config

const (
	// server
	serverPrefix       = "server."
	serverPort         = serverPrefix + "port"
	serverTrustedProxy = serverPrefix + "trusted_proxy"

	// db
	dbPrefix               = "db."
	dbSecretPath           = dbPrefix + "secret_path"
	dbSslMode              = dbPrefix + "ssl_mode"
	dbMaxOpenConns         = dbPrefix + "max_open_conns"
	dbMaxIdleConns         = dbPrefix + "max_idle_conns"
	dbMaxLifetime          = dbPrefix + "max_life_time_second"
	dbMaxIdleTimeSecond    = dbPrefix + "max_idle_time_second"
	dbConnectTimeoutSecond = dbPrefix + "connect_timeout_second"
	dbRequestTimeoutSecond = dbPrefix + "request_timeout_second"

	// blob
	blobPrefix        = "blob."
	blobBackend       = blobPrefix + "backend"
	blobLocalRoot     = blobPrefix + "local_root"
	blobS3Endpoint    = blobPrefix + "s3_endpoint"
	blobS3Region      = blobPrefix + "s3_region"
	blobS3Bucket      = blobPrefix + "s3_bucket"
	blobS3SecretPath  = blobPrefix + "s3_secret_path"
	blobS3PathStyle   = blobPrefix + "s3_path_style"
	blobUploadTimeout = blobPrefix + "upload_timeout_second"

	// files
	filesPrefix        = "files."
	filesMaxUploadByte = filesPrefix + "max_upload_bytes"

	// batch
	batchPrefix                   = "batch."
	batchMaxQueueDepth            = batchPrefix + "max_queue_depth"
	batchMaxRequestsPerJob        = batchPrefix + "max_requests_per_job"
	batchDefaultCompletionWindow  = batchPrefix + "default_completion_window"
	batchFailedRequestRetentionDy = batchPrefix + "failed_request_retention_days"

	// worker
	workerPrefix            = "worker."
	workerId                = workerPrefix + "id"
	workerPollIntervalSec   = workerPrefix + "poll_interval_s"
	workerChunkSizeDefault  = workerPrefix + "chunk_size_default"
	workerChunkSizeMin      = workerPrefix + "chunk_size_min"
	workerHeartbeatInterval = workerPrefix + "heartbeat_interval_s"
	workerHeartbeatStale    = workerPrefix + "heartbeat_stale_s"
	workerScratchDir        = workerPrefix + "scratch_dir"

	// gpu
	gpuPrefix           = "gpu."
	gpuMemoryPctLimit   = gpuPrefix + "memory_pct_limit"
	gpuTemperatureLimit = gpuPrefix + "temperature_c_limit"

	// engine
	enginePrefix             = "engine."
	engineBaseUrl            = enginePrefix + "base_url"
	engineApiKey             = enginePrefix + "api_key"
	engineGenerateTimeoutSec = enginePrefix + "generate_timeout_second"
	engineRegistryPath       = enginePrefix + "registry_path"

	// handlers
	handlerPrefix        = "handlers."
	handlerMaxAttempts   = handlerPrefix + "max_attempts"
	handlerBackoffBaseMs = handlerPrefix + "backoff_base_ms"

	// webhook
	webhookPrefix     = "webhook."
	webhookUrl        = webhookPrefix + "url"
	webhookSecretPath = webhookPrefix + "secret_path"
	webhookTimeoutSec = webhookPrefix + "timeout_s"

	// downstream import
	downstreamPrefix  = "downstream."
	downstreamEnable  = downstreamPrefix + "enable"
	downstreamUrl     = downstreamPrefix + "url"
	downstreamApiKey  = downstreamPrefix + "api_key"
	downstreamTimeout = downstreamPrefix + "timeout_s"

	// email notification
	emailPrefix     = "email."
	emailEnable     = emailPrefix + "enable"
	emailSmtpHost   = emailPrefix + "smtp_host"
	emailSmtpPort   = emailPrefix + "smtp_port"
	emailSecretPath = emailPrefix + "secret_path"
	emailFrom       = emailPrefix + "from"
	emailTo         = emailPrefix + "to"

	// ratelimit
	rateLimitPrefix         = "ratelimit."
	rateLimitBatchesPerMin  = rateLimitPrefix + "batches_per_min"
	rateLimitFilesPerMin    = rateLimitPrefix + "files_per_min"
	rateLimitTrustForwarded = rateLimitPrefix + "trust_forwarded_for"

	// trace
	tracePrefix        = "trace."
	traceMode          = tracePrefix + "mode"
	traceSamplingRatio = tracePrefix + "sampling_ratio"

	// audit
	auditPrefix        = "audit."
	auditEnable        = auditPrefix + "enable"
	auditRetentionDays = auditPrefix + "retention_days"
)
