/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// SetValue sets a configuration value for the specified key.
func SetValue(key string, value interface{}) {
	viper.Set(key, value)
}

// LoadConfig loads configuration from the specified file path.
func LoadConfig(path string) error {
	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")
	return viper.ReadInConfig()
}

func getString(key, defaultValue string) string {
	if !viper.IsSet(key) {
		return defaultValue
	}
	return viper.GetString(key)
}

func getBool(key string, defaultValue bool) bool {
	if !viper.IsSet(key) {
		return defaultValue
	}
	return viper.GetBool(key)
}

func getInt(key string, defaultValue int) int {
	if !viper.IsSet(key) {
		return defaultValue
	}
	return viper.GetInt(key)
}

func getInt64(key string, defaultValue int64) int64 {
	if !viper.IsSet(key) {
		return defaultValue
	}
	return viper.GetInt64(key)
}

func getFloat(key string, defaultValue float64) float64 {
	if !viper.IsSet(key) {
		return defaultValue
	}
	return viper.GetFloat64(key)
}

func getStrings(key string) []string {
	val := viper.GetString(key)
	return removeBlank(strings.Split(val, ","))
}

func removeBlank(slice []string) []string {
	var result []string
	for _, val := range slice {
		if trim := strings.TrimSpace(val); trim != "" {
			result = append(result, trim)
		}
	}
	return result
}

// getFromFile reads a single secret item from the directory configured under
// configPath. Secrets are mounted as one file per item.
func getFromFile(configPath, item string) string {
	path := getString(configPath, "")
	data, err := os.ReadFile(filepath.Join(path, item))
	if err != nil {
		return ""
	}
	key := string(data)
	return strings.TrimRight(key, "\r\n")
}

// GetServerPort returns the API server port.
func GetServerPort() int {
	return getInt(serverPort, 8080)
}

// GetTrustedProxy returns the trusted reverse-proxy CIDR list.
func GetTrustedProxy() []string {
	return getStrings(serverTrustedProxy)
}

// GetDBHost returns the database host address.
func GetDBHost() string {
	return getFromFile(dbSecretPath, "host")
}

// GetDBPort returns the database port number.
func GetDBPort() int {
	data := getFromFile(dbSecretPath, "port")
	n, err := strconv.Atoi(data)
	if err != nil {
		return 0
	}
	return n
}

// GetDBName returns the database name.
func GetDBName() string {
	return getFromFile(dbSecretPath, "dbname")
}

// GetDBUser returns the database username.
func GetDBUser() string {
	return getFromFile(dbSecretPath, "user")
}

// GetDBPassword returns the database password.
func GetDBPassword() string {
	return getFromFile(dbSecretPath, "password")
}

// GetDBSslMode returns the database SSL mode.
func GetDBSslMode() string {
	return getString(dbSslMode, "require")
}

// GetDBMaxOpenConns returns the maximum number of open database connections.
func GetDBMaxOpenConns() int {
	return getInt(dbMaxOpenConns, 50)
}

// GetDBMaxIdleConns returns the maximum number of idle database connections.
func GetDBMaxIdleConns() int {
	return getInt(dbMaxIdleConns, 10)
}

// GetDBMaxLifetimeSecond returns the maximum lifetime of a connection in seconds.
func GetDBMaxLifetimeSecond() int {
	return getInt(dbMaxLifetime, 3600)
}

// GetDBMaxIdleTimeSecond returns the maximum idle time of a connection in seconds.
func GetDBMaxIdleTimeSecond() int {
	return getInt(dbMaxIdleTimeSecond, 600)
}

// GetDBConnectTimeoutSecond returns the connect timeout in seconds.
func GetDBConnectTimeoutSecond() int {
	return getInt(dbConnectTimeoutSecond, 10)
}

// GetDBRequestTimeoutSecond returns the per-request statement timeout in seconds.
func GetDBRequestTimeoutSecond() int {
	return getInt(dbRequestTimeoutSecond, 30)
}

// GetBlobBackend returns the blob store backend, "s3" or "local".
func GetBlobBackend() string {
	return getString(blobBackend, "local")
}

// GetBlobLocalRoot returns the root directory of the local blob store.
func GetBlobLocalRoot() string {
	return getString(blobLocalRoot, "/var/lib/primus-batch/blobs")
}

// GetBlobS3Endpoint returns the S3 endpoint URL.
func GetBlobS3Endpoint() string {
	return getString(blobS3Endpoint, "")
}

// GetBlobS3Region returns the S3 region.
func GetBlobS3Region() string {
	return getString(blobS3Region, "us-east-1")
}

// GetBlobS3Bucket returns the S3 bucket for batch files.
func GetBlobS3Bucket() string {
	return getString(blobS3Bucket, "primus-batch")
}

// GetBlobS3AccessKey returns the S3 access key.
func GetBlobS3AccessKey() string {
	return getFromFile(blobS3SecretPath, "access_key")
}

// GetBlobS3SecretKey returns the S3 secret key.
func GetBlobS3SecretKey() string {
	return getFromFile(blobS3SecretPath, "secret_key")
}

// IsBlobS3PathStyle returns whether path-style S3 addressing is used.
func IsBlobS3PathStyle() bool {
	return getBool(blobS3PathStyle, true)
}

// GetBlobUploadTimeoutSecond returns the blob upload timeout in seconds.
func GetBlobUploadTimeoutSecond() int64 {
	return getInt64(blobUploadTimeout, 300)
}

// GetMaxUploadBytes returns the upload size cap for /v1/files.
func GetMaxUploadBytes() int64 {
	return getInt64(filesMaxUploadByte, 512<<20)
}

// GetMaxQueueDepth returns the admission cap on non-terminal jobs.
func GetMaxQueueDepth() int {
	return getInt(batchMaxQueueDepth, 100)
}

// GetMaxRequestsPerJob returns the per-job line cap.
func GetMaxRequestsPerJob() int {
	return getInt(batchMaxRequestsPerJob, 50000)
}

// GetDefaultCompletionWindow returns the default completion window.
func GetDefaultCompletionWindow() string {
	return getString(batchDefaultCompletionWindow, "24h")
}

// GetFailedRequestRetentionDays returns how long dead-letter rows are kept.
func GetFailedRequestRetentionDays() int {
	return getInt(batchFailedRequestRetentionDy, 30)
}

// GetWorkerId returns the configured worker identity, empty for auto.
func GetWorkerId() string {
	return getString(workerId, "")
}

// GetPollIntervalSecond returns the worker loop cadence in seconds.
func GetPollIntervalSecond() int {
	return getInt(workerPollIntervalSec, 5)
}

// GetChunkSizeDefault returns the default chunk size in lines.
func GetChunkSizeDefault() int {
	return getInt(workerChunkSizeDefault, 5000)
}

// GetChunkSizeMin returns the chunk size floor in lines.
func GetChunkSizeMin() int {
	return getInt(workerChunkSizeMin, 500)
}

// GetHeartbeatIntervalSecond returns the heartbeat cadence in seconds.
func GetHeartbeatIntervalSecond() int {
	return getInt(workerHeartbeatInterval, 5)
}

// GetHeartbeatStaleSecond returns the age after which a heartbeat is stale.
func GetHeartbeatStaleSecond() int {
	return getInt(workerHeartbeatStale, 60)
}

// GetWorkerScratchDir returns the directory for partial output blobs.
func GetWorkerScratchDir() string {
	return getString(workerScratchDir, "/var/lib/primus-batch/scratch")
}

// GetGpuMemoryPctLimit returns the GPU memory usage limit in percent.
func GetGpuMemoryPctLimit() float64 {
	return getFloat(gpuMemoryPctLimit, 95)
}

// GetGpuTemperatureLimit returns the GPU temperature limit in Celsius.
func GetGpuTemperatureLimit() float64 {
	return getFloat(gpuTemperatureLimit, 85)
}

// GetEngineBaseUrl returns the inference engine base URL.
func GetEngineBaseUrl() string {
	return getString(engineBaseUrl, "http://127.0.0.1:8000")
}

// GetEngineApiKey returns the engine API key, empty when unset.
func GetEngineApiKey() string {
	return getString(engineApiKey, "")
}

// GetEngineGenerateTimeoutSecond returns the per-generate-call timeout.
func GetEngineGenerateTimeoutSecond() int {
	return getInt(engineGenerateTimeoutSec, 3600)
}

// GetEngineRegistryPath returns the model registry file path.
func GetEngineRegistryPath() string {
	return getString(engineRegistryPath, "/etc/primus-batch/models.json")
}

// GetHandlerMaxAttempts returns the per-handler attempt cap.
func GetHandlerMaxAttempts() int {
	return getInt(handlerMaxAttempts, 3)
}

// GetHandlerBackoffBaseMs returns the handler retry backoff base in milliseconds.
func GetHandlerBackoffBaseMs() int {
	return getInt(handlerBackoffBaseMs, 500)
}

// GetWebhookUrl returns the webhook delivery URL, empty when disabled.
func GetWebhookUrl() string {
	return getString(webhookUrl, "")
}

// GetWebhookSecret returns the webhook HMAC secret.
func GetWebhookSecret() string {
	return getFromFile(webhookSecretPath, "secret")
}

// GetWebhookTimeoutSecond returns the per-attempt webhook timeout.
func GetWebhookTimeoutSecond() int {
	return getInt(webhookTimeoutSec, 30)
}

// IsDownstreamEnable returns whether the downstream import handler runs.
func IsDownstreamEnable() bool {
	return getBool(downstreamEnable, false)
}

// GetDownstreamUrl returns the downstream task-store endpoint.
func GetDownstreamUrl() string {
	return getString(downstreamUrl, "")
}

// GetDownstreamApiKey returns the downstream task-store API key.
func GetDownstreamApiKey() string {
	return getString(downstreamApiKey, "")
}

// GetDownstreamTimeoutSecond returns the per-attempt downstream timeout.
func GetDownstreamTimeoutSecond() int {
	return getInt(downstreamTimeout, 60)
}

// IsEmailEnable returns whether the email notification handler runs.
func IsEmailEnable() bool {
	return getBool(emailEnable, false)
}

// GetEmailSmtpHost returns the SMTP relay host.
func GetEmailSmtpHost() string {
	return getString(emailSmtpHost, "")
}

// GetEmailSmtpPort returns the SMTP relay port.
func GetEmailSmtpPort() int {
	return getInt(emailSmtpPort, 587)
}

// GetEmailUser returns the SMTP username.
func GetEmailUser() string {
	return getFromFile(emailSecretPath, "username")
}

// GetEmailPassword returns the SMTP password.
func GetEmailPassword() string {
	return getFromFile(emailSecretPath, "password")
}

// GetEmailFrom returns the notification sender address.
func GetEmailFrom() string {
	return getString(emailFrom, "")
}

// GetEmailTo returns the notification recipient list.
func GetEmailTo() []string {
	return getStrings(emailTo)
}

// GetRateLimitBatchesPerMin returns the create-batch per-IP rate.
func GetRateLimitBatchesPerMin() int {
	return getInt(rateLimitBatchesPerMin, 10)
}

// GetRateLimitFilesPerMin returns the file-upload per-IP rate.
func GetRateLimitFilesPerMin() int {
	return getInt(rateLimitFilesPerMin, 20)
}

// IsRateLimitTrustForwardedFor returns whether X-Forwarded-For is honoured.
func IsRateLimitTrustForwardedFor() bool {
	return getBool(rateLimitTrustForwarded, false)
}

// GetTraceMode returns the tracing mode, "error_only" or "all".
func GetTraceMode() string {
	return getString(traceMode, "error_only")
}

// GetTraceSamplingRatio returns the trace sampling ratio.
func GetTraceSamplingRatio() float64 {
	return getFloat(traceSamplingRatio, 1.0)
}

// IsAuditEnable returns whether mutating requests are audited.
func IsAuditEnable() bool {
	return getBool(auditEnable, true)
}

// GetAuditRetentionDays returns how long audit rows are kept.
func GetAuditRetentionDays() int {
	return getInt(auditRetentionDays, 90)
}
