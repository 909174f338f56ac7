/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package middleware

import (
	"bytes"
	"context"
	"io"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/AMD-AGI/Primus-Batch/pkg/apiutils"
	"github.com/AMD-AGI/Primus-Batch/pkg/config"
	dbclient "github.com/AMD-AGI/Primus-Batch/pkg/database/client"
	dbutils "github.com/AMD-AGI/Primus-Batch/pkg/database/utils"
)

const (
	// maxAuditBodySize is the maximum body size to capture for audit logs (8KB)
	maxAuditBodySize = 8192
	// auditBufferSize is the capacity of the audit log buffer channel
	auditBufferSize = 1000
	// auditBatchSize is the number of logs to batch before writing
	auditBatchSize = 50
	// auditFlushInterval is the interval to flush audit logs even if batch is not full
	auditFlushInterval = 5 * time.Second
)

// auditLogBuffer batches audit rows so the request path never waits on the
// database.
type auditLogBuffer struct {
	ch     chan *dbclient.AuditLog
	client dbclient.Interface
	once   sync.Once
}

var auditBuffer *auditLogBuffer

func initAuditBuffer(client dbclient.Interface) *auditLogBuffer {
	buf := &auditLogBuffer{
		ch:     make(chan *dbclient.AuditLog, auditBufferSize),
		client: client,
	}
	buf.once.Do(func() {
		go buf.flushWorker()
	})
	return buf
}

// send adds an audit log to the buffer, returns false if the buffer is full.
func (b *auditLogBuffer) send(log *dbclient.AuditLog) bool {
	select {
	case b.ch <- log:
		return true
	default:
		klog.InfoS("audit log buffer full, dropping log",
			"method", log.HttpMethod, "path", log.RequestPath)
		return false
	}
}

// flushWorker is a background goroutine that batches and writes audit logs.
func (b *auditLogBuffer) flushWorker() {
	ticker := time.NewTicker(auditFlushInterval)
	defer ticker.Stop()

	batch := make([]*dbclient.AuditLog, 0, auditBatchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		b.writeBatch(batch)
		batch = batch[:0]
	}

	for {
		select {
		case log, ok := <-b.ch:
			if !ok {
				flush()
				return
			}
			batch = append(batch, log)
			if len(batch) >= auditBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

func (b *auditLogBuffer) writeBatch(batch []*dbclient.AuditLog) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, log := range batch {
		if err := b.client.InsertAuditLog(ctx, log); err != nil {
			klog.ErrorS(err, "failed to insert audit log",
				"method", log.HttpMethod, "path", log.RequestPath)
		}
	}
	klog.V(4).Infof("flushed %d audit logs to database", len(batch))
}

// StopAudit drains the buffer and stops the flush worker. Call it once during
// server shutdown.
func StopAudit() {
	if auditBuffer != nil {
		close(auditBuffer.ch)
		auditBuffer = nil
	}
}

// AuditLog records write operations (POST, PUT, PATCH, DELETE) to the
// database through a buffered background writer.
func AuditLog(client dbclient.Interface) gin.HandlerFunc {
	if !config.IsAuditEnable() || client == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	if auditBuffer == nil {
		auditBuffer = initAuditBuffer(client)
		klog.InfoS("audit log buffer initialized",
			"batchSize", auditBatchSize, "flushInterval", auditFlushInterval)
	}

	return func(c *gin.Context) {
		method := c.Request.Method
		if !isWriteOperation(method) {
			c.Next()
			return
		}

		var requestBody string
		if c.Request.Body != nil {
			bodyBytes, err := io.ReadAll(c.Request.Body)
			if err == nil {
				requestBody = truncateString(string(bodyBytes), maxAuditBodySize)
				c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			}
		}

		c.Next()

		log := &dbclient.AuditLog{
			RequestId:   apiutils.GetRequestId(c),
			ClientIp:    c.ClientIP(),
			HttpMethod:  method,
			RequestPath: c.Request.URL.Path,
			Resource:    dbutils.NullString(extractResource(c.Request.URL.Path)),
			StatusCode:  c.Writer.Status(),
			RequestBody: dbutils.NullString(sanitizeBody(requestBody)),
			CreatedAt:   dbutils.NullTime(time.Now().UTC()),
		}
		auditBuffer.send(log)
	}
}

// isWriteOperation checks if the HTTP method is a write operation.
func isWriteOperation(method string) bool {
	switch method {
	case "POST", "PUT", "PATCH", "DELETE":
		return true
	default:
		return false
	}
}

// extractResource extracts the resource path from the request path.
// For example: /v1/batches/batch_abc/cancel -> batches/batch_abc
func extractResource(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	startIdx := 0
	for i, part := range parts {
		if part == "v1" || part == "admin" {
			startIdx = i + 1
			continue
		}
		break
	}
	if startIdx >= len(parts) {
		return ""
	}
	resource := parts[startIdx]
	if startIdx+1 < len(parts) && !isOperationKeyword(parts[startIdx+1]) {
		resource += "/" + parts[startIdx+1]
	}
	return resource
}

// isOperationKeyword checks if a path segment is an operation, not a name.
func isOperationKeyword(s string) bool {
	operations := map[string]bool{
		"cancel": true, "content": true, "maintenance": true,
	}
	return operations[strings.ToLower(s)]
}

var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`"password"\s*:\s*"[^"]*"`),
	regexp.MustCompile(`"token"\s*:\s*"[^"]*"`),
	regexp.MustCompile(`"secret"\s*:\s*"[^"]*"`),
	regexp.MustCompile(`"apiKey"\s*:\s*"[^"]*"`),
	regexp.MustCompile(`"api_key"\s*:\s*"[^"]*"`),
}

// sanitizeBody removes sensitive information from the request body.
func sanitizeBody(body string) string {
	if body == "" {
		return ""
	}
	result := body
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, `"[REDACTED]"`)
	}
	return result
}

// truncateString truncates a string to the specified maximum length.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "...(truncated)"
}
