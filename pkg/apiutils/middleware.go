/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package apiutils

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"github.com/AMD-AGI/Primus-Batch/pkg/metrics"
)

const (
	// RequestIdKey is the gin context key holding the request id.
	RequestIdKey = "request_id"

	// RequestIdHeader carries the id on requests and responses.
	RequestIdHeader = "X-Request-ID"
)

// GetRequestId returns the request id assigned by RequestId, empty outside it.
func GetRequestId(c *gin.Context) string {
	return c.GetString(RequestIdKey)
}

// RequestId assigns every request an id, honouring a client-supplied
// X-Request-ID, and echoes it on the response.
func RequestId() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestId := c.GetHeader(RequestIdHeader)
		if requestId == "" {
			requestId = uuid.NewString()
		}
		c.Set(RequestIdKey, requestId)
		c.Header(RequestIdHeader, requestId)
		c.Next()
	}
}

// Logger records an access log line per request and feeds the HTTP metrics.
// Errors collected on the context during handling are logged with the line.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		status := c.Writer.Status()
		metrics.HttpRequestsTotal.WithLabelValues(path, c.Request.Method, strconv.Itoa(status)).Inc()
		metrics.HttpRequestLatencySeconds.WithLabelValues(path, c.Request.Method).Observe(elapsed.Seconds())

		keysAndValues := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", elapsed.String(),
			"clientIp", c.ClientIP(),
			"requestId", GetRequestId(c),
		}
		if len(c.Errors) > 0 {
			klog.ErrorS(c.Errors.Last(), "request failed", keysAndValues...)
			return
		}
		klog.V(2).InfoS("request handled", keysAndValues...)
	}
}
