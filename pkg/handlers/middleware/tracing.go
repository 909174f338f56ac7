/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package middleware

import (
	"bytes"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const (
	// maxResponseBodySize is the maximum response body size to capture (4KB)
	maxResponseBodySize = 4096

	tracerName = "primus-batch-apiserver"
)

// responseBodyWriter wraps gin.ResponseWriter to capture the response body
// and inject the trace id header on failed requests.
type responseBodyWriter struct {
	gin.ResponseWriter
	body           *bytes.Buffer
	traceId        string
	headerInjected bool
}

func (w *responseBodyWriter) WriteHeader(code int) {
	if !w.headerInjected && code >= 400 && w.traceId != "" {
		w.Header().Set("X-Trace-Id", w.traceId)
		w.headerInjected = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseBodyWriter) Write(b []byte) (int, error) {
	if w.body.Len() < maxResponseBodySize {
		remaining := maxResponseBodySize - w.body.Len()
		if len(b) <= remaining {
			w.body.Write(b)
		} else {
			w.body.Write(b[:remaining])
		}
	}
	return w.ResponseWriter.Write(b)
}

// HandleTracing records one span per request. The span is always started so
// the trace id is available for the error header; whether a successful
// request's span is exported is decided by the installed span processor.
func HandleTracing() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx := c.Request.Context()

		propagator := otel.GetTextMapPropagator()
		ctx = propagator.Extract(ctx, propagation.HeaderCarrier(c.Request.Header))

		operationName := c.Request.Method + " " + c.FullPath()
		if c.FullPath() == "" {
			operationName = c.Request.Method + " " + c.Request.URL.Path
		}
		tracer := otel.Tracer(tracerName)
		ctx, span := tracer.Start(ctx, operationName,
			oteltrace.WithSpanKind(oteltrace.SpanKindServer),
			oteltrace.WithTimestamp(startTime),
		)
		defer span.End()

		bodyWriter := &responseBodyWriter{
			ResponseWriter: c.Writer,
			body:           bytes.NewBufferString(""),
			traceId:        span.SpanContext().TraceID().String(),
		}
		c.Writer = bodyWriter
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		statusCode := c.Writer.Status()
		if statusCode < 400 {
			return
		}

		duration := time.Since(startTime)
		span.SetAttributes(
			semconv.HTTPMethod(c.Request.Method),
			semconv.HTTPRoute(c.Request.URL.Path),
			semconv.HTTPStatusCode(statusCode),
			attribute.String("component", "gin-http"),
			attribute.Float64("http.duration_ms", float64(duration.Milliseconds())),
		)
		if responseBody := bodyWriter.body.String(); responseBody != "" {
			span.SetAttributes(attribute.String("http.response.body", responseBody))
		}
		span.SetStatus(codes.Error, "HTTP error: "+strconv.Itoa(statusCode))
		if len(c.Errors) > 0 {
			span.RecordError(c.Errors.Last())
		}
	}
}
