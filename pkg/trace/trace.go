/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package trace

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"k8s.io/klog/v2"

	"github.com/AMD-AGI/Primus-Batch/pkg/config"
)

// TraceMode selects which traces get exported.
type TraceMode string

const (
	// TraceModeErrorOnly exports only traces containing an errored span.
	TraceModeErrorOnly TraceMode = "error_only"

	// TraceModeAlways exports a sampled share of all traces.
	TraceModeAlways TraceMode = "always"
)

// TraceOptions tunes the exporter pipeline.
type TraceOptions struct {
	Mode               TraceMode
	SamplingRatio      float64
	ErrorSamplingRatio float64
}

// DefaultTraceOptions returns the configured tracing options.
func DefaultTraceOptions() TraceOptions {
	opts := TraceOptions{
		Mode:               TraceMode(config.GetTraceMode()),
		SamplingRatio:      config.GetTraceSamplingRatio(),
		ErrorSamplingRatio: 1.0,
	}
	if opts.Mode != TraceModeAlways {
		opts.Mode = TraceModeErrorOnly
	}
	return opts
}

var tracerProvider *sdktrace.TracerProvider

// InitTracer wires the OTLP gRPC exporter. The endpoint comes from the
// standard OTEL_EXPORTER_OTLP_ENDPOINT variable; tracing is skipped entirely
// when it is unset so a bare deployment needs no collector.
func InitTracer(serviceName string) error {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		klog.InfoS("OTEL_EXPORTER_OTLP_ENDPOINT not set, tracing disabled")
		return nil
	}
	opts := DefaultTraceOptions()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
		resource.WithHost(),
		resource.WithProcess(),
		resource.WithTelemetrySDK(),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	var processor sdktrace.SpanProcessor
	switch opts.Mode {
	case TraceModeAlways:
		batcher := sdktrace.NewBatchSpanProcessor(exporter,
			sdktrace.WithBatchTimeout(5*time.Second),
			sdktrace.WithMaxExportBatchSize(512),
		)
		processor = NewSampledSpanProcessor(batcher, opts.SamplingRatio)
	default:
		processor = NewErrorOnlySpanProcessor(exporter, opts.ErrorSamplingRatio)
	}

	tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(processor),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	klog.InfoS("tracer initialized", "service", serviceName, "endpoint", endpoint, "mode", string(opts.Mode))
	return nil
}

// CloseTracer flushes pending spans and shuts the provider down.
func CloseTracer() error {
	if tracerProvider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return tracerProvider.Shutdown(ctx)
}

// StartSpan creates a span; a span already in ctx becomes its parent.
func StartSpan(ctx context.Context, operationName string, opts ...oteltrace.SpanStartOption) (context.Context, oteltrace.Span) {
	return otel.Tracer("").Start(ctx, operationName, opts...)
}

// RecordError marks the current span as errored.
func RecordError(ctx context.Context, err error) {
	span := oteltrace.SpanFromContext(ctx)
	if span.IsRecording() && err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetAttributes sets attributes on the current span.
func SetAttributes(ctx context.Context, attrs ...attribute.KeyValue) {
	span := oteltrace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(attrs...)
	}
}
