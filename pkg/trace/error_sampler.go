/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package trace

import (
	"context"
	"math/rand"
	"sync"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// ErrorOnlySpanProcessor buffers finished spans per trace and only exports a
// trace once one of its spans ends with an error status. Healthy traces are
// dropped when their root span ends, so steady-state traffic costs memory but
// no exporter bandwidth.
type ErrorOnlySpanProcessor struct {
	exporter           sdktrace.SpanExporter
	errorSamplingRatio float64

	mu     sync.Mutex
	traces map[oteltrace.TraceID]*traceBuffer
	rand   *rand.Rand
}

type traceBuffer struct {
	spans   []sdktrace.ReadOnlySpan
	errored bool
}

func NewErrorOnlySpanProcessor(exporter sdktrace.SpanExporter, errorSamplingRatio float64) *ErrorOnlySpanProcessor {
	return &ErrorOnlySpanProcessor{
		exporter:           exporter,
		errorSamplingRatio: errorSamplingRatio,
		traces:             make(map[oteltrace.TraceID]*traceBuffer),
		rand:               rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (p *ErrorOnlySpanProcessor) OnStart(ctx context.Context, s sdktrace.ReadWriteSpan) {}

func (p *ErrorOnlySpanProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	tid := s.SpanContext().TraceID()
	isRoot := !s.Parent().IsValid()

	p.mu.Lock()
	buf := p.traces[tid]
	if buf == nil {
		buf = &traceBuffer{}
		p.traces[tid] = buf
	}
	if s.Status().Code == codes.Error && !buf.errored {
		if !p.shouldSample() {
			delete(p.traces, tid)
			p.mu.Unlock()
			return
		}
		buf.errored = true
	}
	var toExport []sdktrace.ReadOnlySpan
	if buf.errored {
		toExport = append(buf.spans, s)
		buf.spans = nil
	} else {
		buf.spans = append(buf.spans, s)
	}
	if isRoot {
		delete(p.traces, tid)
	}
	p.mu.Unlock()

	if len(toExport) > 0 {
		_ = p.exporter.ExportSpans(context.Background(), toExport)
	}
}

// shouldSample decides whether an errored trace is kept, per the error
// sampling ratio. OnEnd calls it with mu held, which also serializes rand.
func (p *ErrorOnlySpanProcessor) shouldSample() bool {
	if p.errorSamplingRatio >= 1.0 {
		return true
	}
	if p.errorSamplingRatio <= 0 {
		return false
	}
	return p.rand.Float64() < p.errorSamplingRatio
}

func (p *ErrorOnlySpanProcessor) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	p.traces = make(map[oteltrace.TraceID]*traceBuffer)
	p.mu.Unlock()
	return p.exporter.Shutdown(ctx)
}

func (p *ErrorOnlySpanProcessor) ForceFlush(ctx context.Context) error {
	return nil
}

// SampledSpanProcessor forwards a ratio of finished spans to a wrapped
// processor and drops the rest.
type SampledSpanProcessor struct {
	processor     sdktrace.SpanProcessor
	samplingRatio float64

	mu   sync.Mutex
	rand *rand.Rand
}

func NewSampledSpanProcessor(processor sdktrace.SpanProcessor, samplingRatio float64) *SampledSpanProcessor {
	return &SampledSpanProcessor{
		processor:     processor,
		samplingRatio: samplingRatio,
		rand:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (p *SampledSpanProcessor) OnStart(ctx context.Context, s sdktrace.ReadWriteSpan) {}

func (p *SampledSpanProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	p.mu.Lock()
	keep := p.samplingRatio >= 1.0 || p.rand.Float64() < p.samplingRatio
	p.mu.Unlock()
	if keep {
		p.processor.OnEnd(s)
	}
}

func (p *SampledSpanProcessor) Shutdown(ctx context.Context) error {
	return p.processor.Shutdown(ctx)
}

func (p *SampledSpanProcessor) ForceFlush(ctx context.Context) error {
	return p.processor.ForceFlush(ctx)
}
