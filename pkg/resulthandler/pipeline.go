/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package resulthandler

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"k8s.io/klog/v2"

	"github.com/AMD-AGI/Primus-Batch/pkg/config"
	"github.com/AMD-AGI/Primus-Batch/pkg/metrics"
	backoffutils "github.com/AMD-AGI/Primus-Batch/pkg/utils/backoff"
)

// Pipeline runs handlers sequentially in registration order. A handler
// failing, even permanently, never blocks the ones after it: result delivery
// is best-effort and the batch itself is already completed.
type Pipeline struct {
	handlers    []Handler
	maxAttempts int
	baseBackoff time.Duration
}

func NewPipeline(handlers ...Handler) *Pipeline {
	return &Pipeline{
		handlers:    handlers,
		maxAttempts: config.GetHandlerMaxAttempts(),
		baseBackoff: time.Duration(config.GetHandlerBackoffBaseMs()) * time.Millisecond,
	}
}

func (p *Pipeline) Register(h Handler) {
	p.handlers = append(p.handlers, h)
}

// Run delivers the completion to every enabled handler. Retryable outcomes
// are retried with exponential backoff up to the attempt budget.
func (p *Pipeline) Run(ctx context.Context, completion *Completion) {
	for _, h := range p.handlers {
		if !h.Enabled(completion) {
			continue
		}
		outcome := p.runOne(ctx, h, completion)
		metrics.RecordHandlerOutcome(h.Name(), string(outcome))
		if outcome != OutcomeOk {
			klog.ErrorS(fmt.Errorf("handler outcome %s", outcome), "result handler did not succeed",
				"handler", h.Name(), "batchId", completion.Batch.ID)
			continue
		}
		klog.V(2).InfoS("result handler succeeded", "handler", h.Name(), "batchId", completion.Batch.ID)
	}
}

func (p *Pipeline) runOne(ctx context.Context, h Handler, completion *Completion) Outcome {
	var last Outcome
	op := func() error {
		last = h.Handle(ctx, completion)
		switch last {
		case OutcomeOk:
			return nil
		case OutcomeRetryable:
			return fmt.Errorf("handler %s returned retryable", h.Name())
		default:
			return backoff.Permanent(fmt.Errorf("handler %s returned permanent", h.Name()))
		}
	}
	_ = backoffutils.RetryN(op, p.maxAttempts, p.baseBackoff)
	return last
}
