/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package resulthandler

import (
	"context"

	"github.com/AMD-AGI/Primus-Batch/pkg/apis"
)

// Outcome is a handler's verdict on one attempt.
type Outcome string

const (
	OutcomeOk        Outcome = "ok"
	OutcomeRetryable Outcome = "retryable"
	OutcomePermanent Outcome = "permanent"
)

// Completion is the event delivered to handlers when a batch completes.
// The blob refs let handlers that consume result content stream it without
// going back through the file API.
type Completion struct {
	Batch         *apis.Batch
	OutputBlobRef string
	ErrorBlobRef  string
}

// Handler consumes a batch completion. Handlers must be idempotent: the
// pipeline retries retryable outcomes and a crashed worker may re-run the
// whole pipeline for a job it resumed.
type Handler interface {
	Name() string
	Enabled(completion *Completion) bool
	Handle(ctx context.Context, completion *Completion) Outcome
}
