/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package apis

// ErrorKind classifies a dead-lettered request line.
type ErrorKind string

const (
	ErrorKindValidation ErrorKind = "validation"
	ErrorKindInference  ErrorKind = "inference"
	ErrorKindInternal   ErrorKind = "internal"
)

func (k ErrorKind) String() string {
	return string(k)
}

// NonTerminalBatchStatuses is the queue-depth population: every job counted
// against max_queue_depth is in one of these states.
func NonTerminalBatchStatuses() []string {
	return []string{
		BatchStatusValidating.String(), BatchStatusInProgress.String(),
		BatchStatusFinalizing.String(), BatchStatusCancelling.String(),
	}
}

// ClampPriority restricts p to the supported {-1, 0, 1} range.
func ClampPriority(p int) int {
	if p < PriorityTest {
		return PriorityTest
	}
	if p > PriorityHigh {
		return PriorityHigh
	}
	return p
}
