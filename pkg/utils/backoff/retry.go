/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package backoff

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Retry executes op with exponential backoff until it succeeds or
// maxElapsedTime is reached. maxInterval caps the gap between attempts.
func Retry(op backoff.Operation, maxElapsedTime, maxInterval time.Duration) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = maxElapsedTime
	b.MaxInterval = maxInterval
	if err := backoff.Retry(op, b); err != nil {
		return err
	}
	return nil
}

// RetryN executes op at most maxAttempts times with exponential backoff and
// full jitter starting from baseInterval. Wrap an error in backoff.Permanent
// to stop early. maxAttempts < 1 is treated as a single attempt.
func RetryN(op backoff.Operation, maxAttempts int, baseInterval time.Duration) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = baseInterval
	b.RandomizationFactor = 1
	b.MaxElapsedTime = 0
	return backoff.Retry(op, backoff.WithMaxRetries(b, uint64(maxAttempts-1)))
}
