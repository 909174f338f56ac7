/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package backoff

import (
	"fmt"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"gotest.tools/assert"
)

func TestRetrySucceedsAfterFailures(t *testing.T) {
	attempts := 0
	err := Retry(func() error {
		attempts++
		if attempts < 3 {
			return fmt.Errorf("transient")
		}
		return nil
	}, time.Second, 10*time.Millisecond)
	assert.NilError(t, err)
	assert.Equal(t, attempts, 3)
}

func TestRetryNExhaustsAttempts(t *testing.T) {
	attempts := 0
	err := RetryN(func() error {
		attempts++
		return fmt.Errorf("always failing")
	}, 3, time.Millisecond)
	assert.Assert(t, err != nil)
	assert.Equal(t, attempts, 3)
}

func TestRetryNStopsOnPermanent(t *testing.T) {
	attempts := 0
	err := RetryN(func() error {
		attempts++
		return backoff.Permanent(fmt.Errorf("bad request"))
	}, 3, time.Millisecond)
	assert.Assert(t, err != nil)
	assert.Equal(t, attempts, 1)
}

func TestRetryNSingleAttemptFloor(t *testing.T) {
	attempts := 0
	_ = RetryN(func() error {
		attempts++
		return fmt.Errorf("x")
	}, 0, time.Millisecond)
	assert.Equal(t, attempts, 1)
}
