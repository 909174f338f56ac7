/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package timeutil

import (
	"testing"
	"time"

	"gotest.tools/assert"
)

func TestFormatRFC3339(t *testing.T) {
	ts := time.Date(2025, 6, 1, 8, 30, 15, 0, time.UTC)
	assert.Equal(t, FormatRFC3339(ts), "2025-06-01T08:30:15")
	assert.Equal(t, FormatRFC3339(time.Time{}), "")
}

func TestUnixOrZero(t *testing.T) {
	ts := time.Date(2025, 6, 1, 8, 30, 15, 0, time.UTC)
	assert.Equal(t, UnixOrZero(ts), ts.Unix())
	assert.Equal(t, UnixOrZero(time.Time{}), int64(0))
}

func TestCvtStrUnixToTime(t *testing.T) {
	ts := CvtStrUnixToTime("1748766615")
	assert.Equal(t, ts.Unix(), int64(1748766615))
	assert.Assert(t, CvtStrUnixToTime("not-a-number").IsZero())
	assert.Assert(t, CvtStrUnixToTime("").IsZero())
}

func TestParseCompletionWindow(t *testing.T) {
	d, err := ParseCompletionWindow("24h")
	assert.NilError(t, err)
	assert.Equal(t, d, 24*time.Hour)

	_, err = ParseCompletionWindow("")
	assert.Assert(t, err != nil)

	_, err = ParseCompletionWindow("30s")
	assert.Assert(t, err != nil)

	_, err = ParseCompletionWindow("200h")
	assert.Assert(t, err != nil)

	_, err = ParseCompletionWindow("one-day")
	assert.Assert(t, err != nil)
}
