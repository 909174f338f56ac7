/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package timeutil

import (
	"fmt"
	"strconv"
	"time"
)

const (
	TimeRFC3339Short = "2006-01-02T15:04:05"
)

// FormatRFC3339 renders t without sub-second precision, empty for zero times.
func FormatRFC3339(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimeRFC3339Short)
}

// UnixOrZero returns t as Unix seconds, 0 for zero times. Batch and file
// objects on the wire carry Unix timestamps.
func UnixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

// CvtStrUnixToTime parses a decimal Unix-seconds string, zero time on failure.
func CvtStrUnixToTime(strTime string) time.Time {
	if strTime == "" {
		return time.Time{}
	}
	intTime, err := strconv.ParseInt(strTime, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(intTime, 0).UTC()
}

// ParseCompletionWindow parses a completion window such as "24h". Windows
// shorter than one minute or longer than seven days are rejected.
func ParseCompletionWindow(window string) (time.Duration, error) {
	if window == "" {
		return 0, fmt.Errorf("completion window is empty")
	}
	d, err := time.ParseDuration(window)
	if err != nil {
		return 0, fmt.Errorf("invalid completion window %q: %v", window, err)
	}
	if d < time.Minute || d > 7*24*time.Hour {
		return 0, fmt.Errorf("completion window %q out of range [1m, 168h]", window)
	}
	return d, nil
}
