/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package klog

import (
	"flag"
	"strconv"

	"k8s.io/klog/v2"
)

// Init initializes klog for a batch service binary. Logs go to the given file
// and to stderr; headers are skipped because the structured key/value form
// already carries component context (requestId, batchId, workerId).
func Init(logfilePath string, logFileSize, verbosity int) error {
	klog.InitFlags(nil)
	flag.Set("log_file", logfilePath)
	flag.Set("alsologtostderr", "true")
	flag.Set("logtostderr", "false")
	flag.Set("skip_log_headers", "true")
	if logFileSize != 0 {
		flag.Set("log_file_max_size", strconv.Itoa(logFileSize))
	}
	if verbosity > 0 {
		flag.Set("v", strconv.Itoa(verbosity))
	}
	flag.Parse()
	return nil
}

// Flush flushes pending log I/O before process exit.
func Flush() {
	klog.Flush()
}
