/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package apis

// File purposes. Uploads declare "batch" and are stored as "batch_input";
// the service assigns the output and error purposes itself.
const (
	PurposeUploadBatch = "batch"
	PurposeBatchInput  = "batch_input"
	PurposeBatchOutput = "batch_output"
	PurposeBatchErrors = "batch_errors"
)

// File represents a stored file on the wire. Timestamps are Unix seconds.
type File struct {
	ID        string `json:"id"`
	Object    string `json:"object"`
	Bytes     int64  `json:"bytes"`
	CreatedAt int64  `json:"created_at"`
	ExpiresAt *int64 `json:"expires_at,omitempty"`
	Filename  string `json:"filename"`
	Purpose   string `json:"purpose"`
}

// ListFileResponse represents the file listing.
type ListFileResponse struct {
	Object string `json:"object"`
	Data   []File `json:"data"`
}

// DeleteFileResponse represents the acknowledgement for a file deletion.
type DeleteFileResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}
