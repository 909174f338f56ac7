/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package blob

import (
	"context"
	"fmt"
	"io"

	"github.com/AMD-AGI/Primus-Batch/pkg/config"
)

const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// Store is the content-addressed byte store behind the file API and the
// worker's output publishing. Refs are opaque keys minted by the caller;
// rows in the files table carry them in blob_ref.
type Store interface {
	Put(ctx context.Context, ref string, r io.Reader) error
	Get(ctx context.Context, ref string) (io.ReadCloser, error)
	Delete(ctx context.Context, ref string) error
}

// NewStore builds the configured backend.
func NewStore(ctx context.Context) (Store, error) {
	switch backend := config.GetBlobBackend(); backend {
	case BackendLocal:
		return NewLocalStore(config.GetBlobLocalRoot())
	case BackendS3:
		return NewS3Store(ctx)
	default:
		return nil, fmt.Errorf("unknown blob backend %q", backend)
	}
}

// FileRef returns the blob key for an uploaded or generated file.
func FileRef(fileId string) string {
	return "files/" + fileId
}
