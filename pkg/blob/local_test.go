/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package blob

import (
	"context"
	"io"
	"strings"
	"testing"

	"gotest.tools/assert"

	batcherrors "github.com/AMD-AGI/Primus-Batch/pkg/errors"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	assert.NilError(t, err)
	ctx := context.Background()

	ref := FileRef("file-abc")
	assert.NilError(t, store.Put(ctx, ref, strings.NewReader("line1\nline2\n")))

	r, err := store.Get(ctx, ref)
	assert.NilError(t, err)
	data, err := io.ReadAll(r)
	assert.NilError(t, err)
	assert.NilError(t, r.Close())
	assert.Equal(t, string(data), "line1\nline2\n")

	assert.NilError(t, store.Delete(ctx, ref))
	_, err = store.Get(ctx, ref)
	assert.Assert(t, err != nil)
}

func TestLocalStoreOverwrite(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	assert.NilError(t, err)
	ctx := context.Background()

	ref := FileRef("file-abc")
	assert.NilError(t, store.Put(ctx, ref, strings.NewReader("old")))
	assert.NilError(t, store.Put(ctx, ref, strings.NewReader("new")))

	r, err := store.Get(ctx, ref)
	assert.NilError(t, err)
	data, _ := io.ReadAll(r)
	r.Close()
	assert.Equal(t, string(data), "new")
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	assert.NilError(t, err)
	ctx := context.Background()

	for _, ref := range []string{"", "../escape", "files/../../etc/passwd"} {
		err = store.Put(ctx, ref, strings.NewReader("x"))
		assert.Equal(t, batcherrors.IsValidation(err), true, "ref %q", ref)
	}
}

func TestLocalStoreEmptyRoot(t *testing.T) {
	_, err := NewLocalStore("")
	assert.Assert(t, err != nil)
}
