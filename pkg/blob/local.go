/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"k8s.io/klog/v2"

	batcherrors "github.com/AMD-AGI/Primus-Batch/pkg/errors"
)

// localStore keeps blobs as plain files under a root directory. Writes go to
// a temp file, get fsynced, then rename into place so a crash never leaves a
// half-written blob under its final ref.
type localStore struct {
	root string
}

func NewLocalStore(root string) (Store, error) {
	if root == "" {
		return nil, fmt.Errorf("blob local root is empty")
	}
	if err := os.MkdirAll(root, 0750); err != nil {
		return nil, err
	}
	return &localStore{root: root}, nil
}

// refPath maps a ref to a path under root and refuses traversal out of it.
func (s *localStore) refPath(ref string) (string, error) {
	if ref == "" {
		return "", batcherrors.NewValidationError("blob ref is empty")
	}
	p := filepath.Join(s.root, filepath.FromSlash(ref))
	if !strings.HasPrefix(p, filepath.Clean(s.root)+string(os.PathSeparator)) {
		return "", batcherrors.NewValidationError(fmt.Sprintf("invalid blob ref %q", ref))
	}
	return p, nil
}

func (s *localStore) Put(ctx context.Context, ref string, r io.Reader) error {
	path, err := s.refPath(ref)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}
	tmp := path + ".tmp." + uuid.NewString()
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0640)
	if err != nil {
		return err
	}
	if _, err = io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err = f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err = f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err = os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func (s *localStore) Get(ctx context.Context, ref string) (io.ReadCloser, error) {
	path, err := s.refPath(ref)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, batcherrors.NewNotFound(fmt.Sprintf("blob %s", ref))
		}
		return nil, err
	}
	return f, nil
}

func (s *localStore) Delete(ctx context.Context, ref string) error {
	path, err := s.refPath(ref)
	if err != nil {
		return err
	}
	if err = os.Remove(path); err != nil && !os.IsNotExist(err) {
		klog.ErrorS(err, "failed to remove blob", "ref", ref)
		return err
	}
	return nil
}
