/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package filehandlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/lib/pq"
	"gotest.tools/assert"

	"github.com/AMD-AGI/Primus-Batch/pkg/apis"
	"github.com/AMD-AGI/Primus-Batch/pkg/config"
	dbclient "github.com/AMD-AGI/Primus-Batch/pkg/database/client"
	"github.com/AMD-AGI/Primus-Batch/pkg/database/client/mock"
	"github.com/AMD-AGI/Primus-Batch/pkg/errors"
	jsonutils "github.com/AMD-AGI/Primus-Batch/pkg/utils/json"
)

func init() {
	gin.SetMode(gin.TestMode)
	config.SetValue("ratelimit.files_per_min", 100000)
}

// memStore is an in-memory blob store for handler tests.
type memStore struct {
	blobs map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{blobs: map[string][]byte{}}
}

func (s *memStore) Put(_ context.Context, ref string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.blobs[ref] = data
	return nil
}

func (s *memStore) Get(_ context.Context, ref string) (io.ReadCloser, error) {
	data, ok := s.blobs[ref]
	if !ok {
		return nil, fmt.Errorf("blob %s not found", ref)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memStore) Delete(_ context.Context, ref string) error {
	delete(s.blobs, ref)
	return nil
}

func newTestRouter(client dbclient.Interface, store *memStore) *gin.Engine {
	e := gin.New()
	InitFileRouters(e, NewHandler(client, store))
	return e
}

func multipartUpload(t *testing.T, e *gin.Engine, purpose, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	assert.NilError(t, writer.WriteField("purpose", purpose))
	part, err := writer.CreateFormFile("file", filename)
	assert.NilError(t, err)
	_, err = io.Copy(part, strings.NewReader(content))
	assert.NilError(t, err)
	assert.NilError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/files", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func inputLine(customId string) string {
	return fmt.Sprintf(`{"custom_id":%q,"method":"POST","url":"/v1/chat/completions","body":{"model":"llama-3-8b","messages":[{"role":"user","content":"hi"}]}}`, customId)
}

func errorCodeOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var rsp apis.ErrorResponse
	assert.NilError(t, jsonutils.Unmarshal(w.Body.Bytes(), &rsp))
	return rsp.Error.Code
}

func TestUploadFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := mock.NewMockInterface(ctrl)
	store := newMemStore()

	var inserted *dbclient.File
	client.EXPECT().InsertFile(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, file *dbclient.File) error {
			inserted = file
			return nil
		})

	content := inputLine("req-1") + "\n" + inputLine("req-2") + "\n"
	w := multipartUpload(t, newTestRouter(client, store), apis.PurposeUploadBatch, "input.jsonl", content)
	assert.Equal(t, w.Code, http.StatusOK)

	var file apis.File
	assert.NilError(t, jsonutils.Unmarshal(w.Body.Bytes(), &file))
	assert.Equal(t, file.Purpose, apis.PurposeBatchInput)
	assert.Equal(t, file.Filename, "input.jsonl")
	assert.Equal(t, file.Bytes, int64(len(content)))

	assert.Equal(t, inserted.LineCount, 2)
	assert.Equal(t, inserted.Model.String, "llama-3-8b")
	// Blob landed under the minted ref.
	assert.DeepEqual(t, store.blobs[inserted.BlobRef], []byte(content))
}

func TestUploadFileRejectsWrongPurpose(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := mock.NewMockInterface(ctrl)

	w := multipartUpload(t, newTestRouter(client, newMemStore()), "fine-tune", "input.jsonl", inputLine("a"))
	assert.Equal(t, w.Code, http.StatusBadRequest)
	assert.Equal(t, errorCodeOf(t, w), errors.ValidationError)
}

func TestUploadFileRejectsInvalidContent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := mock.NewMockInterface(ctrl)
	store := newMemStore()

	w := multipartUpload(t, newTestRouter(client, store), apis.PurposeUploadBatch, "bad.jsonl", "{broken\n")
	assert.Equal(t, w.Code, http.StatusBadRequest)
	// Nothing stored for a rejected upload.
	assert.Equal(t, len(store.blobs), 0)
}

func TestUploadFileCleansUpOrphanBlobOnInsertFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := mock.NewMockInterface(ctrl)
	store := newMemStore()
	client.EXPECT().InsertFile(gomock.Any(), gomock.Any()).Return(fmt.Errorf("db down"))

	w := multipartUpload(t, newTestRouter(client, store), apis.PurposeUploadBatch, "input.jsonl", inputLine("a"))
	assert.Equal(t, w.Code, http.StatusInternalServerError)
	assert.Equal(t, len(store.blobs), 0)
}

func TestGetFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := mock.NewMockInterface(ctrl)
	expires := time.Now().UTC().Add(24 * time.Hour)
	client.EXPECT().GetFile(gomock.Any(), "file-1").Return(&dbclient.File{
		FileId:    "file-1",
		Purpose:   apis.PurposeBatchOutput,
		Filename:  "batch-1_output.jsonl",
		Bytes:     42,
		CreatedAt: pq.NullTime{Time: time.Now().UTC(), Valid: true},
		ExpiresAt: pq.NullTime{Time: expires, Valid: true},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/files/file-1", nil)
	w := httptest.NewRecorder()
	newTestRouter(client, newMemStore()).ServeHTTP(w, req)
	assert.Equal(t, w.Code, http.StatusOK)

	var file apis.File
	assert.NilError(t, jsonutils.Unmarshal(w.Body.Bytes(), &file))
	assert.Equal(t, file.ID, "file-1")
	assert.Assert(t, file.ExpiresAt != nil)
	assert.Equal(t, *file.ExpiresAt, expires.Unix())
}

func TestGetFileContent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := mock.NewMockInterface(ctrl)
	store := newMemStore()
	content := `{"custom_id":"a","response":{"status_code":200}}` + "\n"
	store.blobs["files/file-1"] = []byte(content)
	client.EXPECT().GetFile(gomock.Any(), "file-1").Return(&dbclient.File{
		FileId:   "file-1",
		Filename: "output.jsonl",
		Bytes:    int64(len(content)),
		BlobRef:  "files/file-1",
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/files/file-1/content", nil)
	w := httptest.NewRecorder()
	newTestRouter(client, store).ServeHTTP(w, req)
	assert.Equal(t, w.Code, http.StatusOK)
	assert.Equal(t, w.Body.String(), content)
	assert.Equal(t, w.Header().Get("Content-Type"), "application/jsonl")
}

func TestListFiles(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := mock.NewMockInterface(ctrl)
	client.EXPECT().SelectFiles(gomock.Any(), gomock.Any(), gomock.Any(), 5, 0).Return([]*dbclient.File{
		{FileId: "file-2", Purpose: apis.PurposeBatchInput},
		{FileId: "file-1", Purpose: apis.PurposeBatchInput},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/files?limit=5&purpose=batch_input", nil)
	w := httptest.NewRecorder()
	newTestRouter(client, newMemStore()).ServeHTTP(w, req)
	assert.Equal(t, w.Code, http.StatusOK)

	var rsp apis.ListFileResponse
	assert.NilError(t, jsonutils.Unmarshal(w.Body.Bytes(), &rsp))
	assert.Equal(t, rsp.Object, "list")
	assert.Equal(t, len(rsp.Data), 2)
}

func TestListFilesRejectsBadLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := mock.NewMockInterface(ctrl)

	for _, limit := range []string{"0", "1001", "many"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/files?limit="+limit, nil)
		w := httptest.NewRecorder()
		newTestRouter(client, newMemStore()).ServeHTTP(w, req)
		assert.Equal(t, w.Code, http.StatusBadRequest, "limit %s", limit)
	}
}

func TestDeleteFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := mock.NewMockInterface(ctrl)
	store := newMemStore()
	store.blobs["files/file-1"] = []byte("data")
	client.EXPECT().GetFile(gomock.Any(), "file-1").Return(&dbclient.File{FileId: "file-1", BlobRef: "files/file-1"}, nil)
	client.EXPECT().CountActiveJobsByFile(gomock.Any(), "file-1").Return(0, nil)
	client.EXPECT().SetFileDeleted(gomock.Any(), "file-1").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/v1/files/file-1", nil)
	w := httptest.NewRecorder()
	newTestRouter(client, store).ServeHTTP(w, req)
	assert.Equal(t, w.Code, http.StatusOK)

	var rsp apis.DeleteFileResponse
	assert.NilError(t, jsonutils.Unmarshal(w.Body.Bytes(), &rsp))
	assert.Equal(t, rsp.Deleted, true)
	assert.Equal(t, len(store.blobs), 0)
}

func TestDeleteFileInUse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := mock.NewMockInterface(ctrl)
	client.EXPECT().GetFile(gomock.Any(), "file-1").Return(&dbclient.File{FileId: "file-1"}, nil)
	client.EXPECT().CountActiveJobsByFile(gomock.Any(), "file-1").Return(2, nil)

	req := httptest.NewRequest(http.MethodDelete, "/v1/files/file-1", nil)
	w := httptest.NewRecorder()
	newTestRouter(client, newMemStore()).ServeHTTP(w, req)
	assert.Equal(t, w.Code, http.StatusConflict)
	assert.Equal(t, errorCodeOf(t, w), errors.FileInUse)
}
