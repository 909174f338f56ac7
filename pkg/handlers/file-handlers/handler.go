/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package filehandlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	sqrl "github.com/Masterminds/squirrel"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"github.com/AMD-AGI/Primus-Batch/pkg/apis"
	"github.com/AMD-AGI/Primus-Batch/pkg/apiutils"
	"github.com/AMD-AGI/Primus-Batch/pkg/batchfile"
	"github.com/AMD-AGI/Primus-Batch/pkg/blob"
	"github.com/AMD-AGI/Primus-Batch/pkg/config"
	dbclient "github.com/AMD-AGI/Primus-Batch/pkg/database/client"
	dbutils "github.com/AMD-AGI/Primus-Batch/pkg/database/utils"
	"github.com/AMD-AGI/Primus-Batch/pkg/errors"
)

type handleFunc func(*gin.Context) (interface{}, error)

// handle executes the handler function and processes the response/error.
func handle(c *gin.Context, fn handleFunc) {
	response, err := fn(c)
	if err != nil {
		apiutils.AbortWithApiError(c, err)
		return
	}
	code := http.StatusOK
	if c.Writer.Status() > 0 {
		code = c.Writer.Status()
	}
	c.JSON(code, response)
}

// Handler serves the file API backed by the files table and the blob store.
type Handler struct {
	dbClient dbclient.Interface
	store    blob.Store
}

func NewHandler(dbClient dbclient.Interface, store blob.Store) *Handler {
	return &Handler{
		dbClient: dbClient,
		store:    store,
	}
}

// UploadFile handles POST /v1/files.
func (h *Handler) UploadFile(c *gin.Context) {
	handle(c, h.uploadFile)
}

// GetFile handles GET /v1/files/:id.
func (h *Handler) GetFile(c *gin.Context) {
	handle(c, h.getFile)
}

// ListFiles handles GET /v1/files.
func (h *Handler) ListFiles(c *gin.Context) {
	handle(c, h.listFiles)
}

// DeleteFile handles DELETE /v1/files/:id.
func (h *Handler) DeleteFile(c *gin.Context) {
	handle(c, h.deleteFile)
}

func (h *Handler) uploadFile(c *gin.Context) (interface{}, error) {
	purpose := c.PostForm("purpose")
	if purpose != apis.PurposeUploadBatch {
		return nil, errors.NewValidationError(fmt.Sprintf("purpose must be %q, got %q", apis.PurposeUploadBatch, purpose))
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, errors.NewValidationError("multipart field \"file\" is required")
	}
	if maxBytes := config.GetMaxUploadBytes(); fileHeader.Size > maxBytes {
		return nil, errors.NewTooLarge(fmt.Sprintf("file is %d bytes, limit is %d", fileHeader.Size, maxBytes))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, errors.NewInternalError(err.Error())
	}
	defer src.Close()

	summary, err := batchfile.ValidateInput(src, config.GetMaxRequestsPerJob())
	if err != nil {
		return nil, err
	}
	if _, err = src.Seek(0, io.SeekStart); err != nil {
		return nil, errors.NewInternalError(err.Error())
	}

	fileId := "file-" + uuid.NewString()
	blobRef := blob.FileRef(fileId)
	if err = h.store.Put(c.Request.Context(), blobRef, src); err != nil {
		return nil, errors.NewInternalError(fmt.Sprintf("failed to store file: %v", err))
	}

	file := &dbclient.File{
		FileId:    fileId,
		Purpose:   apis.PurposeBatchInput,
		Filename:  fileHeader.Filename,
		Bytes:     fileHeader.Size,
		BlobRef:   blobRef,
		LineCount: summary.LineCount,
		Model:     dbutils.NullString(summary.Model),
	}
	if err = h.dbClient.InsertFile(c.Request.Context(), file); err != nil {
		// Insert failed, the blob is unreachable garbage, reclaim it.
		if delErr := h.store.Delete(c.Request.Context(), blobRef); delErr != nil {
			klog.ErrorS(delErr, "failed to clean up orphan blob", "blobRef", blobRef)
		}
		return nil, err
	}

	klog.InfoS("file uploaded", "fileId", fileId, "bytes", fileHeader.Size,
		"lines", summary.LineCount, "model", summary.Model)
	return cvtFile(file), nil
}

func (h *Handler) getFile(c *gin.Context) (interface{}, error) {
	file, err := h.dbClient.GetFile(c.Request.Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}
	return cvtFile(file), nil
}

func (h *Handler) listFiles(c *gin.Context) (interface{}, error) {
	limit := 100
	if l := c.Query("limit"); l != "" {
		val, err := strconv.Atoi(l)
		if err != nil || val < 1 || val > 1000 {
			return nil, errors.NewValidationError("limit must be an integer in [1, 1000]")
		}
		limit = val
	}
	query := sqrl.Eq{"is_deleted": false}
	if purpose := c.Query("purpose"); purpose != "" {
		query["purpose"] = purpose
	}
	orderBy := []string{dbclient.CreatedAt + " " + dbclient.DESC}
	files, err := h.dbClient.SelectFiles(c.Request.Context(), query, orderBy, limit, 0)
	if err != nil {
		return nil, err
	}
	data := make([]apis.File, 0, len(files))
	for _, file := range files {
		data = append(data, *cvtFile(file))
	}
	return apis.ListFileResponse{Object: "list", Data: data}, nil
}

// deleteFile refuses deletion while any non-terminal batch references the
// file, then removes the row and the blob.
func (h *Handler) deleteFile(c *gin.Context) (interface{}, error) {
	fileId := c.Param("id")
	file, err := h.dbClient.GetFile(c.Request.Context(), fileId)
	if err != nil {
		return nil, err
	}
	active, err := h.dbClient.CountActiveJobsByFile(c.Request.Context(), fileId)
	if err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, errors.NewFileInUse(fmt.Sprintf("%d active batches reference %s", active, fileId))
	}
	if err = h.dbClient.SetFileDeleted(c.Request.Context(), fileId); err != nil {
		return nil, err
	}
	if err = h.store.Delete(c.Request.Context(), file.BlobRef); err != nil {
		// The row is already tombstoned, the blob sweep will retry.
		klog.ErrorS(err, "failed to delete blob", "fileId", fileId, "blobRef", file.BlobRef)
	}
	klog.InfoS("file deleted", "fileId", fileId)
	return apis.DeleteFileResponse{ID: fileId, Object: "file", Deleted: true}, nil
}

// GetFileContent handles GET /v1/files/:id/content by streaming the blob.
// It bypasses handle() because the response is not JSON.
func (h *Handler) GetFileContent(c *gin.Context) {
	fileId := c.Param("id")
	file, err := h.dbClient.GetFile(c.Request.Context(), fileId)
	if err != nil {
		apiutils.AbortWithApiError(c, err)
		return
	}
	reader, err := h.store.Get(c.Request.Context(), file.BlobRef)
	if err != nil {
		apiutils.AbortWithApiError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.DataFromReader(http.StatusOK, file.Bytes, "application/jsonl", reader, nil)
}

// cvtFile converts a file row to its wire representation.
func cvtFile(file *dbclient.File) *apis.File {
	rsp := &apis.File{
		ID:        file.FileId,
		Object:    "file",
		Bytes:     file.Bytes,
		Filename:  file.Filename,
		Purpose:   file.Purpose,
		CreatedAt: dbutils.ParseNullTime(file.CreatedAt).Unix(),
	}
	if file.ExpiresAt.Valid {
		expiresAt := file.ExpiresAt.Time.Unix()
		rsp.ExpiresAt = &expiresAt
	}
	return rsp
}
