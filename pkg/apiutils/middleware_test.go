/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package apiutils

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gotest.tools/assert"

	"github.com/AMD-AGI/Primus-Batch/pkg/apis"
	batcherrors "github.com/AMD-AGI/Primus-Batch/pkg/errors"
	jsonutils "github.com/AMD-AGI/Primus-Batch/pkg/utils/json"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestIdAssigned(t *testing.T) {
	e := gin.New()
	e.Use(RequestId())
	var seen string
	e.GET("/x", func(c *gin.Context) {
		seen = GetRequestId(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Assert(t, seen != "")
	assert.Equal(t, w.Header().Get(RequestIdHeader), seen)
}

func TestRequestIdHonoursClientSupplied(t *testing.T) {
	e := gin.New()
	e.Use(RequestId())
	e.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIdHeader, "req-from-client")
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	assert.Equal(t, w.Header().Get(RequestIdHeader), "req-from-client")
}

func TestAbortWithApiError(t *testing.T) {
	e := gin.New()
	e.Use(RequestId())
	e.GET("/x", func(c *gin.Context) {
		AbortWithApiError(c, batcherrors.NewQueueFull("depth 100 of 100"))
	})

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, w.Code, http.StatusServiceUnavailable)

	var rsp apis.ErrorResponse
	assert.NilError(t, jsonutils.Unmarshal(w.Body.Bytes(), &rsp))
	assert.Equal(t, rsp.Error.Code, batcherrors.QueueFull)
	assert.Assert(t, rsp.Error.RequestId != "")
}

func TestAbortWithApiErrorWrapsPlainErrors(t *testing.T) {
	e := gin.New()
	e.GET("/x", func(c *gin.Context) {
		AbortWithApiError(c, fmt.Errorf("pq: connection refused"))
	})

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, w.Code, http.StatusInternalServerError)

	var rsp apis.ErrorResponse
	assert.NilError(t, jsonutils.Unmarshal(w.Body.Bytes(), &rsp))
	assert.Equal(t, rsp.Error.Code, batcherrors.InternalError)
}
