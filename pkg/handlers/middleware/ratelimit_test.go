/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gotest.tools/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func rateLimitedRouter(resource string, perMin int) *gin.Engine {
	e := gin.New()
	e.POST("/x", RateLimit(resource, perMin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return e
}

func hit(e *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	req.RemoteAddr = ip + ":4711"
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func TestRateLimitExhaustsBurst(t *testing.T) {
	e := rateLimitedRouter("burst-test", 3)
	for i := 0; i < 3; i++ {
		w := hit(e, "10.0.0.1")
		assert.Equal(t, w.Code, http.StatusOK, "request %d", i)
		assert.Equal(t, w.Header().Get(HeaderRateLimitLimit), "3")
		assert.Assert(t, w.Header().Get(HeaderRateLimitReset) != "")
	}
	w := hit(e, "10.0.0.1")
	assert.Equal(t, w.Code, http.StatusTooManyRequests)
	assert.Equal(t, w.Header().Get(HeaderRateLimitRemaining), "0")
	assert.Assert(t, w.Header().Get(HeaderRetryAfter) != "")
	reset, err := strconv.ParseInt(w.Header().Get(HeaderRateLimitReset), 10, 64)
	assert.NilError(t, err)
	// The bucket refills a token within the next minute.
	assert.Assert(t, reset >= time.Now().Unix())
	assert.Assert(t, reset <= time.Now().Add(time.Minute+time.Second).Unix())
}

func TestRateLimitIsPerClient(t *testing.T) {
	e := rateLimitedRouter("per-client-test", 1)
	assert.Equal(t, hit(e, "10.0.1.1").Code, http.StatusOK)
	assert.Equal(t, hit(e, "10.0.1.1").Code, http.StatusTooManyRequests)
	// A different client has its own bucket.
	assert.Equal(t, hit(e, "10.0.1.2").Code, http.StatusOK)
}

func TestRateLimitIsPerResource(t *testing.T) {
	files := rateLimitedRouter("res-a-test", 1)
	batches := rateLimitedRouter("res-b-test", 1)
	assert.Equal(t, hit(files, "10.0.2.1").Code, http.StatusOK)
	assert.Equal(t, hit(files, "10.0.2.1").Code, http.StatusTooManyRequests)
	assert.Equal(t, hit(batches, "10.0.2.1").Code, http.StatusOK)
}

func TestRateLimitDisabled(t *testing.T) {
	e := rateLimitedRouter("disabled-test", 0)
	for i := 0; i < 10; i++ {
		assert.Equal(t, hit(e, "10.0.3.1").Code, http.StatusOK)
	}
}
