/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"gotest.tools/assert"
)

func TestPostAndResult(t *testing.T) {
	var gotBody string
	var gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		_, _ = r.Body.Read(buf)
		gotBody = string(buf)
		gotHeader = r.Header.Get("X-Test")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	rsp, err := NewHttpClient().Post(srv.URL, map[string]string{"a": "b"}, "X-Test", "yes")
	assert.NilError(t, err)
	assert.Assert(t, rsp.IsSuccess())
	assert.Equal(t, rsp.StatusCode, http.StatusAccepted)
	assert.Equal(t, string(rsp.Body), `{"ok":true}`)
	assert.Equal(t, gotBody, `{"a":"b"}`)
	assert.Equal(t, gotHeader, "yes")
}

func TestNon2xxIsNotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	rsp, err := NewHttpClient().Get(srv.URL)
	assert.NilError(t, err)
	assert.Assert(t, !rsp.IsSuccess())
	assert.Equal(t, calls, 1)
}

func TestBuildRequestHeaderPairs(t *testing.T) {
	req, err := BuildRequest("http://example.com/load", http.MethodPost, "payload", "Authorization", "Bearer x", "dangling")
	assert.NilError(t, err)
	assert.Equal(t, req.Header.Get("Authorization"), "Bearer x")
	assert.Equal(t, req.Header.Get("Content-Type"), "application/json")
}
