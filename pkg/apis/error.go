/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package apis

// ErrorBody is the error object carried by every 4xx/5xx response.
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestId string `json:"request_id,omitempty"`
}

// ErrorResponse is the envelope of every 4xx/5xx response.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}
