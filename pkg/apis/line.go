/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package apis

import "encoding/json"

// ChatMessage is one conversation turn inside a request body.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// BatchRequestBody is the chat completion payload of one input line.
// Optional sampling fields stay nil when the line omits them so engine
// defaults apply.
type BatchRequestBody struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
	Temperature *float32      `json:"temperature,omitempty"`
	TopP        *float32      `json:"top_p,omitempty"`
}

// BatchRequestLine is one line of a batch input file.
type BatchRequestLine struct {
	CustomID string           `json:"custom_id"`
	Method   string           `json:"method"`
	URL      string           `json:"url"`
	Body     BatchRequestBody `json:"body"`
}

// BatchLineError is the error object attached to a failed request line.
type BatchLineError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	AttemptCount int    `json:"attempt_count,omitempty"`
}

// BatchOutputResponse wraps the engine response for one completed request.
// Body holds the chat completion object verbatim.
type BatchOutputResponse struct {
	StatusCode int             `json:"status_code"`
	Body       json.RawMessage `json:"body"`
}

// BatchOutputLine is one line of a batch output file. Error is always
// serialized, null on success, to keep line schemas uniform.
type BatchOutputLine struct {
	CustomID string               `json:"custom_id"`
	Response *BatchOutputResponse `json:"response"`
	Error    *BatchLineError      `json:"error"`
}

// BatchErrorLine is one line of a batch error file.
type BatchErrorLine struct {
	CustomID string         `json:"custom_id"`
	Error    BatchLineError `json:"error"`
}
