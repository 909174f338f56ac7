/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
	"k8s.io/klog/v2"

	"github.com/AMD-AGI/Primus-Batch/pkg/config"
	batcherrors "github.com/AMD-AGI/Primus-Batch/pkg/errors"
	"github.com/AMD-AGI/Primus-Batch/pkg/utils/httpclient"
	jsonutils "github.com/AMD-AGI/Primus-Batch/pkg/utils/json"
)

// httpEngine talks to a vLLM-style server: chat completions through the
// OpenAI-compatible surface, model lifecycle through its admin endpoints.
type httpEngine struct {
	baseUrl     string
	openaiCli   *openai.Client
	adminCli    httpclient.Interface
	generateTmo time.Duration
}

// NewHttpEngine builds the engine adapter from configuration.
func NewHttpEngine() (Interface, error) {
	baseUrl := strings.TrimRight(config.GetEngineBaseUrl(), "/")
	if baseUrl == "" {
		return nil, fmt.Errorf("engine base url is empty")
	}
	cfg := openai.DefaultConfig(config.GetEngineApiKey())
	cfg.BaseURL = baseUrl + "/v1"
	return &httpEngine{
		baseUrl:     baseUrl,
		openaiCli:   openai.NewClientWithConfig(cfg),
		adminCli:    httpclient.NewHttpClient(),
		generateTmo: time.Duration(config.GetEngineGenerateTimeoutSecond()) * time.Second,
	}, nil
}

type loadRequest struct {
	Model string `json:"model"`
	LoadConfig
}

type statusResponse struct {
	Model string `json:"model"`
	State string `json:"state"`
}

func (e *httpEngine) Load(ctx context.Context, model string, cfg LoadConfig) error {
	req, err := httpclient.BuildRequestWithContext(ctx, e.baseUrl+"/admin/load", "POST",
		loadRequest{Model: model, LoadConfig: cfg})
	if err != nil {
		return err
	}
	rsp, err := e.adminCli.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed to load model %s", model)
	}
	if !rsp.IsSuccess() {
		return batcherrors.NewModelLoadFailed(fmt.Sprintf("load %s: %s", model, rsp.String()))
	}
	return nil
}

func (e *httpEngine) Unload(ctx context.Context) error {
	req, err := httpclient.BuildRequestWithContext(ctx, e.baseUrl+"/admin/unload", "POST", nil)
	if err != nil {
		return err
	}
	rsp, err := e.adminCli.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to unload model")
	}
	if !rsp.IsSuccess() {
		return fmt.Errorf("unload model: %s", rsp.String())
	}
	return nil
}

func (e *httpEngine) LoadedModel(ctx context.Context) (string, error) {
	req, err := httpclient.BuildRequestWithContext(ctx, e.baseUrl+"/admin/status", "GET", nil)
	if err != nil {
		return "", err
	}
	rsp, err := e.adminCli.Do(req)
	if err != nil {
		return "", err
	}
	if !rsp.IsSuccess() {
		return "", fmt.Errorf("engine status: %s", rsp.String())
	}
	var status statusResponse
	if err = jsonutils.Unmarshal(rsp.Body, &status); err != nil {
		return "", errors.Wrap(err, "failed to parse engine status")
	}
	return status.Model, nil
}

func (e *httpEngine) Health(ctx context.Context) (*Health, error) {
	req, err := httpclient.BuildRequestWithContext(ctx, e.baseUrl+"/health", "GET", nil)
	if err != nil {
		return nil, err
	}
	rsp, err := e.adminCli.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "engine health probe failed")
	}
	if !rsp.IsSuccess() {
		return nil, fmt.Errorf("engine health: %s", rsp.String())
	}
	var health Health
	if err = jsonutils.Unmarshal(rsp.Body, &health); err != nil {
		return nil, errors.Wrap(err, "failed to parse engine health")
	}
	return &health, nil
}

// Generate runs the chunk's prompts one by one. Per-prompt failures are
// carried in Result.Err rather than failing the chunk; only a context error
// aborts early so cancellation stays chunk-granular above us.
func (e *httpEngine) Generate(ctx context.Context, reqs []Request) ([]Result, Usage, error) {
	results := make([]Result, 0, len(reqs))
	var usage Usage
	for _, req := range reqs {
		if err := ctx.Err(); err != nil {
			return results, usage, err
		}
		result, u := e.generateOne(ctx, req)
		usage.PromptTokens += u.PromptTokens
		usage.CompletionTokens += u.CompletionTokens
		usage.TotalTokens += u.TotalTokens
		results = append(results, result)
	}
	return results, usage, nil
}

func (e *httpEngine) generateOne(ctx context.Context, req Request) (Result, Usage) {
	ctx, cancel := context.WithTimeout(ctx, e.generateTmo)
	defer cancel()

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Body.Messages))
	for _, msg := range req.Body.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	chatReq := openai.ChatCompletionRequest{
		Model:    req.Body.Model,
		Messages: messages,
	}
	if req.Body.MaxTokens != nil {
		chatReq.MaxTokens = *req.Body.MaxTokens
	}
	if req.Body.Temperature != nil {
		chatReq.Temperature = *req.Body.Temperature
	}
	if req.Body.TopP != nil {
		chatReq.TopP = *req.Body.TopP
	}

	rsp, err := e.openaiCli.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		klog.V(4).ErrorS(err, "engine generate failed", "customId", req.CustomID)
		return Result{
			CustomID:   req.CustomID,
			StatusCode: openaiErrorStatus(err),
			Err:        batcherrors.NewInferenceError(err.Error()),
		}, Usage{}
	}
	body := jsonutils.MarshalSilently(rsp)
	return Result{
			CustomID:   req.CustomID,
			StatusCode: 200,
			Body:       body,
		}, Usage{
			PromptTokens:     int64(rsp.Usage.PromptTokens),
			CompletionTokens: int64(rsp.Usage.CompletionTokens),
			TotalTokens:      int64(rsp.Usage.TotalTokens),
		}
}

// openaiErrorStatus extracts the upstream HTTP status when the SDK carries
// one, defaulting to 500.
func openaiErrorStatus(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return reqErr.HTTPStatusCode
	}
	return 500
}
