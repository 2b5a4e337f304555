package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// CompatibleConfig configures a client for an OpenAI-compatible
// chat-completions endpoint such as OpenRouter or the HuggingFace router.
type CompatibleConfig struct {
	Name       string
	BaseURL    string
	APIKey     string
	Headers    map[string]string
	HTTPClient *http.Client
}

// CompatibleClient 直接通过 HTTP 调用 /chat/completions。
type CompatibleClient struct {
	name       string
	endpoint   string
	apiKey     string
	headers    map[string]string
	httpClient *http.Client
}

// NewCompatibleClient creates the client; an empty APIKey is accepted and
// reported as ErrMissingAPIKey on each call.
func NewCompatibleClient(cfg CompatibleConfig) *CompatibleClient {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		if v != "" {
			headers[k] = v
		}
	}

	return &CompatibleClient{
		name:       cfg.Name,
		endpoint:   strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions",
		apiKey:     strings.TrimSpace(cfg.APIKey),
		headers:    headers,
		httpClient: httpClient,
	}
}

// Name returns the provider name used in logs.
func (c *CompatibleClient) Name() string {
	return c.name
}

// Complete performs exactly one POST and normalizes the first choice.
func (c *CompatibleClient) Complete(ctx context.Context, req Request) (Completion, error) {
	if c.apiKey == "" {
		return Completion{}, ErrMissingAPIKey
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return Completion{}, fmt.Errorf("encode %s request: %w", c.name, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Completion{}, fmt.Errorf("build %s request: %w", c.name, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Completion{}, fmt.Errorf("call %s: %w", c.name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Completion{}, fmt.Errorf("read %s response: %w", c.name, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return Completion{}, &UpstreamError{Provider: c.name, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if !gjson.ValidBytes(body) {
		return Completion{}, fmt.Errorf("decode %s response: invalid json", c.name)
	}

	parsed := gjson.ParseBytes(body)
	// OpenRouter 在上游模型失败时可能返回 200 + error 对象。
	if parsed.Get("error").Exists() && !parsed.Get("choices.0").Exists() {
		status := int(parsed.Get("error.code").Int())
		if status == 0 {
			status = resp.StatusCode
		}
		return Completion{}, &UpstreamError{Provider: c.name, StatusCode: status, Body: string(body)}
	}

	return Completion{
		Text:  parsed.Get("choices.0.message.content").String(),
		Model: parsed.Get("model").String(),
	}, nil
}
