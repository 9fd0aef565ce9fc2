package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"google.golang.org/genai"

	"vitai/internal/config"
	"vitai/internal/logging"
)

// GeminiClient wraps the Google Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
	tools  []*genai.Tool
	retry  RetryConfig
}

// NewGeminiClient creates a new Gemini API client.
func NewGeminiClient(ctx context.Context, cfg *config.Config) (Client, error) {
	if cfg.API.GeminiKey == "" {
		return nil, fmt.Errorf("Gemini API key required: set GEMINI_API_KEY or api.gemini_key in the config file")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  cfg.API.GeminiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	genConfig := &genai.GenerateContentConfig{
		Temperature:     Ptr(cfg.Model.Temperature),
		MaxOutputTokens: cfg.Model.MaxOutputTokens,
	}

	return &GeminiClient{
		client: client,
		model:  cfg.Model.Name,
		config: genConfig,
		retry:  retryConfigFrom(cfg.API.Retry),
	}, nil
}

// SetTools sets the tools available for function calling.
func (c *GeminiClient) SetTools(tools []*genai.Tool) {
	c.tools = tools
}

// Model returns the model name.
func (c *GeminiClient) Model() string {
	return c.model
}

// Generate sends the prompt and returns the complete response, retrying
// transient failures with exponential backoff.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (*Response, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	cfg := *c.config
	if len(c.tools) > 0 {
		cfg.Tools = c.tools
	}

	var lastErr error
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := CalculateBackoff(c.retry.RetryDelay, attempt-1, c.retry.MaxDelay)
			logging.Info("retrying Gemini request", "attempt", attempt, "delay", delay)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, &cfg)
		if err == nil {
			return extractResponse(resp), nil
		}

		lastErr = err
		if !isRetryableError(err) {
			return nil, err
		}

		logging.Warn("Gemini request failed, will retry", "attempt", attempt, "error", err)
	}

	return nil, fmt.Errorf("max retries (%d) exceeded: %w", c.retry.MaxRetries, lastErr)
}

// extractResponse converts a Gemini response into text and function calls.
func extractResponse(resp *genai.GenerateContentResponse) *Response {
	out := &Response{}

	if resp == nil || len(resp.Candidates) == 0 {
		return out
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return out
	}

	for _, part := range candidate.Content.Parts {
		if part == nil {
			continue
		}
		if part.Thought {
			continue
		}
		if part.Text != "" {
			out.Text += part.Text
		}
		if part.FunctionCall != nil {
			out.FunctionCalls = append(out.FunctionCalls, part.FunctionCall)
		}
	}

	return out
}

// isRetryableError returns true if the error should trigger a retry.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()

	// 429 = rate limit, 500/502/503/504 = server errors
	retryableCodes := []string{"429", "500", "502", "503", "504"}
	for _, code := range retryableCodes {
		if strings.Contains(errStr, code) {
			return true
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	networkPatterns := []string{
		"connection refused",
		"connection reset",
		"no such host",
		"timeout",
		"temporary failure",
		"UNAVAILABLE",
		"RESOURCE_EXHAUSTED",
	}
	for _, pattern := range networkPatterns {
		if strings.Contains(strings.ToLower(errStr), strings.ToLower(pattern)) {
			return true
		}
	}

	return false
}

// Close closes the client connection.
func (c *GeminiClient) Close() error {
	// The genai client doesn't have an explicit close method
	return nil
}

// Ptr returns a pointer to the given value.
func Ptr[T any](v T) *T {
	return &v
}
