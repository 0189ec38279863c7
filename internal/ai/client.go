// Package ai provides the HTTP client for the external AI provider.
// Three capabilities are consumed as black boxes: chat-style text
// completion, image generation and web search.
package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"catalogcli/internal/config"
	"catalogcli/internal/infrastructure"
)

// Client talks to an OpenAI-compatible provider
type Client struct {
	cfg        config.AIConfig
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *infrastructure.Metrics
}

// NewClient creates a provider client. metrics may be nil in tests.
func NewClient(cfg config.AIConfig, logger *slog.Logger, metrics *infrastructure.Metrics) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		logger:     logger,
		metrics:    metrics,
	}
}

// ChatRequest describes one text completion call
type ChatRequest struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// SearchResult is one web search hit
type SearchResult struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletion sends a system+user prompt pair and returns the single
// completion text.
func (c *Client) ChatCompletion(ctx context.Context, req ChatRequest) (string, error) {
	body := struct {
		Model       string        `json:"model"`
		Messages    []chatMessage `json:"messages"`
		Temperature float64       `json:"temperature,omitempty"`
		MaxTokens   int           `json:"max_tokens,omitempty"`
	}{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.Prompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := c.post(ctx, "chat", "/chat/completions", body, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", &ProviderError{Capability: "chat", Message: "no choices in completion response"}
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateImage generates one image for the prompt at the given square
// size (e.g. "1024x1024") and returns the raw image bytes.
func (c *Client) GenerateImage(ctx context.Context, prompt, size string) ([]byte, error) {
	body := struct {
		Model          string `json:"model"`
		Prompt         string `json:"prompt"`
		N              int    `json:"n"`
		Size           string `json:"size"`
		ResponseFormat string `json:"response_format"`
	}{
		Model:          c.cfg.ImageModel,
		Prompt:         prompt,
		N:              1,
		Size:           size,
		ResponseFormat: "b64_json",
	}

	var resp struct {
		Data []struct {
			B64JSON string `json:"b64_json"`
		} `json:"data"`
	}

	if err := c.post(ctx, "image", "/images/generations", body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, &ProviderError{Capability: "image", Message: "no image in generation response"}
	}

	img, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, &ProviderError{Capability: "image", Message: fmt.Sprintf("invalid image payload: %v", err)}
	}
	return img, nil
}

// SearchWeb runs a web search and returns result records with a URL field
func (c *Client) SearchWeb(ctx context.Context, query string) ([]SearchResult, error) {
	body := struct {
		Query string `json:"query"`
	}{Query: query}

	var resp struct {
		Results []SearchResult `json:"results"`
	}

	if err := c.post(ctx, "search", "/search", body, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// post issues one JSON request against the provider and decodes the
// response into out.
func (c *Client) post(ctx context.Context, capability, path string, body, out interface{}) error {
	start := time.Now()
	err := c.doPost(ctx, path, body, out)
	elapsed := time.Since(start)

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	if c.metrics != nil {
		c.metrics.AICalls.WithLabelValues(capability, outcome).Inc()
		c.metrics.AICallDuration.WithLabelValues(capability).Observe(elapsed.Seconds())
	}

	if err != nil {
		c.logger.WarnContext(ctx, "provider call failed",
			"capability", capability,
			"duration", elapsed.String(),
			"error", err,
		)
		return err
	}

	c.logger.DebugContext(ctx, "provider call completed",
		"capability", capability,
		"duration", elapsed.String(),
	)
	return nil
}

func (c *Client) doPost(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return &ProviderError{Capability: path, Message: fmt.Sprintf("request timeout after %v", c.cfg.RequestTimeout), Cause: err}
		}
		return &ProviderError{Capability: path, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &ProviderError{
			Capability: path,
			StatusCode: resp.StatusCode,
			Message:    string(raw),
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode provider response: %w", err)
	}
	return nil
}
