package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Anshuu-Sharma/LegalSetu-sub000/config"
)

// Client is the one seam the pipeline has on the model service.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// CallError is a network or HTTP failure talking to the model service.
type CallError struct {
	StatusCode int
	Err        error
}

func (e *CallError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("llm call failed with status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("llm call failed: %v", e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

// HTTPClient talks to an OpenAI-compatible chat-completions endpoint.
// Sampling is pinned to the configured temperature (0 by default) so
// identical prompts produce stable output.
type HTTPClient struct {
	cfg        config.LLMConfig
	httpClient *http.Client
}

func NewHTTPClient(cfg config.LLMConfig) *HTTPClient {
	return &HTTPClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *HTTPClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return "", &CallError{Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", &CallError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &CallError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &CallError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected response: %s", string(raw)),
		}
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &CallError{Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	if result.Error != nil {
		return "", &CallError{Err: fmt.Errorf("service error: %s", result.Error.Message)}
	}
	if len(result.Choices) == 0 {
		return "", &CallError{Err: fmt.Errorf("empty response from model")}
	}

	return result.Choices[0].Message.Content, nil
}
