package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Anshuu-Sharma/LegalSetu-sub000/config"
)

// Client is the translation-service seam. Implementations must be safe for
// concurrent use: the translator fans out one call per field.
type Client interface {
	Translate(ctx context.Context, text, targetLang, sourceLang string) (string, error)
}

// TranslationError wraps a per-field or whole-batch translation failure.
type TranslationError struct {
	Field string
	Err   error
}

func (e *TranslationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("translation of %s failed: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("translation failed: %v", e.Err)
}

func (e *TranslationError) Unwrap() error { return e.Err }

// HTTPClient talks to a LibreTranslate-compatible endpoint.
type HTTPClient struct {
	cfg        config.TranslationConfig
	httpClient *http.Client
}

func NewHTTPClient(cfg config.TranslationConfig) *HTTPClient {
	return &HTTPClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error,omitempty"`
}

func (c *HTTPClient) Translate(ctx context.Context, text, targetLang, sourceLang string) (string, error) {
	if sourceLang == "" {
		sourceLang = "auto"
	}

	body, err := json.Marshal(translateRequest{
		Q:      text,
		Source: sourceLang,
		Target: targetLang,
		APIKey: c.cfg.APIKey,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(raw))
	}

	var result translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("service error: %s", result.Error)
	}

	return result.TranslatedText, nil
}
