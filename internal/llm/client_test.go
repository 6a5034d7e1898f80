package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anshuu-Sharma/LegalSetu-sub000/config"
)

func TestHTTPClientGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, float64(0), req.Temperature)
		require.Len(t, req.Messages, 1)

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "hello"}},
			},
		})
	}))
	defer srv.Close()

	cfg := config.Default().LLM
	cfg.BaseURL = srv.URL
	cfg.APIKey = "test-key"

	client := NewHTTPClient(cfg)
	out, err := client.Generate(context.Background(), "say hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestHTTPClientGenerateHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := config.Default().LLM
	cfg.BaseURL = srv.URL

	client := NewHTTPClient(cfg)
	_, err := client.Generate(context.Background(), "prompt")
	require.Error(t, err)

	var callErr *CallError
	require.True(t, errors.As(err, &callErr))
	assert.Equal(t, http.StatusBadGateway, callErr.StatusCode)
}

func TestHTTPClientGenerateEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	cfg := config.Default().LLM
	cfg.BaseURL = srv.URL

	client := NewHTTPClient(cfg)
	_, err := client.Generate(context.Background(), "prompt")

	var callErr *CallError
	assert.True(t, errors.As(err, &callErr))
}
