// Copyright 2026 Arclens
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@arclens.dev
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package embedder generates vector embeddings for code chunks, with
// pluggable providers, retrying transient failures, and backing off its
// batch size under memory pressure.
package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"os"
	"time"
)

// Provider generates a normalized (L2 norm = 1.0) embedding vector for text.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// NewProvider builds a Provider from a provider name and environment
// configuration: "mock", "ollama", or "openai".
func NewProvider(name string, logger *slog.Logger) (Provider, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch name {
	case "mock":
		return NewMockProvider(384), nil

	case "ollama", "local_model":
		baseURL := os.Getenv("OLLAMA_BASE_URL")
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		model := os.Getenv("OLLAMA_EMBED_MODEL")
		if model == "" {
			model = "nomic-embed-text"
		}
		return NewOllamaProvider(baseURL, model, logger), nil

	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
		baseURL := os.Getenv("OPENAI_API_BASE")
		if baseURL == "" {
			baseURL = "https://api.openai.com/v1"
		}
		model := os.Getenv("OPENAI_EMBED_MODEL")
		if model == "" {
			model = "text-embedding-3-small"
		}
		return NewOpenAIProvider(apiKey, baseURL, model, logger), nil

	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: mock, ollama, openai)", name)
	}
}

// MockProvider generates deterministic embeddings from a text hash, for
// tests and offline development.
type MockProvider struct {
	dimension int
}

// NewMockProvider returns a Provider producing dimension-sized vectors.
func NewMockProvider(dimension int) *MockProvider {
	return &MockProvider{dimension: dimension}
}

func (m *MockProvider) Dimension() int { return m.dimension }

func (m *MockProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	hash := hashString(text)
	embedding := make([]float32, m.dimension)
	for i := 0; i < m.dimension; i++ {
		val := float32((hash+uint64(i)*7919)%10000) / 10000.0
		embedding[i] = val*2.0 - 1.0
	}
	return normalize(embedding), nil
}

func hashString(s string) uint64 {
	var hash uint64 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint64(c)
	}
	return hash
}

func normalize(v []float32) []float32 {
	var norm float32
	for _, x := range v {
		norm += x * x
	}
	norm = float32(math.Sqrt(float64(norm)))
	if norm > 0 {
		for i := range v {
			v[i] /= norm
		}
	}
	return v
}

// OllamaProvider embeds text via a local Ollama server's /api/embeddings endpoint.
type OllamaProvider struct {
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
	dim        int
}

func NewOllamaProvider(baseURL, model string, logger *slog.Logger) *OllamaProvider {
	return &OllamaProvider{
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger,
		dim:        768,
	}
}

func (o *OllamaProvider) Dimension() int { return o.dim }

type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

func (o *OllamaProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	reqBody, err := json.Marshal(ollamaEmbedRequest{Model: o.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/embeddings", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama embed failed: status %d: %s", resp.StatusCode, string(body))
	}

	var out ollamaEmbedResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(out.Embedding) > 0 {
		o.dim = len(out.Embedding)
	}
	return normalize(out.Embedding), nil
}

// OpenAIProvider embeds text via an OpenAI-compatible /v1/embeddings endpoint.
type OpenAIProvider struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
	dim        int
}

func NewOpenAIProvider(apiKey, baseURL, model string, logger *slog.Logger) *OpenAIProvider {
	return &OpenAIProvider{
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger,
		dim:        1536,
	}
}

func (o *OpenAIProvider) Dimension() int { return o.dim }

type openAIEmbedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type openAIEmbedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func (o *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	reqBody, err := json.Marshal(openAIEmbedRequest{Model: o.model, Input: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/embeddings", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai embed failed: status %d: %s", resp.StatusCode, string(body))
	}

	var out openAIEmbedResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(out.Data) == 0 {
		return nil, fmt.Errorf("openai embed returned no data")
	}
	if len(out.Data[0].Embedding) > 0 {
		o.dim = len(out.Data[0].Embedding)
	}
	return normalize(out.Data[0].Embedding), nil
}
