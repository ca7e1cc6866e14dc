// Copyright 2026 Arclens
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package qa

import (
	"context"
	"fmt"
	"time"

	"github.com/arclens/ckb/pkg/embedder"
	"github.com/arclens/ckb/pkg/llm"
)

// Service answers questions about one analyzed project.
type Service struct {
	ProjectID string
	ChunkBase string // vector collection base name; defaults to "chunks"

	Graph    GraphProvider
	Vectors  VectorProvider
	Embedder embedder.Provider
	LLM      llm.Provider

	SystemPrompt string
	Model        string
	MaxTokens    int
	Temperature  float64
	TopP         float64
	TopK         int
}

// New returns a Service with its defaults applied. SystemPrompt is left
// unset so systemPrompt can choose between llm.SystemPrompts.CodeQA and
// CodeQANoContext per request; set Service.SystemPrompt explicitly to pin
// one prompt regardless of whether context assembly found anything.
func New(graph GraphProvider, vectors VectorProvider, emb embedder.Provider, provider llm.Provider, projectID string) *Service {
	return &Service{
		ProjectID: projectID,
		ChunkBase: "chunks",
		Graph:     graph,
		Vectors:   vectors,
		Embedder:  emb,
		LLM:       provider,
		TopK:      defaultTopK,
	}
}

// Ask assembles context for req and answers it via the configured LLM
// provider, retrying transient failures per the chat retry policy.
func (s *Service) Ask(ctx context.Context, req Request) (*Answer, error) {
	contextText, err := s.buildContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("assemble context: %w", err)
	}

	chatReq := llm.ChatRequest{
		Model: s.Model,
		Messages: llm.BuildChatMessages(
			s.systemPrompt(contextText),
			req.Question,
			llm.Message{Role: "user", Content: contextText},
		),
		MaxTokens:   s.MaxTokens,
		Temperature: s.Temperature,
		TopP:        s.TopP,
	}

	resp, err := s.chatWithRetry(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("qa chat: %w", err)
	}

	answer := &Answer{}
	answer.fromChat(resp)
	return answer, nil
}

// systemPrompt returns the caller's override if set, falling back to
// CodeQANoContext when assembly found nothing at all so the model is told
// explicitly to say so, rather than the general CodeQA prompt.
func (s *Service) systemPrompt(contextText string) string {
	if s.SystemPrompt != "" {
		return s.SystemPrompt
	}
	if contextText == noContextSentinel {
		return llm.SystemPrompts.CodeQANoContext
	}
	return llm.SystemPrompts.CodeQA
}

func (s *Service) chatWithRetry(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	var lastErr error
	for attempt := 0; attempt < maxChatAttempts; attempt++ {
		resp, err := s.LLM.Chat(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !isRetryableChatError(err) || attempt == maxChatAttempts-1 {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(chatRetryBackoffs[attempt]):
		}
	}
	return nil, lastErr
}
