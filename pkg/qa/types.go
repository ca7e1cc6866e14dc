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

// Package qa answers natural-language questions about an analyzed codebase
// by assembling context from the graph and vector stores and delegating the
// answer to an LLM provider.
package qa

import "github.com/arclens/ckb/pkg/llm"

// noContextSentinel is included in the prompt when nothing else yielded
// context, so the LLM always receives a defined input rather than an empty
// user turn.
const noContextSentinel = "no context found; please provide more information"

const defaultTopK = 3

// Request is one question posed to the service, optionally narrowed to a
// function or file already known to the caller.
type Request struct {
	Question      string
	ProjectPath   string
	FocusFunction string
	FocusFile     string
}

// Answer is the service's response, carrying the LLM's reported usage
// alongside the text so callers can track cost.
type Answer struct {
	Text         string
	Model        string
	PromptTokens int
	OutputTokens int
}

func (a *Answer) fromChat(resp *llm.ChatResponse) {
	a.Text = resp.Message.Content
	a.Model = resp.Model
	a.PromptTokens = resp.PromptTokens
	a.OutputTokens = resp.OutputTokens
}
