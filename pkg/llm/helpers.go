// Copyright 2025 Arclens
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

package llm

// SystemPrompts holds the system prompts the knowledge base's QA service
// (pkg/qa) selects from, depending on how much structural context a request
// was able to assemble.
var SystemPrompts = struct {
	// CodeQA is the default prompt: answer from graph + vector context.
	CodeQA string
	// CodeQANoContext is used when context assembly found nothing at all
	// (unknown focus function/file, no similar chunks) so the model is told
	// explicitly to say so rather than invent an answer.
	CodeQANoContext string
}{
	CodeQA: `You are a code assistant answering questions about a C codebase.
Use the provided context (function source, call relationships, file contents, and similar code snippets) to answer precisely.
If the context does not contain the answer, say so rather than guessing.`,

	CodeQANoContext: `You are a code assistant answering questions about a C codebase.
No matching function, file, or similar code was found for this question.
Say so plainly, and suggest the user narrow the question with a known function or file name rather than guessing at an answer.`,
}

// BuildChatMessages assembles a chat request's message list: a system
// prompt, any prior turns, then the user's prompt last.
func BuildChatMessages(systemPrompt, userPrompt string, history ...Message) []Message {
	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: "system", Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, Message{Role: "user", Content: userPrompt})
	return messages
}
