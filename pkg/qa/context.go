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
	"os"
	"strings"

	"github.com/arclens/ckb/pkg/storage"
)

// GraphProvider is the slice of storage.EmbeddedBackend that context
// assembly needs to resolve a focus function.
type GraphProvider interface {
	FindFunction(ctx context.Context, projectID, name string) (*storage.FunctionRow, error)
	Callers(ctx context.Context, projectID, funcName string) ([]storage.CallEdge, error)
	Callees(ctx context.Context, projectID, funcName string) ([]storage.CallEdge, error)
}

// VectorProvider is the slice of storage.EmbeddedBackend that context
// assembly needs for the similarity section.
type VectorProvider interface {
	SearchSimilar(ctx context.Context, projectID, base string, query []float32, k int) ([]storage.SimilarChunk, error)
}

// buildContext assembles the sections in the fixed order a reader of the
// answer expects: the thing explicitly asked about first (function, then
// file), then what's merely similar, then where it all came from.
func (s *Service) buildContext(ctx context.Context, req Request) (string, error) {
	var sections []string

	if req.FocusFunction != "" {
		section, err := s.functionSection(ctx, req.FocusFunction)
		if err != nil {
			return "", err
		}
		if section != "" {
			sections = append(sections, section)
		}
	}

	if req.FocusFile != "" {
		if section := fileSection(req.FocusFile); section != "" {
			sections = append(sections, section)
		}
	}

	section, err := s.similaritySection(ctx, req.Question)
	if err != nil {
		return "", err
	}
	if section != "" {
		sections = append(sections, section)
	}

	if req.ProjectPath != "" {
		sections = append(sections, fmt.Sprintf("Project path: %s", req.ProjectPath))
	}

	if len(sections) == 0 {
		return noContextSentinel, nil
	}
	return strings.Join(sections, "\n\n"), nil
}

func (s *Service) functionSection(ctx context.Context, name string) (string, error) {
	fn, err := s.Graph.FindFunction(ctx, s.ProjectID, name)
	if err != nil {
		return "", fmt.Errorf("lookup function %q: %w", name, err)
	}
	if fn == nil {
		return "", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Function %s (%s:%d-%d):\n%s", fn.Name, fn.FilePath, fn.StartLine, fn.EndLine, fn.Code)

	callers, err := s.Graph.Callers(ctx, s.ProjectID, name)
	if err != nil {
		return "", fmt.Errorf("lookup callers of %q: %w", name, err)
	}
	if len(callers) > 0 {
		b.WriteString("\nCalled by: " + joinCallerNames(callers))
	}

	callees, err := s.Graph.Callees(ctx, s.ProjectID, name)
	if err != nil {
		return "", fmt.Errorf("lookup callees of %q: %w", name, err)
	}
	if len(callees) > 0 {
		b.WriteString("\nCalls: " + joinCalleeNames(callees))
	}

	return b.String(), nil
}

func joinCallerNames(edges []storage.CallEdge) string {
	names := make([]string, len(edges))
	for i, e := range edges {
		names[i] = e.CallerName
	}
	return strings.Join(dedupe(names), ", ")
}

func joinCalleeNames(edges []storage.CallEdge) string {
	names := make([]string, len(edges))
	for i, e := range edges {
		names[i] = e.CalleeName
	}
	return strings.Join(dedupe(names), ", ")
}

func dedupe(names []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// fileSection reads the focus file straight off disk; the caller supplies
// whatever path resolution (relative to the analyzed project) makes sense
// for their deployment, so this performs no path rewriting.
func fileSection(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("File %s:\n%s", path, string(data))
}

func (s *Service) similaritySection(ctx context.Context, question string) (string, error) {
	vec, err := s.Embedder.Embed(ctx, question)
	if err != nil {
		return "", fmt.Errorf("embed question: %w", err)
	}

	topK := s.TopK
	if topK <= 0 {
		topK = defaultTopK
	}
	hits, err := s.Vectors.SearchSimilar(ctx, s.ProjectID, s.ChunkBase, vec, topK)
	if err != nil {
		return "", fmt.Errorf("search similar chunks: %w", err)
	}
	if len(hits) == 0 {
		return "", nil
	}

	var b strings.Builder
	b.WriteString("Similar code:")
	for _, h := range hits {
		b.WriteString("\n\n" + similaritySummary(h) + "\n" + h.Text)
	}
	return b.String(), nil
}

func similaritySummary(h storage.SimilarChunk) string {
	filePath, _ := h.Metadata["file_path"].(string)
	start := metaInt(h.Metadata, "start_line")
	end := metaInt(h.Metadata, "end_line")
	summary := fmt.Sprintf("%s:%d-%d (score %.3f)", filePath, start, end, 1-h.Distance)
	if fn, _ := h.Metadata["function_name"].(string); fn != "" {
		summary = fmt.Sprintf("%s, function %s", summary, fn)
	}
	return summary
}

func metaInt(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
