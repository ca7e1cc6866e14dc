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

package chunker

import (
	"path/filepath"
	"strings"
)

// TokenChunker splits a file into overlapping, roughly token-bounded
// windows. There is no BPE tokenizer in this stack — token counts are
// estimated at charsPerToken characters per token, which is close enough
// for sizing chunks and never needs to be exact.
type TokenChunker struct {
	ChunkTokens   int
	OverlapTokens int
}

// NewTokenChunker returns a TokenChunker configured with the default target
// and overlap sizes.
func NewTokenChunker() *TokenChunker {
	return &TokenChunker{ChunkTokens: defaultChunkTokens, OverlapTokens: defaultOverlapTokens}
}

// ChunkFile splits content into chunks, seeding each chunk after the first
// with the trailing lines of the previous one whose cumulative estimated
// token count is within OverlapTokens.
func (c *TokenChunker) ChunkFile(path string, content string, module string) []Chunk {
	if c.ChunkTokens <= 0 {
		c.ChunkTokens = defaultChunkTokens
	}

	lines := strings.Split(content, "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}

	var chunks []Chunk
	var current []string
	currentTokens := 0
	startLine := 1

	flush := func(endLine int) {
		if len(current) == 0 {
			return
		}
		text := strings.Join(current, "\n")
		chunks = append(chunks, Chunk{
			Text:        text,
			FilePath:    path,
			FileName:    filepath.Base(path),
			Module:      module,
			StartLine:   startLine,
			EndLine:     endLine,
			ChunkType:   ChunkTokenWindow,
			ChunkTokens: estimateTokens(text),
		})
	}

	for i, line := range lines {
		lineNo := i + 1
		lineTokens := estimateTokens(line)

		if currentTokens > 0 && currentTokens+lineTokens > c.ChunkTokens {
			flush(lineNo - 1)

			overlapLines, overlapTokens := trailingOverlap(current, c.OverlapTokens)
			current = overlapLines
			currentTokens = overlapTokens
			startLine = lineNo - len(overlapLines)
			if startLine < 1 {
				startLine = lineNo
			}
		}

		current = append(current, line)
		currentTokens += lineTokens
	}
	flush(len(lines))

	return chunks
}

// trailingOverlap returns the longest suffix of lines whose cumulative
// estimated token count does not exceed budget.
func trailingOverlap(lines []string, budget int) ([]string, int) {
	if budget <= 0 {
		return nil, 0
	}
	var kept []string
	total := 0
	for i := len(lines) - 1; i >= 0; i-- {
		t := estimateTokens(lines[i])
		if total+t > budget {
			break
		}
		kept = append([]string{lines[i]}, kept...)
		total += t
	}
	return kept, total
}
