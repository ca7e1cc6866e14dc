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

// Package chunker splits C source files into token-bounded or
// syntax-aligned chunks suitable for embedding.
package chunker

// ChunkType classifies how a Chunk's boundaries were determined.
type ChunkType string

const (
	ChunkTokenWindow ChunkType = "token_window"
	ChunkFunction    ChunkType = "function"
	ChunkStruct      ChunkType = "struct"
	ChunkEnum        ChunkType = "enum"
	ChunkDeclaration ChunkType = "declaration"
	ChunkMacro       ChunkType = "macro"
	ChunkFileComment ChunkType = "file_comment"
)

// Chunk is one unit of text produced by the chunker, ready for embedding.
type Chunk struct {
	Text         string
	FilePath     string
	FileName     string
	Module       string
	StartLine    int // 1-based, inclusive
	EndLine      int // 1-based, inclusive
	ChunkType    ChunkType
	FunctionName string // set only for ChunkFunction
	ChunkTokens  int
}

const (
	// defaultChunkTokens is the target chunk size in estimated tokens.
	defaultChunkTokens = 512
	// defaultOverlapTokens is the trailing-context window carried into the
	// next token-bounded chunk.
	defaultOverlapTokens = 50
	// charsPerToken is the local estimate used in place of a real
	// tokenizer: roughly 4 source characters per BPE token for C code.
	charsPerToken = 4
)

func estimateTokens(s string) int {
	n := len(s) / charsPerToken
	if n == 0 && len(s) > 0 {
		n = 1
	}
	return n
}
