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

import "os"

// Chunker splits a file into Chunks, either along syntactic boundaries or
// token-bounded windows.
type Chunker struct {
	semantic *SemanticChunker
	token    *TokenChunker
}

// New returns a Chunker ready to chunk files semantically, falling back to
// token-bounded windows when no semantic units are found.
func New() *Chunker {
	return &Chunker{semantic: NewSemanticChunker(), token: NewTokenChunker()}
}

// ChunkFile reads path from disk and chunks it semantically, falling back
// to token-bounded chunking on read failure is not possible (the error is
// returned instead) but falls back internally when the parse yields no
// semantic units.
func (c *Chunker) ChunkFile(path, module string) ([]Chunk, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return c.semantic.ChunkFile(path, string(content), module), nil
}

// ChunkFileTokenBounded forces token-bounded chunking, bypassing semantic
// boundary detection entirely.
func (c *Chunker) ChunkFileTokenBounded(path, module string) ([]Chunk, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return c.token.ChunkFile(path, string(content), module), nil
}
