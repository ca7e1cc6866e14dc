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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenChunker_ShortFileProducesOneChunk(t *testing.T) {
	tc := NewTokenChunker()
	content := "int main(void) {\n    return 0;\n}\n"
	chunks := tc.ChunkFile("main.c", content, "root")
	require.Len(t, chunks, 1)
	assert.Equal(t, 1, chunks[0].StartLine)
	assert.Equal(t, ChunkTokenWindow, chunks[0].ChunkType)
}

func TestTokenChunker_EmptyFileProducesNoChunks(t *testing.T) {
	tc := NewTokenChunker()
	chunks := tc.ChunkFile("empty.c", "", "root")
	assert.Empty(t, chunks)
}

func TestTokenChunker_LargeFileSplitsWithOverlap(t *testing.T) {
	tc := &TokenChunker{ChunkTokens: 20, OverlapTokens: 8}
	var lines []string
	for i := 0; i < 40; i++ {
		lines = append(lines, "int x = 1; // padding line to force token overflow eventually")
	}
	content := strings.Join(lines, "\n")

	chunks := tc.ChunkFile("big.c", content, "root")
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, c.StartLine, c.EndLine)
	}
}

func TestSemanticChunker_SplitsFunctionsAndStructs(t *testing.T) {
	content := `/* file header */
struct point {
    int x;
    int y;
};

int add(int a, int b) {
    return a + b;
}
`
	sc := NewSemanticChunker()
	chunks := sc.ChunkFile("geom.c", content, "geom")
	require.NotEmpty(t, chunks)

	var types []ChunkType
	for _, c := range chunks {
		types = append(types, c.ChunkType)
	}
	assert.Contains(t, types, ChunkFileComment)
	assert.Contains(t, types, ChunkStruct)
	assert.Contains(t, types, ChunkFunction)

	for _, c := range chunks {
		if c.ChunkType == ChunkFunction {
			assert.Equal(t, "add", c.FunctionName)
		}
	}
}

func TestSemanticChunker_FallsBackWhenNoSemanticUnits(t *testing.T) {
	content := "#include <stdio.h>\n#include <stdlib.h>\n"
	sc := NewSemanticChunker()
	chunks := sc.ChunkFile("only_includes.h", content, "root")
	require.NotEmpty(t, chunks)
	assert.Equal(t, ChunkTokenWindow, chunks[0].ChunkType)
}

func TestChunker_ChunkFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.c")
	require.NoError(t, os.WriteFile(path, []byte("int main(void) { return 0; }\n"), 0o644))

	c := New()
	chunks, err := c.ChunkFile(path, "root")
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
}
