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
	"context"
	"path/filepath"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
)

// SemanticChunker aligns chunk boundaries with syntactic units: function
// definitions, struct/enum specifiers, top-level declarations, macro
// definitions, and a leading file-head comment block. It falls back to a
// TokenChunker when a file yields no semantic units at all (e.g. a header
// containing only #includes, or a file Tree-sitter cannot usefully parse).
type SemanticChunker struct {
	pool     sync.Pool
	fallback *TokenChunker
}

// NewSemanticChunker returns a ready-to-use SemanticChunker.
func NewSemanticChunker() *SemanticChunker {
	sc := &SemanticChunker{fallback: NewTokenChunker()}
	sc.pool.New = func() any {
		p := sitter.NewParser()
		p.SetLanguage(c.GetLanguage())
		return p
	}
	return sc
}

var topLevelChunkTypes = map[string]ChunkType{
	"function_definition": ChunkFunction,
	"struct_specifier":    ChunkStruct,
	"enum_specifier":      ChunkEnum,
	"declaration":         ChunkDeclaration,
	"preproc_def":         ChunkMacro,
}

// ChunkFile parses content and emits one Chunk per recognized top-level
// construct, in document order. declarations nested inside a
// function_definition are skipped since the enclosing function chunk
// already covers them.
func (sc *SemanticChunker) ChunkFile(path string, content string, module string) []Chunk {
	p := sc.pool.Get().(*sitter.Parser)
	defer sc.pool.Put(p)

	src := []byte(content)
	tree, err := p.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return sc.fallback.ChunkFile(path, content, module)
	}
	defer tree.Close()

	root := tree.RootNode()
	fileName := filepath.Base(path)

	var chunks []Chunk

	if header := leadingFileComment(root, src); header != nil {
		chunks = append(chunks, toChunk(header, src, path, fileName, module, ChunkFileComment, ""))
	}

	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		ctype, ok := topLevelChunkTypes[child.Type()]
		if !ok {
			continue
		}
		name := ""
		if ctype == ChunkFunction {
			name = functionNameOf(child, src)
		}
		chunks = append(chunks, toChunk(child, src, path, fileName, module, ctype, name))
	}

	if len(chunks) == 0 {
		return sc.fallback.ChunkFile(path, content, module)
	}
	return chunks
}

func toChunk(n *sitter.Node, src []byte, path, fileName, module string, ctype ChunkType, fnName string) Chunk {
	text := string(src[n.StartByte():n.EndByte()])
	return Chunk{
		Text:         text,
		FilePath:     path,
		FileName:     fileName,
		Module:       module,
		StartLine:    int(n.StartPoint().Row) + 1,
		EndLine:      int(n.EndPoint().Row) + 1,
		ChunkType:    ctype,
		FunctionName: fnName,
		ChunkTokens:  estimateTokens(text),
	}
}

// leadingFileComment returns the very first child of root if it is a
// comment node starting at or near the top of the file.
func leadingFileComment(root *sitter.Node, src []byte) *sitter.Node {
	if root.ChildCount() == 0 {
		return nil
	}
	first := root.Child(0)
	if first.Type() == "comment" && first.StartPoint().Row <= 1 {
		return first
	}
	return nil
}

func functionNameOf(n *sitter.Node, src []byte) string {
	declarator := n.ChildByFieldName("declarator")
	if declarator == nil {
		return ""
	}
	return innermostIdentifierName(declarator, src)
}

// innermostIdentifierName mirrors cparser's declarator-unwrapping logic at a
// much smaller scale — just enough to label a function chunk.
func innermostIdentifierName(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	if n.Type() == "identifier" {
		return string(src[n.StartByte():n.EndByte()])
	}
	if inner := n.ChildByFieldName("declarator"); inner != nil {
		return innermostIdentifierName(inner, src)
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if name := innermostIdentifierName(n.Child(i), src); name != "" {
			return name
		}
	}
	return ""
}
