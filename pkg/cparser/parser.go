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

package cparser

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
)

// maxDocstringHops bounds the backward sibling walk used to find a function's
// preceding comment block.
const maxDocstringHops = 15

// Parser parses C translation units with the Tree-sitter C grammar. It is
// safe for concurrent use: each goroutine borrows its own *sitter.Parser from
// a pool, since a single tree-sitter parser is not safe to use from multiple
// goroutines at once.
type Parser struct {
	logger          *slog.Logger
	pool            sync.Pool
	maxCodeTextSize int64
	truncated       int64 // atomic-ish via mutex below; contention is rare
	truncMu         sync.Mutex
}

// New creates a C parser. A nil logger falls back to slog.Default().
func New(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Parser{logger: logger, maxCodeTextSize: 64 * 1024}
	p.pool.New = func() any {
		sp := sitter.NewParser()
		sp.SetLanguage(c.GetLanguage())
		return sp
	}
	return p
}

// SetMaxCodeTextSize sets the maximum size for a Function's Code text, in
// bytes. Larger bodies are truncated; GetTruncatedCount reports how many.
func (p *Parser) SetMaxCodeTextSize(size int64) {
	if size > 0 {
		p.maxCodeTextSize = size
	}
}

// GetTruncatedCount returns how many function bodies have been truncated
// since the last ResetTruncatedCount.
func (p *Parser) GetTruncatedCount() int {
	p.truncMu.Lock()
	defer p.truncMu.Unlock()
	return int(p.truncated)
}

// ResetTruncatedCount resets the truncation counter.
func (p *Parser) ResetTruncatedCount() {
	p.truncMu.Lock()
	defer p.truncMu.Unlock()
	p.truncated = 0
}

func (p *Parser) truncateCode(text string) string {
	if int64(len(text)) <= p.maxCodeTextSize {
		return text
	}
	p.truncMu.Lock()
	p.truncated++
	p.truncMu.Unlock()
	return text[:p.maxCodeTextSize]
}

func (p *Parser) borrow() *sitter.Parser {
	return p.pool.Get().(*sitter.Parser)
}

func (p *Parser) release(sp *sitter.Parser) {
	p.pool.Put(sp)
}

// ParseFile reads path from disk and extracts its functions, calls, and
// parsed metadata. A file that cannot be opened returns an error (the caller
// — the analysis orchestrator — records it and continues with other files).
// A file that opens but fails to produce a usable tree still returns
// whatever functions Tree-sitter's error-tolerant parse could recover.
func (p *Parser) ParseFile(path string) (*ParsedCode, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	sp := p.borrow()
	defer p.release(sp)

	tree, err := sp.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		p.logger.Warn("cparser.syntax_errors", "path", path)
		// Tree-sitter is error-tolerant; continue with the best-effort tree.
	}

	functions := p.extractFunctions(root, content, path)
	if len(functions) == 0 && root.ChildCount() > 0 {
		// Primary extraction found nothing on a non-empty tree: try the
		// cheaper fallback path once before giving up on this file.
		if fb := p.extractFunctionsFallback(root, content, path); len(fb) > 0 {
			functions = fb
		}
	}

	var calls []Call
	for _, fn := range functions {
		calls = append(calls, p.extractCallsForFunction(fn, root, content)...)
	}

	return &ParsedCode{
		File: FileInfo{
			Path:         path,
			Name:         baseName(path),
			Size:         info.Size(),
			LastModified: info.ModTime().Unix(),
			Language:     "c",
		},
		Functions: functions,
		Calls:     calls,
	}, nil
}

func baseName(path string) string {
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

// extractFunctions runs the primary (declarator-descending) extraction path
// over every (function_definition) node in the tree.
func (p *Parser) extractFunctions(root *sitter.Node, content []byte, path string) []Function {
	var out []Function
	walk(root, func(n *sitter.Node) {
		if n.Type() != "function_definition" {
			return
		}
		if fn := p.extractFunctionDefinition(n, content, path); fn != nil {
			out = append(out, *fn)
		}
	})
	return out
}

// walk visits every node in the tree in document order, depth-first.
func walk(n *sitter.Node, visit func(*sitter.Node)) {
	if n == nil {
		return
	}
	visit(n)
	for i := 0; i < int(n.ChildCount()); i++ {
		walk(n.Child(i), visit)
	}
}

// extractFunctionDefinition builds a Function from a function_definition
// node, recursively descending the declarator field to recover the innermost
// identifier (tolerating pointer, array, and nested/parenthesized
// declarators — e.g. `int *foo(void)`, `int (*make_handler(void))(int)`).
func (p *Parser) extractFunctionDefinition(n *sitter.Node, content []byte, path string) *Function {
	declarator := n.ChildByFieldName("declarator")
	if declarator == nil {
		return nil
	}
	name := innermostIdentifier(declarator, content)
	if name == "" {
		return nil
	}

	params := extractParameters(declarator, content)
	returnType := ""
	if typeNode := n.ChildByFieldName("type"); typeNode != nil {
		returnType = nodeText(typeNode, content)
	}
	if returnType == "" {
		returnType = "void"
	}

	docstring := p.collectDocstring(n, content)

	startLine := int(n.StartPoint().Row) + 1
	endLine := int(n.EndPoint().Row) + 1
	startCol := int(n.StartPoint().Column) + 1
	endCol := int(n.EndPoint().Column) + 1

	code := p.truncateCode(nodeText(n, content))
	id := GenerateFunctionID(path, name, startLine, endLine, startCol, endCol)

	return &Function{
		ID:         id,
		Name:       name,
		FilePath:   path,
		StartLine:  startLine,
		EndLine:    endLine,
		StartCol:   startCol,
		EndCol:     endCol,
		Docstring:  docstring,
		Parameters: params,
		ReturnType: returnType,
		Code:       code,
	}
}

// innermostIdentifier recursively descends a declarator subtree to find the
// identifier actually being declared, unwrapping pointer declarators,
// array declarators, function declarators (to reach the name being
// declared, not its parameter list), and parenthesized declarators.
func innermostIdentifier(n *sitter.Node, content []byte) string {
	if n == nil {
		return ""
	}
	switch n.Type() {
	case "identifier":
		return nodeText(n, content)
	case "pointer_declarator", "array_declarator", "function_declarator", "parenthesized_declarator":
		if inner := n.ChildByFieldName("declarator"); inner != nil {
			return innermostIdentifier(inner, content)
		}
		// Some declarator shapes (e.g. parenthesized) carry the nested
		// declarator as an unnamed child rather than a field.
		for i := 0; i < int(n.ChildCount()); i++ {
			child := n.Child(i)
			if child.Type() == "identifier" || strings.HasSuffix(child.Type(), "_declarator") {
				if name := innermostIdentifier(child, content); name != "" {
					return name
				}
			}
		}
		return ""
	default:
		// Unknown declarator shape: search children for an identifier.
		for i := 0; i < int(n.ChildCount()); i++ {
			if name := innermostIdentifier(n.Child(i), content); name != "" {
				return name
			}
		}
		return ""
	}
}

// extractParameters normalizes a function_declarator's parameter list,
// treating a sole "void" specially as []string{"void"}.
func extractParameters(declarator *sitter.Node, content []byte) []string {
	fd := findFunctionDeclarator(declarator)
	if fd == nil {
		return nil
	}
	paramList := fd.ChildByFieldName("parameters")
	if paramList == nil {
		return nil
	}

	var params []string
	for i := 0; i < int(paramList.ChildCount()); i++ {
		child := paramList.Child(i)
		switch child.Type() {
		case "parameter_declaration", "variadic_parameter":
			text := normalizeWhitespace(nodeText(child, content))
			if text != "" {
				params = append(params, text)
			}
		}
	}

	if len(params) == 1 && params[0] == "void" {
		return []string{"void"}
	}
	return params
}

// findFunctionDeclarator descends a declarator subtree to find the
// function_declarator node carrying the parameter list (the outermost
// pointer/array wrapping around a function declarator does not itself carry
// parameters).
func findFunctionDeclarator(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	if n.Type() == "function_declarator" {
		return n
	}
	if inner := n.ChildByFieldName("declarator"); inner != nil {
		return findFunctionDeclarator(inner)
	}
	return nil
}

func normalizeWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

func nodeText(n *sitter.Node, content []byte) string {
	return string(content[n.StartByte():n.EndByte()])
}

// collectDocstring steps backward across the function_definition's preceding
// unnamed siblings (stopping at any other named construct, or after
// maxDocstringHops), looking for a comment block, and normalizes it.
func (p *Parser) collectDocstring(fnNode *sitter.Node, content []byte) string {
	sibling := fnNode.PrevSibling()
	hops := 0
	for sibling != nil && hops < maxDocstringHops {
		if sibling.IsNamed() {
			if sibling.Type() == "comment" {
				return cleanComment(nodeText(sibling, content))
			}
			return ""
		}
		sibling = sibling.PrevSibling()
		hops++
	}
	return ""
}

// cleanComment strips //, /* */ and leading * per line, joining non-empty
// lines with newlines.
func cleanComment(raw string) string {
	raw = strings.TrimPrefix(raw, "/*")
	raw = strings.TrimSuffix(raw, "*/")
	lines := strings.Split(raw, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "//")
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
