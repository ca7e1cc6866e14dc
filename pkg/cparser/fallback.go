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
	sitter "github.com/smacker/go-tree-sitter"
)

// extractFunctionsFallback is the simplified extraction path: it takes the
// first identifier found anywhere under a function_definition's declarator,
// without attempting to recursively unwrap pointer/array/function
// declarator shapes. It exists for the rare malformed or heavily
// macro-mangled file where the primary declarator descent yields nothing
// useful, trading precision for coverage.
func (p *Parser) extractFunctionsFallback(root *sitter.Node, content []byte, path string) []Function {
	var out []Function
	walk(root, func(n *sitter.Node) {
		if n.Type() != "function_definition" {
			return
		}
		declarator := n.ChildByFieldName("declarator")
		if declarator == nil {
			return
		}
		name := firstIdentifier(declarator, content)
		if name == "" {
			return
		}

		startLine := int(n.StartPoint().Row) + 1
		endLine := int(n.EndPoint().Row) + 1
		startCol := int(n.StartPoint().Column) + 1
		endCol := int(n.EndPoint().Column) + 1

		out = append(out, Function{
			ID:         GenerateFunctionID(path, name, startLine, endLine, startCol, endCol),
			Name:       name,
			FilePath:   path,
			StartLine:  startLine,
			EndLine:    endLine,
			StartCol:   startCol,
			EndCol:     endCol,
			ReturnType: "void",
			Code:       p.truncateCode(nodeText(n, content)),
		})
	})
	return out
}

// firstIdentifier returns the first identifier node found in a non-recursive
// breadth-first scan of n's children (not descending into parameter lists).
func firstIdentifier(n *sitter.Node, content []byte) string {
	if n.Type() == "identifier" {
		return nodeText(n, content)
	}
	queue := []*sitter.Node{n}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for i := 0; i < int(cur.ChildCount()); i++ {
			child := cur.Child(i)
			if child.Type() == "identifier" {
				return nodeText(child, content)
			}
			if child.Type() != "parameter_list" {
				queue = append(queue, child)
			}
		}
	}
	return ""
}
