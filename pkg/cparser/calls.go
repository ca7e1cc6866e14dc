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

// extractCallsForFunction finds every call_expression inside fn's body and
// classifies it. The root node is reused for nothing here — call sites are
// located by re-walking fn's own span, so this can run independently per
// function.
func (p *Parser) extractCallsForFunction(fn Function, root *sitter.Node, content []byte) []Call {
	fnNode := findNodeAtSpan(root, fn.StartLine-1, fn.EndLine-1)
	if fnNode == nil {
		return nil
	}

	var calls []Call
	walk(fnNode, func(n *sitter.Node) {
		if n.Type() != "call_expression" {
			return
		}
		callee := n.ChildByFieldName("function")
		if callee == nil {
			return
		}
		name, callType := classifyCallee(callee, fn.Name, content)
		if name == "" {
			return
		}
		calls = append(calls, Call{
			CallerName: fn.Name,
			CallerFile: fn.FilePath,
			CalleeName: name,
			LineNumber: int(n.StartPoint().Row) + 1,
			CallType:   callType,
			Context:    precedingLineComment(n, content),
		})
	})
	return calls
}

// findNodeAtSpan returns the function_definition node whose row span exactly
// matches [startRow, endRow] (0-based); if several match, the last one visited
// wins, and if none matches it returns nil.
func findNodeAtSpan(root *sitter.Node, startRow, endRow uint32) *sitter.Node {
	var found *sitter.Node
	walk(root, func(n *sitter.Node) {
		if n.Type() != "function_definition" {
			return
		}
		if n.StartPoint().Row == startRow && n.EndPoint().Row == endRow {
			found = n
		}
	})
	return found
}

// classifyCallee inspects a call_expression's function field and returns the
// callee name together with its CallType:
//
//   - identifier matching the enclosing function's own name -> recursive
//   - plain identifier                                       -> direct
//   - field_expression (obj.method / obj->method)             -> member
//   - parenthesized / unary dereference of a function pointer -> pointer
func classifyCallee(callee *sitter.Node, callerName string, content []byte) (string, CallType) {
	switch callee.Type() {
	case "identifier":
		name := nodeText(callee, content)
		if name == callerName {
			return name, CallRecursive
		}
		return name, CallDirect

	case "field_expression":
		field := callee.ChildByFieldName("field")
		if field == nil {
			return "", ""
		}
		return nodeText(field, content), CallMember

	case "parenthesized_expression":
		for i := 0; i < int(callee.ChildCount()); i++ {
			if name, ct := classifyCallee(callee.Child(i), callerName, content); name != "" {
				if ct == CallDirect || ct == CallRecursive {
					return name, CallPointer
				}
				return name, ct
			}
		}
		return "", ""

	case "pointer_expression", "unary_expression":
		if arg := callee.ChildByFieldName("argument"); arg != nil {
			name, _ := classifyCallee(arg, callerName, content)
			if name != "" {
				return name, CallPointer
			}
		}
		return "", ""

	case "subscript_expression":
		// e.g. handlers[i](args) — function pointer table dispatch.
		if arr := callee.ChildByFieldName("argument"); arr != nil {
			if arr.Type() == "identifier" {
				return nodeText(arr, content), CallPointer
			}
		}
		return "", ""

	default:
		return "", ""
	}
}

// precedingLineComment returns the text of a "//" comment on the same line
// immediately before n, if any is adjacent. C doesn't generally carry
// per-call-site documentation, so this is best-effort and usually empty.
func precedingLineComment(n *sitter.Node, content []byte) string {
	sibling := n.PrevSibling()
	if sibling == nil || sibling.Type() != "comment" {
		return ""
	}
	if sibling.EndPoint().Row != n.StartPoint().Row {
		return ""
	}
	return cleanComment(nodeText(sibling, content))
}
