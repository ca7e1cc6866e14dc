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

// Package callgraph builds bounded-depth call graphs around a root function
// and renders them as Mermaid, JSON, an ASCII tree, or a standalone HTML
// viewer.
package callgraph

// Direction controls which edges a Build call follows.
type Direction string

const (
	// Callees follows edges from a function to what it calls.
	Callees Direction = "callees"
	// Callers follows edges from a function to what calls it.
	Callers Direction = "callers"
)

// Node is one function reached during a graph build.
type Node struct {
	Name     string
	FilePath string
}

// Edge is one CALLS relationship, directed caller -> callee regardless of
// which Direction the traversal followed to discover it.
type Edge struct {
	Caller   string
	Callee   string
	CallType string
}

// Graph is the result of Build: every node and edge reached within MaxDepth
// hops of Root, plus the traversal stats.
type Graph struct {
	Root      string
	MaxDepth  int
	Direction Direction
	Nodes     []Node
	Edges     []Edge

	NodesExplored int
	LimitReached  bool
}
