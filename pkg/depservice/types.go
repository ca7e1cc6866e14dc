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

// Package depservice renders the file- and module-level dependency graphs
// recorded by the dependency analyzer as Mermaid, JSON, ASCII, or Graphviz
// DOT, optionally narrowed to a single focus node.
package depservice

// Scope selects which granularity of dependency graph to render.
type Scope string

const (
	ScopeFile   Scope = "file"
	ScopeModule Scope = "module"
)

// Format selects the rendering.
type Format string

const (
	FormatMermaid  Format = "mermaid"
	FormatJSON     Format = "json"
	FormatASCII    Format = "ascii"
	FormatGraphviz Format = "dot"
)

// Edge is one dependency edge, at whichever Scope it was built for.
type Edge struct {
	Source     string
	Target     string
	IsSystem   bool // only meaningful at ScopeFile
	IsCircular bool // only meaningful at ScopeModule
	Strength   float64
}

// Graph is a dependency graph ready to render.
type Graph struct {
	Scope Scope
	Focus string // empty means unfiltered
	Edges []Edge
}
