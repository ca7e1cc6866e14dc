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

package callgraph

import (
	"encoding/json"
	"fmt"
	"strings"
)

// sanitizeID turns a function name into a Mermaid-safe node identifier.
func sanitizeID(name string) string {
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	id := b.String()
	if id == "" {
		return "fn_"
	}
	if !((id[0] >= 'a' && id[0] <= 'z') || (id[0] >= 'A' && id[0] <= 'Z')) {
		return "fn_" + id
	}
	return id
}

// Mermaid renders g as a Mermaid flowchart, with the root node marked by a
// distinguishing CSS class and edges styled by call type.
func Mermaid(g *Graph) string {
	var b strings.Builder
	b.WriteString("graph TD\n")

	for _, n := range g.Nodes {
		id := sanitizeID(n.Name)
		b.WriteString(fmt.Sprintf("    %s[%q]\n", id, n.Name))
	}

	for _, e := range g.Edges {
		from, to := sanitizeID(e.Caller), sanitizeID(e.Callee)
		switch e.CallType {
		case "pointer":
			b.WriteString(fmt.Sprintf("    %s ==>|pointer| %s\n", from, to))
		case "member":
			b.WriteString(fmt.Sprintf("    %s -->|member| %s\n", from, to))
		case "recursive":
			b.WriteString(fmt.Sprintf("    %s -.->|recursive| %s\n", from, to))
		default:
			b.WriteString(fmt.Sprintf("    %s --> %s\n", from, to))
		}
	}

	b.WriteString(fmt.Sprintf("    class %s rootNode\n", sanitizeID(g.Root)))
	b.WriteString("    classDef rootNode fill:#f96,stroke:#333,stroke-width:2px\n")
	return b.String()
}

type jsonGraph struct {
	Nodes    []Node   `json:"nodes"`
	Edges    []Edge   `json:"edges"`
	Stats    jsonStat `json:"stats"`
	Root     string   `json:"root"`
	MaxDepth int      `json:"max_depth"`
	Metadata jsonMeta `json:"metadata"`
}

type jsonStat struct {
	NodesExplored int  `json:"nodes_explored"`
	LimitReached  bool `json:"limit_reached"`
	NodeCount     int  `json:"node_count"`
	EdgeCount     int  `json:"edge_count"`
}

type jsonMeta struct {
	Format  string `json:"format"`
	Version string `json:"version"`
}

// JSON renders g in the call_graph_json wire format.
func JSON(g *Graph) (string, error) {
	out := jsonGraph{
		Nodes:    g.Nodes,
		Edges:    g.Edges,
		Root:     g.Root,
		MaxDepth: g.MaxDepth,
		Stats: jsonStat{
			NodesExplored: g.NodesExplored,
			LimitReached:  g.LimitReached,
			NodeCount:     len(g.Nodes),
			EdgeCount:     len(g.Edges),
		},
		Metadata: jsonMeta{Format: "call_graph_json", Version: "1.0"},
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ASCII renders g as a DFS tree from the root, collapsing a node already
// seen on the current path into "name (recursive)" rather than re-expanding it.
func ASCII(g *Graph) string {
	adjacency := make(map[string][]string)
	for _, e := range g.Edges {
		adjacency[e.Caller] = append(adjacency[e.Caller], e.Callee)
	}

	var b strings.Builder
	var walk func(name string, depth int, path map[string]bool)
	walk = func(name string, depth int, path map[string]bool) {
		indent := strings.Repeat("  ", depth)
		if path[name] {
			b.WriteString(fmt.Sprintf("%s%s (recursive)\n", indent, name))
			return
		}
		b.WriteString(fmt.Sprintf("%s%s\n", indent, name))
		if depth >= g.MaxDepth {
			return
		}
		path[name] = true
		for _, child := range adjacency[name] {
			walk(child, depth+1, path)
		}
		delete(path, name)
	}
	walk(g.Root, 0, map[string]bool{})
	return b.String()
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Call graph: %s</title>
<script src="https://cdn.jsdelivr.net/npm/mermaid/dist/mermaid.min.js"></script>
</head>
<body>
<pre class="mermaid">
%s
</pre>
<script>mermaid.initialize({startOnLoad:true});</script>
</body>
</html>
`

// HTML wraps the Mermaid rendering of g in a standalone viewer page.
func HTML(g *Graph) string {
	return fmt.Sprintf(htmlTemplate, g.Root, Mermaid(g))
}

// Dot renders g as Graphviz DOT, styling recursive and pointer-call edges.
func Dot(g *Graph) string {
	var b strings.Builder
	b.WriteString("digraph callgraph {\n")
	for _, e := range g.Edges {
		attrs := ""
		switch e.CallType {
		case "recursive":
			attrs = ` [style=dashed, label="recursive"]`
		case "pointer":
			attrs = ` [style=bold, label="pointer"]`
		}
		b.WriteString(fmt.Sprintf("  %q -> %q%s;\n", e.Caller, e.Callee, attrs))
	}
	b.WriteString("}\n")
	return b.String()
}
