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

package depservice

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

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
		return "n_"
	}
	if id[0] >= '0' && id[0] <= '9' {
		return "n_" + id
	}
	return id
}

// Render dispatches to the requested Format.
func Render(g *Graph, format Format) (string, error) {
	switch format {
	case FormatJSON:
		return renderJSON(g)
	case FormatASCII:
		return renderASCII(g), nil
	case FormatGraphviz:
		return renderDOT(g), nil
	default:
		return renderMermaid(g), nil
	}
}

// renderMermaid styles module edges by circularity and file edges by
// project-vs-system, since those are the two distinctions a reader of a
// dependency graph cares about at each scope.
func renderMermaid(g *Graph) string {
	var b strings.Builder
	b.WriteString("graph LR\n")
	for _, e := range g.Edges {
		from, to := sanitizeID(e.Source), sanitizeID(e.Target)
		b.WriteString(fmt.Sprintf("    %s[%q]\n", from, e.Source))
		b.WriteString(fmt.Sprintf("    %s[%q]\n", to, e.Target))
		switch {
		case g.Scope == ScopeModule && e.IsCircular:
			b.WriteString(fmt.Sprintf("    %s ==>|circular| %s\n", from, to))
		case g.Scope == ScopeFile && e.IsSystem:
			b.WriteString(fmt.Sprintf("    %s -.->|system| %s\n", from, to))
		default:
			b.WriteString(fmt.Sprintf("    %s --> %s\n", from, to))
		}
	}
	return b.String()
}

type jsonEdge struct {
	Source     string  `json:"source"`
	Target     string  `json:"target"`
	IsSystem   bool    `json:"is_system,omitempty"`
	IsCircular bool    `json:"is_circular,omitempty"`
	Strength   float64 `json:"strength,omitempty"`
}

type jsonGraph struct {
	Scope    string     `json:"scope"`
	Focus    string     `json:"focus,omitempty"`
	Edges    []jsonEdge `json:"edges"`
	Metadata struct {
		Format  string `json:"format"`
		Version string `json:"version"`
	} `json:"metadata"`
}

func renderJSON(g *Graph) (string, error) {
	out := jsonGraph{Scope: string(g.Scope), Focus: g.Focus}
	out.Metadata.Format = "dependency_graph_json"
	out.Metadata.Version = "1.0"
	for _, e := range g.Edges {
		out.Edges = append(out.Edges, jsonEdge{
			Source: e.Source, Target: e.Target,
			IsSystem: e.IsSystem, IsCircular: e.IsCircular, Strength: e.Strength,
		})
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// renderASCII groups edges by source in a flat, sorted listing — there is no
// single traversal root for a dependency graph the way there is for a call
// graph rooted at one function, so a tree view would be arbitrary.
func renderASCII(g *Graph) string {
	bySource := map[string][]Edge{}
	var sources []string
	for _, e := range g.Edges {
		if _, ok := bySource[e.Source]; !ok {
			sources = append(sources, e.Source)
		}
		bySource[e.Source] = append(bySource[e.Source], e)
	}
	sort.Strings(sources)

	var b strings.Builder
	for _, s := range sources {
		b.WriteString(s + "\n")
		for _, e := range bySource[s] {
			marker := ""
			if e.IsCircular {
				marker = " (circular)"
			} else if e.IsSystem {
				marker = " (system)"
			}
			b.WriteString(fmt.Sprintf("  -> %s%s\n", e.Target, marker))
		}
	}
	return b.String()
}

func renderDOT(g *Graph) string {
	var b strings.Builder
	b.WriteString("digraph dependencies {\n")
	for _, e := range g.Edges {
		attrs := ""
		switch {
		case g.Scope == ScopeModule && e.IsCircular:
			attrs = ` [color=red, style=bold, label="circular"]`
		case g.Scope == ScopeFile && e.IsSystem:
			attrs = ` [style=dashed, label="system"]`
		}
		b.WriteString(fmt.Sprintf("  %q -> %q%s;\n", e.Source, e.Target, attrs))
	}
	b.WriteString("}\n")
	return b.String()
}
