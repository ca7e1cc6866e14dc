// Copyright 2025 Arclens
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

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/arclens/ckb/internal/bootstrap"
	"github.com/arclens/ckb/internal/errors"
	"github.com/arclens/ckb/pkg/callgraph"
	"github.com/arclens/ckb/pkg/depservice"
)

// runExport executes the 'export' CLI command: it renders the call graph or
// dependency graph for a project to a file in the requested format.
//
// Usage:
//
//	ckb export --project <name|id> --type {calls|deps|all} --format {json|md|html|dot} --output PATH
func runExport(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	projectRef := fs.String("project", "", "Project name or id (required)")
	exportType := fs.String("type", "all", "Graph to export: calls, deps, or all")
	format := fs.String("format", "json", "Output format: json, md, html, dot, or ascii (deps only)")
	output := fs.String("output", "", "Output file path (required)")
	focus := fs.String("focus", "", "Focus node: a function name for --type calls, a file/module for --type deps")
	maxDepth := fs.Int("max-depth", 5, "Max traversal depth for --type calls")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: ckb export --project <name|id> --type {calls|deps|all} --format {json|md|html|dot} --output PATH

Renders the call graph and/or dependency graph for a project.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *projectRef == "" || *output == "" {
		fs.Usage()
		os.Exit(1)
	}

	reg, err := openRegistry()
	if err != nil {
		errors.FatalError(errors.NewConfigError("cannot open project registry", err.Error(), "check ~/.ckb permissions", err), globals.JSON)
	}
	proj, ok := reg.Resolve(*projectRef)
	if !ok {
		errors.FatalError(errors.NewConfigError("unknown project", *projectRef, "run 'ckb status' to list registered projects", nil), globals.JSON)
	}

	backend, err := bootstrap.OpenStore(bootstrap.StoreConfig{}, slog.Default())
	if err != nil {
		errors.FatalError(errors.NewStorageConnectionError("cannot open knowledge base", err.Error(), "check ~/.ckb/data permissions", err), globals.JSON)
	}
	defer backend.Close()

	ctx := context.Background()
	var sections []string

	if *exportType == "calls" || *exportType == "all" {
		root := *focus
		if root == "" {
			errors.FatalError(errors.NewConfigError("missing focus", "--type calls requires --focus <function>", "pass --focus with a known function name", nil), globals.JSON)
		}
		g, err := callgraph.Build(ctx, backend, proj.ID, root, callgraph.Callees, *maxDepth)
		if err != nil {
			errors.FatalError(errors.NewQueryError("cannot build call graph", err.Error(), "verify the function name with 'ckb query'", err), globals.JSON)
		}
		rendered, err := renderCallGraph(g, *format)
		if err != nil {
			errors.FatalError(errors.NewConfigError("unsupported format", err.Error(), "use json, md, html, or dot", err), globals.JSON)
		}
		sections = append(sections, rendered)
	}

	if *exportType == "deps" || *exportType == "all" {
		g, err := depservice.Build(ctx, backend, proj.ID, depservice.ScopeModule, *focus)
		if err != nil {
			errors.FatalError(errors.NewQueryError("cannot build dependency graph", err.Error(), "verify the module name with 'ckb query'", err), globals.JSON)
		}
		rendered, err := renderDepGraph(g, *format)
		if err != nil {
			errors.FatalError(errors.NewConfigError("unsupported format", err.Error(), "use json, md, ascii, or dot", err), globals.JSON)
		}
		sections = append(sections, rendered)
	}

	body := ""
	for i, s := range sections {
		if i > 0 {
			body += "\n\n"
		}
		body += s
	}

	if err := os.WriteFile(*output, []byte(body), 0o644); err != nil {
		errors.FatalError(errors.NewStorageOperationError("cannot write output file", err.Error(), "check the destination path is writable", err), globals.JSON)
	}

	if globals.JSON {
		printJSON(map[string]string{"output": *output})
	} else {
		fmt.Printf("Wrote %s\n", *output)
	}
}

func renderCallGraph(g *callgraph.Graph, format string) (string, error) {
	defer observeRenderDuration("calls", format, time.Now())
	switch format {
	case "json":
		return callgraph.JSON(g)
	case "md":
		return callgraph.Mermaid(g), nil
	case "html":
		return callgraph.HTML(g), nil
	case "dot":
		return callgraph.Dot(g), nil
	default:
		return "", fmt.Errorf("unsupported format %q", format)
	}
}

func renderDepGraph(g *depservice.Graph, format string) (string, error) {
	defer observeRenderDuration("deps", format, time.Now())
	switch format {
	case "json":
		return depservice.Render(g, depservice.FormatJSON)
	case "md":
		return depservice.Render(g, depservice.FormatMermaid)
	case "ascii":
		return depservice.Render(g, depservice.FormatASCII)
	case "dot":
		return depservice.Render(g, depservice.FormatGraphviz)
	default:
		return "", fmt.Errorf("unsupported format %q for dependency export", format)
	}
}

func observeRenderDuration(graph, format string, start time.Time) {
	renderDuration.WithLabelValues(graph, format).Observe(time.Since(start).Seconds())
}
