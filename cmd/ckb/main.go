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

// Package main implements the ckb CLI: analyzing a C repository into the
// knowledge base and querying it back.
//
// Usage:
//
//	ckb analyze <path> [--include GLOBS] [--exclude GLOBS] [--threads N] [--incremental]
//	ckb query --project <name|id> [--function F] [--file F] [--query Q]
//	ckb status [--verbose]
//	ckb export --project <name|id> --type {calls|deps|all} --format {json|md|html|dot} --output PATH
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/arclens/ckb/internal/ui"
)

// Version information (set via ldflags during build)
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// GlobalFlags carries the flags accepted before the subcommand name.
type GlobalFlags struct {
	Quiet   bool
	NoColor bool
	JSON    bool
}

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version and exit")
		quiet       = flag.Bool("quiet", false, "Suppress progress output")
		noColor     = flag.Bool("no-color", false, "Disable colored output")
		jsonOutput  = flag.Bool("json", false, "Output machine-readable JSON")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `ckb - C codebase knowledge base CLI

Usage:
  ckb <command> [options]

Commands:
  analyze   Analyze a C repository into the knowledge base
  query     Ask a question or inspect graph context for a project
  status    Show knowledge base status
  export    Render a call-graph or dependency graph
  completion  Generate shell completion scripts

Global Options:
  --quiet      Suppress progress output
  --no-color   Disable colored output
  --json       Output machine-readable JSON
  --version    Show version and exit

Examples:
  ckb analyze ./src --incremental
  ckb query --project demo --function handle_request
  ckb status --verbose
  ckb export --project demo --type calls --format md --focus handle_request --output calls.md

Data Storage:
  Every project's data lives in the shared store at ~/.ckb/data, keyed by
  project_id. The project registry at ~/.ckb/registry.json maps names to ids.
`)
	}

	// Subcommand flags (e.g. "analyze"'s --incremental) are parsed by their
	// own FlagSet, so the top-level parse must stop at the first positional
	// argument rather than scanning the whole line for flags.
	flag.CommandLine.SetInterspersed(false)
	flag.Parse()

	if *showVersion {
		fmt.Printf("ckb version %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", date)
		os.Exit(0)
	}

	globals := GlobalFlags{Quiet: *quiet || *jsonOutput, NoColor: *noColor, JSON: *jsonOutput}
	ui.InitColors(globals.NoColor || globals.JSON)

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "analyze":
		runAnalyze(cmdArgs, globals)
	case "query":
		runQuery(cmdArgs, globals)
	case "status":
		runStatus(cmdArgs, globals)
	case "export":
		runExport(cmdArgs, globals)
	case "completion":
		runCompletion(cmdArgs)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}
