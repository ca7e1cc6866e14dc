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
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/arclens/ckb/internal/bootstrap"
	"github.com/arclens/ckb/internal/errors"
	"github.com/arclens/ckb/pkg/config"
	"github.com/arclens/ckb/pkg/embedder"
	"github.com/arclens/ckb/pkg/llm"
	"github.com/arclens/ckb/pkg/qa"
)

// runQuery executes the 'query' CLI command: it answers a question (one-shot
// or interactively read from stdin) using graph context, file context, and
// vector similarity for the given project.
//
// Usage:
//
//	ckb query --project <name|id> [--function F] [--file F] [--query Q]
func runQuery(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	projectRef := fs.String("project", "", "Project name or id (required)")
	focusFunction := fs.String("function", "", "Focus function to include as context")
	focusFile := fs.String("file", "", "Focus file to include as context")
	question := fs.String("query", "", "Question to ask (omit for interactive mode)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: ckb query --project <name|id> [options]

Answers a question about an analyzed project using its graph and vector context.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *projectRef == "" {
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

	logger := slog.Default()
	backend, err := bootstrap.OpenStore(bootstrap.StoreConfig{}, logger)
	if err != nil {
		errors.FatalError(errors.NewStorageConnectionError("cannot open knowledge base", err.Error(), "check ~/.ckb/data permissions", err), globals.JSON)
	}
	defer backend.Close()

	pf, err := config.Load(proj.Path)
	if err != nil {
		errors.FatalError(errors.NewConfigError("cannot read .ckb/project.yaml", err.Error(), "fix or remove the file", err), globals.JSON)
	}

	embedName, llmCfg := "ollama", llm.ProviderConfig{Type: "ollama"}
	if pf != nil {
		if pf.Embedding.Provider != "" {
			embedName = pf.Embedding.Provider
		}
		if pf.LLM.Provider != "" {
			llmCfg.Type = pf.LLM.Provider
		}
		if pf.LLM.Model != "" {
			llmCfg.DefaultModel = pf.LLM.Model
		}
	}

	embedProvider, err := embedder.NewProvider(embedName, logger)
	if err != nil {
		errors.FatalError(errors.NewModelLoadError("cannot initialize embedding provider", err.Error(), "check OLLAMA_HOST or the configured provider", err), globals.JSON)
	}
	llmProvider, err := llm.NewProvider(llmCfg)
	if err != nil {
		errors.FatalError(errors.NewConfigError("cannot initialize LLM provider", err.Error(), "set the LLM provider/model in .ckb/project.yaml", err), globals.JSON)
	}

	svc := qa.New(backend, backend, embedProvider, llmProvider, proj.ID)

	ask := func(q string) {
		answer, err := svc.Ask(context.Background(), qa.Request{
			Question:      q,
			ProjectPath:   proj.Path,
			FocusFunction: *focusFunction,
			FocusFile:     *focusFile,
		})
		if err != nil {
			errors.FatalError(errors.NewServiceError("query failed", err.Error(), "check the LLM endpoint and retry", err), globals.JSON)
			return
		}
		if globals.JSON {
			printJSON(answer)
		} else {
			fmt.Println(answer.Text)
		}
	}

	if *question != "" {
		ask(*question)
		return
	}

	fmt.Fprintln(os.Stderr, "Interactive mode: enter a question per line, Ctrl-D to exit.")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		ask(line)
	}
}
