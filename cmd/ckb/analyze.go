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
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/arclens/ckb/internal/bootstrap"
	"github.com/arclens/ckb/internal/errors"
	"github.com/arclens/ckb/internal/ui"
	"github.com/arclens/ckb/pkg/config"
	"github.com/arclens/ckb/pkg/embedder"
	"github.com/arclens/ckb/pkg/orchestrator"
	"github.com/arclens/ckb/pkg/registry"
)

// runAnalyze executes the 'analyze' CLI command: it discovers, parses, and
// persists every C/H file under the given path into the shared knowledge
// base, registering the project by directory name if this is its first run.
//
// Usage:
//
//	ckb analyze <path> [--include GLOBS] [--exclude GLOBS] [--threads N] [--incremental] [--output DIR]
func runAnalyze(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	exclude := fs.String("exclude", "", "Comma-separated exclude globs, in addition to .ckb/project.yaml")
	include := fs.String("include", "", "Comma-separated include globs (when set, only matching files are analyzed)")
	threads := fs.Int("threads", 0, "Parallel parse workers (default: NumCPU)")
	incremental := fs.Bool("incremental", false, "Skip files unchanged since the last analyze via a checkpoint file")
	output := fs.String("output", "", "Directory for the checkpoint and processed-files cache (default: <path>/.ckb)")
	metricsAddr := fs.String("metrics-addr", "", "HTTP listen address for Prometheus metrics (empty to disable)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: ckb analyze <path> [options]

Analyzes a C repository and persists its structure and embeddings into the
shared knowledge base at ~/.ckb/data.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}

	repoRoot, err := filepath.Abs(fs.Arg(0))
	if err != nil {
		errors.FatalError(errors.NewConfigError("invalid path", err.Error(), "pass a readable directory", err), globals.JSON)
	}
	if info, err := os.Stat(repoRoot); err != nil || !info.IsDir() {
		errors.FatalError(errors.NewConfigError("invalid path", fmt.Sprintf("%s is not a directory", repoRoot), "pass a readable directory", nil), globals.JSON)
	}

	pf, err := config.Load(repoRoot)
	if err != nil {
		errors.FatalError(errors.NewConfigError("cannot read .ckb/project.yaml", err.Error(), "fix or remove the file", err), globals.JSON)
	}

	excludeGlobs := splitGlobs(*exclude)
	includeGlobs := splitGlobs(*include)
	if pf != nil {
		excludeGlobs = append(excludeGlobs, pf.Exclude...)
		includeGlobs = append(includeGlobs, pf.Include...)
	}

	reg, err := openRegistry()
	if err != nil {
		errors.FatalError(errors.NewConfigError("cannot open project registry", err.Error(), "check ~/.ckb permissions", err), globals.JSON)
	}

	projectName := filepath.Base(repoRoot)
	projectID := projectIDFor(repoRoot)
	if pf != nil && pf.ProjectID != "" {
		projectID = pf.ProjectID
	}

	if proj, ok := reg.Resolve(projectName); ok && proj.Path != repoRoot {
		projectName = projectID
	}
	if _, ok := reg.Resolve(projectName); !ok {
		if _, err := reg.Add(projectName, projectID, repoRoot); err != nil {
			errors.FatalError(errors.NewConfigError("cannot register project", err.Error(), "check for a name/path collision with 'ckb status'", err), globals.JSON)
		}
		if err := reg.Save(); err != nil {
			errors.FatalError(errors.NewStorageOperationError("cannot save project registry", err.Error(), "check ~/.ckb permissions", err), globals.JSON)
		}
	} else {
		_ = reg.Touch(projectName)
		_ = reg.Save()
	}

	logger := slog.Default()
	startMetricsServer(*metricsAddr, logger)
	backend, err := bootstrap.OpenStore(bootstrap.StoreConfig{}, logger)
	if err != nil {
		errors.FatalError(errors.NewStorageConnectionError("cannot open knowledge base", err.Error(), "check ~/.ckb/data permissions", err), globals.JSON)
	}
	defer backend.Close()

	embedProviderName := "ollama"
	if pf != nil && pf.Embedding.Provider != "" {
		embedProviderName = pf.Embedding.Provider
	}
	provider, err := embedder.NewProvider(embedProviderName, logger)
	if err != nil {
		errors.FatalError(errors.NewModelLoadError("cannot initialize embedding provider", err.Error(), "check OLLAMA_HOST or the configured provider", err), globals.JSON)
	}
	emb := embedder.New(provider, *threads, nil, logger)

	checkpointDir := *output
	if checkpointDir == "" {
		checkpointDir = filepath.Join(repoRoot, ".ckb")
	}
	var checkpointPath string
	if *incremental {
		if err := os.MkdirAll(checkpointDir, 0o755); err != nil {
			errors.FatalError(errors.NewConfigError("cannot create output directory", err.Error(), "check permissions", err), globals.JSON)
		}
		checkpointPath = filepath.Join(checkpointDir, "checkpoint.json")
	}

	progressCfg := NewProgressConfig(globals)
	var bar *progressBarHandle

	cfg := orchestrator.Config{
		ProjectID:      projectID,
		RepoRoot:       repoRoot,
		Backend:        backend,
		Embedder:       emb,
		Workers:        *threads,
		ExcludeGlobs:   excludeGlobs,
		IncludeGlobs:   includeGlobs,
		CheckpointPath: checkpointPath,
		Logger:         logger,
		Progress: func(done, total int) {
			if bar == nil {
				bar = newProgressBarHandle(progressCfg, total, "analyzing")
			}
			bar.set(done)
		},
	}

	summary, err := orchestrator.Run(context.Background(), cfg)
	if bar != nil {
		bar.finish()
	}
	if err != nil {
		errors.FatalError(errors.NewStorageOperationError("analysis failed", err.Error(), "re-run with --incremental after fixing the cause", err), globals.JSON)
	}

	printAnalysisSummary(summary, globals)
}

func splitGlobs(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	globs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			globs = append(globs, p)
		}
	}
	return globs
}

func projectIDFor(repoRoot string) string {
	sum := sha256.Sum256([]byte(repoRoot))
	return "proj_" + hex.EncodeToString(sum[:])[:16]
}

func openRegistry() (*registry.Registry, error) {
	path, err := registry.DefaultPath()
	if err != nil {
		return nil, err
	}
	return registry.Open(path)
}

func printAnalysisSummary(s *orchestrator.Summary, globals GlobalFlags) {
	if globals.JSON {
		printJSON(s)
		return
	}
	ui.Successf("Analyzed %s", s.ProjectID)
	ui.StatString("Files", fmt.Sprintf("%d parsed, %d skipped, %d failed (of %d)", s.FilesParsed, s.FilesSkipped, s.FilesFailed, s.FilesTotal))
	ui.Stat("Functions", s.Functions)
	ui.Stat("Calls", s.Calls)
	ui.StatString("Chunks", fmt.Sprintf("%d (%d embed failures)", s.Chunks, s.EmbedFailed))
	ui.StatString("Modules", fmt.Sprintf("%d (%d circular, modularity %.2f)", s.ModuleCount, s.CircularDeps, s.Modularity))
	if s.FilesFailed > 0 {
		ui.Warningf("%d file(s) failed to parse — see logs for details", s.FilesFailed)
	}
}
