// Copyright 2026 Arclens
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@arclens.dev
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/arclens/ckb/pkg/cparser"
	"github.com/arclens/ckb/pkg/depanalyzer"
	"github.com/arclens/ckb/pkg/storage"
)

// parseUnit is one file's worth of parse output, carried through the
// pipeline so later stages don't need to reopen the file.
type parseUnit struct {
	index   int
	file    SourceFile
	skipped bool
	err     error

	parsed       *cparser.ParsedCode
	dependencies []cparser.FileDependency
}

// Run analyzes every C/H file under cfg.RepoRoot and persists the result
// into cfg.Backend. It returns a Summary even when some files fail — a
// single bad file never aborts the run.
func Run(ctx context.Context, cfg Config) (*Summary, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	sources, err := discoverSources(cfg.RepoRoot, cfg.ExcludeGlobs, cfg.IncludeGlobs, cfg.MaxFileSize)
	if err != nil {
		return nil, fmt.Errorf("discover sources: %w", err)
	}

	var checkpoint *Checkpoint
	if cfg.CheckpointPath != "" {
		checkpoint, err = LoadCheckpoint(cfg.CheckpointPath)
		if err != nil {
			return nil, fmt.Errorf("load checkpoint: %w", err)
		}
	}

	parser := cparser.New(logger)

	units := parseFilesParallel(ctx, sources, workers, parser, cfg.RepoRoot, checkpoint)

	summary := &Summary{ProjectID: cfg.ProjectID, FilesTotal: len(sources)}
	var allDeps []cparser.FileDependency

	done := 0
	for _, u := range units {
		done++
		fr := FileResult{Path: u.file.Path}
		switch {
		case u.skipped:
			fr.Skipped = true
			summary.FilesSkipped++
		case u.err != nil:
			fr.Err = u.err
			summary.FilesFailed++
			logger.Warn("orchestrator.parse_failed", "file", u.file.Path, "err", u.err)
		default:
			fr.FunctionCount = len(u.parsed.Functions)
			fr.CallCount = len(u.parsed.Calls)
			summary.FilesParsed++
			summary.Functions += fr.FunctionCount
			summary.Calls += fr.CallCount
			allDeps = append(allDeps, u.dependencies...)
		}
		summary.FileResults = append(summary.FileResults, fr)
		if cfg.Progress != nil {
			cfg.Progress(done, len(sources))
		}
	}

	deps := depanalyzer.Analyze(allDeps, cSourcePaths(sources), cfg.RepoRoot)
	summary.ModuleCount = len(deps.ModuleDependencies)
	summary.CircularDeps = len(deps.CircularDependencies)
	summary.Modularity = deps.ModularityScore

	if cfg.Backend != nil {
		if err := persist(ctx, cfg, units, deps, summary, logger); err != nil {
			return summary, err
		}
	}

	if checkpoint != nil {
		for _, u := range units {
			if u.err == nil {
				checkpoint.Record(u.file.Path, u.file.Size, u.file.ModTime)
			}
		}
		if err := checkpoint.Save(cfg.CheckpointPath); err != nil {
			logger.Warn("orchestrator.checkpoint_save_failed", "err", err)
		}
	}

	return summary, nil
}

// parseFilesParallel fans file parsing out across workers goroutines,
// falling back to sequential parsing for small file counts where pool
// setup outweighs the benefit.
func parseFilesParallel(ctx context.Context, sources []SourceFile, workers int, parser *cparser.Parser, repoRoot string, checkpoint *Checkpoint) []parseUnit {
	if len(sources) < 10 || workers <= 1 {
		return parseFilesSequential(sources, parser, repoRoot, checkpoint)
	}

	units := make([]parseUnit, len(sources))
	jobs := make(chan int, len(sources))
	for i := range sources {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					units[i] = parseUnit{index: i, file: sources[i], err: ctx.Err()}
					continue
				}
				units[i] = parseOne(sources[i], parser, repoRoot, checkpoint)
			}
		}()
	}
	wg.Wait()

	return units
}

func parseFilesSequential(sources []SourceFile, parser *cparser.Parser, repoRoot string, checkpoint *Checkpoint) []parseUnit {
	units := make([]parseUnit, len(sources))
	for i, f := range sources {
		units[i] = parseOne(f, parser, repoRoot, checkpoint)
	}
	return units
}

func parseOne(f SourceFile, parser *cparser.Parser, repoRoot string, checkpoint *Checkpoint) parseUnit {
	if checkpoint != nil && checkpoint.Unchanged(f.Path, f.Size, f.ModTime) {
		recordFileSkipped()
		return parseUnit{file: f, skipped: true}
	}

	start := time.Now()
	parsed, err := parser.ParseFile(f.FullPath)
	recordParseDuration(time.Since(start).Seconds())
	if err != nil {
		recordFileFailed()
		return parseUnit{file: f, err: err}
	}
	recordFileParsed()
	rewriteToRelativePaths(parsed, f.Path)

	// Dependencies keep absolute paths here: depanalyzer.Analyze resolves
	// them against repoRoot via filepath.Rel, which requires both sides to
	// share the same absolute/relative footing. Storage gets a relativized
	// copy in persist().
	deps, err := cparser.ExtractIncludes(f.FullPath, repoRoot)
	if err != nil {
		deps = nil
	}

	return parseUnit{file: f, parsed: parsed, dependencies: deps}
}

// rewriteToRelativePaths replaces the absolute paths ParseFile stamped onto
// its result with the project-relative path, so function/file IDs (which
// hash the path) stay stable across machines and re-clones.
func rewriteToRelativePaths(parsed *cparser.ParsedCode, relPath string) {
	parsed.File.Path = relPath
	for i := range parsed.Functions {
		parsed.Functions[i].FilePath = relPath
		parsed.Functions[i].ID = cparser.GenerateFunctionID(relPath, parsed.Functions[i].Name,
			parsed.Functions[i].StartLine, parsed.Functions[i].EndLine,
			parsed.Functions[i].StartCol, parsed.Functions[i].EndCol)
	}
	for i := range parsed.Calls {
		parsed.Calls[i].CallerFile = relPath
	}
}

// cSourcePaths returns the full path of every discovered .c file, the
// denominator depanalyzer.Analyze needs for dependency strength — it must
// count every .c file in a module, not just the ones that happen to have an
// outgoing #include edge.
func cSourcePaths(sources []SourceFile) []string {
	paths := make([]string, 0, len(sources))
	for _, f := range sources {
		if strings.HasSuffix(f.FullPath, ".c") {
			paths = append(paths, f.FullPath)
		}
	}
	return paths
}

func relTo(path, root string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func moduleOf(relPath string) string {
	for i, r := range relPath {
		if r == '/' {
			return relPath[:i]
		}
	}
	return "root"
}

func toModuleDepRows(deps []depanalyzer.ModuleDependency) []storage.ModuleDepRow {
	rows := make([]storage.ModuleDepRow, 0, len(deps))
	for _, d := range deps {
		rows = append(rows, storage.ModuleDepRow{
			SourceModule: d.SourceModule,
			TargetModule: d.TargetModule,
			FileCount:    d.FileCount,
			Strength:     d.Strength,
			IsCircular:   d.IsCircular,
		})
	}
	return rows
}
