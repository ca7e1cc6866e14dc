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

	"github.com/arclens/ckb/pkg/chunker"
	"github.com/arclens/ckb/pkg/cparser"
	"github.com/arclens/ckb/pkg/depanalyzer"
	"github.com/arclens/ckb/pkg/storage"
)

const chunkCollectionBase = "chunks"

// persist writes parsed files, module dependencies, and (if an embedder is
// configured) chunk embeddings into cfg.Backend.
func persist(ctx context.Context, cfg Config, units []parseUnit, deps depanalyzer.ProjectDependencies, summary *Summary, logger *slog.Logger) error {
	ch := chunker.New()
	batchSize := cfg.EmbedBatchSize

	for i, u := range units {
		if u.skipped || u.err != nil {
			continue
		}

		module := moduleOf(u.file.Path)
		up := storage.FileUpsert{
			ProjectID:     cfg.ProjectID,
			Module:        module,
			File:          u.parsed.File,
			Functions:     u.parsed.Functions,
			Calls:         u.parsed.Calls,
			Dependencies:  relativizeDeps(u.dependencies, cfg.RepoRoot),
			UpdatedAtUnix: u.file.ModTime,
		}
		if err := cfg.Backend.UpsertFile(ctx, up); err != nil {
			return fmt.Errorf("upsert %s: %w", u.file.Path, err)
		}

		if cfg.Embedder == nil {
			continue
		}

		chunks, err := ch.ChunkFile(u.file.FullPath, module)
		if err != nil {
			logger.Warn("orchestrator.chunk_failed", "file", u.file.Path, "err", err)
			continue
		}
		for j := range chunks {
			chunks[j].FilePath = u.file.Path
		}
		summary.Chunks += len(chunks)
		if len(chunks) == 0 {
			continue
		}

		result, err := cfg.Embedder.EmbedChunks(ctx, chunks, batchSize)
		if err != nil {
			return fmt.Errorf("embed %s: %w", u.file.Path, err)
		}
		summary.EmbedFailed += result.Failed
		if len(result.Records) == 0 {
			continue
		}

		dim := len(result.Records[0].Embedding)
		if err := cfg.Backend.UpsertChunks(ctx, cfg.ProjectID, chunkCollectionBase, dim, result.Records); err != nil {
			return fmt.Errorf("upsert chunks for %s: %w", u.file.Path, err)
		}

		summary.FileResults[i].ChunkCount = len(chunks)
	}

	if len(deps.ModuleDependencies) > 0 {
		if err := cfg.Backend.UpsertModuleDependencies(ctx, cfg.ProjectID, toModuleDepRows(deps.ModuleDependencies)); err != nil {
			return fmt.Errorf("upsert module dependencies: %w", err)
		}
	}

	return nil
}

// relativizeDeps renders dependency paths relative to repoRoot before they
// reach storage, so the graph records project-portable paths instead of
// whatever absolute location this run happened to clone into. A path that
// can't be made relative (shouldn't happen for anything resolveInclude
// returned) is left as-is rather than dropped.
func relativizeDeps(deps []cparser.FileDependency, repoRoot string) []cparser.FileDependency {
	if len(deps) == 0 {
		return nil
	}
	out := make([]cparser.FileDependency, len(deps))
	for i, d := range deps {
		out[i] = d
		if rel, ok := relTo(d.SourcePath, repoRoot); ok {
			out[i].SourcePath = rel
		}
		if d.TargetPath != "" {
			if rel, ok := relTo(d.TargetPath, repoRoot); ok {
				out[i].TargetPath = rel
			}
		}
	}
	return out
}
