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

// Package orchestrator drives end-to-end analysis of a C source tree: file
// discovery, parallel parsing, dependency analysis, chunking, embedding, and
// persistence into the storage backend, with incremental re-analysis via a
// checkpoint file and progress reporting for interactive use.
package orchestrator

import (
	"log/slog"

	"github.com/arclens/ckb/pkg/embedder"
	"github.com/arclens/ckb/pkg/storage"
)

// SourceFile is one discovered C/H file under a repository root.
type SourceFile struct {
	Path     string // relative to RepoRoot
	FullPath string // absolute
	Size     int64
	ModTime  int64 // unix seconds
}

// Config controls one Run.
type Config struct {
	ProjectID string
	RepoRoot  string

	Backend  *storage.EmbeddedBackend
	Embedder *embedder.Embedder // nil disables embedding/chunking

	// Workers bounds parallel file parsing; <1 defaults to runtime.NumCPU.
	Workers int

	// ExcludeGlobs are additional path globs to skip, on top of the
	// built-in VCS/build-output defaults.
	ExcludeGlobs []string

	// IncludeGlobs, when non-empty, narrows discovery to files matching at
	// least one of these globs (in addition to the exclude filtering).
	IncludeGlobs []string

	// MaxFileSize skips files larger than this many bytes; 0 means no limit.
	MaxFileSize int64

	// CheckpointPath, if set, enables incremental analysis: unchanged
	// files (by size + mtime) are skipped: they are neither re-parsed nor
	// re-persisted, so their previously stored rows stay as they are.
	CheckpointPath string

	// EmbedBatchSize is the starting chunk batch size handed to the
	// embedder; <1 defaults to 32.
	EmbedBatchSize int

	// Progress, if non-nil, is called after each file completes (parsed,
	// skipped, or failed) with the running totals so far.
	Progress func(done, total int)

	Logger *slog.Logger
}

// FileResult is the per-file outcome of a Run.
type FileResult struct {
	Path    string
	Skipped bool
	Err     error

	FunctionCount int
	CallCount     int
	ChunkCount    int
}

// Summary is the aggregate outcome of a Run.
type Summary struct {
	ProjectID    string
	FilesTotal   int
	FilesParsed  int
	FilesSkipped int
	FilesFailed  int
	Functions    int
	Calls        int
	Chunks       int
	EmbedFailed  int
	ModuleCount  int
	CircularDeps int
	Modularity   float64
	FileResults  []FileResult
}
