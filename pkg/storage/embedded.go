// Copyright 2025 Arclens
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

package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	cozo "github.com/arclens/ckb/pkg/cozodb"
)

// EmbeddedBackend implements Backend using a local CozoDB instance shared
// across projects; every relation carries project_id as a leading key
// column rather than relying on one data directory per project.
type EmbeddedBackend struct {
	db     *cozo.CozoDB
	mu     sync.RWMutex
	closed bool
}

// EmbeddedConfig configures the embedded backend.
type EmbeddedConfig struct {
	// DataDir is the directory where CozoDB stores its data.
	// Defaults to ~/.ckb/data (shared by all projects).
	DataDir string

	// Engine is the CozoDB storage engine: "rocksdb", "sqlite", or "mem".
	// Defaults to "rocksdb" for persistence.
	Engine string
}

// NewEmbeddedBackend creates a new embedded CozoDB backend.
func NewEmbeddedBackend(config EmbeddedConfig) (*EmbeddedBackend, error) {
	if config.Engine == "" {
		config.Engine = "rocksdb"
	}
	if config.DataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		config.DataDir = filepath.Join(homeDir, ".ckb", "data")
	}

	if err := os.MkdirAll(config.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := cozo.New(config.Engine, config.DataDir, nil)
	if err != nil {
		return nil, fmt.Errorf("open cozodb: %w", err)
	}

	return &EmbeddedBackend{db: &db}, nil
}

// Query executes a read-only Datalog query.
func (b *EmbeddedBackend) Query(ctx context.Context, datalog string) (*QueryResult, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, fmt.Errorf("backend is closed")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	start := time.Now()
	result, err := b.db.RunReadOnly(datalog, nil)
	recordQueryDuration("query", time.Since(start).Seconds())
	if err != nil {
		recordQueryError("query")
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return FromNamedRows(result), nil
}

// Execute runs a Datalog mutation.
func (b *EmbeddedBackend) Execute(ctx context.Context, datalog string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return fmt.Errorf("backend is closed")
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	start := time.Now()
	_, err := b.db.Run(datalog, nil)
	recordQueryDuration("execute", time.Since(start).Seconds())
	if err != nil {
		recordQueryError("execute")
		return fmt.Errorf("execute failed: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (b *EmbeddedBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	b.db.Close()
	return nil
}

// DB returns the underlying CozoDB instance for advanced operations.
// Prefer the Backend interface methods where possible.
func (b *EmbeddedBackend) DB() *cozo.CozoDB {
	return b.db
}

// coreTables lists every project-scoped relation :create statement. Each is
// run independently so that one relation already existing never blocks the
// creation of the rest.
var coreTables = []string{
	`:create ck_file {
		project_id: String,
		path: String
		=>
		name: String,
		language: String,
		size: Int,
		last_modified: Int
	}`,
	`:create ck_function {
		project_id: String,
		name: String,
		file_path: String,
		start_line: Int
		=>
		end_line: Int,
		start_col: Int,
		end_col: Int,
		docstring: String,
		parameters: String,
		return_type: String,
		code: String,
		last_updated: Int
	}`,
	`:create ck_module {
		project_id: String,
		name: String
		=>
		file_count: Int
	}`,
	`:create ck_calls {
		project_id: String,
		caller_name: String,
		caller_file: String,
		callee_name: String,
		line_number: Int
		=>
		call_type: String,
		context: String,
		last_updated: Int
	}`,
	`:create ck_file_dep {
		project_id: String,
		source_path: String,
		target_path: String,
		line_number: Int
		=>
		is_system: Bool,
		dependency_type: String
	}`,
	`:create ck_module_dep {
		project_id: String,
		source_module: String,
		target_module: String
		=>
		file_count: Int,
		strength: Float,
		is_circular: Bool
	}`,
	`:create ck_contains {
		project_id: String,
		file_path: String,
		function_name: String
	}`,
	`:create ck_belongs_to {
		project_id: String,
		file_path: String,
		module_name: String
	}`,
}

// legacyTableNames are the prior schema generation's relation names; any
// that exist at startup are renamed out of the way by EnsureSchema (appending "_legacy_v1") instead of dropping
// them, so a user's previously-indexed data is never silently discarded.
var legacyTableNames = []string{
	"cie_file", "cie_function", "cie_function_code", "cie_function_embedding",
	"cie_defines", "cie_calls", "cie_import", "cie_type", "cie_type_code",
	"cie_type_embedding", "cie_defines_type",
}

// EnsureSchema creates the ck_* relations if they don't exist, and moves any
// relation left over from a previous schema generation out of the way.
func (b *EmbeddedBackend) EnsureSchema() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, name := range legacyTableNames {
		b.renameIfLegacy(name)
	}

	for _, table := range coreTables {
		if _, err := b.db.Run(table, nil); err != nil {
			if !strings.Contains(err.Error(), "already exists") {
				return fmt.Errorf("create table: %w", err)
			}
		}
	}
	return nil
}

// renameIfLegacy checks whether name exists (::columns succeeds and returns
// at least one column) and, if so, renames it to name+"_legacy_v1"; its
// column layout is not inspected.
func (b *EmbeddedBackend) renameIfLegacy(name string) {
	result, err := b.db.RunReadOnly(fmt.Sprintf("::columns %s", name), nil)
	if err != nil {
		return // relation doesn't exist; nothing to migrate
	}
	if len(result.Rows) == 0 {
		return
	}
	_, _ = b.db.Run(fmt.Sprintf("::rename %s -> %s_legacy_v1", name, name), nil)
}

// hnswCosineParams is the ::hnsw create parameter list (with a %d slot for
// the embedding dimension) used for every chunk collection's index. Chunk
// embedding collections are created and indexed dynamically per project
// via EnsureChunkCollection, since their names are not known statically.
var hnswCosineParams = "m: 16, ef_construction: 200, dim: %d, dtype: F32, fields: [embedding], distance: Cosine"

// EnsureChunkCollection creates (if absent) the per-project vector
// collection named "<project_id>_<base>" together with its HNSW index, for
// the given embedding dimensionality.
func (b *EmbeddedBackend) EnsureChunkCollection(projectID, base string, dim int) (string, error) {
	collection := ChunkCollectionName(projectID, base)

	b.mu.Lock()
	defer b.mu.Unlock()

	createStmt := fmt.Sprintf(`:create %s {
		id: String
		=>
		embedding: <F32; %d>,
		text: String,
		metadata: String
	}`, collection, dim)
	if _, err := b.db.Run(createStmt, nil); err != nil {
		if !strings.Contains(err.Error(), "already exists") {
			return "", fmt.Errorf("create chunk collection %s: %w", collection, err)
		}
	}

	idxStmt := fmt.Sprintf("::hnsw create %s:hnsw_idx { %s }", collection, fmt.Sprintf(hnswCosineParams, dim))
	if _, err := b.db.Run(idxStmt, nil); err != nil {
		if !strings.Contains(err.Error(), "already exists") {
			return "", fmt.Errorf("create hnsw index on %s: %w", collection, err)
		}
	}

	return collection, nil
}

// ChunkCollectionName derives the per-project vector collection name for a
// given logical base name (e.g. "chunks"), sanitizing projectID to the
// identifier charset CozoDB relation names accept.
func ChunkCollectionName(projectID, base string) string {
	return fmt.Sprintf("%s_%s", sanitizeIdent(projectID), base)
}

func sanitizeIdent(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := b.String()
	if out == "" {
		return "default"
	}
	if out[0] >= '0' && out[0] <= '9' {
		out = "p_" + out
	}
	return out
}
