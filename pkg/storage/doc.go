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

// Package storage provides storage backend abstractions for ckb.
//
// This package defines the Backend interface that allows ckb tools to work
// with different storage implementations. The abstraction enables the same
// MCP tools to operate against either a local embedded database or a remote
// ckb Enterprise service.
//
// # Available Backends
//
// The package provides these backend implementations:
//
//   - EmbeddedBackend: Local CozoDB instance for standalone/open-source use
//   - Remote backends: Available in ckb Enterprise (not included in this package)
//
// # Quick Start
//
// Create an embedded backend and execute queries:
//
//	backend, err := storage.NewEmbeddedBackend(storage.EmbeddedConfig{
//	    DataDir: "/path/to/data",
//	    Engine:  "rocksdb",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	// Initialize schema
//	if err := backend.EnsureSchema(); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Execute a query
//	result, err := backend.Query(ctx, `
//	    ?[name, file_path] := *ck_function{project_id: "myproject", name, file_path}
//	    :limit 10
//	`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, row := range result.Rows {
//	    fmt.Printf("%s in %s\n", row[0], row[1])
//	}
//
// # Schema Initialization
//
// Before indexing code, initialize the ckb schema:
//
//	// Create all ckb tables (idempotent)
//	err := backend.EnsureSchema()
//
//	// Create a project's chunk collection and its HNSW index (idempotent)
//	collection, err := backend.EnsureChunkCollection("myproject", "chunks", 768)
//
// The schema includes tables for (each keyed by project_id):
//   - Files and their metadata (ck_file)
//   - Functions with their code (ck_function)
//   - Modules (ck_module)
//   - Call graph relationships (ck_calls)
//   - File and module dependencies (ck_file_dep, ck_module_dep)
//   - File-to-function and file-to-module links (ck_contains, ck_belongs_to)
//
// Chunk embeddings live in the per-project collections that
// EnsureChunkCollection creates, not in the tables above.
//
// # Query vs Execute
//
// Use Query for read operations and Execute for mutations:
//
//	// Read-only query (uses RunReadOnly internally)
//	result, err := backend.Query(ctx, `?[count(p)] := *ck_file{path: p}`)
//
//	// Mutation (uses Run internally)
//	err := backend.Execute(ctx, `?[project_id, path] <- [["myproject", "main.c"]] :rm ck_file {project_id, path}`)
//
// # Configuration
//
// EmbeddedConfig controls the backend behavior:
//
//	config := storage.EmbeddedConfig{
//	    DataDir: "/path/to/data", // Where to store CozoDB data
//	    Engine:  "rocksdb",       // Storage engine: mem, sqlite, rocksdb
//	}
//
// Default values if not specified:
//   - DataDir: ~/.ckb/data (one store shared by all projects, which are
//     kept apart by the project_id key column)
//   - Engine: "rocksdb" (recommended for production)
//
// # Thread Safety
//
// EmbeddedBackend is safe for concurrent use. Read operations use a read
// lock while write operations use an exclusive lock, allowing concurrent
// reads but exclusive writes.
//
// # Direct Database Access
//
// For advanced operations, access the underlying CozoDB instance:
//
//	db := backend.DB()
//	result, err := db.Run(`::relations`, nil)  // List all relations
//
// Use with caution - prefer the Backend interface methods for normal operations.
package storage
