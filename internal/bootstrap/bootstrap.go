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

// Package bootstrap opens the single shared CozoDB backend that every
// project's relations live in, scoped by project_id rather than by
// directory.
package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/arclens/ckb/pkg/storage"
)

// StoreConfig configures the shared backend.
type StoreConfig struct {
	// DataDir is the directory where CozoDB stores its data. Defaults to
	// ~/.ckb/data, shared across every project_id.
	DataDir string

	// Engine is the CozoDB storage engine: "rocksdb", "sqlite", or "mem".
	// Defaults to "rocksdb" for persistence.
	Engine string
}

func (c *StoreConfig) applyDefaults() error {
	if c.Engine == "" {
		c.Engine = "rocksdb"
	}
	if c.DataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("get home dir: %w", err)
		}
		c.DataDir = filepath.Join(homeDir, ".ckb", "data")
	}
	return nil
}

// OpenStore opens the shared backend, creating its data directory and
// schema on first use. This function is idempotent: calling it multiple
// times, even concurrently across projects, is safe since every relation
// is keyed by project_id rather than by a per-project directory.
func OpenStore(cfg StoreConfig, logger *slog.Logger) (*storage.EmbeddedBackend, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}

	logger.Info("bootstrap.store.open", "data_dir", cfg.DataDir, "engine", cfg.Engine)

	backend, err := storage.NewEmbeddedBackend(storage.EmbeddedConfig{
		DataDir: cfg.DataDir,
		Engine:  cfg.Engine,
	})
	if err != nil {
		return nil, fmt.Errorf("open backend: %w", err)
	}

	if err := backend.EnsureSchema(); err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return backend, nil
}
