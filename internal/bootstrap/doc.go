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

// Package bootstrap opens ckb's shared CozoDB store and ensures its schema.
//
// Every project's data lives in the same store, keyed by project_id — see
// pkg/registry for the separate JSON document that maps project names to
// those ids and their source paths.
//
// # Usage
//
//	backend, err := bootstrap.OpenStore(bootstrap.StoreConfig{
//	    Engine: "rocksdb", // optional: defaults to rocksdb
//	}, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
// # Idempotency
//
// OpenStore is idempotent: calling it multiple times, even across
// concurrently running commands for different projects, is safe.
//
// # Storage Engines
//
//   - rocksdb: persistent storage (default, recommended)
//   - sqlite: lightweight persistent storage
//   - mem: in-memory storage for testing
package bootstrap
