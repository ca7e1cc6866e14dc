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

// Package testing provides test helpers for ckb integration tests.
//
// It wraps pkg/storage with project-scoped schema setup and data
// seeding utilities so package tests can exercise the real CozoDB
// Datalog schema without a live engine.
//
// # Quick Start
//
// Use SetupTestBackend to create an in-memory ckb backend with schema:
//
//	func TestMyFeature(t *testing.T) {
//	    backend := testing.SetupTestBackend(t)
//
//	    testing.InsertTestFunction(t, backend, "demo", "HandleAuth", "auth.c", 10, 20)
//
//	    result := testing.QueryFunctions(t, backend, "demo")
//	    require.Len(t, result.Rows, 1)
//	}
//
// # Seeding Test Data
//
//   - InsertTestFunction: add a function row to ck_function
//   - InsertTestFile: add a file row to ck_file
//   - InsertTestCalls: add a caller/callee edge to ck_calls
//
// # Querying Test Data
//
//   - QueryFunctions: get every function row for a project
//   - QueryFiles: get every file row for a project
package testing
