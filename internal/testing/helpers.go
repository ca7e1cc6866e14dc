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

package testing

import (
	"context"
	"fmt"
	"testing"

	"github.com/arclens/ckb/pkg/storage"
)

// SetupTestBackend creates an in-memory ckb backend for testing.
// The backend is automatically cleaned up when the test finishes.
//
// Example:
//
//	func TestMyFeature(t *testing.T) {
//	    backend := testing.SetupTestBackend(t)
//	    testing.InsertTestFunction(t, backend, "demo", "HandleAuth", "auth.c", 10, 20)
//	}
func SetupTestBackend(t *testing.T) *storage.EmbeddedBackend {
	t.Helper()

	backend, err := storage.NewEmbeddedBackend(storage.EmbeddedConfig{
		Engine:  "mem",
		DataDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("failed to create test backend: %v", err)
	}
	if err := backend.EnsureSchema(); err != nil {
		t.Fatalf("failed to ensure schema: %v", err)
	}
	t.Cleanup(func() { backend.Close() })

	return backend
}

// InsertTestFunction adds a test function to ck_function.
//
// Example:
//
//	testing.InsertTestFunction(t, backend, "demo", "HandleAuth", "auth.c", 10, 25)
func InsertTestFunction(t *testing.T, backend *storage.EmbeddedBackend, projectID, name, filePath string, startLine, endLine int) {
	t.Helper()

	script := fmt.Sprintf(
		`?[project_id, name, file_path, start_line, end_line, start_col, end_col, docstring, parameters, return_type, code, last_updated] <- [[
			%q, %q, %q, %d, %d, 0, 0, "", "", "", "", 0
		]]
		:put ck_function { project_id, name, file_path, start_line => end_line, start_col, end_col, docstring, parameters, return_type, code, last_updated }`,
		projectID, name, filePath, startLine, endLine,
	)
	if err := backend.Execute(context.Background(), script); err != nil {
		t.Fatalf("failed to insert test function: %v", err)
	}
}

// InsertTestFile adds a test file to ck_file.
//
// Example:
//
//	testing.InsertTestFile(t, backend, "demo", "auth.c", 1234)
func InsertTestFile(t *testing.T, backend *storage.EmbeddedBackend, projectID, path string, size int64) {
	t.Helper()

	script := fmt.Sprintf(
		`?[project_id, path, name, language, size, last_modified] <- [[
			%q, %q, %q, "c", %d, 0
		]]
		:put ck_file { project_id, path => name, language, size, last_modified }`,
		projectID, path, path, size,
	)
	if err := backend.Execute(context.Background(), script); err != nil {
		t.Fatalf("failed to insert test file: %v", err)
	}
}

// InsertTestCalls adds a calls edge to ck_calls.
//
// Example:
//
//	testing.InsertTestCalls(t, backend, "demo", "main", "main.c", "handle", 12)
func InsertTestCalls(t *testing.T, backend *storage.EmbeddedBackend, projectID, callerName, callerFile, calleeName string, lineNumber int) {
	t.Helper()

	script := fmt.Sprintf(
		`?[project_id, caller_name, caller_file, callee_name, line_number, call_type, context, last_updated] <- [[
			%q, %q, %q, %q, %d, "direct", "", 0
		]]
		:put ck_calls { project_id, caller_name, caller_file, callee_name, line_number => call_type, context, last_updated }`,
		projectID, callerName, callerFile, calleeName, lineNumber,
	)
	if err := backend.Execute(context.Background(), script); err != nil {
		t.Fatalf("failed to insert calls edge: %v", err)
	}
}

// QueryFunctions is a helper to query every function row for a project.
// Returns rows with [name, file_path] columns.
func QueryFunctions(t *testing.T, backend *storage.EmbeddedBackend, projectID string) *storage.QueryResult {
	t.Helper()

	script := fmt.Sprintf(`?[name, file_path] := *ck_function{project_id, name, file_path}, project_id == %q`, projectID)
	result, err := backend.Query(context.Background(), script)
	if err != nil {
		t.Fatalf("failed to query functions: %v", err)
	}
	return result
}

// QueryFiles is a helper to query every file row for a project.
// Returns rows with [path] columns.
func QueryFiles(t *testing.T, backend *storage.EmbeddedBackend, projectID string) *storage.QueryResult {
	t.Helper()

	script := fmt.Sprintf(`?[path] := *ck_file{project_id, path}, project_id == %q`, projectID)
	result, err := backend.Query(context.Background(), script)
	if err != nil {
		t.Fatalf("failed to query files: %v", err)
	}
	return result
}
