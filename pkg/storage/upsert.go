// Copyright 2026 Arclens
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

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arclens/ckb/internal/contract"
	"github.com/arclens/ckb/pkg/cparser"
)

// FileUpsert is everything extracted from one source file, ready to be
// persisted as a single CozoDB transaction.
type FileUpsert struct {
	ProjectID    string
	Module       string
	File         cparser.FileInfo
	Functions    []cparser.Function
	Calls        []cparser.Call
	Dependencies []cparser.FileDependency
	UpdatedAtUnix int64
}

// UpsertFile persists one file's parsed entities as a single :put-per-relation
// Datalog script, giving "one transaction per file" for free: CozoDB commits
// an entire script atomically, so a crash mid-file never leaves the graph
// with half a file's functions recorded.
func (b *EmbeddedBackend) UpsertFile(ctx context.Context, u FileUpsert) error {
	script, err := buildUpsertScript(u)
	if err != nil {
		return fmt.Errorf("build upsert script: %w", err)
	}
	if r := contract.ValidateBatchScript(script); !r.OK {
		return fmt.Errorf("upsert script for %s: %s", u.File.Path, r.Message)
	}
	return b.Execute(ctx, script)
}

func buildUpsertScript(u FileUpsert) (string, error) {
	var stmts []string

	stmts = append(stmts, fmt.Sprintf(
		`?[project_id, path, name, language, size, last_modified] <- [[%s, %s, %s, %s, %d, %d]] :put ck_file { project_id, path => name, language, size, last_modified }`,
		q(u.ProjectID), q(u.File.Path), q(u.File.Name), q(u.File.Language), u.File.Size, u.File.LastModified,
	))

	stmts = append(stmts, fmt.Sprintf(
		`?[project_id, name, file_count] <- [[%s, %s, 1]] :put ck_module { project_id, name => file_count }`,
		q(u.ProjectID), q(u.Module),
	))

	stmts = append(stmts, fmt.Sprintf(
		`?[project_id, file_path, module_name] <- [[%s, %s, %s]] :put ck_belongs_to { project_id, file_path, module_name }`,
		q(u.ProjectID), q(u.File.Path), q(u.Module),
	))

	if len(u.Functions) > 0 {
		var rows []string
		var containsRows []string
		for _, fn := range u.Functions {
			params, err := json.Marshal(fn.Parameters)
			if err != nil {
				return "", err
			}
			rows = append(rows, fmt.Sprintf("[%s, %s, %s, %d, %d, %d, %d, %s, %s, %s, %s, %d]",
				q(u.ProjectID), q(fn.Name), q(fn.FilePath), fn.StartLine,
				fn.EndLine, fn.StartCol, fn.EndCol, q(fn.Docstring), q(string(params)), q(fn.ReturnType), q(fn.Code), u.UpdatedAtUnix))
			containsRows = append(containsRows, fmt.Sprintf("[%s, %s, %s]", q(u.ProjectID), q(fn.FilePath), q(fn.Name)))
		}
		stmts = append(stmts, fmt.Sprintf(
			`?[project_id, name, file_path, start_line, end_line, start_col, end_col, docstring, parameters, return_type, code, last_updated] <- [%s] :put ck_function { project_id, name, file_path, start_line => end_line, start_col, end_col, docstring, parameters, return_type, code, last_updated }`,
			strings.Join(rows, ", "),
		))
		stmts = append(stmts, fmt.Sprintf(
			`?[project_id, file_path, function_name] <- [%s] :put ck_contains { project_id, file_path, function_name }`,
			strings.Join(containsRows, ", "),
		))
	}

	if len(u.Calls) > 0 {
		var rows []string
		for _, c := range u.Calls {
			rows = append(rows, fmt.Sprintf("[%s, %s, %s, %s, %d, %s, %s, %d]",
				q(u.ProjectID), q(c.CallerName), q(c.CallerFile), q(c.CalleeName), c.LineNumber,
				q(string(c.CallType)), q(c.Context), u.UpdatedAtUnix))
		}
		stmts = append(stmts, fmt.Sprintf(
			`?[project_id, caller_name, caller_file, callee_name, line_number, call_type, context, last_updated] <- [%s] :put ck_calls { project_id, caller_name, caller_file, callee_name, line_number => call_type, context, last_updated }`,
			strings.Join(rows, ", "),
		))
	}

	if len(u.Dependencies) > 0 {
		var rows []string
		for _, d := range u.Dependencies {
			rows = append(rows, fmt.Sprintf("[%s, %s, %s, %d, %t, %s]",
				q(u.ProjectID), q(d.SourcePath), q(d.TargetPath), d.LineNumber, d.IsSystem, q(d.DependencyType)))
		}
		stmts = append(stmts, fmt.Sprintf(
			`?[project_id, source_path, target_path, line_number, is_system, dependency_type] <- [%s] :put ck_file_dep { project_id, source_path, target_path, line_number => is_system, dependency_type }`,
			strings.Join(rows, ", "),
		))
	}

	return strings.Join(stmts, ";\n"), nil
}

// q renders a Go string as a double-quoted CozoScript string literal.
func q(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// UpsertModuleDependencies persists the aggregated module-dependency edges
// produced by the dependency analyzer, one :put script for the whole batch.
func (b *EmbeddedBackend) UpsertModuleDependencies(ctx context.Context, projectID string, deps []ModuleDepRow) error {
	if len(deps) == 0 {
		return nil
	}
	var rows []string
	for _, d := range deps {
		rows = append(rows, fmt.Sprintf("[%s, %s, %s, %d, %f, %t]",
			q(projectID), q(d.SourceModule), q(d.TargetModule), d.FileCount, d.Strength, d.IsCircular))
	}
	script := fmt.Sprintf(
		`?[project_id, source_module, target_module, file_count, strength, is_circular] <- [%s] :put ck_module_dep { project_id, source_module, target_module => file_count, strength, is_circular }`,
		strings.Join(rows, ", "),
	)
	return b.Execute(ctx, script)
}

// ModuleDepRow is the storage-layer shape of one module dependency edge,
// decoupled from the depanalyzer package's richer ModuleDependency (which
// also carries the contributing file list, not persisted).
type ModuleDepRow struct {
	SourceModule string
	TargetModule string
	FileCount    int
	Strength     float64
	IsCircular   bool
}
