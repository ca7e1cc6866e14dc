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
	"fmt"
)

// CallEdge is one row of a call-graph query result.
type CallEdge struct {
	CallerName string
	CallerFile string
	CalleeName string
	LineNumber int
	CallType   string
}

// Callees returns every call edge whose caller is funcName, within project
// projectID. The call-graph service (C8) walks this one hop at a time to
// build a bounded-depth traversal, rather than expressing the full
// transitive closure in Datalog, so a user-specified max depth is always
// honored exactly.
func (b *EmbeddedBackend) Callees(ctx context.Context, projectID, funcName string) ([]CallEdge, error) {
	script := fmt.Sprintf(
		`?[caller_name, caller_file, callee_name, line_number, call_type] :=
			*ck_calls{project_id, caller_name, caller_file, callee_name, line_number, call_type},
			project_id == %s, caller_name == %s`,
		q(projectID), q(funcName),
	)
	result, err := b.Query(ctx, script)
	if err != nil {
		return nil, err
	}
	return rowsToCallEdges(result)
}

// Callers returns every call edge whose callee is funcName.
func (b *EmbeddedBackend) Callers(ctx context.Context, projectID, funcName string) ([]CallEdge, error) {
	script := fmt.Sprintf(
		`?[caller_name, caller_file, callee_name, line_number, call_type] :=
			*ck_calls{project_id, caller_name, caller_file, callee_name, line_number, call_type},
			project_id == %s, callee_name == %s`,
		q(projectID), q(funcName),
	)
	result, err := b.Query(ctx, script)
	if err != nil {
		return nil, err
	}
	return rowsToCallEdges(result)
}

func rowsToCallEdges(result *QueryResult) ([]CallEdge, error) {
	var edges []CallEdge
	for _, row := range result.Rows {
		if len(row) != 5 {
			continue
		}
		caller, _ := row[0].(string)
		callerFile, _ := row[1].(string)
		callee, _ := row[2].(string)
		line, _ := toInt(row[3])
		ctype, _ := row[4].(string)
		edges = append(edges, CallEdge{
			CallerName: caller,
			CallerFile: callerFile,
			CalleeName: callee,
			LineNumber: line,
			CallType:   ctype,
		})
	}
	return edges, nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// ModuleDeps returns every module dependency edge recorded for a project.
func (b *EmbeddedBackend) ModuleDeps(ctx context.Context, projectID string) ([]ModuleDepRow, error) {
	script := fmt.Sprintf(
		`?[source_module, target_module, file_count, strength, is_circular] :=
			*ck_module_dep{project_id, source_module, target_module, file_count, strength, is_circular},
			project_id == %s`,
		q(projectID),
	)
	result, err := b.Query(ctx, script)
	if err != nil {
		return nil, err
	}
	var deps []ModuleDepRow
	for _, row := range result.Rows {
		if len(row) != 5 {
			continue
		}
		source, _ := row[0].(string)
		target, _ := row[1].(string)
		count, _ := toInt(row[2])
		strength, _ := row[3].(float64)
		circular, _ := row[4].(bool)
		deps = append(deps, ModuleDepRow{
			SourceModule: source,
			TargetModule: target,
			FileCount:    count,
			Strength:     strength,
			IsCircular:   circular,
		})
	}
	return deps, nil
}

// FileDepRow is one #include edge as recorded in ck_file_dep.
type FileDepRow struct {
	SourcePath string
	TargetPath string
	IsSystem   bool
}

// FileDeps returns every recorded #include edge for a project, including
// unresolved ones: buildUpsertScript persists every dependency, so an
// include that did not resolve comes back with TargetPath == "". IsSystem
// is false for any include that resolved inside the project tree, whatever
// its <> or "" syntax.
func (b *EmbeddedBackend) FileDeps(ctx context.Context, projectID string) ([]FileDepRow, error) {
	script := fmt.Sprintf(
		`?[source_path, target_path, is_system] :=
			*ck_file_dep{project_id, source_path, target_path, is_system},
			project_id == %s`,
		q(projectID),
	)
	result, err := b.Query(ctx, script)
	if err != nil {
		return nil, err
	}
	var deps []FileDepRow
	for _, row := range result.Rows {
		if len(row) != 3 {
			continue
		}
		source, _ := row[0].(string)
		target, _ := row[1].(string)
		isSystem, _ := row[2].(bool)
		deps = append(deps, FileDepRow{SourcePath: source, TargetPath: target, IsSystem: isSystem})
	}
	return deps, nil
}

// FunctionRow is a function row as returned from ck_function, including its
// source code — used by the QA service (C10) to assemble context.
type FunctionRow struct {
	Name       string
	FilePath   string
	StartLine  int
	EndLine    int
	Docstring  string
	ReturnType string
	Code       string
}

// FindFunction looks up a function by exact name within a project. C
// permits multiple definitions of the same name only across translation
// units that are never linked together, which this system does not model;
// the first match is returned.
func (b *EmbeddedBackend) FindFunction(ctx context.Context, projectID, name string) (*FunctionRow, error) {
	script := fmt.Sprintf(
		`?[file_path, start_line, end_line, docstring, return_type, code] :=
			*ck_function{project_id, name, file_path, start_line, end_line, docstring, return_type, code},
			project_id == %s, name == %s`,
		q(projectID), q(name),
	)
	result, err := b.Query(ctx, script)
	if err != nil {
		return nil, err
	}
	if len(result.Rows) == 0 {
		return nil, nil
	}
	row := result.Rows[0]
	filePath, _ := row[0].(string)
	startLine, _ := toInt(row[1])
	endLine, _ := toInt(row[2])
	docstring, _ := row[3].(string)
	returnType, _ := row[4].(string)
	code, _ := row[5].(string)
	return &FunctionRow{
		Name:       name,
		FilePath:   filePath,
		StartLine:  startLine,
		EndLine:    endLine,
		Docstring:  docstring,
		ReturnType: returnType,
		Code:       code,
	}, nil
}

// FunctionExists reports whether a function by that exact name is known in
// the project, independent of whether it has any recorded call edges —
// call-graph traversal needs this to distinguish a real leaf function from a
// name that was never indexed at all.
func (b *EmbeddedBackend) FunctionExists(ctx context.Context, projectID, funcName string) (bool, error) {
	script := fmt.Sprintf(
		`?[name] := *ck_function{project_id, name}, project_id == %s, name == %s`,
		q(projectID), q(funcName),
	)
	result, err := b.Query(ctx, script)
	if err != nil {
		return false, err
	}
	return len(result.Rows) > 0, nil
}

// CountRows counts distinct key-tuples in a relation, scoped to a project
// when projectID is non-empty. Used by the status command to report index
// size; returns 0 (rather than an error) when the relation doesn't exist
// yet, since that just means nothing has been indexed.
func (b *EmbeddedBackend) CountRows(ctx context.Context, table, keyField, projectID string) int {
	var script string
	if projectID != "" {
		script = fmt.Sprintf(`?[count(%s)] := *%s{project_id, %s}, project_id == %s`, keyField, table, keyField, q(projectID))
	} else {
		script = fmt.Sprintf(`?[count(%s)] := *%s{%s}`, keyField, table, keyField)
	}
	result, err := b.Query(ctx, script)
	if err != nil || len(result.Rows) == 0 || len(result.Rows[0]) == 0 {
		return 0
	}
	n, _ := toInt(result.Rows[0][0])
	return n
}
