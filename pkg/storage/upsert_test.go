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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arclens/ckb/pkg/cparser"
)

func TestBuildUpsertScript_IncludesAllRelations(t *testing.T) {
	u := FileUpsert{
		ProjectID: "proj1",
		Module:    "core",
		File:      cparser.FileInfo{Path: "core/a.c", Name: "a.c", Language: "c", Size: 100},
		Functions: []cparser.Function{
			{Name: "main", FilePath: "core/a.c", StartLine: 1, EndLine: 5, Parameters: []string{"void"}, ReturnType: "int"},
		},
		Calls: []cparser.Call{
			{CallerName: "main", CallerFile: "core/a.c", CalleeName: "helper", LineNumber: 3, CallType: cparser.CallDirect},
		},
		Dependencies: []cparser.FileDependency{
			{SourcePath: "core/a.c", TargetPath: "core/a.h", LineNumber: 1, DependencyType: "include"},
		},
	}

	script, err := buildUpsertScript(u)
	require.NoError(t, err)

	for _, want := range []string{"ck_file", "ck_module", "ck_belongs_to", "ck_function", "ck_contains", "ck_calls", "ck_file_dep"} {
		assert.Contains(t, script, want, "script should reference %s", want)
	}
	assert.Contains(t, script, "main")
	assert.Contains(t, script, "helper")
}

func TestBuildUpsertScript_EmptyFunctionsOmitsFunctionRelations(t *testing.T) {
	u := FileUpsert{
		ProjectID: "proj1",
		Module:    "core",
		File:      cparser.FileInfo{Path: "core/empty.c", Name: "empty.c", Language: "c"},
	}
	script, err := buildUpsertScript(u)
	require.NoError(t, err)
	assert.NotContains(t, script, "ck_function")
	assert.NotContains(t, script, "ck_contains")
	assert.NotContains(t, script, "ck_calls")
	assert.NotContains(t, script, "ck_file_dep")
}

func TestBuildUpsertScript_StatementsJoinedBySemicolon(t *testing.T) {
	u := FileUpsert{
		ProjectID: "p",
		Module:    "m",
		File:      cparser.FileInfo{Path: "m/f.c", Name: "f.c", Language: "c"},
	}
	script, err := buildUpsertScript(u)
	require.NoError(t, err)
	assert.True(t, strings.Contains(script, ";\n"))
}

func TestChunkCollectionName_Sanitizes(t *testing.T) {
	assert.Equal(t, "my_proj_1_chunks", ChunkCollectionName("my-proj.1", "chunks"))
	assert.Equal(t, "p_123_chunks", ChunkCollectionName("123", "chunks"))
}

func TestQ_EscapesQuotes(t *testing.T) {
	out := q(`has "quotes" in it`)
	assert.True(t, strings.HasPrefix(out, `"`))
	assert.Contains(t, out, `\"quotes\"`)
}
