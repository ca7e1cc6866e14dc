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

package depservice

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arclens/ckb/pkg/storage"
)

type fakeDeps struct {
	files   []storage.FileDepRow
	modules []storage.ModuleDepRow
}

func (f *fakeDeps) FileDeps(context.Context, string) ([]storage.FileDepRow, error) { return f.files, nil }
func (f *fakeDeps) ModuleDeps(context.Context, string) ([]storage.ModuleDepRow, error) {
	return f.modules, nil
}

func sampleDeps() *fakeDeps {
	return &fakeDeps{
		files: []storage.FileDepRow{
			{SourcePath: "core/a.c", TargetPath: "core/a.h"},
			{SourcePath: "core/a.c", TargetPath: "utils/b.h"},
		},
		modules: []storage.ModuleDepRow{
			{SourceModule: "core", TargetModule: "utils", FileCount: 2, Strength: 0.5},
			{SourceModule: "utils", TargetModule: "core", FileCount: 1, Strength: 0.2, IsCircular: true},
		},
	}
}

func TestBuild_ModuleScopeFiltersByFocus(t *testing.T) {
	g, err := Build(context.Background(), sampleDeps(), "demo", ScopeModule, "utils")
	require.NoError(t, err)
	assert.Len(t, g.Edges, 2)
}

func TestBuild_FileScopeUnfiltered(t *testing.T) {
	g, err := Build(context.Background(), sampleDeps(), "demo", ScopeFile, "")
	require.NoError(t, err)
	assert.Len(t, g.Edges, 2)
}

func TestRender_MermaidMarksCircularModuleEdge(t *testing.T) {
	g, err := Build(context.Background(), sampleDeps(), "demo", ScopeModule, "")
	require.NoError(t, err)
	out, err := Render(g, FormatMermaid)
	require.NoError(t, err)
	assert.Contains(t, out, "==>|circular|")
}

func TestRender_DOTWrapsDigraph(t *testing.T) {
	g, err := Build(context.Background(), sampleDeps(), "demo", ScopeModule, "")
	require.NoError(t, err)
	out, err := Render(g, FormatGraphviz)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "digraph dependencies {"))
}

func TestRender_ASCIIGroupsBySource(t *testing.T) {
	g, err := Build(context.Background(), sampleDeps(), "demo", ScopeFile, "")
	require.NoError(t, err)
	out, err := Render(g, FormatASCII)
	require.NoError(t, err)
	assert.Contains(t, out, "core/a.c")
	assert.Contains(t, out, "-> core/a.h")
}

func TestRender_JSONIncludesMetadata(t *testing.T) {
	g, err := Build(context.Background(), sampleDeps(), "demo", ScopeModule, "")
	require.NoError(t, err)
	out, err := Render(g, FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, out, `"dependency_graph_json"`)
}
