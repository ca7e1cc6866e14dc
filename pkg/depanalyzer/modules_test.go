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

package depanalyzer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arclens/ckb/pkg/cparser"
)

func dep(root, sourceRel, targetRel string) cparser.FileDependency {
	return cparser.FileDependency{
		SourcePath: filepath.Join(root, sourceRel),
		TargetPath: filepath.Join(root, targetRel),
	}
}

func src(root string, rels ...string) []string {
	paths := make([]string, len(rels))
	for i, rel := range rels {
		paths[i] = filepath.Join(root, rel)
	}
	return paths
}

func TestAnalyze_NoCrossModuleDeps(t *testing.T) {
	root := "/project"
	deps := []cparser.FileDependency{
		dep(root, "core/a.c", "core/a.h"),
	}
	result := Analyze(deps, src(root, "core/a.c"), root)
	assert.Empty(t, result.ModuleDependencies)
	assert.Empty(t, result.CircularDependencies)
	assert.Equal(t, 1.0, result.ModularityScore)
}

func TestAnalyze_SimpleCrossModuleDependency(t *testing.T) {
	root := "/project"
	deps := []cparser.FileDependency{
		dep(root, "core/a.c", "utils/b.h"),
	}
	result := Analyze(deps, src(root, "core/a.c"), root)
	require.Len(t, result.ModuleDependencies, 1)
	md := result.ModuleDependencies[0]
	assert.Equal(t, "core", md.SourceModule)
	assert.Equal(t, "utils", md.TargetModule)
	assert.Equal(t, 1, md.FileCount)
	assert.Equal(t, 1.0, md.Strength)
	assert.False(t, md.IsCircular)
	assert.Empty(t, result.CircularDependencies)
}

func TestAnalyze_DetectsCircularDependency(t *testing.T) {
	root := "/project"
	deps := []cparser.FileDependency{
		dep(root, "core/a.c", "utils/b.h"),
		dep(root, "utils/b.c", "core/a.h"),
	}
	result := Analyze(deps, src(root, "core/a.c", "utils/b.c"), root)
	require.Len(t, result.ModuleDependencies, 2)
	require.NotEmpty(t, result.CircularDependencies)

	for _, md := range result.ModuleDependencies {
		assert.True(t, md.IsCircular, "expected %s -> %s to be flagged circular", md.SourceModule, md.TargetModule)
	}
	assert.Less(t, result.ModularityScore, 1.0)
}

func TestAnalyze_SystemIncludesIgnored(t *testing.T) {
	root := "/project"
	deps := []cparser.FileDependency{
		{SourcePath: filepath.Join(root, "core/a.c"), TargetPath: "", IsSystem: true, UnresolvedQuote: "stdio.h"},
	}
	result := Analyze(deps, src(root, "core/a.c"), root)
	assert.Empty(t, result.ModuleDependencies)
}

func TestAnalyze_EmptyInput(t *testing.T) {
	result := Analyze(nil, nil, "/project")
	assert.Equal(t, 1.0, result.ModularityScore)
	assert.Empty(t, result.ModuleDependencies)
}

// TestAnalyze_StrengthDividesByAllModuleCFiles verifies strength =
// file_count / |source_module_c_files|, with the denominator counting every
// .c file in the source module — including ones that never appear in
// fileDeps at all — not just the files that happen to generate an edge.
func TestAnalyze_StrengthDividesByAllModuleCFiles(t *testing.T) {
	root := "/project"
	deps := []cparser.FileDependency{
		dep(root, "core/a.c", "utils/b.h"),
		dep(root, "core/a.c", "utils/c.h"),
	}
	// core has 3 .c files; only a.c generates an edge (twice, into utils).
	sources := src(root, "core/a.c", "core/b.c", "core/d.c")
	result := Analyze(deps, sources, root)
	require.Len(t, result.ModuleDependencies, 1)
	md := result.ModuleDependencies[0]
	assert.Equal(t, 2, md.FileCount)
	assert.InDelta(t, 2.0/3.0, md.Strength, 1e-9)
}

// TestAnalyze_StrengthCapsAtOne verifies multiple edges originating from the
// same single .c file still cap strength at 1.0 rather than exceeding it.
func TestAnalyze_StrengthCapsAtOne(t *testing.T) {
	root := "/project"
	deps := []cparser.FileDependency{
		dep(root, "core/a.c", "utils/b.h"),
		dep(root, "core/a.c", "utils/c.h"),
	}
	result := Analyze(deps, src(root, "core/a.c"), root)
	require.Len(t, result.ModuleDependencies, 1)
	assert.Equal(t, 1.0, result.ModuleDependencies[0].Strength)
}
