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

package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDiscoverSources_FindsCAndHFilesSkipsExcluded(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "core", "a.c"), "int main(void) { return 0; }")
	writeFile(t, filepath.Join(root, "core", "a.h"), "void f(void);")
	writeFile(t, filepath.Join(root, "README.md"), "docs")
	writeFile(t, filepath.Join(root, "build", "generated.c"), "int x;")
	writeFile(t, filepath.Join(root, ".git", "config"), "junk")

	sources, err := discoverSources(root, nil, nil, 0)
	require.NoError(t, err)

	var paths []string
	for _, s := range sources {
		paths = append(paths, s.Path)
	}
	assert.ElementsMatch(t, []string{"core/a.c", "core/a.h"}, paths)
}

func TestDiscoverSources_RespectsMaxFileSize(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "big.c"), "int x = 1; // padding padding padding padding")

	sources, err := discoverSources(root, nil, nil, 5)
	require.NoError(t, err)
	assert.Empty(t, sources)
}

func TestDiscoverSources_IncludeGlobsNarrowResults(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "core", "a.c"), "int main(void) { return 0; }")
	writeFile(t, filepath.Join(root, "plugins", "b.c"), "int plugin(void) { return 0; }")

	sources, err := discoverSources(root, nil, []string{"core/**"}, 0)
	require.NoError(t, err)

	var paths []string
	for _, s := range sources {
		paths = append(paths, s.Path)
	}
	assert.Equal(t, []string{"core/a.c"}, paths)
}

func TestCheckpoint_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")

	cp, err := LoadCheckpoint(path)
	require.NoError(t, err)
	assert.False(t, cp.Unchanged("a.c", 10, 100))

	cp.Record("a.c", 10, 100)
	require.NoError(t, cp.Save(path))

	reloaded, err := LoadCheckpoint(path)
	require.NoError(t, err)
	assert.True(t, reloaded.Unchanged("a.c", 10, 100))
	assert.False(t, reloaded.Unchanged("a.c", 11, 100))
}

func TestRun_ParsesFunctionsAndCallsWithoutBackend(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "core", "math.c"), `
#include "math.h"

int add(int a, int b) {
    return helper(a, b);
}

static int helper(int a, int b) {
    return a + b;
}
`)
	writeFile(t, filepath.Join(root, "core", "math.h"), "int add(int a, int b);")

	summary, err := Run(context.Background(), Config{
		ProjectID: "demo",
		RepoRoot:  root,
		Workers:   2,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.FilesTotal)
	assert.Equal(t, 2, summary.FilesParsed)
	assert.Equal(t, 0, summary.FilesFailed)
	assert.GreaterOrEqual(t, summary.Functions, 2)
	assert.GreaterOrEqual(t, summary.Calls, 1)
}

func TestRun_SkipsUnchangedFilesViaCheckpoint(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.c"), "int main(void) { return 0; }")
	checkpointPath := filepath.Join(t.TempDir(), "checkpoint.json")

	first, err := Run(context.Background(), Config{
		ProjectID:      "demo",
		RepoRoot:       root,
		CheckpointPath: checkpointPath,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, first.FilesParsed)
	assert.Equal(t, 0, first.FilesSkipped)

	second, err := Run(context.Background(), Config{
		ProjectID:      "demo",
		RepoRoot:       root,
		CheckpointPath: checkpointPath,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, second.FilesParsed)
	assert.Equal(t, 1, second.FilesSkipped)
}

func TestRun_ProgressCallbackReachesTotal(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.c"), "int main(void) { return 0; }")

	var lastDone, lastTotal int
	_, err := Run(context.Background(), Config{
		ProjectID: "demo",
		RepoRoot:  root,
		Progress: func(done, total int) {
			lastDone, lastTotal = done, total
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, lastDone)
	assert.Equal(t, 1, lastTotal)
}
