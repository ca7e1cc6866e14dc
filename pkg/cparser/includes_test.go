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

package cparser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractIncludes_QuotedResolvesLocally(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "util.h"), []byte("void noop(void);\n"), 0o644))

	mainPath := filepath.Join(root, "src", "main.c")
	require.NoError(t, os.WriteFile(mainPath, []byte(`#include "util.h"
#include <stdio.h>

int main(void) { return 0; }
`), 0o644))

	deps, err := ExtractIncludes(mainPath, root)
	require.NoError(t, err)
	require.Len(t, deps, 2)

	quoted := deps[0]
	assert.Equal(t, "util.h", quoted.UnresolvedQuote)
	assert.False(t, quoted.IsSystem)
	assert.Equal(t, filepath.Join(root, "src", "util.h"), quoted.TargetPath)

	system := deps[1]
	assert.Equal(t, "stdio.h", system.UnresolvedQuote)
	assert.True(t, system.IsSystem)
	assert.Empty(t, system.TargetPath)
}

func TestExtractIncludes_ResolvesViaAncestorIncludeDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "include"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "lib"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "include", "api.h"), []byte("void api(void);\n"), 0o644))

	srcPath := filepath.Join(root, "src", "lib", "impl.c")
	require.NoError(t, os.WriteFile(srcPath, []byte(`#include "api.h"
`), 0o644))

	deps, err := ExtractIncludes(srcPath, root)
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, filepath.Join(root, "include", "api.h"), deps[0].TargetPath)
}

func TestExtractIncludes_UnresolvedQuoteKeepsRawPath(t *testing.T) {
	root := t.TempDir()
	srcPath := filepath.Join(root, "main.c")
	require.NoError(t, os.WriteFile(srcPath, []byte(`#include "nonexistent.h"
`), 0o644))

	deps, err := ExtractIncludes(srcPath, root)
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Empty(t, deps[0].TargetPath)
	assert.Equal(t, "nonexistent.h", deps[0].UnresolvedQuote)
}

func TestExtractIncludes_NoIncludesReturnsEmpty(t *testing.T) {
	root := t.TempDir()
	srcPath := filepath.Join(root, "main.c")
	require.NoError(t, os.WriteFile(srcPath, []byte("int main(void) { return 0; }\n"), 0o644))

	deps, err := ExtractIncludes(srcPath, root)
	require.NoError(t, err)
	assert.Empty(t, deps)
}
