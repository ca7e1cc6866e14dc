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

package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_MissingFileStartsEmpty(t *testing.T) {
	r, err := Open(filepath.Join(t.TempDir(), "registry.json"))
	require.NoError(t, err)
	assert.Empty(t, r.List())
}

func TestAddSaveOpen_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	r, err := Open(path)
	require.NoError(t, err)

	_, err = r.Add("demo", "proj_demo", "/src/demo")
	require.NoError(t, err)
	require.NoError(t, r.Save())

	reopened, err := Open(path)
	require.NoError(t, err)
	p, ok := reopened.Resolve("demo")
	require.True(t, ok)
	assert.Equal(t, "proj_demo", p.ID)

	p2, ok := reopened.Resolve("proj_demo")
	require.True(t, ok)
	assert.Equal(t, "demo", p2.Name)
}

func TestAdd_RejectsDuplicateNameAndPath(t *testing.T) {
	r, err := Open(filepath.Join(t.TempDir(), "registry.json"))
	require.NoError(t, err)

	_, err = r.Add("demo", "proj_demo", "/src/demo")
	require.NoError(t, err)

	_, err = r.Add("demo", "proj_other", "/src/other")
	assert.Error(t, err)

	_, err = r.Add("other", "proj_demo2", "/src/demo")
	assert.Error(t, err)
}

func TestRemove_DropsProject(t *testing.T) {
	r, err := Open(filepath.Join(t.TempDir(), "registry.json"))
	require.NoError(t, err)
	_, err = r.Add("demo", "proj_demo", "/src/demo")
	require.NoError(t, err)

	assert.True(t, r.Remove("demo"))
	assert.False(t, r.Remove("demo"))
	assert.Empty(t, r.List())
}
