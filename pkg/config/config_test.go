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

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsNilWithoutError(t *testing.T) {
	pf, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, pf)
}

func TestSaveThenLoad_RoundTrips(t *testing.T) {
	root := t.TempDir()
	in := &ProjectFile{ProjectID: "demo", Exclude: []string{"vendor/**"}}
	in.Embedding.Provider = "ollama"
	in.LLM.Model = "claude-3-5-sonnet-20241022"

	require.NoError(t, Save(root, in))

	out, err := Load(root)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "demo", out.ProjectID)
	assert.Equal(t, []string{"vendor/**"}, out.Exclude)
	assert.Equal(t, "ollama", out.Embedding.Provider)
	assert.Equal(t, "claude-3-5-sonnet-20241022", out.LLM.Model)
}
