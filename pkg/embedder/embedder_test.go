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

package embedder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arclens/ckb/pkg/chunker"
)

func TestMockProvider_ProducesNormalizedVector(t *testing.T) {
	p := NewMockProvider(16)
	vec, err := p.Embed(context.Background(), "int main(void) { return 0; }")
	require.NoError(t, err)
	require.Len(t, vec, 16)

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, norm, 0.01)
}

func TestMockProvider_Deterministic(t *testing.T) {
	p := NewMockProvider(8)
	a, _ := p.Embed(context.Background(), "same text")
	b, _ := p.Embed(context.Background(), "same text")
	assert.Equal(t, a, b)
}

type fakeMemoryManager struct {
	usage float64
	freed int
}

func (f *fakeMemoryManager) UsagePercent() float64 { return f.usage }
func (f *fakeMemoryManager) FreeCaches()            { f.freed++ }
func (f *fakeMemoryManager) HasGPUCache() bool      { return false }

func TestEmbedChunks_AllSucceed(t *testing.T) {
	e := New(NewMockProvider(8), 2, &fakeMemoryManager{}, nil)
	chunks := []chunker.Chunk{
		{Text: "a", FilePath: "a.c", StartLine: 1, EndLine: 1},
		{Text: "b", FilePath: "a.c", StartLine: 2, EndLine: 2},
	}
	result, err := e.EmbedChunks(context.Background(), chunks, 1)
	require.NoError(t, err)
	assert.Len(t, result.Records, 2)
	assert.Equal(t, 0, result.Failed)
}

type alwaysFailProvider struct{}

func (alwaysFailProvider) Dimension() int { return 8 }
func (alwaysFailProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.New("status 400: bad request")
}

func TestEmbedChunks_NonRetryableFailureCountsAsFailed(t *testing.T) {
	e := New(alwaysFailProvider{}, 1, &fakeMemoryManager{}, nil)
	chunks := []chunker.Chunk{{Text: "a", FilePath: "a.c"}}
	result, err := e.EmbedChunks(context.Background(), chunks, 1)
	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.Equal(t, 1, result.Failed)
}

func TestEmbedChunks_MemoryPressureTriggersFreeCaches(t *testing.T) {
	mem := &fakeMemoryManager{usage: 95}
	e := New(NewMockProvider(8), 1, mem, nil)
	chunks := []chunker.Chunk{
		{Text: "a", FilePath: "a.c"},
		{Text: "b", FilePath: "a.c"},
	}
	_, err := e.EmbedChunks(context.Background(), chunks, 4)
	require.NoError(t, err)
	assert.Greater(t, mem.freed, 0)
}

func TestEmbedChunks_FreesCachesEveryBatchRegardlessOfPressure(t *testing.T) {
	mem := &fakeMemoryManager{usage: 0}
	e := New(NewMockProvider(8), 1, mem, nil)
	chunks := []chunker.Chunk{
		{Text: "a", FilePath: "a.c"},
		{Text: "b", FilePath: "a.c"},
		{Text: "c", FilePath: "a.c"},
	}
	_, err := e.EmbedChunks(context.Background(), chunks, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, mem.freed)
}

func TestEmbedChunks_BackoffNeverShrinksBelowFloor(t *testing.T) {
	mem := &fakeMemoryManager{usage: 95}
	e := New(NewMockProvider(8), 1, mem, nil)
	chunks := make([]chunker.Chunk, 20)
	for i := range chunks {
		chunks[i] = chunker.Chunk{Text: "x", FilePath: "a.c"}
	}
	result, err := e.EmbedChunks(context.Background(), chunks, 8)
	require.NoError(t, err)
	assert.Len(t, result.Records, 20)
	// 8 halves to the floor of 5 and stays there: 20 chunks take 4 batches.
	assert.Equal(t, 4, mem.freed)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(errors.New("dial tcp: connection refused")))
	assert.True(t, isRetryable(errors.New("embed failed: status 429: too many requests")))
	assert.False(t, isRetryable(errors.New("status 400: bad request")))
	assert.False(t, isRetryable(nil))
}

func TestSystemMemoryManager_UsagePercentBounds(t *testing.T) {
	m := NewSystemMemoryManager()
	pct := m.UsagePercent()
	assert.GreaterOrEqual(t, pct, 0.0)
	assert.LessOrEqual(t, pct, 100.0)
}
