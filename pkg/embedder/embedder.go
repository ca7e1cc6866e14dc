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
	"log/slog"
	"strconv"
	"time"

	"github.com/arclens/ckb/pkg/chunker"
	"github.com/arclens/ckb/pkg/storage"
)

// Embedder turns chunks into VectorRecords, batching calls to a Provider,
// retrying transient failures, and shrinking its batch size under memory
// pressure.
type Embedder struct {
	provider Provider
	retry    RetryConfig
	memory   MemoryManager
	logger   *slog.Logger
	workers  int
}

// New returns an Embedder. A nil memory manager defaults to
// SystemMemoryManager; a nil logger defaults to slog.Default().
func New(provider Provider, workers int, memory MemoryManager, logger *slog.Logger) *Embedder {
	if memory == nil {
		memory = NewSystemMemoryManager()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if workers < 1 {
		workers = 1
	}
	return &Embedder{provider: provider, retry: DefaultRetryConfig(), memory: memory, logger: logger, workers: workers}
}

// SetRetryConfig overrides the default retry policy.
func (e *Embedder) SetRetryConfig(cfg RetryConfig) {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = time.Second
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 4 * time.Second
	}
	if cfg.Multiplier <= 1 {
		cfg.Multiplier = 2.0
	}
	e.retry = cfg
}

// Result summarizes one EmbedChunks call.
type Result struct {
	Records []storage.VectorRecord
	Failed  int
}

// EmbedChunks embeds every chunk, starting at the requested batch size and
// halving it (down to minBatchSize) whenever the memory manager reports
// pressure above memoryPressureThreshold before a batch. It frees caches
// after every batch regardless of pressure, and logs memory usage every 10
// batches. A chunk whose embedding fails after retrying is counted in
// Result.Failed and skipped, rather than aborting the whole run.
func (e *Embedder) EmbedChunks(ctx context.Context, chunks []chunker.Chunk, startBatchSize int) (*Result, error) {
	if startBatchSize < 1 {
		startBatchSize = 32
	}
	batchSize := startBatchSize
	result := &Result{}
	batchNum := 0

	for start := 0; start < len(chunks); {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		usage := e.memory.UsagePercent()
		if usage >= memoryPressureThreshold {
			if batchSize > minBatchSize {
				batchSize = max(minBatchSize, batchSize/2)
				e.logger.Warn("embedder.memory_pressure_backoff", "new_batch_size", batchSize)
				recordMemoryBackoff()
			}
		}

		batchNum++
		if batchNum%10 == 0 {
			e.logger.Info("embedder.memory_usage", "batch", batchNum, "usage_percent", usage)
		}

		end := start + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]
		batchStart := time.Now()

		for _, c := range batch {
			vec, ok, err := e.embedOne(ctx, c.Text)
			if err != nil && !ok {
				result.Failed++
				recordChunkFailed()
				e.logger.Warn("embedder.chunk_failed", "file", c.FilePath, "start_line", c.StartLine, "err", err)
				continue
			}
			recordChunkOK()
			result.Records = append(result.Records, storage.VectorRecord{
				ID:        chunkID(c),
				Embedding: vec,
				Text:      c.Text,
				Metadata:  chunkMetadata(c),
			})
		}
		recordBatchDuration(time.Since(batchStart).Seconds())
		e.memory.FreeCaches()

		start = end
	}

	return result, nil
}

func (e *Embedder) embedOne(ctx context.Context, text string) ([]float32, bool, error) {
	var lastErr error
	for attempt := 0; attempt < e.retry.MaxRetries; attempt++ {
		vec, err := e.provider.Embed(ctx, text)
		if err == nil {
			return vec, true, nil
		}
		lastErr = err
		if !isRetryable(err) || attempt == e.retry.MaxRetries-1 {
			break
		}
		sleep := backoffWithJitter(e.retry, attempt)
		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		case <-time.After(sleep):
		}
	}
	return nil, false, lastErr
}

func chunkID(c chunker.Chunk) string {
	return c.FilePath + ":" + string(c.ChunkType) + ":" + strconv.Itoa(c.StartLine) + "-" + strconv.Itoa(c.EndLine)
}

func chunkMetadata(c chunker.Chunk) map[string]any {
	m := map[string]any{
		"file_path":    c.FilePath,
		"file_name":    c.FileName,
		"module":       c.Module,
		"start_line":   c.StartLine,
		"end_line":     c.EndLine,
		"chunk_type":   string(c.ChunkType),
		"chunk_tokens": c.ChunkTokens,
	}
	if c.FunctionName != "" {
		m["function_name"] = c.FunctionName
	}
	return m
}

