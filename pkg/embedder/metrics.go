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
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// metricsEmbedder holds Prometheus metrics for the embedding subsystem.
type metricsEmbedder struct {
	once sync.Once

	batchDuration prometheus.Histogram
	chunksFailed  prometheus.Counter
	chunksOK      prometheus.Counter
	backoffs      prometheus.Counter
}

var embMetrics metricsEmbedder

func (m *metricsEmbedder) init() {
	m.once.Do(func() {
		buckets := []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}
		m.batchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "ckb_embed_batch_seconds", Help: "Duration of one EmbedChunks batch", Buckets: buckets})
		m.chunksFailed = prometheus.NewCounter(prometheus.CounterOpts{Name: "ckb_embed_chunks_failed_total", Help: "Chunks that failed embedding after retries"})
		m.chunksOK = prometheus.NewCounter(prometheus.CounterOpts{Name: "ckb_embed_chunks_total", Help: "Chunks embedded successfully"})
		m.backoffs = prometheus.NewCounter(prometheus.CounterOpts{Name: "ckb_embed_memory_backoffs_total", Help: "Batch-size reductions triggered by memory pressure"})

		prometheus.MustRegister(m.batchDuration, m.chunksFailed, m.chunksOK, m.backoffs)
	})
}

func recordBatchDuration(seconds float64) { embMetrics.init(); embMetrics.batchDuration.Observe(seconds) }
func recordChunkFailed()                  { embMetrics.init(); embMetrics.chunksFailed.Inc() }
func recordChunkOK()                      { embMetrics.init(); embMetrics.chunksOK.Inc() }
func recordMemoryBackoff()                { embMetrics.init(); embMetrics.backoffs.Inc() }
