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
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// metricsOrchestrator holds Prometheus metrics for the analysis pipeline.
type metricsOrchestrator struct {
	once sync.Once

	parseDuration prometheus.Histogram
	filesParsed   prometheus.Counter
	filesFailed   prometheus.Counter
	filesSkipped  prometheus.Counter
}

var orchMetrics metricsOrchestrator

func (m *metricsOrchestrator) init() {
	m.once.Do(func() {
		buckets := []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}
		m.parseDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "ckb_parse_file_seconds", Help: "Duration of parsing one source file", Buckets: buckets})
		m.filesParsed = prometheus.NewCounter(prometheus.CounterOpts{Name: "ckb_files_parsed_total", Help: "Files parsed successfully"})
		m.filesFailed = prometheus.NewCounter(prometheus.CounterOpts{Name: "ckb_files_failed_total", Help: "Files that failed to parse"})
		m.filesSkipped = prometheus.NewCounter(prometheus.CounterOpts{Name: "ckb_files_skipped_total", Help: "Files skipped via checkpoint"})

		prometheus.MustRegister(m.parseDuration, m.filesParsed, m.filesFailed, m.filesSkipped)
	})
}

func recordParseDuration(seconds float64) { orchMetrics.init(); orchMetrics.parseDuration.Observe(seconds) }
func recordFileParsed()                   { orchMetrics.init(); orchMetrics.filesParsed.Inc() }
func recordFileFailed()                   { orchMetrics.init(); orchMetrics.filesFailed.Inc() }
func recordFileSkipped()                  { orchMetrics.init(); orchMetrics.filesSkipped.Inc() }
