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

package storage

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// metricsStorage holds Prometheus metrics for the storage backend.
type metricsStorage struct {
	once sync.Once

	queryDuration *prometheus.HistogramVec
	queryErrors   *prometheus.CounterVec
}

var storeMetrics metricsStorage

func (m *metricsStorage) init() {
	m.once.Do(func() {
		buckets := []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}
		m.queryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "ckb_storage_query_seconds", Help: "Duration of a Datalog query or mutation", Buckets: buckets}, []string{"op"})
		m.queryErrors = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "ckb_storage_errors_total", Help: "Datalog operations that returned an error"}, []string{"op"})

		prometheus.MustRegister(m.queryDuration, m.queryErrors)
	})
}

func recordQueryDuration(op string, seconds float64) {
	storeMetrics.init()
	storeMetrics.queryDuration.WithLabelValues(op).Observe(seconds)
}

func recordQueryError(op string) {
	storeMetrics.init()
	storeMetrics.queryErrors.WithLabelValues(op).Inc()
}
