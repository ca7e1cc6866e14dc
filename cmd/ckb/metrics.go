// Copyright 2025 Arclens
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

package main

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var renderDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "ckb_render_seconds",
	Help:    "Duration of rendering a call-graph or dependency-graph export",
	Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
}, []string{"graph", "format"})

func init() {
	prometheus.MustRegister(renderDuration)
}

// startMetricsServer exposes the process's Prometheus metrics at addr until
// the process exits. A bind failure is logged, not fatal: metrics are an
// observability aid, never a reason to abort an analyze or status run.
func startMetricsServer(addr string, logger *slog.Logger) {
	if addr == "" {
		return
	}
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		logger.Info("metrics.http.start", "addr", addr, "path", "/metrics")
		if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
			logger.Warn("metrics.http.error", "err", err)
		}
	}()
}
