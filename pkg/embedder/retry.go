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
	"math/rand"
	"strings"
	"time"
)

// RetryConfig controls the exponential-backoff retry loop around a
// Provider.Embed call.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64
}

// DefaultRetryConfig matches the provider HTTP calls' general shape: three
// attempts, starting at 1s and doubling, capped at 4s.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{MaxRetries: 3, InitialBackoff: time.Second, MaxBackoff: 4 * time.Second, Multiplier: 2.0}
}

// isRetryable classifies an error as transient: connection resets, timeouts,
// and HTTP 429/5xx responses are retried; anything else (bad request, auth
// failure, malformed response) is not.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"timeout", "connection refused", "connection reset", "deadline exceeded", "eof", "temporarily unavailable"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	for _, s := range []string{"status 429", "status 500", "status 502", "status 503", "status 504"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// backoffWithJitter returns a full-jitter exponential backoff duration for
// the given attempt number (0-based).
func backoffWithJitter(cfg RetryConfig, attempt int) time.Duration {
	exp := float64(cfg.InitialBackoff)
	for i := 0; i < attempt; i++ {
		exp *= cfg.Multiplier
	}
	d := time.Duration(exp)
	if d > cfg.MaxBackoff {
		d = cfg.MaxBackoff
	}
	if d <= 0 {
		return cfg.InitialBackoff
	}
	return time.Duration(rand.Int63n(int64(d) + 1))
}
