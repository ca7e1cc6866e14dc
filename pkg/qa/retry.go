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

package qa

import (
	"strings"
	"time"
)

// chatRetryBackoffs is the fixed 1s/2s/4s delay schedule between chat
// attempts, rather than embedder's jittered exponential backoff. With
// maxChatAttempts at 3 only the 1s and 2s delays are ever waited; the 4s
// entry is not reached.
var chatRetryBackoffs = []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}

const maxChatAttempts = 3

// isRetryableChatError reports whether err warrants another attempt: a
// timeout, or an HTTP 429 from the provider. Any other non-2xx status
// (auth failure, bad request, 5xx) raises immediately instead.
func isRetryableChatError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "status 429") {
		return true
	}
	for _, s := range []string{"timeout", "deadline exceeded", "context deadline"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
