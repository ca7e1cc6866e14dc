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
	"github.com/schollz/progressbar/v3"

	"github.com/arclens/ckb/internal/output"
)

func printJSON(v any) {
	_ = output.JSON(v)
}

// progressBarHandle wraps a possibly-nil progress bar so callers don't need
// a nil check at every update site.
type progressBarHandle struct {
	bar *progressbar.ProgressBar
}

func newProgressBarHandle(cfg ProgressConfig, total int, description string) *progressBarHandle {
	return &progressBarHandle{bar: NewProgressBar(cfg, int64(total), description)}
}

func (h *progressBarHandle) set(n int) {
	if h.bar != nil {
		_ = h.bar.Set(n)
	}
}

func (h *progressBarHandle) finish() {
	if h.bar != nil {
		_ = h.bar.Finish()
	}
}
