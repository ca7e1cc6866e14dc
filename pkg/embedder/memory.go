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
	"bufio"
	"os"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"
)

// MemoryManager reports memory pressure so the embedder can back off its
// batch size before a large batch triggers an OOM, and can release caches
// between batches.
type MemoryManager interface {
	// UsagePercent returns current memory utilization in [0, 100]. On
	// platforms without a reliable signal it returns 0, which means
	// pressure-based back-off never triggers there.
	UsagePercent() float64
	// FreeCaches releases what Go can give back to the OS.
	FreeCaches()
	// HasGPUCache reports whether a GPU-resident cache exists that a
	// provider might need cleared; the default manager never has one.
	HasGPUCache() bool
}

// SystemMemoryManager reads /proc/meminfo on Linux; on every other platform
// UsagePercent always reports 0 (a documented limitation, not a bug — there
// is no portable zero-dependency way to read memory pressure here).
type SystemMemoryManager struct{}

func NewSystemMemoryManager() *SystemMemoryManager { return &SystemMemoryManager{} }

func (m *SystemMemoryManager) UsagePercent() float64 {
	if runtime.GOOS != "linux" {
		return 0
	}
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0
	}
	defer f.Close()

	var total, available float64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "MemTotal:"):
			total = parseMeminfoKB(line)
		case strings.HasPrefix(line, "MemAvailable:"):
			available = parseMeminfoKB(line)
		}
	}
	if total == 0 {
		return 0
	}
	used := total - available
	return (used / total) * 100
}

func parseMeminfoKB(line string) float64 {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0
	}
	v, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0
	}
	return v
}

func (m *SystemMemoryManager) FreeCaches() {
	runtime.GC()
	debug.FreeOSMemory()
}

func (m *SystemMemoryManager) HasGPUCache() bool { return false }

// memoryPressureThreshold is the UsagePercent above which the batch
// embedder halves its batch size before continuing.
const memoryPressureThreshold = 85.0

// minBatchSize is the floor the back-off logic will not shrink below.
const minBatchSize = 5
