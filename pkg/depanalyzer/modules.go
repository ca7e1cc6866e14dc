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

package depanalyzer

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/arclens/ckb/pkg/cparser"
)

// cycleDepthCeiling bounds how deep the circular-dependency DFS will
// recurse before abandoning a search branch, guarding against pathological
// dependency graphs with very long chains.
const cycleDepthCeiling = 10

// Analyze aggregates file-level dependencies into module dependencies,
// detects cycles among modules, and scores overall modularity. projectRoot
// must be the absolute path the dependencies were resolved against; modules
// are the first path segment of each file's path relative to projectRoot.
// sourceFiles is every .c file discovered in the project (independent of
// whether it has any #include edge) and is the denominator for dependency
// strength: strength = min(1, file_count / |source_module_c_files|).
func Analyze(fileDeps []cparser.FileDependency, sourceFiles []string, projectRoot string) ProjectDependencies {
	moduleDeps := buildModuleDependencies(fileDeps, sourceFiles, projectRoot)
	cycles := detectCircularDependencies(moduleDeps)
	score := modularityScore(moduleDeps)

	return ProjectDependencies{
		ModuleDependencies:   moduleDeps,
		CircularDependencies: cycles,
		ModularityScore:      score,
	}
}

func buildModuleDependencies(fileDeps []cparser.FileDependency, sourceFiles []string, projectRoot string) []ModuleDependency {
	type key struct{ source, target string }
	grouped := make(map[key][]FilePair)

	for _, dep := range fileDeps {
		if dep.IsSystem || dep.TargetPath == "" {
			continue
		}

		relSource, ok := relativeTo(dep.SourcePath, projectRoot)
		if !ok {
			continue
		}
		relTarget, ok := relativeTo(dep.TargetPath, projectRoot)
		if !ok {
			continue
		}

		sourceModule := firstSegment(relSource)
		targetModule := firstSegment(relTarget)
		if sourceModule == targetModule {
			continue
		}

		k := key{sourceModule, targetModule}
		grouped[k] = append(grouped[k], FilePair{SourceFile: dep.SourcePath, TargetFile: dep.TargetPath})
	}

	// moduleCFileCount counts every .c file under each module, independent
	// of whether it happens to have an outgoing dependency — this is the
	// denominator for dependency strength.
	moduleCFileCount := make(map[string]int)
	for _, path := range sourceFiles {
		if !strings.HasSuffix(path, ".c") {
			continue
		}
		rel, ok := relativeTo(path, projectRoot)
		if !ok {
			continue
		}
		moduleCFileCount[firstSegment(rel)]++
	}

	var out []ModuleDependency
	for k, files := range grouped {
		count := moduleCFileCount[k.source]
		if count == 0 {
			count = 1
		}
		strength := float64(len(files)) / float64(count)
		if strength > 1.0 {
			strength = 1.0
		}
		out = append(out, ModuleDependency{
			SourceModule: k.source,
			TargetModule: k.target,
			FileCount:    len(files),
			Strength:     strength,
			Files:        files,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].SourceModule != out[j].SourceModule {
			return out[i].SourceModule < out[j].SourceModule
		}
		return out[i].TargetModule < out[j].TargetModule
	})
	return out
}

func relativeTo(path, root string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return rel, true
}

func firstSegment(relPath string) string {
	relPath = filepath.ToSlash(relPath)
	parts := strings.SplitN(relPath, "/", 2)
	if len(parts) < 2 || parts[0] == "" {
		return "root"
	}
	return parts[0]
}

// detectCircularDependencies runs a DFS from every module, looking for a
// back-edge to a module already on the current path, and marks every
// ModuleDependency whose endpoints both appear in some discovered cycle.
func detectCircularDependencies(moduleDeps []ModuleDependency) [][]string {
	graph := make(map[string]map[string]bool)
	for _, dep := range moduleDeps {
		if graph[dep.SourceModule] == nil {
			graph[dep.SourceModule] = make(map[string]bool)
		}
		graph[dep.SourceModule][dep.TargetModule] = true
	}

	var allCycles [][]string
	seenCycles := make(map[string]bool)

	var findCycles func(node string, path []string, visited map[string]bool)
	findCycles = func(node string, path []string, visited map[string]bool) {
		if len(path) >= cycleDepthCeiling {
			return
		}
		path = append(path, node)
		visited = cloneSet(visited)
		visited[node] = true

		for neighbor := range graph[node] {
			if idx := indexOf(path, neighbor); idx >= 0 {
				cycle := append(append([]string{}, path[idx:]...), neighbor)
				sig := strings.Join(cycle, "->")
				if !seenCycles[sig] {
					seenCycles[sig] = true
					allCycles = append(allCycles, cycle)
				}
				continue
			}
			if !visited[neighbor] {
				findCycles(neighbor, append([]string{}, path...), visited)
			}
		}
	}

	visitedStarts := make(map[string]bool)
	var modules []string
	for m := range graph {
		modules = append(modules, m)
	}
	sort.Strings(modules)
	for _, m := range modules {
		if !visitedStarts[m] {
			findCycles(m, nil, make(map[string]bool))
			visitedStarts[m] = true
		}
	}

	for i := range moduleDeps {
		dep := &moduleDeps[i]
		for _, cycle := range allCycles {
			if containsAll(cycle, dep.SourceModule, dep.TargetModule) {
				dep.IsCircular = true
				break
			}
		}
	}

	return allCycles
}

func cloneSet(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func indexOf(path []string, target string) int {
	for i, p := range path {
		if p == target {
			return i
		}
	}
	return -1
}

func containsAll(cycle []string, a, b string) bool {
	var hasA, hasB bool
	for _, m := range cycle {
		if m == a {
			hasA = true
		}
		if m == b {
			hasB = true
		}
	}
	return hasA && hasB
}

// modularityScore combines dependency density, average dependency strength,
// and the fraction of dependencies that participate in a cycle into a
// single 0-1 score, higher being more modular. Weights (0.4/0.3/0.3) mirror
// the relative emphasis on breadth of coupling over any single dependency's
// strength or its involvement in a cycle.
func modularityScore(moduleDeps []ModuleDependency) float64 {
	if len(moduleDeps) == 0 {
		return 1.0
	}

	modules := make(map[string]bool)
	for _, dep := range moduleDeps {
		modules[dep.SourceModule] = true
		modules[dep.TargetModule] = true
	}
	moduleCount := len(modules)
	if moduleCount <= 1 {
		return 1.0
	}

	maxPossible := float64(moduleCount * (moduleCount - 1))
	actual := float64(len(moduleDeps))
	density := actual / maxPossible

	var strengthSum float64
	var circularCount int
	for _, dep := range moduleDeps {
		strengthSum += dep.Strength
		if dep.IsCircular {
			circularCount++
		}
	}
	avgStrength := strengthSum / actual
	circularRatio := float64(circularCount) / actual

	score := 1.0 - (0.4*density + 0.3*avgStrength + 0.3*circularRatio)
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score
}
