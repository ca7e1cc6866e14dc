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

// Package depanalyzer aggregates file-level #include dependencies into
// module-level dependencies (one module per first-level project directory),
// detects circular dependencies among modules, and scores overall
// modularity.
package depanalyzer

// FilePair identifies one file-to-file #include edge backing a module
// dependency.
type FilePair struct {
	SourceFile string
	TargetFile string
}

// ModuleDependency is an aggregated dependency edge between two modules.
type ModuleDependency struct {
	SourceModule string
	TargetModule string
	FileCount    int
	// Strength is FileCount / (number of .c files in SourceModule), capped
	// at 1.0 — the fraction of the source module's files that reach into
	// the target module.
	Strength   float64
	Files      []FilePair
	IsCircular bool
}

// ProjectDependencies is the full result of analyzing a project's module
// dependency graph.
type ProjectDependencies struct {
	ModuleDependencies   []ModuleDependency
	CircularDependencies [][]string // each entry is a cycle, as a module-name path
	ModularityScore      float64
}
