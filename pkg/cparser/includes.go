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

package cparser

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// includeRE matches both quoted and angle-bracket #include directives,
// capturing the delimiter and the raw path argument separately.
var includeRE = regexp.MustCompile(`^\s*#\s*include\s*(["<])([^">]+)([">])`)

// ancestorSearchDepth bounds how many parent directories the quoted-include
// resolver climbs looking for a candidate header directory.
const ancestorSearchDepth = 3

// candidateHeaderDirs are the directory names checked at each ancestor level
// when a quoted #include cannot be found relative to the including file.
var candidateHeaderDirs = []string{"include", "inc", "headers"}

// ExtractIncludes scans path line by line for #include directives and
// attempts to resolve each one against projectRoot. System includes
// (#include <...>) that happen to resolve inside the project are
// reclassified as project-local; quoted includes that cannot be resolved
// anywhere are still recorded, with TargetPath left empty and
// UnresolvedQuote holding the raw argument for diagnostics.
func ExtractIncludes(path, projectRoot string) ([]FileDependency, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var deps []FileDependency
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		m := includeRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		delim, raw := m[1], m[2]
		isSystemSyntax := delim == "<"

		dep := FileDependency{
			SourcePath:      path,
			LineNumber:      lineNo,
			DependencyType:  "include",
			IsSystem:        isSystemSyntax,
			UnresolvedQuote: raw,
		}

		if resolved := resolveInclude(path, projectRoot, raw); resolved != "" {
			dep.TargetPath = resolved
			dep.IsSystem = false // resolves inside the project regardless of <> vs "" syntax
		}

		deps = append(deps, dep)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return deps, nil
}

// resolveInclude applies the heuristic: check the including file's own
// directory first, then its parent, then up to ancestorSearchDepth further
// ancestors each combined with candidateHeaderDirs.
func resolveInclude(sourcePath, projectRoot, raw string) string {
	base := filepath.Dir(sourcePath)

	if hit := tryResolve(base, raw); hit != "" {
		return hit
	}
	parent := filepath.Dir(base)
	if hit := tryResolve(parent, raw); hit != "" {
		return hit
	}

	dir := parent
	for i := 0; i < ancestorSearchDepth; i++ {
		dir = filepath.Dir(dir)
		if !strings.HasPrefix(dir, projectRoot) {
			break
		}
		for _, candidate := range candidateHeaderDirs {
			if hit := tryResolve(filepath.Join(dir, candidate), raw); hit != "" {
				return hit
			}
		}
	}
	return ""
}

func tryResolve(dir, raw string) string {
	candidate := filepath.Join(dir, raw)
	if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
		return candidate
	}
	return ""
}
