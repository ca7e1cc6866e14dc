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
	"io/fs"
	"path/filepath"
	"strings"
)

// defaultExcludeGlobs skips VCS metadata and common build-output trees that
// are never worth parsing as project sources.
var defaultExcludeGlobs = []string{
	".git/**", ".svn/**", ".hg/**",
	"build/**", "cmake-build-*/**", "out/**", "dist/**",
	"third_party/**", "vendor/**", "node_modules/**",
}

func isCSource(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".c" || ext == ".h"
}

// discoverSources walks root and returns every .c/.h file not matched by an
// exclude glob, matched by an include glob when any are given, and not
// exceeding maxFileSize (0 = unlimited).
func discoverSources(root string, excludeGlobs, includeGlobs []string, maxFileSize int64) ([]SourceFile, error) {
	globs := append(append([]string{}, defaultExcludeGlobs...), excludeGlobs...)

	var files []SourceFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		if rel == "." {
			return nil
		}
		normalized := filepath.ToSlash(rel)

		if d.IsDir() {
			if matchesAnyGlob(normalized+"/", globs) {
				return filepath.SkipDir
			}
			return nil
		}
		if !isCSource(normalized) || matchesAnyGlob(normalized, globs) {
			return nil
		}
		if len(includeGlobs) > 0 && !matchesAnyGlob(normalized, includeGlobs) {
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return nil
		}
		if maxFileSize > 0 && info.Size() > maxFileSize {
			return nil
		}

		files = append(files, SourceFile{
			Path:     normalized,
			FullPath: path,
			Size:     info.Size(),
			ModTime:  info.ModTime().Unix(),
		})
		return nil
	})
	return files, err
}

// matchesAnyGlob reports whether path matches any of the `dir/**` or
// `*.ext`-style patterns in globs. It intentionally supports only the small
// pattern vocabulary an exclude list actually needs, not a general globber.
func matchesAnyGlob(path string, globs []string) bool {
	for _, pattern := range globs {
		if matchesGlob(path, pattern) {
			return true
		}
	}
	return false
}

func matchesGlob(path, pattern string) bool {
	pattern = filepath.ToSlash(pattern)

	if strings.HasSuffix(pattern, "/**") {
		prefix := strings.TrimSuffix(pattern, "/**")
		if strings.Contains(prefix, "*") {
			return matchesGlobStar(path, prefix)
		}
		return path == prefix+"/" || strings.HasPrefix(path, prefix+"/")
	}

	if strings.HasPrefix(pattern, "*.") && !strings.Contains(pattern, "/") {
		return strings.HasSuffix(strings.TrimSuffix(path, "/"), pattern[1:])
	}

	return path == pattern
}

// matchesGlobStar matches a single path segment containing `*` against the
// corresponding segment of path (used for patterns like "cmake-build-*").
func matchesGlobStar(path, prefixPattern string) bool {
	segments := strings.Split(strings.TrimSuffix(path, "/"), "/")
	for _, seg := range segments {
		if globSegmentMatch(seg, prefixPattern) {
			return true
		}
	}
	return false
}

func globSegmentMatch(seg, pattern string) bool {
	starIdx := strings.Index(pattern, "*")
	if starIdx < 0 {
		return seg == pattern
	}
	return strings.HasPrefix(seg, pattern[:starIdx]) && strings.HasSuffix(seg, pattern[starIdx+1:])
}
