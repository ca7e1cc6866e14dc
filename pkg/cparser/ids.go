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
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
)

// GenerateFileID produces a deterministic ID for a source file: the
// normalized path directly, or a hash of it when the path is too long to
// carry around as an ID.
func GenerateFileID(filePath string) string {
	normalized := normalizePath(filePath)
	if len(normalized) <= 256 {
		return fmt.Sprintf("file:%s", normalized)
	}
	hash := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("file:%s", hex.EncodeToString(hash[:16]))
}

// GenerateFunctionID produces a deterministic function ID from
// hash(path + name + start_line + end_line + start_col + end_col). The
// function's signature is deliberately excluded so that IDs stay stable
// across parser improvements to signature extraction; columns are included
// to avoid collisions between functions sharing a line range.
func GenerateFunctionID(filePath, name string, startLine, endLine, startCol, endCol int) string {
	normalized := normalizePath(filePath)
	idStr := fmt.Sprintf("%s|%s|%d|%d|%d|%d", normalized, name, startLine, endLine, startCol, endCol)
	hash := sha256.Sum256([]byte(idStr))
	return fmt.Sprintf("func:%s", hex.EncodeToString(hash[:]))
}

// normalizePath makes a path stable for ID generation across platforms:
// strips a leading "./", cleans it, forces forward slashes, and drops any
// leading "/" so absolute and relative paths to the same file agree.
func normalizePath(path string) string {
	if len(path) >= 2 && path[0:2] == "./" {
		path = path[2:]
	}
	path = filepath.Clean(path)
	path = filepath.ToSlash(path)
	if len(path) > 0 && path[0] == '/' {
		path = path[1:]
	}
	return path
}
